package dataset

import (
	"path/filepath"
	"strconv"

	"github.com/hsrdle/datagen/internal/identity"
	"github.com/hsrdle/datagen/internal/wiki"
)

// Record is one character of the output dataset. Field order is the JSON key order.
type Record struct {
	ID          int             `json:"id"`
	Name        string          `json:"name"`
	Gender      identity.Gender `json:"gender"`
	Rarity      int             `json:"rarity"`
	Path        string          `json:"path"`
	Element     string          `json:"element"`
	Affiliation []string        `json:"affiliation"`
	Image       string          `json:"image"`
	PathImg     string          `json:"path_img"`
	ElementImg  string          `json:"element_img"`
	Species     string          `json:"species"`
	Release     string          `json:"release"`
}

// Dataset is the ordered output of one run.
type Dataset []Record

// Dirs are the local icon directories.
type Dirs struct {
	Characters string
	Paths      string
	Elements   string
}

// DefaultDirs returns the directories under assets/.
func DefaultDirs() Dirs {
	return Dirs{
		Characters: filepath.Join("assets", "characters"),
		Paths:      filepath.Join("assets", "paths"),
		Elements:   filepath.Join("assets", "elements"),
	}
}

func (d Dirs) all() []string {
	return []string{d.Characters, d.Paths, d.Elements}
}

// iconPath returns "<dir>/<id>.png" with forward slashes, as the front-end expects.
func iconPath(dir, id string) string {
	return filepath.ToSlash(filepath.Join(dir, id+".png"))
}

func characterIconPath(dir string, id int) string {
	return iconPath(dir, strconv.Itoa(id))
}

// applyAttributes copies wiki attributes into r.
func (r *Record) applyAttributes(a wiki.Attributes) {
	r.Species = a.Species
	r.Release = a.Release
	r.Affiliation = a.Affiliation
	if r.Affiliation == nil {
		r.Affiliation = []string{}
	}
}
