// Package identity derives a character's gender and display name from its id.
package identity

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Gender is the classification emitted in the dataset.
type Gender string

const (
	Female    Gender = "Female"
	Male      Gender = "Male"
	Uncertain Gender = "Uncertain"
	Unknown   Gender = "Unknown"
)

// PlaceholderName is the feed's stand-in for the player-chosen protagonist name.
const PlaceholderName = "{NICKNAME}"

const (
	femalePersona = "Stelle"
	malePersona   = "Caelus"
)

// Identity is the resolved gender and display name of one character.
type Identity struct {
	Gender Gender
	Name   string
}

//go:embed genders.yaml
var gendersYAML []byte

type genderTable struct {
	Female    []int `yaml:"female"`
	Male      []int `yaml:"male"`
	Uncertain []int `yaml:"uncertain"`
}

// Table maps character ids to their gender class.
type Table struct {
	classes map[int]Gender
}

var defaultTable = MustParseTable(gendersYAML)

// ParseTable decodes a YAML gender table. Classes must be disjoint.
func ParseTable(data []byte) (*Table, error) {
	var raw genderTable
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse gender table: %w", err)
	}

	t := &Table{classes: make(map[int]Gender, len(raw.Female)+len(raw.Male)+len(raw.Uncertain))}
	for _, class := range []struct {
		gender Gender
		ids    []int
	}{
		{Female, raw.Female},
		{Male, raw.Male},
		{Uncertain, raw.Uncertain},
	} {
		for _, id := range class.ids {
			if prev, dup := t.classes[id]; dup {
				return nil, fmt.Errorf("character %d listed as both %s and %s", id, prev, class.gender)
			}
			t.classes[id] = class.gender
		}
	}

	return t, nil
}

// MustParseTable is ParseTable that panics on error.
func MustParseTable(data []byte) *Table {
	t, err := ParseTable(data)
	if err != nil {
		panic(err)
	}
	return t
}

// Gender returns the class containing id, or Unknown.
func (t *Table) Gender(id int) Gender {
	if g, ok := t.classes[id]; ok {
		return g
	}
	return Unknown
}

// Resolve classifies id and, for placeholder entries, builds the protagonist
// display name "<Persona> (Trailblazer / <pathName>)".
func (t *Table) Resolve(id int, name, pathName string) Identity {
	gender := t.Gender(id)
	if name != PlaceholderName {
		return Identity{Gender: gender, Name: name}
	}

	persona := malePersona
	if gender == Female {
		persona = femalePersona
	}

	return Identity{
		Gender: gender,
		Name:   fmt.Sprintf("%s (Trailblazer / %s)", persona, pathName),
	}
}

// Resolve uses the embedded gender table.
func Resolve(id int, name, pathName string) Identity {
	return defaultTable.Resolve(id, name, pathName)
}

// GenderOf uses the embedded gender table.
func GenderOf(id int) Gender {
	return defaultTable.Gender(id)
}
