// Package feed loads the StarRailRes index feeds (characters, paths and
// elements) that drive every dataset run.
package feed

import (
	"context"
	"strconv"
	"time"

	"github.com/tidwall/gjson"

	"github.com/hsrdle/datagen/internal/errors"
	"github.com/hsrdle/datagen/internal/httpclient"
	"github.com/hsrdle/datagen/internal/logger"
	"github.com/hsrdle/datagen/internal/observability/metrics"
)

// Feed names, as they appear under index_new/<lang>/.
const (
	Characters = "characters"
	Paths      = "paths"
	Elements   = "elements"
)

// UnknownName is used for paths and elements the feeds do not define.
const UnknownName = "Unknown"

// DefaultRarity applies to character entries without a rarity field.
const DefaultRarity = 4

// Character is one entry of the characters feed.
type Character struct {
	ID        int
	Name      string
	PathID    string
	ElementID string
	Rarity    int
	Icon      string // remote path relative to the upstream base, may be empty
}

// Entity is a path or element definition.
type Entity struct {
	ID   string
	Name string
	Icon string
}

// Feeds holds the three parsed feeds of one run. Characters keep the order
// in which they appear in the source document.
type Feeds struct {
	Characters []Character
	Paths      map[string]Entity
	Elements   map[string]Entity
}

// Path resolves a path id. Unknown ids yield UnknownName and no icon.
func (f *Feeds) Path(id string) Entity {
	return lookup(f.Paths, id)
}

// Element resolves an element id. Unknown ids yield UnknownName and no icon.
func (f *Feeds) Element(id string) Entity {
	return lookup(f.Elements, id)
}

func lookup(entities map[string]Entity, id string) Entity {
	if e, ok := entities[id]; ok {
		return e
	}
	return Entity{ID: id, Name: UnknownName}
}

// Client fetches and parses the feeds.
type Client struct {
	http    *httpclient.Client
	feedURL func(name string) string
	metrics *metrics.FeedMetrics
}

// Option configures a Client.
type Option func(*Client)

// WithMetrics records fetch counts and durations.
func WithMetrics(m *metrics.FeedMetrics) Option {
	return func(c *Client) { c.metrics = m }
}

// NewClient returns a feed client. feedURL maps a feed name to its URL.
func NewClient(hc *httpclient.Client, feedURL func(name string) string, opts ...Option) *Client {
	c := &Client{http: hc, feedURL: feedURL}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load fetches all three feeds. Any failure is fatal for the run.
func (c *Client) Load(ctx context.Context) (*Feeds, error) {
	log := GetLogger()

	charsDoc, err := c.fetch(ctx, Characters)
	if err != nil {
		return nil, err
	}
	pathsDoc, err := c.fetch(ctx, Paths)
	if err != nil {
		return nil, err
	}
	elemsDoc, err := c.fetch(ctx, Elements)
	if err != nil {
		return nil, err
	}

	feeds := &Feeds{
		Characters: c.parseCharacters(charsDoc),
		Paths:      parseEntities(pathsDoc, "text"),
		Elements:   parseEntities(elemsDoc, "name"),
	}

	c.metrics.SetEntries(Characters, len(feeds.Characters))
	c.metrics.SetEntries(Paths, len(feeds.Paths))
	c.metrics.SetEntries(Elements, len(feeds.Elements))

	log.Info("metadata feeds loaded",
		logger.Int("characters", len(feeds.Characters)),
		logger.Int("paths", len(feeds.Paths)),
		logger.Int("elements", len(feeds.Elements)))

	return feeds, nil
}

// fetch downloads one feed and checks that it is a JSON object.
func (c *Client) fetch(ctx context.Context, name string) (gjson.Result, error) {
	url := c.feedURL(name)
	start := time.Now()

	body, err := c.http.Fetch(ctx, url)
	if err != nil {
		c.metrics.RecordFetch(name, time.Since(start).Seconds(), err)
		builder := errors.Newf("failed to fetch %s feed: %w", name, err).
			Component("feed").
			Category(errors.CategoryNetwork).
			Context("feed", name).
			Context("url", url).
			Timing("fetch_feed", time.Since(start))
		var statusErr *httpclient.StatusError
		if errors.As(err, &statusErr) {
			builder = builder.Context("status_code", statusErr.StatusCode)
		}
		return gjson.Result{}, builder.Build()
	}

	if !gjson.ValidBytes(body) {
		err := errors.Newf("%s feed is not valid JSON", name).
			Component("feed").
			Category(errors.CategoryFileParsing).
			Context("feed", name).
			Context("url", url).
			Context("body_bytes", len(body)).
			Build()
		c.metrics.RecordFetch(name, time.Since(start).Seconds(), err)
		return gjson.Result{}, err
	}

	doc := gjson.ParseBytes(body)
	if !doc.IsObject() {
		err := errors.Newf("%s feed is not a JSON object", name).
			Component("feed").
			Category(errors.CategoryFileParsing).
			Context("feed", name).
			Context("url", url).
			Build()
		c.metrics.RecordFetch(name, time.Since(start).Seconds(), err)
		return gjson.Result{}, err
	}

	c.metrics.RecordFetch(name, time.Since(start).Seconds(), nil)
	GetLogger().Debug("feed fetched",
		logger.String("feed", name),
		logger.Int("bytes", len(body)),
		logger.Duration("elapsed", time.Since(start)))
	return doc, nil
}

// parseCharacters walks the characters object in document order.
func (c *Client) parseCharacters(doc gjson.Result) []Character {
	var chars []Character
	doc.ForEach(func(key, value gjson.Result) bool {
		id, err := strconv.Atoi(key.String())
		if err != nil || id <= 0 {
			c.metrics.IncSkipped()
			GetLogger().Warn("skipping character entry with non-numeric key",
				logger.String("key", key.String()))
			return true
		}

		rarity := DefaultRarity
		if r := value.Get("rarity"); r.Exists() {
			rarity = int(r.Int())
		}

		chars = append(chars, Character{
			ID:        id,
			Name:      value.Get("name").String(),
			PathID:    value.Get("path").String(),
			ElementID: value.Get("element").String(),
			Rarity:    rarity,
			Icon:      value.Get("icon").String(),
		})
		return true
	})
	return chars
}

// parseEntities reads a path or element feed. nameField selects the
// human-readable name ("text" for paths, "name" for elements).
func parseEntities(doc gjson.Result, nameField string) map[string]Entity {
	entities := make(map[string]Entity)
	doc.ForEach(func(key, value gjson.Result) bool {
		name := UnknownName
		if n := value.Get(nameField); n.Exists() {
			name = n.String()
		}
		entities[key.String()] = Entity{
			ID:   key.String(),
			Name: name,
			Icon: value.Get("icon").String(),
		}
		return true
	})
	return entities
}
