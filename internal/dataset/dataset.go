// Package dataset assembles character records from the metadata feeds, the
// identity table, the icon cache and the wiki, and writes the final artifact.
package dataset

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/hsrdle/datagen/internal/errors"
	"github.com/hsrdle/datagen/internal/feed"
	"github.com/hsrdle/datagen/internal/identity"
	"github.com/hsrdle/datagen/internal/imagecache"
	"github.com/hsrdle/datagen/internal/logger"
	"github.com/hsrdle/datagen/internal/observability/metrics"
	"github.com/hsrdle/datagen/internal/wiki"
)

// dirPermissions is used for the icon directories.
const dirPermissions = 0o750

// FeedLoader provides the metadata feeds.
type FeedLoader interface {
	Load(ctx context.Context) (*feed.Feeds, error)
}

// ImageCache mirrors one remote icon to a local path.
type ImageCache interface {
	EnsureCached(ctx context.Context, remotePath, localPath string) imagecache.Outcome
}

// AttributeSource looks up wiki attributes by display name.
type AttributeSource interface {
	FetchAttributes(ctx context.Context, displayName string) wiki.Attributes
}

// Pipeline builds a Dataset.
type Pipeline struct {
	feeds    FeedLoader
	images   ImageCache
	wiki     AttributeSource
	dirs     Dirs
	workers  int
	metrics  *metrics.DatasetMetrics
	progress func(done, total int)
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithDirs overrides the icon directories.
func WithDirs(d Dirs) Option {
	return func(p *Pipeline) { p.dirs = d }
}

// WithWorkers processes up to n entries at once. Output order is unaffected.
func WithWorkers(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.workers = n
		}
	}
}

// WithMetrics records per-run counters.
func WithMetrics(m *metrics.DatasetMetrics) Option {
	return func(p *Pipeline) { p.metrics = m }
}

// WithProgress calls fn after each finished entry. Calls are serialized.
func WithProgress(fn func(done, total int)) Option {
	return func(p *Pipeline) { p.progress = fn }
}

// NewPipeline returns a pipeline with one worker and the default directories.
func NewPipeline(feeds FeedLoader, images ImageCache, attrs AttributeSource, opts ...Option) *Pipeline {
	p := &Pipeline{
		feeds:   feeds,
		images:  images,
		wiki:    attrs,
		dirs:    DefaultDirs(),
		workers: 1,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Build runs the pipeline once. It fails only when the feeds cannot be
// loaded, the icon directories cannot be created or ctx is cancelled; a
// failing entry still yields a record with degraded values.
func (p *Pipeline) Build(ctx context.Context) (Dataset, error) {
	runID := uuid.NewString()
	ctx = logger.WithTraceID(ctx, runID)
	log := GetLogger().WithContext(ctx)
	start := time.Now()

	log.Info("fetching metadata")
	feeds, err := p.feeds.Load(ctx)
	if err != nil {
		return nil, err
	}

	if err := p.prepareDirs(); err != nil {
		return nil, err
	}

	log.Info("processing characters",
		logger.Int("characters", len(feeds.Characters)),
		logger.Int("workers", p.workers))

	records := make(Dataset, len(feeds.Characters))
	report := p.progressReporter(len(records))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for i, char := range feeds.Characters {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			records[i] = p.buildRecord(gctx, feeds, char)
			p.metrics.IncRecords()
			report()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, cancelled(err)
	}
	if err := ctx.Err(); err != nil {
		return nil, cancelled(err)
	}

	elapsed := time.Since(start)
	p.metrics.SetRunDuration(elapsed.Seconds())
	log.Info("dataset built",
		logger.Int("records", len(records)),
		logger.Duration("elapsed", elapsed))

	return records, nil
}

// progressReporter returns a function counting finished entries.
func (p *Pipeline) progressReporter(total int) func() {
	if p.progress == nil {
		return func() {}
	}
	var mu sync.Mutex
	done := 0
	return func() {
		mu.Lock()
		defer mu.Unlock()
		done++
		p.progress(done, total)
	}
}

func cancelled(err error) error {
	return errors.New(err).
		Component("dataset").
		Category(errors.CategoryCancellation).
		Context("operation", "build").
		Build()
}

func (p *Pipeline) prepareDirs() error {
	for _, dir := range p.dirs.all() {
		if err := os.MkdirAll(dir, dirPermissions); err != nil {
			return errors.New(err).
				Component("dataset").
				Category(errors.CategoryFileIO).
				Context("operation", "prepare_dirs").
				Context("dir", dir).
				Build()
		}
	}
	return nil
}

// buildRecord assembles one record. The record starts from degraded values
// and is filled in step by step, so a panic in any step keeps what was
// already resolved.
func (p *Pipeline) buildRecord(ctx context.Context, feeds *feed.Feeds, char feed.Character) (rec Record) {
	rec = Record{
		ID:          char.ID,
		Name:        char.Name,
		Gender:      identity.Unknown,
		Rarity:      char.Rarity,
		Path:        feed.UnknownName,
		Element:     feed.UnknownName,
		Affiliation: []string{},
		Image:       characterIconPath(p.dirs.Characters, char.ID),
		PathImg:     iconPath(p.dirs.Paths, char.PathID),
		ElementImg:  iconPath(p.dirs.Elements, char.ElementID),
		Species:     wiki.Unknown,
		Release:     wiki.Unknown,
	}

	defer func() {
		if r := recover(); r != nil {
			p.metrics.IncPanics()
			GetLogger().WithContext(ctx).Error("character processing panicked, emitting degraded record",
				logger.Int("id", char.ID),
				logger.String("name", char.Name),
				logger.String("panic", fmt.Sprint(r)))
		}
	}()

	path := feeds.Path(char.PathID)
	element := feeds.Element(char.ElementID)
	rec.Path = path.Name
	rec.Element = element.Name

	id := identity.Resolve(char.ID, char.Name, path.Name)
	rec.Gender = id.Gender
	rec.Name = id.Name

	if char.Icon != "" {
		p.images.EnsureCached(ctx, char.Icon, rec.Image)
	}
	if path.Icon != "" {
		p.images.EnsureCached(ctx, path.Icon, rec.PathImg)
	}
	if element.Icon != "" {
		p.images.EnsureCached(ctx, element.Icon, rec.ElementImg)
	}

	rec.applyAttributes(p.wiki.FetchAttributes(ctx, rec.Name))
	return rec
}
