// Package wiki scrapes character attributes (species, release date and
// factions) from the infobox of the Honkai: Star Rail fandom wiki.
package wiki

import (
	"bytes"
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/hsrdle/datagen/internal/errors"
	"github.com/hsrdle/datagen/internal/httpclient"
	"github.com/hsrdle/datagen/internal/logger"
	"github.com/hsrdle/datagen/internal/observability/metrics"
)

const (
	// DefaultBaseURL is the wiki article root.
	DefaultBaseURL = "https://honkai-star-rail.fandom.com/wiki"
	// DefaultTimeout bounds one page fetch.
	DefaultTimeout = 10 * time.Second
	// DefaultRateLimit is the request rate towards the wiki host, per second.
	DefaultRateLimit = 2.0

	// Unknown is the value of attributes the page does not provide.
	Unknown = "Unknown"
)

// Attributes are the wiki-sourced fields of a character record.
type Attributes struct {
	Species     string
	Release     string
	Affiliation []string
}

// DefaultAttributes returns the values used when a page is missing or unreadable.
func DefaultAttributes() Attributes {
	return Attributes{
		Species:     Unknown,
		Release:     Unknown,
		Affiliation: []string{},
	}
}

var pageKeyReplacer = strings.NewReplacer(" ", "_", "&", "%26")

// PageKey converts a display name into a wiki article key. Only spaces and
// ampersands are rewritten.
func PageKey(displayName string) string {
	return pageKeyReplacer.Replace(displayName)
}

// Scraper fetches and parses wiki pages. Safe for concurrent use.
type Scraper struct {
	http    *httpclient.Client
	baseURL string
	timeout time.Duration
	limiter *rate.Limiter
	metrics *metrics.WikiMetrics
}

// Option configures a Scraper.
type Option func(*Scraper)

// WithTimeout sets the per-page timeout.
func WithTimeout(d time.Duration) Option {
	return func(s *Scraper) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithRateLimit limits requests to rps per second with the given burst.
// A non-positive rps disables limiting.
func WithRateLimit(rps float64, burst int) Option {
	return func(s *Scraper) {
		if rps <= 0 {
			s.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithMetrics records lookup results and durations.
func WithMetrics(m *metrics.WikiMetrics) Option {
	return func(s *Scraper) { s.metrics = m }
}

// New returns a Scraper for the wiki rooted at baseURL.
func New(hc *httpclient.Client, baseURL string, opts ...Option) *Scraper {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	s := &Scraper{
		http:    hc,
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: DefaultTimeout,
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), 1),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PageURL returns the article URL for a display name.
func (s *Scraper) PageURL(displayName string) string {
	return s.baseURL + "/" + PageKey(displayName)
}

// FetchAttributes looks up a character's wiki page. Any transport or parse
// failure is logged and yields DefaultAttributes.
func (s *Scraper) FetchAttributes(ctx context.Context, displayName string) Attributes {
	reqID := uuid.New().String()[:8]
	url := s.PageURL(displayName)
	log := GetLogger().With(
		logger.String("character", displayName),
		logger.String("request_id", reqID))

	start := time.Now()
	attrs, result, err := s.fetch(ctx, url)
	s.metrics.RecordLookup(result, time.Since(start).Seconds())

	switch {
	case errors.IsNotFound(err):
		log.Info("no wiki page, using defaults", logger.String("url", url))
		return DefaultAttributes()
	case err != nil:
		log.Warn("wiki lookup failed, using defaults",
			logger.String("url", url),
			logger.Error(err))
		return DefaultAttributes()
	case result == metrics.WikiNoInfobox:
		log.Debug("wiki page has no infobox", logger.String("url", url))
	default:
		log.Debug("wiki attributes parsed",
			logger.String("species", attrs.Species),
			logger.String("release", attrs.Release),
			logger.Int("factions", len(attrs.Affiliation)),
			logger.Duration("elapsed", time.Since(start)))
	}
	return attrs
}

func (s *Scraper) fetch(ctx context.Context, url string) (Attributes, string, error) {
	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return Attributes{}, metrics.WikiFailed, errors.New(err).
				Component("wiki").
				Category(errors.CategoryCancellation).
				Context("operation", "rate_limit_wait").
				Build()
		}
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	body, err := s.http.Fetch(ctx, url)
	if err != nil {
		category := errors.CategoryNetwork
		var statusErr *httpclient.StatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound {
			category = errors.CategoryNotFound
		}
		return Attributes{}, metrics.WikiFailed, errors.New(err).
			Component("wiki").
			Category(category).
			NetworkContext(url, s.timeout).
			Build()
	}

	attrs, found, err := ParseAttributes(bytes.NewReader(body))
	if err != nil {
		return Attributes{}, metrics.WikiFailed, err
	}
	if !found {
		return attrs, metrics.WikiNoInfobox, nil
	}
	return attrs, metrics.WikiParsed, nil
}
