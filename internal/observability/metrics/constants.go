// Package metrics provides the Prometheus collectors for datagen components.
package metrics

// Label values shared across collectors.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"

	// Image cache outcomes
	OutcomeCached     = "cached"
	OutcomeDownloaded = "downloaded"
	OutcomeFailed     = "failed"
	OutcomeSkipped    = "skipped"

	// Wiki lookup results
	WikiParsed    = "parsed"
	WikiNoInfobox = "no_infobox"
	WikiFailed    = "failed"
)

// namespace prefixes every metric name.
const namespace = "datagen"
