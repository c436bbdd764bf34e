package startupradar

import "go.uber.org/zap"

type options struct {
	pageLimit              int
	maxPages               int
	logger                 *zap.Logger
	ignoredBacklinkDomains []string
}

// Option configures NewClient and NewService. Each constructor reads the
// fields it cares about and ignores the rest.
type Option func(*options)

func newOptions(opts []Option) *options {
	o := &options{
		pageLimit:              DefaultPageLimit,
		maxPages:               DefaultMaxPages,
		logger:                 zap.NewNop(),
		ignoredBacklinkDomains: DomainsIgnoredBacklinks,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithPageLimit sets the page size requested from paginated endpoints.
func WithPageLimit(limit int) Option {
	return func(o *options) {
		if limit > 0 {
			o.pageLimit = limit
		}
	}
}

// WithMaxPages bounds how many pages a single paged fetch may request.
func WithMaxPages(maxPages int) Option {
	return func(o *options) {
		if maxPages > 0 {
			o.maxPages = maxPages
		}
	}
}

// WithLogger attaches a zap logger; the default is a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithIgnoredBacklinkDomains replaces the denylist of domains whose
// backlinks are never fetched.
func WithIgnoredBacklinkDomains(domains []string) Option {
	return func(o *options) {
		o.ignoredBacklinkDomains = domains
	}
}
