package solver

import (
	"time"

	"github.com/bpsolver/bpsolver/pkg/api"
	"github.com/bpsolver/bpsolver/pkg/cache"
	"github.com/bpsolver/bpsolver/pkg/metrics"
	"github.com/bpsolver/bpsolver/pkg/search"
)

type options struct {
	backend   api.Backend
	preflight bool
	timeout   time.Duration
	search    search.Options
	cache     *cache.VerdictCache
	metrics   *metrics.Recorder
}

func defaultOptions() options {
	return options{
		backend:   api.BackendCP,
		preflight: true,
		search:    search.DefaultOptions(),
	}
}

type Option func(o *options)

func WithBackend(b api.Backend) Option {
	return func(o *options) { o.backend = b }
}

// WithPreflight toggles the heuristic preflight which decides easy instances
// without search.
func WithPreflight(enabled bool) Option {
	return func(o *options) { o.preflight = enabled }
}

// WithTimeout bounds every decision. A decision running out of time is
// UNKNOWN.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

func WithNodeLimit(n int64) Option {
	return func(o *options) { o.search.NodeLimit = n }
}

func WithParallelism(n int) Option {
	return func(o *options) { o.search.Parallelism = n }
}

func WithTracer(t search.Tracer) Option {
	return func(o *options) { o.search.Tracer = t }
}

// WithSearchOptions replaces all search settings at once.
func WithSearchOptions(opts search.Options) Option {
	return func(o *options) { o.search = opts }
}

func WithCache(c *cache.VerdictCache) Option {
	return func(o *options) { o.cache = c }
}

func WithMetrics(r *metrics.Recorder) Option {
	return func(o *options) { o.metrics = r }
}
