package registry

import (
	"github.com/rs/zerolog"

	"github.com/stackb/supplements/pkg/supplement"
)

// Option configures a Registry or a Loader.
type Option func(*options) *options

type options struct {
	logger    zerolog.Logger
	reporter  supplement.Reporter
	maxSteps  uint64
	cacheSize int
}

// WithLogger sets the logger.  The default discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) *options {
		o.logger = logger
		return o
	}
}

// WithReporter sets the callback that receives non-fatal conditions.
func WithReporter(reporter supplement.Reporter) Option {
	return func(o *options) *options {
		o.reporter = reporter
		return o
	}
}

// WithMaxExecutionSteps bounds the Starlark steps an override script may
// take while loading and per resolve call.  Zero means unlimited.
func WithMaxExecutionSteps(steps uint64) Option {
	return func(o *options) *options {
		o.maxSteps = steps
		return o
	}
}

// WithCacheSize sets how many probed roots are remembered between rebuilds.
func WithCacheSize(size int) Option {
	return func(o *options) *options {
		o.cacheSize = size
		return o
	}
}

var defaultOptions = []Option{
	WithLogger(zerolog.Nop()),
	WithReporter(func(*supplement.Condition) {}),
	WithCacheSize(256),
}

func newOptions(opts []Option) *options {
	o := &options{}
	for _, opt := range append(defaultOptions, opts...) {
		o = opt(o)
	}
	return o
}
