package bind

import "github.com/ardnew/vex/log"

type options struct {
	logger log.Logger
	prefix string
}

// Option configures a binding source.
type Option func(*options)

// WithLogger sets the logger that traces loading and resolution.
func WithLogger(logger log.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithPrefix places every name bound by the source under prefix.
// A trailing dot is added if missing.
func WithPrefix(prefix string) Option {
	return func(o *options) {
		if prefix != "" && prefix[len(prefix)-1] != '.' {
			prefix += "."
		}

		o.prefix = prefix
	}
}

func makeOptions(opts ...Option) options {
	var o options

	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	return o
}
