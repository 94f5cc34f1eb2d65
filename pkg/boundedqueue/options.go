package boundedqueue

import "go.uber.org/zap"

type options struct {
	logger *zap.Logger
}

// Option configures a Queue.
type Option func(*options)

// WithLogger sets the logger used for diagnostics such as dropped values.
// A nil logger is ignored.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

func newOptions(opts []Option) options {
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
