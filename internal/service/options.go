package service

import (
	"time"

	"github.com/Shivanand-hulikatti/virtual-events/internal/activity"
	"github.com/rs/zerolog"
)

type options struct {
	latency   time.Duration
	publisher activity.Publisher
	logger    zerolog.Logger
	now       func() time.Time
}

// Option configures a SessionManager or EventRegistry.
type Option func(*options)

// WithLatency delays every asynchronous operation by d.
func WithLatency(d time.Duration) Option {
	return func(o *options) { o.latency = d }
}

// WithPublisher sets where activities are sent.
func WithPublisher(p activity.Publisher) Option {
	return func(o *options) { o.publisher = p }
}

func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithClock overrides time.Now, used for identifiers and activity timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func buildOptions(opts []Option) options {
	o := options{
		publisher: activity.NopPublisher{},
		logger:    zerolog.Nop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
