package ecs

import (
	"github.com/plus3/sigecs/ecs/ringbuf"
	"github.com/rs/zerolog"
)

// DefaultMaxEntityCount is the number of entity IDs a registry hands out
// when WithMaxEntityCount is not given.
const DefaultMaxEntityCount = 4096

type config struct {
	maxEntityCount uint32
	queueCapacity  int
	logger         zerolog.Logger
}

func defaultConfig() config {
	return config{
		maxEntityCount: DefaultMaxEntityCount,
		queueCapacity:  ringbuf.DefaultCapacity,
		logger:         zerolog.Nop(),
	}
}

// Option configures an EntityRegistry.
type Option func(*config)

// WithMaxEntityCount sets how many entities may be alive at once. Zero
// keeps the default.
func WithMaxEntityCount(n uint32) Option {
	return func(c *config) {
		if n > 0 {
			c.maxEntityCount = n
		}
	}
}

// WithQueueCapacity sets the initial capacity of the deferred deletion
// queues. They grow by doubling.
func WithQueueCapacity(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.queueCapacity = n
		}
	}
}

// WithLogger sets the logger used for archetype creation and flush events.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}
