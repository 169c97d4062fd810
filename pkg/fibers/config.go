package fibers

import (
	"time"

	"github.com/creasty/defaults"

	srvErrors "github.com/era-engine/fibers/pkg/errors"
)

// Config holds the construction-time sizing of a Manager. Nothing in it can be
// changed once the Manager runs.
type Config struct {
	// NumThreads is the number of spawned worker threads. The goroutine calling
	// Run is adopted as one more worker on top of these.
	NumThreads int `default:"4" mapstructure:"num-threads" debugmap:"visible"`
	// FiberPoolSize bounds the number of fibers running or parked at once.
	FiberPoolSize int `default:"64" mapstructure:"fiber-pool-size" debugmap:"visible"`
	// QueueCapacity is the capacity of each priority queue, rounded up to a power of two.
	QueueCapacity int `default:"4096" mapstructure:"queue-capacity" debugmap:"visible"`
	// PinThreads assigns every worker thread a core. Each pooled fiber then
	// keeps its own OS thread and moves it onto the core of the worker it runs
	// for, so jobs execute on that core.
	PinThreads        bool          `default:"false" mapstructure:"pin-threads" debugmap:"visible"`
	ShutdownAfterMain bool          `default:"true" mapstructure:"shutdown-after-main" debugmap:"visible"`
	IdleSleepMin      time.Duration `default:"50us" mapstructure:"idle-sleep-min" debugmap:"visible"`
	IdleSleepMax      time.Duration `default:"1ms" mapstructure:"idle-sleep-max" debugmap:"visible"`
}

// DefaultConfig returns a Config with every field set to its default.
func DefaultConfig() Config {
	var c Config
	defaults.MustSet(&c)
	return c
}

// Threads is the total number of worker threads including the adopted one.
func (c Config) Threads() int {
	return c.NumThreads + 1
}

// Validate returns a ConfigurationError naming the first invalid field.
func (c Config) Validate() error {
	if c.NumThreads < 0 {
		return srvErrors.NewConfigurationError("num-threads", "must not be negative")
	}
	// every thread runs one fiber and a wait needs one more to switch into
	if c.FiberPoolSize < c.Threads()+1 {
		return srvErrors.NewConfigurationError("fiber-pool-size", "must be greater than the number of threads")
	}
	if c.QueueCapacity < 1 {
		return srvErrors.NewConfigurationError("queue-capacity", "must be positive")
	}
	if c.IdleSleepMin <= 0 || c.IdleSleepMax < c.IdleSleepMin {
		return srvErrors.NewConfigurationError("idle-sleep", "min must be positive and not above max")
	}
	return nil
}
