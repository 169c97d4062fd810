// Package config defines the configuration structure of the fibers command.
//
// Configuration is organized into logical sections (Scheduler, Server, Store, Workload)
// and uses code generation via optgen to create functional option helpers.
//
// # Configuration Structure
//
//	Configuration
//	├── Scheduler      - fiber manager sizing (fibers.Config)
//	├── Server         - HTTP server settings
//	├── Store          - run report database
//	├── Workload       - synthetic workload defaults
//	├── LogFormat      - Logging format
//	└── LogLevel       - Logging verbosity
//
// # Scheduler Configuration
//
//	┌───────────────────┬─────────┬──────────────────────────────────────────┐
//	│ Field             │ Default │ Description                              │
//	├───────────────────┼─────────┼──────────────────────────────────────────┤
//	│ NumThreads        │ 4       │ Spawned worker threads (+1 adopted)      │
//	│ FiberPoolSize     │ 64      │ Fibers running or parked at once         │
//	│ QueueCapacity     │ 4096    │ Capacity of each priority queue          │
//	│ PinThreads        │ false   │ Pin job-running OS threads to cores      │
//	│ ShutdownAfterMain │ true    │ Stop the manager when main returns       │
//	│ IdleSleepMin      │ 50µs    │ First idle sleep of a worker             │
//	│ IdleSleepMax      │ 1ms     │ Idle sleep cap                           │
//	└───────────────────┴─────────┴──────────────────────────────────────────┘
//
// FiberPoolSize must exceed the total number of threads: each thread runs one
// fiber and a waiting fiber needs a free one to switch into.
//
// # Server Configuration
//
//	┌──────────────────┬─────────┬────────────────────────────────────────┐
//	│ Field            │ Default │ Description                            │
//	├──────────────────┼─────────┼────────────────────────────────────────┤
//	│ ServerMode       │ "dev"   │ Server mode: "prod" or "dev"           │
//	│ HTTPPort         │ 8000    │ HTTP server listen port                │
//	└──────────────────┴─────────┴────────────────────────────────────────┘
//
// # Store Configuration
//
//	┌────────┬────────────┬──────────────────────────────────────────────┐
//	│ Field  │ Default    │ Description                                  │
//	├────────┼────────────┼──────────────────────────────────────────────┤
//	│ DBPath │ ":memory:" │ DuckDB file holding run reports              │
//	└────────┴────────────┴──────────────────────────────────────────────┘
//
// # Workload Configuration
//
//	┌────────────┬─────────┬────────────────────────────────────────────┐
//	│ Field      │ Default │ Description                                │
//	├────────────┼─────────┼────────────────────────────────────────────┤
//	│ Frames     │ 60      │ Frames simulated per run                   │
//	│ Substeps   │ 8       │ Physics jobs fanned out per frame          │
//	│ AssetChain │ 4       │ Sequential asset jobs per frame            │
//	│ WorkUnits  │ 2000    │ Busy-work iterations per job               │
//	│ Repeat     │ 1       │ Runs executed by "fibers run"              │
//	└────────────┴─────────┴────────────────────────────────────────────┘
//
// # Code Generation
//
// The package uses optgen to generate functional option helpers:
//
//	//go:generate go run github.com/ecordell/optgen -output zz_generated.configuration.go . Configuration Server Store Workload
//
// Generated helpers include:
//
//   - NewConfigurationWithOptions(...ConfigurationOption) - Create with options
//   - NewConfigurationWithOptionsAndDefaults(...ConfigurationOption) - Create with defaults + options
//   - WithScheduler(fibers.Config), WithServer(Server), etc. - Set nested structs
//   - DebugMap() - Returns map for debug logging (respects debugmap tags)
//
// # Usage Example
//
//	cfg := config.NewConfigurationWithOptionsAndDefaults(
//	    config.WithServer(*config.NewServerWithOptionsAndDefaults(
//	        config.WithHTTPPort(9000),
//	    )),
//	    config.WithLogLevel("info"),
//	)
//	if err := cfg.Validate(); err != nil {
//	    return err
//	}
//
// # Debug Logging
//
//	zap.S().Infow("configuration loaded", "config", cfg.DebugMap())
package config
