package main

import (
	"fmt"

	"github.com/jzelinskie/cobrautil/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/era-engine/fibers/internal/config"
)

const envPrefix = "fibers"

func newRootCommand() *cobra.Command {
	cfg := config.NewConfigurationWithOptionsAndDefaults()

	root := &cobra.Command{
		Use:          "fibers",
		Short:        "Fiber-based job scheduler driven by a synthetic engine workload",
		SilenceUsage: true,
		PersistentPreRunE: cobrautil.CommandStack(
			cobrautil.SyncViperPreRunE(envPrefix),
			loadConfiguration(cfg),
			setupLogging(cfg),
		),
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "path to a YAML configuration file, keyed by flag name")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn, error")
	flags.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "log format: console or json")
	flags.StringVar(&cfg.Store.DBPath, "db-path", cfg.Store.DBPath, "duckdb file holding run reports")
	registerSchedulerFlags(flags, cfg)
	registerWorkloadFlags(flags, cfg)

	root.AddCommand(newRunCommand(cfg), newServeCommand(cfg))
	return root
}

func registerSchedulerFlags(flags *pflag.FlagSet, cfg *config.Configuration) {
	s := &cfg.Scheduler
	flags.IntVar(&s.NumThreads, "num-threads", s.NumThreads, "worker threads spawned besides the calling one")
	flags.IntVar(&s.FiberPoolSize, "fiber-pool-size", s.FiberPoolSize, "fibers running or parked at once")
	flags.IntVar(&s.QueueCapacity, "queue-capacity", s.QueueCapacity, "capacity of each priority queue")
	flags.BoolVar(&s.PinThreads, "pin-threads", s.PinThreads, "pin the OS threads running jobs to one CPU core per worker thread")
	flags.DurationVar(&s.IdleSleepMin, "idle-sleep-min", s.IdleSleepMin, "first sleep of an idle worker")
	flags.DurationVar(&s.IdleSleepMax, "idle-sleep-max", s.IdleSleepMax, "longest sleep of an idle worker")
}

func registerWorkloadFlags(flags *pflag.FlagSet, cfg *config.Configuration) {
	w := &cfg.Workload
	flags.IntVar(&w.Frames, "frames", w.Frames, "frames per workload run")
	flags.IntVar(&w.Substeps, "substeps", w.Substeps, "physics jobs fanned out per frame")
	flags.IntVar(&w.AssetChain, "asset-chain", w.AssetChain, "sequential asset jobs per frame")
	flags.IntVar(&w.WorkUnits, "work-units", w.WorkUnits, "busy-work iterations per job")
}

// loadConfiguration fills flags left unset on the command line and in the
// environment from the configuration file, then validates the result.
func loadConfiguration(cfg *config.Configuration) cobrautil.CobraRunFunc {
	return func(cmd *cobra.Command, _ []string) error {
		path, err := cmd.Flags().GetString("config")
		if err != nil {
			return err
		}

		if path != "" {
			v := viper.New()
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return fmt.Errorf("failed to read configuration file %q: %w", path, err)
			}

			var setErr error
			cmd.Flags().VisitAll(func(f *pflag.Flag) {
				if setErr != nil || f.Changed || !v.IsSet(f.Name) {
					return
				}
				if err := f.Value.Set(v.GetString(f.Name)); err != nil {
					setErr = fmt.Errorf("invalid value for %s in %q: %w", f.Name, path, err)
				}
			})
			if setErr != nil {
				return setErr
			}
		}

		return cfg.Validate()
	}
}

func setupLogging(cfg *config.Configuration) cobrautil.CobraRunFunc {
	return func(*cobra.Command, []string) error {
		logger, err := newLogger(cfg.LogFormat, cfg.LogLevel)
		if err != nil {
			return err
		}
		zap.ReplaceGlobals(logger)

		zap.S().Named("fibers").Debugw("configuration loaded", "config", cfg.DebugMap())
		return nil
	}
}

func newLogger(format, level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	var zc zap.Config
	if format == "json" {
		zc = zap.NewProductionConfig()
	} else {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = lvl

	return zc.Build()
}
