package config

import (
	"fmt"

	srvErrors "github.com/era-engine/fibers/pkg/errors"
	"github.com/era-engine/fibers/pkg/fibers"
)

//go:generate go run github.com/ecordell/optgen -output zz_generated.configuration.go . Configuration Server Store Workload

type Configuration struct {
	Scheduler fibers.Config `debugmap:"visible"`
	Server    Server        `debugmap:"visible"`
	Store     Store         `debugmap:"visible"`
	Workload  Workload      `debugmap:"visible"`
	LogFormat string        `default:"console" debugmap:"visible"`
	LogLevel  string        `default:"debug" debugmap:"visible"`
}

type Server struct {
	ServerMode string `default:"dev" debugmap:"visible"`
	HTTPPort   int    `default:"8000" debugmap:"visible"`
}

type Store struct {
	// DBPath is the duckdb database file. ":memory:" keeps run reports in memory.
	DBPath string `default:":memory:" debugmap:"visible"`
}

// Workload holds the defaults of a synthetic engine workload run.
type Workload struct {
	Frames     int `default:"60" debugmap:"visible"`
	Substeps   int `default:"8" debugmap:"visible"`
	AssetChain int `default:"4" debugmap:"visible"`
	WorkUnits  int `default:"2000" debugmap:"visible"`
	Repeat     int `default:"1" debugmap:"visible"`
}

func (c *Configuration) Validate() error {
	if err := c.Scheduler.Validate(); err != nil {
		return err
	}
	switch c.LogFormat {
	case "console", "json":
	default:
		return srvErrors.NewConfigurationError("log-format", fmt.Sprintf("unknown format %q", c.LogFormat))
	}
	switch c.Server.ServerMode {
	case "dev", "prod":
	default:
		return srvErrors.NewConfigurationError("server-mode", fmt.Sprintf("unknown mode %q", c.Server.ServerMode))
	}
	if c.Workload.Frames < 1 || c.Workload.Repeat < 1 {
		return srvErrors.NewConfigurationError("frames", "frames and repeat must be positive")
	}
	if c.Workload.Substeps < 0 || c.Workload.AssetChain < 0 || c.Workload.WorkUnits < 0 {
		return srvErrors.NewConfigurationError("substeps", "workload sizes must not be negative")
	}
	return nil
}
