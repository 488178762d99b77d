package cli

import (
	"time"

	"github.com/xuanyanwow/GoNavi-sub000/pkg/types"
)

// Config is an alias for the shared Config type
type Config = types.Config

// ConfigError is an alias for the shared ConfigError type
type ConfigError = types.ConfigError

// DefaultConfig provides default configuration values
var DefaultConfig = Config{
	Driver:  "",
	DSN:     "",
	MaxRows: 500,
	Timeout: 30 * time.Second,
	Format:  "table",
	Verbose: false,
}

// ApplyFlagsToConfig applies command-line flag values to configuration.
// Empty strings and zero durations leave the config untouched; maxRows
// of -1 means "not set" because 0 is meaningful (it disables the row
// cap entirely).
func ApplyFlagsToConfig(c *Config, driver, dsn, dialect string,
	maxRows int, timeout time.Duration, format string, verbose bool) {

	if driver != "" {
		c.Driver = driver
	}
	if dsn != "" {
		c.DSN = dsn
	}
	if dialect != "" {
		c.Dialect = types.Dialect(dialect).Normalize()
	}
	if maxRows >= 0 {
		c.MaxRows = maxRows
	}
	if timeout != 0 {
		c.Timeout = timeout
	}
	if format != "" {
		c.Format = format
	}
	c.Verbose = verbose
}
