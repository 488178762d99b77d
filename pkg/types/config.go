package types

import (
	"fmt"
	"time"
)

// Config holds runtime configuration combining flags, environment variables, and defaults
type Config struct {
	// Connection
	Driver  string  // backend driver: "postgres" or "sqlite"
	DSN     string  // driver-specific connection string
	Dialect Dialect // SQL flavor override; inferred from Driver when empty

	// Execution
	MaxRows int           // row cap injected into bare SELECTs; 0 disables
	Timeout time.Duration // per-statement timeout; 0 means no deadline

	// Output
	Format  string // result renderer: "table", "json", or "csv"
	Verbose bool   // enable debug logging
}

// ConfigError reports an invalid or missing configuration field.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Message)
}

// Validate checks the config for contradictions before any connection
// is attempted. It returns a *ConfigError naming the offending field.
func (c *Config) Validate() error {
	switch c.Driver {
	case "postgres", "sqlite":
	case "":
		return &ConfigError{Field: "driver", Message: "required"}
	default:
		return &ConfigError{Field: "driver", Message: fmt.Sprintf("unsupported driver %q", c.Driver)}
	}
	if c.DSN == "" {
		return &ConfigError{Field: "dsn", Message: "required"}
	}
	if c.MaxRows < 0 {
		return &ConfigError{Field: "max-rows", Message: "must not be negative"}
	}
	if c.Timeout < 0 {
		return &ConfigError{Field: "timeout", Message: "must not be negative"}
	}
	switch c.Format {
	case "", "table", "json", "csv":
	default:
		return &ConfigError{Field: "format", Message: fmt.Sprintf("unknown format %q", c.Format)}
	}
	return nil
}

// EffectiveDialect resolves the dialect the session should assume:
// the explicit override when present, otherwise the driver's native
// flavor. Kingbase and Dameng connections set the override because
// they ride on the postgres driver.
func (c *Config) EffectiveDialect() Dialect {
	if c.Dialect != DialectUnknown {
		return c.Dialect.Normalize()
	}
	switch c.Driver {
	case "postgres":
		return DialectPostgres
	case "sqlite":
		return DialectSQLite
	default:
		return DialectUnknown
	}
}
