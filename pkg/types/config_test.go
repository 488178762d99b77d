package types

import (
	"errors"
	"testing"
	"time"
)

func TestConfigValidate(t *testing.T) {
	valid := Config{
		Driver:  "postgres",
		DSN:     "postgres://localhost:5432/app",
		MaxRows: 500,
		Timeout: 30 * time.Second,
		Format:  "table",
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"missing driver", func(c *Config) { c.Driver = "" }, "driver"},
		{"bad driver", func(c *Config) { c.Driver = "oracle" }, "driver"},
		{"missing dsn", func(c *Config) { c.DSN = "" }, "dsn"},
		{"negative max rows", func(c *Config) { c.MaxRows = -1 }, "max-rows"},
		{"negative timeout", func(c *Config) { c.Timeout = -time.Second }, "timeout"},
		{"bad format", func(c *Config) { c.Format = "xml" }, "format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			var ce *ConfigError
			if !errors.As(err, &ce) {
				t.Fatalf("error type = %T, want *ConfigError", err)
			}
			if ce.Field != tt.field {
				t.Errorf("field = %q, want %q", ce.Field, tt.field)
			}
		})
	}
}

func TestEffectiveDialect(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want Dialect
	}{
		{"postgres driver", Config{Driver: "postgres"}, DialectPostgres},
		{"sqlite driver", Config{Driver: "sqlite"}, DialectSQLite},
		{"kingbase override", Config{Driver: "postgres", Dialect: "kingbase"}, DialectKingbase},
		{"dm override", Config{Driver: "postgres", Dialect: "dm"}, DialectDameng},
		{"no driver", Config{}, DialectUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.EffectiveDialect(); got != tt.want {
				t.Errorf("EffectiveDialect() = %q, want %q", got, tt.want)
			}
		})
	}
}
