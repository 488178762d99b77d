// Package database connects to backends and executes statements and
// edit batches against them. Each supported driver implements Backend;
// everything above this package speaks types.Result and
// types.MutationBatch and never sees a driver handle.
package database

import (
	"context"
	"fmt"

	"github.com/xuanyanwow/GoNavi-sub000/internal/errors"
	"github.com/xuanyanwow/GoNavi-sub000/pkg/types"
)

// TableMeta describes the shape of one table as far as grid editing
// cares: its column order and which columns form the primary key.
// PKColumns is empty for tables without a declared key.
type TableMeta struct {
	Table     string   `json:"table"`
	Columns   []string `json:"columns"`
	PKColumns []string `json:"pkColumns"`
}

// Backend executes statements against one connected database.
type Backend interface {
	// Dialect reports the SQL flavor the connection speaks.
	Dialect() types.Dialect

	// Exec runs a single statement and returns its result. Statements
	// that produce rows return a populated Set; everything else returns
	// the driver-reported affected count.
	Exec(ctx context.Context, sql string) (*types.Result, error)

	// TableMeta looks up column and primary-key information for a table.
	TableMeta(ctx context.Context, table string) (*TableMeta, error)

	// ApplyChanges executes a mutation batch inside a single transaction:
	// inserts, then updates, then deletes. The first failing statement
	// rolls back the whole batch. Returns the total affected row count.
	ApplyChanges(ctx context.Context, table string, batch types.MutationBatch) (int64, error)

	// Close releases the underlying connections.
	Close()
}

// Open connects the backend selected by the config's driver. The
// config is assumed to have passed Validate.
func Open(ctx context.Context, config *types.Config) (Backend, error) {
	switch config.Driver {
	case "postgres":
		return OpenPostgres(ctx, config)
	case "sqlite":
		return OpenSQLite(ctx, config)
	default:
		return nil, errors.NewConnectionError(config.Driver, "", fmt.Sprintf("unsupported driver %q", config.Driver), "Use driver \"postgres\" or \"sqlite\"")
	}
}
