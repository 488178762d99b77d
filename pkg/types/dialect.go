package types

import (
	"strconv"
	"strings"
)

// Dialect identifies the SQL flavor spoken by a connected backend.
// The empty tag means the flavor is unknown; callers treat it as a
// permissive default.
type Dialect string

const (
	DialectMySQL     Dialect = "mysql"
	DialectPostgres  Dialect = "postgres"
	DialectKingbase  Dialect = "kingbase"
	DialectSQLite    Dialect = "sqlite"
	DialectOracle    Dialect = "oracle"
	DialectDameng    Dialect = "dameng"
	DialectSQLServer Dialect = "sqlserver"
	DialectUnknown   Dialect = ""
)

// Dialects lists every known dialect tag.
var Dialects = []Dialect{
	DialectMySQL,
	DialectPostgres,
	DialectKingbase,
	DialectSQLite,
	DialectOracle,
	DialectDameng,
	DialectSQLServer,
}

// Normalize folds alternate spellings onto the canonical tag and
// lower-cases the input. "dm" is the short vendor tag for Dameng.
func (d Dialect) Normalize() Dialect {
	switch Dialect(strings.ToLower(string(d))) {
	case "dm", DialectDameng:
		return DialectDameng
	case "postgresql", "pg", DialectPostgres:
		return DialectPostgres
	case "mssql", DialectSQLServer:
		return DialectSQLServer
	case "sqlite3", DialectSQLite:
		return DialectSQLite
	default:
		return Dialect(strings.ToLower(string(d)))
	}
}

// SupportsLimit reports whether the dialect accepts a trailing
// "LIMIT n" clause on SELECT statements. Oracle, Dameng, and SQL Server
// paginate with FETCH/ROWNUM/TOP instead and are excluded. The unknown
// dialect is included so that plain connections still get row capping.
func (d Dialect) SupportsLimit() bool {
	switch d.Normalize() {
	case DialectMySQL, DialectPostgres, DialectKingbase, DialectSQLite, DialectUnknown:
		return true
	default:
		return false
	}
}

// QuoteIdentifier quotes a table or column name for the dialect,
// doubling any embedded closing-quote characters.
func (d Dialect) QuoteIdentifier(name string) string {
	switch d.Normalize() {
	case DialectMySQL:
		return "`" + strings.ReplaceAll(name, "`", "``") + "`"
	case DialectSQLServer:
		return "[" + strings.ReplaceAll(name, "]", "]]") + "]"
	default:
		return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
	}
}

// Placeholder returns the bind-parameter placeholder for the i-th
// (1-based) argument of a prepared statement in this dialect.
func (d Dialect) Placeholder(i int) string {
	switch d.Normalize() {
	case DialectPostgres, DialectKingbase:
		return "$" + strconv.Itoa(i)
	case DialectOracle, DialectDameng:
		return ":" + strconv.Itoa(i)
	case DialectSQLServer:
		return "@p" + strconv.Itoa(i)
	default:
		return "?"
	}
}
