package errors

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// ConnectionError represents a failure to open or verify a backend connection
type ConnectionError struct {
	Driver     string
	Target     string // host/database portion of the DSN, never credentials
	Message    string
	Suggestion string
}

func (e *ConnectionError) Error() string {
	msg := "failed to connect"
	if e.Target != "" {
		msg += " to " + e.Target
	}
	if e.Driver != "" {
		msg += " (" + e.Driver + ")"
	}
	msg += ": " + e.Message
	if e.Suggestion != "" {
		msg += "\nSuggestion: " + e.Suggestion
	}
	return msg
}

// NewConnectionError creates a new ConnectionError
func NewConnectionError(driver, target, message, suggestion string) *ConnectionError {
	return &ConnectionError{
		Driver:     driver,
		Target:     target,
		Message:    message,
		Suggestion: suggestion,
	}
}

// StatementError represents the failure of one statement in a batch.
// Index is the 1-based position of the statement within the script.
type StatementError struct {
	Index    int
	SQL      string
	SQLState string // five-character SQLSTATE when the server reported one
	Err      error
}

func (e *StatementError) Error() string {
	if e.SQLState != "" {
		return fmt.Sprintf("statement %d failed: [%s] %v", e.Index, e.SQLState, e.Err)
	}
	return fmt.Sprintf("statement %d failed: %v", e.Index, e.Err)
}

func (e *StatementError) Unwrap() error { return e.Err }

// NewStatementError creates a new StatementError, capturing the server's
// SQLSTATE code when the underlying error carries one.
func NewStatementError(index int, sql string, err error) *StatementError {
	return &StatementError{
		Index:    index,
		SQL:      sql,
		SQLState: SQLState(err),
		Err:      err,
	}
}

// ApplyError represents the failure of one mutation while applying an
// edit batch to a table. Op is "insert", "update", or "delete"; Index is
// the 0-based position within that operation's slice.
type ApplyError struct {
	Table string
	Op    string
	Index int
	Err   error
}

func (e *ApplyError) Error() string {
	return fmt.Sprintf("%s %d on %s failed: %v", e.Op, e.Index, e.Table, e.Err)
}

func (e *ApplyError) Unwrap() error { return e.Err }

// NewApplyError creates a new ApplyError
func NewApplyError(table, op string, index int, err error) *ApplyError {
	return &ApplyError{
		Table: table,
		Op:    op,
		Index: index,
		Err:   err,
	}
}

// SQLState extracts the PostgreSQL SQLSTATE code from an error chain,
// or "" when the error did not originate from the server.
func SQLState(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}
