/*
 * Package runner drives a user's SQL buffer against a connected
 * backend: split into statements, cap bare SELECTs, execute in source
 * order, halt on the first failure, and kick off the metadata lookups
 * that decide whether a result grid is editable.
 */
package runner

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/xuanyanwow/GoNavi-sub000/internal/database"
	"github.com/xuanyanwow/GoNavi-sub000/internal/errors"
	"github.com/xuanyanwow/GoNavi-sub000/internal/logger"
	"github.com/xuanyanwow/GoNavi-sub000/internal/parser"
	"github.com/xuanyanwow/GoNavi-sub000/internal/rewrite"
	"github.com/xuanyanwow/GoNavi-sub000/pkg/types"
)

// metaBuffer bounds the undelivered metadata updates a session holds.
// A full buffer drops the oldest-pending update rather than blocking a
// fetch goroutine; a dropped update only costs grid editability.
const metaBuffer = 16

/*
 * Session executes query-console runs against one backend. It holds
 * the row cap applied to bare SELECT/WITH statements, the per-statement
 * timeout, and the run generation used to discard stale metadata.
 *
 * A session belongs to one logical caller: Run and ApplyEdits are not
 * safe for concurrent use. The only concurrency a session creates is
 * the table-metadata fetch launched after a grid-shaped SELECT, and
 * that communicates solely through the MetaUpdates channel.
 */
type Session struct {
	backend database.Backend
	maxRows int
	timeout time.Duration

	// generation counts Run calls. Fetches launched during a run carry
	// its generation, and updates from a superseded run fail the
	// Attach comparison instead of touching current results.
	generation uint64

	meta chan MetaUpdate
}

// NewSession creates a session over an open backend. maxRows of zero
// disables the row cap; timeout of zero runs statements without a
// deadline.
func NewSession(backend database.Backend, maxRows int, timeout time.Duration) *Session {
	return &Session{
		backend: backend,
		maxRows: maxRows,
		timeout: timeout,
		meta:    make(chan MetaUpdate, metaBuffer),
	}
}

// Backend returns the backend this session executes against.
func (s *Session) Backend() database.Backend { return s.backend }

// MetaUpdates delivers the results of asynchronous table-metadata
// fetches. Receive an update and hand it to RunOutcome.Attach, which
// performs the generation comparison.
func (s *Session) MetaUpdates() <-chan MetaUpdate { return s.meta }

// MetaUpdate is the outcome of one asynchronous metadata fetch, tagged
// with the generation of the run that launched it.
type MetaUpdate struct {
	Generation uint64              `json:"generation"`
	Index      int                 `json:"index"` // 1-based statement index
	Table      string              `json:"table"`
	Meta       *database.TableMeta `json:"meta,omitempty"`
	Err        error               `json:"-"`
}

// RunOutcome is the result of executing one SQL buffer.
type RunOutcome struct {
	Generation uint64          `json:"generation"`
	Statements []*StatementRun `json:"statements"`
	Err        error           `json:"-"` // the error that halted the run, nil when it completed
}

/*
 * Attach applies a metadata update to this outcome and reports whether
 * it was accepted. Updates from another generation are stale and
 * discarded; so are failed fetches, since a table we cannot describe
 * is simply not editable.
 */
func (o *RunOutcome) Attach(u MetaUpdate) bool {
	if u.Generation != o.Generation || u.Err != nil || u.Meta == nil {
		return false
	}
	for _, run := range o.Statements {
		if run.Index == u.Index {
			run.Meta = u.Meta
			return true
		}
	}
	return false
}

/*
 * Run splits text into statements and executes them sequentially, in
 * source order, one backend call per statement. SELECT and WITH
 * statements get the session's row cap injected when the dialect
 * allows it and the statement does not already paginate.
 *
 * The first failing statement halts the run: it is recorded as failed,
 * every later statement as skipped, and the outcome's Err wraps the
 * backend's error verbatim. A successful statement shaped like
 * SELECT * FROM <table> is an editable grid: its rows get synthetic
 * identifiers attached, and a metadata fetch is launched whose result
 * arrives on MetaUpdates.
 */
func (s *Session) Run(ctx context.Context, text string) *RunOutcome {
	s.generation++
	outcome := &RunOutcome{Generation: s.generation}

	stmts := parser.Split(text)
	if len(stmts) == 0 {
		return outcome
	}

	dialect := s.backend.Dialect()
	for i, stmt := range stmts {
		run := &StatementRun{Index: i + 1, SQL: stmt, Keyword: parser.LeadingKeyword(stmt)}
		if run.Keyword == "select" || run.Keyword == "with" {
			run.SQL, run.Limited = rewrite.Apply(stmt, dialect, s.maxRows)
		}
		outcome.Statements = append(outcome.Statements, run)
	}

	for _, run := range outcome.Statements {
		if outcome.Err != nil || ctx.Err() != nil {
			run.Status = RunSkipped
			continue
		}

		logger.Debug("executing statement %d: %s", run.Index, run.SQL)
		run.Status = RunRunning
		run.StartTime = time.Now()

		result, err := s.execOne(ctx, run.SQL)
		run.EndTime = time.Now()

		if err != nil {
			run.Status = RunFailed
			run.Error = err
			outcome.Err = errors.NewStatementError(run.Index, run.SQL, err)
			logger.Debug("statement %d failed after %v: %v", run.Index, run.Duration(), err)
			continue
		}

		run.Status = RunSucceeded
		run.Result = result

		if result.Set != nil {
			if table, ok := parser.DetectSimpleTable(run.SQL); ok {
				run.Table = table
				tagRows(result.Set.Rows)
				s.fetchMeta(outcome.Generation, run.Index, table)
			}
		}
	}

	if outcome.Err == nil && ctx.Err() != nil {
		outcome.Err = ctx.Err()
	}
	return outcome
}

// tagRows attaches a fresh synthetic identifier to every row of an
// editable grid. The identifier is client bookkeeping only: edit
// buffers key their modifications and deletions by it, and it is
// stripped again before any mutation reaches the backend.
func tagRows(rows []types.Row) {
	for _, row := range rows {
		row[types.RowIDColumn] = types.Text(uuid.NewString())
	}
}

// execOne runs a single statement under the session timeout.
func (s *Session) execOne(ctx context.Context, sql string) (*types.Result, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	return s.backend.Exec(ctx, sql)
}

/*
 * fetchMeta looks up table metadata in the background. The fetch is
 * detached from the run's context: the run has already returned its
 * rows, and a lookup that outlives the caller's interest is discarded
 * through the generation comparison, not cancelled.
 */
func (s *Session) fetchMeta(generation uint64, index int, table string) {
	go func() {
		ctx := context.Background()
		if s.timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, s.timeout)
			defer cancel()
		}
		meta, err := s.backend.TableMeta(ctx, table)
		update := MetaUpdate{Generation: generation, Index: index, Table: table, Meta: meta, Err: err}
		select {
		case s.meta <- update:
		default:
			logger.Debug("dropping metadata update for %s: delivery buffer full", table)
		}
	}()
}

// ApplyEdits submits a reconciled mutation batch for one table as a
// single backend transaction and returns the total affected row count.
// Callers clear their edit buffers only when this succeeds.
func (s *Session) ApplyEdits(ctx context.Context, table string, batch types.MutationBatch) (int64, error) {
	if batch.Empty() {
		return 0, nil
	}
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	logger.Debug("applying %d mutation(s) to %s", batch.Size(), table)
	return s.backend.ApplyChanges(ctx, table, batch)
}

// Summarize tallies one run outcome.
func Summarize(outcome *RunOutcome) *RunSummary {
	summary := &RunSummary{TotalStatements: len(outcome.Statements)}
	for _, run := range outcome.Statements {
		summary.TotalDuration += run.Duration()
		switch run.Status {
		case RunSucceeded:
			summary.Succeeded++
		case RunFailed:
			summary.Failed++
		case RunSkipped:
			summary.Skipped++
		}
	}
	return summary
}
