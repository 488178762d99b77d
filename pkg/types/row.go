package types

// RowIDColumn is the synthetic per-fetch row identifier attached to
// every row handed to an editing client. It never exists in the backend
// schema and is stripped before any statement is built from a row.
const RowIDColumn = "_gonavi_row_id"

// Row is one result or edit row, keyed by column name.
type Row map[string]Value

// Clone returns a shallow copy of the row. Values are immutable, so a
// shallow copy is safe to mutate key-wise.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// ID returns the synthetic row identifier, or "" when the row does not
// carry one.
func (r Row) ID() string {
	v, ok := r[RowIDColumn]
	if !ok {
		return ""
	}
	s, _ := v.AsText()
	return s
}

// WithoutID returns a copy of the row with the synthetic identifier
// removed. The receiver is not modified.
func (r Row) WithoutID() Row {
	out := make(Row, len(r))
	for k, v := range r {
		if k == RowIDColumn {
			continue
		}
		out[k] = v
	}
	return out
}

// RowSet is an ordered result grid: column order is significant and
// shared by every row.
type RowSet struct {
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// Result is the outcome of one executed statement. Set is nil for
// statements that return no rows; Affected carries the driver-reported
// row count for DML and is zero for queries.
type Result struct {
	Set      *RowSet `json:"set,omitempty"`
	Affected int64   `json:"affected"`
}

// RowPatch is one UPDATE in a mutation batch: Keys locates the row,
// Values holds only the columns whose content actually changed.
type RowPatch struct {
	Keys   Row `json:"keys"`
	Values Row `json:"values"`
}

// MutationBatch is the full set of statements reconciled from a grid
// editing session, in execution order: inserts, then updates, then
// deletes. Insert rows and the key rows in Updates and Deletes never
// contain the synthetic identifier column.
type MutationBatch struct {
	Inserts []Row      `json:"inserts,omitempty"`
	Updates []RowPatch `json:"updates,omitempty"`
	Deletes []Row      `json:"deletes,omitempty"`
}

// Empty reports whether the batch contains no work.
func (b MutationBatch) Empty() bool {
	return len(b.Inserts) == 0 && len(b.Updates) == 0 && len(b.Deletes) == 0
}

// Size is the number of statements the batch will issue.
func (b MutationBatch) Size() int {
	return len(b.Inserts) + len(b.Updates) + len(b.Deletes)
}
