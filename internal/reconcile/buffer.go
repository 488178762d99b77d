package reconcile

import "github.com/xuanyanwow/GoNavi-sub000/pkg/types"

// EditBuffer accumulates the pending edits of one displayed result set.
// It lives from fetch until reload, successful commit, or a change of
// table or connection, any of which resets it.
type EditBuffer struct {
	added    []types.Row
	addedIdx map[string]int
	modified map[string]types.Row
	deleted  map[string]struct{}
}

// NewEditBuffer creates an empty edit buffer
func NewEditBuffer() *EditBuffer {
	b := &EditBuffer{}
	b.Reset()
	return b
}

// Reset clears all pending edits
func (b *EditBuffer) Reset() {
	b.added = nil
	b.addedIdx = make(map[string]int)
	b.modified = make(map[string]types.Row)
	b.deleted = make(map[string]struct{})
}

// Empty reports whether the buffer holds no pending edits.
func (b *EditBuffer) Empty() bool {
	return len(b.added) == 0 && len(b.modified) == 0 && len(b.deleted) == 0
}

// Pending returns the number of pending added, modified, and deleted
// rows, for display in the grid's status line.
func (b *EditBuffer) Pending() (added, modified, deleted int) {
	return len(b.added), len(b.modified), len(b.deleted)
}

// Add records a newly created row. The row should carry a fresh
// synthetic identifier so later edits and deletions can find it.
func (b *EditBuffer) Add(row types.Row) {
	if id := row.ID(); id != "" {
		b.addedIdx[id] = len(b.added)
	}
	b.added = append(b.added, row.Clone())
}

// Modify records an edit to the row with the given identifier. An edit
// to a row added in this same session folds into the pending insert
// instead of producing an update, since the row does not exist at the
// backend yet.
func (b *EditBuffer) Modify(id string, patch types.Row) {
	if i, ok := b.addedIdx[id]; ok {
		merged := b.added[i]
		for col, v := range patch {
			merged[col] = v
		}
		return
	}
	b.modified[id] = patch.Clone()
}

// Delete marks the row with the given identifier for removal. Deletion
// suppresses any pending modification of the same row; an added row
// that is deleted is dropped from the batch entirely.
func (b *EditBuffer) Delete(id string) {
	delete(b.modified, id)
	b.deleted[id] = struct{}{}
}

// Reconcile flattens the buffered edits against the fetched rows into
// a mutation batch. The buffer is left untouched; callers Reset it once
// the backend confirms the batch.
func (b *EditBuffer) Reconcile(original []types.Row, pkColumns, allColumns []string) types.MutationBatch {
	return Reconcile(original, b.added, b.modified, b.deleted, pkColumns, allColumns)
}
