/*
 * Package reconcile turns a grid editing session — rows added, cells
 * modified, rows marked deleted — into the minimal ordered batch of
 * INSERT, UPDATE, and DELETE mutations to submit as one transaction.
 *
 * Reconciliation is pure: it never touches the backend and never
 * mutates its inputs. The caller dispatches the batch and clears the
 * edit buffer only after the backend confirms success.
 */
package reconcile

import "github.com/xuanyanwow/GoNavi-sub000/pkg/types"

/*
 * Reconcile computes the mutation batch for one edited result set.
 *
 * original holds the rows as fetched, each carrying its synthetic
 * identifier; added, modified, and deleted describe the edits, with
 * modified and deleted keyed by that identifier. pkColumns names the
 * table's primary-key columns (possibly empty when unknown) and
 * allColumns every real column of the table.
 *
 *   - Inserts: every added row in insertion order, synthetic identifier
 *     stripped. A row added and then deleted in the same session is
 *     simply omitted.
 *   - Deletes: one entry per deleted identifier found in original, in
 *     fetch order. Keys come from the primary-key columns, or from the
 *     entire original row when no primary key is known — in which case
 *     a duplicate row can make the key match more than one backend row,
 *     and the backend's reported count is the only signal of that.
 *   - Updates: one entry per modified identifier that is not also
 *     deleted (deletion wins) and that exists in original. Values hold
 *     only the columns whose normalized representation differs from the
 *     fetched row; an update whose values come out empty is dropped. A
 *     patch that carries no identifier field is taken verbatim as the
 *     values map, because the row editor submits pre-diffed columns
 *     rather than a full merged row.
 *
 * Comparison uses Value.NormalizedString on both sides, so edits that
 * only change representation (1 vs "1") do not count as changes.
 */
func Reconcile(
	original []types.Row,
	added []types.Row,
	modified map[string]types.Row,
	deleted map[string]struct{},
	pkColumns []string,
	allColumns []string,
) types.MutationBatch {
	var batch types.MutationBatch

	for _, row := range added {
		if id := row.ID(); id != "" {
			if _, gone := deleted[id]; gone {
				continue
			}
		}
		batch.Inserts = append(batch.Inserts, row.WithoutID())
	}

	for _, row := range original {
		id := row.ID()
		if id == "" {
			continue
		}
		if _, gone := deleted[id]; gone {
			batch.Deletes = append(batch.Deletes, keyRow(row, pkColumns))
			continue
		}
		patch, ok := modified[id]
		if !ok {
			continue
		}
		values := patchValues(row, patch, allColumns)
		if len(values) == 0 {
			continue
		}
		batch.Updates = append(batch.Updates, types.RowPatch{
			Keys:   keyRow(row, pkColumns),
			Values: values,
		})
	}

	return batch
}

// keyRow builds the WHERE key for a fetched row: the primary-key
// columns when known, otherwise the entire row minus the synthetic
// identifier.
func keyRow(row types.Row, pkColumns []string) types.Row {
	if len(pkColumns) == 0 {
		return row.WithoutID()
	}
	keys := make(types.Row, len(pkColumns))
	for _, col := range pkColumns {
		keys[col] = row[col]
	}
	return keys
}

// patchValues computes the changed-column map for one update. A patch
// without the identifier field is already the values map; otherwise
// every real column is compared in normalized form.
func patchValues(row, patch types.Row, allColumns []string) types.Row {
	if _, ok := patch[types.RowIDColumn]; !ok {
		return patch.Clone()
	}
	values := types.Row{}
	for _, col := range allColumns {
		if patch[col].NormalizedString() != row[col].NormalizedString() {
			values[col] = patch[col]
		}
	}
	return values
}
