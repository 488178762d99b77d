/*
 * Package rewrite injects row-capping clauses into user statements
 * before they reach the backend, protecting the result grid from
 * unbounded SELECTs without changing what the query means.
 */
package rewrite

import (
	"strconv"
	"strings"

	"github.com/xuanyanwow/GoNavi-sub000/internal/parser"
	"github.com/xuanyanwow/GoNavi-sub000/pkg/types"
)

const trimCutset = " \t\n\r\f\v"

/*
 * Apply inserts "LIMIT n" into a statement when every safety condition
 * holds, returning the rewritten statement and whether anything was
 * done:
 *
 *   - the dialect accepts a LIMIT clause and maxRows is positive;
 *   - the statement opens with SELECT or WITH;
 *   - no LIMIT or FETCH clause already paginates it (an occurrence
 *     downstream of the top-level FROM, or anywhere when there is no
 *     FROM, counts as existing pagination);
 *   - the clause lands before any top-level OFFSET, FOR, or LOCK
 *     clause that follows FROM, or at the end of the meaningful text
 *     when none exists. Trailing whitespace and comments are preserved
 *     after the insertion.
 *
 * A false return always carries the input unchanged; callers execute
 * the original statement as written.
 */
func Apply(sql string, dialect types.Dialect, maxRows int) (string, bool) {
	if maxRows <= 0 || !dialect.SupportsLimit() {
		return sql, false
	}
	switch parser.LeadingKeyword(sql) {
	case "select", "with":
	default:
		return sql, false
	}

	main, tail := parser.SplitTail(sql)
	if strings.TrimSpace(main) == "" {
		return sql, false
	}

	fromPos := parser.FindTopLevelKeyword(main, "from")
	if paginated(main, "limit", fromPos) || paginated(main, "fetch", fromPos) {
		return sql, false
	}

	insertAt := len(main)
	for _, kw := range []string{"offset", "for", "lock"} {
		pos := parser.FindTopLevelKeyword(main, kw)
		if pos == parser.NotFound {
			continue
		}
		if fromPos != parser.NotFound && pos < fromPos {
			continue
		}
		if pos < insertAt {
			insertAt = pos
		}
	}

	head := strings.TrimRight(main[:insertAt], trimCutset)
	rest := strings.TrimLeft(main[insertAt:], trimCutset)
	out := head + " LIMIT " + strconv.Itoa(maxRows)
	if rest != "" {
		out += " " + rest
	}
	return out + tail, true
}

// paginated reports whether keyword already paginates the statement:
// present downstream of the top-level FROM, or present at all when the
// statement has no top-level FROM.
func paginated(main, keyword string, fromPos int) bool {
	pos := parser.FindTopLevelKeyword(main, keyword)
	if pos == parser.NotFound {
		return false
	}
	return fromPos == parser.NotFound || pos > fromPos
}
