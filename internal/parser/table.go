package parser

import (
	"regexp"
	"strings"
)

/*
 * simpleSelectRe recognizes the one statement shape whose result set is
 * editable: SELECT * FROM <table>, where <table> is a bare possibly
 * schema-qualified name or a single quoted name (backticks, double
 * quotes, or brackets). The name must be followed by the end of the
 * statement, a semicolon, or a WHERE/ORDER BY/LIMIT clause; any other
 * tail (a join, an alias, a subquery) fails the match. This is
 * deliberately a fixed-shape check and not a parser.
 */
var simpleSelectRe = regexp.MustCompile(
	`(?i)^\s*select\s+\*\s+from\s+` +
		"(`[^`]+`" + `|"[^"]+"|\[[^\]]+\]|[A-Za-z0-9_$]+(?:\.[A-Za-z0-9_$]+)*)` +
		`\s*(?:$|;|\s(?:where|order|limit)\b)`)

/*
 * DetectSimpleTable reports the unqualified table name of a statement
 * shaped exactly like SELECT * FROM <table>. A false return means the
 * statement is anything else, and callers treat its result set as not
 * editable. For bare qualified names the last path segment is the
 * table; quoted names are returned with their quotes stripped and are
 * never split on dots.
 */
func DetectSimpleTable(stmt string) (table string, ok bool) {
	m := simpleSelectRe.FindStringSubmatch(stmt)
	if m == nil {
		return "", false
	}
	name := m[1]
	switch name[0] {
	case '`', '"', '[':
		return name[1 : len(name)-1], true
	default:
		if i := strings.LastIndexByte(name, '.'); i >= 0 {
			name = name[i+1:]
		}
		return name, true
	}
}
