package parser

import "strings"

// NotFound is returned by FindTopLevelKeyword when no top-level
// occurrence of the keyword exists.
const NotFound = -1

/*
 * LeadingKeyword returns the first word of a statement, lower-cased,
 * skipping leading whitespace and comments. When the first significant
 * character does not start a word — a parenthesized union head, a
 * string literal, an operator — it returns "". Word characters are
 * [A-Za-z0-9_], the same class the scanner uses for dollar-quote tags.
 */
func LeadingKeyword(stmt string) string {
	s := NewScanner(stmt)
	for !s.EOF() {
		start := s.Pos()
		switch s.step() {
		case RegionLineComment, RegionBlockComment:
			continue
		case RegionNone:
			ch := stmt[start]
			if isSpace(ch) {
				continue
			}
			if !isWordByte(ch) {
				return ""
			}
			end := start + 1
			for end < len(stmt) && isWordByte(stmt[end]) {
				end++
			}
			return strings.ToLower(stmt[start:end])
		default:
			return ""
		}
	}
	return ""
}

/*
 * FindTopLevelKeyword returns the byte offset of the first occurrence
 * of keyword in sql at parenthesis depth zero, outside every quoted and
 * commented region, bounded by non-word characters on both sides.
 * Matching is ASCII case-insensitive; keyword must be a plain word.
 * Returns NotFound when no such occurrence exists.
 *
 * Parentheses inside quotes and comments do not affect the depth
 * counter, so a "(" in a string literal cannot hide the rest of the
 * statement from the locator.
 */
func FindTopLevelKeyword(sql, keyword string) int {
	if keyword == "" {
		return NotFound
	}
	depth := 0
	s := NewScanner(sql)
	for !s.EOF() {
		i := s.Pos()
		if s.step() != RegionNone {
			continue
		}
		switch sql[i] {
		case '(':
			depth++
			continue
		case ')':
			depth--
			continue
		}
		if depth != 0 {
			continue
		}
		if i > 0 && isWordByte(sql[i-1]) {
			continue
		}
		end := i + len(keyword)
		if end > len(sql) || !strings.EqualFold(sql[i:end], keyword) {
			continue
		}
		if end < len(sql) && isWordByte(sql[end]) {
			continue
		}
		return i
	}
	return NotFound
}
