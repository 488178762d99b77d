package parser

import "strings"

// fullwidthSemicolon is the CJK statement terminator U+FF1B, accepted
// alongside the ASCII semicolon because SQL pasted out of IME-composed
// documents routinely carries it.
const fullwidthSemicolon = "；"

/*
 * Split divides a raw SQL buffer into individual executable statements.
 *
 * Statements are separated by semicolons (ASCII ; or fullwidth ；) that
 * are structurally significant; a delimiter inside a string literal,
 * quoted identifier, comment, or dollar-quoted block never splits.
 * Each emitted statement is whitespace-trimmed and non-empty, with the
 * delimiter dropped. Text after the final delimiter is emitted as a
 * statement of its own, so a buffer with no trailing semicolon still
 * yields its last statement. Windows line endings are normalized to \n
 * before scanning. Empty input, or input that is nothing but whitespace
 * and comments, yields nil.
 */
func Split(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	var stmts []string
	start := 0
	s := NewScanner(text)
	for !s.EOF() {
		if n := terminatorLen(text, s.Pos()); n > 0 {
			if stmt := strings.TrimSpace(text[start:s.Pos()]); stmt != "" {
				stmts = append(stmts, stmt)
			}
			s.pos += n
			start = s.pos
			continue
		}
		s.step()
	}
	if stmt := strings.TrimSpace(text[start:]); stmt != "" {
		stmts = append(stmts, stmt)
	}
	return stmts
}

// terminatorLen reports the byte length of the statement terminator at
// position i of src: 1 for the ASCII semicolon, 3 for the fullwidth
// one, 0 when neither is present.
func terminatorLen(src string, i int) int {
	if src[i] == ';' {
		return 1
	}
	if strings.HasPrefix(src[i:], fullwidthSemicolon) {
		return len(fullwidthSemicolon)
	}
	return 0
}

/*
 * SplitTail divides a statement into its meaningful head and the
 * maximal trailing run of whitespace and comments. Quoted and
 * dollar-quoted content counts as meaningful, delimiters included, so
 * a statement ending in a string literal keeps the closing quote in
 * main. When the input holds no meaningful byte at all, main is empty
 * and tail is the entire input.
 *
 * Clause injection works on main and re-appends tail untouched, which
 * keeps a user's trailing commentary where they wrote it.
 */
func SplitTail(sql string) (main, tail string) {
	last := -1
	s := NewScanner(sql)
	for !s.EOF() {
		start := s.Pos()
		switch s.step() {
		case RegionLineComment, RegionBlockComment:
			// never extends main
		case RegionNone:
			if !isSpace(sql[start]) {
				last = start
			}
		default:
			last = s.Pos() - 1
		}
	}
	return sql[:last+1], sql[last+1:]
}
