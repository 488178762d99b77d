/*
 * scanner.go
 *
 * Single-pass lexical scanner for multi-dialect SQL text.
 *
 * The scanner does not tokenize; it answers one question: which byte
 * positions of a buffer are structurally significant, i.e. outside every
 * string literal, quoted identifier, comment, and dollar-quoted block.
 * Statement splitting, leading-keyword classification, and top-level
 * keyword location are all built on that single primitive.
 *
 * It understands the union of the quoting forms of the dialects we
 * connect to:
 *
 *   '…'       string literal (MySQL, Postgres, SQLite, Oracle, …)
 *   "…"       quoted identifier (standard), string literal (MySQL ANSI off)
 *   `…`       quoted identifier (MySQL)
 *   -- …      line comment (standard; see the opener rules below)
 *   # …       line comment (MySQL)
 *   /* … * /  block comment, no nesting (closer written spaced here)
 *   $tag$…$tag$  dollar-quoted string (Postgres family), tag may be empty
 *
 * Backslash escaping is honored inside single- and double-quoted regions
 * only; a doubled closing quote ('' or "") reads as close-then-reopen,
 * which keeps splitting correct without a dedicated rule.
 *
 * The scanner is total: unterminated constructs run to end of input and
 * are reported through Open() rather than raised as errors. Downstream
 * consumers forward such text to the server and let it produce the
 * syntax error.
 */
package parser

import "strings"

// Region identifies the construct a scanner position is inside.
type Region int

const (
	RegionNone Region = iota
	RegionSingleQuote
	RegionDoubleQuote
	RegionBacktick
	RegionLineComment
	RegionBlockComment
	RegionDollar
)

func (r Region) String() string {
	switch r {
	case RegionNone:
		return "none"
	case RegionSingleQuote:
		return "single-quoted string"
	case RegionDoubleQuote:
		return "double-quoted identifier"
	case RegionBacktick:
		return "backtick-quoted identifier"
	case RegionLineComment:
		return "line comment"
	case RegionBlockComment:
		return "block comment"
	case RegionDollar:
		return "dollar-quoted string"
	default:
		return "region(?)"
	}
}

/*
 * Scanner walks SQL text byte by byte. Between calls to step() the
 * scanner always rests at a structurally significant position (or at
 * EOF): step() consumes an entire quoted literal, comment, or
 * dollar-quoted block in one move, so positions inside those regions
 * are never observable from outside the package.
 *
 * All offsets are 0-based byte indices into the original string.
 * Multi-byte UTF-8 sequences outside quoting constructs are consumed
 * one byte at a time; none of the construct openers is a multi-byte
 * character, so this is safe.
 */
type Scanner struct {
	src  string
	pos  int
	open Region // construct left unterminated at EOF, RegionNone otherwise
	tag  string // delimiter text of the unterminated dollar region, e.g. "$body$"
}

// NewScanner returns a Scanner positioned at the start of src.
func NewScanner(src string) *Scanner { return &Scanner{src: src} }

// Pos returns the byte offset of the current position.
func (s *Scanner) Pos() int { return s.pos }

// EOF reports whether the input is exhausted.
func (s *Scanner) EOF() bool { return s.pos >= len(s.src) }

// Byte returns the byte at the current position, or 0 at EOF.
func (s *Scanner) Byte() byte {
	if s.pos < len(s.src) {
		return s.src[s.pos]
	}
	return 0
}

/*
 * Open reports the construct the input ended inside, or RegionNone when
 * the buffer closed every region it opened. A line comment terminated
 * by end of input is considered closed; only quotes, block comments,
 * and dollar regions can be left open.
 */
func (s *Scanner) Open() Region { return s.open }

// OpenTag returns the delimiter of an unterminated dollar region
// (e.g. "$body$"), or "" when Open() is not RegionDollar.
func (s *Scanner) OpenTag() string { return s.tag }

/*
 * step consumes the construct starting at the current position and
 * returns the region kind consumed; RegionNone means a single ordinary
 * byte was consumed. Calling step at EOF is a no-op returning
 * RegionNone.
 *
 * Opener rules, checked in order:
 *
 *   /*        opens a block comment, closed by the first * / (no nesting)
 *   #         opens a line comment, closed by newline or end of input
 *   --        opens a line comment only when it sits at the start of the
 *             buffer or right after whitespace, AND the byte after the
 *             second dash is whitespace or end of input. Without the
 *             guard, expressions like a--b or 3--1 would swallow the
 *             rest of the line.
 *   '  "  `   open the corresponding quoted region
 *   $tag$     opens a dollar-quoted region when tag is zero or more of
 *             [A-Za-z0-9_]; the region closes only at the identical
 *             delimiter text. A $ that does not complete a delimiter is
 *             an ordinary byte ($1 placeholders, v$session names).
 */
func (s *Scanner) step() Region {
	if s.pos >= len(s.src) {
		return RegionNone
	}
	switch ch := s.src[s.pos]; {
	case ch == '/' && s.peek(1) == '*':
		s.blockComment()
		return RegionBlockComment
	case ch == '#':
		s.lineComment()
		return RegionLineComment
	case ch == '-' && s.peek(1) == '-' && s.dashCommentOpens():
		s.lineComment()
		return RegionLineComment
	case ch == '\'':
		s.quoted('\'', true, RegionSingleQuote)
		return RegionSingleQuote
	case ch == '"':
		s.quoted('"', true, RegionDoubleQuote)
		return RegionDoubleQuote
	case ch == '`':
		s.quoted('`', false, RegionBacktick)
		return RegionBacktick
	case ch == '$':
		if end, ok := s.dollarDelim(); ok {
			s.dollarQuoted(end)
			return RegionDollar
		}
		s.pos++
		return RegionNone
	default:
		s.pos++
		return RegionNone
	}
}

// peek returns the byte at pos+offset, or 0 if out of bounds.
func (s *Scanner) peek(offset int) byte {
	if i := s.pos + offset; i < len(s.src) {
		return s.src[i]
	}
	return 0
}

/*
 * dashCommentOpens applies the two-sided guard for a -- opener at the
 * current position: preceded by start-of-buffer or whitespace, and
 * followed by whitespace or end-of-buffer. The guard is a heuristic
 * inherited from the dialects' own disagreement (MySQL requires the
 * trailing whitespace, Postgres does not); it can misread operators
 * that legitimately contain --, and we accept that.
 */
func (s *Scanner) dashCommentOpens() bool {
	if s.pos > 0 && !isSpace(s.src[s.pos-1]) {
		return false
	}
	after := s.pos + 2
	return after >= len(s.src) || isSpace(s.src[after])
}

// lineComment consumes from the opener up to but not including the
// newline, so the newline itself remains an ordinary significant byte.
func (s *Scanner) lineComment() {
	for s.pos < len(s.src) && s.src[s.pos] != '\n' {
		s.pos++
	}
}

// blockComment consumes /* … */ without nesting. An unterminated
// comment consumes the rest of the input and is reported via Open().
func (s *Scanner) blockComment() {
	s.pos += 2
	for s.pos < len(s.src) {
		if s.src[s.pos] == '*' && s.peek(1) == '/' {
			s.pos += 2
			return
		}
		s.pos++
	}
	s.open = RegionBlockComment
}

/*
 * quoted consumes a quoted region opened by delim at the current
 * position. When escapes is true a backslash hides the following byte,
 * so \' and \" do not close their regions; backticks take no escapes.
 * A doubled delimiter reads as close-then-reopen by falling out and
 * re-entering through step(), which is indistinguishable from an
 * escaped delimiter for every consumer of this scanner.
 */
func (s *Scanner) quoted(delim byte, escapes bool, r Region) {
	s.pos++
	for s.pos < len(s.src) {
		switch ch := s.src[s.pos]; {
		case escapes && ch == '\\':
			s.pos += 2
			if s.pos > len(s.src) {
				s.pos = len(s.src)
			}
		case ch == delim:
			s.pos++
			return
		default:
			s.pos++
		}
	}
	s.open = r
}

/*
 * dollarDelim tests whether the $ at the current position opens a
 * complete dollar-quote delimiter $tag$ and returns the offset just
 * past the closing $. The tag accepts [A-Za-z0-9_]*, so $$, $1$, and
 * $body$ all qualify.
 */
func (s *Scanner) dollarDelim() (end int, ok bool) {
	i := s.pos + 1
	for i < len(s.src) && isWordByte(s.src[i]) {
		i++
	}
	if i < len(s.src) && s.src[i] == '$' {
		return i + 1, true
	}
	return 0, false
}

// dollarQuoted consumes a dollar-quoted region whose opening delimiter
// ends at delimEnd. The closing delimiter must match the opener
// byte-for-byte; an unterminated region consumes the rest of the input.
func (s *Scanner) dollarQuoted(delimEnd int) {
	delim := s.src[s.pos:delimEnd]
	idx := strings.Index(s.src[delimEnd:], delim)
	if idx < 0 {
		s.pos = len(s.src)
		s.open = RegionDollar
		s.tag = delim
		return
	}
	s.pos = delimEnd + idx + len(delim)
}

// ---------------------------------------------------------------------------
// Character-class predicates
// ---------------------------------------------------------------------------

// isWordByte reports whether ch belongs to the word-character class
// [A-Za-z0-9_] used for keywords, dollar-quote tags, and the
// word-boundary checks in FindTopLevelKeyword.
func isWordByte(ch byte) bool {
	return ch == '_' ||
		(ch >= 'a' && ch <= 'z') ||
		(ch >= 'A' && ch <= 'Z') ||
		(ch >= '0' && ch <= '9')
}

// isSpace reports whether ch is ASCII whitespace.
func isSpace(ch byte) bool {
	switch ch {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}
