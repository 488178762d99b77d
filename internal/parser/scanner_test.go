package parser

import (
	"strings"
	"testing"
)

// ordinaryBytes walks src and collects every byte the scanner consumes
// outside of quoted, commented, and dollar-quoted regions.
func ordinaryBytes(t *testing.T, src string) string {
	t.Helper()
	var b strings.Builder
	s := NewScanner(src)
	for !s.EOF() {
		i := s.Pos()
		if s.step() == RegionNone {
			b.WriteByte(src[i])
		}
	}
	return b.String()
}

func TestScannerRegions(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "select 1", "select 1"},
		{"single quote", "a'b;c'd", "ad"},
		{"double quote", `a"b;c"d`, "ad"},
		{"backtick", "a`b;c`d", "ad"},
		{"block comment", "x /* ; */ y", "x  y"},
		{"line comment hash", "#x\ny", "\ny"},
		{"line comment dash", "a -- b", "a "},
		{"dash needs leading space", "1--2", "1--2"},
		{"dash needs trailing space", "--x\ny", "--x\ny"},
		{"dash at buffer start", "-- x\ny", "\ny"},
		{"dollar empty tag", "$$a;b$$;", ";"},
		{"dollar named tag", "$tag$ ; $other$ ; $tag$z", "z"},
		{"dollar digit tag", "$1$;$1$z", "z"},
		{"incomplete dollar delim", "$1 + 2", "$1 + 2"},
		{"backslash escape in single quote", "'a\\';'b", "b"},
		{"backslash escape in double quote", `"a\";"b`, "b"},
		{"no backslash escape in backtick", "`a\\`;", ";"},
		{"doubled quote reads as close and reopen", "'it''s';x", ";x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ordinaryBytes(t, tt.input); got != tt.want {
				t.Errorf("ordinary bytes of %q = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestScannerOpen(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Region
	}{
		{"closed input", "select 'a' /* b */", RegionNone},
		{"unterminated single quote", "select 'abc", RegionSingleQuote},
		{"unterminated double quote", `select "abc`, RegionDoubleQuote},
		{"unterminated backtick", "select `abc", RegionBacktick},
		{"unterminated block comment", "select 1 /* x", RegionBlockComment},
		{"unterminated dollar", "select $t$ x", RegionDollar},
		{"line comment at eof is closed", "select 1 -- x", RegionNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewScanner(tt.input)
			for !s.EOF() {
				s.step()
			}
			if got := s.Open(); got != tt.want {
				t.Errorf("Open() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScannerOpenTag(t *testing.T) {
	s := NewScanner("do $body$ begin end")
	for !s.EOF() {
		s.step()
	}
	if s.Open() != RegionDollar {
		t.Fatalf("Open() = %v, want %v", s.Open(), RegionDollar)
	}
	if got := s.OpenTag(); got != "$body$" {
		t.Errorf("OpenTag() = %q, want %q", got, "$body$")
	}
}
