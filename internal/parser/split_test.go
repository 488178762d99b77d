package parser

import (
	"reflect"
	"testing"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "single statement without delimiter",
			input: "SELECT 1",
			want:  []string{"SELECT 1"},
		},
		{
			name:  "single statement with delimiter",
			input: "SELECT 1;",
			want:  []string{"SELECT 1"},
		},
		{
			name:  "semicolon inside quotes does not split",
			input: "SELECT ';'; SELECT 2;",
			want:  []string{"SELECT ';'", "SELECT 2"},
		},
		{
			name:  "semicolons inside dollar quotes do not split",
			input: "CREATE FUNCTION f() RETURNS void AS $$ BEGIN SELECT 1; END; $$ LANGUAGE plpgsql;",
			want:  []string{"CREATE FUNCTION f() RETURNS void AS $$ BEGIN SELECT 1; END; $$ LANGUAGE plpgsql"},
		},
		{
			name:  "semicolon inside line comment does not split",
			input: "SELECT 1; -- comment; with semicolon\nSELECT 2;",
			want:  []string{"SELECT 1", "-- comment; with semicolon\nSELECT 2"},
		},
		{
			name:  "semicolon inside block comment does not split",
			input: "SELECT /* a;b */ 1; SELECT 2",
			want:  []string{"SELECT /* a;b */ 1", "SELECT 2"},
		},
		{
			name:  "fullwidth semicolon splits",
			input: "SELECT 1；SELECT 2",
			want:  []string{"SELECT 1", "SELECT 2"},
		},
		{
			name:  "windows line endings are normalized",
			input: "SELECT 1;\r\nSELECT 2;\r\n",
			want:  []string{"SELECT 1", "SELECT 2"},
		},
		{
			name:  "empty fragments are dropped",
			input: " ;;  ; SELECT 1; ;",
			want:  []string{"SELECT 1"},
		},
		{
			name:  "whitespace only",
			input: "  \n\t  ",
			want:  nil,
		},
		{
			name:  "comments only",
			input: " -- nothing here\n/* or here */ ",
			want:  nil,
		},
		{
			name:  "empty input",
			input: "",
			want:  nil,
		},
		{
			name:  "backtick quoted identifier keeps semicolon",
			input: "SELECT `a;b` FROM t; SELECT 2",
			want:  []string{"SELECT `a;b` FROM t", "SELECT 2"},
		},
		{
			name:  "backslash escaped quote stays inside string",
			input: "SELECT 'it\\'s; fine'; SELECT 2",
			want:  []string{"SELECT 'it\\'s; fine'", "SELECT 2"},
		},
		{
			name:  "unterminated quote swallows the rest",
			input: "SELECT 'a; SELECT b",
			want:  []string{"SELECT 'a; SELECT b"},
		},
		{
			name:  "mysql hash comment",
			input: "SELECT 1; # trailing; note\nSELECT 2",
			want:  []string{"SELECT 1", "# trailing; note\nSELECT 2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Split(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Split(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSplitTail(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantMain string
		wantTail string
	}{
		{
			name:     "no tail",
			input:    "SELECT 1",
			wantMain: "SELECT 1",
			wantTail: "",
		},
		{
			name:     "trailing line comment",
			input:    "SELECT 1 -- capped",
			wantMain: "SELECT 1",
			wantTail: " -- capped",
		},
		{
			name:     "trailing block comment and whitespace",
			input:    "SELECT 'a' /* b */  ",
			wantMain: "SELECT 'a'",
			wantTail: " /* b */  ",
		},
		{
			name:     "interior comment stays in main",
			input:    "SELECT /* hint */ 1  ",
			wantMain: "SELECT /* hint */ 1",
			wantTail: "  ",
		},
		{
			name:     "only whitespace and comments",
			input:    "  /* x */ ",
			wantMain: "",
			wantTail: "  /* x */ ",
		},
		{
			name:     "dollar quoted body is meaningful",
			input:    "DO $$ x $$ -- run",
			wantMain: "DO $$ x $$",
			wantTail: " -- run",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			main, tail := SplitTail(tt.input)
			if main != tt.wantMain || tail != tt.wantTail {
				t.Errorf("SplitTail(%q) = (%q, %q), want (%q, %q)",
					tt.input, main, tail, tt.wantMain, tt.wantTail)
			}
			if main+tail != tt.input {
				t.Errorf("SplitTail(%q) does not reassemble the input", tt.input)
			}
		})
	}
}
