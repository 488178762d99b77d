package rewrite

import (
	"testing"

	"github.com/xuanyanwow/GoNavi-sub000/pkg/types"
)

func TestApply(t *testing.T) {
	tests := []struct {
		name        string
		sql         string
		dialect     types.Dialect
		maxRows     int
		want        string
		wantApplied bool
	}{
		{
			name:        "plain select gets capped",
			sql:         "SELECT * FROM t WHERE a=1",
			dialect:     types.DialectMySQL,
			maxRows:     101,
			want:        "SELECT * FROM t WHERE a=1 LIMIT 101",
			wantApplied: true,
		},
		{
			name:        "existing limit is left alone",
			sql:         "SELECT * FROM t LIMIT 10",
			dialect:     types.DialectMySQL,
			maxRows:     101,
			want:        "SELECT * FROM t LIMIT 10",
			wantApplied: false,
		},
		{
			name:        "existing fetch is left alone",
			sql:         "SELECT * FROM t FETCH FIRST 5 ROWS ONLY",
			dialect:     types.DialectPostgres,
			maxRows:     101,
			want:        "SELECT * FROM t FETCH FIRST 5 ROWS ONLY",
			wantApplied: false,
		},
		{
			name:        "limit lands before for update",
			sql:         "SELECT * FROM t FOR UPDATE",
			dialect:     types.DialectPostgres,
			maxRows:     50,
			want:        "SELECT * FROM t LIMIT 50 FOR UPDATE",
			wantApplied: true,
		},
		{
			name:        "limit lands before offset",
			sql:         "SELECT * FROM t OFFSET 20",
			dialect:     types.DialectPostgres,
			maxRows:     50,
			want:        "SELECT * FROM t LIMIT 50 OFFSET 20",
			wantApplied: true,
		},
		{
			name:        "with statement is eligible",
			sql:         "WITH x AS (SELECT 1) SELECT * FROM x",
			dialect:     types.DialectSQLite,
			maxRows:     25,
			want:        "WITH x AS (SELECT 1) SELECT * FROM x LIMIT 25",
			wantApplied: true,
		},
		{
			name:        "limit inside subquery does not block",
			sql:         "SELECT * FROM (SELECT 1 LIMIT 5) x",
			dialect:     types.DialectPostgres,
			maxRows:     100,
			want:        "SELECT * FROM (SELECT 1 LIMIT 5) x LIMIT 100",
			wantApplied: true,
		},
		{
			name:        "limit without from blocks",
			sql:         "SELECT 1 LIMIT 5",
			dialect:     types.DialectSQLite,
			maxRows:     100,
			want:        "SELECT 1 LIMIT 5",
			wantApplied: false,
		},
		{
			name:        "trailing comment survives after the cap",
			sql:         "SELECT * FROM t -- inspect",
			dialect:     types.DialectKingbase,
			maxRows:     10,
			want:        "SELECT * FROM t LIMIT 10 -- inspect",
			wantApplied: true,
		},
		{
			name:        "unknown dialect is permissive",
			sql:         "SELECT * FROM t",
			dialect:     types.DialectUnknown,
			maxRows:     10,
			want:        "SELECT * FROM t LIMIT 10",
			wantApplied: true,
		},
		{
			name:        "oracle is excluded",
			sql:         "SELECT * FROM t",
			dialect:     types.DialectOracle,
			maxRows:     10,
			want:        "SELECT * FROM t",
			wantApplied: false,
		},
		{
			name:        "dameng short tag is excluded",
			sql:         "SELECT * FROM t",
			dialect:     "dm",
			maxRows:     10,
			want:        "SELECT * FROM t",
			wantApplied: false,
		},
		{
			name:        "zero cap disables injection",
			sql:         "SELECT * FROM t",
			dialect:     types.DialectMySQL,
			maxRows:     0,
			want:        "SELECT * FROM t",
			wantApplied: false,
		},
		{
			name:        "non-select is untouched",
			sql:         "UPDATE t SET a = 1",
			dialect:     types.DialectMySQL,
			maxRows:     10,
			want:        "UPDATE t SET a = 1",
			wantApplied: false,
		},
		{
			name:        "comment-only statement is untouched",
			sql:         "/* nothing */",
			dialect:     types.DialectMySQL,
			maxRows:     10,
			want:        "/* nothing */",
			wantApplied: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, applied := Apply(tt.sql, tt.dialect, tt.maxRows)
			if applied != tt.wantApplied {
				t.Fatalf("Apply(%q) applied = %v, want %v", tt.sql, applied, tt.wantApplied)
			}
			if got != tt.want {
				t.Errorf("Apply(%q) = %q, want %q", tt.sql, got, tt.want)
			}
		})
	}
}
