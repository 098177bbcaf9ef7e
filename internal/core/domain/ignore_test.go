package domain_test

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/kiln/internal/core/domain"
)

func TestIgnoreRule_Match(t *testing.T) {
	tests := []struct {
		name string
		rule domain.IgnoreRule
		abs  string
		rel  string
		want bool
	}{
		{
			name: "relative glob matches below root",
			rule: domain.Pattern("dist/**"),
			abs:  "/p/dist/app.js",
			rel:  "dist/app.js",
			want: true,
		},
		{
			name: "relative glob misses other dirs",
			rule: domain.Pattern("dist/**"),
			abs:  "/p/src/app.js",
			rel:  "src/app.js",
			want: false,
		},
		{
			name: "extension glob",
			rule: domain.Pattern("**/*.map"),
			abs:  "/p/dist/app.js.map",
			rel:  "dist/app.js.map",
			want: true,
		},
		{
			name: "absolute glob matches absolute path",
			rule: domain.Pattern("/p/vendor/**"),
			abs:  "/p/vendor/lib.js",
			rel:  "vendor/lib.js",
			want: true,
		},
		{
			name: "regex matches absolute path",
			rule: domain.Regex(regexp.MustCompile(`\.tmp$`)),
			abs:  "/p/src/a.js.tmp",
			rel:  "src/a.js.tmp",
			want: true,
		},
		{
			name: "regex miss",
			rule: domain.Regex(regexp.MustCompile(`\.tmp$`)),
			abs:  "/p/src/a.js",
			rel:  "src/a.js",
			want: false,
		},
		{
			name: "predicate receives absolute path",
			rule: domain.Predicate(func(p string) bool { return strings.HasPrefix(p, "/p/gen/") }),
			abs:  "/p/gen/out.js",
			rel:  "gen/out.js",
			want: true,
		},
		{
			name: "zero rule never matches",
			rule: domain.IgnoreRule{},
			abs:  "/p/a.js",
			rel:  "a.js",
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.rule.Match(tt.abs, tt.rel))
		})
	}
}

func TestIgnoreRule_Kind(t *testing.T) {
	assert.Equal(t, domain.IgnorePattern, domain.Pattern("*.js").Kind())
	assert.Equal(t, domain.IgnoreRegex, domain.Regex(regexp.MustCompile("x")).Kind())
	assert.Equal(t, domain.IgnorePredicate, domain.Predicate(func(string) bool { return false }).Kind())
	assert.Equal(t, "pattern:*.js", domain.Pattern("*.js").String())
}

func TestIsDotfile(t *testing.T) {
	tests := []struct {
		rel  string
		want bool
	}{
		{".env", true},
		{".git/HEAD", true},
		{"src/.cache/a.js", true},
		{"src/a.js", false},
		{"src/a.min.js", false},
		{".", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.rel, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.IsDotfile(tt.rel))
		})
	}
}

func TestMatchAny_FirstMatchWins(t *testing.T) {
	calls := 0
	rules := []domain.IgnoreRule{
		domain.Pattern("dist/**"),
		domain.Predicate(func(string) bool {
			calls++
			return false
		}),
	}

	assert.True(t, domain.MatchAny(rules, "/p/dist/a.js", "dist/a.js"))
	assert.Zero(t, calls)

	assert.False(t, domain.MatchAny(rules, "/p/src/a.js", "src/a.js"))
	assert.Equal(t, 1, calls)

	assert.True(t, domain.MatchAny(nil, "/p/.env", ".env"))
}
