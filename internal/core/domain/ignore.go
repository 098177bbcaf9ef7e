package domain

import (
	"path"
	"path/filepath"
	"regexp"

	"github.com/bmatcuk/doublestar/v4"
)

// IgnoreKind tags the variant held by an IgnoreRule.
type IgnoreKind uint8

const (
	// IgnorePattern matches a doublestar glob.
	IgnorePattern IgnoreKind = iota + 1
	// IgnoreRegex matches a compiled regular expression.
	IgnoreRegex
	// IgnorePredicate delegates to a function.
	IgnorePredicate
)

// IgnoreRule decides whether a changed path is dropped by the watcher.
type IgnoreRule struct {
	kind    IgnoreKind
	pattern string
	re      *regexp.Regexp
	fn      func(string) bool
}

// Pattern returns a rule matching a doublestar glob. Relative globs are
// matched against the slash-separated path below the watch root, absolute
// globs against the absolute path.
func Pattern(glob string) IgnoreRule {
	return IgnoreRule{kind: IgnorePattern, pattern: filepath.ToSlash(glob)}
}

// Regex returns a rule matching the absolute path against re.
func Regex(re *regexp.Regexp) IgnoreRule {
	return IgnoreRule{kind: IgnoreRegex, re: re}
}

// Predicate returns a rule calling fn with the absolute path.
func Predicate(fn func(path string) bool) IgnoreRule {
	return IgnoreRule{kind: IgnorePredicate, fn: fn}
}

// Kind returns the variant tag.
func (r IgnoreRule) Kind() IgnoreKind {
	return r.kind
}

// String describes the rule for logs.
func (r IgnoreRule) String() string {
	switch r.kind {
	case IgnorePattern:
		return "pattern:" + r.pattern
	case IgnoreRegex:
		return "regex:" + r.re.String()
	case IgnorePredicate:
		return "predicate"
	default:
		return "invalid"
	}
}

// Match reports whether the rule drops the file at abs, whose path
// relative to the watch root is rel.
func (r IgnoreRule) Match(abs, rel string) bool {
	switch r.kind {
	case IgnorePattern:
		target := filepath.ToSlash(rel)
		if path.IsAbs(r.pattern) {
			target = filepath.ToSlash(abs)
		}
		ok, err := doublestar.Match(r.pattern, target)
		return err == nil && ok
	case IgnoreRegex:
		return r.re != nil && r.re.MatchString(abs)
	case IgnorePredicate:
		return r.fn != nil && r.fn(abs)
	default:
		return false
	}
}

// ValidatePattern reports whether glob is a well-formed doublestar pattern.
func ValidatePattern(glob string) bool {
	return doublestar.ValidatePattern(filepath.ToSlash(glob))
}

var dotfile = regexp.MustCompile(`(^|[/\\])\..`)

// IsDotfile reports whether any element of the root-relative path rel
// starts with a dot.
func IsDotfile(rel string) bool {
	if rel == "." || rel == "" {
		return false
	}
	return dotfile.MatchString(rel)
}

// MatchAny applies the dotfile rule and then rules in order; the first match wins.
func MatchAny(rules []IgnoreRule, abs, rel string) bool {
	if IsDotfile(rel) {
		return true
	}
	for _, r := range rules {
		if r.Match(abs, rel) {
			return true
		}
	}
	return false
}
