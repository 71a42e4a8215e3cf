// Package glob compiles shell-style path patterns into whole-path matchers.
//
// Only two wildcards are recognised. '*' matches any run of characters,
// including path separators. '?' matches zero or one character: this is
// deliberately looser than the usual shell meaning and existing job
// configurations rely on it, so a pattern like "/data/report?.xlsx" also
// selects "/data/report.xlsx".
package glob

import (
	"path/filepath"
	"regexp"
	"strings"
)

const wildcards = "*?"

// HasWildcard returns whether the path spec contains '*' or '?' anywhere.
func HasWildcard(spec string) bool {
	return strings.ContainsAny(spec, wildcards)
}

// ParentDirectory returns the directory a walk for spec should start from.
// For a pattern this is the prefix up to and including the last separator
// that precedes the first wildcard. A literal spec is its own parent.
func ParentDirectory(spec string) string {
	first := strings.IndexAny(spec, wildcards)
	if first < 0 {
		return spec
	}
	lastSep := strings.LastIndex(spec[:first], string(filepath.Separator))
	return spec[:lastSep+1]
}

// Pattern is a compiled path spec.
type Pattern struct {
	spec     string
	parent   string
	re       *regexp.Regexp
	maxDepth int
}

// Compile translates spec into an anchored regular expression. Literal runs
// are quoted, '*' becomes ".*" and '?' becomes ".?". Translation is total,
// so there is no error return.
func Compile(spec string) *Pattern {
	var b strings.Builder
	b.WriteString(`(?s)^`)
	literalStart := 0
	for i, r := range spec {
		if r != '*' && r != '?' {
			continue
		}
		b.WriteString(regexp.QuoteMeta(spec[literalStart:i]))
		if r == '*' {
			b.WriteString(`.*`)
		} else {
			b.WriteString(`.?`)
		}
		literalStart = i + 1
	}
	b.WriteString(regexp.QuoteMeta(spec[literalStart:]))
	b.WriteString(`$`)

	parent := ParentDirectory(spec)
	p := &Pattern{
		spec:   spec,
		parent: parent,
		re:     regexp.MustCompile(b.String()),
	}
	if HasWildcard(spec) {
		p.maxDepth = strings.Count(spec[len(parent):], string(filepath.Separator)) + 1
	}
	return p
}

// Match reports whether the whole of path matches the pattern.
func (p *Pattern) Match(path string) bool {
	return p.re.MatchString(path)
}

// IsWildcard returns false for a literal spec, which matches every file under it.
func (p *Pattern) IsWildcard() bool {
	return p.maxDepth > 0
}

// Parent returns the walk root for the pattern.
func (p *Pattern) Parent() string {
	return p.parent
}

// MaxDepth is the number of path segments the pattern spans below its
// parent directory. A walk never needs to look deeper than this.
// It is 0 for literal specs, meaning unlimited.
func (p *Pattern) MaxDepth() int {
	return p.maxDepth
}

func (p *Pattern) String() string {
	return p.spec
}

// Expression returns the regular expression the path spec was translated into.
func (p *Pattern) Expression() string {
	return p.re.String()
}
