package route

import (
	"fmt"
	"strings"

	"github.com/gobwas/glob"
)

// MatchKind selects how a rule pattern is applied to a request path.
type MatchKind uint8

const (
	// MatchExact matches the whole path verbatim.
	MatchExact MatchKind = iota
	// MatchPrefix matches any path beginning with the pattern.
	MatchPrefix
	// MatchGlob matches the whole path against a glob expression.
	// The wildcard * crosses path separators, so "*.png" exempts image
	// assets at any depth.
	MatchGlob
)

// Spec is a single exemption rule as written in configuration.
type Spec struct {
	Kind    MatchKind
	Pattern string
}

// Exact returns an exact-match rule for path.
func Exact(path string) Spec { return Spec{Kind: MatchExact, Pattern: path} }

// Prefix returns a prefix-match rule for path.
func Prefix(path string) Spec { return Spec{Kind: MatchPrefix, Pattern: path} }

// Glob returns a glob-match rule for pattern.
func Glob(pattern string) Spec { return Spec{Kind: MatchGlob, Pattern: pattern} }

// DefaultSpecs is the stock exemption set for a typical web application:
// API-internal routes, compiled static assets, optimized images, and raw
// image files bypass gating.
func DefaultSpecs() []Spec {
	return []Spec{
		Prefix("/api"),
		Prefix("/_next/static"),
		Prefix("/_next/image"),
		Glob("*.png"),
	}
}

type compiledRule struct {
	spec Spec
	glob glob.Glob // non-nil only for MatchGlob
}

// Matcher evaluates an ordered exemption rule list against request paths.
// A Matcher is immutable after Compile and safe for concurrent use; Exempt
// allocates nothing.
type Matcher struct {
	rules []compiledRule
}

// Compile validates and compiles an exemption rule list. Rule errors are
// startup-time faults: the returned error names the offending rule so the
// configuration can be fixed, and no partially compiled Matcher escapes.
func Compile(specs []Spec) (*Matcher, error) {
	rules := make([]compiledRule, 0, len(specs))
	for i, spec := range specs {
		if spec.Pattern == "" {
			return nil, fmt.Errorf("exemption rule %d: empty pattern", i)
		}
		switch spec.Kind {
		case MatchExact, MatchPrefix:
			if !strings.HasPrefix(spec.Pattern, "/") {
				return nil, fmt.Errorf("exemption rule %d: pattern %q must start with /", i, spec.Pattern)
			}
			rules = append(rules, compiledRule{spec: spec})
		case MatchGlob:
			g, err := glob.Compile(spec.Pattern)
			if err != nil {
				return nil, fmt.Errorf("exemption rule %d: invalid glob %q: %v", i, spec.Pattern, err)
			}
			rules = append(rules, compiledRule{spec: spec, glob: g})
		default:
			return nil, fmt.Errorf("exemption rule %d: unknown match kind %d", i, spec.Kind)
		}
	}
	return &Matcher{rules: rules}, nil
}

// Exempt reports whether path matches any rule in order.
func (m *Matcher) Exempt(path string) bool {
	if m == nil {
		return false
	}
	for _, r := range m.rules {
		switch r.spec.Kind {
		case MatchExact:
			if path == r.spec.Pattern {
				return true
			}
		case MatchPrefix:
			if strings.HasPrefix(path, r.spec.Pattern) {
				return true
			}
		case MatchGlob:
			if r.glob.Match(path) {
				return true
			}
		}
	}
	return false
}
