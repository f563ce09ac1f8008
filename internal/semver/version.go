// Package semver wraps github.com/Masterminds/semver/v3 with the bump
// arithmetic and dependency-spec grammar the resolution engine needs: a
// DependencySpec parser that recognizes exact, caret, tilde, comparator-list
// and x-range forms, and an operator-preserving rewrite used by the version
// resolver's dependency-spec rewrite step.
package semver

import (
	"fmt"
	"regexp"
	"strings"

	mastersemver "github.com/Masterminds/semver/v3"

	"github.com/monoship/monoship/internal/model"
)

// Version is a parsed semantic version.
type Version struct {
	v *mastersemver.Version
}

// Parse parses a version string per semver.org, tolerating a leading "v".
func Parse(s string) (Version, error) {
	v, err := mastersemver.NewVersion(strings.TrimSpace(s))
	if err != nil {
		return Version{}, fmt.Errorf("invalid version %q: %w", s, err)
	}
	return Version{v: v}, nil
}

// MustParse parses s and panics on error; for use with known-good literals
// (tests, defaults).
func MustParse(s string) Version {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

func (v Version) String() string {
	if v.v == nil {
		return "0.0.0"
	}
	return v.v.String()
}

// Compare returns -1, 0, or 1 per standard comparison semantics.
func (v Version) Compare(other Version) int {
	return v.v.Compare(other.v)
}

func (v Version) LessThan(other Version) bool    { return v.Compare(other) < 0 }
func (v Version) GreaterThan(other Version) bool { return v.Compare(other) > 0 }
func (v Version) Equal(other Version) bool       { return v.Compare(other) == 0 }

func (v Version) Major() uint64 { return v.v.Major() }
func (v Version) Minor() uint64 { return v.v.Minor() }
func (v Version) Patch() uint64 { return v.v.Patch() }

// Bump applies a semver increment and returns the new version. Prerelease
// and build metadata are stripped unless the caller requests snapshot mode
// (see ApplySnapshot).
func (v Version) Bump(bump model.BumpType) (Version, error) {
	switch bump {
	case model.BumpMajor:
		nv := v.v.IncMajor()
		return Version{v: &nv}, nil
	case model.BumpMinor:
		nv := v.v.IncMinor()
		return Version{v: &nv}, nil
	case model.BumpPatch:
		nv := mastersemver.New(v.v.Major(), v.v.Minor(), v.v.Patch()+1, "", "")
		return Version{v: nv}, nil
	default:
		return Version{}, fmt.Errorf("unknown bump type %q", bump)
	}
}

// ApplySnapshot appends a `-0.<shortSHA>` prerelease tag to v, for
// snapshot-mode releases built from an unreleased commit.
func ApplySnapshot(v Version, shortSHA string) (Version, error) {
	raw := fmt.Sprintf("%d.%d.%d-0.%s", v.v.Major(), v.v.Minor(), v.v.Patch(), shortSHA)
	return Parse(raw)
}

// xRangePattern matches x-ranges like "1.x", "1.x.x", "1.2.x" (case
// insensitive on the x, per common ecosystem convention "X" also allowed).
var xRangePattern = regexp.MustCompile(`(?i)^[0-9]+(\.([0-9]+|x))*\.?x?$`)

// operatorPattern extracts a leading comparator operator from one range term.
var operatorPattern = regexp.MustCompile(`^(\^|~|>=|<=|>|<|=)?\s*`)

// ParseDependencySpec validates a dependency-spec string: a comma-separated
// list of ranges, each an optional operator plus a version, with x-ranges
// accepted and normalized, and bare "*" rejected.
func ParseDependencySpec(spec string) (*mastersemver.Constraints, error) {
	trimmed := strings.TrimSpace(spec)
	if trimmed == "" {
		return nil, fmt.Errorf("empty dependency spec")
	}
	if trimmed == "*" {
		return nil, fmt.Errorf("bare '*' is not a valid dependency spec")
	}

	normalized := normalizeXRanges(trimmed)
	c, err := mastersemver.NewConstraint(normalized)
	if err != nil {
		return nil, fmt.Errorf("invalid dependency spec %q: %w", spec, err)
	}
	return c, nil
}

// normalizeXRanges rewrites x-range terms ("1.x", "1.x.x", "1.2.x") to the
// equivalent caret constraint ("^1.0.0", "^1.2.0") ahead of handing the
// whole comma-list to Masterminds' constraint parser, which doesn't natively
// accept the trailing-x shorthand.
func normalizeXRanges(spec string) string {
	terms := strings.Split(spec, ",")
	for i, term := range terms {
		t := strings.TrimSpace(term)
		op := operatorPattern.FindString(t)
		body := strings.TrimSpace(strings.TrimPrefix(t, op))
		if op == "" && xRangePattern.MatchString(body) && strings.ContainsAny(body, "xX") {
			terms[i] = "^" + fillXRange(body)
		}
	}
	return strings.Join(terms, ",")
}

// fillXRange turns "1", "1.x", "1.x.x", "1.2.x" into a concrete "1.0.0"-style
// version by replacing x/X segments and missing segments with 0.
func fillXRange(body string) string {
	parts := strings.Split(body, ".")
	out := make([]string, 3)
	for i := 0; i < 3; i++ {
		if i < len(parts) && parts[i] != "" && !strings.EqualFold(parts[i], "x") {
			out[i] = parts[i]
		} else {
			out[i] = "0"
		}
	}
	return strings.Join(out, ".")
}

// RewriteSpec replaces the version embedded in a single-range, operator-led
// dependency spec with newVersion, preserving the original operator prefix.
// Comma-lists and x-ranges collapse to a single caret constraint at the new
// version, the default rewrite policy.
func RewriteSpec(spec string, newVersion Version) string {
	trimmed := strings.TrimSpace(spec)
	if strings.Contains(trimmed, ",") || isXRange(trimmed) {
		return "^" + newVersion.String()
	}
	op := operatorPattern.FindString(trimmed)
	return op + newVersion.String()
}

func isXRange(spec string) bool {
	op := operatorPattern.FindString(spec)
	if op != "" {
		return false
	}
	return xRangePattern.MatchString(spec) && strings.ContainsAny(spec, "xX")
}

// Satisfies reports whether version satisfies the dependency spec.
func Satisfies(spec string, version Version) (bool, error) {
	c, err := ParseDependencySpec(spec)
	if err != nil {
		return false, err
	}
	return c.Check(version.v), nil
}
