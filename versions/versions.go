// Package versions implements version constraint validation and selection
// for Maven-style version numbers.
//
// Constraint expressions accept an exact version ("2.7.18"), node-style
// selectors ("29.x", "~1.2", "^1.4", ">=1.2 <2"), hyphen ranges ("25 - 29",
// also accepted without spaces), and the keywords "latest.release",
// "latest.integration" and "latest.patch".
//
// An optional pattern extends selection beyond plain semver: a constraint of
// "25-29" paired with a pattern of "-jre" selects versions like "29.0-jre".
package versions

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
)

type latestKind int

const (
	latestNone latestKind = iota
	latestRelease
	latestIntegration
	latestPatch
)

// Comparator validates candidate versions against a constraint expression
// and selects upgrade targets. A Comparator is immutable and safe for
// concurrent use.
type Comparator struct {
	raw        string
	pattern    string
	constraint *semver.Constraints
	latest     latestKind
}

// InvalidConstraintError reports a constraint expression that could not be
// parsed. It is returned by Validate before any resolution work begins.
type InvalidConstraintError struct {
	Constraint string
	Pattern    string
	Err        error
}

func (e *InvalidConstraintError) Error() string {
	if e.Pattern != "" {
		return fmt.Sprintf("invalid version constraint %q (pattern %q): %v", e.Constraint, e.Pattern, e.Err)
	}
	return fmt.Sprintf("invalid version constraint %q: %v", e.Constraint, e.Err)
}

func (e *InvalidConstraintError) Unwrap() error { return e.Err }

// releasePrefix matches the numeric release portion of a version string.
// Everything after it (qualifier, prerelease, build metadata) is the suffix
// a refinement pattern is matched against.
var releasePrefix = regexp.MustCompile(`^v?\d+(?:\.\d+)*`)

// bareHyphenRange matches "25-29" style ranges written without spaces.
// Hyphen ranges with qualifiers must use the spaced form to stay
// distinguishable from prerelease suffixes.
var bareHyphenRange = regexp.MustCompile(`^\s*(v?\d+(?:\.\d+)*)\s*-\s*(v?\d+(?:\.\d+)*)\s*$`)

// Validate parses a constraint expression and optional refinement pattern
// into a Comparator. It returns an *InvalidConstraintError for malformed
// input so callers can fail before touching any document.
func Validate(constraint, pattern string) (*Comparator, error) {
	c := &Comparator{raw: constraint, pattern: pattern}

	switch strings.ToLower(strings.TrimSpace(constraint)) {
	case "":
		return nil, &InvalidConstraintError{Constraint: constraint, Pattern: pattern, Err: fmt.Errorf("empty constraint")}
	case "latest.release":
		c.latest = latestRelease
		return c, nil
	case "latest.integration":
		c.latest = latestIntegration
		return c, nil
	case "latest.patch":
		c.latest = latestPatch
		return c, nil
	}

	expr := constraint
	if m := bareHyphenRange.FindStringSubmatch(constraint); m != nil {
		expr = fmt.Sprintf(">=%s <=%s", m[1], m[2])
	}

	parsed, err := semver.NewConstraint(expr)
	if err != nil {
		return nil, &InvalidConstraintError{Constraint: constraint, Pattern: pattern, Err: err}
	}
	c.constraint = parsed
	return c, nil
}

// IsVersion reports whether s parses as a version number. Partial versions
// such as "1.0" are accepted; property placeholders and other non-version
// tokens are not.
func IsVersion(s string) bool {
	_, err := semver.NewVersion(s)
	return err == nil
}

// String returns the original constraint expression.
func (c *Comparator) String() string { return c.raw }

// IsValid reports whether candidate satisfies the constraint, relative to
// the current version where the constraint semantics require one
// (latest.patch stays within current's major.minor line).
func (c *Comparator) IsValid(current, candidate string) bool {
	v, err := semver.NewVersion(candidate)
	if err != nil {
		return false
	}

	if c.pattern != "" {
		if !suffixMatches(candidate, c.pattern) {
			return false
		}
		// The qualifier is accounted for by the pattern; constraint
		// evaluation sees only the release portion.
		release := releasePrefix.FindString(candidate)
		if release == "" {
			return false
		}
		if v, err = semver.NewVersion(release); err != nil {
			return false
		}
	}

	switch c.latest {
	case latestRelease:
		return v.Prerelease() == ""
	case latestIntegration:
		return true
	case latestPatch:
		cur, err := semver.NewVersion(current)
		if err != nil {
			return false
		}
		return v.Prerelease() == "" && v.Major() == cur.Major() && v.Minor() == cur.Minor()
	}

	return c.constraint.Check(v)
}

// Compare orders two version strings. Versions that fail to parse fall back
// to lexical comparison, matching how unparseable versions behave in
// repository metadata listings.
func (c *Comparator) Compare(a, b string) int {
	va, errA := semver.NewVersion(a)
	vb, errB := semver.NewVersion(b)
	if errA != nil || errB != nil {
		return strings.Compare(a, b)
	}
	return va.Compare(vb)
}

// Upgrade selects the best candidate strictly newer than current.
// The boolean result is false when no candidate qualifies.
func (c *Comparator) Upgrade(current string, candidates []string) (string, bool) {
	best := ""
	found := false
	for _, candidate := range candidates {
		if c.Compare(current, candidate) >= 0 {
			continue
		}
		if !found || c.Compare(best, candidate) < 0 {
			best = candidate
			found = true
		}
	}
	return best, found
}

// Max selects the highest candidate under the comparator's ordering,
// regardless of its relation to any current version.
func (c *Comparator) Max(candidates []string) (string, bool) {
	best := ""
	found := false
	for _, candidate := range candidates {
		if !found || c.Compare(best, candidate) < 0 {
			best = candidate
			found = true
		}
	}
	return best, found
}

// suffixMatches reports whether the non-release portion of candidate
// contains pattern.
func suffixMatches(candidate, pattern string) bool {
	release := releasePrefix.FindString(candidate)
	if release == "" {
		return false
	}
	return strings.Contains(candidate[len(release):], pattern)
}
