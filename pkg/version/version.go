// Package version computes target semantic versions for versioning branches.
//
// Resolution is pure: given a base version and a bump directive it produces
// the next version string and whether it is a pre-release. No I/O happens
// here; callers fetch the base version and apply the result.
package version

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// BumpLevel is the requested increment level.
type BumpLevel string

const (
	// BumpMajor increments the major component.
	BumpMajor BumpLevel = "major"
	// BumpMinor increments the minor component.
	BumpMinor BumpLevel = "minor"
	// BumpPatch increments the patch component.
	BumpPatch BumpLevel = "patch"
	// BumpPrerelease increments the pre-release component.
	BumpPrerelease BumpLevel = "prerelease"
)

// preIDPattern matches a valid dot-separated pre-release identifier chain.
// Purely numeric identifiers must not carry leading zeros.
var preIDPattern = regexp.MustCompile(`^(0|[1-9]\d*|\d*[A-Za-z-][0-9A-Za-z-]*)(\.(0|[1-9]\d*|\d*[A-Za-z-][0-9A-Za-z-]*))*$`)

// InvalidVersionError indicates a value that is not a valid semantic version.
type InvalidVersionError struct {
	Value  string
	Reason error
}

func (e *InvalidVersionError) Error() string {
	if e.Reason != nil {
		return fmt.Sprintf("invalid semantic version %q: %v", e.Value, e.Reason)
	}
	return fmt.Sprintf("invalid semantic version %q", e.Value)
}

func (e *InvalidVersionError) Unwrap() error { return e.Reason }

// InvalidBumpLevelError indicates a bump level outside the recognized set.
type InvalidBumpLevelError struct {
	Value string
}

func (e *InvalidBumpLevelError) Error() string {
	return fmt.Sprintf("invalid bump level %q (expected major, minor, patch, or prerelease)", e.Value)
}

// ParseBumpLevel validates a bump level string against the closed set.
func ParseBumpLevel(s string) (BumpLevel, error) {
	switch BumpLevel(s) {
	case BumpMajor, BumpMinor, BumpPatch, BumpPrerelease:
		return BumpLevel(s), nil
	default:
		return "", &InvalidBumpLevelError{Value: s}
	}
}

// Resolution is the outcome of resolving a bump directive.
type Resolution struct {
	// Version is the resolved target version string.
	Version string
	// Prerelease reports whether the target is a pre-release.
	Prerelease bool
}

// Resolve computes the target version for a bump directive.
//
// A non-empty customVersion wins outright: it is validated and returned
// verbatim, and level is not consulted for computation. Otherwise level is
// parsed, baseVersion is validated, and the increment rules for the derived
// release type are applied. A non-empty preID upgrades major/minor/patch to
// premajor/preminor/prepatch; prerelease stays prerelease either way.
func Resolve(baseVersion, level, preID, customVersion string) (Resolution, error) {
	prerelease := BumpLevel(level) == BumpPrerelease || preID != ""

	if customVersion != "" {
		if _, err := semver.StrictNewVersion(customVersion); err != nil {
			return Resolution{}, &InvalidVersionError{Value: customVersion, Reason: err}
		}
		return Resolution{Version: customVersion, Prerelease: prerelease}, nil
	}

	lvl, err := ParseBumpLevel(level)
	if err != nil {
		return Resolution{}, err
	}

	base, err := semver.StrictNewVersion(baseVersion)
	if err != nil {
		return Resolution{}, &InvalidVersionError{Value: baseVersion, Reason: err}
	}

	if preID != "" && !preIDPattern.MatchString(preID) {
		return Resolution{}, &InvalidVersionError{Value: preID, Reason: fmt.Errorf("invalid pre-release identifier")}
	}

	next := increment(base, lvl, preID)
	return Resolution{Version: next.String(), Prerelease: prerelease}, nil
}

// increment applies the release-type rules to base. The rules follow the
// conventional semver increment table: a bare major/minor/patch bump of a
// pre-release of the target version finalizes it instead of skipping ahead,
// and prerelease bumps advance the last numeric identifier.
func increment(base *semver.Version, lvl BumpLevel, preID string) *semver.Version {
	pre := base.Prerelease()

	switch lvl {
	case BumpMajor:
		if preID != "" {
			return newVersion(base.Major()+1, 0, 0, initialPre(preID))
		}
		if pre != "" && base.Minor() == 0 && base.Patch() == 0 {
			return newVersion(base.Major(), 0, 0, "")
		}
		return newVersion(base.Major()+1, 0, 0, "")

	case BumpMinor:
		if preID != "" {
			return newVersion(base.Major(), base.Minor()+1, 0, initialPre(preID))
		}
		if pre != "" && base.Patch() == 0 {
			return newVersion(base.Major(), base.Minor(), 0, "")
		}
		return newVersion(base.Major(), base.Minor()+1, 0, "")

	case BumpPatch:
		if preID != "" {
			return newVersion(base.Major(), base.Minor(), base.Patch()+1, initialPre(preID))
		}
		if pre != "" {
			return newVersion(base.Major(), base.Minor(), base.Patch(), "")
		}
		return newVersion(base.Major(), base.Minor(), base.Patch()+1, "")

	default: // BumpPrerelease
		return incrementPrerelease(base, preID)
	}
}

// incrementPrerelease advances the pre-release component of base.
//
// A version with no pre-release becomes a pre-release of the next patch.
// When preID differs from the current identifier the counter restarts at
// zero. Otherwise the last numeric identifier is incremented; if none is
// numeric a zero counter is appended.
func incrementPrerelease(base *semver.Version, preID string) *semver.Version {
	pre := base.Prerelease()
	if pre == "" {
		return newVersion(base.Major(), base.Minor(), base.Patch()+1, initialPre(preID))
	}

	ids := strings.Split(pre, ".")
	if preID != "" && ids[0] != preID {
		return newVersion(base.Major(), base.Minor(), base.Patch(), initialPre(preID))
	}

	for i := len(ids) - 1; i >= 0; i-- {
		if n, err := strconv.Atoi(ids[i]); err == nil {
			ids[i] = strconv.Itoa(n + 1)
			return newVersion(base.Major(), base.Minor(), base.Patch(), strings.Join(ids, "."))
		}
	}

	return newVersion(base.Major(), base.Minor(), base.Patch(), pre+".0")
}

// initialPre returns the starting pre-release chain for a given identifier.
func initialPre(preID string) string {
	if preID == "" {
		return "0"
	}
	return preID + ".0"
}

func newVersion(major, minor, patch uint64, pre string) *semver.Version {
	return semver.New(major, minor, patch, pre, "")
}
