// Package version implements the version ordering used by update and
// criticality policy decisions.
//
// Parsing is total: malformed input degrades to comparable defaults instead
// of failing, so every pair of strings has a defined order.
package version

import (
	"strconv"
	"strings"
)

// Version is the parsed form of a version string.
type Version struct {
	Release    []int
	Prerelease string
}

// Parse parses a version string into a Version.
// Supports formats like "1.2.3", "v1.2.3", "1.2.3-rc.1", "1.2.3+build5".
// Unparseable release segments degrade to zero; build metadata is dropped.
func Parse(s string) *Version {
	s = strings.TrimSpace(s)
	if len(s) > 0 && (s[0] == 'v' || s[0] == 'V') {
		s = s[1:]
	}

	// Build metadata never participates in ordering.
	if i := strings.IndexByte(s, '+'); i >= 0 {
		s = s[:i]
	}

	core, prerelease, _ := strings.Cut(s, "-")

	segments := strings.Split(core, ".")
	release := make([]int, len(segments))
	for i, seg := range segments {
		n, err := strconv.Atoi(seg)
		if err != nil || n < 0 {
			n = 0
		}
		release[i] = n
	}

	return &Version{
		Release:    release,
		Prerelease: prerelease,
	}
}

// String returns the string representation
func (v *Version) String() string {
	parts := make([]string, len(v.Release))
	for i, n := range v.Release {
		parts[i] = strconv.Itoa(n)
	}
	s := strings.Join(parts, ".")
	if v.Prerelease != "" {
		s += "-" + v.Prerelease
	}
	return s
}

// Compare compares two versions
// Returns:
//   - 1 if v > other
//   - 0 if v == other
//   - -1 if v < other
func (v *Version) Compare(other *Version) int {
	// Compare release segments positionally; missing trailing segments are zero.
	n := len(v.Release)
	if len(other.Release) > n {
		n = len(other.Release)
	}
	for i := 0; i < n; i++ {
		var a, b int
		if i < len(v.Release) {
			a = v.Release[i]
		}
		if i < len(other.Release) {
			b = other.Release[i]
		}
		if a != b {
			if a > b {
				return 1
			}
			return -1
		}
	}

	// Stable versions (no prerelease) are greater than prereleases
	if v.Prerelease == "" && other.Prerelease != "" {
		return 1
	}
	if v.Prerelease != "" && other.Prerelease == "" {
		return -1
	}

	return comparePrerelease(v.Prerelease, other.Prerelease)
}

// comparePrerelease compares dot-separated prerelease identifier lists.
// A present identifier outranks a missing one, numeric identifiers compare
// as integers, and a numeric identifier ranks below an alphanumeric one at
// the same position.
func comparePrerelease(a, b string) int {
	if a == b {
		return 0
	}

	as := strings.Split(a, ".")
	bs := strings.Split(b, ".")

	n := len(as)
	if len(bs) > n {
		n = len(bs)
	}
	for i := 0; i < n; i++ {
		if i >= len(as) {
			return -1
		}
		if i >= len(bs) {
			return 1
		}
		if c := compareIdentifier(as[i], bs[i]); c != 0 {
			return c
		}
	}
	return 0
}

func compareIdentifier(a, b string) int {
	an, aNumeric := parseNumeric(a)
	bn, bNumeric := parseNumeric(b)

	switch {
	case aNumeric && bNumeric:
		if an != bn {
			if an > bn {
				return 1
			}
			return -1
		}
		return 0
	case aNumeric:
		return -1
	case bNumeric:
		return 1
	default:
		return strings.Compare(a, b)
	}
}

func parseNumeric(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// Compare compares two version strings
// Returns:
//   - 1 if a > b
//   - 0 if a == b
//   - -1 if a < b
//
// Malformed input never fails; it degrades through Parse.
func Compare(a, b string) int {
	return Parse(a).Compare(Parse(b))
}

// IsNewer returns true if a is strictly newer than b.
func IsNewer(a, b string) bool {
	return Compare(a, b) > 0
}

// AtLeast returns true if v is min or newer.
func AtLeast(v, min string) bool {
	return Compare(v, min) >= 0
}

// Normalize removes the 'v' prefix if present
func Normalize(s string) string {
	return strings.TrimPrefix(strings.TrimSpace(s), "v")
}
