package release

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// NormalizeVersion parses version as semver (tolerating a leading "v") and
// returns it without the prefix.
func NormalizeVersion(version string) (string, error) {
	v, err := parseSemver(version)
	if err != nil {
		return "", fmt.Errorf("invalid version %q: %w", version, err)
	}
	return v.String(), nil
}

// CompareVersions compares two version strings using semver.
// Returns -1 if a < b, 0 if equal, 1 if a > b.
func CompareVersions(a, b string) (int, error) {
	av, err := parseSemver(a)
	if err != nil {
		return 0, fmt.Errorf("parsing version %q: %w", a, err)
	}
	bv, err := parseSemver(b)
	if err != nil {
		return 0, fmt.Errorf("parsing version %q: %w", b, err)
	}
	return av.Compare(bv), nil
}

// ParseVersionOutput finds the first semver token in the output of
// `qspin version`, such as "qspin version 1.2.3 (commit: abc)".
func ParseVersionOutput(out string) (string, error) {
	for _, field := range strings.Fields(out) {
		field = strings.Trim(field, "(),;:")
		if v, err := NormalizeVersion(field); err == nil {
			return v, nil
		}
	}
	return "", fmt.Errorf("no version found in %q", strings.TrimSpace(out))
}

// parseSemver strips a leading "v" and parses the version string.
func parseSemver(version string) (*semver.Version, error) {
	version = strings.TrimPrefix(strings.TrimSpace(version), "v")
	if version == "" {
		return nil, fmt.Errorf("empty version")
	}
	return semver.StrictNewVersion(version)
}
