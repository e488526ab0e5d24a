package project

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// ValidPythonVersion reports whether s looks like a usable Python version:
// two or three numeric parts with a major version of at least 3.
func ValidPythonVersion(s string) bool {
	parts := strings.Split(s, ".")
	if len(parts) < 2 || len(parts) > 3 {
		return false
	}
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return false
		}
		if i == 0 && n < 3 {
			return false
		}
	}
	return true
}

// comparePythonVersions returns -1, 0, or 1 for a < b, a == b, a > b.
// Both inputs must already satisfy ValidPythonVersion.
func comparePythonVersions(a, b string) (int, error) {
	av, err := semver.NewVersion(a)
	if err != nil {
		return 0, fmt.Errorf("parsing Python version %q: %w", a, err)
	}
	bv, err := semver.NewVersion(b)
	if err != nil {
		return 0, fmt.Errorf("parsing Python version %q: %w", b, err)
	}
	return av.Compare(bv), nil
}

// pythonVersionAtLeast reports whether version >= floor.
func pythonVersionAtLeast(version, floor string) bool {
	cmp, err := comparePythonVersions(version, floor)
	if err != nil {
		return false
	}
	return cmp >= 0
}
