package version

import (
	"github.com/Masterminds/semver/v3"
)

var (
	parsedVersion  *semver.Version
	parseAttempted bool
)

// resetParsedVersion clears the cached parsed version for testing.
func resetParsedVersion() {
	parsedVersion = nil
	parseAttempted = false
}

// Parsed returns the parsed semantic version, or nil if unparseable.
// The result is cached after the first call.
func Parsed() *semver.Version {
	if parsedVersion != nil || parseAttempted {
		return parsedVersion
	}
	parseAttempted = true

	v, err := semver.NewVersion(Version)
	if err != nil {
		return nil
	}
	parsedVersion = v
	return parsedVersion
}

// IsPrerelease reports whether the running build is a pre-release.
func IsPrerelease() bool {
	v := Parsed()
	return v != nil && v.Prerelease() != ""
}

// IsDevBuild reports whether this build carries no valid semver.
func IsDevBuild() bool {
	return Parsed() == nil
}

// IsOlderThan reports whether the running build is older than other.
// Unparseable versions on either side never compare as older, so dev
// builds can open any store.
func IsOlderThan(other string) bool {
	current := Parsed()
	if current == nil {
		return false
	}
	otherV, err := semver.NewVersion(other)
	if err != nil {
		return false
	}
	return current.LessThan(otherV)
}
