package patch

import (
	"strings"

	bperrors "git.home.luguber.info/inful/buildprep/internal/errors"
)

// VersionString is a validated major.minor.revision version value.
// It is never mutated after ParseVersion.
type VersionString string

// ParseVersion checks that raw splits into exactly three dot-separated
// components. The components are deliberately not checked to be numeric;
// the check only guards against obviously unintentional version strings.
func ParseVersion(raw string) (VersionString, error) {
	if len(strings.Split(raw, ".")) != 3 {
		return "", bperrors.ValidationFailed("version",
			"version string must contain major, minor, and revision numbers separated by '.'").
			WithContext("value", raw)
	}
	return VersionString(raw), nil
}

func (v VersionString) String() string {
	return string(v)
}
