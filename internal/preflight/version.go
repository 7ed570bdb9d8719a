package preflight

import (
	"fmt"
	"regexp"

	"github.com/Masterminds/semver/v3"
)

// versionPattern finds the first dotted version in tool output such as
// "git version 2.39.3 (Apple Git-146)" or "Vagrant 2.4.1".
var versionPattern = regexp.MustCompile(`\d+\.\d+(?:\.\d+)?(?:-[0-9A-Za-z.-]+)?`)

// ExtractVersion pulls the first version number out of output.
func ExtractVersion(output string) (*semver.Version, error) {
	match := versionPattern.FindString(output)
	if match == "" {
		return nil, fmt.Errorf("no version number in %q", output)
	}
	return semver.NewVersion(match)
}

// checkVersion reports whether output carries a version inside constraint.
// It returns the parsed version for messages.
func checkVersion(output, constraint string) (*semver.Version, bool, error) {
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return nil, false, fmt.Errorf("invalid version constraint %q: %w", constraint, err)
	}
	v, err := ExtractVersion(output)
	if err != nil {
		return nil, false, err
	}
	return v, c.Check(v), nil
}
