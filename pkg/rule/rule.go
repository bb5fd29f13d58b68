package rule

import (
	"errors"
	"fmt"
)

// ErrInvalidRule is returned when a rule is missing a field.
var ErrInvalidRule = errors.New("invalid rule")

// Rule selects the profile used for repositories under a directory.
type Rule struct {
	// ProfileName is the name of the profile to include.
	ProfileName string `json:"profileName" jsonschema:"title=Profile Name,minLength=1"`
	// DirectoryPath is the directory as entered by the user. It may start
	// with "~" to refer to the home directory.
	DirectoryPath string `json:"directoryPath" jsonschema:"title=Directory Path,minLength=1"`
}

// New creates a validated [Rule].
func New(profileName, directoryPath string) (Rule, error) {
	r := Rule{
		ProfileName:   profileName,
		DirectoryPath: directoryPath,
	}

	if err := r.Validate(); err != nil {
		return Rule{}, err
	}

	return r, nil
}

// Validate checks that both fields are set.
func (r Rule) Validate() error {
	if r.ProfileName == "" {
		return fmt.Errorf("%w: profile name must not be empty", ErrInvalidRule)
	}
	if r.DirectoryPath == "" {
		return fmt.Errorf("%w: directory path must not be empty", ErrInvalidRule)
	}

	return nil
}

// Matches reports whether r binds the same profile and exact directory text.
func (r Rule) Matches(other Rule) bool {
	return r.ProfileName == other.ProfileName && r.DirectoryPath == other.DirectoryPath
}

func (r Rule) String() string {
	return fmt.Sprintf("%s -> %s", r.DirectoryPath, r.ProfileName)
}
