package profile

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidProfile is returned when a profile fails validation.
var ErrInvalidProfile = errors.New("invalid profile")

// Profile is a named Git identity.
type Profile struct {
	// Name uniquely identifies the profile, e.g. "work" or "school".
	Name string `json:"name" jsonschema:"title=Profile Name,minLength=1"`
	// UserName is written as Git's user.name.
	UserName string `json:"userName" jsonschema:"title=Git User Name"`
	// UserEmail is written as Git's user.email.
	UserEmail string `json:"userEmail" jsonschema:"title=Git User Email"`
}

// New creates a validated [Profile].
func New(name, userName, userEmail string) (Profile, error) {
	p := Profile{
		Name:      name,
		UserName:  userName,
		UserEmail: userEmail,
	}

	if err := p.Validate(); err != nil {
		return Profile{}, err
	}

	return p, nil
}

// Validate checks that the profile name can be used as a file name.
func (p Profile) Validate() error {
	switch {
	case p.Name == "":
		return fmt.Errorf("%w: name must not be empty", ErrInvalidProfile)
	case p.Name == "." || p.Name == "..":
		return fmt.Errorf("%w: name %q is reserved", ErrInvalidProfile, p.Name)
	case strings.ContainsAny(p.Name, `/\`):
		return fmt.Errorf("%w: name %q must not contain path separators", ErrInvalidProfile, p.Name)
	}

	return nil
}

// FileName returns the name of the profile's credential fragment.
func (p Profile) FileName() string {
	return p.Name + ".gitconfig"
}

func (p Profile) String() string {
	return fmt.Sprintf("%s: %s <%s>", p.Name, p.UserName, p.UserEmail)
}
