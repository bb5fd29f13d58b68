package directive

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/aymanbagabas/go-udiff"

	"github.com/macropower/gcm/pkg/profile"
)

// FragmentStatus describes what happened to a fragment file.
type FragmentStatus string

const (
	FragmentCreated   FragmentStatus = "created"
	FragmentUpdated   FragmentStatus = "updated"
	FragmentUnchanged FragmentStatus = "unchanged"
)

// Fragment is a credential file generated for one profile.
type Fragment struct {
	// Path is the location of the fragment file.
	Path string
	// Status reports whether the file was new, changed, or identical.
	Status FragmentStatus
	// Diff is a unified diff from the previous content when Status is
	// [FragmentUpdated].
	Diff string
	// Profile is the name of the profile the fragment belongs to.
	Profile string
}

// RenderFragment returns the Git config content for p.
func RenderFragment(p profile.Profile) []byte {
	var b strings.Builder

	b.WriteString("[user]\n")
	b.WriteString("\tname = " + p.UserName + "\n")
	b.WriteString("\temail = " + p.UserEmail + "\n")

	return []byte(b.String())
}

// compareFragment reads the existing fragment at path and classifies the
// change to content.
func compareFragment(path string, content []byte) (FragmentStatus, string, error) {
	old, err := os.ReadFile(path) //nolint:gosec // G304: Path is built from the profiles directory.
	if errors.Is(err, fs.ErrNotExist) {
		return FragmentCreated, "", nil
	}
	if err != nil {
		return "", "", fmt.Errorf("read fragment: %w", err)
	}

	if string(old) == string(content) {
		return FragmentUnchanged, "", nil
	}

	return FragmentUpdated, udiff.Unified(path, path, string(old), string(content)), nil
}
