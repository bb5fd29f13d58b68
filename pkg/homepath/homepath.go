package homepath

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Marker is the home directory shorthand accepted at the start of a path.
const Marker = "~"

// ErrInvalidPath indicates that a path cannot be expressed relative to the
// home directory.
var ErrInvalidPath = errors.New("invalid path")

// Expand replaces a leading [Marker] with homeDir. Only the first character
// is considered; a marker anywhere else is left untouched.
func Expand(path, homeDir string) string {
	if rest, ok := strings.CutPrefix(path, Marker); ok {
		return homeDir + rest
	}

	return path
}

// Normalize expands path, makes it absolute, and returns it relative to
// homeDir using "/" as the separator.
//
// Relative inputs are interpreted relative to homeDir, so normalizing an
// already normalized path returns it unchanged.
func Normalize(path, homeDir string) (string, error) {
	expanded := Expand(path, homeDir)

	abs := expanded
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(homeDir, abs)
	}

	return Rel(abs, homeDir)
}

// Rel returns target relative to homeDir with "/" separators.
func Rel(target, homeDir string) (string, error) {
	home, err := filepath.Abs(homeDir)
	if err != nil {
		return "", fmt.Errorf("%w: home %q: %w", ErrInvalidPath, homeDir, err)
	}

	abs, err := filepath.Abs(target)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %w", ErrInvalidPath, target, err)
	}

	rel, err := filepath.Rel(home, abs)
	if err != nil {
		return "", fmt.Errorf("%w: %q is not relative to %q: %w", ErrInvalidPath, target, homeDir, err)
	}

	return filepath.ToSlash(rel), nil
}
