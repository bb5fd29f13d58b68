package config

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/macropower/gcm/pkg/profile"
	"github.com/macropower/gcm/pkg/rule"
	"github.com/macropower/gcm/pkg/schema"
	"github.com/macropower/gcm/pkg/store"
	"github.com/macropower/gcm/pkg/yaml"
)

const (
	// DirName is the name of the configuration directory inside the home directory.
	DirName = ".git-config-manager"
	// FileName is the name of the persisted document.
	FileName = "config.json"
	// ProfilesDirName is the subdirectory holding generated credential fragments.
	ProfilesDirName = "profiles"
)

// DefaultValidator lazily compiles the schema for [Document].
var DefaultValidator = sync.OnceValues(func() (*schema.Validator, error) {
	return schema.NewValidatorFor(&Document{})
})

// Document is the persisted representation of a [store.Store].
type Document struct {
	// Profiles lists all identities in insertion order.
	Profiles []profile.Profile `json:"profiles" jsonschema:"title=Profiles"`
	// Rules lists directory bindings in insertion order.
	Rules []rule.Rule `json:"rules" jsonschema:"title=Rules"`
}

// NewDocument captures the current state of s.
func NewDocument(s *store.Store) *Document {
	return &Document{
		Profiles: s.Profiles(),
		Rules:    s.Rules(),
	}
}

// Store builds a [store.Store] from the document.
func (d *Document) Store() (*store.Store, error) {
	return store.New(d.Profiles, d.Rules) //nolint:wrapcheck // Return the original error.
}

// JSON returns the document indented by two spaces, with a trailing newline.
func (d *Document) JSON() ([]byte, error) {
	b, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal json: %w", err)
	}

	return append(b, '\n'), nil
}

// YAML returns the document as YAML.
func (d *Document) YAML() ([]byte, error) {
	return yaml.Marshal(d) //nolint:wrapcheck // Return the original error.
}

// Schema returns the JSON schema of [Document].
func Schema() ([]byte, error) {
	return schema.Reflect(&Document{}) //nolint:wrapcheck // Return the original error.
}

// DefaultDir returns the configuration directory for the given home directory.
func DefaultDir(homeDir string) string {
	return filepath.Join(homeDir, DirName)
}
