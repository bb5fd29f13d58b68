package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/macropower/gcm/pkg/schema"
	"github.com/macropower/gcm/pkg/store"
	"github.com/macropower/gcm/pkg/yaml"
)

// ErrPersistence is returned when the document cannot be read, parsed, or written.
var ErrPersistence = errors.New("persistence failure")

// Validator validates decoded document data against a schema.
type Validator interface {
	Validate(data any) error
}

// GatewayOpt configures a [Gateway].
type GatewayOpt func(*Gateway)

// WithValidator replaces the schema validator.
func WithValidator(v Validator) GatewayOpt {
	return func(g *Gateway) {
		g.validator = v
	}
}

// Gateway loads and saves the store document in a configuration directory.
type Gateway struct {
	validator Validator
	dir       string
}

// NewGateway creates a [Gateway] rooted at dir.
func NewGateway(dir string, opts ...GatewayOpt) *Gateway {
	g := &Gateway{dir: dir}
	for _, opt := range opts {
		opt(g)
	}

	return g
}

// Dir returns the configuration directory.
func (g *Gateway) Dir() string {
	return g.dir
}

// Path returns the path of the persisted document.
func (g *Gateway) Path() string {
	return filepath.Join(g.dir, FileName)
}

// ProfilesDir returns the directory for generated credential fragments.
func (g *Gateway) ProfilesDir() string {
	return filepath.Join(g.dir, ProfilesDirName)
}

// Load reads the document and builds a [store.Store] from it.
//
// If the document does not exist yet, an empty store is saved and returned.
func (g *Gateway) Load() (*store.Store, error) {
	path := g.Path()

	data, err := readFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Debug("configuration not found, writing defaults",
			slog.String("path", path),
		)

		s := store.NewEmpty()
		if err := g.Save(s); err != nil {
			return nil, err
		}

		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	doc, err := g.decode(data)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid configuration %q: %w", ErrPersistence, path, err)
	}

	s, err := doc.Store()
	if err != nil {
		return nil, fmt.Errorf("%w: invalid configuration %q: %w", ErrPersistence, path, err)
	}

	slog.Debug("loaded configuration",
		slog.String("path", path),
		slog.Int("profiles", len(doc.Profiles)),
		slog.Int("rules", len(doc.Rules)),
	)

	return s, nil
}

// Save replaces the persisted document with the contents of s.
// The file is written to a temporary file and renamed into place.
func (g *Gateway) Save(s *store.Store) error {
	data, err := NewDocument(s).JSON()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	err = os.MkdirAll(g.dir, 0o700)
	if err != nil {
		return fmt.Errorf("%w: create directories: %w", ErrPersistence, err)
	}

	err = writeFileAtomic(g.Path(), data)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	slog.Debug("saved configuration", slog.String("path", g.Path()))

	return nil
}

// Document reads the persisted document without building a store.
func (g *Gateway) Document() (*Document, error) {
	data, err := readFile(g.Path())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	doc, err := g.decode(data)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid configuration %q: %w", ErrPersistence, g.Path(), err)
	}

	return doc, nil
}

func (g *Gateway) decode(data []byte) (*Document, error) {
	ew := yaml.NewErrorWrapper(yaml.WithSource(data))

	validator := g.validator
	if validator == nil {
		v, err := DefaultValidator()
		if err != nil {
			return nil, fmt.Errorf("create validator: %w", err)
		}

		validator = v
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("empty document")
	}

	// Decode into any for schema validation first.
	var anyDoc any

	err := yaml.Unmarshal(data, &anyDoc)
	if err != nil {
		return nil, ew.Wrap(err)
	}

	err = validator.Validate(anyDoc)
	if err != nil {
		var validationErr *schema.ValidationError
		if errors.As(err, &validationErr) {
			return nil, yaml.NewError(
				fmt.Errorf("%w: %s", schema.ErrValidation, validationErr.Detail),
				yaml.WithPath(validationErr.Path),
				yaml.WithSource(data),
			)
		}

		return nil, fmt.Errorf("validate: %w", err)
	}

	doc := &Document{}

	err = yaml.Unmarshal(data, doc)
	if err != nil {
		return nil, ew.Wrap(err)
	}

	return doc, nil
}
