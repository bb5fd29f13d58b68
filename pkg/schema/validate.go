// Package schema generates JSON schemas from Go types and validates decoded
// documents against them.
package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/invopop/jsonschema"

	jsonschemav6 "github.com/santhosh-tekuri/jsonschema/v6"
)

const resourceURL = "https://raw.githubusercontent.com/macropower/gcm/refs/heads/main/config.schema.json"

// ErrValidation is wrapped by every [ValidationError].
var ErrValidation = errors.New("schema validation")

// ValidationError represents a validation error from JSON schema validation.
// Path can be passed to [yaml.Path.AnnotateSource].
type ValidationError struct {
	Path   *yaml.Path // YAML path to the validation error.
	Err    error      // Underlying error.
	Detail string     // Detailed error message.
}

func (e ValidationError) Error() string {
	if e.Path != nil {
		return fmt.Sprintf("error at %s: %s", e.Path.String(), e.Detail)
	}

	return "validation error: " + e.Detail
}

func (e ValidationError) Unwrap() error {
	return e.Err
}

// Reflect generates a JSON schema document for v.
//
// Every field without `omitempty` is required and unknown properties are
// rejected.
func Reflect(v any) ([]byte, error) {
	r := &jsonschema.Reflector{
		Anonymous:      true,
		DoNotReference: true,
		ExpandedStruct: true,
	}

	jss := r.Reflect(v)

	data, err := json.MarshalIndent(jss, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}

	return data, nil
}

// Validator validates data against a JSON schema.
// Uses [github.com/santhosh-tekuri/jsonschema/v6].
type Validator struct {
	schema *jsonschemav6.Schema
}

// NewValidator creates a new [Validator] with the provided JSON schema data.
func NewValidator(schemaData []byte) (*Validator, error) {
	var doc any
	if err := json.Unmarshal(schemaData, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal schema: %w", err)
	}

	compiler := jsonschemav6.NewCompiler()
	if err := compiler.AddResource(resourceURL, doc); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}

	jss, err := compiler.Compile(resourceURL)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}

	return &Validator{schema: jss}, nil
}

// NewValidatorFor reflects a schema from v and compiles it.
func NewValidatorFor(v any) (*Validator, error) {
	data, err := Reflect(v)
	if err != nil {
		return nil, err
	}

	return NewValidator(data)
}

// Validate validates the given data against the schema. Data must be made
// of JSON-compatible values (maps, slices, strings, numbers, booleans).
// A failure is returned as a [*ValidationError].
func (s *Validator) Validate(data any) error {
	err := s.schema.Validate(data)
	if err == nil {
		return nil
	}

	var validationErr *jsonschemav6.ValidationError
	if !errors.As(err, &validationErr) {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}

	leaf := findMostSpecificCause(validationErr)

	return &ValidationError{
		Path:   buildPathFromLocation(leaf.InstanceLocation),
		Err:    ErrValidation,
		Detail: detail(leaf),
	}
}

// findMostSpecificCause recursively searches through all causes to find the
// one with the longest InstanceLocation.
func findMostSpecificCause(err *jsonschemav6.ValidationError) *jsonschemav6.ValidationError {
	best := err

	for _, cause := range err.Causes {
		candidate := findMostSpecificCause(cause)
		if len(candidate.InstanceLocation) > len(best.InstanceLocation) {
			best = candidate
		}
	}

	return best
}

// detail reduces the multi-line validation report to its last line, without
// the location prefix (which is reported separately as a path).
func detail(err *jsonschemav6.ValidationError) string {
	lines := strings.Split(strings.TrimSpace(err.Error()), "\n")
	last := strings.TrimSpace(lines[len(lines)-1])
	last = strings.TrimPrefix(last, "- ")

	if strings.HasPrefix(last, "at '") {
		if _, msg, ok := strings.Cut(last, "': "); ok {
			return msg
		}
	}

	return last
}

// buildPathFromLocation converts an InstanceLocation slice to a [yaml.Path].
func buildPathFromLocation(location []string) *yaml.Path {
	pb := yaml.PathBuilder{}
	current := pb.Root()

	for _, part := range location {
		var index uint

		_, err := fmt.Sscanf(part, "%d", &index)
		if err == nil {
			current = current.Index(index)
		} else {
			current = current.Child(part)
		}
	}

	return current.Build()
}
