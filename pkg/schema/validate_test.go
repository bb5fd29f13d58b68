package schema_test

import (
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/gcm/pkg/schema"
)

type testItem struct {
	Name  string `json:"name" jsonschema:"minLength=1"`
	Email string `json:"email"`
}

type testDoc struct {
	Items []testItem `json:"items"`
}

func TestValidationError_Error(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		err  schema.ValidationError
		want string
	}{
		"with path": {
			err: schema.ValidationError{
				Path:   mustBuildPath(t, "field", "subfield"),
				Detail: "value is required",
			},
			want: "error at $.field.subfield: value is required",
		},
		"without path": {
			err: schema.ValidationError{
				Detail: "value is required",
			},
			want: "validation error: value is required",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, tc.err.Error())
		})
	}
}

func TestNewValidator(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		errMsg     string
		schemaData []byte
		wantErr    bool
	}{
		"valid schema": {
			schemaData: []byte(`{
				"type": "object",
				"properties": {
					"name": {"type": "string"}
				},
				"required": ["name"]
			}`),
		},
		"invalid json": {
			schemaData: []byte(`{"invalid": json}`),
			wantErr:    true,
			errMsg:     "unmarshal schema",
		},
		"invalid schema": {
			schemaData: []byte(`{"type": "invalid_type"}`),
			wantErr:    true,
			errMsg:     "compile schema",
		},
		"empty schema": {
			schemaData: []byte(`{}`),
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			validator, err := schema.NewValidator(tc.schemaData)
			if tc.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.errMsg)
				assert.Nil(t, validator)
			} else {
				require.NoError(t, err)
				assert.NotNil(t, validator)
			}
		})
	}
}

func TestReflect(t *testing.T) {
	t.Parallel()

	data, err := schema.Reflect(&testDoc{})
	require.NoError(t, err)

	s := string(data)
	assert.Contains(t, s, `"items"`)
	assert.Contains(t, s, `"additionalProperties": false`)
	assert.NotContains(t, s, `"$ref"`)
}

func TestValidator_Validate(t *testing.T) {
	t.Parallel()

	validator, err := schema.NewValidatorFor(&testDoc{})
	require.NoError(t, err)

	tcs := map[string]struct {
		data     any
		wantPath string
		wantErr  bool
	}{
		"valid": {
			data: map[string]any{
				"items": []any{
					map[string]any{"name": "a", "email": "a@x.com"},
				},
			},
		},
		"empty list": {
			data: map[string]any{"items": []any{}},
		},
		"missing top level field": {
			data:     map[string]any{},
			wantErr:  true,
			wantPath: "$",
		},
		"missing nested field": {
			data: map[string]any{
				"items": []any{
					map[string]any{"name": "a", "email": "a@x.com"},
					map[string]any{"name": "b"},
				},
			},
			wantErr:  true,
			wantPath: "$.items[1]",
		},
		"empty name": {
			data: map[string]any{
				"items": []any{
					map[string]any{"name": "", "email": "a@x.com"},
				},
			},
			wantErr:  true,
			wantPath: "$.items[0].name",
		},
		"unknown property": {
			data: map[string]any{
				"items": []any{},
				"extra": true,
			},
			wantErr:  true,
			wantPath: "$",
		},
		"wrong type": {
			data: map[string]any{
				"items": "nope",
			},
			wantErr:  true,
			wantPath: "$.items",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			err := validator.Validate(tc.data)
			if !tc.wantErr {
				require.NoError(t, err)

				return
			}

			require.ErrorIs(t, err, schema.ErrValidation)

			var validationErr *schema.ValidationError
			require.ErrorAs(t, err, &validationErr)
			require.NotNil(t, validationErr.Path)
			assert.Equal(t, tc.wantPath, validationErr.Path.String())
			assert.NotEmpty(t, validationErr.Detail)
		})
	}
}

func mustBuildPath(t *testing.T, parts ...string) *yaml.Path {
	t.Helper()

	pb := yaml.PathBuilder{}
	current := pb.Root()

	for _, part := range parts {
		current = current.Child(part)
	}

	return current.Build()
}
