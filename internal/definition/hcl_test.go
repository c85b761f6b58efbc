package definition

import (
	"context"
	"testing"

	"github.com/specialistvlad/fsctx/internal/ctxerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func TestHCLReader_ParsesComponentsAndAliases(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	src := `
		imports = ["common.hcl"]

		component "svc" {
			type       = "example.Service"
			scope      = "prototype"
			lazy       = true
			depends_on = ["db"]

			value = 1
			name  = upper("api")
			tags  = ["a", "b"]
		}

		component "db" {
			type = "example.DB"
		}

		alias "service" {
			target = "svc"
		}
	`

	// --- Act ---
	doc, err := NewHCLReader().Read(context.Background(), "main.hcl", []byte(src))

	// --- Assert ---
	require.NoError(t, err)
	require.Equal(t, []string{"common.hcl"}, doc.Imports)
	require.Len(t, doc.Definitions, 2)

	svc := doc.Definitions[0]
	assert.Equal(t, "svc", svc.Name)
	assert.Equal(t, "example.Service", svc.Type)
	assert.Equal(t, ScopePrototype, svc.Scope)
	assert.True(t, svc.Lazy)
	assert.Equal(t, []string{"db"}, svc.DependsOn)
	assert.Equal(t, "main.hcl", svc.Source)
	assert.True(t, svc.Properties["value"].RawEquals(cty.NumberIntVal(1)))
	assert.True(t, svc.Properties["name"].RawEquals(cty.StringVal("API")))
	assert.Len(t, svc.Properties, 3, "reserved attributes must not leak into properties")

	assert.Equal(t, "db", doc.Definitions[1].Name)
	assert.Empty(t, doc.Definitions[1].Properties)
	assert.Equal(t, []Alias{{Name: "service", Target: "svc"}}, doc.Aliases)
}

func TestHCLReader_EnvironmentVariables(t *testing.T) {
	t.Setenv("FSCTX_TEST_HOST", "db.internal")

	src := `
		component "db" {
			url = "postgres://${env.FSCTX_TEST_HOST}:5432"
		}
	`
	doc, err := NewHCLReader().Read(context.Background(), "db.hcl", []byte(src))

	require.NoError(t, err)
	var url string
	require.NoError(t, doc.Definitions[0].DecodeProperty("url", &url))
	require.Equal(t, "postgres://db.internal:5432", url)
}

func TestHCLReader_JSONSyntax(t *testing.T) {
	t.Parallel()

	src := `{
		"component": {
			"svc": {
				"type": "example.Service",
				"value": 2
			}
		}
	}`

	doc, err := NewHCLJSONReader().Read(context.Background(), "svc.json", []byte(src))

	require.NoError(t, err)
	require.Len(t, doc.Definitions, 1)
	var n int
	require.NoError(t, doc.Definitions[0].DecodeProperty("value", &n))
	assert.Equal(t, 2, n)
	assert.Equal(t, "example.Service", doc.Definitions[0].Type)
}

func TestHCLReader_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
	}{
		{name: "syntax error", src: `component "svc" {`},
		{name: "unknown block", src: `service "svc" {}`},
		{name: "missing label", src: `component {}`},
		{name: "nested block in component", src: `component "svc" { settings {} }`},
		{name: "unknown variable", src: `component "svc" { v = nope.x }`},
		{name: "alias without target", src: `alias "a" {}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewHCLReader().Read(context.Background(), "bad.hcl", []byte(tt.src))
			require.ErrorIs(t, err, ctxerr.ErrDefinitionParse)
			require.Contains(t, err.Error(), "bad.hcl")
		})
	}
}
