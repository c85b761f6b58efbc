package definition

import (
	"context"
	"testing"

	"github.com/specialistvlad/fsctx/internal/ctxerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func TestYAMLReader_ParsesDocument(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	src := `
imports: [common.yaml]
components:
  - name: svc
    type: example.Service
    scope: singleton
    depends_on: [db]
    properties:
      value: 2
      labels:
        tier: backend
      ports: [80, 443]
aliases:
  - name: service
    target: svc
`

	// --- Act ---
	doc, err := NewYAMLReader().Read(context.Background(), "svc.yaml", []byte(src))

	// --- Assert ---
	require.NoError(t, err)
	require.Equal(t, []string{"common.yaml"}, doc.Imports)
	require.Len(t, doc.Definitions, 1)

	svc := doc.Definitions[0]
	assert.Equal(t, "svc", svc.Name)
	assert.Equal(t, ScopeSingleton, svc.Scope)
	assert.Equal(t, []string{"db"}, svc.DependsOn)

	var n int
	require.NoError(t, svc.DecodeProperty("value", &n))
	assert.Equal(t, 2, n)

	labels := svc.Properties["labels"]
	require.True(t, labels.Type().IsObjectType())
	assert.True(t, labels.GetAttr("tier").RawEquals(cty.StringVal("backend")))
	assert.Equal(t, 2, svc.Properties["ports"].LengthInt())

	assert.Equal(t, []Alias{{Name: "service", Target: "svc"}}, doc.Aliases)
}

func TestYAMLReader_EmptyDocument(t *testing.T) {
	t.Parallel()

	doc, err := NewYAMLReader().Read(context.Background(), "empty.yaml", nil)

	require.NoError(t, err)
	require.Empty(t, doc.Definitions)
}

func TestYAMLReader_MultipleDocuments(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	src := `
imports: [first.yaml]
components:
  - name: a
---
components:
  - name: b
  - name: a
    properties: {from: second}
aliases:
  - name: bee
    target: b
---
imports: [third.yaml]
`

	// --- Act ---
	doc, err := NewYAMLReader().Read(context.Background(), "multi.yaml", []byte(src))

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, []string{"first.yaml", "third.yaml"}, doc.Imports)
	names := make([]string, 0, len(doc.Definitions))
	for _, def := range doc.Definitions {
		names = append(names, def.Name)
	}
	assert.Equal(t, []string{"a", "b", "a"}, names)
	assert.Equal(t, cty.StringVal("second"), doc.Definitions[2].Properties["from"])
	assert.Equal(t, []Alias{{Name: "bee", Target: "b"}}, doc.Aliases)
}

func TestYAMLReader_ErrorInLaterDocument(t *testing.T) {
	t.Parallel()

	src := "components:\n  - name: a\n---\ncomponentz: []\n"

	_, err := NewYAMLReader().Read(context.Background(), "multi.yaml", []byte(src))

	require.ErrorIs(t, err, ctxerr.ErrDefinitionParse)
	assert.Contains(t, err.Error(), "decode document 1")
}

func TestYAMLReader_Errors(t *testing.T) {
	t.Parallel()

	for name, src := range map[string]string{
		"unknown field": "componentz: []",
		"bad syntax":    "components: [",
		"wrong shape":   "components: {name: svc}",
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			_, err := NewYAMLReader().Read(context.Background(), "bad.yaml", []byte(src))
			require.ErrorIs(t, err, ctxerr.ErrDefinitionParse)
		})
	}
}
