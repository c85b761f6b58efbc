package definition

import (
	"context"
	"maps"
	"os"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/fsctx/internal/ctxerr"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

// hclFile is the top-level structure of a definition file for decoding.
type hclFile struct {
	Imports    []string        `hcl:"imports,optional"`
	Components []*hclComponent `hcl:"component,block"`
	Aliases    []*hclAlias     `hcl:"alias,block"`
}

// hclComponent decodes the reserved attributes of a component block; every
// other attribute lands in Remain and becomes a property.
type hclComponent struct {
	Name      string   `hcl:"name,label"`
	Type      string   `hcl:"type,optional"`
	Scope     string   `hcl:"scope,optional"`
	Lazy      bool     `hcl:"lazy,optional"`
	DependsOn []string `hcl:"depends_on,optional"`
	Remain    hcl.Body `hcl:",remain"`
}

type hclAlias struct {
	Name   string `hcl:"name,label"`
	Target string `hcl:"target"`
}

// HCLReader reads definition documents written in HCL native or JSON syntax.
type HCLReader struct {
	json bool
}

// NewHCLReader returns a reader for native HCL syntax.
func NewHCLReader() *HCLReader {
	return &HCLReader{}
}

// NewHCLJSONReader returns a reader for HCL's JSON syntax.
func NewHCLJSONReader() *HCLReader {
	return &HCLReader{json: true}
}

func (r *HCLReader) Read(_ context.Context, location string, src []byte) (*Document, error) {
	parser := hclparse.NewParser()

	var (
		file  *hcl.File
		diags hcl.Diagnostics
	)
	if r.json {
		file, diags = parser.ParseJSON(src, location)
	} else {
		file, diags = parser.ParseHCL(src, location)
	}
	if diags.HasErrors() {
		return nil, ctxerr.New(ctxerr.KindDefinitionParse, "parse", location, diags)
	}

	evalCtx := newEvalContext()

	var root hclFile
	if diags := gohcl.DecodeBody(file.Body, evalCtx, &root); diags.HasErrors() {
		return nil, ctxerr.New(ctxerr.KindDefinitionParse, "decode", location, diags)
	}

	doc := &Document{Imports: root.Imports}
	for _, c := range root.Components {
		props, diags := decodeProperties(c.Remain, evalCtx)
		if diags.HasErrors() {
			return nil, ctxerr.New(ctxerr.KindDefinitionParse, "decode component "+c.Name, location, diags)
		}
		doc.Definitions = append(doc.Definitions, &Definition{
			Name:       c.Name,
			Type:       c.Type,
			Scope:      Scope(c.Scope),
			Lazy:       c.Lazy,
			DependsOn:  c.DependsOn,
			Properties: props,
			Source:     location,
		})
	}
	for _, a := range root.Aliases {
		doc.Aliases = append(doc.Aliases, Alias{Name: a.Name, Target: a.Target})
	}
	return doc, nil
}

// decodeProperties evaluates every remaining attribute of a component block.
// Nested blocks are not allowed there.
func decodeProperties(body hcl.Body, evalCtx *hcl.EvalContext) (map[string]cty.Value, hcl.Diagnostics) {
	attrs, diags := body.JustAttributes()
	if diags.HasErrors() {
		return nil, diags
	}

	props := make(map[string]cty.Value, len(attrs))
	for _, name := range slices.Sorted(maps.Keys(attrs)) {
		val, valDiags := attrs[name].Expr.Value(evalCtx)
		diags = append(diags, valDiags...)
		if valDiags.HasErrors() {
			continue
		}
		props[name] = val
	}
	return props, diags
}

// newEvalContext exposes the process environment as `env` and a small set
// of string and collection functions to definition expressions.
func newEvalContext() *hcl.EvalContext {
	env := make(map[string]cty.Value)
	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" || !utf8.ValidString(k) || !utf8.ValidString(v) {
			continue
		}
		env[k] = cty.StringVal(v)
	}

	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": cty.ObjectVal(env),
		},
		Functions: map[string]function.Function{
			"upper":    stdlib.UpperFunc,
			"lower":    stdlib.LowerFunc,
			"join":     stdlib.JoinFunc,
			"concat":   stdlib.ConcatFunc,
			"format":   stdlib.FormatFunc,
			"coalesce": stdlib.CoalesceFunc,
			"merge":    stdlib.MergeFunc,
		},
	}
}
