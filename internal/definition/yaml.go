package definition

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/specialistvlad/fsctx/internal/ctxerr"
	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
	"gopkg.in/yaml.v3"
)

type yamlDocument struct {
	Imports    []string        `yaml:"imports"`
	Components []yamlComponent `yaml:"components"`
	Aliases    []yamlAlias     `yaml:"aliases"`
}

type yamlComponent struct {
	Name       string         `yaml:"name"`
	Type       string         `yaml:"type"`
	Scope      string         `yaml:"scope"`
	Lazy       bool           `yaml:"lazy"`
	DependsOn  []string       `yaml:"depends_on"`
	Properties map[string]any `yaml:"properties"`
}

type yamlAlias struct {
	Name   string `yaml:"name"`
	Target string `yaml:"target"`
}

// YAMLReader reads definition documents written in YAML:
//
//	imports: [common.yaml]
//	components:
//	  - name: svc
//	    type: example.Service
//	    properties:
//	      value: 1
//	aliases:
//	  - name: service
//	    target: svc
type YAMLReader struct{}

// NewYAMLReader returns a YAML reader.
func NewYAMLReader() *YAMLReader {
	return &YAMLReader{}
}

// Read decodes every document of a multi-document stream in order. Imports
// of all documents are collected first; components and aliases keep their
// document order, so a later document overrides an earlier one.
func (r *YAMLReader) Read(_ context.Context, location string, src []byte) (*Document, error) {
	dec := yaml.NewDecoder(bytes.NewReader(src))
	dec.KnownFields(true)

	doc := &Document{}
	for i := 0; ; i++ {
		var raw yamlDocument
		if err := dec.Decode(&raw); err != nil {
			if errors.Is(err, io.EOF) {
				return doc, nil
			}
			return nil, ctxerr.New(ctxerr.KindDefinitionParse, fmt.Sprintf("decode document %d", i), location, err)
		}
		if err := appendYAMLDocument(doc, raw, location); err != nil {
			return nil, err
		}
	}
}

func appendYAMLDocument(doc *Document, raw yamlDocument, location string) error {
	doc.Imports = append(doc.Imports, raw.Imports...)
	for _, c := range raw.Components {
		props := make(map[string]cty.Value, len(c.Properties))
		for name, v := range c.Properties {
			val, err := toCtyValue(v)
			if err != nil {
				return ctxerr.New(ctxerr.KindDefinitionParse, "decode component "+c.Name, location,
					fmt.Errorf("property %q: %w", name, err))
			}
			props[name] = val
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
	for _, a := range raw.Aliases {
		doc.Aliases = append(doc.Aliases, Alias{Name: a.Name, Target: a.Target})
	}
	return nil
}

// toCtyValue converts a generic decoded value into a cty.Value by going
// through its JSON form, which lets cty imply object and tuple types for
// arbitrarily nested maps and slices.
func toCtyValue(v any) (cty.Value, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return cty.NilVal, err
	}
	ty, err := ctyjson.ImpliedType(b)
	if err != nil {
		return cty.NilVal, fmt.Errorf("unable to infer cty.Type: %w", err)
	}
	return ctyjson.Unmarshal(b, ty)
}
