package app

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/specialistvlad/fsctx/internal/appctx"
	"github.com/specialistvlad/fsctx/internal/definition"
	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// definitionView is the printed form of one definition.
type definitionView struct {
	Name       string          `json:"name"`
	Type       string          `json:"type,omitempty"`
	Scope      string          `json:"scope"`
	Lazy       bool            `json:"lazy,omitempty"`
	DependsOn  []string        `json:"depends_on,omitempty"`
	Aliases    []string        `json:"aliases,omitempty"`
	Source     string          `json:"source"`
	Properties json.RawMessage `json:"properties"`
}

type contextView struct {
	ID          string           `json:"id"`
	Locations   []string         `json:"locations"`
	Definitions []definitionView `json:"definitions"`
}

func newContextView(c *appctx.Context) (contextView, error) {
	view := contextView{
		ID:          c.ID(),
		Locations:   c.ConfigLocations(),
		Definitions: []definitionView{},
	}
	for _, name := range c.DefinitionNames() {
		def, err := c.Definition(name)
		if err != nil {
			return contextView{}, err
		}
		props, err := marshalProperties(def)
		if err != nil {
			return contextView{}, fmt.Errorf("definition %q: %w", name, err)
		}
		view.Definitions = append(view.Definitions, definitionView{
			Name:       def.Name,
			Type:       def.Type,
			Scope:      string(def.Scope),
			Lazy:       def.Lazy,
			DependsOn:  def.DependsOn,
			Aliases:    c.Aliases(name),
			Source:     def.Source,
			Properties: props,
		})
	}
	return view, nil
}

func marshalProperties(def *definition.Definition) (json.RawMessage, error) {
	obj := cty.EmptyObjectVal
	if len(def.Properties) > 0 {
		obj = cty.ObjectVal(def.Properties)
	}
	b, err := ctyjson.Marshal(obj, obj.Type())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal properties: %w", err)
	}
	return b, nil
}

// print writes the definitions of c in the configured output format.
func (a *App) print(c *appctx.Context) error {
	view, err := newContextView(c)
	if err != nil {
		return err
	}

	a.outMu.Lock()
	defer a.outMu.Unlock()

	if a.config.Output == "json" {
		enc := json.NewEncoder(a.outW)
		enc.SetIndent("", "  ")
		return enc.Encode(view)
	}

	tw := tabwriter.NewWriter(a.outW, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tTYPE\tSCOPE\tALIASES\tSOURCE\tPROPERTIES")
	for _, d := range view.Definitions {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			d.Name, orDash(d.Type), d.Scope, orDash(strings.Join(d.Aliases, ",")), d.Source, d.Properties)
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("failed to write definitions: %w", err)
	}
	_, err = fmt.Fprintf(a.outW, "%d definition(s) from %d location(s)\n", len(view.Definitions), len(view.Locations))
	return err
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
