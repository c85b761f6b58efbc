package definition

import (
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Scope controls how many instances the container creates for a definition.
type Scope string

const (
	ScopeSingleton Scope = "singleton"
	ScopePrototype Scope = "prototype"
)

// Definition describes how to construct and wire one managed component.
type Definition struct {
	Name       string               `validate:"required,max=256"`
	Type       string               `validate:"omitempty,max=256"`
	Scope      Scope                `validate:"omitempty,oneof=singleton prototype"`
	Lazy       bool                 `validate:"-"`
	DependsOn  []string             `validate:"dive,required"`
	Properties map[string]cty.Value `validate:"-"`
	// Source is the location of the resource the definition was read from.
	Source string `validate:"-"`
}

// Alias gives an existing definition an additional name.
type Alias struct {
	Name   string `validate:"required"`
	Target string `validate:"required"`
}

// Document is the parsed content of one resource.
type Document struct {
	Imports     []string
	Definitions []*Definition
	Aliases     []Alias
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Validate checks the structural constraints of a definition and fills in
// the default scope.
func Validate(def *Definition) error {
	if err := validatorInstance().Struct(def); err != nil {
		return fmt.Errorf("invalid definition %q: %w", def.Name, err)
	}
	if def.Scope == "" {
		def.Scope = ScopeSingleton
	}
	return nil
}

// Property returns the named property value.
func (d *Definition) Property(name string) (cty.Value, bool) {
	v, ok := d.Properties[name]
	return v, ok
}

// DecodeProperty converts the named property into target, which must be a
// pointer to a Go value compatible with the property's type.
func (d *Definition) DecodeProperty(name string, target any) error {
	v, ok := d.Properties[name]
	if !ok {
		return fmt.Errorf("definition %q has no property %q", d.Name, name)
	}
	if err := gocty.FromCtyValue(v, target); err != nil {
		return fmt.Errorf("definition %q property %q: %w", d.Name, name, err)
	}
	return nil
}

// Clone returns a copy that shares no mutable state with d.
func (d *Definition) Clone() *Definition {
	c := *d
	c.DependsOn = slices.Clone(d.DependsOn)
	c.Properties = maps.Clone(d.Properties)
	return &c
}
