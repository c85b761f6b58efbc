package definition

import (
	"slices"

	"github.com/specialistvlad/fsctx/internal/ctxerr"
)

// Override records that a name was registered again by a later source.
type Override struct {
	Name     string
	Previous string
	Current  string
}

// Registry accumulates named definitions. The last registration of a name
// wins, but the name keeps the position of its first registration in Names.
// Once frozen the registry rejects every mutation and is safe for concurrent
// reads.
type Registry struct {
	defs      map[string]*Definition
	names     []string
	aliases   map[string]string
	overrides []Override
	frozen    bool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		defs:    make(map[string]*Definition),
		aliases: make(map[string]string),
	}
}

// Register adds def, replacing any earlier definition of the same name. It
// reports whether an earlier definition was replaced. A name that was used
// as an alias stops being one.
func (r *Registry) Register(def *Definition) (bool, error) {
	if r.frozen {
		return false, ctxerr.Errorf(ctxerr.KindIllegalState, "register", def.Source, "registry is frozen, cannot register %q", def.Name)
	}

	delete(r.aliases, def.Name)

	prev, exists := r.defs[def.Name]
	r.defs[def.Name] = def
	if !exists {
		r.names = append(r.names, def.Name)
		return false, nil
	}
	r.overrides = append(r.overrides, Override{Name: def.Name, Previous: prev.Source, Current: def.Source})
	return true, nil
}

// RegisterAlias makes alias refer to name. Re-pointing an existing alias is
// an override; hiding a definition or closing a cycle is a conflict.
func (r *Registry) RegisterAlias(alias, name string) error {
	if r.frozen {
		return ctxerr.Errorf(ctxerr.KindIllegalState, "register alias", "", "registry is frozen, cannot alias %q", alias)
	}
	if alias == name {
		delete(r.aliases, alias)
		return nil
	}
	if _, ok := r.defs[alias]; ok {
		return ctxerr.Errorf(ctxerr.KindConflict, "register alias", "", "alias %q would hide the definition of the same name", alias)
	}
	if r.CanonicalName(name) == alias {
		return ctxerr.Errorf(ctxerr.KindConflict, "register alias", "", "alias %q for %q would create a cycle", alias, name)
	}
	r.aliases[alias] = name
	return nil
}

// CanonicalName follows aliases until it reaches a name that is not an alias.
func (r *Registry) CanonicalName(name string) string {
	seen := make(map[string]struct{})
	for {
		target, ok := r.aliases[name]
		if !ok {
			return name
		}
		if _, loop := seen[name]; loop {
			return name
		}
		seen[name] = struct{}{}
		name = target
	}
}

// Get returns a copy of the definition registered under name or one of its
// aliases.
func (r *Registry) Get(name string) (*Definition, bool) {
	def, ok := r.defs[r.CanonicalName(name)]
	if !ok {
		return nil, false
	}
	return def.Clone(), true
}

// Contains reports whether name or an alias of it is registered.
func (r *Registry) Contains(name string) bool {
	_, ok := r.defs[r.CanonicalName(name)]
	return ok
}

// Aliases returns the aliases that resolve to name, sorted.
func (r *Registry) Aliases(name string) []string {
	var out []string
	for alias := range r.aliases {
		if alias != name && r.CanonicalName(alias) == name {
			out = append(out, alias)
		}
	}
	slices.Sort(out)
	return out
}

// Names returns the definition names in first-registration order.
func (r *Registry) Names() []string {
	return slices.Clone(r.names)
}

// Len returns the number of distinct definitions.
func (r *Registry) Len() int {
	return len(r.defs)
}

// Overrides returns every override in the order it happened.
func (r *Registry) Overrides() []Override {
	return slices.Clone(r.overrides)
}

// Freeze makes the registry read-only.
func (r *Registry) Freeze() {
	r.frozen = true
}

// Frozen reports whether Freeze was called.
func (r *Registry) Frozen() bool {
	return r.frozen
}
