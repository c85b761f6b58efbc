package location

import (
	"strings"

	"github.com/specialistvlad/fsctx/internal/ctxerr"
)

// Resolve replaces ${NAME} and ${NAME:default} placeholders in loc using
// lookup. An unresolvable placeholder without a default is an error.
// Braces that do not start with "$" are left alone since they belong to the
// pattern syntax.
func Resolve(loc string, lookup LookupFunc) (string, error) {
	if !strings.Contains(loc, "${") {
		return loc, nil
	}

	var b strings.Builder
	rest := loc
	for {
		start := strings.Index(rest, "${")
		if start < 0 {
			b.WriteString(rest)
			return b.String(), nil
		}
		end := strings.IndexByte(rest[start:], '}')
		if end < 0 {
			return "", ctxerr.Errorf(ctxerr.KindInvalidArgument, "resolve placeholders", loc, "unterminated placeholder")
		}
		end += start

		b.WriteString(rest[:start])
		name, def, hasDefault := strings.Cut(rest[start+2:end], ":")
		if name == "" {
			return "", ctxerr.Errorf(ctxerr.KindInvalidArgument, "resolve placeholders", loc, "empty placeholder name")
		}
		val, ok := lookup(name)
		switch {
		case ok:
			b.WriteString(val)
		case hasDefault:
			b.WriteString(def)
		default:
			return "", ctxerr.Errorf(ctxerr.KindInvalidArgument, "resolve placeholders", loc, "could not resolve placeholder %q", name)
		}
		rest = rest[end+1:]
	}
}
