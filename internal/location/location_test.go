package location

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/specialistvlad/fsctx/internal/ctxerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookupFrom(vars map[string]string) LookupFunc {
	return func(name string) (string, bool) {
		v, ok := vars[name]
		return v, ok
	}
}

func TestSet_ReplaceRejectsNil(t *testing.T) {
	t.Parallel()

	s := NewSet(nil)
	require.NoError(t, s.Replace([]string{"a.hcl"}))

	err := s.Replace(nil)

	require.ErrorIs(t, err, ctxerr.ErrInvalidArgument)
	require.Equal(t, []string{"a.hcl"}, s.Locations(), "a rejected replace must keep the previous list")
}

func TestSet_ReplaceAcceptsEmpty(t *testing.T) {
	t.Parallel()

	s := NewSet(nil)
	require.NoError(t, s.Replace([]string{"a.hcl"}))
	require.NoError(t, s.Replace([]string{}))

	require.Equal(t, 0, s.Len())
	expanded, err := s.Expand(nil)
	require.NoError(t, err)
	require.Empty(t, expanded)
}

func TestSet_ReplaceIsWholesale(t *testing.T) {
	t.Parallel()

	s := NewSet(nil)
	require.NoError(t, s.Replace([]string{"a.hcl", "b.hcl"}))
	require.NoError(t, s.Replace([]string{" c.hcl "}))

	require.Equal(t, []string{"c.hcl"}, s.Locations())
}

func TestSet_ReplaceRejectsBlankEntry(t *testing.T) {
	t.Parallel()

	s := NewSet(nil)
	err := s.Replace([]string{"a.hcl", "   "})
	require.ErrorIs(t, err, ctxerr.ErrInvalidArgument)
	require.Equal(t, 0, s.Len())
}

func TestSet_LocationsReturnsCopy(t *testing.T) {
	t.Parallel()

	s := NewSet(nil)
	input := []string{"a.hcl"}
	require.NoError(t, s.Replace(input))
	input[0] = "mutated.hcl"
	got := s.Locations()
	got[0] = "mutated.hcl"

	require.Equal(t, []string{"a.hcl"}, s.Locations())
}

func TestSet_ExpandPreservesInterLocationOrder(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	s := NewSet(nil)
	require.NoError(t, s.Replace([]string{"first.hcl", "conf/*.hcl", "middle.hcl", "none/*.hcl", "last.hcl"}))

	m := MatcherFunc(func(pattern string) ([]string, error) {
		switch pattern {
		case "conf/*.hcl":
			// Deliberately unsorted; the set must not reorder these relative
			// to their neighbours.
			return []string{"conf/z.hcl", "conf/a.hcl"}, nil
		default:
			return nil, nil
		}
	})

	// --- Act ---
	got, err := s.Expand(m)

	// --- Assert ---
	require.NoError(t, err)
	require.Len(t, got, 5)
	require.Equal(t, "first.hcl", got[0])
	require.ElementsMatch(t, []string{"conf/z.hcl", "conf/a.hcl"}, got[1:3])
	require.Equal(t, "middle.hcl", got[3])
	require.Equal(t, "last.hcl", got[4])
}

func TestSet_ExpandPropagatesMatcherError(t *testing.T) {
	t.Parallel()

	s := NewSet(nil)
	require.NoError(t, s.Replace([]string{"conf/[*.hcl"}))
	boom := ctxerr.New(ctxerr.KindInvalidArgument, "glob", "conf/[*.hcl", errors.New("bad pattern"))

	_, err := s.Expand(MatcherFunc(func(string) ([]string, error) { return nil, boom }))

	require.ErrorIs(t, err, ctxerr.ErrInvalidArgument)
}

func TestSet_ExpandPatternWithoutMatcher(t *testing.T) {
	t.Parallel()

	s := NewSet(nil)
	require.NoError(t, s.Replace([]string{"*.hcl"}))

	_, err := s.Expand(nil)
	require.ErrorIs(t, err, ctxerr.ErrInvalidArgument)
}

func TestIsPattern(t *testing.T) {
	t.Parallel()

	assert.True(t, IsPattern("conf/*.hcl"))
	assert.True(t, IsPattern("conf/**/x.hcl"))
	assert.True(t, IsPattern("conf/?.hcl"))
	assert.True(t, IsPattern("conf/{a,b}.hcl"))
	assert.True(t, IsPattern("conf/[ab].hcl"))
	assert.False(t, IsPattern("conf/a.hcl"))
	assert.False(t, IsPattern("/abs/looking/path.xml"))
}

func TestResolve(t *testing.T) {
	t.Parallel()

	lookup := lookupFrom(map[string]string{
		"ENV":  "prod",
		"ROOT": "/srv/app",
	})

	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{name: "no placeholders", in: "conf/a.hcl", want: "conf/a.hcl"},
		{name: "single", in: "conf/${ENV}.hcl", want: "conf/prod.hcl"},
		{name: "multiple", in: "${ROOT}/conf/${ENV}.hcl", want: "/srv/app/conf/prod.hcl"},
		{name: "default used", in: "conf/${REGION:eu}.hcl", want: "conf/eu.hcl"},
		{name: "default ignored", in: "conf/${ENV:dev}.hcl", want: "conf/prod.hcl"},
		{name: "empty default", in: "conf/app${SUFFIX:}.hcl", want: "conf/app.hcl"},
		{name: "pattern braces untouched", in: "conf/{a,b}.hcl", want: "conf/{a,b}.hcl"},
		{name: "unresolvable", in: "conf/${MISSING}.hcl", wantErr: true},
		{name: "unterminated", in: "conf/${ENV.hcl", wantErr: true},
		{name: "empty name", in: "conf/${}.hcl", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := Resolve(tt.in, lookup)
			if tt.wantErr {
				require.ErrorIs(t, err, ctxerr.ErrInvalidArgument)
				return
			}
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Resolve(%q) mismatch (-want +got):\n%s", tt.in, diff)
			}
		})
	}
}

func TestSet_ReplaceResolvesPlaceholders(t *testing.T) {
	t.Parallel()

	s := NewSet(lookupFrom(map[string]string{"ENV": "test"}))
	require.NoError(t, s.Replace([]string{"base.hcl", "${ENV}.hcl"}))
	require.Equal(t, []string{"base.hcl", "test.hcl"}, s.Locations())

	err := s.Replace([]string{"${NOPE}.hcl"})
	require.ErrorIs(t, err, ctxerr.ErrInvalidArgument)
	require.Equal(t, []string{"base.hcl", "test.hcl"}, s.Locations())
}
