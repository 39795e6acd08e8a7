package runtime

import (
	"testing"

	apperrors "github.com/leeforge/autumn/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveOrder(t *testing.T) {
	tests := []struct {
		name  string
		names []string
		deps  map[string][]string
		done  []string
		want  []string
	}{
		{
			name:  "no dependencies keeps registration order",
			names: []string{"c", "a", "b"},
			want:  []string{"c", "a", "b"},
		},
		{
			name:  "dependency registered later builds first",
			names: []string{"b", "a"},
			deps:  map[string][]string{"b": {"a"}},
			want:  []string{"a", "b"},
		},
		{
			name:  "ready plugins emitted in the same pass",
			names: []string{"a", "b", "c"},
			deps:  map[string][]string{"b": {"a"}, "c": {"b"}},
			want:  []string{"a", "b", "c"},
		},
		{
			name:  "diamond",
			names: []string{"d", "c", "b", "a"},
			deps:  map[string][]string{"d": {"b", "c"}, "c": {"a"}, "b": {"a"}},
			want:  []string{"a", "c", "b", "d"},
		},
		{
			name:  "dependency on an already built plugin",
			names: []string{"web"},
			deps:  map[string][]string{"web": {"logger"}},
			done:  []string{"logger"},
			want:  []string{"web"},
		},
		{
			name: "empty",
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveOrder(tt.names, tt.deps, tt.done)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveOrder_Cycle(t *testing.T) {
	_, err := resolveOrder(
		[]string{"x", "a", "b", "c"},
		map[string][]string{"a": {"b"}, "b": {"c"}, "c": {"a"}},
		nil,
	)

	var depErr *DependencyError
	require.ErrorAs(t, err, &depErr)
	assert.Equal(t, []string{"a", "b", "c"}, depErr.Stuck)
	assert.Empty(t, depErr.Missing)
	assert.Equal(t, "plugins stuck on unresolved or cyclic dependencies: a, b, c", err.Error())
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeDependency))
}

func TestResolveOrder_SelfDependency(t *testing.T) {
	_, err := resolveOrder([]string{"a"}, map[string][]string{"a": {"a"}}, nil)

	var depErr *DependencyError
	require.ErrorAs(t, err, &depErr)
	assert.Equal(t, []string{"a"}, depErr.Stuck)
}

func TestResolveOrder_DependentOfCycleIsStuck(t *testing.T) {
	_, err := resolveOrder(
		[]string{"a", "b", "c"},
		map[string][]string{"a": {"b"}, "b": {"a"}, "c": {"a"}},
		nil,
	)

	var depErr *DependencyError
	require.ErrorAs(t, err, &depErr)
	assert.Equal(t, []string{"a", "b", "c"}, depErr.Stuck)
	assert.Equal(t, "plugins stuck on unresolved or cyclic dependencies: a, b, c", err.Error())
}

func TestResolveOrder_Missing(t *testing.T) {
	_, err := resolveOrder(
		[]string{"a", "b"},
		map[string][]string{"a": {"ghost"}, "b": {"a", "phantom"}},
		nil,
	)

	var depErr *DependencyError
	require.ErrorAs(t, err, &depErr)
	assert.Equal(t, []MissingDependency{
		{Plugin: "a", Dependency: "ghost"},
		{Plugin: "b", Dependency: "phantom"},
	}, depErr.Missing)
	assert.Contains(t, err.Error(), `plugin "a" depends on "ghost" which is not registered`)
}
