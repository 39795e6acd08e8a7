package component

import (
	"sync"
	"testing"

	apperrors "github.com/leeforge/autumn/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type database struct {
	DSN string
}

type cache struct {
	Size int
}

type greeter interface {
	Greet() string
}

type english struct{}

func (english) Greet() string { return "hello" }

func TestRegistry_RegisterAndGet(t *testing.T) {
	r := NewRegistry()
	db := &database{DSN: "postgres://"}

	require.NoError(t, r.Register(db))
	require.NoError(t, r.Register(cache{Size: 10}))

	got, ok := Get[*database](r)
	require.True(t, ok)
	assert.Same(t, db, got)

	c, err := TryGet[cache](r)
	require.NoError(t, err)
	assert.Equal(t, 10, c.Size)

	assert.True(t, Has[*database](r))
	assert.False(t, Has[database](r))
	assert.Equal(t, 2, r.Len())
	assert.Equal(t, []string{"*component.database", "component.cache"}, r.Names())
}

func TestRegistry_DuplicateType(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(&database{DSN: "a"}))

	err := r.Register(&database{DSN: "b"})

	var dupErr *DuplicateError
	require.ErrorAs(t, err, &dupErr)
	assert.Equal(t, "*component.database", dupErr.Type.String())
	assert.True(t, apperrors.IsFatal(err))

	got := MustGet[*database](r)
	assert.Equal(t, "a", got.DSN)
}

func TestRegistry_NilRejected(t *testing.T) {
	r := NewRegistry()
	var db *database

	assert.ErrorIs(t, r.Register(nil), ErrNilComponent)
	assert.ErrorIs(t, r.Register(db), ErrNilComponent)
	assert.Zero(t, r.Len())

	err := r.Register(nil)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeInvalidComponent))
	assert.False(t, apperrors.IsType(err, apperrors.ErrorTypePlugin))
	assert.True(t, apperrors.IsFatal(err))
}

func TestRegistry_InterfaceLookupNeverMatches(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(english{}))

	_, ok := Get[greeter](r)
	assert.False(t, ok)

	g, ok := Get[english](r)
	require.True(t, ok)
	assert.Equal(t, "hello", g.Greet())
}

func TestRegistry_NotFound(t *testing.T) {
	r := NewRegistry()

	_, err := TryGet[*cache](r)

	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "component *component.cache not found", err.Error())
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
	assert.False(t, apperrors.IsFatal(err))

	assert.Panics(t, func() { MustGet[*cache](r) })
}

func TestRegistry_Freeze(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(&database{}))

	r.Freeze()

	assert.True(t, r.Frozen())
	assert.ErrorIs(t, r.Register(&cache{}), ErrFrozen)
	assert.Panics(t, func() { r.MustRegister(&cache{}) })
	assert.True(t, Has[*database](r))
}

func TestRegistry_ConcurrentReads(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("value"))
	require.NoError(t, r.Register(&database{DSN: "x"}))

	var wg sync.WaitGroup
	readers := func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			db, ok := Get[*database](r)
			if assert.True(t, ok) {
				assert.Equal(t, "x", db.DSN)
			}
			_ = r.Names()
		}
	}

	wg.Add(8)
	for i := 0; i < 4; i++ {
		go readers()
	}
	r.Freeze()
	for i := 0; i < 4; i++ {
		go readers()
	}
	wg.Wait()
}
