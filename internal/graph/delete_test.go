package graph

import (
	"testing"

	"github.com/specialistvlad/metagraph/internal/mgerr"
	"github.com/specialistvlad/metagraph/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// library builds
//
//	lib
//	├── books:   b1 (authors: w), b2 (editor: w)
//	└── writers: w
//
// plus a root writer fan whose favourite is b2.
type libraryGraph struct {
	lib, b1, b2, w, fan *Object
}

func buildLibrary(t *testing.T, e *Engine, l *testutil.Library) libraryGraph {
	t.Helper()
	g := libraryGraph{
		lib: mustCreate(t, e, l.Library, Initial("name", "city")),
		b1:  mustCreate(t, e, l.Book, Initial("title", "Dune")),
		b2:  mustCreate(t, e, l.Book, Initial("title", "Emma")),
		w:   mustCreate(t, e, l.Writer, Initial("name", "Frank")),
		fan: mustCreate(t, e, l.Writer, Initial("name", "Ann")),
	}
	require.NoError(t, e.AddAll(g.lib, l.LibraryBooks, []*Object{g.b1, g.b2}))
	require.NoError(t, g.lib.Add("writers", g.w))
	require.NoError(t, g.b1.Add("authors", g.w))
	require.NoError(t, g.b2.Set("editor", g.w))
	require.NoError(t, g.fan.Set("favourite", g.b2))
	return g
}

func TestDelete_ChildrenScenario(t *testing.T) {
	e, l := setup(t)
	a := mustCreate(t, e, l.Node)
	b := mustCreate(t, e, l.Node)

	require.NoError(t, a.Add("children", b))
	assert.Same(t, a, b.Container())
	assert.Same(t, l.NodeChildren, b.ContainingFeature())

	require.NoError(t, e.Delete(a))
	assert.True(t, a.Deleted())
	assert.True(t, b.Deleted())
	_, ok := e.Lookup(b.ID())
	assert.False(t, ok)
	assert.Zero(t, e.Len())
}

func TestDelete_ClearsDanglingReferences(t *testing.T) {
	e, l := setup(t)
	g := buildLibrary(t, e, l)

	require.NoError(t, e.Delete(g.w))

	assert.Empty(t, objects(t, e, g.b1, l.BookAuthors))
	editor, err := g.b2.Get("editor")
	require.NoError(t, err)
	assert.Nil(t, editor)
	assert.Empty(t, objects(t, e, g.lib, l.LibraryWriters))
	assert.Empty(t, g.w.Referrers())
	assert.Nil(t, g.w.Container())
	assert.Equal(t, 4, e.Len())
}

func TestDelete_Cascades(t *testing.T) {
	e, l := setup(t)
	g := buildLibrary(t, e, l)

	require.NoError(t, e.Delete(g.lib))

	for _, o := range []*Object{g.lib, g.b1, g.b2, g.w} {
		assert.True(t, o.Deleted(), "%s", o)
		_, ok := e.Lookup(o.ID())
		assert.False(t, ok)
	}
	assert.False(t, g.fan.Deleted())
	fav, err := g.fan.Get("favourite")
	require.NoError(t, err)
	assert.Nil(t, fav, "references from outside the deleted tree are cleared")
	assert.Equal(t, []*Object{g.fan}, e.Objects())
}

func TestDelete_ContainedObjectLeavesContainer(t *testing.T) {
	e, l := setup(t)
	g := buildLibrary(t, e, l)
	rec := &testutil.Recorder{}
	e.Observe(rec, g.lib)

	require.NoError(t, e.Delete(g.b1))

	assert.Equal(t, []*Object{g.b2}, objects(t, e, g.lib, l.LibraryBooks))
	assert.Nil(t, g.b1.Container())
	assert.Empty(t, objects(t, e, g.w, l.WriterBooks))
	assert.Contains(t, rec.Summary(), "books REMOVE")
}

func TestDelete_Errors(t *testing.T) {
	e, l := setup(t)
	g := buildLibrary(t, e, l)
	require.NoError(t, e.Delete(g.b1))

	assert.ErrorIs(t, e.Delete(nil), mgerr.ErrType)
	assert.ErrorIs(t, e.Delete(g.b1), mgerr.ErrDeleted)

	// Deleted objects stay readable but reject writes, and cannot be linked.
	title, err := g.b1.Get("title")
	require.NoError(t, err)
	assert.Equal(t, "Dune", title)
	assert.ErrorIs(t, g.b1.Set("pages", 1), mgerr.ErrDeleted)
	assert.ErrorIs(t, g.w.Add("books", g.b1), mgerr.ErrDeleted)
	assert.ErrorIs(t, g.fan.Set("favourite", g.b1), mgerr.ErrDeleted)
}
