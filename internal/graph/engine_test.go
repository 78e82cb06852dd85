package graph

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/specialistvlad/metagraph/internal/meta"
	"github.com/specialistvlad/metagraph/internal/mgerr"
	"github.com/specialistvlad/metagraph/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setup returns a fresh engine and library metamodel.
func setup(t *testing.T) (*Engine, *testutil.Library) {
	t.Helper()
	return New(context.Background()), testutil.NewLibrary()
}

func mustCreate(t *testing.T, e *Engine, cls *meta.Class, opts ...CreateOption) *Object {
	t.Helper()
	o, err := e.Create(cls, opts...)
	require.NoError(t, err)
	return o
}

// node creates a Node called name.
func node(t *testing.T, e *Engine, l *testutil.Library, name string) *Object {
	t.Helper()
	return mustCreate(t, e, l.Node, Initial("name", name))
}

func nodeNames(t *testing.T, vs []any) []string {
	t.Helper()
	out := make([]string, 0, len(vs))
	for _, v := range vs {
		name, err := v.(*Object).Get("name")
		require.NoError(t, err)
		out = append(out, name.(string))
	}
	return out
}

func objects(t *testing.T, e *Engine, o *Object, f *meta.Feature) []*Object {
	t.Helper()
	vs, err := e.Values(o, f)
	require.NoError(t, err)
	out := make([]*Object, len(vs))
	for i, v := range vs {
		out[i] = v.(*Object)
	}
	return out
}

func TestCreate_Defaults(t *testing.T) {
	e, l := setup(t)
	b := mustCreate(t, e, l.Book)

	pages, err := b.Get("pages")
	require.NoError(t, err)
	assert.Equal(t, 0, pages)

	genre, err := b.Get("genre")
	require.NoError(t, err)
	assert.Same(t, l.Genre.Literal("Fiction"), genre)

	tags, err := b.Values("tags")
	require.NoError(t, err)
	assert.Empty(t, tags)

	set, err := b.IsSet("pages")
	require.NoError(t, err)
	assert.False(t, set, "a default is not an explicit value")

	lib, err := b.Get("library")
	require.NoError(t, err)
	assert.Nil(t, lib)

	got, ok := e.Lookup(b.ID())
	require.True(t, ok)
	assert.Same(t, b, got)
	assert.Equal(t, 1, e.Len())
}

func TestCreate_Initial(t *testing.T) {
	e, l := setup(t)
	b := mustCreate(t, e, l.Book, Initial("title", "Dune"), Initial("tags", []string{"sf", "classic"}))

	title, err := b.Get("title")
	require.NoError(t, err)
	assert.Equal(t, "Dune", title)

	tags, err := b.Values("tags")
	require.NoError(t, err)
	assert.Equal(t, []any{"sf", "classic"}, tags)
}

func TestCreate_Errors(t *testing.T) {
	e, l := setup(t)

	testCases := []struct {
		name    string
		cls     *meta.Class
		opts    []CreateOption
		wantErr error
	}{
		{name: "nil class", cls: nil, wantErr: mgerr.ErrType},
		{name: "abstract class", cls: l.Item, wantErr: mgerr.ErrAbstractClass},
		{name: "unknown feature", cls: l.Book, opts: []CreateOption{Initial("isbn", "x")}, wantErr: mgerr.ErrUnknownFeature},
		{name: "reference", cls: l.Book, opts: []CreateOption{Initial("library", nil)}, wantErr: mgerr.ErrReadOnly},
		{name: "wrong type", cls: l.Book, opts: []CreateOption{Initial("pages", "many")}, wantErr: mgerr.ErrType},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := e.Create(tc.cls, tc.opts...)
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
	assert.Zero(t, e.Len(), "failed creations must not register objects")
}

func TestCreate_AbstractClassError(t *testing.T) {
	e, l := setup(t)
	_, err := e.Create(l.Item)

	var ace *mgerr.AbstractClassError
	require.True(t, errors.As(err, &ace))
	assert.Equal(t, "Item", ace.Class)
}

func TestCreate_ReadOnlyAttributeViaInitial(t *testing.T) {
	e, l := setup(t)
	isbn := meta.NewAttribute("isbn", meta.String, meta.ReadOnly())
	require.NoError(t, l.Book.AddFeature(isbn))

	b := mustCreate(t, e, l.Book, Initial("isbn", "978-0441013593"))
	v, err := e.Get(b, isbn)
	require.NoError(t, err)
	assert.Equal(t, "978-0441013593", v)

	err = e.Set(b, isbn, "other")
	assert.ErrorIs(t, err, mgerr.ErrReadOnly)
}

func TestClassGrowsAfterCreate(t *testing.T) {
	e, l := setup(t)
	b := mustCreate(t, e, l.Book)

	edition := meta.NewAttribute("edition", meta.Int, meta.Default(1))
	require.NoError(t, l.Book.AddFeature(edition))

	v, err := e.Get(b, edition)
	require.NoError(t, err)
	assert.Equal(t, 1, v)
	require.NoError(t, e.Set(b, edition, 2))
	v, err = b.Get("edition")
	require.NoError(t, err)
	assert.Equal(t, 2, v)
}

func TestRoots(t *testing.T) {
	e, l := setup(t)
	a := node(t, e, l, "a")
	b := node(t, e, l, "b")
	c := node(t, e, l, "c")
	require.NoError(t, a.Add("children", b))

	assert.Equal(t, []*Object{a, c}, e.Roots())
	assert.Equal(t, []*Object{a, b, c}, e.Objects())
	assert.Same(t, a, b.Root())
	assert.True(t, a.IsAncestorOf(b))
	assert.False(t, b.IsAncestorOf(a))
}

func TestObjects_CreationOrderAcrossDeleteAndRevert(t *testing.T) {
	e, l := setup(t)
	a := node(t, e, l, "a")
	b := node(t, e, l, "b")
	c := node(t, e, l, "c")

	j, err := e.Record(func() error { return e.Delete(b) })
	require.NoError(t, err)
	assert.Equal(t, []*Object{a, c}, e.Objects())
	assert.Equal(t, 2, e.Len())

	require.NoError(t, e.Revert(j))
	assert.Equal(t, []*Object{a, b, c}, e.Objects())
}

func TestAllContents_PreOrder(t *testing.T) {
	e, l := setup(t)
	// a
	// ├── b
	// │   └── d
	// └── c
	a := node(t, e, l, "a")
	b := node(t, e, l, "b")
	c := node(t, e, l, "c")
	d := node(t, e, l, "d")
	require.NoError(t, e.AddAll(a, l.NodeChildren, []*Object{b, c}))
	require.NoError(t, b.Add("children", d))

	var got []any
	for o := range a.AllContents() {
		got = append(got, o)
	}
	if diff := cmp.Diff([]string{"b", "d", "c"}, nodeNames(t, got)); diff != "" {
		t.Errorf("AllContents() mismatch (-want +got):\n%s", diff)
	}

	// The sequence restarts from the current state.
	require.NoError(t, e.Delete(d))
	assert.Equal(t, []*Object{b, c}, slices.Collect(a.AllContents()))

	// Early exit stops the walk.
	var first []*Object
	for o := range a.AllContents() {
		first = append(first, o)
		break
	}
	assert.Equal(t, []*Object{b}, first)
}

func TestAllContents_FeatureDeclarationOrder(t *testing.T) {
	e, l := setup(t)
	lib := mustCreate(t, e, l.Library)
	w := mustCreate(t, e, l.Writer)
	b := mustCreate(t, e, l.Book)

	require.NoError(t, lib.Add("writers", w))
	require.NoError(t, lib.Add("books", b))

	// books is declared before writers.
	assert.Equal(t, []*Object{b, w}, slices.Collect(lib.AllContents()))
	assert.Equal(t, []*Object{b, w}, lib.Contents())
}

func TestIsInstance(t *testing.T) {
	e, l := setup(t)
	b := mustCreate(t, e, l.Book)
	w := mustCreate(t, e, l.Writer)

	assert.True(t, e.IsInstance(b, l.Book))
	assert.True(t, e.IsInstance(b, l.Item))
	assert.False(t, e.IsInstance(w, l.Item))
	assert.False(t, e.IsInstance(nil, l.Book))
	assert.False(t, e.IsInstance("Dune", l.Book))
	assert.True(t, e.IsInstance("Dune", meta.String))
	assert.True(t, e.IsInstance(l.Genre.Literal("Poetry"), l.Genre))
	assert.False(t, e.IsInstance(b, nil))
}

func TestEngine_DebugLogging(t *testing.T) {
	buf := &testutil.SafeBuffer{}
	e := New(context.Background(), WithLogger(testutil.DebugLogger(buf)))
	l := testutil.NewLibrary()

	b := mustCreate(t, e, l.Book)
	require.NoError(t, e.Delete(b))

	out := buf.String()
	assert.Contains(t, out, "Object created.")
	assert.Contains(t, out, "Object deleted.")
	assert.Contains(t, out, "object_id="+b.ID().String())
}
