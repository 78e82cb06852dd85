package graph

import (
	"errors"
	"testing"

	"github.com/specialistvlad/metagraph/internal/meta"
	"github.com/specialistvlad/metagraph/internal/mgerr"
	"github.com/specialistvlad/metagraph/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// assertOpposites checks that every value of f on o holds o in its opposite
// feature, for all live objects.
func assertOpposites(t *testing.T, e *Engine, f *meta.Feature) {
	t.Helper()
	g := f.Opposite()
	require.NotNil(t, g)
	for _, o := range e.Objects() {
		if !o.class.HasFeature(f) {
			continue
		}
		for _, v := range objects(t, e, o, f) {
			assert.True(t, v.holds(g, o), "%s holds %s in %s but not the reverse", o, v, f.Name)
		}
	}
}

func TestAdd_MirrorsManyToMany(t *testing.T) {
	e, l := setup(t)
	b1 := mustCreate(t, e, l.Book)
	b2 := mustCreate(t, e, l.Book)
	w := mustCreate(t, e, l.Writer)

	require.NoError(t, b1.Add("authors", w))
	assert.Equal(t, []*Object{b1}, objects(t, e, w, l.WriterBooks))

	require.NoError(t, w.Add("books", b2))
	assert.Equal(t, []*Object{w}, objects(t, e, b2, l.BookAuthors))
	assert.Equal(t, []*Object{b1, b2}, objects(t, e, w, l.WriterBooks))

	require.NoError(t, w.Remove("books", b1))
	assert.Empty(t, objects(t, e, b1, l.BookAuthors))

	assertOpposites(t, e, l.BookAuthors)
	assertOpposites(t, e, l.WriterBooks)
}

func TestSet_SingleOppositeMovesBetweenContainers(t *testing.T) {
	e, l := setup(t)
	p1 := node(t, e, l, "p1")
	p2 := node(t, e, l, "p2")
	n := node(t, e, l, "n")

	require.NoError(t, n.Set("parent", p1))
	assert.Same(t, p1, n.Container())
	assert.Same(t, l.NodeChildren, n.ContainingFeature())
	assert.Equal(t, []*Object{n}, objects(t, e, p1, l.NodeChildren))

	require.NoError(t, n.Set("parent", p2))
	assert.Empty(t, objects(t, e, p1, l.NodeChildren))
	assert.Equal(t, []*Object{n}, objects(t, e, p2, l.NodeChildren))
	assert.Same(t, p2, n.Container())

	require.NoError(t, n.Set("parent", nil))
	assert.Empty(t, objects(t, e, p2, l.NodeChildren))
	assert.Nil(t, n.Container())

	assertOpposites(t, e, l.NodeChildren)
}

func TestAdd_ReparentsContainedObject(t *testing.T) {
	e, l := setup(t)
	lib1 := mustCreate(t, e, l.Library)
	lib2 := mustCreate(t, e, l.Library)
	b := mustCreate(t, e, l.Book)

	require.NoError(t, lib1.Add("books", b))
	got, err := b.Get("library")
	require.NoError(t, err)
	assert.Same(t, lib1, got)

	require.NoError(t, lib2.Add("books", b))
	assert.Empty(t, objects(t, e, lib1, l.LibraryBooks))
	assert.Same(t, lib2, b.Container())
	got, err = b.Get("library")
	require.NoError(t, err)
	assert.Same(t, lib2, got)

	// Moving through a containment without an opposite.
	w := mustCreate(t, e, l.Writer)
	require.NoError(t, lib1.Add("writers", w))
	require.NoError(t, lib2.Add("writers", w))
	assert.Empty(t, objects(t, e, lib1, l.LibraryWriters))
	assert.Same(t, lib2, w.Container())
}

func TestContainment_SingleContainer(t *testing.T) {
	e, l := setup(t)
	a := node(t, e, l, "a")
	b := node(t, e, l, "b")
	c := node(t, e, l, "c")

	require.NoError(t, a.Add("children", c))
	require.NoError(t, b.Add("children", c))

	for _, o := range e.Objects() {
		containers := 0
		for _, r := range o.Referrers() {
			if r.Feature.Containment {
				containers++
			}
		}
		assert.LessOrEqual(t, containers, 1, "%s has %d containers", o, containers)
	}
	assert.Same(t, b, c.Container())
}

func TestContainment_RejectsCycles(t *testing.T) {
	e, l := setup(t)
	a := node(t, e, l, "a")
	b := node(t, e, l, "b")
	c := node(t, e, l, "c")
	require.NoError(t, a.Add("children", b))
	require.NoError(t, b.Add("children", c))

	testCases := []struct {
		name string
		do   func() error
	}{
		{name: "self", do: func() error { return a.Add("children", a) }},
		{name: "ancestor", do: func() error { return c.Add("children", a) }},
		{name: "own parent", do: func() error { return a.Set("parent", a) }},
		{name: "descendant as parent", do: func() error { return a.Set("parent", c) }},
		{name: "replace all", do: func() error { return e.Set(c, l.NodeChildren, []*Object{a}) }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.do()
			require.Error(t, err)
			assert.ErrorIs(t, err, mgerr.ErrContainmentCycle)
			assert.ErrorIs(t, err, mgerr.ErrCycle)

			// Nothing moved.
			assert.Nil(t, a.Container())
			assert.Same(t, a, b.Container())
			assert.Same(t, b, c.Container())
		})
	}
}

func TestSet_TypeSoundness(t *testing.T) {
	e, l := setup(t)
	b := mustCreate(t, e, l.Book, Initial("title", "Dune"))
	other := mustCreate(t, e, l.Book)
	w := mustCreate(t, e, l.Writer)
	require.NoError(t, b.Add("authors", w))

	testCases := []struct {
		name string
		do   func() error
	}{
		{name: "string into int", do: func() error { return b.Set("pages", "many") }},
		{name: "nil into string", do: func() error { return b.Set("title", nil) }},
		{name: "literal of another enum", do: func() error { return b.Set("genre", meta.NewEnum("Other", "Fiction").Literal("Fiction")) }},
		{name: "book into writer reference", do: func() error { return b.Set("editor", other) }},
		{name: "string into reference", do: func() error { return b.Set("editor", "Frank") }},
		{name: "replace all with one bad value", do: func() error { return e.Set(b, l.BookAuthors, []any{w, other}) }},
		{name: "add bad value", do: func() error { return b.Add("authors", other) }},
		{name: "add all with bad value", do: func() error { return e.AddAll(b, l.BookTags, []any{"ok", 3}) }},
		{name: "non list into many", do: func() error { return e.Set(b, l.BookTags, "sf") }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.do()
			require.Error(t, err)
			assert.ErrorIs(t, err, mgerr.ErrType)

			title, err := b.Get("title")
			require.NoError(t, err)
			assert.Equal(t, "Dune", title)
			pages, err := b.Get("pages")
			require.NoError(t, err)
			assert.Equal(t, 0, pages)
			assert.Equal(t, []*Object{w}, objects(t, e, b, l.BookAuthors))
			assert.Equal(t, []*Object{b}, objects(t, e, w, l.WriterBooks))
			tags, err := b.Values("tags")
			require.NoError(t, err)
			assert.Empty(t, tags)
		})
	}
}

func TestTypeError_Describes(t *testing.T) {
	e, l := setup(t)
	b := mustCreate(t, e, l.Book)

	err := b.Set("pages", "many")
	var te *mgerr.TypeError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, "Book.pages", te.Feature)
	assert.Equal(t, "many", te.Value)
	assert.Equal(t, "Int", te.Expected)
}

func TestUnknownFeature(t *testing.T) {
	e, l := setup(t)
	b := mustCreate(t, e, l.Book)
	w := mustCreate(t, e, l.Writer)

	err := b.Set("isbn", "x")
	assert.ErrorIs(t, err, mgerr.ErrUnknownFeature)

	err = e.Set(w, l.BookTitle, "x")
	var ufe *mgerr.UnknownFeatureError
	require.True(t, errors.As(err, &ufe))
	assert.Equal(t, "Writer", ufe.Class)
	assert.Equal(t, "title", ufe.Feature)

	_, err = e.Get(b, nil)
	assert.ErrorIs(t, err, mgerr.ErrUnknownFeature)
}

func TestAdd_Uniqueness(t *testing.T) {
	e, l := setup(t)
	b := mustCreate(t, e, l.Book)
	w := mustCreate(t, e, l.Writer)
	require.NoError(t, b.Add("authors", w))

	err := b.Add("authors", w)
	assert.ErrorIs(t, err, mgerr.ErrUniqueness)

	err = e.Set(b, l.BookTags, []string{"sf", "sf"})
	assert.ErrorIs(t, err, mgerr.ErrUniqueness)

	err = e.AddAll(b, l.BookAuthors, []*Object{w})
	assert.ErrorIs(t, err, mgerr.ErrUniqueness)

	// Non-unique features accept duplicates.
	notes := meta.NewAttribute("notes", meta.String, meta.Many(), meta.NonUnique())
	require.NoError(t, l.Book.AddFeature(notes))
	require.NoError(t, e.AddAll(b, notes, []string{"x", "x"}))
	vs, err := e.Values(b, notes)
	require.NoError(t, err)
	assert.Equal(t, []any{"x", "x"}, vs)
}

func TestAdd_NonUniqueReferenceKeepsMirrorUntilLastRemoved(t *testing.T) {
	e, l := setup(t)
	b := mustCreate(t, e, l.Book)
	w := mustCreate(t, e, l.Writer)
	l.BookAuthors.Unique = false

	require.NoError(t, b.Add("authors", w))
	require.NoError(t, b.Add("authors", w))
	assert.Equal(t, []*Object{b}, objects(t, e, w, l.WriterBooks), "the mirror holds the owner once")

	require.NoError(t, e.RemoveAt(b, l.BookAuthors, 0))
	assert.Equal(t, []*Object{b}, objects(t, e, w, l.WriterBooks))

	require.NoError(t, e.RemoveAt(b, l.BookAuthors, 0))
	assert.Empty(t, objects(t, e, w, l.WriterBooks))
}

func TestAdd_UpperBound(t *testing.T) {
	e, l := setup(t)
	n := node(t, e, l, "n")
	a := node(t, e, l, "a")
	b := node(t, e, l, "b")
	c := node(t, e, l, "c")

	require.NoError(t, e.AddAll(n, l.NodePeers, []*Object{a, b}))

	err := n.Add("peers", c)
	var ae *mgerr.ArityError
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, 2, ae.Upper)
	assert.Equal(t, 3, ae.Got)

	err = e.Set(n, l.NodePeers, []*Object{a, b, c})
	assert.ErrorIs(t, err, mgerr.ErrArity)
	assert.Equal(t, []*Object{a, b}, objects(t, e, n, l.NodePeers))

	// Adding to a single-valued feature is an arity error.
	err = n.Add("next", a)
	assert.ErrorIs(t, err, mgerr.ErrArity)
}

func TestInsert_Positions(t *testing.T) {
	e, l := setup(t)
	b := mustCreate(t, e, l.Book)

	require.NoError(t, e.Insert(b, l.BookTags, End, "b"))
	require.NoError(t, e.Insert(b, l.BookTags, 0, "a"))
	require.NoError(t, e.Insert(b, l.BookTags, 2, "c"))
	vs, err := b.Values("tags")
	require.NoError(t, err)
	assert.Equal(t, []any{"a", "b", "c"}, vs)

	err = e.Insert(b, l.BookTags, 5, "z")
	var ie *mgerr.IndexError
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, 5, ie.Index)
}

func TestRemove(t *testing.T) {
	e, l := setup(t)
	b := mustCreate(t, e, l.Book, Initial("tags", []string{"a", "b", "c"}))

	require.NoError(t, b.Remove("tags", "b"))
	require.NoError(t, b.Remove("tags", "absent"), "removing an absent value is a no-op")
	vs, err := b.Values("tags")
	require.NoError(t, err)
	assert.Equal(t, []any{"a", "c"}, vs)

	require.NoError(t, e.RemoveAt(b, l.BookTags, 1))
	vs, err = b.Values("tags")
	require.NoError(t, err)
	assert.Equal(t, []any{"a"}, vs)

	assert.ErrorIs(t, e.RemoveAt(b, l.BookTags, 1), mgerr.ErrIndex)

	// Remove on a single-valued reference clears it when it matches.
	w := mustCreate(t, e, l.Writer)
	require.NoError(t, b.Set("editor", w))
	require.NoError(t, b.Remove("editor", w))
	editor, err := b.Get("editor")
	require.NoError(t, err)
	assert.Nil(t, editor)
}

func TestMove(t *testing.T) {
	e, l := setup(t)
	a := node(t, e, l, "a")
	kids := []*Object{node(t, e, l, "x"), node(t, e, l, "y"), node(t, e, l, "z")}
	require.NoError(t, e.AddAll(a, l.NodeChildren, kids))

	require.NoError(t, e.Move(a, l.NodeChildren, 0, 2))
	vs, err := e.Values(a, l.NodeChildren)
	require.NoError(t, err)
	assert.Equal(t, []string{"y", "z", "x"}, nodeNames(t, vs))

	require.NoError(t, e.Move(a, l.NodeChildren, 1, 1))
	assert.ErrorIs(t, e.Move(a, l.NodeChildren, 0, 3), mgerr.ErrIndex)

	// Containers are unaffected by reordering.
	for _, k := range kids {
		assert.Same(t, a, k.Container())
	}
}

func TestSet_ReplacesManyValued(t *testing.T) {
	e, l := setup(t)
	b := mustCreate(t, e, l.Book)
	w1 := mustCreate(t, e, l.Writer)
	w2 := mustCreate(t, e, l.Writer)
	require.NoError(t, b.Add("authors", w1))

	require.NoError(t, e.Set(b, l.BookAuthors, []*Object{w2}))
	assert.Equal(t, []*Object{w2}, objects(t, e, b, l.BookAuthors))
	assert.Empty(t, objects(t, e, w1, l.WriterBooks))
	assert.Equal(t, []*Object{b}, objects(t, e, w2, l.WriterBooks))
}

func TestUnsetAndIsSet(t *testing.T) {
	e, l := setup(t)
	b := mustCreate(t, e, l.Book)
	w := mustCreate(t, e, l.Writer)

	require.NoError(t, b.Set("pages", 0))
	set, err := b.IsSet("pages")
	require.NoError(t, err)
	assert.True(t, set, "an explicit default is still set")

	require.NoError(t, b.Unset("pages"))
	set, err = b.IsSet("pages")
	require.NoError(t, err)
	assert.False(t, set)

	require.NoError(t, b.Add("authors", w))
	set, err = b.IsSet("authors")
	require.NoError(t, err)
	assert.True(t, set)

	require.NoError(t, e.Clear(b, l.BookAuthors))
	set, err = b.IsSet("authors")
	require.NoError(t, err)
	assert.False(t, set)
	assert.Empty(t, objects(t, e, w, l.WriterBooks))
}

func TestDerivedFeature(t *testing.T) {
	e, l := setup(t)
	b := mustCreate(t, e, l.Book, Initial("title", "Dune"))
	w := mustCreate(t, e, l.Writer)
	require.NoError(t, b.Add("authors", w))

	summary, err := b.Get("summary")
	require.NoError(t, err)
	assert.Equal(t, "Dune (1 authors)", summary)

	err = b.Set("summary", "x")
	assert.ErrorIs(t, err, mgerr.ErrReadOnly)

	set, err := b.IsSet("summary")
	require.NoError(t, err)
	assert.False(t, set)

	// A derived feature without a body reads as its default.
	computed := meta.NewAttribute("rank", meta.Int, meta.Computed())
	require.NoError(t, l.Book.AddFeature(computed))
	v, err := e.Get(b, computed)
	require.NoError(t, err)
	assert.Equal(t, 0, v)
}

func TestWrite_OtherEngine(t *testing.T) {
	e, l := setup(t)
	other, _ := setup(t)
	b := mustCreate(t, e, l.Book)
	w := mustCreate(t, other, l.Writer)

	err := b.Add("authors", w)
	assert.ErrorIs(t, err, mgerr.ErrType)
}

func TestOppositeSymmetry_AfterEveryStep(t *testing.T) {
	e, l := setup(t)
	lib := mustCreate(t, e, l.Library)
	books := []*Object{mustCreate(t, e, l.Book), mustCreate(t, e, l.Book), mustCreate(t, e, l.Book)}
	writers := []*Object{mustCreate(t, e, l.Writer), mustCreate(t, e, l.Writer)}

	steps := []func() error{
		func() error { return e.AddAll(lib, l.LibraryBooks, books) },
		func() error { return books[0].Add("authors", writers[0]) },
		func() error { return writers[1].Add("books", books[0]) },
		func() error { return e.Set(writers[0], l.WriterBooks, books[1:]) },
		func() error { return books[2].Set("library", nil) },
		func() error { return e.Move(writers[0], l.WriterBooks, 0, 1) },
		func() error { return e.Delete(books[1]) },
		func() error { return e.Clear(writers[1], l.WriterBooks) },
	}
	pairs := []*meta.Feature{l.LibraryBooks, l.BookLibrary, l.BookAuthors, l.WriterBooks}

	for i, step := range steps {
		require.NoError(t, step(), "step %d", i)
		for _, f := range pairs {
			assertOpposites(t, e, f)
		}
	}
}

func TestRejectedWrite_NoNotifications(t *testing.T) {
	e, l := setup(t)
	b := mustCreate(t, e, l.Book)
	rec := &testutil.Recorder{}
	e.Observe(rec, b)

	require.Error(t, b.Set("pages", "x"))
	require.Error(t, b.Add("authors", b))
	assert.Empty(t, rec.Notifications())
}
