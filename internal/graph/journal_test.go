package graph

import (
	"errors"
	"testing"

	"github.com/specialistvlad/metagraph/internal/mgerr"
	"github.com/specialistvlad/metagraph/internal/notify"
	"github.com/specialistvlad/metagraph/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecord_RevertReplayAttribute(t *testing.T) {
	e, l := setup(t)
	b := mustCreate(t, e, l.Book)

	j, err := e.Record(func() error { return b.Set("pages", 300) })
	require.NoError(t, err)
	assert.Equal(t, 1, j.Len())

	require.NoError(t, e.Revert(j))
	pages, err := b.Get("pages")
	require.NoError(t, err)
	assert.Equal(t, 0, pages)
	set, err := b.IsSet("pages")
	require.NoError(t, err)
	assert.False(t, set, "revert restores the unset state")

	require.NoError(t, e.Replay(j))
	pages, err = b.Get("pages")
	require.NoError(t, err)
	assert.Equal(t, 300, pages)
}

func TestRevert_UndoesCascades(t *testing.T) {
	e, l := setup(t)
	lib1 := mustCreate(t, e, l.Library)
	lib2 := mustCreate(t, e, l.Library)
	b := mustCreate(t, e, l.Book)
	c := mustCreate(t, e, l.Book)
	require.NoError(t, e.AddAll(lib1, l.LibraryBooks, []*Object{b, c}))

	j, err := e.Record(func() error { return lib2.Add("books", b) })
	require.NoError(t, err)
	assert.Greater(t, j.Len(), 1, "the move is journaled with its cascades")
	assert.Same(t, lib2, b.Container())

	require.NoError(t, e.Revert(j))
	assert.Equal(t, []*Object{b, c}, objects(t, e, lib1, l.LibraryBooks))
	assert.Empty(t, objects(t, e, lib2, l.LibraryBooks))
	assert.Same(t, lib1, b.Container())
	got, err := b.Get("library")
	require.NoError(t, err)
	assert.Same(t, lib1, got)

	require.NoError(t, e.Replay(j))
	assert.Equal(t, []*Object{c}, objects(t, e, lib1, l.LibraryBooks))
	assert.Same(t, lib2, b.Container())
}

func TestRevert_Delete(t *testing.T) {
	e, l := setup(t)
	g := buildLibrary(t, e, l)

	j, err := e.Record(func() error { return e.Delete(g.lib) })
	require.NoError(t, err)
	require.True(t, g.b1.Deleted())

	require.NoError(t, e.Revert(j))
	for _, o := range []*Object{g.lib, g.b1, g.b2, g.w} {
		assert.False(t, o.Deleted())
		_, ok := e.Lookup(o.ID())
		assert.True(t, ok)
	}
	assert.Equal(t, []*Object{g.b1, g.b2}, objects(t, e, g.lib, l.LibraryBooks))
	assert.Equal(t, []*Object{g.w}, objects(t, e, g.lib, l.LibraryWriters))
	assert.Equal(t, []*Object{g.w}, objects(t, e, g.b1, l.BookAuthors))
	assert.Equal(t, []*Object{g.b1}, objects(t, e, g.w, l.WriterBooks))
	editor, err := g.b2.Get("editor")
	require.NoError(t, err)
	assert.Same(t, g.w, editor)
	fav, err := g.fan.Get("favourite")
	require.NoError(t, err)
	assert.Same(t, g.b2, fav)
	assert.Same(t, g.lib, g.b2.Container())

	require.NoError(t, e.Replay(j))
	assert.True(t, g.w.Deleted())
	assert.Equal(t, []*Object{g.fan}, e.Objects())
}

func TestRecord_Nested(t *testing.T) {
	e, l := setup(t)
	b := mustCreate(t, e, l.Book)

	var inner *Journal
	outer, err := e.Record(func() error {
		if err := b.Set("pages", 1); err != nil {
			return err
		}
		var err error
		inner, err = e.Record(func() error { return b.Set("title", "Dune") })
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, 1, inner.Len())
	assert.Equal(t, 2, outer.Len())

	require.NoError(t, e.Revert(outer))
	title, err := b.Get("title")
	require.NoError(t, err)
	assert.Equal(t, "", title)
}

func TestRecord_ReturnsJournalOnError(t *testing.T) {
	e, l := setup(t)
	b := mustCreate(t, e, l.Book)
	boom := errors.New("boom")
	e.Observe(&testutil.Recorder{Fail: boom}, b)

	j, err := e.Record(func() error { return b.Set("pages", 5) })
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, j.Len(), "the write happened and is revertible")
}

func TestRevert_Notifies(t *testing.T) {
	e, l := setup(t)
	b := mustCreate(t, e, l.Book)
	j, err := e.Record(func() error { return b.Set("pages", 5) })
	require.NoError(t, err)

	rec := &testutil.Recorder{}
	e.Observe(rec, b)
	require.NoError(t, e.Revert(j))
	require.NoError(t, e.Replay(j))
	assert.Equal(t, []notify.Kind{notify.Unset, notify.Set}, rec.Kinds())
}

func TestRevert_RefusesWhenSlotsChanged(t *testing.T) {
	testCases := []struct {
		name    string
		feature string
		record  func(e *Engine, l *testutil.Library, b *Object) error
		change  func(e *Engine, l *testutil.Library, b *Object) error
	}{
		{
			name:    "inserted value removed",
			feature: "tags",
			record:  func(_ *Engine, _ *testutil.Library, b *Object) error { return b.Add("tags", "x") },
			change:  func(_ *Engine, _ *testutil.Library, b *Object) error { return b.Remove("tags", "x") },
		},
		{
			name:    "inserted value moved",
			feature: "tags",
			record:  func(_ *Engine, _ *testutil.Library, b *Object) error { return b.Add("tags", "y") },
			change:  func(e *Engine, l *testutil.Library, b *Object) error { return e.Move(b, l.BookTags, 1, 0) },
		},
		{
			name:    "set value overwritten",
			feature: "pages",
			record:  func(_ *Engine, _ *testutil.Library, b *Object) error { return b.Set("pages", 10) },
			change:  func(_ *Engine, _ *testutil.Library, b *Object) error { return b.Set("pages", 11) },
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			e, l := setup(t)
			b := mustCreate(t, e, l.Book)
			require.NoError(t, b.Add("tags", "x0"))

			j, err := e.Record(func() error { return tc.record(e, l, b) })
			require.NoError(t, err)
			require.NoError(t, j.CanRevert())
			require.NoError(t, tc.change(e, l, b))

			tags, err := b.Values("tags")
			require.NoError(t, err)
			pages, err := b.Get("pages")
			require.NoError(t, err)

			var conflict *mgerr.ConflictError
			require.ErrorAs(t, j.CanRevert(), &conflict)
			assert.Equal(t, tc.feature, conflict.Feature)
			assert.ErrorIs(t, e.Revert(j), mgerr.ErrConflict)

			after, err := b.Values("tags")
			require.NoError(t, err)
			assert.Equal(t, tags, after, "a refused revert writes nothing")
			got, err := b.Get("pages")
			require.NoError(t, err)
			assert.Equal(t, pages, got)
		})
	}
}

func TestReplay_RefusesWhenSlotsChanged(t *testing.T) {
	e, l := setup(t)
	b := mustCreate(t, e, l.Book)
	j, err := e.Record(func() error { return b.Set("pages", 10) })
	require.NoError(t, err)
	require.NoError(t, e.Revert(j))
	require.NoError(t, j.CanReplay())

	require.NoError(t, b.Set("pages", 3))
	assert.ErrorIs(t, j.CanReplay(), mgerr.ErrConflict)
	assert.ErrorIs(t, e.Replay(j), mgerr.ErrConflict)
	pages, err := b.Get("pages")
	require.NoError(t, err)
	assert.Equal(t, 3, pages)
}

func TestJoin_ChecksAsOneSequence(t *testing.T) {
	e, l := setup(t)
	b := mustCreate(t, e, l.Book)
	add, err := e.Record(func() error { return b.Add("tags", "x") })
	require.NoError(t, err)
	remove, err := e.Record(func() error { return b.Remove("tags", "x") })
	require.NoError(t, err)

	assert.Error(t, add.CanRevert(), "the added tag is gone")
	both := Join(add, nil, remove)
	assert.Equal(t, 2, both.Len())
	require.NoError(t, both.CanRevert())
	require.NoError(t, e.Revert(both))
	tags, err := b.Values("tags")
	require.NoError(t, err)
	assert.Empty(t, tags)
}

func TestRevert_AcceptsSubstitutedProxy(t *testing.T) {
	e, l := setup(t)
	x := node(t, e, l, "x")
	target := node(t, e, l, "remote")
	p := e.NewProxy(l.Node, "other.hcl#/", &countingResolver{target: target})

	j, err := e.Record(func() error { return x.Set("next", p) })
	require.NoError(t, err)
	got, err := x.Get("next")
	require.NoError(t, err)
	require.Same(t, target, got)

	require.NoError(t, j.CanRevert())
	require.NoError(t, e.Revert(j))
	set, err := x.IsSet("next")
	require.NoError(t, err)
	assert.False(t, set)
	assert.Empty(t, target.Referrers())
}
