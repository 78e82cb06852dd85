package meta

import (
	"testing"

	"github.com/specialistvlad/metagraph/internal/mgerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPackage_Classifiers(t *testing.T) {
	p := NewPackage("library", "urn:library", "lib")
	book := NewClass("Book")
	genre := NewEnum("Genre", "fiction", "poetry")
	p.MustAdd(book, genre)

	assert.Same(t, p, book.Package())
	assert.Same(t, book, p.Class("Book"))
	assert.Nil(t, p.Class("Genre"))
	c, ok := p.Classifier("Genre")
	require.True(t, ok)
	assert.Same(t, genre, c)
	assert.Len(t, p.Classifiers(), 2)

	assert.Error(t, p.AddClassifier(NewClass("Book")))
	assert.Error(t, NewPackage("other", "urn:other", "o").AddClassifier(book))
}

func TestPackage_Subpackages(t *testing.T) {
	root := NewPackage("root", "urn:root", "r")
	sub := NewPackage("sub", "urn:root/sub", "s")
	require.NoError(t, root.AddSubpackage(sub))
	assert.Same(t, root, sub.SuperPackage())
	assert.Equal(t, []*Package{sub}, root.Subpackages())

	err := sub.AddSubpackage(root)
	require.Error(t, err)

	loop := NewPackage("loop", "urn:loop", "l")
	assert.ErrorIs(t, loop.AddSubpackage(loop), mgerr.ErrCycle)
}

func TestRegistry(t *testing.T) {
	root := NewPackage("root", "urn:root", "r")
	sub := NewPackage("sub", "urn:root/sub", "s")
	require.NoError(t, root.AddSubpackage(sub))
	item := NewClass("Item")
	sub.MustAdd(item)

	r := NewRegistry()
	require.NoError(t, r.Register(root))
	assert.Error(t, r.Register(root))
	assert.Error(t, r.Register(NewPackage("anon", "", "")))

	got, ok := r.Package("urn:root/sub")
	require.True(t, ok)
	assert.Same(t, sub, got)
	assert.Equal(t, []*Package{root, sub}, r.Packages())

	c, err := r.Lookup("urn:root/sub#Item")
	require.NoError(t, err)
	assert.Same(t, item, c)

	for _, q := range []string{"urn:root/sub#Missing", "urn:nowhere#Item", "no-hash"} {
		_, err := r.Lookup(q)
		assert.ErrorIs(t, err, mgerr.ErrUnknownClassifier, q)
	}
}
