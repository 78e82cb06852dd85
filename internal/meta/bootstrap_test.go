package meta

import (
	"testing"

	"github.com/specialistvlad/metagraph/internal/mgerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBootstrap_SelfDescribing(t *testing.T) {
	assert.Same(t, MetaClass, MetaClass.MetaClass())
	assert.Same(t, MetaClass, NewClass("User").MetaClass())
	assert.Same(t, MetaPackage, MetaModel.MetaClass())
	assert.Same(t, MetaDataType, String.MetaClass())
	assert.Same(t, MetaEnum, NewEnum("E", "a").MetaClass())
	assert.Same(t, MetaEnumLiteral, NewEnum("E", "a").Literal("a").MetaClass())
	assert.Same(t, MetaOperation, NewOperation("op", nil).MetaClass())
	assert.Same(t, MetaParameter, NewParameter("p", Int).MetaClass())

	// Meta-classes are ordinary classes living in the bootstrap package.
	assert.Same(t, MetaModel, MetaClass.Package())
	assert.Same(t, MetaModel, String.Package())
	assert.True(t, MetaReference.ConformsTo(MetaFeature))
	assert.True(t, MetaEnum.ConformsTo(MetaClassifier))
	assert.True(t, MetaFeature.IsAbstract())
	require.NoError(t, MetaModel.Validate())
}

func TestBootstrap_OppositesAreSymmetric(t *testing.T) {
	for _, c := range MetaModel.Classifiers() {
		cls, ok := c.(*Class)
		if !ok {
			continue
		}
		for _, f := range cls.Features() {
			if o := f.Opposite(); o != nil {
				assert.Same(t, f, o.Opposite(), f.QualifiedName())
			}
		}
	}
	opp, err := MetaReference.FindFeature("opposite")
	require.NoError(t, err)
	assert.Same(t, opp, opp.Opposite())
}

func TestReflect(t *testing.T) {
	book := NewClass("Book", Abstract())
	title := NewAttribute("title", String, Identifier())
	writer := NewClass("Writer")
	authors := NewReference("authors", writer, Many())
	books := NewReference("books", book, Many())
	book.MustAddFeatures(title, authors)
	writer.MustAddFeatures(books)
	require.NoError(t, SetOpposite(authors, books))

	tests := []struct {
		name string
		d    Descriptor
		prop string
		want any
	}{
		{"class name", book, "name", "Book"},
		{"class abstract", book, "abstract", true},
		{"class features", book, "features", []any{title, authors}},
		{"class package unset", book, "package", nil},
		{"attribute id", title, "id", true},
		{"attribute type", title, "type", String},
		{"reference opposite", authors, "opposite", books},
		{"reference many", authors, "many", true},
		{"reference upper bound", authors, "upperBound", Unbounded},
		{"reference owner", authors, "containingClass", book},
		{"datatype go type", Int, "instanceTypeName", "int"},
		{"package uri", MetaModel, "nsURI", MetaNamespace},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Reflect(tc.d, tc.prop)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	t.Run("attribute has no containment", func(t *testing.T) {
		_, err := Reflect(title, "containment")
		assert.ErrorIs(t, err, mgerr.ErrUnknownFeature)
	})
}
