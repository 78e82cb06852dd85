package meta

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/specialistvlad/metagraph/internal/mgerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// names returns the names of the given features, for diffing.
func names(fs []*Feature) []string {
	out := make([]string, len(fs))
	for i, f := range fs {
		out[i] = f.Name
	}
	return out
}

func classNames(cs []*Class) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.Name()
	}
	return out
}

// diamond builds Report <- Document <- (Named, Tagged) with Document and
// Tagged both declaring "title".
func diamond(t *testing.T) (report, document, named, tagged *Class) {
	t.Helper()
	named = NewClass("Named", Abstract()).MustAddFeatures(NewAttribute("name", String))
	tagged = NewClass("Tagged").MustAddFeatures(
		NewAttribute("tags", String, Many()),
		NewAttribute("title", String),
	)
	document = NewClass("Document").MustAddFeatures(NewAttribute("title", String, Default("untitled")))
	require.NoError(t, document.AddSuperclass(named))
	require.NoError(t, document.AddSuperclass(tagged))
	report = NewClass("Report").MustAddFeatures(NewAttribute("pages", Int))
	require.NoError(t, report.AddSuperclass(document))
	return report, document, named, tagged
}

func TestAllFeatures_Linearization(t *testing.T) {
	report, document, _, _ := diamond(t)

	got := names(report.AllFeatures())
	want := []string{"pages", "title", "name", "tags"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("AllFeatures() mismatch (-want +got):\n%s", diff)
	}

	// The most derived declaration of "title" wins.
	title, err := report.FindFeature("title")
	require.NoError(t, err)
	assert.Same(t, document, title.Owner())
	assert.Equal(t, "untitled", title.DefaultValue())
}

func TestAllSupertypes_DepthFirstLeftToRight(t *testing.T) {
	report, _, _, _ := diamond(t)
	want := []string{"Document", "Named", "Tagged"}
	if diff := cmp.Diff(want, classNames(report.AllSupertypes())); diff != "" {
		t.Errorf("AllSupertypes() mismatch (-want +got):\n%s", diff)
	}
}

func TestAllSupertypes_SharedAncestorOnce(t *testing.T) {
	base := NewClass("Base")
	left := NewClass("Left")
	right := NewClass("Right")
	bottom := NewClass("Bottom")
	require.NoError(t, left.AddSuperclass(base))
	require.NoError(t, right.AddSuperclass(base))
	require.NoError(t, bottom.AddSuperclass(left))
	require.NoError(t, bottom.AddSuperclass(right))

	assert.Equal(t, []string{"Left", "Base", "Right"}, classNames(bottom.AllSupertypes()))
}

func TestAddSuperclass_RejectsCycles(t *testing.T) {
	a := NewClass("A")
	b := NewClass("B")
	c := NewClass("C")
	require.NoError(t, b.AddSuperclass(a))
	require.NoError(t, c.AddSuperclass(b))

	err := a.AddSuperclass(c)
	require.Error(t, err)
	assert.True(t, errors.Is(err, mgerr.ErrCycle))

	var cycle *mgerr.CycleError
	require.ErrorAs(t, err, &cycle)
	assert.Equal(t, []string{"A", "C", "B", "A"}, cycle.Path)

	t.Run("self", func(t *testing.T) {
		err := a.AddSuperclass(a)
		assert.ErrorIs(t, err, mgerr.ErrCycle)
	})

	// A failed call leaves the class untouched.
	assert.Empty(t, a.Supertypes())
}

func TestAddSuperclass_DuplicateIsNoop(t *testing.T) {
	a := NewClass("A")
	b := NewClass("B")
	require.NoError(t, b.AddSuperclass(a))
	require.NoError(t, b.AddSuperclass(a))
	assert.Len(t, b.Supertypes(), 1)
}

func TestFindFeature_Unknown(t *testing.T) {
	report, _, _, _ := diamond(t)
	_, err := report.FindFeature("missing")
	require.ErrorIs(t, err, mgerr.ErrUnknownFeature)

	var unknown *mgerr.UnknownFeatureError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "Report", unknown.Class)
	assert.Equal(t, "missing", unknown.Feature)
}

func TestAddFeature_Duplicates(t *testing.T) {
	c := NewClass("C")
	f := NewAttribute("x", Int)
	require.NoError(t, c.AddFeature(f))

	assert.ErrorIs(t, c.AddFeature(NewAttribute("x", String)), mgerr.ErrDuplicateFeature)
	assert.ErrorIs(t, NewClass("D").AddFeature(f), mgerr.ErrDuplicateFeature)
}

func TestConformsTo(t *testing.T) {
	report, document, named, tagged := diamond(t)
	other := NewClass("Other")

	assert.True(t, report.ConformsTo(report))
	assert.True(t, report.ConformsTo(document))
	assert.True(t, report.ConformsTo(named))
	assert.True(t, report.ConformsTo(tagged))
	assert.False(t, document.ConformsTo(report))
	assert.False(t, report.ConformsTo(other))
	assert.False(t, report.ConformsTo(nil))
	assert.True(t, named.IsSuperTypeOf(report))
}

func TestHasFeature_ShadowedIsNotApplicable(t *testing.T) {
	report, document, _, tagged := diamond(t)
	own, err := document.FindFeature("title")
	require.NoError(t, err)
	shadowed, err := tagged.FindFeature("title")
	require.NoError(t, err)

	assert.True(t, report.HasFeature(own))
	assert.False(t, report.HasFeature(shadowed))
	assert.True(t, tagged.HasFeature(shadowed))
}

func TestOperations_InheritAndOverride(t *testing.T) {
	base := NewClass("Shape")
	require.NoError(t, base.AddOperation(NewOperation("area", Double)))
	require.NoError(t, base.AddOperation(NewOperation("name", String)))
	square := NewClass("Square")
	require.NoError(t, square.AddSuperclass(base))
	require.NoError(t, square.AddOperation(NewOperation("area", Double, NewParameter("scale", Double))))

	ops := square.AllOperations()
	require.Len(t, ops, 2)
	assert.Same(t, square, ops[0].Owner())
	assert.Equal(t, "area(scale Double) Double", ops[0].Signature())
	assert.Equal(t, "name", ops[1].Name)

	_, ok := square.FindOperation("perimeter")
	assert.False(t, ok)

	require.NoError(t, base.Implement("name", func(any, []any) (any, error) { return "shape", nil }))
	require.NoError(t, square.Implement("area", func(any, []any) (any, error) { return 4.0, nil }))
	require.Error(t, square.Implement("perimeter", nil))

	fn, ok := square.Implementation("name")
	require.True(t, ok)
	v, err := fn(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "shape", v)

	_, ok = base.Implementation("area")
	assert.False(t, ok)
}

func TestClassConforms_Instances(t *testing.T) {
	report, document, _, _ := diamond(t)
	assert.True(t, document.Conforms(fakeInstance{report}))
	assert.False(t, report.Conforms(fakeInstance{document}))
	assert.True(t, report.Conforms(nil))
	assert.False(t, report.Conforms("text"))
}

type fakeInstance struct{ cls *Class }

func (f fakeInstance) Class() *Class { return f.cls }
