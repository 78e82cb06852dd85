package meta

import (
	"fmt"

	"github.com/specialistvlad/metagraph/internal/mgerr"
)

// Unbounded is the upper bound of a feature with no maximum cardinality.
const Unbounded = -1

type featureKind int

const (
	attributeKind featureKind = iota
	referenceKind
)

// Feature is a structural feature: an attribute (data-typed) or a reference
// (class-typed). Containment and Opposite only apply to references.
type Feature struct {
	Name  string
	Type  Classifier
	Lower int
	Upper int

	Ordered    bool
	Unique     bool
	Changeable bool
	Derived    bool
	// ID marks an attribute whose value identifies its object within a
	// containment tree.
	ID bool
	// Default overrides the value type's default for attributes.
	Default any

	Containment bool

	kind     featureKind
	owner    *Class
	opposite *Feature
	derive   DeriveFunc
}

// DeriveFunc computes the value of a derived feature for self.
type DeriveFunc func(self any) (any, error)

// FeatureOption configures a feature at construction.
type FeatureOption func(*Feature)

// Many makes the feature unbounded.
func Many() FeatureOption { return func(f *Feature) { f.Upper = Unbounded } }

// Bounds sets lower and upper cardinality.
func Bounds(lower, upper int) FeatureOption {
	return func(f *Feature) { f.Lower, f.Upper = lower, upper }
}

// Required sets the lower bound to 1.
func Required() FeatureOption { return func(f *Feature) { f.Lower = 1 } }

// Contained makes a reference a containment.
func Contained() FeatureOption { return func(f *Feature) { f.Containment = true } }

// Default sets an explicit default value.
func Default(v any) FeatureOption { return func(f *Feature) { f.Default = v } }

// NonUnique allows duplicates in a many-valued feature.
func NonUnique() FeatureOption { return func(f *Feature) { f.Unique = false } }

// Unordered relaxes the ordering guarantee of a many-valued feature.
func Unordered() FeatureOption { return func(f *Feature) { f.Ordered = false } }

// ReadOnly makes the feature non-changeable through the graph engine.
func ReadOnly() FeatureOption { return func(f *Feature) { f.Changeable = false } }

// Computed marks the feature as derived; derived features are never stored.
func Computed() FeatureOption { return func(f *Feature) { f.Derived = true } }

// DerivedBy marks the feature as derived and computed by fn on every read.
func DerivedBy(fn DeriveFunc) FeatureOption {
	return func(f *Feature) { f.Derived, f.Changeable, f.derive = true, false, fn }
}

// Identifier marks an attribute as the object's ID.
func Identifier() FeatureOption { return func(f *Feature) { f.ID = true } }

func newFeature(kind featureKind, name string, typ Classifier, opts []FeatureOption) *Feature {
	f := &Feature{
		Name:       name,
		Type:       typ,
		Upper:      1,
		Ordered:    true,
		Unique:     true,
		Changeable: true,
		kind:       kind,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// NewAttribute declares a data-typed feature. typ is a *DataType or an
// *Enum.
func NewAttribute(name string, typ Classifier, opts ...FeatureOption) *Feature {
	return newFeature(attributeKind, name, typ, opts)
}

// NewReference declares a class-typed feature. typ may be nil while a
// metamodel is being assembled and set later through Type.
func NewReference(name string, typ *Class, opts ...FeatureOption) *Feature {
	var c Classifier
	if typ != nil {
		c = typ
	}
	return newFeature(referenceKind, name, c, opts)
}

func (f *Feature) MetaClass() *Class {
	if f.kind == referenceKind {
		return MetaReference
	}
	return MetaAttribute
}

// Deriver returns the function computing a derived feature, or nil.
func (f *Feature) Deriver() DeriveFunc { return f.derive }

// Owner returns the class declaring f.
func (f *Feature) Owner() *Class { return f.owner }

// IsReference reports whether f is a reference.
func (f *Feature) IsReference() bool { return f.kind == referenceKind }

// IsMany reports whether f holds more than one value.
func (f *Feature) IsMany() bool { return f.Upper == Unbounded || f.Upper > 1 }

// Opposite returns the paired reference or nil.
func (f *Feature) Opposite() *Feature { return f.opposite }

// ReferenceType returns the class f refers to, or nil for attributes.
func (f *Feature) ReferenceType() *Class {
	c, _ := f.Type.(*Class)
	return c
}

// IsContainer reports whether f is the back-pointer of a containment, that
// is its opposite is a containment.
func (f *Feature) IsContainer() bool {
	return f.opposite != nil && f.opposite.Containment
}

// DefaultValue returns the value a fresh single-valued slot holds.
func (f *Feature) DefaultValue() any {
	if f.Default != nil {
		return f.Default
	}
	if f.kind == referenceKind || f.Type == nil {
		return nil
	}
	return f.Type.DefaultValue()
}

// Accepts reports whether value conforms to the feature's declared type.
func (f *Feature) Accepts(value any) bool {
	if f.Type == nil {
		return false
	}
	return f.Type.Conforms(value)
}

// TypeName names the declared type for error messages.
func (f *Feature) TypeName() string {
	if f.Type == nil {
		return "<untyped>"
	}
	return f.Type.Name()
}

// QualifiedName returns "Class.feature".
func (f *Feature) QualifiedName() string {
	if f.owner == nil {
		return f.Name
	}
	return f.owner.name + "." + f.Name
}

func (f *Feature) String() string { return f.QualifiedName() }

// SetOpposite pairs two references. Each reference's type must be the other
// reference's owning class or one of its supertypes. Previous pairings of
// either side are dissolved.
func SetOpposite(a, b *Feature) error {
	mismatch := func(reason string) error {
		return &mgerr.TypeMismatchError{Feature: a.QualifiedName(), Opposite: b.QualifiedName(), Reason: reason}
	}
	if a == nil || b == nil {
		return &mgerr.TypeMismatchError{Reason: "both features are required"}
	}
	if !a.IsReference() || !b.IsReference() {
		return mismatch("only references can be opposites")
	}
	if a.owner == nil || b.owner == nil {
		return mismatch("both references must belong to a class")
	}
	at, bt := a.ReferenceType(), b.ReferenceType()
	if at == nil || bt == nil {
		return mismatch("both references must be typed")
	}
	if !b.owner.ConformsTo(at) {
		return mismatch(fmt.Sprintf("%s is typed %s, which %s does not conform to", a.QualifiedName(), at.name, b.owner.name))
	}
	if !a.owner.ConformsTo(bt) {
		return mismatch(fmt.Sprintf("%s is typed %s, which %s does not conform to", b.QualifiedName(), bt.name, a.owner.name))
	}
	if a == b && a.Containment {
		return mismatch("a containment cannot be its own opposite")
	}
	for _, f := range []*Feature{a, b} {
		if old := f.opposite; old != nil && old != a && old != b {
			old.opposite = nil
		}
	}
	a.opposite = b
	b.opposite = a
	return nil
}

// problems lists descriptor inconsistencies of f.
func (f *Feature) problems() []string {
	var out []string
	name := f.QualifiedName()
	if f.Type == nil {
		out = append(out, fmt.Sprintf("feature %s has no type", name))
	}
	if f.IsReference() {
		if f.Type != nil && f.ReferenceType() == nil {
			out = append(out, fmt.Sprintf("reference %s must be typed by a class, got %s", name, f.Type.Name()))
		}
	} else {
		if _, ok := f.Type.(*Class); ok {
			out = append(out, fmt.Sprintf("attribute %s cannot be typed by class %s", name, f.Type.Name()))
		}
		if f.Containment {
			out = append(out, fmt.Sprintf("attribute %s cannot be a containment", name))
		}
	}
	if f.Upper != Unbounded && (f.Upper < 1 || f.Upper < f.Lower) {
		out = append(out, fmt.Sprintf("feature %s has invalid bounds [%d..%d]", name, f.Lower, f.Upper))
	}
	if f.Lower < 0 {
		out = append(out, fmt.Sprintf("feature %s has negative lower bound", name))
	}
	if o := f.opposite; o != nil && o.opposite != f {
		out = append(out, fmt.Sprintf("opposite of %s is not symmetric", name))
	}
	if f.Default != nil && f.Type != nil && !f.Type.Conforms(f.Default) {
		out = append(out, fmt.Sprintf("default of %s does not conform to %s", name, f.Type.Name()))
	}
	return out
}
