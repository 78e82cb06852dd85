package meta

import (
	"fmt"

	"github.com/specialistvlad/metagraph/internal/mgerr"
)

// OperationFunc is the Go body of an operation. self is the graph object the
// operation is invoked on.
type OperationFunc func(self any, args []any) (any, error)

// Class describes the structure shared by a family of graph objects.
type Class struct {
	name     string
	pkg      *Package
	abstract bool
	iface    bool

	features []*Feature
	supers   []*Class
	ops      []*Operation
	impls    map[string]OperationFunc
}

// ClassOption configures a class at construction.
type ClassOption func(*Class)

// Abstract marks the class as not instantiable.
func Abstract() ClassOption { return func(c *Class) { c.abstract = true } }

// Interface marks the class as an interface (also not instantiable).
func Interface() ClassOption { return func(c *Class) { c.iface = true } }

// NewClass defines a class with no features and no superclasses.
func NewClass(name string, opts ...ClassOption) *Class {
	c := &Class{name: name}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Class) Name() string             { return c.name }
func (c *Class) Package() *Package        { return c.pkg }
func (c *Class) setPackage(p *Package)    { c.pkg = p }
func (c *Class) MetaClass() *Class        { return MetaClass }
func (c *Class) DefaultValue() any        { return nil }
func (c *Class) IsAbstract() bool         { return c.abstract }
func (c *Class) IsInterface() bool        { return c.iface }
func (c *Class) SetAbstract(v bool)       { c.abstract = v }
func (c *Class) String() string           { return c.name }
func (c *Class) Features() []*Feature     { return append([]*Feature(nil), c.features...) }
func (c *Class) Supertypes() []*Class     { return append([]*Class(nil), c.supers...) }
func (c *Class) Operations() []*Operation { return append([]*Operation(nil), c.ops...) }

// Conforms reports whether value is a graph object whose class is c or a
// subclass of c. nil conforms: it is the empty reference.
func (c *Class) Conforms(value any) bool {
	if value == nil {
		return true
	}
	inst, ok := value.(Instance)
	if !ok || inst.Class() == nil {
		return false
	}
	return inst.Class().ConformsTo(c)
}

// AddFeature appends f to the class's own features.
func (c *Class) AddFeature(f *Feature) error {
	if f.owner != nil {
		return fmt.Errorf("%w: %q already belongs to class %q", mgerr.ErrDuplicateFeature, f.Name, f.owner.name)
	}
	for _, own := range c.features {
		if own.Name == f.Name {
			return fmt.Errorf("%w: class %q already declares %q", mgerr.ErrDuplicateFeature, c.name, f.Name)
		}
	}
	f.owner = c
	c.features = append(c.features, f)
	return nil
}

// MustAddFeatures adds every feature and panics on failure.
func (c *Class) MustAddFeatures(fs ...*Feature) *Class {
	for _, f := range fs {
		if err := c.AddFeature(f); err != nil {
			panic(err)
		}
	}
	return c
}

// AddSuperclass appends super to the direct superclasses. It fails with a
// CycleError when c would become its own supertype.
func (c *Class) AddSuperclass(super *Class) error {
	if path := super.pathTo(c); path != nil {
		names := []string{c.name}
		for _, p := range path {
			names = append(names, p.name)
		}
		return &mgerr.CycleError{Kind: "supertype", Path: names}
	}
	for _, s := range c.supers {
		if s == super {
			return nil
		}
	}
	c.supers = append(c.supers, super)
	return nil
}

// pathTo returns the supertype chain from c up to target, both included, or
// nil when target is not reachable.
func (c *Class) pathTo(target *Class) []*Class {
	if c == target {
		return []*Class{c}
	}
	for _, s := range c.supers {
		if p := s.pathTo(target); p != nil {
			return append([]*Class{c}, p...)
		}
	}
	return nil
}

// linearization returns c followed by its supertypes in depth-first,
// left-to-right order, first occurrence kept.
func (c *Class) linearization() []*Class {
	seen := make(map[*Class]bool)
	var out []*Class
	var walk func(*Class)
	walk = func(k *Class) {
		if seen[k] {
			return
		}
		seen[k] = true
		out = append(out, k)
		for _, s := range k.supers {
			walk(s)
		}
	}
	walk(c)
	return out
}

// AllSupertypes returns the transitive supertypes of c in linearization
// order, c excluded.
func (c *Class) AllSupertypes() []*Class {
	return c.linearization()[1:]
}

// AllFeatures returns own and inherited features. On a name collision the
// feature of the class that comes first in the linearization wins.
func (c *Class) AllFeatures() []*Feature {
	seen := make(map[string]bool)
	var out []*Feature
	for _, k := range c.linearization() {
		for _, f := range k.features {
			if seen[f.Name] {
				continue
			}
			seen[f.Name] = true
			out = append(out, f)
		}
	}
	return out
}

// AllAttributes returns the attribute subset of AllFeatures.
func (c *Class) AllAttributes() []*Feature {
	var out []*Feature
	for _, f := range c.AllFeatures() {
		if !f.IsReference() {
			out = append(out, f)
		}
	}
	return out
}

// AllReferences returns the reference subset of AllFeatures.
func (c *Class) AllReferences() []*Feature {
	var out []*Feature
	for _, f := range c.AllFeatures() {
		if f.IsReference() {
			out = append(out, f)
		}
	}
	return out
}

// FindFeature resolves name against own and inherited features.
func (c *Class) FindFeature(name string) (*Feature, error) {
	for _, k := range c.linearization() {
		for _, f := range k.features {
			if f.Name == name {
				return f, nil
			}
		}
	}
	return nil, &mgerr.UnknownFeatureError{Class: c.name, Feature: name}
}

// HasFeature reports whether f is applicable to instances of c, that is f is
// the feature AllFeatures exposes under its name.
func (c *Class) HasFeature(f *Feature) bool {
	if f == nil {
		return false
	}
	found, err := c.FindFeature(f.Name)
	return err == nil && found == f
}

// ConformsTo reports whether c is other or one of its subclasses.
func (c *Class) ConformsTo(other *Class) bool {
	if other == nil {
		return false
	}
	for _, k := range c.linearization() {
		if k == other {
			return true
		}
	}
	return false
}

// IsSuperTypeOf reports whether other conforms to c.
func (c *Class) IsSuperTypeOf(other *Class) bool {
	return other != nil && other.ConformsTo(c)
}

// AddOperation appends op to the class's own operations.
func (c *Class) AddOperation(op *Operation) error {
	if op.owner != nil {
		return fmt.Errorf("operation %q already belongs to class %q", op.Name, op.owner.name)
	}
	for _, own := range c.ops {
		if own.Name == op.Name {
			return fmt.Errorf("class %q already declares operation %q", c.name, op.Name)
		}
	}
	op.owner = c
	c.ops = append(c.ops, op)
	return nil
}

// AllOperations returns own and inherited operations, overrides first.
func (c *Class) AllOperations() []*Operation {
	seen := make(map[string]bool)
	var out []*Operation
	for _, k := range c.linearization() {
		for _, op := range k.ops {
			if seen[op.Name] {
				continue
			}
			seen[op.Name] = true
			out = append(out, op)
		}
	}
	return out
}

// FindOperation resolves an operation by name.
func (c *Class) FindOperation(name string) (*Operation, bool) {
	for _, op := range c.AllOperations() {
		if op.Name == name {
			return op, true
		}
	}
	return nil, false
}

// Implement registers the Go body of the operation named name. The
// operation must be declared on c or inherited by it.
func (c *Class) Implement(name string, fn OperationFunc) error {
	if _, ok := c.FindOperation(name); !ok {
		return fmt.Errorf("class %q has no operation %q", c.name, name)
	}
	if c.impls == nil {
		c.impls = make(map[string]OperationFunc)
	}
	c.impls[name] = fn
	return nil
}

// Implementation returns the body registered for name, looking up the
// linearization so subclasses inherit and may override bodies.
func (c *Class) Implementation(name string) (OperationFunc, bool) {
	for _, k := range c.linearization() {
		if fn, ok := k.impls[name]; ok {
			return fn, true
		}
	}
	return nil, false
}
