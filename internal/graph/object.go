package graph

import (
	"fmt"
	"iter"
	"reflect"

	"github.com/google/uuid"
	"github.com/specialistvlad/metagraph/internal/meta"
)

// slot holds the value of one feature. Single-valued features use value,
// many-valued features use values.
type slot struct {
	set    bool
	value  any
	values []any
}

// inverseRef counts how often owner's feature holds the object carrying the
// entry.
type inverseRef struct {
	owner   *Object
	feature *meta.Feature
	count   int
}

// Object is an instance of a meta class. All mutation goes through the
// Engine that created it.
type Object struct {
	id     uuid.UUID
	seq    uint64
	class  *meta.Class
	engine *Engine

	slots map[*meta.Feature]*slot

	container         *Object
	containingFeature *meta.Feature
	inverse           []*inverseRef

	deleted bool
	proxy   *proxyState
}

func newObject(e *Engine, cls *meta.Class) *Object {
	return &Object{
		id:     uuid.New(),
		class:  cls,
		engine: e,
		slots:  make(map[*meta.Feature]*slot),
	}
}

// ID returns the object's identity.
func (o *Object) ID() uuid.UUID { return o.id }

// Class returns the object's meta class.
func (o *Object) Class() *meta.Class { return o.class }

// Engine returns the engine owning o.
func (o *Object) Engine() *Engine { return o.engine }

// Container returns the object containing o, or nil for roots.
func (o *Object) Container() *Object { return o.container }

// ContainingFeature returns the containment feature through which o is
// owned, or nil for roots.
func (o *Object) ContainingFeature() *meta.Feature { return o.containingFeature }

// Deleted reports whether o has been removed from its graph.
func (o *Object) Deleted() bool { return o.deleted }

// Root follows container links to the top of o's containment tree.
func (o *Object) Root() *Object {
	r := o
	for r.container != nil {
		r = r.container
	}
	return r
}

// IsAncestorOf reports whether o contains other, directly or transitively.
func (o *Object) IsAncestorOf(other *Object) bool {
	for c := other.container; c != nil; c = c.container {
		if c == o {
			return true
		}
	}
	return false
}

func (o *Object) String() string {
	if o.proxy != nil {
		return fmt.Sprintf("%s(proxy %s)", o.class.Name(), o.proxy.uri)
	}
	return fmt.Sprintf("%s(%s)", o.class.Name(), o.id)
}

// slotFor returns the slot of f, creating it on first use so that features
// added to the class after o was created are picked up.
func (o *Object) slotFor(f *meta.Feature) *slot {
	s, ok := o.slots[f]
	if !ok {
		s = &slot{}
		if !f.IsMany() {
			s.value = f.DefaultValue()
		}
		o.slots[f] = s
	}
	return s
}

// holds reports whether f currently holds v.
func (o *Object) holds(f *meta.Feature, v any) bool {
	return o.indexOf(f, v) >= 0
}

// indexOf returns the first position of v in f, 0 for a single-valued match
// and -1 when absent.
func (o *Object) indexOf(f *meta.Feature, v any) int {
	s, ok := o.slots[f]
	if !ok {
		return -1
	}
	if !f.IsMany() {
		if s.value != nil && sameValue(s.value, v) {
			return 0
		}
		return -1
	}
	for i, x := range s.values {
		if sameValue(x, v) {
			return i
		}
	}
	return -1
}

func (o *Object) count(f *meta.Feature) int {
	s, ok := o.slots[f]
	if !ok {
		return 0
	}
	if f.IsMany() {
		return len(s.values)
	}
	if s.value != nil {
		return 1
	}
	return 0
}

// sameValue compares objects by identity and data values by content.
func sameValue(a, b any) bool {
	ao, aok := a.(*Object)
	bo, bok := b.(*Object)
	if aok || bok {
		return aok && bok && ao == bo
	}
	return reflect.DeepEqual(a, b)
}

func (o *Object) addInverse(owner *Object, f *meta.Feature) {
	for _, r := range o.inverse {
		if r.owner == owner && r.feature == f {
			r.count++
			return
		}
	}
	o.inverse = append(o.inverse, &inverseRef{owner: owner, feature: f, count: 1})
}

func (o *Object) removeInverse(owner *Object, f *meta.Feature) {
	for i, r := range o.inverse {
		if r.owner == owner && r.feature == f {
			r.count--
			if r.count <= 0 {
				o.inverse = append(o.inverse[:i:i], o.inverse[i+1:]...)
			}
			return
		}
	}
}

// Referrers returns, in first-reference order, the objects whose features
// hold o, with the feature holding it.
func (o *Object) Referrers() []Referrer {
	out := make([]Referrer, 0, len(o.inverse))
	for _, r := range o.inverse {
		out = append(out, Referrer{Object: r.owner, Feature: r.feature})
	}
	return out
}

// Referrer is one incoming reference.
type Referrer struct {
	Object  *Object
	Feature *meta.Feature
}

// Contents returns the objects o contains directly, in feature declaration
// order.
func (o *Object) Contents() []*Object {
	var out []*Object
	for _, f := range o.class.AllReferences() {
		if !f.Containment || f.Derived {
			continue
		}
		s, ok := o.slots[f]
		if !ok {
			continue
		}
		if f.IsMany() {
			for _, v := range s.values {
				out = append(out, v.(*Object))
			}
		} else if c, ok := s.value.(*Object); ok && c != nil {
			out = append(out, c)
		}
	}
	return out
}

// AllContents yields every object o contains transitively, in pre-order:
// a container before its contents, siblings in feature declaration order.
// The sequence is lazy and can be ranged over any number of times.
func (o *Object) AllContents() iter.Seq[*Object] {
	return func(yield func(*Object) bool) {
		o.walk(yield)
	}
}

func (o *Object) walk(yield func(*Object) bool) bool {
	for _, c := range o.Contents() {
		if !yield(c) {
			return false
		}
		if !c.walk(yield) {
			return false
		}
	}
	return true
}

// feature resolves a feature name against o's class.
func (o *Object) feature(name string) (*meta.Feature, error) {
	return o.class.FindFeature(name)
}

// Get reads the feature named name. See Engine.Get.
func (o *Object) Get(name string) (any, error) {
	f, err := o.feature(name)
	if err != nil {
		return nil, err
	}
	return o.engine.Get(o, f)
}

// Values reads a many-valued feature by name. See Engine.Values.
func (o *Object) Values(name string) ([]any, error) {
	f, err := o.feature(name)
	if err != nil {
		return nil, err
	}
	return o.engine.Values(o, f)
}

// Set writes the feature named name. See Engine.Set.
func (o *Object) Set(name string, value any) error {
	f, err := o.feature(name)
	if err != nil {
		return err
	}
	return o.engine.Set(o, f, value)
}

// Unset restores the feature named name to its default. See Engine.Unset.
func (o *Object) Unset(name string) error {
	f, err := o.feature(name)
	if err != nil {
		return err
	}
	return o.engine.Unset(o, f)
}

// IsSet reports whether the feature named name holds a value.
func (o *Object) IsSet(name string) (bool, error) {
	f, err := o.feature(name)
	if err != nil {
		return false, err
	}
	return o.engine.IsSet(o, f)
}

// Add appends value to the many-valued feature named name.
func (o *Object) Add(name string, value any) error {
	f, err := o.feature(name)
	if err != nil {
		return err
	}
	return o.engine.Add(o, f, value)
}

// Remove removes the first occurrence of value from the feature named name.
func (o *Object) Remove(name string, value any) error {
	f, err := o.feature(name)
	if err != nil {
		return err
	}
	return o.engine.Remove(o, f, value)
}

// Invoke calls the operation named name. See Engine.Invoke.
func (o *Object) Invoke(name string, args ...any) (any, error) {
	return o.engine.Invoke(o, name, args...)
}
