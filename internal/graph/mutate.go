package graph

import (
	"fmt"
	"reflect"

	"github.com/specialistvlad/metagraph/internal/meta"
	"github.com/specialistvlad/metagraph/internal/mgerr"
	"github.com/specialistvlad/metagraph/internal/notify"
)

// End is the position Insert treats as "after the last value".
const End = -1

// Get reads f on o. Many-valued features yield a []any snapshot, derived
// features are computed, and proxies met on the way are resolved and
// substituted in place.
func (e *Engine) Get(o *Object, f *meta.Feature) (any, error) {
	o, err := e.target(o)
	if err != nil {
		return nil, err
	}
	if err := checkFeature(o, f); err != nil {
		return nil, err
	}
	if f.Derived {
		return e.derive(o, f)
	}
	if f.IsMany() {
		return e.values(o, f)
	}
	s := o.slotFor(f)
	if p, ok := s.value.(*Object); ok && p != nil && p.proxy != nil {
		t, err := e.Resolve(p)
		if err != nil {
			return nil, err
		}
		e.substitute(o, f, 0, p, t)
		return t, nil
	}
	return s.value, nil
}

// Values reads f as a list: the values of a many-valued feature, or zero or
// one value for a single-valued one.
func (e *Engine) Values(o *Object, f *meta.Feature) ([]any, error) {
	v, err := e.Get(o, f)
	if err != nil {
		return nil, err
	}
	if f.IsMany() {
		if vs, ok := v.([]any); ok {
			return vs, nil
		}
		return toList(v)
	}
	if v == nil {
		return nil, nil
	}
	return []any{v}, nil
}

func (e *Engine) values(o *Object, f *meta.Feature) ([]any, error) {
	s := o.slotFor(f)
	for i, v := range s.values {
		if p, ok := v.(*Object); ok && p.proxy != nil {
			t, err := e.Resolve(p)
			if err != nil {
				return nil, err
			}
			e.substitute(o, f, i, p, t)
		}
	}
	return append([]any{}, s.values...), nil
}

func (e *Engine) derive(o *Object, f *meta.Feature) (any, error) {
	fn := f.Deriver()
	if fn == nil {
		if f.IsMany() {
			return []any{}, nil
		}
		return f.DefaultValue(), nil
	}
	v, err := fn(o)
	if err != nil {
		return nil, fmt.Errorf("deriving %s: %w", f.QualifiedName(), err)
	}
	return v, nil
}

// IsSet reports whether f holds a value: a non-empty list for many-valued
// features, an explicit value for single-valued ones.
func (e *Engine) IsSet(o *Object, f *meta.Feature) (bool, error) {
	o, err := e.target(o)
	if err != nil {
		return false, err
	}
	if err := checkFeature(o, f); err != nil {
		return false, err
	}
	if f.Derived {
		return false, nil
	}
	if f.IsMany() {
		return o.count(f) > 0, nil
	}
	s := o.slotFor(f)
	if f.IsReference() {
		return s.value != nil, nil
	}
	return s.set, nil
}

// Set writes a single-valued feature, or replaces the whole content of a
// many-valued one when value is a slice.
func (e *Engine) Set(o *Object, f *meta.Feature, value any) error {
	o, vs, err := e.validateSet(o, f, value)
	if err != nil {
		return err
	}
	if f.IsMany() {
		e.clear(o, f)
		e.beginBatch(o, f, notify.AddMany)
		for _, v := range vs {
			e.insertValue(o, f, o.count(f), v)
		}
		e.endBatch()
		return e.flush()
	}
	e.setSingle(o, f, vs[0], notify.Set)
	return e.flush()
}

// Unset restores f to its unset state: the declared default for
// single-valued attributes, nil for references, empty for many-valued
// features.
func (e *Engine) Unset(o *Object, f *meta.Feature) error {
	o, err := e.writable(o, f)
	if err != nil {
		return err
	}
	if f.IsMany() {
		e.clear(o, f)
	} else {
		e.clearSingle(o, f, notify.Unset)
	}
	return e.flush()
}

// Clear empties a many-valued feature with a single RemoveMany
// notification. On single-valued features it behaves like Unset.
func (e *Engine) Clear(o *Object, f *meta.Feature) error {
	return e.Unset(o, f)
}

// Add appends value to a many-valued feature.
func (e *Engine) Add(o *Object, f *meta.Feature, value any) error {
	return e.Insert(o, f, End, value)
}

// Insert places value at pos (End appends) in a many-valued feature.
func (e *Engine) Insert(o *Object, f *meta.Feature, pos int, value any) error {
	o, v, pos, err := e.validateInsert(o, f, pos, value)
	if err != nil {
		return err
	}
	e.insertValue(o, f, pos, v)
	return e.flush()
}

// AddAll appends every value with a single AddMany notification for o.
func (e *Engine) AddAll(o *Object, f *meta.Feature, values any) error {
	o, vs, err := e.validateAddAll(o, f, values)
	if err != nil {
		return err
	}
	e.beginBatch(o, f, notify.AddMany)
	for _, v := range vs {
		e.insertValue(o, f, o.count(f), v)
	}
	e.endBatch()
	return e.flush()
}

// Remove removes the first occurrence of value. Removing a value that is not
// held is a no-op.
func (e *Engine) Remove(o *Object, f *meta.Feature, value any) error {
	o, err := e.writable(o, f)
	if err != nil {
		return err
	}
	i := o.indexOf(f, value)
	if i < 0 {
		return nil
	}
	if f.IsMany() {
		e.removeAt(o, f, i)
	} else {
		e.clearSingle(o, f, notify.Set)
	}
	return e.flush()
}

// RemoveAt removes the value at pos of a many-valued feature.
func (e *Engine) RemoveAt(o *Object, f *meta.Feature, pos int) error {
	o, err := e.validateRemoveAt(o, f, pos)
	if err != nil {
		return err
	}
	e.removeAt(o, f, pos)
	return e.flush()
}

// Move repositions the value at from to to within a many-valued feature.
func (e *Engine) Move(o *Object, f *meta.Feature, from, to int) error {
	o, err := e.validateMove(o, f, from, to)
	if err != nil {
		return err
	}
	if from == to {
		return nil
	}
	e.rawMove(o, f, from, to)
	return e.flush()
}

// target returns the object reads and writes of o apply to: o itself, or
// the object behind a proxy.
func (e *Engine) target(o *Object) (*Object, error) {
	if o == nil {
		return nil, fmt.Errorf("%w: nil object", mgerr.ErrType)
	}
	if o.proxy != nil {
		return e.Resolve(o)
	}
	return o, nil
}

func (e *Engine) writable(o *Object, f *meta.Feature) (*Object, error) {
	o, err := e.target(o)
	if err != nil {
		return nil, err
	}
	if err := checkFeature(o, f); err != nil {
		return nil, err
	}
	if o.deleted {
		return nil, &mgerr.DeletedError{Object: o.String()}
	}
	if !f.Changeable || f.Derived {
		return nil, &mgerr.ReadOnlyError{Feature: f.QualifiedName()}
	}
	return o, nil
}

func checkFeature(o *Object, f *meta.Feature) error {
	if f == nil {
		return &mgerr.UnknownFeatureError{Class: o.class.Name(), Feature: "<nil>"}
	}
	if !o.class.HasFeature(f) {
		return &mgerr.UnknownFeatureError{Class: o.class.Name(), Feature: f.Name}
	}
	return nil
}

func checkMany(f *meta.Feature) error {
	if !f.IsMany() {
		return &mgerr.ArityError{Feature: f.QualifiedName(), Lower: f.Lower, Upper: f.Upper, Got: 2}
	}
	return nil
}

// isUnique reports whether f rejects duplicates. Containments always do: an
// object has one container and sits in it once.
func isUnique(f *meta.Feature) bool {
	return f.Unique || f.Containment
}

// normalize validates one value for f and returns the value to store.
// Proxies written to containment or opposite features are resolved first.
func (e *Engine) normalize(o *Object, f *meta.Feature, value any) (any, error) {
	if t, ok := value.(*Object); ok && t == nil {
		value = nil
	}
	if !f.IsReference() {
		if !f.Accepts(value) {
			return nil, &mgerr.TypeError{Feature: f.QualifiedName(), Value: value, Expected: f.TypeName()}
		}
		return value, nil
	}
	if value == nil {
		return nil, nil
	}
	t, ok := value.(*Object)
	if !ok || t.engine != e {
		return nil, &mgerr.TypeError{Feature: f.QualifiedName(), Value: value, Expected: f.TypeName()}
	}
	if t.deleted {
		return nil, &mgerr.DeletedError{Object: t.String()}
	}
	if t.proxy != nil && (f.Containment || f.Opposite() != nil) {
		r, err := e.Resolve(t)
		if err != nil {
			return nil, err
		}
		t = r
	}
	if !f.Accepts(t) {
		return nil, &mgerr.TypeError{Feature: f.QualifiedName(), Value: t, Expected: f.TypeName()}
	}
	return t, nil
}

// checkValues validates a list of values for f as a whole.
func (e *Engine) checkValues(o *Object, f *meta.Feature, value any) ([]any, error) {
	raw, err := toList(value)
	if err != nil {
		return nil, &mgerr.TypeError{Feature: f.QualifiedName(), Value: value, Expected: "a list of " + f.TypeName()}
	}
	if f.Upper != meta.Unbounded && len(raw) > f.Upper {
		return nil, &mgerr.ArityError{Feature: f.QualifiedName(), Lower: f.Lower, Upper: f.Upper, Got: len(raw)}
	}
	out := make([]any, 0, len(raw))
	for _, r := range raw {
		v, err := e.normalize(o, f, r)
		if err != nil {
			return nil, err
		}
		if v == nil {
			return nil, &mgerr.TypeError{Feature: f.QualifiedName(), Value: nil, Expected: f.TypeName()}
		}
		if isUnique(f) {
			for _, prev := range out {
				if sameValue(prev, v) {
					return nil, &mgerr.UniquenessError{Feature: f.QualifiedName(), Value: v}
				}
			}
		}
		if t, ok := v.(*Object); ok {
			if err := e.checkLink(o, f, t); err != nil {
				return nil, err
			}
		}
		out = append(out, v)
	}
	return out, nil
}

// toList turns any slice into []any.
func toList(value any) ([]any, error) {
	if value == nil {
		return nil, nil
	}
	if vs, ok := value.([]any); ok {
		return append([]any(nil), vs...), nil
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, fmt.Errorf("%T is not a list", value)
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, nil
}

// checkLink validates linking o.f to t: containment cycles on both sides of
// the pair and the bounds of the opposite feature.
func (e *Engine) checkLink(o *Object, f *meta.Feature, t *Object) error {
	if f.Containment && (t == o || t.IsAncestorOf(o)) {
		return &mgerr.ContainmentCycleError{Feature: f.QualifiedName(), Container: o.String(), Value: t.String()}
	}
	g := f.Opposite()
	if g == nil {
		return nil
	}
	if g.Containment && (o == t || o.IsAncestorOf(t)) {
		return &mgerr.ContainmentCycleError{Feature: g.QualifiedName(), Container: t.String(), Value: o.String()}
	}
	if g.IsMany() && g.Upper != meta.Unbounded && !t.holds(g, o) && t.count(g)+1 > g.Upper {
		return &mgerr.ArityError{Feature: g.QualifiedName(), Lower: g.Lower, Upper: g.Upper, Got: t.count(g) + 1}
	}
	return nil
}

// insertValue applies a validated insertion into a many-valued feature.
func (e *Engine) insertValue(o *Object, f *meta.Feature, pos int, v any) {
	t, ok := v.(*Object)
	if !ok || !f.IsReference() {
		e.rawInsert(o, f, pos, v)
		return
	}
	e.prepareLink(o, f, t)
	if n := o.count(f); pos > n {
		pos = n
	}
	e.rawInsert(o, f, pos, t)
	e.mirrorAdd(o, f, t)
}

// setSingle applies a validated write of a single-valued feature with one
// notification on o.
func (e *Engine) setSingle(o *Object, f *meta.Feature, v any, kind notify.Kind) {
	if !f.IsReference() {
		e.rawSet(o, f, v, true, kind)
		return
	}
	t, _ := v.(*Object)
	old, _ := o.slotFor(f).value.(*Object)
	if old == t {
		e.rawSet(o, f, v, t != nil, kind)
		return
	}
	if old != nil {
		e.removeMirrorOf(o, f, old)
	}
	if t == nil {
		e.rawSet(o, f, nil, false, kind)
		return
	}
	e.prepareLink(o, f, t)
	e.rawSet(o, f, t, true, kind)
	e.mirrorAdd(o, f, t)
}

// prepareLink displaces whatever linking o.f to t would contradict: t's old
// container, o's old container when t is about to contain o, and the value
// t's single-valued opposite holds now.
func (e *Engine) prepareLink(o *Object, f *meta.Feature, t *Object) {
	g := f.Opposite()
	if f.Containment && t.container != nil && (t.container != o || t.containingFeature != f) {
		e.detach(t)
	}
	if g != nil && g.Containment && o.container != nil && (o.container != t || o.containingFeature != g) {
		e.detach(o)
	}
	if g != nil && !g.IsMany() {
		if w, ok := t.slotFor(g).value.(*Object); ok && w != nil && w != o {
			e.clearSingle(t, g, notify.Set)
		}
	}
}

// mirrorAdd makes t's opposite feature hold o.
func (e *Engine) mirrorAdd(o *Object, f *meta.Feature, t *Object) {
	g := f.Opposite()
	if g == nil || t.holds(g, o) {
		return
	}
	if g.IsMany() {
		e.rawInsert(t, g, t.count(g), o)
	} else {
		e.rawSet(t, g, o, true, notify.Set)
	}
}

// mirrorRemove drops o from t's opposite feature once o.f no longer holds t.
func (e *Engine) mirrorRemove(o *Object, f *meta.Feature, t *Object) {
	if f.Opposite() == nil || o.holds(f, t) {
		return
	}
	e.removeMirrorOf(o, f, t)
}

func (e *Engine) removeMirrorOf(o *Object, f *meta.Feature, t *Object) {
	g := f.Opposite()
	if g == nil {
		return
	}
	if g.IsMany() {
		if i := t.indexOf(g, o); i >= 0 {
			e.rawRemoveAt(t, g, i)
		}
		return
	}
	if cur, ok := t.slotFor(g).value.(*Object); ok && cur == o {
		e.rawSet(t, g, nil, false, notify.Set)
	}
}

// detach removes t from its container.
func (e *Engine) detach(t *Object) {
	c, cf := t.container, t.containingFeature
	if c == nil {
		return
	}
	if cf.IsMany() {
		if i := c.indexOf(cf, t); i >= 0 {
			e.removeAt(c, cf, i)
		}
		return
	}
	e.clearSingle(c, cf, notify.Set)
}

func (e *Engine) removeAt(o *Object, f *meta.Feature, pos int) {
	v := e.rawRemoveAt(o, f, pos)
	if t, ok := v.(*Object); ok && f.IsReference() {
		e.mirrorRemove(o, f, t)
	}
}

func (e *Engine) clearSingle(o *Object, f *meta.Feature, kind notify.Kind) {
	if !f.IsReference() {
		e.rawSet(o, f, f.DefaultValue(), false, kind)
		return
	}
	old, _ := o.slotFor(f).value.(*Object)
	e.rawSet(o, f, nil, false, kind)
	if old != nil {
		e.mirrorRemove(o, f, old)
	}
}

func (e *Engine) clear(o *Object, f *meta.Feature) {
	e.beginBatch(o, f, notify.RemoveMany)
	for o.count(f) > 0 {
		e.removeAt(o, f, 0)
	}
	e.endBatch()
}
