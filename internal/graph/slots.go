package graph

import (
	"slices"

	"github.com/specialistvlad/metagraph/internal/meta"
	"github.com/specialistvlad/metagraph/internal/notify"
)

// The raw primitives below are the only code that writes slots. They keep
// container links and the inverse-reference index in step with slot
// contents, journal the change and queue its notification. They never
// validate and never mirror opposites.

func (e *Engine) rawInsert(o *Object, f *meta.Feature, pos int, v any) {
	s := o.slotFor(f)
	s.values = slices.Insert(s.values, pos, v)
	s.set = true
	e.linkValue(o, f, v)
	e.record(change{kind: changeInsert, obj: o, feature: f, index: pos, newValue: v})
	e.emit(o, f, notify.Add, nil, v, pos)
}

func (e *Engine) rawRemoveAt(o *Object, f *meta.Feature, pos int) any {
	s := o.slotFor(f)
	v := s.values[pos]
	s.values = slices.Delete(s.values, pos, pos+1)
	s.set = len(s.values) > 0
	e.unlinkValue(o, f, v)
	e.record(change{kind: changeRemove, obj: o, feature: f, index: pos, oldValue: v})
	e.emit(o, f, notify.Remove, v, nil, pos)
	return v
}

func (e *Engine) rawSet(o *Object, f *meta.Feature, v any, isSet bool, kind notify.Kind) {
	s := o.slotFor(f)
	old, oldSet := s.value, s.set
	s.value, s.set = v, isSet
	if old != nil {
		e.unlinkValue(o, f, old)
	}
	if v != nil {
		e.linkValue(o, f, v)
	}
	e.record(change{kind: changeSet, obj: o, feature: f, oldValue: old, newValue: v, oldSet: oldSet, newSet: isSet, notified: kind})
	e.emit(o, f, kind, old, v, notify.NoPosition)
}

func (e *Engine) rawMove(o *Object, f *meta.Feature, from, to int) {
	s := o.slotFor(f)
	v := s.values[from]
	s.values = slices.Delete(s.values, from, from+1)
	s.values = slices.Insert(s.values, to, v)
	e.record(change{kind: changeMove, obj: o, feature: f, index: from, to: to, newValue: v})
	e.emit(o, f, notify.Move, from, v, to)
}

// linkValue records that o's feature f now holds v.
func (e *Engine) linkValue(o *Object, f *meta.Feature, v any) {
	t, ok := v.(*Object)
	if !ok || t == nil || !f.IsReference() {
		return
	}
	t.addInverse(o, f)
	if f.Containment {
		t.container, t.containingFeature = o, f
	}
}

// unlinkValue records that o's feature f gave up one occurrence of v. It
// runs after the slot has been written.
func (e *Engine) unlinkValue(o *Object, f *meta.Feature, v any) {
	t, ok := v.(*Object)
	if !ok || t == nil || !f.IsReference() {
		return
	}
	t.removeInverse(o, f)
	if f.Containment && t.container == o && t.containingFeature == f && !o.holds(f, t) {
		t.container, t.containingFeature = nil, nil
	}
}

// substitute replaces a resolved proxy in place. It is not a change of the
// graph's logical content, so it is neither journaled nor notified.
func (e *Engine) substitute(o *Object, f *meta.Feature, pos int, proxy, target *Object) {
	s := o.slotFor(f)
	if f.IsMany() {
		s.values[pos] = target
	} else {
		s.value = target
	}
	proxy.removeInverse(o, f)
	target.addInverse(o, f)
}
