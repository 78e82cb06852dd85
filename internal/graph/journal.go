package graph

import (
	"fmt"
	"slices"

	"github.com/specialistvlad/metagraph/internal/meta"
	"github.com/specialistvlad/metagraph/internal/mgerr"
	"github.com/specialistvlad/metagraph/internal/notify"
)

type changeKind int

const (
	changeInsert changeKind = iota
	changeRemove
	changeSet
	changeMove
	changeDelete
)

// change is one raw slot write, with enough state to apply it in either
// direction. Each change also names what the slot must hold before it is
// applied: the removed value for removes, the moved value for moves and the
// old value and set flag for sets.
type change struct {
	kind     changeKind
	obj      *Object
	feature  *meta.Feature
	index    int
	to       int
	oldValue any
	newValue any
	oldSet   bool
	newSet   bool
	notified notify.Kind
}

// Journal is the ordered list of raw changes made while it was recording.
// It includes every cascade: opposite mirroring, container detachment and
// deletion.
type Journal struct {
	changes []change
}

// Len returns the number of recorded raw changes.
func (j *Journal) Len() int {
	if j == nil {
		return 0
	}
	return len(j.changes)
}

// Record runs fn while journaling every raw change it causes. Recordings
// nest: changes made inside an inner Record are also part of the outer one.
// The journal is returned even when fn fails, since an observer error does
// not roll the mutation back.
func (e *Engine) Record(fn func() error) (*Journal, error) {
	j := &Journal{}
	e.journals = append(e.journals, j)
	err := fn()
	e.journals = e.journals[:len(e.journals)-1]
	if n := len(e.journals); n > 0 {
		parent := e.journals[n-1]
		parent.changes = append(parent.changes, j.changes...)
	}
	return j, err
}

func (e *Engine) record(c change) {
	if n := len(e.journals); n > 0 {
		e.journals[n-1].changes = append(e.journals[n-1].changes, c)
	}
}

// Join concatenates journals into one, in argument order. Nil journals are
// skipped.
func Join(js ...*Journal) *Journal {
	out := &Journal{}
	for _, j := range js {
		if j != nil {
			out.changes = append(out.changes, j.changes...)
		}
	}
	return out
}

// CanRevert reports whether every slot j touched still holds what j left in
// it. A nil result guarantees that Revert restores the state j started from.
func (j *Journal) CanRevert() error {
	if j == nil {
		return nil
	}
	return checkChanges(j.inverse())
}

// CanReplay reports whether every slot j touched holds what it held before
// j was recorded.
func (j *Journal) CanReplay() error {
	if j == nil {
		return nil
	}
	return checkChanges(j.changes)
}

func (j *Journal) inverse() []change {
	out := make([]change, 0, len(j.changes))
	for i := len(j.changes) - 1; i >= 0; i-- {
		out = append(out, j.changes[i].inverse())
	}
	return out
}

// Revert undoes j, newest change first. It fails with a ConflictError,
// leaving the graph untouched, when the graph is no longer in the state j
// left it in.
func (e *Engine) Revert(j *Journal) error {
	if err := j.CanRevert(); err != nil {
		return err
	}
	for _, c := range j.inverse() {
		e.applyChange(c)
	}
	e.logger.Debug("Journal reverted.", "changes", len(j.changes))
	return e.flush()
}

// Replay re-applies j, oldest change first. It fails with a ConflictError,
// leaving the graph untouched, when the graph is not in the state j started
// from.
func (e *Engine) Replay(j *Journal) error {
	if err := j.CanReplay(); err != nil {
		return err
	}
	for _, c := range j.changes {
		e.applyChange(c)
	}
	e.logger.Debug("Journal replayed.", "changes", len(j.changes))
	return e.flush()
}

func (c change) inverse() change {
	inv := c
	switch c.kind {
	case changeInsert:
		inv.kind = changeRemove
		inv.oldValue, inv.newValue = c.newValue, nil
	case changeRemove:
		inv.kind = changeInsert
		inv.oldValue, inv.newValue = nil, c.oldValue
	case changeSet:
		inv.oldValue, inv.newValue = c.newValue, c.oldValue
		inv.oldSet, inv.newSet = c.newSet, c.oldSet
		inv.notified = notify.Set
		if !inv.newSet {
			inv.notified = notify.Unset
		}
	case changeMove:
		inv.index, inv.to = c.to, c.index
	case changeDelete:
		inv.newSet = !c.newSet
	}
	return inv
}

func (e *Engine) applyChange(c change) {
	switch c.kind {
	case changeInsert:
		e.rawInsert(c.obj, c.feature, c.index, c.newValue)
	case changeRemove:
		e.rawRemoveAt(c.obj, c.feature, c.index)
	case changeSet:
		e.rawSet(c.obj, c.feature, c.newValue, c.newSet, c.notified)
	case changeMove:
		e.rawMove(c.obj, c.feature, c.index, c.to)
	case changeDelete:
		// newSet carries the deleted flag.
		e.setDeleted(c.obj, c.newSet)
	}
}

// setDeleted removes o from, or restores it to, the registry.
func (e *Engine) setDeleted(o *Object, deleted bool) {
	o.deleted = deleted
	if deleted {
		delete(e.objects, o.id)
	} else {
		e.objects[o.id] = o
	}
	e.record(change{kind: changeDelete, obj: o, newSet: deleted})
}

type slotKey struct {
	obj     *Object
	feature *meta.Feature
}

// shadow is a copy-on-read view of the slots a change list touches. Changes
// are checked and applied to it without writing the live graph.
type shadow struct {
	slots   map[slotKey]*slot
	deleted map[*Object]bool
}

func checkChanges(changes []change) error {
	sh := &shadow{slots: make(map[slotKey]*slot), deleted: make(map[*Object]bool)}
	for _, c := range changes {
		if err := sh.apply(c); err != nil {
			return err
		}
	}
	return nil
}

func (sh *shadow) slot(o *Object, f *meta.Feature) *slot {
	k := slotKey{o, f}
	if s, ok := sh.slots[k]; ok {
		return s
	}
	s := &slot{}
	if live, ok := o.slots[f]; ok {
		s.set, s.value, s.values = live.set, live.value, slices.Clone(live.values)
	} else if !f.IsMany() {
		s.value = f.DefaultValue()
	}
	sh.slots[k] = s
	return s
}

func (sh *shadow) isDeleted(o *Object) bool {
	if d, ok := sh.deleted[o]; ok {
		return d
	}
	return o.deleted
}

func (sh *shadow) apply(c change) error {
	if c.kind == changeDelete {
		if sh.isDeleted(c.obj) == c.newSet {
			return conflict(c, fmt.Sprintf("deleted is already %t", c.newSet))
		}
		sh.deleted[c.obj] = c.newSet
		return nil
	}

	s := sh.slot(c.obj, c.feature)
	switch c.kind {
	case changeInsert:
		if c.index < 0 || c.index > len(s.values) {
			return conflict(c, fmt.Sprintf("position %d is out of range for %d values", c.index, len(s.values)))
		}
		s.values = slices.Insert(s.values, c.index, c.newValue)
	case changeRemove:
		if err := expectAt(c, s.values, c.index, c.oldValue); err != nil {
			return err
		}
		s.values = slices.Delete(s.values, c.index, c.index+1)
	case changeSet:
		if !holdsRecorded(s.value, c.oldValue) || s.set != c.oldSet {
			return conflict(c, fmt.Sprintf("expected %v, found %v", c.oldValue, s.value))
		}
		s.value, s.set = c.newValue, c.newSet
	case changeMove:
		if err := expectAt(c, s.values, c.index, c.newValue); err != nil {
			return err
		}
		if c.to < 0 || c.to >= len(s.values) {
			return conflict(c, fmt.Sprintf("position %d is out of range for %d values", c.to, len(s.values)))
		}
		v := s.values[c.index]
		s.values = slices.Delete(s.values, c.index, c.index+1)
		s.values = slices.Insert(s.values, c.to, v)
	}
	return nil
}

func expectAt(c change, values []any, pos int, want any) error {
	if pos < 0 || pos >= len(values) {
		return conflict(c, fmt.Sprintf("position %d is out of range for %d values", pos, len(values)))
	}
	if !holdsRecorded(values[pos], want) {
		return conflict(c, fmt.Sprintf("expected %v at position %d, found %v", want, pos, values[pos]))
	}
	return nil
}

// holdsRecorded compares a live slot value with a journaled one. A proxy
// that was resolved and substituted after recording matches its target.
func holdsRecorded(live, recorded any) bool {
	if sameValue(live, recorded) {
		return true
	}
	p, ok := recorded.(*Object)
	if !ok || p == nil || p.proxy == nil || p.proxy.target == nil {
		return false
	}
	t, ok := live.(*Object)
	return ok && t == p.proxy.target
}

func conflict(c change, reason string) error {
	err := &mgerr.ConflictError{Object: c.obj.String(), Reason: reason}
	if c.feature != nil {
		err.Feature = c.feature.Name
	}
	return err
}
