package command

import (
	"fmt"

	"github.com/specialistvlad/metagraph/internal/graph"
	"github.com/specialistvlad/metagraph/internal/meta"
)

// Set writes a feature. On many-valued features Value is the new list.
type Set struct {
	base
	Object  *graph.Object
	Feature *meta.Feature
	Value   any
}

// NewSet creates a command setting o.f to value.
func NewSet(e *graph.Engine, o *graph.Object, f *meta.Feature, value any) *Set {
	c := &Set{Object: o, Feature: f, Value: value}
	c.base = base{
		engine: e,
		label:  fmt.Sprintf("set %s", f.Name),
		check:  func() error { return e.CheckSet(c.Object, c.Feature, c.Value) },
		apply:  func() error { return e.Set(c.Object, c.Feature, c.Value) },
	}
	return c
}

// Unset restores a feature to its unset state.
type Unset struct {
	base
	Object  *graph.Object
	Feature *meta.Feature
}

// NewUnset creates a command unsetting o.f.
func NewUnset(e *graph.Engine, o *graph.Object, f *meta.Feature) *Unset {
	c := &Unset{Object: o, Feature: f}
	c.base = base{
		engine: e,
		label:  fmt.Sprintf("unset %s", f.Name),
		check:  func() error { return e.CheckUnset(c.Object, c.Feature) },
		apply:  func() error { return e.Unset(c.Object, c.Feature) },
	}
	return c
}

// Add inserts a value into a many-valued feature at Index, or appends when
// Index is graph.End.
type Add struct {
	base
	Object  *graph.Object
	Feature *meta.Feature
	Value   any
	Index   int
}

// NewAdd creates a command appending value to o.f.
func NewAdd(e *graph.Engine, o *graph.Object, f *meta.Feature, value any) *Add {
	return NewInsert(e, o, f, graph.End, value)
}

// NewInsert creates a command inserting value at index of o.f.
func NewInsert(e *graph.Engine, o *graph.Object, f *meta.Feature, index int, value any) *Add {
	c := &Add{Object: o, Feature: f, Value: value, Index: index}
	c.base = base{
		engine: e,
		label:  fmt.Sprintf("add to %s", f.Name),
		check:  func() error { return e.CheckInsert(c.Object, c.Feature, c.Index, c.Value) },
		apply:  func() error { return e.Insert(c.Object, c.Feature, c.Index, c.Value) },
	}
	return c
}

// Remove takes a value out of a feature, either the first occurrence of
// Value or the value at Index.
type Remove struct {
	base
	Object  *graph.Object
	Feature *meta.Feature
	Value   any
	Index   int
	byIndex bool
}

// NewRemove creates a command removing the first occurrence of value.
func NewRemove(e *graph.Engine, o *graph.Object, f *meta.Feature, value any) *Remove {
	c := &Remove{Object: o, Feature: f, Value: value, Index: graph.End}
	c.init(e)
	return c
}

// NewRemoveAt creates a command removing the value at index.
func NewRemoveAt(e *graph.Engine, o *graph.Object, f *meta.Feature, index int) *Remove {
	c := &Remove{Object: o, Feature: f, Index: index, byIndex: true}
	c.init(e)
	return c
}

func (c *Remove) init(e *graph.Engine) {
	c.base = base{
		engine: e,
		label:  fmt.Sprintf("remove from %s", c.Feature.Name),
		check: func() error {
			if c.byIndex {
				return e.CheckRemoveAt(c.Object, c.Feature, c.Index)
			}
			return e.CheckRemove(c.Object, c.Feature, c.Value)
		},
		apply: func() error {
			if c.byIndex {
				return e.RemoveAt(c.Object, c.Feature, c.Index)
			}
			return e.Remove(c.Object, c.Feature, c.Value)
		},
	}
}

// Move repositions a value within a many-valued feature.
type Move struct {
	base
	Object   *graph.Object
	Feature  *meta.Feature
	From, To int
}

// NewMove creates a command moving the value at from to to.
func NewMove(e *graph.Engine, o *graph.Object, f *meta.Feature, from, to int) *Move {
	c := &Move{Object: o, Feature: f, From: from, To: to}
	c.base = base{
		engine: e,
		label:  fmt.Sprintf("move in %s", f.Name),
		check:  func() error { return e.CheckMove(c.Object, c.Feature, c.From, c.To) },
		apply:  func() error { return e.Move(c.Object, c.Feature, c.From, c.To) },
	}
	return c
}

// Delete removes an object and everything it contains. Undo restores all of
// it, including the references the deletion cleared.
type Delete struct {
	base
	Object *graph.Object
}

// NewDelete creates a command deleting o.
func NewDelete(e *graph.Engine, o *graph.Object) *Delete {
	c := &Delete{Object: o}
	c.base = base{
		engine: e,
		label:  fmt.Sprintf("delete %s", o.Class().Name()),
		check:  func() error { return e.CheckDelete(c.Object) },
		apply:  func() error { return e.Delete(c.Object) },
	}
	return c
}
