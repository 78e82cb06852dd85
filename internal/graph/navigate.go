package graph

import (
	"fmt"

	"github.com/specialistvlad/metagraph/internal/fragment"
	"github.com/specialistvlad/metagraph/internal/meta"
	"github.com/specialistvlad/metagraph/internal/mgerr"
)

// Path returns o's position relative to its root.
func (o *Object) Path() *fragment.Path {
	var segs []fragment.Segment
	for n := o; n.container != nil; n = n.container {
		cf := n.containingFeature
		seg := fragment.FeatureSegment(cf.Name)
		if cf.IsMany() {
			seg = fragment.IndexedSegment(cf.Name, n.container.indexOf(cf, n))
		}
		segs = append(segs, seg)
	}
	p := &fragment.Path{}
	for i := len(segs) - 1; i >= 0; i-- {
		p = p.Append(segs[i])
	}
	return p
}

// URIFragment renders Path, e.g. "/@chapters.0/@sections.2".
func (o *Object) URIFragment() string {
	return o.Path().String()
}

// IDOf returns the textual value of o's ID attribute, if its class has one
// and it is set.
func (o *Object) IDOf() (string, bool) {
	for _, f := range o.class.AllAttributes() {
		if !f.ID || f.IsMany() {
			continue
		}
		s, ok := o.slots[f]
		if !ok || !s.set || s.value == nil {
			return "", false
		}
		if dc, ok := f.Type.(meta.DataClassifier); ok {
			str, err := dc.ToString(s.value)
			if err != nil {
				return "", false
			}
			return str, true
		}
		return fmt.Sprint(s.value), true
	}
	return "", false
}

// FindByID searches root and its contents, in pre-order, for the object
// whose ID attribute renders as id.
func (e *Engine) FindByID(root *Object, id string) (*Object, bool) {
	if got, ok := root.IDOf(); ok && got == id {
		return root, true
	}
	for o := range root.AllContents() {
		if got, ok := o.IDOf(); ok && got == id {
			return o, true
		}
	}
	return nil, false
}

// Navigate follows fragment from root and returns the object it addresses.
func (e *Engine) Navigate(root *Object, frag string) (*Object, error) {
	p, err := fragment.Parse(frag)
	if err != nil {
		return nil, err
	}
	cur, err := e.target(root)
	if err != nil {
		return nil, err
	}
	for _, seg := range p.Segments {
		cur, err = e.step(cur, seg)
		if err != nil {
			return nil, fmt.Errorf("navigating %q: %w", frag, err)
		}
	}
	return cur, nil
}

func (e *Engine) step(cur *Object, seg fragment.Segment) (*Object, error) {
	if seg.IsID() {
		for _, c := range cur.Contents() {
			if got, ok := c.IDOf(); ok && got == seg.ID {
				return c, nil
			}
		}
		return nil, fmt.Errorf("%s contains no object with id %q", cur, seg.ID)
	}

	f, err := cur.class.FindFeature(seg.Feature)
	if err != nil {
		return nil, err
	}
	if !f.IsReference() {
		return nil, fmt.Errorf("%w: %s is not a reference", mgerr.ErrType, f.QualifiedName())
	}
	vs, err := e.Values(cur, f)
	if err != nil {
		return nil, err
	}
	idx := 0
	if seg.HasIndex() {
		idx = seg.Index
	} else if f.IsMany() {
		return nil, fmt.Errorf("%w: %s is many-valued and needs an index", mgerr.ErrIndex, f.QualifiedName())
	}
	if idx >= len(vs) {
		return nil, &mgerr.IndexError{Feature: f.QualifiedName(), Index: idx, Len: len(vs)}
	}
	return vs[idx].(*Object), nil
}
