package graph

import (
	"github.com/specialistvlad/metagraph/internal/meta"
	"github.com/specialistvlad/metagraph/internal/mgerr"
)

// The Check methods run the validation of the matching mutation without
// applying it. A nil result means the mutation would succeed against the
// current graph.

// CheckSet validates Set.
func (e *Engine) CheckSet(o *Object, f *meta.Feature, value any) error {
	_, _, err := e.validateSet(o, f, value)
	return err
}

// CheckUnset validates Unset and Clear.
func (e *Engine) CheckUnset(o *Object, f *meta.Feature) error {
	_, err := e.writable(o, f)
	return err
}

// CheckInsert validates Insert; pos End validates Add.
func (e *Engine) CheckInsert(o *Object, f *meta.Feature, pos int, value any) error {
	_, _, _, err := e.validateInsert(o, f, pos, value)
	return err
}

// CheckAddAll validates AddAll.
func (e *Engine) CheckAddAll(o *Object, f *meta.Feature, values any) error {
	_, _, err := e.validateAddAll(o, f, values)
	return err
}

// CheckRemove validates Remove.
func (e *Engine) CheckRemove(o *Object, f *meta.Feature, value any) error {
	_, err := e.writable(o, f)
	return err
}

// CheckRemoveAt validates RemoveAt.
func (e *Engine) CheckRemoveAt(o *Object, f *meta.Feature, pos int) error {
	_, err := e.validateRemoveAt(o, f, pos)
	return err
}

// CheckMove validates Move.
func (e *Engine) CheckMove(o *Object, f *meta.Feature, from, to int) error {
	_, err := e.validateMove(o, f, from, to)
	return err
}

// CheckDelete validates Delete.
func (e *Engine) CheckDelete(o *Object) error {
	_, err := e.validateDelete(o)
	return err
}

// validateSet returns the target object and the normalized values: the
// whole list for many-valued features, exactly one value otherwise.
func (e *Engine) validateSet(o *Object, f *meta.Feature, value any) (*Object, []any, error) {
	o, err := e.writable(o, f)
	if err != nil {
		return nil, nil, err
	}
	if f.IsMany() {
		vs, err := e.checkValues(o, f, value)
		if err != nil {
			return nil, nil, err
		}
		return o, vs, nil
	}
	v, err := e.normalize(o, f, value)
	if err != nil {
		return nil, nil, err
	}
	if t, ok := v.(*Object); ok {
		if err := e.checkLink(o, f, t); err != nil {
			return nil, nil, err
		}
	}
	return o, []any{v}, nil
}

func (e *Engine) validateInsert(o *Object, f *meta.Feature, pos int, value any) (*Object, any, int, error) {
	o, err := e.writable(o, f)
	if err != nil {
		return nil, nil, 0, err
	}
	if err := checkMany(f); err != nil {
		return nil, nil, 0, err
	}
	v, err := e.normalize(o, f, value)
	if err != nil {
		return nil, nil, 0, err
	}
	if v == nil {
		return nil, nil, 0, &mgerr.TypeError{Feature: f.QualifiedName(), Value: nil, Expected: f.TypeName()}
	}
	n := o.count(f)
	if pos == End {
		pos = n
	}
	if pos < 0 || pos > n {
		return nil, nil, 0, &mgerr.IndexError{Feature: f.QualifiedName(), Index: pos, Len: n + 1}
	}
	if isUnique(f) && o.holds(f, v) {
		return nil, nil, 0, &mgerr.UniquenessError{Feature: f.QualifiedName(), Value: v}
	}
	if f.Upper != meta.Unbounded && n+1 > f.Upper {
		return nil, nil, 0, &mgerr.ArityError{Feature: f.QualifiedName(), Lower: f.Lower, Upper: f.Upper, Got: n + 1}
	}
	if t, ok := v.(*Object); ok {
		if err := e.checkLink(o, f, t); err != nil {
			return nil, nil, 0, err
		}
	}
	return o, v, pos, nil
}

func (e *Engine) validateAddAll(o *Object, f *meta.Feature, values any) (*Object, []any, error) {
	o, err := e.writable(o, f)
	if err != nil {
		return nil, nil, err
	}
	if err := checkMany(f); err != nil {
		return nil, nil, err
	}
	vs, err := e.checkValues(o, f, values)
	if err != nil {
		return nil, nil, err
	}
	n := o.count(f)
	if f.Upper != meta.Unbounded && n+len(vs) > f.Upper {
		return nil, nil, &mgerr.ArityError{Feature: f.QualifiedName(), Lower: f.Lower, Upper: f.Upper, Got: n + len(vs)}
	}
	if isUnique(f) {
		for _, v := range vs {
			if o.holds(f, v) {
				return nil, nil, &mgerr.UniquenessError{Feature: f.QualifiedName(), Value: v}
			}
		}
	}
	return o, vs, nil
}

func (e *Engine) validateRemoveAt(o *Object, f *meta.Feature, pos int) (*Object, error) {
	o, err := e.writable(o, f)
	if err != nil {
		return nil, err
	}
	if err := checkMany(f); err != nil {
		return nil, err
	}
	if n := o.count(f); pos < 0 || pos >= n {
		return nil, &mgerr.IndexError{Feature: f.QualifiedName(), Index: pos, Len: n}
	}
	return o, nil
}

func (e *Engine) validateMove(o *Object, f *meta.Feature, from, to int) (*Object, error) {
	o, err := e.writable(o, f)
	if err != nil {
		return nil, err
	}
	if err := checkMany(f); err != nil {
		return nil, err
	}
	n := o.count(f)
	for _, i := range []int{from, to} {
		if i < 0 || i >= n {
			return nil, &mgerr.IndexError{Feature: f.QualifiedName(), Index: i, Len: n}
		}
	}
	return o, nil
}

func (e *Engine) validateDelete(o *Object) (*Object, error) {
	if o == nil {
		return nil, &mgerr.TypeError{Feature: "delete", Value: nil, Expected: "an object"}
	}
	if o.proxy != nil {
		if o.proxy.target == nil {
			return nil, &mgerr.ProxyNotResolvedError{URI: o.proxy.uri, Op: "delete"}
		}
		o = o.proxy.target
	}
	if o.deleted {
		return nil, &mgerr.DeletedError{Object: o.String()}
	}
	return o, nil
}
