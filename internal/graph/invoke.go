package graph

import (
	"errors"
	"fmt"

	"github.com/specialistvlad/metagraph/internal/meta"
	"github.com/specialistvlad/metagraph/internal/mgerr"
)

// Invoke calls the operation named name on o with args. Arguments are
// checked against the declared parameters and the result against the
// declared return type.
func (e *Engine) Invoke(o *Object, name string, args ...any) (any, error) {
	o, err := e.target(o)
	if err != nil {
		return nil, err
	}
	op, ok := o.class.FindOperation(name)
	if !ok {
		return nil, fmt.Errorf("%w: class %q has no operation %q", mgerr.ErrUnknownFeature, o.class.Name(), name)
	}
	if len(args) < op.RequiredParams() || len(args) > len(op.Params) {
		return nil, &mgerr.ArityError{Feature: op.Signature(), Lower: op.RequiredParams(), Upper: len(op.Params), Got: len(args)}
	}
	for i, a := range args {
		p := op.Params[i]
		if p.Type != nil && !e.conforms(a, p.Type) {
			return nil, &mgerr.TypeError{Feature: op.Name + "." + p.Name, Value: a, Expected: p.Type.Name()}
		}
	}
	fn, ok := o.class.Implementation(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s", mgerr.ErrNotImplemented, o.class.Name(), op.Signature())
	}

	res, err := fn(o, args)
	if err != nil {
		var raised *Raised
		if errors.As(err, &raised) && !declares(op, raised.Type) {
			return nil, fmt.Errorf("%s raised undeclared %s: %w", op.Name, raised.Type.Name(), err)
		}
		return nil, err
	}
	if op.Type != nil && res != nil && !e.conforms(res, op.Type) {
		return nil, &mgerr.TypeError{Feature: op.Name, Value: res, Expected: op.Type.Name()}
	}
	return res, nil
}

func (e *Engine) conforms(v any, c meta.Classifier) bool {
	if _, ok := c.(*meta.Class); ok && v == nil {
		return true
	}
	return e.IsInstance(v, c)
}

// Raised is an error an operation body returns to signal one of the
// operation's declared exceptions.
type Raised struct {
	Type    meta.Classifier
	Payload any
}

func (r *Raised) Error() string {
	return fmt.Sprintf("raised %s: %v", r.Type.Name(), r.Payload)
}

func declares(op *meta.Operation, c meta.Classifier) bool {
	for _, x := range op.Exceptions {
		if x == c {
			return true
		}
		if xc, ok := x.(*meta.Class); ok {
			if cc, ok := c.(*meta.Class); ok && cc.ConformsTo(xc) {
				return true
			}
		}
	}
	return false
}
