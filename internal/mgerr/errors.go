package mgerr

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors, one per error kind.
var (
	ErrType              = errors.New("type error")
	ErrCycle             = errors.New("cycle detected")
	ErrContainmentCycle  = errors.New("containment cycle")
	ErrUnknownFeature    = errors.New("unknown feature")
	ErrTypeMismatch      = errors.New("type mismatch")
	ErrIllegalState      = errors.New("illegal state")
	ErrProxyNotResolved  = errors.New("proxy not resolved")
	ErrResolution        = errors.New("proxy resolution failed")
	ErrArity             = errors.New("cardinality violated")
	ErrUniqueness        = errors.New("duplicate value")
	ErrReadOnly          = errors.New("feature is not changeable")
	ErrAbstractClass     = errors.New("class cannot be instantiated")
	ErrIndex             = errors.New("index out of range")
	ErrDeleted           = errors.New("object has been deleted")
	ErrNotImplemented    = errors.New("operation not implemented")
	ErrDuplicateFeature  = errors.New("duplicate feature")
	ErrUnknownClassifier = errors.New("unknown classifier")
	ErrConflict          = errors.New("graph changed since the change was recorded")
)

// TypeError reports a value that does not conform to a feature's declared type.
type TypeError struct {
	Feature  string
	Value    any
	Expected string
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("feature %q: expected %s, got %s", e.Feature, e.Expected, describe(e.Value))
}

func (e *TypeError) Unwrap() error { return ErrType }

// CycleError reports a supertype cycle. Path lists the class names forming it.
type CycleError struct {
	Kind string
	Path []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("%s cycle: %s", e.Kind, strings.Join(e.Path, " -> "))
}

func (e *CycleError) Unwrap() error { return ErrCycle }

// ContainmentCycleError reports an attempt to make an object (transitively)
// contain itself.
type ContainmentCycleError struct {
	Feature   string
	Container string
	Value     string
}

func (e *ContainmentCycleError) Error() string {
	return fmt.Sprintf("feature %q: %s cannot contain %s, it is one of its ancestors", e.Feature, e.Container, e.Value)
}

func (e *ContainmentCycleError) Is(target error) bool {
	return target == ErrContainmentCycle || target == ErrCycle
}

// UnknownFeatureError reports a feature that is not applicable to a class.
type UnknownFeatureError struct {
	Class   string
	Feature string
}

func (e *UnknownFeatureError) Error() string {
	return fmt.Sprintf("class %q has no feature %q", e.Class, e.Feature)
}

func (e *UnknownFeatureError) Unwrap() error { return ErrUnknownFeature }

// TypeMismatchError reports an invalid opposite pairing.
type TypeMismatchError struct {
	Feature  string
	Opposite string
	Reason   string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("features %q and %q cannot be opposites: %s", e.Feature, e.Opposite, e.Reason)
}

func (e *TypeMismatchError) Unwrap() error { return ErrTypeMismatch }

// IllegalStateError reports a command invoked out of lifecycle order, or one
// whose recorded effect no longer matches the graph. Err holds the cause in
// the latter case.
type IllegalStateError struct {
	Command string
	Op      string
	State   string
	Err     error
}

func (e *IllegalStateError) Error() string {
	msg := fmt.Sprintf("command %q: cannot %s while %s", e.Command, e.Op, e.State)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *IllegalStateError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrIllegalState}
	}
	return []error{ErrIllegalState, e.Err}
}

// ConflictError reports a journaled change whose slot no longer holds the
// value the change expects.
type ConflictError struct {
	Object  string
	Feature string
	Reason  string
}

func (e *ConflictError) Error() string {
	if e.Feature == "" {
		return fmt.Sprintf("%s changed: %s", e.Object, e.Reason)
	}
	return fmt.Sprintf("%s.%s changed: %s", e.Object, e.Feature, e.Reason)
}

func (e *ConflictError) Unwrap() error { return ErrConflict }

// ProxyNotResolvedError reports an operation that needs the real object behind
// a proxy that has not been resolved yet.
type ProxyNotResolvedError struct {
	URI string
	Op  string
}

func (e *ProxyNotResolvedError) Error() string {
	return fmt.Sprintf("cannot %s unresolved proxy %q", e.Op, e.URI)
}

func (e *ProxyNotResolvedError) Unwrap() error { return ErrProxyNotResolved }

// ResolutionError carries the error reported by an external proxy resolver.
type ResolutionError struct {
	URI string
	Err error
}

func (e *ResolutionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("resolving proxy %q: %v", e.URI, e.Err)
	}
	return fmt.Sprintf("resolving proxy %q: resolver returned no object", e.URI)
}

func (e *ResolutionError) Is(target error) bool { return target == ErrResolution }

func (e *ResolutionError) Unwrap() error { return e.Err }

// ArityError reports a write that would violate a feature's bounds.
type ArityError struct {
	Feature string
	Lower   int
	Upper   int
	Got     int
}

func (e *ArityError) Error() string {
	upper := "*"
	if e.Upper >= 0 {
		upper = fmt.Sprint(e.Upper)
	}
	return fmt.Sprintf("feature %q: expected between %d and %s values, would hold %d", e.Feature, e.Lower, upper, e.Got)
}

func (e *ArityError) Unwrap() error { return ErrArity }

// UniquenessError reports a duplicate added to a unique many-valued feature.
type UniquenessError struct {
	Feature string
	Value   any
}

func (e *UniquenessError) Error() string {
	return fmt.Sprintf("feature %q: already contains %s", e.Feature, describe(e.Value))
}

func (e *UniquenessError) Unwrap() error { return ErrUniqueness }

// ReadOnlyError reports a write to a derived or non-changeable feature.
type ReadOnlyError struct {
	Feature string
}

func (e *ReadOnlyError) Error() string {
	return fmt.Sprintf("feature %q is read-only", e.Feature)
}

func (e *ReadOnlyError) Unwrap() error { return ErrReadOnly }

// AbstractClassError reports an attempt to instantiate an abstract class or
// an interface.
type AbstractClassError struct {
	Class string
}

func (e *AbstractClassError) Error() string {
	return fmt.Sprintf("class %q is abstract", e.Class)
}

func (e *AbstractClassError) Unwrap() error { return ErrAbstractClass }

// IndexError reports a position outside a many-valued slot.
type IndexError struct {
	Feature string
	Index   int
	Len     int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("feature %q: index %d out of range [0,%d)", e.Feature, e.Index, e.Len)
}

func (e *IndexError) Unwrap() error { return ErrIndex }

// DeletedError reports a mutation of an object removed from its graph.
type DeletedError struct {
	Object string
}

func (e *DeletedError) Error() string {
	return fmt.Sprintf("object %s has been deleted", e.Object)
}

func (e *DeletedError) Unwrap() error { return ErrDeleted }

func describe(v any) string {
	if v == nil {
		return "nil"
	}
	if s, ok := v.(fmt.Stringer); ok {
		return fmt.Sprintf("%T(%s)", v, s.String())
	}
	return fmt.Sprintf("%T(%v)", v, v)
}
