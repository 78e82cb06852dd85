// Package mgerr defines the error kinds shared by the descriptor model, the
// graph engine and the command stack.
//
// Every error kind is a struct carrying the offending feature, value and the
// expected type or arity, and each one unwraps to a package-level sentinel so
// callers can branch with errors.Is without caring about the concrete type:
//
//	if errors.Is(err, mgerr.ErrType) {
//	    // the value did not conform to the feature's declared type
//	}
//
// ContainmentCycleError matches both ErrContainmentCycle and ErrCycle, since a
// containment cycle is a specialised cycle.
//
// ResolutionError wraps whatever the external proxy resolver reported; the
// resolver's error stays reachable through errors.Is / errors.As.
package mgerr
