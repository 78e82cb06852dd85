// Package graph implements the instance graph engine: it creates objects
// conforming to meta classes, stores their feature values and keeps the
// graph consistent on every write.
//
// # Why Graph Package Exists
//
// Every mutation of an object graph has to do several things at once:
// validate the value against the feature's declared type and bounds, keep
// the containment tree a forest, mirror the change on the opposite side of
// bidirectional references, journal it for undo and report it to observers.
// The Engine is the single place where that happens; objects expose no slot
// storage of their own.
//
// # Mutation Algorithm
//
// Each public mutation runs in two phases:
//
//  1. **Validate.** Type, arity, uniqueness, changeability, index range and
//     containment cycles (on both sides of an opposite pair) are checked
//     before any state changes. A failed validation leaves the graph as it
//     was.
//  2. **Apply.** The previous container is detached, the opposite side is
//     mirrored and the slot is written, all through raw slot primitives
//     that never re-enter validation or mirroring.
//
// Raw primitives maintain the container link and the inverse-reference
// index, append to the active change journals and queue one notification
// per slot change. Queued notifications are flushed to the bus once the
// whole operation has been applied.
//
// # Containment And Deletion
//
// Containment owns lifecycle. Delete removes an object and everything it
// transitively contains, clears every reference held by the deleted objects
// and, through the inverse-reference index, every reference to them.
//
// # Proxies
//
// A proxy stands in for an object owned by an external loader. It is
// resolved through a Resolver on first real access and the result replaces
// the proxy in the slot that held it. Proxies are resolved eagerly when they
// are written to containment or opposite features, since both sides of those
// links must be real objects.
//
// # Thread-Safety
//
// The engine is single-threaded. Callers sharing an Engine across
// goroutines must synchronize externally.
package graph
