// Package notify delivers structured change notifications produced by the
// graph engine to registered observers.
//
// # Reach
//
// An observer subscribes to one target object. It receives the
// notifications whose notifier is the target or any object connected to the
// target through references that have an opposite, transitively. Each
// subscription sees a notification at most once.
//
// # Delivery
//
// Delivery is synchronous and happens after the mutation and its opposite
// mirroring have both been applied, so observers always read post-mutation
// state. Subscriptions are served in registration order. The bus iterates a
// snapshot, so cancelling a subscription from inside a callback is safe; a
// cancelled subscription is skipped for the rest of the delivery.
//
// The first observer error stops delivery and is returned, wrapped in an
// ObserverError, to the caller of the mutation. The mutation itself stays
// applied.
package notify
