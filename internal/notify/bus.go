package notify

// LinkFunc returns the objects directly connected to n through references
// that have an opposite.
type LinkFunc func(n Notifier) []Notifier

// Subscription is the handle of one observer registration.
type Subscription struct {
	bus       *Bus
	target    Notifier
	observer  Observer
	cancelled bool
}

// Target returns the observed object.
func (s *Subscription) Target() Notifier { return s.target }

// Cancel removes the subscription. Calling it more than once is harmless.
func (s *Subscription) Cancel() {
	if s.bus != nil {
		s.bus.Unobserve(s)
	}
}

// Active reports whether the subscription still receives notifications.
func (s *Subscription) Active() bool { return !s.cancelled }

// Bus keeps subscriptions in registration order.
type Bus struct {
	subs  []*Subscription
	links LinkFunc
}

// NewBus creates a bus. links may be nil, in which case observers only see
// notifications of their own target.
func NewBus(links LinkFunc) *Bus {
	return &Bus{links: links}
}

// Observe subscribes observer to target.
func (b *Bus) Observe(observer Observer, target Notifier) *Subscription {
	sub := &Subscription{bus: b, target: target, observer: observer}
	b.subs = append(b.subs, sub)
	return sub
}

// Unobserve cancels sub. The subscription slice is replaced rather than
// edited so that a delivery in progress keeps its snapshot.
func (b *Bus) Unobserve(sub *Subscription) {
	if sub == nil || sub.cancelled {
		return
	}
	sub.cancelled = true
	kept := make([]*Subscription, 0, len(b.subs))
	for _, s := range b.subs {
		if s != sub {
			kept = append(kept, s)
		}
	}
	b.subs = kept
}

// Len returns the number of active subscriptions.
func (b *Bus) Len() int { return len(b.subs) }

// Observers returns the active subscriptions on target.
func (b *Bus) Observers(target Notifier) []*Subscription {
	var out []*Subscription
	for _, s := range b.subs {
		if s.target == target {
			out = append(out, s)
		}
	}
	return out
}

// Publish delivers each notification in order.
func (b *Bus) Publish(ns ...*Notification) error {
	for _, n := range ns {
		if err := b.deliver(n); err != nil {
			return err
		}
	}
	return nil
}

func (b *Bus) deliver(n *Notification) error {
	snapshot := b.subs
	if len(snapshot) == 0 {
		return nil
	}
	wanted := make(map[Notifier]struct{}, len(snapshot))
	for _, s := range snapshot {
		if !s.cancelled {
			wanted[s.target] = struct{}{}
		}
	}
	reach := b.reachable(n.Notifier, wanted)
	for _, s := range snapshot {
		if s.cancelled {
			continue
		}
		if _, ok := reach[s.target]; !ok {
			continue
		}
		if err := s.observer.OnChange(n); err != nil {
			return &ObserverError{Notification: n, Err: err}
		}
	}
	return nil
}

// reachable returns the members of wanted connected to start through
// opposite links. Opposite links are symmetric, so an observer on any member
// of start's component can reach start. The search stops as soon as every
// wanted target has been found.
func (b *Bus) reachable(start Notifier, wanted map[Notifier]struct{}) map[Notifier]struct{} {
	found := make(map[Notifier]struct{}, len(wanted))
	if _, ok := wanted[start]; ok {
		found[start] = struct{}{}
	}
	if b.links == nil || len(found) == len(wanted) {
		return found
	}
	seen := map[Notifier]struct{}{start: {}}
	queue := []Notifier{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range b.links(cur) {
			if _, ok := seen[next]; ok {
				continue
			}
			seen[next] = struct{}{}
			if _, ok := wanted[next]; ok {
				found[next] = struct{}{}
				if len(found) == len(wanted) {
					return found
				}
			}
			queue = append(queue, next)
		}
	}
	return found
}
