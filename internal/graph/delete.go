package graph

import (
	"slices"

	"github.com/specialistvlad/metagraph/internal/notify"
)

// Delete removes o and every object it transitively contains. All
// references held by the deleted objects are cleared, and so is every
// reference to them, including the one from o's container. Deleting an
// unresolved proxy fails with ProxyNotResolvedError: only the real object's
// references are known.
func (e *Engine) Delete(o *Object) error {
	o, err := e.validateDelete(o)
	if err != nil {
		return err
	}

	doomed := append([]*Object{o}, slices.Collect(o.AllContents())...)
	// Deepest first, so a container is still attached while its contents
	// leave it.
	for i := len(doomed) - 1; i >= 0; i-- {
		n := doomed[i]
		e.clearOutgoing(n)
		e.clearIncoming(n)
		for _, p := range e.proxiesByTarget[n] {
			e.clearIncoming(p)
		}
		e.setDeleted(n, true)
	}
	e.logger.Debug("Object deleted.", "object_id", o.id, "class", o.class.Name(), "cascade", len(doomed)-1)
	return e.flush()
}

// clearOutgoing empties every reference slot of n.
func (e *Engine) clearOutgoing(n *Object) {
	for _, f := range n.class.AllReferences() {
		if f.Derived {
			continue
		}
		if _, ok := n.slots[f]; !ok {
			continue
		}
		if f.IsMany() {
			for n.count(f) > 0 {
				e.removeAt(n, f, 0)
			}
		} else if n.count(f) > 0 {
			e.clearSingle(n, f, notify.Set)
		}
	}
}

// clearIncoming removes n from every slot that holds it, found through the
// inverse-reference index.
func (e *Engine) clearIncoming(n *Object) {
	for len(n.inverse) > 0 {
		ref := n.inverse[0]
		owner, f := ref.owner, ref.feature
		i := owner.indexOf(f, n)
		switch {
		case i < 0:
			// The index is out of step with the slot; drop the entry.
			n.inverse = n.inverse[1:]
		case f.IsMany():
			e.removeAt(owner, f, i)
		default:
			e.clearSingle(owner, f, notify.Set)
		}
	}
}
