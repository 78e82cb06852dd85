package notify

import (
	"fmt"

	"github.com/specialistvlad/metagraph/internal/meta"
)

// Kind classifies a notification.
type Kind int

const (
	Add Kind = iota + 1
	AddMany
	Remove
	RemoveMany
	Set
	Unset
	Move
)

var kindNames = map[Kind]string{
	Add:        "ADD",
	AddMany:    "ADD_MANY",
	Remove:     "REMOVE",
	RemoveMany: "REMOVE_MANY",
	Set:        "SET",
	Unset:      "UNSET",
	Move:       "MOVE",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// NoPosition is the Position of notifications that do not address an index.
const NoPosition = -1

// Notifier is the object a notification originates from.
type Notifier interface {
	meta.Instance
}

// Notification describes one slot change. It is never modified after it has
// been published.
//
// Old and New hold the previous and the new value. For AddMany and
// RemoveMany they hold []any. For Move, Old is the source index and New the
// moved value; Position is the destination index.
type Notification struct {
	Notifier Notifier
	Feature  *meta.Feature
	Kind     Kind
	Old      any
	New      any
	Position int
}

func (n *Notification) String() string {
	name := "<nil>"
	if n.Feature != nil {
		name = n.Feature.Name
	}
	return fmt.Sprintf("%s %s old=%v new=%v pos=%d", n.Kind, name, n.Old, n.New, n.Position)
}
