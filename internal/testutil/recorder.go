package testutil

import (
	"fmt"
	"sync"

	"github.com/specialistvlad/metagraph/internal/notify"
)

// Recorder is an observer that keeps every notification it receives. Fail,
// when set, is returned from OnChange after recording.
type Recorder struct {
	mu   sync.Mutex
	got  []*notify.Notification
	Fail error
}

// OnChange implements notify.Observer.
func (r *Recorder) OnChange(n *notify.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = append(r.got, n)
	return r.Fail
}

// Notifications returns a copy of what has been received so far.
func (r *Recorder) Notifications() []*notify.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*notify.Notification(nil), r.got...)
}

// Kinds returns the kinds received, in order.
func (r *Recorder) Kinds() []notify.Kind {
	var out []notify.Kind
	for _, n := range r.Notifications() {
		out = append(out, n.Kind)
	}
	return out
}

// Summary renders each notification as "<feature> <KIND>" for compact
// comparisons.
func (r *Recorder) Summary() []string {
	var out []string
	for _, n := range r.Notifications() {
		out = append(out, fmt.Sprintf("%s %s", n.Feature.Name, n.Kind))
	}
	return out
}

// Reset drops everything recorded.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = nil
}
