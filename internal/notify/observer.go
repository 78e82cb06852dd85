package notify

import "fmt"

// Observer receives notifications.
type Observer interface {
	OnChange(n *Notification) error
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(n *Notification) error

// OnChange calls f(n).
func (f ObserverFunc) OnChange(n *Notification) error { return f(n) }

// ObserverError reports an observer that failed while handling a
// notification. The mutation that produced the notification has been
// applied.
type ObserverError struct {
	Notification *Notification
	Err          error
}

func (e *ObserverError) Error() string {
	return fmt.Sprintf("observer failed on %s: %v", e.Notification, e.Err)
}

func (e *ObserverError) Unwrap() error { return e.Err }
