package notifymock

import (
	"sync"

	"invofin-backend/internal/domain/notification"
)

var _ notification.Notifier = (*Notifier)(nil)

// Notifier records every event it was asked to deliver; safe for
// concurrent use.
type Notifier struct {
	mu         sync.Mutex
	UserEvents map[string][]notification.Event
	RoleEvents map[string][]notification.Event
	Broadcasts []notification.Event
}

func New() *Notifier {
	return &Notifier{
		UserEvents: make(map[string][]notification.Event),
		RoleEvents: make(map[string][]notification.Event),
	}
}

func (n *Notifier) NotifyUser(userID string, ev notification.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.UserEvents[userID] = append(n.UserEvents[userID], ev)
}

func (n *Notifier) NotifyRole(role string, ev notification.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.RoleEvents[role] = append(n.RoleEvents[role], ev)
}

func (n *Notifier) Broadcast(ev notification.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Broadcasts = append(n.Broadcasts, ev)
}

// ForUser returns a copy of the events delivered to userID.
func (n *Notifier) ForUser(userID string) []notification.Event {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]notification.Event, len(n.UserEvents[userID]))
	copy(out, n.UserEvents[userID])
	return out
}

// ForRole returns a copy of the events delivered to role.
func (n *Notifier) ForRole(role string) []notification.Event {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]notification.Event, len(n.RoleEvents[role]))
	copy(out, n.RoleEvents[role])
	return out
}

// Types lists the delivered event types for userID in order.
func (n *Notifier) Types(userID string) []string {
	evs := n.ForUser(userID)
	out := make([]string, 0, len(evs))
	for _, ev := range evs {
		out = append(out, ev.Type)
	}
	return out
}
