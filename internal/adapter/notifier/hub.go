// Package notifier implements the notification fan-out as an explicit
// connection manager: subscribers register a buffered channel per
// connection, delivery is non-blocking and at-most-once, and an optional
// Redis pub/sub bridge relays events between instances. Delivery never
// participates in the funding transaction.
package notifier

import (
	"context"
	"encoding/json"
	"sync"

	"invofin-backend/internal/domain/notification"
	"invofin-backend/pkg/id"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	channelName = "invofin:notify"
	// events queued per connection before the hub starts dropping
	connBuffer = 16
)

const (
	scopeUser = "user"
	scopeRole = "role"
	scopeAll  = "all"
)

type envelope struct {
	Origin string             `json:"origin"`
	Scope  string             `json:"scope"`
	Target string             `json:"target,omitempty"`
	Event  notification.Event `json:"event"`
}

// Conn is one subscriber connection. Events arrive on Events() until the
// connection is unsubscribed or the hub shuts down.
type Conn struct {
	UserID string
	Role   string
	ch     chan notification.Event
}

func (c *Conn) Events() <-chan notification.Event { return c.ch }

type Hub struct {
	mu     sync.RWMutex
	users  map[string]map[*Conn]struct{}
	roles  map[string]map[*Conn]struct{}
	closed bool

	instanceID string
	rdb        *redis.Client
	log        zerolog.Logger
	cancel     context.CancelFunc
	done       chan struct{}
}

// NewHub builds the connection manager. rdb may be nil for a
// single-instance deployment; with Redis attached, events published by
// other instances are delivered to local subscribers too.
func NewHub(rdb *redis.Client, log zerolog.Logger) *Hub {
	return &Hub{
		users:      make(map[string]map[*Conn]struct{}),
		roles:      make(map[string]map[*Conn]struct{}),
		instanceID: id.NewID32(),
		rdb:        rdb,
		log:        log,
	}
}

// Start launches the Redis bridge. No-op without a Redis client.
func (h *Hub) Start(ctx context.Context) {
	if h.rdb == nil {
		return
	}
	ctx, h.cancel = context.WithCancel(ctx)
	h.done = make(chan struct{})
	sub := h.rdb.Subscribe(ctx, channelName)
	go func() {
		defer close(h.done)
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var env envelope
				if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
					h.log.Warn().Err(err).Msg("notifier: bad bridge payload")
					continue
				}
				if env.Origin == h.instanceID {
					continue
				}
				h.deliver(env.Scope, env.Target, env.Event)
			}
		}
	}()
}

// Close tears the hub down: the bridge stops and every subscriber channel
// is closed.
func (h *Hub) Close() {
	if h.cancel != nil {
		h.cancel()
		<-h.done
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for _, conns := range h.users {
		for c := range conns {
			close(c.ch)
		}
	}
	h.users = make(map[string]map[*Conn]struct{})
	h.roles = make(map[string]map[*Conn]struct{})
}

func (h *Hub) Subscribe(userID, role string) *Conn {
	c := &Conn{UserID: userID, Role: role, ch: make(chan notification.Event, connBuffer)}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		close(c.ch)
		return c
	}
	if h.users[userID] == nil {
		h.users[userID] = make(map[*Conn]struct{})
	}
	h.users[userID][c] = struct{}{}
	if role != "" {
		if h.roles[role] == nil {
			h.roles[role] = make(map[*Conn]struct{})
		}
		h.roles[role][c] = struct{}{}
	}
	return c
}

func (h *Hub) Unsubscribe(c *Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	if conns := h.users[c.UserID]; conns != nil {
		if _, ok := conns[c]; ok {
			delete(conns, c)
			close(c.ch)
			if len(conns) == 0 {
				delete(h.users, c.UserID)
			}
		}
	}
	if conns := h.roles[c.Role]; conns != nil {
		delete(conns, c)
		if len(conns) == 0 {
			delete(h.roles, c.Role)
		}
	}
}

func (h *Hub) NotifyUser(userID string, ev notification.Event) {
	h.deliver(scopeUser, userID, ev)
	h.publish(scopeUser, userID, ev)
}

func (h *Hub) NotifyRole(role string, ev notification.Event) {
	h.deliver(scopeRole, role, ev)
	h.publish(scopeRole, role, ev)
}

func (h *Hub) Broadcast(ev notification.Event) {
	h.deliver(scopeAll, "", ev)
	h.publish(scopeAll, "", ev)
}

func (h *Hub) deliver(scope, target string, ev notification.Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		return
	}
	switch scope {
	case scopeUser:
		for c := range h.users[target] {
			h.send(c, ev)
		}
	case scopeRole:
		for c := range h.roles[target] {
			h.send(c, ev)
		}
	case scopeAll:
		for _, conns := range h.users {
			for c := range conns {
				h.send(c, ev)
			}
		}
	}
}

// send never blocks; a slow consumer loses the event.
func (h *Hub) send(c *Conn, ev notification.Event) {
	select {
	case c.ch <- ev:
	default:
		h.log.Warn().
			Str("user_id", c.UserID).
			Str("event_type", ev.Type).
			Msg("notifier: subscriber buffer full, event dropped")
	}
}

func (h *Hub) publish(scope, target string, ev notification.Event) {
	if h.rdb == nil {
		return
	}
	payload, err := json.Marshal(envelope{Origin: h.instanceID, Scope: scope, Target: target, Event: ev})
	if err != nil {
		return
	}
	if err := h.rdb.Publish(context.Background(), channelName, payload).Err(); err != nil {
		h.log.Warn().Err(err).Msg("notifier: bridge publish failed")
	}
}
