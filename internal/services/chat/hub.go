package chat

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

const subscriberBuffer = 32

// Event is one chat message fanned out to a match's live subscribers.
type Event struct {
	MessageID   uuid.UUID `json:"id"`
	MatchID     uuid.UUID `json:"match_id"`
	SenderID    uuid.UUID `json:"sender_id"`
	Text        string    `json:"message_text"`
	SenderName  string    `json:"sender_name,omitempty"`
	SenderPhoto string    `json:"sender_photo,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type subscriber struct {
	userID uuid.UUID
	ch     chan Event
}

// Hub fans chat events out to live subscribers grouped by match. A slow
// subscriber loses events rather than blocking the sender; history is always
// reloadable over HTTP.
type Hub struct {
	mu   sync.RWMutex
	subs map[uuid.UUID]map[*subscriber]struct{}
}

func NewHub() *Hub {
	return &Hub{
		subs: make(map[uuid.UUID]map[*subscriber]struct{}),
	}
}

// Subscribe attaches a listener to a match. The returned release func must be
// called when the listener goes away; it closes the event channel.
func (h *Hub) Subscribe(matchID, userID uuid.UUID) (<-chan Event, func()) {
	sub := &subscriber{
		userID: userID,
		ch:     make(chan Event, subscriberBuffer),
	}

	h.mu.Lock()
	group, ok := h.subs[matchID]
	if !ok {
		group = make(map[*subscriber]struct{})
		h.subs[matchID] = group
	}
	group[sub] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	release := func() {
		once.Do(func() {
			h.mu.Lock()
			if group, ok := h.subs[matchID]; ok {
				delete(group, sub)
				if len(group) == 0 {
					delete(h.subs, matchID)
				}
			}
			h.mu.Unlock()
			close(sub.ch)
		})
	}

	return sub.ch, release
}

// Broadcast delivers the event to every subscriber of the match except the
// sender's own sockets. The sender already holds the message from the send
// response, so echoing it back would duplicate it client-side.
func (h *Hub) Broadcast(event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for sub := range h.subs[event.MatchID] {
		if sub.userID == event.SenderID {
			continue
		}
		select {
		case sub.ch <- event:
		default:
		}
	}
}

// SubscriberCount reports live listeners for a match.
func (h *Hub) SubscriberCount(matchID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[matchID])
}
