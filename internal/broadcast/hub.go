package broadcast

import (
	"sync"

	"github.com/kiliankoe/spellbee/internal/game"
)

// Message is one room update addressed to a subscriber.
type Message struct {
	Event string
	Code  string
	Room  game.RoomSnapshot
}

// EventName is the channel name clients listen on for updates of code.
func EventName(code string) string {
	return "room_" + code + "_modified"
}

const subscriberBuffer = 16

// Hub fans room snapshots out to subscribers keyed by room code and
// subscriber id. It implements game.Publisher.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[string]chan Message
}

func NewHub() *Hub {
	return &Hub{rooms: make(map[string]map[string]chan Message)}
}

// Subscribe registers id for updates of code. The second result is false when
// id was already subscribed, in which case the existing channel is returned.
func (h *Hub) Subscribe(code, id string) (<-chan Message, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	subs := h.rooms[code]
	if subs == nil {
		subs = make(map[string]chan Message)
		h.rooms[code] = subs
	}
	if ch, ok := subs[id]; ok {
		return ch, false
	}
	ch := make(chan Message, subscriberBuffer)
	subs[id] = ch
	return ch, true
}

// Unsubscribe removes id from code and closes its channel.
func (h *Hub) Unsubscribe(code, id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(code, id)
}

// UnsubscribeAll drops id from every room, used when a connection goes away.
func (h *Hub) UnsubscribeAll(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for code := range h.rooms {
		h.removeLocked(code, id)
	}
}

func (h *Hub) removeLocked(code, id string) {
	subs := h.rooms[code]
	ch, ok := subs[id]
	if !ok {
		return
	}
	delete(subs, id)
	close(ch)
	if len(subs) == 0 {
		delete(h.rooms, code)
	}
}

// Publish delivers snap to every subscriber of code except exclude. Slow
// subscribers with a full buffer miss the update rather than block the room.
func (h *Hub) Publish(code string, snap game.RoomSnapshot, exclude string) {
	msg := Message{Event: EventName(code), Code: code, Room: snap}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for id, ch := range h.rooms[code] {
		if id == exclude {
			continue
		}
		select {
		case ch <- msg:
		default:
			// skip subscribers with full channels
		}
	}
}

// Subscribers reports how many ids currently listen on code.
func (h *Hub) Subscribers(code string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[code])
}
