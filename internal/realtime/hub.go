package realtime

import "sync"

// Hub holds one Broadcaster per match ID, created on first use.
type Hub struct {
	mu    sync.Mutex
	games map[string]*Broadcaster
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{games: make(map[string]*Broadcaster)}
}

// Broadcaster returns the broadcaster for matchID.
func (h *Hub) Broadcaster(matchID string) *Broadcaster {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.broadcaster(matchID)
}

func (h *Hub) broadcaster(matchID string) *Broadcaster {
	b, ok := h.games[matchID]
	if !ok {
		b = NewBroadcaster()
		h.games[matchID] = b
	}
	return b
}

// Subscribe adds a subscriber to matchID's broadcaster. Lookup and
// subscription happen under the hub lock, so a concurrent Unsubscribe cannot
// drop the broadcaster in between.
func (h *Hub) Subscribe(matchID string) chan Message {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.broadcaster(matchID).Subscribe()
}

// Unsubscribe removes ch from matchID's broadcaster and forgets the
// broadcaster once nobody listens.
func (h *Hub) Unsubscribe(matchID string, ch chan Message) {
	h.mu.Lock()
	defer h.mu.Unlock()
	b, ok := h.games[matchID]
	if !ok {
		return
	}
	b.Unsubscribe(ch)
	if b.Len() == 0 {
		delete(h.games, matchID)
	}
}

// Publish sends msg to matchID's subscribers, if the match has a broadcaster.
func (h *Hub) Publish(matchID string, msg Message) {
	h.mu.Lock()
	b := h.games[matchID]
	h.mu.Unlock()
	if b != nil {
		b.Publish(msg)
	}
}

// Len returns the number of matches with a live broadcaster.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.games)
}
