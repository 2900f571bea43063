package server

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/lox/headsup/internal/game"
	"github.com/lox/headsup/internal/store"
)

// subscriberBuffer bounds how far a slow client may fall behind before it is
// dropped.
const subscriberBuffer = 16

// Hub fans committed snapshots out to websocket subscribers as per-viewer
// views.
type Hub struct {
	logger zerolog.Logger

	mu   sync.Mutex
	subs map[string]map[*subscriber]struct{}
}

type subscriber struct {
	viewerID  string
	send      chan game.View
	closeOnce sync.Once
}

func (s *subscriber) close() {
	s.closeOnce.Do(func() { close(s.send) })
}

var _ Publisher = (*Hub)(nil)

// NewHub creates an empty hub.
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		logger: logger.With().Str("component", "hub").Logger(),
		subs:   make(map[string]map[*subscriber]struct{}),
	}
}

// Subscribe registers viewerID for updates to gameID.
func (h *Hub) Subscribe(gameID, viewerID string) *subscriber {
	sub := &subscriber{viewerID: viewerID, send: make(chan game.View, subscriberBuffer)}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subs[gameID] == nil {
		h.subs[gameID] = make(map[*subscriber]struct{})
	}
	h.subs[gameID][sub] = struct{}{}
	return sub
}

// Unsubscribe removes sub and closes its channel.
func (h *Hub) Unsubscribe(gameID string, sub *subscriber) {
	h.mu.Lock()
	if subs, ok := h.subs[gameID]; ok {
		delete(subs, sub)
		if len(subs) == 0 {
			delete(h.subs, gameID)
		}
	}
	h.mu.Unlock()
	sub.close()
}

// Publish sends each subscriber of the game its own view of snap.
func (h *Hub) Publish(snap store.Snapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for sub := range h.subs[snap.Game.ID] {
		view := game.NewView(snap.Game, snap.Hand, sub.viewerID)
		select {
		case sub.send <- view:
		default:
			h.logger.Warn().
				Str("game_id", snap.Game.ID).
				Str("viewer", sub.viewerID).
				Msg("Subscriber buffer full, dropping connection")
			delete(h.subs[snap.Game.ID], sub)
			sub.close()
		}
	}
}

// Subscribers returns how many connections watch gameID.
func (h *Hub) Subscribers(gameID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[gameID])
}
