package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/lox/headsup/internal/config"
	"github.com/lox/headsup/internal/game"
)

// PlayerHeader carries the authenticated player id, set by the host's session
// layer in front of this handler.
const PlayerHeader = "X-Player-ID"

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 512
)

// Handler is the HTTP and websocket adapter over a Service.
type Handler struct {
	service  *Service
	hub      *Hub
	tables   []config.TableConfig
	logger   zerolog.Logger
	upgrader websocket.Upgrader
}

// NewHandler builds the adapter. tables supply stakes for games created by
// table name; the first one is the default.
func NewHandler(service *Service, hub *Hub, tables []config.TableConfig, logger zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		hub:     hub,
		tables:  tables,
		logger:  logger.With().Str("component", "http").Logger(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Routes returns the adapter's mux.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", h.handleHealth)
	mux.HandleFunc("POST /games", h.handleCreateGame)
	mux.HandleFunc("GET /games/{id}", h.handleView)
	mux.HandleFunc("POST /games/{id}/hands", h.handleStartHand)
	mux.HandleFunc("GET /games/{id}/hands", h.handleHands)
	mux.HandleFunc("POST /games/{id}/actions", h.handleAction)
	mux.HandleFunc("GET /games/{id}/hands/{handID}/phh", h.handleHandHistory)
	mux.HandleFunc("GET /games/{id}/ws", h.handleWebSocket)
	return mux
}

type createGameRequest struct {
	CreateGameParams
	Table string `json:"table,omitempty"`
}

type actionRequest struct {
	Action string `json:"action"`
	Amount int    `json:"amount,omitempty"`
}

type errorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	var req createGameRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	params := req.CreateGameParams
	if params.SmallBlind == 0 && params.BigBlind == 0 {
		table, ok := h.table(req.Table)
		if !ok {
			writeError(w, http.StatusBadRequest, "unknown table")
			return
		}
		params.SmallBlind, params.BigBlind = table.SmallBlind, table.BigBlind
		if params.StartingChips == 0 {
			params.StartingChips = table.StartingChips
		}
	}

	g, err := h.service.CreateGame(r.Context(), params)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, game.NewView(g, nil, ""))
}

func (h *Handler) table(name string) (config.TableConfig, bool) {
	if len(h.tables) == 0 {
		return config.TableConfig{}, false
	}
	if name == "" {
		return h.tables[0], true
	}
	for _, t := range h.tables {
		if t.Name == name {
			return t, true
		}
	}
	return config.TableConfig{}, false
}

func (h *Handler) handleView(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.View(r.Context(), r.PathValue("id"), r.Header.Get(PlayerHeader))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) handleStartHand(w http.ResponseWriter, r *http.Request) {
	player, ok := h.player(w, r)
	if !ok {
		return
	}
	g, hand, err := h.service.StartHand(r.Context(), r.PathValue("id"), player)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, game.NewView(g, &hand, player))
}

func (h *Handler) handleHands(w http.ResponseWriter, r *http.Request) {
	views, err := h.service.HandViews(r.Context(), r.PathValue("id"), r.Header.Get(PlayerHeader))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *Handler) handleAction(w http.ResponseWriter, r *http.Request) {
	player, ok := h.player(w, r)
	if !ok {
		return
	}
	var req actionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	action, err := game.ParseAction(req.Action, req.Amount)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	g, hand, err := h.service.SubmitAction(r.Context(), r.PathValue("id"), player, action)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, game.NewView(g, &hand, player))
}

func (h *Handler) handleHandHistory(w http.ResponseWriter, r *http.Request) {
	player, ok := h.player(w, r)
	if !ok {
		return
	}
	data, err := h.service.HandHistory(r.Context(), r.PathValue("id"), r.PathValue("handID"), player)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/toml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	gameID := r.PathValue("id")
	viewer := r.Header.Get(PlayerHeader)
	view, err := h.service.View(r.Context(), gameID, viewer)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to upgrade connection")
		return
	}
	sub := h.hub.Subscribe(gameID, viewer)
	sub.send <- view

	go h.writePump(conn, sub)
	h.readPump(conn)
	h.hub.Unsubscribe(gameID, sub)
}

// readPump discards client messages and returns when the connection drops.
func (h *Handler) readPump(conn *websocket.Conn) {
	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug().Err(err).Msg("WebSocket read error")
			}
			return
		}
	}
}

// writePump sends views and pings until the subscription closes.
func (h *Handler) writePump(conn *websocket.Conn, sub *subscriber) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = conn.Close()
	}()

	for {
		select {
		case view, ok := <-sub.send:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteJSON(view); err != nil {
				h.logger.Debug().Err(err).Msg("Failed to write view")
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *Handler) player(w http.ResponseWriter, r *http.Request) (string, bool) {
	player := r.Header.Get(PlayerHeader)
	if player == "" {
		h.fail(w, r, ErrUnauthenticated)
		return "", false
	}
	return player, true
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.logger.Error().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Msg("Request failed")
	}
	resp := errorResponse{Error: reason(err)}
	var re *game.RejectionError
	if errors.As(err, &re) {
		resp.Detail = re.Detail
	}
	writeJSON(w, status, resp)
}

func decodeJSON(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
