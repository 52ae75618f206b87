package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	arenaapp "rpg-arena/internal/app/arena"
	"rpg-arena/internal/domain/combat"
)

const (
	wsReadLimit    = 64 * 1024
	wsPongWait     = 60 * time.Second
	wsPingInterval = 20 * time.Second
	wsWriteWait    = 10 * time.Second
	wsSendBuffer   = 256
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(_ *http.Request) bool {
		return true
	},
}

type wsClient struct {
	conn      *websocket.Conn
	trainerID uuid.UUID
	send      chan []byte
	done      chan struct{}
}

type wsRequest struct {
	Type     string                 `json:"type"`
	Mode     arenaapp.Mode          `json:"mode"`
	Fighter1 arenaapp.FighterSpec   `json:"fighter1"`
	Fighter2 arenaapp.FighterSpec   `json:"fighter2"`
	Entrants []arenaapp.FighterSpec `json:"entrants"`
}

type wsMessage struct {
	Type    string        `json:"type"`
	Event   *combat.Event `json:"event,omitempty"`
	Payload any           `json:"payload,omitempty"`
	Message string        `json:"message,omitempty"`
}

// arenaWS lets a trainer run duels and tournaments over a socket, receiving a
// "round" message per attack and a final "result".
func (h *Handler) arenaWS(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		token = bearerToken(r)
	}
	if token == "" {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"error": "missing token"})
		return
	}
	uid, err := h.auth.ParseToken(token)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"error": "invalid token"})
		return
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := &wsClient{
		conn:      conn,
		trainerID: uid,
		send:      make(chan []byte, wsSendBuffer),
		done:      make(chan struct{}),
	}
	h.logger.Info().Str("trainer_id", uid.String()).Msg("arena socket opened")
	go h.writePump(client)
	h.readPump(r.Context(), client)
}

func (h *Handler) readPump(ctx context.Context, client *wsClient) {
	defer func() {
		close(client.send)
		h.logger.Info().Str("trainer_id", client.trainerID.String()).Msg("arena socket closed")
	}()
	client.conn.SetReadLimit(wsReadLimit)
	_ = client.conn.SetReadDeadline(time.Now().Add(wsPongWait))
	client.conn.SetPongHandler(func(string) error {
		return client.conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	for {
		var req wsRequest
		if err := client.conn.ReadJSON(&req); err != nil {
			return
		}
		obs := combat.ObserverFunc(func(e combat.Event) {
			client.push(wsMessage{Type: "round", Event: &e})
		})

		switch req.Type {
		case "duel":
			out, err := h.arena.RunDuel(ctx, client.trainerID, arenaapp.DuelRequest{
				Mode: req.Mode, Fighter1: req.Fighter1, Fighter2: req.Fighter2,
			}, obs)
			h.reply(client, out, err)
		case "tournament":
			out, err := h.arena.RunTournament(ctx, client.trainerID, req.Entrants, obs)
			h.reply(client, out, err)
		default:
			client.push(wsMessage{Type: "error", Message: "unknown message type"})
		}
	}
}

func (h *Handler) reply(client *wsClient, payload any, err error) {
	if err != nil {
		msg := "internal error"
		if !errors.Is(err, combat.ErrInvalidMatchup) && !isArenaClientError(err) {
			h.logger.Error().Err(err).Msg("arena socket request failed")
		} else {
			msg = err.Error()
		}
		client.push(wsMessage{Type: "error", Message: msg})
		return
	}
	client.push(wsMessage{Type: "result", Payload: payload})
}

func isArenaClientError(err error) bool {
	return errors.Is(err, arenaapp.ErrInvalidFighter) ||
		errors.Is(err, arenaapp.ErrInvalidMode) ||
		errors.Is(err, arenaapp.ErrNoEntrants) ||
		errors.Is(err, arenaapp.ErrTooManyEntrants)
}

// push blocks while the writer drains; it gives up once the writer has gone.
func (c *wsClient) push(m wsMessage) {
	b, err := json.Marshal(m)
	if err != nil {
		return
	}
	select {
	case c.send <- b:
	case <-c.done:
	}
}

func (h *Handler) writePump(client *wsClient) {
	ticker := time.NewTicker(wsPingInterval)
	defer func() {
		ticker.Stop()
		close(client.done)
		client.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-client.send:
			_ = client.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if !ok {
				_ = client.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := client.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = client.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := client.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
