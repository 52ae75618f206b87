package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	arenaapp "rpg-arena/internal/app/arena"
	authapp "rpg-arena/internal/app/auth"
)

type Handler struct {
	logger      zerolog.Logger
	auth        *authapp.Service
	arena       *arenaapp.Service
	ready       func(context.Context) error
	corsOrigin  string
	maxBodySize int64
}

type contextKey string

const trainerIDContextKey contextKey = "trainer_id"

// NewHandler wires the HTTP surface. ready may be nil, in which case /readyz
// always reports ready.
func NewHandler(logger zerolog.Logger, auth *authapp.Service, arena *arenaapp.Service, ready func(context.Context) error, corsOrigin string, maxBodySize int64) *Handler {
	return &Handler{logger: logger, auth: auth, arena: arena, ready: ready, corsOrigin: corsOrigin, maxBodySize: maxBodySize}
}

func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(h.cors)

	r.Get("/healthz", h.health)
	r.Get("/readyz", h.readiness)

	r.Route("/v1", func(v1 chi.Router) {
		// The websocket outlives any request timeout.
		v1.Get("/arena/ws", h.arenaWS)

		v1.Group(func(api chi.Router) {
			api.Use(middleware.Timeout(20 * time.Second))
			api.Post("/auth/register", h.register)
			api.Post("/auth/login", h.login)
			api.Get("/kinds", h.kinds)
			api.Get("/compare", h.compare)
			api.Post("/roster", h.roster)

			api.Group(func(protected chi.Router) {
				protected.Use(h.authMiddleware)
				protected.Post("/duels", h.createDuel)
				protected.Post("/tournaments", h.createTournament)
				protected.Get("/reports", h.listReports)
				protected.Get("/reports/{reportID}", h.getReport)
				protected.Get("/leaderboard", h.leaderboard)
			})
		})
	})

	return r
}

func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func (h *Handler) readiness(w http.ResponseWriter, r *http.Request) {
	if h.ready != nil {
		if err := h.ready(r.Context()); err != nil {
			h.logger.Warn().Err(err).Msg("readiness check failed")
			writeJSON(w, http.StatusServiceUnavailable, map[string]any{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ready"})
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !h.decodeBody(w, r, &req) {
		return
	}
	res, err := h.auth.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, authapp.ErrEmailInUse):
			writeJSON(w, http.StatusConflict, map[string]any{"error": err.Error()})
		case errors.Is(err, authapp.ErrInvalidEmail), errors.Is(err, authapp.ErrWeakPassword):
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": err.Error()})
		default:
			h.logger.Error().Err(err).Msg("register failed")
			writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "internal error"})
		}
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !h.decodeBody(w, r, &req) {
		return
	}
	res, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if !errors.Is(err, authapp.ErrInvalidCredentials) {
			h.logger.Error().Err(err).Msg("login failed")
		}
		writeJSON(w, http.StatusUnauthorized, map[string]any{"error": "invalid credentials"})
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func bearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
}

func (h *Handler) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"error": "missing bearer token"})
			return
		}
		uid, err := h.auth.ParseToken(token)
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"error": "invalid token"})
			return
		}
		ctx := context.WithValue(r.Context(), trainerIDContextKey, uid)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func trainerIDFromCtx(ctx context.Context) (uuid.UUID, bool) {
	v := ctx.Value(trainerIDContextKey)
	uid, ok := v.(uuid.UUID)
	return uid, ok
}

func (h *Handler) cors(next http.Handler) http.Handler {
	origin := h.corsOrigin
	if origin == "" {
		origin = "*"
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization,Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid json"})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
