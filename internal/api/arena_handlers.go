package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	arenaapp "rpg-arena/internal/app/arena"
	"rpg-arena/internal/domain/combat"
)

func (h *Handler) kinds(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"items": arenaapp.Catalog()})
}

func (h *Handler) compare(w http.ResponseWriter, r *http.Request) {
	a, errA := arenaapp.ParseFighter(r.URL.Query().Get("a"))
	b, errB := arenaapp.ParseFighter(r.URL.Query().Get("b"))
	if err := errors.Join(errA, errB); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": err.Error()})
		return
	}
	cmp, err := h.arena.Compare(a, b)
	if err != nil {
		h.writeArenaError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cmp)
}

func (h *Handler) roster(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Fighters []arenaapp.FighterSpec `json:"fighters"`
	}
	if !h.decodeBody(w, r, &req) {
		return
	}
	sum, err := h.arena.Roster(req.Fighters)
	if err != nil {
		h.writeArenaError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

func (h *Handler) createDuel(w http.ResponseWriter, r *http.Request) {
	uid, ok := trainerIDFromCtx(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"error": "unauthorized"})
		return
	}
	var req arenaapp.DuelRequest
	if !h.decodeBody(w, r, &req) {
		return
	}
	out, err := h.arena.RunDuel(r.Context(), uid, req, nil)
	if err != nil {
		h.writeArenaError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

func (h *Handler) createTournament(w http.ResponseWriter, r *http.Request) {
	uid, ok := trainerIDFromCtx(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"error": "unauthorized"})
		return
	}
	var req struct {
		Entrants []arenaapp.FighterSpec `json:"entrants"`
	}
	if !h.decodeBody(w, r, &req) {
		return
	}
	out, err := h.arena.RunTournament(r.Context(), uid, req.Entrants, nil)
	if err != nil {
		h.writeArenaError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

func (h *Handler) listReports(w http.ResponseWriter, r *http.Request) {
	uid, ok := trainerIDFromCtx(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"error": "unauthorized"})
		return
	}
	reports, err := h.arena.Recent(r.Context(), uid, queryLimit(r))
	if err != nil {
		h.logger.Error().Err(err).Str("trainer_id", uid.String()).Msg("list reports failed")
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "internal error"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": reports})
}

func (h *Handler) getReport(w http.ResponseWriter, r *http.Request) {
	uid, ok := trainerIDFromCtx(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"error": "unauthorized"})
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "reportID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid report id"})
		return
	}
	rep, err := h.arena.Report(r.Context(), id)
	if err != nil {
		h.writeArenaError(w, err)
		return
	}
	if rep.TrainerID != uid {
		writeJSON(w, http.StatusForbidden, map[string]any{"error": "forbidden"})
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (h *Handler) leaderboard(w http.ResponseWriter, r *http.Request) {
	top, err := h.arena.Leaderboard(r.Context(), queryLimit(r))
	if err != nil {
		h.logger.Error().Err(err).Msg("leaderboard failed")
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "internal error"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": top})
}

func queryLimit(r *http.Request) int {
	n, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil {
		return 0
	}
	return n
}

// writeArenaError maps arena and combat sentinels onto status codes.
func (h *Handler) writeArenaError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, arenaapp.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]any{"error": err.Error()})
	case errors.Is(err, arenaapp.ErrInvalidFighter),
		errors.Is(err, arenaapp.ErrInvalidMode),
		errors.Is(err, arenaapp.ErrNoEntrants),
		errors.Is(err, arenaapp.ErrTooManyEntrants):
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": err.Error()})
	case errors.Is(err, combat.ErrInvalidMatchup):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"error": err.Error()})
	default:
		h.logger.Error().Err(err).Msg("arena request failed")
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "internal error"})
	}
}
