package httpapp

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cesargomez89/lyricbot/internal/http/dto"
)

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.Stats.PingContext(r.Context()); err != nil {
		h.Logger.Error("Health check failed", "error", err)
		h.writeJSON(w, http.StatusServiceUnavailable, dto.HealthResponse{Status: "unavailable", Error: err.Error()})
		return
	}
	h.writeJSON(w, http.StatusOK, dto.HealthResponse{Status: "ok"})
}

func (h *Handler) ListStats(w http.ResponseWriter, r *http.Request) {
	limit, errs := dto.ParseLimit(r.URL.Query().Get("limit"))
	if len(errs) > 0 {
		h.writeValidation(w, errs)
		return
	}

	stats, err := h.Stats.TopStats(r.Context(), limit)
	if err != nil {
		h.Logger.Error("Failed to list stats", "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to list stats")
		return
	}

	h.writeJSON(w, http.StatusOK, dto.LeaderboardResponse{
		Stats: dto.FromStats(stats),
		Limit: limit,
	})
}

func (h *Handler) GetStat(w http.ResponseWriter, r *http.Request) {
	chatID, errs := dto.ParseChatID(chi.URLParam(r, "chatID"))
	if len(errs) > 0 {
		h.writeValidation(w, errs)
		return
	}

	stat, err := h.Stats.FindStatByChatID(r.Context(), chatID)
	if err != nil {
		h.Logger.Error("Failed to load stat", "chat_id", chatID, "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to load stat")
		return
	}
	if stat == nil {
		h.writeError(w, http.StatusNotFound, "chat not found")
		return
	}

	h.writeJSON(w, http.StatusOK, dto.FromStat(stat))
}
