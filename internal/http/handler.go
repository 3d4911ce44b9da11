package httpapp

import (
	"context"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/cesargomez89/lyricbot/internal/domain"
	"github.com/cesargomez89/lyricbot/internal/logger"
)

// StatsReader is the read side of the statistics store.
type StatsReader interface {
	PingContext(ctx context.Context) error
	TopStats(ctx context.Context, limit int) ([]*domain.Stat, error)
	FindStatByChatID(ctx context.Context, chatID int64) (*domain.Stat, error)
}

type Handler struct {
	Stats  StatsReader
	Logger *logger.Logger
}

func NewHandler(stats StatsReader, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.Default()
	}
	return &Handler{
		Stats:  stats,
		Logger: log.WithComponent("http"),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/healthz", h.Health)
	r.Route("/api/stats", func(r chi.Router) {
		r.Get("/", h.ListStats)
		r.Get("/{chatID}", h.GetStat)
	})
}

// NewRouter returns the ops router with the standard middleware stack.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	h.RegisterRoutes(r)
	return r
}
