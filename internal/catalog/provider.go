package catalog

import (
	"context"
	"errors"

	"github.com/cesargomez89/lyricbot/internal/domain"
)

// ErrNotFound is returned when the provider has no data for the request.
var ErrNotFound = errors.New("not found")

type Provider interface {
	SearchTracksByArtist(ctx context.Context, query string) ([]domain.Track, error)
	GetLyrics(ctx context.Context, trackID int64) (string, error)
}
