package game

import (
	"context"
	"errors"
	"fmt"

	"github.com/cesargomez89/lyricbot/internal/domain"
	"github.com/cesargomez89/lyricbot/internal/logger"
)

// ErrNoTrack means the artist query produced nothing playable, either because
// the provider returned no candidates or because all of them were served recently.
var ErrNoTrack = errors.New("no track available")

type TrackSource interface {
	SearchTracksByArtist(ctx context.Context, query string) ([]domain.Track, error)
}

type RecentSource interface {
	RecentTracks(ctx context.Context, chatID int64) ([]int64, error)
}

// Selector picks a random track for an artist, skipping the chat's recent ones.
type Selector struct {
	source TrackSource
	recent RecentSource
	rnd    Rand
	logger *logger.Logger
}

func NewSelector(source TrackSource, recent RecentSource, rnd Rand, log *logger.Logger) *Selector {
	if rnd == nil {
		rnd = DefaultRand()
	}
	if log == nil {
		log = logger.Discard()
	}
	return &Selector{
		source: source,
		recent: recent,
		rnd:    rnd,
		logger: log.WithComponent("selector"),
	}
}

// Select never returns a track from the chat's recent memory; when only
// recent tracks are left it reports ErrNoTrack instead of repeating one.
func (s *Selector) Select(ctx context.Context, chatID int64, query string) (*domain.Track, error) {
	tracks, err := s.source.SearchTracksByArtist(ctx, query)
	if err != nil {
		s.logger.Warn("Track search failed", "chat_id", chatID, "query", query, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrNoTrack, err)
	}
	if len(tracks) == 0 {
		return nil, ErrNoTrack
	}

	recent, err := s.recent.RecentTracks(ctx, chatID)
	if err != nil {
		s.logger.Warn("Recent tracks unavailable", "chat_id", chatID, "error", err)
		recent = nil
	}

	candidates := FilterRecent(tracks, recent)
	if len(candidates) == 0 {
		s.logger.Debug("All candidates served recently", "chat_id", chatID, "query", query, "candidates", len(tracks))
		return nil, ErrNoTrack
	}

	track := candidates[intn(s.rnd, len(candidates))]
	return &track, nil
}

// FilterRecent removes every track whose id appears in recent.
func FilterRecent(tracks []domain.Track, recent []int64) []domain.Track {
	if len(recent) == 0 {
		return tracks
	}
	seen := make(map[int64]struct{}, len(recent))
	for _, id := range recent {
		seen[id] = struct{}{}
	}
	filtered := make([]domain.Track, 0, len(tracks))
	for _, t := range tracks {
		if _, ok := seen[t.ID]; ok {
			continue
		}
		filtered = append(filtered, t)
	}
	return filtered
}
