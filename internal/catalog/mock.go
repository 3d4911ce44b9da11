package catalog

import (
	"context"
	"strings"

	"github.com/cesargomez89/lyricbot/internal/domain"
)

// MockProvider serves a small fixed catalog. Used with PROVIDER=mock and in tests.
type MockProvider struct {
	Tracks []domain.Track
	Lyrics map[int64]string
}

func NewMockProvider() *MockProvider {
	return &MockProvider{
		Tracks: []domain.Track{
			{ID: 1, Title: "Mock Track", Artist: "Mock Artist", Album: "Mock Album", Rating: 90},
			{ID: 2, Title: "Second Mock", Artist: "Mock Artist", Album: "Second Mock", Rating: 80},
			{ID: 3, Title: "Third Mock", Artist: "Mock Artist", Rating: 70},
		},
		Lyrics: map[int64]string{
			1: mockLyrics,
			2: mockLyrics,
			3: mockLyrics,
		},
	}
}

func (p *MockProvider) SearchTracksByArtist(ctx context.Context, query string) ([]domain.Track, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil, nil
	}
	var tracks []domain.Track
	for _, t := range p.Tracks {
		if strings.Contains(strings.ToLower(t.Artist), query) {
			tracks = append(tracks, t)
		}
	}
	return tracks, nil
}

func (p *MockProvider) GetLyrics(ctx context.Context, trackID int64) (string, error) {
	lyrics, ok := p.Lyrics[trackID]
	if !ok {
		return "", ErrNotFound
	}
	return lyrics, nil
}

var _ Provider = (*MockProvider)(nil)

const mockLyrics = `[Verse 1]
Mock lyrics for testing the game
Every line is long enough to show
Nobody sings it quite the same
Until the morning lights come slow

[Chorus]
Oh oh
Mock lyrics for testing again
...

******* This Lyrics is NOT for Commercial use *******
(1409623476122)`
