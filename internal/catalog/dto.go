package catalog

import (
	"encoding/json"
	"strings"

	"github.com/cesargomez89/lyricbot/internal/domain"
)

// envelope is the wrapper every Musixmatch response comes in.
type envelope struct {
	Message struct {
		Header struct {
			StatusCode int `json:"status_code"`
		} `json:"header"`
		Body json.RawMessage `json:"body"`
	} `json:"message"`
}

type APITrack struct {
	TrackName   string `json:"track_name"`
	AlbumName   string `json:"album_name"`
	ArtistName  string `json:"artist_name"`
	TrackID     int64  `json:"track_id"`
	AlbumID     int64  `json:"album_id"`
	ArtistID    int64  `json:"artist_id"`
	TrackRating int    `json:"track_rating"`
	HasLyrics   int    `json:"has_lyrics"`
}

func (t APITrack) ToDomain() domain.Track {
	return domain.Track{
		ID:     t.TrackID,
		Title:  strings.TrimSpace(t.TrackName),
		Artist: strings.TrimSpace(t.ArtistName),
		Album:  strings.TrimSpace(t.AlbumName),
		Rating: float64(t.TrackRating),
	}
}

type APITrackList struct {
	TrackList []struct {
		Track APITrack `json:"track"`
	} `json:"track_list"`
}

// ToDomain drops entries without an id, title or artist; they cannot be played.
func (l APITrackList) ToDomain() []domain.Track {
	tracks := make([]domain.Track, 0, len(l.TrackList))
	for _, item := range l.TrackList {
		track := item.Track.ToDomain()
		if track.ID == 0 || track.Title == "" || track.Artist == "" {
			continue
		}
		tracks = append(tracks, track)
	}
	return tracks
}

type APILyrics struct {
	Lyrics struct {
		LyricsBody string `json:"lyrics_body"`
		LyricsID   int64  `json:"lyrics_id"`
		Explicit   int    `json:"explicit"`
	} `json:"lyrics"`
}
