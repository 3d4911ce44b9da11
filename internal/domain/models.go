package domain

import (
	"time"
)

// Track is a catalog entry returned by the content provider.
type Track struct {
	Album  string  `json:"album,omitempty"`
	Title  string  `json:"title"`
	Artist string  `json:"artist"`
	ID     int64   `json:"id"`
	Rating float64 `json:"rating"`
}

// Session is the open round of a chat. A chat without a session is idle.
type Session struct {
	StartedAt  time.Time `json:"started_at"`
	RoundID    string    `json:"round_id"`
	TrackName  string    `json:"track_name"`
	ArtistName string    `json:"artist_name"`
	AlbumName  string    `json:"album_name,omitempty"`
	ChatID     int64     `json:"chat_id"`
	TrackID    int64     `json:"track_id"`
}

// Open reports whether the session holds a puzzle awaiting an answer.
func (s *Session) Open() bool {
	return s != nil && s.TrackID != 0 && s.TrackName != "" && s.ArtistName != ""
}

// Stat is the durable per-chat answer counter.
type Stat struct {
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
	Username       *string   `json:"username,omitempty" db:"username"`
	ChatID         int64     `json:"chat_id" db:"chat_id"`
	Answers        int       `json:"answers" db:"answers"`
	SuccessAnswers int       `json:"success_answers" db:"success_answers"`
}

// Accuracy returns the share of correct answers in percent.
func (s *Stat) Accuracy() float64 {
	if s == nil || s.Answers == 0 {
		return 0
	}
	return float64(s.SuccessAnswers) * 100 / float64(s.Answers)
}

// Tier is the classification of a scored guess.
type Tier string

const (
	TierFail      Tier = "fail"
	TierAmbiguous Tier = "ambiguous"
	TierSuccess   Tier = "success"
)
