package dto

import (
	"time"

	"github.com/cesargomez89/lyricbot/internal/domain"
)

type StatResponse struct {
	UpdatedAt      time.Time `json:"updated_at"`
	Username       string    `json:"username,omitempty"`
	ChatID         int64     `json:"chat_id"`
	Answers        int       `json:"answers"`
	SuccessAnswers int       `json:"success_answers"`
	Accuracy       float64   `json:"accuracy"`
}

func FromStat(s *domain.Stat) StatResponse {
	resp := StatResponse{
		ChatID:         s.ChatID,
		Answers:        s.Answers,
		SuccessAnswers: s.SuccessAnswers,
		Accuracy:       s.Accuracy(),
		UpdatedAt:      s.UpdatedAt,
	}
	if s.Username != nil {
		resp.Username = *s.Username
	}
	return resp
}

func FromStats(stats []*domain.Stat) []StatResponse {
	result := make([]StatResponse, 0, len(stats))
	for _, s := range stats {
		result = append(result, FromStat(s))
	}
	return result
}

type LeaderboardResponse struct {
	Stats []StatResponse `json:"stats"`
	Limit int            `json:"limit"`
}

type HealthResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}
