package dto

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cesargomez89/lyricbot/internal/constants"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func ToMap(errs []ValidationError) map[string]string {
	result := make(map[string]string)
	for _, e := range errs {
		result[e.Field] = e.Message
	}
	return result
}

func ToResponse(errs []ValidationError) string {
	var msgs []string
	for _, e := range errs {
		msgs = append(msgs, e.Error())
	}
	return strings.Join(msgs, "; ")
}

// ParseLimit reads the leaderboard size. Empty means the default.
func ParseLimit(raw string) (int, []ValidationError) {
	if raw == "" {
		return constants.DefaultStatsLimit, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil {
		return 0, []ValidationError{{Field: "limit", Message: "must be a number"}}
	}
	if limit < 1 || limit > constants.MaxStatsLimit {
		return 0, []ValidationError{{Field: "limit", Message: fmt.Sprintf("must be between 1 and %d", constants.MaxStatsLimit)}}
	}
	return limit, nil
}

// ParseChatID accepts negative ids, which Telegram uses for groups.
func ParseChatID(raw string) (int64, []ValidationError) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, []ValidationError{{Field: "chat_id", Message: "must be a non-zero integer"}}
	}
	return id, nil
}
