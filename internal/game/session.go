package game

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cesargomez89/lyricbot/internal/constants"
	"github.com/cesargomez89/lyricbot/internal/domain"
)

// ErrIncompleteTrack is returned when a round is started for a track that
// lacks an id, title or artist.
var ErrIncompleteTrack = errors.New("track is missing id, title or artist")

// Store is the key-value backend for session state.
type Store interface {
	SetValue(ctx context.Context, key string, value []byte, ttl time.Duration) error
	GetValue(ctx context.Context, key string) ([]byte, error)
	DeleteValue(ctx context.Context, key string) error
	AppendToList(ctx context.Context, key, value string, keep int) error
	ReadList(ctx context.Context, key string) ([]string, error)
	DeleteList(ctx context.Context, key string) error
}

// Sessions owns the per-chat open round, the recent-track memory and the
// last artist query. Nothing is held in memory between calls.
type Sessions struct {
	store    Store
	now      func() time.Time
	ttl      time.Duration
	capacity int
}

func NewSessions(store Store, ttl time.Duration, capacity int) *Sessions {
	return &Sessions{
		store:    store,
		now:      time.Now,
		ttl:      ttl,
		capacity: capacity,
	}
}

func sessionKey(chatID int64) string {
	return constants.SessionKeyPrefix + strconv.FormatInt(chatID, 10)
}

func recentKey(chatID int64) string {
	return constants.RecentKeyPrefix + strconv.FormatInt(chatID, 10)
}

func artistKey(chatID int64) string {
	return constants.ArtistKeyPrefix + strconv.FormatInt(chatID, 10)
}

// StartRound stores a new session for the chat, replacing any open one.
func (m *Sessions) StartRound(ctx context.Context, chatID int64, track domain.Track) (*domain.Session, error) {
	if track.ID == 0 || strings.TrimSpace(track.Title) == "" || strings.TrimSpace(track.Artist) == "" {
		return nil, ErrIncompleteTrack
	}

	session := &domain.Session{
		ChatID:     chatID,
		RoundID:    uuid.NewString(),
		TrackID:    track.ID,
		TrackName:  track.Title,
		ArtistName: track.Artist,
		AlbumName:  track.Album,
		StartedAt:  m.now().UTC(),
	}

	data, err := json.Marshal(session)
	if err != nil {
		return nil, fmt.Errorf("encode session: %w", err)
	}
	if err := m.store.SetValue(ctx, sessionKey(chatID), data, m.ttl); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}
	return session, nil
}

// OpenRound returns the chat's open round or nil when the chat is idle.
// Unreadable records are dropped and treated as idle.
func (m *Sessions) OpenRound(ctx context.Context, chatID int64) (*domain.Session, error) {
	data, err := m.store.GetValue(ctx, sessionKey(chatID))
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if data == nil {
		return nil, nil
	}

	var session domain.Session
	if err := json.Unmarshal(data, &session); err != nil || !session.Open() {
		_ = m.store.DeleteValue(ctx, sessionKey(chatID))
		return nil, nil
	}
	return &session, nil
}

// CloseRound destroys the session once its answer has been scored.
func (m *Sessions) CloseRound(ctx context.Context, chatID int64) error {
	return m.store.DeleteValue(ctx, sessionKey(chatID))
}

// ResetChat returns the chat to idle. Recent tracks and stats are kept.
func (m *Sessions) ResetChat(ctx context.Context, chatID int64) error {
	return m.store.DeleteValue(ctx, sessionKey(chatID))
}

// RecentTracks returns the ids of the last served tracks, oldest first.
func (m *Sessions) RecentTracks(ctx context.Context, chatID int64) ([]int64, error) {
	values, err := m.store.ReadList(ctx, recentKey(chatID))
	if err != nil {
		return nil, fmt.Errorf("load recent tracks: %w", err)
	}
	ids := make([]int64, 0, len(values))
	for _, v := range values {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// RememberTrack appends to the recent-track memory, evicting the oldest
// entry beyond capacity.
func (m *Sessions) RememberTrack(ctx context.Context, chatID, trackID int64) error {
	if m.capacity <= 0 {
		return nil
	}
	return m.store.AppendToList(ctx, recentKey(chatID), strconv.FormatInt(trackID, 10), m.capacity)
}

func (m *Sessions) ForgetTracks(ctx context.Context, chatID int64) error {
	return m.store.DeleteList(ctx, recentKey(chatID))
}

// LastArtist returns the chat's previous artist query, or "".
func (m *Sessions) LastArtist(ctx context.Context, chatID int64) (string, error) {
	data, err := m.store.GetValue(ctx, artistKey(chatID))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (m *Sessions) SetLastArtist(ctx context.Context, chatID int64, artist string) error {
	return m.store.SetValue(ctx, artistKey(chatID), []byte(artist), m.ttl)
}
