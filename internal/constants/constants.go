// Package constants contains application-wide constants to avoid magic numbers and strings.
package constants

import "time"

// Application defaults
const (
	DefaultHTTPPort        = "8080"
	DefaultDBPath          = "lyricbot.db"
	DefaultProvider        = ProviderMusixmatch
	DefaultMusixmatchHost  = "https://api.musixmatch.com/ws/1.1"
	DefaultProviderTimeout = 1 * time.Second
	DefaultSessionTTL      = 6 * time.Hour
	DefaultLyricsCacheTTL  = 6 * time.Hour
	DefaultPageSize        = 30
	DefaultRecentTracks    = 3
	DefaultPurgeSchedule   = "@every 30m"
	DefaultShutdownTimeout = 5 * time.Second
	DefaultPollTimeout     = 30
)

// Providers
const (
	ProviderMusixmatch = "musixmatch"
	ProviderMock       = "mock"
)

// Scoring thresholds. A distance above FailThreshold fails, below
// SuccessThreshold succeeds, anything in between is a near miss.
const (
	DefaultFailThreshold    = 0.6
	DefaultSuccessThreshold = 0.4
)

// Fragment extraction
const (
	LyricsTrailerLines = 3
	MinFragmentLineLen = 5
	MaxFragmentLines   = 4
)

// Session store keys
const (
	SessionKeyPrefix = "chats:"
	RecentKeyPrefix  = "tracks:recent:"
	ArtistKeyPrefix  = "artist:"
	LyricsKeyPrefix  = "lyrics:"
)

// HTTP API
const (
	DefaultStatsLimit = 10
	MaxStatsLimit     = 100
)
