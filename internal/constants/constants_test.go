package constants

import (
	"strings"
	"testing"
	"time"
)

func TestDefaultValues(t *testing.T) {
	if DefaultHTTPPort != "8080" {
		t.Errorf("Expected DefaultHTTPPort to be '8080', got '%s'", DefaultHTTPPort)
	}

	if DefaultDBPath != "lyricbot.db" {
		t.Errorf("Expected DefaultDBPath to be 'lyricbot.db', got '%s'", DefaultDBPath)
	}

	if DefaultProvider != ProviderMusixmatch {
		t.Errorf("Expected DefaultProvider to be '%s', got '%s'", ProviderMusixmatch, DefaultProvider)
	}

	if !strings.HasPrefix(DefaultMusixmatchHost, "https://") {
		t.Errorf("Expected DefaultMusixmatchHost to use https, got '%s'", DefaultMusixmatchHost)
	}
}

func TestTimeouts(t *testing.T) {
	if DefaultProviderTimeout != 1*time.Second {
		t.Errorf("Expected DefaultProviderTimeout to be 1 second, got %v", DefaultProviderTimeout)
	}

	if DefaultSessionTTL != 6*time.Hour {
		t.Errorf("Expected DefaultSessionTTL to be 6 hours, got %v", DefaultSessionTTL)
	}

	if DefaultLyricsCacheTTL != 6*time.Hour {
		t.Errorf("Expected DefaultLyricsCacheTTL to be 6 hours, got %v", DefaultLyricsCacheTTL)
	}
}

func TestGameLimits(t *testing.T) {
	if DefaultRecentTracks != 3 {
		t.Errorf("Expected DefaultRecentTracks to be 3, got %d", DefaultRecentTracks)
	}

	if DefaultPageSize != 30 {
		t.Errorf("Expected DefaultPageSize to be 30, got %d", DefaultPageSize)
	}

	if LyricsTrailerLines != 3 || MinFragmentLineLen != 5 || MaxFragmentLines != 4 {
		t.Errorf("Unexpected fragment limits: trailer=%d minLen=%d maxLines=%d",
			LyricsTrailerLines, MinFragmentLineLen, MaxFragmentLines)
	}
}

func TestThresholds(t *testing.T) {
	if DefaultSuccessThreshold >= DefaultFailThreshold {
		t.Errorf("Expected success threshold %f below fail threshold %f", DefaultSuccessThreshold, DefaultFailThreshold)
	}
}

func TestKeyPrefixes(t *testing.T) {
	prefixes := []string{
		SessionKeyPrefix,
		RecentKeyPrefix,
		ArtistKeyPrefix,
		LyricsKeyPrefix,
	}

	seen := make(map[string]bool)
	for _, p := range prefixes {
		if !strings.HasSuffix(p, ":") {
			t.Errorf("Key prefix %s should end with :", p)
		}
		if seen[p] {
			t.Errorf("Duplicate key prefix %s", p)
		}
		seen[p] = true
	}
}
