package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cesargomez89/lyricbot/internal/constants"
	"github.com/cesargomez89/lyricbot/internal/domain"
)

var musixmatchLogger = slog.Default().WithGroup("musixmatch")

type MusixmatchProvider struct {
	Client   *http.Client
	BaseURL  string
	APIKey   string
	PageSize int
}

func NewMusixmatchProvider(baseURL, apiKey string, timeout time.Duration) *MusixmatchProvider {
	if timeout <= 0 {
		timeout = constants.DefaultProviderTimeout
	}
	return &MusixmatchProvider{
		BaseURL:  strings.TrimRight(baseURL, "/"),
		APIKey:   apiKey,
		PageSize: constants.DefaultPageSize,
		Client:   &http.Client{Timeout: timeout},
	}
}

// SearchTracksByArtist returns the artist's best rated tracks that have lyrics.
func (p *MusixmatchProvider) SearchTracksByArtist(ctx context.Context, query string) ([]domain.Track, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}

	params := url.Values{}
	params.Set("q_artist", query)
	params.Set("s_track_rating", "desc")
	params.Set("page_size", strconv.Itoa(p.PageSize))
	params.Set("f_has_lyrics", "1")

	var resp APITrackList
	if err := p.get(ctx, "/track.search", params, &resp); err != nil {
		return nil, err
	}
	return resp.ToDomain(), nil
}

func (p *MusixmatchProvider) GetLyrics(ctx context.Context, trackID int64) (string, error) {
	params := url.Values{}
	params.Set("track_id", strconv.FormatInt(trackID, 10))

	var resp APILyrics
	if err := p.get(ctx, "/track.lyrics.get", params, &resp); err != nil {
		return "", err
	}
	if strings.TrimSpace(resp.Lyrics.LyricsBody) == "" {
		return "", ErrNotFound
	}
	return resp.Lyrics.LyricsBody, nil
}

func (p *MusixmatchProvider) get(ctx context.Context, path string, params url.Values, target interface{}) error {
	musixmatchLogger.Debug("API request", "path", path, "base_url", p.BaseURL)

	params.Set("apikey", p.APIKey)
	u := p.BaseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}

	resp, err := p.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("API request failed: %s", resp.Status)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}

	switch status := env.Message.Header.StatusCode; {
	case status == http.StatusNotFound:
		return ErrNotFound
	case status != 0 && status != http.StatusOK:
		return fmt.Errorf("API %s returned status %d", path, status)
	}

	// Errors come back with an empty string or array instead of an object.
	body := bytes.TrimSpace(env.Message.Body)
	if len(body) == 0 || body[0] != '{' {
		return ErrNotFound
	}

	if err := json.Unmarshal(body, target); err != nil {
		return fmt.Errorf("decode %s body: %w", path, err)
	}
	return nil
}

var _ Provider = (*MusixmatchProvider)(nil)
