package game

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/cesargomez89/lyricbot/internal/constants"
)

// ErrNoFragment means the lyrics contain no presentable excerpt.
var ErrNoFragment = errors.New("no usable lyric fragment")

// Extractor cuts a short excerpt out of raw lyric text.
type Extractor struct {
	rnd          Rand
	TrailerLines int
	MinLineLen   int
	MaxLines     int
}

func NewExtractor(rnd Rand) *Extractor {
	if rnd == nil {
		rnd = DefaultRand()
	}
	return &Extractor{
		rnd:          rnd,
		TrailerLines: constants.LyricsTrailerLines,
		MinLineLen:   constants.MinFragmentLineLen,
		MaxLines:     constants.MaxFragmentLines,
	}
}

// Extract drops the provider trailer, then collects up to MaxLines
// consecutive lines starting at a random offset. A short line resets the
// collected run. When the random start yields nothing the scan is repeated
// from the first line.
func (e *Extractor) Extract(lyrics string) (string, error) {
	lines := strings.Split(strings.ReplaceAll(lyrics, "\r\n", "\n"), "\n")
	if len(lines) <= e.TrailerLines {
		return "", ErrNoFragment
	}
	lines = lines[:len(lines)-e.TrailerLines]

	start := intn(e.rnd, len(lines)-e.MaxLines)
	if fragment := e.collect(lines, start); fragment != "" {
		return fragment, nil
	}
	if start > 0 {
		if fragment := e.collect(lines, 0); fragment != "" {
			return fragment, nil
		}
	}
	return "", ErrNoFragment
}

func (e *Extractor) collect(lines []string, from int) string {
	result := make([]string, 0, e.MaxLines)
	for _, line := range lines[from:] {
		if len(result) >= e.MaxLines {
			break
		}
		line = strings.TrimSpace(line)
		if utf8.RuneCountInString(line) < e.MinLineLen {
			result = result[:0]
			continue
		}
		result = append(result, line)
	}
	return strings.Join(result, "\n")
}
