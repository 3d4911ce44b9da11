package game

import (
	"errors"
	"strings"
	"testing"
)

type fixedRand struct {
	v int
}

func (f fixedRand) IntN(n int) int { return f.v % n }

var trailer = []string{"...", "******* This Lyrics is NOT for Commercial use *******", "(1409617829183)"}

func lyricsOf(lines ...string) string {
	return strings.Join(append(lines, trailer...), "\n")
}

func TestExtract_RandomStart(t *testing.T) {
	lyrics := lyricsOf(
		"line zero here", "line one here", "line two here", "line three here",
		"line four here", "line five here", "line six here", "line seven here",
	)

	e := NewExtractor(fixedRand{v: 2})
	got, err := e.Extract(lyrics)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	want := "line two here\nline three here\nline four here\nline five here"
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestExtract_ShortLineResetsRun(t *testing.T) {
	lyrics := lyricsOf(
		"first line", "second line", "ok", "third line",
		"fourth line", "fifth line", "sixth line",
	)

	e := NewExtractor(fixedRand{v: 0})
	got, err := e.Extract(lyrics)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	want := "third line\nfourth line\nfifth line\nsixth line"
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestExtract_FallsBackToFirstLine(t *testing.T) {
	lyrics := lyricsOf(
		"alpha line", "beta line", "gamma line", "delta line",
		"ab", "cd", "ef", "gh", "ij",
	)

	e := NewExtractor(fixedRand{v: 4})
	got, err := e.Extract(lyrics)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	want := "alpha line\nbeta line\ngamma line\ndelta line"
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestExtract_TrimsAndHandlesCRLF(t *testing.T) {
	lyrics := "  hello there  \r\n\tgeneral kenobi\r\n" + strings.Join(trailer, "\r\n")

	got, err := NewExtractor(fixedRand{}).Extract(lyrics)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if got != "hello there\ngeneral kenobi" {
		t.Errorf("Unexpected fragment %q", got)
	}
}

func TestExtract_NeverIncludesTrailer(t *testing.T) {
	lyrics := lyricsOf("only real line", "another real line")

	for i := 0; i < 10; i++ {
		got, err := NewExtractor(fixedRand{v: i}).Extract(lyrics)
		if err != nil {
			t.Fatalf("Extract failed: %v", err)
		}
		if strings.Contains(got, "Commercial") || strings.Contains(got, "1409617829183") {
			t.Errorf("Fragment contains trailer: %q", got)
		}
		if len(strings.Split(got, "\n")) > 4 {
			t.Errorf("Fragment has too many lines: %q", got)
		}
	}
}

func TestExtract_NoFragment(t *testing.T) {
	tests := []struct {
		name   string
		lyrics string
	}{
		{name: "empty", lyrics: ""},
		{name: "trailer only", lyrics: strings.Join(trailer, "\n")},
		{name: "all lines short", lyrics: lyricsOf("la", "la la", "oh", "yeah")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewExtractor(fixedRand{v: 1}).Extract(tt.lyrics)
			if !errors.Is(err, ErrNoFragment) {
				t.Errorf("Expected ErrNoFragment, got %v", err)
			}
		})
	}
}

func TestSeededRandIsReproducible(t *testing.T) {
	a := NewSeededRand(42)
	b := NewSeededRand(42)
	for i := 0; i < 20; i++ {
		if x, y := a.IntN(100), b.IntN(100); x != y {
			t.Fatalf("Expected identical sequences, got %d and %d at %d", x, y, i)
		}
	}
}
