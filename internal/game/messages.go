package game

import (
	"fmt"
	"strings"

	"github.com/cesargomez89/lyricbot/internal/domain"
)

// Answer is what a response template can mention about the solved round.
type Answer struct {
	Track  string
	Artist string
	Album  string
}

// albumWorthMentioning is false for singles whose album is named after the track.
func (a Answer) albumWorthMentioning() bool {
	album := strings.TrimSpace(a.Album)
	return album != "" && !strings.Contains(strings.ToLower(album), strings.ToLower(a.Track))
}

type template func(a Answer) string

var failTemplates = []template{
	func(a Answer) string {
		return fmt.Sprintf("Looks like you should listen to *%s* again ☹️\nThe right answer is *%s*", a.Artist, a.Track)
	},
	func(a Answer) string {
		return fmt.Sprintf("Hmm...\nDidn't expect that from you 😡\nThe right answer: *%s - %s*", a.Artist, a.Track)
	},
	func(a Answer) string {
		return fmt.Sprintf("Oh, *%s* would be disappointed 😿\nThe right answer is *%s*", a.Artist, a.Track)
	},
}

var successTemplates = []template{
	func(a Answer) string {
		return fmt.Sprintf("Well done 💥, that really is *%s* - *%s*", a.Artist, a.Track)
	},
	func(a Answer) string {
		return fmt.Sprintf("Correct 🔥, it's *%s* by *%s*", a.Track, a.Artist)
	},
	func(a Answer) string {
		return fmt.Sprintf("Exactly 🎯, *%s* - *%s*", a.Artist, a.Track)
	},
}

var successAlbumTemplates = []template{
	func(a Answer) string {
		return fmt.Sprintf("Correct 🔥, it's *%s* from the album *%s*", a.Track, a.Album)
	},
	func(a Answer) string {
		return fmt.Sprintf("Well done 💥, *%s* - *%s*, off *%s*", a.Artist, a.Track, a.Album)
	},
	func(a Answer) string {
		return fmt.Sprintf("Exactly 🎯, *%s* from *%s* by *%s*", a.Track, a.Album, a.Artist)
	},
}

// Render is the pure part of response generation: the tier and the template
// index fully determine the text. index is taken modulo the table size.
func Render(tier domain.Tier, index int, a Answer) string {
	switch tier {
	case domain.TierSuccess:
		table := successTemplates
		if a.albumWorthMentioning() {
			table = successAlbumTemplates
		}
		return pick(table, index)(a)
	case domain.TierAmbiguous:
		return fmt.Sprintf("You probably meant *%s*\nThat's the right answer 😏", a.Track)
	default:
		return pick(failTemplates, index)(a)
	}
}

// TemplateCount reports how many variants a tier has for the answer.
func TemplateCount(tier domain.Tier, a Answer) int {
	switch tier {
	case domain.TierSuccess:
		if a.albumWorthMentioning() {
			return len(successAlbumTemplates)
		}
		return len(successTemplates)
	case domain.TierAmbiguous:
		return 1
	default:
		return len(failTemplates)
	}
}

func pick(table []template, index int) template {
	i := index % len(table)
	if i < 0 {
		i += len(table)
	}
	return table[i]
}

// Responder picks templates at random.
type Responder struct {
	rnd Rand
}

func NewResponder(rnd Rand) *Responder {
	if rnd == nil {
		rnd = DefaultRand()
	}
	return &Responder{rnd: rnd}
}

func (r *Responder) Answer(tier domain.Tier, a Answer) string {
	return Render(tier, intn(r.rnd, TemplateCount(tier, a)), a)
}

// Fixed texts for the non-scoring replies.
const (
	MsgGreeting     = "Hi! 👋\nSend me an artist name, I'll show a piece of one of their songs and you guess the title."
	MsgChooseArtist = "Send me the name of an artist 🎤"
	MsgHelp         = "How to play:\n" +
		"1. Send an artist name.\n" +
		"2. Read the lyric fragment and reply with the song title.\n\n" +
		"/go - choose another artist\n/stats - your score\n/reset - reset your score\n/help - this message"
	MsgNoCandidates = "Sorry, I couldn't find any tracks for this artist 🤷\nTry another name."
	MsgNoLyrics     = "Sorry, I couldn't get the lyrics this time 😔\nTry again or pick another artist."
	MsgFailure      = "Sorry, something went wrong\nPlease try again later 🫶🏻"
	MsgReset        = "Your score has been reset. Send an artist name to play again."
	MsgNoStats      = "You haven't answered anything yet. Send an artist name to start!"
)

// Fragment formats the puzzle message.
func Fragment(artist, fragment string) string {
	return fmt.Sprintf("Guess the *%s* track:\n\n%s", artist, fragment)
}

// Stats formats the score message.
func Stats(stat *domain.Stat) string {
	return fmt.Sprintf("Answers: *%d*\nCorrect: *%d*\nAccuracy: *%.0f%%*", stat.Answers, stat.SuccessAnswers, stat.Accuracy())
}
