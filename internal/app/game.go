package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cesargomez89/lyricbot/internal/domain"
	"github.com/cesargomez89/lyricbot/internal/game"
	"github.com/cesargomez89/lyricbot/internal/logger"
)

// Transport delivers outbound messages to a chat.
type Transport interface {
	Send(ctx context.Context, reply domain.Reply) error
	Typing(ctx context.Context, chatID int64) error
}

type StatsStore interface {
	UpsertZeroStat(ctx context.Context, chatID int64, username string) error
	FindStatByChatID(ctx context.Context, chatID int64) (*domain.Stat, error)
	IncrementAnswers(ctx context.Context, chatID int64, username string, success bool) error
	ResetCounters(ctx context.Context, chatID int64) error
}

type LyricsSource interface {
	GetLyrics(ctx context.Context, trackID int64) (string, error)
}

type TrackSelector interface {
	Select(ctx context.Context, chatID int64, query string) (*domain.Track, error)
}

type SessionManager interface {
	StartRound(ctx context.Context, chatID int64, track domain.Track) (*domain.Session, error)
	OpenRound(ctx context.Context, chatID int64) (*domain.Session, error)
	CloseRound(ctx context.Context, chatID int64) error
	ResetChat(ctx context.Context, chatID int64) error
	RememberTrack(ctx context.Context, chatID, trackID int64) error
	ForgetTracks(ctx context.Context, chatID int64) error
	LastArtist(ctx context.Context, chatID int64) (string, error)
	SetLastArtist(ctx context.Context, chatID int64, artist string) error
}

// answerActions are offered after every scored guess.
var answerActions = []domain.Action{domain.ActionNewTrack, domain.ActionChooseArtist}

// Game drives chats through rounds. A chat is idle while it has no open
// session and awaits an answer otherwise. Game keeps no chat state of its own.
type Game struct {
	Sessions  SessionManager
	Selector  TrackSelector
	Lyrics    LyricsSource
	Stats     StatsStore
	Transport Transport
	Extractor *game.Extractor
	Scorer    *game.Scorer
	Responder *game.Responder
	Logger    *logger.Logger
}

func NewGame(sessions SessionManager, selector TrackSelector, lyrics LyricsSource, stats StatsStore, transport Transport, log *logger.Logger) *Game {
	if log == nil {
		log = logger.Default()
	}
	return &Game{
		Sessions:  sessions,
		Selector:  selector,
		Lyrics:    lyrics,
		Stats:     stats,
		Transport: transport,
		Extractor: game.NewExtractor(nil),
		Scorer:    game.DefaultScorer(),
		Responder: game.NewResponder(nil),
		Logger:    log.WithComponent("game"),
	}
}

// Handle processes one inbound event. Unexpected failures, panics included,
// are logged and answered with a generic apology; the returned error is
// informational only.
func (g *Game) Handle(ctx context.Context, ev domain.Event) (err error) {
	log := g.Logger.WithChat(ev.ChatID, ev.User.DisplayName())

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
		if err == nil {
			return
		}
		log.Error("Failed to handle event", "kind", ev.Kind, "error", err)
		if sendErr := g.reply(ctx, ev.ChatID, game.MsgFailure); sendErr != nil {
			log.Error("Failed to send fallback message", "error", sendErr)
		}
	}()

	switch ev.Kind {
	case domain.EventAction:
		return g.handleAction(ctx, log, ev)
	case domain.EventText:
		return g.handleText(ctx, log, ev)
	default:
		log.Debug("Ignoring event", "kind", ev.Kind)
		return nil
	}
}

func (g *Game) handleText(ctx context.Context, log *logger.Logger, ev domain.Event) error {
	text := strings.TrimSpace(ev.Text)
	if text == "" {
		return nil
	}

	if strings.HasPrefix(text, "/") {
		return g.handleCommand(ctx, log, ev, parseCommand(text))
	}

	session, err := g.Sessions.OpenRound(ctx, ev.ChatID)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	if session.Open() {
		return g.answer(ctx, log, ev, session, text)
	}
	return g.startRound(ctx, log, ev.ChatID, text)
}

// parseCommand strips the slash, any arguments and a "@botname" suffix.
func parseCommand(text string) string {
	cmd := strings.TrimPrefix(strings.Fields(text)[0], "/")
	if i := strings.IndexByte(cmd, '@'); i >= 0 {
		cmd = cmd[:i]
	}
	return strings.ToLower(cmd)
}

func (g *Game) handleCommand(ctx context.Context, log *logger.Logger, ev domain.Event, cmd string) error {
	log.Debug("Command received", "command", cmd)

	switch cmd {
	case "start":
		if err := g.Stats.UpsertZeroStat(ctx, ev.ChatID, ev.User.Username); err != nil {
			log.Warn("Failed to create stats row", "error", err)
		}
		if err := g.Sessions.ResetChat(ctx, ev.ChatID); err != nil {
			return fmt.Errorf("reset chat: %w", err)
		}
		return g.reply(ctx, ev.ChatID, game.MsgGreeting, domain.ActionStart)

	case "go":
		return g.chooseArtist(ctx, ev.ChatID)

	case "stats":
		stat, err := g.Stats.FindStatByChatID(ctx, ev.ChatID)
		if err != nil {
			return fmt.Errorf("load stats: %w", err)
		}
		if stat == nil || stat.Answers == 0 {
			return g.reply(ctx, ev.ChatID, game.MsgNoStats)
		}
		return g.reply(ctx, ev.ChatID, game.Stats(stat))

	case "reset":
		// Counters first: if they cannot be reset the open round survives.
		if err := g.Stats.ResetCounters(ctx, ev.ChatID); err != nil {
			return fmt.Errorf("reset counters: %w", err)
		}
		if err := g.Sessions.ResetChat(ctx, ev.ChatID); err != nil {
			return fmt.Errorf("reset chat: %w", err)
		}
		if err := g.Sessions.ForgetTracks(ctx, ev.ChatID); err != nil {
			log.Warn("Failed to forget recent tracks", "error", err)
		}
		log.Info("Chat reset")
		return g.reply(ctx, ev.ChatID, game.MsgReset, domain.ActionChooseArtist)

	default:
		return g.reply(ctx, ev.ChatID, game.MsgHelp)
	}
}

func (g *Game) handleAction(ctx context.Context, log *logger.Logger, ev domain.Event) error {
	log.Debug("Action received", "action", ev.Action)

	switch ev.Action {
	case domain.ActionNewTrack:
		artist, err := g.Sessions.LastArtist(ctx, ev.ChatID)
		if err != nil {
			log.Warn("Failed to load last artist", "error", err)
		}
		if artist == "" {
			return g.chooseArtist(ctx, ev.ChatID)
		}
		if err := g.Sessions.ResetChat(ctx, ev.ChatID); err != nil {
			return fmt.Errorf("reset chat: %w", err)
		}
		return g.startRound(ctx, log, ev.ChatID, artist)

	case domain.ActionChooseArtist, domain.ActionStart:
		return g.chooseArtist(ctx, ev.ChatID)

	default:
		log.Warn("Unknown action", "action", ev.Action)
		return nil
	}
}

// chooseArtist abandons any open round and asks for an artist.
func (g *Game) chooseArtist(ctx context.Context, chatID int64) error {
	if err := g.Sessions.ResetChat(ctx, chatID); err != nil {
		return fmt.Errorf("reset chat: %w", err)
	}
	return g.reply(ctx, chatID, game.MsgChooseArtist)
}

func (g *Game) startRound(ctx context.Context, log *logger.Logger, chatID int64, query string) error {
	if err := g.Transport.Typing(ctx, chatID); err != nil {
		log.Debug("Failed to send typing indicator", "error", err)
	}

	track, err := g.Selector.Select(ctx, chatID, query)
	if errors.Is(err, game.ErrNoTrack) {
		log.Info("No candidates", "query", query)
		return g.reply(ctx, chatID, game.MsgNoCandidates)
	}
	if err != nil {
		return fmt.Errorf("select track: %w", err)
	}

	lyrics, err := g.Lyrics.GetLyrics(ctx, track.ID)
	if err != nil {
		log.Warn("Lyrics unavailable", "track_id", track.ID, "error", err)
		return g.reply(ctx, chatID, game.MsgNoLyrics, answerActions...)
	}

	fragment, err := g.Extractor.Extract(lyrics)
	if err != nil {
		log.Info("No usable fragment", "track_id", track.ID, "error", err)
		return g.reply(ctx, chatID, game.MsgNoLyrics, answerActions...)
	}

	session, err := g.Sessions.StartRound(ctx, chatID, *track)
	if err != nil {
		return fmt.Errorf("start round: %w", err)
	}
	rlog := log.WithRound(session.RoundID, track.ID)

	if err := g.reply(ctx, chatID, game.Fragment(track.Artist, fragment)); err != nil {
		if rbErr := g.Sessions.ResetChat(ctx, chatID); rbErr != nil {
			rlog.Error("Failed to roll back session", "error", rbErr)
		}
		return fmt.Errorf("send fragment: %w", err)
	}

	if err := g.Sessions.RememberTrack(ctx, chatID, track.ID); err != nil {
		rlog.Warn("Failed to remember track", "error", err)
	}
	if err := g.Sessions.SetLastArtist(ctx, chatID, query); err != nil {
		rlog.Warn("Failed to remember artist", "error", err)
	}

	rlog.Info("Round started", "query", query, "artist", track.Artist)
	return nil
}

// answer scores the guess. The reply goes out before any state changes, so a
// delivery failure leaves the round open.
func (g *Game) answer(ctx context.Context, log *logger.Logger, ev domain.Event, session *domain.Session, guess string) error {
	rlog := log.WithRound(session.RoundID, session.TrackID)

	tier, distance, scored := g.Scorer.Judge(guess, session.TrackName)
	text := g.Responder.Answer(tier, game.Answer{
		Track:  session.TrackName,
		Artist: session.ArtistName,
		Album:  session.AlbumName,
	})

	if err := g.reply(ctx, ev.ChatID, text, answerActions...); err != nil {
		return fmt.Errorf("send answer: %w", err)
	}

	if err := g.Stats.IncrementAnswers(ctx, ev.ChatID, ev.User.Username, tier == domain.TierSuccess); err != nil {
		rlog.Warn("Failed to update stats", "error", err)
	}
	if err := g.Sessions.CloseRound(ctx, ev.ChatID); err != nil {
		rlog.Error("Failed to close round", "error", err)
	}

	rlog.Info("Answer scored", "tier", tier, "distance", distance, "scored", scored)
	return nil
}

func (g *Game) reply(ctx context.Context, chatID int64, text string, actions ...domain.Action) error {
	return g.Transport.Send(ctx, domain.Reply{
		ChatID:  chatID,
		Text:    text,
		Actions: actions,
	})
}
