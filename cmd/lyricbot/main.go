package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/cesargomez89/lyricbot/internal/app"
	"github.com/cesargomez89/lyricbot/internal/catalog"
	"github.com/cesargomez89/lyricbot/internal/config"
	"github.com/cesargomez89/lyricbot/internal/constants"
	"github.com/cesargomez89/lyricbot/internal/game"
	httpapp "github.com/cesargomez89/lyricbot/internal/http"
	"github.com/cesargomez89/lyricbot/internal/logger"
	"github.com/cesargomez89/lyricbot/internal/store"
	"github.com/cesargomez89/lyricbot/internal/telegram"
	"github.com/cesargomez89/lyricbot/internal/worker"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:          "lyricbot",
	Short:        "lyricbot - guess the song from a piece of its lyrics",
	SilenceUsage: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the Telegram bot, the purge worker and the ops HTTP server",
	RunE:  runServe,
}

var purgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete expired sessions and cached lyrics once",
	RunE:  runPurge,
}

var purgeLyrics bool

var statsCmd = &cobra.Command{
	Use:   "stats <chatID>",
	Short: "Print the answer counters of a chat",
	Args:  cobra.ExactArgs(1),
	RunE:  runStats,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a YAML config file")
	purgeCmd.Flags().BoolVar(&purgeLyrics, "lyrics", false, "Also drop every cached lyric")
	rootCmd.AddCommand(serveCmd, purgeCmd, statsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) *logger.Logger {
	return logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})
}

// newProvider builds the content provider with the lyric cache in front.
func newProvider(cfg *config.Config, db *store.DB) catalog.Provider {
	var upstream catalog.Provider
	switch cfg.Provider {
	case constants.ProviderMock:
		upstream = catalog.NewMockProvider()
	default:
		mm := catalog.NewMusixmatchProvider(cfg.MusixmatchHost, cfg.MusixmatchKey, cfg.ProviderTimeout)
		mm.PageSize = cfg.PageSize
		upstream = mm
	}
	return catalog.NewStoreCachedProvider(upstream, db, cfg.LyricsCacheTTL)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	appLogger := newLogger(cfg)

	db, err := store.NewSQLiteDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("init db: %w", err)
	}
	defer db.Close()

	provider := newProvider(cfg, db)
	sessions := game.NewSessions(db, cfg.SessionTTL, cfg.RecentTracks)
	selector := game.NewSelector(provider, sessions, game.DefaultRand(), appLogger)

	bot, err := telegram.New(cfg.TelegramToken, appLogger)
	if err != nil {
		return err
	}

	g := app.NewGame(sessions, selector, provider, db, bot, appLogger)
	g.Scorer = game.NewScorer(cfg.FailThreshold, cfg.SuccessThreshold)

	w := worker.NewWorker(db, cfg.PurgeSchedule, appLogger)
	if err := w.Start(); err != nil {
		return err
	}
	defer w.Stop()

	bot.Start(context.Background(), g)

	var srv *http.Server
	if cfg.HTTPPort != "" {
		srv = &http.Server{
			Addr:              ":" + cfg.HTTPPort,
			Handler:           httpapp.NewRouter(httpapp.NewHandler(db, appLogger)),
			ReadHeaderTimeout: 10 * time.Second,
		}
		go func() {
			appLogger.Info("Server listening", "addr", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				appLogger.Error("Server error", "error", err)
			}
		}()
	}

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down...")
	bot.Stop()

	if srv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), constants.DefaultShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
	}

	appLogger.Info("Exiting")
	return nil
}

func runPurge(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	return purge(cmd.Context(), cfg, purgeLyrics, cmd.OutOrStdout())
}

func purge(ctx context.Context, cfg *config.Config, lyrics bool, out io.Writer) error {
	db, err := store.NewSQLiteDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("init db: %w", err)
	}
	defer db.Close()

	n, err := worker.NewWorker(db, cfg.PurgeSchedule, newLogger(cfg)).RunOnce(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Purged %d expired rows\n", n)

	if lyrics {
		if err := db.ClearCache(); err != nil {
			return fmt.Errorf("clear lyrics cache: %w", err)
		}
		fmt.Fprintln(out, "Cleared lyrics cache")
	}
	return nil
}

func runStats(cmd *cobra.Command, args []string) error {
	chatID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid chat id %q: %w", args[0], err)
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	return printStats(cmd.Context(), cfg, chatID, cmd.OutOrStdout())
}

func printStats(ctx context.Context, cfg *config.Config, chatID int64, out io.Writer) error {
	db, err := store.NewSQLiteDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("init db: %w", err)
	}
	defer db.Close()

	stat, err := db.FindStatByChatID(ctx, chatID)
	if err != nil {
		return fmt.Errorf("load stats: %w", err)
	}
	if stat == nil {
		return fmt.Errorf("no stats for chat %d", chatID)
	}

	username := "-"
	if stat.Username != nil {
		username = *stat.Username
	}
	fmt.Fprintf(out, "chat:     %d\nuser:     %s\nanswers:  %d\ncorrect:  %d\naccuracy: %.0f%%\n",
		stat.ChatID, username, stat.Answers, stat.SuccessAnswers, stat.Accuracy())
	return nil
}
