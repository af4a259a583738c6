// Package cli wires the cobra command tree: configuration, logging, the
// sqlite store and the quiz service are constructed once per invocation and
// shared by the subcommands.
package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/zhouyilab/hexquiz/internal/config"
	"github.com/zhouyilab/hexquiz/internal/hexagram"
	"github.com/zhouyilab/hexquiz/internal/logging"
	"github.com/zhouyilab/hexquiz/internal/quiz"
	"github.com/zhouyilab/hexquiz/internal/stats"
	"github.com/zhouyilab/hexquiz/internal/store"
)

// app carries the shared dependencies built during command bootstrap.
type app struct {
	cfg    *config.App
	logger zerolog.Logger

	db        *store.DB
	reviews   *store.ReviewRepository
	attempts  *store.AttemptRepository
	wrongBook *store.WrongBookRepository

	quiz  *quiz.Service
	stats *stats.Service
}

func (a *app) close() {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn().Err(err).Msg("closing store")
		}
	}
}

// flag overrides shared across subcommands.
var (
	flagDataDir string
	flagVerbose bool
	flagSeed    int64
)

// NewRootCommand builds the hexquiz command tree.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "hexquiz",
		Short:         "Flashcard trainer for the 64 hexagrams",
		Long:          "hexquiz drills the 64 hexagrams with 4-choice questions, a per-block shuffle that covers every hexagram exactly once, and a 5-bucket spaced-repetition review schedule.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "directory for the hexquiz database (default ~/.hexquiz)")
	root.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "fix session randomness (0 = seed from clock)")

	root.AddCommand(
		newQuizCommand(),
		newReviewCommand(),
		newDueCommand(),
		newStatsCommand(),
		newWrongBookCommand(),
		newResetCommand(),
	)
	return root
}

// Execute runs the CLI.
func Execute() error {
	return NewRootCommand().Execute()
}

// bootstrap loads config, builds the logger, opens the store and wires the
// services. Callers must close the returned app.
func bootstrap(ctx context.Context) (*app, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if flagDataDir != "" {
		cfg.DataDir = flagDataDir
	}
	if flagSeed != 0 {
		cfg.Quiz.Seed = flagSeed
	}

	logger := logging.New(cfg.Name, cfg.Env, flagVerbose)

	catalog, err := hexagram.Load()
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	if err := catalog.Validate(); err != nil {
		return nil, fmt.Errorf("validate catalog: %w", err)
	}

	db, err := store.Open(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	a := &app{
		cfg:       cfg,
		logger:    logger,
		db:        db,
		reviews:   store.NewReviewRepository(db),
		attempts:  store.NewAttemptRepository(db),
		wrongBook: store.NewWrongBookRepository(db),
	}
	a.quiz = quiz.NewService(catalog, a.reviews, a.attempts, a.wrongBook, logger)
	a.stats = stats.NewService(a.reviews, a.attempts, a.wrongBook)
	return a, nil
}

// nowMillis is the single clock read per command invocation.
func nowMillis() int64 {
	return time.Now().UnixMilli()
}
