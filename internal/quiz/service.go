// Package quiz orchestrates the question engine: deck sampling, option
// assembly and review scheduling, with persistence pushed to store
// collaborators supplied by the caller.
package quiz

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/zhouyilab/hexquiz/internal/hexagram"
	"github.com/zhouyilab/hexquiz/internal/quiz/deck"
	"github.com/zhouyilab/hexquiz/internal/quiz/options"
	"github.com/zhouyilab/hexquiz/internal/srs"
)

// Service owns the catalog and store handles shared by sessions. Stores are
// injected; the service never reaches for globals.
type Service struct {
	catalog   *hexagram.Catalog
	reviews   ReviewStore
	attempts  AttemptStore
	wrongBook WrongBookStore
	logger    zerolog.Logger

	now func() int64
}

// NewService wires the quiz service to its collaborators.
func NewService(catalog *hexagram.Catalog, reviews ReviewStore, attempts AttemptStore, wrongBook WrongBookStore, logger zerolog.Logger) *Service {
	return &Service{
		catalog:   catalog,
		reviews:   reviews,
		attempts:  attempts,
		wrongBook: wrongBook,
		logger:    logger,
		now:       func() int64 { return time.Now().UnixMilli() },
	}
}

// SessionOptions configures one practice session.
type SessionOptions struct {
	// Reinforcement biases the deck toward previously missed hexagrams.
	Reinforcement bool
	// Seed fixes the session's random source; zero seeds from the clock.
	Seed int64
	// Mode tags persisted attempts; defaults to ModePractice.
	Mode string
}

// Session holds the per-session mutable state: deck, recency window, slot
// pointer and random source. Construct one per active session and discard on
// session end; not safe for concurrent use.
type Session struct {
	ID   uuid.UUID
	Mode string

	svc       *Service
	sampler   *deck.Sampler
	assembler *options.Assembler
	current   *Question
}

// StartSession validates the catalog, builds per-session state and, when
// reinforcement is on, feeds it the recently missed hexagrams from the wrong
// book. Catalog problems are configuration errors and are not retried.
func (s *Service) StartSession(ctx context.Context, opts SessionOptions) (*Session, error) {
	if s.catalog.Len() < options.OptionCount {
		return nil, fmt.Errorf("%w: %d hexagrams, need %d", ErrCatalogInvalid, s.catalog.Len(), options.OptionCount)
	}
	if len(s.catalog.UpperTrigramTags()) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 distinct upper trigram tags", ErrCatalogInvalid)
	}

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	mode := opts.Mode
	if mode == "" {
		mode = ModePractice
	}

	sess := &Session{
		ID:        uuid.New(),
		Mode:      mode,
		svc:       s,
		sampler:   deck.New(rng),
		assembler: options.NewAssembler(options.NewSelector(rng)),
	}

	sess.sampler.SetReinforcement(opts.Reinforcement)
	if opts.Reinforcement {
		missed, err := s.wrongBook.IDs(ctx)
		if err != nil {
			return nil, fmt.Errorf("load recently missed ids: %w", err)
		}
		for _, id := range missed {
			sess.sampler.AddMissed(id)
		}
	}

	s.logger.Debug().
		Str("session_id", sess.ID.String()).
		Str("mode", mode).
		Bool("reinforcement", opts.Reinforcement).
		Msg("session started")
	return sess, nil
}

// NextQuestion draws the next hexagram from the deck and assembles its answer
// set. The question stays pending until SubmitAnswer resolves it.
func (sess *Session) NextQuestion(ctx context.Context) (*Question, error) {
	id := sess.sampler.Next()
	return sess.questionFor(ctx, id)
}

// QuestionFor builds a question for a specific hexagram id, bypassing the
// deck. Review flows use it to quiz due items in urgency order.
func (sess *Session) QuestionFor(ctx context.Context, id int) (*Question, error) {
	return sess.questionFor(ctx, id)
}

func (sess *Session) questionFor(_ context.Context, id int) (*Question, error) {
	target, ok := sess.svc.catalog.ByID(id)
	if !ok {
		return nil, fmt.Errorf("%w: id %d", ErrItemNotFound, id)
	}
	set, err := sess.assembler.Assemble(target, sess.svc.catalog.All())
	if err != nil {
		return nil, fmt.Errorf("assemble options for %d: %w", id, err)
	}
	q := &Question{Target: target, Options: set.Options, CorrectSlot: set.CorrectSlot}
	sess.current = q
	return q, nil
}

// SubmitAnswer scores the pending question, persists the review state,
// attempt record and wrong-book tally, and feeds the deck's reinforcement
// set on a miss. The prior review state is loaded before the transition; the
// bucket-2 baseline applies only when no state exists yet.
func (sess *Session) SubmitAnswer(ctx context.Context, chosenSlot int) (*AnswerResult, error) {
	q := sess.current
	if q == nil {
		return nil, ErrNoActiveQuestion
	}
	if chosenSlot < 0 || chosenSlot >= options.OptionCount {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSlot, chosenSlot)
	}
	sess.current = nil

	correct := chosenSlot == q.CorrectSlot
	now := sess.svc.now()

	prev, err := sess.svc.reviews.Get(ctx, q.Target.ID)
	if err != nil {
		return nil, fmt.Errorf("load review state for %d: %w", q.Target.ID, err)
	}
	state, err := srs.Apply(prev, q.Target.ID, correct, now)
	if err != nil {
		return nil, err
	}
	if err := sess.svc.reviews.Upsert(ctx, state); err != nil {
		return nil, fmt.Errorf("save review state for %d: %w", q.Target.ID, err)
	}

	optionIDs := make([]int, len(q.Options))
	for i, h := range q.Options {
		optionIDs[i] = h.ID
	}
	attempt := Attempt{
		HexagramID:  q.Target.ID,
		Timestamp:   now,
		Correct:     correct,
		ChosenSlot:  chosenSlot,
		CorrectSlot: q.CorrectSlot,
		OptionIDs:   optionIDs,
		Mode:        sess.Mode,
	}
	if err := sess.svc.attempts.Insert(ctx, attempt); err != nil {
		return nil, fmt.Errorf("record attempt for %d: %w", q.Target.ID, err)
	}

	if !correct {
		if err := sess.svc.wrongBook.RecordWrong(ctx, q.Target.ID, now); err != nil {
			return nil, fmt.Errorf("record wrong answer for %d: %w", q.Target.ID, err)
		}
		sess.sampler.AddMissed(q.Target.ID)
	}

	sess.svc.logger.Debug().
		Str("session_id", sess.ID.String()).
		Int("hexagram_id", q.Target.ID).
		Bool("correct", correct).
		Int("bucket", state.Bucket).
		Msg("answer submitted")

	return &AnswerResult{
		Correct:     correct,
		ChosenSlot:  chosenSlot,
		CorrectSlot: q.CorrectSlot,
		CorrectItem: q.Target,
		Review:      state,
	}, nil
}

// Progress reports draws taken from the current block and the round number.
func (sess *Session) Progress() (drawn, round int) {
	return sess.sampler.Progress(), sess.sampler.Round()
}

// DueItems returns the review states due at the given instant, most urgent
// first (lowest bucket, then longest overdue).
func (s *Service) DueItems(ctx context.Context, now int64) ([]srs.State, error) {
	all, err := s.reviews.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("load review states: %w", err)
	}
	var due []srs.State
	for _, st := range all {
		if srs.IsDue(st, now) {
			due = append(due, st)
		}
	}
	srs.SortByUrgency(due)
	return due, nil
}

// DueToday returns the states due by the end of the local calendar day,
// most urgent first.
func (s *Service) DueToday(ctx context.Context, now int64, loc *time.Location) ([]srs.State, error) {
	all, err := s.reviews.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("load review states: %w", err)
	}
	due := srs.DueToday(all, now, loc)
	srs.SortByUrgency(due)
	return due, nil
}

// Catalog exposes the item catalog to callers resolving ids for display.
func (s *Service) Catalog() *hexagram.Catalog {
	return s.catalog
}
