package quiz

import (
	"context"
	"errors"

	"github.com/zhouyilab/hexquiz/internal/hexagram"
	"github.com/zhouyilab/hexquiz/internal/srs"
)

// Practice modes recorded on attempts.
const (
	ModePractice = "practice"
	ModeReview   = "review"
)

var (
	// ErrNoActiveQuestion means SubmitAnswer was called before NextQuestion.
	ErrNoActiveQuestion = errors.New("quiz: no active question in session")
	// ErrInvalidSlot means the chosen slot is outside 0..3.
	ErrInvalidSlot = errors.New("quiz: chosen slot outside option range")
	// ErrItemNotFound means a referenced hexagram id has no catalog entry;
	// the caller should request a different question.
	ErrItemNotFound = errors.New("quiz: hexagram not found in catalog")
	// ErrCatalogInvalid means the catalog cannot support question
	// generation; sessions fail fast on it.
	ErrCatalogInvalid = errors.New("quiz: catalog cannot support question generation")
)

// Question is one presentable quiz item: the target, four options in display
// order and the slot holding the correct answer. Plain data; display-only
// flags belong to the caller.
type Question struct {
	Target      hexagram.Hexagram
	Options     []hexagram.Hexagram
	CorrectSlot int
}

// AnswerResult reports the outcome of one submitted answer.
type AnswerResult struct {
	Correct     bool
	ChosenSlot  int
	CorrectSlot int
	CorrectItem hexagram.Hexagram
	Review      srs.State
}

// Attempt is the persisted record of one submitted answer.
type Attempt struct {
	ID          int64  `db:"id"`
	HexagramID  int    `db:"hexagram_id"`
	Timestamp   int64  `db:"ts"`
	Correct     bool   `db:"correct"`
	ChosenSlot  int    `db:"chosen_slot"`
	CorrectSlot int    `db:"correct_slot"`
	OptionIDs   []int  `db:"-"`
	Mode        string `db:"mode"`
}

// ReviewStore persists per-hexagram scheduling state.
type ReviewStore interface {
	Get(ctx context.Context, hexagramID int) (*srs.State, error)
	Upsert(ctx context.Context, state srs.State) error
	All(ctx context.Context) ([]srs.State, error)
}

// AttemptStore persists the answer log.
type AttemptStore interface {
	Insert(ctx context.Context, attempt Attempt) error
}

// WrongBookStore persists the wrong-answer tally and feeds reinforcement.
type WrongBookStore interface {
	RecordWrong(ctx context.Context, hexagramID int, now int64) error
	IDs(ctx context.Context) ([]int, error)
}
