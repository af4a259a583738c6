package cli

import (
	"bufio"
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhouyilab/hexquiz/internal/hexagram"
	"github.com/zhouyilab/hexquiz/internal/quiz"
	"github.com/zhouyilab/hexquiz/internal/store"

	"github.com/spf13/cobra"
)

func newTestService(t *testing.T) *quiz.Service {
	t.Helper()
	catalog, err := hexagram.Load()
	require.NoError(t, err)
	db, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return quiz.NewService(catalog,
		store.NewReviewRepository(db),
		store.NewAttemptRepository(db),
		store.NewWrongBookRepository(db),
		zerolog.Nop())
}

func TestRunQuizLoop(t *testing.T) {
	svc := newTestService(t)
	sess, err := svc.StartSession(context.Background(), quiz.SessionOptions{Seed: 1})
	require.NoError(t, err)

	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetIn(strings.NewReader("x\na\nb\nq\n"))
	cmd.SetOut(&out)

	err = runQuizLoop(context.Background(), cmd, sess, 10, nextFromDeck(sess))
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "第 1 题")
	assert.Contains(t, text, "第 2 题")
	assert.Contains(t, text, "本次共答 2 题")
}

func TestRunQuizLoopStopsAtEOF(t *testing.T) {
	svc := newTestService(t)
	sess, err := svc.StartSession(context.Background(), quiz.SessionOptions{Seed: 2})
	require.NoError(t, err)

	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetIn(strings.NewReader("a\n"))
	cmd.SetOut(&out)

	err = runQuizLoop(context.Background(), cmd, sess, 5, nextFromDeck(sess))
	require.NoError(t, err)
	assert.Contains(t, out.String(), "本次共答 1 题")
}

func TestReadSlot(t *testing.T) {
	r := bufio.NewScanner(strings.NewReader("nonsense\nC\n"))
	slot, quitRequested, err := readSlot(r)
	require.NoError(t, err)
	assert.False(t, quitRequested)
	assert.Equal(t, 2, slot)

	r = bufio.NewScanner(strings.NewReader("quit\n"))
	_, quitRequested, err = readSlot(r)
	require.NoError(t, err)
	assert.True(t, quitRequested)

	r = bufio.NewScanner(strings.NewReader(""))
	_, quitRequested, err = readSlot(r)
	require.NoError(t, err)
	assert.True(t, quitRequested)
}
