package app

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quizcore/internal/config"
	"github.com/abhisek/quizcore/internal/content"
	"github.com/abhisek/quizcore/internal/engine"
	"github.com/abhisek/quizcore/internal/persist"
	"github.com/abhisek/quizcore/internal/quiz"
	"github.com/abhisek/quizcore/internal/store/memory"
	"github.com/abhisek/quizcore/internal/unlock"
)

var t0 = time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)

func testCatalog(t *testing.T) *content.Catalog {
	t.Helper()
	c, err := content.NewCatalog([]quiz.Config{
		{
			Quiz: quiz.Quiz{ID: "animals", Title: "Animals", Questions: []quiz.Question{
				{ID: 1, Answer: "Lion"},
				{ID: 2, Answer: "Tiger"},
			}},
			InitialUnlockedQuestions: 1,
			Mode:                     quiz.ModeSequential,
			Order:                    1,
		},
		{
			Quiz: quiz.Quiz{ID: "cities", Title: "Cities", Questions: []quiz.Question{
				{ID: 1, Answer: "Paris"},
			}},
			InitiallyLocked: true,
			UnlockCondition: &quiz.UnlockCondition{RequiredQuizID: "animals"},
			Mode:            quiz.ModeAllUnlocked,
			Order:           2,
		},
	})
	require.NoError(t, err)
	return c
}

func testOptions(t *testing.T, backend persist.Backend) Options {
	t.Helper()
	return Options{
		Config:  config.DefaultConfig(),
		Catalog: testCatalog(t),
		Backend: backend,
		Now:     func() time.Time { return t0 },
	}
}

func openApp(t *testing.T, backend persist.Backend) *App {
	t.Helper()
	a, err := Open(context.Background(), testOptions(t, backend))
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })
	return a
}

func completeAnimals(t *testing.T, a *App) engine.SubmitResult {
	t.Helper()
	ctx := context.Background()
	_, err := a.SubmitAnswer(ctx, "animals", 1, "lion")
	require.NoError(t, err)
	res, err := a.SubmitAnswer(ctx, "animals", 2, "tiger")
	require.NoError(t, err)
	return res
}

func TestOpenSeedsBackend(t *testing.T) {
	backend := memory.New()
	a := openApp(t, backend)

	assert.Equal(t, []string{persist.KeyPendingUnlocks, persist.KeyQuizStates, persist.KeyUserPoints}, backend.Keys())
	assert.Equal(t, 10, a.Engine().Points().TotalPoints)
	assert.Equal(t, 2, a.Catalog().Len())
}

func TestProgressSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	backend := memory.New()

	a := openApp(t, backend)
	res, err := a.SubmitAnswer(ctx, "animals", 1, "Lion")
	require.NoError(t, err)
	assert.True(t, res.IsCorrect)
	_, err = a.SubmitAnswer(ctx, "animals", 2, "cat")
	require.NoError(t, err)

	b := openApp(t, backend)
	st, ok := b.Engine().QuizState("animals")
	require.True(t, ok)
	assert.Equal(t, quiz.StatusSolved, st.Questions[0].Status)
	assert.Equal(t, quiz.StatusActive, st.Questions[1].Status)
	assert.Equal(t, 1, st.HintStates[2].WrongAttempts)
	assert.Equal(t, 20, b.Engine().Points().TotalPoints)
}

func TestLockedQuizIsRejected(t *testing.T) {
	ctx := context.Background()
	a := openApp(t, memory.New())

	_, err := a.SubmitAnswer(ctx, "cities", 1, "Paris")
	assert.ErrorIs(t, err, ErrQuizLocked)

	_, err = a.StartQuiz(ctx, "cities")
	assert.ErrorIs(t, err, ErrQuizLocked)

	_, err = a.ApplyHint(ctx, "cities", 1, "letter-count")
	assert.ErrorIs(t, err, ErrQuizLocked)

	_, err = a.SubmitAnswer(ctx, "nope", 1, "x")
	assert.ErrorIs(t, err, quiz.ErrQuizNotFound)
}

func TestUnlockAndAcknowledge(t *testing.T) {
	ctx := context.Background()
	backend := memory.New()
	a := openApp(t, backend)

	res := completeAnimals(t, a)
	assert.True(t, res.CompletedQuiz)
	require.Len(t, res.UnlockedQuizzes, 1)
	assert.Equal(t, "cities", res.UnlockedQuizzes[0].ID)
	require.Len(t, a.PendingUnlocks(), 1)

	ok, err := a.AcknowledgeUnlock(ctx, "cities")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = a.AcknowledgeUnlock(ctx, "cities")
	require.NoError(t, err)
	assert.False(t, ok)

	b := openApp(t, backend)
	assert.Empty(t, b.PendingUnlocks())
	unlocked, err := b.Engine().IsQuizUnlocked("cities")
	require.NoError(t, err)
	assert.True(t, unlocked)

	st, err := b.StartQuiz(ctx, "cities")
	require.NoError(t, err)
	assert.Equal(t, quiz.StatusActive, st.Questions[0].Status)
}

func TestOpenRecoversMissedUnlocks(t *testing.T) {
	ctx := context.Background()
	backend := memory.New()

	// Completed progress saved without the unlock record.
	a := openApp(t, backend)
	completeAnimals(t, a)
	snap := a.Engine().Snapshot()
	snap.Pending = unlock.Pending{}
	require.NoError(t, persist.NewRepository(backend, nil).Save(ctx, snap))

	b := openApp(t, backend)
	pending := b.PendingUnlocks()
	require.Len(t, pending, 1)
	assert.Equal(t, "cities", pending[0].QuizID)

	state, _, err := persist.NewRepository(backend, nil).Load(ctx)
	require.NoError(t, err)
	assert.True(t, state.Pending.Has("cities"), "recovered unlock must be persisted")
}

func TestOpenRecoversProgressUnlocks(t *testing.T) {
	ctx := context.Background()
	backend := memory.New()

	catalog, err := content.NewCatalog([]quiz.Config{
		{
			Quiz: quiz.Quiz{ID: "animals", Title: "Animals", Questions: []quiz.Question{
				{ID: 1, Answer: "Lion"},
				{ID: 2, Answer: "Tiger"},
			}},
			InitialUnlockedQuestions: 1,
			Mode:                     quiz.ModeSequential,
			Order:                    1,
		},
		{
			Quiz: quiz.Quiz{ID: "rivers", Title: "Rivers", Questions: []quiz.Question{
				{ID: 1, Answer: "Rhine"},
			}},
			InitiallyLocked: true,
			UnlockCondition: &quiz.UnlockCondition{RequiredQuizID: "animals", RequiredQuestionsSolved: 1},
			Mode:            quiz.ModeAllUnlocked,
			Order:           2,
		},
	})
	require.NoError(t, err)

	opts := testOptions(t, backend)
	opts.Catalog = catalog

	a, err := Open(ctx, opts)
	require.NoError(t, err)
	_, err = a.SubmitAnswer(ctx, "animals", 1, "lion")
	require.NoError(t, err)
	snap := a.Engine().Snapshot()
	require.True(t, snap.Pending.Has("rivers"))
	require.NoError(t, a.Close())

	// The quiz is not completed, so only the progress check can recover it.
	snap.Pending = unlock.Pending{}
	require.NoError(t, persist.NewRepository(backend, nil).Save(ctx, snap))

	b, err := Open(ctx, opts)
	require.NoError(t, err)
	t.Cleanup(func() { b.Close() })

	pending := b.PendingUnlocks()
	require.Len(t, pending, 1)
	assert.Equal(t, "rivers", pending[0].QuizID)

	state, _, err := persist.NewRepository(backend, nil).Load(ctx)
	require.NoError(t, err)
	assert.True(t, state.Pending.Has("rivers"), "recovered unlock must be persisted")
}

func TestOpenWithCorruptBlobFallsBack(t *testing.T) {
	ctx := context.Background()
	backend := memory.New()
	a := openApp(t, backend)
	_, err := a.SubmitAnswer(ctx, "animals", 1, "Lion")
	require.NoError(t, err)

	require.NoError(t, backend.Save(ctx, persist.KeyUserPoints, []byte("garbage")))

	b := openApp(t, backend)
	st, ok := b.Engine().QuizState("animals")
	require.True(t, ok)
	assert.Equal(t, quiz.StatusSolved, st.Questions[0].Status)
	assert.Equal(t, 10, b.Engine().Points().TotalPoints, "ledger is reseeded")

	state, _, err := persist.NewRepository(backend, nil).Load(ctx)
	require.NoError(t, err, "repaired state is written back")
	assert.Equal(t, 10, state.Points.TotalPoints)
}

type flakyBackend struct {
	*memory.Store
	fail bool
}

var errDown = errors.New("disk full")

func (b *flakyBackend) Save(ctx context.Context, key string, data []byte) error {
	if b.fail {
		return errDown
	}
	return b.Store.Save(ctx, key, data)
}

func TestSaveFailureIsAWarning(t *testing.T) {
	ctx := context.Background()
	backend := &flakyBackend{Store: memory.New()}
	a := openApp(t, backend)
	backend.fail = true

	res, err := a.SubmitAnswer(ctx, "animals", 1, "Lion")
	require.Error(t, err)
	assert.True(t, IsSaveWarning(err))
	assert.ErrorIs(t, err, errDown)
	assert.True(t, res.IsCorrect)
	assert.Equal(t, 20, a.Engine().Points().TotalPoints, "session continues in memory")

	hint, err := a.ApplyHint(ctx, "animals", 2, "letter-count")
	assert.True(t, IsSaveWarning(err))
	assert.True(t, hint.Success)
	assert.Equal(t, 15, a.Engine().Points().TotalPoints)
}

func TestFailedHintIsNotSaved(t *testing.T) {
	ctx := context.Background()
	backend := &flakyBackend{Store: memory.New()}
	a := openApp(t, backend)
	backend.fail = true

	res, err := a.ApplyHint(ctx, "animals", 1, "no-such-hint")
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.NotEmpty(t, res.Error)
}

func TestResetQuizAndResetAll(t *testing.T) {
	ctx := context.Background()
	backend := memory.New()
	a := openApp(t, backend)
	completeAnimals(t, a)

	st, err := a.ResetQuiz(ctx, "animals")
	require.NoError(t, err)
	assert.Equal(t, 0, st.CompletedQuestions)
	assert.Equal(t, 30, a.Engine().Points().TotalPoints, "per-quiz reset keeps the ledger")
	unlocked, err := a.Engine().IsQuizUnlocked("cities")
	require.NoError(t, err)
	assert.True(t, unlocked, "unlocks are sticky")

	require.NoError(t, a.ResetAll(ctx))
	assert.Equal(t, 10, a.Engine().Points().TotalPoints)
	assert.Empty(t, a.PendingUnlocks())

	b := openApp(t, backend)
	_, ok := b.Engine().QuizState("animals")
	assert.False(t, ok)
	assert.Equal(t, 10, b.Engine().Points().TotalPoints)
}

func TestSQLiteBackend(t *testing.T) {
	ctx := context.Background()
	cfg := config.DefaultConfig()
	cfg.DBPath = filepath.Join(t.TempDir(), "nested", "quizcore.db")

	opts := Options{Config: cfg, Catalog: testCatalog(t)}
	a, err := Open(ctx, opts)
	require.NoError(t, err)
	_, err = a.SubmitAnswer(ctx, "animals", 1, "lion")
	require.NoError(t, err)
	require.NoError(t, a.Close())

	b, err := Open(ctx, opts)
	require.NoError(t, err)
	defer b.Close()
	progress, err := b.Engine().QuizProgress("animals")
	require.NoError(t, err)
	assert.Equal(t, 50, progress)
}

func TestRedisBackend(t *testing.T) {
	ctx := context.Background()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	cfg := config.DefaultConfig()
	cfg.Backend = config.BackendRedis
	cfg.Redis.Addr = mr.Addr()

	a, err := Open(ctx, Options{Config: cfg, Catalog: testCatalog(t)})
	require.NoError(t, err)
	defer a.Close()

	_, err = a.SubmitAnswer(ctx, "animals", 1, "lion")
	require.NoError(t, err)
	assert.True(t, mr.Exists(cfg.Redis.Prefix+persist.KeyQuizStates))
}

func TestOpenUsesEmbeddedContent(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Backend = config.BackendMemory

	a, err := Open(context.Background(), Options{Config: cfg})
	require.NoError(t, err)
	defer a.Close()
	assert.Equal(t, content.Default().IDs(), a.Catalog().IDs())
}

func TestOpenRejectsBadContentPath(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Backend = config.BackendMemory
	cfg.ContentPath = filepath.Join(t.TempDir(), "missing.yaml")

	_, err := Open(context.Background(), Options{Config: cfg})
	assert.Error(t, err)
}
