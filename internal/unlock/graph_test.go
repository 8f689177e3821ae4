package unlock

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quizcore/internal/quiz"
)

var t0 = time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)

func questions(n int) []quiz.Question {
	qs := make([]quiz.Question, n)
	for i := range qs {
		qs[i] = quiz.Question{ID: i + 1, Answer: "x"}
	}
	return qs
}

func cfg(id string, n int, order int) quiz.Config {
	return quiz.Config{
		Quiz:                     quiz.Quiz{ID: id, Title: strings.ToUpper(id), Questions: questions(n)},
		InitialUnlockedQuestions: 1,
		Order:                    order,
	}
}

func lockedBy(c quiz.Config, required string, solved int) quiz.Config {
	c.InitiallyLocked = true
	c.UnlockCondition = &quiz.UnlockCondition{RequiredQuizID: required, RequiredQuestionsSolved: solved}
	return c
}

// solveN solves the first n questions of the state in order.
func solveN(t *testing.T, st *quiz.State, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		id := st.Questions[i].ID
		_, _, err := st.Solve(id)
		require.NoError(t, err)
	}
}

func TestNewGraph_Indices(t *testing.T) {
	g := NewGraph([]quiz.Config{
		lockedBy(cfg("c", 1, 3), "b", 0),
		cfg("a", 2, 1),
		lockedBy(cfg("b", 2, 2), "a", 0),
		lockedBy(cfg("d", 1, 2), "a", 1),
	})

	var ids []string
	for _, c := range g.Configs() {
		ids = append(ids, c.ID)
	}
	assert.Equal(t, []string{"a", "b", "d", "c"}, ids, "display order is Order then id")
	assert.Equal(t, []string{"b", "d"}, g.Dependents("a"))
	assert.Equal(t, []string{"c"}, g.Dependents("b"))
	assert.Empty(t, g.Dependents("c"))

	order := g.TopologicalOrder()
	pos := make(map[string]int)
	for i, id := range order {
		pos[id] = i
	}
	require.Len(t, order, 4)
	assert.Less(t, pos["a"], pos["b"])
	assert.Less(t, pos["b"], pos["c"])
	assert.Less(t, pos["a"], pos["d"])
}

func TestIsUnlocked(t *testing.T) {
	a := cfg("a", 2, 1)
	b := lockedBy(cfg("b", 1, 2), "a", 0)
	states := map[string]*quiz.State{}

	assert.True(t, IsUnlocked(a, states), "quiz without a lock")
	assert.False(t, IsUnlocked(b, states), "required quiz has no state")

	open := b
	open.UnlockCondition = nil
	assert.True(t, IsUnlocked(open, states), "locked without a condition counts as unlocked")

	st := quiz.NewState(a)
	states["a"] = st
	solveN(t, st, 1)
	assert.False(t, IsUnlocked(b, states))
	_, _, err := st.Solve(2)
	require.NoError(t, err)
	assert.True(t, IsUnlocked(b, states))
}

func TestIsUnlocked_ProgressBased(t *testing.T) {
	a := cfg("a", 5, 1)
	b := lockedBy(cfg("b", 1, 2), "a", 3)
	st := quiz.NewState(a)
	states := map[string]*quiz.State{"a": st}

	solveN(t, st, 2)
	assert.False(t, IsUnlocked(b, states))
	_, _, err := st.Solve(3)
	require.NoError(t, err)
	assert.True(t, IsUnlocked(b, states))
}

func TestCheckForUnlocks_Idempotent(t *testing.T) {
	a := cfg("a", 2, 1)
	b := lockedBy(cfg("b", 1, 2), "a", 0)
	g := NewGraph([]quiz.Config{a, b})

	st := quiz.NewState(a)
	states := map[string]*quiz.State{"a": st}

	got, pending := g.CheckForUnlocks(states, nil, t0)
	assert.Empty(t, got)
	assert.Empty(t, pending)

	solveN(t, st, 1)
	_, _, err := st.Solve(2)
	require.NoError(t, err)

	got, pending = g.CheckForUnlocks(states, pending, t0)
	require.Len(t, got, 1)
	assert.Equal(t, "b", got[0].ID)
	require.Len(t, pending, 1)
	assert.Equal(t, PendingUnlock{QuizID: "b", QuizTitle: "B", UnlockedAt: t0}, pending[0])

	again, pending2 := g.CheckForUnlocks(states, pending, t0.Add(time.Hour))
	assert.Empty(t, again)
	assert.Equal(t, pending, pending2)
}

func TestCheckForUnlocks_DoesNotMutateInput(t *testing.T) {
	a := cfg("a", 1, 1)
	g := NewGraph([]quiz.Config{a, lockedBy(cfg("b", 1, 2), "a", 0)})
	st := quiz.NewState(a)
	solveN(t, st, 1)

	in := Pending{{QuizID: "other", Shown: true}}
	_, out := g.CheckForUnlocks(map[string]*quiz.State{"a": st}, in, t0)
	assert.Len(t, in, 1)
	assert.Len(t, out, 2)
}

func TestDetectMissedUnlocks(t *testing.T) {
	a := cfg("a", 1, 1)
	b := lockedBy(cfg("b", 1, 2), "a", 0)
	c := lockedBy(cfg("c", 1, 3), "b", 0)
	g := NewGraph([]quiz.Config{a, b, c})

	stA := quiz.NewState(a)
	solveN(t, stA, 1)
	states := map[string]*quiz.State{"a": stA}

	// Session ended after solving a but before the unlock was recorded.
	created, pending := g.DetectMissedUnlocks(states, nil, t0)
	require.Len(t, created, 1)
	assert.Equal(t, "b", created[0].QuizID)
	assert.False(t, created[0].Shown)
	assert.True(t, pending.Has("b"))
	assert.False(t, pending.Has("c"))

	created, _ = g.DetectMissedUnlocks(states, pending, t0)
	assert.Empty(t, created)
}

func TestProgress(t *testing.T) {
	a := cfg("a", 4, 1)
	full := lockedBy(cfg("full", 1, 2), "a", 0)
	partial := lockedBy(cfg("partial", 1, 3), "a", 3)
	g := NewGraph([]quiz.Config{a, full, partial})

	st := quiz.NewState(a)
	states := map[string]*quiz.State{}

	p, err := g.Progress("full", states)
	require.NoError(t, err)
	assert.Equal(t, 0, p.Solved)
	assert.Equal(t, 4, p.Required)
	assert.Equal(t, 0, p.Percent)
	assert.False(t, p.IsMet)

	states["a"] = st
	solveN(t, st, 2)

	p, err = g.Progress("full", states)
	require.NoError(t, err)
	assert.Equal(t, 2, p.Solved)
	assert.Equal(t, 50, p.Percent)

	p, err = g.Progress("partial", states)
	require.NoError(t, err)
	assert.Equal(t, 3, p.Required)
	assert.Equal(t, 66, p.Percent)
	assert.False(t, p.IsMet)

	_, _, err = st.Solve(3)
	require.NoError(t, err)
	p, err = g.Progress("partial", states)
	require.NoError(t, err)
	assert.True(t, p.IsMet)
	assert.Equal(t, 100, p.Percent)

	p, err = g.Progress("a", states)
	require.NoError(t, err)
	assert.True(t, p.IsMet)
	assert.Nil(t, p.Condition)

	_, err = g.Progress("missing", states)
	assert.ErrorIs(t, err, quiz.ErrQuizNotFound)
}

func TestPending(t *testing.T) {
	p := Pending{
		{QuizID: "a", Shown: true},
		{QuizID: "b"},
	}
	assert.True(t, p.Has("a"))
	assert.False(t, p.Has("z"))
	require.Len(t, p.Unshown(), 1)
	assert.Equal(t, "b", p.Unshown()[0].QuizID)

	assert.True(t, p.MarkShown("b"))
	assert.False(t, p.MarkShown("b"), "already shown")
	assert.False(t, p.MarkShown("z"))
	assert.Empty(t, p.Unshown())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		configs []quiz.Config
		wantErr string
	}{
		{
			name:    "valid chain",
			configs: []quiz.Config{cfg("a", 2, 1), lockedBy(cfg("b", 1, 2), "a", 2)},
		},
		{
			name:    "unknown required quiz",
			configs: []quiz.Config{lockedBy(cfg("b", 1, 2), "ghost", 0)},
			wantErr: `references nonexistent quiz "ghost"`,
		},
		{
			name:    "self reference",
			configs: []quiz.Config{lockedBy(cfg("a", 1, 1), "a", 0)},
			wantErr: `quiz "a" requires itself`,
		},
		{
			name: "cycle",
			configs: []quiz.Config{
				lockedBy(cfg("a", 1, 1), "b", 0),
				lockedBy(cfg("b", 1, 2), "a", 0),
			},
			wantErr: "cycle detected involving quizzes: a, b",
		},
		{
			name:    "threshold too large",
			configs: []quiz.Config{cfg("a", 2, 1), lockedBy(cfg("b", 1, 2), "a", 3)},
			wantErr: `requires 3 solved questions but "a" has only 2`,
		},
		{
			name:    "duplicate id",
			configs: []quiz.Config{cfg("a", 1, 1), cfg("a", 1, 2)},
			wantErr: `duplicate quiz ID: "a"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.configs)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
