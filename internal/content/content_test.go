package content

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quizcore/internal/quiz"
)

func TestDefault(t *testing.T) {
	cat := Default()
	assert.Equal(t, []string{"capitals", "animals", "music"}, cat.IDs())
	assert.Equal(t, 3, cat.Len())

	capitals, ok := cat.Get("capitals")
	require.True(t, ok)
	assert.Equal(t, 2, capitals.InitialUnlockedQuestions)
	assert.Equal(t, quiz.ModeSequential, capitals.Mode)
	assert.Equal(t, 20, capitals.CompletionBonus)
	require.Len(t, capitals.Questions, 5)
	assert.Equal(t, []string{"Vienna"}, capitals.Questions[2].Alternatives)

	ctx := capitals.Questions[2].Hints.Contextual
	require.Len(t, ctx, 1)
	assert.Equal(t, "not-salzburg", ctx[0].ID)
	assert.Contains(t, ctx[0].TriggerContent, "salzburg")

	music, ok := cat.Get("music")
	require.True(t, ok)
	assert.Equal(t, quiz.ModeAllUnlocked, music.Mode)
	assert.True(t, music.InitiallyLocked)
	require.NotNil(t, music.UnlockCondition)
	assert.Equal(t, quiz.UnlockCondition{RequiredQuizID: "capitals", RequiredQuestionsSolved: 3}, *music.UnlockCondition)

	animals, _ := cat.Get("animals")
	assert.Equal(t, DefaultInitialUnlocked, animals.InitialUnlockedQuestions)

	_, ok = cat.Get("nope")
	assert.False(t, ok)
}

func TestParse_Ordering(t *testing.T) {
	cat, err := Parse([]byte(`
quizzes:
  - id: zeta
    title: Z
    order: 1
    questions: [{id: 1, answer: z}]
  - id: beta
    title: B
    order: 2
    questions: [{id: 1, answer: b}]
  - id: alpha
    title: A
    order: 2
    questions: [{id: 1, answer: a}]
`))
	require.NoError(t, err)
	assert.Equal(t, []string{"zeta", "alpha", "beta"}, cat.IDs())
}

func TestParse_SchemaErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"empty document", ``},
		{"no quizzes", `quizzes: []`},
		{"missing answer", `
quizzes:
  - id: a
    title: A
    questions: [{id: 1}]`},
		{"unknown field", `
quizzes:
  - id: a
    title: A
    colour: red
    questions: [{id: 1, answer: x}]`},
		{"bad mode", `
quizzes:
  - id: a
    title: A
    mode: random
    questions: [{id: 1, answer: x}]`},
		{"string question id", `
quizzes:
  - id: a
    title: A
    questions: [{id: one, answer: x}]`},
		{"auto-free without threshold", `
quizzes:
  - id: a
    title: A
    questions:
      - id: 1
        answer: x
        hints:
          autoFree: [{id: h, title: H, content: c}]`},
		{"malformed yaml", "quizzes: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			assert.ErrorIs(t, err, ErrInvalidContent)
		})
	}
}

func TestParse_StructureErrors(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr string
	}{
		{
			name: "duplicate question id",
			doc: `
quizzes:
  - id: a
    title: A
    questions: [{id: 1, answer: x}, {id: 1, answer: y}]`,
			wantErr: "duplicate question ID",
		},
		{
			name: "reserved hint id",
			doc: `
quizzes:
  - id: a
    title: A
    questions:
      - id: 1
        answer: x
        hints:
          custom: [{id: letter-count, title: T, cost: 1, content: c}]`,
			wantErr: `hint ID "letter-count" is reserved`,
		},
		{
			name: "duplicate hint id across kinds",
			doc: `
quizzes:
  - id: a
    title: A
    questions:
      - id: 1
        answer: x
        hints:
          custom: [{id: h, title: T, cost: 1, content: c}]
          autoFree: [{id: h, title: T, triggerAfterAttempts: 2, content: c}]`,
			wantErr: `duplicate hint ID "h"`,
		},
		{
			name: "too many initially unlocked",
			doc: `
quizzes:
  - id: a
    title: A
    initialUnlockedQuestions: 3
    questions: [{id: 1, answer: x}]`,
			wantErr: "initialUnlockedQuestions must be in [0, 1], got 3",
		},
		{
			name: "answer without letters",
			doc: `
quizzes:
  - id: a
    title: A
    questions: [{id: 1, answer: "?!"}]`,
			wantErr: "has no matchable characters",
		},
		{
			name: "unknown required quiz",
			doc: `
quizzes:
  - id: a
    title: A
    initiallyLocked: true
    unlockCondition: {requiredQuizId: ghost}
    questions: [{id: 1, answer: x}]`,
			wantErr: `references nonexistent quiz "ghost"`,
		},
		{
			name: "duplicate quiz id",
			doc: `
quizzes:
  - id: a
    title: A
    questions: [{id: 1, answer: x}]
  - id: a
    title: A again
    questions: [{id: 1, answer: x}]`,
			wantErr: `duplicate quiz ID: "a"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			require.ErrorIs(t, err, ErrInvalidContent)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "quizzes.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
quizzes:
  - id: solo
    title: Solo
    mode: all-unlocked
    questions:
      - {id: 1, answer: one}
      - {id: 2, answer: two}
`), 0o644))

	cat, err := Load(path)
	require.NoError(t, err)
	cfg, ok := cat.Get("solo")
	require.True(t, ok)
	assert.Equal(t, quiz.ModeAllUnlocked, cfg.Mode)
	assert.Len(t, cfg.Questions, 2)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestCatalogConfigsAreCopies(t *testing.T) {
	cat := Default()
	cfgs := cat.Configs()
	cfgs[0].Title = "changed"
	first, _ := cat.Get(cat.IDs()[0])
	assert.NotEqual(t, "changed", first.Title)
}
