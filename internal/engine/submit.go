package engine

import (
	"fmt"

	"github.com/abhisek/quizcore/internal/answer"
	"github.com/abhisek/quizcore/internal/hints"
	"github.com/abhisek/quizcore/internal/points"
	"github.com/abhisek/quizcore/internal/quiz"
)

// Ledger reasons.
const (
	ReasonCorrectAnswer = "correct answer"
	ReasonQuizCompleted = "quiz completed"
	reasonHintPrefix    = "hint: "
)

// RevealedHint is a hint revealed for free by a wrong answer.
type RevealedHint struct {
	HintID  string
	Title   string
	Kind    quiz.HintKind
	Trigger string // matched phrase, contextual hints only
	Content string
}

// SubmitResult is the consolidated outcome of SubmitAnswer.
type SubmitResult struct {
	IsCorrect       bool
	NewState        *quiz.State
	NextQuestionID  *int
	UnlockedQuizzes []quiz.Quiz
	CompletedQuiz   bool
	PointsEarned    int
	TriggeredHints  []RevealedHint
	FunFact         string
}

// SubmitAnswer judges an answer to an active question and applies all of its
// effects in one step.
//
// A wrong answer counts a wrong attempt and reveals the contextual hints it
// triggers and the auto-free hints whose threshold it reaches. Question
// statuses and points are left alone.
//
// A correct answer solves the question, advances the frontier, records the
// earned points (plus the completion bonus on the last question) and
// evaluates the unlock conditions of all quizzes.
func (e *Engine) SubmitAnswer(quizID string, questionID int, text string) (SubmitResult, error) {
	var res SubmitResult
	err := e.update(func(s *State) error {
		st, cfg, err := e.quizForWrite(s, quizID)
		if err != nil {
			return err
		}
		q, err := st.Question(questionID)
		if err != nil {
			return err
		}
		if q.Status != quiz.StatusActive {
			return fmt.Errorf("%w: quiz %q question %d is %s", quiz.ErrQuestionNotActive, quizID, questionID, q.Status)
		}
		question := *q

		if !answer.IsCorrect(text, question.Answer, question.Alternatives...) {
			res = SubmitResult{TriggeredHints: e.wrongAnswer(st, question, text)}
		} else {
			res, err = e.correctAnswer(s, st, cfg, question)
			if err != nil {
				return err
			}
		}

		if err := st.CheckInvariants(); err != nil {
			return err
		}
		res.NewState = st.Clone()
		return nil
	})
	if err != nil {
		return SubmitResult{}, err
	}

	if res.IsCorrect {
		e.logger.Info("answer accepted",
			"quiz", quizID, "question", questionID,
			"points", res.PointsEarned, "completed", res.CompletedQuiz, "unlocked", len(res.UnlockedQuizzes))
	} else {
		e.logger.Debug("answer rejected", "quiz", quizID, "question", questionID, "revealed", len(res.TriggeredHints))
	}
	return res, nil
}

func (e *Engine) wrongAnswer(st *quiz.State, q quiz.Question, text string) []RevealedHint {
	hs := st.HintState(q.ID)
	hints.RecordWrongAttempt(hs)
	now := e.now()

	var revealed []RevealedHint
	for _, t := range e.hints.CheckContextual(text, q, hs) {
		applied, err := e.hints.Apply(t.Hint, q, hs, t.Phrase, now)
		if err != nil {
			continue
		}
		revealed = append(revealed, RevealedHint{
			HintID:  t.Hint.ID,
			Title:   t.Hint.Title,
			Kind:    quiz.KindContextual,
			Trigger: t.Phrase,
			Content: applied.Content,
		})
	}
	for _, h := range e.hints.CheckAutoFree(q, hs) {
		applied, err := e.hints.Apply(h, q, hs, "", now)
		if err != nil {
			continue
		}
		revealed = append(revealed, RevealedHint{
			HintID:  h.ID,
			Title:   h.Title,
			Kind:    quiz.KindAutoFree,
			Content: applied.Content,
		})
	}
	return revealed
}

func (e *Engine) correctAnswer(s *State, st *quiz.State, cfg quiz.Config, q quiz.Question) (SubmitResult, error) {
	if _, _, err := st.Solve(q.ID); err != nil {
		return SubmitResult{}, err
	}
	now := e.now()
	res := SubmitResult{IsCorrect: true, FunFact: q.FunFact}

	earned := q.Points
	if earned <= 0 {
		earned = e.cfg.PointsPerAnswer
	}
	ref := points.Ref{QuizID: st.ID, QuestionID: q.ID}
	if err := s.Points.Add(points.NewEarned(earned, ReasonCorrectAnswer, ref, now)); err != nil {
		return SubmitResult{}, err
	}
	res.PointsEarned = earned

	if st.IsCompleted() {
		res.CompletedQuiz = true
		if cfg.CompletionBonus > 0 {
			bonus := points.NewEarned(cfg.CompletionBonus, ReasonQuizCompleted, points.Ref{QuizID: st.ID}, now)
			if err := s.Points.Add(bonus); err != nil {
				return SubmitResult{}, err
			}
			res.PointsEarned += cfg.CompletionBonus
		}
	}

	res.UnlockedQuizzes, s.Pending = e.graph.CheckForUnlocks(s.Quizzes, s.Pending, now)

	current := q.ID
	if next, ok := st.NextActiveQuestion(&current); ok {
		res.NextQuestionID = &next
	}
	return res, nil
}
