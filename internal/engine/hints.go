package engine

import (
	"errors"
	"fmt"

	"github.com/abhisek/quizcore/internal/points"
	"github.com/abhisek/quizcore/internal/quiz"
)

// HintView describes one hint of a question for display. Content is only
// set once the hint has been revealed.
type HintView struct {
	Hint    quiz.Hint
	CanUse  bool
	Reason  string
	Used    bool
	Content string
}

// HintResult is the outcome of ApplyHint. Ineligible requests and unknown
// ids are reported through Success and Error, not as a Go error.
type HintResult struct {
	Success        bool
	HintContent    string
	PointsDeducted int
	Error          string
}

// AvailableHints lists every hint of the question with its eligibility.
func (e *Engine) AvailableHints(quizID string, questionID int) ([]HintView, error) {
	st, err := e.quizForRead(quizID)
	if err != nil {
		return nil, err
	}
	q, err := st.Question(questionID)
	if err != nil {
		return nil, err
	}

	hs, ok := st.HintStates[questionID]
	if !ok || hs == nil {
		hs = quiz.NewHintState()
	}
	pts := e.current().Points

	var views []HintView
	for _, h := range e.hints.GenerateAll(*q) {
		elig := e.hints.CanUse(h, hs, pts)
		v := HintView{Hint: h, CanUse: elig.CanUse, Reason: elig.Reason}
		for _, u := range hs.UsedHints {
			if u.HintID == h.HintID() {
				v.Used = true
				v.Content = e.hints.Content(h, *q, u.Trigger)
				break
			}
		}
		views = append(views, v)
	}
	return views, nil
}

// ApplyHint reveals a hint, deducting its cost from the ledger when it has
// one. The balance never drops below zero.
func (e *Engine) ApplyHint(quizID string, questionID int, hintID string) HintResult {
	var res HintResult
	err := e.update(func(s *State) error {
		st, _, err := e.quizForWrite(s, quizID)
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
		h, err := e.hints.Find(*q, hintID)
		if err != nil {
			return err
		}

		hs := st.HintState(questionID)
		if elig := e.hints.CanUse(h, hs, s.Points); !elig.CanUse {
			res = HintResult{Error: elig.Reason}
			return errNoChange
		}

		applied, err := e.hints.Apply(h, *q, hs, "", e.now())
		if err != nil {
			return err
		}
		if applied.Cost > 0 {
			ref := points.Ref{QuizID: quizID, QuestionID: questionID, HintID: hintID}
			tx := points.NewSpent(applied.Cost, reasonHintPrefix+h.HintTitle(), ref, e.now())
			if err := s.Points.Deduct(tx); err != nil {
				return err
			}
		}
		res = HintResult{Success: true, HintContent: applied.Content, PointsDeducted: applied.Cost}
		return nil
	})

	switch {
	case errors.Is(err, errNoChange):
		return res
	case err != nil:
		return HintResult{Error: err.Error()}
	}
	e.logger.Info("hint applied", "quiz", quizID, "question", questionID, "hint", hintID, "cost", res.PointsDeducted)
	return res
}
