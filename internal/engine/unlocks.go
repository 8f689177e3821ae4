package engine

import (
	"github.com/abhisek/quizcore/internal/quiz"
	"github.com/abhisek/quizcore/internal/unlock"
)

// CheckForUnlocks evaluates every locked quiz and records the ones whose
// condition is now met. Returns only quizzes not unlocked before, so a second
// call without progress in between returns nothing.
func (e *Engine) CheckForUnlocks() []quiz.Quiz {
	var unlocked []quiz.Quiz
	_ = e.update(func(s *State) error {
		unlocked, s.Pending = e.graph.CheckForUnlocks(s.Quizzes, s.Pending, e.now())
		if len(unlocked) == 0 {
			return errNoChange
		}
		return nil
	})
	for _, q := range unlocked {
		e.logger.Info("quiz unlocked", "quiz", q.ID)
	}
	return unlocked
}

// IsQuizUnlocked reports whether the quiz may be played. Once a quiz has a
// pending unlock record it stays unlocked even if its condition no longer
// holds, e.g. after the required quiz was reset.
func (e *Engine) IsQuizUnlocked(quizID string) (bool, error) {
	cfg, err := e.config(quizID)
	if err != nil {
		return false, err
	}
	s := e.current()
	return unlock.IsUnlocked(cfg, s.Quizzes) || s.Pending.Has(quizID), nil
}

// UnlockProgress reports how close a quiz is to being unlocked.
func (e *Engine) UnlockProgress(quizID string) (unlock.ConditionProgress, error) {
	p, err := e.graph.Progress(quizID, e.current().Quizzes)
	if err != nil {
		return unlock.ConditionProgress{}, err
	}
	if !p.IsMet && e.current().Pending.Has(quizID) {
		p.IsMet = true
		p.Percent = 100
	}
	return p, nil
}

// DetectMissedUnlocks creates the unlock records that completed quizzes
// should have produced in an earlier session. Run once after restoring
// persisted state.
func (e *Engine) DetectMissedUnlocks() []unlock.PendingUnlock {
	var created []unlock.PendingUnlock
	_ = e.update(func(s *State) error {
		created, s.Pending = e.graph.DetectMissedUnlocks(s.Quizzes, s.Pending, e.now())
		if len(created) == 0 {
			return errNoChange
		}
		return nil
	})
	for _, u := range created {
		e.logger.Info("recovered missed unlock", "quiz", u.QuizID)
	}
	return created
}

// PendingUnlocks returns the unlock records not yet shown to the player.
func (e *Engine) PendingUnlocks() []unlock.PendingUnlock {
	return e.current().Pending.Unshown()
}

// AcknowledgeUnlock marks the quiz's unlock record as shown. Returns false
// when there is no unshown record for it.
func (e *Engine) AcknowledgeUnlock(quizID string) bool {
	err := e.update(func(s *State) error {
		if !s.Pending.MarkShown(quizID) {
			return errNoChange
		}
		return nil
	})
	return err == nil
}
