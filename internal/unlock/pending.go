package unlock

import "time"

// PendingUnlock records that a quiz became unlockable. It survives until
// cleared by a full reset; Shown flips from false to true once the player
// has been told about the unlock.
type PendingUnlock struct {
	QuizID     string    `json:"quizId"`
	QuizTitle  string    `json:"quizTitle"`
	UnlockedAt time.Time `json:"unlockedAt"`
	Shown      bool      `json:"shown"`
}

// Pending is the list of pending unlock records.
type Pending []PendingUnlock

// Has reports whether a record exists for the quiz.
func (p Pending) Has(quizID string) bool {
	for _, u := range p {
		if u.QuizID == quizID {
			return true
		}
	}
	return false
}

// Unshown returns the records the player has not been told about yet.
func (p Pending) Unshown() []PendingUnlock {
	var out []PendingUnlock
	for _, u := range p {
		if !u.Shown {
			out = append(out, u)
		}
	}
	return out
}

// MarkShown flags the quiz's record as shown. Returns false when there is
// no record or it was already shown.
func (p Pending) MarkShown(quizID string) bool {
	for i := range p {
		if p[i].QuizID != quizID {
			continue
		}
		if p[i].Shown {
			return false
		}
		p[i].Shown = true
		return true
	}
	return false
}

// Clone returns a copy of the list.
func (p Pending) Clone() Pending {
	c := make(Pending, len(p))
	copy(c, p)
	return c
}
