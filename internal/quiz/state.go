package quiz

import (
	"fmt"
	"math"
	"slices"
	"strings"
)

// State is the mutable runtime projection of a quiz config.
type State struct {
	ID                 string             `json:"id"`
	Title              string             `json:"title"`
	Mode               Mode               `json:"mode"`
	Questions          []Question         `json:"questions"`
	CompletedQuestions int                `json:"completedQuestions"`
	HintStates         map[int]*HintState `json:"hintStates"`
}

// NewState builds the initial state for a quiz config. In sequential mode
// the first InitialUnlockedQuestions questions are active and the rest are
// inactive; in all-unlocked mode every question is active.
func NewState(cfg Config) *State {
	mode := cfg.Mode
	if mode == "" {
		mode = ModeSequential
	}

	s := &State{
		ID:         cfg.ID,
		Title:      cfg.Title,
		Mode:       mode,
		Questions:  make([]Question, len(cfg.Questions)),
		HintStates: make(map[int]*HintState, len(cfg.Questions)),
	}
	for i, q := range cfg.Questions {
		q.Status = StatusInactive
		if mode == ModeAllUnlocked || i < cfg.InitialUnlockedQuestions {
			q.Status = StatusActive
		}
		s.Questions[i] = q
		s.HintStates[q.ID] = NewHintState()
	}
	return s
}

// Rebase re-applies the authored content of cfg onto a previously persisted
// state. Statuses and hint bookkeeping survive for questions that still
// exist; questions added since are inactive (active in all-unlocked mode)
// and removed questions are dropped.
func (s *State) Rebase(cfg Config) *State {
	fresh := NewState(cfg)
	old := make(map[int]Question, len(s.Questions))
	for _, q := range s.Questions {
		old[q.ID] = q
	}

	for i := range fresh.Questions {
		id := fresh.Questions[i].ID
		prev, ok := old[id]
		if !ok {
			if fresh.Mode == ModeSequential {
				fresh.Questions[i].Status = StatusInactive
			}
			continue
		}
		fresh.Questions[i].Status = prev.Status
		if hs, ok := s.HintStates[id]; ok && hs != nil {
			fresh.HintStates[id] = hs.Clone()
		}
	}
	fresh.CompletedQuestions = fresh.countSolved()
	if fresh.Mode == ModeSequential {
		fresh.refillFrontier(cfg.InitialUnlockedQuestions)
	}
	return fresh
}

// refillFrontier activates inactive questions in array order until
// min(initial, unsolved) questions are active.
func (s *State) refillFrontier(initial int) {
	want := min(initial, len(s.Questions)-s.CompletedQuestions)
	active := s.ActiveCount()
	for i := range s.Questions {
		if active >= want {
			return
		}
		if s.Questions[i].Status == StatusInactive {
			s.Questions[i].Status = StatusActive
			active++
		}
	}
}

// Index returns the array position of the question with the given id.
func (s *State) Index(questionID int) (int, bool) {
	for i := range s.Questions {
		if s.Questions[i].ID == questionID {
			return i, true
		}
	}
	return -1, false
}

// Question returns the question with the given id.
func (s *State) Question(questionID int) (*Question, error) {
	i, ok := s.Index(questionID)
	if !ok {
		return nil, fmt.Errorf("%w: quiz %q question %d", ErrQuestionNotFound, s.ID, questionID)
	}
	return &s.Questions[i], nil
}

// HintState returns the hint bookkeeping for a question, creating it when
// missing.
func (s *State) HintState(questionID int) *HintState {
	if s.HintStates == nil {
		s.HintStates = make(map[int]*HintState)
	}
	hs, ok := s.HintStates[questionID]
	if !ok || hs == nil {
		hs = NewHintState()
		s.HintStates[questionID] = hs
	}
	return hs
}

// Solve applies a verified-correct answer to the question: it becomes solved
// and, in sequential mode, the first remaining inactive question (by array
// order) becomes active. Returns the id of the newly activated question.
func (s *State) Solve(questionID int) (activated int, ok bool, err error) {
	i, found := s.Index(questionID)
	if !found {
		return 0, false, fmt.Errorf("%w: quiz %q question %d", ErrQuestionNotFound, s.ID, questionID)
	}
	if s.Questions[i].Status != StatusActive {
		return 0, false, fmt.Errorf("%w: quiz %q question %d is %s",
			ErrQuestionNotActive, s.ID, questionID, s.Questions[i].Status)
	}

	s.Questions[i].Status = StatusSolved
	s.CompletedQuestions++

	if s.Mode == ModeAllUnlocked {
		return 0, false, nil
	}
	for j := range s.Questions {
		if s.Questions[j].Status == StatusInactive {
			s.Questions[j].Status = StatusActive
			return s.Questions[j].ID, true, nil
		}
	}
	return 0, false, nil
}

// NextActiveQuestion finds the question to continue with. Starting from
// current it searches forward by id for the next unsolved question, then
// backward, and finally falls back to the first unsolved question by id.
// Returns false when the quiz is complete.
func (s *State) NextActiveQuestion(current *int) (int, bool) {
	var open []int
	for _, q := range s.Questions {
		if q.Status != StatusSolved {
			open = append(open, q.ID)
		}
	}
	if len(open) == 0 {
		return 0, false
	}
	slices.Sort(open)

	if current != nil {
		for _, id := range open {
			if id > *current {
				return id, true
			}
		}
		for i := len(open) - 1; i >= 0; i-- {
			if open[i] < *current {
				return open[i], true
			}
		}
	}
	return open[0], true
}

// ActiveCount returns the size of the frontier.
func (s *State) ActiveCount() int {
	n := 0
	for _, q := range s.Questions {
		if q.Status == StatusActive {
			n++
		}
	}
	return n
}

// IsCompleted reports whether every question is solved.
func (s *State) IsCompleted() bool {
	return len(s.Questions) > 0 && s.CompletedQuestions >= len(s.Questions)
}

// Progress returns the completion percentage (0-100, rounded).
func (s *State) Progress() int {
	if len(s.Questions) == 0 {
		return 0
	}
	return int(math.Round(float64(s.CompletedQuestions) * 100 / float64(len(s.Questions))))
}

// CheckInvariants verifies the completion counter and hint bookkeeping.
func (s *State) CheckInvariants() error {
	var errs []string

	if solved := s.countSolved(); solved != s.CompletedQuestions {
		errs = append(errs, fmt.Sprintf("completedQuestions = %d but %d questions are solved", s.CompletedQuestions, solved))
	}
	for id, hs := range s.HintStates {
		if hs == nil {
			continue
		}
		seen := make(map[string]bool, len(hs.UsedHints))
		for _, u := range hs.UsedHints {
			if seen[u.HintID] {
				errs = append(errs, fmt.Sprintf("question %d: hint %q used more than once", id, u.HintID))
			}
			seen[u.HintID] = true
		}
		if hs.WrongAttempts < 0 {
			errs = append(errs, fmt.Sprintf("question %d: negative wrong attempts %d", id, hs.WrongAttempts))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("quiz %q state invalid:\n  %s", s.ID, strings.Join(errs, "\n  "))
	}
	return nil
}

// Clone returns a deep copy of the state.
func (s *State) Clone() *State {
	c := &State{
		ID:                 s.ID,
		Title:              s.Title,
		Mode:               s.Mode,
		Questions:          make([]Question, len(s.Questions)),
		CompletedQuestions: s.CompletedQuestions,
		HintStates:         make(map[int]*HintState, len(s.HintStates)),
	}
	copy(c.Questions, s.Questions)
	for id, hs := range s.HintStates {
		c.HintStates[id] = hs.Clone()
	}
	return c
}

func (s *State) countSolved() int {
	n := 0
	for _, q := range s.Questions {
		if q.Status == StatusSolved {
			n++
		}
	}
	return n
}
