// Package engine is the coordinating root of the quiz runtime. It owns the
// quiz states, the points ledger and the pending unlock records, and applies
// every change to them as one atomic state replacement.
package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"sync"
	"time"

	"github.com/abhisek/quizcore/internal/hints"
	"github.com/abhisek/quizcore/internal/points"
	"github.com/abhisek/quizcore/internal/quiz"
	"github.com/abhisek/quizcore/internal/unlock"
)

// Config holds the reward policy of the engine.
type Config struct {
	// StartingPoints seeds the ledger on first start and on a full reset.
	StartingPoints int
	// PointsPerAnswer is awarded for a correct answer when the question does
	// not set its own value.
	PointsPerAnswer int
	// HintCosts prices the standard hints.
	HintCosts hints.Costs
}

// DefaultConfig returns the default reward policy.
func DefaultConfig() Config {
	return Config{
		StartingPoints:  10,
		PointsPerAnswer: 10,
		HintCosts:       hints.DefaultCosts(),
	}
}

// State is the aggregate runtime state. A *State held by the engine is never
// mutated; updates work on a copy that replaces it.
type State struct {
	Quizzes map[string]*quiz.State
	Pending unlock.Pending
	Points  points.State
}

// clone copies the containers. Quiz states are shared until written through
// quizForWrite.
func (s *State) clone() *State {
	return &State{
		Quizzes: maps.Clone(s.Quizzes),
		Pending: s.Pending.Clone(),
		Points:  s.Points.Clone(),
	}
}

// deepClone copies everything, including every quiz state.
func (s *State) deepClone() State {
	c := State{
		Quizzes: make(map[string]*quiz.State, len(s.Quizzes)),
		Pending: s.Pending.Clone(),
		Points:  s.Points.Clone(),
	}
	for id, st := range s.Quizzes {
		c.Quizzes[id] = st.Clone()
	}
	return c
}

// Engine is safe for concurrent use. Calls are serialized; each mutating call
// either replaces the whole state or leaves it untouched.
type Engine struct {
	mu     sync.Mutex
	state  *State
	cfg    Config
	graph  *unlock.Graph
	hints  *hints.Engine
	logger *slog.Logger
	now    func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// New creates an engine over an immutable set of quiz configs, starting from
// a freshly seeded state.
func New(configs []quiz.Config, cfg Config, opts ...Option) *Engine {
	e := &Engine{
		cfg:    cfg,
		graph:  unlock.NewGraph(configs),
		hints:  hints.NewEngine(cfg.HintCosts),
		logger: slog.New(slog.DiscardHandler),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.state = e.seedState()
	return e
}

func (e *Engine) seedState() *State {
	return &State{
		Quizzes: make(map[string]*quiz.State),
		Pending: unlock.Pending{},
		Points:  points.NewState(e.cfg.StartingPoints, e.now()),
	}
}

// errNoChange aborts an update without reporting a failure to the caller.
var errNoChange = errors.New("no change")

// update runs fn on a copy of the current state and installs the copy when
// fn succeeds.
func (e *Engine) update(fn func(s *State) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	next := e.state.clone()
	if err := fn(next); err != nil {
		return err
	}
	e.state = next
	return nil
}

// current returns the installed state. Callers must not mutate it.
func (e *Engine) current() *State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// config returns the quiz config or ErrQuizNotFound.
func (e *Engine) config(quizID string) (quiz.Config, error) {
	cfg, ok := e.graph.Config(quizID)
	if !ok {
		return quiz.Config{}, fmt.Errorf("%w: %q", quiz.ErrQuizNotFound, quizID)
	}
	return cfg, nil
}

// quizForWrite returns a private copy of the quiz state in s, creating it
// from the config on first access.
func (e *Engine) quizForWrite(s *State, quizID string) (*quiz.State, quiz.Config, error) {
	cfg, err := e.config(quizID)
	if err != nil {
		return nil, quiz.Config{}, err
	}
	st, ok := s.Quizzes[quizID]
	if ok && st != nil {
		st = st.Clone()
	} else {
		st = quiz.NewState(cfg)
	}
	s.Quizzes[quizID] = st
	return st, cfg, nil
}

// quizForRead returns the installed quiz state, or a fresh one that is not
// stored when the quiz has not been played yet.
func (e *Engine) quizForRead(quizID string) (*quiz.State, error) {
	cfg, err := e.config(quizID)
	if err != nil {
		return nil, err
	}
	if st, ok := e.current().Quizzes[quizID]; ok && st != nil {
		return st, nil
	}
	return quiz.NewState(cfg), nil
}

// Catalog returns the quiz configs in display order.
func (e *Engine) Catalog() []quiz.Config {
	return e.graph.Configs()
}

// Quiz returns the config of one quiz.
func (e *Engine) Quiz(quizID string) (quiz.Config, error) {
	return e.config(quizID)
}

// InitializeQuizState returns the state of the quiz, creating it on first
// access. Calling it again returns the existing state unchanged.
func (e *Engine) InitializeQuizState(quizID string) (*quiz.State, error) {
	var out *quiz.State
	err := e.update(func(s *State) error {
		if st, ok := s.Quizzes[quizID]; ok && st != nil {
			out = st.Clone()
			return errNoChange
		}
		st, _, err := e.quizForWrite(s, quizID)
		if err != nil {
			return err
		}
		out = st.Clone()
		e.logger.Debug("quiz state initialized", "quiz", quizID, "questions", len(st.Questions))
		return nil
	})
	if err != nil && !errors.Is(err, errNoChange) {
		return nil, err
	}
	return out, nil
}

// QuizState returns a copy of the stored state of a quiz, if any.
func (e *Engine) QuizState(quizID string) (*quiz.State, bool) {
	st, ok := e.current().Quizzes[quizID]
	if !ok || st == nil {
		return nil, false
	}
	return st.Clone(), true
}

// ResetQuizState recreates the quiz state from its config. The points ledger
// and pending unlocks are kept.
func (e *Engine) ResetQuizState(quizID string) (*quiz.State, error) {
	var out *quiz.State
	err := e.update(func(s *State) error {
		cfg, err := e.config(quizID)
		if err != nil {
			return err
		}
		st := quiz.NewState(cfg)
		s.Quizzes[quizID] = st
		out = st.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	e.logger.Info("quiz reset", "quiz", quizID)
	return out, nil
}

// ResetAllQuizStates drops every quiz state, reseeds the ledger and clears
// the pending unlocks.
func (e *Engine) ResetAllQuizStates() {
	e.mu.Lock()
	e.state = e.seedState()
	e.mu.Unlock()
	e.logger.Info("all quiz data reset", "startingPoints", e.cfg.StartingPoints)
}

// QuizProgress returns the completion percentage of a quiz.
func (e *Engine) QuizProgress(quizID string) (int, error) {
	st, err := e.quizForRead(quizID)
	if err != nil {
		return 0, err
	}
	return st.Progress(), nil
}

// IsQuizCompleted reports whether every question of the quiz is solved.
// Unknown quizzes are not completed.
func (e *Engine) IsQuizCompleted(quizID string) bool {
	st, err := e.quizForRead(quizID)
	if err != nil {
		return false
	}
	return st.IsCompleted()
}

// NextActiveQuestion returns the next unsolved question after current (by
// id), wrapping backwards. Returns false when the quiz is complete or
// unknown.
func (e *Engine) NextActiveQuestion(quizID string, current *int) (int, bool) {
	st, err := e.quizForRead(quizID)
	if err != nil {
		return 0, false
	}
	return st.NextActiveQuestion(current)
}

// Points returns a copy of the points ledger.
func (e *Engine) Points() points.State {
	return e.current().Points.Clone()
}

// Snapshot returns a deep copy of the whole state for persistence.
func (e *Engine) Snapshot() State {
	return e.current().deepClone()
}

// Restore installs a previously persisted state. Quiz states are rebased
// onto the current configs; states and unlock records of quizzes that no
// longer exist are dropped, and a ledger whose totals disagree with its
// history is repaired.
func (e *Engine) Restore(s State) {
	next := &State{
		Quizzes: make(map[string]*quiz.State, len(s.Quizzes)),
		Pending: unlock.Pending{},
		Points:  s.Points.Clone(),
	}

	for id, st := range s.Quizzes {
		cfg, ok := e.graph.Config(id)
		if !ok || st == nil {
			e.logger.Warn("dropping state of unknown quiz", "quiz", id)
			continue
		}
		rebased := st.Rebase(cfg)
		if err := rebased.CheckInvariants(); err != nil {
			e.logger.Warn("restored quiz state is inconsistent", "quiz", id, "error", err)
		}
		next.Quizzes[id] = rebased
	}

	for _, u := range s.Pending {
		if _, ok := e.graph.Config(u.QuizID); !ok {
			e.logger.Warn("dropping unlock record of unknown quiz", "quiz", u.QuizID)
			continue
		}
		next.Pending = append(next.Pending, u)
	}

	if len(next.Points.PointsHistory) == 0 {
		next.Points = points.NewState(e.cfg.StartingPoints, e.now())
	} else if err := next.Points.Reconcile(); err != nil {
		e.logger.Warn("repairing points ledger", "error", err)
		next.Points.Repair()
	}

	e.mu.Lock()
	e.state = next
	e.mu.Unlock()
}
