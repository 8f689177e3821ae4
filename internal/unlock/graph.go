// Package unlock evaluates the prerequisite conditions between quizzes and
// tracks which quizzes became unlockable.
package unlock

import (
	"fmt"
	"math"
	"slices"
	"sort"
	"time"

	"github.com/abhisek/quizcore/internal/quiz"
)

// Graph holds the quiz configs with precomputed dependency indices.
type Graph struct {
	configs    []quiz.Config
	byID       map[string]*quiz.Config
	dependents map[string][]string
	topoOrder  []string
}

// NewGraph builds the graph from the quiz configs. Configs are kept in
// display order (Order, then id).
func NewGraph(configs []quiz.Config) *Graph {
	gr := &Graph{
		configs:    slices.Clone(configs),
		byID:       make(map[string]*quiz.Config, len(configs)),
		dependents: make(map[string][]string),
	}
	sort.SliceStable(gr.configs, func(i, j int) bool {
		if gr.configs[i].Order != gr.configs[j].Order {
			return gr.configs[i].Order < gr.configs[j].Order
		}
		return gr.configs[i].ID < gr.configs[j].ID
	})

	for i := range gr.configs {
		gr.byID[gr.configs[i].ID] = &gr.configs[i]
	}

	// Reverse edges: required quiz → quizzes waiting on it.
	for i := range gr.configs {
		c := gr.configs[i]
		if c.UnlockCondition == nil {
			continue
		}
		req := c.UnlockCondition.RequiredQuizID
		gr.dependents[req] = append(gr.dependents[req], c.ID)
	}
	for id := range gr.dependents {
		sort.Strings(gr.dependents[id])
	}

	gr.topoOrder = topologicalOrder(gr.configs)
	return gr
}

// topologicalOrder sorts quiz ids so that every quiz comes after the quiz it
// depends on (Kahn's algorithm). Quizzes on a cycle are left out.
func topologicalOrder(configs []quiz.Config) []string {
	inDegree := make(map[string]int, len(configs))
	adj := make(map[string][]string)
	known := make(map[string]bool, len(configs))
	for _, c := range configs {
		known[c.ID] = true
	}
	for _, c := range configs {
		if c.UnlockCondition != nil && known[c.UnlockCondition.RequiredQuizID] {
			inDegree[c.ID]++
			adj[c.UnlockCondition.RequiredQuizID] = append(adj[c.UnlockCondition.RequiredQuizID], c.ID)
		}
	}

	var queue []string
	for _, c := range configs {
		if inDegree[c.ID] == 0 {
			queue = append(queue, c.ID)
		}
	}
	sort.Strings(queue)

	var order []string
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		order = append(order, id)

		next := slices.Clone(adj[id])
		sort.Strings(next)
		for _, dep := range next {
			inDegree[dep]--
			if inDegree[dep] == 0 {
				queue = append(queue, dep)
			}
		}
	}
	return order
}

// Config returns the config for a quiz id.
func (g *Graph) Config(id string) (quiz.Config, bool) {
	c, ok := g.byID[id]
	if !ok {
		return quiz.Config{}, false
	}
	return *c, true
}

// Configs returns all configs in display order.
func (g *Graph) Configs() []quiz.Config {
	return slices.Clone(g.configs)
}

// Dependents returns the ids of quizzes whose unlock condition names id.
func (g *Graph) Dependents(id string) []string {
	return slices.Clone(g.dependents[id])
}

// TopologicalOrder returns quiz ids ordered so prerequisites come first.
func (g *Graph) TopologicalOrder() []string {
	return slices.Clone(g.topoOrder)
}

// IsUnlocked reports whether a quiz may be played given the current states.
// A quiz is unlocked when it is not initially locked, has no condition, or
// its condition is satisfied. A required quiz without state counts as
// untouched.
func IsUnlocked(cfg quiz.Config, states map[string]*quiz.State) bool {
	if !cfg.InitiallyLocked || cfg.UnlockCondition == nil {
		return true
	}
	return conditionMet(*cfg.UnlockCondition, states)
}

func conditionMet(cond quiz.UnlockCondition, states map[string]*quiz.State) bool {
	st, ok := states[cond.RequiredQuizID]
	if !ok || st == nil {
		return false
	}
	if cond.IsProgressBased() {
		return st.CompletedQuestions >= cond.RequiredQuestionsSolved
	}
	return len(st.Questions) > 0 && st.CompletedQuestions == len(st.Questions)
}

// waitsOnCondition reports whether the quiz is gated by a condition at all.
func waitsOnCondition(cfg quiz.Config) bool {
	return cfg.InitiallyLocked && cfg.UnlockCondition != nil
}

// CheckForUnlocks finds every locked quiz whose condition is satisfied and
// that has no pending unlock record yet. It returns the newly unlocked
// quizzes and the pending list with new records appended. Calling it again
// with unchanged states returns no quizzes.
func (g *Graph) CheckForUnlocks(states map[string]*quiz.State, pending Pending, now time.Time) ([]quiz.Quiz, Pending) {
	out := pending.Clone()
	var unlocked []quiz.Quiz
	for _, cfg := range g.configs {
		if !waitsOnCondition(cfg) || out.Has(cfg.ID) {
			continue
		}
		if !conditionMet(*cfg.UnlockCondition, states) {
			continue
		}
		out = append(out, PendingUnlock{QuizID: cfg.ID, QuizTitle: cfg.Title, UnlockedAt: now})
		unlocked = append(unlocked, cfg.Quiz)
	}
	return unlocked, out
}

// DetectMissedUnlocks re-derives the unlocks caused by already completed
// quizzes and creates the pending records that are missing, e.g. because a
// previous session ended before they were written.
func (g *Graph) DetectMissedUnlocks(states map[string]*quiz.State, pending Pending, now time.Time) ([]PendingUnlock, Pending) {
	out := pending.Clone()
	var created []PendingUnlock
	for _, id := range g.topoOrder {
		st, ok := states[id]
		if !ok || st == nil || !st.IsCompleted() {
			continue
		}
		for _, depID := range g.dependents[id] {
			dep := g.byID[depID]
			if dep == nil || !waitsOnCondition(*dep) || out.Has(depID) {
				continue
			}
			if !conditionMet(*dep.UnlockCondition, states) {
				continue
			}
			rec := PendingUnlock{QuizID: dep.ID, QuizTitle: dep.Title, UnlockedAt: now}
			out = append(out, rec)
			created = append(created, rec)
		}
	}
	return created, out
}

// ConditionProgress describes how far a quiz is from being unlocked.
type ConditionProgress struct {
	Condition *quiz.UnlockCondition
	Solved    int
	Required  int
	Percent   int // 0-100
	IsMet     bool
}

// Progress reports the unlock progress of a quiz.
func (g *Graph) Progress(id string, states map[string]*quiz.State) (ConditionProgress, error) {
	cfg, ok := g.byID[id]
	if !ok {
		return ConditionProgress{}, fmt.Errorf("%w: %q", quiz.ErrQuizNotFound, id)
	}
	if !waitsOnCondition(*cfg) {
		return ConditionProgress{Condition: cfg.UnlockCondition, Percent: 100, IsMet: true}, nil
	}

	cond := *cfg.UnlockCondition
	p := ConditionProgress{Condition: &cond}
	p.Required = cond.RequiredQuestionsSolved
	if !cond.IsProgressBased() {
		if req, ok := g.byID[cond.RequiredQuizID]; ok {
			p.Required = len(req.Questions)
		}
	}
	if st, ok := states[cond.RequiredQuizID]; ok && st != nil {
		p.Solved = st.CompletedQuestions
		if !cond.IsProgressBased() {
			p.Required = len(st.Questions)
		}
	}
	p.IsMet = conditionMet(cond, states)

	switch {
	case p.IsMet:
		p.Percent = 100
	case p.Required > 0:
		p.Percent = int(math.Min(100, math.Floor(float64(p.Solved)*100/float64(p.Required))))
	}
	return p, nil
}
