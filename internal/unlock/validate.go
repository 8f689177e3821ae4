package unlock

import (
	"fmt"
	"strings"

	"github.com/abhisek/quizcore/internal/quiz"
)

// Validate performs the structural checks on the unlock conditions of the
// given quiz set. Returns a combined error describing all problems found, or
// nil if valid.
func Validate(configs []quiz.Config) error {
	var errs []string

	byID := make(map[string]quiz.Config, len(configs))
	for _, c := range configs {
		if _, dup := byID[c.ID]; dup {
			errs = append(errs, fmt.Sprintf("duplicate quiz ID: %q", c.ID))
		}
		byID[c.ID] = c
	}

	for _, c := range configs {
		cond := c.UnlockCondition
		if cond == nil {
			continue
		}
		if cond.RequiredQuizID == "" {
			errs = append(errs, fmt.Sprintf("quiz %q: unlock condition has no required quiz", c.ID))
			continue
		}
		if cond.RequiredQuizID == c.ID {
			errs = append(errs, fmt.Sprintf("quiz %q requires itself", c.ID))
			continue
		}
		req, ok := byID[cond.RequiredQuizID]
		if !ok {
			errs = append(errs, fmt.Sprintf("quiz %q references nonexistent quiz %q", c.ID, cond.RequiredQuizID))
			continue
		}
		if cond.RequiredQuestionsSolved < 0 {
			errs = append(errs, fmt.Sprintf("quiz %q: requiredQuestionsSolved must be >= 0, got %d", c.ID, cond.RequiredQuestionsSolved))
		}
		if cond.RequiredQuestionsSolved > len(req.Questions) {
			errs = append(errs, fmt.Sprintf("quiz %q: requires %d solved questions but %q has only %d",
				c.ID, cond.RequiredQuestionsSolved, req.ID, len(req.Questions)))
		}
	}

	// Cycles: every quiz must appear in the topological order.
	order := topologicalOrder(configs)
	if len(order) < len(configs) {
		seen := make(map[string]bool, len(order))
		for _, id := range order {
			seen[id] = true
		}
		var cycleNodes []string
		for _, c := range configs {
			if !seen[c.ID] {
				cycleNodes = append(cycleNodes, c.ID)
			}
		}
		// Self-references are already reported above.
		if len(cycleNodes) > 0 && !(len(cycleNodes) == 1 && requiresSelf(byID[cycleNodes[0]])) {
			errs = append(errs, fmt.Sprintf("cycle detected involving quizzes: %s", strings.Join(cycleNodes, ", ")))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("unlock graph validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}

func requiresSelf(c quiz.Config) bool {
	return c.UnlockCondition != nil && c.UnlockCondition.RequiredQuizID == c.ID
}
