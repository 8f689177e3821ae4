// Package hints enumerates the hints of a question, decides whether each one
// can be used, reveals their content and records their use.
package hints

import (
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/abhisek/quizcore/internal/answer"
	"github.com/abhisek/quizcore/internal/points"
	"github.com/abhisek/quizcore/internal/quiz"
)

// Standard hint ids. Authored hints must not reuse them.
const (
	LetterCountID = "letter-count"
	FirstLetterID = "first-letter"
)

// Ineligibility reasons.
const (
	ReasonAlreadyUsed     = "already used"
	ReasonNotPurchasable  = "triggered by answers, not purchasable"
	ReasonNotEnoughPoints = "not enough points"
)

// Costs configures the price of the generated standard hints.
type Costs struct {
	LetterCount int
	FirstLetter int
}

// DefaultCosts returns the default standard hint prices.
func DefaultCosts() Costs {
	return Costs{LetterCount: 5, FirstLetter: 10}
}

// Engine evaluates hints for questions.
type Engine struct {
	costs Costs
}

// NewEngine creates a hint engine with the given standard hint costs.
func NewEngine(costs Costs) *Engine {
	return &Engine{costs: costs}
}

// Eligibility is the outcome of CanUse.
type Eligibility struct {
	CanUse bool
	Reason string
}

// Triggered is a contextual hint revealed by a wrong answer, together with
// the trigger phrase that matched.
type Triggered struct {
	Hint   quiz.ContextualHint
	Phrase string
}

// Applied describes a hint that was just recorded as used.
type Applied struct {
	Hint    quiz.Hint
	Content string
	Cost    int // points to deduct; 0 for contextual and auto-free hints
}

// GenerateAll returns every hint of the question: letter count, first
// letter, then the authored custom, contextual and auto-free hints.
func (e *Engine) GenerateAll(q quiz.Question) []quiz.Hint {
	all := make([]quiz.Hint, 0, 2+len(q.Hints.Custom)+len(q.Hints.Contextual)+len(q.Hints.AutoFree))
	all = append(all, e.standardHints()...)
	for _, h := range q.Hints.Custom {
		all = append(all, h)
	}
	for _, h := range q.Hints.Contextual {
		all = append(all, h)
	}
	for _, h := range q.Hints.AutoFree {
		all = append(all, h)
	}
	return all
}

// Find returns the hint with the given id.
func (e *Engine) Find(q quiz.Question, hintID string) (quiz.Hint, error) {
	for _, h := range e.GenerateAll(q) {
		if h.HintID() == hintID {
			return h, nil
		}
	}
	return nil, fmt.Errorf("%w: question %d hint %q", quiz.ErrHintNotFound, q.ID, hintID)
}

func (e *Engine) standardHints() []quiz.Hint {
	return []quiz.Hint{
		quiz.StandardHint{
			HintBase: quiz.HintBase{ID: LetterCountID, Title: "Letter count"},
			Variant:  quiz.KindLetterCount,
			Cost:     e.costs.LetterCount,
			Generate: letterCount,
		},
		quiz.StandardHint{
			HintBase: quiz.HintBase{ID: FirstLetterID, Title: "First letter"},
			Variant:  quiz.KindFirstLetter,
			Cost:     e.costs.FirstLetter,
			Generate: firstLetter,
		},
	}
}

// letterCount describes the length of the expected answer, counting letters
// and digits only.
func letterCount(q quiz.Question) string {
	n := 0
	for _, r := range strings.TrimSpace(q.Answer) {
		if isLetterOrDigit(r) {
			n++
		}
	}
	if n == 1 {
		return "The answer has 1 letter."
	}
	return fmt.Sprintf("The answer has %d letters.", n)
}

func isLetterOrDigit(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func firstLetter(q quiz.Question) string {
	a := strings.TrimSpace(q.Answer)
	r, _ := utf8.DecodeRuneInString(a)
	if r == utf8.RuneError {
		return "The answer is empty."
	}
	return fmt.Sprintf("The answer starts with %q.", strings.ToUpper(string(r)))
}

// CanUse decides whether the hint can be revealed for the question's
// current hint state and points balance.
func (e *Engine) CanUse(h quiz.Hint, hs *quiz.HintState, pts points.State) Eligibility {
	if hs.HasUsed(h.HintID()) {
		return Eligibility{Reason: ReasonAlreadyUsed}
	}

	switch hint := h.(type) {
	case quiz.AutoFreeHint:
		if hs.AutoFreeGranted(hint.ID) {
			return Eligibility{Reason: ReasonAlreadyUsed}
		}
		if hs.WrongAttempts < hint.TriggerAfterAttempts {
			missing := hint.TriggerAfterAttempts - hs.WrongAttempts
			return Eligibility{Reason: fmt.Sprintf("need %d more wrong attempts", missing)}
		}
		return Eligibility{CanUse: true}
	case quiz.ContextualHint:
		return Eligibility{Reason: ReasonNotPurchasable}
	case quiz.StandardHint, quiz.CustomHint:
		if pts.TotalPoints >= h.HintCost() {
			return Eligibility{CanUse: true}
		}
		return Eligibility{Reason: ReasonNotEnoughPoints}
	default:
		return Eligibility{Reason: fmt.Sprintf("unsupported hint kind %q", h.Kind())}
	}
}

// CheckContextual returns every contextual hint of the question that has not
// been revealed yet and whose trigger phrases occur in the wrong answer.
func (e *Engine) CheckContextual(userAnswer string, q quiz.Question, hs *quiz.HintState) []Triggered {
	var out []Triggered
	for _, h := range q.Hints.Contextual {
		if hs.HasUsed(h.ID) {
			continue
		}
		for _, phrase := range h.Triggers {
			if answer.Contains(userAnswer, phrase) {
				out = append(out, Triggered{Hint: h, Phrase: phrase})
				break
			}
		}
	}
	return out
}

// CheckAutoFree returns every auto-free hint whose threshold has been
// reached and which has not been used yet.
func (e *Engine) CheckAutoFree(q quiz.Question, hs *quiz.HintState) []quiz.AutoFreeHint {
	var out []quiz.AutoFreeHint
	for _, h := range q.Hints.AutoFree {
		if h.TriggerAfterAttempts > hs.WrongAttempts {
			continue
		}
		if hs.HasUsed(h.ID) || hs.AutoFreeGranted(h.ID) {
			continue
		}
		out = append(out, h)
	}
	return out
}

// Content resolves the text revealed by a hint. For contextual hints the
// phrase that triggered it selects specific content when available.
func (e *Engine) Content(h quiz.Hint, q quiz.Question, phrase string) string {
	switch hint := h.(type) {
	case quiz.StandardHint:
		if hint.Generate == nil {
			return ""
		}
		return hint.Generate(q)
	case quiz.CustomHint:
		return hint.Content
	case quiz.ContextualHint:
		if phrase != "" {
			if c, ok := hint.TriggerContent[phrase]; ok {
				return c
			}
			for p, c := range hint.TriggerContent {
				if answer.Normalize(p) == answer.Normalize(phrase) {
					return c
				}
			}
		}
		return hint.Content
	case quiz.AutoFreeHint:
		return hint.Content
	default:
		return ""
	}
}

// Apply records the hint as used in hs and returns its content and the
// points to deduct. It does not check eligibility; callers use CanUse first
// (or a trigger check for contextual and auto-free hints).
func (e *Engine) Apply(h quiz.Hint, q quiz.Question, hs *quiz.HintState, phrase string, now time.Time) (Applied, error) {
	if hs.HasUsed(h.HintID()) {
		return Applied{}, fmt.Errorf("hint %q: %s", h.HintID(), ReasonAlreadyUsed)
	}

	cost := 0
	switch hint := h.(type) {
	case quiz.StandardHint, quiz.CustomHint:
		cost = h.HintCost()
	case quiz.AutoFreeHint:
		hs.AutoFreeHintsUsed = append(hs.AutoFreeHintsUsed, hint.ID)
	case quiz.ContextualHint:
	default:
		return Applied{}, fmt.Errorf("unsupported hint kind %q", h.Kind())
	}

	hs.UsedHints = append(hs.UsedHints, quiz.UsedHint{
		HintID:  h.HintID(),
		Kind:    h.Kind(),
		Cost:    cost,
		Trigger: phrase,
		UsedAt:  now,
	})

	return Applied{
		Hint:    h,
		Content: e.Content(h, q, phrase),
		Cost:    cost,
	}, nil
}

// RecordWrongAttempt counts a wrong answer for the question.
func RecordWrongAttempt(hs *quiz.HintState) {
	hs.WrongAttempts++
}
