package quiz

import "time"

// HintKind identifies the variant of a hint.
type HintKind string

const (
	KindLetterCount HintKind = "letter-count"
	KindFirstLetter HintKind = "first-letter"
	KindCustom      HintKind = "custom"
	KindContextual  HintKind = "contextual"
	KindAutoFree    HintKind = "auto-free"
)

// IsStandard reports whether the kind is one of the generated standard hints.
func (k HintKind) IsStandard() bool {
	return k == KindLetterCount || k == KindFirstLetter
}

// Hint is the closed set of hint variants: StandardHint, CustomHint,
// ContextualHint and AutoFreeHint.
type Hint interface {
	HintID() string
	HintTitle() string
	HintCost() int
	Kind() HintKind
	hint()
}

// HintBase carries the fields every hint variant has.
type HintBase struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

func (b HintBase) HintID() string    { return b.ID }
func (b HintBase) HintTitle() string { return b.Title }
func (b HintBase) hint()             {}

// StandardHint is generated for every question from its expected answer.
type StandardHint struct {
	HintBase
	Variant  HintKind // KindLetterCount or KindFirstLetter
	Cost     int
	Generate func(Question) string
}

func (h StandardHint) HintCost() int  { return h.Cost }
func (h StandardHint) Kind() HintKind { return h.Variant }

// CustomHint is authored with static content and a fixed cost.
type CustomHint struct {
	HintBase
	Cost    int    `json:"cost"`
	Content string `json:"content"`
}

func (h CustomHint) HintCost() int  { return h.Cost }
func (h CustomHint) Kind() HintKind { return KindCustom }

// ContextualHint is revealed for free when a wrong answer contains one of its
// trigger phrases. TriggerContent optionally maps a phrase to specific
// content; Content is the generic fallback.
type ContextualHint struct {
	HintBase
	Triggers       []string          `json:"triggers"`
	Content        string            `json:"content"`
	TriggerContent map[string]string `json:"triggerContent,omitempty"`
}

func (h ContextualHint) HintCost() int  { return 0 }
func (h ContextualHint) Kind() HintKind { return KindContextual }

// AutoFreeHint is granted automatically once the wrong-attempt count for the
// question reaches TriggerAfterAttempts.
type AutoFreeHint struct {
	HintBase
	TriggerAfterAttempts int    `json:"triggerAfterAttempts"`
	Content              string `json:"content"`
}

func (h AutoFreeHint) HintCost() int  { return 0 }
func (h AutoFreeHint) Kind() HintKind { return KindAutoFree }

// UsedHint records a hint that was revealed for a question.
type UsedHint struct {
	HintID  string    `json:"hintId"`
	Kind    HintKind  `json:"kind"`
	Cost    int       `json:"cost"`
	Trigger string    `json:"trigger,omitempty"` // phrase that revealed a contextual hint
	UsedAt  time.Time `json:"usedAt"`
}

// HintState is the per-question hint bookkeeping.
type HintState struct {
	UsedHints         []UsedHint `json:"usedHints"`
	WrongAttempts     int        `json:"wrongAttempts"`
	AutoFreeHintsUsed []string   `json:"autoFreeHintsUsed"`
}

// NewHintState returns an empty hint state.
func NewHintState() *HintState {
	return &HintState{
		UsedHints:         []UsedHint{},
		AutoFreeHintsUsed: []string{},
	}
}

// HasUsed reports whether the hint id was already revealed.
func (hs *HintState) HasUsed(hintID string) bool {
	for _, u := range hs.UsedHints {
		if u.HintID == hintID {
			return true
		}
	}
	return false
}

// AutoFreeGranted reports whether the auto-free hint was already granted.
func (hs *HintState) AutoFreeGranted(hintID string) bool {
	for _, id := range hs.AutoFreeHintsUsed {
		if id == hintID {
			return true
		}
	}
	return false
}

// Clone returns a deep copy.
func (hs *HintState) Clone() *HintState {
	if hs == nil {
		return NewHintState()
	}
	c := &HintState{
		UsedHints:         make([]UsedHint, len(hs.UsedHints)),
		WrongAttempts:     hs.WrongAttempts,
		AutoFreeHintsUsed: make([]string, len(hs.AutoFreeHintsUsed)),
	}
	copy(c.UsedHints, hs.UsedHints)
	copy(c.AutoFreeHintsUsed, hs.AutoFreeHintsUsed)
	return c
}
