// Package quiz holds the quiz domain types and the per-question state
// machine (inactive → active → solved).
package quiz

// Status is a question's position in its lifecycle.
type Status string

const (
	StatusInactive Status = "inactive" // Not yet answerable
	StatusActive   Status = "active"   // Answerable (part of the frontier)
	StatusSolved   Status = "solved"   // Answered correctly exactly once
)

// Mode selects how questions become answerable.
type Mode string

const (
	// ModeSequential starts with a fixed frontier and unlocks one new
	// question per correct answer.
	ModeSequential Mode = "sequential"
	// ModeAllUnlocked makes every question answerable from the start.
	ModeAllUnlocked Mode = "all-unlocked"
)

// Question is a single authored question plus its runtime status.
type Question struct {
	ID           int           `json:"id"`
	Text         string        `json:"text,omitempty"`
	Answer       string        `json:"answer"`
	Alternatives []string      `json:"alternatives,omitempty"`
	FunFact      string        `json:"funFact,omitempty"`
	Points       int           `json:"points,omitempty"` // 0 = engine default
	Hints        QuestionHints `json:"hints"`
	Status       Status        `json:"status"`
}

// QuestionHints groups the authored hints of a question by kind.
type QuestionHints struct {
	Custom     []CustomHint     `json:"custom,omitempty"`
	Contextual []ContextualHint `json:"contextual,omitempty"`
	AutoFree   []AutoFreeHint   `json:"autoFree,omitempty"`
}

// Quiz is an ordered sequence of questions.
type Quiz struct {
	ID        string
	Title     string
	Questions []Question
}

// UnlockCondition names the quiz whose progress unlocks another quiz.
// With RequiredQuestionsSolved == 0 the required quiz must be fully completed.
type UnlockCondition struct {
	RequiredQuizID          string `json:"requiredQuizId"`
	RequiredQuestionsSolved int    `json:"requiredQuestionsSolved,omitempty"`
}

// IsProgressBased reports whether the condition asks for a number of solved
// questions rather than full completion.
func (c UnlockCondition) IsProgressBased() bool {
	return c.RequiredQuestionsSolved > 0
}

// Config is a quiz together with its progression policy.
type Config struct {
	Quiz
	InitiallyLocked          bool
	UnlockCondition          *UnlockCondition
	InitialUnlockedQuestions int
	Order                    int
	Mode                     Mode
	CompletionBonus          int // extra points when the last question is solved
}

// Question returns the authored question with the given id.
func (c *Config) Question(id int) (Question, bool) {
	for _, q := range c.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}
