// Package content loads quiz definitions from YAML and validates them before
// they reach the engine.
package content

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/abhisek/quizcore/internal/quiz"
)

//go:embed sample.yaml
var sampleYAML []byte

// DefaultInitialUnlocked is used when a sequential quiz does not say how many
// questions start active.
const DefaultInitialUnlocked = 1

type document struct {
	Quizzes []quizDoc `yaml:"quizzes"`
}

type quizDoc struct {
	ID                       string        `yaml:"id"`
	Title                    string        `yaml:"title"`
	Order                    int           `yaml:"order"`
	Mode                     string        `yaml:"mode"`
	InitiallyLocked          bool          `yaml:"initiallyLocked"`
	InitialUnlockedQuestions *int          `yaml:"initialUnlockedQuestions"`
	CompletionBonus          int           `yaml:"completionBonus"`
	UnlockCondition          *unlockDoc    `yaml:"unlockCondition"`
	Questions                []questionDoc `yaml:"questions"`
}

type unlockDoc struct {
	RequiredQuizID          string `yaml:"requiredQuizId"`
	RequiredQuestionsSolved int    `yaml:"requiredQuestionsSolved"`
}

type questionDoc struct {
	ID           int      `yaml:"id"`
	Text         string   `yaml:"text"`
	Answer       string   `yaml:"answer"`
	Alternatives []string `yaml:"alternatives"`
	FunFact      string   `yaml:"funFact"`
	Points       int      `yaml:"points"`
	Hints        hintsDoc `yaml:"hints"`
}

type hintsDoc struct {
	Custom []struct {
		ID      string `yaml:"id"`
		Title   string `yaml:"title"`
		Cost    int    `yaml:"cost"`
		Content string `yaml:"content"`
	} `yaml:"custom"`
	Contextual []struct {
		ID             string            `yaml:"id"`
		Title          string            `yaml:"title"`
		Triggers       []string          `yaml:"triggers"`
		Content        string            `yaml:"content"`
		TriggerContent map[string]string `yaml:"triggerContent"`
	} `yaml:"contextual"`
	AutoFree []struct {
		ID                   string `yaml:"id"`
		Title                string `yaml:"title"`
		TriggerAfterAttempts int    `yaml:"triggerAfterAttempts"`
		Content              string `yaml:"content"`
	} `yaml:"autoFree"`
}

// Load reads and validates a content file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read content: %w", err)
	}
	cat, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cat, nil
}

// Default returns the catalog embedded in the binary.
func Default() *Catalog {
	cat, err := Parse(sampleYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded content is invalid: %v", err))
	}
	return cat
}

// Parse validates a YAML content document against the content schema,
// decodes it and checks the structure of the result.
func Parse(data []byte) (*Catalog, error) {
	if err := validateSchema(data); err != nil {
		return nil, err
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode content: %w", err)
	}

	configs := make([]quiz.Config, 0, len(doc.Quizzes))
	for _, q := range doc.Quizzes {
		configs = append(configs, q.toConfig())
	}
	return NewCatalog(configs)
}

func (d quizDoc) toConfig() quiz.Config {
	cfg := quiz.Config{
		Quiz: quiz.Quiz{
			ID:        d.ID,
			Title:     d.Title,
			Questions: make([]quiz.Question, 0, len(d.Questions)),
		},
		InitiallyLocked:          d.InitiallyLocked,
		InitialUnlockedQuestions: DefaultInitialUnlocked,
		Order:                    d.Order,
		Mode:                     quiz.ModeSequential,
		CompletionBonus:          d.CompletionBonus,
	}
	if d.Mode != "" {
		cfg.Mode = quiz.Mode(d.Mode)
	}
	if d.InitialUnlockedQuestions != nil {
		cfg.InitialUnlockedQuestions = *d.InitialUnlockedQuestions
	}
	if d.UnlockCondition != nil {
		cfg.UnlockCondition = &quiz.UnlockCondition{
			RequiredQuizID:          d.UnlockCondition.RequiredQuizID,
			RequiredQuestionsSolved: d.UnlockCondition.RequiredQuestionsSolved,
		}
	}
	for _, q := range d.Questions {
		cfg.Questions = append(cfg.Questions, q.toQuestion())
	}
	return cfg
}

func (d questionDoc) toQuestion() quiz.Question {
	q := quiz.Question{
		ID:           d.ID,
		Text:         d.Text,
		Answer:       d.Answer,
		Alternatives: d.Alternatives,
		FunFact:      d.FunFact,
		Points:       d.Points,
		Status:       quiz.StatusInactive,
	}
	for _, h := range d.Hints.Custom {
		q.Hints.Custom = append(q.Hints.Custom, quiz.CustomHint{
			HintBase: quiz.HintBase{ID: h.ID, Title: h.Title},
			Cost:     h.Cost,
			Content:  h.Content,
		})
	}
	for _, h := range d.Hints.Contextual {
		q.Hints.Contextual = append(q.Hints.Contextual, quiz.ContextualHint{
			HintBase:       quiz.HintBase{ID: h.ID, Title: h.Title},
			Triggers:       h.Triggers,
			Content:        h.Content,
			TriggerContent: h.TriggerContent,
		})
	}
	for _, h := range d.Hints.AutoFree {
		q.Hints.AutoFree = append(q.Hints.AutoFree, quiz.AutoFreeHint{
			HintBase:             quiz.HintBase{ID: h.ID, Title: h.Title},
			TriggerAfterAttempts: h.TriggerAfterAttempts,
			Content:              h.Content,
		})
	}
	return q
}
