package content

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/quizcore/internal/answer"
	"github.com/abhisek/quizcore/internal/hints"
	"github.com/abhisek/quizcore/internal/quiz"
	"github.com/abhisek/quizcore/internal/unlock"
)

// ErrInvalidContent wraps every schema or structure problem of a content
// document.
var ErrInvalidContent = errors.New("invalid content")

//go:embed schema.json
var schemaJSON []byte

const schemaURL = "schema://quizcore/content.json"

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

// contentSchema compiles the embedded schema once.
func contentSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		def, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
		if err != nil {
			schemaErr = fmt.Errorf("parse schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, def); err != nil {
			schemaErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiledSchema, schemaErr = c.Compile(schemaURL)
	})
	return compiledSchema, schemaErr
}

// validateSchema checks the YAML document against the content schema. The
// document is converted to JSON first so the validator sees JSON types.
func validateSchema(data []byte) error {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: parse yaml: %w", ErrInvalidContent, err)
	}
	js, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("%w: convert to json: %w", ErrInvalidContent, err)
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(js))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidContent, err)
	}

	sch, err := contentSchema()
	if err != nil {
		return fmt.Errorf("compile content schema: %w", err)
	}
	if err := sch.Validate(inst); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidContent, err)
	}
	return nil
}

// reservedHintIDs are generated for every question and cannot be authored.
var reservedHintIDs = map[string]bool{
	hints.LetterCountID: true,
	hints.FirstLetterID: true,
}

// validateStructure performs the checks a schema cannot express. Returns a
// combined error describing all problems found, or nil if valid.
func validateStructure(configs []quiz.Config) error {
	var errs []string

	for _, c := range configs {
		prefix := fmt.Sprintf("quiz %q", c.ID)

		switch c.Mode {
		case quiz.ModeSequential, quiz.ModeAllUnlocked:
		default:
			errs = append(errs, fmt.Sprintf("%s: unknown mode %q", prefix, c.Mode))
		}
		if len(c.Questions) == 0 {
			errs = append(errs, fmt.Sprintf("%s: has no questions", prefix))
		}
		if c.InitialUnlockedQuestions < 0 || c.InitialUnlockedQuestions > len(c.Questions) {
			errs = append(errs, fmt.Sprintf("%s: initialUnlockedQuestions must be in [0, %d], got %d",
				prefix, len(c.Questions), c.InitialUnlockedQuestions))
		}
		if c.Mode == quiz.ModeSequential && c.InitialUnlockedQuestions == 0 && len(c.Questions) > 0 {
			errs = append(errs, fmt.Sprintf("%s: no question starts active", prefix))
		}

		questionIDs := make(map[int]bool, len(c.Questions))
		for _, q := range c.Questions {
			qp := fmt.Sprintf("%s question %d", prefix, q.ID)
			if questionIDs[q.ID] {
				errs = append(errs, fmt.Sprintf("%s: duplicate question ID", qp))
			}
			questionIDs[q.ID] = true

			if answer.Normalize(q.Answer) == "" {
				errs = append(errs, fmt.Sprintf("%s: answer %q has no matchable characters", qp, q.Answer))
			}
			errs = append(errs, validateHints(qp, q)...)
		}
	}

	if err := unlock.Validate(configs); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w:\n  %s", ErrInvalidContent, strings.Join(errs, "\n  "))
	}
	return nil
}

func validateHints(prefix string, q quiz.Question) []string {
	var errs []string
	seen := make(map[string]bool)
	check := func(id string) {
		switch {
		case reservedHintIDs[id]:
			errs = append(errs, fmt.Sprintf("%s: hint ID %q is reserved", prefix, id))
		case seen[id]:
			errs = append(errs, fmt.Sprintf("%s: duplicate hint ID %q", prefix, id))
		}
		seen[id] = true
	}

	for _, h := range q.Hints.Custom {
		check(h.ID)
		if h.Cost < 0 {
			errs = append(errs, fmt.Sprintf("%s: hint %q has negative cost", prefix, h.ID))
		}
	}
	for _, h := range q.Hints.Contextual {
		check(h.ID)
		for _, t := range h.Triggers {
			if answer.Normalize(t) == "" {
				errs = append(errs, fmt.Sprintf("%s: hint %q trigger %q has no matchable characters", prefix, h.ID, t))
			}
		}
	}
	for _, h := range q.Hints.AutoFree {
		check(h.ID)
		if h.TriggerAfterAttempts < 1 {
			errs = append(errs, fmt.Sprintf("%s: hint %q must trigger after at least one attempt", prefix, h.ID))
		}
	}
	return errs
}
