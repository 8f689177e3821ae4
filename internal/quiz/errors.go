package quiz

import "errors"

var (
	// ErrQuizNotFound indicates the quiz id is not part of the catalog.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrQuestionNotFound indicates the question id does not exist in the quiz.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrQuestionNotActive is returned when a locked or already solved
	// question is answered.
	ErrQuestionNotActive = errors.New("question is not active")
	// ErrHintNotFound indicates the hint id does not exist for the question.
	ErrHintNotFound = errors.New("hint not found")
)
