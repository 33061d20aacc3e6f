package domain

import "context"

// GenerationRequest asks the language model for one quiz.
type GenerationRequest struct {
	Skill          string
	Count          int
	Difficulty     Difficulty
	MultipleChoice int
	ShortAnswer    int
	// Strict is set on retries after the previous output failed validation.
	Strict bool
}

// EvaluationItem is one question as presented to the evaluator.
type EvaluationItem struct {
	Index           int
	Kind            QuestionKind
	Prompt          string
	Options         []string
	CorrectAnswer   string
	ReferenceAnswer string
	LearnerAnswer   string
}

// EvaluationRequest asks the language model to grade a submitted quiz.
type EvaluationRequest struct {
	Skill  string
	Items  []EvaluationItem
	Strict bool
}

// LanguageModel is the boundary to the external model provider. Both methods
// return the raw model text; structure is checked by the caller.
type LanguageModel interface {
	GenerateQuiz(ctx context.Context, req GenerationRequest) (string, error)
	EvaluateAnswers(ctx context.Context, req EvaluationRequest) (string, error)
}
