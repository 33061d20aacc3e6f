package domain

import (
	"fmt"
	"strings"
)

// QuizSize is the fixed number of questions in every diagnostic quiz.
const QuizSize = 5

// Option count bounds for multiple-choice questions.
const (
	MinOptions = 2
	MaxOptions = 6
)

// QuestionKind is the answer format of a question.
type QuestionKind string

const (
	KindMultipleChoice QuestionKind = "multiple_choice"
	KindShortAnswer    QuestionKind = "short_answer"
)

// QuestionKinds lists every kind in display order.
var QuestionKinds = []QuestionKind{KindMultipleChoice, KindShortAnswer}

func (k QuestionKind) Valid() bool {
	return k == KindMultipleChoice || k == KindShortAnswer
}

// Difficulty is the coarse level requested from the quiz generator.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Question is one quiz item. CorrectIndex and ReferenceAnswer are server-side
// only and never leave the engine through PublicQuestion.
type Question struct {
	Kind            QuestionKind `json:"kind" bson:"kind"`
	Prompt          string       `json:"prompt" bson:"prompt"`
	Options         []string     `json:"options,omitempty" bson:"options,omitempty"`
	CorrectIndex    int          `json:"correct_index" bson:"correct_index"`
	ReferenceAnswer string       `json:"reference_answer,omitempty" bson:"reference_answer,omitempty"`
}

// CorrectOption returns the text of the correct option, or "" for
// short-answer questions.
func (q Question) CorrectOption() string {
	if q.Kind != KindMultipleChoice || q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
		return ""
	}
	return q.Options[q.CorrectIndex]
}

// Validate checks the structural rules of a single question.
func (q Question) Validate() error {
	if strings.TrimSpace(q.Prompt) == "" {
		return NewValidationError(ValidationMissingField, "prompt")
	}
	switch q.Kind {
	case KindMultipleChoice:
		if len(q.Options) < MinOptions || len(q.Options) > MaxOptions {
			return NewValidationError(ValidationWrongLength, "options")
		}
		seen := make(map[string]struct{}, len(q.Options))
		for i, opt := range q.Options {
			key := strings.ToLower(strings.TrimSpace(opt))
			if key == "" {
				return NewValidationError(ValidationMissingField, fmt.Sprintf("options/%d", i))
			}
			if _, dup := seen[key]; dup {
				return NewValidationError(ValidationOutOfRange, fmt.Sprintf("options/%d", i))
			}
			seen[key] = struct{}{}
		}
		if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
			return NewValidationError(ValidationOutOfRange, "correct_index")
		}
	case KindShortAnswer:
	default:
		return NewValidationError(ValidationWrongType, "kind")
	}
	return nil
}

// Quiz is the immutable five-question instrument of one attempt.
type Quiz struct {
	Skill      string
	Difficulty Difficulty
	Questions  []Question
}

// Validate checks the quiz-level invariants. Field paths are relative to the
// quiz ("questions/2/prompt").
func (q *Quiz) Validate() error {
	if len(q.Questions) != QuizSize {
		return NewValidationError(ValidationWrongLength, "questions")
	}
	for i, question := range q.Questions {
		if err := question.Validate(); err != nil {
			return err.(*ValidationError).Prefixed(fmt.Sprintf("questions/%d", i))
		}
	}
	return nil
}

// PublicQuestion is what the learner sees: no correct index, no reference.
type PublicQuestion struct {
	Index   int          `json:"index"`
	Kind    QuestionKind `json:"kind"`
	Prompt  string       `json:"prompt"`
	Options []string     `json:"options,omitempty"`
}

// Public returns the learner-facing view of the quiz.
func (q *Quiz) Public() []PublicQuestion {
	view := make([]PublicQuestion, len(q.Questions))
	for i, question := range q.Questions {
		view[i] = PublicQuestion{
			Index:   i,
			Kind:    question.Kind,
			Prompt:  question.Prompt,
			Options: append([]string(nil), question.Options...),
		}
	}
	return view
}
