package domain

import (
	"fmt"
	"time"
)

// Answer is a learner response. Multiple-choice answers set SelectedOption,
// short answers set Text.
type Answer struct {
	SelectedOption *int   `json:"selected_option,omitempty" bson:"selected_option,omitempty"`
	Text           string `json:"text,omitempty" bson:"text,omitempty"`
}

// Choice is a convenience constructor for a multiple-choice answer.
func Choice(index int) Answer {
	return Answer{SelectedOption: &index}
}

// Written is a convenience constructor for a short answer.
func Written(text string) Answer {
	return Answer{Text: text}
}

// AnswerSet holds exactly one answer per question, by index.
type AnswerSet []Answer

// QuestionResult is the normalized outcome of one question.
type QuestionResult struct {
	Index    int          `json:"index" bson:"index"`
	Kind     QuestionKind `json:"kind" bson:"kind"`
	Score    float64      `json:"score" bson:"score"`
	Correct  bool         `json:"correct" bson:"correct"`
	Feedback string       `json:"feedback" bson:"feedback"`
}

// SessionRecord is the immutable result of one completed attempt.
type SessionRecord struct {
	ID              string           `json:"id" bson:"_id"`
	UserID          string           `json:"user_id" bson:"user_id"`
	Skill           string           `json:"skill" bson:"skill"`
	Timestamp       time.Time        `json:"timestamp" bson:"timestamp"`
	Difficulty      Difficulty       `json:"difficulty" bson:"difficulty"`
	Questions       []Question       `json:"questions" bson:"questions"`
	Answers         AnswerSet        `json:"answers" bson:"answers"`
	OverallScore    float64          `json:"overall_score" bson:"overall_score"`
	Results         []QuestionResult `json:"results" bson:"results"`
	Feedback        string           `json:"feedback" bson:"feedback"`
	Strengths       []string         `json:"strengths" bson:"strengths"`
	Weaknesses      []string         `json:"weaknesses" bson:"weaknesses"`
	Recommendations []string         `json:"recommendations" bson:"recommendations"`
}

// Validate enforces the record invariants checked before a record is
// appended to history.
func (r *SessionRecord) Validate() error {
	switch {
	case r.ID == "":
		return NewInvalidInputError("session record id is required")
	case r.UserID == "":
		return NewInvalidInputError("session record user id is required")
	case r.Skill == "":
		return NewInvalidInputError("session record skill is required")
	case r.Timestamp.IsZero():
		return NewInvalidInputError("session record timestamp is required")
	}
	if r.OverallScore < 0 || r.OverallScore > 100 {
		return NewInvalidInputError(fmt.Sprintf("overall score %.2f outside [0,100]", r.OverallScore))
	}
	if len(r.Questions) != QuizSize {
		return NewInvalidInputError(fmt.Sprintf("expected %d questions, got %d", QuizSize, len(r.Questions)))
	}
	if len(r.Answers) != len(r.Questions) {
		return NewInvalidInputError(fmt.Sprintf("expected %d answers, got %d", len(r.Questions), len(r.Answers)))
	}
	if len(r.Results) != len(r.Questions) {
		return NewInvalidInputError(fmt.Sprintf("expected %d question results, got %d", len(r.Questions), len(r.Results)))
	}
	for i, res := range r.Results {
		if res.Index != i {
			return NewInvalidInputError(fmt.Sprintf("question result %d has index %d", i, res.Index))
		}
		if res.Score < 0 || res.Score > 100 {
			return NewInvalidInputError(fmt.Sprintf("question result %d score %.2f outside [0,100]", i, res.Score))
		}
	}
	return nil
}
