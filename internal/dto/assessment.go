package dto

import (
	"time"

	"skillcheck/internal/domain"
)

// StartAssessmentRequest starts a quiz for a skill.
type StartAssessmentRequest struct {
	Skill string `json:"skill"`
}

// AnswerRequest records one answer. Exactly one of the fields applies,
// depending on the question kind.
type AnswerRequest struct {
	SelectedOption *int   `json:"selected_option,omitempty"`
	Text           string `json:"text,omitempty"`
}

func (r AnswerRequest) ToDomain() domain.Answer {
	return domain.Answer{SelectedOption: r.SelectedOption, Text: r.Text}
}

// SessionResponse is the learner-facing view of the active session. It never
// carries correct indices or reference answers.
type SessionResponse struct {
	ID             string                  `json:"id"`
	Skill          string                  `json:"skill"`
	Difficulty     domain.Difficulty       `json:"difficulty"`
	StartedAt      time.Time               `json:"started_at"`
	Questions      []domain.PublicQuestion `json:"questions"`
	Answers        []*AnswerRequest        `json:"answers"`
	MissingIndices []int                   `json:"missing_indices"`
}

func NewSessionResponse(s *domain.ActiveSession) SessionResponse {
	resp := SessionResponse{
		ID:             s.ID,
		Skill:          s.Skill,
		Difficulty:     s.Difficulty,
		StartedAt:      s.StartedAt,
		Questions:      s.Quiz().Public(),
		Answers:        make([]*AnswerRequest, len(s.Questions)),
		MissingIndices: []int{},
	}
	for i := range s.Questions {
		if i < len(s.Answers) && s.Answers[i] != nil {
			resp.Answers[i] = &AnswerRequest{SelectedOption: s.Answers[i].SelectedOption, Text: s.Answers[i].Text}
			continue
		}
		resp.MissingIndices = append(resp.MissingIndices, i)
	}
	return resp
}

// QuestionResultResponse is one graded question of a completed attempt.
type QuestionResultResponse struct {
	Index           int                 `json:"index"`
	Kind            domain.QuestionKind `json:"kind"`
	Prompt          string              `json:"prompt"`
	Options         []string            `json:"options,omitempty"`
	CorrectIndex    *int                `json:"correct_index,omitempty"`
	ReferenceAnswer string              `json:"reference_answer,omitempty"`
	Answer          AnswerRequest       `json:"answer"`
	Score           float64             `json:"score"`
	Correct         bool                `json:"correct"`
	Feedback        string              `json:"feedback"`
}

// RecordResponse is a completed attempt. After submission the answer key is
// no longer secret, so it is included.
type RecordResponse struct {
	ID              string                   `json:"id"`
	Skill           string                   `json:"skill"`
	Timestamp       time.Time                `json:"timestamp"`
	Difficulty      domain.Difficulty        `json:"difficulty"`
	OverallScore    float64                  `json:"overall_score"`
	Results         []QuestionResultResponse `json:"results"`
	Feedback        string                   `json:"feedback"`
	Strengths       []string                 `json:"strengths"`
	Weaknesses      []string                 `json:"weaknesses"`
	Recommendations []string                 `json:"recommendations"`
}

func NewRecordResponse(r *domain.SessionRecord) RecordResponse {
	resp := RecordResponse{
		ID:              r.ID,
		Skill:           r.Skill,
		Timestamp:       r.Timestamp,
		Difficulty:      r.Difficulty,
		OverallScore:    r.OverallScore,
		Results:         make([]QuestionResultResponse, 0, len(r.Results)),
		Feedback:        r.Feedback,
		Strengths:       nonNil(r.Strengths),
		Weaknesses:      nonNil(r.Weaknesses),
		Recommendations: nonNil(r.Recommendations),
	}
	for _, res := range r.Results {
		row := QuestionResultResponse{
			Index:    res.Index,
			Kind:     res.Kind,
			Score:    res.Score,
			Correct:  res.Correct,
			Feedback: res.Feedback,
		}
		if res.Index < len(r.Questions) {
			q := r.Questions[res.Index]
			row.Prompt = q.Prompt
			row.Options = q.Options
			row.ReferenceAnswer = q.ReferenceAnswer
			if q.Kind == domain.KindMultipleChoice {
				idx := q.CorrectIndex
				row.CorrectIndex = &idx
			}
		}
		if res.Index < len(r.Answers) {
			a := r.Answers[res.Index]
			row.Answer = AnswerRequest{SelectedOption: a.SelectedOption, Text: a.Text}
		}
		resp.Results = append(resp.Results, row)
	}
	return resp
}

func NewRecordListResponse(records []*domain.SessionRecord) []RecordResponse {
	out := make([]RecordResponse, 0, len(records))
	for _, r := range records {
		out = append(out, NewRecordResponse(r))
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
