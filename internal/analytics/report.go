package analytics

import (
	"errors"
	"time"

	"skillcheck/internal/domain"
)

// Score bands used for display.
const (
	BandStrong     = "strong"
	BandDeveloping = "developing"
	BandBeginning  = "beginning"
)

// ScoreBand classifies an overall score.
func ScoreBand(score float64) string {
	switch {
	case score >= 70:
		return BandStrong
	case score >= 50:
		return BandDeveloping
	default:
		return BandBeginning
	}
}

type ReportHeader struct {
	Skill        string            `json:"skill"`
	Date         time.Time         `json:"date"`
	OverallScore float64           `json:"overall_score"`
	Difficulty   domain.Difficulty `json:"difficulty"`
	Band         string            `json:"band"`
}

// BreakdownRow is one line of the question-wise table.
type BreakdownRow struct {
	Index         int                 `json:"index"`
	Kind          domain.QuestionKind `json:"kind"`
	Prompt        string              `json:"prompt"`
	LearnerAnswer string              `json:"learner_answer"`
	CorrectAnswer string              `json:"correct_answer,omitempty"`
	Score         float64             `json:"score"`
	Correct       bool                `json:"correct"`
	Feedback      string              `json:"feedback"`
}

type ScoreStats struct {
	Attempts int      `json:"attempts"`
	Latest   float64  `json:"latest"`
	Mean     *float64 `json:"mean,omitempty"`
	Best     *float64 `json:"best,omitempty"`
	Delta    *float64 `json:"delta,omitempty"`
}

// ReportPayload is the structured content of a progress report. Rendering
// it is left to the consumer.
type ReportPayload struct {
	Header          ReportHeader   `json:"header"`
	Breakdown       []BreakdownRow `json:"breakdown"`
	Trend           []TrendPoint   `json:"trend"`
	Stats           ScoreStats     `json:"stats"`
	ByKind          []KindStats    `json:"by_kind"`
	Feedback        string         `json:"feedback"`
	Strengths       []string       `json:"strengths"`
	Weaknesses      []string       `json:"weaknesses"`
	Recommendations []string       `json:"recommendations"`
}

var ErrNoLatestRecord = errors.New("report needs a latest session record")

// Compose builds the report for latest in the context of summary.
func Compose(summary *ProgressionSummary, latest *domain.SessionRecord) (*ReportPayload, error) {
	if latest == nil {
		return nil, ErrNoLatestRecord
	}
	if summary == nil {
		summary = Analyze([]*domain.SessionRecord{latest})
	}

	rows := make([]BreakdownRow, len(latest.Results))
	for i, res := range latest.Results {
		row := BreakdownRow{
			Index:    res.Index,
			Kind:     res.Kind,
			Score:    res.Score,
			Correct:  res.Correct,
			Feedback: res.Feedback,
		}
		if res.Index >= 0 && res.Index < len(latest.Questions) {
			q := latest.Questions[res.Index]
			row.Prompt = q.Prompt
			row.CorrectAnswer = q.CorrectOption()
			if row.CorrectAnswer == "" {
				row.CorrectAnswer = q.ReferenceAnswer
			}
			if res.Index < len(latest.Answers) {
				row.LearnerAnswer = answerText(q, latest.Answers[res.Index])
			}
		}
		rows[i] = row
	}

	return &ReportPayload{
		Header: ReportHeader{
			Skill:        latest.Skill,
			Date:         latest.Timestamp,
			OverallScore: latest.OverallScore,
			Difficulty:   latest.Difficulty,
			Band:         ScoreBand(latest.OverallScore),
		},
		Breakdown: rows,
		Trend:     append(make([]TrendPoint, 0, len(summary.Trend)), summary.Trend...),
		Stats: ScoreStats{
			Attempts: summary.Attempts,
			Latest:   latest.OverallScore,
			Mean:     summary.Mean,
			Best:     summary.Best,
			Delta:    summary.Delta,
		},
		ByKind:          summary.ByKind,
		Feedback:        latest.Feedback,
		Strengths:       append([]string{}, latest.Strengths...),
		Weaknesses:      append([]string{}, latest.Weaknesses...),
		Recommendations: append([]string{}, latest.Recommendations...),
	}, nil
}

func answerText(q domain.Question, a domain.Answer) string {
	if a.SelectedOption != nil {
		if idx := *a.SelectedOption; idx >= 0 && idx < len(q.Options) {
			return q.Options[idx]
		}
	}
	return a.Text
}
