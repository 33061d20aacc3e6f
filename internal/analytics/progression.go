// Package analytics derives progression metrics and report payloads from a
// learner's history. Everything here is pure.
package analytics

import (
	"time"

	"skillcheck/internal/domain"
	"skillcheck/internal/util"
)

// TrendPoint is one (timestamp, overall score) sample.
type TrendPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Score     float64   `json:"score"`
}

// KindStats aggregates results for one question kind. Accuracy is the
// percentage of correct answers.
type KindStats struct {
	Kind      domain.QuestionKind `json:"kind"`
	Questions int                 `json:"questions"`
	Correct   int                 `json:"correct"`
	Accuracy  float64             `json:"accuracy"`
	MeanScore float64             `json:"mean_score"`
}

// ProgressionSummary is derived from an ascending history. Optional metrics
// are nil when the history is too short to define them.
type ProgressionSummary struct {
	Attempts int                   `json:"attempts"`
	Latest   *domain.SessionRecord `json:"latest,omitempty"`
	Trend    []TrendPoint          `json:"trend"`
	// Mean is rounded to 2 decimals, the precision overall scores are
	// stored with, so it reads on the same scale as Best and Trend.
	Mean *float64 `json:"mean,omitempty"`
	Best *float64 `json:"best,omitempty"`
	// Delta is latest minus previous overall score.
	Delta  *float64    `json:"delta,omitempty"`
	ByKind []KindStats `json:"by_kind"`
}

// Analyze summarizes history, which must be ascending by timestamp.
func Analyze(history []*domain.SessionRecord) *ProgressionSummary {
	summary := &ProgressionSummary{
		Attempts: len(history),
		Trend:    make([]TrendPoint, 0, len(history)),
		ByKind:   []KindStats{},
	}
	if len(history) == 0 {
		return summary
	}

	scores := make([]float64, len(history))
	for i, r := range history {
		scores[i] = r.OverallScore
		summary.Trend = append(summary.Trend, TrendPoint{Timestamp: r.Timestamp, Score: r.OverallScore})
	}

	summary.Latest = history[len(history)-1]
	summary.Mean = float64Ptr(util.Round2(util.Mean(scores)))
	summary.Best = float64Ptr(util.Max(scores))
	if n := len(scores); n >= 2 {
		summary.Delta = float64Ptr(util.Round2(scores[n-1] - scores[n-2]))
	}
	summary.ByKind = kindStats(history)
	return summary
}

func kindStats(history []*domain.SessionRecord) []KindStats {
	type acc struct {
		questions, correct int
		scoreSum           float64
	}
	byKind := make(map[domain.QuestionKind]*acc)
	for _, r := range history {
		for _, res := range r.Results {
			a, ok := byKind[res.Kind]
			if !ok {
				a = &acc{}
				byKind[res.Kind] = a
			}
			a.questions++
			a.scoreSum += res.Score
			if res.Correct {
				a.correct++
			}
		}
	}

	stats := []KindStats{}
	for _, k := range domain.QuestionKinds {
		a, ok := byKind[k]
		if !ok {
			continue
		}
		stats = append(stats, KindStats{
			Kind:      k,
			Questions: a.questions,
			Correct:   a.correct,
			Accuracy:  util.Round2(100 * float64(a.correct) / float64(a.questions)),
			MeanScore: util.Round2(a.scoreSum / float64(a.questions)),
		})
	}
	return stats
}

func float64Ptr(v float64) *float64 { return &v }
