package service

import (
	"context"
	"fmt"
	"time"

	"skillcheck/internal/domain"
	"skillcheck/internal/logger"
	"skillcheck/internal/schema"
	"skillcheck/internal/util"

	"go.uber.org/zap"
)

// DefaultCorrectThreshold is the short-answer score at or above which the
// answer counts as correct.
const DefaultCorrectThreshold = 60.0

// EvaluationInput is everything needed to grade one submitted quiz.
type EvaluationInput struct {
	UserID  string
	Quiz    *domain.Quiz
	Answers domain.AnswerSet
	// NotBefore is the timestamp of the latest record already in the
	// learner's history for this skill; zero when there is none.
	NotBefore time.Time
}

// Aggregator grades answers through the language model and normalizes the
// result into a session record.
type Aggregator struct {
	model      domain.LanguageModel
	maxRetries int
	threshold  float64
	now        func() time.Time
	newID      func(time.Time) string
}

func NewAggregator(model domain.LanguageModel, maxRetries int, threshold float64) *Aggregator {
	if maxRetries < 0 {
		maxRetries = DefaultMaxRetries
	}
	if threshold <= 0 || threshold > 100 {
		threshold = DefaultCorrectThreshold
	}
	return &Aggregator{
		model:      model,
		maxRetries: maxRetries,
		threshold:  threshold,
		now:        time.Now,
		newID:      util.NewULID,
	}
}

// BuildEvaluationRequest pairs every question with its expected and given
// answers.
func BuildEvaluationRequest(quiz *domain.Quiz, answers domain.AnswerSet) domain.EvaluationRequest {
	items := make([]domain.EvaluationItem, len(quiz.Questions))
	for i, q := range quiz.Questions {
		item := domain.EvaluationItem{
			Index:           i,
			Kind:            q.Kind,
			Prompt:          q.Prompt,
			Options:         q.Options,
			ReferenceAnswer: q.ReferenceAnswer,
		}
		if q.Kind == domain.KindMultipleChoice {
			item.CorrectAnswer = q.CorrectOption()
		}
		if i < len(answers) {
			item.LearnerAnswer = learnerAnswerText(q, answers[i])
		}
		items[i] = item
	}
	return domain.EvaluationRequest{Skill: quiz.Skill, Items: items}
}

func learnerAnswerText(q domain.Question, a domain.Answer) string {
	if q.Kind == domain.KindMultipleChoice && a.SelectedOption != nil {
		if idx := *a.SelectedOption; idx >= 0 && idx < len(q.Options) {
			return q.Options[idx]
		}
	}
	return a.Text
}

// Evaluate grades the answers and returns a validated, not yet persisted
// record. Model and validation failures are returned as
// *domain.EvaluationFailedError.
func (a *Aggregator) Evaluate(ctx context.Context, in EvaluationInput) (*domain.SessionRecord, error) {
	if have, want := len(in.Answers), len(in.Quiz.Questions); have > want {
		return nil, domain.NewInvalidInputError(fmt.Sprintf("got %d answers for %d questions", have, want))
	} else if have < want {
		return nil, &domain.IncompleteError{MissingIndices: missingFrom(have, want)}
	}

	req := BuildEvaluationRequest(in.Quiz, in.Answers)
	n := len(in.Quiz.Questions)

	ev, attempts, err := retryOnInvalid(ctx, "evaluate", a.maxRetries, func(ctx context.Context, strict bool) (*schema.Evaluation, error) {
		r := req
		r.Strict = strict
		raw, err := a.model.EvaluateAnswers(ctx, r)
		if err != nil {
			return nil, err
		}
		return schema.ParseEvaluation(raw, n)
	})
	if err != nil {
		logger.Get().Error("answer evaluation failed",
			zap.String("skill", in.Quiz.Skill),
			zap.String("userID", in.UserID),
			zap.Int("attempts", attempts),
			zap.Error(err))
		return nil, &domain.EvaluationFailedError{Attempts: attempts, Err: err}
	}

	ts := a.timestamp(in.NotBefore)
	record := &domain.SessionRecord{
		ID:              a.newID(ts),
		UserID:          in.UserID,
		Skill:           in.Quiz.Skill,
		Timestamp:       ts,
		Difficulty:      in.Quiz.Difficulty,
		Questions:       in.Quiz.Questions,
		Answers:         in.Answers,
		OverallScore:    util.Round2(ev.OverallScore),
		Results:         a.normalize(in.Quiz, in.Answers, ev),
		Feedback:        ev.Feedback,
		Strengths:       nonNil(ev.Strengths),
		Weaknesses:      nonNil(ev.Weaknesses),
		Recommendations: nonNil(ev.Recommendations),
	}
	if err := record.Validate(); err != nil {
		return nil, fmt.Errorf("evaluated record is inconsistent: %w", err)
	}
	return record, nil
}

func (a *Aggregator) normalize(quiz *domain.Quiz, answers domain.AnswerSet, ev *schema.Evaluation) []domain.QuestionResult {
	results := make([]domain.QuestionResult, len(quiz.Questions))
	for i, q := range quiz.Questions {
		res := domain.QuestionResult{Index: i, Kind: q.Kind, Feedback: ev.QuestionResults[i].Feedback}
		switch q.Kind {
		case domain.KindMultipleChoice:
			sel := answers[i].SelectedOption
			res.Correct = sel != nil && *sel == q.CorrectIndex
			if res.Correct {
				res.Score = 100
			}
		default:
			res.Score = gradedScore(ev.QuestionResults[i])
			res.Correct = res.Score >= a.threshold
		}
		results[i] = res
	}
	return results
}

// gradedScore prefers the numeric score; a boolean verdict maps to 100 or 0.
func gradedScore(q schema.EvaluatedQuestion) float64 {
	if q.Score != nil {
		return util.Round2(util.Clamp(*q.Score, 0, 100))
	}
	if q.Correct != nil && *q.Correct {
		return 100
	}
	return 0
}

// timestamp is now in UTC at millisecond precision, moved past notBefore
// when the clock has not advanced beyond it.
func (a *Aggregator) timestamp(notBefore time.Time) time.Time {
	ts := a.now().UTC().Truncate(time.Millisecond)
	if !notBefore.IsZero() && !ts.After(notBefore) {
		ts = notBefore.UTC().Truncate(time.Millisecond).Add(time.Millisecond)
	}
	return ts
}

func missingFrom(have, want int) []int {
	var missing []int
	for i := have; i < want; i++ {
		missing = append(missing, i)
	}
	return missing
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
