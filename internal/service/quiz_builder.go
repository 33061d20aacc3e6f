package service

import (
	"context"

	"skillcheck/internal/domain"
	"skillcheck/internal/logger"
	"skillcheck/internal/schema"
	"skillcheck/internal/util"

	"go.uber.org/zap"
)

// recentWindow is how many of the latest records drive the difficulty hint.
const recentWindow = 3

// Difficulty thresholds on the mean of recent overall scores.
const (
	easyBelow   = 40.0
	mediumBelow = 75.0
)

// QuizBuilder turns a skill and its history into a validated quiz.
type QuizBuilder struct {
	model      domain.LanguageModel
	maxRetries int
}

func NewQuizBuilder(model domain.LanguageModel, maxRetries int) *QuizBuilder {
	if maxRetries < 0 {
		maxRetries = DefaultMaxRetries
	}
	return &QuizBuilder{model: model, maxRetries: maxRetries}
}

// DifficultyFor derives the difficulty hint from the last three overall
// scores of an ascending history. No history yields medium.
func DifficultyFor(history []*domain.SessionRecord) domain.Difficulty {
	if len(history) == 0 {
		return domain.DifficultyMedium
	}
	recent := history
	if len(recent) > recentWindow {
		recent = recent[len(recent)-recentWindow:]
	}
	scores := make([]float64, len(recent))
	for i, r := range recent {
		scores[i] = r.OverallScore
	}
	mean := util.Mean(scores)
	switch {
	case mean < easyBelow:
		return domain.DifficultyEasy
	case mean < mediumBelow:
		return domain.DifficultyMedium
	default:
		return domain.DifficultyHard
	}
}

// BuildRequest produces the normalized generation request for skill.
func BuildRequest(skill string, history []*domain.SessionRecord) domain.GenerationRequest {
	difficulty := DifficultyFor(history)
	mc, sa := 3, 2
	if difficulty == domain.DifficultyHard {
		mc, sa = 2, 3
	}
	return domain.GenerationRequest{
		Skill:          skill,
		Count:          domain.QuizSize,
		Difficulty:     difficulty,
		MultipleChoice: mc,
		ShortAnswer:    sa,
	}
}

// ParseResponse validates raw generator output into a quiz.
func ParseResponse(req domain.GenerationRequest, raw string) (*domain.Quiz, error) {
	questions, err := schema.ParseQuiz(raw)
	if err != nil {
		return nil, err
	}
	return &domain.Quiz{Skill: req.Skill, Difficulty: req.Difficulty, Questions: questions}, nil
}

// Generate requests a quiz, retrying with Strict set while the output fails
// validation. Every failure is returned as *domain.GenerationFailedError.
func (b *QuizBuilder) Generate(ctx context.Context, skill string, history []*domain.SessionRecord) (*domain.Quiz, error) {
	req := BuildRequest(skill, history)

	quiz, attempts, err := retryOnInvalid(ctx, "generate", b.maxRetries, func(ctx context.Context, strict bool) (*domain.Quiz, error) {
		r := req
		r.Strict = strict
		raw, err := b.model.GenerateQuiz(ctx, r)
		if err != nil {
			return nil, err
		}
		return ParseResponse(r, raw)
	})
	if err != nil {
		logger.Get().Error("quiz generation failed",
			zap.String("skill", skill),
			zap.Int("attempts", attempts),
			zap.Error(err))
		return nil, &domain.GenerationFailedError{Skill: skill, Attempts: attempts, Err: err}
	}

	logger.Get().Info("quiz generated",
		zap.String("skill", skill),
		zap.String("difficulty", string(quiz.Difficulty)),
		zap.Int("attempts", attempts))
	return quiz, nil
}
