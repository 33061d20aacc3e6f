package service

import (
	"context"
	"errors"
	"time"

	"skillcheck/internal/analytics"
	"skillcheck/internal/domain"
	"skillcheck/internal/logger"
	"skillcheck/internal/metrics"
	"skillcheck/internal/util"

	"go.uber.org/zap"
)

// AssessmentService runs the assessment lifecycle for a learner: start a
// quiz, collect answers, submit for evaluation and read back history.
type AssessmentService interface {
	Start(ctx context.Context, userID, skill string) (*domain.ActiveSession, error)
	Current(ctx context.Context, userID string) (*domain.ActiveSession, error)
	RecordAnswer(ctx context.Context, userID string, index int, answer domain.Answer) (*domain.ActiveSession, error)
	Submit(ctx context.Context, userID string) (*domain.SessionRecord, error)
	History(ctx context.Context, userID, skill string) ([]*domain.SessionRecord, error)
	ListAll(ctx context.Context, userID string) ([]*domain.SessionRecord, error)
	Progression(ctx context.Context, userID, skill string) (*analytics.ProgressionSummary, error)
	Report(ctx context.Context, userID, skill string) (*analytics.ReportPayload, error)
}

type assessmentService struct {
	catalog    domain.SkillCatalog
	history    domain.HistoryStore
	sessions   domain.SessionStore
	builder    *QuizBuilder
	aggregator *Aggregator
	now        func() time.Time
}

func NewAssessmentService(
	catalog domain.SkillCatalog,
	history domain.HistoryStore,
	sessions domain.SessionStore,
	builder *QuizBuilder,
	aggregator *Aggregator,
) AssessmentService {
	return &assessmentService{
		catalog:    catalog,
		history:    history,
		sessions:   sessions,
		builder:    builder,
		aggregator: aggregator,
		now:        time.Now,
	}
}

// Start generates a quiz for skill and makes it the learner's only active
// session.
func (s *assessmentService) Start(ctx context.Context, userID, skillName string) (*domain.ActiveSession, error) {
	skill, err := domain.NewSkill(skillName)
	if err != nil {
		return nil, err
	}
	if _, err := s.catalog.Ensure(ctx, skill); err != nil {
		return nil, domain.NewInternalError("failed to register skill", err)
	}

	history, err := s.history.Read(ctx, userID, skill.Name)
	if err != nil {
		return nil, err
	}

	quiz, err := s.builder.Generate(ctx, skill.Name, history)
	if err != nil {
		return nil, err
	}

	session := &domain.ActiveSession{
		ID:         util.NewSessionID(),
		UserID:     userID,
		Skill:      skill.Name,
		Difficulty: quiz.Difficulty,
		Questions:  quiz.Questions,
		Answers:    make([]*domain.Answer, len(quiz.Questions)),
		StartedAt:  s.now().UTC(),
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, domain.NewInternalError("failed to store assessment session", err)
	}

	metrics.AssessmentsStarted.Inc()
	logger.Get().Info("assessment started",
		zap.String("userID", userID),
		zap.String("skill", skill.Name),
		zap.String("sessionID", session.ID),
		zap.String("difficulty", string(session.Difficulty)))
	return session, nil
}

func (s *assessmentService) Current(ctx context.Context, userID string) (*domain.ActiveSession, error) {
	return s.sessions.Load(ctx, userID)
}

func (s *assessmentService) RecordAnswer(ctx context.Context, userID string, index int, answer domain.Answer) (*domain.ActiveSession, error) {
	session, err := s.sessions.Load(ctx, userID)
	if err != nil {
		return nil, err
	}

	collector, err := domain.RestoreAnswerCollector(session.Quiz().Public(), session.Answers)
	if err != nil {
		return nil, domain.NewInternalError("stored session is corrupt", err)
	}
	if err := collector.RecordAnswer(index, answer); err != nil {
		return nil, err
	}

	session.Answers = collector.Snapshot()
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, domain.NewInternalError("failed to store answer", err)
	}
	return session, nil
}

// Submit evaluates the active session and appends the resulting record. The
// session is kept when evaluation or persistence fails so the learner can
// submit again.
func (s *assessmentService) Submit(ctx context.Context, userID string) (*domain.SessionRecord, error) {
	session, err := s.sessions.Load(ctx, userID)
	if err != nil {
		return nil, err
	}

	collector, err := domain.RestoreAnswerCollector(session.Quiz().Public(), session.Answers)
	if err != nil {
		return nil, domain.NewInternalError("stored session is corrupt", err)
	}
	answers, err := collector.Submit()
	if err != nil {
		return nil, err
	}

	history, err := s.history.Read(ctx, userID, session.Skill)
	if err != nil {
		return nil, err
	}
	var notBefore time.Time
	if n := len(history); n > 0 {
		notBefore = history[n-1].Timestamp
	}

	record, err := s.aggregator.Evaluate(ctx, EvaluationInput{
		UserID:    userID,
		Quiz:      session.Quiz(),
		Answers:   answers,
		NotBefore: notBefore,
	})
	if err != nil {
		metrics.AssessmentsCompleted.WithLabelValues("evaluation_failed").Inc()
		return nil, err
	}

	if err := s.history.Append(ctx, record); err != nil {
		metrics.AssessmentsCompleted.WithLabelValues("persistence_failed").Inc()
		return nil, err
	}

	if err := s.sessions.Delete(ctx, userID); err != nil {
		logger.Get().Warn("failed to clear submitted session", zap.String("userID", userID), zap.Error(err))
	}

	metrics.AssessmentsCompleted.WithLabelValues("ok").Inc()
	metrics.OverallScore.Observe(record.OverallScore)
	logger.Get().Info("assessment recorded",
		zap.String("userID", userID),
		zap.String("skill", record.Skill),
		zap.String("recordID", record.ID),
		zap.Float64("overallScore", record.OverallScore))
	return record, nil
}

func (s *assessmentService) History(ctx context.Context, userID, skill string) ([]*domain.SessionRecord, error) {
	name := domain.NormalizeSkillName(skill)
	if name == "" {
		return nil, domain.NewInvalidInputError("skill name is required")
	}
	return s.history.Read(ctx, userID, name)
}

func (s *assessmentService) ListAll(ctx context.Context, userID string) ([]*domain.SessionRecord, error) {
	return s.history.ListByUser(ctx, userID)
}

func (s *assessmentService) Progression(ctx context.Context, userID, skill string) (*analytics.ProgressionSummary, error) {
	history, err := s.History(ctx, userID, skill)
	if err != nil {
		return nil, err
	}
	return analytics.Analyze(history), nil
}

func (s *assessmentService) Report(ctx context.Context, userID, skill string) (*analytics.ReportPayload, error) {
	history, err := s.History(ctx, userID, skill)
	if err != nil {
		return nil, err
	}
	summary := analytics.Analyze(history)

	report, err := analytics.Compose(summary, summary.Latest)
	if errors.Is(err, analytics.ErrNoLatestRecord) {
		return nil, domain.NewNoHistoryError(domain.NormalizeSkillName(skill))
	}
	return report, err
}
