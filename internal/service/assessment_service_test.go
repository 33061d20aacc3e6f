package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"skillcheck/internal/adapter"
	"skillcheck/internal/analytics"
	"skillcheck/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type assessmentFixture struct {
	svc      AssessmentService
	model    *MockLanguageModel
	history  *MockHistoryStore
	catalog  *MockSkillCatalog
	sessions *CacheSessionStore
}

func newAssessmentFixture() *assessmentFixture {
	f := &assessmentFixture{
		model:    new(MockLanguageModel),
		history:  new(MockHistoryStore),
		catalog:  new(MockSkillCatalog),
		sessions: NewCacheSessionStore(adapter.NewMemoryCache(), time.Hour),
	}
	f.svc = NewAssessmentService(f.catalog, f.history, f.sessions,
		NewQuizBuilder(f.model, 2), NewAggregator(f.model, 2, 60))
	return f
}

func (f *assessmentFixture) start(t *testing.T, ctx context.Context) *domain.ActiveSession {
	t.Helper()
	f.catalog.On("Ensure", ctx, mock.AnythingOfType("*domain.Skill")).
		Return(&domain.Skill{Name: "go", DisplayName: "Go"}, nil).Once()
	f.history.On("Read", ctx, "u-1", "go").Return([]*domain.SessionRecord{}, nil).Once()
	f.model.On("GenerateQuiz", ctx, mock.Anything).Return(quizOutput, nil).Once()

	session, err := f.svc.Start(ctx, "u-1", "  Go ")
	require.NoError(t, err)
	return session
}

func TestAssessmentService_FullLifecycle(t *testing.T) {
	ctx := context.Background()
	f := newAssessmentFixture()

	session := f.start(t, ctx)
	assert.Equal(t, "go", session.Skill)
	assert.NotEmpty(t, session.ID)
	assert.Len(t, session.Questions, domain.QuizSize)

	for i, a := range testAnswers() {
		_, err := f.svc.RecordAnswer(ctx, "u-1", i, a)
		require.NoError(t, err)
	}

	current, err := f.svc.Current(ctx, "u-1")
	require.NoError(t, err)
	collector, err := domain.RestoreAnswerCollector(current.Quiz().Public(), current.Answers)
	require.NoError(t, err)
	assert.Empty(t, collector.Missing())

	previous := &domain.SessionRecord{Timestamp: time.Now().Add(-time.Hour), OverallScore: 50}
	f.history.On("Read", ctx, "u-1", "go").Return([]*domain.SessionRecord{previous}, nil).Once()
	f.model.On("EvaluateAnswers", ctx, mock.Anything).Return(evaluationOutput, nil).Once()
	f.history.On("Append", ctx, mock.AnythingOfType("*domain.SessionRecord")).Return(nil).Once()

	record, err := f.svc.Submit(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, "u-1", record.UserID)
	assert.Equal(t, "go", record.Skill)
	assert.True(t, record.Timestamp.After(previous.Timestamp))
	assert.Len(t, record.Results, domain.QuizSize)

	// the session is gone once recorded
	_, err = f.svc.Current(ctx, "u-1")
	var derr *domain.DomainError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, domain.ErrSessionNotFound, derr.Code)

	f.model.AssertExpectations(t)
	f.history.AssertExpectations(t)
	f.catalog.AssertExpectations(t)
}

func TestAssessmentService_SubmitIncomplete(t *testing.T) {
	ctx := context.Background()
	f := newAssessmentFixture()
	f.start(t, ctx)

	for i, a := range testAnswers() {
		if i == 2 {
			continue
		}
		_, err := f.svc.RecordAnswer(ctx, "u-1", i, a)
		require.NoError(t, err)
	}

	_, err := f.svc.Submit(ctx, "u-1")
	var incomplete *domain.IncompleteError
	require.ErrorAs(t, err, &incomplete)
	assert.Equal(t, []int{2}, incomplete.MissingIndices)
	f.model.AssertNotCalled(t, "EvaluateAnswers", mock.Anything, mock.Anything)
}

func TestAssessmentService_SubmitKeepsSessionOnPersistenceFailure(t *testing.T) {
	ctx := context.Background()
	f := newAssessmentFixture()
	f.start(t, ctx)
	for i, a := range testAnswers() {
		_, err := f.svc.RecordAnswer(ctx, "u-1", i, a)
		require.NoError(t, err)
	}

	perr := &domain.PersistenceError{Op: "append", Err: errors.New("ORA-12541")}
	f.history.On("Read", ctx, "u-1", "go").Return([]*domain.SessionRecord{}, nil).Once()
	f.model.On("EvaluateAnswers", ctx, mock.Anything).Return(evaluationOutput, nil).Once()
	f.history.On("Append", ctx, mock.Anything).Return(perr).Once()

	_, err := f.svc.Submit(ctx, "u-1")
	var got *domain.PersistenceError
	require.ErrorAs(t, err, &got)

	_, err = f.svc.Current(ctx, "u-1")
	assert.NoError(t, err)
}

func TestAssessmentService_RecordAnswerWithoutSession(t *testing.T) {
	f := newAssessmentFixture()
	_, err := f.svc.RecordAnswer(context.Background(), "nobody", 0, domain.Choice(0))
	var derr *domain.DomainError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, domain.ErrSessionNotFound, derr.Code)
}

func TestAssessmentService_StartRejectsBlankSkill(t *testing.T) {
	f := newAssessmentFixture()
	_, err := f.svc.Start(context.Background(), "u-1", "   ")
	var derr *domain.DomainError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, domain.ErrInvalidInput, derr.Code)
	f.catalog.AssertNotCalled(t, "Ensure", mock.Anything, mock.Anything)
}

func TestAssessmentService_ProgressionAndReport(t *testing.T) {
	ctx := context.Background()
	f := newAssessmentFixture()

	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	history := make([]*domain.SessionRecord, 0, 3)
	for i, score := range []float64{60, 80, 70} {
		history = append(history, &domain.SessionRecord{
			Skill: "go", Timestamp: base.AddDate(0, 0, i), OverallScore: score,
			Recommendations: []string{"r1"},
		})
	}
	f.history.On("Read", ctx, "u-1", "go").Return(history, nil)

	summary, err := f.svc.Progression(ctx, "u-1", "Go")
	require.NoError(t, err)
	assert.Equal(t, 70.0, *summary.Mean)
	assert.Equal(t, -10.0, *summary.Delta)

	report, err := f.svc.Report(ctx, "u-1", "go")
	require.NoError(t, err)
	assert.Equal(t, analytics.BandStrong, report.Header.Band)
	assert.Len(t, report.Trend, 3)
	assert.Equal(t, []string{"r1"}, report.Recommendations)
}

func TestAssessmentService_ReportWithoutHistory(t *testing.T) {
	ctx := context.Background()
	f := newAssessmentFixture()
	f.history.On("Read", ctx, "u-1", "rust").Return([]*domain.SessionRecord{}, nil)

	_, err := f.svc.Report(ctx, "u-1", "rust")
	var derr *domain.DomainError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, domain.ErrNoHistory, derr.Code)
}
