package service

import (
	"context"

	"skillcheck/internal/domain"

	"github.com/stretchr/testify/mock"
)

// --- MockLanguageModel ---
type MockLanguageModel struct {
	mock.Mock
}

func (m *MockLanguageModel) GenerateQuiz(ctx context.Context, req domain.GenerationRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *MockLanguageModel) EvaluateAnswers(ctx context.Context, req domain.EvaluationRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

// --- MockHistoryStore ---
type MockHistoryStore struct {
	mock.Mock
}

func (m *MockHistoryStore) Append(ctx context.Context, record *domain.SessionRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockHistoryStore) Read(ctx context.Context, userID, skill string) ([]*domain.SessionRecord, error) {
	args := m.Called(ctx, userID, skill)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.SessionRecord), args.Error(1)
}

func (m *MockHistoryStore) ListByUser(ctx context.Context, userID string) ([]*domain.SessionRecord, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.SessionRecord), args.Error(1)
}

// --- MockSkillCatalog ---
type MockSkillCatalog struct {
	mock.Mock
}

func (m *MockSkillCatalog) List(ctx context.Context) ([]*domain.Skill, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Skill), args.Error(1)
}

func (m *MockSkillCatalog) Ensure(ctx context.Context, skill *domain.Skill) (*domain.Skill, error) {
	args := m.Called(ctx, skill)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Skill), args.Error(1)
}

func strictGen(strict bool) interface{} {
	return mock.MatchedBy(func(r domain.GenerationRequest) bool { return r.Strict == strict })
}

func strictEval(strict bool) interface{} {
	return mock.MatchedBy(func(r domain.EvaluationRequest) bool { return r.Strict == strict })
}

const quizOutput = "```json\n" + `{"questions": [
  {"kind": "multiple_choice", "prompt": "What does defer do?", "options": ["Starts a goroutine", "Runs at return", "Panics"], "correct_index": 1},
  {"kind": "multiple_choice", "prompt": "Zero value of a map?", "options": ["nil", "empty map"], "correct_index": 0},
  {"kind": "multiple_choice", "prompt": "Which is a reference type?", "options": ["int", "slice"], "correct_index": 1},
  {"kind": "short_answer", "prompt": "Why use context.Context?", "reference_answer": "cancellation and deadlines"},
  {"kind": "short_answer", "prompt": "When is a buffered channel useful?"}
]}` + "\n```"

// the evaluator claims questions 0 and 1 wrong; multiple-choice
// correctness is recomputed from the answer key regardless
const evaluationOutput = `<think>grading</think>{
  "overall_score": 64,
  "question_results": [
    {"correct": false, "feedback": "f0"},
    {"correct": false, "feedback": "f1"},
    {"score": 100},
    {"score": 59.5, "feedback": "partly"},
    {"correct": true}
  ],
  "feedback": "Decent.",
  "strengths": ["syntax"],
  "weaknesses": ["concurrency"],
  "recommendations": ["Read Effective Go", "Practice with channels"]
}`

const malformedOutput = `{"questions": "five of them"}`
