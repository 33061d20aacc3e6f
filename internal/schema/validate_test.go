package schema

import (
	"strings"
	"testing"

	"skillcheck/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const quizJSON = `{"questions": [
  {"kind": "multiple_choice", "prompt": "What does defer do?", "options": ["Starts a goroutine", "Runs at return", "Panics"], "correct_index": 1},
  {"kind": "multiple_choice", "prompt": "Zero value of a map?", "options": ["nil", "empty map"], "correct_index": 0},
  {"kind": "multiple_choice", "prompt": "Which is a reference type?", "options": ["int", "slice"], "correct_index": 1},
  {"kind": "short_answer", "prompt": "Why use context.Context?", "reference_answer": "cancellation and deadlines"},
  {"kind": "short_answer", "prompt": "When is a buffered channel useful?"}
]}`

const evaluationJSON = `{
  "overall_score": 72.5,
  "question_results": [
    {"correct": true, "feedback": "right"},
    {"correct": false},
    {"score": 100},
    {"score": 65, "feedback": "mentions cancellation only"},
    {"score": 40, "correct": false}
  ],
  "feedback": "Solid fundamentals.",
  "strengths": ["syntax"],
  "weaknesses": [],
  "recommendations": ["Read the context package docs", "Practice channels"]
}`

func requireValidation(t *testing.T, err error, kind domain.ValidationKind, field string) {
	t.Helper()
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, kind, verr.Kind)
	assert.Equal(t, field, verr.Field)
}

func TestParseQuiz_Valid(t *testing.T) {
	raw := "<think>let me draft five questions</think>\nHere you go:\n```json\n" + quizJSON + "\n```"

	questions, err := ParseQuiz(raw)
	require.NoError(t, err)
	require.Len(t, questions, domain.QuizSize)
	assert.Equal(t, domain.KindMultipleChoice, questions[0].Kind)
	assert.Equal(t, 1, questions[0].CorrectIndex)
	assert.Equal(t, "cancellation and deadlines", questions[3].ReferenceAnswer)
}

func TestParseQuiz_TopLevelArray(t *testing.T) {
	start := strings.Index(quizJSON, "[")
	end := strings.LastIndex(quizJSON, "]")

	questions, err := ParseQuiz(quizJSON[start : end+1])
	require.NoError(t, err)
	assert.Len(t, questions, domain.QuizSize)
}

func TestParseQuiz_Violations(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		kind  domain.ValidationKind
		field string
	}{
		{
			name:  "not json",
			raw:   "Sorry, I cannot help with that.",
			kind:  domain.ValidationWrongType,
			field: "$",
		},
		{
			name:  "truncated",
			raw:   `{"questions": [{"kind": "short_answer"`,
			kind:  domain.ValidationWrongType,
			field: "$",
		},
		{
			name: "four questions",
			raw: strings.Replace(quizJSON, `,
  {"kind": "short_answer", "prompt": "When is a buffered channel useful?"}`, "", 1),
			kind:  domain.ValidationWrongLength,
			field: "questions",
		},
		{
			name:  "missing prompt",
			raw:   strings.Replace(quizJSON, `"prompt": "Which is a reference type?", `, "", 1),
			kind:  domain.ValidationMissingField,
			field: "questions/2/prompt",
		},
		{
			name:  "multiple choice without options",
			raw:   strings.Replace(quizJSON, `"options": ["nil", "empty map"], `, "", 1),
			kind:  domain.ValidationMissingField,
			field: "questions/1/options",
		},
		{
			name:  "unknown kind",
			raw:   strings.Replace(quizJSON, `"kind": "short_answer", "prompt": "Why`, `"kind": "essay", "prompt": "Why`, 1),
			kind:  domain.ValidationWrongType,
			field: "questions/3/kind",
		},
		{
			name:  "correct index past options",
			raw:   strings.Replace(quizJSON, `"correct_index": 0`, `"correct_index": 2`, 1),
			kind:  domain.ValidationOutOfRange,
			field: "questions/1/correct_index",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			questions, err := ParseQuiz(tt.raw)
			assert.Nil(t, questions)
			requireValidation(t, err, tt.kind, tt.field)
		})
	}
}

func TestParseEvaluation_Valid(t *testing.T) {
	ev, err := ParseEvaluation(evaluationJSON, domain.QuizSize)
	require.NoError(t, err)

	assert.Equal(t, 72.5, ev.OverallScore)
	require.Len(t, ev.QuestionResults, domain.QuizSize)
	require.NotNil(t, ev.QuestionResults[0].Correct)
	assert.True(t, *ev.QuestionResults[0].Correct)
	assert.Nil(t, ev.QuestionResults[0].Score)
	require.NotNil(t, ev.QuestionResults[3].Score)
	assert.Equal(t, 65.0, *ev.QuestionResults[3].Score)
	assert.Empty(t, ev.Weaknesses)
	assert.Equal(t, []string{"Read the context package docs", "Practice channels"}, ev.Recommendations)
}

func TestParseEvaluation_BareResultEntries(t *testing.T) {
	raw := `{"overall_score": 70, "question_results": [100, 0, true, 65.5, {"correct": false}],
  "feedback": "Mixed.", "strengths": [], "weaknesses": [], "recommendations": []}`

	ev, err := ParseEvaluation(raw, domain.QuizSize)
	require.NoError(t, err)
	require.Len(t, ev.QuestionResults, domain.QuizSize)

	require.NotNil(t, ev.QuestionResults[0].Score)
	assert.Equal(t, 100.0, *ev.QuestionResults[0].Score)
	assert.Nil(t, ev.QuestionResults[0].Correct)
	require.NotNil(t, ev.QuestionResults[1].Score)
	assert.Equal(t, 0.0, *ev.QuestionResults[1].Score)
	require.NotNil(t, ev.QuestionResults[2].Correct)
	assert.True(t, *ev.QuestionResults[2].Correct)
	assert.Nil(t, ev.QuestionResults[2].Score)
	assert.Equal(t, 65.5, *ev.QuestionResults[3].Score)
	require.NotNil(t, ev.QuestionResults[4].Correct)
	assert.False(t, *ev.QuestionResults[4].Correct)
}

func TestParseEvaluation_Violations(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		n     int
		kind  domain.ValidationKind
		field string
	}{
		{"overall above range", strings.Replace(evaluationJSON, "72.5", "120", 1), 5, domain.ValidationOutOfRange, "overall_score"},
		{"overall as text", strings.Replace(evaluationJSON, "72.5", `"72"`, 1), 5, domain.ValidationWrongType, "overall_score"},
		{"result count mismatch", evaluationJSON, 4, domain.ValidationWrongLength, "question_results"},
		{"missing recommendations", strings.Replace(evaluationJSON, `,
  "recommendations": ["Read the context package docs", "Practice channels"]`, "", 1), 5, domain.ValidationMissingField, "recommendations"},
		{"strengths not a list", strings.Replace(evaluationJSON, `["syntax"]`, `"syntax"`, 1), 5, domain.ValidationWrongType, "strengths"},
		{"question score out of range", strings.Replace(evaluationJSON, `{"score": 100}`, `{"score": 140}`, 1), 5, domain.ValidationOutOfRange, "question_results/2/score"},
		{"bare score out of range", strings.Replace(evaluationJSON, `{"score": 100}`, `140`, 1), 5, domain.ValidationOutOfRange, "question_results/2"},
		{"result as text", strings.Replace(evaluationJSON, `{"score": 100}`, `"100"`, 1), 5, domain.ValidationWrongType, "question_results/2"},
		{"empty feedback", strings.Replace(evaluationJSON, `"Solid fundamentals."`, `""`, 1), 5, domain.ValidationMissingField, "feedback"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseEvaluation(tt.raw, tt.n)
			requireValidation(t, err, tt.kind, tt.field)
		})
	}
}

func TestParseEvaluation_ResultWithoutScoreOrCorrect(t *testing.T) {
	raw := strings.Replace(evaluationJSON, `{"correct": false}`, `{"feedback": "?"}`, 1)

	_, err := ParseEvaluation(raw, domain.QuizSize)
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, domain.ValidationMissingField, verr.Kind)
	assert.True(t, strings.HasPrefix(verr.Field, "question_results/1/"), verr.Field)
}

func TestExtractJSON(t *testing.T) {
	got, ok := ExtractJSON("<think>{not this}</think> prefix {\"a\": [1]} suffix")
	require.True(t, ok)
	assert.Equal(t, `{"a": [1]}`, got)

	got, ok = ExtractJSON("```\n[1, 2]\n```")
	require.True(t, ok)
	assert.Equal(t, "[1, 2]", got)

	_, ok = ExtractJSON("<think>unterminated {\"a\": 1}")
	assert.False(t, ok)
}

func TestExtractJSON_BracketInLeadingProse(t *testing.T) {
	got, ok := ExtractJSON("[Note] here is the quiz: {\"a\": 1}")
	require.True(t, ok)
	assert.Equal(t, `{"a": 1}`, got)

	got, ok = ExtractJSON("[{\"a\": 1}, {\"b\": 2}]")
	require.True(t, ok)
	assert.Equal(t, `[{"a": 1}, {"b": 2}]`, got)
}

func TestParseQuiz_BracketInLeadingProse(t *testing.T) {
	questions, err := ParseQuiz("[Note] generated below:\n" + quizJSON)
	require.NoError(t, err)
	assert.Len(t, questions, domain.QuizSize)
}
