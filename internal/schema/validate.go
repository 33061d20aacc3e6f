// Package schema gates every piece of language-model output. Raw text is
// reduced to its JSON payload, checked against a compiled JSON Schema and
// decoded into typed values. The first violation is reported as a
// *domain.ValidationError; nothing is repaired.
package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"skillcheck/internal/domain"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/santhosh-tekuri/jsonschema/v6/kind"
)

// Shape names the structure expected from the model.
type Shape struct {
	name      string
	questions int
}

// QuizShape is the structure of a generated quiz.
var QuizShape = Shape{name: "quiz"}

// EvaluationShape is the structure of an evaluation of a quiz with the given
// number of questions.
func EvaluationShape(questions int) Shape {
	return Shape{name: "evaluation", questions: questions}
}

func (s Shape) key() string {
	if s.name == "evaluation" {
		return fmt.Sprintf("evaluation-%d", s.questions)
	}
	return s.name
}

func (s Shape) document() map[string]any {
	if s.name == "evaluation" {
		return evaluationSchema(s.questions)
	}
	return quizSchema()
}

// Evaluation is validated evaluator output.
type Evaluation struct {
	OverallScore    float64             `json:"overall_score"`
	QuestionResults []EvaluatedQuestion `json:"question_results"`
	Feedback        string              `json:"feedback"`
	Strengths       []string            `json:"strengths"`
	Weaknesses      []string            `json:"weaknesses"`
	Recommendations []string            `json:"recommendations"`
}

// EvaluatedQuestion carries either a graded Score or a boolean Correct, or
// both.
type EvaluatedQuestion struct {
	Score    *float64 `json:"score"`
	Correct  *bool    `json:"correct"`
	Feedback string   `json:"feedback"`
}

// UnmarshalJSON accepts a bare number (Score), a bare boolean (Correct) or
// the object form.
func (q *EvaluatedQuestion) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	switch {
	case trimmed == "true" || trimmed == "false":
		correct := trimmed == "true"
		*q = EvaluatedQuestion{Correct: &correct}
		return nil
	case strings.HasPrefix(trimmed, "{"):
		type plain EvaluatedQuestion
		var p plain
		if err := json.Unmarshal(data, &p); err != nil {
			return err
		}
		*q = EvaluatedQuestion(p)
		return nil
	default:
		var score float64
		if err := json.Unmarshal(data, &score); err != nil {
			return err
		}
		*q = EvaluatedQuestion{Score: &score}
		return nil
	}
}

// compiled schemas by Shape.key()
var compiled sync.Map

// Validate checks raw model output against shape. It returns
// []domain.Question for QuizShape and *Evaluation for EvaluationShape.
func Validate(raw string, shape Shape) (any, error) {
	payload, ok := ExtractJSON(raw)
	if !ok {
		return nil, domain.NewValidationError(domain.ValidationWrongType, "$")
	}

	var parsed any
	if err := json.Unmarshal([]byte(payload), &parsed); err != nil {
		return nil, domain.NewValidationError(domain.ValidationWrongType, "$")
	}

	// a bare array is accepted as the quiz question list
	if arr, isArr := parsed.([]any); isArr && shape.name == "quiz" {
		parsed = map[string]any{"questions": arr}
		payload = `{"questions":` + payload + `}`
	}

	sch, err := compile(shape)
	if err != nil {
		return nil, err
	}
	if err := sch.Validate(parsed); err != nil {
		return nil, toValidationError(err)
	}

	switch shape.name {
	case "evaluation":
		var ev Evaluation
		if err := decodePayload(payload, &ev); err != nil {
			return nil, err
		}
		return &ev, nil
	default:
		var wire struct {
			Questions []domain.Question `json:"questions"`
		}
		if err := decodePayload(payload, &wire); err != nil {
			return nil, err
		}
		quiz := domain.Quiz{Questions: wire.Questions}
		if err := quiz.Validate(); err != nil {
			return nil, err
		}
		return wire.Questions, nil
	}
}

// ParseQuiz validates generator output and returns its questions.
func ParseQuiz(raw string) ([]domain.Question, error) {
	v, err := Validate(raw, QuizShape)
	if err != nil {
		return nil, err
	}
	return v.([]domain.Question), nil
}

// ParseEvaluation validates evaluator output for a quiz of n questions.
func ParseEvaluation(raw string, n int) (*Evaluation, error) {
	v, err := Validate(raw, EvaluationShape(n))
	if err != nil {
		return nil, err
	}
	return v.(*Evaluation), nil
}

func decodePayload(payload string, out any) error {
	if err := json.Unmarshal([]byte(payload), out); err != nil {
		return domain.NewValidationError(domain.ValidationWrongType, "$")
	}
	return nil
}

func compile(shape Shape) (*jsonschema.Schema, error) {
	key := shape.key()
	if cached, ok := compiled.Load(key); ok {
		return cached.(*jsonschema.Schema), nil
	}

	// the compiler wants a decoded JSON value, not Go ints
	defBytes, err := json.Marshal(shape.document())
	if err != nil {
		return nil, fmt.Errorf("marshal %s schema: %w", key, err)
	}
	var def any
	if err := json.Unmarshal(defBytes, &def); err != nil {
		return nil, fmt.Errorf("parse %s schema: %w", key, err)
	}

	c := jsonschema.NewCompiler()
	url := "schema://skillcheck/" + key + ".json"
	if err := c.AddResource(url, def); err != nil {
		return nil, fmt.Errorf("add %s schema: %w", key, err)
	}
	sch, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile %s schema: %w", key, err)
	}

	actual, _ := compiled.LoadOrStore(key, sch)
	return actual.(*jsonschema.Schema), nil
}

// toValidationError picks one leaf violation deterministically: the one at
// the smallest instance location, ties resolved in schema order.
func toValidationError(err error) error {
	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return domain.NewValidationError(domain.ValidationWrongType, "$")
	}

	leaves := collectLeaves(verr, nil)
	if len(leaves) == 0 {
		leaves = []*jsonschema.ValidationError{verr}
	}
	sort.SliceStable(leaves, func(i, j int) bool {
		return strings.Join(leaves[i].InstanceLocation, "/") < strings.Join(leaves[j].InstanceLocation, "/")
	})

	leaf := leaves[0]
	field := strings.Join(leaf.InstanceLocation, "/")
	switch k := leaf.ErrorKind.(type) {
	case *kind.Required:
		if len(k.Missing) > 0 {
			field = joinField(field, k.Missing[0])
		}
		return domain.NewValidationError(domain.ValidationMissingField, field)
	case *kind.MinLength:
		return domain.NewValidationError(domain.ValidationMissingField, field)
	case *kind.Type, *kind.Enum, *kind.Const:
		return domain.NewValidationError(domain.ValidationWrongType, field)
	case *kind.Minimum, *kind.Maximum, *kind.UniqueItems:
		return domain.NewValidationError(domain.ValidationOutOfRange, field)
	case *kind.MinItems, *kind.MaxItems:
		return domain.NewValidationError(domain.ValidationWrongLength, field)
	default:
		return domain.NewValidationError(domain.ValidationWrongType, field)
	}
}

func collectLeaves(e *jsonschema.ValidationError, acc []*jsonschema.ValidationError) []*jsonschema.ValidationError {
	if len(e.Causes) == 0 {
		return append(acc, e)
	}
	for _, c := range e.Causes {
		acc = collectLeaves(c, acc)
	}
	return acc
}

func joinField(base, name string) string {
	if base == "" {
		return name
	}
	return base + "/" + name
}
