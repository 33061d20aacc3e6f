package domain

import (
	"fmt"
	"strings"
)

// AnswerCollector accumulates answers for one in-progress session. It only
// knows the public view of the quiz.
type AnswerCollector struct {
	questions []PublicQuestion
	answers   []*Answer
}

func NewAnswerCollector(questions []PublicQuestion) *AnswerCollector {
	return &AnswerCollector{
		questions: questions,
		answers:   make([]*Answer, len(questions)),
	}
}

// RecordAnswer stores the answer for index, replacing any earlier one.
func (c *AnswerCollector) RecordAnswer(index int, answer Answer) error {
	if index < 0 || index >= len(c.questions) {
		return NewInvalidAnswerError(fmt.Sprintf("question index %d out of range [0,%d)", index, len(c.questions)))
	}

	q := c.questions[index]
	switch q.Kind {
	case KindMultipleChoice:
		if answer.SelectedOption == nil {
			return NewInvalidAnswerError(fmt.Sprintf("question %d requires a selected option", index))
		}
		if opt := *answer.SelectedOption; opt < 0 || opt >= len(q.Options) {
			return NewInvalidAnswerError(fmt.Sprintf("question %d has no option %d", index, opt))
		}
		sel := *answer.SelectedOption
		c.answers[index] = &Answer{SelectedOption: &sel}
	case KindShortAnswer:
		text := strings.TrimSpace(answer.Text)
		if text == "" {
			return NewInvalidAnswerError(fmt.Sprintf("question %d requires a non-empty answer", index))
		}
		c.answers[index] = &Answer{Text: text}
	default:
		return NewInvalidAnswerError(fmt.Sprintf("question %d has unknown kind %q", index, q.Kind))
	}
	return nil
}

// Missing returns the indices that have no answer yet, ascending.
func (c *AnswerCollector) Missing() []int {
	var missing []int
	for i, a := range c.answers {
		if a == nil {
			missing = append(missing, i)
		}
	}
	return missing
}

// Submit returns the complete answer set, or an *IncompleteError naming every
// unanswered index.
func (c *AnswerCollector) Submit() (AnswerSet, error) {
	if missing := c.Missing(); len(missing) > 0 {
		return nil, &IncompleteError{MissingIndices: missing}
	}
	set := make(AnswerSet, len(c.answers))
	for i, a := range c.answers {
		set[i] = *a
	}
	return set, nil
}

// Snapshot returns the answers recorded so far; unanswered slots are nil.
func (c *AnswerCollector) Snapshot() []*Answer {
	out := make([]*Answer, len(c.answers))
	copy(out, c.answers)
	return out
}

// RestoreAnswerCollector rebuilds a collector from a snapshot. Each stored
// answer is re-validated.
func RestoreAnswerCollector(questions []PublicQuestion, snapshot []*Answer) (*AnswerCollector, error) {
	c := NewAnswerCollector(questions)
	if len(snapshot) > len(questions) {
		return nil, NewInvalidInputError("snapshot has more answers than questions")
	}
	for i, a := range snapshot {
		if a == nil {
			continue
		}
		if err := c.RecordAnswer(i, *a); err != nil {
			return nil, err
		}
	}
	return c, nil
}
