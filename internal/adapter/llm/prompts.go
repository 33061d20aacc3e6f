package llm

import (
	"fmt"
	"strings"

	"skillcheck/internal/domain"
)

const quizPromptTemplate = `You are an assessment author. Write a diagnostic quiz for the skill "%s".

Difficulty: %s
Write exactly %d questions: %d of kind "multiple_choice" and %d of kind "short_answer".

Rules:
- multiple_choice questions have between 2 and 6 distinct options and a zero-based "correct_index".
- short_answer questions have a "reference_answer" with a model answer in one or two sentences.
- Questions must test understanding, not trivia, and must not repeat each other.

Respond with JSON only, in this exact format:
{"questions": [{"kind": "multiple_choice", "prompt": "...", "options": ["...", "..."], "correct_index": 0}, {"kind": "short_answer", "prompt": "...", "reference_answer": "..."}]}
`

const evaluationPromptTemplate = `You are grading a diagnostic quiz for the skill "%s".
For every question below give a score from 0 to 100 and one sentence of feedback.
Multiple-choice answers are either right (100) or wrong (0). Short answers earn partial credit when they are partly right.

%s
Respond with JSON only, in this exact format, with one entry in "question_results" per question and in the same order:
{"overall_score": 0-100, "question_results": [{"score": 0-100, "correct": true, "feedback": "..."}], "feedback": "...", "strengths": ["..."], "weaknesses": ["..."], "recommendations": ["..."]}
`

const strictSuffix = `
IMPORTANT: your previous reply could not be parsed. Return only the JSON object, with no prose, no markdown fences and no extra keys.
`

// QuizPrompt renders the generation prompt for req.
func QuizPrompt(req domain.GenerationRequest) string {
	prompt := fmt.Sprintf(quizPromptTemplate, req.Skill, req.Difficulty, req.Count, req.MultipleChoice, req.ShortAnswer)
	if req.Strict {
		prompt += strictSuffix
	}
	return prompt
}

// EvaluationPrompt renders the grading prompt for req.
func EvaluationPrompt(req domain.EvaluationRequest) string {
	var b strings.Builder
	for _, item := range req.Items {
		fmt.Fprintf(&b, "Question %d (%s): %s\n", item.Index+1, item.Kind, item.Prompt)
		if item.Kind == domain.KindMultipleChoice {
			for i, opt := range item.Options {
				fmt.Fprintf(&b, "  %d. %s\n", i, opt)
			}
			fmt.Fprintf(&b, "Correct answer: %s\n", item.CorrectAnswer)
		} else if item.ReferenceAnswer != "" {
			fmt.Fprintf(&b, "Reference answer: %s\n", item.ReferenceAnswer)
		}
		fmt.Fprintf(&b, "Learner answer: %s\n\n", item.LearnerAnswer)
	}
	prompt := fmt.Sprintf(evaluationPromptTemplate, req.Skill, b.String())
	if req.Strict {
		prompt += strictSuffix
	}
	return prompt
}
