package schema

// quizSchema describes generated quiz output. Cross-field rules (correct
// index within the option list, case-insensitive option uniqueness) are
// checked in Go after the schema pass.
func quizSchema() map[string]any {
	return map[string]any{
		"type":     "object",
		"required": []any{"questions"},
		"properties": map[string]any{
			"questions": map[string]any{
				"type":     "array",
				"minItems": 5,
				"maxItems": 5,
				"items": map[string]any{
					"type":     "object",
					"required": []any{"kind", "prompt"},
					"properties": map[string]any{
						"kind":   map[string]any{"enum": []any{"multiple_choice", "short_answer"}},
						"prompt": map[string]any{"type": "string", "minLength": 1},
						"options": map[string]any{
							"type":        "array",
							"minItems":    2,
							"maxItems":    6,
							"uniqueItems": true,
							"items":       map[string]any{"type": "string", "minLength": 1},
						},
						"correct_index":    map[string]any{"type": "integer", "minimum": 0},
						"reference_answer": map[string]any{"type": "string"},
					},
					"if": map[string]any{
						"properties": map[string]any{"kind": map[string]any{"const": "multiple_choice"}},
					},
					"then": map[string]any{
						"required": []any{"options", "correct_index"},
					},
				},
			},
		},
	}
}

// evaluationSchema describes evaluator output for a quiz of n questions.
func evaluationSchema(n int) map[string]any {
	list := map[string]any{"type": "array", "items": map[string]any{"type": "string"}}
	return map[string]any{
		"type":     "object",
		"required": []any{"overall_score", "question_results", "feedback", "strengths", "weaknesses", "recommendations"},
		"properties": map[string]any{
			"overall_score": map[string]any{"type": "number", "minimum": 0, "maximum": 100},
			"question_results": map[string]any{
				"type":     "array",
				"minItems": n,
				"maxItems": n,
				// an entry is a bare score, a bare correctness flag or an object
				// carrying either; keywords below only bind their own type
				"items": map[string]any{
					"type":    []any{"number", "boolean", "object"},
					"minimum": 0,
					"maximum": 100,
					"properties": map[string]any{
						"score":    map[string]any{"type": "number", "minimum": 0, "maximum": 100},
						"correct":  map[string]any{"type": "boolean"},
						"feedback": map[string]any{"type": "string"},
					},
					"anyOf": []any{
						map[string]any{"required": []any{"score"}},
						map[string]any{"required": []any{"correct"}},
					},
				},
			},
			"feedback":        map[string]any{"type": "string", "minLength": 1},
			"strengths":       list,
			"weaknesses":      list,
			"recommendations": list,
		},
	}
}
