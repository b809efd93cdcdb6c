package gateway

// Schemas for structured generation. Bounds mirror the content
// contracts: quizzes carry 3-5 questions with exactly 4 options, visual
// aids 3-5 slides, lesson plans 2-4 activities per grade level.

var quizQuestionDef = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"questionText": map[string]any{
			"type":        "string",
			"description": "The text of the quiz question",
		},
		"options": map[string]any{
			"type":        "array",
			"items":       map[string]any{"type": "string"},
			"minItems":    4,
			"maxItems":    4,
			"description": "Exactly 4 possible answers",
		},
		"correctAnswer": map[string]any{
			"type":        "string",
			"description": "The correct answer, verbatim from the options array",
		},
	},
	"required":             []any{"questionText", "options", "correctAnswer"},
	"additionalProperties": false,
}

// QuizSchema defines the JSON schema for quiz generation.
var QuizSchema = &Schema{
	Name:        "interactive-quiz",
	Description: "A multiple-choice quiz of 3-5 questions with 4 options each",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type":     "array",
				"items":    quizQuestionDef,
				"minItems": 3,
				"maxItems": 5,
			},
		},
		"required":             []any{"questions"},
		"additionalProperties": false,
	},
}

var slidePlanDef = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"text": map[string]any{
			"type":        "string",
			"description": "Concise slide text, easy to read on a presentation slide",
		},
		"imagePrompt": map[string]any{
			"type":        "string",
			"description": "A detailed, safe-for-work prompt for an image generation model",
		},
	},
	"required":             []any{"text", "imagePrompt"},
	"additionalProperties": false,
}

// SlidesSchema defines the JSON schema for visual-aid slide planning.
// Images are generated in a second pass from each imagePrompt.
var SlidesSchema = &Schema{
	Name:        "visual-aid-slides",
	Description: "A slideshow of 3-5 slides, each with concise text and an image prompt",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"slides": map[string]any{
				"type":     "array",
				"items":    slidePlanDef,
				"minItems": 3,
				"maxItems": 5,
			},
		},
		"required":             []any{"slides"},
		"additionalProperties": false,
	},
}

// ContentSchema defines the JSON schema for single-body text content.
var ContentSchema = &Schema{
	Name:        "teaching-content",
	Description: "Generated teaching content as a single text body",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"content": map[string]any{
				"type":        "string",
				"description": "The generated teaching content",
			},
		},
		"required":             []any{"content"},
		"additionalProperties": false,
	},
}

// GradeSchema defines the JSON schema for drawing assessment.
var GradeSchema = &Schema{
	Name:        "drawing-grade",
	Description: "Assessment of a student's drawn answer",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"isCorrect": map[string]any{
				"type":        "boolean",
				"description": "Whether the drawing substantially answers the question",
			},
			"feedback": map[string]any{
				"type":        "string",
				"description": "Constructive, encouraging feedback for the student",
			},
		},
		"required":             []any{"isCorrect", "feedback"},
		"additionalProperties": false,
	},
}

// SuggestionsSchema defines the JSON schema for prompt improvement.
var SuggestionsSchema = &Schema{
	Name:        "prompt-suggestions",
	Description: "Concrete suggestions for improving a teaching-content prompt",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"suggestions": map[string]any{
				"type":     "array",
				"items":    map[string]any{"type": "string"},
				"minItems": 3,
				"maxItems": 4,
			},
		},
		"required":             []any{"suggestions"},
		"additionalProperties": false,
	},
}

// LessonPlanSchema defines the JSON schema for the lesson planner. Each
// activity carries exactly one content form depending on its format;
// visual-aid slides come back with image prompts resolved later.
var LessonPlanSchema = &Schema{
	Name:        "lesson-plan",
	Description: "Per-grade lesson plans, each with 2-4 diverse activities",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"plans": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"gradeLevel": map[string]any{
							"type":        "string",
							"description": `The grade level this plan is for, e.g. "Class 3"`,
						},
						"topic": map[string]any{
							"type": "string",
						},
						"activities": map[string]any{
							"type":     "array",
							"minItems": 2,
							"maxItems": 4,
							"items": map[string]any{
								"type": "object",
								"properties": map[string]any{
									"title": map[string]any{
										"type": "string",
									},
									"format": map[string]any{
										"type": "string",
										"enum": []any{
											"story", "worksheet", "quiz",
											"explanation", "visual aid", "drawing activity",
										},
									},
									"content": map[string]any{
										"type":        "string",
										"description": "Text content for story, worksheet, explanation, or the question for a drawing activity",
									},
									"quiz": map[string]any{
										"type": "object",
										"properties": map[string]any{
											"questions": map[string]any{
												"type":     "array",
												"items":    quizQuestionDef,
												"minItems": 3,
												"maxItems": 5,
											},
										},
										"required": []any{"questions"},
									},
									"slides": map[string]any{
										"type":  "array",
										"items": slidePlanDef,
									},
								},
								"required": []any{"title", "format"},
							},
						},
					},
					"required": []any{"gradeLevel", "topic", "activities"},
				},
			},
		},
		"required":             []any{"plans"},
		"additionalProperties": false,
	},
}
