package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ActivityType discriminates the content carried by a ClassroomRecord
// or a Submission.
type ActivityType string

const (
	ActivityDrawing ActivityType = "drawing"
	ActivityQuiz    ActivityType = "quiz"
)

// ContentFormat selects the kind of teaching content to generate.
type ContentFormat string

const (
	FormatStory       ContentFormat = "story"
	FormatWorksheet   ContentFormat = "worksheet"
	FormatQuiz        ContentFormat = "quiz"
	FormatExplanation ContentFormat = "explanation"
	FormatVisualAid   ContentFormat = "visual aid"
	FormatDrawing     ContentFormat = "drawing activity"
)

// IsTextFormat reports whether f produces a single text body.
func IsTextFormat(f ContentFormat) bool {
	switch f {
	case FormatStory, FormatWorksheet, FormatExplanation:
		return true
	}
	return false
}

// QuizQuestion is a single multiple-choice question.
type QuizQuestion struct {
	QuestionText  string   `json:"questionText"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
}

// Quiz is a set of multiple-choice questions.
type Quiz struct {
	Questions []QuizQuestion `json:"questions"`
}

// Validate checks the quiz against the generation contract: 3-5 questions,
// exactly 4 options each, and the correct answer must be one of the options.
func (q Quiz) Validate() error {
	if len(q.Questions) < 3 || len(q.Questions) > 5 {
		return fmt.Errorf("quiz must have 3-5 questions, got %d", len(q.Questions))
	}
	for i, question := range q.Questions {
		if strings.TrimSpace(question.QuestionText) == "" {
			return fmt.Errorf("question %d: empty question text", i+1)
		}
		if len(question.Options) != 4 {
			return fmt.Errorf("question %d: expected 4 options, got %d", i+1, len(question.Options))
		}
		found := false
		for _, opt := range question.Options {
			if opt == question.CorrectAnswer {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("question %d: correct answer %q is not among the options", i+1, question.CorrectAnswer)
		}
	}
	return nil
}

// Slide is one slide of a visual aid: text plus either a pending image
// prompt or a resolved image data URI.
type Slide struct {
	Text        string `json:"text"`
	ImagePrompt string `json:"imagePrompt,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`
}

// ClassroomRecord is the activity a teacher posts behind a room code.
// Content is a tagged union keyed by Type: a drawing prompt string for
// drawing activities, a Quiz for quiz activities.
type ClassroomRecord struct {
	Type          ActivityType
	DrawingPrompt string
	Quiz          *Quiz
	Topic         string
}

// Validate checks that the content shape matches the declared type.
func (r ClassroomRecord) Validate() error {
	switch r.Type {
	case ActivityDrawing:
		if strings.TrimSpace(r.DrawingPrompt) == "" {
			return fmt.Errorf("drawing activity has no prompt")
		}
		if r.Quiz != nil {
			return fmt.Errorf("drawing activity must not carry a quiz")
		}
	case ActivityQuiz:
		if r.Quiz == nil {
			return fmt.Errorf("quiz activity has no quiz content")
		}
		if err := r.Quiz.Validate(); err != nil {
			return fmt.Errorf("quiz activity: %w", err)
		}
	default:
		return fmt.Errorf("unknown activity type %q", r.Type)
	}
	return nil
}

// classroomWire is the stored layout: the drawing prompt and the quiz
// share the "content" key, matching the room record format.
type classroomWire struct {
	Type    ActivityType    `json:"type"`
	Content json.RawMessage `json:"content"`
	Topic   string          `json:"topic"`
}

func (r ClassroomRecord) MarshalJSON() ([]byte, error) {
	var content any = r.DrawingPrompt
	if r.Type == ActivityQuiz {
		content = r.Quiz
	}
	raw, err := json.Marshal(content)
	if err != nil {
		return nil, err
	}
	return json.Marshal(classroomWire{Type: r.Type, Content: raw, Topic: r.Topic})
}

func (r *ClassroomRecord) UnmarshalJSON(data []byte) error {
	var w classroomWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	r.Type = w.Type
	r.Topic = w.Topic
	switch w.Type {
	case ActivityQuiz:
		var q Quiz
		if err := json.Unmarshal(w.Content, &q); err != nil {
			return fmt.Errorf("quiz content: %w", err)
		}
		r.Quiz = &q
		r.DrawingPrompt = ""
	default:
		r.Quiz = nil
		if err := json.Unmarshal(w.Content, &r.DrawingPrompt); err != nil {
			return fmt.Errorf("drawing content: %w", err)
		}
	}
	return nil
}

// Submission is a student's completed result for a room activity.
// Drawing submissions carry the graded drawing; quiz submissions carry
// the score. At most one live submission per (room, student), keyed by
// student name.
type Submission struct {
	ID          string       `json:"id"`
	StudentName string       `json:"studentName"`
	Type        ActivityType `json:"type"`

	// Drawing fields.
	Content   string `json:"content,omitempty"` // drawing as a data URI
	Feedback  string `json:"feedback,omitempty"`
	IsCorrect bool   `json:"isCorrect,omitempty"`

	// Quiz fields.
	Score int `json:"score,omitempty"`
	Total int `json:"total,omitempty"`
}

// GradeResult is the gateway's assessment of a drawn answer.
type GradeResult struct {
	IsCorrect bool   `json:"isCorrect"`
	Feedback  string `json:"feedback"`
}

// PlanActivity is one activity inside a generated lesson plan.
type PlanActivity struct {
	Title   string        `json:"title"`
	Format  ContentFormat `json:"format"`
	Content string        `json:"content,omitempty"`
	Quiz    *Quiz         `json:"quiz,omitempty"`
	Slides  []Slide       `json:"slides,omitempty"`
}

// LessonPlan is a generated plan for a single grade level.
type LessonPlan struct {
	GradeLevel string         `json:"gradeLevel"`
	Topic      string         `json:"topic"`
	Activities []PlanActivity `json:"activities"`
}

// GeneratedContent is the union result of a content generation request.
// Exactly one field is set, depending on the requested format.
type GeneratedContent struct {
	Content string  `json:"content,omitempty"`
	Slides  []Slide `json:"slides,omitempty"`
	Quiz    *Quiz   `json:"quiz,omitempty"`
}

// Empty reports whether the generation produced nothing usable.
func (g GeneratedContent) Empty() bool {
	return g.Content == "" && len(g.Slides) == 0 && g.Quiz == nil
}

// AppSettings holds a teacher's persisted preferences.
type AppSettings struct {
	GradeLevel string   `json:"gradeLevel"`
	Subjects   []string `json:"subjects"`
	Language   string   `json:"language"`
	Theme      string   `json:"theme"`
}

// DefaultSettings returns the settings used before a teacher saves any.
func DefaultSettings() AppSettings {
	return AppSettings{
		Subjects: []string{},
		Language: "English",
		Theme:    "light",
	}
}

// Normalize fills unset fields from the defaults so that partially
// stored settings always load complete.
func (s AppSettings) Normalize() AppSettings {
	def := DefaultSettings()
	if s.Subjects == nil {
		s.Subjects = def.Subjects
	}
	if s.Language == "" {
		s.Language = def.Language
	}
	if s.Theme != "dark" {
		s.Theme = def.Theme
	}
	return s
}
