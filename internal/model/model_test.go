package model

import (
	"encoding/json"
	"strings"
	"testing"
)

func validQuiz() Quiz {
	return Quiz{Questions: []QuizQuestion{
		{QuestionText: "Q1?", Options: []string{"A", "B", "C", "D"}, CorrectAnswer: "A"},
		{QuestionText: "Q2?", Options: []string{"A", "B", "C", "D"}, CorrectAnswer: "B"},
		{QuestionText: "Q3?", Options: []string{"A", "B", "C", "D"}, CorrectAnswer: "C"},
	}}
}

func TestQuizValidate(t *testing.T) {
	if err := validQuiz().Validate(); err != nil {
		t.Fatalf("valid quiz rejected: %v", err)
	}

	short := Quiz{Questions: validQuiz().Questions[:2]}
	if err := short.Validate(); err == nil {
		t.Error("2-question quiz accepted")
	}

	long := validQuiz()
	for len(long.Questions) <= 5 {
		long.Questions = append(long.Questions, long.Questions[0])
	}
	if err := long.Validate(); err == nil {
		t.Error("6-question quiz accepted")
	}

	threeOpts := validQuiz()
	threeOpts.Questions[0].Options = []string{"A", "B", "C"}
	if err := threeOpts.Validate(); err == nil {
		t.Error("3-option question accepted")
	}

	strayAnswer := validQuiz()
	strayAnswer.Questions[1].CorrectAnswer = "E"
	if err := strayAnswer.Validate(); err == nil {
		t.Error("answer outside options accepted")
	}
}

func TestClassroomRecordWireFormat(t *testing.T) {
	drawing := ClassroomRecord{Type: ActivityDrawing, DrawingPrompt: "Draw the water cycle"}
	data, err := json.Marshal(drawing)
	if err != nil {
		t.Fatal(err)
	}
	// The prompt string and the quiz object share the content key.
	if !strings.Contains(string(data), `"content":"Draw the water cycle"`) {
		t.Errorf("drawing content not inlined: %s", data)
	}

	var back ClassroomRecord
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if back.DrawingPrompt != drawing.DrawingPrompt || back.Quiz != nil {
		t.Errorf("drawing round trip mismatch: %+v", back)
	}

	quiz := validQuiz()
	quizRecord := ClassroomRecord{Type: ActivityQuiz, Quiz: &quiz, Topic: "Photosynthesis"}
	data, err = json.Marshal(quizRecord)
	if err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if back.Quiz == nil || len(back.Quiz.Questions) != 3 || back.Topic != "Photosynthesis" {
		t.Errorf("quiz round trip mismatch: %+v", back)
	}
	if back.DrawingPrompt != "" {
		t.Errorf("quiz record carries a drawing prompt: %q", back.DrawingPrompt)
	}
}

func TestClassroomRecordValidate(t *testing.T) {
	if err := (ClassroomRecord{Type: ActivityDrawing}).Validate(); err == nil {
		t.Error("empty drawing prompt accepted")
	}
	if err := (ClassroomRecord{Type: ActivityQuiz}).Validate(); err == nil {
		t.Error("quiz record without quiz accepted")
	}
	if err := (ClassroomRecord{Type: "song"}).Validate(); err == nil {
		t.Error("unknown activity type accepted")
	}
}

func TestSettingsNormalize(t *testing.T) {
	got := AppSettings{}.Normalize()
	if got.Language != "English" || got.Theme != "light" || got.Subjects == nil {
		t.Errorf("defaults not applied: %+v", got)
	}

	dark := AppSettings{Language: "Hindi", Theme: "dark", Subjects: []string{"Science"}}.Normalize()
	if dark.Theme != "dark" || dark.Language != "Hindi" {
		t.Errorf("explicit settings overwritten: %+v", dark)
	}

	odd := AppSettings{Theme: "neon"}.Normalize()
	if odd.Theme != "light" {
		t.Errorf("unknown theme kept: %q", odd.Theme)
	}
}

func TestGeneratedContentEmpty(t *testing.T) {
	if !(GeneratedContent{}).Empty() {
		t.Error("zero value not empty")
	}
	if (GeneratedContent{Content: "x"}).Empty() {
		t.Error("text content reported empty")
	}
	if (GeneratedContent{Slides: []Slide{{Text: "s"}}}).Empty() {
		t.Error("slides reported empty")
	}
}
