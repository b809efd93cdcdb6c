package roomstore

import (
	"database/sql"
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"github.com/sahayak-ai/sahayak/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(":memory:")
	if err != nil {
		t.Fatalf("newTestStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func matchStudent(name string) func(json.RawMessage) bool {
	return func(raw json.RawMessage) bool {
		var sub model.Submission
		if err := json.Unmarshal(raw, &sub); err != nil {
			return false
		}
		return sub.StudentName == name
	}
}

func TestReadAbsent(t *testing.T) {
	s := newTestStore(t)

	var rec model.ClassroomRecord
	found, err := s.Read(ClassroomKey("ZZZZZZ"), &rec)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if found {
		t.Error("expected absent key to report not found")
	}
}

func TestClassroomRoundTrip(t *testing.T) {
	s := newTestStore(t)

	rec := model.ClassroomRecord{
		Type:          model.ActivityDrawing,
		DrawingPrompt: "Draw the water cycle showing evaporation, condensation, and precipitation",
		Topic:         "Draw the water cycle showing evaporation, condensa...",
	}
	if err := s.Write(ClassroomKey("AB12CD"), rec); err != nil {
		t.Fatalf("Write: %v", err)
	}

	var got model.ClassroomRecord
	found, err := s.Read(ClassroomKey("AB12CD"), &got)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !found {
		t.Fatal("expected record to be found")
	}
	if !reflect.DeepEqual(rec, got) {
		t.Errorf("round trip mismatch:\nwrote %+v\nread  %+v", rec, got)
	}
}

func TestQuizRecordRoundTrip(t *testing.T) {
	s := newTestStore(t)

	quiz := &model.Quiz{Questions: []model.QuizQuestion{
		{QuestionText: "Q1", Options: []string{"a", "b", "c", "d"}, CorrectAnswer: "a"},
		{QuestionText: "Q2", Options: []string{"a", "b", "c", "d"}, CorrectAnswer: "b"},
		{QuestionText: "Q3", Options: []string{"a", "b", "c", "d"}, CorrectAnswer: "c"},
	}}
	rec := model.ClassroomRecord{Type: model.ActivityQuiz, Quiz: quiz, Topic: "Photosynthesis"}
	if err := s.Write(ClassroomKey("QZ34XY"), rec); err != nil {
		t.Fatalf("Write: %v", err)
	}

	var got model.ClassroomRecord
	if _, err := s.Read(ClassroomKey("QZ34XY"), &got); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got.Type != model.ActivityQuiz || got.Quiz == nil {
		t.Fatalf("expected quiz record, got %+v", got)
	}
	if len(got.Quiz.Questions) != 3 {
		t.Errorf("expected 3 questions, got %d", len(got.Quiz.Questions))
	}
	if got.Topic != "Photosynthesis" {
		t.Errorf("expected topic Photosynthesis, got %q", got.Topic)
	}
}

func TestWriteOverwrites(t *testing.T) {
	s := newTestStore(t)
	key := ClassroomKey("AB12CD")

	first := model.ClassroomRecord{Type: model.ActivityDrawing, DrawingPrompt: "first prompt text", Topic: "t"}
	second := model.ClassroomRecord{Type: model.ActivityDrawing, DrawingPrompt: "second prompt text", Topic: "t"}
	if err := s.Write(key, first); err != nil {
		t.Fatalf("Write first: %v", err)
	}
	if err := s.Write(key, second); err != nil {
		t.Fatalf("Write second: %v", err)
	}

	var got model.ClassroomRecord
	if _, err := s.Read(key, &got); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got.DrawingPrompt != "second prompt text" {
		t.Errorf("expected overwrite, got %q", got.DrawingPrompt)
	}
}

func TestCorruptData(t *testing.T) {
	s := newTestStore(t)
	key := ClassroomKey("BADBAD")

	// Bypass Write to plant invalid JSON.
	if _, err := s.db.Exec(
		`INSERT INTO kv (key, value, revision, updated_at) VALUES (?, ?, 1, datetime('now'))`,
		key, "{not json",
	); err != nil {
		t.Fatalf("plant corrupt value: %v", err)
	}

	var rec model.ClassroomRecord
	_, err := s.Read(key, &rec)
	if !IsCorrupt(err) {
		t.Fatalf("expected CorruptDataError, got %v", err)
	}
	var ce *CorruptDataError
	if !errors.As(err, &ce) || ce.Key != key {
		t.Errorf("expected error to carry key %q, got %v", key, err)
	}
}

func TestWriteAfterCloseIsStorageUnavailable(t *testing.T) {
	s := newTestStore(t)
	s.Close()

	err := s.Write(ClassroomKey("AB12CD"), model.ClassroomRecord{
		Type: model.ActivityDrawing, DrawingPrompt: "prompt text here", Topic: "t",
	})
	if !errors.Is(err, ErrStorageUnavailable) {
		t.Fatalf("expected ErrStorageUnavailable, got %v", err)
	}
	if !errors.Is(err, sql.ErrConnDone) {
		t.Logf("underlying error: %v", err)
	}
}

func TestAppendOrReplaceIdempotence(t *testing.T) {
	s := newTestStore(t)
	key := SubmissionsKey("AB12CD")

	first := model.Submission{StudentName: "Asha", Type: model.ActivityDrawing, Feedback: "first attempt"}
	second := model.Submission{StudentName: "Asha", Type: model.ActivityDrawing, Feedback: "second attempt"}

	if err := s.AppendOrReplace(key, matchStudent("Asha"), first); err != nil {
		t.Fatalf("AppendOrReplace first: %v", err)
	}
	if err := s.AppendOrReplace(key, matchStudent("Asha"), second); err != nil {
		t.Fatalf("AppendOrReplace second: %v", err)
	}

	var subs []model.Submission
	if _, err := s.Read(key, &subs); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(subs) != 1 {
		t.Fatalf("expected exactly 1 submission for Asha, got %d", len(subs))
	}
	if subs[0].Feedback != "second attempt" {
		t.Errorf("expected latest payload to win, got %q", subs[0].Feedback)
	}
}

func TestAppendOrReplaceKeepsOtherStudents(t *testing.T) {
	s := newTestStore(t)
	key := SubmissionsKey("AB12CD")

	for _, name := range []string{"Asha", "Ravi", "Meera"} {
		sub := model.Submission{StudentName: name, Type: model.ActivityQuiz, Score: 3, Total: 4}
		if err := s.AppendOrReplace(key, matchStudent(name), sub); err != nil {
			t.Fatalf("AppendOrReplace %s: %v", name, err)
		}
	}
	// Ravi resubmits.
	if err := s.AppendOrReplace(key, matchStudent("Ravi"),
		model.Submission{StudentName: "Ravi", Type: model.ActivityQuiz, Score: 4, Total: 4}); err != nil {
		t.Fatalf("AppendOrReplace resubmit: %v", err)
	}

	var subs []model.Submission
	if _, err := s.Read(key, &subs); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(subs) != 3 {
		t.Fatalf("expected 3 submissions, got %d", len(subs))
	}
	byName := map[string]model.Submission{}
	for _, sub := range subs {
		byName[sub.StudentName] = sub
	}
	if byName["Ravi"].Score != 4 {
		t.Errorf("expected Ravi's resubmission to win, got score %d", byName["Ravi"].Score)
	}
	if byName["Asha"].Score != 3 || byName["Meera"].Score != 3 {
		t.Error("other students' submissions must be untouched")
	}
}

func TestRevisionBumps(t *testing.T) {
	s := newTestStore(t)
	key := SubmissionsKey("AB12CD")

	rev, err := s.Revision(key)
	if err != nil {
		t.Fatalf("Revision: %v", err)
	}
	if rev != 0 {
		t.Fatalf("expected revision 0 for absent key, got %d", rev)
	}

	for i := 1; i <= 3; i++ {
		if err := s.Write(key, []model.Submission{}); err != nil {
			t.Fatalf("Write %d: %v", i, err)
		}
		rev, err = s.Revision(key)
		if err != nil {
			t.Fatalf("Revision %d: %v", i, err)
		}
		if rev != int64(i) {
			t.Errorf("expected revision %d, got %d", i, rev)
		}
	}
}

func TestDelete(t *testing.T) {
	s := newTestStore(t)
	key := SubmissionsKey("AB12CD")

	if err := s.Write(key, []model.Submission{{StudentName: "Asha"}}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := s.Delete(key); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	var subs []model.Submission
	found, err := s.Read(key, &subs)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if found {
		t.Error("expected key to be gone after delete")
	}
	// Deleting again is a no-op.
	if err := s.Delete(key); err != nil {
		t.Fatalf("Delete absent: %v", err)
	}
}
