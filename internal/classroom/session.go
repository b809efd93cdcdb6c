// Package classroom manages live classroom sessions: teachers open a
// room around one activity, students join it by code, submissions flow
// back through the room store.
package classroom

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/sahayak-ai/sahayak/internal/gateway"
	"github.com/sahayak-ai/sahayak/internal/model"
	"github.com/sahayak-ai/sahayak/internal/roomstore"
)

const (
	minDrawingPromptLen = 10
	minQuizTopicLen     = 3
	minStudentNameLen   = 2
)

// Teacher is a teacher-side session. It starts idle, creates one room,
// then observes submissions for it. One Teacher per activity.
type Teacher struct {
	store *roomstore.Store
	gw    *gateway.Gateway

	code   string
	record model.ClassroomRecord
}

// NewTeacher returns an idle teacher session.
func NewTeacher(store *roomstore.Store, gw *gateway.Gateway) *Teacher {
	return &Teacher{store: store, gw: gw}
}

// CreateDrawingRoom opens a room around a drawing prompt. The prompt
// must be at least 10 characters.
func (t *Teacher) CreateDrawingRoom(ctx context.Context, prompt string) (string, error) {
	prompt = strings.TrimSpace(prompt)
	if len(prompt) < minDrawingPromptLen {
		return "", &ValidationError{Code: "prompt_too_short", Reason: fmt.Sprintf("drawing prompt must be at least %d characters", minDrawingPromptLen)}
	}
	return t.openRoom(model.ClassroomRecord{
		Type:          model.ActivityDrawing,
		DrawingPrompt: prompt,
		Topic:         excerpt(prompt, 50),
	})
}

// excerpt shortens a prompt to a display topic.
func excerpt(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		r = r[:n]
	}
	return string(r) + "..."
}

// CreateQuizRoom generates a quiz on the topic and opens a room around
// it. Generation happens before any store write: if the gateway fails
// or returns nothing, no room is created.
func (t *Teacher) CreateQuizRoom(ctx context.Context, topic string, gradeLevel int, language string) (string, *model.Quiz, error) {
	topic = strings.TrimSpace(topic)
	if len(topic) < minQuizTopicLen {
		return "", nil, &ValidationError{Code: "topic_too_short", Reason: fmt.Sprintf("quiz topic must be at least %d characters", minQuizTopicLen)}
	}

	quiz, err := t.gw.GenerateQuiz(ctx, topic, gradeLevel, language)
	if err != nil {
		return "", nil, fmt.Errorf("generating quiz for room: %w", err)
	}

	code, err := t.openRoom(model.ClassroomRecord{
		Type:  model.ActivityQuiz,
		Quiz:  quiz,
		Topic: topic,
	})
	if err != nil {
		return "", nil, err
	}
	return code, quiz, nil
}

// openRoom writes the activity record under a fresh code and clears any
// stale submissions left behind a previous use of that code.
func (t *Teacher) openRoom(record model.ClassroomRecord) (string, error) {
	if t.code != "" {
		return "", fmt.Errorf("session already has room %s", t.code)
	}
	if err := record.Validate(); err != nil {
		return "", err
	}

	code := NewRoomCode()
	if err := t.store.Write(roomstore.ClassroomKey(code), record); err != nil {
		return "", err
	}
	if err := t.store.Delete(roomstore.SubmissionsKey(code)); err != nil {
		return "", err
	}

	t.code = code
	t.record = record
	slog.Info("room opened", "code", code, "type", record.Type)
	return code, nil
}

// Code returns the room code, empty while idle.
func (t *Teacher) Code() string { return t.code }

// Activity returns the activity behind the room.
func (t *Teacher) Activity() model.ClassroomRecord { return t.record }

// Submissions re-reads the current submission list. A missing list is
// an empty room, not an error.
func (t *Teacher) Submissions() ([]model.Submission, error) {
	if t.code == "" {
		return nil, fmt.Errorf("no room open")
	}
	var subs []model.Submission
	if _, err := t.store.Read(roomstore.SubmissionsKey(t.code), &subs); err != nil {
		return nil, err
	}
	return subs, nil
}

// Watch delivers the submission list each time it changes, until ctx is
// done. The current list is delivered first so observers start from a
// known state.
func (t *Teacher) Watch(ctx context.Context) (<-chan []model.Submission, error) {
	if t.code == "" {
		return nil, fmt.Errorf("no room open")
	}
	sub := t.store.Subscribe(ctx, roomstore.SubmissionsKey(t.code))

	out := make(chan []model.Submission, 1)
	go func() {
		defer close(out)
		defer sub.Close()

		send := func() {
			subs, err := t.Submissions()
			if err != nil {
				slog.Warn("reading submissions for watch", "code", t.code, "error", err)
				return
			}
			select {
			case out <- subs:
			case <-ctx.Done():
			}
		}

		send()
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-sub.C:
				if !ok {
					return
				}
				send()
			}
		}
	}()
	return out, nil
}

// CloseRoom deletes the room and its submissions.
func (t *Teacher) CloseRoom() error {
	if t.code == "" {
		return nil
	}
	if err := t.store.Delete(roomstore.ClassroomKey(t.code)); err != nil {
		return err
	}
	if err := t.store.Delete(roomstore.SubmissionsKey(t.code)); err != nil {
		return err
	}
	slog.Info("room closed", "code", t.code)
	t.code = ""
	t.record = model.ClassroomRecord{}
	return nil
}

// Student is a student-side session bound to one room.
type Student struct {
	store  *roomstore.Store
	name   string
	code   string
	record model.ClassroomRecord
}

// Join validates the student's name and room code, looks the room up,
// and for quiz rooms rejects students who already submitted. A failed
// join never creates or modifies records. Drawing rooms are exempt from
// the resubmission check, students retry drawings freely.
func Join(store *roomstore.Store, code, name string) (*Student, error) {
	name = strings.TrimSpace(name)
	if len(name) < minStudentNameLen {
		return nil, &ValidationError{Code: "name_too_short", Reason: fmt.Sprintf("name must be at least %d characters", minStudentNameLen)}
	}
	code = NormalizeCode(code)
	if len(code) != codeLength {
		return nil, &ValidationError{Code: "bad_room_code", Reason: fmt.Sprintf("room code must be %d characters", codeLength)}
	}

	var record model.ClassroomRecord
	found, err := store.Read(roomstore.ClassroomKey(code), &record)
	if err != nil {
		if roomstore.IsCorrupt(err) {
			slog.Warn("corrupt classroom record", "code", code, "error", err)
			return nil, fmt.Errorf("room %s: %w", code, ErrRoomNotFound)
		}
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("room %s: %w", code, ErrRoomNotFound)
	}

	if record.Type == model.ActivityQuiz {
		var subs []model.Submission
		if _, err := store.Read(roomstore.SubmissionsKey(code), &subs); err != nil && !roomstore.IsCorrupt(err) {
			return nil, err
		}
		for _, s := range subs {
			if s.StudentName == name && s.Type == model.ActivityQuiz {
				return nil, fmt.Errorf("student %q in room %s: %w", name, code, ErrAlreadySubmitted)
			}
		}
	}

	slog.Info("student joined", "code", code, "student", name, "type", record.Type)
	return &Student{store: store, name: name, code: code, record: record}, nil
}

// Name returns the student's display name.
func (s *Student) Name() string { return s.name }

// Code returns the joined room's code.
func (s *Student) Code() string { return s.code }

// Activity returns the activity the student joined.
func (s *Student) Activity() model.ClassroomRecord { return s.record }

// Record upserts the student's submission, replacing any earlier one
// under the same name. The submission ID is assigned here.
func (s *Student) Record(sub model.Submission) (model.Submission, error) {
	sub.ID = uuid.NewString()
	sub.StudentName = s.name
	match := func(raw json.RawMessage) bool {
		var existing model.Submission
		if err := json.Unmarshal(raw, &existing); err != nil {
			return false
		}
		return existing.StudentName == s.name
	}
	if err := s.store.AppendOrReplace(roomstore.SubmissionsKey(s.code), match, sub); err != nil {
		return model.Submission{}, err
	}
	return sub, nil
}
