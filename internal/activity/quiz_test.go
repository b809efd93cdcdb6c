package activity

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sahayak-ai/sahayak/internal/classroom"
	"github.com/sahayak-ai/sahayak/internal/gateway"
	"github.com/sahayak-ai/sahayak/internal/model"
	"github.com/sahayak-ai/sahayak/internal/roomstore"
)

func newTestStore(t *testing.T) *roomstore.Store {
	t.Helper()
	store, err := roomstore.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func photosynthesisQuiz(t *testing.T) gateway.MockResponse {
	t.Helper()
	quiz := model.Quiz{Questions: []model.QuizQuestion{
		{QuestionText: "What do plants absorb from the air?", Options: []string{"Oxygen", "Carbon dioxide", "Nitrogen", "Hydrogen"}, CorrectAnswer: "Carbon dioxide"},
		{QuestionText: "Where does photosynthesis happen?", Options: []string{"Roots", "Stem", "Leaves", "Flowers"}, CorrectAnswer: "Leaves"},
		{QuestionText: "What gas do plants release?", Options: []string{"Oxygen", "Carbon dioxide", "Methane", "Helium"}, CorrectAnswer: "Oxygen"},
		{QuestionText: "What pigment captures sunlight?", Options: []string{"Carotene", "Chlorophyll", "Melanin", "Keratin"}, CorrectAnswer: "Chlorophyll"},
	}}
	raw, err := json.Marshal(quiz)
	require.NoError(t, err)
	return gateway.MockResponse{Content: raw}
}

// quizRoom creates a quiz room and joins a student into it.
func quizRoom(t *testing.T, store *roomstore.Store, studentName string) (*classroom.Teacher, *classroom.Student) {
	t.Helper()
	teacher := classroom.NewTeacher(store, gateway.NewWith(gateway.NewMockProvider(photosynthesisQuiz(t)), nil, 0))
	code, _, err := teacher.CreateQuizRoom(context.Background(), "Photosynthesis", 6, "English")
	require.NoError(t, err)
	student, err := classroom.Join(store, code, studentName)
	require.NoError(t, err)
	return teacher, student
}

func TestQuizRunSequentialScoring(t *testing.T) {
	store := newTestStore(t)
	teacher, ravi := quizRoom(t, store, "Ravi")

	run, err := NewQuizRun(ravi)
	require.NoError(t, err)

	// Ravi gets three right and misses the last one.
	answers := []string{"Carbon dioxide", "Leaves", "Oxygen", "Carotene"}
	for i, choice := range answers {
		q, ok := run.Question()
		require.True(t, ok)
		assert.NotEmpty(t, q.QuestionText)

		current, total := run.Progress()
		assert.Equal(t, i+1, current)
		assert.Equal(t, 4, total)

		correct, err := run.Answer(choice)
		require.NoError(t, err)
		assert.Equal(t, choice == q.CorrectAnswer, correct)
		assert.Equal(t, choice, run.Locked())

		more, err := run.Next()
		require.NoError(t, err)
		assert.Equal(t, i < len(answers)-1, more)
	}

	assert.True(t, run.Finished())
	score, total := run.Score()
	assert.Equal(t, 3, score)
	assert.Equal(t, 4, total)

	subs, err := teacher.Submissions()
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "Ravi", subs[0].StudentName)
	assert.Equal(t, model.ActivityQuiz, subs[0].Type)
	assert.Equal(t, 3, subs[0].Score)
	assert.Equal(t, 4, subs[0].Total)
}

func TestQuizRunLocksInFirstAnswer(t *testing.T) {
	store := newTestStore(t)
	_, ravi := quizRoom(t, store, "Ravi")
	run, err := NewQuizRun(ravi)
	require.NoError(t, err)

	_, err = run.Answer("Carbon dioxide")
	require.NoError(t, err)

	_, err = run.Answer("Oxygen")
	require.Error(t, err, "second answer to the same question is rejected")
	assert.Equal(t, "Carbon dioxide", run.Locked())
}

func TestQuizRunRejectsUnknownOption(t *testing.T) {
	store := newTestStore(t)
	_, ravi := quizRoom(t, store, "Ravi")
	run, err := NewQuizRun(ravi)
	require.NoError(t, err)

	_, err = run.Answer("Sunlight")
	require.Error(t, err)

	_, err = run.Next()
	require.Error(t, err, "cannot advance an unanswered question")
}

func TestQuizRunAbandonmentRecordsNothing(t *testing.T) {
	store := newTestStore(t)
	teacher, ravi := quizRoom(t, store, "Ravi")
	run, err := NewQuizRun(ravi)
	require.NoError(t, err)

	_, err = run.Answer("Carbon dioxide")
	require.NoError(t, err)
	_, err = run.Next()
	require.NoError(t, err)
	// Ravi walks away mid-quiz.

	subs, err := teacher.Submissions()
	require.NoError(t, err)
	assert.Empty(t, subs)
}

func TestQuizRunRefusesReuseAfterFinish(t *testing.T) {
	store := newTestStore(t)
	_, ravi := quizRoom(t, store, "Ravi")
	run, err := NewQuizRun(ravi)
	require.NoError(t, err)

	for {
		q, ok := run.Question()
		if !ok {
			break
		}
		_, err := run.Answer(q.CorrectAnswer)
		require.NoError(t, err)
		if _, err := run.Next(); err != nil {
			t.Fatal(err)
		}
	}

	_, err = run.Answer("Leaves")
	require.ErrorIs(t, err, ErrFinished)
	_, err = run.Next()
	require.ErrorIs(t, err, ErrFinished)
}

func TestQuizRunRequiresQuizRoom(t *testing.T) {
	store := newTestStore(t)
	teacher := classroom.NewTeacher(store, gateway.NewWith(gateway.NewMockProvider(), nil, 0))
	code, err := teacher.CreateDrawingRoom(context.Background(), "Draw the water cycle today")
	require.NoError(t, err)
	student, err := classroom.Join(store, code, "Asha")
	require.NoError(t, err)

	_, err = NewQuizRun(student)
	require.Error(t, err)
}

// TestQuizEndToEnd follows the full classroom flow: the teacher opens a
// quiz room on Photosynthesis, Ravi joins, scores 3 of 4, the teacher
// sees the result, and Ravi cannot rejoin.
func TestQuizEndToEnd(t *testing.T) {
	store := newTestStore(t)
	teacher, ravi := quizRoom(t, store, "Ravi")

	run, err := NewQuizRun(ravi)
	require.NoError(t, err)
	for _, choice := range []string{"Carbon dioxide", "Leaves", "Oxygen", "Carotene"} {
		_, err := run.Answer(choice)
		require.NoError(t, err)
		_, err = run.Next()
		require.NoError(t, err)
	}

	subs, err := teacher.Submissions()
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, 3, subs[0].Score)
	assert.Equal(t, 4, subs[0].Total)

	_, err = classroom.Join(store, teacher.Code(), "Ravi")
	require.ErrorIs(t, err, classroom.ErrAlreadySubmitted)
}
