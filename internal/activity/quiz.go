// Package activity drives a joined student through their room's
// activity and records the outcome as a submission.
package activity

import (
	"errors"
	"fmt"

	"github.com/sahayak-ai/sahayak/internal/classroom"
	"github.com/sahayak-ai/sahayak/internal/model"
)

// ErrFinished is returned when a run is used after its final submission.
var ErrFinished = errors.New("activity already finished")

// QuizRun walks a student through a quiz one question at a time, in
// order. Each answer is locked in when given; advancing past the last
// question finalizes the run and writes exactly one submission. A run
// abandoned before the last answer records nothing.
type QuizRun struct {
	student *classroom.Student
	quiz    model.Quiz

	index    int
	score    int
	answered bool
	locked   string
	finished bool
}

// NewQuizRun starts a run over the quiz behind the student's room.
func NewQuizRun(student *classroom.Student) (*QuizRun, error) {
	record := student.Activity()
	if record.Type != model.ActivityQuiz || record.Quiz == nil {
		return nil, fmt.Errorf("room %s is not a quiz room", student.Code())
	}
	return &QuizRun{student: student, quiz: *record.Quiz}, nil
}

// Question returns the current question. ok is false once the run is
// past the final question.
func (r *QuizRun) Question() (q model.QuizQuestion, ok bool) {
	if r.finished || r.index >= len(r.quiz.Questions) {
		return model.QuizQuestion{}, false
	}
	return r.quiz.Questions[r.index], true
}

// Progress reports the 1-based current question number and the total.
func (r *QuizRun) Progress() (current, total int) {
	current = r.index + 1
	if current > len(r.quiz.Questions) {
		current = len(r.quiz.Questions)
	}
	return current, len(r.quiz.Questions)
}

// Answer locks in a choice for the current question and reports whether
// it was correct. A question can be answered once; the choice cannot be
// changed afterwards.
func (r *QuizRun) Answer(choice string) (correct bool, err error) {
	if r.finished {
		return false, ErrFinished
	}
	q, ok := r.Question()
	if !ok {
		return false, ErrFinished
	}
	if r.answered {
		return false, fmt.Errorf("question %d already answered", r.index+1)
	}

	valid := false
	for _, opt := range q.Options {
		if opt == choice {
			valid = true
			break
		}
	}
	if !valid {
		return false, fmt.Errorf("%q is not an option for question %d", choice, r.index+1)
	}

	r.answered = true
	r.locked = choice
	correct = choice == q.CorrectAnswer
	if correct {
		r.score++
	}
	return correct, nil
}

// Locked returns the locked-in choice for the current question, empty
// until Answer is called.
func (r *QuizRun) Locked() string {
	if !r.answered {
		return ""
	}
	return r.locked
}

// Next advances to the following question after the current one has
// been answered. Advancing past the final question finalizes the run:
// the score is written as a single submission. Next reports whether a
// further question remains.
func (r *QuizRun) Next() (more bool, err error) {
	if r.finished {
		return false, ErrFinished
	}
	if !r.answered {
		return false, fmt.Errorf("question %d not answered yet", r.index+1)
	}

	if r.index+1 < len(r.quiz.Questions) {
		r.index++
		r.answered = false
		r.locked = ""
		return true, nil
	}

	// Final question answered: write the one and only submission.
	// On failure the run stays open so the student can retry.
	_, err = r.student.Record(model.Submission{
		Type:  model.ActivityQuiz,
		Score: r.score,
		Total: len(r.quiz.Questions),
	})
	if err != nil {
		return false, err
	}
	r.finished = true
	r.index++
	r.answered = false
	r.locked = ""
	return false, nil
}

// Score reports the running score and the question total.
func (r *QuizRun) Score() (score, total int) {
	return r.score, len(r.quiz.Questions)
}

// Finished reports whether the submission has been written.
func (r *QuizRun) Finished() bool { return r.finished }
