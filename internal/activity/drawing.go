package activity

import (
	"context"
	"fmt"

	"github.com/sahayak-ai/sahayak/internal/classroom"
	"github.com/sahayak-ai/sahayak/internal/gateway"
	"github.com/sahayak-ai/sahayak/internal/model"
)

// DrawingRun handles a student's drawing activity: grade the drawing,
// record the graded submission, let the student try again as often as
// they like.
type DrawingRun struct {
	student *classroom.Student
	gw      *gateway.Gateway

	result *model.GradeResult
}

// NewDrawingRun starts a run over the drawing prompt behind the
// student's room.
func NewDrawingRun(student *classroom.Student, gw *gateway.Gateway) (*DrawingRun, error) {
	record := student.Activity()
	if record.Type != model.ActivityDrawing {
		return nil, fmt.Errorf("room %s is not a drawing room", student.Code())
	}
	return &DrawingRun{student: student, gw: gw}, nil
}

// Prompt returns the drawing question.
func (r *DrawingRun) Prompt() string {
	return r.student.Activity().DrawingPrompt
}

// Submit grades the drawing and records the graded submission. A
// grading failure records nothing; the student can simply submit
// again. A later submission replaces the earlier one.
func (r *DrawingRun) Submit(ctx context.Context, drawingDataURI string) (*model.GradeResult, error) {
	result, err := r.gw.GradeDrawing(ctx, r.Prompt(), drawingDataURI)
	if err != nil {
		return nil, fmt.Errorf("grading drawing: %w", err)
	}

	_, err = r.student.Record(model.Submission{
		Type:      model.ActivityDrawing,
		Content:   drawingDataURI,
		Feedback:  result.Feedback,
		IsCorrect: result.IsCorrect,
	})
	if err != nil {
		return nil, err
	}

	r.result = result
	return result, nil
}

// Result returns the latest grading result, nil before any successful
// submission or after TryAgain.
func (r *DrawingRun) Result() *model.GradeResult { return r.result }

// TryAgain clears the local result so the student can draw anew. The
// recorded submission stays until the next Submit replaces it.
func (r *DrawingRun) TryAgain() { r.result = nil }
