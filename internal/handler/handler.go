// Package handler exposes the HTTP API: content generation, classroom
// rooms, submissions, and settings. Responses are JSON; error bodies
// carry a stable code plus a localized message.
package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/sahayak-ai/sahayak/internal/activity"
	"github.com/sahayak-ai/sahayak/internal/classroom"
	"github.com/sahayak-ai/sahayak/internal/gateway"
	"github.com/sahayak-ai/sahayak/internal/i18n"
	"github.com/sahayak-ai/sahayak/internal/model"
	"github.com/sahayak-ai/sahayak/internal/roomstore"
)

// Handler holds shared dependencies for HTTP handlers.
type Handler struct {
	store *roomstore.Store
	gw    *gateway.Gateway
}

// New creates a new Handler.
func New(s *roomstore.Store, gw *gateway.Gateway) *Handler {
	return &Handler{store: s, gw: gw}
}

// Routes registers all HTTP routes.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/api/generate", h.handleGenerate)
	r.Post("/api/lesson-plan", h.handleLessonPlan)
	r.Post("/api/tts", h.handleTTS)
	r.Post("/api/improve-prompt", h.handleImprovePrompt)
	r.Post("/api/classroom", h.handleCreateRoom)
	r.Post("/api/classroom/{code}/join", h.handleJoin)
	r.Get("/api/classroom/{code}/submissions", h.handleListSubmissions)
	r.Post("/api/classroom/{code}/submissions", h.handleSubmit)
	r.Get("/api/settings/{profile}", h.handleGetSettings)
	r.Put("/api/settings/{profile}", h.handlePutSettings)
}

func (h *Handler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Topic      string `json:"topic"`
		GradeLevel int    `json:"gradeLevel"`
		Language   string `json:"language"`
		Format     string `json:"format"`
	}
	if !decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Topic) == "" || req.Format == "" {
		writeError(w, r, badRequest("topic and format are required"))
		return
	}
	if req.Language == "" {
		req.Language = "English"
	}

	content, err := h.gw.GenerateContent(r.Context(), gateway.ContentRequest{
		Topic:      req.Topic,
		GradeLevel: req.GradeLevel,
		Language:   req.Language,
		Format:     model.ContentFormat(req.Format),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, content)
}

func (h *Handler) handleLessonPlan(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Prompt       string `json:"prompt"`
		PhotoDataURI string `json:"photoDataUri"`
	}
	if !decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		writeError(w, r, badRequest("prompt is required"))
		return
	}

	plans, err := h.gw.GenerateLessonPlan(r.Context(), req.Prompt, req.PhotoDataURI)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"plans": plans})
}

func (h *Handler) handleTTS(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if !decode(w, r, &req) {
		return
	}

	media, err := h.gw.SynthesizeSpeech(r.Context(), req.Text)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"media": media})
}

func (h *Handler) handleImprovePrompt(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Prompt string `json:"prompt"`
	}
	if !decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		writeError(w, r, badRequest("prompt is required"))
		return
	}

	suggestions, err := h.gw.ImprovePrompt(r.Context(), req.Prompt)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"suggestions": suggestions})
}

func (h *Handler) handleCreateRoom(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Type       string `json:"type"`
		Question   string `json:"question"`
		Topic      string `json:"topic"`
		GradeLevel int    `json:"gradeLevel"`
		Language   string `json:"language"`
	}
	if !decode(w, r, &req) {
		return
	}
	if req.Language == "" {
		req.Language = "English"
	}

	teacher := classroom.NewTeacher(h.store, h.gw)
	switch model.ActivityType(req.Type) {
	case model.ActivityDrawing:
		code, err := teacher.CreateDrawingRoom(r.Context(), req.Question)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]string{"roomCode": code})

	case model.ActivityQuiz:
		code, quiz, err := teacher.CreateQuizRoom(r.Context(), req.Topic, req.GradeLevel, req.Language)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"roomCode": code, "quiz": quiz})

	default:
		writeError(w, r, badRequest(fmt.Sprintf("unknown activity type %q", req.Type)))
	}
}

func (h *Handler) handleJoin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		StudentName string `json:"studentName"`
	}
	if !decode(w, r, &req) {
		return
	}

	student, err := classroom.Join(h.store, chi.URLParam(r, "code"), req.StudentName)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"activity": student.Activity(),
		"message":  i18n.Td(r.Context(), "WelcomeStudent", map[string]any{"Name": student.Name()}),
	})
}

func (h *Handler) handleListSubmissions(w http.ResponseWriter, r *http.Request) {
	code := classroom.NormalizeCode(chi.URLParam(r, "code"))

	var record model.ClassroomRecord
	found, err := h.store.Read(roomstore.ClassroomKey(code), &record)
	if err != nil && !roomstore.IsCorrupt(err) {
		writeError(w, r, err)
		return
	}
	if !found || roomstore.IsCorrupt(err) {
		writeError(w, r, fmt.Errorf("room %s: %w", code, classroom.ErrRoomNotFound))
		return
	}

	subs := []model.Submission{}
	if _, err := h.store.Read(roomstore.SubmissionsKey(code), &subs); err != nil && !roomstore.IsCorrupt(err) {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"submissions": subs})
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var req struct {
		StudentName    string `json:"studentName"`
		Type           string `json:"type"`
		DrawingDataURI string `json:"drawingDataUri"`
		Score          int    `json:"score"`
		Total          int    `json:"total"`
	}
	if !decode(w, r, &req) {
		return
	}

	student, err := classroom.Join(h.store, chi.URLParam(r, "code"), req.StudentName)
	if err != nil {
		writeError(w, r, err)
		return
	}

	// The room's activity decides what a submission means; a client
	// cannot write a quiz score into a drawing room or vice versa.
	roomType := student.Activity().Type
	if req.Type != "" && model.ActivityType(req.Type) != roomType {
		writeError(w, r, badRequest(fmt.Sprintf("submission type %q does not match the room's %s activity", req.Type, roomType)))
		return
	}

	switch roomType {
	case model.ActivityDrawing:
		run, err := activity.NewDrawingRun(student, h.gw)
		if err != nil {
			writeError(w, r, err)
			return
		}
		result, err := run.Submit(r.Context(), req.DrawingDataURI)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, result)

	case model.ActivityQuiz:
		if req.Total <= 0 || req.Score < 0 || req.Score > req.Total {
			writeError(w, r, badRequest("score must be within 0..total"))
			return
		}
		sub, err := student.Record(model.Submission{
			Type:  model.ActivityQuiz,
			Score: req.Score,
			Total: req.Total,
		})
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, sub)

	default:
		writeError(w, r, badRequest(fmt.Sprintf("unknown activity type %q", roomType)))
	}
}

func (h *Handler) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	profile := chi.URLParam(r, "profile")

	var settings model.AppSettings
	found, err := h.store.Read(roomstore.SettingsKey(profile), &settings)
	if err != nil {
		if roomstore.IsCorrupt(err) {
			slog.Warn("corrupt settings, serving defaults", "profile", profile, "error", err)
			writeJSON(w, http.StatusOK, model.DefaultSettings())
			return
		}
		writeError(w, r, err)
		return
	}
	if !found {
		writeJSON(w, http.StatusOK, model.DefaultSettings())
		return
	}
	writeJSON(w, http.StatusOK, settings.Normalize())
}

func (h *Handler) handlePutSettings(w http.ResponseWriter, r *http.Request) {
	var settings model.AppSettings
	if !decode(w, r, &settings) {
		return
	}

	settings = settings.Normalize()
	if err := h.store.Write(roomstore.SettingsKey(chi.URLParam(r, "profile")), settings); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

// decode parses the JSON request body into dest. On failure it writes a
// 400 and reports false.
func decode(w http.ResponseWriter, r *http.Request, dest any) bool {
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		writeError(w, r, badRequest("malformed JSON body"))
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}
