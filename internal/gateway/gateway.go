// Package gateway wraps the external generative-model services behind
// typed, schema-validated operations: teaching content, quizzes, visual
// aids, lesson plans, drawing assessment, and speech synthesis.
package gateway

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/sahayak-ai/sahayak/internal/model"
)

// Gateway composes a text Provider with an optional MediaClient.
type Gateway struct {
	provider  Provider
	media     MediaClient
	maxTokens int
}

// New builds a Gateway from configuration. The text backend is selected
// by cfg.Provider; media (slide images, speech) is served by Gemini,
// either the selected backend itself or a secondary client when a
// Gemini key is available. Without one, slide images degrade to empty
// and speech synthesis reports ErrNoMediaBackend.
func New(ctx context.Context, cfg Config) (*Gateway, error) {
	var base Provider
	var media MediaClient
	var err error

	switch cfg.Provider {
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case "gemini":
		var g *GeminiProvider
		g, err = NewGeminiProvider(ctx, cfg.Gemini)
		if err == nil {
			base, media = g, g
		}
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case "mock":
		m := NewMockProvider()
		return NewWith(m, m, cfg.MaxTokens), nil
	default:
		return nil, fmt.Errorf("unknown provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	if media == nil && cfg.Gemini.APIKey != "" {
		g, err := NewGeminiProvider(ctx, cfg.Gemini)
		if err != nil {
			return nil, fmt.Errorf("initializing gemini media client: %w", err)
		}
		media = g
	}
	if media == nil {
		slog.Warn("no media-capable backend configured; slide images and speech are disabled")
	}

	return NewWith(WithRetry(base, cfg.Retry), media, cfg.MaxTokens), nil
}

// NewWith assembles a Gateway from explicit parts. Used by tests and by
// callers that wire their own decorators.
func NewWith(provider Provider, media MediaClient, maxTokens int) *Gateway {
	if maxTokens <= 0 {
		maxTokens = DefaultConfig().MaxTokens
	}
	return &Gateway{provider: provider, media: media, maxTokens: maxTokens}
}

// ContentRequest describes a single content generation call.
type ContentRequest struct {
	Topic      string
	GradeLevel int
	Language   string
	Format     model.ContentFormat
}

// GenerateContent dispatches on the requested format: quizzes and
// visual aids go through their structured paths, everything else
// produces one text body.
func (g *Gateway) GenerateContent(ctx context.Context, req ContentRequest) (model.GeneratedContent, error) {
	switch req.Format {
	case model.FormatQuiz:
		quiz, err := g.GenerateQuiz(ctx, req.Topic, req.GradeLevel, req.Language)
		if err != nil {
			return model.GeneratedContent{}, err
		}
		return model.GeneratedContent{Quiz: quiz}, nil

	case model.FormatVisualAid:
		slides, err := g.GenerateSlides(ctx, req.Topic, req.GradeLevel, req.Language)
		if err != nil {
			return model.GeneratedContent{}, err
		}
		return model.GeneratedContent{Slides: slides}, nil

	default:
		resp, err := g.provider.Generate(ctx, Request{
			System:      buildContentPrompt(req.Topic, req.GradeLevel, req.Language, req.Format),
			Messages:    []Message{{Role: RoleUser, Content: "Generate the content now."}},
			Schema:      ContentSchema,
			MaxTokens:   g.maxTokens,
			Temperature: 0.7,
		})
		if err != nil {
			return model.GeneratedContent{}, err
		}
		var out struct {
			Content string `json:"content"`
		}
		if err := json.Unmarshal(resp.Content, &out); err != nil {
			return model.GeneratedContent{}, &ErrInvalidResponse{Content: resp.Content, Err: err}
		}
		if strings.TrimSpace(out.Content) == "" {
			return model.GeneratedContent{}, ErrEmptyResult
		}
		return model.GeneratedContent{Content: out.Content}, nil
	}
}

// GenerateQuiz returns a validated multiple-choice quiz: 3-5 questions,
// 4 options each, correct answer a member of the options. The schema
// enforces shape; option membership is rechecked here because no
// schema can express it.
func (g *Gateway) GenerateQuiz(ctx context.Context, topic string, gradeLevel int, language string) (*model.Quiz, error) {
	resp, err := g.provider.Generate(ctx, Request{
		System:      buildQuizPrompt(topic, gradeLevel, language),
		Messages:    []Message{{Role: RoleUser, Content: "Generate the quiz now."}},
		Schema:      QuizSchema,
		MaxTokens:   g.maxTokens,
		Temperature: 0.7,
	})
	if err != nil {
		return nil, err
	}

	var quiz model.Quiz
	if err := json.Unmarshal(resp.Content, &quiz); err != nil {
		return nil, &ErrInvalidResponse{Content: resp.Content, Err: err}
	}
	if len(quiz.Questions) == 0 {
		return nil, ErrEmptyResult
	}
	if err := quiz.Validate(); err != nil {
		return nil, &ErrInvalidResponse{Content: resp.Content, Err: err}
	}
	return &quiz, nil
}

// GenerateSlides plans 3-5 slides and then resolves each slide's image.
// A failed image generation degrades that one slide to an empty image;
// it never fails the whole request.
func (g *Gateway) GenerateSlides(ctx context.Context, topic string, gradeLevel int, language string) ([]model.Slide, error) {
	resp, err := g.provider.Generate(ctx, Request{
		System:      buildSlidesPrompt(topic, gradeLevel, language),
		Messages:    []Message{{Role: RoleUser, Content: "Generate the slides now."}},
		Schema:      SlidesSchema,
		MaxTokens:   g.maxTokens,
		Temperature: 0.7,
	})
	if err != nil {
		return nil, err
	}

	var out struct {
		Slides []model.Slide `json:"slides"`
	}
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, &ErrInvalidResponse{Content: resp.Content, Err: err}
	}
	if len(out.Slides) == 0 {
		return nil, ErrEmptyResult
	}

	return g.resolveSlides(ctx, out.Slides), nil
}

// resolveSlides turns image prompts into image data URIs, one goroutine
// per slide.
func (g *Gateway) resolveSlides(ctx context.Context, slides []model.Slide) []model.Slide {
	resolved := make([]model.Slide, len(slides))
	var wg sync.WaitGroup
	for i, slide := range slides {
		resolved[i] = model.Slide{Text: slide.Text}

		prompt := strings.TrimSpace(slide.ImagePrompt)
		if prompt == "" || g.media == nil {
			continue
		}
		wg.Add(1)
		go func(i int, prompt string) {
			defer wg.Done()
			url, err := g.media.GenerateImage(ctx, prompt)
			if err != nil {
				slog.Warn("slide image generation failed", "prompt", prompt, "error", err)
				return
			}
			resolved[i].ImageURL = url
		}(i, prompt)
	}
	wg.Wait()
	return resolved
}

// GenerateLessonPlan produces per-grade lesson plans from a free-text
// request, optionally grounded in a photo (a textbook page or an
// object). Visual-aid activities come back with image prompts and are
// resolved to images exactly like GenerateSlides.
func (g *Gateway) GenerateLessonPlan(ctx context.Context, prompt, photoDataURI string) ([]model.LessonPlan, error) {
	msg := Message{Role: RoleUser, Content: "Produce the lesson plan now."}
	if photoDataURI != "" {
		img, err := parseDataURI(photoDataURI)
		if err != nil {
			return nil, fmt.Errorf("photo: %w", err)
		}
		msg.Images = []ImageInput{img}
	}

	resp, err := g.provider.Generate(ctx, Request{
		System:      buildLessonPlanPrompt(prompt, photoDataURI != ""),
		Messages:    []Message{msg},
		Schema:      LessonPlanSchema,
		MaxTokens:   g.maxTokens,
		Temperature: 0.7,
	})
	if err != nil {
		return nil, err
	}

	var out struct {
		Plans []model.LessonPlan `json:"plans"`
	}
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, &ErrInvalidResponse{Content: resp.Content, Err: err}
	}
	if len(out.Plans) == 0 {
		return nil, ErrEmptyResult
	}

	for pi := range out.Plans {
		for ai := range out.Plans[pi].Activities {
			act := &out.Plans[pi].Activities[ai]
			if act.Format != model.FormatVisualAid || len(act.Slides) == 0 {
				continue
			}
			act.Slides = g.resolveSlides(ctx, act.Slides)
			// A visual aid carries only slides.
			act.Quiz = nil
			act.Content = ""
		}
	}

	return out.Plans, nil
}

// GradeDrawing assesses a student's drawn answer against the question.
func (g *Gateway) GradeDrawing(ctx context.Context, question, drawingDataURI string) (*model.GradeResult, error) {
	img, err := parseDataURI(drawingDataURI)
	if err != nil {
		return nil, fmt.Errorf("drawing: %w", err)
	}

	resp, err := g.provider.Generate(ctx, Request{
		System: buildGradingPrompt(question),
		Messages: []Message{{
			Role:    RoleUser,
			Content: "Here is my drawing.",
			Images:  []ImageInput{img},
		}},
		Schema:      GradeSchema,
		MaxTokens:   1024,
		Temperature: 0.3,
	})
	if err != nil {
		return nil, err
	}

	var result model.GradeResult
	if err := json.Unmarshal(resp.Content, &result); err != nil {
		return nil, &ErrInvalidResponse{Content: resp.Content, Err: err}
	}
	if strings.TrimSpace(result.Feedback) == "" {
		return nil, ErrEmptyResult
	}
	return &result, nil
}

// ImprovePrompt suggests 3-4 concrete improvements to a teaching
// content prompt.
func (g *Gateway) ImprovePrompt(ctx context.Context, prompt string) ([]string, error) {
	resp, err := g.provider.Generate(ctx, Request{
		System:      buildImprovePrompt(prompt),
		Messages:    []Message{{Role: RoleUser, Content: "List the suggestions now."}},
		Schema:      SuggestionsSchema,
		MaxTokens:   1024,
		Temperature: 0.5,
	})
	if err != nil {
		return nil, err
	}

	var out struct {
		Suggestions []string `json:"suggestions"`
	}
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, &ErrInvalidResponse{Content: resp.Content, Err: err}
	}
	if len(out.Suggestions) == 0 {
		return nil, ErrEmptyResult
	}
	return out.Suggestions, nil
}

// SynthesizeSpeech reads text aloud via the media backend.
func (g *Gateway) SynthesizeSpeech(ctx context.Context, text string) (string, error) {
	if g.media == nil {
		return "", ErrNoMediaBackend
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("nothing to read aloud")
	}
	audio, err := g.media.SynthesizeSpeech(ctx, text)
	if err != nil {
		return "", err
	}
	if audio == "" {
		return "", ErrEmptyResult
	}
	return audio, nil
}

// parseDataURI splits a base64 data URI into an ImageInput.
// Expected form: data:<mimetype>;base64,<encoded>.
func parseDataURI(uri string) (ImageInput, error) {
	header, encoded, ok := strings.Cut(uri, ",")
	if !ok || !strings.HasPrefix(header, "data:") {
		return ImageInput{}, fmt.Errorf("not a data URI")
	}
	meta := strings.TrimPrefix(header, "data:")
	meta, isB64 := strings.CutSuffix(meta, ";base64")
	if !isB64 {
		return ImageInput{}, fmt.Errorf("data URI is not base64 encoded")
	}
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return ImageInput{}, fmt.Errorf("decode data URI: %w", err)
	}
	if meta == "" {
		meta = "image/png"
	}
	return ImageInput{MIMEType: meta, Data: data}, nil
}
