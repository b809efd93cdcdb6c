package gateway

import (
	"context"
	"encoding/json"
)

// Provider is the text-generation boundary of the gateway. Consumers
// send a Request and receive structured JSON; when a Schema is set the
// provider must return JSON conforming to it.
type Provider interface {
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured
	// to use.
	ModelID() string
}

// MediaClient is the image-and-audio boundary. Only some backends can
// serve it; when unavailable, slide images degrade to empty and speech
// synthesis reports a capability error.
type MediaClient interface {
	// GenerateImage renders an image for the prompt and returns it as a
	// data URI.
	GenerateImage(ctx context.Context, prompt string) (string, error)

	// SynthesizeSpeech reads text aloud and returns the audio as a WAV
	// data URI.
	SynthesizeSpeech(ctx context.Context, text string) (string, error)
}

// Request describes what to send to the model.
type Request struct {
	// System sets the model's role and constraints.
	System string

	// Messages is the conversation. Single-turn generation, the common
	// case here, carries one user message.
	Messages []Message

	// Schema, when set, selects the provider's native structured-output
	// mechanism and the response Content is the validated JSON.
	Schema *Schema

	MaxTokens int

	// Temperature controls randomness, 0.0-1.0. Zero means deterministic.
	Temperature float64
}

// Message is a single conversation message. A message may carry images
// alongside text, used for grading drawn answers and for photo context
// in lesson planning.
type Message struct {
	Role    Role
	Content string
	Images  []ImageInput
}

// ImageInput is an inline image attachment.
type ImageInput struct {
	MIMEType string
	Data     []byte
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema defines the JSON structure expected from the model.
type Schema struct {
	// Name identifies the schema (tool name for Anthropic, schema name
	// for OpenAI). Kebab-case.
	Name string

	// Description guides generation.
	Description string

	// Definition is the JSON Schema definition as a map.
	Definition map[string]any
}

// Response holds the model's output.
type Response struct {
	// Content is the generated output: validated JSON when the request
	// carried a Schema, raw text otherwise.
	Content json.RawMessage

	// Usage reports token consumption.
	Usage Usage

	// Model is the model that actually served the request.
	Model string

	// StopReason is normalized to "end" or "max_tokens".
	StopReason string
}

// Usage tracks token consumption for one request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
