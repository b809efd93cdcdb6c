package gateway

import (
	"context"
	"encoding/json"
	"sync"
)

// MockResponse is a canned response for the MockProvider.
type MockResponse struct {
	Content json.RawMessage
	Err     error
}

// MockProvider is a deterministic Provider and MediaClient for testing.
// It returns canned responses in FIFO order and records all requests.
type MockProvider struct {
	mu        sync.Mutex
	responses []MockResponse
	Calls     []Request

	// ImageResult and ImageErr control GenerateImage; per-prompt errors
	// can be set in ImageErrs.
	ImageResult string
	ImageErr    error
	ImageErrs   map[string]error
	ImageCalls  []string

	// SpeechResult and SpeechErr control SynthesizeSpeech.
	SpeechResult string
	SpeechErr    error
}

// NewMockProvider creates a MockProvider with the given canned responses.
func NewMockProvider(responses ...MockResponse) *MockProvider {
	return &MockProvider{responses: responses}
}

// Generate returns the next canned response or ErrProviderUnavailable
// when the queue is empty.
func (m *MockProvider) Generate(_ context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, req)

	if len(m.responses) == 0 {
		return nil, &ErrProviderUnavailable{}
	}

	resp := m.responses[0]
	m.responses = m.responses[1:]

	if resp.Err != nil {
		return nil, resp.Err
	}

	return &Response{
		Content:    resp.Content,
		Model:      "mock",
		StopReason: "end",
	}, nil
}

// ModelID returns "mock".
func (m *MockProvider) ModelID() string {
	return "mock"
}

// AddResponse appends a canned response to the queue.
func (m *MockProvider) AddResponse(resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, resp)
}

// GenerateImage returns the canned image result.
func (m *MockProvider) GenerateImage(_ context.Context, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ImageCalls = append(m.ImageCalls, prompt)
	if err, ok := m.ImageErrs[prompt]; ok {
		return "", err
	}
	if m.ImageErr != nil {
		return "", m.ImageErr
	}
	return m.ImageResult, nil
}

// SynthesizeSpeech returns the canned audio result.
func (m *MockProvider) SynthesizeSpeech(_ context.Context, _ string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SpeechErr != nil {
		return "", m.SpeechErr
	}
	return m.SpeechResult, nil
}
