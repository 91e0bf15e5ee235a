package llm

import (
	"context"
	"encoding/json"
	"io"
	"strings"
	"sync"
)

// MockResponse is a canned response for the MockProvider.
type MockResponse struct {
	Content json.RawMessage
	Usage   Usage
	Err     error
}

// MockProvider is a deterministic Provider for testing.
// It returns canned responses in FIFO order and records all requests.
type MockProvider struct {
	mu        sync.Mutex
	responses []MockResponse
	Calls     []Request
}

// NewMockProvider creates a MockProvider with the given canned responses.
func NewMockProvider(responses ...MockResponse) *MockProvider {
	return &MockProvider{responses: responses}
}

// Generate returns the next canned response or ErrProviderUnavailable if
// the queue is empty.
func (m *MockProvider) Generate(_ context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, req)

	if len(m.responses) == 0 {
		return nil, &ErrProviderUnavailable{Err: nil}
	}

	resp := m.responses[0]
	m.responses = m.responses[1:]

	if resp.Err != nil {
		return nil, resp.Err
	}

	return &Response{
		Content:    resp.Content,
		Usage:      resp.Usage,
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

// CallCount returns the number of Generate calls made.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// MockChatTurn scripts one streamed turn for the MockChatProvider.
type MockChatTurn struct {
	// Events are emitted in order before the stream terminates.
	Events []ChatEvent

	// Err, when set, terminates the stream with this error after the
	// scripted events instead of a normal io.EOF.
	Err error

	// OpenErr, when set, fails StreamChat itself.
	OpenErr error

	Usage      Usage
	StopReason string
}

// MockChatProvider is a deterministic ChatProvider for testing.
// It plays scripted turns in FIFO order and records all requests.
type MockChatProvider struct {
	mu    sync.Mutex
	turns []MockChatTurn
	Calls []ChatRequest
}

// NewMockChatProvider creates a MockChatProvider with the given scripted turns.
func NewMockChatProvider(turns ...MockChatTurn) *MockChatProvider {
	return &MockChatProvider{turns: turns}
}

// StreamChat returns a stream playing the next scripted turn, or
// ErrProviderUnavailable if the queue is empty.
func (m *MockChatProvider) StreamChat(_ context.Context, req ChatRequest) (ChatStream, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, req)

	if len(m.turns) == 0 {
		return nil, &ErrProviderUnavailable{Err: nil}
	}

	turn := m.turns[0]
	m.turns = m.turns[1:]

	if turn.OpenErr != nil {
		return nil, turn.OpenErr
	}

	return newMockChatStream(turn), nil
}

// ModelID returns "mock".
func (m *MockChatProvider) ModelID() string {
	return "mock"
}

// AddTurn appends a scripted turn to the queue.
func (m *MockChatProvider) AddTurn(turn MockChatTurn) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.turns = append(m.turns, turn)
}

// mockChatStream plays a scripted turn, assembling the final message the
// same way real streams do.
type mockChatStream struct {
	turn MockChatTurn
	pos  int
	text strings.Builder
	msg  ChatMessage
	done bool
}

var _ ChatStream = (*mockChatStream)(nil)

func newMockChatStream(turn MockChatTurn) *mockChatStream {
	stop := turn.StopReason
	if stop == "" {
		stop = "end"
	}
	return &mockChatStream{
		turn: turn,
		msg:  ChatMessage{Usage: turn.Usage, StopReason: stop},
	}
}

func (s *mockChatStream) Next() (ChatEvent, error) {
	if s.pos < len(s.turn.Events) {
		evt := s.turn.Events[s.pos]
		s.pos++
		switch e := evt.(type) {
		case TextDelta:
			s.text.WriteString(e.Text)
		case ToolCallEvent:
			s.msg.ToolCalls = append(s.msg.ToolCalls, e.Call)
		}
		return evt, nil
	}
	s.done = true
	s.msg.Text = s.text.String()
	if s.turn.Err != nil {
		s.msg.StopReason = "error"
		return nil, s.turn.Err
	}
	return nil, io.EOF
}

func (s *mockChatStream) Message() ChatMessage {
	msg := s.msg
	if !s.done {
		msg.Text = s.text.String()
	}
	return msg
}

func (s *mockChatStream) Close() error {
	return nil
}

// MockImage is a canned response for the MockImageProvider.
type MockImage struct {
	Data     []byte
	MIMEType string
	Err      error
}

// MockImageProvider is a deterministic ImageProvider for testing.
type MockImageProvider struct {
	mu     sync.Mutex
	images []MockImage
	Calls  []ImageRequest
}

// NewMockImageProvider creates a MockImageProvider with canned images.
func NewMockImageProvider(images ...MockImage) *MockImageProvider {
	return &MockImageProvider{images: images}
}

// GenerateImage returns the next canned image. An empty queue yields a
// fixed single-pixel PNG so callers exercising the happy path need no
// scripting.
func (m *MockImageProvider) GenerateImage(_ context.Context, req ImageRequest) (*ImageResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, req)

	if len(m.images) == 0 {
		return &ImageResponse{
			Data:     []byte{0x89, 'P', 'N', 'G'},
			MIMEType: "image/png",
			Model:    "mock",
		}, nil
	}

	img := m.images[0]
	m.images = m.images[1:]

	if img.Err != nil {
		return nil, img.Err
	}

	return &ImageResponse{
		Data:     img.Data,
		MIMEType: img.MIMEType,
		Model:    "mock",
	}, nil
}

// ImageModelID returns "mock".
func (m *MockImageProvider) ImageModelID() string {
	return "mock"
}
