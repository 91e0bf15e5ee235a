package llm

import (
	"context"
	"encoding/json"
)

// ChatProvider is the abstraction for streaming chat completion with
// function calling. The routing layer uses it to let the model pick
// tools while conversational text streams back incrementally.
type ChatProvider interface {
	// StreamChat opens a streaming completion. The returned ChatStream
	// must be drained with Next until io.EOF and then closed.
	StreamChat(ctx context.Context, req ChatRequest) (ChatStream, error)

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// ChatRequest describes a streaming chat completion request.
type ChatRequest struct {
	// System is the system prompt, including any tool disambiguation policy.
	System string

	// Messages is the conversation history.
	Messages []Message

	// Tools is the manifest of callable tools offered to the model.
	// Order is preserved on the wire; models may use it for tie-breaking.
	Tools []ToolSpec

	// MaxTokens is the maximum number of tokens in the response.
	MaxTokens int

	// Temperature controls randomness. Range: 0.0 - 1.0.
	Temperature float64
}

// ToolSpec is one entry of the tool manifest sent to the model.
type ToolSpec struct {
	Name        string
	Description string
	// InputSchema is the JSON Schema for the tool's arguments.
	InputSchema map[string]any
}

// ToolCall is a finalized tool invocation request emitted by the model.
type ToolCall struct {
	// ID is the call identifier, provider-assigned or generated when the
	// provider does not assign one.
	ID string

	// Name is the tool the model chose. Not guaranteed to match a
	// registered tool; lookup fails closed downstream.
	Name string

	// Args is the raw JSON arguments object.
	Args json.RawMessage
}

// ChatEvent is a sealed interface for semantic streaming events.
// Transport errors come from ChatStream.Next's error return, not from
// events.
type ChatEvent interface {
	chatEvent()
}

// TextDelta carries an incremental piece of conversational text.
type TextDelta struct {
	Text string
}

func (TextDelta) chatEvent() {}

// ToolCallEvent carries one finalized tool call. Providers emit tool
// calls only once fully assembled, after or interleaved with text.
type ToolCallEvent struct {
	Call ToolCall
}

func (ToolCallEvent) chatEvent() {}

// Interface compliance checks.
var (
	_ ChatEvent = TextDelta{}
	_ ChatEvent = ToolCallEvent{}
)

// ChatStream is a pull-based iterator over a streaming completion.
// Next returns io.EOF when the stream completes normally. Cancellation
// flows through the context passed to StreamChat.
type ChatStream interface {
	// Next returns the next semantic event, or io.EOF at end of stream.
	Next() (ChatEvent, error)

	// Message returns the assembled final state: accumulated text, the
	// tool calls the model requested, and usage. Valid once Next has
	// returned io.EOF; before that it reflects what has arrived so far.
	Message() ChatMessage

	// Close releases stream resources. Safe to call more than once.
	Close() error
}

// ChatMessage is the assembled result of a drained ChatStream.
type ChatMessage struct {
	// Text is the full conversational reply, possibly empty when the
	// model answered with tool calls only.
	Text string

	// ToolCalls are the invocations the model requested this turn, in
	// emission order.
	ToolCalls []ToolCall

	// Usage reports token consumption for the streaming call.
	Usage Usage

	// StopReason indicates why generation stopped.
	// Normalized to: "end", "max_tokens", "safety", "error"
	StopReason string
}
