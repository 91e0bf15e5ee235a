package assistant

import (
	"github.com/abhisek/sahayak/internal/llm"
	"github.com/abhisek/sahayak/internal/roster"
)

// Query is one free-text user turn.
type Query struct {
	// Text is the user's question or instruction.
	Text string

	// Language is the language the reply and any generated content
	// should use. Defaults to English when empty.
	Language string
}

// Key is a semantic output key in a Response. Consumers use key
// presence as the "was this tool used" signal; a key for a tool that
// did not run is absent rather than mapped to an empty payload.
type Key string

const (
	KeyExplanation Key = "explanation"
	KeyStory       Key = "story"
	KeyVisualAid   Key = "visualAid"
)

// Payload is a sealed union of per-tool output shapes.
type Payload interface {
	payload()
}

// ExplanationPayload carries an explainConcept result.
type ExplanationPayload struct {
	Explanation string
	Analogy     string
}

func (ExplanationPayload) payload() {}

// StoryPayload carries a createStory result.
type StoryPayload struct {
	Story string
}

func (StoryPayload) payload() {}

// VisualAidPayload carries a createVisualAid result as a data URI.
type VisualAidPayload struct {
	DataURI string
}

func (VisualAidPayload) payload() {}

// Response is the aggregated result of one turn.
type Response struct {
	// ConversationalText is always present, possibly empty. For a turn
	// with zero tool calls it is the entire answer. Degradation notes
	// for failed tools are appended here.
	ConversationalText string

	// Payloads maps semantic keys to tool outputs, one entry per
	// mapped tool that ran successfully this turn.
	Payloads map[Key]Payload

	// Intents are the validated roster mutations the model requested.
	// The core never applies them; the owning application does.
	Intents []roster.Intent

	// Usage is the token usage of the routing call.
	Usage llm.Usage
}

// Used reports whether the given tool's semantic key is present.
func (r *Response) Used(key Key) bool {
	_, ok := r.Payloads[key]
	return ok
}
