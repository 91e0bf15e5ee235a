package llm

import (
	"context"
	"encoding/json"
	"io"
	"iter"
	"strings"

	"github.com/google/uuid"
	"google.golang.org/genai"
)

// StreamChat opens a streaming function-calling completion against the
// Gemini API. Tool calls arrive fully assembled; text arrives as deltas.
func (p *GeminiProvider) StreamChat(ctx context.Context, req ChatRequest) (ChatStream, error) {
	config := &genai.GenerateContentConfig{
		MaxOutputTokens: int32(req.MaxTokens),
		Tools:           buildGeminiTools(req.Tools),
	}

	if req.Temperature > 0 {
		temp := float32(req.Temperature)
		config.Temperature = &temp
	}

	if req.System != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: req.System}},
		}
	}

	contents := buildGeminiContents(req.Messages)

	iterFn := p.client.Models.GenerateContentStream(ctx, p.model, contents, config)
	return newGeminiStream(iterFn), nil
}

// buildGeminiTools converts the tool manifest into genai function
// declarations. Manifest order is preserved.
func buildGeminiTools(specs []ToolSpec) []*genai.Tool {
	if len(specs) == 0 {
		return nil
	}
	decls := make([]*genai.FunctionDeclaration, len(specs))
	for i, s := range specs {
		decls[i] = &genai.FunctionDeclaration{
			Name:                 s.Name,
			Description:          s.Description,
			ParametersJsonSchema: s.InputSchema,
		}
	}
	return []*genai.Tool{{FunctionDeclarations: decls}}
}

// geminiStream adapts the genai streaming iterator to ChatStream.
type geminiStream struct {
	pull    func() (*genai.GenerateContentResponse, error, bool)
	stop    func()
	pending []ChatEvent
	text    strings.Builder
	msg     ChatMessage
	done    bool
	err     error
}

var _ ChatStream = (*geminiStream)(nil)

func newGeminiStream(iterFn iter.Seq2[*genai.GenerateContentResponse, error]) *geminiStream {
	next, stop := iter.Pull2(iterFn)
	return &geminiStream{
		pull: next,
		stop: stop,
		msg:  ChatMessage{StopReason: "end"},
	}
}

func (s *geminiStream) Next() (ChatEvent, error) {
	for {
		if len(s.pending) > 0 {
			evt := s.pending[0]
			s.pending = s.pending[1:]
			return evt, nil
		}
		if s.err != nil {
			return nil, s.err
		}
		if s.done {
			return nil, io.EOF
		}

		chunk, err, ok := s.pull()
		if !ok {
			s.finish()
			return nil, io.EOF
		}
		if err != nil {
			s.err = mapGeminiError(err)
			s.msg.StopReason = "error"
			return nil, s.err
		}
		if err := s.ingest(chunk); err != nil {
			s.err = err
			s.msg.StopReason = "safety"
			return nil, s.err
		}
	}
}

// ingest converts one response chunk into pending events and folds its
// metadata into the assembled message.
func (s *geminiStream) ingest(chunk *genai.GenerateContentResponse) error {
	if err := checkGeminiBlocked(chunk); err != nil {
		return err
	}

	if chunk.UsageMetadata != nil {
		// Gemini reports cumulative usage; keep the latest snapshot.
		s.msg.Usage = mapGeminiUsage(chunk.UsageMetadata)
	}

	for _, cand := range chunk.Candidates {
		if cand.FinishReason != "" {
			s.msg.StopReason = normalizeGeminiFinish(cand.FinishReason)
		}
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			switch {
			case part.FunctionCall != nil:
				// Gemini rarely assigns call IDs; generate one so every
				// call is individually addressable downstream.
				id := part.FunctionCall.ID
				if id == "" {
					id = uuid.New().String()
				}
				call := ToolCall{
					ID:   id,
					Name: part.FunctionCall.Name,
					Args: marshalArgs(part.FunctionCall.Args),
				}
				s.msg.ToolCalls = append(s.msg.ToolCalls, call)
				s.pending = append(s.pending, ToolCallEvent{Call: call})
			case part.Text != "" && !part.Thought:
				s.text.WriteString(part.Text)
				s.pending = append(s.pending, TextDelta{Text: part.Text})
			}
		}
	}
	return nil
}

func (s *geminiStream) finish() {
	s.done = true
	s.msg.Text = s.text.String()
}

func (s *geminiStream) Message() ChatMessage {
	if !s.done {
		msg := s.msg
		msg.Text = s.text.String()
		return msg
	}
	return s.msg
}

func (s *geminiStream) Close() error {
	s.stop()
	if !s.done {
		s.finish()
	}
	return nil
}

// marshalArgs serializes function-call arguments. The SDK hands these
// over as an already-decoded map, so marshaling cannot fail for values
// it produced.
func marshalArgs(args map[string]any) json.RawMessage {
	if args == nil {
		return json.RawMessage(`{}`)
	}
	raw, err := json.Marshal(args)
	if err != nil {
		return json.RawMessage(`{}`)
	}
	return raw
}
