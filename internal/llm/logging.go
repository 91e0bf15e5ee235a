package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/abhisek/sahayak/internal/store"
)

// LoggingProvider is a decorator that records every LLM request as an event.
type LoggingProvider struct {
	inner     Provider
	eventRepo store.EventRepo
}

// WithLogging wraps a Provider with event logging.
func WithLogging(p Provider, repo store.EventRepo) Provider {
	return &LoggingProvider{inner: p, eventRepo: repo}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	purpose := PurposeFrom(ctx)

	resp, err := l.inner.Generate(ctx, req)

	latencyMs := time.Since(start).Milliseconds()

	data := store.LLMRequestEventData{
		Provider:    l.inner.ModelID(),
		Model:       l.inner.ModelID(),
		Purpose:     purpose,
		LatencyMs:   latencyMs,
		Success:     err == nil,
		RequestBody: serializeRequest(req),
	}

	if resp != nil {
		data.InputTokens = resp.Usage.InputTokens
		data.OutputTokens = resp.Usage.OutputTokens
		data.Model = resp.Model
		data.ResponseBody = string(resp.Content)
	}

	if err != nil {
		data.ErrorMessage = err.Error()
	}

	appendEvent(ctx, l.eventRepo, data)

	return resp, err
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}

// LoggingChatProvider is a decorator that records every streaming
// routing call as an event once its stream settles.
type LoggingChatProvider struct {
	inner     ChatProvider
	eventRepo store.EventRepo
}

// WithChatLogging wraps a ChatProvider with event logging.
func WithChatLogging(p ChatProvider, repo store.EventRepo) ChatProvider {
	return &LoggingChatProvider{inner: p, eventRepo: repo}
}

func (l *LoggingChatProvider) StreamChat(ctx context.Context, req ChatRequest) (ChatStream, error) {
	start := time.Now()
	purpose := PurposeFrom(ctx)
	requestBody := serializeChatRequest(req)

	stream, err := l.inner.StreamChat(ctx, req)
	if err != nil {
		appendEvent(ctx, l.eventRepo, store.LLMRequestEventData{
			Provider:     l.inner.ModelID(),
			Model:        l.inner.ModelID(),
			Purpose:      purpose,
			LatencyMs:    time.Since(start).Milliseconds(),
			Success:      false,
			ErrorMessage: err.Error(),
			RequestBody:  requestBody,
		})
		return nil, err
	}

	return &loggedChatStream{
		ChatStream:  stream,
		ctx:         ctx,
		repo:        l.eventRepo,
		model:       l.inner.ModelID(),
		purpose:     purpose,
		requestBody: requestBody,
		start:       start,
	}, nil
}

func (l *LoggingChatProvider) ModelID() string {
	return l.inner.ModelID()
}

// loggedChatStream records one event when the stream settles: at EOF,
// on a terminal error, or on Close if the stream was abandoned early.
type loggedChatStream struct {
	ChatStream
	ctx         context.Context
	repo        store.EventRepo
	model       string
	purpose     string
	requestBody string
	start       time.Time
	once        sync.Once
}

func (s *loggedChatStream) Next() (ChatEvent, error) {
	evt, err := s.ChatStream.Next()
	if err != nil {
		if errors.Is(err, io.EOF) {
			s.record(nil)
		} else {
			s.record(err)
		}
	}
	return evt, err
}

func (s *loggedChatStream) Close() error {
	s.record(nil)
	return s.ChatStream.Close()
}

func (s *loggedChatStream) record(streamErr error) {
	s.once.Do(func() {
		msg := s.ChatStream.Message()
		data := store.LLMRequestEventData{
			Provider:     s.model,
			Model:        s.model,
			Purpose:      s.purpose,
			InputTokens:  msg.Usage.InputTokens,
			OutputTokens: msg.Usage.OutputTokens,
			LatencyMs:    time.Since(s.start).Milliseconds(),
			Success:      streamErr == nil,
			RequestBody:  s.requestBody,
			ResponseBody: serializeChatMessage(msg),
		}
		if streamErr != nil {
			data.ErrorMessage = streamErr.Error()
		}
		appendEvent(s.ctx, s.repo, data)
	})
}

// LoggingImageProvider is a decorator that records image generation
// requests as events.
type LoggingImageProvider struct {
	inner     ImageProvider
	eventRepo store.EventRepo
}

// WithImageLogging wraps an ImageProvider with event logging.
func WithImageLogging(p ImageProvider, repo store.EventRepo) ImageProvider {
	return &LoggingImageProvider{inner: p, eventRepo: repo}
}

func (l *LoggingImageProvider) GenerateImage(ctx context.Context, req ImageRequest) (*ImageResponse, error) {
	start := time.Now()

	resp, err := l.inner.GenerateImage(ctx, req)

	data := store.LLMRequestEventData{
		Provider:    l.inner.ImageModelID(),
		Model:       l.inner.ImageModelID(),
		Purpose:     PurposeFrom(ctx),
		LatencyMs:   time.Since(start).Milliseconds(),
		Success:     err == nil,
		RequestBody: req.Description,
	}
	if resp != nil {
		if resp.Model != "" {
			data.Model = resp.Model
		}
		// Image bytes stay out of the log; record shape only.
		data.ResponseBody = fmt.Sprintf("%s (%d bytes)", resp.MIMEType, len(resp.Data))
	}
	if err != nil {
		data.ErrorMessage = err.Error()
	}

	appendEvent(ctx, l.eventRepo, data)
	return resp, err
}

func (l *LoggingImageProvider) ImageModelID() string {
	return l.inner.ImageModelID()
}

// appendEvent logs the event but never fails the request over it.
func appendEvent(ctx context.Context, repo store.EventRepo, data store.LLMRequestEventData) {
	if err := repo.AppendLLMRequest(ctx, data); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to log LLM request event: %v\n", err)
	}
}

// serializeChatRequest builds a readable representation of a streaming
// routing request, including the offered tool manifest.
func serializeChatRequest(req ChatRequest) string {
	var b strings.Builder

	if req.System != "" {
		b.WriteString("[system]\n")
		b.WriteString(req.System)
		b.WriteString("\n\n")
	}

	for _, m := range req.Messages {
		b.WriteString(fmt.Sprintf("[%s]\n", m.Role))
		b.WriteString(m.Content)
		b.WriteString("\n\n")
	}

	if len(req.Tools) > 0 {
		names := make([]string, len(req.Tools))
		for i, t := range req.Tools {
			names[i] = t.Name
		}
		b.WriteString(fmt.Sprintf("[tools: %s]\n", strings.Join(names, ", ")))
	}

	return b.String()
}

// serializeChatMessage builds a readable representation of the
// assembled stream result.
func serializeChatMessage(msg ChatMessage) string {
	var b strings.Builder

	if msg.Text != "" {
		b.WriteString(msg.Text)
		b.WriteString("\n")
	}
	for _, call := range msg.ToolCalls {
		b.WriteString(fmt.Sprintf("[call %s]\n%s\n", call.Name, call.Args))
	}
	if msg.StopReason != "" {
		b.WriteString(fmt.Sprintf("[stop: %s]\n", msg.StopReason))
	}

	return b.String()
}

// serializeRequest builds a readable representation of the LLM request.
func serializeRequest(req Request) string {
	var b strings.Builder

	if req.System != "" {
		b.WriteString("[system]\n")
		b.WriteString(req.System)
		b.WriteString("\n\n")
	}

	for _, m := range req.Messages {
		b.WriteString(fmt.Sprintf("[%s]\n", m.Role))
		b.WriteString(m.Content)
		b.WriteString("\n\n")
	}

	if req.Schema != nil {
		schemaDef, err := json.Marshal(req.Schema.Definition)
		if err == nil {
			b.WriteString(fmt.Sprintf("[schema: %s]\n", req.Schema.Name))
			b.WriteString(string(schemaDef))
			b.WriteString("\n")
		}
	}

	return b.String()
}
