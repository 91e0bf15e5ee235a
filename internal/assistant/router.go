package assistant

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/sourcegraph/conc/pool"

	"github.com/abhisek/sahayak/internal/llm"
	"github.com/abhisek/sahayak/internal/roster"
	"github.com/abhisek/sahayak/internal/teach"
	"github.com/abhisek/sahayak/internal/tools"
)

// Config holds routing call settings.
type Config struct {
	MaxTokens   int
	Temperature float64

	// MaxConcurrentTools bounds parallel tool execution within a turn.
	// Values below 1 are treated as 1.
	MaxConcurrentTools int
}

// DefaultConfig returns sensible defaults for the routing call.
func DefaultConfig() Config {
	return Config{
		MaxTokens:          2048,
		Temperature:        0.7,
		MaxConcurrentTools: 4,
	}
}

// Router turns one free-text query into streamed conversational text
// plus zero-or-more validated tool invocations. The model decides which
// tools apply; the router faithfully relays that decision, executes the
// chosen tools, and aggregates the results.
type Router struct {
	chat     llm.ChatProvider
	registry *tools.Registry
	system   string
	cfg      Config
	logger   *slog.Logger
}

// NewRouter creates a router over an explicit tool registry. Most
// callers want NewAssistant or NewStudentManager instead.
func NewRouter(chat llm.ChatProvider, registry *tools.Registry, system string, cfg Config, logger *slog.Logger) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.MaxConcurrentTools < 1 {
		cfg.MaxConcurrentTools = 1
	}
	return &Router{
		chat:     chat,
		registry: registry,
		system:   system,
		cfg:      cfg,
		logger:   logger,
	}
}

// NewAssistant creates the general teaching assistant: explainConcept,
// createStory, and createVisualAid.
func NewAssistant(chat llm.ChatProvider, svc *teach.Service, cfg Config, logger *slog.Logger) (*Router, error) {
	registry := tools.NewRegistry()
	defs := []tools.Definition{
		svc.ExplainConceptTool(),
		svc.CreateStoryTool(),
		svc.CreateVisualAidTool(),
	}
	for _, def := range defs {
		if err := registry.Register(def); err != nil {
			return nil, fmt.Errorf("assistant registry: %w", err)
		}
	}
	return NewRouter(chat, registry, assistantInstructions, cfg, logger), nil
}

// NewStudentManager creates the student-management assistant: the
// teaching tools plus the roster tools.
func NewStudentManager(chat llm.ChatProvider, svc *teach.Service, cfg Config, logger *slog.Logger) (*Router, error) {
	registry := tools.NewRegistry()
	defs := []tools.Definition{
		svc.ExplainConceptTool(),
		svc.CreateStoryTool(),
		svc.CreateVisualAidTool(),
		roster.AddStudentTool(),
		roster.AddSubjectTool(),
		roster.RemoveStudentTool(),
	}
	for _, def := range defs {
		if err := registry.Register(def); err != nil {
			return nil, fmt.Errorf("student manager registry: %w", err)
		}
	}
	return NewRouter(chat, registry, studentManagerInstructions, cfg, logger), nil
}

// Registry exposes the router's tool registry, read-only by convention.
func (r *Router) Registry() *tools.Registry {
	return r.registry
}

// Ask starts one turn. The returned Turn streams conversational text
// through Text and resolves the aggregated result through Wait.
// Cancelling ctx abandons the turn.
func (r *Router) Ask(ctx context.Context, q Query) *Turn {
	turn := newTurn()
	go r.run(ctx, q, turn)
	return turn
}

func (r *Router) run(ctx context.Context, q Query, turn *Turn) {
	manifest := r.registry.Describe()
	specs := make([]llm.ToolSpec, len(manifest))
	for i, d := range manifest {
		specs[i] = llm.ToolSpec{
			Name:        d.Name,
			Description: d.Description,
			InputSchema: d.InputSchema,
		}
	}

	ctx = llm.WithPurpose(ctx, "tool-routing")

	stream, err := r.chat.StreamChat(ctx, llm.ChatRequest{
		System: r.system,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(q)},
		},
		Tools:       specs,
		MaxTokens:   r.cfg.MaxTokens,
		Temperature: r.cfg.Temperature,
	})
	if err != nil {
		turn.closeText()
		turn.finish(nil, fmt.Errorf("routing call: %w", err))
		return
	}
	defer stream.Close()

	if err := r.relay(ctx, stream, turn); err != nil {
		turn.finish(nil, err)
		return
	}

	msg := stream.Message()
	outcomes := r.invokeAll(ctx, msg.ToolCalls)
	turn.finish(r.aggregate(msg, outcomes), nil)
}

// relay forwards text deltas to the turn until the stream ends. Tool
// calls are collected by the stream itself and picked up afterwards
// from the assembled message.
func (r *Router) relay(ctx context.Context, stream llm.ChatStream, turn *Turn) error {
	defer turn.closeText()
	for {
		evt, err := stream.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("routing stream: %w", err)
		}
		if delta, ok := evt.(llm.TextDelta); ok {
			if !turn.emit(ctx, delta.Text) {
				return ctx.Err()
			}
		}
	}
}

// outcome is the settled result of one tool invocation.
type outcome struct {
	call   llm.ToolCall
	result *tools.Result
	err    error
}

// invokeAll executes the model's tool calls concurrently and waits for
// all of them. Settle-all: one failure never cancels the rest; each
// outcome is collected independently.
func (r *Router) invokeAll(ctx context.Context, calls []llm.ToolCall) []outcome {
	if len(calls) == 0 {
		return nil
	}

	outcomes := make([]outcome, len(calls))
	p := pool.New().WithMaxGoroutines(r.cfg.MaxConcurrentTools)
	for i, call := range calls {
		i, call := i, call
		p.Go(func() {
			result, err := r.registry.Invoke(ctx, call.Name, call.Args)
			outcomes[i] = outcome{call: call, result: result, err: err}
		})
	}
	p.Wait()
	return outcomes
}
