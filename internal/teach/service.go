package teach

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/abhisek/sahayak/internal/llm"
	"github.com/abhisek/sahayak/internal/tools"
)

// Service generates teaching content: concept explanations, stories,
// and visual aids. Each capability is also exposed as a tool definition
// for registry wiring.
type Service struct {
	provider llm.Provider
	images   llm.ImageProvider
	cfg      Config
}

// NewService creates a teaching content service. The image provider may
// be nil if visual aid generation is not wired; CreateVisualAid then
// returns an error instead of panicking.
func NewService(provider llm.Provider, images llm.ImageProvider, cfg Config) *Service {
	return &Service{provider: provider, images: images, cfg: cfg}
}

// ExplainConcept generates an explanation with an analogy.
func (s *Service) ExplainConcept(ctx context.Context, input ExplainInput) (*Explanation, error) {
	ctx = llm.WithPurpose(ctx, "explain-concept")

	req := llm.Request{
		System: explainSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildExplainUserMessage(input)},
		},
		Schema:      ExplanationSchema,
		MaxTokens:   s.cfg.ExplainMaxTokens,
		Temperature: s.cfg.Temperature,
	}

	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("explain concept: %w", err)
	}

	var out Explanation
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("parse explanation response: %w", err)
	}
	return &out, nil
}

// CreateStory generates a short educational story on a topic.
func (s *Service) CreateStory(ctx context.Context, input StoryInput) (*Story, error) {
	ctx = llm.WithPurpose(ctx, "create-story")

	req := llm.Request{
		System: storySystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildStoryUserMessage(input)},
		},
		Schema:      StorySchema,
		MaxTokens:   s.cfg.StoryMaxTokens,
		Temperature: s.cfg.Temperature,
	}

	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("create story: %w", err)
	}

	var out Story
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("parse story response: %w", err)
	}
	return &out, nil
}

// CreateVisualAid renders a blackboard-style instructional image and
// returns it as a data URI.
func (s *Service) CreateVisualAid(ctx context.Context, input VisualAidInput) (*VisualAid, error) {
	if s.images == nil {
		return nil, fmt.Errorf("create visual aid: no image provider configured")
	}

	ctx = llm.WithPurpose(ctx, "create-visual-aid")

	resp, err := s.images.GenerateImage(ctx, llm.ImageRequest{
		Description: buildVisualAidPrompt(input),
	})
	if err != nil {
		return nil, fmt.Errorf("create visual aid: %w", err)
	}

	return &VisualAid{VisualAid: resp.DataURI()}, nil
}

// ExplainConceptTool exposes ExplainConcept as a registry tool.
func (s *Service) ExplainConceptTool() tools.Definition {
	return tools.Definition{
		Name:         "explainConcept",
		Description:  "Explain a concept or answer a student's question in simple language with a relatable analogy. Use when the teacher asks what something is, how something works, or why something happens.",
		InputSchema:  explainInputSchema,
		OutputSchema: explainOutputSchema,
		Handler: func(ctx context.Context, raw json.RawMessage) (json.RawMessage, error) {
			var input ExplainInput
			if err := json.Unmarshal(raw, &input); err != nil {
				return nil, fmt.Errorf("decode explainConcept input: %w", err)
			}
			out, err := s.ExplainConcept(ctx, input)
			if err != nil {
				return nil, err
			}
			return json.Marshal(out)
		},
	}
}

// CreateStoryTool exposes CreateStory as a registry tool.
func (s *Service) CreateStoryTool() tools.Definition {
	return tools.Definition{
		Name:         "createStory",
		Description:  "Write a short, culturally relevant story that teaches a topic. Use when the teacher asks for a story, tale, or narrative about a subject.",
		InputSchema:  storyInputSchema,
		OutputSchema: storyOutputSchema,
		Handler: func(ctx context.Context, raw json.RawMessage) (json.RawMessage, error) {
			var input StoryInput
			if err := json.Unmarshal(raw, &input); err != nil {
				return nil, fmt.Errorf("decode createStory input: %w", err)
			}
			out, err := s.CreateStory(ctx, input)
			if err != nil {
				return nil, err
			}
			return json.Marshal(out)
		},
	}
}

// CreateVisualAidTool exposes CreateVisualAid as a registry tool.
func (s *Service) CreateVisualAidTool() tools.Definition {
	return tools.Definition{
		Name:         "createVisualAid",
		Description:  "Generate a simple line drawing or chart the teacher can copy onto a blackboard. Use when the teacher asks for a drawing, diagram, chart, or picture.",
		InputSchema:  visualAidInputSchema,
		OutputSchema: visualAidOutputSchema,
		Handler: func(ctx context.Context, raw json.RawMessage) (json.RawMessage, error) {
			var input VisualAidInput
			if err := json.Unmarshal(raw, &input); err != nil {
				return nil, fmt.Errorf("decode createVisualAid input: %w", err)
			}
			out, err := s.CreateVisualAid(ctx, input)
			if err != nil {
				return nil, err
			}
			return json.Marshal(out)
		},
	}
}
