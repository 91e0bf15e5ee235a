package teach

import "github.com/abhisek/sahayak/internal/llm"

// ExplanationSchema defines the JSON schema for concept explanations.
var ExplanationSchema = &llm.Schema{
	Name:        "concept-explanation",
	Description: "A classroom-ready explanation of a concept with a relatable analogy",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"explanation": map[string]any{
				"type":        "string",
				"description": "Clear, simple explanation suitable for a multi-grade classroom (4-8 sentences)",
			},
			"analogy": map[string]any{
				"type":        "string",
				"description": "A relatable analogy drawn from everyday village or household life",
			},
		},
		"required":             []any{"explanation", "analogy"},
		"additionalProperties": false,
	},
}

// StorySchema defines the JSON schema for educational stories.
var StorySchema = &llm.Schema{
	Name:        "educational-story",
	Description: "A short culturally relevant story that teaches a topic",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"story": map[string]any{
				"type":        "string",
				"description": "The full story text, 200-400 words, with a clear moral or takeaway",
			},
		},
		"required":             []any{"story"},
		"additionalProperties": false,
	},
}

// Tool input schemas. These are the contracts the routing model must
// satisfy when invoking each teaching tool.

var explainInputSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"question": map[string]any{
			"type":        "string",
			"description": "The concept or question the teacher wants explained",
		},
		"language": map[string]any{
			"type":        "string",
			"description": "Language for the explanation, e.g. English, Hindi, Marathi",
		},
	},
	"required":             []any{"question", "language"},
	"additionalProperties": false,
}

var explainOutputSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"explanation": map[string]any{"type": "string"},
		"analogy":     map[string]any{"type": "string"},
	},
	"required":             []any{"explanation", "analogy"},
	"additionalProperties": false,
}

var storyInputSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"language": map[string]any{
			"type":        "string",
			"description": "Language the story should be written in",
		},
		"topic": map[string]any{
			"type":        "string",
			"description": "The topic or lesson the story should teach",
		},
	},
	"required":             []any{"language", "topic"},
	"additionalProperties": false,
}

var storyOutputSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"story": map[string]any{"type": "string"},
	},
	"required":             []any{"story"},
	"additionalProperties": false,
}

var visualAidInputSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"description": map[string]any{
			"type":        "string",
			"description": "What the drawing or chart should depict",
		},
	},
	"required":             []any{"description"},
	"additionalProperties": false,
}

var visualAidOutputSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"visualAid": map[string]any{
			"type":        "string",
			"description": "The generated image as a data URI",
		},
	},
	"required":             []any{"visualAid"},
	"additionalProperties": false,
}
