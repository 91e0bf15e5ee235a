package assistant

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/abhisek/sahayak/internal/llm"
	"github.com/abhisek/sahayak/internal/roster"
	"github.com/abhisek/sahayak/internal/teach"
	"github.com/abhisek/sahayak/internal/tools"
)

// payloadKeys is the fixed tool-name to semantic-key table. The roster
// tools are intentionally absent: their output is textual and folds
// into the conversational reply.
var payloadKeys = map[string]Key{
	"explainConcept":  KeyExplanation,
	"createStory":     KeyStory,
	"createVisualAid": KeyVisualAid,
}

// unavailableNotes names each tool's user-facing feature for the
// degradation note appended when its invocation fails.
var unavailableNotes = map[string]string{
	"explainConcept":      "the explanation feature",
	"createStory":         "the story feature",
	"createVisualAid":     "the visual aid feature",
	"addStudent":          "student management",
	"addSubjectToStudent": "student management",
	"removeStudent":       "student management",
}

// aggregate merges the assembled model message and the settled tool
// outcomes into one Response. A failed tool degrades to a note in the
// conversational text; it never fails the turn, since the other tools
// and the plain text may still be valid.
func (r *Router) aggregate(msg llm.ChatMessage, outcomes []outcome) *Response {
	resp := &Response{
		ConversationalText: msg.Text,
		Payloads:           make(map[Key]Payload),
		Usage:              msg.Usage,
	}

	var notes []string
	var absorbed []string
	noted := make(map[string]bool)
	addNote := func(toolName string) {
		note := unavailableNote(toolName)
		if !noted[note] {
			noted[note] = true
			notes = append(notes, note)
		}
	}

	for _, o := range outcomes {
		if o.err != nil {
			r.logOutcomeError(o)
			addNote(o.call.Name)
			continue
		}

		switch o.call.Name {
		case "addStudent", "addSubjectToStudent", "removeStudent":
			var conf roster.Confirmation
			if err := json.Unmarshal(o.result.Output, &conf); err != nil {
				r.logger.Error("decode roster confirmation", "tool", o.call.Name, "error", err)
				addNote(o.call.Name)
				continue
			}
			resp.Intents = append(resp.Intents, conf.Intent)
			absorbed = append(absorbed, conf.ConfirmationText)
		default:
			key, ok := payloadKeys[o.call.Name]
			if !ok {
				// A registered tool with no mapping is a wiring defect.
				r.logger.Error("tool has no semantic key", "tool", o.call.Name)
				continue
			}
			payload, err := decodePayload(key, o.result.Output)
			if err != nil {
				r.logger.Error("decode tool payload", "tool", o.call.Name, "error", err)
				addNote(o.call.Name)
				continue
			}
			resp.Payloads[key] = payload
		}
	}

	// Roster confirmations stand in for conversational text when the
	// model produced none.
	if resp.ConversationalText == "" && len(absorbed) > 0 {
		resp.ConversationalText = strings.Join(absorbed, " ")
	}

	for _, note := range notes {
		if resp.ConversationalText != "" {
			resp.ConversationalText += "\n\n"
		}
		resp.ConversationalText += note
	}

	return resp
}

func decodePayload(key Key, output json.RawMessage) (Payload, error) {
	switch key {
	case KeyExplanation:
		var out teach.Explanation
		if err := json.Unmarshal(output, &out); err != nil {
			return nil, err
		}
		return ExplanationPayload{Explanation: out.Explanation, Analogy: out.Analogy}, nil
	case KeyStory:
		var out teach.Story
		if err := json.Unmarshal(output, &out); err != nil {
			return nil, err
		}
		return StoryPayload{Story: out.Story}, nil
	case KeyVisualAid:
		var out teach.VisualAid
		if err := json.Unmarshal(output, &out); err != nil {
			return nil, err
		}
		return VisualAidPayload{DataURI: out.VisualAid}, nil
	default:
		return nil, fmt.Errorf("no payload shape for key %q", key)
	}
}

func unavailableNote(toolName string) string {
	feature, ok := unavailableNotes[toolName]
	if !ok {
		feature = "this feature"
	}
	return fmt.Sprintf("~%s is temporarily unavailable~", feature)
}

// logOutcomeError distinguishes internal defects from model mistakes.
func (r *Router) logOutcomeError(o outcome) {
	var contract *tools.ContractViolationError
	if errors.As(o.err, &contract) {
		r.logger.Error("tool output violates contract", "tool", o.call.Name, "error", o.err)
		return
	}
	var schema *tools.SchemaValidationError
	if errors.As(o.err, &schema) {
		r.logger.Warn("tool invocation rejected", "tool", o.call.Name, "fields", schema.Fields, "error", o.err)
		return
	}
	r.logger.Warn("tool invocation failed", "tool", o.call.Name, "error", o.err)
}
