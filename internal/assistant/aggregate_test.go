package assistant

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/abhisek/sahayak/internal/llm"
	"github.com/abhisek/sahayak/internal/tools"
)

func testRouter() *Router {
	return NewRouter(nil, tools.NewRegistry(), "", DefaultConfig(), discardLogger())
}

func TestAggregate_EmptyTurn(t *testing.T) {
	r := testRouter()

	resp := r.aggregate(llm.ChatMessage{Text: "Just a chat."}, nil)
	if resp.ConversationalText != "Just a chat." {
		t.Errorf("expected text preserved, got %q", resp.ConversationalText)
	}
	if len(resp.Payloads) != 0 {
		t.Errorf("expected no payloads, got %v", resp.Payloads)
	}
}

func TestAggregate_MapsToolNamesToKeys(t *testing.T) {
	r := testRouter()

	outcomes := []outcome{
		{
			call:   llm.ToolCall{Name: "explainConcept"},
			result: &tools.Result{Tool: "explainConcept", Output: json.RawMessage(`{"explanation":"e","analogy":"a"}`)},
		},
		{
			call:   llm.ToolCall{Name: "createStory"},
			result: &tools.Result{Tool: "createStory", Output: json.RawMessage(`{"story":"s"}`)},
		},
		{
			call:   llm.ToolCall{Name: "createVisualAid"},
			result: &tools.Result{Tool: "createVisualAid", Output: json.RawMessage(`{"visualAid":"data:image/png;base64,AA=="}`)},
		},
	}

	resp := r.aggregate(llm.ChatMessage{Text: "all three"}, outcomes)
	if len(resp.Payloads) != 3 {
		t.Fatalf("expected 3 payloads, got %d", len(resp.Payloads))
	}
	if _, ok := resp.Payloads[KeyExplanation].(ExplanationPayload); !ok {
		t.Error("expected explanation payload")
	}
	if _, ok := resp.Payloads[KeyStory].(StoryPayload); !ok {
		t.Error("expected story payload")
	}
	if _, ok := resp.Payloads[KeyVisualAid].(VisualAidPayload); !ok {
		t.Error("expected visual aid payload")
	}
}

func TestAggregate_FailedToolDegrades(t *testing.T) {
	r := testRouter()

	outcomes := []outcome{
		{
			call: llm.ToolCall{Name: "createStory"},
			err:  fmt.Errorf("upstream: %w", &llm.ErrProviderUnavailable{}),
		},
	}

	resp := r.aggregate(llm.ChatMessage{Text: "Let me write that."}, outcomes)
	if resp.Used(KeyStory) {
		t.Error("expected story key absent after failure")
	}
	if !strings.Contains(resp.ConversationalText, "Let me write that.") {
		t.Errorf("expected model text preserved, got %q", resp.ConversationalText)
	}
	if !strings.Contains(resp.ConversationalText, "temporarily unavailable") {
		t.Errorf("expected degradation note, got %q", resp.ConversationalText)
	}
}

func TestAggregate_ContractViolationDropped(t *testing.T) {
	r := testRouter()

	outcomes := []outcome{
		{
			call: llm.ToolCall{Name: "explainConcept"},
			err: &tools.ContractViolationError{
				Tool:   "explainConcept",
				Output: json.RawMessage(`{"bogus":true}`),
				Err:    fmt.Errorf("missing required fields"),
			},
		},
	}

	resp := r.aggregate(llm.ChatMessage{Text: "Sure."}, outcomes)
	if resp.Used(KeyExplanation) {
		t.Error("expected malformed result dropped, not coerced")
	}
	if !strings.Contains(resp.ConversationalText, "temporarily unavailable") {
		t.Errorf("expected degradation note, got %q", resp.ConversationalText)
	}
}

func TestAggregate_DuplicateNotesCollapsed(t *testing.T) {
	r := testRouter()

	outcomes := []outcome{
		{call: llm.ToolCall{Name: "addStudent"}, err: fmt.Errorf("boom")},
		{call: llm.ToolCall{Name: "removeStudent"}, err: fmt.Errorf("boom")},
	}

	resp := r.aggregate(llm.ChatMessage{}, outcomes)
	if got := strings.Count(resp.ConversationalText, "temporarily unavailable"); got != 1 {
		t.Errorf("expected one collapsed note, got %d in %q", got, resp.ConversationalText)
	}
}

func TestAggregate_RosterTextAbsorbedOnlyWhenModelSilent(t *testing.T) {
	r := testRouter()

	confirmation := json.RawMessage(`{"confirmationText":"Added Priya Singh to grade 4.","intent":{"kind":"add_student","name":"Priya Singh","grade":"4"}}`)
	outcomes := []outcome{
		{
			call:   llm.ToolCall{Name: "addStudent"},
			result: &tools.Result{Tool: "addStudent", Output: confirmation},
		},
	}

	// Model spoke: keep its text, don't duplicate the confirmation.
	resp := r.aggregate(llm.ChatMessage{Text: "Done, I have added her."}, outcomes)
	if resp.ConversationalText != "Done, I have added her." {
		t.Errorf("expected model text untouched, got %q", resp.ConversationalText)
	}
	if len(resp.Intents) != 1 {
		t.Fatalf("expected 1 intent, got %d", len(resp.Intents))
	}

	// Model silent: the confirmation stands in.
	resp = r.aggregate(llm.ChatMessage{}, outcomes)
	if !strings.Contains(resp.ConversationalText, "Priya Singh") {
		t.Errorf("expected confirmation absorbed, got %q", resp.ConversationalText)
	}
}

func TestAggregate_UsageCarried(t *testing.T) {
	r := testRouter()

	resp := r.aggregate(llm.ChatMessage{Text: "hi", Usage: llm.Usage{TotalTokens: 99}}, nil)
	if resp.Usage.TotalTokens != 99 {
		t.Errorf("expected usage carried, got %+v", resp.Usage)
	}
}
