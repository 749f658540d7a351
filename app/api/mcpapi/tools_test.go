package mcpapi

import (
	"context"
	"slices"
	"testing"

	"pitchdrill/app/service/corpus"
	"pitchdrill/app/service/engine"
	"pitchdrill/app/service/responder"

	"github.com/mark3labs/mcp-go/mcp"
)

func newTestServer(t *testing.T) (*Server, *corpus.Corpus) {
	t.Helper()

	c, err := corpus.Load("")
	if err != nil {
		t.Fatal(err)
	}

	return NewServer(engine.NewService(c, responder.NewSeededPicker(5)), c), c
}

func callRequest(name string, args map[string]any) mcp.CallToolRequest {
	var request mcp.CallToolRequest
	request.Params.Name = name
	request.Params.Arguments = args
	return request
}

func TestClassifyScenario(t *testing.T) {
	s, _ := newTestServer(t)

	result, err := s.handleClassifyScenario(context.Background(), callRequest("classify_scenario", map[string]any{
		"scenario": "Last-minute Deal Push",
	}))
	if err != nil {
		t.Fatal(err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error %+v", result)
	}

	got := result.StructuredContent.(ClassifyScenarioResult)
	if got.Category != "negotiation" {
		t.Errorf("category = %s", got.Category)
	}
}

func TestClassifyScenarioRequiresInput(t *testing.T) {
	s, _ := newTestServer(t)

	result, err := s.handleClassifyScenario(context.Background(), callRequest("classify_scenario", map[string]any{}))
	if err != nil {
		t.Fatal(err)
	}
	if !result.IsError {
		t.Error("expected tool error")
	}
}

func TestDetectIntent(t *testing.T) {
	s, _ := newTestServer(t)

	result, err := s.handleDetectIntent(context.Background(), callRequest("detect_intent", map[string]any{
		"text": "Can we get a discount?",
	}))
	if err != nil {
		t.Fatal(err)
	}

	got := result.StructuredContent.(DetectIntentResult)
	if !got.Flags.Discount || !slices.Contains(got.Intents, "question") {
		t.Errorf("unexpected result %+v", got)
	}
}

func TestNextReply(t *testing.T) {
	s, c := newTestServer(t)

	result, err := s.handleNextReply(context.Background(), callRequest("next_reply", map[string]any{
		"scenario": "Discovery Call",
		"history": []any{
			map[string]any{"speaker": "user", "text": "Hello"},
			map[string]any{"speaker": "counterpart", "text": "Hi"},
			map[string]any{"speaker": "user", "text": "Are you GDPR compliant?"},
		},
	}))
	if err != nil {
		t.Fatal(err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error %+v", result)
	}

	got := result.StructuredContent.(NextReplyResult)
	if got.Pool != string(corpus.PoolSecurityCompliance) || got.TurnCount != 2 {
		t.Errorf("unexpected result %+v", got)
	}
	if !slices.Contains(c.Responses(corpus.PoolSecurityCompliance), got.Reply) {
		t.Errorf("%q is not a security reply", got.Reply)
	}
}

func TestNextReplyRejectsBadSpeaker(t *testing.T) {
	s, _ := newTestServer(t)

	result, err := s.handleNextReply(context.Background(), callRequest("next_reply", map[string]any{
		"scenario": "Discovery Call",
		"history":  []any{map[string]any{"speaker": "narrator", "text": "Hello"}},
	}))
	if err != nil {
		t.Fatal(err)
	}
	if !result.IsError {
		t.Error("expected tool error")
	}
}

func TestListScenarios(t *testing.T) {
	s, c := newTestServer(t)

	result, err := s.handleListScenarios(context.Background(), callRequest("list_scenarios", nil))
	if err != nil {
		t.Fatal(err)
	}

	got := result.StructuredContent.(ListScenariosResult)
	if len(got.Scenarios) != len(c.Scenarios()) {
		t.Fatalf("got %d scenarios, want %d", len(got.Scenarios), len(c.Scenarios()))
	}

	last := got.Scenarios[len(got.Scenarios)-1]
	if last.ID != "aggressive-negotiation" || last.Category != "negotiation" || last.Difficulty != "aggressive" {
		t.Errorf("unexpected scenario %+v", last)
	}
}
