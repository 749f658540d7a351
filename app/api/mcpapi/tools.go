package mcpapi

import (
	"context"

	"pitchdrill/app/service/engine"
	"pitchdrill/app/service/intent"
	"pitchdrill/app/service/scenario"

	"github.com/mark3labs/mcp-go/mcp"
)

type ClassifyScenarioInput struct {
	Scenario string `json:"scenario" validate:"required"`
}

type ClassifyScenarioResult struct {
	Category scenario.Category `json:"category"`
}

type DetectIntentInput struct {
	Text string `json:"text"`
}

type DetectIntentResult struct {
	Flags   intent.Flags `json:"flags"`
	Intents []string     `json:"intents"`
}

type NextReplyInput struct {
	Scenario string        `json:"scenario" validate:"required"`
	History  []engine.Turn `json:"history" validate:"required,min=1,dive"`
}

type NextReplyResult struct {
	Reply     string            `json:"reply"`
	Pool      string            `json:"pool"`
	Rule      string            `json:"rule"`
	Category  scenario.Category `json:"category"`
	TurnCount int               `json:"turn_count"`
	Intents   []string          `json:"intents"`
}

type ListScenariosInput struct{}

type ScenarioItem struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Type        string            `json:"type"`
	Description string            `json:"description"`
	Difficulty  string            `json:"difficulty"`
	Category    scenario.Category `json:"category"`
}

type ListScenariosResult struct {
	Scenarios []ScenarioItem `json:"scenarios"`
}

func classifyScenarioTool() mcp.Tool {
	return mcp.NewTool(
		"classify_scenario",
		mcp.WithDescription("Maps a free-text sales scenario description to its scenario category"),
		mcp.WithInputSchema[ClassifyScenarioInput](),
		mcp.WithOutputSchema[ClassifyScenarioResult](),
	)
}

func detectIntentTool() mcp.Tool {
	return mcp.NewTool(
		"detect_intent",
		mcp.WithDescription("Detects the intent flags of a trainee message"),
		mcp.WithInputSchema[DetectIntentInput](),
		mcp.WithOutputSchema[DetectIntentResult](),
	)
}

func nextReplyTool() mcp.Tool {
	return mcp.NewTool(
		"next_reply",
		mcp.WithDescription("Chooses the simulated customer's reply to the latest user turn of a role-play transcript"),
		mcp.WithInputSchema[NextReplyInput](),
		mcp.WithOutputSchema[NextReplyResult](),
	)
}

func listScenariosTool() mcp.Tool {
	return mcp.NewTool(
		"list_scenarios",
		mcp.WithDescription("Lists the ready-made practice scenarios; pass a scenario name to next_reply"),
		mcp.WithInputSchema[ListScenariosInput](),
		mcp.WithOutputSchema[ListScenariosResult](),
	)
}

func (s *Server) handleClassifyScenario(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input ClassifyScenarioInput
	if err := s.bind(request, &input); err != nil {
		return mcp.NewToolResultErrorFromErr("invalid classify_scenario arguments", err), nil
	}

	return mcp.NewToolResultStructuredOnly(ClassifyScenarioResult{
		Category: scenario.Classify(input.Scenario),
	}), nil
}

func (s *Server) handleDetectIntent(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input DetectIntentInput
	if err := s.bind(request, &input); err != nil {
		return mcp.NewToolResultErrorFromErr("invalid detect_intent arguments", err), nil
	}

	flags := intent.Detect(input.Text)

	return mcp.NewToolResultStructuredOnly(DetectIntentResult{
		Flags:   flags,
		Intents: flags.Names(),
	}), nil
}

func (s *Server) handleNextReply(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input NextReplyInput
	if err := s.bind(request, &input); err != nil {
		return mcp.NewToolResultErrorFromErr("invalid next_reply arguments", err), nil
	}

	reply, err := s.engineSvc.Reply(input.History, input.Scenario)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("reply selection failed", err), nil
	}

	return mcp.NewToolResultStructuredOnly(NextReplyResult{
		Reply:     reply.Decision.Text,
		Pool:      string(reply.Decision.Pool),
		Rule:      reply.Decision.Rule,
		Category:  reply.Category,
		TurnCount: reply.TurnCount,
		Intents:   reply.Flags.Names(),
	}), nil
}

func (s *Server) bind(request mcp.CallToolRequest, input any) error {
	if err := request.BindArguments(input); err != nil {
		return err
	}

	return s.validate.Struct(input)
}

func (s *Server) handleListScenarios(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	list := s.corpus.Scenarios()
	result := ListScenariosResult{Scenarios: make([]ScenarioItem, 0, len(list))}

	for _, item := range list {
		result.Scenarios = append(result.Scenarios, ScenarioItem{
			ID:          item.ID,
			Name:        item.Name,
			Type:        item.Type,
			Description: item.Description,
			Difficulty:  item.Difficulty,
			Category:    item.Category(),
		})
	}

	return mcp.NewToolResultStructuredOnly(result), nil
}
