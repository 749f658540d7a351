package httpapi

import (
	"pitchdrill/app/service/corpus"
	"pitchdrill/app/service/intent"
	"pitchdrill/app/service/scenario"
	"pitchdrill/app/service/transcript"

	"github.com/gofiber/fiber/v2"
)

const (
	defaultRecentLimit = 10
	maxRecentLimit     = 100
)

type scenarioRequest struct {
	Scenario string `json:"scenario" validate:"required,max=500"`
}

type startRequest struct {
	Scenario   string `json:"scenario" validate:"required_without=ScenarioID,max=500"`
	ScenarioID string `json:"scenario_id" validate:"omitempty,max=64"`
}

type scenarioResponse struct {
	corpus.Scenario
	Category scenario.Category `json:"category"`
}

type messageRequest struct {
	Text string `json:"text" validate:"max=4000"`
}

type intentsRequest struct {
	Text string `json:"text" validate:"max=4000"`
}

type transcriptResponse struct {
	Session *transcript.Session `json:"session"`
	Turns   []transcript.Turn   `json:"turns"`
	Text    string              `json:"text"`
}

func (s *Server) bind(c *fiber.Ctx, req any) error {
	if err := c.BodyParser(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := s.validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	return nil
}

func (s *Server) handleClassify(c *fiber.Ctx) error {
	var req scenarioRequest
	if err := s.bind(c, &req); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"category": scenario.Classify(req.Scenario)})
}

func (s *Server) handleIntents(c *fiber.Ctx) error {
	var req intentsRequest
	if err := s.bind(c, &req); err != nil {
		return err
	}

	flags := intent.Detect(req.Text)

	return c.JSON(fiber.Map{
		"flags":   flags,
		"intents": flags.Names(),
	})
}

func (s *Server) handleScenarios(c *fiber.Ctx) error {
	list := s.corpus.Scenarios()
	result := make([]scenarioResponse, 0, len(list))

	for _, item := range list {
		result = append(result, scenarioResponse{
			Scenario: item,
			Category: item.Category(),
		})
	}

	return c.JSON(result)
}

func (s *Server) handleRecentSessions(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", defaultRecentLimit)
	if limit < 1 || limit > maxRecentLimit {
		return fiber.NewError(fiber.StatusBadRequest, "limit must be between 1 and 100")
	}

	sessions, err := s.transcriptSvc.RecentSessions(c.UserContext(), limit)
	if err != nil {
		return err
	}

	return c.JSON(sessions)
}

func (s *Server) handleStartSession(c *fiber.Ctx) error {
	var req startRequest
	if err := s.bind(c, &req); err != nil {
		return err
	}

	descriptor := req.Scenario
	if req.ScenarioID != "" {
		item, ok := s.corpus.Scenario(req.ScenarioID)
		if !ok {
			return fiber.NewError(fiber.StatusNotFound, "unknown scenario id")
		}
		descriptor = item.Name
	}

	session, err := s.conversationSvc.Start(descriptor)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(session)
}

func (s *Server) handleGetSession(c *fiber.Ctx) error {
	session, err := s.conversationSvc.Get(c.Params("id"))
	if err != nil {
		return err
	}

	return c.JSON(session)
}

func (s *Server) handleEndSession(c *fiber.Ctx) error {
	session, err := s.conversationSvc.End(c.Params("id"))
	if err != nil {
		return err
	}

	return c.JSON(session)
}

func (s *Server) handleSendMessage(c *fiber.Ctx) error {
	var req messageRequest
	if err := s.bind(c, &req); err != nil {
		return err
	}

	exchange, err := s.conversationSvc.Send(c.UserContext(), c.Params("id"), req.Text)
	if err != nil {
		return err
	}

	return c.JSON(exchange)
}

func (s *Server) handleTranscript(c *fiber.Ctx) error {
	ctx := c.UserContext()
	id := c.Params("id")

	session, err := s.transcriptSvc.Session(ctx, id)
	if err != nil {
		return err
	}

	turns, err := s.transcriptSvc.Turns(ctx, id)
	if err != nil {
		return err
	}

	return c.JSON(transcriptResponse{
		Session: session,
		Turns:   turns,
		Text:    transcript.Format(turns),
	})
}
