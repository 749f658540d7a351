package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"pitchdrill/app/config"
	"pitchdrill/app/service/conversation"
	"pitchdrill/app/service/corpus"
	"pitchdrill/app/service/transcript"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/samber/do"
)

const shutdownTimeout = 10 * time.Second

type Server struct {
	cfg             *config.Config
	corpus          *corpus.Corpus
	conversationSvc *conversation.Service
	transcriptSvc   *transcript.Service

	app      *fiber.App
	validate *validator.Validate
}

func New(di *do.Injector) (*Server, error) {
	return NewServer(
		do.MustInvoke[*config.Config](di),
		do.MustInvoke[*corpus.Corpus](di),
		do.MustInvoke[*conversation.Service](di),
		do.MustInvoke[*transcript.Service](di),
	), nil
}

func NewServer(
	cfg *config.Config,
	c *corpus.Corpus,
	conversationSvc *conversation.Service,
	transcriptSvc *transcript.Service,
) *Server {
	s := &Server{
		cfg:             cfg,
		corpus:          c,
		conversationSvc: conversationSvc,
		transcriptSvc:   transcriptSvc,
		validate:        validator.New(validator.WithRequiredStructEnabled()),
	}

	s.app = fiber.New(fiber.Config{
		AppName:               "pitchdrill",
		BodyLimit:             cfg.HTTP.BodyLimit,
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})

	s.app.Use(recover.New())
	s.app.Use(logRequests)
	s.routes()

	return s
}

func (s *Server) routes() {
	api := s.app.Group("/api")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api.Post("/classify", s.handleClassify)
	api.Post("/intents", s.handleIntents)

	api.Get("/scenarios", s.handleScenarios)

	api.Get("/sessions", s.handleRecentSessions)
	api.Post("/sessions", s.handleStartSession)
	api.Get("/sessions/:id", s.handleGetSession)
	api.Delete("/sessions/:id", s.handleEndSession)
	api.Post("/sessions/:id/messages", s.handleSendMessage)
	api.Get("/sessions/:id/transcript", s.handleTranscript)
}

// Run serves HTTP until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		slog.Info("HTTP server listening", "addr", s.cfg.HTTP.Addr)
		errCh <- s.app.Listen(s.cfg.HTTP.Addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.app.ShutdownWithContext(shutdownCtx); err != nil {
		return err
	}

	return <-errCh
}

func logRequests(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()

	slog.Debug("HTTP request",
		"method", c.Method(),
		"path", c.Path(),
		"status", c.Response().StatusCode(),
		"duration", time.Since(start),
	)

	return err
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var fiberErr *fiber.Error
	switch {
	case errors.As(err, &fiberErr):
		code = fiberErr.Code
	case errors.Is(err, conversation.ErrSessionNotFound), errors.Is(err, transcript.ErrNotFound):
		code = fiber.StatusNotFound
	case errors.Is(err, conversation.ErrSessionFull):
		code = fiber.StatusConflict
	}

	if code == fiber.StatusInternalServerError {
		slog.Error("HTTP handler failed",
			"path", c.Path(),
			"error", err,
		)
		return c.Status(code).JSON(fiber.Map{"error": "internal error"})
	}

	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}
