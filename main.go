package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"pitchdrill/app/api/httpapi"
	"pitchdrill/app/api/mcpapi"
	"pitchdrill/app/config"
	"pitchdrill/app/service/conversation"
	"pitchdrill/app/service/corpus"
	"pitchdrill/app/service/engine"
	"pitchdrill/app/service/queue"
	"pitchdrill/app/service/transcript"
	"pitchdrill/app/util/mylog"

	"github.com/gofiber/fiber/v2/log"
	"github.com/samber/do"
	"golang.org/x/sync/errgroup"
)

func main() {
	di := do.New()
	defer di.Shutdown()
	defer log.Info("Waiting for services to finish...")

	mylog.Preinit()

	appCtx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	do.ProvideValue(di, appCtx)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	do.ProvideValue(di, cfg)

	if err = mylog.Init(cfg); err != nil {
		log.Fatalf("logging init failed: %v", err)
	}

	// an unusable corpus must stop the process before any session starts
	replies, err := corpus.Load(cfg.Corpus.Path)
	if err != nil {
		log.Fatalf("corpus load failed: %v", err)
	}
	do.ProvideValue(di, replies)

	do.Provide(di, queue.New)
	do.Provide(di, transcript.New)
	do.Provide(di, engine.New)
	do.Provide(di, conversation.New)
	do.Provide(di, httpapi.New)
	do.Provide(di, mcpapi.New)

	slog.Info("Service started",
		"pools", len(replies.Pools()),
		"http", !cfg.HTTP.Disabled,
		"mcp", cfg.MCP.Enabled,
	)

	group, ctx := errgroup.WithContext(appCtx)

	group.Go(func() error {
		do.MustInvoke[*transcript.Service](di).Run(ctx)
		return nil
	})
	group.Go(func() error {
		do.MustInvoke[*conversation.Service](di).Run(ctx)
		return nil
	})

	if !cfg.HTTP.Disabled {
		server := do.MustInvoke[*httpapi.Server](di)
		group.Go(func() error {
			return server.Run(ctx)
		})
	}

	if cfg.MCP.Enabled {
		server := do.MustInvoke[*mcpapi.Server](di)
		group.Go(func() error {
			err := server.Run(ctx)
			// stdin closed: the MCP client is gone
			cancel()
			return err
		})
	}

	if err = group.Wait(); err != nil {
		slog.Error("Service failed", "error", err)
	}

	log.Info("Shutting down...")
}
