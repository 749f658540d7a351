package mylog

import (
	"context"
	"log/slog"
	"os"

	"pitchdrill/app/config"

	"github.com/phsym/console-slog"
	"github.com/samber/oops"
	slogmulti "github.com/samber/slog-multi"
	slogtelegram "github.com/samber/slog-telegram/v2"
)

func Preinit() {
	slog.SetDefault(slog.New(console.NewHandler(os.Stderr, &console.HandlerOptions{
		AddSource: true,
		Level:     slog.LevelDebug,
	})))
}

// TelegramAttr tags a record for the telegram sink regardless of its level.
const TelegramAttr = "telegram"

func Init(cfg *config.Config) error {
	level, err := parseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}

	router := slogmulti.Router()

	// stdout is reserved for the MCP transport
	router = router.Add(console.NewHandler(os.Stderr, &console.HandlerOptions{
		AddSource: true,
		Level:     level,
	}))

	if cfg.Log.Telegram.Token != "" {
		telegramLevel, err := parseLevel(cfg.Log.Telegram.Level)
		if err != nil {
			return err
		}

		router = router.Add(
			slogtelegram.Option{
				Level:     slog.LevelDebug,
				Token:     cfg.Log.Telegram.Token,
				Username:  cfg.Log.Telegram.ChatID,
				AddSource: true,
			}.NewTelegramHandler(),
			telegramFilter(telegramLevel),
		)
	}

	slog.SetDefault(slog.New(router.Handler()))

	return nil
}

func parseLevel(value string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(value)); err != nil {
		return level, oops.Errorf("invalid log level %q: %w", value, err)
	}

	return level, nil
}

// telegramFilter passes records at minLevel or above and records carrying TelegramAttr.
func telegramFilter(minLevel slog.Level) func(context.Context, slog.Record) bool {
	return func(_ context.Context, r slog.Record) bool {
		return r.Level >= minLevel || hasAttr(r, TelegramAttr)
	}
}

func hasAttr(r slog.Record, key string) bool {
	found := false

	r.Attrs(func(attr slog.Attr) bool {
		if attr.Key == key {
			found = true
			return false
		}

		return true
	})

	return found
}
