package mylog

import (
	"context"
	"log/slog"
	"testing"
	"time"
)

func TestTelegramFilter(t *testing.T) {
	tests := []struct {
		name     string
		minLevel slog.Level
		level    slog.Level
		attrs    []slog.Attr
		want     bool
	}{
		{"error passes", slog.LevelError, slog.LevelError, nil, true},
		{"warn dropped", slog.LevelError, slog.LevelWarn, nil, false},
		{"warn passes at warn", slog.LevelWarn, slog.LevelWarn, nil, true},
		{"tagged info passes", slog.LevelError, slog.LevelInfo, []slog.Attr{slog.Bool(TelegramAttr, true)}, true},
		{"other attr dropped", slog.LevelError, slog.LevelInfo, []slog.Attr{slog.String("session_id", "x")}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := slog.NewRecord(time.Now(), tt.level, "message", 0)
			r.AddAttrs(tt.attrs...)

			if got := telegramFilter(tt.minLevel)(context.Background(), r); got != tt.want {
				t.Errorf("telegramFilter(%s) on %s = %v, want %v", tt.minLevel, tt.level, got, tt.want)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	if level, err := parseLevel("warn"); err != nil || level != slog.LevelWarn {
		t.Errorf("parseLevel(warn) = %v, %v", level, err)
	}
	if _, err := parseLevel("loud"); err == nil {
		t.Error("expected error")
	}
}
