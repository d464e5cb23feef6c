// Package mylog wires the process-wide slog default: always the console,
// plus a Telegram sink for records operators should see immediately, such
// as failed record submissions.
package mylog

import (
	"context"
	"log/slog"
	"os"

	"medintake/app/config"

	"github.com/phsym/console-slog"
	slogmulti "github.com/samber/slog-multi"
	slogtelegram "github.com/samber/slog-telegram/v2"
)

// Preinit installs a console-only logger for the code that runs before
// config is loaded. Kept at info level so bootstrap stays quiet.
func Preinit() {
	slog.SetDefault(slog.New(console.NewHandler(os.Stderr, &console.HandlerOptions{
		AddSource: true,
		Level:     slog.LevelInfo,
	})))
}

func Init(cfg *config.Config) error {
	router := slogmulti.Router()

	router = router.Add(console.NewHandler(os.Stderr, &console.HandlerOptions{
		AddSource: true,
		Level:     slog.LevelDebug,
	}))

	if cfg.Log.Telegram.Token != "" {
		router = router.Add(
			slogtelegram.Option{
				Level:     slog.LevelDebug,
				Token:     cfg.Log.Telegram.Token,
				Username:  cfg.Log.Telegram.ChatID,
				AddSource: true,
			}.NewTelegramHandler(),

			telegramWorthy,
		)
	}

	slog.SetDefault(slog.New(router.Handler()))

	return nil
}

// telegramWorthy routes errors and records explicitly tagged with the
// "telegram" attr to the Telegram sink.
func telegramWorthy(_ context.Context, r slog.Record) bool {
	if r.Level >= slog.LevelError {
		return true
	}

	hasTelegram := false

	r.Attrs(func(attr slog.Attr) bool {
		if attr.Key == "telegram" {
			hasTelegram = true
			return false
		}

		return true
	})

	return hasTelegram
}
