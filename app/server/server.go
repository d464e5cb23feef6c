// Package server exposes the HTTP surface the telephony adapter talks to:
// transcribed turns, raw call audio, and call teardown.
package server

import (
	"context"
	"log/slog"

	"medintake/app/config"
	"medintake/app/service/intake"
	"medintake/app/service/transcribe"

	"github.com/gofiber/fiber/v2"
	"github.com/samber/do"
)

type Server struct {
	cfg           *config.Config
	intakeSvc     *intake.Service
	transcribeSvc *transcribe.Service

	app *fiber.App
}

func New(di *do.Injector) (*Server, error) {
	s := &Server{
		cfg:           do.MustInvoke[*config.Config](di),
		intakeSvc:     do.MustInvoke[*intake.Service](di),
		transcribeSvc: do.MustInvoke[*transcribe.Service](di),
	}

	s.app = fiber.New(fiber.Config{
		DisableStartupMessage: true,
		StreamRequestBody:     true,
	})
	s.registerRoutes(s.app)

	return s, nil
}

func (s *Server) registerRoutes(app *fiber.App) {
	app.Get("/health", s.handleHealth)

	v1 := app.Group("/v1")
	v1.Post("/calls/:id/turns", s.handleTurn)
	v1.Post("/calls/:id/audio", s.handleAudio)
	v1.Delete("/calls/:id", s.handleEndCall)
}

func (s *Server) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()

		if err := s.app.Shutdown(); err != nil {
			slog.Error("Server shutdown failed", "error", err)
		}
	}()

	slog.Info("HTTP server listening", "addr", s.cfg.Server.Addr)

	return s.app.Listen(s.cfg.Server.Addr)
}
