package server

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/gofiber/fiber/v2"
)

type turnRequest struct {
	ContactInfo string `json:"contact_info"`
	Text        string `json:"text"`
}

type turnResponse struct {
	Reply string `json:"reply"`
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// handleTurn processes one transcribed utterance synchronously and returns
// the assistant's reply for the adapter to speak.
func (s *Server) handleTurn(c *fiber.Ctx) error {
	var req turnRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}

	if req.Text == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "text is required"})
	}

	reply, err := s.intakeSvc.HandleTurn(c.Context(), c.Params("id"), req.ContactInfo, req.Text)
	if err != nil {
		slog.Error("Failed to handle turn", "call_id", c.Params("id"), "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to handle turn"})
	}

	return c.JSON(turnResponse{Reply: reply})
}

// handleAudio consumes a streamed call audio body (8kHz mono PCM) and
// blocks until the stream or the call ends. Recognized phrases flow
// through the queue into the intake engine.
func (s *Server) handleAudio(c *fiber.Ctx) error {
	callID := c.Params("id")
	contactInfo := c.Query("contact_info")

	body := c.Context().RequestBodyStream()
	if body == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "streamed body required"})
	}

	ctx, cancel := s.transcribeSvc.Start(c.Context(), callID, contactInfo, body)
	defer cancel(nil)

	<-ctx.Done()

	if err := context.Cause(ctx); err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, io.EOF) {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"status": "done"})
}

func (s *Server) handleEndCall(c *fiber.Ctx) error {
	s.intakeSvc.EndCall(c.Params("id"))

	return c.SendStatus(fiber.StatusNoContent)
}
