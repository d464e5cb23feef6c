package engine

import (
	"context"
	"log/slog"
	"time"

	"medintake/app/service/intake"
	"medintake/app/service/queue"

	"github.com/samber/do"
)

// Service drains the utterance queue into the intake sessions. Replies are
// handed to the speaker callback; the default one only logs, the telephony
// adapter installs text-to-speech.
type Service struct {
	intakeSvc *intake.Service
	queueSvc  *queue.Service

	speak func(callID, text string)
}

func New(di *do.Injector) (*Service, error) {
	return &Service{
		intakeSvc: do.MustInvoke[*intake.Service](di),
		queueSvc:  do.MustInvoke[*queue.Service](di),
		speak: func(callID, text string) {
			slog.Info("Reply ready", "call_id", callID, "text", text)
		},
	}, nil
}

func (s *Service) SetSpeaker(speak func(callID, text string)) {
	s.speak = speak
}

func (s *Service) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case utt, ok := <-s.queueSvc.Channel():
			if !ok {
				return
			}

			start := time.Now()

			reply, err := s.intakeSvc.HandleTurn(ctx, utt.CallID, utt.ContactInfo, utt.Text)
			if err != nil {
				slog.Warn("HandleTurn error", "call_id", utt.CallID, "error", err)
				continue
			}

			s.speak(utt.CallID, reply)

			slog.Info("Processed turn",
				"call_id", utt.CallID,
				"text", utt.Text,
				"duration", time.Since(start))
		}
	}
}
