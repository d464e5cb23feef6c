// Package transcribe pumps a call's audio through the streaming recognizer
// and feeds recognized phrases into the utterance queue.
package transcribe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"medintake/app/client/speechkit"
	"medintake/app/service/queue"

	"github.com/samber/do"
	"golang.org/x/sync/errgroup"
)

const bufferSize = 4096

type Service struct {
	speechClient *speechkit.YandexSpeechKit
	queue        *queue.Service
}

func New(di *do.Injector) (*Service, error) {
	return &Service{
		speechClient: do.MustInvoke[*speechkit.YandexSpeechKit](di),
		queue:        do.MustInvoke[*queue.Service](di),
	}, nil
}

// Start transcribes the call's audio until the reader or the context ends.
// The returned context is done when transcription stops, with the cause
// available via context.Cause.
func (s *Service) Start(ctx context.Context, callID, contactInfo string, audio io.Reader) (context.Context, context.CancelCauseFunc) {
	ctx, cancel := context.WithCancelCause(ctx)

	go func() {
		err := s.runWithRetry(ctx, callID, contactInfo, audio)
		if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, io.EOF) {
			slog.Error("Transcription failed", "call_id", callID, "error", err)
		}
		cancel(err)
	}()

	return ctx, cancel
}

// runWithRetry restarts the recognizer session when the service closes the
// stream mid-call; EOF from the audio source ends the call.
func (s *Service) runWithRetry(ctx context.Context, callID, contactInfo string, audio io.Reader) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			err := s.runSingle(ctx, callID, contactInfo, audio)
			if err == nil {
				return nil
			}

			if errors.Is(err, io.EOF) && !errors.Is(ctx.Err(), context.Canceled) {
				slog.Info("recognizer stream ended, restarting", "call_id", callID)
				continue
			}

			return fmt.Errorf("transcription error: %w", err)
		}
	}
}

func (s *Service) runSingle(ctx context.Context, callID, contactInfo string, audio io.Reader) error {
	handle, err := s.speechClient.Start(ctx)
	if err != nil {
		return fmt.Errorf("failed to start transcription: %w", err)
	}
	defer handle.Close()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return s.streamAudio(ctx, audio, handle)
	})

	g.Go(func() error {
		return s.receivePhrases(ctx, callID, contactInfo, handle)
	})

	return g.Wait()
}

func (s *Service) streamAudio(ctx context.Context, audio io.Reader, handle *speechkit.Handle) error {
	if err := handle.SendConfig(); err != nil {
		return fmt.Errorf("failed to send audio config: %w", err)
	}

	buffer := make([]byte, bufferSize)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			n, err := audio.Read(buffer)
			if err != nil {
				return fmt.Errorf("failed to read audio: %w", err)
			}

			if n == 0 {
				continue
			}

			if err = handle.Send(buffer[:n]); err != nil {
				return fmt.Errorf("failed to send audio: %w", err)
			}
		}
	}
}

func (s *Service) receivePhrases(ctx context.Context, callID, contactInfo string, handle *speechkit.Handle) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		phrases, err := handle.Recv()
		if err != nil {
			return fmt.Errorf("Recv: %w", err)
		}

		for _, text := range phrases {
			s.queue.Add(callID, contactInfo, text)
		}
	}
}
