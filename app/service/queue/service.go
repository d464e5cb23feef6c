package queue

import (
	"log/slog"

	"github.com/samber/do"
)

const bufferSize = 64

var _ do.Shutdownable = (*Service)(nil)

// Service buffers transcribed utterances between the speech pumps and the
// intake engine.
type Service struct {
	queue chan Utterance
}

type Utterance struct {
	CallID      string
	ContactInfo string
	Text        string
}

func New(_ *do.Injector) (*Service, error) {
	return &Service{
		queue: make(chan Utterance, bufferSize),
	}, nil
}

func (s *Service) Add(callID, contactInfo, text string) {
	defer func() {
		if r := recover(); r != nil {

		}
	}()

	select {
	case s.queue <- Utterance{callID, contactInfo, text}:
	default:
		slog.Warn("utterance queue is full", "call_id", callID)
	}
}

func (s *Service) Channel() <-chan Utterance {
	return s.queue
}

func (s *Service) Shutdown() error {
	close(s.queue)

	return nil
}
