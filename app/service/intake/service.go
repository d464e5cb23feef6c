package intake

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"medintake/app/client/backend"
	"medintake/app/service/extractor"
	"medintake/app/service/journal"
	"medintake/app/service/schema"

	"github.com/google/uuid"
	"github.com/samber/do"
)

const channelVoiceCall = "voice_call"

// Submitter sends a finished record to the backend store.
type Submitter interface {
	Submit(ctx context.Context, intent schema.Intent, record map[string]string) error
}

// Extractor turns a raw utterance into a structured signal.
type Extractor interface {
	Extract(ctx context.Context, in extractor.Input) (*extractor.Signal, error)
}

// Acknowledgments spoken after submission, per intent. Said regardless of
// backend outcome: the caller's confirmation is decoupled from durability.
var ackMessages = map[schema.Intent]string{
	schema.IntentPrivatePay: "Thanks for calling! Please reply with the trip details listed above so we can prepare your quote and confirm availability.",
	schema.IntentInsurance:  "Thank you — we've received the transport request for you. We'll forward this to dispatch for review and follow up shortly.",
	schema.IntentDischarge:  "Got it! Our dispatch team will review this now and follow up shortly.",
}

// Service manages one Session per active call. Sessions share nothing but
// the read-only schema tables and the clients.
type Service struct {
	extractor Extractor
	submitter Submitter
	journal   *journal.Service
	now       func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

func New(di *do.Injector) (*Service, error) {
	return NewService(
		do.MustInvoke[*extractor.Service](di),
		do.MustInvoke[*backend.Client](di),
		do.MustInvoke[*journal.Service](di),
	), nil
}

func NewService(ext Extractor, sub Submitter, jrn *journal.Service) *Service {
	return &Service{
		extractor: ext,
		submitter: sub,
		journal:   jrn,
		now:       time.Now,
		sessions:  map[string]*Session{},
	}
}

// HandleTurn processes one transcribed utterance for a call and returns the
// assistant's reply. Turns for the same call are serialized; concurrent
// calls proceed independently.
func (s *Service) HandleTurn(ctx context.Context, callID, contactInfo, text string) (string, error) {
	session := s.session(callID, contactInfo)

	session.mu.Lock()
	defer session.mu.Unlock()

	// A finished record is terminal; a further turn opens a fresh request
	// on the same call.
	if session.conv.Phase == PhaseSubmitted {
		session.conv = NewConversation(uuid.NewString(), channelVoiceCall, session.contactInfo)
	}

	sig := s.extract(ctx, session.conv, text)
	outcome := Apply(session.conv, sig, s.now())

	if outcome.Kind == OutcomeCompleted && session.conv.Phase == PhaseAllConfirmed {
		return s.finish(ctx, session.conv), nil
	}

	return renderOutcome(outcome), nil
}

func (s *Service) session(callID, contactInfo string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.sessions[callID]; ok {
		return existing
	}

	session := &Session{
		callID:      callID,
		contactInfo: contactInfo,
		conv:        NewConversation(uuid.NewString(), channelVoiceCall, contactInfo),
	}
	s.sessions[callID] = session

	slog.Info("Conversation started",
		"call_id", callID,
		"conversation_id", session.conv.ID)

	return session
}

// EndCall drops the call's session. Confirmed but unsubmitted state is
// discarded with it.
func (s *Service) EndCall(callID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, callID)
}

func (s *Service) extract(ctx context.Context, conv *Conversation, text string) Signal {
	in := extractor.Input{
		Utterance:       text,
		Intent:          string(conv.Intent),
		PendingField:    conv.Pending,
		AwaitingConfirm: conv.AwaitingConfirm,
	}
	for _, f := range schema.FieldsFor(conv.Intent) {
		if !conv.Slots[f.Name].Confirmed {
			in.RemainingFields = append(in.RemainingFields, f.Name)
		}
	}

	sig, err := s.extractor.Extract(ctx, in)
	if err != nil {
		slog.Warn("Extraction failed, using raw utterance",
			"conversation_id", conv.ID,
			"error", err)
		return Signal{Value: text}
	}

	intent, _ := schema.ParseIntent(sig.Intent)

	return Signal{
		Intent:       intent,
		Field:        sig.Field,
		Value:        sig.Value,
		IsCorrection: sig.IsCorrection,
	}
}

// finish assembles and dispatches the record. The SUBMITTED transition
// happens before the submit call, so a re-delivered confirmation can never
// trigger a second attempt.
func (s *Service) finish(ctx context.Context, conv *Conversation) string {
	conv.Phase = PhaseSubmitted

	record := Assemble(conv, s.now())

	go s.submit(context.WithoutCancel(ctx), conv.ID, conv.Intent, record)

	return ackMessages[conv.Intent]
}

func (s *Service) submit(ctx context.Context, conversationID string, intent schema.Intent, record map[string]string) {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	err := s.submitter.Submit(ctx, intent, record)
	if err != nil {
		slog.Error("Record submission failed",
			"conversation_id", conversationID,
			"intent", intent,
			"error", err,
			"telegram", true)
	} else {
		slog.Info("Record submitted",
			"conversation_id", conversationID,
			"intent", intent)
	}

	entry := journal.Entry{
		ConversationID: conversationID,
		Intent:         intent,
		Record:         record,
		Submitted:      err == nil,
		Time:           s.now(),
	}
	if err != nil {
		entry.Error = err.Error()
	}

	if jerr := s.journal.Append(entry); jerr != nil {
		slog.Error("Failed to journal submission", "error", jerr)
	}
}

func renderOutcome(outcome Outcome) string {
	switch outcome.Kind {
	case OutcomeAskIntent:
		return "Are you calling about a private pay trip, an insurance case, or a facility discharge?"
	case OutcomeAskField:
		return outcome.Field.Prompt
	case OutcomeConfirmField:
		value := outcome.Value
		if outcome.Field.Kind == schema.KindYesNo {
			if value == "true" {
				value = "yes"
			} else {
				value = "no"
			}
		}
		confirm := fmt.Sprintf("The %s is %s, right?", outcome.Field.Label, value)
		if outcome.Note != "" {
			return outcome.Note + " " + confirm
		}
		return confirm
	case OutcomeReprompt:
		return fmt.Sprintf("Sorry, I didn't get a valid %s. %s", outcome.Field.Label, outcome.Field.Prompt)
	default:
		return "Is there anything else I can help you with?"
	}
}
