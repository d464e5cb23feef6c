package intake

import (
	"sync"

	"medintake/app/service/schema"
)

type Phase string

const (
	PhaseNoIntent     Phase = "NO_INTENT"
	PhaseCollecting   Phase = "COLLECTING"
	PhaseAllConfirmed Phase = "ALL_CONFIRMED"
	PhaseSubmitted    Phase = "SUBMITTED"
)

// Signal is one user turn after extraction: an intent hint, a field/value
// candidate, and whether the user is revising an already confirmed field.
// Any of the parts may be absent.
type Signal struct {
	Intent       schema.Intent `json:"intent"`
	Field        string        `json:"field"`
	Value        string        `json:"value"`
	IsCorrection bool          `json:"is_correction"`
}

// SlotState tracks one field of the active schema. Value is cleared on a
// denied confirmation or a correction; Confirmed freezes it.
type SlotState struct {
	Value     string
	Confirmed bool
}

// Conversation is the per-call intake state. At most one field is being
// collected at a time: Pending names it, and AwaitingConfirm is set while
// the restated value waits for the caller's yes or no.
type Conversation struct {
	ID          string
	ContactInfo string
	Channel     string

	Phase           Phase
	Intent          schema.Intent
	Slots           map[string]*SlotState
	Pending         string
	AwaitingConfirm bool
}

func NewConversation(id, channel, contactInfo string) *Conversation {
	return &Conversation{
		ID:          id,
		Channel:     channel,
		ContactInfo: contactInfo,
		Phase:       PhaseNoIntent,
		Slots:       map[string]*SlotState{},
	}
}

type OutcomeKind int

const (
	// OutcomeAskIntent asks the disambiguating question.
	OutcomeAskIntent OutcomeKind = iota
	// OutcomeAskField prompts for the pending field.
	OutcomeAskField
	// OutcomeConfirmField restates the candidate value and asks for a yes/no.
	OutcomeConfirmField
	// OutcomeReprompt re-asks the pending field after a rejected value.
	OutcomeReprompt
	// OutcomeCompleted means every required field is confirmed.
	OutcomeCompleted
)

// Outcome is what the controller wants said to the caller next.
type Outcome struct {
	Kind  OutcomeKind
	Field schema.FieldSpec
	// Value is the normalized candidate on a confirmation outcome.
	Value string
	// Note carries an extra sentence, e.g. the inferred-year remark or the
	// rejection reason.
	Note string
}

// Session serializes turns for one call and owns its conversation state.
type Session struct {
	mu sync.Mutex

	callID      string
	contactInfo string
	conv        *Conversation
}
