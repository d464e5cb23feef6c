package intake

import (
	"time"

	"medintake/app/service/schema"
	"medintake/app/service/validate"

	"github.com/elliotchance/pie/v2"
)

// Apply advances a conversation by one extracted turn and returns what to
// say next. Malformed or ambiguous input never yields an error, only a
// prompt; the state machine is the sole owner of the conversation.
func Apply(conv *Conversation, sig Signal, now time.Time) Outcome {
	switch conv.Phase {
	case PhaseNoIntent:
		return applyNoIntent(conv, sig, now)
	case PhaseCollecting:
		return applyCollecting(conv, sig, now)
	default:
		// ALL_CONFIRMED and SUBMITTED are terminal for the record; the
		// session starts a fresh conversation before feeding more turns.
		return Outcome{Kind: OutcomeCompleted}
	}
}

func applyNoIntent(conv *Conversation, sig Signal, now time.Time) Outcome {
	if sig.Intent == schema.IntentUndetermined {
		return Outcome{Kind: OutcomeAskIntent}
	}

	if schema.FieldsFor(sig.Intent) == nil {
		return Outcome{Kind: OutcomeAskIntent}
	}

	conv.Intent = sig.Intent
	conv.Phase = PhaseCollecting
	for _, f := range schema.FieldsFor(sig.Intent) {
		conv.Slots[f.Name] = &SlotState{}
	}
	conv.Pending = nextField(conv)

	// The intent turn may already carry a value for the first field.
	if sig.Value != "" {
		return applyCollecting(conv, sig, now)
	}

	return askPending(conv)
}

func applyCollecting(conv *Conversation, sig Signal, now time.Time) Outcome {
	if sig.IsCorrection && sig.Field != "" {
		if outcome, handled := applyCorrection(conv, sig, now); handled {
			return outcome
		}
	}

	if conv.AwaitingConfirm {
		return applyConfirmation(conv, sig)
	}

	// A named field may steer collection to another unconfirmed slot.
	if sig.Field != "" && sig.Field != conv.Pending {
		if slot, ok := conv.Slots[sig.Field]; ok && !slot.Confirmed && fieldEligible(conv, sig.Field) {
			conv.Pending = sig.Field
		}
	}

	if sig.Value == "" {
		return askPending(conv)
	}

	return applyCandidate(conv, sig.Value, now)
}

// applyCorrection reopens a confirmed field without touching any other
// slot. Returns handled=false when the named field is not a confirmed
// slot of the active schema.
func applyCorrection(conv *Conversation, sig Signal, now time.Time) (Outcome, bool) {
	slot, ok := conv.Slots[sig.Field]
	if !ok || !slot.Confirmed {
		return Outcome{}, false
	}

	slot.Value = ""
	slot.Confirmed = false
	conv.Pending = sig.Field
	conv.AwaitingConfirm = false

	if sig.Value != "" {
		return applyCandidate(conv, sig.Value, now), true
	}

	return askPending(conv), true
}

// applyCandidate validates a value for the pending field. Acceptance moves
// the field into the awaiting-confirmation sub-state; rejection re-prompts.
func applyCandidate(conv *Conversation, raw string, now time.Time) Outcome {
	spec, _ := schema.Lookup(conv.Intent, conv.Pending)

	result, rejection := validate.Check(raw, spec.Kind, now)
	if rejection != nil {
		return Outcome{Kind: OutcomeReprompt, Field: spec, Note: rejection.Reason}
	}

	slot := conv.Slots[conv.Pending]
	slot.Value = result.Normalized
	conv.AwaitingConfirm = true

	var note string
	if result.InferredYear {
		note = "I've added the current year to your date for clarity."
	}

	return Outcome{Kind: OutcomeConfirmField, Field: spec, Value: result.Normalized, Note: note}
}

// applyConfirmation resolves the outstanding yes/no. While it is pending no
// new candidate value is accepted; anything that is not a clear yes or no
// re-asks the confirmation.
func applyConfirmation(conv *Conversation, sig Signal) Outcome {
	spec, _ := schema.Lookup(conv.Intent, conv.Pending)
	slot := conv.Slots[conv.Pending]

	affirmed, ok := validate.IsAffirmation(sig.Value)
	if !ok {
		return Outcome{Kind: OutcomeConfirmField, Field: spec, Value: slot.Value}
	}

	conv.AwaitingConfirm = false

	if !affirmed {
		slot.Value = ""
		return Outcome{Kind: OutcomeAskField, Field: spec}
	}

	slot.Confirmed = true
	conv.Pending = nextField(conv)

	if conv.Pending == "" {
		conv.Phase = PhaseAllConfirmed
		return Outcome{Kind: OutcomeCompleted}
	}

	return askPending(conv)
}

func askPending(conv *Conversation) Outcome {
	spec, _ := schema.Lookup(conv.Intent, conv.Pending)
	return Outcome{Kind: OutcomeAskField, Field: spec}
}

// nextField returns the first unconfirmed eligible field in schema order,
// or empty when everything required is confirmed.
func nextField(conv *Conversation) string {
	fields := schema.FieldsFor(conv.Intent)

	idx := pie.FindFirstUsing(fields, func(f schema.FieldSpec) bool {
		return !conv.Slots[f.Name].Confirmed && fieldEligible(conv, f.Name)
	})
	if idx < 0 {
		return ""
	}

	return fields[idx].Name
}

// fieldEligible applies the RequiredIf conditional: a gated field is only
// collected once its gate is confirmed with the matching value.
func fieldEligible(conv *Conversation, name string) bool {
	spec, ok := schema.Lookup(conv.Intent, name)
	if !ok {
		return false
	}
	if spec.RequiredIf == nil {
		return true
	}

	gate := conv.Slots[spec.RequiredIf.Field]
	return gate != nil && gate.Confirmed && gate.Value == spec.RequiredIf.Equals
}
