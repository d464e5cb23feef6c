// Package schema holds the fixed intake tables: the three request intents
// and the ordered fields each one collects. The tables match the backend's
// record shape and are never mutated at runtime.
package schema

import (
	"github.com/elliotchance/pie/v2"
)

type Intent string

const (
	IntentUndetermined Intent = ""
	IntentPrivatePay   Intent = "PRIVATE_PAY"
	IntentInsurance    Intent = "INSURANCE_CASE_MANAGERS"
	IntentDischarge    Intent = "DISCHARGE"
)

func ParseIntent(s string) (Intent, bool) {
	switch Intent(s) {
	case IntentPrivatePay, IntentInsurance, IntentDischarge:
		return Intent(s), true
	}
	return IntentUndetermined, false
}

type Kind string

const (
	KindDate     Kind = "DATE"
	KindNumeric  Kind = "NUMERIC"
	KindYesNo    Kind = "YES_NO"
	KindFreeText Kind = "FREE_TEXT"
)

// Condition gates a field on another field's confirmed value.
type Condition struct {
	Field  string
	Equals string
}

type FieldSpec struct {
	Name string
	Kind Kind
	// Label is the human phrasing used in confirmation prompts.
	Label string
	// Prompt is the question asked to collect the field.
	Prompt string
	// RequiredIf, when set, makes the field relevant only while the
	// referenced field's confirmed value equals the given one. An
	// irrelevant field defaults to empty in the final record.
	RequiredIf *Condition
}

var privatePayFields = []FieldSpec{
	{Name: "patient_name", Kind: KindFreeText, Label: "patient name", Prompt: "Who is the patient?"},
	{Name: "weight", Kind: KindNumeric, Label: "patient weight", Prompt: "What is the patient's weight in pounds?"},
	{Name: "pickup_address", Kind: KindFreeText, Label: "pickup address", Prompt: "What is the pickup address?"},
	{Name: "dropoff_address", Kind: KindFreeText, Label: "drop-off address", Prompt: "What is the drop-off address?"},
	{Name: "appointment_date", Kind: KindDate, Label: "appointment date", Prompt: "What date is the appointment?"},
	{Name: "one_way_or_round_trip", Kind: KindFreeText, Label: "trip type", Prompt: "Is this one way or a round trip?"},
	{Name: "equipment_needed", Kind: KindFreeText, Label: "equipment needed", Prompt: "Is any equipment needed, like a wheelchair or gurney?"},
	{Name: "any_stairs_and_accompanying_passengers", Kind: KindFreeText, Label: "stairs and passengers", Prompt: "Are there any stairs, and will anyone accompany the patient?"},
	{Name: "user_name", Kind: KindFreeText, Label: "your name", Prompt: "May I have your name?"},
	{Name: "phone_number", Kind: KindNumeric, Label: "phone number", Prompt: "What is the best phone number to reach you?"},
	{Name: "email", Kind: KindFreeText, Label: "email address", Prompt: "What email address should we use?"},
}

var insuranceFields = []FieldSpec{
	{Name: "patient_name", Kind: KindFreeText, Label: "patient name", Prompt: "Who is the patient?"},
	{Name: "pickup_address", Kind: KindFreeText, Label: "pickup address", Prompt: "What is the pickup address?"},
	{Name: "dropoff_address", Kind: KindFreeText, Label: "drop-off address", Prompt: "What is the drop-off address?"},
	{Name: "authorization_number", Kind: KindNumeric, Label: "authorization number", Prompt: "What is the authorization number?"},
	{Name: "appointment_date", Kind: KindDate, Label: "appointment date", Prompt: "What date is the appointment?"},
}

var dischargeFields = []FieldSpec{
	{Name: "patient_name", Kind: KindFreeText, Label: "patient name", Prompt: "Who is the patient?"},
	{Name: "pickup_facility_name", Kind: KindFreeText, Label: "pickup facility name", Prompt: "What is the name of the pickup facility?"},
	{Name: "pickup_facility_address", Kind: KindFreeText, Label: "pickup facility address", Prompt: "What is the pickup facility's address?"},
	{Name: "pickup_facility_room_number", Kind: KindNumeric, Label: "pickup room number", Prompt: "What room is the patient in?"},
	{Name: "dropoff_facility_name", Kind: KindFreeText, Label: "drop-off facility name", Prompt: "What is the name of the drop-off facility?"},
	{Name: "dropoff_facility_address", Kind: KindFreeText, Label: "drop-off facility address", Prompt: "What is the drop-off facility's address?"},
	{Name: "dropoff_facility_room_number", Kind: KindNumeric, Label: "drop-off room number", Prompt: "What room is the patient going to?"},
	{Name: "appointment_date", Kind: KindDate, Label: "appointment date", Prompt: "What date is the transport?"},
	{Name: "is_oxygen_needed", Kind: KindYesNo, Label: "oxygen needed", Prompt: "Is oxygen needed during transport?"},
	{Name: "oxygen_amount", Kind: KindNumeric, Label: "oxygen amount", Prompt: "How many liters of oxygen?",
		RequiredIf: &Condition{Field: "is_oxygen_needed", Equals: "true"}},
	{Name: "is_infectious_disease", Kind: KindYesNo, Label: "infectious disease", Prompt: "Does the patient have any infectious disease?"},
	{Name: "weight", Kind: KindNumeric, Label: "patient weight", Prompt: "What is the patient's weight in pounds?"},
}

// FieldsFor returns the ordered field list for an intent. The returned slice
// is shared read-only state and must not be modified.
func FieldsFor(intent Intent) []FieldSpec {
	switch intent {
	case IntentPrivatePay:
		return privatePayFields
	case IntentInsurance:
		return insuranceFields
	case IntentDischarge:
		return dischargeFields
	}
	return nil
}

// Lookup finds a field spec by name within an intent's schema.
func Lookup(intent Intent, name string) (FieldSpec, bool) {
	fields := FieldsFor(intent)

	idx := pie.FindFirstUsing(fields, func(f FieldSpec) bool {
		return f.Name == name
	})
	if idx < 0 {
		return FieldSpec{}, false
	}

	return fields[idx], true
}
