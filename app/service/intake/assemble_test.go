package intake

import (
	"testing"
	"time"

	"medintake/app/service/schema"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func confirmedConversation(t *testing.T, intent schema.Intent, values map[string]string) *Conversation {
	t.Helper()

	conv := NewConversation("conv-1", "voice_call", "+15550001111")
	conv.Intent = intent
	conv.Phase = PhaseAllConfirmed
	conv.Slots = map[string]*SlotState{}

	for _, f := range schema.FieldsFor(intent) {
		conv.Slots[f.Name] = &SlotState{Value: values[f.Name], Confirmed: true}
	}

	return conv
}

var privatePayValues = map[string]string{
	"patient_name":                           "Jane Roe",
	"weight":                                 "180",
	"pickup_address":                         "12 Main St",
	"dropoff_address":                        "St. Mary Hospital",
	"appointment_date":                       "2025-07-01",
	"one_way_or_round_trip":                  "round trip",
	"equipment_needed":                       "wheelchair",
	"any_stairs_and_accompanying_passengers": "no stairs, one passenger",
	"user_name":                              "John Roe",
	"phone_number":                           "5551234567",
	"email":                                  "john@example.com",
}

func TestAssemblePrivatePay(t *testing.T) {
	conv := confirmedConversation(t, schema.IntentPrivatePay, privatePayValues)

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	record := Assemble(conv, now)

	assert.Equal(t, map[string]string{
		"channel":                                "voice_call",
		"contact_info":                           "+15550001111",
		"patient_name":                           "Jane Roe",
		"weight":                                 "180",
		"pickup_address":                         "12 Main St",
		"drop_off_address":                       "St. Mary Hospital",
		"appointment_date":                       "2025-07-01",
		"one_way_or_round_trip":                  "round trip",
		"equipment_needed":                       "wheelchair",
		"any_stairs_and_accompanying_passengers": "no stairs, one passenger",
		"user_name":                              "John Roe",
		"phone_number":                           "5551234567",
		"email":                                  "john@example.com",
		"update_time":                            "2025-06-01T12:00:00Z",
		"status":                                 "completed",
	}, record)
}

func TestAssembleInsurance(t *testing.T) {
	conv := confirmedConversation(t, schema.IntentInsurance, map[string]string{
		"patient_name":         "Jane Roe",
		"pickup_address":       "12 Main St",
		"dropoff_address":      "St. Mary Hospital",
		"authorization_number": "998877",
		"appointment_date":     "2025-07-01",
	})

	record := Assemble(conv, time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))

	assert.Equal(t, map[string]string{
		"channel":              "voice_call",
		"contact_info":         "+15550001111",
		"patient_name":         "Jane Roe",
		"pickup_address":       "12 Main St",
		"drop_off_address":     "St. Mary Hospital",
		"authorization_number": "998877",
		"appointment_date":     "2025-07-01",
		"update_time":          "2025-06-01T12:00:00Z",
		"status":               "completed",
	}, record)
}

func TestAssembleDischarge(t *testing.T) {
	conv := confirmedConversation(t, schema.IntentDischarge, map[string]string{
		"patient_name":                 "Jane Roe",
		"pickup_facility_name":         "Mercy General",
		"pickup_facility_address":      "1 Hospital Way",
		"pickup_facility_room_number":  "204",
		"dropoff_facility_name":        "Sunrise Care",
		"dropoff_facility_address":     "8 Elm St",
		"dropoff_facility_room_number": "12",
		"appointment_date":             "2025-07-04",
		"is_oxygen_needed":             "false",
		"is_infectious_disease":        "false",
		"weight":                       "180",
	})
	// Gated off: never collected, not confirmed.
	conv.Slots["oxygen_amount"] = &SlotState{}

	record := Assemble(conv, time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))

	assert.Equal(t, map[string]string{
		"channel":                       "voice_call",
		"contact_info":                  "+15550001111",
		"patient_name":                  "Jane Roe",
		"pickup_facility_name":          "Mercy General",
		"pickup_facility_address":       "1 Hospital Way",
		"pickup_facility_room_number":   "204",
		"drop_off_facility_name":        "Sunrise Care",
		"drop_off_facility_address":     "8 Elm St",
		"drop_off_facility_room_number": "12",
		"appointment_date":              "2025-07-04",
		"is_oxygen_needed":              "false",
		"oxygen_amount":                 "",
		"is_infectious_disease":         "false",
		"weight":                        "180",
		"update_time":                   "2025-06-01T12:00:00Z",
		"status":                        "completed",
	}, record)
}

func TestAssemblePanicsOnUnconfirmedField(t *testing.T) {
	conv := confirmedConversation(t, schema.IntentInsurance, map[string]string{
		"patient_name":         "Jane Roe",
		"pickup_address":       "12 Main St",
		"dropoff_address":      "St. Mary Hospital",
		"authorization_number": "998877",
		"appointment_date":     "2025-07-01",
	})
	conv.Slots["appointment_date"].Confirmed = false

	require.Panics(t, func() {
		Assemble(conv, time.Now())
	})
}
