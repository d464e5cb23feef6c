package intake

import (
	"fmt"
	"time"

	"medintake/app/service/schema"
)

// Backend record keys that differ from the intake field names.
var recordRenames = map[string]string{
	"dropoff_address":              "drop_off_address",
	"dropoff_facility_name":        "drop_off_facility_name",
	"dropoff_facility_address":     "drop_off_facility_address",
	"dropoff_facility_room_number": "drop_off_facility_room_number",
}

// Assemble shapes a fully confirmed conversation into the flat record the
// backend stores. Calling it with an unconfirmed required field is a
// programming error and panics; the controller gates this behind
// ALL_CONFIRMED. Fields gated off by an unmet conditional default to empty.
func Assemble(conv *Conversation, now time.Time) map[string]string {
	record := map[string]string{
		"channel":      conv.Channel,
		"contact_info": conv.ContactInfo,
	}

	for _, f := range schema.FieldsFor(conv.Intent) {
		slot := conv.Slots[f.Name]

		key := f.Name
		if renamed, ok := recordRenames[key]; ok {
			key = renamed
		}

		if !fieldEligible(conv, f.Name) {
			record[key] = ""
			continue
		}

		if slot == nil || !slot.Confirmed {
			panic(fmt.Sprintf("assemble called with unconfirmed field %q for intent %s", f.Name, conv.Intent))
		}

		record[key] = slot.Value
	}

	record["update_time"] = now.Format(time.RFC3339)
	record["status"] = "completed"

	return record
}
