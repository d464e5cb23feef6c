package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldsFor(t *testing.T) {
	t.Run("private pay has eleven fields in order", func(t *testing.T) {
		fields := FieldsFor(IntentPrivatePay)
		require.Len(t, fields, 11)
		assert.Equal(t, "patient_name", fields[0].Name)
		assert.Equal(t, "email", fields[10].Name)
		assert.Equal(t, KindNumeric, fields[1].Kind)
		assert.Equal(t, KindDate, fields[4].Kind)
	})

	t.Run("insurance has five fields", func(t *testing.T) {
		fields := FieldsFor(IntentInsurance)
		require.Len(t, fields, 5)
		assert.Equal(t, KindNumeric, fields[3].Kind)
		assert.Equal(t, "authorization_number", fields[3].Name)
	})

	t.Run("discharge gates oxygen amount", func(t *testing.T) {
		fields := FieldsFor(IntentDischarge)
		require.Len(t, fields, 12)

		spec, ok := Lookup(IntentDischarge, "oxygen_amount")
		require.True(t, ok)
		require.NotNil(t, spec.RequiredIf)
		assert.Equal(t, "is_oxygen_needed", spec.RequiredIf.Field)
		assert.Equal(t, "true", spec.RequiredIf.Equals)
	})

	t.Run("undetermined intent has no fields", func(t *testing.T) {
		assert.Nil(t, FieldsFor(IntentUndetermined))
	})
}

func TestParseIntent(t *testing.T) {
	for _, name := range []string{"PRIVATE_PAY", "INSURANCE_CASE_MANAGERS", "DISCHARGE"} {
		intent, ok := ParseIntent(name)
		require.True(t, ok, name)
		assert.Equal(t, Intent(name), intent)
	}

	_, ok := ParseIntent("TAXI")
	assert.False(t, ok)
}

func TestLookup(t *testing.T) {
	spec, ok := Lookup(IntentPrivatePay, "phone_number")
	require.True(t, ok)
	assert.Equal(t, KindNumeric, spec.Kind)

	_, ok = Lookup(IntentInsurance, "weight")
	assert.False(t, ok)
}
