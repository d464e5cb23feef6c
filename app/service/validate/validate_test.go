package validate

import (
	"testing"
	"time"

	"medintake/app/service/schema"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var refDate = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

func TestCheckDate(t *testing.T) {
	t.Run("yearless date infers reference year", func(t *testing.T) {
		result, rejection := Check("6/12", schema.KindDate, refDate)
		require.Nil(t, rejection)
		assert.Equal(t, "2025-06-12", result.Normalized)
		assert.True(t, result.InferredYear)
	})

	t.Run("month name format", func(t *testing.T) {
		result, rejection := Check("June 12", schema.KindDate, refDate)
		require.Nil(t, rejection)
		assert.Equal(t, "2025-06-12", result.Normalized)
		assert.True(t, result.InferredYear)
	})

	t.Run("iso format keeps its year", func(t *testing.T) {
		result, rejection := Check("2025-06-12", schema.KindDate, refDate)
		require.Nil(t, rejection)
		assert.Equal(t, "2025-06-12", result.Normalized)
		assert.False(t, result.InferredYear)
	})

	t.Run("dotted format", func(t *testing.T) {
		result, rejection := Check("2028.1.4", schema.KindDate, refDate)
		require.Nil(t, rejection)
		assert.Equal(t, "2028-01-04", result.Normalized)
		assert.False(t, result.InferredYear)
	})

	t.Run("past date rejected", func(t *testing.T) {
		_, rejection := Check("2024-01-01", schema.KindDate, refDate)
		require.NotNil(t, rejection)
	})

	t.Run("reference date itself accepted", func(t *testing.T) {
		result, rejection := Check("2025-06-01", schema.KindDate, refDate)
		require.Nil(t, rejection)
		assert.Equal(t, "2025-06-01", result.Normalized)
	})

	t.Run("garbage rejected", func(t *testing.T) {
		_, rejection := Check("whenever works", schema.KindDate, refDate)
		require.NotNil(t, rejection)
	})
}

func TestCheckNumeric(t *testing.T) {
	t.Run("decimal accepted", func(t *testing.T) {
		result, rejection := Check("12.5", schema.KindNumeric, refDate)
		require.Nil(t, rejection)
		assert.Equal(t, "12.5", result.Normalized)
	})

	t.Run("negative rejected", func(t *testing.T) {
		_, rejection := Check("-3", schema.KindNumeric, refDate)
		require.NotNil(t, rejection)
	})

	t.Run("negative with space rejected", func(t *testing.T) {
		_, rejection := Check("- 3", schema.KindNumeric, refDate)
		require.NotNil(t, rejection)
	})

	t.Run("explicit plus sign accepted", func(t *testing.T) {
		result, rejection := Check("+3", schema.KindNumeric, refDate)
		require.Nil(t, rejection)
		assert.Equal(t, "3", result.Normalized)
	})

	t.Run("non-finite tokens rejected", func(t *testing.T) {
		for _, raw := range []string{"inf", "-inf", "Inf", "nan", "NaN"} {
			_, rejection := Check(raw, schema.KindNumeric, refDate)
			require.NotNil(t, rejection, "expected rejection for %q", raw)
		}
	})

	t.Run("words rejected", func(t *testing.T) {
		_, rejection := Check("twelve", schema.KindNumeric, refDate)
		require.NotNil(t, rejection)
	})

	t.Run("phone formatting stripped", func(t *testing.T) {
		result, rejection := Check("(555) 123-4567", schema.KindNumeric, refDate)
		require.Nil(t, rejection)
		assert.Equal(t, "5551234567", result.Normalized)
	})
}

func TestCheckYesNo(t *testing.T) {
	t.Run("yep is true", func(t *testing.T) {
		result, rejection := Check("yep", schema.KindYesNo, refDate)
		require.Nil(t, rejection)
		assert.True(t, result.Bool)
		assert.Equal(t, "true", result.Normalized)
	})

	t.Run("nah is false", func(t *testing.T) {
		result, rejection := Check("nah", schema.KindYesNo, refDate)
		require.Nil(t, rejection)
		assert.False(t, result.Bool)
		assert.Equal(t, "false", result.Normalized)
	})

	t.Run("maybe is ambiguous", func(t *testing.T) {
		_, rejection := Check("maybe", schema.KindYesNo, refDate)
		require.NotNil(t, rejection)
	})
}

func TestCheckFreeText(t *testing.T) {
	t.Run("plain text accepted and trimmed", func(t *testing.T) {
		result, rejection := Check("  John Smith ", schema.KindFreeText, refDate)
		require.Nil(t, rejection)
		assert.Equal(t, "John Smith", result.Normalized)
	})

	t.Run("whitespace rejected", func(t *testing.T) {
		_, rejection := Check("   ", schema.KindFreeText, refDate)
		require.NotNil(t, rejection)
	})

	t.Run("placeholder rejected", func(t *testing.T) {
		_, rejection := Check("n/a", schema.KindFreeText, refDate)
		require.NotNil(t, rejection)
	})
}

func TestIsAffirmation(t *testing.T) {
	value, ok := IsAffirmation("yes")
	assert.True(t, ok)
	assert.True(t, value)

	value, ok = IsAffirmation("nope")
	assert.True(t, ok)
	assert.False(t, value)

	_, ok = IsAffirmation("the patient is John")
	assert.False(t, ok)
}
