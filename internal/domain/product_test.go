package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeRecurrenceNonRecurring(t *testing.T) {
	// Conflicting input on a non-recurring product is silently
	// overridden, not rejected.
	p := Product{
		Name:               "One-off install",
		Price:              dec("250.00"),
		IsRecurring:        false,
		RecurrenceType:     RecurrenceMonthly,
		RecurrenceInterval: 3,
		RecurringPrice:     decPtr("40.00"),
	}
	require.NoError(t, NormalizeRecurrence(&p))
	assert.Equal(t, RecurrenceNone, p.RecurrenceType)
	assert.Equal(t, 1, p.RecurrenceInterval)
	assert.Nil(t, p.RecurringPrice)
}

func TestNormalizeRecurrenceRejections(t *testing.T) {
	noType := Product{
		Name:           "Support plan",
		Price:          dec("0"),
		IsRecurring:    true,
		RecurrenceType: RecurrenceNone,
		RecurringPrice: decPtr("15.00"),
	}
	err := NormalizeRecurrence(&noType)
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Equal(t, "Recurring products must have a valid recurrence type.", err.Error())

	noPrice := Product{
		Name:           "Support plan",
		Price:          dec("0"),
		IsRecurring:    true,
		RecurrenceType: RecurrenceMonthly,
	}
	err = NormalizeRecurrence(&noPrice)
	require.Error(t, err)
	assert.Equal(t, "Recurring products must have a recurring price.", err.Error())
}

func TestNormalizeRecurrenceValid(t *testing.T) {
	p := Product{
		Name:               "Maintenance",
		Price:              dec("99.00"),
		IsRecurring:        true,
		RecurrenceType:     RecurrenceQuarterly,
		RecurrenceInterval: 0, // normalized up to 1
		RecurringPrice:     decPtr("20.00"),
	}
	require.NoError(t, NormalizeRecurrence(&p))
	assert.Equal(t, RecurrenceQuarterly, p.RecurrenceType)
	assert.Equal(t, 1, p.RecurrenceInterval)
	require.NotNil(t, p.RecurringPrice)
	assert.True(t, p.RecurringPrice.Equal(dec("20.00")))
}
