package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFillMonthlySummaryZeroFills(t *testing.T) {
	// Expenses only in March: every other month must still be present
	// with zero amounts.
	populated := []MonthlyExpenseSummary{
		{Month: 3, TotalAmount: dec("150.00"), TaxDeductibleAmount: dec("100.00"), Count: 2},
	}
	out := FillMonthlySummary(2024, populated)
	require.Len(t, out, 12)

	for i, m := range out {
		assert.Equal(t, i+1, m.Month)
		if m.Month == 3 {
			assert.Equal(t, 2, m.Count)
			assert.True(t, m.TotalAmount.Equal(dec("150.00")))
			assert.True(t, m.TaxDeductibleAmount.Equal(dec("100.00")))
			continue
		}
		assert.Equal(t, 0, m.Count)
		assert.True(t, m.TotalAmount.IsZero())
		assert.True(t, m.TaxDeductibleAmount.IsZero())
	}
	assert.Equal(t, "January", out[0].MonthName)
	assert.Equal(t, "March", out[2].MonthName)
	assert.Equal(t, "December", out[11].MonthName)
}

func TestFillMonthlySummaryEmptyYear(t *testing.T) {
	out := FillMonthlySummary(2025, nil)
	require.Len(t, out, 12)
	for _, m := range out {
		assert.Equal(t, 0, m.Count)
		assert.True(t, m.TotalAmount.IsZero())
	}
}
