package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaleStatusLabels(t *testing.T) {
	assert.Equal(t, "Active", SaleActive.String())
	assert.Equal(t, "Overdue", SaleOverdue.String())
	assert.Equal(t, "Cancelled", SaleCancelled.String())
	assert.Equal(t, "Complete", SaleComplete.String())
	assert.Equal(t, "Unknown", SaleStatus(99).String())
	assert.True(t, SaleActive.Valid())
	assert.False(t, SaleStatus(-1).Valid())
}

func TestPaymentMethodOptions(t *testing.T) {
	opts := PaymentMethodOptions()
	require.Len(t, opts, 8)
	assert.Equal(t, EnumOption{Value: 1, Text: "Cash"}, opts[0])
	assert.Equal(t, EnumOption{Value: 3, Text: "BankTransfer"}, opts[2])
	assert.Equal(t, EnumOption{Value: 8, Text: "Other"}, opts[7])
}

func TestExpenseCategoryOptions(t *testing.T) {
	opts := ExpenseCategoryOptions()
	require.Len(t, opts, 20)
	assert.Equal(t, EnumOption{Value: 0, Text: "Uncategorized"}, opts[0])
	assert.Equal(t, EnumOption{Value: 11, Text: "Professional"}, opts[11])
	assert.Equal(t, EnumOption{Value: 19, Text: "Other"}, opts[19])
	assert.Equal(t, "Unknown", ExpenseCategory(20).String())
}

func TestRecurrenceTypeLabels(t *testing.T) {
	assert.Equal(t, "None", RecurrenceNone.String())
	assert.Equal(t, "Biannually", RecurrenceBiannually.String())
	assert.Equal(t, "Custom", RecurrenceCustom.String())
}
