package handler

import (
	"testing"
	"time"

	"github.com/WorkflowDigitalltd/ac-crm/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomerPayloadValidate(t *testing.T) {
	valid := customerPayload{Name: "Ada Lovelace", Email: "ada@example.co.uk"}
	assert.Empty(t, valid.validate())

	assert.Equal(t, "name is required", customerPayload{Email: "a@b.com"}.validate())
	assert.Equal(t, "email is required", customerPayload{Name: "Ada"}.validate())
	assert.Equal(t, "email is not a valid address", customerPayload{Name: "Ada", Email: "not-an-email"}.validate())
}

func TestExpensePayloadToExpense(t *testing.T) {
	id := uuid.New()
	p := expensePayload{
		Description: "Office rent",
		Amount:      decimal.RequireFromString("850.00"),
		Category:    int(domain.CategoryRent),
	}
	e, err := p.toExpense(id)
	require.NoError(t, err)
	assert.Equal(t, id, e.ID)
	assert.Equal(t, domain.CategoryRent, e.Category)
	assert.True(t, e.IsTaxDeductible, "deductible defaults to true")
	assert.False(t, e.ExpenseDate.IsZero(), "zero date defaults to now")

	nondeductible := false
	p.IsTaxDeductible = &nondeductible
	e, err = p.toExpense(id)
	require.NoError(t, err)
	assert.False(t, e.IsTaxDeductible)
}

func TestExpensePayloadRejections(t *testing.T) {
	id := uuid.New()

	_, err := expensePayload{Amount: decimal.RequireFromString("10")}.toExpense(id)
	require.Error(t, err)
	assert.Equal(t, "description is required", err.Error())

	_, err = expensePayload{Description: "x", Amount: decimal.Zero}.toExpense(id)
	require.Error(t, err)
	assert.Equal(t, "amount must be greater than zero", err.Error())

	_, err = expensePayload{Description: "x", Amount: decimal.RequireFromString("10"), Category: 99}.toExpense(id)
	require.Error(t, err)
	assert.Equal(t, "invalid expense category", err.Error())
	assert.True(t, domain.IsValidation(err))
}

func TestPaymentPayloadDefaults(t *testing.T) {
	p := paymentPayload{
		SaleID:     uuid.New(),
		AmountPaid: decimal.RequireFromString("25.00"),
	}
	in := p.toInput()
	assert.Equal(t, domain.MethodCash, in.Method, "unset method falls back to cash")
	assert.False(t, in.PaymentDate.IsZero())

	when := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	p.PaymentDate = when
	p.PaymentMethod = int(domain.MethodBankTransfer)
	in = p.toInput()
	assert.Equal(t, when, in.PaymentDate)
	assert.Equal(t, domain.MethodBankTransfer, in.Method)
}
