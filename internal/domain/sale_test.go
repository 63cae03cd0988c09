package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func TestLineTotals(t *testing.T) {
	item := SaleItem{Quantity: 3, UnitPrice: dec("19.99")}
	assert.True(t, item.LineTotal().Equal(dec("59.97")))
	assert.Nil(t, item.LineRecurringTotal())

	item.UnitRecurringPrice = decPtr("5.50")
	rt := item.LineRecurringTotal()
	require.NotNil(t, rt)
	assert.True(t, rt.Equal(dec("16.50")))
}

func TestComputeSaleTotals(t *testing.T) {
	items := []SaleItem{
		{Quantity: 2, UnitPrice: dec("10.00")},
		{Quantity: 1, UnitPrice: dec("25.50"), UnitRecurringPrice: decPtr("9.99")},
		{Quantity: 4, UnitPrice: dec("0.25"), UnitRecurringPrice: decPtr("1.00")},
	}
	payments := []Payment{
		{AmountPaid: dec("10.00")},
		{AmountPaid: dec("6.50")},
	}

	totals := ComputeSaleTotals(items, payments)
	assert.True(t, totals.TotalAmount.Equal(dec("46.50")))
	assert.True(t, totals.TotalRecurringAmount.Equal(dec("13.99")))
	assert.True(t, totals.TotalPaid.Equal(dec("16.50")))

	// Idempotent: recomputing over the same children yields the same totals.
	again := ComputeSaleTotals(items, payments)
	assert.True(t, totals.TotalAmount.Equal(again.TotalAmount))
	assert.True(t, totals.TotalRecurringAmount.Equal(again.TotalRecurringAmount))
	assert.True(t, totals.TotalPaid.Equal(again.TotalPaid))
}

func TestComputeSaleTotalsEmpty(t *testing.T) {
	totals := ComputeSaleTotals(nil, nil)
	assert.True(t, totals.TotalAmount.IsZero())
	assert.True(t, totals.TotalRecurringAmount.IsZero())
	assert.True(t, totals.TotalPaid.IsZero())
}

func TestOutstandingBalance(t *testing.T) {
	s := Sale{TotalAmount: dec("100.00"), TotalPaid: dec("60.00")}
	assert.True(t, s.OutstandingBalance().Equal(dec("40.00")))
}

func TestValidatePaymentAmount(t *testing.T) {
	tests := []struct {
		name      string
		amount    string
		saleTotal string
		otherPaid string
		wantErr   string
	}{
		{
			name:   "full payment of untouched order",
			amount: "100.00", saleTotal: "100.00", otherPaid: "0",
		},
		{
			name:   "second payment exceeding outstanding",
			amount: "50.00", saleTotal: "100.00", otherPaid: "60.00",
			wantErr: "Payment amount (£50.00) exceeds outstanding balance (£40.00)",
		},
		{
			name:   "second payment settling exactly",
			amount: "40.00", saleTotal: "100.00", otherPaid: "60.00",
		},
		{
			name:   "update to exact outstanding excluding self",
			amount: "80.00", saleTotal: "100.00", otherPaid: "20.00",
		},
		{
			name:   "update one penny over",
			amount: "80.01", saleTotal: "100.00", otherPaid: "20.00",
			wantErr: "Payment amount (£80.01) exceeds outstanding balance (£80.00)",
		},
		{
			name:   "zero amount",
			amount: "0", saleTotal: "100.00", otherPaid: "0",
			wantErr: "Payment amount must be greater than zero",
		},
		{
			name:   "negative amount",
			amount: "-5.00", saleTotal: "100.00", otherPaid: "0",
			wantErr: "Payment amount must be greater than zero",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePaymentAmount(dec(tt.amount), dec(tt.saleTotal), dec(tt.otherPaid))
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, IsValidation(err))
			assert.Equal(t, tt.wantErr, err.Error())
		})
	}
}

// No sequence of accepted payments can push the paid total past the
// sale total.
func TestPaymentsNeverExceedTotal(t *testing.T) {
	saleTotal := dec("100.00")
	var payments []Payment
	attempts := []string{"30.00", "20.00", "60.00", "50.00", "49.99", "0.01", "0.01"}

	for _, a := range attempts {
		amount := dec(a)
		if err := ValidatePaymentAmount(amount, saleTotal, SumPayments(payments)); err == nil {
			payments = append(payments, Payment{AmountPaid: amount})
		}
		assert.True(t, SumPayments(payments).LessThanOrEqual(saleTotal))
	}
	// 30 and 20 accepted, 60 rejected, then 50 settles the balance
	// exactly; everything after is rejected.
	assert.True(t, SumPayments(payments).Equal(dec("100.00")))
	assert.Len(t, payments, 3)
}

func TestValidateSaleItems(t *testing.T) {
	err := ValidateSaleItems([]SaleItem{{Quantity: 0, UnitPrice: dec("1.00")}})
	require.Error(t, err)
	assert.True(t, IsValidation(err))

	err = ValidateSaleItems([]SaleItem{{Quantity: 1, UnitPrice: dec("-1.00")}})
	require.Error(t, err)

	err = ValidateSaleItems([]SaleItem{{Quantity: 2, UnitPrice: dec("0")}})
	assert.NoError(t, err)
}

func TestFormatGBP(t *testing.T) {
	assert.Equal(t, "£0.00", FormatGBP(decimal.Zero))
	assert.Equal(t, "£12.30", FormatGBP(dec("12.3")))
	assert.Equal(t, "£1234.56", FormatGBP(dec("1234.56")))
}
