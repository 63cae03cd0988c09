package domain

import "github.com/shopspring/decimal"

// SaleTotals is the derived portion of a sale. The amounts are persisted
// for query-ability and re-derived after every mutation of the sale's
// items or payments.
type SaleTotals struct {
	TotalAmount          decimal.Decimal
	TotalRecurringAmount decimal.Decimal
	TotalPaid            decimal.Decimal
}

// ComputeSaleTotals derives a sale's totals from its current items and
// payments. Idempotent: the result depends only on the inputs.
func ComputeSaleTotals(items []SaleItem, payments []Payment) SaleTotals {
	t := SaleTotals{
		TotalAmount:          decimal.Zero,
		TotalRecurringAmount: decimal.Zero,
		TotalPaid:            SumPayments(payments),
	}
	for _, item := range items {
		t.TotalAmount = t.TotalAmount.Add(item.LineTotal())
		if rt := item.LineRecurringTotal(); rt != nil {
			t.TotalRecurringAmount = t.TotalRecurringAmount.Add(*rt)
		}
	}
	return t
}

// SumPayments adds up the amounts paid against a sale.
func SumPayments(payments []Payment) decimal.Decimal {
	sum := decimal.Zero
	for _, p := range payments {
		sum = sum.Add(p.AmountPaid)
	}
	return sum
}

// ValidatePaymentAmount checks a new or updated payment amount against
// the outstanding balance of the owning sale. otherPaid is the sum of
// every payment on the sale except the one being written, so a payment
// equal to the exact outstanding balance always passes (pay in full).
func ValidatePaymentAmount(amount, saleTotal, otherPaid decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return Invalidf("Payment amount must be greater than zero")
	}
	outstanding := saleTotal.Sub(otherPaid)
	if amount.GreaterThan(outstanding) {
		return Invalidf("Payment amount (%s) exceeds outstanding balance (%s)",
			FormatGBP(amount), FormatGBP(outstanding))
	}
	return nil
}

// ValidateSaleItems checks the caller-supplied line set before a sale is
// created or its lines replaced. Unit prices are caller-supplied at sale
// time (discounting is allowed) and are not cross-checked against the
// product's current price.
func ValidateSaleItems(items []SaleItem) error {
	for _, item := range items {
		if item.Quantity <= 0 {
			return Invalidf("Sale item quantity must be a positive integer")
		}
		if item.UnitPrice.IsNegative() {
			return Invalidf("Sale item unit price must not be negative")
		}
	}
	return nil
}

// NormalizeRecurrence enforces the product recurrence invariant in place.
// A non-recurring product is silently normalized to no cadence and no
// recurring price, overriding conflicting input. A recurring product must
// carry a cadence and a recurring price.
func NormalizeRecurrence(p *Product) error {
	if !p.IsRecurring {
		p.RecurrenceType = RecurrenceNone
		p.RecurrenceInterval = 1
		p.RecurringPrice = nil
		return nil
	}
	if p.RecurrenceType == RecurrenceNone {
		return Invalidf("Recurring products must have a valid recurrence type.")
	}
	if p.RecurringPrice == nil {
		return Invalidf("Recurring products must have a recurring price.")
	}
	if p.RecurrenceInterval < 1 {
		p.RecurrenceInterval = 1
	}
	return nil
}
