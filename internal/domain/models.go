package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Entities hold owned child identifiers via foreign keys, not live
// back-references, so there are no cycles between aggregates.

type Customer struct {
	ID        uuid.UUID
	Name      string
	Email     string
	Phone     *string
	Address   *string
	Postcode  *string
	CreatedAt time.Time
}

type Product struct {
	ID                 uuid.UUID
	Name               string
	Description        *string
	Price              decimal.Decimal
	RecurringPrice     *decimal.Decimal
	IsRecurring        bool
	RecurrenceType     RecurrenceType
	RecurrenceInterval int
}

type Sale struct {
	ID                   uuid.UUID
	CustomerID           uuid.UUID
	SaleDate             time.Time
	Status               SaleStatus
	QuoteID              *uuid.UUID
	Notes                *string
	TotalAmount          decimal.Decimal
	TotalRecurringAmount decimal.Decimal
	TotalPaid            decimal.Decimal
	Items                []SaleItem
	Payments             []Payment
}

// OutstandingBalance is derived, never stored.
func (s Sale) OutstandingBalance() decimal.Decimal {
	return s.TotalAmount.Sub(s.TotalPaid)
}

type SaleItem struct {
	ID                         uuid.UUID
	SaleID                     uuid.UUID
	ProductID                  uuid.UUID
	Quantity                   int
	UnitPrice                  decimal.Decimal
	UnitRecurringPrice         *decimal.Decimal
	RecurrenceOverride         *RecurrenceType
	RecurrenceIntervalOverride *int
	Notes                      *string
}

// LineTotal is quantity times the unit price captured at sale time.
func (i SaleItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// LineRecurringTotal is nil for items without a recurring price.
func (i SaleItem) LineRecurringTotal() *decimal.Decimal {
	if i.UnitRecurringPrice == nil {
		return nil
	}
	t := i.UnitRecurringPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
	return &t
}

type Payment struct {
	ID          uuid.UUID
	SaleID      uuid.UUID
	AmountPaid  decimal.Decimal
	PaymentDate time.Time
	Method      PaymentMethod
	Reference   *string
	Notes       *string
	PaymentType *string
}

type Expense struct {
	ID              uuid.UUID
	Description     string
	Amount          decimal.Decimal
	ExpenseDate     time.Time
	Category        ExpenseCategory
	Vendor          *string
	Reference       *string
	Notes           *string
	AttachmentPath  *string
	IsTaxDeductible bool
}
