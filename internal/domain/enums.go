package domain

// Enumerations are exposed at the API boundary as {value, text} pairs so
// clients can render labels without a side-channel lookup table.

type SaleStatus int

const (
	SaleActive SaleStatus = iota
	SaleOverdue
	SaleCancelled
	SaleComplete
)

func (s SaleStatus) String() string {
	switch s {
	case SaleActive:
		return "Active"
	case SaleOverdue:
		return "Overdue"
	case SaleCancelled:
		return "Cancelled"
	case SaleComplete:
		return "Complete"
	}
	return "Unknown"
}

func (s SaleStatus) Valid() bool {
	return s >= SaleActive && s <= SaleComplete
}

type RecurrenceType int

const (
	RecurrenceNone RecurrenceType = iota
	RecurrenceDaily
	RecurrenceWeekly
	RecurrenceMonthly
	RecurrenceQuarterly
	RecurrenceBiannually
	RecurrenceAnnually
	RecurrenceCustom
)

func (t RecurrenceType) String() string {
	switch t {
	case RecurrenceNone:
		return "None"
	case RecurrenceDaily:
		return "Daily"
	case RecurrenceWeekly:
		return "Weekly"
	case RecurrenceMonthly:
		return "Monthly"
	case RecurrenceQuarterly:
		return "Quarterly"
	case RecurrenceBiannually:
		return "Biannually"
	case RecurrenceAnnually:
		return "Annually"
	case RecurrenceCustom:
		return "Custom"
	}
	return "Unknown"
}

type PaymentMethod int

const (
	MethodCash PaymentMethod = iota + 1
	MethodCard
	MethodBankTransfer
	MethodCheque
	MethodDirectDebit
	MethodStandingOrder
	MethodPayPal
	MethodOther
)

func (m PaymentMethod) String() string {
	switch m {
	case MethodCash:
		return "Cash"
	case MethodCard:
		return "Card"
	case MethodBankTransfer:
		return "BankTransfer"
	case MethodCheque:
		return "Cheque"
	case MethodDirectDebit:
		return "DirectDebit"
	case MethodStandingOrder:
		return "StandingOrder"
	case MethodPayPal:
		return "PayPal"
	case MethodOther:
		return "Other"
	}
	return "Unknown"
}

type ExpenseCategory int

const (
	CategoryUncategorized ExpenseCategory = iota
	CategoryRent
	CategoryUtilities
	CategorySalaries
	CategoryEquipment
	CategorySupplies
	CategoryMarketing
	CategoryTravel
	CategoryInsurance
	CategorySoftware
	CategorySubscriptions
	CategoryProfessional
	CategoryMaintenance
	CategoryTraining
	CategoryMeals
	CategoryEntertainment
	CategoryTaxes
	CategoryShipping
	CategoryInventory
	CategoryOther
)

var categoryNames = []string{
	"Uncategorized", "Rent", "Utilities", "Salaries", "Equipment",
	"Supplies", "Marketing", "Travel", "Insurance", "Software",
	"Subscriptions", "Professional", "Maintenance", "Training", "Meals",
	"Entertainment", "Taxes", "Shipping", "Inventory", "Other",
}

func (c ExpenseCategory) String() string {
	if c < CategoryUncategorized || int(c) >= len(categoryNames) {
		return "Unknown"
	}
	return categoryNames[c]
}

// EnumOption is the boundary representation of an enumeration value.
type EnumOption struct {
	Value int    `json:"value"`
	Text  string `json:"text"`
}

func PaymentMethodOptions() []EnumOption {
	opts := make([]EnumOption, 0, int(MethodOther))
	for m := MethodCash; m <= MethodOther; m++ {
		opts = append(opts, EnumOption{Value: int(m), Text: m.String()})
	}
	return opts
}

func ExpenseCategoryOptions() []EnumOption {
	opts := make([]EnumOption, 0, len(categoryNames))
	for c := CategoryUncategorized; c <= CategoryOther; c++ {
		opts = append(opts, EnumOption{Value: int(c), Text: c.String()})
	}
	return opts
}
