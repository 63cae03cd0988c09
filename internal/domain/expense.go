package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MonthlyExpenseSummary is one calendar-month bucket of the yearly
// expense report.
type MonthlyExpenseSummary struct {
	Month               int             `json:"month"`
	MonthName           string          `json:"monthName"`
	TotalAmount         decimal.Decimal `json:"totalAmount"`
	TaxDeductibleAmount decimal.Decimal `json:"taxDeductibleAmount"`
	Count               int             `json:"count"`
}

// CategoryExpenseSummary is one category bucket of the category report.
// Only categories with at least one matching expense are reported.
type CategoryExpenseSummary struct {
	Category     ExpenseCategory `json:"category"`
	CategoryName string          `json:"categoryName"`
	TotalAmount  decimal.Decimal `json:"totalAmount"`
	Count        int             `json:"count"`
}

// FillMonthlySummary zero-fills the 12 calendar months of year and
// overlays the populated buckets. The result always has 12 entries,
// January first.
func FillMonthlySummary(year int, populated []MonthlyExpenseSummary) []MonthlyExpenseSummary {
	byMonth := make(map[int]MonthlyExpenseSummary, len(populated))
	for _, m := range populated {
		byMonth[m.Month] = m
	}
	out := make([]MonthlyExpenseSummary, 0, 12)
	for month := 1; month <= 12; month++ {
		name := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC).Format("January")
		if m, ok := byMonth[month]; ok {
			m.MonthName = name
			out = append(out, m)
			continue
		}
		out = append(out, MonthlyExpenseSummary{
			Month:               month,
			MonthName:           name,
			TotalAmount:         decimal.Zero,
			TaxDeductibleAmount: decimal.Zero,
		})
	}
	return out
}
