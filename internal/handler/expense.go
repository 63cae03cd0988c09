package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/WorkflowDigitalltd/ac-crm/internal/domain"
	"github.com/WorkflowDigitalltd/ac-crm/internal/repository"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ExpenseHandler struct {
	Repo repository.ExpenseRepository
}

func (h ExpenseHandler) RegisterRoutes(r chi.Router) {
	r.Get("/api/expenses", h.list)
	r.Get("/api/expenses/categories", h.categories)
	r.Get("/api/expenses/export", h.export)
	r.Get("/api/expenses/summary/monthly", h.monthlySummary)
	r.Get("/api/expenses/summary/category", h.categorySummary)
	r.Get("/api/expenses/{id}", h.get)
	r.Post("/api/expenses", h.create)
	r.Put("/api/expenses/{id}", h.update)
	r.Delete("/api/expenses/{id}", h.delete)
}

type expensePayload struct {
	Description     string          `json:"description"`
	Amount          decimal.Decimal `json:"amount"`
	ExpenseDate     time.Time       `json:"expenseDate"`
	Category        int             `json:"category"`
	Vendor          *string         `json:"vendor"`
	Reference       *string         `json:"reference"`
	Notes           *string         `json:"notes"`
	IsTaxDeductible *bool           `json:"isTaxDeductible"`
}

type expenseResponse struct {
	ID              uuid.UUID       `json:"id"`
	Description     string          `json:"description"`
	Amount          decimal.Decimal `json:"amount"`
	ExpenseDate     time.Time       `json:"expenseDate"`
	Category        int             `json:"category"`
	CategoryText    string          `json:"categoryText"`
	Vendor          *string         `json:"vendor"`
	Reference       *string         `json:"reference"`
	Notes           *string         `json:"notes"`
	AttachmentPath  *string         `json:"attachmentPath"`
	IsTaxDeductible bool            `json:"isTaxDeductible"`
}

func toExpenseResponse(e domain.Expense) expenseResponse {
	return expenseResponse{
		ID:              e.ID,
		Description:     e.Description,
		Amount:          e.Amount,
		ExpenseDate:     e.ExpenseDate,
		Category:        int(e.Category),
		CategoryText:    e.Category.String(),
		Vendor:          e.Vendor,
		Reference:       e.Reference,
		Notes:           e.Notes,
		AttachmentPath:  e.AttachmentPath,
		IsTaxDeductible: e.IsTaxDeductible,
	}
}

func (p expensePayload) toExpense(id uuid.UUID) (*domain.Expense, error) {
	if p.Description == "" {
		return nil, domain.Invalidf("description is required")
	}
	if p.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.Invalidf("amount must be greater than zero")
	}
	cat := domain.ExpenseCategory(p.Category)
	if cat.String() == "Unknown" {
		return nil, domain.Invalidf("invalid expense category")
	}
	// Tax-deductible defaults to true when omitted.
	deductible := true
	if p.IsTaxDeductible != nil {
		deductible = *p.IsTaxDeductible
	}
	date := p.ExpenseDate
	if date.IsZero() {
		date = time.Now().UTC()
	}
	return &domain.Expense{
		ID:              id,
		Description:     p.Description,
		Amount:          p.Amount,
		ExpenseDate:     date,
		Category:        cat,
		Vendor:          p.Vendor,
		Reference:       p.Reference,
		Notes:           p.Notes,
		IsTaxDeductible: deductible,
	}, nil
}

func (h ExpenseHandler) list(w http.ResponseWriter, r *http.Request) {
	from, err := parseDateQuery(r, "startDate")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid startDate")
		return
	}
	to, err := parseDateQuery(r, "endDate")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid endDate")
		return
	}
	if from != nil && to != nil && from.After(*to) {
		writeError(w, http.StatusBadRequest, "startDate must be before endDate")
		return
	}
	items, err := h.Repo.List(r.Context(), from, to)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	resp := make([]expenseResponse, 0, len(items))
	for _, e := range items {
		resp = append(resp, toExpenseResponse(e))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h ExpenseHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	e, err := h.Repo.Get(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toExpenseResponse(*e))
}

func (h ExpenseHandler) create(w http.ResponseWriter, r *http.Request) {
	var req expensePayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	expense, err := req.toExpense(uuid.Nil)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	created, err := h.Repo.Create(r.Context(), *expense)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toExpenseResponse(*created))
}

func (h ExpenseHandler) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req expensePayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	expense, err := req.toExpense(id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if err := h.Repo.Update(r.Context(), *expense); err != nil {
		writeDomainError(w, err)
		return
	}
	writeNoContent(w)
}

func (h ExpenseHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := h.Repo.Delete(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}
	writeNoContent(w)
}

// categories exposes the closed expense-category enumeration as
// {value, text} pairs.
func (h ExpenseHandler) categories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, domain.ExpenseCategoryOptions())
}

// monthlySummary reports all 12 months of the requested year,
// zero-filled where empty. Year 0 (or absent) means the current year.
func (h ExpenseHandler) monthlySummary(w http.ResponseWriter, r *http.Request) {
	year := intQuery(r, "year")
	if year == 0 {
		year = time.Now().Year()
	}
	summary, err := h.Repo.SummarizeMonthly(r.Context(), year)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// categorySummary groups by category, optionally filtered by year
// and/or month. Year 0 means the current year, month 0 means all.
func (h ExpenseHandler) categorySummary(w http.ResponseWriter, r *http.Request) {
	year := intQuery(r, "year")
	if year == 0 {
		year = time.Now().Year()
	}
	month := intQuery(r, "month")
	summary, err := h.Repo.SummarizeByCategory(r.Context(), year, month)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
