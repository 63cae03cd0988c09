package handler

import (
	"encoding/json"
	"net/http"

	"github.com/WorkflowDigitalltd/ac-crm/internal/domain"
	"github.com/WorkflowDigitalltd/ac-crm/internal/repository"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ProductHandler struct {
	Repo repository.ProductRepository
}

func (h ProductHandler) RegisterRoutes(r chi.Router) {
	r.Get("/api/products", h.list)
	r.Get("/api/products/{id}", h.get)
	r.Post("/api/products", h.create)
	r.Put("/api/products/{id}", h.update)
	r.Delete("/api/products/{id}", h.delete)
}

type productPayload struct {
	Name               string           `json:"name"`
	Description        *string          `json:"description"`
	Price              decimal.Decimal  `json:"price"`
	RecurringPrice     *decimal.Decimal `json:"recurringPrice"`
	IsRecurring        bool             `json:"isRecurring"`
	RecurrenceType     int              `json:"recurrenceType"`
	RecurrenceInterval int              `json:"recurrenceInterval"`
}

type productResponse struct {
	ID                 uuid.UUID        `json:"id"`
	Name               string           `json:"name"`
	Description        *string          `json:"description"`
	Price              decimal.Decimal  `json:"price"`
	RecurringPrice     *decimal.Decimal `json:"recurringPrice"`
	IsRecurring        bool             `json:"isRecurring"`
	RecurrenceType     int              `json:"recurrenceType"`
	RecurrenceTypeText string           `json:"recurrenceTypeText"`
	RecurrenceInterval int              `json:"recurrenceInterval"`
}

func toProductResponse(p domain.Product) productResponse {
	return productResponse{
		ID:                 p.ID,
		Name:               p.Name,
		Description:        p.Description,
		Price:              p.Price,
		RecurringPrice:     p.RecurringPrice,
		IsRecurring:        p.IsRecurring,
		RecurrenceType:     int(p.RecurrenceType),
		RecurrenceTypeText: p.RecurrenceType.String(),
		RecurrenceInterval: p.RecurrenceInterval,
	}
}

// toProduct applies recurrence normalization: conflicting input on a
// non-recurring product is silently overridden, a recurring product
// without a cadence or recurring price is rejected.
func (p productPayload) toProduct(id uuid.UUID) (*domain.Product, error) {
	if p.Name == "" {
		return nil, domain.Invalidf("name is required")
	}
	if p.Price.IsNegative() {
		return nil, domain.Invalidf("price must not be negative")
	}
	product := domain.Product{
		ID:                 id,
		Name:               p.Name,
		Description:        p.Description,
		Price:              p.Price,
		RecurringPrice:     p.RecurringPrice,
		IsRecurring:        p.IsRecurring,
		RecurrenceType:     domain.RecurrenceType(p.RecurrenceType),
		RecurrenceInterval: p.RecurrenceInterval,
	}
	if err := domain.NormalizeRecurrence(&product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (h ProductHandler) list(w http.ResponseWriter, r *http.Request) {
	items, err := h.Repo.List(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	resp := make([]productResponse, 0, len(items))
	for _, p := range items {
		resp = append(resp, toProductResponse(p))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h ProductHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	p, err := h.Repo.Get(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductResponse(*p))
}

func (h ProductHandler) create(w http.ResponseWriter, r *http.Request) {
	var req productPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	product, err := req.toProduct(uuid.Nil)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	created, err := h.Repo.Create(r.Context(), *product)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toProductResponse(*created))
}

func (h ProductHandler) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req productPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	product, err := req.toProduct(id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if err := h.Repo.Update(r.Context(), *product); err != nil {
		writeDomainError(w, err)
		return
	}
	writeNoContent(w)
}

func (h ProductHandler) delete(w http.ResponseWriter, r *http.Request) {
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
