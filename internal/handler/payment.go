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

type PaymentHandler struct {
	Repo repository.PaymentRepository
}

func (h PaymentHandler) RegisterRoutes(r chi.Router) {
	r.Get("/api/payments", h.list)
	r.Get("/api/payments/methods", h.methods)
	r.Get("/api/payments/{id}", h.get)
	r.Get("/api/payments/sale/{saleId}", h.listBySale)
	r.Post("/api/payments", h.create)
	r.Put("/api/payments/{id}", h.update)
	r.Delete("/api/payments/{id}", h.delete)
}

type paymentPayload struct {
	SaleID        uuid.UUID       `json:"saleId"`
	AmountPaid    decimal.Decimal `json:"amountPaid"`
	PaymentDate   time.Time       `json:"paymentDate"`
	PaymentMethod int             `json:"paymentMethod"`
	Reference     *string         `json:"reference"`
	Notes         *string         `json:"notes"`
	PaymentType   *string         `json:"paymentType"`
}

type paymentResponse struct {
	ID                uuid.UUID       `json:"id"`
	SaleID            uuid.UUID       `json:"saleId"`
	AmountPaid        decimal.Decimal `json:"amountPaid"`
	PaymentDate       time.Time       `json:"paymentDate"`
	PaymentMethod     int             `json:"paymentMethod"`
	PaymentMethodText string          `json:"paymentMethodText"`
	Reference         *string         `json:"reference"`
	Notes             *string         `json:"notes"`
	PaymentType       *string         `json:"paymentType"`
}

func toPaymentResponse(p domain.Payment) paymentResponse {
	return paymentResponse{
		ID:                p.ID,
		SaleID:            p.SaleID,
		AmountPaid:        p.AmountPaid,
		PaymentDate:       p.PaymentDate,
		PaymentMethod:     int(p.Method),
		PaymentMethodText: p.Method.String(),
		Reference:         p.Reference,
		Notes:             p.Notes,
		PaymentType:       p.PaymentType,
	}
}

func (p paymentPayload) toInput() repository.PaymentInput {
	date := p.PaymentDate
	if date.IsZero() {
		date = time.Now().UTC()
	}
	method := domain.PaymentMethod(p.PaymentMethod)
	if p.PaymentMethod == 0 {
		method = domain.MethodCash
	}
	return repository.PaymentInput{
		SaleID:      p.SaleID,
		AmountPaid:  p.AmountPaid,
		PaymentDate: date,
		Method:      method,
		Reference:   p.Reference,
		Notes:       p.Notes,
		PaymentType: p.PaymentType,
	}
}

func (h PaymentHandler) list(w http.ResponseWriter, r *http.Request) {
	items, err := h.Repo.List(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	resp := make([]paymentResponse, 0, len(items))
	for _, p := range items {
		resp = append(resp, toPaymentResponse(p))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h PaymentHandler) get(w http.ResponseWriter, r *http.Request) {
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
	writeJSON(w, http.StatusOK, toPaymentResponse(*p))
}

func (h PaymentHandler) listBySale(w http.ResponseWriter, r *http.Request) {
	saleID, err := uuidParam(r, "saleId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid sale id")
		return
	}
	items, err := h.Repo.ListBySale(r.Context(), saleID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	resp := make([]paymentResponse, 0, len(items))
	for _, p := range items {
		resp = append(resp, toPaymentResponse(p))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h PaymentHandler) create(w http.ResponseWriter, r *http.Request) {
	var req paymentPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	created, err := h.Repo.Create(r.Context(), req.toInput())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toPaymentResponse(*created))
}

func (h PaymentHandler) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req paymentPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := h.Repo.Update(r.Context(), id, req.toInput()); err != nil {
		writeDomainError(w, err)
		return
	}
	writeNoContent(w)
}

func (h PaymentHandler) delete(w http.ResponseWriter, r *http.Request) {
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

// methods exposes the closed payment-method enumeration as
// {value, text} pairs.
func (h PaymentHandler) methods(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, domain.PaymentMethodOptions())
}
