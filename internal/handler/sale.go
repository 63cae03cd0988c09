package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/WorkflowDigitalltd/ac-crm/internal/domain"
	"github.com/WorkflowDigitalltd/ac-crm/internal/repository"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type SaleHandler struct {
	Repo repository.SaleRepository
}

func (h SaleHandler) RegisterRoutes(r chi.Router) {
	r.Get("/api/sales", h.list)
	r.Get("/api/sales/{id}", h.get)
	r.Get("/api/sales/customer/{customerId}", h.listByCustomer)
	r.Post("/api/sales", h.create)
	r.Post("/api/sales/recalculate-totals", h.recalculateTotals)
	r.Put("/api/sales/{id}", h.update)
	r.Delete("/api/sales/{id}", h.delete)
}

type saleItemPayload struct {
	ProductID                  uuid.UUID        `json:"productId"`
	Quantity                   int              `json:"quantity"`
	UnitPrice                  decimal.Decimal  `json:"unitPrice"`
	UnitRecurringPrice         *decimal.Decimal `json:"unitRecurringPrice"`
	RecurrenceOverride         *int             `json:"recurrenceOverride"`
	RecurrenceIntervalOverride *int             `json:"recurrenceIntervalOverride"`
	Notes                      *string          `json:"notes"`
}

type createSalePayload struct {
	CustomerID uuid.UUID         `json:"customerId"`
	SaleDate   time.Time         `json:"saleDate"`
	QuoteID    *uuid.UUID        `json:"quoteId"`
	Notes      *string           `json:"notes"`
	SaleItems  []saleItemPayload `json:"saleItems"`
}

type updateSalePayload struct {
	SaleDate  time.Time         `json:"saleDate"`
	Status    int               `json:"status"`
	Notes     *string           `json:"notes"`
	SaleItems []saleItemPayload `json:"saleItems"`
}

type saleItemResponse struct {
	ID                         uuid.UUID        `json:"id"`
	SaleID                     uuid.UUID        `json:"saleId"`
	ProductID                  uuid.UUID        `json:"productId"`
	Quantity                   int              `json:"quantity"`
	UnitPrice                  decimal.Decimal  `json:"unitPrice"`
	UnitRecurringPrice         *decimal.Decimal `json:"unitRecurringPrice"`
	RecurrenceOverride         *int             `json:"recurrenceOverride"`
	RecurrenceIntervalOverride *int             `json:"recurrenceIntervalOverride"`
	Notes                      *string          `json:"notes"`
	LineTotal                  decimal.Decimal  `json:"lineTotal"`
	LineRecurringTotal         *decimal.Decimal `json:"lineRecurringTotal"`
}

type saleResponse struct {
	ID                   uuid.UUID          `json:"id"`
	CustomerID           uuid.UUID          `json:"customerId"`
	CustomerName         string             `json:"customerName"`
	CustomerEmail        string             `json:"customerEmail"`
	SaleDate             time.Time          `json:"saleDate"`
	TotalAmount          decimal.Decimal    `json:"totalAmount"`
	TotalRecurringAmount decimal.Decimal    `json:"totalRecurringAmount"`
	TotalPaid            decimal.Decimal    `json:"totalPaid"`
	OutstandingBalance   decimal.Decimal    `json:"outstandingBalance"`
	Status               int                `json:"status"`
	StatusText           string             `json:"statusText"`
	QuoteID              *uuid.UUID         `json:"quoteId"`
	Notes                *string            `json:"notes"`
	SaleItems            []saleItemResponse `json:"saleItems"`
	Payments             []paymentResponse  `json:"payments"`
}

func toSaleResponse(s repository.SaleRecord) saleResponse {
	items := make([]saleItemResponse, 0, len(s.Items))
	for _, it := range s.Items {
		var override *int
		if it.RecurrenceOverride != nil {
			v := int(*it.RecurrenceOverride)
			override = &v
		}
		items = append(items, saleItemResponse{
			ID:                         it.ID,
			SaleID:                     it.SaleID,
			ProductID:                  it.ProductID,
			Quantity:                   it.Quantity,
			UnitPrice:                  it.UnitPrice,
			UnitRecurringPrice:         it.UnitRecurringPrice,
			RecurrenceOverride:         override,
			RecurrenceIntervalOverride: it.RecurrenceIntervalOverride,
			Notes:                      it.Notes,
			LineTotal:                  it.LineTotal(),
			LineRecurringTotal:         it.LineRecurringTotal(),
		})
	}
	payments := make([]paymentResponse, 0, len(s.Payments))
	for _, p := range s.Payments {
		payments = append(payments, toPaymentResponse(p))
	}
	return saleResponse{
		ID:                   s.ID,
		CustomerID:           s.CustomerID,
		CustomerName:         s.CustomerName,
		CustomerEmail:        s.CustomerEmail,
		SaleDate:             s.SaleDate,
		TotalAmount:          s.TotalAmount,
		TotalRecurringAmount: s.TotalRecurringAmount,
		TotalPaid:            s.TotalPaid,
		OutstandingBalance:   s.OutstandingBalance(),
		Status:               int(s.Status),
		StatusText:           s.Status.String(),
		QuoteID:              s.QuoteID,
		Notes:                s.Notes,
		SaleItems:            items,
		Payments:             payments,
	}
}

func toItemInputs(items []saleItemPayload) []repository.SaleItemInput {
	out := make([]repository.SaleItemInput, 0, len(items))
	for _, it := range items {
		var override *domain.RecurrenceType
		if it.RecurrenceOverride != nil {
			rt := domain.RecurrenceType(*it.RecurrenceOverride)
			override = &rt
		}
		out = append(out, repository.SaleItemInput{
			ProductID:                  it.ProductID,
			Quantity:                   it.Quantity,
			UnitPrice:                  it.UnitPrice,
			UnitRecurringPrice:         it.UnitRecurringPrice,
			RecurrenceOverride:         override,
			RecurrenceIntervalOverride: it.RecurrenceIntervalOverride,
			Notes:                      it.Notes,
		})
	}
	return out
}

func (h SaleHandler) list(w http.ResponseWriter, r *http.Request) {
	sales, err := h.Repo.List(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	resp := make([]saleResponse, 0, len(sales))
	for _, s := range sales {
		resp = append(resp, toSaleResponse(s))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h SaleHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	s, err := h.Repo.Get(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSaleResponse(*s))
}

func (h SaleHandler) listByCustomer(w http.ResponseWriter, r *http.Request) {
	customerID, err := uuidParam(r, "customerId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid customer id")
		return
	}
	sales, err := h.Repo.ListByCustomer(r.Context(), customerID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	resp := make([]saleResponse, 0, len(sales))
	for _, s := range sales {
		resp = append(resp, toSaleResponse(s))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h SaleHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createSalePayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.SaleDate.IsZero() {
		req.SaleDate = time.Now().UTC()
	}
	created, err := h.Repo.Create(r.Context(), repository.CreateSaleInput{
		CustomerID: req.CustomerID,
		SaleDate:   req.SaleDate,
		QuoteID:    req.QuoteID,
		Notes:      req.Notes,
		Items:      toItemInputs(req.SaleItems),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toSaleResponse(*created))
}

func (h SaleHandler) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req updateSalePayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	status := domain.SaleStatus(req.Status)
	if !status.Valid() {
		writeError(w, http.StatusBadRequest, "invalid status")
		return
	}
	err = h.Repo.Update(r.Context(), id, repository.UpdateSaleInput{
		SaleDate: req.SaleDate,
		Status:   status,
		Notes:    req.Notes,
		Items:    toItemInputs(req.SaleItems),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeNoContent(w)
}

func (h SaleHandler) delete(w http.ResponseWriter, r *http.Request) {
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

func (h SaleHandler) recalculateTotals(w http.ResponseWriter, r *http.Request) {
	count, err := h.Repo.RecalculateAll(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Recalculated totals for %d sales", count),
	})
}
