package handler

import (
	"encoding/json"
	"net/http"
	"net/mail"
	"time"

	"github.com/WorkflowDigitalltd/ac-crm/internal/domain"
	"github.com/WorkflowDigitalltd/ac-crm/internal/repository"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type CustomerHandler struct {
	Repo repository.CustomerRepository
}

func (h CustomerHandler) RegisterRoutes(r chi.Router) {
	r.Get("/api/customers", h.list)
	r.Get("/api/customers/{id}", h.get)
	r.Post("/api/customers", h.create)
	r.Put("/api/customers/{id}", h.update)
	r.Delete("/api/customers/{id}", h.delete)
}

type customerPayload struct {
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Phone    *string `json:"phone"`
	Address  *string `json:"address"`
	Postcode *string `json:"postcode"`
}

type customerResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone"`
	Address   *string   `json:"address"`
	Postcode  *string   `json:"postcode"`
	CreatedAt time.Time `json:"createdAt"`
}

func toCustomerResponse(c domain.Customer) customerResponse {
	return customerResponse{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		Address:   c.Address,
		Postcode:  c.Postcode,
		CreatedAt: c.CreatedAt,
	}
}

func (p customerPayload) validate() string {
	if p.Name == "" {
		return "name is required"
	}
	if p.Email == "" {
		return "email is required"
	}
	if _, err := mail.ParseAddress(p.Email); err != nil {
		return "email is not a valid address"
	}
	return ""
}

func (h CustomerHandler) list(w http.ResponseWriter, r *http.Request) {
	items, err := h.Repo.List(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	resp := make([]customerResponse, 0, len(items))
	for _, c := range items {
		resp = append(resp, toCustomerResponse(c))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h CustomerHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	c, err := h.Repo.Get(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCustomerResponse(*c))
}

func (h CustomerHandler) create(w http.ResponseWriter, r *http.Request) {
	var req customerPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	created, err := h.Repo.Create(r.Context(), domain.Customer{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Address:  req.Address,
		Postcode: req.Postcode,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCustomerResponse(*created))
}

func (h CustomerHandler) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req customerPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	err = h.Repo.Update(r.Context(), domain.Customer{
		ID:       id,
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Address:  req.Address,
		Postcode: req.Postcode,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeNoContent(w)
}

func (h CustomerHandler) delete(w http.ResponseWriter, r *http.Request) {
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
