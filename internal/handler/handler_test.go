package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/WorkflowDigitalltd/ac-crm/internal/domain"
	"github.com/WorkflowDigitalltd/ac-crm/internal/repository"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubHealth struct {
	err error
}

func (s stubHealth) Health(ctx context.Context) error { return s.err }

func TestHealthEndpoint(t *testing.T) {
	r := chi.NewRouter()
	HealthHandler{DB: stubHealth{}}.RegisterRoutes(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestHealthEndpointDegraded(t *testing.T) {
	r := chi.NewRouter()
	HealthHandler{DB: stubHealth{err: errors.New("connection refused")}}.RegisterRoutes(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "degraded", body["status"])
}

func TestPaymentMethodsEndpoint(t *testing.T) {
	r := chi.NewRouter()
	PaymentHandler{}.RegisterRoutes(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/payments/methods", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Status string `json:"status"`
		Data   []struct {
			Value int    `json:"value"`
			Text  string `json:"text"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
	require.Len(t, body.Data, 8)
	assert.Equal(t, 1, body.Data[0].Value)
	assert.Equal(t, "Cash", body.Data[0].Text)
	assert.Equal(t, "Other", body.Data[7].Text)
}

func TestExpenseCategoriesEndpoint(t *testing.T) {
	r := chi.NewRouter()
	ExpenseHandler{}.RegisterRoutes(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/expenses/categories", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Data []struct {
			Value int    `json:"value"`
			Text  string `json:"text"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Data, 20)
	assert.Equal(t, "Uncategorized", body.Data[0].Text)
	assert.Equal(t, 19, body.Data[19].Value)
}

func TestWriteDomainErrorTaxonomy(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"missing row", repository.ErrNotFound, http.StatusNotFound, "not found"},
		{"business rule", domain.Invalidf("Payment amount must be greater than zero"), http.StatusBadRequest, "Payment amount must be greater than zero"},
		{"stale write", repository.ErrConflict, http.StatusConflict, "resource was modified concurrently"},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, "boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeDomainError(rec, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			var body apiResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, "error", body.Status)
			assert.Equal(t, tt.wantMsg, body.Message)
			require.NotNil(t, body.Error)
			assert.Equal(t, tt.wantStatus, body.Error.Code)
		})
	}
}

func TestParseDateQuery(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/expenses?startDate=2024-03-01", nil)
	got, err := parseDateQuery(req, "startDate")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "2024-03-01", got.Format(dateLayout))

	absent, err := parseDateQuery(req, "endDate")
	require.NoError(t, err)
	assert.Nil(t, absent)

	bad := httptest.NewRequest(http.MethodGet, "/api/expenses?startDate=01/03/2024", nil)
	_, err = parseDateQuery(bad, "startDate")
	assert.Error(t, err)
}

func TestIntQuery(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/expenses/summary/monthly?year=2024&category=oops", nil)
	assert.Equal(t, 2024, intQuery(req, "year"))
	assert.Equal(t, 0, intQuery(req, "category"))
	assert.Equal(t, 0, intQuery(req, "missing"))
}
