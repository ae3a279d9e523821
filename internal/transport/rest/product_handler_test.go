package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"inventoryservice/internal/inventory"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(seed ...inventory.Product) (*gin.Engine, *inventory.MemoryStore) {
	store := inventory.NewMemoryStore(seed...)
	ledger := inventory.NewLedger(store, inventory.NewValidation(), zap.NewNop())
	return NewRouter(NewProductHandler(ledger, zap.NewNop()), zap.NewNop()), store
}

func keyboard(id int64, quantity int) inventory.Product {
	return inventory.Product{
		ID:                id,
		Name:              "Keyboard",
		Description:       "Mechanical keyboard",
		AvailableQuantity: quantity,
		Price:             decimal.RequireFromString("49.90"),
	}
}

func serve(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeAPIError(t *testing.T, rec *httptest.ResponseRecorder) APIError {
	t.Helper()
	var apiErr APIError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiErr))
	return apiErr
}

func TestHealth(t *testing.T) {
	router, _ := newTestRouter()

	rec := serve(router, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())
}

func TestCreateProduct(t *testing.T) {
	// Arrange
	router, store := newTestRouter()

	// Act
	rec := serve(router, http.MethodPost, "/api/v1/products",
		`{"name":"Mouse","description":"Wireless mouse","availableQuantity":25,"price":19.99}`)

	// Assert
	require.Equal(t, http.StatusCreated, rec.Code)
	var created inventory.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, "Mouse", created.Name)
	assert.True(t, decimal.RequireFromString("19.99").Equal(created.Price))

	stored, err := store.FindByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, 25, stored.AvailableQuantity)
}

func TestCreateProduct_BadRequests(t *testing.T) {
	testCases := []struct {
		name string
		body string
	}{
		{"zero quantity", `{"name":"Mouse","description":"d","availableQuantity":0,"price":1}`},
		{"blank name", `{"name":" ","description":"d","availableQuantity":1,"price":1}`},
		{"malformed json", `{"name":`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			router, _ := newTestRouter()

			rec := serve(router, http.MethodPost, "/api/v1/products", tc.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			apiErr := decodeAPIError(t, rec)
			assert.Equal(t, http.StatusBadRequest, apiErr.Status)
			assert.Equal(t, "Bad Request", apiErr.Error)
			assert.Equal(t, "/api/v1/products", apiErr.Path)
		})
	}
}

func TestGetProduct(t *testing.T) {
	router, _ := newTestRouter(keyboard(1, 10))

	rec := serve(router, http.MethodGet, "/api/v1/products/1", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var p inventory.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	assert.Equal(t, "Keyboard", p.Name)
}

func TestGetProduct_NotFound(t *testing.T) {
	router, _ := newTestRouter()

	rec := serve(router, http.MethodGet, "/api/v1/products/999", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	apiErr := decodeAPIError(t, rec)
	assert.Equal(t, "Not Found", apiErr.Error)
	assert.Contains(t, apiErr.Message, "999")
	assert.Equal(t, "/api/v1/products/999", apiErr.Path)
}

func TestGetProduct_InvalidID(t *testing.T) {
	router, _ := newTestRouter()

	rec := serve(router, http.MethodGet, "/api/v1/products/abc", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSetQuantity(t *testing.T) {
	testCases := []struct {
		name   string
		path   string
		body   string
		status int
		want   int
	}{
		{"valid", "/api/v1/products/1/quantity", `{"availableQuantity":40}`, http.StatusOK, 40},
		{"zero", "/api/v1/products/1/quantity", `{"availableQuantity":0}`, http.StatusBadRequest, 10},
		{"missing", "/api/v1/products/1/quantity", `{}`, http.StatusBadRequest, 10},
		{"unknown product", "/api/v1/products/2/quantity", `{"availableQuantity":5}`, http.StatusNotFound, 10},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			router, store := newTestRouter(keyboard(1, 10))

			rec := serve(router, http.MethodPatch, tc.path, tc.body)

			assert.Equal(t, tc.status, rec.Code)
			stored, err := store.FindByID(context.Background(), 1)
			require.NoError(t, err)
			assert.Equal(t, tc.want, stored.AvailableQuantity)
		})
	}
}

func TestReplaceProduct(t *testing.T) {
	router, store := newTestRouter(keyboard(1, 10))

	rec := serve(router, http.MethodPut, "/api/v1/products/1", `{"name":"Keyboard Pro","price":"59.00"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	stored, _ := store.FindByID(context.Background(), 1)
	assert.Equal(t, "Keyboard Pro", stored.Name)
	assert.Equal(t, 10, stored.AvailableQuantity)
}

func TestDeleteProduct(t *testing.T) {
	router, _ := newTestRouter(keyboard(1, 10))

	rec := serve(router, http.MethodDelete, "/api/v1/products/1", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = serve(router, http.MethodDelete, "/api/v1/products/1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListProducts(t *testing.T) {
	router, _ := newTestRouter(keyboard(1, 10), keyboard(2, 20), keyboard(3, 30))

	rec := serve(router, http.MethodGet, "/api/v1/products?page=0&size=2&sort=availableQuantity,asc", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var page inventory.Page
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	require.Len(t, page.Content, 2)
	assert.Equal(t, 10, page.Content[0].AvailableQuantity)
	assert.Equal(t, int64(3), page.TotalElements)
	assert.Equal(t, 2, page.TotalPages)
}

func TestListProducts_EmptyIsNoContent(t *testing.T) {
	router, _ := newTestRouter()

	rec := serve(router, http.MethodGet, "/api/v1/products", "")

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestListProducts_InvalidQuery(t *testing.T) {
	router, _ := newTestRouter(keyboard(1, 10))

	for _, query := range []string{"page=-1", "size=zero", "sort=secret,asc"} {
		rec := serve(router, http.MethodGet, "/api/v1/products?"+query, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, query)
	}
}

type failingLedger struct {
	ProductLedger
}

func (failingLedger) FindByID(context.Context, int64) (*inventory.Product, error) {
	return nil, errors.New("pool closed")
}

func TestInternalErrorsAreMasked(t *testing.T) {
	router := NewRouter(NewProductHandler(failingLedger{}, zap.NewNop()), zap.NewNop())

	rec := serve(router, http.MethodGet, "/api/v1/products/1", "")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	apiErr := decodeAPIError(t, rec)
	assert.NotContains(t, apiErr.Message, "pool closed")
}
