package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/invoice-console/internal/application/service"
	"github.com/sangkips/invoice-console/internal/config"
	"github.com/sangkips/invoice-console/internal/domain/entity"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type apiBody struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newAPIRouter(k *console) *gin.Engine {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	api := &config.APIConfig{ListTimeout: time.Second, OptionsTimeout: time.Second}
	h := NewAPIHandler(
		service.NewOptionService(k.merchants, k.customers, k.discounts, k.taxes, k.products, api, logger),
		service.NewInvoiceService(k.invoices, api, logger),
	)
	router := gin.New()
	router.GET("/api/v1/options", h.Options)
	router.GET("/api/v1/invoices", h.Invoices)
	return router
}

func TestAPIOptions(t *testing.T) {
	k := newConsole(t)
	seedOptions(k)
	router := newAPIRouter(k)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/options", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var body apiBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)

	var set service.OptionSet
	require.NoError(t, json.Unmarshal(body.Data, &set))
	require.Len(t, set.Customers, 1)
	assert.Equal(t, "Alice Tan", set.Customers[0].Label)
	assert.Equal(t, int64(5), set.Products[0].Value)
}

func TestAPIOptionsFailure(t *testing.T) {
	k := newConsole(t)
	k.taxes.listErr = errBackend
	router := newAPIRouter(k)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/options", nil))

	assert.Equal(t, http.StatusBadGateway, w.Code)
	var body apiBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Success)
}

func TestAPIInvoicesPaginates(t *testing.T) {
	k := newConsole(t)
	for i := 1; i <= 12; i++ {
		k.invoices.invoices = append(k.invoices.invoices, entity.Invoice{ID: fmt.Sprintf("INV-%d", i)})
	}
	router := newAPIRouter(k)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/invoices?page=2&per_page=10", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var body apiBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, string(body.Data), `"INV-12"`)
	assert.NotContains(t, string(body.Data), `"INV-1"`)
}
