package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/invoice-console/internal/application/service"
	"github.com/sangkips/invoice-console/internal/infrastructure/backend"
	"github.com/sangkips/invoice-console/internal/presentation/http/dto/response"
	"github.com/sangkips/invoice-console/pkg/pagination"
)

// APIHandler exposes read-only console data as JSON.
type APIHandler struct {
	options  *service.OptionService
	invoices *service.InvoiceService
}

// NewAPIHandler creates a new API handler
func NewAPIHandler(options *service.OptionService, invoices *service.InvoiceService) *APIHandler {
	return &APIHandler{options: options, invoices: invoices}
}

// Options returns every option list of the invoice form
func (h *APIHandler) Options(c *gin.Context) {
	set, err := h.options.Load(c.Request.Context())
	if err != nil {
		response.Error(c, backend.AsAppError(err))
		return
	}
	response.OK(c, "Options retrieved successfully", set)
}

// Invoices returns one page of the invoice list
func (h *APIHandler) Invoices(c *gin.Context) {
	params := pagination.DefaultPagination()
	if err := c.ShouldBindQuery(params); err != nil {
		params = pagination.DefaultPagination()
	}

	invoices, err := h.invoices.List(c.Request.Context())
	if err != nil {
		response.Error(c, backend.AsAppError(err))
		return
	}
	response.SuccessWithPagination(c, http.StatusOK, "Invoices retrieved successfully", pagination.Paginate(invoices, params))
}
