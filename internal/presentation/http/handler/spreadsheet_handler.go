package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/invoice-console/internal/application/service"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	// maxImportErrors caps the row errors shown after an import.
	maxImportErrors = 10
)

// SpreadsheetHandler imports products from and exports invoices to xlsx.
type SpreadsheetHandler struct {
	console     *Console
	spreadsheet *service.SpreadsheetService
}

// NewSpreadsheetHandler creates a new spreadsheet handler
func NewSpreadsheetHandler(console *Console, spreadsheet *service.SpreadsheetService) *SpreadsheetHandler {
	return &SpreadsheetHandler{console: console, spreadsheet: spreadsheet}
}

// ImportProducts creates one product per row of the uploaded workbook.
func (h *SpreadsheetHandler) ImportProducts(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		h.console.flash(c, service.FlashError, "Please choose an Excel file to import")
		seeOther(c, "/product")
		return
	}

	src, err := file.Open()
	if err != nil {
		h.console.flash(c, service.FlashError, "The uploaded file could not be read")
		seeOther(c, "/product")
		return
	}
	defer src.Close()

	result, err := h.spreadsheet.ImportProducts(c.Request.Context(), src)
	if err != nil {
		h.console.flashError(c, "Failed to import products", err)
		seeOther(c, "/product")
		return
	}

	kind := service.FlashSuccess
	if result.Failed > 0 {
		kind = service.FlashError
	}
	h.console.flash(c, kind, fmt.Sprintf("Imported %d of %d products", result.Successful, result.TotalRows))
	for i, rowErr := range result.Errors {
		if i == maxImportErrors {
			h.console.flash(c, service.FlashError, fmt.Sprintf("... and %d more rows with errors", len(result.Errors)-i))
			break
		}
		h.console.flash(c, service.FlashError, fmt.Sprintf("Row %d: %s", rowErr.Row, rowErr.Message))
	}
	seeOther(c, "/product")
}

// ExportInvoices downloads the invoice list as a workbook.
func (h *SpreadsheetHandler) ExportInvoices(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.spreadsheet.ExportInvoices(c.Request.Context(), &buf); err != nil {
		h.console.flashError(c, "Failed to export invoices", err)
		seeOther(c, "/invoice")
		return
	}

	filename := "invoices-" + time.Now().Format("20060102") + ".xlsx"
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
