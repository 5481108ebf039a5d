package service

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/samber/lo"
	"github.com/sangkips/invoice-console/internal/config"
	"github.com/sangkips/invoice-console/internal/domain/entity"
	"github.com/sangkips/invoice-console/pkg/apperror"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

const (
	productNameHeader = "product name"
	unitPriceHeader   = "unit price"
	exportSheet       = "Invoices"
)

// ImportResult contains the result of a product import operation
type ImportResult struct {
	TotalRows  int              `json:"total_rows"`
	Successful int              `json:"successful"`
	Failed     int              `json:"failed"`
	Errors     []ImportRowError `json:"errors,omitempty"`
}

// ImportRowError describes an error for a specific row during import
type ImportRowError struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// SpreadsheetService moves products in from and invoices out to xlsx files
type SpreadsheetService struct {
	products *ProductService
	invoices *InvoiceService
	logger   logrus.FieldLogger
}

// NewSpreadsheetService creates a new spreadsheet service
func NewSpreadsheetService(products *ProductService, invoices *InvoiceService, logger logrus.FieldLogger) *SpreadsheetService {
	return &SpreadsheetService{products: products, invoices: invoices, logger: logger}
}

// ImportProducts reads the first sheet of an xlsx workbook and creates one
// product per data row. The first row is the header and must name the
// "Product Name" and "Unit Price" columns.
func (s *SpreadsheetService) ImportProducts(ctx context.Context, r io.Reader) (*ImportResult, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, apperror.NewBadRequestError("Failed to open Excel file: " + err.Error())
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, apperror.NewBadRequestError("Unable to read sheet: " + err.Error())
	}
	if len(rows) == 0 {
		return nil, apperror.NewBadRequestError("The file has no header row")
	}

	nameCol, priceCol := -1, -1
	for i, cell := range rows[0] {
		switch strings.ToLower(strings.TrimSpace(cell)) {
		case productNameHeader:
			nameCol = i
		case unitPriceHeader:
			priceCol = i
		}
	}
	if nameCol < 0 || priceCol < 0 {
		return nil, apperror.NewBadRequestError(`The header row must contain "Product Name" and "Unit Price"`)
	}

	existing, err := s.products.List(ctx)
	if err != nil {
		return nil, err
	}
	// product name -> row number (0 for names already in the backend)
	seen := lo.SliceToMap(existing, func(p entity.Product) (string, int) {
		return strings.ToLower(strings.TrimSpace(p.ProductName)), 0
	})

	dataRows := rows[1:]
	result := &ImportResult{}
	var rowErrors []ImportRowError

	for i, row := range dataRows {
		rowNum := i + 2 // row 1 is the header
		name := strings.TrimSpace(cellAt(row, nameCol))
		price := strings.TrimSpace(cellAt(row, priceCol))
		if name == "" && price == "" {
			continue
		}
		result.TotalRows++

		if name == "" {
			rowErrors = append(rowErrors, ImportRowError{Row: rowNum, Field: "productName", Message: "Product name is required"})
			continue
		}
		if prevRow, exists := seen[strings.ToLower(name)]; exists {
			msg := fmt.Sprintf("Product '%s' already exists", name)
			if prevRow > 0 {
				msg = fmt.Sprintf("Duplicate product '%s' (same as row %d)", name, prevRow)
			}
			rowErrors = append(rowErrors, ImportRowError{Row: rowNum, Field: "productName", Message: msg})
			continue
		}
		unitPrice, err := decimal.NewFromString(price)
		if err != nil || unitPrice.IsNegative() {
			rowErrors = append(rowErrors, ImportRowError{Row: rowNum, Field: "unitPrice", Message: fmt.Sprintf("Invalid unit price '%s'", price)})
			continue
		}

		if err := s.products.Create(ctx, &entity.Product{ProductName: name, UnitPrice: unitPrice}); err != nil {
			rowErrors = append(rowErrors, ImportRowError{Row: rowNum, Field: "productName", Message: "Failed to create product: " + err.Error()})
			continue
		}
		seen[strings.ToLower(name)] = rowNum
		result.Successful++
	}

	result.Failed = len(rowErrors)
	result.Errors = rowErrors
	s.logger.WithFields(logrus.Fields{
		"total":      result.TotalRows,
		"successful": result.Successful,
		"failed":     result.Failed,
	}).Info("Product import finished")

	return result, nil
}

func cellAt(row []string, col int) string {
	if col < len(row) {
		return row[col]
	}
	return ""
}

// ExportInvoices writes the invoice list as an xlsx workbook.
func (s *SpreadsheetService) ExportInvoices(ctx context.Context, w io.Writer) error {
	invoices, err := s.invoices.List(ctx)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return err
	}

	headers := []any{"Invoice", "Created On", "Subtotal", "Total Discount", "Total Tax", "Total Price"}
	if err := f.SetSheetRow(exportSheet, "A1", &headers); err != nil {
		return err
	}

	for i, inv := range invoices {
		row := []any{
			inv.ID,
			inv.CreatedOn.Display(),
			decimalCell(inv.Subtotal),
			decimalCell(inv.TotalDiscount),
			decimalCell(inv.TotalTax),
			decimalCell(inv.TotalPrice),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		config.LogError(s.logger, "spreadsheet_service", "ExportInvoices", "Failed to write workbook", nil, err)
		return err
	}
	return nil
}

func decimalCell(d *decimal.Decimal) any {
	if d == nil {
		return ""
	}
	return d.InexactFloat64()
}
