// Package pdfdoc checks documents received from the invoicing backend before
// they are shown or handed to a browser.
package pdfdoc

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

var (
	ErrEmpty  = errors.New("pdf document is empty")
	ErrNotPDF = errors.New("document is not a pdf")
)

var header = []byte("%PDF-")

// Info describes a readable PDF document.
type Info struct {
	Pages int
	Size  int
}

// Inspect parses data and reports its page count.
func Inspect(data []byte) (*Info, error) {
	if len(data) == 0 {
		return nil, ErrEmpty
	}
	if !bytes.HasPrefix(bytes.TrimLeft(data, "\x00\t\r\n "), header) {
		return nil, ErrNotPDF
	}

	ctx, err := api.ReadContext(bytes.NewReader(data), model.NewDefaultConfiguration())
	if err != nil {
		return nil, fmt.Errorf("failed to read pdf: %w", err)
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return nil, fmt.Errorf("failed to count pdf pages: %w", err)
	}

	return &Info{Pages: ctx.PageCount, Size: len(data)}, nil
}

// Decode turns the base64 text of a preview into document bytes. A data URI
// prefix is tolerated.
func Decode(encoded string) ([]byte, error) {
	encoded = strings.TrimSpace(encoded)
	if i := strings.Index(encoded, ";base64,"); i >= 0 && strings.HasPrefix(encoded, "data:") {
		encoded = encoded[i+len(";base64,"):]
	}
	if encoded == "" {
		return nil, ErrEmpty
	}
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("invalid base64 document: %w", err)
	}
	return data, nil
}

// InspectBase64 decodes then inspects a preview document.
func InspectBase64(encoded string) (*Info, error) {
	data, err := Decode(encoded)
	if err != nil {
		return nil, err
	}
	return Inspect(data)
}
