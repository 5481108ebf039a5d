package pdfdoc

import (
	"bytes"
	"encoding/base64"
	"testing"

	"github.com/jung-kurt/gofpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePDF(t *testing.T, pages int) []byte {
	t.Helper()
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	for i := 0; i < pages; i++ {
		pdf.AddPage()
		pdf.Cell(40, 10, "Invoice INV-1")
	}
	var buf bytes.Buffer
	require.NoError(t, pdf.Output(&buf))
	return buf.Bytes()
}

func TestInspect(t *testing.T) {
	data := samplePDF(t, 1)

	info, err := Inspect(data)

	require.NoError(t, err)
	assert.GreaterOrEqual(t, info.Pages, 1)
	assert.Equal(t, len(data), info.Size)
}

func TestInspectRejectsNonPDF(t *testing.T) {
	_, err := Inspect([]byte(`{"error":"boom"}`))
	assert.ErrorIs(t, err, ErrNotPDF)

	_, err = Inspect(nil)
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestInspectBase64(t *testing.T) {
	data := samplePDF(t, 1)
	encoded := base64.StdEncoding.EncodeToString(data)

	info, err := InspectBase64(encoded)
	require.NoError(t, err)
	assert.Equal(t, len(data), info.Size)

	info, err = InspectBase64("data:application/pdf;base64," + encoded)
	require.NoError(t, err)
	assert.Equal(t, len(data), info.Size)
}

func TestDecodeErrors(t *testing.T) {
	_, err := Decode("   ")
	assert.ErrorIs(t, err, ErrEmpty)

	_, err = Decode("%%%")
	assert.Error(t, err)
}
