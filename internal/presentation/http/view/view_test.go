package view

import (
	"bytes"
	"net/url"
	"testing"

	"github.com/sangkips/invoice-console/pkg/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNav(t *testing.T) {
	active := func(path string) []string {
		var labels []string
		for _, item := range Nav(path) {
			if item.Active {
				labels = append(labels, item.Label)
			}
		}
		return labels
	}

	assert.Equal(t, []string{"Merchant"}, active("/merchant"))
	assert.Equal(t, []string{"Invoice"}, active("/invoice/INV-1/download"))
	assert.Empty(t, active("/merchants"))
	assert.Len(t, Nav("/"), 5)
}

func TestParamsFor(t *testing.T) {
	q := url.Values{"tax_page": {"3"}, "tax_size": {"20"}, "discount_size": {"7"}}

	tax := ParamsFor("tax", q)
	assert.Equal(t, 3, tax.Page)
	assert.Equal(t, 20, tax.PerPage)

	discount := ParamsFor("discount", q)
	assert.Equal(t, 1, discount.Page)
	assert.Equal(t, pagination.DefaultPerPage, discount.PerPage)
}

func TestNewPager(t *testing.T) {
	q := url.Values{"form": {"tax"}, "id": {"4"}, "discount_page": {"2"}}
	pg := pagination.NewPagination(2, 10, 25)

	p := NewPager("tax", "/compliance", q, pg)

	require.Len(t, p.Links, 3)
	assert.True(t, p.Links[1].Current)
	assert.Equal(t, "/compliance?discount_page=2&tax_page=1&tax_size=10", p.PrevURL)
	assert.Equal(t, "/compliance?discount_page=2&tax_page=3&tax_size=10", p.NextURL)
	require.Len(t, p.Sizes, len(pagination.PageSizes))
	assert.True(t, p.Sizes[0].Current)
	assert.Equal(t, "/compliance?discount_page=2&tax_page=1&tax_size=50", p.Sizes[2].URL)
}

func TestTemplatesRender(t *testing.T) {
	tmpl, err := Parse()
	require.NoError(t, err)

	page := NewPage("Product", "/product", []Flash{{Kind: "success", Message: "Product added"}}, CatalogPage{
		Sections: []Table{{Key: "product", AddLabel: "Add Product", AddURL: "/product?form=product", Columns: []string{"Product Name", "Action(s)"}}},
		Modal: &Modal{
			Title:          "Add Product",
			Action:         "/product",
			OKLabel:        "Submit",
			CancelURL:      "/product",
			IdempotencyKey: "key-1",
			Fields:         []Field{{Name: "productName", Label: "Product Name", Type: "text", Required: true, Error: "Please enter the product name"}},
		},
		ImportURL: "/product/import",
	})

	var buf bytes.Buffer
	require.NoError(t, tmpl.ExecuteTemplate(&buf, "catalog.html", page))
	html := buf.String()
	assert.Contains(t, html, "<title>Product | Invoice Console</title>")
	assert.Contains(t, html, `class="flash flash-success"`)
	assert.Contains(t, html, "No data")
	assert.Contains(t, html, `value="key-1"`)
	assert.Contains(t, html, `<em class="required">*</em>Product Name`)
	assert.Contains(t, html, "Please enter the product name")
	assert.Contains(t, html, "Import from Excel")
}
