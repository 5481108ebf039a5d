// Package view renders the console pages from embedded html templates.
package view

import (
	"embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html
var templateFS embed.FS

// NavItem is one entry of the side menu.
type NavItem struct {
	Label  string
	Path   string
	Active bool
}

var menu = []NavItem{
	{Label: "Merchant", Path: "/merchant"},
	{Label: "Customer", Path: "/customer"},
	{Label: "Product", Path: "/product"},
	{Label: "Compliance", Path: "/compliance"},
	{Label: "Invoice", Path: "/invoice"},
}

// HomePath is where "/" redirects to.
const HomePath = "/merchant"

// Nav returns the menu with the entry owning path marked active.
func Nav(path string) []NavItem {
	items := make([]NavItem, len(menu))
	for i, item := range menu {
		item.Active = path == item.Path || strings.HasPrefix(path, item.Path+"/")
		items[i] = item
	}
	return items
}

// Flash is a one-time message shown above the page content.
type Flash struct {
	Kind    string
	Message string
}

// Page is the data every template receives.
type Page struct {
	Title   string
	Nav     []NavItem
	Flashes []Flash
	Data    any
}

// NewPage builds the shell of a page served at path.
func NewPage(title, path string, flashes []Flash, data any) Page {
	return Page{Title: title, Nav: Nav(path), Flashes: flashes, Data: data}
}

var funcs = template.FuncMap{
	"add": func(a, b int) int { return a + b },
}

// Parse loads every embedded template.
func Parse() (*template.Template, error) {
	return template.New("console").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
}

// Install makes the templates available to c.HTML.
func Install(engine *gin.Engine) error {
	tmpl, err := Parse()
	if err != nil {
		return fmt.Errorf("parse templates: %w", err)
	}
	engine.SetHTMLTemplate(tmpl)
	return nil
}
