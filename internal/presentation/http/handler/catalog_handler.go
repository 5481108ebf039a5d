package handler

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/sangkips/invoice-console/internal/application/service"
	"github.com/sangkips/invoice-console/internal/infrastructure/backend"
	"github.com/sangkips/invoice-console/internal/presentation/http/dto/request"
	"github.com/sangkips/invoice-console/internal/presentation/http/view"
	"github.com/sangkips/invoice-console/pkg/apperror"
	"github.com/sangkips/invoice-console/pkg/pagination"
)

// EntityForm is a posted form that converts to a T without identity.
type EntityForm[T any] interface {
	Entity() T
}

// Section is the list and add/edit form of one catalog entity.
type Section[T any] struct {
	Key     string // query value of ?form= and prefix of the paging parameters
	Name    string
	Heading string
	Base    string
	Service *service.ResourceService[T]
	Columns []string
	Cells   func(T) []string
	ID      func(T) int64
	SetID   func(*T, int64)
	Blank   func() EntityForm[T]
	Prefill func(T) EntityForm[T]
}

// modalState is an entity form re-rendered after a failed submission.
type modalState struct {
	key   string
	modal *view.Modal
}

type catalogSection interface {
	key() string
	build(c *gin.Context, pagePath string) (view.Table, *view.Modal, []view.Flash)
	register(r gin.IRoutes, page *CatalogHandler)
}

// CatalogHandler serves a page of one or more entity sections.
type CatalogHandler struct {
	console   *Console
	title     string
	path      string
	importURL string
	sections  []catalogSection
}

// NewCatalogHandler creates a page handler for sections shown at path.
func NewCatalogHandler(console *Console, title, path string, sections ...catalogSection) *CatalogHandler {
	return &CatalogHandler{console: console, title: title, path: path, sections: sections}
}

// WithImport shows the spreadsheet upload form posting to url.
func (h *CatalogHandler) WithImport(url string) *CatalogHandler {
	h.importURL = url
	return h
}

// Register adds the page and the routes of every section.
func (h *CatalogHandler) Register(r gin.IRoutes) {
	r.GET(h.path, h.Show)
	for _, s := range h.sections {
		s.register(r, h)
	}
}

// Show renders the page, with the form named by ?form= open.
func (h *CatalogHandler) Show(c *gin.Context) {
	h.renderPage(c, http.StatusOK, nil)
}

func (h *CatalogHandler) renderPage(c *gin.Context, status int, failed *modalState) {
	data := view.CatalogPage{ImportURL: h.importURL}
	var extra []view.Flash
	for _, s := range h.sections {
		table, modal, flashes := s.build(c, h.path)
		data.Sections = append(data.Sections, table)
		extra = append(extra, flashes...)
		if failed != nil && failed.key == s.key() {
			modal = failed.modal
		}
		if modal != nil {
			data.Modal = modal
		}
	}
	h.console.render(c, status, "catalog.html", h.title, data, extra...)
}

// returnURL is the page with its paging parameters but no open form.
func (h *CatalogHandler) returnURL(c *gin.Context) string {
	ref, err := url.Parse(c.Request.Referer())
	if err != nil || ref.Path != h.path {
		return h.path
	}
	q := ref.Query()
	q.Del("form")
	q.Del("id")
	if len(q) == 0 {
		return h.path
	}
	return h.path + "?" + q.Encode()
}

func (s *Section[T]) key() string { return s.Key }

func (s *Section[T]) build(c *gin.Context, pagePath string) (view.Table, *view.Modal, []view.Flash) {
	var flashes []view.Flash
	items, err := s.Service.List(c.Request.Context())
	if err != nil {
		flashes = append(flashes, view.Flash{
			Kind:    service.FlashError,
			Message: errorMessage("Failed to load "+s.Name+" list", err),
		})
		items = nil
	}

	query := c.Request.URL.Query()
	page := pagination.Paginate(items, view.ParamsFor(s.Key, query))

	table := view.Table{
		Key:      s.Key,
		Heading:  s.Heading,
		AddLabel: "Add " + s.Name,
		AddURL:   withQuery(pagePath, query, "form", s.Key, "id", ""),
		Columns:  s.Columns,
		Pager:    view.NewPager(s.Key, pagePath, query, page.Pagination),
	}
	for _, item := range page.Items {
		id := strconv.FormatInt(s.ID(item), 10)
		table.Rows = append(table.Rows, view.Row{
			Cells:     s.Cells(item),
			EditURL:   withQuery(pagePath, query, "form", s.Key, "id", id),
			DeleteURL: s.Base + "/" + id + "/delete",
		})
	}

	if query.Get("form") != s.Key {
		return table, nil, flashes
	}
	cancelURL := withQuery(pagePath, query, "form", "", "id", "")
	rawID := query.Get("id")
	if rawID == "" {
		return table, s.modal(0, s.Blank(), nil, cancelURL), flashes
	}
	id, _ := strconv.ParseInt(rawID, 10, 64)
	item, found := lo.Find(items, func(it T) bool { return s.ID(it) == id })
	if !found {
		flashes = append(flashes, view.Flash{Kind: service.FlashError, Message: s.Name + " not found"})
		return table, nil, flashes
	}
	return table, s.modal(id, s.Prefill(item), nil, cancelURL), flashes
}

// modal builds the add form (id 0) or the edit form of record id.
func (s *Section[T]) modal(id int64, form EntityForm[T], fieldErrors []apperror.FieldError, cancelURL string) *view.Modal {
	errs := apperror.FieldMap(fieldErrors)
	m := &view.Modal{
		Title:          "Add " + s.Name,
		Action:         s.Base,
		OKLabel:        "Submit",
		CancelURL:      cancelURL,
		IdempotencyKey: uuid.NewString(),
	}
	if id != 0 {
		m.Title = "Edit " + s.Name
		m.Action = s.Base + "/" + strconv.FormatInt(id, 10)
		m.OKLabel = "Save"
	}
	for _, f := range request.Describe(form) {
		m.Fields = append(m.Fields, view.Field{
			Name:     f.Name,
			Label:    f.Label,
			Type:     f.Input,
			Value:    f.Value,
			Error:    errs[f.Name],
			Required: f.Required,
		})
	}
	return m
}

func (s *Section[T]) register(r gin.IRoutes, page *CatalogHandler) {
	r.POST(s.Base, func(c *gin.Context) { s.create(c, page) })
	r.POST(s.Base+"/:id", func(c *gin.Context) { s.update(c, page) })
	r.POST(s.Base+"/:id/delete", func(c *gin.Context) { s.delete(c, page) })
}

func (s *Section[T]) create(c *gin.Context, page *CatalogHandler) {
	form := s.Blank()
	if fieldErrors := request.Bind(c, form); len(fieldErrors) > 0 {
		s.failed(c, page, 0, form, fieldErrors, http.StatusUnprocessableEntity)
		return
	}

	item := form.Entity()
	if err := s.Service.Create(c.Request.Context(), &item); err != nil {
		page.console.flashError(c, "Failed to add "+s.Name, err)
		s.failed(c, page, 0, form, nil, backend.AsAppError(err).Code)
		return
	}

	page.console.flash(c, service.FlashSuccess, s.Name+" added")
	seeOther(c, page.returnURL(c))
}

func (s *Section[T]) update(c *gin.Context, page *CatalogHandler) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		page.console.flash(c, service.FlashError, s.Name+" not found")
		seeOther(c, page.path)
		return
	}

	form := s.Blank()
	if fieldErrors := request.Bind(c, form); len(fieldErrors) > 0 {
		s.failed(c, page, id, form, fieldErrors, http.StatusUnprocessableEntity)
		return
	}

	item := form.Entity()
	s.SetID(&item, id)
	if err := s.Service.Update(c.Request.Context(), id, &item); err != nil {
		page.console.flashError(c, "Failed to save "+s.Name, err)
		s.failed(c, page, id, form, nil, backend.AsAppError(err).Code)
		return
	}

	page.console.flash(c, service.FlashSuccess, s.Name+" saved")
	seeOther(c, page.returnURL(c))
}

// delete removes the record and returns to the list, which is loaded again
// whether or not the removal succeeded.
func (s *Section[T]) delete(c *gin.Context, page *CatalogHandler) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err == nil {
		err = s.Service.Delete(c.Request.Context(), id)
	}
	if err != nil {
		page.console.flashError(c, "Failed to delete "+s.Name, err)
	} else {
		page.console.flash(c, service.FlashSuccess, s.Name+" deleted")
	}
	seeOther(c, page.returnURL(c))
}

// failed renders the page again with the submitted form still open.
func (s *Section[T]) failed(c *gin.Context, page *CatalogHandler, id int64, form EntityForm[T], fieldErrors []apperror.FieldError, status int) {
	modal := s.modal(id, form, fieldErrors, page.returnURL(c))
	page.renderPage(c, status, &modalState{key: s.Key, modal: modal})
}

// withQuery copies query and sets the given key/value pairs. Empty values
// remove the key.
func withQuery(path string, query url.Values, pairs ...string) string {
	q := url.Values{}
	for k, v := range query {
		q[k] = v
	}
	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i+1] == "" {
			q.Del(pairs[i])
			continue
		}
		q.Set(pairs[i], pairs[i+1])
	}
	if len(q) == 0 {
		return path
	}
	return path + "?" + q.Encode()
}
