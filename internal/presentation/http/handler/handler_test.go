package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/invoice-console/internal/application/composer"
	"github.com/sangkips/invoice-console/internal/application/service"
	"github.com/sangkips/invoice-console/internal/config"
	"github.com/sangkips/invoice-console/internal/domain/entity"
	"github.com/sangkips/invoice-console/internal/infrastructure/cache"
	infraRepo "github.com/sangkips/invoice-console/internal/infrastructure/repository"
	"github.com/sangkips/invoice-console/internal/presentation/http/dto/request"
	"github.com/sangkips/invoice-console/internal/presentation/http/middleware"
	"github.com/sangkips/invoice-console/internal/presentation/http/view"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

var errBackend = errors.New("backend responded 500")

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeCatalog[T any] struct {
	mu        sync.Mutex
	items     []T
	listErr   error
	createErr error
	deleteErr error
	lists     int
	created   []T
	updated   map[int64]T
	deleted   []int64
}

func (f *fakeCatalog[T]) List(context.Context) ([]T, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]T{}, f.items...), nil
}

func (f *fakeCatalog[T]) GetByID(context.Context, int64) (*T, error) { return nil, nil }

func (f *fakeCatalog[T]) Create(_ context.Context, item *T) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, *item)
	return nil
}

func (f *fakeCatalog[T]) Update(_ context.Context, id int64, item *T) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updated == nil {
		f.updated = map[int64]T{}
	}
	f.updated[id] = *item
	return nil
}

func (f *fakeCatalog[T]) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	return f.deleteErr
}

type fakeInvoices struct {
	mu          sync.Mutex
	invoices    []entity.Invoice
	items       map[string][]entity.InvoiceItem
	listErr     error
	itemsErr    error
	deleteErr   error
	download    []byte
	downloadErr error
	created     []entity.Invoice
	deleted     []string
	lists       int
}

func (f *fakeInvoices) List(context.Context) ([]entity.Invoice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.invoices, nil
}

func (f *fakeInvoices) GetByID(_ context.Context, id string) (*entity.Invoice, error) {
	for _, inv := range f.invoices {
		if inv.ID == id {
			inv := inv
			return &inv, nil
		}
	}
	return nil, nil
}

func (f *fakeInvoices) Create(_ context.Context, invoice *entity.Invoice) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, *invoice)
	return nil
}

func (f *fakeInvoices) Update(context.Context, string, *entity.Invoice) error { return nil }

func (f *fakeInvoices) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	return f.deleteErr
}

func (f *fakeInvoices) Preview(context.Context, *entity.Invoice) (*entity.InvoicePreview, error) {
	return &entity.InvoicePreview{PDF: "JVBERi0="}, nil
}

func (f *fakeInvoices) Download(context.Context, string) ([]byte, error) {
	return f.download, f.downloadErr
}

func (f *fakeInvoices) ListItems(_ context.Context, id string) ([]entity.InvoiceItem, error) {
	if f.itemsErr != nil {
		return nil, f.itemsErr
	}
	return f.items[id], nil
}

// console is a test server with every page registered for one session.
type console struct {
	router    *gin.Engine
	workspace *service.WorkspaceService
	sid       uuid.UUID

	merchants *fakeCatalog[entity.Merchant]
	customers *fakeCatalog[entity.Customer]
	products  *fakeCatalog[entity.Product]
	taxes     *fakeCatalog[entity.Tax]
	discounts *fakeCatalog[entity.Discount]
	invoices  *fakeInvoices
}

func newConsole(t *testing.T) *console {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	api := &config.APIConfig{
		ListTimeout:     time.Second,
		OptionsTimeout:  time.Second,
		PreviewTimeout:  time.Second,
		SubmitTimeout:   time.Second,
		DownloadTimeout: time.Second,
	}

	k := &console{
		sid:       uuid.New(),
		merchants: &fakeCatalog[entity.Merchant]{},
		customers: &fakeCatalog[entity.Customer]{},
		products:  &fakeCatalog[entity.Product]{},
		taxes:     &fakeCatalog[entity.Tax]{},
		discounts: &fakeCatalog[entity.Discount]{},
		invoices:  &fakeInvoices{},
	}

	invoiceService := service.NewInvoiceService(k.invoices, api, logger)
	options := service.NewOptionService(k.merchants, k.customers, k.discounts, k.taxes, k.products, api, logger)
	k.workspace = service.NewWorkspaceService(
		cache.NewMemoryStore(),
		cache.NewMemoryLocker(),
		infraRepo.NewMemoryIdempotencyRepository(),
		composer.New(invoiceService, false),
		invoiceService,
		options,
		&config.SessionConfig{TTL: time.Hour, LockTTL: time.Minute},
		logger,
	)
	shared := NewConsole(k.workspace, logger)
	products := service.NewResourceService[entity.Product](k.products, "product", api, logger)

	router := gin.New()
	request.RegisterValidation()
	require.NoError(t, view.Install(router))
	router.Use(func(c *gin.Context) {
		c.Set(middleware.SessionIDKey, k.sid)
		c.Next()
	})

	router.GET("/", Home)
	NewMerchantHandler(shared, service.NewResourceService[entity.Merchant](k.merchants, "merchant", api, logger)).Register(router)
	NewCustomerHandler(shared, service.NewResourceService[entity.Customer](k.customers, "customer", api, logger)).Register(router)
	NewProductHandler(shared, products).Register(router)
	NewComplianceHandler(shared,
		service.NewResourceService[entity.Tax](k.taxes, "tax", api, logger),
		service.NewResourceService[entity.Discount](k.discounts, "discount", api, logger),
	).Register(router)

	invoices := NewInvoiceHandler(shared, invoiceService, k.workspace)
	spreadsheets := NewSpreadsheetHandler(shared, service.NewSpreadsheetService(products, invoiceService, logger))
	group := router.Group("/invoice")
	group.GET("", invoices.List)
	group.GET("/export", spreadsheets.ExportInvoices)
	group.POST("/new", invoices.New)
	group.POST("/form", invoices.Form)
	group.POST("/form/close", invoices.CloseForm)
	group.POST("/preview/close", invoices.ClosePreview)
	group.POST("/confirm", invoices.Confirm)
	group.POST("/:id/edit", invoices.Edit)
	group.POST("/:id/delete", invoices.Delete)
	group.GET("/:id/download", invoices.Download)
	router.POST("/product/import", spreadsheets.ImportProducts)

	k.router = router
	return k
}

func (k *console) get(t *testing.T, target string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	k.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func (k *console) post(t *testing.T, target string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	k.router.ServeHTTP(w, req)
	return w
}

// postRedirect posts form and requires a 303 to location.
func (k *console) postRedirect(t *testing.T, target string, form url.Values, location string) {
	t.Helper()
	w := k.post(t, target, form)
	require.Equal(t, http.StatusSeeOther, w.Code, w.Body.String())
	require.Equal(t, location, w.Header().Get("Location"))
}
