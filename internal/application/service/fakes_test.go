package service

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/sangkips/invoice-console/internal/config"
	"github.com/sangkips/invoice-console/internal/domain/entity"
	"github.com/sirupsen/logrus"
)

var errBackend = errors.New("backend responded 500")

type fakeResources[T any] struct {
	mu      sync.Mutex
	items   []T
	listErr error
	created []T
	failOn  func(T) bool
}

func (f *fakeResources[T]) List(context.Context) ([]T, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]T{}, f.items...), nil
}

func (f *fakeResources[T]) GetByID(context.Context, int64) (*T, error) {
	return nil, nil
}

func (f *fakeResources[T]) Create(_ context.Context, item *T) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failOn != nil && f.failOn(*item) {
		return errBackend
	}
	f.created = append(f.created, *item)
	return nil
}

func (f *fakeResources[T]) Update(context.Context, int64, *T) error { return nil }
func (f *fakeResources[T]) Delete(context.Context, int64) error     { return nil }

type fakeInvoices struct {
	mu          sync.Mutex
	invoices    []entity.Invoice
	items       map[string][]entity.InvoiceItem
	listErr     error
	itemsErr    error
	getErr      error
	deleteErr   error
	previewErr  error
	createErr   error
	download    []byte
	downloadErr error
	deleted     []string
	previews    int
	created     []entity.Invoice
	updated     map[string]entity.Invoice
	// previewHook runs while a preview request is in flight
	previewHook func()
	// createHook runs while a create request is in flight
	createHook func()
}

func (f *fakeInvoices) List(context.Context) ([]entity.Invoice, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.invoices, nil
}

func (f *fakeInvoices) GetByID(_ context.Context, id string) (*entity.Invoice, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, inv := range f.invoices {
		if inv.ID == id {
			inv := inv
			return &inv, nil
		}
	}
	return nil, nil
}

func (f *fakeInvoices) Create(_ context.Context, invoice *entity.Invoice) error {
	if f.createHook != nil {
		f.createHook()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, *invoice)
	return nil
}

func (f *fakeInvoices) Update(_ context.Context, id string, invoice *entity.Invoice) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updated == nil {
		f.updated = map[string]entity.Invoice{}
	}
	f.updated[id] = *invoice
	return nil
}

func (f *fakeInvoices) Delete(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return f.deleteErr
}

func (f *fakeInvoices) Preview(context.Context, *entity.Invoice) (*entity.InvoicePreview, error) {
	f.mu.Lock()
	f.previews++
	hook := f.previewHook
	f.mu.Unlock()
	if hook != nil {
		hook()
	}
	if f.previewErr != nil {
		return nil, f.previewErr
	}
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

func testAPIConfig() *config.APIConfig {
	return &config.APIConfig{
		ListTimeout:     time.Second,
		OptionsTimeout:  time.Second,
		PreviewTimeout:  time.Second,
		SubmitTimeout:   time.Second,
		DownloadTimeout: time.Second,
	}
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
