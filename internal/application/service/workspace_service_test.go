package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/invoice-console/internal/application/composer"
	"github.com/sangkips/invoice-console/internal/config"
	"github.com/sangkips/invoice-console/internal/domain/entity"
	"github.com/sangkips/invoice-console/internal/infrastructure/cache"
	infraRepo "github.com/sangkips/invoice-console/internal/infrastructure/repository"
	"github.com/sangkips/invoice-console/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type workspaceFixture struct {
	ws       *WorkspaceService
	invoices *fakeInvoices
	options  *optionFakes
	locker   *cache.MemoryLocker
	sid      uuid.UUID
}

func newWorkspaceFixture(t *testing.T) *workspaceFixture {
	t.Helper()
	invoices := &fakeInvoices{
		invoices: []entity.Invoice{{ID: "INV-1", MerID: 1, CusID: 2}},
		items:    map[string][]entity.InvoiceItem{"INV-1": {{ProID: 5, Quantity: 1}}},
	}
	options := newOptionFakes()
	invoiceService := newInvoiceService(invoices, false)
	locker := cache.NewMemoryLocker()

	ws := NewWorkspaceService(
		cache.NewMemoryStore(),
		locker,
		infraRepo.NewMemoryIdempotencyRepository(),
		composer.New(invoiceService, false),
		invoiceService,
		options.service(),
		&config.SessionConfig{TTL: time.Hour, LockTTL: time.Minute},
		testLogger(),
	)
	return &workspaceFixture{ws: ws, invoices: invoices, options: options, locker: locker, sid: uuid.New()}
}

func validForm() composer.Form {
	return composer.Form{MerID: 1, CusID: 2, Items: composer.LineItems{{ProID: 5, Quantity: 2}}}
}

func TestWorkspacePreviewAndConfirm(t *testing.T) {
	f := newWorkspaceFixture(t)
	ctx := context.Background()

	_, err := f.ws.OpenNew(ctx, f.sid)
	require.NoError(t, err)
	_, err = f.ws.UpdateForm(ctx, f.sid, validForm(), FormAction{})
	require.NoError(t, err)

	d, err := f.ws.Preview(ctx, f.sid)
	require.NoError(t, err)
	assert.Equal(t, composer.StatePreviewed, d.State)

	require.NoError(t, f.ws.Confirm(ctx, f.sid, d.Preview.Token))
	assert.Len(t, f.invoices.created, 1)

	closed, err := f.ws.Draft(ctx, f.sid)
	require.NoError(t, err)
	assert.Nil(t, closed)

	// a repeated submission of the same preview does not create twice
	require.NoError(t, f.ws.Confirm(ctx, f.sid, d.Preview.Token))
	assert.Len(t, f.invoices.created, 1)
}

func TestWorkspacePreviewValidationKeepsErrors(t *testing.T) {
	f := newWorkspaceFixture(t)
	ctx := context.Background()
	_, err := f.ws.OpenNew(ctx, f.sid)
	require.NoError(t, err)

	d, err := f.ws.Preview(ctx, f.sid)

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 422, appErr.Code)
	assert.Equal(t, 0, f.invoices.previews)

	stored, err := f.ws.Draft(ctx, f.sid)
	require.NoError(t, err)
	assert.Equal(t, d.Errors, stored.Errors)
	assert.Contains(t, stored.Errors, "merId")
}

func TestWorkspaceBusySessionIsRefused(t *testing.T) {
	f := newWorkspaceFixture(t)
	ctx := context.Background()
	_, err := f.ws.OpenNew(ctx, f.sid)
	require.NoError(t, err)
	_, err = f.ws.UpdateForm(ctx, f.sid, validForm(), FormAction{})
	require.NoError(t, err)

	release, err := f.locker.Obtain(ctx, lockKey(f.sid), time.Minute)
	require.NoError(t, err)
	defer release(ctx)

	_, err = f.ws.Preview(ctx, f.sid)
	assert.ErrorIs(t, err, apperror.ErrBusy)
	assert.Equal(t, 0, f.invoices.previews)

	assert.ErrorIs(t, f.ws.RefreshOptions(ctx, f.sid), apperror.ErrBusy)
}

func TestWorkspaceDiscardsPreviewOfClosedForm(t *testing.T) {
	f := newWorkspaceFixture(t)
	ctx := context.Background()
	_, err := f.ws.OpenNew(ctx, f.sid)
	require.NoError(t, err)
	_, err = f.ws.UpdateForm(ctx, f.sid, validForm(), FormAction{})
	require.NoError(t, err)

	f.invoices.previewHook = func() {
		require.NoError(t, f.ws.Close(ctx, f.sid))
		_, err := f.ws.OpenNew(ctx, f.sid)
		require.NoError(t, err)
	}

	_, err = f.ws.Preview(ctx, f.sid)
	assert.ErrorIs(t, err, ErrStaleDraft)

	reopened, err := f.ws.Draft(ctx, f.sid)
	require.NoError(t, err)
	assert.Equal(t, composer.StateEditing, reopened.State)
	assert.Nil(t, reopened.Preview)
}

func TestWorkspaceDiscardsPreviewOfChangedForm(t *testing.T) {
	f := newWorkspaceFixture(t)
	ctx := context.Background()
	_, err := f.ws.OpenNew(ctx, f.sid)
	require.NoError(t, err)
	_, err = f.ws.UpdateForm(ctx, f.sid, validForm(), FormAction{})
	require.NoError(t, err)

	f.invoices.previewHook = func() {
		_, err := f.ws.UpdateForm(ctx, f.sid, validForm(), FormAction{AddItem: true})
		require.NoError(t, err)
	}

	_, err = f.ws.Preview(ctx, f.sid)
	assert.ErrorIs(t, err, ErrStaleDraft)

	d, err := f.ws.Draft(ctx, f.sid)
	require.NoError(t, err)
	assert.Len(t, d.Form.Items, 2)
	assert.Nil(t, d.Preview)
}

func TestWorkspaceConfirmNeedsCurrentPreview(t *testing.T) {
	f := newWorkspaceFixture(t)
	ctx := context.Background()
	_, err := f.ws.OpenNew(ctx, f.sid)
	require.NoError(t, err)

	assert.ErrorIs(t, f.ws.Confirm(ctx, f.sid, ""), composer.ErrNotPreviewed)
	assert.ErrorIs(t, f.ws.Confirm(ctx, f.sid, "unknown-token"), composer.ErrNotPreviewed)
	assert.Empty(t, f.invoices.created)
}

func TestWorkspaceConfirmFailureKeepsBothModals(t *testing.T) {
	f := newWorkspaceFixture(t)
	ctx := context.Background()
	_, err := f.ws.OpenNew(ctx, f.sid)
	require.NoError(t, err)
	_, err = f.ws.UpdateForm(ctx, f.sid, validForm(), FormAction{})
	require.NoError(t, err)
	d, err := f.ws.Preview(ctx, f.sid)
	require.NoError(t, err)

	f.invoices.createErr = errBackend
	assert.ErrorIs(t, f.ws.Confirm(ctx, f.sid, d.Preview.Token), errBackend)

	stored, err := f.ws.Draft(ctx, f.sid)
	require.NoError(t, err)
	assert.Equal(t, composer.StatePreviewed, stored.State)
	assert.True(t, stored.ShowPreview())

	f.invoices.createErr = nil
	require.NoError(t, f.ws.Confirm(ctx, f.sid, d.Preview.Token))
	assert.Len(t, f.invoices.created, 1)
}

func TestWorkspaceConfirmClosesFormChangedWhileSaving(t *testing.T) {
	f := newWorkspaceFixture(t)
	ctx := context.Background()
	_, err := f.ws.OpenNew(ctx, f.sid)
	require.NoError(t, err)
	_, err = f.ws.UpdateForm(ctx, f.sid, validForm(), FormAction{})
	require.NoError(t, err)
	d, err := f.ws.Preview(ctx, f.sid)
	require.NoError(t, err)

	f.invoices.createHook = func() {
		_, err := f.ws.ClosePreview(ctx, f.sid)
		require.NoError(t, err)
	}
	require.NoError(t, f.ws.Confirm(ctx, f.sid, d.Preview.Token))
	assert.Len(t, f.invoices.created, 1)

	closed, err := f.ws.Draft(ctx, f.sid)
	require.NoError(t, err)
	assert.Nil(t, closed)

	// the saved invoice cannot be previewed and confirmed a second time
	_, err = f.ws.Preview(ctx, f.sid)
	assert.ErrorIs(t, err, ErrNoDraft)
	assert.Len(t, f.invoices.created, 1)
}

func TestWorkspaceConfirmKeepsReopenedForm(t *testing.T) {
	f := newWorkspaceFixture(t)
	ctx := context.Background()
	_, err := f.ws.OpenNew(ctx, f.sid)
	require.NoError(t, err)
	_, err = f.ws.UpdateForm(ctx, f.sid, validForm(), FormAction{})
	require.NoError(t, err)
	d, err := f.ws.Preview(ctx, f.sid)
	require.NoError(t, err)

	var reopened *composer.Draft
	f.invoices.createHook = func() {
		var err error
		reopened, err = f.ws.OpenNew(ctx, f.sid)
		require.NoError(t, err)
	}
	require.NoError(t, f.ws.Confirm(ctx, f.sid, d.Preview.Token))

	current, err := f.ws.Draft(ctx, f.sid)
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, reopened.ID, current.ID)
}

func TestWorkspaceEditConfirmUpdates(t *testing.T) {
	f := newWorkspaceFixture(t)
	ctx := context.Background()

	d, err := f.ws.OpenEdit(ctx, f.sid, "INV-1")
	require.NoError(t, err)
	assert.Len(t, d.Form.Items, 1)

	d, err = f.ws.Preview(ctx, f.sid)
	require.NoError(t, err)
	require.NoError(t, f.ws.Confirm(ctx, f.sid, d.Preview.Token))

	assert.Contains(t, f.invoices.updated, "INV-1")
	assert.Empty(t, f.invoices.created)
}

func TestWorkspaceClosePreviewKeepsForm(t *testing.T) {
	f := newWorkspaceFixture(t)
	ctx := context.Background()
	_, err := f.ws.OpenNew(ctx, f.sid)
	require.NoError(t, err)
	_, err = f.ws.UpdateForm(ctx, f.sid, validForm(), FormAction{})
	require.NoError(t, err)
	_, err = f.ws.Preview(ctx, f.sid)
	require.NoError(t, err)

	d, err := f.ws.ClosePreview(ctx, f.sid)

	require.NoError(t, err)
	assert.Equal(t, composer.StateEditing, d.State)
	assert.Equal(t, int64(1), d.Form.MerID)
}

func TestWorkspaceRemoveItemKeepsLastRow(t *testing.T) {
	f := newWorkspaceFixture(t)
	ctx := context.Background()
	_, err := f.ws.OpenNew(ctx, f.sid)
	require.NoError(t, err)

	zero := 0
	d, err := f.ws.UpdateForm(ctx, f.sid, validForm(), FormAction{RemoveItem: &zero})

	require.NoError(t, err)
	assert.Len(t, d.Form.Items, 1)
}

func TestWorkspaceUpdateFormWithoutDraft(t *testing.T) {
	f := newWorkspaceFixture(t)

	_, err := f.ws.UpdateForm(context.Background(), f.sid, validForm(), FormAction{})

	assert.ErrorIs(t, err, ErrNoDraft)
}

func TestWorkspaceOptionsKeepPreviousOnFailure(t *testing.T) {
	f := newWorkspaceFixture(t)
	ctx := context.Background()

	require.NoError(t, f.ws.RefreshOptions(ctx, f.sid))
	first, err := f.ws.Options(ctx, f.sid)
	require.NoError(t, err)
	require.Len(t, first.Merchants, 1)

	f.options.merchants.items = append(f.options.merchants.items, entity.Merchant{ID: 9, CompanyName: "New"})
	f.options.products.listErr = errBackend

	assert.ErrorIs(t, f.ws.RefreshOptions(ctx, f.sid), errBackend)
	kept, err := f.ws.Options(ctx, f.sid)
	require.NoError(t, err)
	assert.Len(t, kept.Merchants, 1)
}

func TestWorkspaceFlashes(t *testing.T) {
	f := newWorkspaceFixture(t)
	ctx := context.Background()

	f.ws.AddFlash(ctx, f.sid, FlashError, "first")
	f.ws.AddFlash(ctx, f.sid, FlashSuccess, "second")

	assert.Equal(t, []Flash{{FlashError, "first"}, {FlashSuccess, "second"}}, f.ws.PopFlashes(ctx, f.sid))
	assert.Empty(t, f.ws.PopFlashes(ctx, f.sid))
}
