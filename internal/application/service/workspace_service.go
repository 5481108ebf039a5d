package service

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/invoice-console/internal/application/composer"
	"github.com/sangkips/invoice-console/internal/config"
	"github.com/sangkips/invoice-console/internal/domain/entity"
	"github.com/sangkips/invoice-console/internal/domain/repository"
	"github.com/sangkips/invoice-console/pkg/apperror"
	"github.com/sirupsen/logrus"
)

const (
	workspaceModule = "workspace_service"
	// ConfirmEndpoint names confirmed drafts in the idempotency store.
	ConfirmEndpoint = "POST /invoice/confirm"
	confirmKeyTTL   = 24 * time.Hour
)

var (
	// ErrStaleDraft is returned when the invoice form was closed, reopened
	// or changed while a request for it was running. The result is dropped.
	ErrStaleDraft = errors.New("invoice form changed while the request was running")
	// ErrNoDraft is returned when no invoice form is open.
	ErrNoDraft = apperror.NewAppError(http.StatusConflict, "The invoice form is no longer open")
)

// Flash is a one-time message shown on the next rendered page.
type Flash struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

const (
	FlashSuccess = "success"
	FlashError   = "error"
)

// FormAction is what the invoice form asked for besides saving its values.
type FormAction struct {
	AddItem    bool
	RemoveItem *int
}

// WorkspaceService keeps the console state of each browser session: the
// open invoice draft, the loaded form options and pending flash messages.
// Backend calls of one session are serialised by a lock.
type WorkspaceService struct {
	store       repository.SessionStore
	locker      repository.Locker
	idempotency repository.IdempotencyRepository
	composer    *composer.Composer
	invoices    *InvoiceService
	options     *OptionService
	sessionTTL  time.Duration
	lockTTL     time.Duration
	logger      logrus.FieldLogger
}

// NewWorkspaceService creates a new workspace service
func NewWorkspaceService(
	store repository.SessionStore,
	locker repository.Locker,
	idempotency repository.IdempotencyRepository,
	comp *composer.Composer,
	invoices *InvoiceService,
	options *OptionService,
	session *config.SessionConfig,
	logger logrus.FieldLogger,
) *WorkspaceService {
	return &WorkspaceService{
		store:       store,
		locker:      locker,
		idempotency: idempotency,
		composer:    comp,
		invoices:    invoices,
		options:     options,
		sessionTTL:  session.TTL,
		lockTTL:     session.LockTTL,
		logger:      logger,
	}
}

func draftKey(sid uuid.UUID) string   { return "console:" + sid.String() + ":draft" }
func optionsKey(sid uuid.UUID) string { return "console:" + sid.String() + ":options" }
func flashKey(sid uuid.UUID) string   { return "console:" + sid.String() + ":flash" }
func lockKey(sid uuid.UUID) string    { return "console:" + sid.String() }

// guard runs fn while holding the session lock. A second request of the
// same session gets apperror.ErrBusy instead of waiting.
func (s *WorkspaceService) guard(ctx context.Context, sid uuid.UUID, fn func() error) error {
	release, err := s.locker.Obtain(ctx, lockKey(sid), s.lockTTL)
	if errors.Is(err, repository.ErrLockNotObtained) {
		return apperror.ErrBusy
	}
	if err != nil {
		config.LogError(s.logger, workspaceModule, "guard", "Failed to obtain session lock", sid, err)
		return err
	}
	defer func() {
		// the request context may already be cancelled
		if err := release(context.WithoutCancel(ctx)); err != nil {
			config.LogError(s.logger, workspaceModule, "guard", "Failed to release session lock", sid, err)
		}
	}()
	return fn()
}

// Draft returns the open invoice draft, or nil.
func (s *WorkspaceService) Draft(ctx context.Context, sid uuid.UUID) (*composer.Draft, error) {
	var d composer.Draft
	found, err := s.store.GetObject(ctx, draftKey(sid), &d)
	if err != nil || !found {
		return nil, err
	}
	return &d, nil
}

func (s *WorkspaceService) saveDraft(ctx context.Context, sid uuid.UUID, d *composer.Draft) error {
	return s.store.SetObject(ctx, draftKey(sid), d, s.sessionTTL)
}

// OpenNew opens an empty invoice form.
func (s *WorkspaceService) OpenNew(ctx context.Context, sid uuid.UUID) (*composer.Draft, error) {
	d := composer.NewDraft()
	if err := s.saveDraft(ctx, sid, d); err != nil {
		return nil, err
	}
	return d, nil
}

// OpenEdit opens the form for an existing invoice.
func (s *WorkspaceService) OpenEdit(ctx context.Context, sid uuid.UUID, invoiceID string) (*composer.Draft, error) {
	d, err := s.invoices.OpenForEdit(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if err := s.saveDraft(ctx, sid, d); err != nil {
		return nil, err
	}
	return d, nil
}

// Close discards the open form. Results of requests still running for it
// are dropped when they arrive.
func (s *WorkspaceService) Close(ctx context.Context, sid uuid.UUID) error {
	return s.store.Delete(ctx, draftKey(sid))
}

// Options returns the last option set loaded for the session, or nil.
func (s *WorkspaceService) Options(ctx context.Context, sid uuid.UUID) (*OptionSet, error) {
	var set OptionSet
	found, err := s.store.GetObject(ctx, optionsKey(sid), &set)
	if err != nil || !found {
		return nil, err
	}
	return &set, nil
}

// RefreshOptions reloads every option list. On failure the previously
// loaded lists are kept.
func (s *WorkspaceService) RefreshOptions(ctx context.Context, sid uuid.UUID) error {
	return s.guard(ctx, sid, func() error {
		set, err := s.options.Load(ctx)
		if err != nil {
			return err
		}
		return s.store.SetObject(ctx, optionsKey(sid), set, s.sessionTTL)
	})
}

// UpdateForm stores the submitted form values and applies a row action.
func (s *WorkspaceService) UpdateForm(ctx context.Context, sid uuid.UUID, form composer.Form, action FormAction) (*composer.Draft, error) {
	d, err := s.Draft(ctx, sid)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, ErrNoDraft
	}

	d.Apply(form)
	switch {
	case action.AddItem:
		d.AddItem()
		d.Errors = nil
	case action.RemoveItem != nil:
		if err := d.RemoveItem(*action.RemoveItem); err != nil && !errors.Is(err, composer.ErrLastItem) {
			return nil, apperror.NewBadRequestError(err.Error())
		}
		d.Errors = nil
	}
	d.Version++

	if err := s.saveDraft(ctx, sid, d); err != nil {
		return nil, err
	}
	return d, nil
}

// Preview validates the open form and renders it. The outcome is stored
// only when the form did not change in the meantime.
func (s *WorkspaceService) Preview(ctx context.Context, sid uuid.UUID) (*composer.Draft, error) {
	var result *composer.Draft
	err := s.guard(ctx, sid, func() error {
		d, err := s.Draft(ctx, sid)
		if err != nil {
			return err
		}
		if d == nil {
			return ErrNoDraft
		}
		started := *d

		previewErr := s.composer.Preview(ctx, d)
		if errors.Is(previewErr, composer.ErrNotEditing) {
			result = d
			return nil
		}

		current, err := s.Draft(ctx, sid)
		if err != nil {
			return err
		}
		if !started.Same(current) {
			s.logger.WithField("session", sid).Info("Discarding preview of a changed invoice form")
			return ErrStaleDraft
		}

		if err := s.saveDraft(ctx, sid, d); err != nil {
			return err
		}
		result = d
		return previewErr
	})
	return result, err
}

// ClosePreview returns from the preview to the edit form.
func (s *WorkspaceService) ClosePreview(ctx context.Context, sid uuid.UUID) (*composer.Draft, error) {
	d, err := s.Draft(ctx, sid)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, ErrNoDraft
	}
	d.ClosePreview()
	d.Version++
	if err := s.saveDraft(ctx, sid, d); err != nil {
		return nil, err
	}
	return d, nil
}

// Confirm saves the previewed invoice identified by token. A token that was
// already confirmed succeeds without calling the backend again.
func (s *WorkspaceService) Confirm(ctx context.Context, sid uuid.UUID, token string) error {
	if token == "" {
		return composer.ErrNotPreviewed
	}
	done, err := s.idempotency.GetByKey(ctx, token, sid)
	if err != nil {
		config.LogError(s.logger, workspaceModule, "Confirm", "Failed to check idempotency key", token, err)
		return err
	}
	if done != nil && !done.IsExpired() {
		return nil
	}

	return s.guard(ctx, sid, func() error {
		d, err := s.Draft(ctx, sid)
		if err != nil {
			return err
		}
		if d == nil {
			return ErrNoDraft
		}
		if d.Preview == nil || d.Preview.Token != token {
			return composer.ErrNotPreviewed
		}
		started := *d

		if err := s.composer.Confirm(ctx, d); err != nil {
			if current, getErr := s.Draft(ctx, sid); getErr == nil && started.Same(current) {
				if saveErr := s.saveDraft(ctx, sid, d); saveErr != nil {
					return saveErr
				}
			}
			return err
		}

		record := &entity.IdempotencyKey{
			Key:          token,
			SessionID:    sid,
			Endpoint:     ConfirmEndpoint,
			ResponseCode: http.StatusSeeOther,
			Location:     "/invoice",
			ExpiresAt:    time.Now().Add(confirmKeyTTL),
		}
		if err := s.idempotency.Create(ctx, record); err != nil {
			config.LogError(s.logger, workspaceModule, "Confirm", "Failed to record confirmed invoice", token, err)
		}

		// the invoice is saved, so the modal closes even if it was edited
		// meanwhile; only a reopened modal is kept
		current, err := s.Draft(ctx, sid)
		if err != nil || current == nil || current.ID != started.ID {
			return err
		}
		return s.Close(ctx, sid)
	})
}

// AddFlash queues a message for the next rendered page.
func (s *WorkspaceService) AddFlash(ctx context.Context, sid uuid.UUID, kind, message string) {
	var flashes []Flash
	if _, err := s.store.GetObject(ctx, flashKey(sid), &flashes); err != nil {
		config.LogError(s.logger, workspaceModule, "AddFlash", "Failed to read flash messages", sid, err)
	}
	flashes = append(flashes, Flash{Kind: kind, Message: message})
	if err := s.store.SetObject(ctx, flashKey(sid), flashes, s.sessionTTL); err != nil {
		config.LogError(s.logger, workspaceModule, "AddFlash", "Failed to store flash message", sid, err)
	}
}

// PopFlashes returns and clears the queued messages.
func (s *WorkspaceService) PopFlashes(ctx context.Context, sid uuid.UUID) []Flash {
	var flashes []Flash
	found, err := s.store.GetObject(ctx, flashKey(sid), &flashes)
	if err != nil {
		config.LogError(s.logger, workspaceModule, "PopFlashes", "Failed to read flash messages", sid, err)
		return nil
	}
	if !found {
		return nil
	}
	if err := s.store.Delete(ctx, flashKey(sid)); err != nil {
		config.LogError(s.logger, workspaceModule, "PopFlashes", "Failed to clear flash messages", sid, err)
	}
	return flashes
}
