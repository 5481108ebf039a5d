package service

import (
	"context"
	"time"

	"github.com/sangkips/invoice-console/internal/config"
	"github.com/sangkips/invoice-console/internal/domain/entity"
	"github.com/sangkips/invoice-console/internal/domain/repository"
	"github.com/sangkips/invoice-console/pkg/apperror"
	"github.com/sirupsen/logrus"
)

// ResourceService handles catalog entity operations. Each call maps to one
// backend request and failures are logged before being returned.
type ResourceService[T any] struct {
	repo          repository.ResourceRepository[T]
	logger        logrus.FieldLogger
	module        string
	resource      string
	listTimeout   time.Duration
	submitTimeout time.Duration
}

type (
	MerchantService = ResourceService[entity.Merchant]
	CustomerService = ResourceService[entity.Customer]
	ProductService  = ResourceService[entity.Product]
	TaxService      = ResourceService[entity.Tax]
	DiscountService = ResourceService[entity.Discount]
)

// NewResourceService creates a service for the named resource
func NewResourceService[T any](repo repository.ResourceRepository[T], resource string, cfg *config.APIConfig, logger logrus.FieldLogger) *ResourceService[T] {
	return &ResourceService[T]{
		repo:          repo,
		logger:        logger,
		module:        resource + "_service",
		resource:      resource,
		listTimeout:   cfg.ListTimeout,
		submitTimeout: cfg.SubmitTimeout,
	}
}

// List returns every record of the resource
func (s *ResourceService[T]) List(ctx context.Context) ([]T, error) {
	ctx, cancel := withTimeout(ctx, s.listTimeout)
	defer cancel()

	items, err := s.repo.List(ctx)
	if err != nil {
		config.LogError(s.logger, s.module, "List", "Failed to fetch "+s.resource+" list", nil, err)
		return nil, err
	}
	return items, nil
}

// Get retrieves one record by ID
func (s *ResourceService[T]) Get(ctx context.Context, id int64) (*T, error) {
	ctx, cancel := withTimeout(ctx, s.listTimeout)
	defer cancel()

	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		config.LogError(s.logger, s.module, "Get", "Failed to fetch "+s.resource, id, err)
		return nil, err
	}
	if item == nil {
		return nil, apperror.NewNotFoundError(s.resource)
	}
	return item, nil
}

// Create adds a new record
func (s *ResourceService[T]) Create(ctx context.Context, item *T) error {
	ctx, cancel := withTimeout(ctx, s.submitTimeout)
	defer cancel()

	if err := s.repo.Create(ctx, item); err != nil {
		config.LogError(s.logger, s.module, "Create", "Failed to create "+s.resource, item, err)
		return err
	}
	return nil
}

// Update replaces the record with the given ID
func (s *ResourceService[T]) Update(ctx context.Context, id int64, item *T) error {
	ctx, cancel := withTimeout(ctx, s.submitTimeout)
	defer cancel()

	if err := s.repo.Update(ctx, id, item); err != nil {
		config.LogError(s.logger, s.module, "Update", "Failed to update "+s.resource, item, err)
		return err
	}
	return nil
}

// Delete removes the record with the given ID
func (s *ResourceService[T]) Delete(ctx context.Context, id int64) error {
	ctx, cancel := withTimeout(ctx, s.submitTimeout)
	defer cancel()

	if err := s.repo.Delete(ctx, id); err != nil {
		config.LogError(s.logger, s.module, "Delete", "Failed to delete "+s.resource, id, err)
		return err
	}
	return nil
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
