package repository

import (
	"context"

	"github.com/sangkips/invoice-console/internal/domain/entity"
)

// ResourceRepository is the CRUD surface the backend exposes for every
// catalog entity. Identity is numeric.
type ResourceRepository[T any] interface {
	List(ctx context.Context) ([]T, error)
	GetByID(ctx context.Context, id int64) (*T, error)
	Create(ctx context.Context, item *T) error
	Update(ctx context.Context, id int64, item *T) error
	Delete(ctx context.Context, id int64) error
}

type (
	MerchantRepository = ResourceRepository[entity.Merchant]
	ProductRepository  = ResourceRepository[entity.Product]
	TaxRepository      = ResourceRepository[entity.Tax]
	DiscountRepository = ResourceRepository[entity.Discount]
)
