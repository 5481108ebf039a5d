package repository

import (
	"context"
	"strconv"

	"github.com/sangkips/invoice-console/internal/domain/entity"
	domainRepo "github.com/sangkips/invoice-console/internal/domain/repository"
	"github.com/sangkips/invoice-console/internal/infrastructure/backend"
)

// remoteRepository maps each CRUD verb of a catalog entity to one backend call.
type remoteRepository[T any] struct {
	client    *backend.Client
	endpoints backend.Endpoints
}

// NewRemoteRepository creates a repository backed by the given endpoints
func NewRemoteRepository[T any](client *backend.Client, endpoints backend.Endpoints) domainRepo.ResourceRepository[T] {
	return &remoteRepository[T]{client: client, endpoints: endpoints}
}

// NewMerchantRepository creates a new merchant repository
func NewMerchantRepository(client *backend.Client) domainRepo.MerchantRepository {
	return NewRemoteRepository[entity.Merchant](client, backend.MerchantEndpoints)
}

// NewCustomerRepository creates a new customer repository
func NewCustomerRepository(client *backend.Client) domainRepo.CustomerRepository {
	return NewRemoteRepository[entity.Customer](client, backend.CustomerEndpoints)
}

// NewProductRepository creates a new product repository
func NewProductRepository(client *backend.Client) domainRepo.ProductRepository {
	return NewRemoteRepository[entity.Product](client, backend.ProductEndpoints)
}

// NewTaxRepository creates a new tax repository
func NewTaxRepository(client *backend.Client) domainRepo.TaxRepository {
	return NewRemoteRepository[entity.Tax](client, backend.TaxEndpoints)
}

// NewDiscountRepository creates a new discount repository
func NewDiscountRepository(client *backend.Client) domainRepo.DiscountRepository {
	return NewRemoteRepository[entity.Discount](client, backend.DiscountEndpoints)
}

func (r *remoteRepository[T]) List(ctx context.Context) ([]T, error) {
	var items []T
	if err := r.client.Get(ctx, r.endpoints.GetAll, nil, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func (r *remoteRepository[T]) GetByID(ctx context.Context, id int64) (*T, error) {
	var item *T
	if err := r.client.Get(ctx, r.endpoints.GetByID, idParam(id), &item); err != nil {
		return nil, err
	}
	return item, nil
}

func (r *remoteRepository[T]) Create(ctx context.Context, item *T) error {
	return r.client.Post(ctx, r.endpoints.Create, item, nil)
}

func (r *remoteRepository[T]) Update(ctx context.Context, id int64, item *T) error {
	return r.client.Put(ctx, r.endpoints.Update, idParam(id), item, nil)
}

func (r *remoteRepository[T]) Delete(ctx context.Context, id int64) error {
	return r.client.Delete(ctx, r.endpoints.Delete, idParam(id), nil)
}

func idParam(id int64) map[string]string {
	return map[string]string{"id": strconv.FormatInt(id, 10)}
}
