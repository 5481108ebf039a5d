package repository

import "github.com/sangkips/invoice-console/internal/domain/entity"

// CustomerRepository defines the interface for customer data operations
type CustomerRepository = ResourceRepository[entity.Customer]
