package main

import (
	"context"
	"fmt"
	"time"

	"github.com/sangkips/invoice-console/internal/application/composer"
	"github.com/sangkips/invoice-console/internal/application/service"
	"github.com/sangkips/invoice-console/internal/config"
	domainRepo "github.com/sangkips/invoice-console/internal/domain/repository"
	"github.com/sangkips/invoice-console/internal/infrastructure/backend"
	"github.com/sangkips/invoice-console/internal/infrastructure/cache"
	"github.com/sangkips/invoice-console/internal/infrastructure/database"
	"github.com/sangkips/invoice-console/internal/infrastructure/repository"
	"github.com/sirupsen/logrus"
)

// app holds the services shared by every command.
type app struct {
	cfg    *config.Config
	logger *logrus.Logger

	merchants   *service.MerchantService
	customers   *service.CustomerService
	products    *service.ProductService
	taxes       *service.TaxService
	discounts   *service.DiscountService
	invoices    *service.InvoiceService
	options     *service.OptionService
	spreadsheet *service.SpreadsheetService
}

func newApp() *app {
	cfg := config.Load()
	logger := config.NewLogger(&cfg.Log)

	client := backend.NewClient(cfg.API.BaseURL)

	// Initialize repositories
	merchantRepo := repository.NewMerchantRepository(client)
	customerRepo := repository.NewCustomerRepository(client)
	productRepo := repository.NewProductRepository(client)
	taxRepo := repository.NewTaxRepository(client)
	discountRepo := repository.NewDiscountRepository(client)
	invoiceRepo := repository.NewInvoiceRepository(client)

	// Initialize services
	a := &app{cfg: cfg, logger: logger}
	a.merchants = service.NewResourceService(merchantRepo, "merchant", &cfg.API, logger)
	a.customers = service.NewResourceService(customerRepo, "customer", &cfg.API, logger)
	a.products = service.NewResourceService(productRepo, "product", &cfg.API, logger)
	a.taxes = service.NewResourceService(taxRepo, "tax", &cfg.API, logger)
	a.discounts = service.NewResourceService(discountRepo, "discount", &cfg.API, logger)
	a.invoices = service.NewInvoiceService(invoiceRepo, &cfg.API, logger)
	a.options = service.NewOptionService(merchantRepo, customerRepo, discountRepo, taxRepo, productRepo, &cfg.API, logger)
	a.spreadsheet = service.NewSpreadsheetService(a.products, a.invoices, logger)

	logger.WithField("backend", cfg.API.BaseURL).Debug("Services initialized")
	return a
}

// sessionBackends picks Redis for drafts and locks when an address is
// configured, otherwise process memory.
func (a *app) sessionBackends(ctx context.Context) (domainRepo.SessionStore, domainRepo.Locker, error) {
	if a.cfg.Redis.Address == "" {
		a.logger.Warn("REDIS_ADDRESS not set, keeping sessions in memory")
		return cache.NewMemoryStore(), cache.NewMemoryLocker(), nil
	}

	rdb, err := cache.NewRedisClient(ctx, &a.cfg.Redis)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	a.logger.WithField("address", a.cfg.Redis.Address).Info("Successfully connected to Redis")
	return cache.NewRedisStore(rdb), cache.NewRedisLocker(rdb), nil
}

// idempotencyRepository stores replayable form submissions in PostgreSQL
// when the database is enabled.
func (a *app) idempotencyRepository() (domainRepo.IdempotencyRepository, error) {
	if !a.cfg.Database.Enabled {
		return repository.NewMemoryIdempotencyRepository(), nil
	}

	db, err := database.NewPostgresDB(&a.cfg.Database, a.cfg.App.Debug, a.logger)
	if err != nil {
		return nil, err
	}
	if err := database.AutoMigrate(db, a.logger); err != nil {
		return nil, err
	}
	return repository.NewIdempotencyRepository(db), nil
}

// purgeIdempotencyKeys drops expired form submissions every hour until ctx
// is done.
func (a *app) purgeIdempotencyKeys(ctx context.Context, repo domainRepo.IdempotencyRepository) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := repo.DeleteExpired(ctx); err != nil {
				a.logger.WithError(err).Warn("Failed to purge expired idempotency keys")
			}
		}
	}
}

func (a *app) workspace(store domainRepo.SessionStore, locker domainRepo.Locker, idem domainRepo.IdempotencyRepository) *service.WorkspaceService {
	comp := composer.New(a.invoices, a.cfg.API.VerifyPDF)
	return service.NewWorkspaceService(store, locker, idem, comp, a.invoices, a.options, &a.cfg.Session, a.logger)
}
