package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/invoice-console/internal/config"
	domainRepo "github.com/sangkips/invoice-console/internal/domain/repository"
	"github.com/sangkips/invoice-console/internal/presentation/http/dto/request"
	"github.com/sangkips/invoice-console/internal/presentation/http/handler"
	"github.com/sangkips/invoice-console/internal/presentation/http/middleware"
	"github.com/sangkips/invoice-console/internal/presentation/http/view"
	"github.com/sangkips/invoice-console/pkg/utils"
	"github.com/sirupsen/logrus"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Merchant    *handler.CatalogHandler
	Customer    *handler.CatalogHandler
	Product     *handler.CatalogHandler
	Compliance  *handler.CatalogHandler
	Invoice     *handler.InvoiceHandler
	Spreadsheet *handler.SpreadsheetHandler
	API         *handler.APIHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	Tokens          *utils.SessionTokenManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
	Logger          logrus.FieldLogger
	// RateLimiter is created from Cfg.RateLimit when nil.
	RateLimiter *middleware.SessionRateLimiter
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) (*gin.Engine, error) {
	router := gin.New()
	request.RegisterValidation()
	if err := view.Install(router); err != nil {
		return nil, err
	}

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware(deps.Logger))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	rateLimiter := deps.RateLimiter
	if rateLimiter == nil {
		rateLimiter = middleware.NewSessionRateLimiter(middleware.RateLimiterConfigFrom(deps.Cfg.RateLimit.Requests, deps.Cfg.RateLimit.Duration))
	}

	console := router.Group("")
	console.Use(middleware.SessionMiddleware(deps.Tokens, &deps.Cfg.Session))
	console.Use(rateLimiter.Middleware())
	console.Use(middleware.Idempotency(middleware.IdempotencyConfig{
		Repo:   deps.IdempotencyRepo,
		Logger: deps.Logger,
	}))

	console.GET("/", handler.Home)
	h.Merchant.Register(console)
	h.Customer.Register(console)
	h.Product.Register(console)
	h.Compliance.Register(console)
	console.POST("/product/import", h.Spreadsheet.ImportProducts)
	registerInvoiceRoutes(console, h)

	v1 := router.Group("/api/v1")
	v1.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))
	v1.Use(middleware.SessionMiddleware(deps.Tokens, &deps.Cfg.Session))
	v1.Use(rateLimiter.Middleware())
	{
		v1.GET("/options", h.API.Options)
		v1.GET("/invoices", h.API.Invoices)
	}

	return router, nil
}

func registerInvoiceRoutes(console *gin.RouterGroup, h *Handlers) {
	invoices := console.Group("/invoice")
	{
		invoices.GET("", h.Invoice.List)
		invoices.GET("/export", h.Spreadsheet.ExportInvoices)
		invoices.POST("/new", h.Invoice.New)
		invoices.POST("/form", h.Invoice.Form)
		invoices.POST("/form/close", h.Invoice.CloseForm)
		invoices.POST("/preview/close", h.Invoice.ClosePreview)
		invoices.POST("/confirm", h.Invoice.Confirm)
		invoices.POST("/:id/edit", h.Invoice.Edit)
		invoices.POST("/:id/delete", h.Invoice.Delete)
		invoices.GET("/:id/download", h.Invoice.Download)
	}
}
