package service

import (
	"context"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/sangkips/invoice-console/internal/config"
	"github.com/sangkips/invoice-console/internal/domain/entity"
	"github.com/sangkips/invoice-console/internal/domain/repository"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Option is one choice of a select input.
type Option struct {
	Value         int64  `json:"value"`
	Label         string `json:"label"`
	SecondaryText string `json:"secondaryText,omitempty"`
}

// SecondaryLines splits the secondary text into display lines.
func (o Option) SecondaryLines() []string {
	if o.SecondaryText == "" {
		return nil
	}
	return strings.Split(o.SecondaryText, entity.AddressSeparator)
}

// OptionSet holds the choices of every select input of the invoice form.
type OptionSet struct {
	Merchants []Option  `json:"merchants"`
	Customers []Option  `json:"customers"`
	Discounts []Option  `json:"discounts"`
	Taxes     []Option  `json:"taxes"`
	Products  []Option  `json:"products"`
	LoadedAt  time.Time `json:"loadedAt"`
}

// Find returns the option with the given value.
func Find(options []Option, value int64) (Option, bool) {
	return lo.Find(options, func(o Option) bool { return o.Value == value })
}

// OptionService loads the option lists of the invoice form
type OptionService struct {
	merchants repository.MerchantRepository
	customers repository.CustomerRepository
	discounts repository.DiscountRepository
	taxes     repository.TaxRepository
	products  repository.ProductRepository
	timeout   time.Duration
	logger    logrus.FieldLogger
}

// NewOptionService creates a new option service
func NewOptionService(
	merchants repository.MerchantRepository,
	customers repository.CustomerRepository,
	discounts repository.DiscountRepository,
	taxes repository.TaxRepository,
	products repository.ProductRepository,
	api *config.APIConfig,
	logger logrus.FieldLogger,
) *OptionService {
	return &OptionService{
		merchants: merchants,
		customers: customers,
		discounts: discounts,
		taxes:     taxes,
		products:  products,
		timeout:   api.OptionsTimeout,
		logger:    logger,
	}
}

// Load fetches the five lists concurrently. Either all of them load or an
// error is returned and nothing is.
func (s *OptionService) Load(ctx context.Context) (*OptionSet, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	var (
		merchants []entity.Merchant
		customers []entity.Customer
		discounts []entity.Discount
		taxes     []entity.Tax
		products  []entity.Product
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		merchants, err = s.merchants.List(gctx)
		return err
	})
	g.Go(func() (err error) {
		customers, err = s.customers.List(gctx)
		return err
	})
	g.Go(func() (err error) {
		discounts, err = s.discounts.List(gctx)
		return err
	})
	g.Go(func() (err error) {
		taxes, err = s.taxes.List(gctx)
		return err
	})
	g.Go(func() (err error) {
		products, err = s.products.List(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		config.LogError(s.logger, "option_service", "Load", "Failed to load invoice form options", nil, err)
		return nil, err
	}

	return &OptionSet{
		Merchants: lo.Map(merchants, func(m entity.Merchant, _ int) Option { return MerchantOption(m) }),
		Customers: lo.Map(customers, func(c entity.Customer, _ int) Option { return CustomerOption(c) }),
		Discounts: lo.Map(discounts, func(d entity.Discount, _ int) Option { return Option{Value: d.ID, Label: d.DiscountName} }),
		Taxes:     lo.Map(taxes, func(t entity.Tax, _ int) Option { return Option{Value: t.ID, Label: t.TaxName} }),
		Products:  lo.Map(products, func(p entity.Product, _ int) Option { return Option{Value: p.ID, Label: p.ProductName} }),
		LoadedAt:  time.Now(),
	}, nil
}

// MerchantOption labels a merchant by company name with its address below.
func MerchantOption(m entity.Merchant) Option {
	return Option{Value: m.ID, Label: m.CompanyName, SecondaryText: m.Address.Formatted()}
}

// CustomerOption labels a customer by person in charge with the company
// name and address below.
func CustomerOption(c entity.Customer) Option {
	secondary := lo.Compact([]string{c.CompanyName, c.Address.Formatted()})
	return Option{Value: c.ID, Label: c.PIC, SecondaryText: strings.Join(secondary, entity.AddressSeparator)}
}
