// Package fixtures fills an empty database with demonstration data through
// the application services, so seeded rows pass the same validation as API writes.
package fixtures

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	accountapp "github.com/bilemo/api/internal/application/account"
	catalogapp "github.com/bilemo/api/internal/application/catalog"
	"github.com/bilemo/api/internal/domain/account"
	"github.com/brianvoe/gofakeit/v7"
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Well known accounts created by every load
const (
	AdminEmail    = "admin@bilemo.com"
	AdminPassword = "adminpass"
	UserEmail     = "user@bilemo.com"
	UserPassword  = "userpass"

	clientPassword = "password"
)

// Manufacturers are the brands products are drawn from
var Manufacturers = []string{
	"Alcatel", "Apple", "Asus", "BlackBerry", "HTC", "Huawei", "Honor", "LG",
	"Motorola", "Nokia", "Samsung", "Sony", "Google", "Wiko", "Xiaomi",
}

// Capacities are the memory sizes configurations are drawn from
var Capacities = []string{"32", "64", "128", "256"}

// Options sizes a load. A zero Seed picks a random one.
type Options struct {
	Seed          uint64
	Clients       int
	Customers     int
	UserCustomers int
	Products      int
}

// DefaultOptions returns the sizes of the demonstration data set
func DefaultOptions() Options {
	return Options{
		Clients:       30,
		Customers:     70,
		UserCustomers: 5,
		Products:      70,
	}
}

// Summary counts what a load created
type Summary struct {
	AdminID        int64
	UserID         int64
	Clients        int
	Customers      int
	Products       int
	Configurations int
	Images         int
}

// Loader creates fixtures through the client, customer and product services
type Loader struct {
	clients   *accountapp.ClientService
	customers *accountapp.CustomerService
	products  *catalogapp.ProductService
	logger    *zap.Logger
}

// NewLoader creates a new Loader
func NewLoader(
	clients *accountapp.ClientService,
	customers *accountapp.CustomerService,
	products *catalogapp.ProductService,
	logger *zap.Logger,
) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{
		clients:   clients,
		customers: customers,
		products:  products,
		logger:    logger,
	}
}

// Load creates the admin and user accounts, then opts.Clients clients,
// opts.Customers customers spread over the first twenty clients,
// opts.UserCustomers customers owned by the user account and opts.Products products.
func (l *Loader) Load(ctx context.Context, opts Options) (*Summary, error) {
	f := gofakeit.New(opts.Seed)
	emails := mapset.NewThreadUnsafeSet[string]()
	summary := &Summary{}

	admin, err := l.createClient(ctx, emails, accountapp.CreateClientRequest{
		Company:  "BileMo",
		Email:    AdminEmail,
		Password: AdminPassword,
		Roles:    []string{account.RoleAdmin},
	})
	if err != nil {
		return nil, err
	}
	summary.AdminID = admin.ID

	user, err := l.createClient(ctx, emails, accountapp.CreateClientRequest{
		Company:  "BileMo",
		Email:    UserEmail,
		Password: UserPassword,
		Roles:    []string{account.RoleUser},
	})
	if err != nil {
		return nil, err
	}
	summary.UserID = user.ID

	clientIDs := make([]int64, 0, opts.Clients)
	for range opts.Clients {
		client, err := l.createClient(ctx, emails, accountapp.CreateClientRequest{
			Company:  f.Company(),
			Email:    uniqueEmail(emails, f.Email),
			Password: clientPassword,
			Roles:    []string{account.RoleUser},
		})
		if err != nil {
			return nil, err
		}
		clientIDs = append(clientIDs, client.ID)
	}
	summary.Clients = len(clientIDs) + 2
	l.logger.Info("Clients loaded", zap.Int("count", summary.Clients))

	owners := clientIDs[:min(20, len(clientIDs))]
	customerEmails := mapset.NewThreadUnsafeSet[string]()
	for i := range opts.Customers + opts.UserCustomers {
		var idClients []int64
		if i < opts.Customers {
			idClients = pickClients(f, owners)
		} else {
			idClients = []int64{user.ID}
		}
		_, err := l.customers.Create(ctx, admin.ID, accountapp.CreateCustomerRequest{
			Email:     uniqueEmail(customerEmails, f.Email),
			FirstName: atLeast(3, f.FirstName),
			LastName:  atLeast(3, f.LastName),
			IDClients: idClients,
		})
		if err != nil {
			return nil, fmt.Errorf("create customer %d: %w", i, err)
		}
		summary.Customers++
	}
	l.logger.Info("Customers loaded", zap.Int("count", summary.Customers))

	for i := range opts.Products {
		req := randomProduct(f)
		if _, err := l.products.Create(ctx, req); err != nil {
			return nil, fmt.Errorf("create product %d: %w", i, err)
		}
		summary.Products++
		summary.Configurations += len(req.Configurations)
		for _, cfg := range req.Configurations {
			summary.Images += len(cfg.Images)
		}
	}
	l.logger.Info("Products loaded",
		zap.Int("products", summary.Products),
		zap.Int("configurations", summary.Configurations),
		zap.Int("images", summary.Images),
	)

	return summary, nil
}

func (l *Loader) createClient(ctx context.Context, emails mapset.Set[string], req accountapp.CreateClientRequest) (*accountapp.ClientView, error) {
	emails.Add(req.Email)
	client, err := l.clients.Create(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("create client %s: %w", req.Email, err)
	}
	return client, nil
}

// uniqueEmail draws addresses until one is not in seen
func uniqueEmail(seen mapset.Set[string], next func() string) string {
	for {
		if email := strings.ToLower(next()); seen.Add(email) {
			return email
		}
	}
}

// atLeast draws values until one has n characters or more
func atLeast(n int, next func() string) string {
	for {
		if v := next(); utf8.RuneCountInString(v) >= n {
			return v
		}
	}
}

// pickClients returns zero to two distinct owners
func pickClients(f *gofakeit.Faker, owners []int64) []int64 {
	if len(owners) == 0 {
		return nil
	}
	picked := mapset.NewThreadUnsafeSet[int64]()
	for range f.IntRange(0, 2) {
		picked.Add(owners[f.IntRange(0, len(owners)-1)])
	}
	return picked.ToSlice()
}

func randomProduct(f *gofakeit.Faker) catalogapp.CreateProductRequest {
	manufacturer := Manufacturers[f.IntRange(0, len(Manufacturers)-1)]
	req := catalogapp.CreateProductRequest{
		Name:         manufacturer + " " + f.Word(),
		Description:  f.Paragraph(1, 3, 12, " "),
		Manufacturer: manufacturer,
		ScreenSize:   round(f.Float64Range(4, 7), 1),
		Camera:       f.Bool(),
		Bluetooth:    f.Bool(),
		Wifi:         f.Bool(),
		Length:       round(f.Float64Range(12, 15), 2),
		Width:        round(f.Float64Range(6, 10), 2),
		Height:       round(f.Float64Range(0.7, 1.5), 2),
		Weight:       round(f.Float64Range(150, 250), 1),
		DAS:          round(f.Float64Range(0.1, 1), 3),
	}

	for range f.IntRange(1, 3) {
		cfg := catalogapp.ConfigurationRequest{
			Capacity: Capacities[f.IntRange(0, len(Capacities)-1)],
			Color:    f.SafeColor(),
			Price:    decimal.NewFromFloat(f.Float64Range(800, 1500)).Round(2),
		}
		for range f.IntRange(0, 4) {
			cfg.Images = append(cfg.Images, catalogapp.ImageRequest{
				URL: fmt.Sprintf("https://picsum.photos/seed/%s%d/640/480", strings.ToLower(f.Word()), f.Number(1, 9999)),
			})
		}
		req.Configurations = append(req.Configurations, cfg)
	}
	return req
}

func round(v float64, places int32) float64 {
	r, _ := decimal.NewFromFloat(v).Round(places).Float64()
	return r
}
