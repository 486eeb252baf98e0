package cli

import (
	"context"
	"fmt"
	"time"

	accountapp "github.com/bilemo/api/internal/application/account"
	catalogapp "github.com/bilemo/api/internal/application/catalog"
	"github.com/bilemo/api/internal/application/fixtures"
	"github.com/bilemo/api/internal/infrastructure/auth"
	"github.com/bilemo/api/internal/infrastructure/cache"
	"github.com/bilemo/api/internal/infrastructure/config"
	"github.com/bilemo/api/internal/infrastructure/logger"
	"github.com/bilemo/api/internal/infrastructure/persistence"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func (a *App) seedCommand() *cobra.Command {
	opts := fixtures.DefaultOptions()

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load demonstration fixtures into an empty database",
		Long: `Create the admin@bilemo.com administrator, the user@bilemo.com client,
random clients with their customers and a catalog of products.
The same --seed always produces the same data.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.Clients < 0 || opts.Customers < 0 || opts.Products < 0 {
				return fmt.Errorf("fixture counts must not be negative")
			}
			cfg, err := a.config()
			if err != nil {
				return err
			}

			seeder, err := a.OpenSeeder(cmd.Context(), cfg, a.Logger)
			if err != nil {
				return err
			}
			defer func() {
				if err := seeder.Close(); err != nil {
					a.Logger.Error("Failed to close seeder", zap.Error(err))
				}
			}()

			started := time.Now()
			summary, err := seeder.Seed(cmd.Context(), opts)
			if err != nil {
				return fmt.Errorf("seed failed: %w", err)
			}

			a.Logger.Info("Fixtures loaded", zap.Duration("took", time.Since(started)))
			printf(cmd.OutOrStdout(), "clients: %d\ncustomers: %d\nproducts: %d\nconfigurations: %d\nimages: %d\n",
				summary.Clients, summary.Customers, summary.Products, summary.Configurations, summary.Images)
			return nil
		},
	}

	cmd.Flags().Uint64Var(&opts.Seed, "seed", 0, "Random seed, 0 picks one")
	cmd.Flags().IntVar(&opts.Clients, "clients", opts.Clients, "Number of random clients")
	cmd.Flags().IntVar(&opts.Customers, "customers", opts.Customers, "Number of customers spread over random clients")
	cmd.Flags().IntVar(&opts.Products, "products", opts.Products, "Number of products")
	return cmd
}

type serviceSeeder struct {
	loader *fixtures.Loader
	db     *persistence.Database
	store  cache.TagCache
}

// openSeeder wires the application services on the configured database and
// list cache, so that seeding invalidates lists a running server has cached.
func openSeeder(ctx context.Context, cfg *config.Config, log *zap.Logger) (Seeder, error) {
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel("warn"))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	startupCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	store, err := cache.NewTagCacheFactory(cfg.Cache, cfg.Redis,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(true),
	).CreateStore(startupCtx)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize list cache: %w", err)
	}

	hasher := auth.NewBcryptHasher(bcrypt.DefaultCost)
	readThrough := cache.NewReadThrough(store, cfg.Cache.TTL)
	accounts := persistence.NewAccountRepositories(db.DB)
	accountTx := persistence.NewAccountTransactionScope(db.DB)
	catalog := persistence.NewCatalogRepositories(db.DB)
	catalogTx := persistence.NewCatalogTransactionScope(db.DB)

	loader := fixtures.NewLoader(
		accountapp.NewClientService(accounts.Clients(), accountTx, hasher, readThrough),
		accountapp.NewCustomerService(accounts.Customers(), accounts.Clients(), accountTx, readThrough),
		catalogapp.NewProductService(catalog.Products(), catalogTx, readThrough),
		log,
	)
	return &serviceSeeder{loader: loader, db: db, store: store}, nil
}

func (s *serviceSeeder) Seed(ctx context.Context, opts fixtures.Options) (*fixtures.Summary, error) {
	return s.loader.Load(ctx, opts)
}

func (s *serviceSeeder) Close() error {
	var result *multierror.Error
	if err := s.store.Close(); err != nil {
		result = multierror.Append(result, fmt.Errorf("close list cache: %w", err))
	}
	if err := s.db.Close(); err != nil {
		result = multierror.Append(result, fmt.Errorf("close database: %w", err))
	}
	return result.ErrorOrNil()
}
