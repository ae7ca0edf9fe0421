package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/acme/invoicing/internal/domain/finance"
	"github.com/acme/invoicing/internal/domain/identity"
	"github.com/acme/invoicing/internal/domain/partner"
	"github.com/acme/invoicing/internal/domain/shared"
	"github.com/acme/invoicing/internal/infrastructure/config"
	"github.com/acme/invoicing/internal/infrastructure/logger"
	"github.com/acme/invoicing/internal/infrastructure/persistence"
	"github.com/brianvoe/gofakeit/v7"
	"go.uber.org/zap"
)

// Demo account used to sign in to the dashboard
const (
	demoName     = "User"
	demoEmail    = "user@nextmail.com"
	demoPassword = "123456"
)

type seedOptions struct {
	customers int
	invoices  int
	seed      uint64
}

func main() {
	var opts seedOptions
	flag.IntVar(&opts.customers, "customers", 10, "Number of customers to create")
	flag.IntVar(&opts.invoices, "invoices", 15, "Number of invoices to create")
	flag.Uint64Var(&opts.seed, "seed", 0, "Random seed (0 picks one)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	log, err := logger.New(logger.FromAppConfig(cfg.Log))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database,
		logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level)))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		_ = db.Close()
	}()

	s := &seeder{
		users:     persistence.NewGormUserRepository(db.DB),
		customers: persistence.NewGormCustomerRepository(db.DB),
		invoices:  persistence.NewGormInvoiceRepository(db.DB),
		faker:     gofakeit.New(opts.seed),
		logger:    log,
	}
	if err := s.run(context.Background(), opts); err != nil {
		log.Error("Seeding failed", zap.Error(err))
		os.Exit(1)
	}
}

type seeder struct {
	users     identity.UserRepository
	customers partner.CustomerRepository
	invoices  finance.InvoiceRepository
	faker     *gofakeit.Faker
	logger    *zap.Logger
}

func (s *seeder) run(ctx context.Context, opts seedOptions) error {
	if err := s.seedUser(ctx); err != nil {
		return err
	}

	created := make([]*partner.Customer, 0, opts.customers)
	for range opts.customers {
		customer := partner.NewCustomer(partner.CustomerDraft{
			Name:  s.faker.Name(),
			Email: shared.NormalizeEmail(s.faker.Email()),
		})
		if err := s.customers.Create(ctx, customer); err != nil {
			if errors.Is(err, shared.ErrAlreadyExists) {
				continue
			}
			return fmt.Errorf("create customer: %w", err)
		}
		created = append(created, customer)
	}
	if len(created) == 0 {
		s.logger.Warn("No customers created, skipping invoices")
		return nil
	}

	statuses := []string{string(finance.InvoiceStatusPending), string(finance.InvoiceStatusPaid)}
	end := time.Now().UTC()
	start := end.AddDate(-1, 0, 0)
	for range opts.invoices {
		customer := created[s.faker.IntRange(0, len(created)-1)]
		invoice := finance.NewInvoice(customer.ID, finance.InvoiceDraft{
			CustomerID: customer.ID.String(),
			Amount:     int64(s.faker.IntRange(500, 500_000)),
			Status:     finance.InvoiceStatus(s.faker.RandomString(statuses)),
		}, s.faker.DateRange(start, end))
		if err := s.invoices.Create(ctx, invoice); err != nil {
			return fmt.Errorf("create invoice: %w", err)
		}
	}

	s.logger.Info("Seed complete",
		zap.Int("customers", len(created)),
		zap.Int("invoices", opts.invoices),
		zap.String("login", demoEmail),
	)
	return nil
}

func (s *seeder) seedUser(ctx context.Context) error {
	exists, err := s.users.ExistsByEmail(ctx, demoEmail)
	if err != nil {
		return fmt.Errorf("check demo user: %w", err)
	}
	if exists {
		s.logger.Info("Demo user already present", zap.String("email", demoEmail))
		return nil
	}

	user, err := identity.NewUser(identity.UserDraft{Name: demoName, Email: demoEmail, Password: demoPassword})
	if err != nil {
		return err
	}
	if err := s.users.Create(ctx, user); err != nil {
		return fmt.Errorf("create demo user: %w", err)
	}
	return nil
}
