// Package server wires the storefront backend together: it opens the
// database, applies migrations, builds the services and runs the HTTP API
// until the process is told to stop.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/storefront/internal/logging"
	"github.com/dmitrijs2005/storefront/internal/server/auth"
	"github.com/dmitrijs2005/storefront/internal/server/config"
	"github.com/dmitrijs2005/storefront/internal/server/httpapi"
	"github.com/dmitrijs2005/storefront/internal/server/payments"
	"github.com/dmitrijs2005/storefront/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/storefront/internal/server/services"
	"github.com/dmitrijs2005/storefront/internal/server/validation"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Services bundles the domain services built from one configuration. The
// HTTP server and the operator CLI share it.
type Services struct {
	Users    *services.UserService
	Products *services.ProductService
	Carts    *services.CartService
	Orders   *services.OrderService
	Payments *services.PaymentService
	Tokens   *auth.TokenCodec
}

type App struct {
	config   *config.Config
	logger   logging.Logger
	db       *sql.DB
	services *Services
}

// OpenDB connects to PostgreSQL and brings the schema up to date.
func OpenDB(ctx context.Context, cfg *config.Config) (*sql.DB, *repomanager.PostgresRepositoryManager, error) {
	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("db open error: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("db ping error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("migrations error: %w", err)
	}
	return db, rm, nil
}

// NewServices builds every domain service on top of db.
func NewServices(cfg *config.Config, logger logging.Logger, db *sql.DB, rm repomanager.RepositoryManager) (*Services, error) {
	hasher, err := auth.NewPasswordHasher(cfg.PasswordCost)
	if err != nil {
		return nil, fmt.Errorf("password hasher: %w", err)
	}
	codec, err := auth.NewTokenCodec([]byte(cfg.SecretKey), cfg.TokenTTL)
	if err != nil {
		return nil, fmt.Errorf("token codec: %w", err)
	}

	return &Services{
		Users:    services.NewUserService(db, rm, hasher, codec, logger),
		Products: services.NewProductService(db, rm, services.NewS3ImageStore(cfg)),
		Carts:    services.NewCartService(db, rm),
		Orders:   services.NewOrderService(db, rm),
		Payments: services.NewPaymentService(payments.NewSandboxGateway(logger), cfg.PaymentCurrency),
		Tokens:   codec,
	}, nil
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, slog.LevelInfo)

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	db, rm, err := OpenDB(ctx, c)
	if err != nil {
		return nil, err
	}

	svc, err := NewServices(c, logger, db, rm)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &App{config: c, logger: logger, db: db, services: svc}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := httpapi.NewServer(app.config.EndpointAddrHTTP, app.logger, httpapi.Deps{
		Tokens:    app.services.Tokens,
		Validator: validation.New(),
		Users:     app.services.Users,
		Products:  app.services.Products,
		Carts:     app.services.Carts,
		Orders:    app.services.Orders,
		Payments:  app.services.Payments,
	})

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
