package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/chrisdamba/foodadmin/internal/dispatch"
	"github.com/chrisdamba/foodadmin/internal/factories"
	"github.com/chrisdamba/foodadmin/internal/latency"
	"github.com/chrisdamba/foodadmin/internal/logger"
	"github.com/chrisdamba/foodadmin/internal/models"
	"github.com/chrisdamba/foodadmin/internal/repositories"
	"github.com/chrisdamba/foodadmin/internal/repositories/memory"
	"github.com/chrisdamba/foodadmin/internal/repositories/postgres"
	"github.com/chrisdamba/foodadmin/internal/service"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
)

// App holds the configured stores and services for one command run.
type App struct {
	Config *models.Config
	Log    *slog.Logger
	Stores repositories.Stores

	Orders        *service.OrderService
	Ratings       *service.RatingService
	Notifications *service.NotificationService
	Templates     *service.TemplateService
	Rewards       *service.RewardService
	Users         *service.UserService

	pool      *pgxpool.Pool
	publisher dispatch.Publisher
}

// NewApp wires stores, transport and services for cfg. The memory backend is
// seeded with fixtures on start; postgres keeps whatever it holds.
func NewApp(ctx context.Context, cfg *models.Config, logOut io.Writer) (*App, error) {
	a := &App{
		Config: cfg,
		Log:    logger.New(logOut, cfg.Log.Level, cfg.Log.Format),
	}

	switch cfg.StoreBackend {
	case "postgres":
		pool, err := postgres.Connect(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		a.pool = pool
		a.Stores = postgres.NewStores(pool)
	default:
		a.Stores = memory.NewStores()
		fx := factories.New(int64(cfg.Seed), factories.Anchor(time.Now())).Build(cfg.Fixtures, cfg.AdminID)
		if err := factories.Seed(ctx, a.Stores, fx, nil); err != nil {
			return nil, err
		}
		a.Log.Debug("seeded memory store", "records", fx.Total())
	}

	publisher, err := dispatch.New(cfg, a.Log)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to create notification publisher: %w", err)
	}
	a.publisher = publisher

	opts := service.Options{
		Latency: latency.New(cfg.Latency.Min, cfg.Latency.Max, int64(cfg.Seed)),
		Logger:  a.Log,
		AdminID: cfg.AdminID,
	}
	a.Orders = service.NewOrderService(a.Stores.Orders, cfg.StrictTransitions, opts)
	a.Ratings = service.NewRatingService(a.Stores.Ratings, opts)
	a.Notifications = service.NewNotificationService(a.Stores.Notifications, a.Stores.Users, publisher, opts)
	a.Templates = service.NewTemplateService(a.Stores.Templates, opts)
	a.Rewards = service.NewRewardService(a.Stores.Rewards, a.Stores.UserRewards, a.Stores.Users, opts)
	a.Users = service.NewUserService(a.Stores.Users, opts)
	return a, nil
}

// Close releases the transport and the database pool.
func (a *App) Close() error {
	var err error
	if a.publisher != nil {
		err = a.publisher.Close()
	}
	if a.pool != nil {
		a.pool.Close()
	}
	return err
}

// Fixtures builds a fresh fixture set from the configured counts.
func (a *App) Fixtures() factories.Fixtures {
	return factories.New(int64(a.Config.Seed), factories.Anchor(time.Now())).Build(a.Config.Fixtures, a.Config.AdminID)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// withApp hands the initialised application to a subcommand.
func withApp(fn func(cmd *cobra.Command, a *App, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if app == nil {
			return errors.New("application is not initialised")
		}
		return fn(cmd, app, args)
	}
}
