// Package server wires the CampusLink backend together: it opens the
// database, applies migrations, connects the optional Redis deny-list and
// AMQP broker, and serves the HTTP API until the process is signalled.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/campuslink/internal/logging"
	"github.com/dmitrijs2005/campuslink/internal/server/auth"
	"github.com/dmitrijs2005/campuslink/internal/server/config"
	"github.com/dmitrijs2005/campuslink/internal/server/events"
	"github.com/dmitrijs2005/campuslink/internal/server/httpapi"
	"github.com/dmitrijs2005/campuslink/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/campuslink/internal/server/services"
	"github.com/dmitrijs2005/campuslink/internal/server/storage"
	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/redis/go-redis/v9"
)

const (
	startupTimeout  = 15 * time.Second
	shutdownTimeout = 10 * time.Second
	revokedPrefix   = "campuslink:revoked:"
)

type App struct {
	config    *config.Config
	logger    logging.Logger
	db        *sql.DB
	redis     *redis.Client
	publisher events.Publisher
	server    *httpapi.Server
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	logger := logging.New(os.Stdout, c.LogLevel)
	app := &App{config: c, logger: logger}

	ctx, cancel := context.WithTimeout(ctx, startupTimeout)
	defer cancel()

	if err := app.connect(ctx); err != nil {
		app.close()
		return nil, err
	}

	m := repomanager.NewPostgresRepositoryManager()
	if err := m.RunMigrations(ctx, app.db); err != nil {
		app.close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	var revoker auth.Revoker = auth.NopRevoker{}
	if app.redis != nil {
		revoker = auth.NewRedisRevoker(app.redis, revokedPrefix)
	}

	tokens := auth.NewTokenManager(c.SecretKey, c.TokenTTL, c.TokenIssuer)
	emitter := events.NewEmitter(app.publisher, logger)

	svc := httpapi.Services{
		Users:         services.NewUserService(app.db, m, tokens, auth.NewPasswordHasher(0), revoker, emitter),
		Announcements: services.NewAnnouncementService(app.db, m, emitter),
		Complaints:    services.NewComplaintService(app.db, m, emitter),
		LostFound:     services.NewLostFoundService(app.db, m, storage.NewS3Presigner(c), emitter),
		Timetable:     services.NewTimetableService(app.db, m),
	}

	gate := httpapi.NewGate(tokens, revoker, svc.Users)
	app.server = httpapi.NewServer(c.HTTPAddr, logger, gate, svc, app.db)

	return app, nil
}

// connect opens the database and, when configured, Redis and the AMQP
// broker. Missing optional backends degrade to no-op implementations.
func (app *App) connect(ctx context.Context) error {
	db, err := repomanager.OpenDB(ctx, app.config.DatabaseDSN)
	if err != nil {
		return fmt.Errorf("db init error: %w", err)
	}
	app.db = db

	if app.config.RevocationEnabled() {
		client := redis.NewClient(&redis.Options{
			Addr:     app.config.RedisAddr,
			Password: app.config.RedisPassword,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return fmt.Errorf("redis init error: %w", err)
		}
		app.redis = client
	} else {
		app.logger.Warn(ctx, "REDIS_ADDR not set, logout will not revoke tokens")
	}

	if app.config.EventsEnabled() {
		pub, err := events.NewAMQPPublisher(app.config.RabbitURL, app.config.RabbitExchange)
		if err != nil {
			return fmt.Errorf("amqp init error: %w", err)
		}
		app.publisher = pub
	} else {
		app.logger.Warn(ctx, "RABBIT_URL not set, domain events are discarded")
		app.publisher = events.NopPublisher{}
	}

	return nil
}

// close releases backend handles in reverse order of acquisition.
func (app *App) close() error {
	var errs []error
	if app.publisher != nil {
		errs = append(errs, app.publisher.Close())
	}
	if app.redis != nil {
		errs = append(errs, app.redis.Close())
	}
	if app.db != nil {
		errs = append(errs, app.db.Close())
	}
	return errors.Join(errs...)
}

func (app *App) shutdown(ctx context.Context) error {
	app.logger.Info(ctx, "Graceful shutdown initiated...")
	err := app.server.Shutdown(ctx)
	return errors.Join(err, app.close())
}

// Run serves until SIGINT/SIGTERM and returns the process exit code.
func (app *App) Run() int {
	ctx := context.Background()
	app.logger.Info(ctx, "Starting app...")

	listenErr := make(chan error, 1)
	go func() {
		listenErr <- app.server.Run(ctx)
	}()

	wait := gfshutdown.GracefulShutdown(ctx, shutdownTimeout, map[string]gfshutdown.Operation{
		"campuslink": app.shutdown,
	})

	select {
	case err := <-listenErr:
		if err != nil {
			app.logger.Error(ctx, "HTTP server failed", "error", err)
			_ = app.close()
			return 1
		}
		return <-wait
	case code := <-wait:
		return code
	}
}
