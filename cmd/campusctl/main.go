package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/campuslink/internal/cli"
	"github.com/dmitrijs2005/campuslink/internal/logging"
	"github.com/dmitrijs2005/campuslink/internal/server/auth"
	"github.com/dmitrijs2005/campuslink/internal/server/config"
	"github.com/dmitrijs2005/campuslink/internal/server/events"
	"github.com/dmitrijs2005/campuslink/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/campuslink/internal/server/services"
)

// connect opens the configured database, brings the schema up to date and
// returns a user service bound to it.
func connect(ctx context.Context) (cli.UserCreator, io.Closer, error) {
	cfg := config.LoadConfig()

	db, err := repomanager.OpenDB(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("db init error: %w", err)
	}

	m := repomanager.NewPostgresRepositoryManager()
	if err := m.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("migration error: %w", err)
	}

	logger := logging.New(os.Stderr, cfg.LogLevel)
	users := services.NewUserService(db, m, nil, auth.NewPasswordHasher(0), nil, events.NewEmitter(nil, logger))

	return users, db, nil
}

func main() {
	app := cli.NewApp(os.Stdout, connect)
	os.Exit(app.Run(context.Background(), os.Args[1:]))
}
