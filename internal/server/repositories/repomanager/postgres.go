// Package repomanager provides a concrete RepositoryManager for PostgreSQL,
// wiring together repository constructors and database migrations (via goose).
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/campuslink/internal/dbx"
	"github.com/dmitrijs2005/campuslink/internal/server/migrations"
	"github.com/dmitrijs2005/campuslink/internal/server/repositories/announcements"
	"github.com/dmitrijs2005/campuslink/internal/server/repositories/complaints"
	"github.com/dmitrijs2005/campuslink/internal/server/repositories/lostfound"
	"github.com/dmitrijs2005/campuslink/internal/server/repositories/timetable"
	"github.com/dmitrijs2005/campuslink/internal/server/repositories/users"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// PostgresRepositoryManager vends PostgreSQL-backed repository implementations
// and exposes a schema migration hook.
type PostgresRepositoryManager struct{}

func (m *PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Announcements(db dbx.DBTX) announcements.Repository {
	return announcements.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Complaints(db dbx.DBTX) complaints.Repository {
	return complaints.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) LostFound(db dbx.DBTX) lostfound.Repository {
	return lostfound.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Timetable(db dbx.DBTX) timetable.Repository {
	return timetable.NewPostgresRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations sets up goose with the embedded migrations and runs them
// against the provided database connection.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return gooseUpContext(ctx, db, ".")
}

// OpenDB opens a pgx-backed *sql.DB and verifies the connection.
func OpenDB(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// NewPostgresRepositoryManager constructs a PostgreSQL-backed RepositoryManager.
func NewPostgresRepositoryManager() RepositoryManager {
	return &PostgresRepositoryManager{}
}
