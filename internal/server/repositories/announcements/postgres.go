package announcements

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/campuslink/internal/common"
	"github.com/dmitrijs2005/campuslink/internal/dbx"
	"github.com/dmitrijs2005/campuslink/internal/server/models"
	"github.com/google/uuid"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const selectAnnouncement = `SELECT a.id, a.title, a.content, a.category, a.created_at, a.updated_at,
		 u.id, u.name, u.email
		 FROM announcements a JOIN users u ON u.id = a.author_id`

type scanner interface {
	Scan(dest ...any) error
}

func scanAnnouncement(row scanner) (*models.Announcement, error) {
	a := &models.Announcement{}
	var authorID, authorName, authorEmail string
	if err := row.Scan(&a.ID, &a.Title, &a.Content, &a.Category, &a.CreatedAt, &a.UpdatedAt,
		&authorID, &authorName, &authorEmail); err != nil {
		return nil, err
	}
	a.Author = models.NewUserSummary(authorID, authorName, authorEmail)
	return a, nil
}

// List returns announcements newest first, optionally of one category.
func (r *PostgresRepository) List(ctx context.Context, category models.AnnouncementCategory) ([]*models.Announcement, error) {
	query := selectAnnouncement
	var args []any
	if category != "" {
		query += ` WHERE a.category = $1`
		args = append(args, category)
	}
	query += ` ORDER BY a.created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Announcement, 0)
	for rows.Next() {
		a, err := scanAnnouncement(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Announcement, error) {
	a, err := scanAnnouncement(r.db.QueryRowContext(ctx, selectAnnouncement+` WHERE a.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return a, nil
}

// Create inserts a and reloads it with its author summary.
func (r *PostgresRepository) Create(ctx context.Context, a *models.Announcement) (*models.Announcement, error) {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}

	query :=
		`INSERT INTO announcements (id, title, content, category, author_id)
		 VALUES ($1, $2, $3, $4, $5)`

	if _, err := r.db.ExecContext(ctx, query, a.ID, a.Title, a.Content, a.Category, a.Author.ID); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return r.GetByID(ctx, a.ID)
}

// Update overwrites title, content and category of an existing announcement.
func (r *PostgresRepository) Update(ctx context.Context, a *models.Announcement) (*models.Announcement, error) {
	query :=
		`UPDATE announcements SET title = $2, content = $3, category = $4, updated_at = now()
		 WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, a.ID, a.Title, a.Content, a.Category)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	if err := dbx.ExpectAffected(res); err != nil {
		return nil, err
	}

	return r.GetByID(ctx, a.ID)
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM announcements WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return dbx.ExpectAffected(res)
}
