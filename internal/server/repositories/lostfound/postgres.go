package lostfound

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

const selectItem = `SELECT i.id, i.title, i.description, i.category, i.item_type, i.location, i.contact,
		 i.status, i.photo_key, i.created_at, i.updated_at,
		 u.id, u.name, u.email
		 FROM lost_found_items i JOIN users u ON u.id = i.user_id`

type scanner interface {
	Scan(dest ...any) error
}

func scanItem(row scanner) (*models.LostFoundItem, error) {
	item := &models.LostFoundItem{}
	var userID, userName, userEmail string
	if err := row.Scan(&item.ID, &item.Title, &item.Description, &item.Category, &item.ItemType,
		&item.Location, &item.Contact, &item.Status, &item.PhotoKey, &item.CreatedAt, &item.UpdatedAt,
		&userID, &userName, &userEmail); err != nil {
		return nil, err
	}
	item.User = models.NewUserSummary(userID, userName, userEmail)
	return item, nil
}

// ListActive returns unresolved items newest first.
func (r *PostgresRepository) ListActive(ctx context.Context, filter models.LostFoundFilter) ([]*models.LostFoundItem, error) {
	query := selectItem + ` WHERE i.status = $1`
	args := []any{models.ItemActive}

	if filter.Category != "" {
		args = append(args, filter.Category)
		query += fmt.Sprintf(` AND i.category = $%d`, len(args))
	}
	if filter.ItemType != "" {
		args = append(args, filter.ItemType)
		query += fmt.Sprintf(` AND i.item_type = $%d`, len(args))
	}
	query += ` ORDER BY i.created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.LostFoundItem, 0)
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.LostFoundItem, error) {
	item, err := scanItem(r.db.QueryRowContext(ctx, selectItem+` WHERE i.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return item, nil
}

func (r *PostgresRepository) GetOwnerForUpdate(ctx context.Context, id string) (string, error) {
	var userID string
	err := r.db.QueryRowContext(ctx, `SELECT user_id FROM lost_found_items WHERE id = $1 FOR UPDATE`, id).Scan(&userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", common.ErrorNotFound
		}
		return "", fmt.Errorf("db error: %w", err)
	}
	return userID, nil
}

func (r *PostgresRepository) Create(ctx context.Context, item *models.LostFoundItem) (*models.LostFoundItem, error) {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}

	query :=
		`INSERT INTO lost_found_items (id, title, description, category, item_type, location, contact, user_id, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	if _, err := r.db.ExecContext(ctx, query,
		item.ID, item.Title, item.Description, item.Category, item.ItemType,
		item.Location, item.Contact, item.User.ID, item.Status); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return r.GetByID(ctx, item.ID)
}

func (r *PostgresRepository) UpdateStatus(ctx context.Context, id string, status models.ItemStatus) (*models.LostFoundItem, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE lost_found_items SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	if err := dbx.ExpectAffected(res); err != nil {
		return nil, err
	}

	return r.GetByID(ctx, id)
}

func (r *PostgresRepository) SetPhotoKey(ctx context.Context, id string, key string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE lost_found_items SET photo_key = $2, updated_at = now() WHERE id = $1`, id, key)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return dbx.ExpectAffected(res)
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM lost_found_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return dbx.ExpectAffected(res)
}
