package timetable

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

// slotConstraint is the unique index on (user_id, day, time).
const slotConstraint = "timetable_entries_user_day_time_key"

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const selectEntry = `SELECT t.id, t.day, t.time, t.subject, t.room, t.teacher, t.created_at, t.updated_at,
		 u.id, u.name, u.email
		 FROM timetable_entries t JOIN users u ON u.id = t.user_id`

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (*models.TimetableEntry, error) {
	e := &models.TimetableEntry{}
	var userID, userName, userEmail string
	if err := row.Scan(&e.ID, &e.Day, &e.Time, &e.Subject, &e.Room, &e.Teacher, &e.CreatedAt, &e.UpdatedAt,
		&userID, &userName, &userEmail); err != nil {
		return nil, err
	}
	e.User = models.NewUserSummary(userID, userName, userEmail)
	return e, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*models.TimetableEntry, error) {
	rows, err := r.db.QueryContext(ctx, selectEntry+` WHERE t.user_id = $1 ORDER BY t.time`, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.TimetableEntry, 0)
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) getForUser(ctx context.Context, id, userID string) (*models.TimetableEntry, error) {
	e, err := scanEntry(r.db.QueryRowContext(ctx, selectEntry+` WHERE t.id = $1 AND t.user_id = $2`, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return e, nil
}

func (r *PostgresRepository) Create(ctx context.Context, e *models.TimetableEntry) (*models.TimetableEntry, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}

	query :=
		`INSERT INTO timetable_entries (id, user_id, day, time, subject, room, teacher)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`

	if _, err := r.db.ExecContext(ctx, query,
		e.ID, e.User.ID, e.Day, e.Time, e.Subject, e.Room, e.Teacher); err != nil {
		if dbx.IsUniqueViolation(err, slotConstraint) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return r.getForUser(ctx, e.ID, e.User.ID)
}

func (r *PostgresRepository) Update(ctx context.Context, e *models.TimetableEntry) (*models.TimetableEntry, error) {
	query :=
		`UPDATE timetable_entries SET
		 subject = COALESCE(NULLIF($3, ''), subject),
		 room = COALESCE(NULLIF($4, ''), room),
		 teacher = COALESCE(NULLIF($5, ''), teacher),
		 updated_at = now()
		 WHERE id = $1 AND user_id = $2`

	res, err := r.db.ExecContext(ctx, query, e.ID, e.User.ID, e.Subject, e.Room, e.Teacher)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	if err := dbx.ExpectAffected(res); err != nil {
		return nil, err
	}

	return r.getForUser(ctx, e.ID, e.User.ID)
}

func (r *PostgresRepository) Delete(ctx context.Context, id, userID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM timetable_entries WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return dbx.ExpectAffected(res)
}

func (r *PostgresRepository) DeleteSlot(ctx context.Context, userID string, day models.Day, time string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM timetable_entries WHERE user_id = $1 AND day = $2 AND time = $3`, userID, day, time)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return dbx.ExpectAffected(res)
}
