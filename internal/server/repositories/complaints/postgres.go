package complaints

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

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

const selectComplaint = `SELECT c.id, c.title, c.description, c.category, c.status, c.priority,
		 c.resolved_at, c.created_at, c.updated_at,
		 s.id, s.name, s.email,
		 a.id, a.name, a.email
		 FROM complaints c
		 JOIN users s ON s.id = c.student_id
		 LEFT JOIN users a ON a.id = c.assigned_to_id`

type scanner interface {
	Scan(dest ...any) error
}

func scanComplaint(row scanner) (*models.Complaint, error) {
	c := &models.Complaint{}
	var (
		resolvedAt                             sql.NullTime
		studentID, studentName, studentEmail   string
		assigneeID, assigneeName, assigneeMail sql.NullString
	)
	if err := row.Scan(&c.ID, &c.Title, &c.Description, &c.Category, &c.Status, &c.Priority,
		&resolvedAt, &c.CreatedAt, &c.UpdatedAt,
		&studentID, &studentName, &studentEmail,
		&assigneeID, &assigneeName, &assigneeMail); err != nil {
		return nil, err
	}

	c.Student = models.NewUserSummary(studentID, studentName, studentEmail)
	if assigneeID.Valid {
		s := models.NewUserSummary(assigneeID.String, assigneeName.String, assigneeMail.String)
		c.AssignedTo = &s
	}
	if resolvedAt.Valid {
		t := resolvedAt.Time
		c.ResolvedAt = &t
	}
	return c, nil
}

func (r *PostgresRepository) List(ctx context.Context, filter models.ComplaintFilter) ([]*models.Complaint, error) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if filter.Status != "" {
		add("c.status = $%d", filter.Status)
	}
	if filter.Category != "" {
		add("c.category = $%d", filter.Category)
	}
	if filter.StudentID != "" {
		add("c.student_id = $%d", filter.StudentID)
	}

	query := selectComplaint
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY c.created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Complaint, 0)
	for rows.Next() {
		c, err := scanComplaint(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Complaint, error) {
	c, err := scanComplaint(r.db.QueryRowContext(ctx, selectComplaint+` WHERE c.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

func (r *PostgresRepository) GetOwnerForUpdate(ctx context.Context, id string) (string, error) {
	var studentID string
	err := r.db.QueryRowContext(ctx, `SELECT student_id FROM complaints WHERE id = $1 FOR UPDATE`, id).Scan(&studentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", common.ErrorNotFound
		}
		return "", fmt.Errorf("db error: %w", err)
	}
	return studentID, nil
}

func (r *PostgresRepository) Create(ctx context.Context, c *models.Complaint) (*models.Complaint, error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}

	query :=
		`INSERT INTO complaints (id, title, description, category, status, priority, student_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`

	if _, err := r.db.ExecContext(ctx, query,
		c.ID, c.Title, c.Description, c.Category, c.Status, c.Priority, c.Student.ID); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return r.GetByID(ctx, c.ID)
}

// UpdateStatus sets the status. A non-empty assignedTo replaces the assignee
// and a non-nil resolvedAt is recorded; otherwise both keep their values.
func (r *PostgresRepository) UpdateStatus(ctx context.Context, id string, status models.ComplaintStatus, assignedTo string, resolvedAt *time.Time) (*models.Complaint, error) {
	query :=
		`UPDATE complaints SET status = $2,
		 assigned_to_id = COALESCE($3, assigned_to_id),
		 resolved_at = COALESCE($4, resolved_at),
		 updated_at = now()
		 WHERE id = $1`

	var assignee, resolved any
	if assignedTo != "" {
		assignee = assignedTo
	}
	if resolvedAt != nil {
		resolved = *resolvedAt
	}

	res, err := r.db.ExecContext(ctx, query, id, status, assignee, resolved)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	if err := dbx.ExpectAffected(res); err != nil {
		return nil, err
	}

	return r.GetByID(ctx, id)
}

func (r *PostgresRepository) UpdatePriority(ctx context.Context, id string, priority models.Priority) (*models.Complaint, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE complaints SET priority = $2, updated_at = now() WHERE id = $1`, id, priority)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	if err := dbx.ExpectAffected(res); err != nil {
		return nil, err
	}

	return r.GetByID(ctx, id)
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM complaints WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return dbx.ExpectAffected(res)
}

func (r *PostgresRepository) CountByStatus(ctx context.Context) ([]models.StatCount, error) {
	return r.countBy(ctx, `SELECT status, COUNT(*) FROM complaints GROUP BY status ORDER BY status`)
}

func (r *PostgresRepository) CountByCategory(ctx context.Context) ([]models.StatCount, error) {
	return r.countBy(ctx, `SELECT category, COUNT(*) FROM complaints GROUP BY category ORDER BY category`)
}

func (r *PostgresRepository) countBy(ctx context.Context, query string) ([]models.StatCount, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.StatCount, 0)
	for rows.Next() {
		var s models.StatCount
		if err := rows.Scan(&s.Key, &s.Count); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}
