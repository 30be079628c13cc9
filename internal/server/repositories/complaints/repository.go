package complaints

import (
	"context"
	"time"

	"github.com/dmitrijs2005/campuslink/internal/server/models"
)

type Repository interface {
	List(ctx context.Context, filter models.ComplaintFilter) ([]*models.Complaint, error)
	GetByID(ctx context.Context, id string) (*models.Complaint, error)
	// GetOwnerForUpdate returns the student id of a complaint and locks the
	// row until the surrounding transaction ends.
	GetOwnerForUpdate(ctx context.Context, id string) (string, error)
	Create(ctx context.Context, c *models.Complaint) (*models.Complaint, error)
	UpdateStatus(ctx context.Context, id string, status models.ComplaintStatus, assignedTo string, resolvedAt *time.Time) (*models.Complaint, error)
	UpdatePriority(ctx context.Context, id string, priority models.Priority) (*models.Complaint, error)
	Delete(ctx context.Context, id string) error
	CountByStatus(ctx context.Context) ([]models.StatCount, error)
	CountByCategory(ctx context.Context) ([]models.StatCount, error)
}
