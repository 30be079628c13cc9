package announcements

import (
	"context"

	"github.com/dmitrijs2005/campuslink/internal/server/models"
)

type Repository interface {
	List(ctx context.Context, category models.AnnouncementCategory) ([]*models.Announcement, error)
	GetByID(ctx context.Context, id string) (*models.Announcement, error)
	Create(ctx context.Context, a *models.Announcement) (*models.Announcement, error)
	Update(ctx context.Context, a *models.Announcement) (*models.Announcement, error)
	Delete(ctx context.Context, id string) error
}
