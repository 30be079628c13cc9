package lostfound

import (
	"context"

	"github.com/dmitrijs2005/campuslink/internal/server/models"
)

type Repository interface {
	ListActive(ctx context.Context, filter models.LostFoundFilter) ([]*models.LostFoundItem, error)
	GetByID(ctx context.Context, id string) (*models.LostFoundItem, error)
	// GetOwnerForUpdate returns the owner id of an item and locks the row
	// until the surrounding transaction ends.
	GetOwnerForUpdate(ctx context.Context, id string) (string, error)
	Create(ctx context.Context, item *models.LostFoundItem) (*models.LostFoundItem, error)
	UpdateStatus(ctx context.Context, id string, status models.ItemStatus) (*models.LostFoundItem, error)
	SetPhotoKey(ctx context.Context, id string, key string) error
	Delete(ctx context.Context, id string) error
}
