package timetable

import (
	"context"

	"github.com/dmitrijs2005/campuslink/internal/server/models"
)

type Repository interface {
	ListByUser(ctx context.Context, userID string) ([]*models.TimetableEntry, error)
	// Create fails with common.ErrorAlreadyExists when the user already has
	// an entry at the same day and time.
	Create(ctx context.Context, e *models.TimetableEntry) (*models.TimetableEntry, error)
	// Update changes subject, room and teacher of the user's own entry;
	// empty values keep what is stored.
	Update(ctx context.Context, e *models.TimetableEntry) (*models.TimetableEntry, error)
	Delete(ctx context.Context, id, userID string) error
	DeleteSlot(ctx context.Context, userID string, day models.Day, time string) error
}
