package httpapi

import (
	"context"

	"github.com/dmitrijs2005/campuslink/internal/server/auth"
	"github.com/dmitrijs2005/campuslink/internal/server/models"
	"github.com/dmitrijs2005/campuslink/internal/server/services"
)

// The interfaces below are satisfied by the types in package services.

type UserService interface {
	Register(ctx context.Context, name, email, password string, role models.Role) (*services.AuthResult, error)
	Login(ctx context.Context, email, password string, role models.Role) (*services.AuthResult, error)
	Logout(ctx context.Context, claims *auth.Claims) error
	Me(ctx context.Context, userID string) (*models.User, error)
}

type AnnouncementService interface {
	List(ctx context.Context, category string) ([]*models.Announcement, error)
	Create(ctx context.Context, author *models.Identity, in services.AnnouncementInput) (*models.Announcement, error)
	Update(ctx context.Context, id string, in services.AnnouncementInput) (*models.Announcement, error)
	Delete(ctx context.Context, id string) error
}

type ComplaintService interface {
	List(ctx context.Context, caller *models.Identity, status, category string) ([]*models.Complaint, error)
	Create(ctx context.Context, student *models.Identity, in services.ComplaintInput) (*models.Complaint, error)
	UpdateStatus(ctx context.Context, id string, status models.ComplaintStatus, assignedTo string) (*models.Complaint, error)
	UpdatePriority(ctx context.Context, id string, priority models.Priority) (*models.Complaint, error)
	Delete(ctx context.Context, caller *models.Identity, id string) error
	Stats(ctx context.Context) (*models.ComplaintStats, error)
}

type LostFoundService interface {
	List(ctx context.Context, category, itemType string) ([]*models.LostFoundItem, error)
	Create(ctx context.Context, owner *models.Identity, in services.LostFoundInput) (*models.LostFoundItem, error)
	UpdateStatus(ctx context.Context, caller *models.Identity, id string, status models.ItemStatus) (*models.LostFoundItem, error)
	Delete(ctx context.Context, caller *models.Identity, id string) error
	PhotoUploadURL(ctx context.Context, caller *models.Identity, id string) (*models.PhotoUpload, error)
	PhotoURL(ctx context.Context, id string) (string, error)
}

type TimetableService interface {
	List(ctx context.Context, caller *models.Identity, userEmail string) ([]*models.TimetableEntry, error)
	Create(ctx context.Context, caller *models.Identity, in services.ClassInput) (*models.TimetableEntry, error)
	Update(ctx context.Context, caller *models.Identity, id string, in services.ClassInput) (*models.TimetableEntry, error)
	Delete(ctx context.Context, caller *models.Identity, id string) error
	DeleteSlot(ctx context.Context, caller *models.Identity, day models.Day, time string) error
}

// Pinger reports database reachability for /health.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Services bundles the business logic the handlers call.
type Services struct {
	Users         UserService
	Announcements AnnouncementService
	Complaints    ComplaintService
	LostFound     LostFoundService
	Timetable     TimetableService
}

var (
	_ UserService         = (*services.UserService)(nil)
	_ AnnouncementService = (*services.AnnouncementService)(nil)
	_ ComplaintService    = (*services.ComplaintService)(nil)
	_ LostFoundService    = (*services.LostFoundService)(nil)
	_ TimetableService    = (*services.TimetableService)(nil)
)
