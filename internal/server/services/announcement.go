package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/campuslink/internal/server/events"
	"github.com/dmitrijs2005/campuslink/internal/server/models"
	"github.com/dmitrijs2005/campuslink/internal/server/repositories/repomanager"
)

const announcementNotFound = "Announcement not found"

// AnnouncementInput is the writable part of an announcement.
type AnnouncementInput struct {
	Title    string
	Content  string
	Category models.AnnouncementCategory
}

type AnnouncementService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	events      *events.Emitter
}

func NewAnnouncementService(db *sql.DB, m repomanager.RepositoryManager, emitter *events.Emitter) *AnnouncementService {
	return &AnnouncementService{db: db, repomanager: m, events: emitter}
}

func validAnnouncementCategory(c models.AnnouncementCategory) bool {
	switch c {
	case models.AnnouncementGeneral, models.AnnouncementAcademic, models.AnnouncementEvent,
		models.AnnouncementExam, models.AnnouncementHoliday, models.AnnouncementOther:
		return true
	}
	return false
}

func (in *AnnouncementInput) normalize() error {
	in.Title = strings.TrimSpace(in.Title)
	in.Content = strings.TrimSpace(in.Content)
	if in.Title == "" || in.Content == "" {
		return validation("Please provide title and content")
	}
	if in.Category == "" {
		in.Category = models.AnnouncementGeneral
	}
	if !validAnnouncementCategory(in.Category) {
		return validation("Invalid category %q", in.Category)
	}
	return nil
}

// List returns announcements newest first. An empty or "all" category
// returns every announcement.
func (s *AnnouncementService) List(ctx context.Context, category string) ([]*models.Announcement, error) {
	list, err := s.repomanager.Announcements(s.db).List(ctx, models.AnnouncementCategory(filterValue(category)))
	if err != nil {
		return nil, fmt.Errorf("error listing announcements: %w", err)
	}
	return list, nil
}

func (s *AnnouncementService) Create(ctx context.Context, author *models.Identity, in AnnouncementInput) (*models.Announcement, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}

	a, err := s.repomanager.Announcements(s.db).Create(ctx, &models.Announcement{
		Title:    in.Title,
		Content:  in.Content,
		Category: in.Category,
		Author:   models.UserSummary{ID: author.ID},
	})
	if err != nil {
		return nil, fmt.Errorf("error creating announcement: %w", err)
	}

	s.events.Emit(ctx, events.AnnouncementCreated, a)
	return a, nil
}

func (s *AnnouncementService) Update(ctx context.Context, id string, in AnnouncementInput) (*models.Announcement, error) {
	if err := checkID(id, announcementNotFound); err != nil {
		return nil, err
	}
	if err := in.normalize(); err != nil {
		return nil, err
	}

	a, err := s.repomanager.Announcements(s.db).Update(ctx, &models.Announcement{
		ID:       id,
		Title:    in.Title,
		Content:  in.Content,
		Category: in.Category,
	})
	if err != nil {
		return nil, notFoundAs(err, announcementNotFound, "updating announcement")
	}
	return a, nil
}

func (s *AnnouncementService) Delete(ctx context.Context, id string) error {
	if err := checkID(id, announcementNotFound); err != nil {
		return err
	}
	if err := s.repomanager.Announcements(s.db).Delete(ctx, id); err != nil {
		return notFoundAs(err, announcementNotFound, "deleting announcement")
	}
	return nil
}
