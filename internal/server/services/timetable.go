package services

import (
	"cmp"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/dmitrijs2005/campuslink/internal/common"
	"github.com/dmitrijs2005/campuslink/internal/server/models"
	"github.com/dmitrijs2005/campuslink/internal/server/repositories/repomanager"
)

const classNotFound = "Class not found"

type ClassInput struct {
	Day     models.Day
	Time    string
	Subject string
	Room    string
	Teacher string
}

type TimetableService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewTimetableService(db *sql.DB, m repomanager.RepositoryManager) *TimetableService {
	return &TimetableService{db: db, repomanager: m}
}

// SortEntries orders entries by weekday, then by time.
func SortEntries(entries []*models.TimetableEntry) {
	slices.SortStableFunc(entries, func(a, b *models.TimetableEntry) int {
		if c := cmp.Compare(a.Day.Order(), b.Day.Order()); c != 0 {
			return c
		}
		return cmp.Compare(a.Time, b.Time)
	})
}

// List returns the caller's timetable. Staff and admins may pass userEmail
// to read somebody else's.
func (s *TimetableService) List(ctx context.Context, caller *models.Identity, userEmail string) ([]*models.TimetableEntry, error) {
	userID := caller.ID

	userEmail = NormalizeEmail(userEmail)
	if userEmail != "" && userEmail != caller.Email {
		if !caller.IsPrivileged() {
			return nil, common.NewError(common.ErrorForbidden, "Not authorized")
		}
		u, err := s.repomanager.Users(s.db).GetByEmail(ctx, userEmail)
		if err != nil {
			return nil, notFoundAs(err, "User not found", "loading user")
		}
		userID = u.ID
	}

	entries, err := s.repomanager.Timetable(s.db).ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing timetable: %w", err)
	}
	SortEntries(entries)
	return entries, nil
}

func (s *TimetableService) Create(ctx context.Context, caller *models.Identity, in ClassInput) (*models.TimetableEntry, error) {
	in.Time = strings.TrimSpace(in.Time)
	in.Subject = strings.TrimSpace(in.Subject)
	if in.Day == "" || in.Time == "" || in.Subject == "" {
		return nil, validation("Please provide day, time and subject")
	}
	if in.Day.Order() == 0 {
		return nil, validation("Invalid day %q", in.Day)
	}

	e, err := s.repomanager.Timetable(s.db).Create(ctx, &models.TimetableEntry{
		User:    models.UserSummary{ID: caller.ID},
		Day:     in.Day,
		Time:    in.Time,
		Subject: in.Subject,
		Room:    strings.TrimSpace(in.Room),
		Teacher: strings.TrimSpace(in.Teacher),
	})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.NewError(common.ErrorAlreadyExists, "Time slot already occupied")
		}
		return nil, fmt.Errorf("error creating class: %w", err)
	}
	return e, nil
}

// Update changes subject, room and teacher of the caller's own entry. Empty
// fields keep their stored values.
func (s *TimetableService) Update(ctx context.Context, caller *models.Identity, id string, in ClassInput) (*models.TimetableEntry, error) {
	if err := checkID(id, classNotFound); err != nil {
		return nil, err
	}
	e, err := s.repomanager.Timetable(s.db).Update(ctx, &models.TimetableEntry{
		ID:      id,
		User:    models.UserSummary{ID: caller.ID},
		Subject: strings.TrimSpace(in.Subject),
		Room:    strings.TrimSpace(in.Room),
		Teacher: strings.TrimSpace(in.Teacher),
	})
	if err != nil {
		return nil, notFoundAs(err, classNotFound, "updating class")
	}
	return e, nil
}

func (s *TimetableService) Delete(ctx context.Context, caller *models.Identity, id string) error {
	if err := checkID(id, classNotFound); err != nil {
		return err
	}
	if err := s.repomanager.Timetable(s.db).Delete(ctx, id, caller.ID); err != nil {
		return notFoundAs(err, classNotFound, "deleting class")
	}
	return nil
}

func (s *TimetableService) DeleteSlot(ctx context.Context, caller *models.Identity, day models.Day, time string) error {
	if err := s.repomanager.Timetable(s.db).DeleteSlot(ctx, caller.ID, day, strings.TrimSpace(time)); err != nil {
		return notFoundAs(err, classNotFound, "deleting class")
	}
	return nil
}
