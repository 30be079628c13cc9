package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/campuslink/internal/common"
	"github.com/dmitrijs2005/campuslink/internal/dbx"
	"github.com/dmitrijs2005/campuslink/internal/server/events"
	"github.com/dmitrijs2005/campuslink/internal/server/models"
	"github.com/dmitrijs2005/campuslink/internal/server/repositories/repomanager"
)

const complaintNotFound = "Complaint not found"

type ComplaintInput struct {
	Title       string
	Description string
	Category    models.ComplaintCategory
	Priority    models.Priority
}

// StatusChange is the payload of complaint.status_changed events.
type StatusChange struct {
	ComplaintID string                 `json:"complaintId"`
	StudentID   string                 `json:"studentId"`
	Status      models.ComplaintStatus `json:"status"`
	AssignedTo  string                 `json:"assignedTo,omitempty"`
}

type ComplaintService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	events      *events.Emitter
	now         func() time.Time
}

func NewComplaintService(db *sql.DB, m repomanager.RepositoryManager, emitter *events.Emitter) *ComplaintService {
	return &ComplaintService{db: db, repomanager: m, events: emitter, now: time.Now}
}

func validComplaintCategory(c models.ComplaintCategory) bool {
	switch c {
	case models.ComplaintWater, models.ComplaintElectricity, models.ComplaintCleaning,
		models.ComplaintMaintenance, models.ComplaintOther:
		return true
	}
	return false
}

func validComplaintStatus(s models.ComplaintStatus) bool {
	switch s {
	case models.ComplaintPending, models.ComplaintInProgress, models.ComplaintResolved:
		return true
	}
	return false
}

func validPriority(p models.Priority) bool {
	switch p {
	case models.PriorityLow, models.PriorityMedium, models.PriorityHigh:
		return true
	}
	return false
}

func notFoundAs(err error, msg, action string) error {
	if errors.Is(err, common.ErrorNotFound) {
		return common.NewError(common.ErrorNotFound, "%s", msg)
	}
	return fmt.Errorf("error %s: %w", action, err)
}

// List returns complaints newest first. Students only ever see their own.
func (s *ComplaintService) List(ctx context.Context, caller *models.Identity, status, category string) ([]*models.Complaint, error) {
	filter := models.ComplaintFilter{
		Status:   models.ComplaintStatus(filterValue(status)),
		Category: models.ComplaintCategory(filterValue(category)),
	}
	if !caller.IsPrivileged() {
		filter.StudentID = caller.ID
	}

	list, err := s.repomanager.Complaints(s.db).List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error listing complaints: %w", err)
	}
	return list, nil
}

func (s *ComplaintService) Create(ctx context.Context, student *models.Identity, in ComplaintInput) (*models.Complaint, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	if in.Title == "" || in.Description == "" || in.Category == "" {
		return nil, validation("Please provide title, description and category")
	}
	if !validComplaintCategory(in.Category) {
		return nil, validation("Invalid category %q", in.Category)
	}
	if in.Priority == "" {
		in.Priority = models.PriorityMedium
	}
	if !validPriority(in.Priority) {
		return nil, validation("Invalid priority %q", in.Priority)
	}

	c, err := s.repomanager.Complaints(s.db).Create(ctx, &models.Complaint{
		Title:       in.Title,
		Description: in.Description,
		Category:    in.Category,
		Status:      models.ComplaintPending,
		Priority:    in.Priority,
		Student:     models.UserSummary{ID: student.ID},
	})
	if err != nil {
		return nil, fmt.Errorf("error creating complaint: %w", err)
	}

	s.events.Emit(ctx, events.ComplaintCreated, c)
	return c, nil
}

// UpdateStatus changes the status and, when assignedTo is set, the assignee.
// Moving to resolved stamps resolvedAt.
func (s *ComplaintService) UpdateStatus(ctx context.Context, id string, status models.ComplaintStatus, assignedTo string) (*models.Complaint, error) {
	if err := checkID(id, complaintNotFound); err != nil {
		return nil, err
	}
	if !validComplaintStatus(status) {
		return nil, validation("Invalid status %q", status)
	}
	if assignedTo != "" {
		if err := checkID(assignedTo, "Assignee not found"); err != nil {
			return nil, validation("Assignee not found")
		}
	}

	var resolvedAt *time.Time
	if status == models.ComplaintResolved {
		t := s.now().UTC()
		resolvedAt = &t
	}

	var c *models.Complaint
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Complaints(tx)
		if _, err := repo.GetOwnerForUpdate(ctx, id); err != nil {
			return notFoundAs(err, complaintNotFound, "loading complaint")
		}
		if assignedTo != "" {
			if _, err := s.repomanager.Users(tx).GetByID(ctx, assignedTo); err != nil {
				if errors.Is(err, common.ErrorNotFound) {
					return validation("Assignee not found")
				}
				return fmt.Errorf("error loading assignee: %w", err)
			}
		}
		var err error
		c, err = repo.UpdateStatus(ctx, id, status, assignedTo, resolvedAt)
		if err != nil {
			return notFoundAs(err, complaintNotFound, "updating complaint")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.events.Emit(ctx, events.ComplaintStatusChanged, StatusChange{
		ComplaintID: c.ID,
		StudentID:   c.Student.ID,
		Status:      c.Status,
		AssignedTo:  assignedTo,
	})
	return c, nil
}

func (s *ComplaintService) UpdatePriority(ctx context.Context, id string, priority models.Priority) (*models.Complaint, error) {
	if err := checkID(id, complaintNotFound); err != nil {
		return nil, err
	}
	if !validPriority(priority) {
		return nil, validation("Invalid priority %q", priority)
	}
	c, err := s.repomanager.Complaints(s.db).UpdatePriority(ctx, id, priority)
	if err != nil {
		return nil, notFoundAs(err, complaintNotFound, "updating complaint")
	}
	return c, nil
}

// Delete removes a complaint. Students may only delete their own.
func (s *ComplaintService) Delete(ctx context.Context, caller *models.Identity, id string) error {
	if err := checkID(id, complaintNotFound); err != nil {
		return err
	}
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Complaints(tx)
		owner, err := repo.GetOwnerForUpdate(ctx, id)
		if err != nil {
			return notFoundAs(err, complaintNotFound, "loading complaint")
		}
		if caller.Role == models.RoleStudent && owner != caller.ID {
			return common.NewError(common.ErrorForbidden, "Not authorized")
		}
		if err := repo.Delete(ctx, id); err != nil {
			return notFoundAs(err, complaintNotFound, "deleting complaint")
		}
		return nil
	})
}

func (s *ComplaintService) Stats(ctx context.Context) (*models.ComplaintStats, error) {
	repo := s.repomanager.Complaints(s.db)
	byStatus, err := repo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("error counting complaints: %w", err)
	}
	byCategory, err := repo.CountByCategory(ctx)
	if err != nil {
		return nil, fmt.Errorf("error counting complaints: %w", err)
	}
	return &models.ComplaintStats{StatusStats: byStatus, CategoryStats: byCategory}, nil
}
