package services

import (
	"bytes"
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/campuslink/internal/common"
	"github.com/dmitrijs2005/campuslink/internal/dbx"
	"github.com/dmitrijs2005/campuslink/internal/logging"
	"github.com/dmitrijs2005/campuslink/internal/server/events"
	"github.com/dmitrijs2005/campuslink/internal/server/models"
	"github.com/dmitrijs2005/campuslink/internal/server/repositories/announcements"
	"github.com/dmitrijs2005/campuslink/internal/server/repositories/complaints"
	"github.com/dmitrijs2005/campuslink/internal/server/repositories/lostfound"
	"github.com/dmitrijs2005/campuslink/internal/server/repositories/timetable"
	"github.com/dmitrijs2005/campuslink/internal/server/repositories/users"
	"github.com/google/uuid"
)

// --- helpers ---

const (
	studentID = "11111111-1111-1111-1111-111111111111"
	staffID   = "22222222-2222-2222-2222-222222222222"
	adminID   = "33333333-3333-3333-3333-333333333333"
	recordID  = "44444444-4444-4444-4444-444444444444"
)

var (
	student = &models.Identity{ID: studentID, Email: "stud@campus.edu", Role: models.RoleStudent}
	staff   = &models.Identity{ID: staffID, Email: "staff@campus.edu", Role: models.RoleStaff}
	admin   = &models.Identity{ID: adminID, Email: "admin@campus.edu", Role: models.RoleAdmin}
)

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

type recordingPublisher struct {
	keys []string
	data []any
}

func (p *recordingPublisher) Publish(_ context.Context, key string, ev events.Event) error {
	p.keys = append(p.keys, key)
	p.data = append(p.data, ev.Data)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func newEmitter() (*events.Emitter, *recordingPublisher) {
	pub := &recordingPublisher{}
	return events.NewEmitter(pub, logging.New(&bytes.Buffer{}, "error")), pub
}

// --- fake repositories ---

type fakeUsersRepo struct {
	byID    map[string]*models.User
	created []*models.User
	err     error
}

func newFakeUsers(us ...*models.User) *fakeUsersRepo {
	f := &fakeUsersRepo{byID: map[string]*models.User{}}
	for _, u := range us {
		f.byID[u.ID] = u
	}
	return f
}

func (f *fakeUsersRepo) Create(_ context.Context, u *models.User) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, existing := range f.byID {
		if existing.Email == u.Email {
			return nil, common.ErrorAlreadyExists
		}
	}
	cp := *u
	if cp.ID == "" {
		cp.ID = uuid.NewString()
	}
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = cp.CreatedAt
	f.byID[cp.ID] = &cp
	f.created = append(f.created, &cp)
	return &cp, nil
}

func (f *fakeUsersRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, u := range f.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) GetByEmailAndRole(ctx context.Context, email string, role models.Role) (*models.User, error) {
	u, err := f.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if u.Role != role {
		return nil, common.ErrorNotFound
	}
	return u, nil
}

type fakeAnnouncementsRepo struct {
	listCategory models.AnnouncementCategory
	created      *models.Announcement
	updated      *models.Announcement
	deleted      string
	err          error
}

func (f *fakeAnnouncementsRepo) List(_ context.Context, c models.AnnouncementCategory) ([]*models.Announcement, error) {
	f.listCategory = c
	return []*models.Announcement{}, f.err
}

func (f *fakeAnnouncementsRepo) GetByID(context.Context, string) (*models.Announcement, error) {
	return nil, common.ErrorNotFound
}

func (f *fakeAnnouncementsRepo) Create(_ context.Context, a *models.Announcement) (*models.Announcement, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created = a
	cp := *a
	cp.ID = recordID
	return &cp, nil
}

func (f *fakeAnnouncementsRepo) Update(_ context.Context, a *models.Announcement) (*models.Announcement, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.updated = a
	return a, nil
}

func (f *fakeAnnouncementsRepo) Delete(_ context.Context, id string) error {
	f.deleted = id
	return f.err
}

type fakeComplaintsRepo struct {
	owner      string
	ownerErr   error
	filter     models.ComplaintFilter
	created    *models.Complaint
	status     models.ComplaintStatus
	assignedTo string
	resolvedAt *time.Time
	priority   models.Priority
	deleted    string
	stats      []models.StatCount
	err        error
}

func (f *fakeComplaintsRepo) List(_ context.Context, filter models.ComplaintFilter) ([]*models.Complaint, error) {
	f.filter = filter
	return []*models.Complaint{}, f.err
}

func (f *fakeComplaintsRepo) GetByID(context.Context, string) (*models.Complaint, error) {
	return nil, common.ErrorNotFound
}

func (f *fakeComplaintsRepo) GetOwnerForUpdate(context.Context, string) (string, error) {
	return f.owner, f.ownerErr
}

func (f *fakeComplaintsRepo) Create(_ context.Context, c *models.Complaint) (*models.Complaint, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created = c
	cp := *c
	cp.ID = recordID
	return &cp, nil
}

func (f *fakeComplaintsRepo) UpdateStatus(_ context.Context, id string, status models.ComplaintStatus, assignedTo string, resolvedAt *time.Time) (*models.Complaint, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.status, f.assignedTo, f.resolvedAt = status, assignedTo, resolvedAt
	return &models.Complaint{ID: id, Status: status, Student: models.UserSummary{ID: f.owner}, ResolvedAt: resolvedAt}, nil
}

func (f *fakeComplaintsRepo) UpdatePriority(_ context.Context, id string, p models.Priority) (*models.Complaint, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.priority = p
	return &models.Complaint{ID: id, Priority: p}, nil
}

func (f *fakeComplaintsRepo) Delete(_ context.Context, id string) error {
	f.deleted = id
	return f.err
}

func (f *fakeComplaintsRepo) CountByStatus(context.Context) ([]models.StatCount, error) {
	return f.stats, f.err
}

func (f *fakeComplaintsRepo) CountByCategory(context.Context) ([]models.StatCount, error) {
	return []models.StatCount{{Key: "water", Count: 1}}, f.err
}

type fakeLostFoundRepo struct {
	owner    string
	ownerErr error
	item     *models.LostFoundItem
	filter   models.LostFoundFilter
	created  *models.LostFoundItem
	status   models.ItemStatus
	photoKey string
	deleted  string
	err      error
}

func (f *fakeLostFoundRepo) ListActive(_ context.Context, filter models.LostFoundFilter) ([]*models.LostFoundItem, error) {
	f.filter = filter
	return []*models.LostFoundItem{}, f.err
}

func (f *fakeLostFoundRepo) GetByID(context.Context, string) (*models.LostFoundItem, error) {
	if f.item == nil {
		return nil, common.ErrorNotFound
	}
	return f.item, nil
}

func (f *fakeLostFoundRepo) GetOwnerForUpdate(context.Context, string) (string, error) {
	return f.owner, f.ownerErr
}

func (f *fakeLostFoundRepo) Create(_ context.Context, item *models.LostFoundItem) (*models.LostFoundItem, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created = item
	cp := *item
	cp.ID = recordID
	return &cp, nil
}

func (f *fakeLostFoundRepo) UpdateStatus(_ context.Context, id string, status models.ItemStatus) (*models.LostFoundItem, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.status = status
	return &models.LostFoundItem{ID: id, Status: status}, nil
}

func (f *fakeLostFoundRepo) SetPhotoKey(_ context.Context, _ string, key string) error {
	f.photoKey = key
	return f.err
}

func (f *fakeLostFoundRepo) Delete(_ context.Context, id string) error {
	f.deleted = id
	return f.err
}

type fakeTimetableRepo struct {
	entries   []*models.TimetableEntry
	listUser  string
	created   *models.TimetableEntry
	updated   *models.TimetableEntry
	deleted   [2]string
	slot      [3]string
	createErr error
	err       error
}

func (f *fakeTimetableRepo) ListByUser(_ context.Context, userID string) ([]*models.TimetableEntry, error) {
	f.listUser = userID
	return f.entries, f.err
}

func (f *fakeTimetableRepo) Create(_ context.Context, e *models.TimetableEntry) (*models.TimetableEntry, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = e
	return e, nil
}

func (f *fakeTimetableRepo) Update(_ context.Context, e *models.TimetableEntry) (*models.TimetableEntry, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.updated = e
	return e, nil
}

func (f *fakeTimetableRepo) Delete(_ context.Context, id, userID string) error {
	f.deleted = [2]string{id, userID}
	return f.err
}

func (f *fakeTimetableRepo) DeleteSlot(_ context.Context, userID string, day models.Day, time string) error {
	f.slot = [3]string{userID, string(day), time}
	return f.err
}

// --- fake repository manager ---

type fakeRepoManager struct {
	users         *fakeUsersRepo
	announcements *fakeAnnouncementsRepo
	complaints    *fakeComplaintsRepo
	lostfound     *fakeLostFoundRepo
	timetable     *fakeTimetableRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{
		users:         newFakeUsers(),
		announcements: &fakeAnnouncementsRepo{},
		complaints:    &fakeComplaintsRepo{},
		lostfound:     &fakeLostFoundRepo{},
		timetable:     &fakeTimetableRepo{},
	}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository              { return m.users }
func (m *fakeRepoManager) Announcements(dbx.DBTX) announcements.Repository {
	return m.announcements
}
func (m *fakeRepoManager) Complaints(dbx.DBTX) complaints.Repository { return m.complaints }
func (m *fakeRepoManager) LostFound(dbx.DBTX) lostfound.Repository   { return m.lostfound }
func (m *fakeRepoManager) Timetable(dbx.DBTX) timetable.Repository   { return m.timetable }
