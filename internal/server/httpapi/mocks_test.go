package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmitrijs2005/campuslink/internal/common"
	"github.com/dmitrijs2005/campuslink/internal/logging"
	"github.com/dmitrijs2005/campuslink/internal/server/auth"
	"github.com/dmitrijs2005/campuslink/internal/server/models"
	"github.com/dmitrijs2005/campuslink/internal/server/services"
	"github.com/stretchr/testify/require"
)

const (
	testSecret = "0123456789abcdef0123456789abcdef"
	studentID  = "11111111-1111-1111-1111-111111111111"
	staffID    = "22222222-2222-2222-2222-222222222222"
	adminID    = "33333333-3333-3333-3333-333333333333"
	recordID   = "44444444-4444-4444-4444-444444444444"
)

var errNotImplemented = errors.New("not implemented")

var (
	studentUser = &models.User{ID: studentID, Email: "stud@campus.edu", Role: models.RoleStudent, Name: "Stud"}
	staffUser   = &models.User{ID: staffID, Email: "staff@campus.edu", Role: models.RoleStaff, Name: "Staff"}
	adminUser   = &models.User{ID: adminID, Email: "admin@campus.edu", Role: models.RoleAdmin, Name: "Admin"}
)

// --- mock services ---

type mockUsers struct {
	registerFunc func(ctx context.Context, name, email, password string, role models.Role) (*services.AuthResult, error)
	loginFunc    func(ctx context.Context, email, password string, role models.Role) (*services.AuthResult, error)
	logoutFunc   func(ctx context.Context, claims *auth.Claims) error
	users        map[string]*models.User
}

func newMockUsers() *mockUsers {
	return &mockUsers{users: map[string]*models.User{
		studentID: studentUser,
		staffID:   staffUser,
		adminID:   adminUser,
	}}
}

func (m *mockUsers) Register(ctx context.Context, name, email, password string, role models.Role) (*services.AuthResult, error) {
	if m.registerFunc != nil {
		return m.registerFunc(ctx, name, email, password, role)
	}
	return nil, errNotImplemented
}

func (m *mockUsers) Login(ctx context.Context, email, password string, role models.Role) (*services.AuthResult, error) {
	if m.loginFunc != nil {
		return m.loginFunc(ctx, email, password, role)
	}
	return nil, errNotImplemented
}

func (m *mockUsers) Logout(ctx context.Context, claims *auth.Claims) error {
	if m.logoutFunc != nil {
		return m.logoutFunc(ctx, claims)
	}
	return nil
}

func (m *mockUsers) Me(_ context.Context, userID string) (*models.User, error) {
	if u, ok := m.users[userID]; ok {
		return u, nil
	}
	return nil, common.ErrorNotFound
}

type mockAnnouncements struct {
	listFunc   func(ctx context.Context, category string) ([]*models.Announcement, error)
	createFunc func(ctx context.Context, author *models.Identity, in services.AnnouncementInput) (*models.Announcement, error)
	updateFunc func(ctx context.Context, id string, in services.AnnouncementInput) (*models.Announcement, error)
	deleteFunc func(ctx context.Context, id string) error
}

func (m *mockAnnouncements) List(ctx context.Context, category string) ([]*models.Announcement, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, category)
	}
	return []*models.Announcement{}, nil
}

func (m *mockAnnouncements) Create(ctx context.Context, author *models.Identity, in services.AnnouncementInput) (*models.Announcement, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, author, in)
	}
	return &models.Announcement{ID: recordID, Title: in.Title, Author: models.UserSummary{ID: author.ID}}, nil
}

func (m *mockAnnouncements) Update(ctx context.Context, id string, in services.AnnouncementInput) (*models.Announcement, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, in)
	}
	return &models.Announcement{ID: id, Title: in.Title}, nil
}

func (m *mockAnnouncements) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

type mockComplaints struct {
	listFunc   func(ctx context.Context, caller *models.Identity, status, category string) ([]*models.Complaint, error)
	deleteFunc func(ctx context.Context, caller *models.Identity, id string) error
	status     models.ComplaintStatus
	assignedTo string
}

func (m *mockComplaints) List(ctx context.Context, caller *models.Identity, status, category string) ([]*models.Complaint, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, caller, status, category)
	}
	return []*models.Complaint{}, nil
}

func (m *mockComplaints) Create(_ context.Context, student *models.Identity, in services.ComplaintInput) (*models.Complaint, error) {
	return &models.Complaint{ID: recordID, Title: in.Title, Category: in.Category, Student: models.UserSummary{ID: student.ID}}, nil
}

func (m *mockComplaints) UpdateStatus(_ context.Context, id string, status models.ComplaintStatus, assignedTo string) (*models.Complaint, error) {
	m.status, m.assignedTo = status, assignedTo
	return &models.Complaint{ID: id, Status: status}, nil
}

func (m *mockComplaints) UpdatePriority(_ context.Context, id string, p models.Priority) (*models.Complaint, error) {
	return &models.Complaint{ID: id, Priority: p}, nil
}

func (m *mockComplaints) Delete(ctx context.Context, caller *models.Identity, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, caller, id)
	}
	return nil
}

func (m *mockComplaints) Stats(context.Context) (*models.ComplaintStats, error) {
	return &models.ComplaintStats{
		StatusStats:   []models.StatCount{{Key: "pending", Count: 2}},
		CategoryStats: []models.StatCount{{Key: "water", Count: 2}},
	}, nil
}

type mockLostFound struct {
	photoFunc func(ctx context.Context, id string) (string, error)
}

func (m *mockLostFound) List(context.Context, string, string) ([]*models.LostFoundItem, error) {
	return []*models.LostFoundItem{{ID: recordID, Title: "Keys"}}, nil
}

func (m *mockLostFound) Create(_ context.Context, owner *models.Identity, in services.LostFoundInput) (*models.LostFoundItem, error) {
	return &models.LostFoundItem{ID: recordID, Title: in.Title, User: models.UserSummary{ID: owner.ID}}, nil
}

func (m *mockLostFound) UpdateStatus(_ context.Context, caller *models.Identity, id string, status models.ItemStatus) (*models.LostFoundItem, error) {
	if caller.ID != studentID {
		return nil, common.NewError(common.ErrorForbidden, "Not authorized")
	}
	return &models.LostFoundItem{ID: id, Status: status}, nil
}

func (m *mockLostFound) Delete(context.Context, *models.Identity, string) error { return nil }

func (m *mockLostFound) PhotoUploadURL(_ context.Context, _ *models.Identity, _ string) (*models.PhotoUpload, error) {
	return &models.PhotoUpload{UploadURL: "http://signed/put", Key: "lostfound/k"}, nil
}

func (m *mockLostFound) PhotoURL(ctx context.Context, id string) (string, error) {
	if m.photoFunc != nil {
		return m.photoFunc(ctx, id)
	}
	return "http://signed/get", nil
}

type mockTimetable struct {
	createFunc func(ctx context.Context, caller *models.Identity, in services.ClassInput) (*models.TimetableEntry, error)
	slot       [2]string
	userEmail  string
}

func (m *mockTimetable) List(_ context.Context, _ *models.Identity, userEmail string) ([]*models.TimetableEntry, error) {
	m.userEmail = userEmail
	return []*models.TimetableEntry{}, nil
}

func (m *mockTimetable) Create(ctx context.Context, caller *models.Identity, in services.ClassInput) (*models.TimetableEntry, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, caller, in)
	}
	return &models.TimetableEntry{ID: recordID, Day: in.Day, Time: in.Time, Subject: in.Subject}, nil
}

func (m *mockTimetable) Update(_ context.Context, _ *models.Identity, id string, in services.ClassInput) (*models.TimetableEntry, error) {
	return &models.TimetableEntry{ID: id, Subject: in.Subject}, nil
}

func (m *mockTimetable) Delete(context.Context, *models.Identity, string) error { return nil }

func (m *mockTimetable) DeleteSlot(_ context.Context, _ *models.Identity, day models.Day, t string) error {
	m.slot = [2]string{string(day), t}
	return nil
}

type mockPinger struct{ err error }

func (p *mockPinger) PingContext(context.Context) error { return p.err }

type memRevoker struct{ ids map[string]time.Time }

func (r *memRevoker) Revoke(_ context.Context, id string, until time.Time) error {
	r.ids[id] = until
	return nil
}

func (r *memRevoker) IsRevoked(_ context.Context, id string) (bool, error) {
	_, ok := r.ids[id]
	return ok, nil
}

// --- harness ---

type harness struct {
	server  *Server
	tokens  *auth.TokenManager
	revoker *memRevoker
	logs    *bytes.Buffer
	users   *mockUsers
	ann     *mockAnnouncements
	cmp     *mockComplaints
	lf      *mockLostFound
	tt      *mockTimetable
	db      *mockPinger
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		tokens:  auth.NewTokenManager(testSecret, time.Hour, "campuslink"),
		revoker: &memRevoker{ids: map[string]time.Time{}},
		logs:    &bytes.Buffer{},
		users:   newMockUsers(),
		ann:     &mockAnnouncements{},
		cmp:     &mockComplaints{},
		lf:      &mockLostFound{},
		tt:      &mockTimetable{},
		db:      &mockPinger{},
	}
	gate := NewGate(h.tokens, h.revoker, h.users)
	svc := Services{
		Users:         h.users,
		Announcements: h.ann,
		Complaints:    h.cmp,
		LostFound:     h.lf,
		Timetable:     h.tt,
	}
	h.server = NewServer(":0", logging.New(h.logs, "debug"), gate, svc, h.db)
	return h
}

func (h *harness) token(t *testing.T, u *models.User) string {
	t.Helper()
	tok, _, err := h.tokens.GenerateToken(u.Identity())
	require.NoError(t, err)
	return tok
}

// do sends a request and decodes the JSON response body.
func (h *harness) do(t *testing.T, method, path, token string, body any) (int, map[string]any) {
	t.Helper()

	var r io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			r = bytes.NewBufferString(b)
		default:
			raw, err := json.Marshal(b)
			require.NoError(t, err)
			r = bytes.NewReader(raw)
		}
	}

	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := h.server.App().Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	out := map[string]any{}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out
}
