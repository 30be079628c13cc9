package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/dmitrijs2005/campuslink/internal/common"
	"github.com/dmitrijs2005/campuslink/internal/server/auth"
	"github.com/dmitrijs2005/campuslink/internal/server/events"
	"github.com/dmitrijs2005/campuslink/internal/server/models"
	"github.com/dmitrijs2005/campuslink/internal/server/repositories/repomanager"
)

// AuthResult is returned by Register and Login.
type AuthResult struct {
	Token string      `json:"token"`
	Email string      `json:"email"`
	Role  models.Role `json:"role"`
	Name  string      `json:"name"`
}

// UserService handles accounts and sessions:
//   - CreateUser / Register: store a new account
//   - Login: verify credentials and issue a token
//   - Logout: revoke the presented token
//   - Me: load the caller's profile
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	tokens      *auth.TokenManager
	hasher      *auth.PasswordHasher
	revoker     auth.Revoker
	events      *events.Emitter
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, tokens *auth.TokenManager,
	hasher *auth.PasswordHasher, revoker auth.Revoker, emitter *events.Emitter) *UserService {
	if revoker == nil {
		revoker = auth.NopRevoker{}
	}
	return &UserService{
		db:          db,
		repomanager: m,
		tokens:      tokens,
		hasher:      hasher,
		revoker:     revoker,
		events:      emitter,
	}
}

// NormalizeEmail trims surrounding whitespace. Case is kept: addresses are
// stored and matched exactly as given.
func NormalizeEmail(email string) string {
	return strings.TrimSpace(email)
}

func validateCredentials(email, password string) error {
	if email == "" {
		return validation("Email is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return validation("Invalid email address")
	}
	if len(password) < auth.MinPasswordLength {
		return validation("Password must be at least %d characters", auth.MinPasswordLength)
	}
	if len(password) > auth.MaxPasswordLength {
		return validation("Password must be at most %d bytes", auth.MaxPasswordLength)
	}
	return nil
}

// CreateUser validates and stores a new account. An empty role means student.
func (s *UserService) CreateUser(ctx context.Context, name, email, password string, role models.Role) (*models.User, error) {
	email = NormalizeEmail(email)
	if role == "" {
		role = models.RoleStudent
	}
	if !role.Valid() {
		return nil, validation("Invalid role %q", role)
	}
	if err := validateCredentials(email, password); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Name:         strings.TrimSpace(name),
	}
	if user.Name == "" {
		user.Name = models.DefaultName(email)
	}

	u, err := s.repomanager.Users(s.db).Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.NewError(common.ErrorAlreadyExists, "User already exists")
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return u, nil
}

// Register creates an account and logs it in.
func (s *UserService) Register(ctx context.Context, name, email, password string, role models.Role) (*AuthResult, error) {
	u, err := s.CreateUser(ctx, name, email, password, role)
	if err != nil {
		return nil, err
	}

	s.events.Emit(ctx, events.UserRegistered, u.Identity())

	return s.issue(u)
}

func (s *UserService) Login(ctx context.Context, email, password string, role models.Role) (*AuthResult, error) {
	email = NormalizeEmail(email)
	if role == "" {
		role = models.RoleStudent
	}

	u, err := s.repomanager.Users(s.db).GetByEmailAndRole(ctx, email, role)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.NewError(common.ErrorUnauthorized,
				"No %s account found with this email. Please check your email and role, or register first.", role)
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}

	if !s.hasher.Verify(password, u.PasswordHash) {
		return nil, common.NewError(common.ErrorUnauthorized, "Incorrect password. Please try again.")
	}

	return s.issue(u)
}

// Logout revokes the token described by claims until its natural expiry.
func (s *UserService) Logout(ctx context.Context, claims *auth.Claims) error {
	if claims == nil || claims.ID == "" || claims.ExpiresAt == nil {
		return common.ErrInvalidToken
	}
	if err := s.revoker.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return fmt.Errorf("error revoking token: %w", err)
	}
	return nil
}

// Me returns the live record of the given user.
func (s *UserService) Me(ctx context.Context, userID string) (*models.User, error) {
	if err := checkID(userID, "User not found"); err != nil {
		return nil, err
	}
	u, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.NewError(common.ErrorNotFound, "User not found")
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}
	return u, nil
}

func (s *UserService) issue(u *models.User) (*AuthResult, error) {
	id := u.Identity()
	token, _, err := s.tokens.GenerateToken(id)
	if err != nil {
		return nil, fmt.Errorf("error signing token: %w", err)
	}
	return &AuthResult{Token: token, Email: u.Email, Role: u.Role, Name: id.Name}, nil
}
