package httpapi

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/campuslink/internal/common"
	"github.com/dmitrijs2005/campuslink/internal/server/auth"
	"github.com/dmitrijs2005/campuslink/internal/server/models"
	"github.com/gofiber/fiber/v2"
)

// Policy selects how much the gate trusts a verified token.
type Policy int

const (
	// TrustClaims uses the identity embedded in the token.
	TrustClaims Policy = iota
	// ReloadIdentity re-reads the user so role changes and deletions take
	// effect before the token expires.
	ReloadIdentity
)

const (
	claimsKey   = "claims"
	identityKey = "identity"
	userKey     = "user"
)

type TokenVerifier interface {
	ParseToken(token string) (*auth.Claims, error)
}

// Gate authenticates bearer tokens and authorizes roles.
type Gate struct {
	tokens  TokenVerifier
	revoker auth.Revoker
	users   UserService
}

func NewGate(tokens TokenVerifier, revoker auth.Revoker, users UserService) *Gate {
	if revoker == nil {
		revoker = auth.NopRevoker{}
	}
	return &Gate{tokens: tokens, revoker: revoker, users: users}
}

func unauthenticated(msg string) error {
	return common.NewError(common.ErrorUnauthorized, "%s", msg)
}

// bearerToken extracts the token from an Authorization header value.
func bearerToken(header string) (string, error) {
	if header == "" {
		return "", unauthenticated("Access denied. No token provided.")
	}
	if !strings.HasPrefix(header, common.BearerPrefix) {
		return "", unauthenticated("Invalid authorization header format. Use: Bearer <token>")
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, common.BearerPrefix))
	if token == "" {
		return "", unauthenticated("Access denied. No token provided.")
	}
	return token, nil
}

// Authenticate verifies the bearer token and attaches the caller's identity.
func (g *Gate) Authenticate(policy Policy) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, err := bearerToken(c.Get(common.AuthorizationHeaderName))
		if err != nil {
			return err
		}

		claims, err := g.tokens.ParseToken(token)
		if err != nil {
			if errors.Is(err, common.ErrTokenExpired) {
				return common.NewError(common.ErrTokenExpired, "Token expired. Please log in again.")
			}
			return common.NewError(common.ErrInvalidToken, "Invalid token")
		}

		revoked, err := g.revoker.IsRevoked(c.UserContext(), claims.ID)
		if err != nil {
			return fmt.Errorf("revocation check: %w", err)
		}
		if revoked {
			return common.NewError(common.ErrTokenRevoked, "Token has been revoked. Please log in again.")
		}

		id := claims.Identity()
		if policy == ReloadIdentity {
			u, err := g.users.Me(c.UserContext(), claims.UserID)
			if err != nil {
				if errors.Is(err, common.ErrorNotFound) {
					return unauthenticated("User no longer exists")
				}
				return err
			}
			id = u.Identity()
			c.Locals(userKey, u)
		}

		c.Locals(claimsKey, claims)
		c.Locals(identityKey, id)
		return c.Next()
	}
}

// RequireRole must run after Authenticate.
func (g *Gate) RequireRole(roles ...models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := identity(c)
		if id == nil {
			return unauthenticated("Access denied. No token provided.")
		}
		if !id.HasRole(roles...) {
			return common.NewError(common.ErrorForbidden, "Access denied. Insufficient permissions.")
		}
		return c.Next()
	}
}

func identity(c *fiber.Ctx) *models.Identity {
	id, _ := c.Locals(identityKey).(*models.Identity)
	return id
}

func tokenClaims(c *fiber.Ctx) *auth.Claims {
	cl, _ := c.Locals(claimsKey).(*auth.Claims)
	return cl
}

func reloadedUser(c *fiber.Ctx) *models.User {
	u, _ := c.Locals(userKey).(*models.User)
	return u
}
