package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/habitrack/habit-admin/internal/db/controller/admin"
	"github.com/habitrack/habit-admin/internal/db/models"
	"github.com/habitrack/habit-admin/internal/web/session"
)

const bearerPrefix = "Bearer "

// Service provides authentication and authorization functionality.
type Service struct {
	db     *gorm.DB
	tokens *TokenVerifier
	Local  *LocalProvider
}

// NewService creates a new auth service. tokens may be nil, then only
// session cookies authenticate.
func NewService(db *gorm.DB, tokens *TokenVerifier, local *LocalProvider) *Service {
	return &Service{db: db, tokens: tokens, Local: local}
}

// Tokens returns the access token verifier, nil when not configured.
func (s *Service) Tokens() *TokenVerifier {
	return s.tokens
}

// Authenticate resolves the admin of a request. A bearer token wins over the
// session cookie. The admin is reloaded so role changes apply immediately.
func (s *Service) Authenticate(c *fiber.Ctx) (*models.Admin, error) {
	if header := c.Get(fiber.HeaderAuthorization); strings.HasPrefix(header, bearerPrefix) {
		return s.AuthenticateToken(c.UserContext(), strings.TrimPrefix(header, bearerPrefix))
	}

	data := new(session.Data)
	if err := data.Read(c.Cookies(session.CookieName)); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnauthenticated, err)
	}

	if data.Admin.ID == "" {
		return nil, ErrUnauthenticated
	}

	return s.active(admin.GetByID(c.UserContext(), s.db, data.Admin.ID))
}

// AuthenticateToken verifies a BaaS access token and loads the admin linked
// to its subject.
func (s *Service) AuthenticateToken(ctx context.Context, token string) (*models.Admin, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}

	return s.active(admin.GetByUserID(ctx, s.db, claims.Subject))
}

func (s *Service) active(a *models.Admin, err error) (*models.Admin, error) {
	if errors.Is(err, admin.ErrAdminNotFound) {
		return nil, ErrNotAnAdmin
	}

	if err != nil {
		return nil, fmt.Errorf("failed to load admin: %w", err)
	}

	if !a.Active {
		return nil, ErrAdminDisabled
	}

	return a, nil
}

// HasPermission checks if an admin has a specific permission.
func (s *Service) HasPermission(a *models.Admin, permission string) bool {
	return a != nil && RoleHasPermission(a.Role, permission)
}

// HasAnyPermission checks if an admin has at least one of the given permissions.
func (s *Service) HasAnyPermission(a *models.Admin, permissions []string) bool {
	for _, perm := range permissions {
		if s.HasPermission(a, perm) {
			return true
		}
	}

	return false
}

// AdminPermissions returns the permissions of an admin's role.
func (s *Service) AdminPermissions(a *models.Admin) []string {
	if a == nil {
		return nil
	}

	return RolePermissions(a.Role)
}
