package service

import (
	"context"
	"fmt"
	"strings"

	"churchadmin/internal/models"
	"churchadmin/internal/repository"
	"churchadmin/internal/security"
)

// LoginInput is an admin's credentials
type LoginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AdminIdentity is what a successful login reveals about the admin
type AdminIdentity struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// dummyHash is compared against when the username is unknown, so both
// failure paths cost one bcrypt comparison.
var dummyHash, _ = security.HashPassword("churchadmin-dummy-password")

// AuthService checks admin credentials
type AuthService struct {
	admins *repository.AdminRepository
}

// NewAuthService creates a new auth service
func NewAuthService(admins *repository.AdminRepository) *AuthService {
	return &AuthService{admins: admins}
}

// Login verifies a username and password. Unknown users and wrong
// passwords fail alike with ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*AdminIdentity, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	admin, err := s.admins.GetAdminByUsername(ctx, strings.TrimSpace(in.Username))
	if err != nil {
		return nil, fmt.Errorf("failed to get admin: %w", err)
	}
	if admin == nil {
		security.CheckPassword(in.Password, dummyHash)
		return nil, ErrInvalidCredentials
	}
	if !security.CheckPassword(in.Password, admin.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return &AdminIdentity{ID: admin.ID, Username: admin.Username}, nil
}

// CreateAdmin adds an admin account
func (s *AuthService) CreateAdmin(ctx context.Context, username, password string) (*models.Admin, error) {
	username = strings.TrimSpace(username)
	if err := checkAdminCredentials(username, password); err != nil {
		return nil, err
	}

	existing, err := s.admins.GetAdminByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing admin: %w", err)
	}
	if existing != nil {
		return nil, Conflict("Username already exists")
	}

	hash, err := security.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	return s.admins.CreateAdmin(ctx, username, hash)
}

// ResetPassword replaces an admin's password
func (s *AuthService) ResetPassword(ctx context.Context, username, password string) error {
	username = strings.TrimSpace(username)
	if err := checkAdminCredentials(username, password); err != nil {
		return err
	}

	admin, err := s.admins.GetAdminByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("failed to get admin: %w", err)
	}
	if admin == nil {
		return NotFound("Admin not found")
	}

	hash, err := security.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return s.admins.UpdatePassword(ctx, admin.ID, hash)
}

func checkAdminCredentials(username, password string) error {
	fields := map[string]string{}
	if username == "" {
		fields["username"] = "is required"
	}
	if len(password) < security.MinPasswordLength {
		fields["password"] = fmt.Sprintf("must be at least %d characters", security.MinPasswordLength)
	}
	if len(fields) > 0 {
		return Invalid("Invalid input", fields)
	}
	return nil
}
