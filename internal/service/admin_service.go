package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"stitchpress/internal/domain"
	"stitchpress/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid token")
)

// AdminService defines the admin console authentication operations. There is
// no public registration; admins are provisioned by migration or ops tooling.
type AdminService interface {
	Login(ctx context.Context, email, password string) (token string, admin *domain.Admin, err error)
	ValidateToken(tokenString string) (*AdminClaims, error)
	GetAdminByID(ctx context.Context, id uuid.UUID) (*domain.Admin, error)
}

// AdminClaims represents the JWT claims of an admin session
type AdminClaims struct {
	AdminID uuid.UUID `json:"admin_id"`
	Email   string    `json:"email"`
	jwt.RegisteredClaims
}

type adminService struct {
	adminRepo    repository.AdminRepository
	jwtSecret    string
	accessExpiry time.Duration
}

// NewAdminService creates a new instance of AdminService
func NewAdminService(adminRepo repository.AdminRepository, jwtSecret string, accessExpiryMinutes int) AdminService {
	return &adminService{
		adminRepo:    adminRepo,
		jwtSecret:    jwtSecret,
		accessExpiry: time.Duration(accessExpiryMinutes) * time.Minute,
	}
}

// Login verifies the credentials and issues a signed access token
func (s *adminService) Login(ctx context.Context, email, password string) (string, *domain.Admin, error) {
	admin, err := s.adminRepo.FindByEmail(ctx, email)
	if err != nil {
		if err == repository.ErrAdminNotFound {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("failed to find admin: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	now := time.Now()
	claims := AdminClaims{
		AdminID: admin.ID,
		Email:   admin.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessExpiry)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return token, admin, nil
}

// ValidateToken parses and validates an access token
func (s *adminService) ValidateToken(tokenString string) (*AdminClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AdminClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*AdminClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// GetAdminByID fetches an admin profile
func (s *adminService) GetAdminByID(ctx context.Context, id uuid.UUID) (*domain.Admin, error) {
	return s.adminRepo.FindByID(ctx, id)
}
