package services

import (
	"context"
	"crypto/subtle"
	"fmt"
	"log"
	"strings"
	"time"

	"canteenhub/internal/caching"
	"canteenhub/internal/models"
	"canteenhub/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	qrcode "github.com/skip2/go-qrcode"
)

// EmployeeService covers badge verification, employee administration and
// wallet top-ups.
type EmployeeService interface {
	Verify(ctx context.Context, employeeID uuid.UUID, pin string) (string, *models.Employee, error)
	Logout(ctx context.Context, sessionID string) error
	CreateEmployee(ctx context.Context, employee *models.Employee) error
	GetEmployee(ctx context.Context, id uuid.UUID) (*models.Employee, error)
	UpdateEmployee(ctx context.Context, employee *models.Employee) error
	DeleteEmployee(ctx context.Context, id uuid.UUID) error
	ListEmployees(ctx context.Context, limit, offset int) ([]*models.Employee, error)
	TopUpWallet(ctx context.Context, id uuid.UUID, amount decimal.Decimal) (*models.Employee, error)
	BadgeURL(ctx context.Context, id uuid.UUID) (string, error)
}

type employeeService struct {
	employeeRepo repositories.EmployeeRepository
	cache        caching.CacheService
	minio        *MinioService
	badgeBucket  string
	sessionTTL   time.Duration
}

func NewEmployeeService(employeeRepo repositories.EmployeeRepository, cache caching.CacheService, minio *MinioService, badgeBucket string, sessionTTL time.Duration) EmployeeService {
	return &employeeService{
		employeeRepo: employeeRepo,
		cache:        cache,
		minio:        minio,
		badgeBucket:  badgeBucket,
		sessionTTL:   sessionTTL,
	}
}

// Verify checks a scanned badge id against the submitted PIN and, on success,
// mints a session token bound to the employee. Everything after verification
// rides on that token.
func (s *employeeService) Verify(ctx context.Context, employeeID uuid.UUID, pin string) (string, *models.Employee, error) {
	employee, err := s.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		return "", nil, fmt.Errorf("failed to load employee: %w", err)
	}
	if employee == nil {
		return "", nil, ErrEmployeeNotFound
	}

	submitted := strings.TrimSpace(pin)
	stored := strings.TrimSpace(employee.PIN)
	if subtle.ConstantTimeCompare([]byte(submitted), []byte(stored)) != 1 {
		return "", nil, ErrIncorrectPin
	}

	sessionID := uuid.NewString()
	if err := s.cache.SetSession(ctx, sessionID, employee.ID, s.sessionTTL); err != nil {
		return "", nil, fmt.Errorf("failed to bind session: %w", err)
	}
	return sessionID, employee, nil
}

// Logout unbinds the session and drops any cart attached to it.
func (s *employeeService) Logout(ctx context.Context, sessionID string) error {
	if err := s.cache.ClearCart(ctx, sessionID); err != nil {
		log.Printf("WARN: failed to clear cart on logout: %v", err)
	}
	return s.cache.DeleteSession(ctx, sessionID)
}

// CreateEmployee registers an employee and generates their QR badge. The
// badge encodes the employee id; scanning it at the kiosk starts
// verification.
func (s *employeeService) CreateEmployee(ctx context.Context, employee *models.Employee) error {
	if employee.ID == uuid.Nil {
		employee.ID = uuid.New()
	}

	existing, err := s.employeeRepo.GetByEmail(ctx, employee.Email)
	if err != nil {
		return fmt.Errorf("failed to check email: %w", err)
	}
	if existing != nil {
		return fmt.Errorf("email %s is already registered", employee.Email)
	}

	if err := s.employeeRepo.Create(ctx, employee); err != nil {
		return fmt.Errorf("failed to create employee: %w", err)
	}

	if err := s.generateBadge(ctx, employee); err != nil {
		// The employee exists without a badge; regeneration is possible
		// through another create-time call or a manual fix.
		log.Printf("WARN: failed to generate QR badge for employee %s: %v", employee.ID, err)
	}
	return nil
}

func (s *employeeService) generateBadge(ctx context.Context, employee *models.Employee) error {
	png, err := qrcode.Encode(employee.ID.String(), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to encode QR badge: %w", err)
	}

	key := fmt.Sprintf("badges/%s.png", employee.ID)
	if err := s.minio.UploadBytes(ctx, s.badgeBucket, key, png, "image/png"); err != nil {
		return err
	}
	if err := s.employeeRepo.SetQRKey(ctx, employee.ID, key); err != nil {
		return fmt.Errorf("failed to record badge key: %w", err)
	}
	employee.QRKey = &key
	return nil
}

func (s *employeeService) GetEmployee(ctx context.Context, id uuid.UUID) (*models.Employee, error) {
	return s.employeeRepo.GetByID(ctx, id)
}

func (s *employeeService) UpdateEmployee(ctx context.Context, employee *models.Employee) error {
	existing, err := s.employeeRepo.GetByID(ctx, employee.ID)
	if err != nil {
		return fmt.Errorf("failed to load employee: %w", err)
	}
	if existing == nil {
		return ErrEmployeeNotFound
	}
	if strings.TrimSpace(employee.PIN) == "" {
		employee.PIN = existing.PIN // blank PIN means keep the current one
	}
	return s.employeeRepo.Update(ctx, employee)
}

func (s *employeeService) DeleteEmployee(ctx context.Context, id uuid.UUID) error {
	return s.employeeRepo.Delete(ctx, id)
}

func (s *employeeService) ListEmployees(ctx context.Context, limit, offset int) ([]*models.Employee, error) {
	return s.employeeRepo.List(ctx, limit, offset)
}

// TopUpWallet credits the wallet and returns the refreshed employee.
func (s *employeeService) TopUpWallet(ctx context.Context, id uuid.UUID, amount decimal.Decimal) (*models.Employee, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("top-up amount must be positive")
	}

	employee, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load employee: %w", err)
	}
	if employee == nil {
		return nil, ErrEmployeeNotFound
	}

	if err := s.employeeRepo.CreditWallet(ctx, id, amount); err != nil {
		return nil, fmt.Errorf("failed to credit wallet: %w", err)
	}
	return s.employeeRepo.GetByID(ctx, id)
}

// BadgeURL returns a presigned download link for the employee's QR badge.
func (s *employeeService) BadgeURL(ctx context.Context, id uuid.UUID) (string, error) {
	employee, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return "", fmt.Errorf("failed to load employee: %w", err)
	}
	if employee == nil {
		return "", ErrEmployeeNotFound
	}
	if employee.QRKey == nil {
		return "", fmt.Errorf("employee %s has no badge", id)
	}
	return s.minio.GetPresignedURL(ctx, s.badgeBucket, *employee.QRKey, 15*time.Minute)
}
