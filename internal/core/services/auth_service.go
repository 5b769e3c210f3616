package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"madhav-couriers/internal/adapters/persistence/repositories"
	"madhav-couriers/internal/config"
	"madhav-couriers/internal/core/domain"
	"madhav-couriers/internal/pkg/jwt"
	"madhav-couriers/internal/pkg/keylock"
	"madhav-couriers/internal/pkg/logger"
	"madhav-couriers/internal/pkg/metrics"
	"madhav-couriers/internal/pkg/password"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Auth errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountLocked      = errors.New("account is temporarily locked")
	ErrAccountInactive    = errors.New("account is inactive")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
	ErrUnauthorized       = errors.New("authentication required")
	ErrForbidden          = errors.New("insufficient permissions")
)

// AuthService authenticates administrators and issues session tokens
type AuthService struct {
	admins  repositories.AdminRepository
	cfg     *config.Config
	locks   *keylock.KeyedMutex
	metrics *metrics.Metrics
	now     Clock
	log     *zap.Logger

	decoyOnce sync.Once
	decoy     string
}

// NewAuthService creates a new auth service
func NewAuthService(admins repositories.AdminRepository, cfg *config.Config, m *metrics.Metrics) *AuthService {
	return &AuthService{
		admins:  admins,
		cfg:     cfg,
		locks:   keylock.New(),
		metrics: m,
		now:     time.Now,
		log:     logger.Named("auth"),
	}
}

// WithClock replaces the time source
func (s *AuthService) WithClock(now Clock) *AuthService {
	s.now = now
	return s
}

// LoginInput represents login input
type LoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthResponse represents a successful login
type AuthResponse struct {
	Admin     *domain.Principal `json:"admin"`
	Token     string            `json:"token"`
	ExpiresAt time.Time         `json:"expires_at"`
}

// Session is the result of verifying a token
type Session struct {
	Principal *domain.Principal
	ExpiresAt time.Time

	// RenewedToken is set when the token was close to expiry and has been replaced
	RenewedToken     string
	RenewedExpiresAt time.Time
}

// Login checks credentials and applies the lockout policy
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*AuthResponse, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" || input.Password == "" {
		var errs fieldErrors
		if username == "" {
			errs.add("username", "is required")
		}
		if input.Password == "" {
			errs.add("password", "is required")
		}
		return nil, errs.err()
	}

	// Attempts for one username run one at a time so the failure counter cannot be lost
	unlock := s.locks.Lock(username)
	defer unlock()

	admin, err := s.admins.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrAdminNotFound) {
			// same bcrypt work as a real account so timing does not reveal usernames
			password.Verify(input.Password, s.decoyHash())
			s.metrics.LoginAttempts.WithLabelValues("unknown").Inc()
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	now := s.now()
	if admin.IsLocked(now) {
		s.metrics.LoginAttempts.WithLabelValues("locked").Inc()
		s.log.Warn("login on locked account", zap.String("username", username))
		return nil, ErrAccountLocked
	}

	failed := admin.FailedLogins
	lockedUntil := admin.LockedUntil
	if lockedUntil != nil {
		// lockout elapsed
		failed = 0
		lockedUntil = nil
	}

	if !password.Verify(input.Password, admin.Password) {
		failed++
		if failed >= s.cfg.Lockout.MaxAttempts {
			until := now.Add(s.cfg.Lockout.Duration)
			lockedUntil = &until
			s.log.Warn("account locked after failed logins",
				zap.String("username", username), zap.Int("attempts", failed), zap.Time("until", until))
		}
		if err := s.admins.UpdateLoginState(ctx, admin.ID, failed, lockedUntil, nil); err != nil {
			return nil, err
		}
		s.metrics.LoginAttempts.WithLabelValues("failed").Inc()
		return nil, ErrInvalidCredentials
	}

	if !admin.IsActive {
		s.metrics.LoginAttempts.WithLabelValues("inactive").Inc()
		return nil, ErrAccountInactive
	}

	token, expiresAt, err := jwt.GenerateAccessToken(admin.ID, admin.Username, string(admin.Role), s.cfg.JWT.Secret, s.cfg.JWT.Expiry)
	if err != nil {
		return nil, err
	}

	if err := s.admins.UpdateLoginState(ctx, admin.ID, 0, nil, &now); err != nil {
		return nil, err
	}
	admin.LastLogin = &now

	s.metrics.LoginAttempts.WithLabelValues("success").Inc()
	s.log.Info("admin logged in", zap.String("username", admin.Username), zap.String("role", string(admin.Role)))

	return &AuthResponse{
		Admin:     admin.Principal(),
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

// Verify validates a token, loads its principal and renews the token near expiry
func (s *AuthService) Verify(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, ErrUnauthorized
	}

	claims, err := jwt.ValidateAccessToken(token, s.cfg.JWT.Secret)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	admin, err := s.admins.GetByID(ctx, claims.AdminID)
	if err != nil {
		if errors.Is(err, domain.ErrAdminNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	if !admin.IsActive {
		return nil, ErrAccountInactive
	}

	session := &Session{
		Principal: admin.Principal(),
		ExpiresAt: claims.ExpiresAt.Time,
	}

	if claims.ExpiresIn(s.now()) <= s.cfg.JWT.RenewWindow {
		renewed, expiresAt, err := jwt.GenerateAccessToken(admin.ID, admin.Username, string(admin.Role), s.cfg.JWT.Secret, s.cfg.JWT.Expiry)
		if err != nil {
			return nil, err
		}
		session.RenewedToken = renewed
		session.RenewedExpiresAt = expiresAt
		session.ExpiresAt = expiresAt
		s.log.Debug("token renewed", zap.String("username", admin.Username))
	}

	return session, nil
}

// decoyHash is a hash at the configured cost that no login can match
func (s *AuthService) decoyHash() string {
	s.decoyOnce.Do(func() {
		hash, err := password.HashWithCost(uuid.NewString(), s.cfg.BcryptCost)
		if err != nil {
			s.log.Error("decoy hash failed", zap.Error(err))
			return
		}
		s.decoy = hash
	})
	return s.decoy
}

// Authorize fails with ErrForbidden unless principal holds one of roles
func Authorize(principal *domain.Principal, roles ...domain.Role) error {
	if principal == nil {
		return ErrUnauthorized
	}
	for _, r := range roles {
		if principal.Role == r {
			return nil
		}
	}
	return ErrForbidden
}

// GetAdmin gets an administrator's principal by ID
func (s *AuthService) GetAdmin(ctx context.Context, id string) (*domain.Principal, error) {
	admin, err := s.admins.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return admin.Principal(), nil
}

// ReleaseExpiredLocks clears lockouts whose expiry has passed
func (s *AuthService) ReleaseExpiredLocks(ctx context.Context) (int64, error) {
	n, err := s.admins.ClearExpiredLocks(ctx, s.now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.metrics.LocksReleased.Add(float64(n))
		s.log.Info("expired lockouts released", zap.Int64("count", n))
	}
	return n, nil
}

// ResetAdminInput represents an operator reset of an administrator account
type ResetAdminInput struct {
	Username string
	Email    string
	Password string
	Role     domain.Role
}

// ResetAdmin creates the administrator or resets its password, role, active flag and lockout.
// It reports whether a new account was created.
func (s *AuthService) ResetAdmin(ctx context.Context, input ResetAdminInput) (*domain.Admin, bool, error) {
	username := strings.TrimSpace(input.Username)
	var errs fieldErrors
	if username == "" {
		errs.add("username", "is required")
	}
	if !password.ValidatePassword(input.Password) {
		errs.add("password", "must be at least 8 characters")
	}
	if input.Role == "" {
		input.Role = domain.RoleAdmin
	}
	if !input.Role.Valid() {
		errs.add("role", "must be admin, superadmin or manager")
	}
	if err := errs.err(); err != nil {
		return nil, false, err
	}

	hashed, err := password.HashWithCost(input.Password, s.cfg.BcryptCost)
	if err != nil {
		return nil, false, err
	}

	now := s.now()
	admin, err := s.admins.GetByUsername(ctx, username)
	switch {
	case errors.Is(err, domain.ErrAdminNotFound):
		admin = &domain.Admin{
			ID:        uuid.NewString(),
			Username:  username,
			Email:     input.Email,
			Password:  hashed,
			Role:      input.Role,
			IsActive:  true,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.admins.Create(ctx, admin); err != nil {
			return nil, false, err
		}
		s.log.Info("admin created", zap.String("username", username))
		return admin, true, nil
	case err != nil:
		return nil, false, err
	}

	admin.Password = hashed
	admin.Role = input.Role
	admin.IsActive = true
	admin.FailedLogins = 0
	admin.LockedUntil = nil
	admin.UpdatedAt = now
	if input.Email != "" {
		admin.Email = input.Email
	}
	if err := s.admins.Update(ctx, admin); err != nil {
		return nil, false, err
	}
	s.log.Info("admin reset", zap.String("username", username))
	return admin, false, nil
}
