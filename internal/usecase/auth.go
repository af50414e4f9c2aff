package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	uuid "github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wynresh/sunem/internal/core/domain"
	"github.com/wynresh/sunem/internal/core/port"
	"github.com/wynresh/sunem/internal/infra/config"
	"github.com/wynresh/sunem/internal/infra/logger"
	"github.com/wynresh/sunem/internal/infra/security"
	"github.com/wynresh/sunem/internal/repository"
)

var (
	// ErrDuplicateUser indicates another account already holds the email, phone, or username.
	ErrDuplicateUser = errors.New("user already exists")
	// ErrUserNotFound indicates no account matches the supplied identifier.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidCredentials indicates the password does not match the stored hash.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidVerificationToken indicates the sign-up token failed verification.
	ErrInvalidVerificationToken = errors.New("invalid verification token")
	// ErrValidation indicates a malformed registration or sign-in request.
	ErrValidation = errors.New("validation failed")
	// ErrNotImplemented marks declared operations whose flows are not built yet.
	ErrNotImplemented = errors.New("operation not implemented")
)

// TokenPair carries the access and refresh tokens issued on authentication.
type TokenPair struct {
	Access  string
	Refresh string
}

// AuthService coordinates registration and sign-in flows.
type AuthService struct {
	cfg    *config.AppConfig
	users  port.UserRepository
	tokens *security.TokenService
	mailer port.Mailer
	events port.EventPublisher
	log    *zap.Logger
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(
	cfg *config.AppConfig,
	users port.UserRepository,
	tokens *security.TokenService,
	mailer port.Mailer,
	events port.EventPublisher,
	log *zap.Logger,
) *AuthService {
	return &AuthService{
		cfg:    cfg,
		users:  users,
		tokens: tokens,
		mailer: mailer,
		events: events,
		log:    log,
	}
}

// Sign initiates registration. Nothing is persisted here: the whole
// registration travels inside the signed verification token until the
// confirmation link is followed.
func (s *AuthService) Sign(ctx context.Context, reg domain.Registration) error {
	if err := validateRegistration(reg); err != nil {
		return err
	}

	phone := ""
	if reg.Phone != "" {
		normalized, err := security.NormalizePhone(reg.Phone, s.cfg.App.DefaultRegion)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrValidation, err)
		}
		phone = normalized
	}

	exists, err := s.users.ExistsByAny(ctx, reg.Email, phone, reg.Username)
	if err != nil {
		return fmt.Errorf("check duplicates: %w", err)
	}
	if exists {
		return ErrDuplicateUser
	}

	payload := map[string]any{
		"username":   reg.Username,
		"email":      reg.Email,
		"phone":      phone,
		"first_name": reg.FirstName,
		"last_name":  reg.LastName,
		"store_id":   reg.StoreID,
		"role_id":    reg.RoleID,
		"password":   reg.Password,
	}

	token, err := s.tokens.Generate(payload, s.cfg.JWT.VerifyEmailExpiration)
	if err != nil {
		return fmt.Errorf("generate verification token: %w", err)
	}

	if err := s.mailer.SendVerificationEmail(ctx, reg.Email, token); err != nil {
		return fmt.Errorf("send verification email: %w", err)
	}

	s.log.Info("registration initiated",
		zap.String("username", reg.Username),
		zap.String("email", logger.MaskEmail(reg.Email)),
	)

	return nil
}

// CompleteSignUp verifies the token and materializes the account. A failed
// verification halts the flow before anything is written.
func (s *AuthService) CompleteSignUp(ctx context.Context, token string) (*domain.User, TokenPair, error) {
	claims, ok := s.tokens.Verify(token)
	if !ok {
		return nil, TokenPair{}, ErrInvalidVerificationToken
	}

	password := claimString(claims, "password")
	if password == "" {
		return nil, TokenPair{}, ErrInvalidVerificationToken
	}

	hash, err := security.HashPassword(password)
	if err != nil {
		return nil, TokenPair{}, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := domain.User{
		ID:           uuid.NewString(),
		Username:     claimString(claims, "username"),
		Email:        claimString(claims, "email"),
		Phone:        claimString(claims, "phone"),
		FirstName:    claimString(claims, "first_name"),
		LastName:     claimString(claims, "last_name"),
		StoreID:      claimString(claims, "store_id"),
		RoleID:       claimString(claims, "role_id"),
		PasswordHash: hash,
		Status:       domain.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, TokenPair{}, ErrDuplicateUser
		}
		return nil, TokenPair{}, fmt.Errorf("create user: %w", err)
	}

	if err := s.events.PublishUserRegistered(ctx, domain.UserRegisteredEvent{
		EventID:      uuid.NewString(),
		UserID:       user.ID,
		Username:     user.Username,
		Email:        user.Email,
		Phone:        user.Phone,
		StoreID:      user.StoreID,
		RegisteredAt: now,
	}); err != nil {
		s.log.Warn("publish user.registered failed", zap.Error(err))
	}

	return s.authenticate(ctx, user)
}

// SignIn matches the identifier against username, email, or phone and checks
// the password. The account presence flag is only touched after a match.
func (s *AuthService) SignIn(ctx context.Context, name, password string) (*domain.User, TokenPair, error) {
	name = strings.TrimSpace(name)
	if name == "" || password == "" {
		return nil, TokenPair{}, fmt.Errorf("%w: name and password are required", ErrValidation)
	}

	user, err := s.users.GetByIdentifier(ctx, name)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, TokenPair{}, ErrUserNotFound
		}
		return nil, TokenPair{}, fmt.Errorf("lookup user: %w", err)
	}

	if !security.VerifyPassword(password, user.PasswordHash) {
		return nil, TokenPair{}, ErrInvalidCredentials
	}

	authed, pair, err := s.authenticate(ctx, *user)
	if err != nil {
		return nil, TokenPair{}, err
	}

	if err := s.events.PublishUserLoggedIn(ctx, domain.UserLoggedInEvent{
		EventID:  uuid.NewString(),
		UserID:   authed.ID,
		Username: authed.Username,
		StoreID:  authed.StoreID,
		LoggedAt: time.Now().UTC(),
	}); err != nil {
		s.log.Warn("publish user.logged_in failed", zap.Error(err))
	}

	return authed, pair, nil
}

// authenticate marks the user online and issues the access and refresh pair
// from one claim set.
func (s *AuthService) authenticate(ctx context.Context, user domain.User) (*domain.User, TokenPair, error) {
	now := time.Now().UTC()
	if err := s.users.SetOnline(ctx, user.ID, true, now); err != nil {
		return nil, TokenPair{}, fmt.Errorf("mark user online: %w", err)
	}
	user.Online = true
	user.LastLogin = &now

	claims := map[string]any{
		"id":    user.ID,
		"role":  user.RoleID,
		"store": user.StoreID,
	}

	access, err := s.tokens.Generate(claims, s.cfg.JWT.AccessExpiration)
	if err != nil {
		return nil, TokenPair{}, fmt.Errorf("generate access token: %w", err)
	}

	refresh, err := s.tokens.Generate(claims, s.cfg.JWT.RefreshExpiration)
	if err != nil {
		return nil, TokenPair{}, fmt.Errorf("generate refresh token: %w", err)
	}

	user.PasswordHash = ""

	return &user, TokenPair{Access: access, Refresh: refresh}, nil
}

// SignOut is declared but not built yet.
func (s *AuthService) SignOut(context.Context, string) error { return ErrNotImplemented }

// ForgotPassword is declared but not built yet.
func (s *AuthService) ForgotPassword(context.Context, string) error { return ErrNotImplemented }

// ResetPassword is declared but not built yet.
func (s *AuthService) ResetPassword(context.Context, string, string) error {
	return ErrNotImplemented
}

// VerifyOTP is declared but not built yet.
func (s *AuthService) VerifyOTP(context.Context, string, string) error { return ErrNotImplemented }

// ResendOTP is declared but not built yet.
func (s *AuthService) ResendOTP(context.Context, string) error { return ErrNotImplemented }

// RefreshTokens is declared but not built yet.
func (s *AuthService) RefreshTokens(context.Context, string) (TokenPair, error) {
	return TokenPair{}, ErrNotImplemented
}

// ChangePassword is declared but not built yet.
func (s *AuthService) ChangePassword(context.Context, string, string, string) error {
	return ErrNotImplemented
}

// EnableTwoFactor is declared but not built yet.
func (s *AuthService) EnableTwoFactor(context.Context, string) error { return ErrNotImplemented }

// DisableTwoFactor is declared but not built yet.
func (s *AuthService) DisableTwoFactor(context.Context, string) error { return ErrNotImplemented }

// VerifyTwoFactor is declared but not built yet.
func (s *AuthService) VerifyTwoFactor(context.Context, string, string) error {
	return ErrNotImplemented
}

func validateRegistration(reg domain.Registration) error {
	switch {
	case strings.TrimSpace(reg.Username) == "":
		return fmt.Errorf("%w: username is required", ErrValidation)
	case strings.TrimSpace(reg.Email) == "":
		return fmt.Errorf("%w: email is required", ErrValidation)
	case len(reg.Password) < 6:
		return fmt.Errorf("%w: password must be at least 6 characters", ErrValidation)
	}
	return nil
}

func claimString(claims map[string]any, key string) string {
	if value, ok := claims[key].(string); ok {
		return value
	}
	return ""
}
