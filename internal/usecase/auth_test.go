package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/wynresh/sunem/internal/core/domain"
	"github.com/wynresh/sunem/internal/core/port"
	"github.com/wynresh/sunem/internal/infra/config"
	"github.com/wynresh/sunem/internal/infra/security"
	"github.com/wynresh/sunem/internal/repository"
)

type userRepoStub struct {
	existing      bool
	byIdentifier  *domain.User
	created       []domain.User
	createErr     error
	setOnlineIDs  []string
	setOnlineErr  error
	identifierErr error
}

func (s *userRepoStub) Create(_ context.Context, user domain.User) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.created = append(s.created, user)
	return nil
}

func (s *userRepoStub) GetByID(context.Context, string) (*domain.User, error) {
	return nil, repository.ErrNotFound
}

func (s *userRepoStub) GetByIdentifier(context.Context, string) (*domain.User, error) {
	if s.identifierErr != nil {
		return nil, s.identifierErr
	}
	if s.byIdentifier == nil {
		return nil, repository.ErrNotFound
	}
	copied := *s.byIdentifier
	return &copied, nil
}

func (s *userRepoStub) ExistsByAny(context.Context, string, string, string) (bool, error) {
	return s.existing, nil
}

func (s *userRepoStub) SetOnline(_ context.Context, id string, _ bool, _ time.Time) error {
	if s.setOnlineErr != nil {
		return s.setOnlineErr
	}
	s.setOnlineIDs = append(s.setOnlineIDs, id)
	return nil
}

func (s *userRepoStub) Update(context.Context, domain.User) error { return nil }
func (s *userRepoStub) Delete(context.Context, string) error      { return nil }

func (s *userRepoStub) List(context.Context, port.Page) ([]domain.User, error) {
	return nil, nil
}

type mailerStub struct {
	recipients []string
	tokens     []string
	err        error
}

func (s *mailerStub) SendVerificationEmail(_ context.Context, to, token string) error {
	if s.err != nil {
		return s.err
	}
	s.recipients = append(s.recipients, to)
	s.tokens = append(s.tokens, token)
	return nil
}

type eventsStub struct {
	registered []domain.UserRegisteredEvent
	loggedIn   []domain.UserLoggedInEvent
	sales      []domain.SaleRecordedEvent
}

func (s *eventsStub) PublishUserRegistered(_ context.Context, event domain.UserRegisteredEvent) error {
	s.registered = append(s.registered, event)
	return nil
}

func (s *eventsStub) PublishUserLoggedIn(_ context.Context, event domain.UserLoggedInEvent) error {
	s.loggedIn = append(s.loggedIn, event)
	return nil
}

func (s *eventsStub) PublishSaleRecorded(_ context.Context, event domain.SaleRecordedEvent) error {
	s.sales = append(s.sales, event)
	return nil
}

func testConfig() *config.AppConfig {
	return &config.AppConfig{
		App: config.AppSettings{DefaultRegion: "US"},
		JWT: config.JWTSettings{
			Secret:                "unit-test-secret",
			AccessExpiration:      "15m",
			RefreshExpiration:     "7d",
			VerifyEmailExpiration: "24h",
		},
	}
}

func newTestAuthService(users *userRepoStub, mailer *mailerStub, events *eventsStub) *AuthService {
	cfg := testConfig()
	tokens := security.NewTokenService([]byte(cfg.JWT.Secret))
	return NewAuthService(cfg, users, tokens, mailer, events, zap.NewNop())
}

func validRegistration() domain.Registration {
	return domain.Registration{
		Username:  "margaux",
		Email:     "margaux@example.com",
		FirstName: "Margaux",
		LastName:  "Lanier",
		StoreID:   "store-1",
		RoleID:    "role-1",
		Password:  "correct horse battery",
	}
}

func TestAuthServiceSignSendsVerificationToken(t *testing.T) {
	users := &userRepoStub{}
	mailer := &mailerStub{}
	svc := newTestAuthService(users, mailer, &eventsStub{})

	if err := svc.Sign(context.Background(), validRegistration()); err != nil {
		t.Fatalf("Sign returned error: %v", err)
	}

	if len(mailer.tokens) != 1 {
		t.Fatalf("expected one verification mail, got %d", len(mailer.tokens))
	}
	if mailer.recipients[0] != "margaux@example.com" {
		t.Fatalf("unexpected recipient %q", mailer.recipients[0])
	}
	if len(users.created) != 0 {
		t.Fatal("nothing must be persisted before verification")
	}

	tokens := security.NewTokenService([]byte("unit-test-secret"))
	claims, ok := tokens.Verify(mailer.tokens[0])
	if !ok {
		t.Fatal("verification token must verify with the signing secret")
	}
	if claims["username"] != "margaux" {
		t.Fatalf("token must carry the registration, got username %v", claims["username"])
	}
	if claims["password"] != "correct horse battery" {
		t.Fatal("token must carry the password for account creation")
	}
}

func TestAuthServiceSignRejectsDuplicateBeforeMail(t *testing.T) {
	users := &userRepoStub{existing: true}
	mailer := &mailerStub{}
	svc := newTestAuthService(users, mailer, &eventsStub{})

	err := svc.Sign(context.Background(), validRegistration())
	if !errors.Is(err, ErrDuplicateUser) {
		t.Fatalf("expected ErrDuplicateUser, got %v", err)
	}
	if len(mailer.tokens) != 0 {
		t.Fatal("no mail may be sent for a duplicate registration")
	}
}

func TestAuthServiceSignValidation(t *testing.T) {
	svc := newTestAuthService(&userRepoStub{}, &mailerStub{}, &eventsStub{})

	cases := map[string]func(*domain.Registration){
		"missing username": func(r *domain.Registration) { r.Username = "" },
		"missing email":    func(r *domain.Registration) { r.Email = "" },
		"short password":   func(r *domain.Registration) { r.Password = "pw123" },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			reg := validRegistration()
			mutate(&reg)
			if err := svc.Sign(context.Background(), reg); !errors.Is(err, ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestAuthServiceSignAcceptsSixCharacterPassword(t *testing.T) {
	mailer := &mailerStub{}
	svc := newTestAuthService(&userRepoStub{}, mailer, &eventsStub{})

	reg := validRegistration()
	reg.Password = "secret1"
	if err := svc.Sign(context.Background(), reg); err != nil {
		t.Fatalf("six-plus character password must register, got %v", err)
	}
	if len(mailer.tokens) != 1 {
		t.Fatal("verification mail must be sent")
	}
}

func TestAuthServiceCompleteSignUpInvalidTokenHalts(t *testing.T) {
	users := &userRepoStub{}
	svc := newTestAuthService(users, &mailerStub{}, &eventsStub{})

	_, _, err := svc.CompleteSignUp(context.Background(), "not-a-token")
	if !errors.Is(err, ErrInvalidVerificationToken) {
		t.Fatalf("expected ErrInvalidVerificationToken, got %v", err)
	}
	if len(users.created) != 0 {
		t.Fatal("a failed verification must not create an account")
	}
}

func TestAuthServiceCompleteSignUpRejectsForeignToken(t *testing.T) {
	users := &userRepoStub{}
	svc := newTestAuthService(users, &mailerStub{}, &eventsStub{})

	foreign := security.NewTokenService([]byte("some-other-secret"))
	token, err := foreign.Generate(map[string]any{"username": "mallory", "password": "hunter2hunter2"}, "24h")
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	if _, _, err := svc.CompleteSignUp(context.Background(), token); !errors.Is(err, ErrInvalidVerificationToken) {
		t.Fatalf("expected ErrInvalidVerificationToken, got %v", err)
	}
	if len(users.created) != 0 {
		t.Fatal("a token signed with another secret must not create an account")
	}
}

func TestAuthServiceCompleteSignUpCreatesAndAuthenticates(t *testing.T) {
	users := &userRepoStub{}
	mailer := &mailerStub{}
	events := &eventsStub{}
	svc := newTestAuthService(users, mailer, events)

	if err := svc.Sign(context.Background(), validRegistration()); err != nil {
		t.Fatalf("Sign returned error: %v", err)
	}

	user, pair, err := svc.CompleteSignUp(context.Background(), mailer.tokens[0])
	if err != nil {
		t.Fatalf("CompleteSignUp returned error: %v", err)
	}

	if len(users.created) != 1 {
		t.Fatalf("expected one account created, got %d", len(users.created))
	}
	stored := users.created[0]
	if stored.PasswordHash == "" || stored.PasswordHash == "correct horse battery" {
		t.Fatal("password must be stored as a hash")
	}
	if !security.VerifyPassword("correct horse battery", stored.PasswordHash) {
		t.Fatal("stored hash must verify against the original password")
	}
	if stored.Status != domain.UserStatusActive {
		t.Fatalf("expected active status, got %q", stored.Status)
	}

	if user.PasswordHash != "" {
		t.Fatal("returned user must not expose the password hash")
	}
	if len(users.setOnlineIDs) != 1 || users.setOnlineIDs[0] != stored.ID {
		t.Fatal("completing sign-up must mark the account online")
	}
	if len(events.registered) != 1 {
		t.Fatalf("expected one user.registered event, got %d", len(events.registered))
	}

	tokens := security.NewTokenService([]byte("unit-test-secret"))
	for _, issued := range []string{pair.Access, pair.Refresh} {
		claims, ok := tokens.Verify(issued)
		if !ok {
			t.Fatal("issued token must verify")
		}
		if claims["id"] != stored.ID {
			t.Fatalf("expected id claim %q, got %v", stored.ID, claims["id"])
		}
		if claims["role"] != "role-1" || claims["store"] != "store-1" {
			t.Fatalf("unexpected role/store claims: %v / %v", claims["role"], claims["store"])
		}
	}
}

func TestAuthServiceSignInWrongPassword(t *testing.T) {
	hash, err := security.HashPassword("the right one")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}

	users := &userRepoStub{byIdentifier: &domain.User{ID: "user-1", Username: "margaux", PasswordHash: hash}}
	svc := newTestAuthService(users, &mailerStub{}, &eventsStub{})

	_, _, err = svc.SignIn(context.Background(), "margaux", "the wrong one")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if len(users.setOnlineIDs) != 0 {
		t.Fatal("a failed password check must not touch the presence flag")
	}
}

func TestAuthServiceSignInUnknownUser(t *testing.T) {
	svc := newTestAuthService(&userRepoStub{}, &mailerStub{}, &eventsStub{})

	_, _, err := svc.SignIn(context.Background(), "nobody", "whatever")
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestAuthServiceSignInIssuesTokens(t *testing.T) {
	hash, err := security.HashPassword("the right one")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}

	users := &userRepoStub{byIdentifier: &domain.User{
		ID:           "user-1",
		Username:     "margaux",
		RoleID:       "role-1",
		StoreID:      "store-1",
		PasswordHash: hash,
	}}
	events := &eventsStub{}
	svc := newTestAuthService(users, &mailerStub{}, events)

	user, pair, err := svc.SignIn(context.Background(), "margaux", "the right one")
	if err != nil {
		t.Fatalf("SignIn returned error: %v", err)
	}

	if !user.Online {
		t.Fatal("signed-in user must be reported online")
	}
	if user.PasswordHash != "" {
		t.Fatal("returned user must not expose the password hash")
	}
	if pair.Access == "" || pair.Refresh == "" || pair.Access == pair.Refresh {
		t.Fatal("sign-in must issue a distinct access and refresh token")
	}
	if len(events.loggedIn) != 1 {
		t.Fatalf("expected one user.logged_in event, got %d", len(events.loggedIn))
	}
}

func TestAuthServiceStubsReportNotImplemented(t *testing.T) {
	svc := newTestAuthService(&userRepoStub{}, &mailerStub{}, &eventsStub{})
	ctx := context.Background()

	checks := map[string]error{
		"SignOut":          svc.SignOut(ctx, "user-1"),
		"ForgotPassword":   svc.ForgotPassword(ctx, "margaux@example.com"),
		"ResetPassword":    svc.ResetPassword(ctx, "token", "new password"),
		"VerifyOTP":        svc.VerifyOTP(ctx, "user-1", "123456"),
		"ResendOTP":        svc.ResendOTP(ctx, "user-1"),
		"ChangePassword":   svc.ChangePassword(ctx, "user-1", "old", "new"),
		"EnableTwoFactor":  svc.EnableTwoFactor(ctx, "user-1"),
		"DisableTwoFactor": svc.DisableTwoFactor(ctx, "user-1"),
		"VerifyTwoFactor":  svc.VerifyTwoFactor(ctx, "user-1", "123456"),
	}
	if _, err := svc.RefreshTokens(ctx, "refresh"); !errors.Is(err, ErrNotImplemented) {
		t.Fatalf("RefreshTokens: expected ErrNotImplemented, got %v", err)
	}

	for name, err := range checks {
		if !errors.Is(err, ErrNotImplemented) {
			t.Fatalf("%s: expected ErrNotImplemented, got %v", name, err)
		}
	}
}
