package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/labstack/gommon/log"

	"github.com/easycontent/contentgen/internal/model"
	"github.com/easycontent/contentgen/internal/queue"
	"github.com/easycontent/contentgen/internal/repository"
	"github.com/easycontent/contentgen/internal/utils"
)

// MinPasswordLen is the shortest password accepted at registration and on
// admin password resets.
const MinPasswordLen = 6

// MaxPasswordBytes is bcrypt's input limit. Longer passwords are rejected
// rather than truncated.
const MaxPasswordBytes = 72

const maxUsernameLen = 50

// Session is what register and login hand back to the client.
type Session struct {
	AccessToken string           `json:"access_token"`
	TokenType   string           `json:"token_type"`
	ExpiresAt   int64            `json:"expires_at"`
	User        model.PublicUser `json:"user"`
}

// Identity is the outcome of authenticating a request: the live user record
// plus the admin flag the token carried when it was issued.
type Identity struct {
	User       *model.User
	TokenAdmin bool
}

// RegisterInput carries the registration form.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// AuthService issues and checks bearer tokens against the credential store.
type AuthService struct {
	users  UserStore
	tokens *utils.TokenIssuer
	cost   int
	events EventPublisher
}

// NewAuthService wires the credential store and token issuer. events may be
// nil.
func NewAuthService(users UserStore, tokens *utils.TokenIssuer, bcryptCost int, events EventPublisher) *AuthService {
	return &AuthService{users: users, tokens: tokens, cost: bcryptCost, events: events}
}

// Register creates an active, non-admin account and returns a session for it.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.TrimSpace(in.Email)
	if err := validateAccount(username, email); err != nil {
		return nil, err
	}
	if err := validatePassword(in.Password); err != nil {
		return nil, err
	}

	hash, err := utils.HashPassword(in.Password, s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &model.User{Username: username, Email: email, PasswordHash: hash, IsActive: true}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrConflict
		}
		return nil, err
	}
	publish(ctx, s.events, queue.NewActivityEvent(queue.KindUserRegistered, u.ID, u.Username, u.ID))
	return s.session(u)
}

// Login checks username and password. Unknown usernames and wrong passwords
// fail identically and cost the same bcrypt work. The active flag is checked
// only after the password matched.
func (s *AuthService) Login(ctx context.Context, username, password string) (*Session, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, invalid("username and password are required")
	}
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.BurnPasswordCheck(password, s.cost)
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !utils.VerifyPassword(u.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	if !u.IsActive {
		return nil, ErrAccountDisabled
	}
	return s.session(u)
}

func (s *AuthService) session(u *model.User) (*Session, error) {
	tok, err := s.tokens.Issue(u.ID, u.IsAdmin)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &Session{
		AccessToken: tok.Token,
		TokenType:   "bearer",
		ExpiresAt:   tok.Exp.Unix(),
		User:        u.Public(),
	}, nil
}

// Authenticate resolves an Authorization header value to an active user.
// Every failure wraps ErrUnauthorized.
func (s *AuthService) Authenticate(ctx context.Context, header string) (*Identity, error) {
	raw, err := bearerToken(header)
	if err != nil {
		return nil, err
	}
	claims, err := s.tokens.Verify(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}
	u, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: user %d", ErrUnknownSubject, claims.UserID)
		}
		return nil, err
	}
	if !u.IsActive {
		return nil, fmt.Errorf("%w: user %d is disabled", ErrUnknownSubject, u.ID)
	}
	return &Identity{User: u, TokenAdmin: claims.IsAdmin}, nil
}

// bearerToken requires exactly "Bearer <token>" with a case-insensitive
// scheme.
func bearerToken(header string) (string, error) {
	if strings.TrimSpace(header) == "" {
		return "", ErrMissingCredentials
	}
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", ErrMalformedCredentials
	}
	return parts[1], nil
}

// RequireAdmin checks the live admin flag of an authenticated identity. The
// token's snapshot flag is ignored, so a demotion takes effect on the next
// request.
func (s *AuthService) RequireAdmin(id *Identity) error {
	if id == nil || id.User == nil || !id.User.IsAdmin {
		return ErrForbidden
	}
	return nil
}

// Me is the current-identity view. The admin flag comes from the token, so
// it reflects the role at issuance rather than the live record.
func (s *AuthService) Me(id *Identity) model.PublicUser {
	pub := id.User.Public()
	pub.IsAdmin = id.TokenAdmin
	return pub
}

// CreateAdmin bootstraps an administrator account from the command line.
func (s *AuthService) CreateAdmin(ctx context.Context, in RegisterInput) (*model.User, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.TrimSpace(in.Email)
	if err := validateAccount(username, email); err != nil {
		return nil, err
	}
	if err := validatePassword(in.Password); err != nil {
		return nil, err
	}
	hash, err := utils.HashPassword(in.Password, s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &model.User{Username: username, Email: email, PasswordHash: hash, IsActive: true, IsAdmin: true}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrConflict
		}
		return nil, err
	}
	return u, nil
}

func validateAccount(username, email string) error {
	if username == "" || email == "" {
		return invalid("username and email are required")
	}
	if utf8.RuneCountInString(username) > maxUsernameLen {
		return invalid("username must be at most %d characters", maxUsernameLen)
	}
	if strings.ContainsAny(username, " \t\r\n") {
		return invalid("username must not contain whitespace")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return invalid("email address is not valid")
	}
	return nil
}

func validatePassword(p string) error {
	if p == "" {
		return invalid("password is required")
	}
	if utf8.RuneCountInString(p) < MinPasswordLen {
		return invalid("password must be at least %d characters", MinPasswordLen)
	}
	if len(p) > MaxPasswordBytes {
		return invalid("password must be at most %d bytes", MaxPasswordBytes)
	}
	return nil
}

func publish(ctx context.Context, p EventPublisher, ev queue.ActivityEvent) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, ev); err != nil {
		log.Warnf("activity: publish %s failed: %v", ev.Kind, err)
	}
}
