package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/inkwell/backend/internal/db"
	"github.com/inkwell/backend/internal/model"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrDuplicateEmail     = errors.New("email already exists")
	ErrUnauthenticated    = errors.New("not authenticated")
	ErrInvalidInput       = errors.New("invalid input")
	ErrMisconfigured      = errors.New("auth config invalid")
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// UserStore is the slice of the user repository auth needs.
type UserStore interface {
	CreateUser(ctx context.Context, email, name, passwordHash string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByID(ctx context.Context, userID int64) (*model.User, error)
}

type AuthService struct {
	users      UserStore
	tokens     *TokenService
	bcryptCost int
}

func NewAuthService(users UserStore, tokens *TokenService, bcryptCost int) *AuthService {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AuthService{
		users:      users,
		tokens:     tokens,
		bcryptCost: bcryptCost,
	}
}

// Login verifies credentials and issues a token. Unknown email, a user
// provisioned without a password hash, and a wrong password all collapse
// into ErrInvalidCredentials so callers cannot probe which emails exist.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	user, err := s.users.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if db.IsNoRows(err) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("login lookup: %w", err)
	}

	if user.PasswordHash == "" {
		return "", nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}
	return token, user, nil
}

// Register creates a user with a bcrypt-hashed password and issues a token.
// The plaintext password is hashed immediately and never stored or logged.
func (s *AuthService) Register(ctx context.Context, email, name, password string) (string, *model.User, error) {
	email = normalizeEmail(email)
	if !emailPattern.MatchString(email) {
		return "", nil, fmt.Errorf("%w: malformed email", ErrInvalidInput)
	}
	if strings.TrimSpace(name) == "" {
		return "", nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if len(password) < minPasswordLength {
		return "", nil, fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, minPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.CreateUser(ctx, email, name, string(hash))
	if err != nil {
		if db.IsUniqueViolation(err) {
			return "", nil, ErrDuplicateEmail
		}
		return "", nil, fmt.Errorf("register user: %w", err)
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}
	return token, user, nil
}

// Authenticate derives the request's auth context from the Authorization
// header. A missing or malformed header, a bad token, and a token for a
// deleted user all produce the anonymous context; none of them is an error.
// Performs exactly one store lookup, and only for a verifiable token.
func (s *AuthService) Authenticate(ctx context.Context, authorization string) model.AuthContext {
	anonymous := model.AuthContext{}

	raw, ok := bearerToken(authorization)
	if !ok {
		return anonymous
	}

	claims, ok := s.tokens.Verify(raw)
	if !ok {
		return anonymous
	}

	user, err := s.users.GetUserByID(ctx, claims.UserID)
	if err != nil {
		return anonymous
	}

	return model.AuthContext{User: user, IsAuthenticated: true}
}

// bearerToken extracts the token from a "Bearer <token>" header value.
func bearerToken(authorization string) (string, bool) {
	parts := strings.SplitN(authorization, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}
	return token, true
}

// Emails are compared case-insensitively; the lowercased form is what gets
// stored and looked up.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
