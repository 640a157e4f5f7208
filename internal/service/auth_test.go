package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/inkwell/backend/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// fakeUserStore keeps users in memory and mimics the repository's error
// behavior: pgx.ErrNoRows on miss, a 23505 pg error on duplicate email.
type fakeUserStore struct {
	nextID int64
	users  map[int64]model.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{nextID: 1, users: map[int64]model.User{}}
}

func (s *fakeUserStore) CreateUser(_ context.Context, email, name, passwordHash string) (*model.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return nil, &pgconn.PgError{Code: "23505"}
		}
	}
	now := time.Now()
	user := model.User{
		ID:           s.nextID,
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	s.users[user.ID] = user
	s.nextID++
	return &user, nil
}

func (s *fakeUserStore) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			user := u
			return &user, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (s *fakeUserStore) GetUserByID(_ context.Context, userID int64) (*model.User, error) {
	u, ok := s.users[userID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &u, nil
}

func newTestAuthService(t *testing.T) (*AuthService, *fakeUserStore) {
	t.Helper()
	store := newFakeUserStore()
	tokens := newTestTokenService(t, time.Hour)
	// bcrypt.MinCost keeps the hashing fast in tests
	return NewAuthService(store, tokens, 4), store
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	token1, user, err := svc.Register(ctx, "a@x.com", "Ann", "secret1")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if user.Email != "a@x.com" || user.Name != "Ann" {
		t.Fatalf("Register() user = %+v", user)
	}
	if token1 == "" {
		t.Fatal("Register() returned an empty token")
	}

	token2, loggedIn, err := svc.Login(ctx, "a@x.com", "secret1")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if loggedIn.ID != user.ID {
		t.Errorf("Login() user id = %d, want %d", loggedIn.ID, user.ID)
	}

	claims, ok := svc.tokens.Verify(token2)
	if !ok {
		t.Fatal("login token failed verification")
	}
	if claims.UserID != user.ID {
		t.Errorf("token user id = %d, want %d", claims.UserID, user.ID)
	}
}

func TestLoginGenericFailure(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	if _, _, err := svc.Register(ctx, "a@x.com", "Ann", "secret1"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"unknown-email", "nouser@x.com", "anything"},
		{"wrong-password", "a@x.com", "wrongpassword"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.Login(ctx, tt.email, tt.password)
			if err != ErrInvalidCredentials {
				t.Fatalf("Login() error = %v, want ErrInvalidCredentials", err)
			}
		})
	}
}

func TestLoginMissingPasswordHash(t *testing.T) {
	svc, store := newTestAuthService(t)
	ctx := context.Background()

	// users provisioned before password auth existed have no hash
	if _, err := store.CreateUser(ctx, "legacy@x.com", "Legacy", ""); err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}

	if _, _, err := svc.Login(ctx, "legacy@x.com", "whatever"); err != ErrInvalidCredentials {
		t.Fatalf("Login() error = %v, want ErrInvalidCredentials", err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, store := newTestAuthService(t)
	ctx := context.Background()

	_, first, err := svc.Register(ctx, "a@x.com", "Ann", "secret1")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if _, _, err := svc.Register(ctx, "a@x.com", "Impostor", "secret2"); err != ErrDuplicateEmail {
		t.Fatalf("second Register() error = %v, want ErrDuplicateEmail", err)
	}

	kept, err := store.GetUserByID(ctx, first.ID)
	if err != nil {
		t.Fatalf("GetUserByID() error = %v", err)
	}
	if kept.Name != "Ann" {
		t.Errorf("first user mutated by failed registration: %+v", kept)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		email    string
		userName string
		password string
	}{
		{"short-password", "a@x.com", "Ann", "12345"},
		{"malformed-email", "not-an-email", "Ann", "secret1"},
		{"empty-name", "a@x.com", "   ", "secret1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.Register(ctx, tt.email, tt.userName, tt.password)
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("Register() error = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestEmailNormalization(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	if _, _, err := svc.Register(ctx, " Ann@X.com ", "Ann", "secret1"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	_, user, err := svc.Login(ctx, "ann@x.com", "secret1")
	if err != nil {
		t.Fatalf("Login() with lowercased email error = %v", err)
	}
	if user.Email != "ann@x.com" {
		t.Errorf("stored email = %q, want normalized form", user.Email)
	}

	if _, _, err := svc.Register(ctx, "ANN@x.com", "Other", "secret2"); err != ErrDuplicateEmail {
		t.Fatalf("Register() with re-cased email error = %v, want ErrDuplicateEmail", err)
	}
}

func TestAuthenticate(t *testing.T) {
	svc, store := newTestAuthService(t)
	ctx := context.Background()

	token, user, err := svc.Register(ctx, "a@x.com", "Ann", "secret1")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	anonymousHeaders := []struct {
		name   string
		header string
	}{
		{"no-header", ""},
		{"wrong-scheme", "Token xyz"},
		{"bare-token", token},
		{"bearer-empty", "Bearer "},
		{"garbage-token", "Bearer garbage"},
	}
	for _, tt := range anonymousHeaders {
		t.Run(tt.name, func(t *testing.T) {
			authCtx := svc.Authenticate(ctx, tt.header)
			if authCtx.IsAuthenticated || authCtx.User != nil {
				t.Fatalf("Authenticate(%q) = %+v, want anonymous", tt.header, authCtx)
			}
		})
	}

	authCtx := svc.Authenticate(ctx, "Bearer "+token)
	if !authCtx.IsAuthenticated || authCtx.User == nil || authCtx.User.ID != user.ID {
		t.Fatalf("Authenticate(valid) = %+v, want user %d", authCtx, user.ID)
	}

	// a valid token for a user deleted after issuance is anonymous too
	delete(store.users, user.ID)
	authCtx = svc.Authenticate(ctx, "Bearer "+token)
	if authCtx.IsAuthenticated || authCtx.User != nil {
		t.Fatalf("Authenticate(deleted user) = %+v, want anonymous", authCtx)
	}
}

func TestPasswordNeverSerialized(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	_, user, err := svc.Register(ctx, "a@x.com", "Ann", "secret1")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if user.PasswordHash == "" {
		t.Fatal("user has no stored hash")
	}

	data, err := json.Marshal(user)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if strings.Contains(string(data), "secret1") {
		t.Fatal("serialized user contains the plaintext password")
	}
	if strings.Contains(string(data), user.PasswordHash) {
		t.Fatal("serialized user contains the password hash")
	}
	if strings.Contains(strings.ToLower(string(data)), "password") {
		t.Fatalf("serialized user mentions a password field: %s", data)
	}
}
