package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/inkwell/backend/internal/model"
	"github.com/inkwell/backend/internal/service"
	"go.uber.org/zap"
)

func newAuthAPIRouter(t *testing.T) (*gin.Engine, *service.AuthService) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	authService := newTestAuthService(t)
	h := NewAuthHandler(authService, zap.NewNop())

	r := gin.New()
	r.Use(AuthContextMiddleware(authService))
	r.POST("/api/v1/auth/register", h.Register)
	r.POST("/api/v1/auth/login", h.Login)
	r.GET("/api/v1/auth/me", h.Me)
	return r, authService
}

func postJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestRegisterLoginMeFlow(t *testing.T) {
	r, _ := newAuthAPIRouter(t)

	w := postJSON(r, "/api/v1/auth/register", `{"email":"a@x.com","name":"Ann","password":"secret1"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("register got %d: %s", w.Code, w.Body.String())
	}

	var registered model.AuthResponse
	if err := json.Unmarshal(w.Body.Bytes(), &registered); err != nil {
		t.Fatalf("register response: %v", err)
	}
	if registered.Token == "" || registered.User.Email != "a@x.com" {
		t.Fatalf("register response = %+v", registered)
	}

	w = postJSON(r, "/api/v1/auth/login", `{"email":"a@x.com","password":"secret1"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("login got %d: %s", w.Code, w.Body.String())
	}

	var loggedIn model.AuthResponse
	if err := json.Unmarshal(w.Body.Bytes(), &loggedIn); err != nil {
		t.Fatalf("login response: %v", err)
	}
	if loggedIn.User.ID != registered.User.ID {
		t.Fatalf("login user id = %d, want %d", loggedIn.User.ID, registered.User.ID)
	}

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+loggedIn.Token)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("me got %d: %s", w.Code, w.Body.String())
	}

	var me model.User
	if err := json.Unmarshal(w.Body.Bytes(), &me); err != nil {
		t.Fatalf("me response: %v", err)
	}
	if me.ID != registered.User.ID {
		t.Fatalf("me id = %d, want %d", me.ID, registered.User.ID)
	}
}

func TestLoginFailureIsGeneric(t *testing.T) {
	r, _ := newAuthAPIRouter(t)

	w := postJSON(r, "/api/v1/auth/register", `{"email":"a@x.com","name":"Ann","password":"secret1"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("register got %d: %s", w.Code, w.Body.String())
	}

	unknown := postJSON(r, "/api/v1/auth/login", `{"email":"nouser@x.com","password":"anything"}`)
	wrong := postJSON(r, "/api/v1/auth/login", `{"email":"a@x.com","password":"wrongpassword"}`)

	if unknown.Code != http.StatusUnauthorized || wrong.Code != http.StatusUnauthorized {
		t.Fatalf("codes = %d, %d; want 401, 401", unknown.Code, wrong.Code)
	}
	if unknown.Body.String() != wrong.Body.String() {
		t.Fatalf("failure bodies differ: %s vs %s", unknown.Body.String(), wrong.Body.String())
	}
}

func TestRegisterDuplicateEmailConflict(t *testing.T) {
	r, _ := newAuthAPIRouter(t)

	first := postJSON(r, "/api/v1/auth/register", `{"email":"a@x.com","name":"Ann","password":"secret1"}`)
	if first.Code != http.StatusOK {
		t.Fatalf("first register got %d: %s", first.Code, first.Body.String())
	}

	second := postJSON(r, "/api/v1/auth/register", `{"email":"a@x.com","name":"Bob","password":"secret2"}`)
	if second.Code != http.StatusConflict {
		t.Fatalf("second register got %d, want 409", second.Code)
	}
}

func TestRegisterValidationErrors(t *testing.T) {
	r, _ := newAuthAPIRouter(t)

	tests := []struct {
		name string
		body string
	}{
		{"malformed-json", `{"email":`},
		{"short-password", `{"email":"a@x.com","name":"Ann","password":"12345"}`},
		{"bad-email", `{"email":"nope","name":"Ann","password":"secret1"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(r, "/api/v1/auth/register", tt.body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("got %d, want 400", w.Code)
			}
		})
	}
}

func TestMeWithoutTokenUnauthorized(t *testing.T) {
	r, _ := newAuthAPIRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("me without token got %d, want 401", w.Code)
	}
}

func TestRegisterResponseOmitsPassword(t *testing.T) {
	r, _ := newAuthAPIRouter(t)

	w := postJSON(r, "/api/v1/auth/register", `{"email":"a@x.com","name":"Ann","password":"secret1"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("register got %d: %s", w.Code, w.Body.String())
	}
	if bytes.Contains(w.Body.Bytes(), []byte("password")) || bytes.Contains(w.Body.Bytes(), []byte("secret1")) {
		t.Fatalf("register response leaks password material: %s", w.Body.String())
	}
}
