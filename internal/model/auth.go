package model

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// AuthContext is the per-request authentication state. It is derived from
// the Authorization header once per request and never persisted.
type AuthContext struct {
	User            *User
	IsAuthenticated bool
}
