package api

import (
	"context"
	"errors"
	"net/http"
)

// Session holds the credentials returned by a successful login.
//
// See: https://api.immich.app/models/LoginResponseDto
type Session struct {
	AccessToken string `json:"accessToken"`
	UserID      string `json:"userId"`
	UserEmail   string `json:"userEmail"`
	Name        string `json:"name"`
}

// Login exchanges an email and password for a [Session]. Any failure is
// reported as an [AuthError].
//
// See: https://api.immich.app/endpoints/authentication/login
func (c Client) Login(ctx context.Context, email, password string) (*Session, error) {
	const op = "Login"
	body := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{email, password}
	var s Session
	if err := c.doJSON(ctx, op, http.MethodPost, "/auth/login", nil, body, &s); err != nil {
		return nil, &AuthError{Email: email, Err: err}
	}
	if s.AccessToken == "" || s.UserID == "" {
		err := &DecodeError{Op: op, Err: errors.New("missing accessToken or userId")}
		return nil, &AuthError{Email: email, Err: err}
	}
	return &s, nil
}

// Logout invalidates the session the Client authenticates with.
func (c Client) Logout(ctx context.Context) error {
	return c.doJSON(ctx, "Logout", http.MethodPost, "/auth/logout", nil, nil, nil)
}
