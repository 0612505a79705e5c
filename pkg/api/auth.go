package api

import (
	"context"
	"fmt"
	"net/http"

	oerrors "github.com/urbanaid/urbanaid-go/pkg/errors"
	"github.com/urbanaid/urbanaid-go/pkg/session"
)

var _ session.Authenticator = (*Client)(nil)

// Login authenticates with username/password. It is the session manager's
// entry point into this client.
func (c *Client) Login(ctx context.Context, credentials session.Credentials) (session.LoginResult, error) {
	var data loginData
	err := c.do(ctx, request{
		method:   http.MethodPost,
		path:     "/api/v1/auth/login",
		body:     credentials,
		fallback: "Login failed",
	}, &data)
	if err != nil {
		return session.LoginResult{}, err
	}

	if data.AccessToken == "" || data.RefreshToken == "" || data.User == nil || !data.User.Role.Valid() {
		return session.LoginResult{}, oerrors.New(oerrors.CodeMalformedResponse, "Login failed. Missing necessary user data !!")
	}

	return session.LoginResult{
		Tokens: session.Tokens{
			Access:  data.AccessToken,
			Refresh: data.RefreshToken,
		},
		User: *data.User,
	}, nil
}

// RefreshTokens exchanges a refresh token for a new token pair. The
// refresh token itself is the bearer credential here.
func (c *Client) RefreshTokens(ctx context.Context, refreshToken string) (session.Tokens, error) {
	if refreshToken == "" {
		return session.Tokens{}, oerrors.New(oerrors.CodeMissingCredentials, "Refresh token required!!")
	}

	var data tokenData
	err := c.do(ctx, request{
		method:   http.MethodPost,
		path:     "/api/v1/auth/token/refresh",
		bearer:   refreshToken,
		fallback: "Failed to refresh token!!",
	}, &data)
	if err != nil {
		return session.Tokens{}, err
	}

	if data.AccessToken == "" || data.RefreshToken == "" {
		return session.Tokens{}, oerrors.New(oerrors.CodeMalformedResponse, "Refreshing tokens failed due to missing fields!!")
	}

	return session.Tokens{
		Access:  data.AccessToken,
		Refresh: data.RefreshToken,
	}, nil
}

type RegisterForm struct {
	Email           string `json:"email"`
	Username        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	Gender          string `json:"gender,omitempty"`
	Location        string `json:"location"`
	Contact         string `json:"contact"`

	// Provider-only fields.
	Category   string `json:"category,omitempty"`
	Experience int    `json:"experience,omitempty"`
}

// Register creates a customer or provider account. Admin accounts are
// seeded server-side and cannot be registered.
func (c *Client) Register(ctx context.Context, role session.Role, form RegisterForm) error {
	if role != session.RoleCustomer && role != session.RoleProvider {
		return oerrors.New(oerrors.CodeRequestFailed, fmt.Sprintf("Cannot register role %q!!", string(role)))
	}

	return c.do(ctx, request{
		method:   http.MethodPost,
		path:     "/api/v1/auth/register/" + string(role),
		body:     form,
		fallback: "Registration failed",
	}, nil)
}
