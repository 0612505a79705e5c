// Package session owns the authentication lifecycle: durable token
// material, the decoded identity of the signed-in user, and the derived
// authenticated state.
package session

import (
	"context"
	"strings"
)

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleCustomer Role = "customer"
	RoleProvider Role = "provider"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleCustomer, RoleProvider:
		return true
	}
	return false
}

type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (c Credentials) Normalize() Credentials {
	return Credentials{
		Username: strings.TrimSpace(c.Username),
		Password: c.Password,
	}
}

type Tokens struct {
	Access  string
	Refresh string
}

// UserPayload is the user object returned by the login and profile
// endpoints. The subject attached depends on the role; pointers keep
// "not returned" distinct from zero values.
type UserPayload struct {
	Username string           `json:"username"`
	Role     Role             `json:"role"`
	Provider *ProviderPayload `json:"provider,omitempty"`
	Customer *CustomerPayload `json:"customer,omitempty"`
}

type ProviderPayload struct {
	ID         int   `json:"id"`
	IsApproved *bool `json:"is_approved"`
	IsBlocked  *bool `json:"is_blocked"`
}

type CustomerPayload struct {
	ID        int   `json:"id"`
	IsBlocked *bool `json:"is_blocked"`
}

type LoginResult struct {
	Tokens Tokens
	User   UserPayload
}

// Authenticator is the external authentication collaborator. The REST
// client satisfies it; tests supply fakes.
type Authenticator interface {
	Login(ctx context.Context, credentials Credentials) (LoginResult, error)
	RefreshTokens(ctx context.Context, refreshToken string) (Tokens, error)
}
