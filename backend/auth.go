package backend

import (
	"context"
	"fmt"
	"net/http"
	"time"

	apperrors "github.com/jrsteele09/podsave-web/internal/errors"
	"github.com/jrsteele09/podsave-web/internal/utils"
	"github.com/jrsteele09/podsave-web/registration"
)

// TokenGrant is what a successful login, signup or refresh hands back.
type TokenGrant struct {
	Token     string
	ExpiresAt time.Time          // zero when no expiry could be determined
	Stage     registration.Stage // empty when the backend did not report one
}

// tokenResponse accepts both "token" and "access_token" spellings.
type tokenResponse struct {
	Token             string     `json:"token"`
	AccessToken       string     `json:"access_token"`
	ExpiresAt         *time.Time `json:"expires_at,omitempty"`
	ExpiresIn         *int64     `json:"expires_in,omitempty"`
	RegistrationStage *string    `json:"registration_stage,omitempty"`
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignupRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, creds Credentials) (*TokenGrant, error) {
	var resp tokenResponse
	if err := c.doAnonymous(ctx, http.MethodPost, "/auth/login", creds, &resp); err != nil {
		if apperrors.Is(err, apperrors.ErrUnauthorized) || apperrors.Is(err, apperrors.ErrInvalidRequest) {
			return nil, fmt.Errorf("[backend Login] %w: %w", apperrors.ErrInvalidCredentials, err)
		}
		return nil, fmt.Errorf("[backend Login] %w", err)
	}
	return c.grantFrom(resp)
}

// Signup creates a member account and logs it in.
func (c *Client) Signup(ctx context.Context, req SignupRequest) (*TokenGrant, error) {
	var resp tokenResponse
	if err := c.doAnonymous(ctx, http.MethodPost, "/auth/signup", req, &resp); err != nil {
		return nil, fmt.Errorf("[backend Signup] %w", err)
	}
	return c.grantFrom(resp)
}

// Refresh trades a still-valid token for a new one.
func (c *Client) Refresh(ctx context.Context, token string) (*TokenGrant, error) {
	var resp tokenResponse
	if err := c.doAuthorised(ctx, token, http.MethodPost, "/auth/refresh", nil, &resp); err != nil {
		return nil, fmt.Errorf("[backend Refresh] %w", err)
	}
	return c.grantFrom(resp)
}

// Logout revokes token on the backend.
func (c *Client) Logout(ctx context.Context, token string) error {
	if err := c.doAuthorised(ctx, token, http.MethodPost, "/auth/logout", nil, nil); err != nil {
		return fmt.Errorf("[backend Logout] %w", err)
	}
	return nil
}

// grantFrom resolves the expiry from expires_at, then expires_in, then the
// token's own exp claim.
func (c *Client) grantFrom(resp tokenResponse) (*TokenGrant, error) {
	token := utils.FirstNonEmpty(resp.Token, resp.AccessToken)
	if token == "" {
		return nil, fmt.Errorf("[backend] token missing from response: %w", apperrors.ErrUpstream)
	}

	grant := &TokenGrant{Token: token}
	switch {
	case resp.ExpiresAt != nil && !resp.ExpiresAt.IsZero():
		grant.ExpiresAt = resp.ExpiresAt.UTC()
	case utils.Value(resp.ExpiresIn) > 0:
		grant.ExpiresAt = c.now().Add(time.Duration(*resp.ExpiresIn) * time.Second).UTC()
	default:
		if exp, ok := ExpiryFromToken(token); ok {
			grant.ExpiresAt = exp
		}
	}

	if st, ok := registration.ParseStage(utils.Value(resp.RegistrationStage)); ok {
		grant.Stage = st
	}
	return grant, nil
}
