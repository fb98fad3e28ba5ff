package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jrsteele09/podsave-web/registration"
)

// Member is the logged-in member as the backend sees it.
type Member struct {
	ID                   string `json:"id"`
	Email                string `json:"email"`
	FirstName            string `json:"first_name"`
	LastName             string `json:"last_name"`
	EmailVerified        bool   `json:"email_verified"`
	IdentityVerification string `json:"identity_verification"`
	RegistrationStage    string `json:"registration_stage,omitempty"`
}

// Stage returns the member's registration stage if the backend reported a known one.
func (m *Member) Stage() (registration.Stage, bool) {
	return registration.ParseStage(m.RegistrationStage)
}

type Profile struct {
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	Phone       string  `json:"phone"`
	DateOfBirth string  `json:"date_of_birth"`
	Address     Address `json:"address"`
}

type Address struct {
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// Me fetches the logged-in member.
func (c *Client) Me(ctx context.Context, token string) (*Member, error) {
	var m Member
	if err := c.doAuthorised(ctx, token, http.MethodGet, "/users/me", nil, &m); err != nil {
		return nil, fmt.Errorf("[backend Me] %w", err)
	}
	return &m, nil
}

// UpdateProfile submits the registration form.
func (c *Client) UpdateProfile(ctx context.Context, token string, p Profile) error {
	if err := c.doAuthorised(ctx, token, http.MethodPut, "/users/me", p, nil); err != nil {
		return fmt.Errorf("[backend UpdateProfile] %w", err)
	}
	return nil
}

// ConfirmIdentityVerification tells the backend a provider verification session
// finished and returns the member with its updated identity_verification.
func (c *Client) ConfirmIdentityVerification(ctx context.Context, token, verificationID string) (*Member, error) {
	in := map[string]string{"verification_session_id": verificationID}
	var m Member
	if err := c.doAuthorised(ctx, token, http.MethodPost, "/users/me/identity-verification", in, &m); err != nil {
		return nil, fmt.Errorf("[backend ConfirmIdentityVerification] %w", err)
	}
	return &m, nil
}

// SubmitIDNumber records the member's national identity number.
func (c *Client) SubmitIDNumber(ctx context.Context, token, idNumber string) error {
	in := map[string]string{"id_number": idNumber}
	if err := c.doAuthorised(ctx, token, http.MethodPost, "/users/me/identity-number", in, nil); err != nil {
		return fmt.Errorf("[backend SubmitIDNumber] %w", err)
	}
	return nil
}

// VerifyEmail checks the code that was emailed to the member.
func (c *Client) VerifyEmail(ctx context.Context, token, code string) error {
	in := map[string]string{"code": code}
	if err := c.doAuthorised(ctx, token, http.MethodPost, "/users/me/email-verification", in, nil); err != nil {
		return fmt.Errorf("[backend VerifyEmail] %w", err)
	}
	return nil
}

// ResendEmailVerification sends a fresh verification code.
func (c *Client) ResendEmailVerification(ctx context.Context, token string) error {
	if err := c.doAuthorised(ctx, token, http.MethodPost, "/users/me/email-verification/resend", nil, nil); err != nil {
		return fmt.Errorf("[backend ResendEmailVerification] %w", err)
	}
	return nil
}

// ConnectBank links the bank account behind accountToken, as produced by the
// payment provider's bank connection widget.
func (c *Client) ConnectBank(ctx context.Context, token, accountToken string) error {
	in := map[string]string{"account_token": accountToken}
	if err := c.doAuthorised(ctx, token, http.MethodPost, "/users/me/bank-accounts", in, nil); err != nil {
		return fmt.Errorf("[backend ConnectBank] %w", err)
	}
	return nil
}
