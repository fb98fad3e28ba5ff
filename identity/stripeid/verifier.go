// Package stripeid implements identity.Verifier with Stripe Identity
// verification sessions.
package stripeid

import (
	"context"
	"fmt"

	"github.com/jrsteele09/podsave-web/identity"
	apperrors "github.com/jrsteele09/podsave-web/internal/errors"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/identity/verificationsession"
)

const metadataMemberRef = "member_ref"

var _ identity.Verifier = (*Verifier)(nil)

type Verifier struct {
	sessions verificationsession.Client
}

// New creates a Verifier using secretKey against the Stripe API.
func New(secretKey string) *Verifier {
	return NewWithBackend(secretKey, stripe.GetBackend(stripe.APIBackend))
}

// NewWithBackend lets tests point the client at a fake Stripe backend.
func NewWithBackend(secretKey string, b stripe.Backend) *Verifier {
	return &Verifier{
		sessions: verificationsession.Client{B: b, Key: secretKey},
	}
}

func (v *Verifier) Start(ctx context.Context, memberRef, returnURL string) (*identity.Verification, error) {
	params := &stripe.IdentityVerificationSessionParams{
		Type:      stripe.String(string(stripe.IdentityVerificationSessionTypeDocument)),
		ReturnURL: stripe.String(returnURL),
	}
	params.Context = ctx
	params.AddMetadata(metadataMemberRef, memberRef)

	vs, err := v.sessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("[stripeid Start] failed to create verification session: %w: %w", apperrors.ErrUpstream, err)
	}
	return toVerification(vs), nil
}

func (v *Verifier) Status(ctx context.Context, id string) (*identity.Verification, error) {
	if id == "" {
		return nil, fmt.Errorf("[stripeid Status] verification id is required: %w", apperrors.ErrInvalidRequest)
	}
	params := &stripe.IdentityVerificationSessionParams{}
	params.Context = ctx

	vs, err := v.sessions.Get(id, params)
	if err != nil {
		return nil, fmt.Errorf("[stripeid Status] failed to retrieve verification session %s: %w: %w", id, apperrors.ErrUpstream, err)
	}
	return toVerification(vs), nil
}

func toVerification(vs *stripe.IdentityVerificationSession) *identity.Verification {
	return &identity.Verification{
		ID:        vs.ID,
		URL:       vs.URL,
		Status:    string(vs.Status),
		MemberRef: vs.Metadata[metadataMemberRef],
	}
}
