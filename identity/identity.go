// Package identity abstracts the hosted document verification provider used
// for the KYC document step.
package identity

import (
	"context"

	"github.com/jrsteele09/podsave-web/registration"
)

// Verification is one hosted document check.
type Verification struct {
	ID        string
	URL       string // hosted page the member completes the check on
	Status    string // one of the registration.Verification* statuses
	MemberRef string // member the check was started for
}

// BelongsTo reports whether the check was started for memberRef.
func (v *Verification) BelongsTo(memberRef string) bool {
	return memberRef != "" && v.MemberRef == memberRef
}

// Verified reports whether the provider accepted the document.
func (v *Verification) Verified() bool {
	_, ok := registration.StageFromVerificationStatus(v.Status)
	return ok
}

// Verifier starts and inspects verifications.
type Verifier interface {
	// Start opens a verification for memberRef; the provider sends the member
	// back to returnURL when done.
	Start(ctx context.Context, memberRef, returnURL string) (*Verification, error)

	// Status fetches the current state of a verification.
	Status(ctx context.Context, id string) (*Verification, error)
}
