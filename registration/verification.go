package registration

import "strings"

// Identity verification statuses reported by the provider and echoed by the backend
// in its identity_verification field.
const (
	VerificationRequiresInput = "requires_input"
	VerificationProcessing    = "processing"
	VerificationVerified      = "verified"
	VerificationCanceled      = "canceled"
)

// StageFromVerificationStatus maps an identity verification status to the stage
// it completes. Only a verified document commits a transition.
func StageFromVerificationStatus(status string) (Stage, bool) {
	if strings.EqualFold(strings.TrimSpace(status), VerificationVerified) {
		return StageKYCDocumentComplete, true
	}
	return "", false
}
