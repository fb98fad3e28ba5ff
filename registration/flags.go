package registration

// Flags are presentation hints for dashboard cards.
// They lock or blur content only; every privileged read is still authorised
// by the bearer token on the remote API.
type Flags struct {
	EmailVerified bool `json:"email_verified"`
	KYCCompleted  bool `json:"kyc_completed"`
}

// FlagsFor derives the gating flags from a stage.
func FlagsFor(s Stage) Flags {
	return Flags{
		EmailVerified: s.AtLeast(StageEmailVerified),
		KYCCompleted:  s.AtLeast(StageKYCIDNumberComplete),
	}
}
