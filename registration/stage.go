package registration

// Stage marks how far a member has progressed through onboarding.
// The zero value is the absent stage ("not yet started") and is resolved as StageNone.
type Stage string

const (
	StageNone                Stage = "none"
	StageRegistered          Stage = "registered"
	StageKYCDocumentComplete Stage = "kyc_document_complete"
	StageKYCIDNumberComplete Stage = "kyc_id_number_complete"
	StageEmailVerified       Stage = "email_verified"
	StageBankConnected       Stage = "bank_connected"
)

// stages is the onboarding order. Index positions drive the gating flags.
var stages = []Stage{
	StageNone,
	StageRegistered,
	StageKYCDocumentComplete,
	StageKYCIDNumberComplete,
	StageEmailVerified,
	StageBankConnected,
}

// Stages returns every stage in onboarding order.
func Stages() []Stage {
	out := make([]Stage, len(stages))
	copy(out, stages)
	return out
}

// ParseStage converts a persisted or remote value into a Stage.
// ok is false for anything outside the closed set, including the empty string.
func ParseStage(s string) (Stage, bool) {
	st := Stage(s)
	if !st.Valid() {
		return "", false
	}
	return st, true
}

// Valid reports whether s is one of the known stages.
func (s Stage) Valid() bool {
	return s.Index() >= 0
}

// Index returns the position of s in onboarding order, or -1 when unknown.
func (s Stage) Index() int {
	for i, st := range stages {
		if st == s {
			return i
		}
	}
	return -1
}

// OrNone maps the absent stage and unknown values to StageNone.
func (s Stage) OrNone() Stage {
	if !s.Valid() {
		return StageNone
	}
	return s
}

// AtLeast reports whether s has reached other in onboarding order.
func (s Stage) AtLeast(other Stage) bool {
	return s.OrNone().Index() >= other.OrNone().Index()
}

// Complete reports whether onboarding has finished.
func (s Stage) Complete() bool {
	return s == StageBankConnected
}

// NextStage returns the happy-path successor of s.
// ok is false when s is terminal.
func NextStage(s Stage) (Stage, bool) {
	i := s.OrNone().Index()
	if i+1 >= len(stages) {
		return s, false
	}
	return stages[i+1], true
}

func (s Stage) String() string {
	return string(s)
}
