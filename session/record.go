package session

import (
	"time"

	"github.com/jrsteele09/podsave-web/registration"
)

// Record is the Session Record of one browser context. It is either
// Authenticated or Unauthenticated; a stage without a token cannot be expressed.
type Record interface {
	isRecord()
}

// Authenticated is a logged-in browser context.
type Authenticated struct {
	Token     string
	ExpiresAt time.Time          // zero when the backend gave no expiry
	Stage     registration.Stage // empty when registration has not started
}

// Unauthenticated is the absence of a Session Record.
type Unauthenticated struct{}

func (Authenticated) isRecord()   {}
func (Unauthenticated) isRecord() {}

// Expired reports whether the token's expiry is at or before now.
func (a Authenticated) Expired(now time.Time) bool {
	return !a.ExpiresAt.IsZero() && !now.Before(a.ExpiresAt)
}

// corruptExpiry stands in for an expiry that could not be parsed, so the token
// is treated as expired rather than valid forever.
var corruptExpiry = time.Unix(1, 0).UTC()

func decodeRecord(fields map[string]string) Record {
	token := fields[FieldToken]
	if token == "" {
		return Unauthenticated{}
	}

	rec := Authenticated{Token: token}
	if raw := fields[FieldExpiresAt]; raw != "" {
		exp, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			exp = corruptExpiry
		}
		rec.ExpiresAt = exp
	}
	if st, ok := registration.ParseStage(fields[FieldStage]); ok {
		rec.Stage = st
	}
	return rec
}

func encodeExpiry(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
