package session

import (
	"context"
	"time"

	"github.com/jrsteele09/podsave-web/registration"
	"github.com/rs/zerolog/log"
)

// Store is the single owner of one browser context's Session Record.
//
// None of its methods return errors. When the storage medium fails, reads
// report no session and writes are dropped; the failure is logged. Callers
// therefore degrade to "unauthenticated" instead of failing.
//
// IsAuthenticated is a read with self-correction: finding an expired token
// clears the record before it returns false.
type Store struct {
	storage   Storage
	namespace string
	now       func() time.Time
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithClock overrides the time source used for expiry checks.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		s.now = now
	}
}

// NewStore creates a Store over the record kept under namespace.
func NewStore(storage Storage, namespace string, opts ...StoreOption) *Store {
	s := &Store{
		storage:   storage,
		namespace: namespace,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load returns the current record. A missing token yields Unauthenticated
// whatever else is stored.
func (s *Store) Load(ctx context.Context) Record {
	fields, err := s.storage.Read(ctx, s.namespace)
	if err != nil {
		log.Warn().Err(err).Str("namespace", s.namespace).Msg("session storage read failed")
		return Unauthenticated{}
	}
	return decodeRecord(fields)
}

// Token returns the stored bearer token. It never modifies the record.
func (s *Store) Token(ctx context.Context) (string, bool) {
	if rec, ok := s.Load(ctx).(Authenticated); ok {
		return rec.Token, true
	}
	return "", false
}

// SetToken stores token and expiresAt in one write. A zero expiresAt means the
// token does not expire, and any previous expiry is removed in the same write.
func (s *Store) SetToken(ctx context.Context, token string, expiresAt time.Time) {
	if token == "" {
		log.Warn().Str("namespace", s.namespace).Msg("ignoring empty session token")
		return
	}

	set := map[string]string{FieldToken: token}
	var unset []string
	if expiresAt.IsZero() {
		unset = append(unset, FieldExpiresAt)
	} else {
		set[FieldExpiresAt] = encodeExpiry(expiresAt)
	}
	s.write(ctx, set, unset...)
}

// Start replaces the whole record with rec, as done on login or signup.
func (s *Store) Start(ctx context.Context, rec Authenticated) {
	if rec.Token == "" {
		log.Warn().Str("namespace", s.namespace).Msg("ignoring session without token")
		return
	}

	set := map[string]string{FieldToken: rec.Token}
	var unset []string
	if rec.ExpiresAt.IsZero() {
		unset = append(unset, FieldExpiresAt)
	} else {
		set[FieldExpiresAt] = encodeExpiry(rec.ExpiresAt)
	}
	if rec.Stage.Valid() {
		set[FieldStage] = string(rec.Stage)
	} else {
		unset = append(unset, FieldStage)
	}
	s.write(ctx, set, unset...)
}

// IsAuthenticated reports whether a token is stored and has not expired.
// An expired token is cleared as part of the check.
func (s *Store) IsAuthenticated(ctx context.Context) bool {
	rec, ok := s.Load(ctx).(Authenticated)
	if !ok {
		return false
	}
	if rec.Expired(s.now()) {
		log.Debug().Str("namespace", s.namespace).Time("expires_at", rec.ExpiresAt).Msg("session token expired, clearing")
		s.Clear(ctx)
		return false
	}
	return true
}

// RegistrationStage returns the stored stage. ok is false when no stage is
// stored or there is no session.
func (s *Store) RegistrationStage(ctx context.Context) (registration.Stage, bool) {
	rec, ok := s.Load(ctx).(Authenticated)
	if !ok || rec.Stage == "" {
		return "", false
	}
	return rec.Stage, true
}

// SetRegistrationStage stores stage. Unknown stages, and stages for a browser
// context without a token, are rejected and leave the record untouched.
// Ordering is not enforced here.
func (s *Store) SetRegistrationStage(ctx context.Context, stage registration.Stage) bool {
	if !stage.Valid() {
		log.Warn().Str("namespace", s.namespace).Str("stage", string(stage)).Msg("rejecting unknown registration stage")
		return false
	}
	if _, ok := s.Token(ctx); !ok {
		log.Warn().Str("namespace", s.namespace).Str("stage", string(stage)).Msg("rejecting registration stage without session")
		return false
	}
	return s.write(ctx, map[string]string{FieldStage: string(stage)})
}

// Flags derives the dashboard gating flags from the stored stage.
func (s *Store) Flags(ctx context.Context) registration.Flags {
	stage, _ := s.RegistrationStage(ctx)
	return registration.FlagsFor(stage)
}

// Clear removes every field of the record.
func (s *Store) Clear(ctx context.Context) {
	if err := s.storage.Delete(ctx, s.namespace); err != nil {
		log.Warn().Err(err).Str("namespace", s.namespace).Msg("session storage delete failed")
	}
}

func (s *Store) write(ctx context.Context, set map[string]string, unset ...string) bool {
	if err := s.storage.Write(ctx, s.namespace, set, unset...); err != nil {
		log.Warn().Err(err).Str("namespace", s.namespace).Msg("session storage write failed")
		return false
	}
	return true
}
