package verifierfake

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jrsteele09/podsave-web/identity"
	"github.com/jrsteele09/podsave-web/registration"
)

var _ identity.Verifier = (*FakeVerifier)(nil)

// FakeVerifier keeps verifications in memory. Tests move them along with SetStatus.
type FakeVerifier struct {
	mu            sync.Mutex
	verifications map[string]*identity.Verification
	next          int
	err           error
}

func NewFakeVerifier() *FakeVerifier {
	return &FakeVerifier{
		verifications: make(map[string]*identity.Verification),
	}
}

func (f *FakeVerifier) Start(_ context.Context, memberRef, returnURL string) (*identity.Verification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}
	f.next++
	id := fmt.Sprintf("vs_fake_%d", f.next)
	v := &identity.Verification{
		ID:        id,
		URL:       "https://verify.example.com/" + id + "?return=" + returnURL,
		Status:    registration.VerificationRequiresInput,
		MemberRef: memberRef,
	}
	f.verifications[id] = v
	copied := *v
	return &copied, nil
}

func (f *FakeVerifier) Status(_ context.Context, id string) (*identity.Verification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}
	v, ok := f.verifications[id]
	if !ok {
		return nil, errors.New("not found")
	}
	copied := *v
	return &copied, nil
}

// SetErr makes every call fail with err until it is reset with nil.
func (f *FakeVerifier) SetErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

// SetStatus changes the status of a started verification.
func (f *FakeVerifier) SetStatus(id, status string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if v, ok := f.verifications[id]; ok {
		v.Status = status
	}
}

// MemberRef returns the member a verification was started for.
func (f *FakeVerifier) MemberRef(id string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if v, ok := f.verifications[id]; ok {
		return v.MemberRef
	}
	return ""
}
