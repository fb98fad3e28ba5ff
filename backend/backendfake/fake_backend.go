package backendfake

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/jrsteele09/podsave-web/backend"
	apperrors "github.com/jrsteele09/podsave-web/internal/errors"
	"github.com/jrsteele09/podsave-web/registration"
)

// EmailCode is the only code VerifyEmail accepts.
const EmailCode = "123456"

type member struct {
	backend.Member
	password string
	profile  backend.Profile
	idNumber string
	bank     string
	pods     []backend.Pod
}

// FakeBackend is an in-memory stand-in for the remote API.
type FakeBackend struct {
	mu        sync.Mutex
	members   map[string]*member // email -> member
	tokens    map[string]string  // token -> email
	next      int
	resends   int
	expiresAt time.Time
	err       error
}

func NewFakeBackend() *FakeBackend {
	return &FakeBackend{
		members: make(map[string]*member),
		tokens:  make(map[string]string),
	}
}

// AddMember registers a member that can log in. An empty stage leaves the
// backend's registration_stage unset.
func (f *FakeBackend) AddMember(email, password string, stage registration.Stage) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.next++
	f.members[email] = &member{
		Member: backend.Member{
			ID:                fmt.Sprintf("mem_%d", f.next),
			Email:             email,
			RegistrationStage: string(stage),
		},
		password: password,
	}
}

// SetExpiry sets the expiry handed out with every grant. Zero means none.
func (f *FakeBackend) SetExpiry(t time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.expiresAt = t
}

// SetErr makes every call fail with err until it is reset with nil.
func (f *FakeBackend) SetErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

// AddPod gives the member a pod.
func (f *FakeBackend) AddPod(email string, pod backend.Pod) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if m, ok := f.members[email]; ok {
		m.pods = append(m.pods, pod)
	}
}

// Revoke invalidates every token issued for email.
func (f *FakeBackend) Revoke(email string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for tok, e := range f.tokens {
		if e == email {
			delete(f.tokens, tok)
		}
	}
}

// ActiveTokens counts the tokens currently accepted.
func (f *FakeBackend) ActiveTokens() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.tokens)
}

// Resends reports how many verification emails were requested.
func (f *FakeBackend) Resends() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.resends
}

// Profile returns what the member submitted at registration.
func (f *FakeBackend) Profile(email string) backend.Profile {
	f.mu.Lock()
	defer f.mu.Unlock()
	if m, ok := f.members[email]; ok {
		return m.profile
	}
	return backend.Profile{}
}

// Submitted returns the ID number and bank account token the member sent.
func (f *FakeBackend) Submitted(email string) (idNumber, bankAccount string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if m, ok := f.members[email]; ok {
		return m.idNumber, m.bank
	}
	return "", ""
}

func (f *FakeBackend) issue(email string) *backend.TokenGrant {
	f.next++
	tok := fmt.Sprintf("tok_%d", f.next)
	f.tokens[tok] = email
	grant := &backend.TokenGrant{Token: tok, ExpiresAt: f.expiresAt}
	if st, ok := registration.ParseStage(f.members[email].RegistrationStage); ok {
		grant.Stage = st
	}
	return grant
}

// authorise must be called with f.mu held.
func (f *FakeBackend) authorise(op, token string) (*member, error) {
	if f.err != nil {
		return nil, fmt.Errorf("[backendfake %s] %w", op, f.err)
	}
	email, ok := f.tokens[token]
	if !ok {
		return nil, fmt.Errorf("[backendfake %s] %w", op, apperrors.ErrUnauthorized)
	}
	return f.members[email], nil
}

func (f *FakeBackend) Login(_ context.Context, creds backend.Credentials) (*backend.TokenGrant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, fmt.Errorf("[backendfake Login] %w", f.err)
	}
	m, ok := f.members[creds.Email]
	if !ok || m.password != creds.Password {
		return nil, fmt.Errorf("[backendfake Login] %w", apperrors.ErrInvalidCredentials)
	}
	return f.issue(creds.Email), nil
}

func (f *FakeBackend) Signup(_ context.Context, req backend.SignupRequest) (*backend.TokenGrant, error) {
	f.mu.Lock()
	if f.err != nil {
		f.mu.Unlock()
		return nil, fmt.Errorf("[backendfake Signup] %w", f.err)
	}
	if _, exists := f.members[req.Email]; exists {
		f.mu.Unlock()
		return nil, fmt.Errorf("[backendfake Signup] %w", backend.NewAPIError(http.StatusConflict, "email_taken", "An account with this email already exists"))
	}
	f.mu.Unlock()

	f.AddMember(req.Email, req.Password, "")

	f.mu.Lock()
	defer f.mu.Unlock()
	f.members[req.Email].FirstName = req.FirstName
	f.members[req.Email].LastName = req.LastName
	return f.issue(req.Email), nil
}

func (f *FakeBackend) Refresh(_ context.Context, token string) (*backend.TokenGrant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, err := f.authorise("Refresh", token)
	if err != nil {
		return nil, err
	}
	delete(f.tokens, token)
	grant := f.issue(m.Email)
	grant.Stage = ""
	return grant, nil
}

func (f *FakeBackend) Logout(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, err := f.authorise("Logout", token); err != nil {
		return err
	}
	delete(f.tokens, token)
	return nil
}

func (f *FakeBackend) Me(_ context.Context, token string) (*backend.Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, err := f.authorise("Me", token)
	if err != nil {
		return nil, err
	}
	copied := m.Member
	return &copied, nil
}

func (f *FakeBackend) UpdateProfile(_ context.Context, token string, p backend.Profile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, err := f.authorise("UpdateProfile", token)
	if err != nil {
		return err
	}
	m.profile = p
	m.FirstName = p.FirstName
	m.LastName = p.LastName
	m.RegistrationStage = string(registration.StageRegistered)
	return nil
}

func (f *FakeBackend) ConfirmIdentityVerification(_ context.Context, token, verificationID string) (*backend.Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, err := f.authorise("ConfirmIdentityVerification", token)
	if err != nil {
		return nil, err
	}
	if verificationID == "" {
		return nil, fmt.Errorf("[backendfake ConfirmIdentityVerification] %w", apperrors.ErrInvalidRequest)
	}
	m.IdentityVerification = registration.VerificationVerified
	m.RegistrationStage = string(registration.StageKYCDocumentComplete)
	copied := m.Member
	return &copied, nil
}

func (f *FakeBackend) SubmitIDNumber(_ context.Context, token, idNumber string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, err := f.authorise("SubmitIDNumber", token)
	if err != nil {
		return err
	}
	m.idNumber = idNumber
	m.RegistrationStage = string(registration.StageKYCIDNumberComplete)
	return nil
}

func (f *FakeBackend) VerifyEmail(_ context.Context, token, code string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, err := f.authorise("VerifyEmail", token)
	if err != nil {
		return err
	}
	if code != EmailCode {
		return fmt.Errorf("[backendfake VerifyEmail] %w", backend.NewAPIError(http.StatusUnprocessableEntity, "invalid_code", "That code is not valid"))
	}
	m.EmailVerified = true
	m.RegistrationStage = string(registration.StageEmailVerified)
	return nil
}

func (f *FakeBackend) ResendEmailVerification(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, err := f.authorise("ResendEmailVerification", token); err != nil {
		return err
	}
	f.resends++
	return nil
}

func (f *FakeBackend) ConnectBank(_ context.Context, token, accountToken string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, err := f.authorise("ConnectBank", token)
	if err != nil {
		return err
	}
	m.bank = accountToken
	m.RegistrationStage = string(registration.StageBankConnected)
	return nil
}

func (f *FakeBackend) Pods(_ context.Context, token string) ([]backend.Pod, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, err := f.authorise("Pods", token)
	if err != nil {
		return nil, err
	}
	out := make([]backend.Pod, len(m.pods))
	copy(out, m.pods)
	return out, nil
}
