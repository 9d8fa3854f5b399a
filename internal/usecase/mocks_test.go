package usecase

import (
	"context"

	"github.com/arklim/social-platform-accounts/internal/core/domain"
	"github.com/arklim/social-platform-accounts/internal/core/port"
)

const strongTestPassword = "Sup3r!SecurePass7890"

type mockAccountRepository struct {
	createErr      error
	createCalls    int
	createdAccount domain.Account

	getByIDResult *domain.Account
	getByIDErr    error
	getByIDCalls  int
	getByIDLastID string

	getByEmailResult    *domain.Account
	getByEmailErr       error
	getByEmailCalls     int
	getByEmailLastEmail string

	getByNicknameResult *domain.Account
	getByNicknameErr    error
	getByNicknameCalls  int
	getByNicknameLast   string

	updateErr      error
	updateCalls    int
	updatedAccount domain.Account

	deleteErr    error
	deleteCalls  int
	deleteLastID string

	listResult     []domain.Account
	listErr        error
	listCalls      int
	listLastFilter port.AccountFilter

	countResult int
	countErr    error
	countCalls  int

	withinTxErr   error
	withinTxCalls int
}

func (m *mockAccountRepository) Create(_ context.Context, account domain.Account) error {
	m.createCalls++
	m.createdAccount = account
	return m.createErr
}

func (m *mockAccountRepository) GetByID(_ context.Context, id string) (*domain.Account, error) {
	m.getByIDCalls++
	m.getByIDLastID = id
	if m.getByIDResult != nil {
		copy := *m.getByIDResult
		return &copy, m.getByIDErr
	}
	return nil, m.getByIDErr
}

func (m *mockAccountRepository) GetByNickname(_ context.Context, nickname string) (*domain.Account, error) {
	m.getByNicknameCalls++
	m.getByNicknameLast = nickname
	if m.getByNicknameResult != nil {
		copy := *m.getByNicknameResult
		return &copy, m.getByNicknameErr
	}
	return nil, m.getByNicknameErr
}

func (m *mockAccountRepository) GetByEmail(_ context.Context, email string) (*domain.Account, error) {
	m.getByEmailCalls++
	m.getByEmailLastEmail = email
	if m.getByEmailResult != nil {
		copy := *m.getByEmailResult
		return &copy, m.getByEmailErr
	}
	return nil, m.getByEmailErr
}

func (m *mockAccountRepository) Update(_ context.Context, account domain.Account) error {
	m.updateCalls++
	m.updatedAccount = account
	return m.updateErr
}

func (m *mockAccountRepository) Delete(_ context.Context, id string) error {
	m.deleteCalls++
	m.deleteLastID = id
	return m.deleteErr
}

func (m *mockAccountRepository) List(_ context.Context, filter port.AccountFilter) ([]domain.Account, error) {
	m.listCalls++
	m.listLastFilter = filter
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]domain.Account, len(m.listResult))
	copy(out, m.listResult)
	return out, nil
}

func (m *mockAccountRepository) Count(_ context.Context, filter port.AccountFilter) (int, error) {
	m.countCalls++
	return m.countResult, m.countErr
}

func (m *mockAccountRepository) WithinTx(_ context.Context, fn func(repo port.AccountRepository) error) error {
	m.withinTxCalls++
	if m.withinTxErr != nil {
		return m.withinTxErr
	}
	return fn(m)
}

var _ port.AccountRepository = (*mockAccountRepository)(nil)

// fakeHasher produces deterministic hashes so tests can assert on the
// exact stored value without running Argon2.
type fakeHasher struct {
	hashErr   error
	hashCalls int
}

func (f *fakeHasher) Hash(password string) (string, error) {
	f.hashCalls++
	if f.hashErr != nil {
		return "", f.hashErr
	}
	return "hashed:" + password, nil
}

func (f *fakeHasher) Verify(password, encoded string) (bool, error) {
	return encoded == "hashed:"+password, nil
}

type stubNicknameGenerator struct {
	candidates []string
	calls      int
}

func (s *stubNicknameGenerator) Generate() string {
	idx := s.calls
	if idx >= len(s.candidates) {
		idx = len(s.candidates) - 1
	}
	s.calls++
	return s.candidates[idx]
}

type mockEmailSender struct {
	calls       int
	lastAccount domain.Account
	lastToken   string
	err         error
}

func (m *mockEmailSender) SendVerificationEmail(_ context.Context, account domain.Account, token string) error {
	m.calls++
	m.lastAccount = account
	m.lastToken = token
	return m.err
}

type mockEventPublisher struct {
	registeredCalls int
	registeredEvent domain.AccountRegisteredEvent
	registeredErr   error

	lockedCalls int
	lockedEvent domain.AccountLockedEvent

	resetCalls int
	resetEvent domain.PasswordResetEvent

	verifiedCalls int
	verifiedEvent domain.EmailVerifiedEvent
}

func (m *mockEventPublisher) PublishAccountRegistered(_ context.Context, event domain.AccountRegisteredEvent) error {
	m.registeredCalls++
	m.registeredEvent = event
	return m.registeredErr
}

func (m *mockEventPublisher) PublishAccountLocked(_ context.Context, event domain.AccountLockedEvent) error {
	m.lockedCalls++
	m.lockedEvent = event
	return nil
}

func (m *mockEventPublisher) PublishPasswordReset(_ context.Context, event domain.PasswordResetEvent) error {
	m.resetCalls++
	m.resetEvent = event
	return nil
}

func (m *mockEventPublisher) PublishEmailVerified(_ context.Context, event domain.EmailVerifiedEvent) error {
	m.verifiedCalls++
	m.verifiedEvent = event
	return nil
}

var _ port.EventPublisher = (*mockEventPublisher)(nil)

func strPtr(s string) *string {
	return &s
}
