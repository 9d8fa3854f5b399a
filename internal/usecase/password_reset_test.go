package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/arklim/social-platform-accounts/internal/core/domain"
	"github.com/arklim/social-platform-accounts/internal/repository"
)

func TestResetPasswordSuccess(t *testing.T) {
	stored := &domain.Account{
		ID:                  "acc-1",
		HashedPassword:      "hashed:OldPass!123",
		FailedLoginAttempts: 5,
		IsLocked:            true,
	}
	repo := &mockAccountRepository{getByIDResult: stored}
	events := &mockEventPublisher{}

	svc := NewPasswordResetService(repo, &fakeHasher{}, nil, events, nil)
	fixedNow := time.Date(2025, 6, 4, 14, 0, 0, 0, time.UTC)
	svc.WithClock(func() time.Time { return fixedNow })

	if err := svc.ResetPassword(context.Background(), "acc-1", strongTestPassword); err != nil {
		t.Fatalf("ResetPassword returned error: %v", err)
	}

	if repo.updateCalls != 1 {
		t.Fatalf("expected one Update, got %d", repo.updateCalls)
	}
	if repo.updatedAccount.HashedPassword != "hashed:"+strongTestPassword {
		t.Fatalf("expected new hash to be stored, got %q", repo.updatedAccount.HashedPassword)
	}
	if repo.updatedAccount.FailedLoginAttempts != 0 {
		t.Fatalf("expected failed attempts cleared, got %d", repo.updatedAccount.FailedLoginAttempts)
	}
	if repo.updatedAccount.IsLocked {
		t.Fatal("expected account to be unlocked after reset")
	}
	if !repo.updatedAccount.UpdatedAt.Equal(fixedNow) {
		t.Fatalf("expected updated_at %v, got %v", fixedNow, repo.updatedAccount.UpdatedAt)
	}

	if events.resetCalls != 1 {
		t.Fatalf("expected one reset event, got %d", events.resetCalls)
	}
	if events.resetEvent.AccountID != "acc-1" {
		t.Fatalf("expected reset event for acc-1, got %s", events.resetEvent.AccountID)
	}
	if !events.resetEvent.ResetAt.Equal(fixedNow) {
		t.Fatalf("expected reset timestamp %v, got %v", fixedNow, events.resetEvent.ResetAt)
	}
}

func TestResetPasswordUnknownAccount(t *testing.T) {
	repo := &mockAccountRepository{getByIDErr: repository.ErrNotFound}
	events := &mockEventPublisher{}

	svc := NewPasswordResetService(repo, &fakeHasher{}, nil, events, nil)

	err := svc.ResetPassword(context.Background(), "missing", strongTestPassword)
	if !errors.Is(err, ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}

	if events.resetCalls != 0 {
		t.Fatalf("expected no event for unknown account, got %d", events.resetCalls)
	}
}

func TestResetPasswordPolicyViolation(t *testing.T) {
	repo := &mockAccountRepository{}

	svc := NewPasswordResetService(repo, &fakeHasher{}, nil, nil, nil)

	err := svc.ResetPassword(context.Background(), "acc-1", "weak")
	if !errors.Is(err, ErrPasswordPolicyViolation) {
		t.Fatalf("expected ErrPasswordPolicyViolation, got %v", err)
	}

	if repo.withinTxCalls != 0 {
		t.Fatal("expected validation before any repository access")
	}
}

func TestResetPasswordEmptyPassword(t *testing.T) {
	svc := NewPasswordResetService(&mockAccountRepository{}, &fakeHasher{}, nil, nil, nil)

	err := svc.ResetPassword(context.Background(), "acc-1", "   ")
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
