package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/arklim/social-platform-accounts/internal/core/domain"
	"github.com/arklim/social-platform-accounts/internal/core/port"
	"github.com/arklim/social-platform-accounts/internal/repository"
)

func TestAccountServiceGetByID(t *testing.T) {
	stored := &domain.Account{ID: "acc-1", Nickname: "Alice42"}
	repo := &mockAccountRepository{getByIDResult: stored}

	svc := NewAccountService(repo, &fakeHasher{}, nil, nil)

	account, err := svc.GetByID(context.Background(), "acc-1")
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}
	if account.Nickname != "Alice42" {
		t.Fatalf("expected Alice42, got %q", account.Nickname)
	}

	repo.getByIDResult = nil
	repo.getByIDErr = repository.ErrNotFound
	if _, err := svc.GetByID(context.Background(), "missing"); !errors.Is(err, ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestAccountServiceUpdatePartial(t *testing.T) {
	stored := &domain.Account{
		ID:        "acc-1",
		Nickname:  "Alice42",
		Email:     "alice@example.com",
		FirstName: strPtr("Alice"),
	}
	repo := &mockAccountRepository{getByIDResult: stored}

	svc := NewAccountService(repo, &fakeHasher{}, nil, nil)
	fixedNow := time.Date(2025, 6, 5, 16, 0, 0, 0, time.UTC)
	svc.WithClock(func() time.Time { return fixedNow })

	updated, err := svc.Update(context.Background(), "acc-1", AccountUpdate{
		Bio: strPtr("Gopher at large"),
	})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	if updated.Bio == nil || *updated.Bio != "Gopher at large" {
		t.Fatal("expected bio to be applied")
	}
	if updated.Nickname != "Alice42" || updated.Email != "alice@example.com" {
		t.Fatal("expected untouched fields to survive")
	}
	if updated.FirstName == nil || *updated.FirstName != "Alice" {
		t.Fatal("expected first name to survive")
	}
	if !updated.UpdatedAt.Equal(fixedNow) {
		t.Fatalf("expected updated_at %v, got %v", fixedNow, updated.UpdatedAt)
	}

	if repo.withinTxCalls != 1 {
		t.Fatalf("expected update inside one transaction, got %d", repo.withinTxCalls)
	}
}

func TestAccountServiceUpdateRehashesPassword(t *testing.T) {
	stored := &domain.Account{ID: "acc-1", HashedPassword: "hashed:OldPass!123"}
	repo := &mockAccountRepository{getByIDResult: stored}
	hasher := &fakeHasher{}

	svc := NewAccountService(repo, hasher, nil, nil)

	updated, err := svc.Update(context.Background(), "acc-1", AccountUpdate{
		Password: strPtr(strongTestPassword),
	})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	if hasher.hashCalls != 1 {
		t.Fatalf("expected password to be re-hashed once, got %d", hasher.hashCalls)
	}
	if updated.HashedPassword != "hashed:"+strongTestPassword {
		t.Fatalf("expected new hash, got %q", updated.HashedPassword)
	}
}

func TestAccountServiceUpdateNormalizesEmail(t *testing.T) {
	stored := &domain.Account{
		ID:             "acc-1",
		Email:          "henry@example.com",
		HashedPassword: "hashed:" + strongTestPassword,
		EmailVerified:  true,
		Role:           domain.RoleAuthenticated,
	}
	repo := &mockAccountRepository{getByIDResult: stored}

	svc := NewAccountService(repo, &fakeHasher{}, nil, nil)

	updated, err := svc.Update(context.Background(), "acc-1", AccountUpdate{
		Email: strPtr("  Henry@Example.COM "),
	})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	if updated.Email != "henry@example.com" {
		t.Fatalf("expected lowercased email, got %q", updated.Email)
	}
	if repo.updatedAccount.Email != "henry@example.com" {
		t.Fatalf("expected lowercased email persisted, got %q", repo.updatedAccount.Email)
	}

	// The stored key must match what login looks up.
	repo.getByEmailResult = &repo.updatedAccount
	auth := NewAuthService(repo, &fakeHasher{}, nil, 5, nil)
	if _, err := auth.LoginUser(context.Background(), "Henry@Example.COM", strongTestPassword); err != nil {
		t.Fatalf("login after email update failed: %v", err)
	}
	if repo.getByEmailLastEmail != "henry@example.com" {
		t.Fatalf("login queried %q", repo.getByEmailLastEmail)
	}
}

func TestAccountServiceUpdateValidation(t *testing.T) {
	repo := &mockAccountRepository{}
	svc := NewAccountService(repo, &fakeHasher{}, nil, nil)

	cases := []struct {
		name   string
		update AccountUpdate
		want   error
	}{
		{"empty update", AccountUpdate{}, ErrInvalidInput},
		{"bad nickname", AccountUpdate{Nickname: strPtr("x")}, ErrInvalidInput},
		{"bad email", AccountUpdate{Email: strPtr("nope")}, ErrInvalidInput},
		{"weak password", AccountUpdate{Password: strPtr("weak")}, ErrPasswordPolicyViolation},
		{"bad url", AccountUpdate{GithubProfileURL: strPtr("ftp://example.com")}, ErrInvalidInput},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Update(context.Background(), "acc-1", tc.update); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}

	if repo.withinTxCalls != 0 {
		t.Fatal("expected validation failures before any repository access")
	}
}

func TestAccountServiceUpdateUnknownAccount(t *testing.T) {
	repo := &mockAccountRepository{getByIDErr: repository.ErrNotFound}
	svc := NewAccountService(repo, &fakeHasher{}, nil, nil)

	_, err := svc.Update(context.Background(), "missing", AccountUpdate{Bio: strPtr("bio")})
	if !errors.Is(err, ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestAccountServiceDelete(t *testing.T) {
	repo := &mockAccountRepository{}
	svc := NewAccountService(repo, &fakeHasher{}, nil, nil)

	deleted, err := svc.Delete(context.Background(), "acc-1")
	if err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if !deleted {
		t.Fatal("expected delete to report true")
	}
	if repo.deleteLastID != "acc-1" {
		t.Fatalf("expected delete for acc-1, got %q", repo.deleteLastID)
	}
}

func TestAccountServiceDeleteUnknownAccount(t *testing.T) {
	repo := &mockAccountRepository{deleteErr: repository.ErrNotFound}
	svc := NewAccountService(repo, &fakeHasher{}, nil, nil)

	deleted, err := svc.Delete(context.Background(), "missing")
	if err != nil {
		t.Fatalf("expected missing account to be reported without error, got %v", err)
	}
	if deleted {
		t.Fatal("expected delete to report false for unknown account")
	}
}

func TestAccountServiceListDefaults(t *testing.T) {
	repo := &mockAccountRepository{listResult: []domain.Account{{ID: "a"}, {ID: "b"}}}
	svc := NewAccountService(repo, &fakeHasher{}, nil, nil)

	accounts, err := svc.ListAccounts(context.Background(), 0, 0)
	if err != nil {
		t.Fatalf("ListAccounts returned error: %v", err)
	}

	if len(accounts) != 2 {
		t.Fatalf("expected 2 accounts, got %d", len(accounts))
	}
	if repo.listLastFilter.Limit != 10 {
		t.Fatalf("expected default limit 10, got %d", repo.listLastFilter.Limit)
	}

	if _, err := svc.ListAccounts(context.Background(), -1, 10); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for negative skip, got %v", err)
	}
}

func TestAccountServiceListPassesPagination(t *testing.T) {
	repo := &mockAccountRepository{}
	svc := NewAccountService(repo, &fakeHasher{}, nil, nil)

	if _, err := svc.ListAccounts(context.Background(), 20, 5); err != nil {
		t.Fatalf("ListAccounts returned error: %v", err)
	}

	want := port.AccountFilter{Offset: 20, Limit: 5}
	if repo.listLastFilter != want {
		t.Fatalf("expected filter %+v, got %+v", want, repo.listLastFilter)
	}
}

func TestAccountServiceCount(t *testing.T) {
	repo := &mockAccountRepository{countResult: 42}
	svc := NewAccountService(repo, &fakeHasher{}, nil, nil)

	count, err := svc.CountAccounts(context.Background())
	if err != nil {
		t.Fatalf("CountAccounts returned error: %v", err)
	}
	if count != 42 {
		t.Fatalf("expected 42, got %d", count)
	}
}

func TestAccountServiceLockUnlock(t *testing.T) {
	stored := &domain.Account{ID: "acc-1"}
	repo := &mockAccountRepository{getByIDResult: stored}
	svc := NewAccountService(repo, &fakeHasher{}, nil, nil)

	if err := svc.Lock(context.Background(), "acc-1"); err != nil {
		t.Fatalf("Lock returned error: %v", err)
	}
	if !repo.updatedAccount.IsLocked {
		t.Fatal("expected persisted row to be locked")
	}

	if err := svc.Unlock(context.Background(), "acc-1"); err != nil {
		t.Fatalf("Unlock returned error: %v", err)
	}
	if repo.updatedAccount.IsLocked {
		t.Fatal("expected persisted row to be unlocked")
	}
}

func TestAccountServiceUpdateRole(t *testing.T) {
	stored := &domain.Account{ID: "acc-1", Role: domain.RoleAuthenticated}
	repo := &mockAccountRepository{getByIDResult: stored}
	svc := NewAccountService(repo, &fakeHasher{}, nil, nil)

	if err := svc.UpdateRole(context.Background(), "acc-1", domain.RoleManager); err != nil {
		t.Fatalf("UpdateRole returned error: %v", err)
	}
	if repo.updatedAccount.Role != domain.RoleManager {
		t.Fatalf("expected MANAGER, got %s", repo.updatedAccount.Role)
	}

	if err := svc.UpdateRole(context.Background(), "acc-1", "SUPERUSER"); !errors.Is(err, domain.ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
}

func TestAccountServiceUpdateProfessionalStatus(t *testing.T) {
	stored := &domain.Account{ID: "acc-1"}
	repo := &mockAccountRepository{getByIDResult: stored}

	svc := NewAccountService(repo, &fakeHasher{}, nil, nil)
	fixedNow := time.Date(2025, 6, 6, 11, 0, 0, 0, time.UTC)
	svc.WithClock(func() time.Time { return fixedNow })

	if err := svc.UpdateProfessionalStatus(context.Background(), "acc-1", true); err != nil {
		t.Fatalf("UpdateProfessionalStatus returned error: %v", err)
	}

	if !repo.updatedAccount.IsProfessional {
		t.Fatal("expected professional flag to be set")
	}
	if repo.updatedAccount.ProfessionalStatusUpdatedAt == nil ||
		!repo.updatedAccount.ProfessionalStatusUpdatedAt.Equal(fixedNow) {
		t.Fatalf("expected status timestamp %v, got %v", fixedNow, repo.updatedAccount.ProfessionalStatusUpdatedAt)
	}
	if !repo.updatedAccount.UpdatedAt.Equal(fixedNow) {
		t.Fatal("expected updated_at to match the status change time")
	}
}

func TestValidateEmailLength(t *testing.T) {
	long := make([]byte, 250)
	for i := range long {
		long[i] = 'a'
	}
	email := string(long) + "@example.com"

	if err := ValidateEmail(email); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for oversized email, got %v", err)
	}
	if err := ValidateEmail("ok@example.com"); err != nil {
		t.Fatalf("expected valid email to pass, got %v", err)
	}
}
