package postgres

import (
	"context"
	"errors"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/arklim/social-platform-accounts/internal/core/domain"
	"github.com/arklim/social-platform-accounts/internal/core/port"
	"github.com/arklim/social-platform-accounts/internal/repository"
)

const accountsTable = "accounts.users"

var accountColumns = []string{
	"id",
	"nickname",
	"email",
	"first_name",
	"last_name",
	"bio",
	"profile_picture_url",
	"linkedin_profile_url",
	"github_profile_url",
	"hashed_password",
	"role",
	"email_verified",
	"is_locked",
	"failed_login_attempts",
	"is_professional",
	"professional_status_updated_at",
	"verification_token",
	"last_login_at",
	"created_at",
	"updated_at",
}

// AccountRepository implements port.AccountRepository using PostgreSQL.
type AccountRepository struct {
	pool    *pgxpool.Pool
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewAccountRepository constructs a repository backed by any executor that satisfies pgExecutor.
func NewAccountRepository(exec pgExecutor) *AccountRepository {
	repo := &AccountRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
	if pool, ok := exec.(*pgxpool.Pool); ok {
		repo.pool = pool
	}
	return repo
}

// WithTx returns a repository instance operating within the supplied transaction.
func (r *AccountRepository) WithTx(tx pgx.Tx) *AccountRepository {
	if tx == nil {
		return r
	}
	return &AccountRepository{
		pool:    r.pool,
		exec:    tx,
		builder: r.builder,
	}
}

// WithinTx runs fn inside a single transaction. A nil return from fn
// commits; any error rolls back the whole operation.
func (r *AccountRepository) WithinTx(ctx context.Context, fn func(repo port.AccountRepository) error) error {
	if _, ok := r.exec.(pgx.Tx); ok {
		// Already transactional; nested calls join the outer transaction.
		return fn(r)
	}

	if r.pool == nil {
		// Executor without transaction support; run the callback directly.
		return fn(r)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	if err := fn(r.WithTx(tx)); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			return fmt.Errorf("rollback tx: %v (original: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

// Create inserts a new account row.
func (r *AccountRepository) Create(ctx context.Context, account domain.Account) error {
	query := r.builder.Insert(accountsTable).
		Columns(accountColumns...).
		Values(
			account.ID,
			account.Nickname,
			account.Email,
			account.FirstName,
			account.LastName,
			account.Bio,
			account.ProfilePictureURL,
			account.LinkedinProfileURL,
			account.GithubProfileURL,
			account.HashedPassword,
			account.Role,
			account.EmailVerified,
			account.IsLocked,
			account.FailedLoginAttempts,
			account.IsProfessional,
			account.ProfessionalStatusUpdatedAt,
			account.VerificationToken,
			account.LastLoginAt,
			account.CreatedAt,
			account.UpdatedAt,
		)

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("build insert account sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, sql, args...); err != nil {
		return translateConstraint(err, "insert account")
	}

	return nil
}

// GetByID retrieves an account by identifier.
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	return r.getByField(ctx, "id", id)
}

// GetByNickname retrieves an account by nickname.
func (r *AccountRepository) GetByNickname(ctx context.Context, nickname string) (*domain.Account, error) {
	return r.getByField(ctx, "nickname", nickname)
}

// GetByEmail retrieves an account by email.
func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return r.getByField(ctx, "email", email)
}

func (r *AccountRepository) getByField(ctx context.Context, column, value string) (*domain.Account, error) {
	stmt, args, err := r.builder.
		Select(accountColumns...).
		From(accountsTable).
		Where(squirrel.Eq{column: value}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select account sql: %w", err)
	}

	row := r.exec.QueryRow(ctx, stmt, args...)

	account, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan account by %s: %w", column, err)
	}

	return account, nil
}

// Update overwrites the mutable fields of an existing account row.
func (r *AccountRepository) Update(ctx context.Context, account domain.Account) error {
	stmt, args, err := r.builder.Update(accountsTable).
		Set("nickname", account.Nickname).
		Set("email", account.Email).
		Set("first_name", account.FirstName).
		Set("last_name", account.LastName).
		Set("bio", account.Bio).
		Set("profile_picture_url", account.ProfilePictureURL).
		Set("linkedin_profile_url", account.LinkedinProfileURL).
		Set("github_profile_url", account.GithubProfileURL).
		Set("hashed_password", account.HashedPassword).
		Set("role", account.Role).
		Set("email_verified", account.EmailVerified).
		Set("is_locked", account.IsLocked).
		Set("failed_login_attempts", account.FailedLoginAttempts).
		Set("is_professional", account.IsProfessional).
		Set("professional_status_updated_at", account.ProfessionalStatusUpdatedAt).
		Set("verification_token", account.VerificationToken).
		Set("last_login_at", account.LastLoginAt).
		Set("updated_at", account.UpdatedAt).
		Where(squirrel.Eq{"id": account.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update account sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return translateConstraint(err, "update account")
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// Delete removes the account row permanently.
func (r *AccountRepository) Delete(ctx context.Context, id string) error {
	stmt, args, err := r.builder.Delete(accountsTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete account sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// List returns accounts with optional filtering and skip/limit pagination.
func (r *AccountRepository) List(ctx context.Context, filter port.AccountFilter) ([]domain.Account, error) {
	query := r.builder.Select(accountColumns...).
		From(accountsTable).
		OrderBy("created_at DESC")

	if filter.Role != "" {
		query = query.Where(squirrel.Eq{"role": filter.Role})
	}

	if filter.Locked != nil {
		query = query.Where(squirrel.Eq{"is_locked": *filter.Locked})
	}

	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit))
	}

	if filter.Offset > 0 {
		query = query.Offset(uint64(filter.Offset))
	}

	stmt, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list accounts sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query accounts: %w", err)
	}
	defer rows.Close()

	accounts := make([]domain.Account, 0)
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		accounts = append(accounts, *account)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate accounts: %w", err)
	}

	return accounts, nil
}

// Count returns the total number of accounts matching the filter.
func (r *AccountRepository) Count(ctx context.Context, filter port.AccountFilter) (int, error) {
	query := r.builder.Select("COUNT(*)").
		From(accountsTable)

	if filter.Role != "" {
		query = query.Where(squirrel.Eq{"role": filter.Role})
	}

	if filter.Locked != nil {
		query = query.Where(squirrel.Eq{"is_locked": *filter.Locked})
	}

	stmt, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count accounts sql: %w", err)
	}

	row := r.exec.QueryRow(ctx, stmt, args...)

	var count int64
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("scan accounts count: %w", err)
	}

	return int(count), nil
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var account domain.Account
	if err := row.Scan(
		&account.ID,
		&account.Nickname,
		&account.Email,
		&account.FirstName,
		&account.LastName,
		&account.Bio,
		&account.ProfilePictureURL,
		&account.LinkedinProfileURL,
		&account.GithubProfileURL,
		&account.HashedPassword,
		&account.Role,
		&account.EmailVerified,
		&account.IsLocked,
		&account.FailedLoginAttempts,
		&account.IsProfessional,
		&account.ProfessionalStatusUpdatedAt,
		&account.VerificationToken,
		&account.LastLoginAt,
		&account.CreatedAt,
		&account.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &account, nil
}

// translateConstraint maps unique-constraint violations onto repository
// sentinels so concurrent registrations targeting the same email or
// nickname fail cleanly instead of surfacing driver errors.
func translateConstraint(err error, op string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		switch pgErr.ConstraintName {
		case "users_email_key":
			return repository.ErrDuplicateEmail
		case "users_nickname_key":
			return repository.ErrDuplicateNickname
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

var _ port.AccountRepository = (*AccountRepository)(nil)
