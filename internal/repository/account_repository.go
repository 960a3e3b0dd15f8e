package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/wallboard-service/internal/domain"
)

// AccountFilter defines query params for account listing.
type AccountFilter struct {
	Role   *domain.Role
	Status *domain.AccountStatus
	TeamID *int64
}

// AccountPatch carries the fields explicitly present in an update request.
// Nil means "not provided"; TeamID uses a double pointer so callers can set
// the column to NULL.
type AccountPatch struct {
	FullName *string
	Role     *domain.Role
	TeamID   **int64
	Status   *domain.AccountStatus
}

// AccountRepository defines persistence access for directory accounts. All
// reads exclude soft-deleted rows.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	UpdateFields(ctx context.Context, id int64, patch AccountPatch) error
	GetByID(ctx context.Context, id int64) (*domain.Account, error)
	GetByUsername(ctx context.Context, username string) (*domain.Account, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	List(ctx context.Context, filter AccountFilter) ([]domain.Account, error)
	SoftDelete(ctx context.Context, id int64) error
	RecordLogin(ctx context.Context, id int64) error
}

type accountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository returns a Postgres-backed implementation.
func NewAccountRepository(pool *pgxpool.Pool) AccountRepository {
	return &accountRepository{pool: pool}
}

const accountColumns = `
        u.id, u.username, u.full_name, u.role, u.team_id, t.name, u.status,
        u.created_at, u.updated_at, u.last_login_at, u.deleted_at`

func (r *accountRepository) Create(ctx context.Context, account *domain.Account) error {
	const query = `
        INSERT INTO users (username, full_name, role, team_id, status)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		account.Username,
		account.FullName,
		account.Role,
		account.TeamID,
		account.Status,
	).Scan(&account.ID, &account.CreatedAt, &account.UpdatedAt)
}

func (r *accountRepository) UpdateFields(ctx context.Context, id int64, patch AccountPatch) error {
	sets := []string{"updated_at=NOW()"}
	args := []any{}

	if patch.FullName != nil {
		args = append(args, *patch.FullName)
		sets = append(sets, fmt.Sprintf("full_name=$%d", len(args)))
	}
	if patch.Role != nil {
		args = append(args, *patch.Role)
		sets = append(sets, fmt.Sprintf("role=$%d", len(args)))
	}
	if patch.TeamID != nil {
		args = append(args, *patch.TeamID)
		sets = append(sets, fmt.Sprintf("team_id=$%d", len(args)))
	}
	if patch.Status != nil {
		args = append(args, *patch.Status)
		sets = append(sets, fmt.Sprintf("status=$%d", len(args)))
	}

	args = append(args, id)
	query := fmt.Sprintf(`
        UPDATE users SET %s
        WHERE id=$%d AND deleted_at IS NULL`, strings.Join(sets, ", "), len(args))

	cmd, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *accountRepository) GetByID(ctx context.Context, id int64) (*domain.Account, error) {
	query := `
        SELECT ` + accountColumns + `
        FROM users u
        LEFT JOIN teams t ON u.team_id = t.id
        WHERE u.id=$1 AND u.deleted_at IS NULL`

	return r.scanOne(ctx, query, id)
}

func (r *accountRepository) GetByUsername(ctx context.Context, username string) (*domain.Account, error) {
	query := `
        SELECT ` + accountColumns + `
        FROM users u
        LEFT JOIN teams t ON u.team_id = t.id
        WHERE u.username=$1 AND u.deleted_at IS NULL`

	return r.scanOne(ctx, query, username)
}

func (r *accountRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	const query = `
        SELECT EXISTS (SELECT 1 FROM users WHERE username=$1 AND deleted_at IS NULL)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, username).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *accountRepository) List(ctx context.Context, filter AccountFilter) ([]domain.Account, error) {
	query := `
        SELECT ` + accountColumns + `
        FROM users u
        LEFT JOIN teams t ON u.team_id = t.id
        WHERE u.deleted_at IS NULL`
	args := []any{}

	if filter.Role != nil {
		args = append(args, *filter.Role)
		query += fmt.Sprintf(" AND u.role=$%d", len(args))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		query += fmt.Sprintf(" AND u.status=$%d", len(args))
	}
	if filter.TeamID != nil {
		args = append(args, *filter.TeamID)
		query += fmt.Sprintf(" AND u.team_id=$%d", len(args))
	}

	query += " ORDER BY u.created_at DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Account
	for rows.Next() {
		var account domain.Account
		if err := scanAccount(rows, &account); err != nil {
			return nil, err
		}
		result = append(result, account)
	}
	return result, rows.Err()
}

func (r *accountRepository) SoftDelete(ctx context.Context, id int64) error {
	const query = `
        UPDATE users
        SET status=$1, deleted_at=NOW(), updated_at=NOW()
        WHERE id=$2 AND deleted_at IS NULL`

	cmd, err := r.pool.Exec(ctx, query, domain.AccountStatusInactive, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *accountRepository) RecordLogin(ctx context.Context, id int64) error {
	const query = `
        UPDATE users SET last_login_at=NOW() WHERE id=$1 AND deleted_at IS NULL`

	_, err := r.pool.Exec(ctx, query, id)
	return err
}

func (r *accountRepository) scanOne(ctx context.Context, query string, arg any) (*domain.Account, error) {
	var account domain.Account
	if err := scanAccount(r.pool.QueryRow(ctx, query, arg), &account); err != nil {
		return nil, err
	}
	return &account, nil
}

func scanAccount(row pgx.Row, account *domain.Account) error {
	return row.Scan(
		&account.ID,
		&account.Username,
		&account.FullName,
		&account.Role,
		&account.TeamID,
		&account.TeamName,
		&account.Status,
		&account.CreatedAt,
		&account.UpdatedAt,
		&account.LastLoginAt,
		&account.DeletedAt,
	)
}
