package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/user-mgmt/apiserver/internal/auth"
	"github.com/user-mgmt/apiserver/types"
)

// uniqueViolation is the Postgres error code for unique constraint failures.
const uniqueViolation = "23505"

// UserRepository handles persistence for accounts and their role
// assignments. Every mutating operation runs in a single transaction.
type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create persists a new account with its role assignments. A non-empty
// plaintext password is hashed before insert. A duplicate username is
// reported as types.ErrUserExists; the unique constraint is the sole
// arbiter under concurrent creates.
func (r *UserRepository) Create(ctx context.Context, in types.UserCreate) (types.Account, error) {
	passwordHash := ""
	if in.Password != "" {
		var err error
		passwordHash, err = auth.HashPassword(in.Password)
		if err != nil {
			return types.Account{}, fmt.Errorf("hash password: %w", err)
		}
	}

	status := in.Status
	if status == "" {
		status = types.StatusPending
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return types.Account{}, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	account := types.Account{
		Fullname:     in.Fullname,
		Username:     in.Username,
		PasswordHash: passwordHash,
		Status:       status,
		CreatedAt:    time.Now(),
		Roles:        []types.Role{},
	}

	const insertAccount = `
		INSERT INTO user_account (fullname, username, password, created_at, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	err = tx.QueryRowContext(
		ctx,
		insertAccount,
		account.Fullname,
		account.Username,
		account.PasswordHash,
		account.CreatedAt,
		account.Status,
	).Scan(&account.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return types.Account{}, types.ErrUserExists
		}
		return types.Account{}, err
	}

	for _, name := range in.Roles {
		role, err := ensureRole(ctx, tx, name)
		if err != nil {
			return types.Account{}, err
		}

		const insertAssignment = `
			INSERT INTO user_role (user_id, role_id)
			VALUES ($1, $2)`
		if _, err := tx.ExecContext(ctx, insertAssignment, account.ID, role.ID); err != nil {
			return types.Account{}, err
		}
		account.Roles = append(account.Roles, role)
	}

	if err := tx.Commit(); err != nil {
		return types.Account{}, err
	}
	return account, nil
}

// ensureRole resolves a role name to its row, creating it if absent. Role
// rows are static reference data; the upsert keeps concurrent creates safe.
func ensureRole(ctx context.Context, tx *sql.Tx, name types.RoleName) (types.Role, error) {
	const query = `
		INSERT INTO role (name)
		VALUES ($1)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id`
	role := types.Role{Name: name}
	if err := tx.QueryRowContext(ctx, query, name).Scan(&role.ID); err != nil {
		return types.Role{}, err
	}
	return role, nil
}

// GetByUsername returns the account with its materialized role set, or
// types.ErrNotFound.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (types.Account, error) {
	const query = `
		SELECT id, fullname, username, password, created_at, status
		FROM user_account
		WHERE username = $1`
	var account types.Account
	err := r.db.QueryRowContext(ctx, query, username).Scan(
		&account.ID,
		&account.Fullname,
		&account.Username,
		&account.PasswordHash,
		&account.CreatedAt,
		&account.Status,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Account{}, types.ErrNotFound
		}
		return types.Account{}, err
	}

	roles, err := r.rolesForAccounts(ctx, []int{account.ID})
	if err != nil {
		return types.Account{}, err
	}
	account.Roles = roles[account.ID]
	if account.Roles == nil {
		account.Roles = []types.Role{}
	}
	return account, nil
}

// GetMulti returns accounts ordered by primary key ascending, with their
// role sets attached.
func (r *UserRepository) GetMulti(ctx context.Context, skip, limit int) ([]types.Account, error) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		return []types.Account{}, nil
	}

	const query = `
		SELECT id, fullname, username, password, created_at, status
		FROM user_account
		ORDER BY id ASC
		OFFSET $1 LIMIT $2`
	rows, err := r.db.QueryContext(ctx, query, skip, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	accounts := []types.Account{}
	ids := []int{}
	for rows.Next() {
		var account types.Account
		if err := rows.Scan(
			&account.ID,
			&account.Fullname,
			&account.Username,
			&account.PasswordHash,
			&account.CreatedAt,
			&account.Status,
		); err != nil {
			return nil, err
		}
		account.Roles = []types.Role{}
		accounts = append(accounts, account)
		ids = append(ids, account.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(accounts) == 0 {
		return accounts, nil
	}

	roles, err := r.rolesForAccounts(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range accounts {
		if assigned, ok := roles[accounts[i].ID]; ok {
			accounts[i].Roles = assigned
		}
	}
	return accounts, nil
}

// rolesForAccounts loads the role sets for a batch of account ids in one
// query, keyed by account id.
func (r *UserRepository) rolesForAccounts(ctx context.Context, ids []int) (map[int][]types.Role, error) {
	const query = `
		SELECT ur.user_id, ro.id, ro.name
		FROM user_role ur
		JOIN role ro ON ro.id = ur.role_id
		WHERE ur.user_id = ANY($1)
		ORDER BY ur.user_id, ro.id`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[int][]types.Role, len(ids))
	for rows.Next() {
		var userID int
		var role types.Role
		if err := rows.Scan(&userID, &role.ID, &role.Name); err != nil {
			return nil, err
		}
		result[userID] = append(result[userID], role)
	}
	return result, rows.Err()
}

// RemoveByUsername deletes the account and its role assignments, returning
// the removed account or types.ErrNotFound. Used by cleanup and admin
// flows only; normal flows never hard-delete.
func (r *UserRepository) RemoveByUsername(ctx context.Context, username string) (types.Account, error) {
	account, err := r.GetByUsername(ctx, username)
	if err != nil {
		return types.Account{}, err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return types.Account{}, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM user_role WHERE user_id = $1`, account.ID); err != nil {
		return types.Account{}, err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM user_account WHERE id = $1`, account.ID); err != nil {
		return types.Account{}, err
	}

	if err := tx.Commit(); err != nil {
		return types.Account{}, err
	}
	return account, nil
}

// UpdatePassword persists a new password hash for the account.
func (r *UserRepository) UpdatePassword(ctx context.Context, accountID int, passwordHash string) error {
	const query = `UPDATE user_account SET password = $1 WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, passwordHash, accountID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return types.ErrNotFound
	}
	return nil
}
