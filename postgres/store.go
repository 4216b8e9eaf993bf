package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/enterprise-platform/authcore"
	"github.com/enterprise-platform/authcore/postgres/migrations"
)

const uniqueViolation = "23505"

const userColumns = `id, username, email, name, password_hash, role, is_active,
	mfa_secret, mfa_enabled, last_login, created_at, updated_at`

// Store is the PostgreSQL-backed authcore.UserStore.
type Store struct {
	db *sql.DB
}

// Open connects to PostgreSQL with the pgx stdlib driver and verifies the
// connection. Migrations are not applied here; call [Store.RunMigrations].
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}
	return &Store{db: db}, nil
}

// NewStore wraps an existing connection pool, for callers that manage the
// pool themselves.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// RunMigrations applies the embedded goose migrations.
func (s *Store) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return goose.UpContext(ctx, s.db, ".")
}

// Close releases the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// GetByID returns the record for the given id, or authcore.ErrUserNotFound.
func (s *Store) GetByID(ctx context.Context, id string) (*authcore.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(s.db.QueryRowContext(ctx, query, id))
}

// GetByIdentifier matches either username or email, case-insensitively.
func (s *Store) GetByIdentifier(ctx context.Context, identifier string) (*authcore.User, error) {
	query := `SELECT ` + userColumns + ` FROM users
		WHERE lower(username) = lower($1) OR lower(email) = lower($1)`
	return scanUser(s.db.QueryRowContext(ctx, query, identifier))
}

// Create inserts a new record. Username or email conflicts surface as
// authcore.ErrDuplicateIdentity.
func (s *Store) Create(ctx context.Context, u *authcore.User) error {
	query := `INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := s.db.ExecContext(ctx, query,
		u.ID, u.Username, u.Email, u.Name, u.PasswordHash, string(u.Role),
		u.IsActive, u.MFASecret, u.MFAEnabled, u.LastLogin, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		return mapError(err)
	}
	return nil
}

// Update overwrites the mutable columns of an existing record.
func (s *Store) Update(ctx context.Context, u *authcore.User) error {
	query := `UPDATE users SET
		username = $2, email = $3, name = $4, password_hash = $5, role = $6,
		is_active = $7, mfa_secret = $8, mfa_enabled = $9, last_login = $10,
		updated_at = $11
		WHERE id = $1`

	res, err := s.db.ExecContext(ctx, query,
		u.ID, u.Username, u.Email, u.Name, u.PasswordHash, string(u.Role),
		u.IsActive, u.MFASecret, u.MFAEnabled, u.LastLogin, u.UpdatedAt)
	if err != nil {
		return mapError(err)
	}
	return requireRow(res)
}

// Delete removes a record.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return mapError(err)
	}
	return requireRow(res)
}

// List returns one page of records matching the query plus the total match
// count before pagination.
func (s *Store) List(ctx context.Context, q authcore.ListUsersQuery) ([]authcore.User, int, error) {
	where, args := buildListFilter(q)

	var total int
	countQuery := `SELECT count(*) FROM users` + where
	if err := s.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}

	page := q.Page
	if page < 1 {
		page = 1
	}
	limit := q.Limit
	if limit < 1 {
		limit = 10
	}

	query := fmt.Sprintf(`SELECT %s FROM users%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		userColumns, where, len(args)+1, len(args)+2)
	args = append(args, limit, (page-1)*limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var users []authcore.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}
	return users, total, nil
}

// Count returns the total number of records.
func (s *Store) Count(ctx context.Context) (int, error) {
	return s.scanCount(ctx, `SELECT count(*) FROM users`)
}

// CountActiveSince counts active records whose last login is at or after the
// given instant.
func (s *Store) CountActiveSince(ctx context.Context, since time.Time) (int, error) {
	return s.scanCount(ctx,
		`SELECT count(*) FROM users WHERE is_active AND last_login >= $1`, since)
}

// CountCreatedBefore counts records created strictly before the given instant.
func (s *Store) CountCreatedBefore(ctx context.Context, before time.Time) (int, error) {
	return s.scanCount(ctx,
		`SELECT count(*) FROM users WHERE created_at < $1`, before)
}

// CountCreatedBetween counts records created in the half-open interval
// [from, to).
func (s *Store) CountCreatedBetween(ctx context.Context, from, to time.Time) (int, error) {
	return s.scanCount(ctx,
		`SELECT count(*) FROM users WHERE created_at >= $1 AND created_at < $2`, from, to)
}

func (s *Store) scanCount(ctx context.Context, query string, args ...any) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

// buildListFilter renders the WHERE clause for List. The returned clause has
// a leading space or is empty; args line up with its $n placeholders.
func buildListFilter(q authcore.ListUsersQuery) (string, []any) {
	var conds []string
	var args []any

	if q.Search != "" {
		args = append(args, "%"+q.Search+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf("(username ILIKE $%d OR email ILIKE $%d OR name ILIKE $%d)", n, n, n))
	}
	if q.Role != "" {
		args = append(args, string(q.Role))
		conds = append(conds, fmt.Sprintf("role = $%d", len(args)))
	}
	if q.IsActive != nil {
		args = append(args, *q.IsActive)
		conds = append(conds, fmt.Sprintf("is_active = $%d", len(args)))
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*authcore.User, error) {
	var u authcore.User
	var role string
	var lastLogin sql.NullTime

	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.Name, &u.PasswordHash,
		&role, &u.IsActive, &u.MFASecret, &u.MFAEnabled, &lastLogin,
		&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, mapError(err)
	}

	u.Role = authcore.Role(role)
	if lastLogin.Valid {
		t := lastLogin.Time
		u.LastLogin = &t
	}
	return &u, nil
}

// requireRow converts a zero-row mutation into authcore.ErrUserNotFound.
func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return authcore.ErrUserNotFound
	}
	return nil
}

// mapError translates driver errors into the sentinel errors the engine
// matches on.
func mapError(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return authcore.ErrUserNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return authcore.ErrDuplicateIdentity
	}
	return fmt.Errorf("db error: %w", err)
}
