// Package repository stores accounts and their linked social identities.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"

	"github.com/ncobase/shopauth/structs"
)

var (
	ErrNotFound      = errors.New("user not found")
	ErrEmailTaken    = errors.New("email already taken")
	ErrProviderTaken = errors.New("provider identity already linked")
)

// UserRepository persists accounts.
type UserRepository interface {
	Create(ctx context.Context, user *structs.User) error
	FindByID(ctx context.Context, id string) (*structs.User, error)
	FindByEmail(ctx context.Context, email string) (*structs.User, error)
	FindByProviderIdentity(ctx context.Context, provider, providerID string) (*structs.User, error)
	AttachProvider(ctx context.Context, id, provider, providerID, avatar string) error
	UpdateImage(ctx context.Context, id, image string) error
}

type userRepository struct {
	db     *sql.DB
	driver string
}

// NewUserRepository creates the repository and ensures the schema exists.
func NewUserRepository(db *sql.DB, driver string) (UserRepository, error) {
	r := &userRepository{db: db, driver: driver}
	if err := r.initSchema(context.Background()); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *userRepository) initSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT NOT NULL,
			password_hash TEXT NOT NULL,
			role TEXT NOT NULL,
			image TEXT NOT NULL DEFAULT '',
			provider TEXT NOT NULL DEFAULT '',
			provider_id TEXT NOT NULL DEFAULT '',
			avatar TEXT NOT NULL DEFAULT '',
			email_verified_at TEXT,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);
	`)
	if err != nil {
		return err
	}

	if _, err := r.db.ExecContext(ctx, `
		CREATE UNIQUE INDEX IF NOT EXISTS users_email_unique ON users (email);
	`); err != nil {
		return err
	}

	// Partial index so local accounts with empty provider fields never clash.
	_, err = r.db.ExecContext(ctx, `
		CREATE UNIQUE INDEX IF NOT EXISTS users_provider_unique
		ON users (provider, provider_id) WHERE provider <> '';
	`)
	return err
}

// q rewrites ? placeholders when the driver expects numbered parameters.
func (r *userRepository) q(query string) string {
	if r.driver != "pgx" && r.driver != "postgres" {
		return query
	}
	var b strings.Builder
	n := 0
	for _, c := range query {
		if c == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(c)
	}
	return b.String()
}

const userColumns = `id, name, email, password_hash, role, image, provider, provider_id, avatar, email_verified_at, created_at, updated_at`

func (r *userRepository) Create(ctx context.Context, user *structs.User) error {
	_, err := r.db.ExecContext(ctx, r.q(`
		INSERT INTO users (`+userColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`),
		user.ID,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.Image,
		user.Provider,
		user.ProviderID,
		user.Avatar,
		formatNullableTime(user.EmailVerifiedAt),
		user.CreatedAt.UTC().Format(time.RFC3339Nano),
		user.UpdatedAt.UTC().Format(time.RFC3339Nano),
	)
	return mapConstraintError(err)
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*structs.User, error) {
	row := r.db.QueryRowContext(ctx, r.q(`
		SELECT `+userColumns+` FROM users WHERE id = ?
	`), id)
	return scanUser(row)
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*structs.User, error) {
	row := r.db.QueryRowContext(ctx, r.q(`
		SELECT `+userColumns+` FROM users WHERE email = ?
	`), email)
	return scanUser(row)
}

func (r *userRepository) FindByProviderIdentity(ctx context.Context, provider, providerID string) (*structs.User, error) {
	row := r.db.QueryRowContext(ctx, r.q(`
		SELECT `+userColumns+` FROM users WHERE provider = ? AND provider_id = ?
	`), provider, providerID)
	return scanUser(row)
}

func (r *userRepository) AttachProvider(ctx context.Context, id, provider, providerID, avatar string) error {
	res, err := r.db.ExecContext(ctx, r.q(`
		UPDATE users SET provider = ?, provider_id = ?, avatar = ?, updated_at = ?
		WHERE id = ?
	`), provider, providerID, avatar, time.Now().UTC().Format(time.RFC3339Nano), id)
	if err != nil {
		return mapConstraintError(err)
	}
	return requireRow(res)
}

func (r *userRepository) UpdateImage(ctx context.Context, id, image string) error {
	res, err := r.db.ExecContext(ctx, r.q(`
		UPDATE users SET image = ?, updated_at = ? WHERE id = ?
	`), image, time.Now().UTC().Format(time.RFC3339Nano), id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// mapConstraintError converts driver-specific unique violations into the
// repository sentinel errors.
func mapConstraintError(err error) error {
	if err == nil {
		return nil
	}

	var (
		sqliteErr sqlite3.Error
		pgErr     *pgconn.PgError
		myErr     *mysql.MySQLError
	)
	switch {
	case errors.As(err, &sqliteErr):
		if sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique || sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey {
			return uniqueViolation(err.Error())
		}
	case errors.As(err, &pgErr):
		if pgErr.Code == "23505" {
			return uniqueViolation(pgErr.ConstraintName)
		}
	case errors.As(err, &myErr):
		if myErr.Number == 1062 {
			return uniqueViolation(myErr.Message)
		}
	}
	return err
}

func uniqueViolation(detail string) error {
	if strings.Contains(detail, "provider") {
		return ErrProviderTaken
	}
	return ErrEmailTaken
}

func formatNullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func scanUser(scanner interface{ Scan(dest ...any) error }) (*structs.User, error) {
	var (
		verifiedAt sql.NullString
		createdAt  string
		updatedAt  string
	)

	user := &structs.User{}
	err := scanner.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.Image,
		&user.Provider,
		&user.ProviderID,
		&user.Avatar,
		&verifiedAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if verifiedAt.Valid && verifiedAt.String != "" {
		parsed, err := time.Parse(time.RFC3339Nano, verifiedAt.String)
		if err != nil {
			return nil, err
		}
		user.EmailVerifiedAt = &parsed
	}
	if user.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, err
	}
	if user.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt); err != nil {
		return nil, err
	}

	return user, nil
}
