package users

import (
	"context"
	"database/sql"

	"github.com/JaimeStill/civicdoc/pkg/auth"
	"github.com/JaimeStill/civicdoc/pkg/query"
	"github.com/JaimeStill/civicdoc/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "users", "u").
	Project("id", "ID").
	Project("email", "Email").
	Project("role", "Role").
	Project("is_active", "Active").
	Project("created_at", "CreatedAt").
	Project("hashed_password", "PasswordHash")

// Store persists accounts.
type Store interface {
	Insert(ctx context.Context, email, passwordHash string, role auth.Role) (*User, error)
	// ByEmail returns the account and its password hash.
	ByEmail(ctx context.Context, email string) (*User, string, error)
	ByID(ctx context.Context, id int64) (*User, error)
}

type credentialed struct {
	User
	hash string
}

func scanUser(s repository.Scanner) (credentialed, error) {
	var c credentialed
	err := s.Scan(
		&c.ID,
		&c.Email,
		&c.Role,
		&c.Active,
		&c.CreatedAt,
		&c.hash,
	)
	return c, err
}

type pgStore struct {
	db *sql.DB
}

// NewStore creates a PostgreSQL-backed Store.
func NewStore(db *sql.DB) Store {
	return &pgStore{db: db}
}

func (s *pgStore) Insert(ctx context.Context, email, passwordHash string, role auth.Role) (*User, error) {
	q := `
		INSERT INTO users(email, hashed_password, role)
		VALUES ($1, $2, $3)
		RETURNING id, email, role, is_active, created_at, hashed_password`

	c, err := repository.WithTx(ctx, s.db, func(tx *sql.Tx) (credentialed, error) {
		return repository.QueryOne(ctx, tx, q, []any{email, passwordHash, string(role)}, scanUser)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &c.User, nil
}

func (s *pgStore) ByEmail(ctx context.Context, email string) (*User, string, error) {
	q, args := query.NewBuilder(projection).BuildSingle("Email", email)

	c, err := repository.QueryOne(ctx, s.db, q, args, scanUser)
	if err != nil {
		return nil, "", repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &c.User, c.hash, nil
}

func (s *pgStore) ByID(ctx context.Context, id int64) (*User, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	c, err := repository.QueryOne(ctx, s.db, q, args, scanUser)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &c.User, nil
}
