package users

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/JaimeStill/civicdoc/pkg/auth"
)

// Password length bounds. bcrypt ignores input beyond 72 bytes.
const (
	MinPasswordLength = 8
	MaxPasswordBytes  = 72
)

type repo struct {
	store            Store
	tokens           *auth.Tokens
	logger           *slog.Logger
	allowAdminSignup bool
	hashCost         int
	dummyHash        []byte
}

// Option configures the account system.
type Option func(*repo)

// WithHashCost sets the bcrypt cost used for new passwords.
func WithHashCost(cost int) Option {
	return func(r *repo) { r.hashCost = cost }
}

// WithAdminSignup allows anonymous department_admin registration.
func WithAdminSignup(allow bool) Option {
	return func(r *repo) { r.allowAdminSignup = allow }
}

// New creates an account system implementing the System interface.
func New(store Store, tokens *auth.Tokens, logger *slog.Logger, opts ...Option) System {
	r := &repo{
		store:    store,
		tokens:   tokens,
		logger:   logger.With("system", "users"),
		hashCost: bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(r)
	}

	// Compared against on unknown emails so both login failures cost one bcrypt check.
	r.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("civicdoc-unknown-user"), r.hashCost)
	return r
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger)
}

func (r *repo) Register(ctx context.Context, caller *auth.Principal, cmd RegisterCommand) (*User, error) {
	email, err := normalizeEmail(cmd.Email)
	if err != nil {
		return nil, err
	}

	if len(cmd.Password) < MinPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, MinPasswordLength)
	}
	if len(cmd.Password) > MaxPasswordBytes {
		return nil, fmt.Errorf("%w: password must be at most %d bytes", ErrInvalidInput, MaxPasswordBytes)
	}

	role := cmd.Role
	if role == "" {
		role = auth.RoleCitizen
	}
	if role, err = auth.ParseRole(string(role)); err != nil {
		return nil, err
	}

	if role == auth.RoleDepartmentAdmin && !r.allowAdminSignup {
		if caller == nil || !caller.Role.Can(auth.CapManageUsers) {
			return nil, fmt.Errorf("%w: admin accounts must be created by an admin", auth.ErrForbidden)
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cmd.Password), r.hashCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u, err := r.store.Insert(ctx, email, string(hash), role)
	if err != nil {
		return nil, err
	}

	r.logger.Info("user registered", "id", u.ID, "role", u.Role)
	return u, nil
}

func (r *repo) Login(ctx context.Context, cmd LoginCommand) (*Token, error) {
	email := strings.ToLower(strings.TrimSpace(cmd.Email))

	u, hash, err := r.store.ByEmail(ctx, email)
	if errors.Is(err, ErrNotFound) {
		bcrypt.CompareHashAndPassword(r.dummyHash, []byte(cmd.Password))
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(cmd.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !u.Active {
		return nil, ErrInactive
	}

	token, err := r.tokens.Issue(u.Principal())
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	r.logger.Info("user logged in", "id", u.ID)
	return &Token{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int(r.tokens.TTL().Seconds()),
	}, nil
}

func (r *repo) Find(ctx context.Context, id int64) (*User, error) {
	return r.store.ByID(ctx, id)
}

func normalizeEmail(s string) (string, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(s))
	if err != nil || addr.Name != "" {
		return "", fmt.Errorf("%w: invalid email address", ErrInvalidInput)
	}
	return strings.ToLower(addr.Address), nil
}
