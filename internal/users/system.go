package users

import (
	"context"

	"github.com/JaimeStill/civicdoc/pkg/auth"
)

// System defines account registration and authentication.
type System interface {
	Handler() *Handler

	// Register creates an account. caller may be nil for self-registration;
	// department_admin accounts require a caller holding CapManageUsers unless
	// admin signup is enabled.
	Register(ctx context.Context, caller *auth.Principal, cmd RegisterCommand) (*User, error)
	Login(ctx context.Context, cmd LoginCommand) (*Token, error)
	Find(ctx context.Context, id int64) (*User, error)
}
