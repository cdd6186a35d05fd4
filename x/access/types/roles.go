package types

import (
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Role is a named permission.
type Role string

const (
	// RoleAdmin changes parameters, rewires dependencies and manages grants.
	RoleAdmin Role = "admin"
	// RoleSlasher may seize provider stake.
	RoleSlasher Role = "slasher"
	// RoleRater may record provider job outcomes.
	RoleRater Role = "rater"
)

// AllRoles lists every known role.
var AllRoles = []Role{RoleAdmin, RoleSlasher, RoleRater}

// Validate returns an error for unknown roles.
func (r Role) Validate() error {
	for _, known := range AllRoles {
		if r == known {
			return nil
		}
	}
	return ErrInvalidRole.Wrapf("%q", string(r))
}

// ParseRole parses a role name.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	return r, r.Validate()
}

// Grant binds a role to an account.
type Grant struct {
	Role    Role   `json:"role"`
	Address string `json:"address"`
}

// UnauthorizedError reports the caller and the role it lacked.
type UnauthorizedError struct {
	Caller sdk.AccAddress
	Role   Role
}

func (e *UnauthorizedError) Error() string {
	return fmt.Sprintf("%s: %s lacks role %s", ErrUnauthorized.Error(), e.Caller, e.Role)
}

func (e *UnauthorizedError) Unwrap() error { return ErrUnauthorized }

// NewUnauthorizedError builds an UnauthorizedError.
func NewUnauthorizedError(caller sdk.AccAddress, role Role) error {
	return &UnauthorizedError{Caller: caller, Role: role}
}
