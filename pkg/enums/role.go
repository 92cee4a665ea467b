package enums

import "fmt"

// Role identifies the kind of authenticated actor.
type Role string

const (
	RoleCustomer      Role = "customer"
	RoleBranchManager Role = "branch_manager"
	RoleAdmin         Role = "admin"
)

var validRoles = []Role{
	RoleCustomer,
	RoleBranchManager,
	RoleAdmin,
}

// String implements fmt.Stringer.
func (r Role) String() string {
	return string(r)
}

// IsValid reports whether the value is a known Role.
func (r Role) IsValid() bool {
	for _, candidate := range validRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// IsTenantScoped reports whether the role only sees its own supermarket's catalog.
func (r Role) IsTenantScoped() bool {
	return r == RoleBranchManager || r == RoleAdmin
}

// ParseRole converts raw input into a Role.
func ParseRole(value string) (Role, error) {
	for _, candidate := range validRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid role %q", value)
}
