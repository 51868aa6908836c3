package models

import (
	"encoding/json"
	"errors"
)

const (
	RoleUser          = "User"
	RoleModerator     = "Moderator"
	RoleAdministrator = "Administrator"
)

// Role is a named bundle of permission bits attached to a user.
// The mask starts at zero and only changes through the permission methods.
type Role struct {
	Name        string
	Default     bool
	permissions Permission
}

// NewRole builds a role holding the given permissions.
func NewRole(name string, isDefault bool, perms ...Permission) Role {
	r := Role{Name: name, Default: isDefault}
	for _, perm := range perms {
		for _, flag := range perm.Flags() {
			r.AddPermission(flag)
		}
	}
	return r
}

// Permissions returns the current mask.
func (r Role) Permissions() Permission {
	return r.permissions
}

// AddPermission sets perm if it is not already held.
func (r *Role) AddPermission(perm Permission) {
	if !r.HasPermission(perm) {
		r.permissions |= perm & AllPermissions
	}
}

// RemovePermission clears perm if it is held.
func (r *Role) RemovePermission(perm Permission) {
	if r.HasPermission(perm) {
		r.permissions &^= perm
	}
}

// ResetPermissions clears every bit.
func (r *Role) ResetPermissions() {
	r.permissions = 0
}

// HasPermission reports whether every bit of perm is set. Passing a
// multi-flag value therefore asks for all of them, not any.
func (r Role) HasPermission(perm Permission) bool {
	return r.permissions&perm == perm
}

type roleJSON struct {
	Name        string     `json:"name"`
	Default     bool       `json:"default"`
	Permissions Permission `json:"permissions"`
}

// MarshalJSON encodes the role as {name, default, permissions}.
func (r Role) MarshalJSON() ([]byte, error) {
	return json.Marshal(roleJSON{Name: r.Name, Default: r.Default, Permissions: r.permissions})
}

// UnmarshalJSON decodes a role, dropping permission bits outside the known set.
func (r *Role) UnmarshalJSON(data []byte) error {
	var raw roleJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*r = NewRole(raw.Name, raw.Default, raw.Permissions)
	return nil
}

// DefaultRoles is the role catalogue seeded into a fresh store.
func DefaultRoles() []Role {
	return []Role{
		NewRole(RoleUser, true, PermFollow, PermComment, PermWrite),
		NewRole(RoleModerator, false, PermFollow, PermComment, PermWrite, PermModerate),
		NewRole(RoleAdministrator, false, AllPermissions),
	}
}

// DefaultRole picks the single role flagged as default.
func DefaultRole(roles []Role) (Role, error) {
	var found []Role
	for _, r := range roles {
		if r.Default {
			found = append(found, r)
		}
	}
	switch len(found) {
	case 0:
		return Role{}, errors.New("no default role configured")
	case 1:
		return found[0], nil
	default:
		return Role{}, errors.New("more than one default role configured")
	}
}
