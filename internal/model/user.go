package model

import "time"

// Role is the coarse authorization level of a portal user.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleViewer Role = "viewer"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleViewer
}

// User represents a portal account held by the credential store.
type User struct {
	ID           string     `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"` // Never expose in JSON
	Name         string     `json:"name"`
	Role         Role       `json:"role"`
	CreatedAt    time.Time  `json:"createdAt"`
	LastLogin    *time.Time `json:"lastLogin,omitempty"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// NewUser carries the fields required to create an account.
type NewUser struct {
	Username string
	Email    string
	Password string
	Name     string
	Role     Role
}

// Optional wraps a value together with an explicit presence flag.
type Optional[T any] struct {
	Value T
	Set   bool
}

// Some returns a present Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Value: v, Set: true}
}

// Get returns the wrapped value and whether it was set.
func (o Optional[T]) Get() (T, bool) {
	return o.Value, o.Set
}

// UserPatch is a partial update. Fields left unset are not touched.
type UserPatch struct {
	Username Optional[string]
	Email    Optional[string]
	Password Optional[string]
	Name     Optional[string]
	Role     Optional[Role]
}

// Empty reports whether the patch changes nothing.
func (p UserPatch) Empty() bool {
	return !p.Username.Set && !p.Email.Set && !p.Password.Set && !p.Name.Set && !p.Role.Set
}
