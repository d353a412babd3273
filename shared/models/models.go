package models

import (
	"database/sql"
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleStudent    Role = "student"
	RoleInstructor Role = "instructor"
	RoleAdmin      Role = "admin"
	RoleSuperadmin Role = "superadmin"
)

var Roles = []Role{RoleStudent, RoleInstructor, RoleAdmin, RoleSuperadmin}

func (r Role) Valid() bool {
	for _, known := range Roles {
		if r == known {
			return true
		}
	}
	return false
}

func (r Role) EnumValue() string {
	return string(r)
}

func (r Role) Value() (driver.Value, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("invalid role %q", string(r))
	}
	return string(r), nil
}

func (r *Role) Scan(src any) error {
	switch v := src.(type) {
	case string:
		*r = Role(v)
	case []byte:
		*r = Role(v)
	default:
		return fmt.Errorf("cannot scan %T into Role", src)
	}
	if !r.Valid() {
		return fmt.Errorf("invalid role %q", string(*r))
	}
	return nil
}

// User is the persisted account. Password holds the bcrypt hash and is
// never serialised.
type User struct {
	ID          uuid.UUID    `json:"id"`
	Login       string       `json:"login"`
	Username    string       `json:"username"`
	Password    string       `json:"-"`
	Role        Role         `json:"role"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   sql.NullTime `json:"-"`
	IsActive    bool         `json:"is_active"`
	IsSuperuser bool         `json:"is_superuser"`
}

func (u *User) TableName() string { return "users" }
func (u *User) IDColumn() string  { return "id" }
func (u *User) PrimaryKey() any   { return u.ID }

func (u *User) Columns() []string {
	return []string{"id", "login", "username", "password", "role", "created_at", "updated_at", "is_active", "is_superuser"}
}

func (u *User) Values() []any {
	return []any{u.ID, u.Login, u.Username, u.Password, u.Role, u.CreatedAt, u.UpdatedAt, u.IsActive, u.IsSuperuser}
}

func (u *User) ScanDest() []any {
	return []any{&u.ID, &u.Login, &u.Username, &u.Password, &u.Role, &u.CreatedAt, &u.UpdatedAt, &u.IsActive, &u.IsSuperuser}
}

func (u *User) SetCreatedAt(t time.Time) { u.CreatedAt = t }
func (u *User) UpdatedAtColumn() string  { return "updated_at" }

func (u *User) String() string {
	return fmt.Sprintf("User(id=%s, role=%s, created_at=%s)", u.ID, u.Role, u.CreatedAt.Format(time.RFC3339))
}
