package constants

import (
	"database/sql/driver"
	"fmt"
)

// Role is a community account role. The set is closed: USER or ADMIN.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Stringer ­– convenient for fmt / logs
func (r Role) String() string { return string(r) }

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin:
		return true
	default:
		return false
	}
}

/* ---------- DB adapters so gorm/sqlx scan and value cleanly ---------- */

// Scan implements the sql.Scanner interface
func (r *Role) Scan(src interface{}) error {
	s, err := scanString("Role", src)
	if err != nil {
		return err
	}
	*r = Role(s)
	return nil
}

// Value implements the driver.Valuer interface
func (r Role) Value() (driver.Value, error) { return string(r), nil }

func scanString(typeName string, src interface{}) (string, error) {
	switch v := src.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	default:
		return "", fmt.Errorf("%s: cannot scan type %T", typeName, src)
	}
}
