package domain

import "strings"

type Role string

const (
	RoleStudent       Role = "Student"
	RoleParent        Role = "Parent"
	RoleTeacher       Role = "Teacher"
	RoleAdministrator Role = "Administrator"
)

var Roles = []Role{RoleStudent, RoleParent, RoleTeacher, RoleAdministrator}

func (r Role) Valid() bool {
	for _, known := range Roles {
		if r == known {
			return true
		}
	}
	return false
}

// Lower is the form used in user-facing messages and login tab names.
func (r Role) Lower() string {
	return strings.ToLower(string(r))
}

type User struct {
	Username     string `json:"username"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	Role         Role   `json:"role"`
	Name         string `json:"name"`
	FirstName    string `json:"first_name,omitempty"`
	ProfileID    string `json:"profile_id,omitempty"`
}

// DomainID is the identifier used to join the account with its profile
// collection. Accounts without an explicit profile id use their username.
func (u User) DomainID() string {
	if u.ProfileID != "" {
		return u.ProfileID
	}
	return u.Username
}

// GreetingName falls back from first name to full name to the role itself.
func (u User) GreetingName() string {
	switch {
	case u.FirstName != "":
		return u.FirstName
	case u.Name != "":
		return u.Name
	default:
		return string(u.Role)
	}
}

// Fields an administrator may change through the update flow.
const (
	FieldEmail    = "email"
	FieldName     = "name"
	FieldRole     = "role"
	FieldPassword = "password"
)

var UpdatableUserFields = []string{FieldEmail, FieldName, FieldRole, FieldPassword}

// FieldValue returns the stored value of an updatable field.
func (u User) FieldValue(field string) string {
	switch field {
	case FieldEmail:
		return u.Email
	case FieldName:
		return u.Name
	case FieldRole:
		return string(u.Role)
	case FieldPassword:
		return u.PasswordHash
	}
	return ""
}
