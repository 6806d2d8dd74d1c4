package model

import (
	"encoding/json"
	"fmt"
)

// User is the free-form profile returned with the access token. Unknown
// fields are kept so the record round-trips through the session store.
type User map[string]any

// Nombre returns the display name, or "" when absent.
func (u User) Nombre() string { return u.str("nombre") }

// Username returns the login name, or "" when absent.
func (u User) Username() string { return u.str("username") }

// Rol returns the role, or "" when absent.
func (u User) Rol() string { return u.str("rol") }

func (u User) str(key string) string {
	if u == nil {
		return ""
	}
	switch v := u[key].(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

// ParseUser decodes a serialized profile. Anything that is not a JSON object
// yields an empty record.
func ParseUser(data []byte) User {
	var u User
	if err := json.Unmarshal(data, &u); err != nil || u == nil {
		return User{}
	}
	return u
}

// Session is the authenticated state of the dashboard.
type Session struct {
	Token string
	User  User
}

// LoggedIn reports whether a token is present.
func (s Session) LoggedIn() bool { return s.Token != "" }
