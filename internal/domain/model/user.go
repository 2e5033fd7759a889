package model

import (
	"errors"
	"strings"
	"time"
)

// User is the persisted local identity record. At most one record exists
// per (username, affiliation) pair; it is created on first successful login
// and updated, never deleted, on subsequent logins.
type User struct {
	ID           string            `db:"id"            json:"id"`
	Username     string            `db:"username"      json:"username"`
	Affiliation  string            `db:"affiliation"   json:"affiliation"`
	DefaultGroup *string           `db:"default_group" json:"default_group,omitempty"`
	Attributes   map[string]string `db:"attributes"    json:"attributes"`
	CreatedAt    time.Time         `db:"created_at"    json:"created_at"`
	UpdatedAt    time.Time         `db:"updated_at"    json:"updated_at"`
}

// Theme returns the user's UI skin preference, if one was mapped.
func (u *User) Theme() (string, bool) {
	if u == nil {
		return "", false
	}
	v, ok := u.Attributes["theme"]
	return v, ok && v != ""
}

// UpsertUserParams carries the mapped fields for a provision-or-update.
// Attribute updates are additive: keys present here overwrite, keys absent
// are left untouched on the existing record.
type UpsertUserParams struct {
	Username     string
	Affiliation  string
	DefaultGroup string
	Attributes   map[string]string
}

// Validate checks the parameters for a user upsert.
func (p UpsertUserParams) Validate() error {
	if strings.TrimSpace(p.Username) == "" {
		return errors.New("username is required")
	}
	if strings.TrimSpace(p.Affiliation) == "" {
		return errors.New("affiliation is required")
	}
	return nil
}

// LoginLogEntry is an append-only audit record. Entries are created once
// per successful login and never mutated or deleted by the login flow.
type LoginLogEntry struct {
	ID          string    `db:"id"          json:"id"`
	Username    string    `db:"username"    json:"username"`
	Affiliation string    `db:"affiliation" json:"affiliation"`
	Mechanism   string    `db:"mechanism"   json:"mechanism"`
	Success     bool      `db:"success"     json:"success"`
	CreatedAt   time.Time `db:"created_at"  json:"created_at"`
}
