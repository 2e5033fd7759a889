// Package auth contains domain-level types for CAS authentication and
// sessions. It is pure and free of framework/adapter concerns.
package auth

import (
	"fmt"
	"strings"
	"time"
)

// ProtocolVersion identifies the CAS protocol major revision a mechanism
// speaks. Version 3 moved ticket validation under a /p3 path while keeping
// the same response schema.
type ProtocolVersion int

const (
	ProtocolV2 ProtocolVersion = 2
	ProtocolV3 ProtocolVersion = 3
)

// Valid reports whether the version is one the validator supports.
func (v ProtocolVersion) Valid() bool { return v == ProtocolV2 || v == ProtocolV3 }

// Mechanism describes one configured identity provider variant. The
// mechanism table is loaded once at startup and is read-only at request time.
type Mechanism struct {
	ID           string            `yaml:"-"`
	Version      ProtocolVersion   `yaml:"version"`
	Host         string            `yaml:"host"`
	Port         int               `yaml:"port"`
	Context      string            `yaml:"context"`
	ValidateSSL  *bool             `yaml:"validate_ssl"`
	CACertFile   string            `yaml:"ca_cert"`
	AttributeMap map[string]string `yaml:"attribute_map"`
	Affiliation  string            `yaml:"affiliation"`
	DefaultGroup string            `yaml:"default_group"`
}

// ValidatesSSL reports whether server certificate chains must be verified.
// Absence of the flag means verification is on; disabling it is a
// security relaxation intended only for trusted internal deployments.
func (m Mechanism) ValidatesSSL() bool {
	return m.ValidateSSL == nil || *m.ValidateSSL
}

// Validate checks the mechanism for the fields the validator cannot work without.
func (m Mechanism) Validate() error {
	if !m.Version.Valid() {
		return fmt.Errorf("mechanism %q: unsupported protocol version %d", m.ID, m.Version)
	}
	if m.Host == "" {
		return fmt.Errorf("mechanism %q: host is required", m.ID)
	}
	if m.Port <= 0 || m.Port > 65535 {
		return fmt.Errorf("mechanism %q: invalid port %d", m.ID, m.Port)
	}
	if m.Affiliation == "" {
		return fmt.Errorf("mechanism %q: affiliation is required", m.ID)
	}
	return nil
}

// IdentityAttributes is the raw provider attribute name to value mapping
// produced per validation. Transient; never persisted as-is.
type IdentityAttributes map[string]string

// ValidationResult is the outcome of a successful ticket validation.
type ValidationResult struct {
	Username   string
	Attributes IdentityAttributes
}

// Subject is the session principal in "username@affiliation" form.
type Subject string

// NewSubject builds a Subject from its parts.
func NewSubject(username, affiliation string) Subject {
	return Subject(username + "@" + affiliation)
}

// Split returns the username and affiliation halves. The affiliation is the
// part after the last "@" so usernames containing "@" survive.
func (s Subject) Split() (username, affiliation string, err error) {
	i := strings.LastIndex(string(s), "@")
	if i <= 0 || i == len(s)-1 {
		return "", "", fmt.Errorf("malformed subject %q", string(s))
	}
	return string(s[:i]), string(s[i+1:]), nil
}

// SessionClaims is the payload sealed into the session cookie. The cookie
// itself is the session; there is no server-side session store.
type SessionClaims struct {
	Subject  Subject   `json:"sub"`
	IssuedAt time.Time `json:"iat"`
}
