package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubjectRoundTrip(t *testing.T) {
	s := NewSubject("alice", "example")
	assert.Equal(t, Subject("alice@example"), s)

	username, affiliation, err := s.Split()
	require.NoError(t, err)
	assert.Equal(t, "alice", username)
	assert.Equal(t, "example", affiliation)
}

func TestSubjectSplitKeepsEmbeddedAt(t *testing.T) {
	// Usernames containing "@" split on the last separator.
	username, affiliation, err := Subject("alice@corp.example@campus").Split()
	require.NoError(t, err)
	assert.Equal(t, "alice@corp.example", username)
	assert.Equal(t, "campus", affiliation)
}

func TestSubjectSplitMalformed(t *testing.T) {
	for _, s := range []Subject{"", "alice", "@campus", "alice@"} {
		_, _, err := s.Split()
		assert.Error(t, err, "subject %q", s)
	}
}

func TestMechanismValidatesSSLDefaultsOn(t *testing.T) {
	m := Mechanism{}
	assert.True(t, m.ValidatesSSL())

	off := false
	m.ValidateSSL = &off
	assert.False(t, m.ValidatesSSL())

	on := true
	m.ValidateSSL = &on
	assert.True(t, m.ValidatesSSL())
}

func TestMechanismValidate(t *testing.T) {
	valid := Mechanism{
		ID:          "casA",
		Version:     ProtocolV3,
		Host:        "idp.campus.test",
		Port:        443,
		Affiliation: "campus",
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*Mechanism)
	}{
		{"unsupported version", func(m *Mechanism) { m.Version = 1 }},
		{"missing host", func(m *Mechanism) { m.Host = "" }},
		{"bad port", func(m *Mechanism) { m.Port = 0 }},
		{"port out of range", func(m *Mechanism) { m.Port = 70000 }},
		{"missing affiliation", func(m *Mechanism) { m.Affiliation = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := valid
			tt.mutate(&m)
			assert.Error(t, m.Validate())
		})
	}
}

func TestProtocolVersionValid(t *testing.T) {
	assert.True(t, ProtocolV2.Valid())
	assert.True(t, ProtocolV3.Valid())
	assert.False(t, ProtocolVersion(1).Valid())
	assert.False(t, ProtocolVersion(4).Valid())
}
