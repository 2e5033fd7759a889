package bootstrap

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/oakgrove/campus-portal/internal/domain/auth"
)

func writeMechanismsFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mechanisms.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadMechanisms(t *testing.T) {
	path := writeMechanismsFile(t, `
mechanisms:
  casA:
    version: 3
    host: idp.campus.test
    port: 443
    context: /cas
    affiliation: campus
    default_group: students
    attribute_map:
      displayName: display_name
      mail: email
  casLegacy:
    version: 2
    host: legacy.campus.test
    port: 8443
    context: /cas
    affiliation: campus
    validate_ssl: false
`)

	mechanisms, err := LoadMechanisms(path, nil)
	require.NoError(t, err)
	require.Len(t, mechanisms, 2)

	casA := mechanisms["casA"]
	assert.Equal(t, "casA", casA.ID, "ID filled from the map key")
	assert.Equal(t, domainauth.ProtocolV3, casA.Version)
	assert.Equal(t, "idp.campus.test", casA.Host)
	assert.Equal(t, "students", casA.DefaultGroup)
	assert.Equal(t, "email", casA.AttributeMap["mail"])
	assert.True(t, casA.ValidatesSSL(), "unset validate_ssl defaults to on")

	legacy := mechanisms["casLegacy"]
	assert.Equal(t, domainauth.ProtocolV2, legacy.Version)
	assert.False(t, legacy.ValidatesSSL())
}

func TestLoadMechanismsRejectsInvalidEntry(t *testing.T) {
	path := writeMechanismsFile(t, `
mechanisms:
  broken:
    version: 7
    host: idp.campus.test
    port: 443
    affiliation: campus
`)

	_, err := LoadMechanisms(path, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported protocol version")
}

func TestLoadMechanismsRejectsEmptyTable(t *testing.T) {
	path := writeMechanismsFile(t, "mechanisms: {}\n")
	_, err := LoadMechanisms(path, nil)
	require.Error(t, err)
}

func TestLoadMechanismsMissingFile(t *testing.T) {
	_, err := LoadMechanisms("/nonexistent/mechanisms.yaml", nil)
	require.Error(t, err)
}

func TestCallbackURL(t *testing.T) {
	assert.Equal(t, "https://portal.campus.test/casauth", CallbackURL("https://portal.campus.test"))
	assert.Equal(t, "https://portal.campus.test/casauth", CallbackURL("https://portal.campus.test/"))
}

func TestSanitizeCookieDomain(t *testing.T) {
	assert.Equal(t, "", sanitizeCookieDomain("", nil))
	assert.Equal(t, ".campus.test", sanitizeCookieDomain(".campus.test", nil))
	assert.Equal(t, "portal.example.edu", sanitizeCookieDomain("portal.example.edu", nil))

	// Bare public suffixes are refused.
	assert.Equal(t, "", sanitizeCookieDomain("com", nil))
	assert.Equal(t, "", sanitizeCookieDomain(".co.uk", nil))
}
