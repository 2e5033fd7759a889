package attrmap

import (
	"testing"

	"github.com/stretchr/testify/assert"

	domainauth "github.com/oakgrove/campus-portal/internal/domain/auth"
)

func TestMapCarriesOnlyConfiguredAttributes(t *testing.T) {
	mech := domainauth.Mechanism{
		ID:          "casA",
		Affiliation: "campus",
		AttributeMap: map[string]string{
			"displayName": "display_name",
			"mail":        "email",
			"skin":        "theme",
		},
	}
	attrs := domainauth.IdentityAttributes{
		"displayName":     "Alice Smith",
		"mail":            "alice@campus.test",
		"employeeNumber":  "12345",
		"memberOf":        "cn=staff",
		"internalSecrets": "should never leak",
	}

	params := Map("alice", attrs, mech)

	assert.Equal(t, "alice", params.Username)
	assert.Equal(t, "campus", params.Affiliation)
	assert.Equal(t, map[string]string{
		"display_name": "Alice Smith",
		"email":        "alice@campus.test",
	}, params.Attributes)
}

func TestMapAffiliationAlwaysFromMechanism(t *testing.T) {
	mech := domainauth.Mechanism{ID: "casB", Affiliation: "partner"}
	attrs := domainauth.IdentityAttributes{"affiliation": "spoofed"}

	params := Map("bob", attrs, mech)

	assert.Equal(t, "partner", params.Affiliation)
	assert.Empty(t, params.Attributes)
}

func TestMapDefaultGroupPassthrough(t *testing.T) {
	withGroup := Map("alice", nil, domainauth.Mechanism{Affiliation: "campus", DefaultGroup: "students"})
	assert.Equal(t, "students", withGroup.DefaultGroup)

	withoutGroup := Map("alice", nil, domainauth.Mechanism{Affiliation: "campus"})
	assert.Empty(t, withoutGroup.DefaultGroup)
}

func TestMapMissingProviderAttributeSkipped(t *testing.T) {
	mech := domainauth.Mechanism{
		Affiliation:  "campus",
		AttributeMap: map[string]string{"mail": "email"},
	}

	params := Map("alice", domainauth.IdentityAttributes{}, mech)

	_, present := params.Attributes["email"]
	assert.False(t, present)
}
