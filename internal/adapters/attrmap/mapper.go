// Package attrmap converts provider-supplied attribute names into local
// user fields using the mechanism's configured attribute map.
package attrmap

import (
	domainauth "github.com/oakgrove/campus-portal/internal/domain/auth"
	"github.com/oakgrove/campus-portal/internal/domain/model"
)

// Map is a pure function from raw identity attributes to upsert parameters.
// Only keys present in both the raw attributes and the mechanism's map are
// carried over, stored under the mapped field name; everything else is
// silently dropped. The affiliation always comes from the mechanism, the
// default group only when the mechanism configures one.
func Map(username string, attrs domainauth.IdentityAttributes, mech domainauth.Mechanism) model.UpsertUserParams {
	mapped := make(map[string]string, len(mech.AttributeMap))
	for providerKey, field := range mech.AttributeMap {
		if value, ok := attrs[providerKey]; ok {
			mapped[field] = value
		}
	}

	return model.UpsertUserParams{
		Username:     username,
		Affiliation:  mech.Affiliation,
		DefaultGroup: mech.DefaultGroup,
		Attributes:   mapped,
	}
}
