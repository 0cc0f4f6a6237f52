// Package semantics classifies form fields into a fixed vocabulary of
// semantic roles (email, phone, name, first/last name, company, address,
// city, state, zip, country) using heuristics over the declared field type
// and the human label. Both passes are advisory: the resolver consults the
// result only when a template variable names a role directly, and a match by
// declared type always outranks a match by label substring.
package semantics

import (
	"strings"

	"github.com/goliatone/go-formvars/pkg/catalog"
	"github.com/goliatone/go-formvars/pkg/payload"
)

// Role is one of the recognised semantic field roles.
type Role string

const (
	RoleEmail     Role = "email"
	RolePhone     Role = "phone"
	RoleName      Role = "name"
	RoleFirstName Role = "firstName"
	RoleLastName  Role = "lastName"
	RoleCompany   Role = "company"
	RoleAddress   Role = "address"
	RoleCity      Role = "city"
	RoleState     Role = "state"
	RoleZip       Role = "zip"
	RoleCountry   Role = "country"
)

// Match records which field satisfied a role and the submitted value.
type Match struct {
	FieldID string
	Value   any
}

// Roles holds the recogniser's combined results, keeping type-driven and
// label-driven matches separate so callers can honour the type-over-label
// preference. Within each map, later matches overwrite earlier ones.
type Roles struct {
	ByType  map[Role]Match
	ByLabel map[Role]Match
}

// Lookup returns the best match for a role: declared type first, label
// substring second.
func (r Roles) Lookup(role Role) (Match, bool) {
	if m, ok := r.ByType[role]; ok {
		return m, true
	}
	if m, ok := r.ByLabel[role]; ok {
		return m, true
	}
	return Match{}, false
}

// FromVariable maps a template variable name onto a role, tolerating case and
// separator variations (firstName, first_name, FIRSTNAME all map to
// RoleFirstName). The bool reports whether the name is a semantic key at all.
func FromVariable(name string) (Role, bool) {
	switch normalizeKey(name) {
	case "email":
		return RoleEmail, true
	case "phone":
		return RolePhone, true
	case "name":
		return RoleName, true
	case "firstname":
		return RoleFirstName, true
	case "lastname":
		return RoleLastName, true
	case "company":
		return RoleCompany, true
	case "address":
		return RoleAddress, true
	case "city":
		return RoleCity, true
	case "state":
		return RoleState, true
	case "zip":
		return RoleZip, true
	case "country":
		return RoleCountry, true
	default:
		return "", false
	}
}

// Recognize runs both classification passes over every field that has a
// submitted value and returns the combined role map. Fields without a payload
// value contribute nothing; a role with no value is useless to substitution.
func Recognize(fields []catalog.FieldDescriptor, flat payload.Flat) Roles {
	roles := Roles{
		ByType:  make(map[Role]Match),
		ByLabel: make(map[Role]Match),
	}
	for _, field := range fields {
		value, ok := flat.Get(field.ID)
		if !ok || value == nil {
			continue
		}
		classifyByType(roles, field, value)
		classifyByLabel(roles, field, value)
	}
	return roles
}

// classifyByType maps declared field types onto roles. Generic text fields
// fall back to id-substring inspection, checking firstname/lastname before
// the generic name substring so first/last-name fields are not swallowed by
// the broader match. A declared type of "name" populates the generic name
// role even when the field might represent something more specific; that
// matches how array-shaped submissions have always been treated.
func classifyByType(roles Roles, field catalog.FieldDescriptor, value any) {
	match := Match{FieldID: field.ID, Value: value}
	switch strings.ToLower(strings.TrimSpace(field.Type)) {
	case catalog.FieldTypeEmail:
		roles.ByType[RoleEmail] = match
	case catalog.FieldTypeTel, catalog.FieldTypePhone:
		roles.ByType[RolePhone] = match
	case catalog.FieldTypeName:
		roles.ByType[RoleName] = match
	case catalog.FieldTypeText:
		id := normalizeKey(field.ID)
		switch {
		case strings.Contains(id, "firstname"):
			roles.ByType[RoleFirstName] = match
		case strings.Contains(id, "lastname"):
			roles.ByType[RoleLastName] = match
		case strings.Contains(id, "company"):
			roles.ByType[RoleCompany] = match
		case strings.Contains(id, "name"):
			roles.ByType[RoleName] = match
		}
	}
}

func classifyByLabel(roles Roles, field catalog.FieldDescriptor, value any) {
	label := strings.ToLower(field.Label)
	if label == "" {
		return
	}
	match := Match{FieldID: field.ID, Value: value}

	if strings.Contains(label, "email") {
		roles.ByLabel[RoleEmail] = match
	}
	if strings.Contains(label, "phone") || strings.Contains(label, "tel") {
		roles.ByLabel[RolePhone] = match
	}

	hasName := strings.Contains(label, "name")
	hasFirst := strings.Contains(label, "first")
	hasLast := strings.Contains(label, "last")
	switch {
	case hasName && hasFirst:
		roles.ByLabel[RoleFirstName] = match
	case hasName && hasLast:
		roles.ByLabel[RoleLastName] = match
	case hasName:
		roles.ByLabel[RoleName] = match
	}

	if strings.Contains(label, "company") || strings.Contains(label, "organization") || strings.Contains(label, "business") {
		roles.ByLabel[RoleCompany] = match
	}
	if strings.Contains(label, "address") && !strings.Contains(label, "email") {
		roles.ByLabel[RoleAddress] = match
	}
	if strings.Contains(label, "city") {
		roles.ByLabel[RoleCity] = match
	}
	if strings.Contains(label, "state") || strings.Contains(label, "province") {
		roles.ByLabel[RoleState] = match
	}
	if strings.Contains(label, "zip") || strings.Contains(label, "postal") {
		roles.ByLabel[RoleZip] = match
	}
	if strings.Contains(label, "country") {
		roles.ByLabel[RoleCountry] = match
	}
}

// normalizeKey lowers an identifier and strips everything that is not a
// letter or digit, so first_name, first-name, and FirstName compare equal.
func normalizeKey(key string) string {
	var out strings.Builder
	for _, r := range strings.ToLower(key) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			out.WriteRune(r)
		}
	}
	return out.String()
}
