package resolve

import (
	"strings"

	"github.com/goliatone/go-formvars/pkg/catalog"
	"github.com/goliatone/go-formvars/pkg/semantics"
)

// Strategy names, exported so observers and tests can assert on chain order
// without reaching into the implementation.
const (
	StrategyMappedFields = "mapped_fields"
	StrategyDirectKey    = "direct_key"
	StrategyStableID     = "stable_id"
	StrategyMapping      = "custom_mapping"
	StrategyLabel        = "label"
	StrategySemanticRole = "semantic_role"
	StrategyAliasPattern = "alias_pattern"
	StrategySimilarity   = "similarity"
	StrategyCommonPrefix = "common_prefix"
)

// DefaultChain returns the resolution strategies in contract order. Earlier
// entries pre-empt later ones: a stable-id match must never be shadowed by a
// looser similarity or prefix match, and the prefix fallback stays behind the
// similarity fallback.
func DefaultChain() []Strategy {
	return []Strategy{
		NewStrategy(StrategyMappedFields, resolveMappedFields),
		NewStrategy(StrategyDirectKey, resolveDirectKey),
		NewStrategy(StrategyStableID, resolveStableID),
		NewStrategy(StrategyMapping, resolveMapping),
		NewStrategy(StrategyLabel, resolveLabel),
		NewStrategy(StrategySemanticRole, resolveSemanticRole),
		NewStrategy(StrategyAliasPattern, resolveAliasPattern),
		NewStrategy(StrategySimilarity, resolveSimilarity),
		NewStrategy(StrategyCommonPrefix, resolveCommonPrefix),
	}
}

// resolveMappedFields consults the precomputed __mappedFields side structure.
func resolveMappedFields(req Request) (any, bool) {
	return req.Payload.MappedValue(req.Variable)
}

// resolveDirectKey returns payload[variable] verbatim when defined.
func resolveDirectKey(req Request) (any, bool) {
	return req.Payload.Get(req.Variable)
}

// resolveStableID matches a descriptor whose immutable stable id equals the
// variable, then reads the value stored under the field's current id.
func resolveStableID(req Request) (any, bool) {
	for _, field := range req.Catalog {
		if field.StableID == "" || field.StableID != req.Variable {
			continue
		}
		if value, ok := req.Payload.Get(field.ID); ok {
			return value, true
		}
	}
	return nil, false
}

// resolveMapping matches a descriptor's author-supplied mapping alias.
func resolveMapping(req Request) (any, bool) {
	for _, field := range req.Catalog {
		if field.Mapping == "" || field.Mapping != req.Variable {
			continue
		}
		if value, ok := req.Payload.Get(field.ID); ok {
			return value, true
		}
	}
	return nil, false
}

// resolveLabel matches the human label, either verbatim (case-insensitive) or
// converted to its camelCase key form.
func resolveLabel(req Request) (any, bool) {
	for _, field := range req.Catalog {
		if field.Label == "" {
			continue
		}
		if !catalog.EqualFold(field.Label, req.Variable) &&
			catalog.CamelCase(field.Label) != req.Variable {
			continue
		}
		if value, ok := req.Payload.Get(field.ID); ok {
			return value, true
		}
	}
	return nil, false
}

// resolveSemanticRole serves variables that name a recognised role directly.
// A field matched by declared type outranks one matched by label substring,
// which outranks a raw scan of the payload keys themselves.
func resolveSemanticRole(req Request) (any, bool) {
	role, ok := semantics.FromVariable(req.Variable)
	if !ok {
		return nil, false
	}
	if match, ok := req.Roles.Lookup(role); ok {
		return match.Value, true
	}
	if role == semantics.RoleEmail {
		// Last resort: any payload key mentioning email whose value looks
		// like an address.
		for _, key := range req.Payload.Keys() {
			if !strings.Contains(strings.ToLower(key), "email") {
				continue
			}
			value, _ := req.Payload.Get(key)
			if s, ok := value.(string); ok && strings.Contains(s, "@") {
				return s, true
			}
		}
	}
	return nil, false
}

// aliasPattern describes one family of canonical spellings for a well-known
// variable, plus the normalised root used for the substring scan.
type aliasPattern struct {
	root     string
	literals []string
}

var aliasPatterns = map[string]aliasPattern{
	"firstname": {root: "firstname", literals: []string{"firstName", "first_name", "fname", "FirstName", "firstname"}},
	"fname":     {root: "firstname", literals: []string{"firstName", "first_name", "fname", "FirstName", "firstname"}},
	"lastname":  {root: "lastname", literals: []string{"lastName", "last_name", "lname", "LastName", "lastname"}},
	"lname":     {root: "lastname", literals: []string{"lastName", "last_name", "lname", "LastName", "lastname"}},
	"leadid":    {root: "leadid", literals: []string{"leadId", "lead_id", "LeadId", "leadID"}},
}

// resolveAliasPattern tries the fixed list of common literal spellings for
// first/last-name and lead-id variables, then falls back to a substring scan
// of the payload keys for the same root.
func resolveAliasPattern(req Request) (any, bool) {
	pattern, ok := aliasPatterns[normalizeKey(req.Variable)]
	if !ok {
		return nil, false
	}
	for _, literal := range pattern.literals {
		if value, ok := req.Payload.Get(literal); ok {
			return value, true
		}
	}
	for _, key := range req.Payload.Keys() {
		if strings.Contains(normalizeKey(key), pattern.root) {
			value, _ := req.Payload.Get(key)
			return value, true
		}
	}
	return nil, false
}

// resolveSimilarity accepts any descriptor id or payload key that contains
// the variable, or that the variable contains, ignoring case.
func resolveSimilarity(req Request) (any, bool) {
	variable := strings.ToLower(req.Variable)
	if variable == "" {
		return nil, false
	}
	for _, field := range req.Catalog {
		id := strings.ToLower(field.ID)
		if id == "" || (!strings.Contains(id, variable) && !strings.Contains(variable, id)) {
			continue
		}
		if value, ok := req.Payload.Get(field.ID); ok {
			return value, true
		}
	}
	for _, key := range req.Payload.Keys() {
		lower := strings.ToLower(key)
		if strings.Contains(lower, variable) || strings.Contains(variable, lower) {
			value, _ := req.Payload.Get(key)
			return value, true
		}
	}
	return nil, false
}

// commonPrefixes are the UI-library prefixes form builders prepend to field
// ids, in snake_case and camelCase forms.
var commonPrefixes = []struct {
	snake string
	camel string
}{
	{"inquiry_form_", "inquiryForm"},
	{"form_", "form"},
	{"field_", "field"},
	{"input_", "input"},
}

// resolveCommonPrefix retries the variable with each well-known prefix
// attached, in snake_case then camelCase form.
func resolveCommonPrefix(req Request) (any, bool) {
	if req.Variable == "" {
		return nil, false
	}
	for _, prefix := range commonPrefixes {
		if value, ok := req.Payload.GetFold(prefix.snake + req.Variable); ok {
			return value, true
		}
		camel := prefix.camel + strings.ToUpper(req.Variable[:1]) + req.Variable[1:]
		if value, ok := req.Payload.GetFold(camel); ok {
			return value, true
		}
	}
	return nil, false
}

// normalizeKey lowers an identifier and strips separator characters so
// first_name, first-name, and FirstName compare equal.
func normalizeKey(key string) string {
	var out strings.Builder
	for _, r := range strings.ToLower(key) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			out.WriteRune(r)
		}
	}
	return out.String()
}
