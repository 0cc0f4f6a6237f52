package semantics

import (
	"testing"

	"github.com/goliatone/go-formvars/pkg/catalog"
	"github.com/goliatone/go-formvars/pkg/payload"
)

func TestRecognize_ByDeclaredType(t *testing.T) {
	fields := []catalog.FieldDescriptor{
		{ID: "f1", Type: catalog.FieldTypeEmail, Label: "Contact"},
		{ID: "f2", Type: catalog.FieldTypeTel},
		{ID: "f3", Type: catalog.FieldTypeName},
	}
	flat := payload.Normalize(map[string]any{
		"f1": "a@b.com",
		"f2": "555-0100",
		"f3": "Ada Lovelace",
	})

	roles := Recognize(fields, flat)

	for role, want := range map[Role]any{
		RoleEmail: "a@b.com",
		RolePhone: "555-0100",
		RoleName:  "Ada Lovelace",
	} {
		m, ok := roles.ByType[role]
		if !ok || m.Value != want {
			t.Errorf("ByType[%s] = %#v, %v; want %v", role, m, ok, want)
		}
	}
}

func TestRecognize_TextFieldIDSubstrings(t *testing.T) {
	fields := []catalog.FieldDescriptor{
		{ID: "first_name", Type: catalog.FieldTypeText},
		{ID: "lastName", Type: catalog.FieldTypeText},
		{ID: "company_field", Type: catalog.FieldTypeText},
		{ID: "nickname", Type: catalog.FieldTypeText},
	}
	flat := payload.Normalize(map[string]any{
		"first_name":    "Ada",
		"lastName":      "Lovelace",
		"company_field": "Analytical Engines",
		"nickname":      "AL",
	})

	roles := Recognize(fields, flat)

	if m := roles.ByType[RoleFirstName]; m.Value != "Ada" {
		t.Errorf("firstName = %#v", m)
	}
	if m := roles.ByType[RoleLastName]; m.Value != "Lovelace" {
		t.Errorf("lastName = %#v", m)
	}
	if m := roles.ByType[RoleCompany]; m.Value != "Analytical Engines" {
		t.Errorf("company = %#v", m)
	}
	// "nickname" contains "name" but not firstname/lastname, so it lands on
	// the generic name role.
	if m := roles.ByType[RoleName]; m.Value != "AL" {
		t.Errorf("name = %#v", m)
	}
}

func TestRecognize_ByLabel(t *testing.T) {
	fields := []catalog.FieldDescriptor{
		{ID: "a", Label: "Work Email"},
		{ID: "b", Label: "Phone Number"},
		{ID: "c", Label: "First Name"},
		{ID: "d", Label: "Last Name"},
		{ID: "e", Label: "Full Name"},
		{ID: "f", Label: "Organization"},
		{ID: "g", Label: "Street Address"},
		{ID: "h", Label: "Email Address"},
		{ID: "i", Label: "City"},
		{ID: "j", Label: "State / Province"},
		{ID: "k", Label: "ZIP Code"},
		{ID: "l", Label: "Country"},
	}
	values := map[string]any{}
	for _, f := range fields {
		values[f.ID] = f.ID + "-value"
	}
	roles := Recognize(fields, payload.Normalize(values))

	want := map[Role]string{
		RoleEmail:     "h", // later email-labelled field overwrites "a"
		RolePhone:     "b",
		RoleFirstName: "c",
		RoleLastName:  "d",
		RoleName:      "e",
		RoleCompany:   "f",
		RoleAddress:   "g", // "Email Address" excluded by the email guard
		RoleCity:      "i",
		RoleState:     "j",
		RoleZip:       "k",
		RoleCountry:   "l",
	}
	for role, fieldID := range want {
		m, ok := roles.ByLabel[role]
		if !ok || m.FieldID != fieldID {
			t.Errorf("ByLabel[%s] = %#v, %v; want field %s", role, m, ok, fieldID)
		}
	}
}

func TestLookup_PrefersTypeOverLabel(t *testing.T) {
	fields := []catalog.FieldDescriptor{
		{ID: "typed", Type: catalog.FieldTypeEmail},
		{ID: "labelled", Label: "Email"},
	}
	flat := payload.Normalize(map[string]any{
		"typed":    "typed@b.com",
		"labelled": "labelled@b.com",
	})

	roles := Recognize(fields, flat)
	m, ok := roles.Lookup(RoleEmail)
	if !ok || m.Value != "typed@b.com" {
		t.Fatalf("Lookup(email) = %#v, %v; want the type-matched value", m, ok)
	}
}

func TestRecognize_SkipsFieldsWithoutValues(t *testing.T) {
	fields := []catalog.FieldDescriptor{{ID: "f1", Type: catalog.FieldTypeEmail}}
	roles := Recognize(fields, payload.Normalize(nil))
	if _, ok := roles.Lookup(RoleEmail); ok {
		t.Fatalf("field without a value must not populate a role")
	}
}

func TestFromVariable(t *testing.T) {
	cases := []struct {
		in   string
		want Role
		ok   bool
	}{
		{"email", RoleEmail, true},
		{"firstName", RoleFirstName, true},
		{"first_name", RoleFirstName, true},
		{"LASTNAME", RoleLastName, true},
		{"zip", RoleZip, true},
		{"notARole", "", false},
	}
	for _, tc := range cases {
		got, ok := FromVariable(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Errorf("FromVariable(%q) = %q, %v; want %q, %v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}
