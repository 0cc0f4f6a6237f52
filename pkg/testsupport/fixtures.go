// Package testsupport provides fixture loaders and canned records shared by
// tests across the module.
package testsupport

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/goliatone/go-formvars/pkg/catalog"
)

// LoadForm reads a JSON form fixture. Testing helpers fail the test on error
// to keep contract tests concise.
func LoadForm(t *testing.T, path string) catalog.Form {
	t.Helper()

	form, err := LoadFormFromPath(path)
	if err != nil {
		t.Fatalf("load form: %v", err)
	}
	return form
}

// LoadFormFromPath returns a form record without requiring testing.T, so
// callers can wire fixtures in setup functions.
func LoadFormFromPath(path string) (catalog.Form, error) {
	if path == "" {
		return catalog.Form{}, errors.New("testsupport: form path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return catalog.Form{}, fmt.Errorf("testsupport: read form: %w", err)
	}
	var form catalog.Form
	if err := json.Unmarshal(data, &form); err != nil {
		return catalog.Form{}, fmt.Errorf("testsupport: parse form: %w", err)
	}
	return form, nil
}

// LoadPayload reads a JSON payload fixture in either supported shape.
func LoadPayload(t *testing.T, path string) any {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("load payload: %v", err)
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("parse payload: %v", err)
	}
	return doc
}

// InquiryForm returns the canned contact form used across the test suites:
// an email field with a stable id, a first-name text field, and a phone field
// with an author mapping.
func InquiryForm() catalog.Form {
	return catalog.Form{
		ID: "inquiry-form-1",
		Sections: []catalog.Section{
			{Fields: []catalog.FieldDescriptor{
				{ID: "f1", Type: catalog.FieldTypeEmail, Label: "Your Email", StableID: "item_email"},
				{ID: "f2", Type: catalog.FieldTypeText, Label: "First Name"},
				{ID: "f3", Type: catalog.FieldTypeTel, Label: "Phone Number", Mapping: "contactPhone"},
			}},
		},
	}
}
