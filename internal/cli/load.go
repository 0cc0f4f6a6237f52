package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formvars/pkg/catalog"
)

// LoadForm reads a form definition from a JSON or YAML file. YAML documents
// go through a JSON round-trip so the camelCase field tags (stableId,
// mapping) apply to both formats.
func LoadForm(path string) (catalog.Form, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return catalog.Form{}, fmt.Errorf("cli: read form: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var doc any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return catalog.Form{}, fmt.Errorf("cli: parse form yaml: %w", err)
		}
		data, err = json.Marshal(doc)
		if err != nil {
			return catalog.Form{}, fmt.Errorf("cli: convert form yaml: %w", err)
		}
	}

	var form catalog.Form
	if err := json.Unmarshal(data, &form); err != nil {
		return catalog.Form{}, fmt.Errorf("cli: parse form: %w", err)
	}
	if form.ID == "" {
		return catalog.Form{}, fmt.Errorf("cli: form %s has no id", path)
	}
	return form, nil
}

// LoadPayload reads a submission payload from a JSON file. Both payload
// shapes are accepted: a flat object or an array of {id, value} items.
func LoadPayload(path string) (any, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cli: read payload: %w", err)
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("cli: parse payload: %w", err)
	}
	return doc, nil
}

// LoadTemplate returns the template text either inline or from a file.
func LoadTemplate(text, path string) (string, error) {
	if text != "" {
		return text, nil
	}
	if path == "" {
		return "", fmt.Errorf("cli: provide --text or --template")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("cli: read template: %w", err)
	}
	return string(data), nil
}
