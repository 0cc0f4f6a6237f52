package catalog

import (
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
)

// Option customises an Extractor before construction.
type Option func(*Extractor)

// WithLogger injects the logger used to report malformed section/field
// payloads. Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Extractor) {
		if logger != nil {
			e.log = logger.Named("catalog")
		}
	}
}

// Extractor flattens a form's nested, possibly JSON-encoded section/field
// structure into a single list of field descriptors. It never returns an
// error: malformed JSON in one source is logged and contributes no fields
// while the other source still proceeds.
type Extractor struct {
	log *zap.Logger
}

// NewExtractor constructs an Extractor applying any provided options.
func NewExtractor(options ...Option) *Extractor {
	e := &Extractor{log: zap.NewNop()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(e)
	}
	return e
}

// Extract returns every field descriptor reachable from the form: all
// section fields first, then top-level fields. The input form is never
// mutated.
func (e *Extractor) Extract(form Form) []FieldDescriptor {
	var out []FieldDescriptor

	sections, err := coerceSections(form.Sections)
	if err != nil {
		e.log.Error("discarding unreadable sections",
			zap.String("form_id", form.ID),
			zap.Error(err))
	}
	for _, section := range sections {
		out = append(out, section.Fields...)
	}

	fields, err := coerceFields(form.Fields)
	if err != nil {
		e.log.Error("discarding unreadable fields",
			zap.String("form_id", form.ID),
			zap.Error(err))
	}
	out = append(out, fields...)

	return out
}

// coerceSections accepts nil, a JSON string (possibly double-encoded), a raw
// JSON payload, or an already-parsed slice.
func coerceSections(raw any) ([]Section, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case []Section:
		return v, nil
	case string:
		var sections []Section
		if err := unmarshalLoose([]byte(v), &sections); err != nil {
			return nil, fmt.Errorf("catalog: parse sections: %w", err)
		}
		return sections, nil
	case json.RawMessage:
		var sections []Section
		if err := unmarshalLoose(v, &sections); err != nil {
			return nil, fmt.Errorf("catalog: parse sections: %w", err)
		}
		return sections, nil
	case []any:
		return sectionsFromSlice(v)
	default:
		return nil, fmt.Errorf("catalog: unsupported sections shape %T", raw)
	}
}

func coerceFields(raw any) ([]FieldDescriptor, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case []FieldDescriptor:
		return v, nil
	case string:
		var fields []FieldDescriptor
		if err := unmarshalLoose([]byte(v), &fields); err != nil {
			return nil, fmt.Errorf("catalog: parse fields: %w", err)
		}
		return fields, nil
	case json.RawMessage:
		var fields []FieldDescriptor
		if err := unmarshalLoose(v, &fields); err != nil {
			return nil, fmt.Errorf("catalog: parse fields: %w", err)
		}
		return fields, nil
	case []any:
		return fieldsFromSlice(v)
	default:
		return nil, fmt.Errorf("catalog: unsupported fields shape %T", raw)
	}
}

// unmarshalLoose decodes data into out, tolerating one level of
// double-encoding ("\"[...]\"" produced by stringify-twice persistence bugs).
func unmarshalLoose(data []byte, out any) error {
	if err := json.Unmarshal(data, out); err == nil {
		return nil
	}
	var inner string
	if err := json.Unmarshal(data, &inner); err == nil {
		return json.Unmarshal([]byte(inner), out)
	}
	return json.Unmarshal(data, out)
}

func sectionsFromSlice(items []any) ([]Section, error) {
	data, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("catalog: encode sections: %w", err)
	}
	var sections []Section
	if err := json.Unmarshal(data, &sections); err != nil {
		return nil, fmt.Errorf("catalog: parse sections: %w", err)
	}
	return sections, nil
}

func fieldsFromSlice(items []any) ([]FieldDescriptor, error) {
	data, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("catalog: encode fields: %w", err)
	}
	var fields []FieldDescriptor
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("catalog: parse fields: %w", err)
	}
	return fields, nil
}
