// Package payload normalises submission payloads into a single flat
// representation before any resolution strategy runs. Submissions arrive in
// two shapes depending on which client produced them: a flat object of
// fieldId→value pairs, or an array of {id, value} items (array items may also
// carry the field's type and label as captured at fill time). Either shape
// may be accompanied by a __mappedFields side structure precomputed by an
// upstream mapping pass. Strategies only ever see the normalised Flat view.
package payload

import (
	"encoding/json"
	"sort"
	"strings"
)

// MappedKey is the reserved payload key carrying precomputed display-key
// mappings alongside the raw field values.
const MappedKey = "__mappedFields"

// Item is one entry of an array-shaped submission.
type Item struct {
	ID    string `json:"id"`
	Value any    `json:"value"`
	Type  string `json:"type,omitempty"`
	Label string `json:"label,omitempty"`
}

// MappedField is one entry of the __mappedFields side structure.
type MappedField struct {
	DisplayKey string `json:"displayKey"`
	Value      any    `json:"value"`
}

// Flat is the normalised view of a submission: values keyed by field id, the
// original array items when the submission was array-shaped, and any
// precomputed mapped fields. A Flat is immutable after Normalize returns.
type Flat struct {
	values map[string]any
	keys   []string
	items  []Item
	mapped []MappedField
}

// Normalize converts any supported payload shape into a Flat. Unsupported
// shapes produce an empty Flat; Normalize never panics and never fails.
func Normalize(raw any) Flat {
	switch v := raw.(type) {
	case nil:
		return Flat{}
	case Flat:
		return v
	case map[string]any:
		return fromRecord(v)
	case []Item:
		return fromItems(v)
	case []any:
		return fromItemSlice(v)
	case []map[string]any:
		generic := make([]any, len(v))
		for i := range v {
			generic[i] = v[i]
		}
		return fromItemSlice(generic)
	case json.RawMessage:
		return fromJSON(v)
	case []byte:
		return fromJSON(v)
	case string:
		return fromJSON([]byte(v))
	default:
		return Flat{}
	}
}

// Get returns the raw value stored under the exact field id.
func (f Flat) Get(key string) (any, bool) {
	v, ok := f.values[key]
	return v, ok
}

// GetFold returns the value stored under key ignoring case. Exact matches are
// preferred when both exist.
func (f Flat) GetFold(key string) (any, bool) {
	if v, ok := f.values[key]; ok {
		return v, true
	}
	for _, k := range f.keys {
		if strings.EqualFold(k, key) {
			return f.values[k], true
		}
	}
	return nil, false
}

// Keys returns the field ids in sorted order so key scans are deterministic.
func (f Flat) Keys() []string {
	return f.keys
}

// Len reports the number of field values.
func (f Flat) Len() int {
	return len(f.values)
}

// Items returns the original array items, empty for flat-object submissions.
func (f Flat) Items() []Item {
	return f.items
}

// Mapped returns the precomputed mapped fields, if any.
func (f Flat) Mapped() []MappedField {
	return f.mapped
}

// MappedValue returns the mapped value whose display key equals name ignoring
// case.
func (f Flat) MappedValue(name string) (any, bool) {
	for _, m := range f.mapped {
		if strings.EqualFold(m.DisplayKey, name) {
			return m.Value, true
		}
	}
	return nil, false
}

// Values returns a fresh copy of the id→value map. Callers own the copy.
func (f Flat) Values() map[string]any {
	out := make(map[string]any, len(f.values))
	for k, v := range f.values {
		out[k] = v
	}
	return out
}

func fromRecord(record map[string]any) Flat {
	f := Flat{values: make(map[string]any, len(record))}
	for key, value := range record {
		if key == MappedKey {
			f.mapped = coerceMapped(value)
			continue
		}
		f.values[key] = value
	}
	f.keys = sortedKeys(f.values)
	return f
}

func fromItems(items []Item) Flat {
	f := Flat{
		values: make(map[string]any, len(items)),
		items:  make([]Item, 0, len(items)),
	}
	for _, item := range items {
		if item.ID == "" {
			continue
		}
		f.values[item.ID] = item.Value
		f.items = append(f.items, item)
	}
	f.keys = sortedKeys(f.values)
	return f
}

func fromItemSlice(raw []any) Flat {
	items := make([]Item, 0, len(raw))
	for _, entry := range raw {
		record, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		item := Item{
			ID:    stringAt(record, "id"),
			Value: record["value"],
			Type:  stringAt(record, "type"),
			Label: stringAt(record, "label"),
		}
		if item.ID == "" {
			item.ID = stringAt(record, "name")
		}
		items = append(items, item)
	}
	return fromItems(items)
}

func fromJSON(data []byte) Flat {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" {
		return Flat{}
	}
	var record map[string]any
	if err := json.Unmarshal([]byte(trimmed), &record); err == nil {
		return fromRecord(record)
	}
	var slice []any
	if err := json.Unmarshal([]byte(trimmed), &slice); err == nil {
		return fromItemSlice(slice)
	}
	return Flat{}
}

func coerceMapped(raw any) []MappedField {
	switch v := raw.(type) {
	case []MappedField:
		return v
	case []any:
		out := make([]MappedField, 0, len(v))
		for _, entry := range v {
			record, ok := entry.(map[string]any)
			if !ok {
				continue
			}
			key := stringAt(record, "displayKey")
			if key == "" {
				continue
			}
			out = append(out, MappedField{DisplayKey: key, Value: record["value"]})
		}
		return out
	default:
		return nil
	}
}

func stringAt(record map[string]any, key string) string {
	if v, ok := record[key].(string); ok {
		return v
	}
	return ""
}

func sortedKeys(values map[string]any) []string {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
