package catalog

// Field type vocabulary as authored in the form builder. Authors pick from a
// fixed list; unknown values are carried through untouched so a newer builder
// does not break an older engine.
const (
	FieldTypeText     = "text"
	FieldTypeEmail    = "email"
	FieldTypeTel      = "tel"
	FieldTypePhone    = "phone"
	FieldTypeName     = "name"
	FieldTypeTextarea = "textarea"
	FieldTypeSelect   = "select"
	FieldTypeCheckbox = "checkbox"
	FieldTypeRadio    = "radio"
	FieldTypeDate     = "date"
	FieldTypeNumber   = "number"
)

// FieldDescriptor is one form field as authored. ID is ephemeral and may
// change across edits; StableID, once assigned, never changes for the life of
// the field even when ID, Label, or Type do. Mapping is an author-supplied
// semantic alias independent of both.
type FieldDescriptor struct {
	ID       string `json:"id"`
	StableID string `json:"stableId,omitempty"`
	Mapping  string `json:"mapping,omitempty"`
	Label    string `json:"label,omitempty"`
	Type     string `json:"type,omitempty"`
}

// Section groups fields inside a form. Sections carry no identity the engine
// cares about; only their fields matter.
type Section struct {
	Fields []FieldDescriptor `json:"fields,omitempty"`
}

// Form is the record handed over by the form store. Sections and Fields are
// deliberately loose: each may be absent, a JSON string (sometimes
// double-encoded by upstream persistence), or an already-parsed slice. The
// extractor absorbs all of those shapes.
type Form struct {
	ID       string `json:"id"`
	Name     string `json:"name,omitempty"`
	Sections any    `json:"sections,omitempty"`
	Fields   any    `json:"fields,omitempty"`
}
