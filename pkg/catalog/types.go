package catalog

import internalcatalog "github.com/goliatone/go-formvars/internal/catalog"

// FieldDescriptor re-exports the internal field descriptor.
type FieldDescriptor = internalcatalog.FieldDescriptor

// Section re-exports the internal form section.
type Section = internalcatalog.Section

// Form re-exports the internal form record.
type Form = internalcatalog.Form

// Extractor re-exports the internal catalog extractor.
type Extractor = internalcatalog.Extractor

// Option re-exports the internal extractor option type.
type Option = internalcatalog.Option

const (
	FieldTypeText     = internalcatalog.FieldTypeText
	FieldTypeEmail    = internalcatalog.FieldTypeEmail
	FieldTypeTel      = internalcatalog.FieldTypeTel
	FieldTypePhone    = internalcatalog.FieldTypePhone
	FieldTypeName     = internalcatalog.FieldTypeName
	FieldTypeTextarea = internalcatalog.FieldTypeTextarea
	FieldTypeSelect   = internalcatalog.FieldTypeSelect
	FieldTypeCheckbox = internalcatalog.FieldTypeCheckbox
	FieldTypeRadio    = internalcatalog.FieldTypeRadio
	FieldTypeDate     = internalcatalog.FieldTypeDate
	FieldTypeNumber   = internalcatalog.FieldTypeNumber
)

// NewExtractor constructs an extractor applying any provided options.
func NewExtractor(options ...Option) *Extractor {
	return internalcatalog.NewExtractor(options...)
}

// WithLogger injects the logger used to report malformed section/field
// payloads.
var WithLogger = internalcatalog.WithLogger

// CamelCase converts a human label into the camelCase key form used for
// label-based variable matching.
func CamelCase(label string) string {
	return internalcatalog.CamelCase(label)
}

// EqualFold reports whether two trimmed identifiers match ignoring case.
func EqualFold(a, b string) bool {
	return internalcatalog.EqualFold(a, b)
}
