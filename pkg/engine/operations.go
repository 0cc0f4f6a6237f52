package engine

import (
	"context"

	"go.uber.org/zap"

	"github.com/goliatone/go-formvars/pkg/catalog"
	"github.com/goliatone/go-formvars/pkg/payload"
	"github.com/goliatone/go-formvars/pkg/resolve"
	"github.com/goliatone/go-formvars/pkg/semantics"
)

// Render runs the full tokenize → resolve → substitute pipeline and returns
// the rendered string. Unresolved variables become empty strings; a failure
// to fetch the form's catalog, or any unexpected panic, degrades to returning
// the original template unmodified.
func (e *Engine) Render(ctx context.Context, tmpl, formID string, rawPayload any) (result string) {
	result = tmpl
	defer func() {
		if r := recover(); r != nil {
			e.log.Error("render recovered, returning template unmodified",
				zap.String("form_id", formID),
				zap.Any("panic", r))
			result = tmpl
		}
	}()
	if ctx == nil {
		ctx = context.Background()
	}

	flat := payload.Normalize(rawPayload)
	fields, ok := e.loadCatalog(ctx, formID)
	if !ok {
		return tmpl
	}
	fields = append(fields, itemDescriptors(flat)...)
	roles := semantics.Recognize(fields, flat)

	return e.templates.Substitute(ctx, tmpl, func(ctx context.Context, name string) (string, bool) {
		return e.resolveVariable(ctx, formID, name, flat, fields, roles)
	})
}

// ResolveAllMappings returns a new map containing the original payload keys
// plus every alias the engine can derive: stable ids, author mappings,
// camelCase labels, semantic roles, and precomputed display keys. Aliases
// never clobber an existing key; on failure the original payload values are
// returned as-is in a fresh map. The input payload is never mutated.
func (e *Engine) ResolveAllMappings(ctx context.Context, formID string, rawPayload any) (result map[string]any) {
	flat := payload.Normalize(rawPayload)
	result = flat.Values()
	defer func() {
		if r := recover(); r != nil {
			e.log.Error("mapping resolution recovered, returning unmapped payload",
				zap.String("form_id", formID),
				zap.Any("panic", r))
			result = flat.Values()
		}
	}()
	if ctx == nil {
		ctx = context.Background()
	}

	fields, ok := e.loadCatalog(ctx, formID)
	if !ok {
		return result
	}
	fields = append(fields, itemDescriptors(flat)...)

	setIfAbsent := func(key string, value any) {
		if key == "" {
			return
		}
		if _, exists := result[key]; !exists {
			result[key] = value
		}
	}

	for _, field := range fields {
		value, found := flat.Get(field.ID)
		if !found {
			continue
		}
		setIfAbsent(field.StableID, value)
		setIfAbsent(field.Mapping, value)
		setIfAbsent(catalog.CamelCase(field.Label), value)
	}

	roles := semantics.Recognize(fields, flat)
	// Type-derived roles first: with set-if-absent semantics the earlier
	// write wins, preserving the type-over-label preference.
	for role, match := range roles.ByType {
		setIfAbsent(string(role), match.Value)
	}
	for role, match := range roles.ByLabel {
		setIfAbsent(string(role), match.Value)
	}

	for _, mapped := range flat.Mapped() {
		setIfAbsent(mapped.DisplayKey, mapped.Value)
	}
	return result
}

// ResolveOne maps a known field id to its best stable alias: the stable id,
// else the author mapping, else the camelCase label, else the id itself.
func (e *Engine) ResolveOne(ctx context.Context, formID, fieldID string) (result string) {
	result = fieldID
	defer func() {
		if r := recover(); r != nil {
			e.log.Error("alias resolution recovered",
				zap.String("form_id", formID),
				zap.String("field_id", fieldID),
				zap.Any("panic", r))
			result = fieldID
		}
	}()
	if ctx == nil {
		ctx = context.Background()
	}

	fields, ok := e.loadCatalog(ctx, formID)
	if !ok {
		return fieldID
	}
	for _, field := range fields {
		if field.ID != fieldID {
			continue
		}
		switch {
		case field.StableID != "":
			return field.StableID
		case field.Mapping != "":
			return field.Mapping
		case catalog.CamelCase(field.Label) != "":
			return catalog.CamelCase(field.Label)
		default:
			return fieldID
		}
	}
	return fieldID
}

func (e *Engine) loadCatalog(ctx context.Context, formID string) ([]catalog.FieldDescriptor, bool) {
	form, err := e.forms.GetForm(ctx, formID)
	if err != nil {
		e.log.Error("form fetch failed",
			zap.String("form_id", formID),
			zap.Error(err))
		return nil, false
	}
	return e.extractor.Extract(form), true
}

func (e *Engine) resolveVariable(ctx context.Context, formID, name string, flat payload.Flat, fields []catalog.FieldDescriptor, roles semantics.Roles) (string, bool) {
	if value, ok := e.sysvars.Resolve(formID, name, flat); ok {
		e.observer.ObserveResolution(resolve.Event{
			Kind:     resolve.EventSystemVariable,
			FormID:   formID,
			Variable: name,
		})
		return value, true
	}
	value, ok := e.resolver.Resolve(ctx, resolve.Request{
		FormID:   formID,
		Variable: name,
		Payload:  flat,
		Catalog:  fields,
		Roles:    roles,
	})
	if !ok {
		return "", false
	}
	rendered := Stringify(value)
	if e.sanitizer != nil {
		rendered = e.sanitizer.Sanitize(rendered)
	}
	return rendered, true
}

// itemDescriptors turns array-shaped payload items that carry their own type
// or label into synthetic descriptors, so submissions recorded without a
// current form edit still feed the recogniser. An item typed "name" lands on
// the generic name role exactly as flat fields do.
func itemDescriptors(flat payload.Flat) []catalog.FieldDescriptor {
	items := flat.Items()
	if len(items) == 0 {
		return nil
	}
	out := make([]catalog.FieldDescriptor, 0, len(items))
	for _, item := range items {
		if item.Type == "" && item.Label == "" {
			continue
		}
		out = append(out, catalog.FieldDescriptor{
			ID:    item.ID,
			Type:  item.Type,
			Label: item.Label,
		})
	}
	return out
}
