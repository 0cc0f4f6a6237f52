// Package catalog defines the typed field catalog consumed by the resolver:
// the form record handed over by the form store, the field descriptor with its
// three identities (ephemeral id, immutable stable id, author-supplied
// mapping), and the extractor that flattens the form's section/field structure
// into a single descriptor list. The extractor lives in internal/catalog but
// returns the types aliased here; it tolerates every payload shape form
// persistence has historically produced (absent, parsed slices, JSON strings,
// double-encoded JSON strings) and treats malformed input as "no fields from
// that source" rather than an error, so template resolution degrades instead
// of failing when a form record is damaged.
package catalog
