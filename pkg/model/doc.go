// Package model declares the logbook entry form: the ordered field set, each
// field's input kind, and the presentation hints renderers consume. The
// declaration is the single source of field names; the form state engine,
// renderers, and layout overlays all resolve names against it and treat an
// unknown name as a programming error. Layout documents (see pkg/uischema)
// adjust labels and hints through a Decorator without changing the field set
// or its order.
package model
