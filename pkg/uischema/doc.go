// Package uischema loads layout documents that adjust how the entry form is
// presented: title, action buttons, and per-field labels, help text,
// placeholders and grid hints. Layout never changes the field set or the
// validators; it is applied to a model.Definition through Decorator.
package uischema
