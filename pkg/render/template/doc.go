// Package template defines the template rendering seam used by the HTML
// renderers. Implementations live in subpackages.
package template
