// Package transport saves flight entries over HTTP. Client implements
// form.Saver against the saveFlight operation described by pkg/openapi.
package transport
