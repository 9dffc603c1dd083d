// Package openapi describes the flight record and its save operation as an
// OpenAPI 3 document. The transport client validates outgoing records against
// it and the server publishes it for API consumers.
package openapi
