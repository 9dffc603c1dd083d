// Package server exposes mounted logbook forms over HTTP.
//
// Each visit to /flights/new mounts a form under a ULID and redirects to
// /forms/{id}. The page posts discrete actions to the form's endpoints and,
// with JavaScript, streams the same actions over /forms/{id}/live, receiving
// a freshly rendered form after each one. Idle forms are unmounted after the
// configured TTL.
package server
