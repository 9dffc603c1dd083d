// Package form mounts a logbook entry form and drives it.
//
// A Form owns one formstate.State. Dispatch serialises actions through the
// reducer; Submit runs the submission algorithm: validate every field, mark
// the form submitting, hand the gathered record to the injected Saver
// outside the lock, then fold the outcome back in as SubmitSuccess or
// SubmitError. Reset and Close advance a generation counter so a save that
// completes after the form was reset or unmounted is discarded instead of
// clobbering the newer state.
package form
