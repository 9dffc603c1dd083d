// Package flight defines the flat flight record handed to the save
// collaborator once a logbook entry form is submitted. Records are plain
// values: every field is a string except PilotInCommand, and the optional ID
// and Remarks are pointers so "absent" survives JSON round trips.
package flight
