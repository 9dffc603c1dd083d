package formstate

import (
	"time"

	"github.com/goliatone/go-logbook/pkg/model"
	"github.com/goliatone/go-logbook/pkg/validation"
)

const (
	// MaxRemarksLength bounds the free-text remarks field.
	MaxRemarksLength = 500
	// MaxTotalTime bounds a single entry's total time.
	MaxTotalTime = 24 * time.Hour
)

// FlightRules returns the validators of the logbook entry form keyed by
// field name. pilotInCommand is a checkbox and has no rule.
func FlightRules() map[string]validation.Rule {
	airfield := validation.Chain(
		validation.Required(""),
		validation.Pattern(`^[A-Za-z0-9]{3,4}$`, "must be a 3 or 4 character airfield code"),
	)
	clock := validation.Chain(
		validation.Required(""),
		validation.Clock(""),
	)

	return map[string]validation.Rule{
		model.FieldDate: validation.Chain(
			validation.Required(""),
			validation.Date(""),
		),
		model.FieldAircraftType: validation.Chain(
			validation.Required(""),
			validation.MinLength(3, ""),
			validation.MaxLength(20, ""),
			validation.Pattern(`^[A-Za-z0-9][A-Za-z0-9 /-]*$`, "may only contain letters, digits, spaces, '-' and '/'"),
		),
		model.FieldRegistration: validation.Chain(
			validation.Required(""),
			validation.MinLength(2, ""),
			validation.MaxLength(10, ""),
			validation.Pattern(`^[A-Za-z0-9]+(-[A-Za-z0-9]+)?$`, "may only contain letters and digits with one optional '-'"),
		),
		model.FieldDeparture:     airfield,
		model.FieldArrival:       airfield,
		model.FieldDepartureTime: clock,
		model.FieldArrivalTime:   clock,
		model.FieldTotalTime:     validation.Optional(validation.Hours(MaxTotalTime, "")),
		model.FieldRemarks:       validation.MaxLength(MaxRemarksLength, ""),
	}
}
