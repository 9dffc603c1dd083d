package model

// FlightEntryID identifies the logbook entry form.
const FlightEntryID = "flight-entry"

// FlightEntry returns the declaration of the logbook entry form. Each call
// returns a fresh value.
func FlightEntry() Definition {
	return Definition{
		ID:    FlightEntryID,
		Title: "New Flight Entry",
		Fields: []Field{
			{Name: FieldDate, Label: "Date", Kind: InputDate, Required: true, Width: WidthHalf},
			{Name: FieldAircraftType, Label: "Aircraft type", Kind: InputText, Required: true, Placeholder: "C172"},
			{Name: FieldRegistration, Label: "Registration", Kind: InputText, Required: true, Placeholder: "G-ABCD"},
			{Name: FieldDeparture, Label: "Departure airfield", Kind: InputText, Required: true, Placeholder: "EGLL"},
			{Name: FieldArrival, Label: "Arrival airfield", Kind: InputText, Required: true, Placeholder: "EGKK"},
			{Name: FieldDepartureTime, Label: "Departure time", Kind: InputTime, Required: true, Width: WidthHalf},
			{Name: FieldArrivalTime, Label: "Arrival time", Kind: InputTime, Required: true, Width: WidthHalf},
			{Name: FieldTotalTime, Label: "Total time", Kind: InputNumber, Help: "Decimal hours; derived from the times when left empty"},
			{Name: FieldPilotInCommand, Label: "Pilot in command", Kind: InputCheckbox},
			{Name: FieldRemarks, Label: "Remarks", Kind: InputTextarea, ColSpan: 2},
		},
		Actions: []Action{
			{Kind: "submit", Label: "Save Flight"},
			{Kind: "reset", Label: "Reset"},
		},
	}
}
