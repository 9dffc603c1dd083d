package flight

// Record is one logbook entry. JSON field names follow the camelCase names
// used by the entry form so form values, records, and wire payloads share one
// vocabulary.
type Record struct {
	ID             *int64  `json:"id,omitempty" yaml:"id,omitempty"`
	Date           string  `json:"date" yaml:"date"`
	AircraftType   string  `json:"aircraftType" yaml:"aircraftType"`
	Registration   string  `json:"registration" yaml:"registration"`
	Departure      string  `json:"departure" yaml:"departure"`
	Arrival        string  `json:"arrival" yaml:"arrival"`
	DepartureTime  string  `json:"departureTime" yaml:"departureTime"`
	ArrivalTime    string  `json:"arrivalTime" yaml:"arrivalTime"`
	TotalTime      string  `json:"totalTime" yaml:"totalTime"`
	PilotInCommand bool    `json:"pilotInCommand" yaml:"pilotInCommand"`
	Remarks        *string `json:"remarks,omitempty" yaml:"remarks,omitempty"`
}

// Partial is a sparse record where nil means "not supplied". It is the input
// accepted by FromObject.
type Partial struct {
	ID             *int64  `json:"id,omitempty"`
	Date           *string `json:"date,omitempty"`
	AircraftType   *string `json:"aircraftType,omitempty"`
	Registration   *string `json:"registration,omitempty"`
	Departure      *string `json:"departure,omitempty"`
	Arrival        *string `json:"arrival,omitempty"`
	DepartureTime  *string `json:"departureTime,omitempty"`
	ArrivalTime    *string `json:"arrivalTime,omitempty"`
	TotalTime      *string `json:"totalTime,omitempty"`
	PilotInCommand *bool   `json:"pilotInCommand,omitempty"`
	Remarks        *string `json:"remarks,omitempty"`
}

// Empty returns the blank record a new entry starts from: empty strings,
// pilot in command, no id and no remarks.
func Empty() Record {
	return Record{PilotInCommand: true}
}

// FromObject completes a partial record, defaulting every missing string to
// "", PilotInCommand to true, and leaving ID and Remarks nil when absent.
func FromObject(p Partial) Record {
	return Record{
		ID:             cloneInt(p.ID),
		Date:           stringOr(p.Date),
		AircraftType:   stringOr(p.AircraftType),
		Registration:   stringOr(p.Registration),
		Departure:      stringOr(p.Departure),
		Arrival:        stringOr(p.Arrival),
		DepartureTime:  stringOr(p.DepartureTime),
		ArrivalTime:    stringOr(p.ArrivalTime),
		TotalTime:      stringOr(p.TotalTime),
		PilotInCommand: p.PilotInCommand == nil || *p.PilotInCommand,
		Remarks:        cloneString(p.Remarks),
	}
}

// Partial converts the record into a fully populated Partial.
func (r Record) Partial() Partial {
	pic := r.PilotInCommand
	return Partial{
		ID:             cloneInt(r.ID),
		Date:           ptr(r.Date),
		AircraftType:   ptr(r.AircraftType),
		Registration:   ptr(r.Registration),
		Departure:      ptr(r.Departure),
		Arrival:        ptr(r.Arrival),
		DepartureTime:  ptr(r.DepartureTime),
		ArrivalTime:    ptr(r.ArrivalTime),
		TotalTime:      ptr(r.TotalTime),
		PilotInCommand: &pic,
		Remarks:        cloneString(r.Remarks),
	}
}

// WithID returns a copy of the record carrying id.
func (r Record) WithID(id int64) Record {
	r.ID = &id
	r.Remarks = cloneString(r.Remarks)
	return r
}

// RemarksText returns the remarks or "" when absent.
func (r Record) RemarksText() string {
	if r.Remarks == nil {
		return ""
	}
	return *r.Remarks
}

// Values flattens the record into the name/value pairs used by the entry
// form. ID is omitted; absent remarks become "".
func (r Record) Values() map[string]any {
	return map[string]any{
		"date":           r.Date,
		"aircraftType":   r.AircraftType,
		"registration":   r.Registration,
		"departure":      r.Departure,
		"arrival":        r.Arrival,
		"departureTime":  r.DepartureTime,
		"arrivalTime":    r.ArrivalTime,
		"totalTime":      r.TotalTime,
		"pilotInCommand": r.PilotInCommand,
		"remarks":        r.RemarksText(),
	}
}

func stringOr(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func ptr[T any](v T) *T {
	return &v
}

func cloneString(v *string) *string {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}

func cloneInt(v *int64) *int64 {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}
