package openapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-logbook/pkg/flight"
)

// Issue is one contract violation. Field is the record property the issue
// refers to, or "" for problems with the record as a whole.
type Issue struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func (i Issue) String() string {
	if i.Field == "" {
		return i.Message
	}
	return i.Field + ": " + i.Message
}

// Validator checks flight records against the contract's Flight schema. It
// is safe for concurrent use.
type Validator struct {
	schema *openapi3.Schema
}

// NewValidator builds a Validator from the bundled contract.
func NewValidator() (*Validator, error) {
	doc, err := Document()
	if err != nil {
		return nil, err
	}
	ref := doc.Components.Schemas[FlightSchema]
	if ref == nil || ref.Value == nil {
		return nil, fmt.Errorf("openapi: contract has no %s schema", FlightSchema)
	}
	return &Validator{schema: ref.Value}, nil
}

var (
	defaultValidatorOnce sync.Once
	defaultValidator     *Validator
	defaultValidatorErr  error
)

// DefaultValidator returns a shared Validator built on first use.
func DefaultValidator() (*Validator, error) {
	defaultValidatorOnce.Do(func() {
		defaultValidator, defaultValidatorErr = NewValidator()
	})
	return defaultValidator, defaultValidatorErr
}

// ValidateRecord validates record with the shared Validator.
func ValidateRecord(record flight.Record) []Issue {
	v, err := DefaultValidator()
	if err != nil {
		return []Issue{{Message: err.Error()}}
	}
	return v.Validate(record)
}

// Validate returns every violation of the Flight schema, sorted by field.
// A valid record yields nil.
func (v *Validator) Validate(record flight.Record) []Issue {
	// The schema visitor works on decoded JSON, not Go structs.
	raw, err := json.Marshal(record)
	if err != nil {
		return []Issue{{Message: fmt.Sprintf("encode record: %v", err)}}
	}
	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return []Issue{{Message: fmt.Sprintf("decode record: %v", err)}}
	}

	err = v.schema.VisitJSON(value, openapi3.MultiErrors())
	if err == nil {
		return nil
	}

	issues := collectIssues(err, nil)

	sort.SliceStable(issues, func(i, j int) bool {
		if issues[i].Field != issues[j].Field {
			return issues[i].Field < issues[j].Field
		}
		return issues[i].Message < issues[j].Message
	})
	return issues
}

// collectIssues flattens the nested MultiErrors produced for objects whose
// properties fail more than one keyword.
func collectIssues(err error, out []Issue) []Issue {
	if multi, ok := err.(openapi3.MultiError); ok {
		for _, item := range multi {
			out = collectIssues(item, out)
		}
		return out
	}
	return append(out, issueFrom(err))
}

func issueFrom(err error) Issue {
	var schemaErr *openapi3.SchemaError
	if !errors.As(err, &schemaErr) {
		return Issue{Message: err.Error()}
	}
	var field string
	if pointer := schemaErr.JSONPointer(); len(pointer) > 0 {
		field = pointer[0]
	}
	msg := strings.TrimSpace(schemaErr.Reason)
	if msg == "" {
		msg = schemaErr.Error()
	}
	return Issue{Field: field, Message: msg}
}

// Errors groups issues by field in the shape of the save operation's 422
// payload. Record-level issues are keyed by "".
func Errors(issues []Issue) map[string][]string {
	if len(issues) == 0 {
		return nil
	}
	out := make(map[string][]string)
	for _, issue := range issues {
		out[issue.Field] = append(out[issue.Field], issue.Message)
	}
	return out
}
