package tui

import (
	"context"

	"github.com/goliatone/go-logbook/pkg/flight"
	"github.com/goliatone/go-logbook/pkg/formstate"
)

// Dispatcher is the part of a mounted form the prompt loop drives.
type Dispatcher interface {
	State() formstate.State
	Dispatch(action formstate.Action) (formstate.State, error)
}

// Form is a mounted form that can also submit, such as *form.Form.
type Form interface {
	Dispatcher
	Submit(ctx context.Context) (flight.Record, error)
}

// detached applies actions to a state the renderer owns. Render uses it when
// there is no mounted form to drive.
type detached struct {
	engine *formstate.Engine
	state  formstate.State
}

func (d *detached) State() formstate.State {
	return d.state
}

func (d *detached) Dispatch(action formstate.Action) (formstate.State, error) {
	next, err := d.engine.Apply(d.state, action)
	if err != nil {
		return d.state, err
	}
	d.state = next
	return next, nil
}
