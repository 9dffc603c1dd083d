package render

import (
	"context"

	"github.com/goliatone/go-logbook/pkg/formstate"
	"github.com/goliatone/go-logbook/pkg/model"
)

// View is what a renderer draws: the form declaration for labels, hints and
// buttons, and the state snapshot for values, errors and the submitting flag.
type View struct {
	Definition model.Definition
	State      formstate.State
}

// NewView pairs an engine's declaration with a state snapshot.
func NewView(engine *formstate.Engine, state formstate.State) View {
	return View{Definition: engine.Definition(), State: state}
}

// Renderer converts a View into a byte representation (HTML, terminal text,
// JSON).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, view View, options RenderOptions) ([]byte, error)
}
