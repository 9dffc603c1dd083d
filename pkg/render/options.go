package render

import theme "github.com/goliatone/go-theme"

// Endpoints are the URLs an HTML form posts its actions to. Empty entries
// leave the corresponding control without a target.
type Endpoints struct {
	Submit string
	Change string
	Blur   string
	Reset  string
	Live   string
}

// FormEndpoints derives the action URLs of a mounted form from its base path,
// e.g. "/forms/01HX...".
func FormEndpoints(base string) Endpoints {
	if base == "" {
		return Endpoints{}
	}
	return Endpoints{
		Submit: base + "/submit",
		Change: base + "/change",
		Blur:   base + "/blur",
		Reset:  base + "/reset",
		Live:   base + "/live",
	}
}

// RenderOptions describe per-request data that renderers can use to customise
// their output without touching the form state.
type RenderOptions struct {
	// FormID identifies the mounted form instance.
	FormID string
	// Endpoints carries the action URLs for HTML renderers.
	Endpoints Endpoints
	// HiddenFields are emitted as hidden inputs, sorted by name.
	HiddenFields map[string]string
	// Theme carries resolved go-theme tokens, partials and asset URLs.
	Theme *theme.RendererConfig
}
