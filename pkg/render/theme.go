package render

import (
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"
)

// ThemeConfig derives the renderer configuration from a theme selection:
// manifest tokens overlaid with the variant's, CSS variables named "--token",
// partials merged over fallbacks, and an asset resolver rooted at the
// manifest's asset prefix. It returns nil for a nil selection.
func ThemeConfig(selection *theme.Selection, fallbacks map[string]string) *theme.RendererConfig {
	if selection == nil {
		return nil
	}

	cfg := &theme.RendererConfig{
		Theme:    selection.Theme,
		Variant:  selection.Variant,
		Partials: copyStrings(fallbacks),
		Tokens:   map[string]string{},
	}

	assets := map[string]string{}
	prefix := ""
	if manifest := selection.Manifest; manifest != nil {
		if cfg.Theme == "" {
			cfg.Theme = manifest.Name
		}
		overlay(cfg.Tokens, manifest.Tokens)
		cfg.Partials = overlay(cfg.Partials, manifest.Templates)
		overlay(assets, manifest.Assets.Files)
		prefix = manifest.Assets.Prefix

		if variant, ok := manifest.Variants[selection.Variant]; ok {
			overlay(cfg.Tokens, variant.Tokens)
			cfg.Partials = overlay(cfg.Partials, variant.Templates)
			overlay(assets, variant.Assets.Files)
			if variant.Assets.Prefix != "" {
				prefix = variant.Assets.Prefix
			}
		}
	}

	cfg.CSSVars = CSSVars(cfg.Tokens)
	cfg.AssetURL = func(key string) string {
		file, ok := assets[key]
		if !ok || file == "" {
			return ""
		}
		if prefix == "" || strings.HasPrefix(file, "/") || strings.Contains(file, "://") {
			return file
		}
		return strings.TrimRight(prefix, "/") + "/" + strings.TrimLeft(file, "/")
	}
	return cfg
}

// CSSVars turns design tokens into CSS custom properties.
func CSSVars(tokens map[string]string) map[string]string {
	if len(tokens) == 0 {
		return nil
	}
	out := make(map[string]string, len(tokens))
	for key, value := range tokens {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		if !strings.HasPrefix(key, "--") {
			key = "--" + strings.ReplaceAll(key, ".", "-")
		}
		out[key] = value
	}
	return out
}

// CSSVarsStyle renders CSS variables as a deterministic inline style value.
func CSSVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, key := range keys {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(vars[key])
		b.WriteByte(';')
	}
	return b.String()
}

func overlay(dst, src map[string]string) map[string]string {
	if len(src) == 0 {
		return dst
	}
	if dst == nil {
		dst = make(map[string]string, len(src))
	}
	for key, value := range src {
		dst[key] = value
	}
	return dst
}

func copyStrings(in map[string]string) map[string]string {
	if len(in) == 0 {
		return nil
	}
	return overlay(nil, in)
}
