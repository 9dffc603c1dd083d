package uischema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-logbook/pkg/model"
)

// LoadFS walks the provided filesystem and parses JSON/YAML layout files.
// When fsys is nil or holds no layout files, the returned store is empty.
func LoadFS(fsys fs.FS) (*Store, error) {
	store := &Store{forms: make(map[string]Form)}
	if fsys == nil {
		return store, nil
	}

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isSchemaFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("uischema: read %s: %w", path, err)
		}

		doc, err := parseDocument(data, path)
		if err != nil {
			return err
		}

		for formID, raw := range doc.Forms {
			id := strings.TrimSpace(formID)
			if id == "" {
				return fmt.Errorf("uischema: file %s defines an empty form id", path)
			}
			if _, exists := store.forms[id]; exists {
				return fmt.Errorf("uischema: duplicate form %q (file %s)", id, path)
			}

			form, err := normaliseForm(raw, id, path)
			if err != nil {
				return err
			}
			store.forms[id] = form
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return store, nil
}

// Form returns the layout for the supplied form id.
func (s *Store) Form(id string) (Form, bool) {
	if s == nil {
		return Form{}, false
	}
	form, ok := s.forms[id]
	return form, ok
}

// IDs lists the form ids with a layout, sorted.
func (s *Store) IDs() []string {
	if s == nil {
		return nil
	}
	ids := make([]string, 0, len(s.forms))
	for id := range s.forms {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Empty reports whether the store holds any layouts.
func (s *Store) Empty() bool {
	return s == nil || len(s.forms) == 0
}

type documentFile struct {
	Forms map[string]formFile `json:"forms" yaml:"forms"`
}

type formFile struct {
	Form   FormConfig             `json:"form" yaml:"form"`
	Fields map[string]FieldConfig `json:"fields" yaml:"fields"`
}

// parseDocument decodes JSON or YAML strictly: unknown keys are an error so
// typos in layout files do not pass silently.
func parseDocument(data []byte, source string) (documentFile, error) {
	var doc documentFile
	if len(bytes.TrimSpace(data)) == 0 {
		return documentFile{}, fmt.Errorf("uischema: file %s is empty", source)
	}

	if strings.EqualFold(filepath.Ext(source), ".json") {
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return documentFile{}, fmt.Errorf("uischema: parse %s: %w", source, err)
		}
		return doc, nil
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return documentFile{}, fmt.Errorf("uischema: parse %s: %w", source, err)
	}
	return doc, nil
}

func normaliseForm(raw formFile, id, source string) (Form, error) {
	form := Form{
		ID:     id,
		Source: source,
		Form:   raw.Form,
		Fields: make(map[string]FieldConfig, len(raw.Fields)),
	}

	form.Form.Actions = make([]ActionConfig, 0, len(raw.Form.Actions))
	for idx, action := range raw.Form.Actions {
		action.Kind = strings.TrimSpace(action.Kind)
		if action.Kind == "" {
			return Form{}, fmt.Errorf("uischema: form %q (file %s) action %d has no kind", id, source, idx)
		}
		action.Icon = sanitizeIconMarkup(action.Icon)
		form.Form.Actions = append(form.Form.Actions, action)
	}

	for key, cfg := range raw.Fields {
		name := NormalizeFieldKey(key)
		if name == "" {
			return Form{}, fmt.Errorf("uischema: form %q (file %s) field key %q normalises to empty", id, source, key)
		}
		if _, exists := form.Fields[name]; exists {
			return Form{}, fmt.Errorf("uischema: form %q (file %s) defines field %q twice", id, source, name)
		}
		switch model.Width(cfg.Width) {
		case "", model.WidthFull, model.WidthHalf:
		default:
			return Form{}, fmt.Errorf("uischema: form %q (file %s) field %q has unknown width %q", id, source, name, cfg.Width)
		}
		cloned := cfg
		cloned.Metadata = cloneStrings(cfg.Metadata)
		cloned.OriginalPath = key
		form.Fields[name] = cloned
	}

	return form, nil
}

func isSchemaFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}

func cloneStrings(src map[string]string) map[string]string {
	if len(src) == 0 {
		return nil
	}
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
