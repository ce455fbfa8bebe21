package definition

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadFS walks fsys and parses every .json, .yaml and .yml file as a form
// document. A nil filesystem yields an empty store.
func LoadFS(fsys fs.FS) (*Store, error) {
	store := &Store{forms: make(map[string]Form)}
	if fsys == nil {
		return store, nil
	}

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isDefinitionFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("definition: read %s: %w", path, err)
		}
		return store.add(data, path)
	})
	if err != nil {
		return nil, err
	}
	return store, nil
}

// Parse reads a single document. source is used in error messages.
func Parse(data []byte, source string) (*Store, error) {
	store := &Store{forms: make(map[string]Form)}
	if err := store.add(data, source); err != nil {
		return nil, err
	}
	return store, nil
}

type documentFile struct {
	Forms map[string]Form `json:"forms" yaml:"forms"`
}

func (s *Store) add(data []byte, source string) error {
	doc, err := parseDocument(data, source)
	if err != nil {
		return err
	}

	for rawName, form := range doc.Forms {
		name := strings.TrimSpace(rawName)
		if name == "" {
			return fmt.Errorf("definition: file %s defines a form with an empty name", source)
		}
		if existing, exists := s.forms[name]; exists {
			return fmt.Errorf("definition: duplicate form %q (files %s and %s)", name, existing.Source, source)
		}

		normalised, err := normaliseForm(form, name, source)
		if err != nil {
			return err
		}
		s.forms[name] = normalised
	}
	return nil
}

func parseDocument(data []byte, source string) (documentFile, error) {
	var doc documentFile
	if len(strings.TrimSpace(string(data))) == 0 {
		return documentFile{}, fmt.Errorf("definition: file %s is empty", source)
	}

	if err := json.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return documentFile{}, fmt.Errorf("definition: parse %s: %w", source, err)
	}
	return doc, nil
}

func normaliseForm(form Form, name, source string) (Form, error) {
	form.Name = name
	form.Source = source
	form.Method = strings.ToLower(strings.TrimSpace(form.Method))
	if form.Method == "" {
		form.Method = "post"
	}
	form.Action = strings.TrimSpace(form.Action)

	seen := make(map[string]struct{}, len(form.Elements))
	elements := make([]Element, 0, len(form.Elements))
	for idx, el := range form.Elements {
		el.Name = strings.TrimSpace(el.Name)
		el.Type = strings.ToLower(strings.TrimSpace(el.Type))
		el.Kind = Kind(strings.ToLower(strings.TrimSpace(string(el.Kind))))
		if el.Kind == "" {
			el.Kind = KindInput
		}

		switch el.Kind {
		case KindInput:
			if el.Type == "" {
				el.Type = "text"
			}
		case KindButton:
			if el.Type == "" {
				el.Type = "submit"
			}
		case KindTextArea:
			if el.Rows <= 0 {
				el.Rows = DefaultRows
			}
		default:
			return Form{}, fmt.Errorf("definition: form %q (file %s) element %d has unknown kind %q", name, source, idx, el.Kind)
		}

		if el.Name == "" {
			return Form{}, fmt.Errorf("definition: form %q (file %s) element %d has no name", name, source, idx)
		}
		if _, dup := seen[el.Name]; dup {
			return Form{}, fmt.Errorf("definition: form %q (file %s) defines element %q twice", name, source, el.Name)
		}
		seen[el.Name] = struct{}{}
		elements = append(elements, el)
	}
	form.Elements = elements
	return form, nil
}

func isDefinitionFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
