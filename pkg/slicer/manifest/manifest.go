package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/jamesainslie/cookieslicer/pkg/slicer/fsys"
)

// document is a decoded JSON object whose fields are validated one by one.
type document map[string]json.RawMessage

func decodeDocument(data []byte, kind error) (document, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", kind, err)
	}
	if doc == nil {
		return nil, fmt.Errorf("%w: expected a JSON object", kind)
	}
	return doc, nil
}

// version decodes a required positive integer field.
func (d document) version(field string, kind error) (int, error) {
	raw, ok := d[field]
	if !ok || string(raw) == "null" {
		return 0, fmt.Errorf("%w: field %q is required", kind, field)
	}

	var v int
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, fmt.Errorf("%w: field %q must be an integer", kind, field)
	}
	if v <= 0 {
		return 0, fmt.Errorf("%w: field %q must be greater than zero, got %d", kind, field, v)
	}
	return v, nil
}

// paths decodes an optional list of strings. An absent field is an empty
// list; null for the list or any of its entries is rejected.
func (d document) paths(field string, kind error) ([]string, error) {
	raw, ok := d[field]
	if !ok {
		return []string{}, nil
	}

	var entries []*string
	if err := json.Unmarshal(raw, &entries); err != nil || entries == nil {
		return nil, fmt.Errorf("%w: field %q must be a list of strings", kind, field)
	}

	out := make([]string, 0, len(entries))
	for i, entry := range entries {
		if entry == nil {
			return nil, fmt.Errorf("%w: field %q entry %d is null", kind, field, i)
		}
		out = append(out, *entry)
	}
	return out, nil
}

// ParseTemplate decodes and validates a template manifest.
// Unknown fields are ignored.
func ParseTemplate(data []byte) (*Template, error) {
	doc, err := decodeDocument(data, ErrManifestInvalid)
	if err != nil {
		return nil, err
	}

	t := &Template{}
	if t.SlicerVersion, err = doc.version("slicer_version", ErrManifestInvalid); err != nil {
		return nil, err
	}
	if t.SlicerConfigVersion, err = doc.version("slicer_config_version", ErrManifestInvalid); err != nil {
		return nil, err
	}
	if t.Once, err = doc.paths("once", ErrManifestInvalid); err != nil {
		return nil, err
	}
	if t.Attention, err = doc.paths("attention", ErrManifestInvalid); err != nil {
		return nil, err
	}
	if t.Remove, err = doc.paths("remove", ErrManifestInvalid); err != nil {
		return nil, err
	}
	return t, nil
}

// ParseConfiguration decodes and validates a destination marker.
func ParseConfiguration(data []byte) (*Configuration, error) {
	doc, err := decodeDocument(data, ErrMarkerInvalid)
	if err != nil {
		return nil, err
	}

	c := &Configuration{}
	if c.ConfigVersion, err = doc.version("config_version", ErrMarkerInvalid); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadTemplate reads the template manifest from the root of dir.
// A missing manifest wraps ErrManifestMissing.
func LoadTemplate(fsys fsys.FS, dir string) (*Template, error) {
	path := filepath.Join(dir, FileName)

	data, err := fsys.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrManifestMissing, path)
		}
		return nil, fmt.Errorf("reading template manifest: %w", err)
	}

	t, err := ParseTemplate(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// LoadConfiguration reads the marker from the root of dir. It returns nil
// and no error when there is no marker or the marker path is not a regular
// file.
func LoadConfiguration(fsys fsys.FS, dir string) (*Configuration, error) {
	path := filepath.Join(dir, FileName)

	info, err := fsys.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("checking destination marker: %w", err)
	}
	if !info.Mode().IsRegular() {
		return nil, nil
	}

	data, err := fsys.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading destination marker: %w", err)
	}

	c, err := ParseConfiguration(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// WriteConfiguration replaces the marker at the root of dir.
func WriteConfiguration(fsys fsys.FS, dir string, cfg Configuration) error {
	if cfg.ConfigVersion <= 0 {
		return fmt.Errorf("%w: field %q must be greater than zero, got %d",
			ErrMarkerInvalid, "config_version", cfg.ConfigVersion)
	}

	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding destination marker: %w", err)
	}

	path := filepath.Join(dir, FileName)
	if err := fsys.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing destination marker: %w", err)
	}
	return nil
}
