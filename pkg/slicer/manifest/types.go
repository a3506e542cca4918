// Package manifest reads and writes the two cookieslicer.json documents: the
// template manifest at the root of a source tree and the version marker left
// at the root of a destination tree.
package manifest

import "errors"

// FileName is the name of both the template manifest and the destination
// marker.
const FileName = "cookieslicer.json"

// MarkerConfigVersion is the config_version written to every destination
// marker.
const MarkerConfigVersion = 1

var (
	// ErrManifestMissing indicates a source tree without a template manifest.
	ErrManifestMissing = errors.New("template manifest not found")

	// ErrManifestInvalid indicates a template manifest that failed validation.
	ErrManifestInvalid = errors.New("invalid template manifest")

	// ErrMarkerInvalid indicates a destination marker that failed validation.
	ErrMarkerInvalid = errors.New("invalid destination marker")
)

// Template is the policy document stored at the root of a source tree.
// Paths in Once, Attention and Remove are relative to the source root and
// always use '/' as the separator.
type Template struct {
	SlicerVersion       int      `json:"slicer_version" yaml:"slicer_version"`
	SlicerConfigVersion int      `json:"slicer_config_version" yaml:"slicer_config_version"`
	Once                []string `json:"once" yaml:"once"`
	Attention           []string `json:"attention" yaml:"attention"`
	Remove              []string `json:"remove" yaml:"remove"`
}

// Configuration is the marker stored at the root of a destination tree.
type Configuration struct {
	ConfigVersion int `json:"config_version" yaml:"config_version"`
}
