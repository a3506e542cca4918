package merger

import (
	"slices"

	"github.com/jamesainslie/cookieslicer/pkg/slicer/manifest"
)

// Class is the merge policy applied to one source file.
type Class int

// Classes in priority order; the first that applies wins.
const (
	// ClassManifest is the template manifest at the source root. Never copied.
	ClassManifest Class = iota
	// ClassRemove is listed under "remove". Never copied.
	ClassRemove
	// ClassOnce is listed under "once". Copied only if absent at the destination.
	ClassOnce
	// ClassAttention is listed under "attention". Copied and reported.
	ClassAttention
	// ClassCopy is any other file. Always copied.
	ClassCopy
)

// String returns the name of the class.
func (c Class) String() string {
	switch c {
	case ClassManifest:
		return "manifest"
	case ClassRemove:
		return "remove"
	case ClassOnce:
		return "once"
	case ClassAttention:
		return "attention"
	case ClassCopy:
		return "copy"
	default:
		return "unknown"
	}
}

// Classify returns the class of the file at rel, a '/' separated path
// relative to the source root. Membership tests are exact string matches.
func Classify(rel string, tmpl *manifest.Template) Class {
	switch {
	case rel == manifest.FileName:
		return ClassManifest
	case slices.Contains(tmpl.Remove, rel):
		return ClassRemove
	case slices.Contains(tmpl.Once, rel):
		return ClassOnce
	case slices.Contains(tmpl.Attention, rel):
		return ClassAttention
	default:
		return ClassCopy
	}
}
