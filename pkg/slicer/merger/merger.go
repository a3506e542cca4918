// Package merger applies a template tree onto a destination tree.
//
// The template manifest at the source root decides, per file, whether the
// file is skipped, copied once, copied and flagged for attention, or copied
// unconditionally. Files listed for removal are reported, never deleted.
// After a successful merge the destination receives a version marker.
package merger

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/jamesainslie/cookieslicer/pkg/slicer/fsys"
	"github.com/jamesainslie/cookieslicer/pkg/slicer/logging"
	"github.com/jamesainslie/cookieslicer/pkg/slicer/manifest"
)

// logger is the package-level logger for merge operations.
var logger = logging.Get("merger")

// Report summarizes a completed merge.
type Report struct {
	// Source and Destination are the roots as given to Merge.
	Source      string `json:"source" yaml:"source"`
	Destination string `json:"destination" yaml:"destination"`

	// Copied counts files written to the destination.
	Copied int `json:"copied" yaml:"copied"`

	// BytesCopied is the total size of the copied files.
	BytesCopied int64 `json:"bytes_copied" yaml:"bytes_copied"`

	// Attention holds the destination paths of copied attention files, in
	// walk order.
	Attention []string `json:"attention" yaml:"attention"`

	// Remove holds the template's removal candidates in manifest order.
	Remove []string `json:"remove" yaml:"remove"`

	// Skipped holds the relative paths of once files that already existed.
	Skipped []string `json:"skipped" yaml:"skipped"`

	// TemplateVersion is the template's slicer_config_version.
	TemplateVersion int `json:"template_version" yaml:"template_version"`

	// PreviousVersion is the config_version of the marker found at the
	// destination, or 0 when there was none.
	PreviousVersion int `json:"previous_version,omitempty" yaml:"previous_version,omitempty"`
}

// Merger copies template trees. It holds no state between merges.
type Merger struct {
	fs fsys.FS
}

// New creates a Merger on top of the given filesystem.
// A nil filesystem means the host filesystem.
func New(filesystem fsys.FS) *Merger {
	if filesystem == nil {
		filesystem = fsys.OS{}
	}
	return &Merger{fs: filesystem}
}

// Merge applies the template rooted at src onto dst and writes the
// destination marker.
//
// A missing or invalid template manifest, or an unreadable marker, fails
// before anything is copied. The first copy failure aborts the merge; files
// copied before it stay in place and no marker is written.
func (m *Merger) Merge(ctx context.Context, src, dst string) (*Report, error) {
	tmpl, err := manifest.LoadTemplate(m.fs, src)
	if err != nil {
		return nil, err
	}

	previous, err := manifest.LoadConfiguration(m.fs, dst)
	if err != nil {
		return nil, err
	}

	report := &Report{
		Source:          src,
		Destination:     dst,
		Attention:       []string{},
		Remove:          append([]string{}, tmpl.Remove...),
		Skipped:         []string{},
		TemplateVersion: tmpl.SlicerConfigVersion,
	}

	if previous != nil {
		report.PreviousVersion = previous.ConfigVersion
		logger.Debug("found destination marker", "config_version", previous.ConfigVersion)
		if previous.ConfigVersion > tmpl.SlicerConfigVersion {
			logger.Warn("destination marker is newer than template",
				"marker_version", previous.ConfigVersion,
				"template_version", tmpl.SlicerConfigVersion)
		}
	}

	files, err := m.fs.Files(src, 0)
	if err != nil {
		return nil, fmt.Errorf("walking source directory: %w", err)
	}

	logger.Info("merge started", "source", src, "destination", dst, "files", len(files))

	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := m.mergeFile(tmpl, report, src, dst, path); err != nil {
			return nil, err
		}
	}

	for _, rel := range report.Remove {
		logger.Debug("file marked for removal", "file", rel)
	}

	if err := manifest.WriteConfiguration(m.fs, dst, manifest.Configuration{
		ConfigVersion: manifest.MarkerConfigVersion,
	}); err != nil {
		return nil, err
	}

	logger.Info("merge complete",
		"copied", report.Copied,
		"bytes", report.BytesCopied,
		"attention", len(report.Attention),
		"remove", len(report.Remove))

	return report, nil
}

// destinationPath appends native to dst without cleaning dst, so reported
// paths keep the destination exactly as the caller spelled it.
func destinationPath(dst, native string) string {
	if strings.HasSuffix(dst, string(filepath.Separator)) || strings.HasSuffix(dst, "/") {
		return dst + native
	}
	return dst + string(filepath.Separator) + native
}

// mergeFile classifies one source file and applies its policy.
func (m *Merger) mergeFile(tmpl *manifest.Template, report *Report, src, dst, path string) error {
	native, err := filepath.Rel(src, path)
	if err != nil {
		return fmt.Errorf("relating %s to %s: %w", path, src, err)
	}
	rel := RelativePath(native)
	target := destinationPath(dst, native)

	class := Classify(rel, tmpl)
	switch class {
	case ClassManifest:
		logger.Debug("skipping template manifest", "file", rel)
		return nil

	case ClassRemove:
		logger.Debug("skipping file marked for removal", "file", rel)
		return nil

	case ClassOnce:
		_, err := m.fs.Stat(target)
		if err == nil {
			logger.Debug("once file exists at destination, skipping", "file", rel)
			report.Skipped = append(report.Skipped, rel)
			return nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("checking %s: %w", target, err)
		}

	case ClassAttention:
		report.Attention = append(report.Attention, target)
	}

	n, err := m.fs.CopyFile(target, path)
	if err != nil {
		return fmt.Errorf("copying %s: %w", rel, err)
	}

	logger.Debug("copied file", "file", rel, "class", class.String(), "bytes", n)
	report.Copied++
	report.BytesCopied += n
	return nil
}

// RelativePath converts a path relative to the source root into the form
// used by the template manifest: '/' separated, with any '\' replaced.
func RelativePath(native string) string {
	return strings.ReplaceAll(filepath.ToSlash(native), `\`, "/")
}
