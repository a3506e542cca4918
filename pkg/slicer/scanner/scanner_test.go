package scanner

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jamesainslie/cookieslicer/pkg/slicer/fsys"
)

// TestDefaultOptions verifies default options are set correctly.
func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()

	if len(opts.Roots) != 1 || opts.Roots[0] != "." {
		t.Errorf("expected Roots=[.], got %v", opts.Roots)
	}
	if opts.Extensions != DefaultExtensions {
		t.Errorf("expected Extensions=%q, got %q", DefaultExtensions, opts.Extensions)
	}
	if opts.Recurse {
		t.Error("expected Recurse=false")
	}
}

// TestOptionsValidate verifies validation fills in the filesystem and
// rejects an empty extension list.
func TestOptionsValidate(t *testing.T) {
	opts := Options{Extensions: ".txt"}
	if err := opts.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.Extensions != ".txt" {
		t.Errorf("Extensions: got %q, want .txt", opts.Extensions)
	}
	if _, ok := opts.FS.(fsys.OS); !ok {
		t.Errorf("FS: got %T, want fsys.OS", opts.FS)
	}

	opts = Options{}
	err := opts.Validate()
	if !errors.Is(err, ErrInvalidExtension) {
		t.Errorf("empty Extensions: got %v, want ErrInvalidExtension", err)
	}
	if opts.Extensions != "" {
		t.Errorf("Extensions: got %q, want it left empty", opts.Extensions)
	}
}

func TestScanEmptyExtensionsFails(t *testing.T) {
	t.Parallel()

	root := writeTree(t, t.TempDir(), "a.md")

	files, err := New(Options{Roots: []string{root}}).Scan()
	require.Error(t, err)
	assert.Nil(t, files)
	assert.ErrorIs(t, err, ErrInvalidExtension)
	assert.EqualError(t, err, "Extension '' is not a valid extension: Extension '' must start with a period.")
}

func TestScanFiltersByExtension(t *testing.T) {
	t.Parallel()

	root := writeTree(t, t.TempDir(), "a.md", "b.txt", "c.MD")

	files, err := New(Options{Roots: []string{root}, Extensions: ".md"}).Scan()
	require.NoError(t, err)
	assert.Equal(t, abs(root, "a.md"), files)
}

func TestScanDirectoryNonRecursive(t *testing.T) {
	t.Parallel()

	root := writeTree(t, t.TempDir(), "top.md", "sub/nested.md", "sub/deeper/deep.md")

	files, err := New(Options{Roots: []string{root}, Extensions: ".md"}).Scan()
	require.NoError(t, err)
	assert.Equal(t, abs(root, "top.md"), files)
}

func TestScanDirectoryRecursive(t *testing.T) {
	t.Parallel()

	root := writeTree(t, t.TempDir(),
		"z.md", "a.md", "sub/b.md", "sub/deeper/c.md", "sub/skip.txt", "other/d.md")

	files, err := New(Options{Roots: []string{root}, Extensions: ".md", Recurse: true}).Scan()
	require.NoError(t, err)
	assert.Equal(t, abs(root, "a.md", "other/d.md", "sub/b.md", "sub/deeper/c.md", "z.md"), files)
}

func TestScanRelativeRootBecomesAbsolute(t *testing.T) {
	root := writeTree(t, t.TempDir(), "docs/readme.md")
	t.Chdir(root)

	files, err := New(Options{Roots: []string{"docs"}, Extensions: ".md"}).Scan()
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.True(t, filepath.IsAbs(files[0]), files[0])
	assert.Equal(t, "readme.md", filepath.Base(files[0]))
}

func TestScanDedupesOverlappingRoots(t *testing.T) {
	t.Parallel()

	root := writeTree(t, t.TempDir(), "alpha.md", "beta.md", "sub/gamma.md")

	files, err := New(Options{
		Roots: []string{
			filepath.Join(root, "*.md"),
			filepath.Join(root, "a*.md"),
			root,
			filepath.Join(root, "beta.md"),
		},
		Extensions: ".md",
	}).Scan()
	require.NoError(t, err)
	assert.Equal(t, abs(root, "alpha.md", "beta.md"), files)
}

func TestScanGlob(t *testing.T) {
	t.Parallel()

	root := writeTree(t, t.TempDir(),
		"a.md", "b.txt", "sub/c.md", "sub/deeper/d.md", "other/e.md")

	tests := []struct {
		name    string
		pattern string
		want    []string
	}{
		{
			name:    "star stays in one element",
			pattern: "*.md",
			want:    []string{"a.md"},
		},
		{
			name:    "star as directory",
			pattern: "*/*.md",
			want:    []string{"other/e.md", "sub/c.md"},
		},
		{
			name:    "double star crosses elements",
			pattern: "sub/**.md",
			want:    []string{"sub/c.md", "sub/deeper/d.md"},
		},
		{
			name:    "question mark",
			pattern: "?.md",
			want:    []string{"a.md"},
		},
		{
			name:    "alternatives",
			pattern: "{sub,other}/*.md",
			want:    []string{"other/e.md", "sub/c.md"},
		},
		{
			name:    "matched files filtered by extension",
			pattern: "*.txt",
			want:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			files, err := New(Options{Roots: []string{filepath.Join(root, tt.pattern)}, Extensions: ".md"}).Scan()
			require.NoError(t, err)
			assert.Equal(t, abs(root, tt.want...), files)
		})
	}
}

func TestScanErrors(t *testing.T) {
	t.Parallel()

	root := writeTree(t, t.TempDir(), "a.md", "b.txt")

	tests := []struct {
		name     string
		roots    []string
		sentinel error
		message  string
	}{
		{
			name:     "missing path",
			roots:    []string{filepath.Join(root, "missing.md")},
			sentinel: ErrPathNotFound,
			message:  "Provided path '" + filepath.Join(root, "missing.md") + "' does not exist.",
		},
		{
			name:     "file outside allow-list",
			roots:    []string{filepath.Join(root, "b.txt")},
			sentinel: ErrFileNotValid,
			message:  "Provided path '" + filepath.Join(root, "b.txt") + "' is not a valid file.",
		},
		{
			name:     "glob without matches",
			roots:    []string{filepath.Join(root, "*.rst")},
			sentinel: ErrGlobNoMatch,
			message:  "Provided glob path '" + filepath.Join(root, "*.rst") + "' did not match any files.",
		},
		{
			name:     "glob below missing directory",
			roots:    []string{filepath.Join(root, "nowhere", "*.md")},
			sentinel: ErrGlobNoMatch,
			message:  "Provided glob path '" + filepath.Join(root, "nowhere", "*.md") + "' did not match any files.",
		},
		{
			name:     "first failing root aborts",
			roots:    []string{filepath.Join(root, "a.md"), filepath.Join(root, "gone")},
			sentinel: ErrPathNotFound,
			message:  "Provided path '" + filepath.Join(root, "gone") + "' does not exist.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			files, err := New(Options{Roots: tt.roots, Extensions: ".md"}).Scan()
			require.Error(t, err)
			assert.Nil(t, files, "no partial result on failure")
			assert.ErrorIs(t, err, tt.sentinel)
			assert.EqualError(t, err, tt.message)

			var scanErr *ScanError
			require.True(t, errors.As(err, &scanErr))
			assert.Equal(t, tt.roots[len(tt.roots)-1], scanErr.Root)
		})
	}
}

func TestScanEmptyResultIsSuccess(t *testing.T) {
	t.Parallel()

	root := writeTree(t, t.TempDir(), "only.txt")

	files, err := New(Options{Roots: []string{root}, Extensions: ".md"}).Scan()
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestScanInvalidExtensionSkipsFilesystem(t *testing.T) {
	t.Parallel()

	_, err := New(Options{
		Roots:      []string{"/does/not/matter"},
		Extensions: "*.md",
		FS:         touchFS{t: t},
	}).Scan()

	var extErr *ExtensionError
	require.True(t, errors.As(err, &extErr))
	assert.Equal(t, "*.md", extErr.Extension)
}

func TestScanUnclassifiedError(t *testing.T) {
	t.Parallel()

	_, err := New(Options{Roots: []string{"/secret"}, Extensions: ".md", FS: deniedFS{}}).Scan()
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrPermission)
	assert.NotErrorIs(t, err, ErrPathNotFound)
	assert.Contains(t, err.Error(), "Provided path '/secret' could not be scanned")
}

func TestResolveIsStable(t *testing.T) {
	t.Parallel()

	root := writeTree(t, t.TempDir(), "b.md", "a.md", "sub/c.md")
	exts := ExtensionSet{".md"}

	first, err := Resolve(fsys.OS{}, []string{root}, exts, true)
	require.NoError(t, err)
	second, err := Resolve(fsys.OS{}, []string{root}, exts, true)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.IsIncreasing(t, first)
}

func TestGlobBase(t *testing.T) {
	t.Parallel()

	tests := []struct {
		pattern     string
		wantLiteral string
		wantRest    string
		wantDepth   int
	}{
		{"docs/*.md", "docs", "*.md", 1},
		{"docs/notes/?.md", "docs/notes", "?.md", 1},
		{"docs/*/x/*.md", "docs", "*/x/*.md", 3},
		{"docs/**/*.md", "docs", "**/*.md", 0},
		{"docs/sub/**.md", "docs/sub", "**.md", 0},
		{"*.md", "", "*.md", 1},
		{"{a,b}/c.md", "", "{a,b}/c.md", 2},
		{"plain/file.md", "plain/file.md", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			t.Parallel()

			literal, rest, depth := globBase(tt.pattern)
			assert.Equal(t, tt.wantLiteral, literal)
			assert.Equal(t, tt.wantRest, rest)
			assert.Equal(t, tt.wantDepth, depth)
		})
	}
}

func TestAnchorPatternClimbsParents(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	t.Chdir(dir)

	wd, err := os.Getwd()
	require.NoError(t, err)

	anchor, rel, err := anchorPattern("../../x/*.md")
	require.NoError(t, err)
	assert.Equal(t, filepath.Dir(filepath.Dir(wd)), anchor)
	assert.Equal(t, "x/*.md", rel)

	anchor, rel, err = anchorPattern("./docs//*.md")
	require.NoError(t, err)
	assert.Equal(t, wd, anchor)
	assert.Equal(t, "docs/*.md", rel)
}

func TestScanRelativeGlobUnderBracketedDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "proj[1]")
	writeTree(t, dir, "a.md", "b.txt", "notes/c.md")
	t.Chdir(dir)

	wd, err := os.Getwd()
	require.NoError(t, err)

	files, err := New(Options{Roots: []string{"*.md"}, Extensions: ".md"}).Scan()
	require.NoError(t, err)
	assert.Equal(t, abs(wd, "a.md"), files)

	files, err = New(Options{Roots: []string{"n*/*.md"}, Extensions: ".md"}).Scan()
	require.NoError(t, err)
	assert.Equal(t, abs(wd, "notes/c.md"), files)
}

func TestScanGlobMatchingDirectories(t *testing.T) {
	t.Parallel()

	root := writeTree(t, t.TempDir(), "docs/top.md", "docs/sub/a.md", "drafts/b.md", "other/c.md")
	pattern := filepath.Join(root, "d*")

	t.Run("non-recursive lists immediate files", func(t *testing.T) {
		t.Parallel()

		files, err := New(Options{Roots: []string{pattern}, Extensions: ".md"}).Scan()
		require.NoError(t, err)
		assert.Equal(t, abs(root, "docs/top.md", "drafts/b.md"), files)
	})

	t.Run("recursive descends", func(t *testing.T) {
		t.Parallel()

		files, err := New(Options{Roots: []string{pattern}, Extensions: ".md", Recurse: true}).Scan()
		require.NoError(t, err)
		assert.Equal(t, abs(root, "docs/sub/a.md", "docs/top.md", "drafts/b.md"), files)
	})

	t.Run("directory holding only nested files", func(t *testing.T) {
		t.Parallel()

		files, err := New(Options{
			Roots:      []string{filepath.Join(root, "docs", "s*")},
			Extensions: ".md",
			Recurse:    true,
		}).Scan()
		require.NoError(t, err)
		assert.Equal(t, abs(root, "docs/sub/a.md"), files)
	})
}

func TestScanGlobSkipsHiddenNames(t *testing.T) {
	t.Parallel()

	root := writeTree(t, t.TempDir(), "a.md", ".hidden.md", ".cache/x.md", "sub/.y.md", "sub/z.md")

	tests := []struct {
		name    string
		pattern string
		want    []string
	}{
		{name: "star skips dotfiles", pattern: "*.md", want: []string{"a.md"}},
		{name: "dot pattern matches dotfiles", pattern: ".*.md", want: []string{".hidden.md"}},
		{name: "star skips dot directories", pattern: "*/*.md", want: []string{"sub/z.md"}},
		{name: "dot directory named by pattern", pattern: ".*/*.md", want: []string{".cache/x.md"}},
		{name: "double star skips hidden below", pattern: "**.md", want: []string{"a.md", "sub/z.md"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			files, err := New(Options{Roots: []string{filepath.Join(root, tt.pattern)}, Extensions: ".md"}).Scan()
			require.NoError(t, err)
			assert.Equal(t, abs(root, tt.want...), files)
		})
	}
}

func TestHasGlobMeta(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"*.md", "a?.md", "[ab].md", "{a,b}.md", "dir/**"} {
		assert.True(t, hasGlobMeta(s), s)
	}
	for _, s := range []string{"a.md", "dir/sub", ""} {
		assert.False(t, hasGlobMeta(s), s)
	}
}
