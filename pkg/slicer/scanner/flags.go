package scanner

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Flag names registered by AddFlags.
const (
	FlagListFiles           = "list-files"
	FlagRecurse             = "recurse"
	FlagAlternateExtensions = "alternate-extensions"
)

// alternateExtensionsShorthand is the two letter shorthand accepted for
// FlagAlternateExtensions. pflag only supports single letter shorthands, so
// NormalizeArgs rewrites it before parsing.
const alternateExtensionsShorthand = "-ae"

// FlagOptions controls which scanner flags AddFlags registers and how their
// help text reads.
type FlagOptions struct {
	// FileTypeName names the kind of file being scanned in help text, for
	// example "Markdown". Empty gives generic wording.
	FileTypeName string

	// DisableListFiles omits --list-files/-l.
	DisableListFiles bool

	// DisableRecurse omits --recurse/-r.
	DisableRecurse bool

	// DisableAlternateExtensions omits --alternate-extensions/-ae.
	DisableAlternateExtensions bool
}

// Flags holds the values bound by AddFlags.
type Flags struct {
	fileTypeName string
	listFiles    bool
	recurse      bool
	extensions   string
}

// AddFlags registers the standard scanner flags on cmd. defaultExtensions
// is validated first; an invalid value returns its *ExtensionError and no
// flags are registered.
func AddFlags(cmd *cobra.Command, defaultExtensions string, opts FlagOptions) (*Flags, error) {
	if _, err := NormalizeExtensions(defaultExtensions); err != nil {
		return nil, err
	}

	f := &Flags{
		fileTypeName: opts.FileTypeName,
		extensions:   defaultExtensions,
	}

	flags := cmd.Flags()
	if !opts.DisableListFiles {
		flags.BoolVarP(&f.listFiles, FlagListFiles, "l", false,
			"list the eligible "+f.eligible()+" and exit")
	}
	if !opts.DisableRecurse {
		flags.BoolVarP(&f.recurse, FlagRecurse, "r", false,
			"recursively scan directories for files")
	}
	if !opts.DisableAlternateExtensions {
		flags.Var(&extensionsValue{value: &f.extensions}, FlagAlternateExtensions,
			"provide an alternate set of file extensions to scan for (e.g. \".md,.txt\", shorthand -ae)")
	}

	return f, nil
}

// PathHelp describes the positional path arguments.
func (f *Flags) PathHelp() string {
	return "one or more paths to scan for eligible " + f.eligible()
}

// ListFiles reports whether list mode was requested.
func (f *Flags) ListFiles() bool {
	return f.listFiles
}

// Options builds scan options from the parsed flags and positional roots.
func (f *Flags) Options(args []string) Options {
	return Options{
		Roots:      args,
		Extensions: f.extensions,
		Recurse:    f.recurse,
	}
}

func (f *Flags) eligible() string {
	if f.fileTypeName == "" {
		return "files"
	}
	return f.fileTypeName + " files"
}

// NormalizeArgs rewrites the "-ae" shorthand ("-ae x" and "-ae=x") into the
// long form so that pflag can parse it. Arguments after "--" are untouched.
func NormalizeArgs(args []string) []string {
	out := make([]string, 0, len(args))
	for i, arg := range args {
		switch {
		case arg == "--":
			return append(out, args[i:]...)
		case arg == alternateExtensionsShorthand:
			out = append(out, "--"+FlagAlternateExtensions)
		case strings.HasPrefix(arg, alternateExtensionsShorthand+"="):
			out = append(out, "--"+FlagAlternateExtensions+"="+strings.TrimPrefix(arg, alternateExtensionsShorthand+"="))
		default:
			out = append(out, arg)
		}
	}
	return out
}

// extensionsValue validates an extension list when the flag is parsed.
type extensionsValue struct {
	value *string
}

// Ensure extensionsValue implements pflag.Value.
var _ pflag.Value = (*extensionsValue)(nil)

func (v *extensionsValue) Set(s string) error {
	if _, err := NormalizeExtensions(s); err != nil {
		return err
	}
	*v.value = s
	return nil
}

func (v *extensionsValue) String() string {
	if v.value == nil {
		return ""
	}
	return *v.value
}

func (v *extensionsValue) Type() string {
	return "string"
}
