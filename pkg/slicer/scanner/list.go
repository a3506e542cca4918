package scanner

import (
	"fmt"
	"io"
)

// NoMatchesMessage is written to standard error when list mode finds nothing.
const NoMatchesMessage = "No matching files found."

// Exit codes returned by ListFiles.
const (
	ExitFound   = 0
	ExitNoMatch = 1
)

// ListFiles implements list mode: it writes each path on its own line to
// stdout and returns ExitFound, or writes NoMatchesMessage to stderr and
// returns ExitNoMatch when files is empty. The caller is expected to
// terminate the process with the returned code.
func ListFiles(stdout, stderr io.Writer, files []string) int {
	if len(files) == 0 {
		_, _ = fmt.Fprintln(stderr, NoMatchesMessage)
		return ExitNoMatch
	}

	for _, file := range files {
		_, _ = fmt.Fprintln(stdout, file)
	}
	return ExitFound
}
