// Package main provides the entry point for the cookieslicer CLI.
package main

import (
	"os"
)

func main() {
	if code := Execute(); code != 0 {
		os.Exit(code)
	}
}
