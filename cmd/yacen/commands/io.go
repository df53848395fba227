package commands

import (
	"io"
	"os"

	"yacen/internal/store"
)

// readInput reads path, or stdin when path is "" or "-".
func readInput(path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

// writeOutput writes b to path with owner-only permissions, or to stdout
// when path is "" or "-".
func writeOutput(path string, b []byte) error {
	if path == "" || path == "-" {
		_, err := os.Stdout.Write(b)
		return err
	}
	return store.WriteFile(path, b)
}
