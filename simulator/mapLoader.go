package simulator

import (
	"os"
	"strings"
)

// LoadMapFile reads a map text file into lines, tolerating a trailing
// newline. Rows may be ragged; the builder pads short rows with
// non-traversable space.
func LoadMapFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	lines := strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines, nil
}
