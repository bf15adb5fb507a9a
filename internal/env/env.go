// Package env loads KEY=VALUE pairs from a .env file so endpoint URLs holding
// API keys can stay out of the YAML config.
package env

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
)

// DefaultFile is read by Load when no path is given.
const DefaultFile = ".env"

// Load sets every variable found in path (DefaultFile when empty) and returns
// the names it set. A missing file is not an error.
//
// File format:
//   - KEY=VALUE per line, split on the first "="
//   - blank lines and lines starting with # are ignored
//   - an optional "export " prefix is stripped
//   - surrounding single or double quotes are stripped
//
// Variables set in the file override the process environment.
func Load(path string) ([]string, error) {
	if path == "" {
		path = DefaultFile
	}

	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var set []string
	scanner := bufio.NewScanner(f)
	for lineNo := 1; scanner.Scan(); lineNo++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return set, fmt.Errorf("%s:%d: expected KEY=VALUE", path, lineNo)
		}
		key = strings.TrimSpace(key)
		value = strings.Trim(strings.TrimSpace(value), `"'`)

		if err := os.Setenv(key, value); err != nil {
			return set, fmt.Errorf("%s:%d: %w", path, lineNo, err)
		}
		set = append(set, key)
	}

	return set, scanner.Err()
}
