// Package initfile parses the simple key=value initialization files used
// to seed a run's configuration: one "key = value" pair per line, blank
// lines and lines starting with '#' ignored, unknown keys rejected.
package initfile

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/spatialmodel/oilpalm/internal/simerr"
)

// Parse reads key=value pairs from r, returning them as a map. allowed,
// when non-nil, is the set of keys the caller accepts; any other key is
// an input error. A nil allowed set accepts any key.
func Parse(r io.Reader, allowed map[string]bool) (map[string]string, error) {
	values := make(map[string]string)
	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		idx := strings.Index(line, "=")
		if idx < 0 {
			return nil, simerr.NewInput("init file line without '=': "+line, nil)
		}
		key := strings.TrimSpace(line[:idx])
		val := strings.TrimSpace(line[idx+1:])
		if key == "" {
			return nil, simerr.NewInput("init file line with empty key", nil)
		}
		if allowed != nil && !allowed[key] {
			return nil, simerr.NewInput("unknown init file key: "+key, nil)
		}
		values[key] = val
	}
	if err := scanner.Err(); err != nil {
		return nil, simerr.NewInput("reading init file", err)
	}
	return values, nil
}

// ParseFile opens path and parses it with Parse.
func ParseFile(path string, allowed map[string]bool) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, simerr.NewInput("opening init file "+path, err)
	}
	defer f.Close()
	return Parse(f, allowed)
}
