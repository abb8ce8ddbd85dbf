package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/tinyland-inc/clawreply/pkg/logger"
)

// ReadEnvFile reads a plain KEY=VALUE file. A missing file yields no values
// and no error.
func ReadEnvFile(path string) (map[string]string, error) {
	if path == "" {
		return map[string]string{}, nil
	}

	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		logger.DebugCF("config", "Fallback env file not found", map[string]any{"path": path})
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening fallback env file: %w", err)
	}
	defer f.Close()

	values, err := ParseEnvLines(f)
	if err != nil {
		return nil, fmt.Errorf("reading fallback env file %s: %w", path, err)
	}
	return values, nil
}

// ParseEnvLines scans KEY=VALUE lines. Each line is trimmed and split at
// its first "=", so values may contain "=". No quoting, comments or export
// prefixes are interpreted. The first non-empty value for a key wins; lines
// without "=" are skipped.
func ParseEnvLines(r io.Reader) (map[string]string, error) {
	values := make(map[string]string)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		raw := scanner.Text()

		key, value, ok := strings.Cut(strings.TrimSpace(raw), "=")
		if !ok {
			if strings.TrimSpace(raw) != "" {
				logger.DebugCF("config", "Skipping env line without '='", map[string]any{"line": lineNo})
			}
			continue
		}
		if value == "" {
			continue
		}
		if _, seen := values[key]; seen {
			continue
		}
		values[key] = value
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return values, nil
}
