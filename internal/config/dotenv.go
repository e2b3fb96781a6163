package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// DotenvEntry is one KEY=VALUE assignment of a .env file.
type DotenvEntry struct {
	Key   string
	Value string
}

// ParseDotenvLine parses one .env line. Blanks, comments and lines without
// '=' report false. An `export ` prefix is accepted.
func ParseDotenvLine(line string) (DotenvEntry, bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return DotenvEntry{}, false
	}
	key, value, ok := strings.Cut(strings.TrimPrefix(line, "export "), "=")
	if !ok {
		return DotenvEntry{}, false
	}
	return DotenvEntry{Key: strings.TrimSpace(key), Value: dotenvValue(strings.TrimSpace(value))}, true
}

// dotenvValue strips surrounding quotes. Double-quoted values also have
// their \" and \\ escapes undone.
func dotenvValue(s string) string {
	if len(s) < 2 {
		return s
	}
	switch {
	case s[0] == '"' && s[len(s)-1] == '"':
		if v, err := strconv.Unquote(s); err == nil {
			return v
		}
		return s[1 : len(s)-1]
	case s[0] == '\'' && s[len(s)-1] == '\'':
		return s[1 : len(s)-1]
	}
	return s
}

// ReadDotenv returns the entries of a .env file in file order.
// A missing file has no entries.
func ReadDotenv(path string) ([]DotenvEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	var entries []DotenvEntry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if e, ok := ParseDotenvLine(scanner.Text()); ok {
			entries = append(entries, e)
		}
	}
	return entries, scanner.Err()
}

// LoadDotenv exports the entries of a .env file. Variables that are already
// set keep their value.
func LoadDotenv(path string) error {
	return applyDotenv(path, false)
}

// ReloadDotenv is LoadDotenv where values from the file win.
func ReloadDotenv(path string) error {
	return applyDotenv(path, true)
}

func applyDotenv(path string, override bool) error {
	entries, err := ReadDotenv(path)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if _, exists := os.LookupEnv(e.Key); exists && !override {
			continue
		}
		if err := os.Setenv(e.Key, e.Value); err != nil {
			return fmt.Errorf("set %s: %w", e.Key, err)
		}
	}
	return nil
}
