package config

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// ConfigurationError is fatal for the whole run: without the character list
// every title would be normalized wrongly.
type ConfigurationError struct {
	Path string
	Err  error
}

func (e *ConfigurationError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("character list: %v", e.Err)
	}
	return fmt.Sprintf("character list %s: %v", e.Path, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// LoadCharList reads one literal substring per line. Blank lines are
// ignored and CRLF line endings are accepted.
func LoadCharList(path string) ([]string, error) {
	if path == "" {
		return nil, &ConfigurationError{Err: errors.New("no file configured")}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, &ConfigurationError{Path: path, Err: err}
	}
	defer f.Close()

	var list []string
	scanner := bufio.NewScanner(f)
	first := true
	for scanner.Scan() {
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if first {
			line = strings.TrimPrefix(line, "\ufeff")
			first = false
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		list = append(list, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, &ConfigurationError{Path: path, Err: err}
	}

	return list, nil
}
