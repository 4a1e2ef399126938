package parser

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ParseError carries the human-readable reason a payload could not be
// interpreted.
type ParseError struct {
	reason error
}

func (e ParseError) Error() string {
	return e.reason.Error()
}

func (e ParseError) Unwrap() error {
	return e.reason
}

func IsParseError(err error) bool {
	var pe ParseError
	return errors.As(err, &pe)
}

// Parser converts raw interchange content into a structured representation.
// The engine ships a permissive default; a real X12/EDIFACT grammar plugs
// in behind the same contract.
type Parser interface {
	Parse(rawContent string) (map[string]interface{}, error)
}

type defaultParser struct{}

// Default returns the reference parser: JSON objects are decoded as JSON,
// anything else is read as newline-delimited key=value pairs.
func Default() Parser {
	return defaultParser{}
}

func (defaultParser) Parse(rawContent string) (map[string]interface{}, error) {
	trimmed := strings.TrimSpace(rawContent)
	if trimmed == "" {
		return nil, ParseError{reason: errors.New("empty payload")}
	}

	if strings.HasPrefix(trimmed, "{") {
		var parsed map[string]interface{}
		if err := json.Unmarshal([]byte(trimmed), &parsed); err != nil {
			return nil, ParseError{reason: fmt.Errorf("invalid JSON payload: %w", err)}
		}
		return parsed, nil
	}

	parsed := make(map[string]interface{})
	for _, line := range strings.Split(trimmed, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		parsed[key] = strings.TrimSpace(value)
	}

	if len(parsed) == 0 {
		return nil, ParseError{reason: errors.New("payload is neither a JSON object nor key=value pairs")}
	}
	return parsed, nil
}
