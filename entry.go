package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
)

// LogEntry is one decoded access log line. It stays an opaque mapping:
// upstream log formats drift, and a field showing up with an unexpected
// type must never make the whole line unreadable.
type LogEntry map[string]any

// ParseLogEntry decodes a single raw line. It returns false for lines that
// should be skipped: all-whitespace lines silently, undecodable lines with
// one diagnostic carrying the offending text.
func ParseLogEntry(raw string) (LogEntry, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, false
	}

	var entry LogEntry
	if err := json.Unmarshal([]byte(trimmed), &entry); err != nil {
		slog.Warn("skipping unparsable log line", slog.String("line", trimmed))
		return nil, false
	}

	return entry, true
}

// Pool returns the pool field trimmed and lowercased, or "" when absent.
func (e LogEntry) Pool() string {
	value, _ := e["pool"].(string)
	return strings.ToLower(strings.TrimSpace(value))
}

// Release returns the release field, defaulting to "unknown" when absent or empty.
func (e LogEntry) Release() string {
	value, _ := e["release"].(string)
	if value == "" {
		return "unknown"
	}
	return value
}

// NumericStatus returns the top-level status only when it is an integral
// JSON number. Numeric strings do not qualify; the failover rule trusts
// nothing less than a literal 200.
func (e LogEntry) NumericStatus() (int, bool) {
	value, ok := e["status"].(float64)
	if !ok || value != math.Trunc(value) {
		return 0, false
	}
	return int(value), true
}

// firstStatus normalizes a status-bearing field (number, numeric string,
// comma-joined string, or array of hop statuses) into string tokens and
// returns the first one that parses as an integer. It never fails; an
// unresolvable value is simply (0, false).
func firstStatus(value any) (int, bool) {
	if value == nil {
		return 0, false
	}

	var tokens []string
	switch v := value.(type) {
	case []any:
		for _, item := range v {
			tokens = append(tokens, fmt.Sprint(item))
		}
	default:
		tokens = strings.Split(fmt.Sprint(v), ",")
	}

	for _, token := range tokens {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		if code, err := strconv.Atoi(token); err == nil {
			return code, true
		}
	}

	return 0, false
}
