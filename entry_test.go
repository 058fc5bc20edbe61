package main

import "testing"

func TestParseLogEntry(t *testing.T) {
	t.Run("Blank Line", func(t *testing.T) {
		if _, ok := ParseLogEntry("   \n"); ok {
			t.Error("expected blank line to be skipped")
		}
	})

	t.Run("Unparsable Line", func(t *testing.T) {
		if _, ok := ParseLogEntry("definitely not json"); ok {
			t.Error("expected unparsable line to be skipped")
		}
	})

	t.Run("Non-Object JSON", func(t *testing.T) {
		if _, ok := ParseLogEntry(`[1, 2, 3]`); ok {
			t.Error("expected non-object line to be skipped")
		}
	})

	t.Run("Valid Object", func(t *testing.T) {
		entry, ok := ParseLogEntry(`{"status": 200, "pool": " Blue ", "release": "v42"}` + "\n")
		if !ok {
			t.Fatal("expected line to parse")
		}
		if got := entry.Pool(); got != "blue" {
			t.Errorf("expected pool to be normalized to 'blue', got %q", got)
		}
		if got := entry.Release(); got != "v42" {
			t.Errorf("expected release 'v42', got %q", got)
		}
		if status, ok := entry.NumericStatus(); !ok || status != 200 {
			t.Errorf("expected numeric status 200, got %d (ok=%v)", status, ok)
		}
	})

	t.Run("Missing Fields", func(t *testing.T) {
		entry, ok := ParseLogEntry(`{}`)
		if !ok {
			t.Fatal("expected empty object to parse")
		}
		if got := entry.Pool(); got != "" {
			t.Errorf("expected empty pool, got %q", got)
		}
		if got := entry.Release(); got != "unknown" {
			t.Errorf("expected release to default to 'unknown', got %q", got)
		}
		if _, ok := entry.NumericStatus(); ok {
			t.Error("expected no numeric status on empty entry")
		}
	})

	t.Run("String Status Is Not Numeric", func(t *testing.T) {
		entry, ok := ParseLogEntry(`{"status": "200"}`)
		if !ok {
			t.Fatal("expected line to parse")
		}
		if _, ok := entry.NumericStatus(); ok {
			t.Error("expected string status to not qualify as numeric")
		}
	})
}

func TestFirstStatus(t *testing.T) {
	testCases := []struct {
		name     string
		value    any
		expected int
		found    bool
	}{
		{name: "Nil", value: nil, found: false},
		{name: "Empty String", value: "", found: false},
		{name: "Single Number", value: float64(502), expected: 502, found: true},
		{name: "Numeric String", value: "503", expected: 503, found: true},
		{name: "Padded String", value: " 404 ", expected: 404, found: true},
		{name: "Comma Joined", value: "502, 200", expected: 502, found: true},
		{name: "Unparsable First Token", value: "x, 502", expected: 502, found: true},
		{name: "All Unparsable", value: "-, -", found: false},
		{name: "Array Of Strings", value: []any{"503", "200"}, expected: 503, found: true},
		{name: "Array Of Numbers", value: []any{float64(502), float64(200)}, expected: 502, found: true},
		{name: "Array With Leading Junk", value: []any{"-", float64(500)}, expected: 500, found: true},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			code, ok := firstStatus(testCase.value)
			if ok != testCase.found {
				t.Fatalf("expected found=%v, got %v", testCase.found, ok)
			}
			if ok && code != testCase.expected {
				t.Errorf("expected status %d, got %d", testCase.expected, code)
			}
		})
	}
}
