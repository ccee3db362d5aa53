package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestExplainSource(t *testing.T) {
	tests := []struct {
		name     string
		pattern  string
		expected string
	}{
		{
			name:     "literal",
			pattern:  `Handel`,
			expected: `Text("Handel")`,
		},
		{
			name:     "alternation",
			pattern:  `gray|grey`,
			expected: `Either("gray", "grey")`,
		},
		{
			name:     "anchored date",
			pattern:  `^\d{4}-\d{2}-\d{2}$`,
			expected: `AtStart().AndThen(Digit()).Times(4).AndThen("-").AndThen(Digit()).Times(2).AndThen("-").AndThen(Digit()).Times(2).MustEnd()`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := explainSource(tt.pattern, nil)
			if err != nil {
				t.Fatalf("explainSource() returned error: %v", err)
			}
			if result != tt.expected {
				t.Errorf("explainSource() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestExplainSourceError(t *testing.T) {
	_, err := explainSource(`(unclosed`, nil)
	if err == nil {
		t.Fatal("explainSource() on a malformed pattern should fail")
	}
	if !strings.Contains(err.Error(), "missing closing ')'") {
		t.Errorf("explainSource() error = %v, want a missing ')' report", err)
	}
}

func TestRunBuildDemo(t *testing.T) {
	var out bytes.Buffer
	if err := runBuildDemo(&out); err != nil {
		t.Fatalf("runBuildDemo() returned error: %v", err)
	}
	got := out.String()
	for _, want := range []string{
		`pattern: (?P<year>\d{4})-(?P<month>\d{2})-(?P<day>\d{2})`,
		"year = 2010",
		"month = 03",
		"day = 14",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("demo output missing %q:\n%s", want, got)
		}
	}
}
