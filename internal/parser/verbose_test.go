package parser

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/ezregexp/ezregexp/internal/pattern"
)

func TestLeadingFlags(t *testing.T) {
	tests := []struct {
		pattern  string
		verbose  bool
		consumed int
	}{
		{`(?x)abc`, true, 4},
		{`(?xi)abc`, true, 5},
		{`(?i)abc`, false, 4},
		{`(?:abc)`, false, 0},
		{`(?P<x>a)`, false, 0},
		{`abc`, false, 0},
		{`(?)`, false, 0},
		{`(?x`, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			verbose, consumed := leadingFlags(tt.pattern)
			if verbose != tt.verbose || consumed != tt.consumed {
				t.Errorf("leadingFlags(%q) = (%v, %d), want (%v, %d)",
					tt.pattern, verbose, consumed, tt.verbose, tt.consumed)
			}
		})
	}
}

func TestParseVerbose(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		want    string
	}{
		{
			"whitespace ignored",
			"(?x) a b \t c",
			"abc",
		},
		{
			"comments ignored",
			"(?x)a # first\nb # second",
			"ab",
		},
		{
			"whitespace literal inside class",
			"(?x)[a b]",
			"[a b]",
		},
		{
			"hash literal inside class",
			"(?x)[a#b]+",
			"[a#b]+",
		},
		{
			"escaped space is literal",
			`(?x)a\ b`,
			"a b",
		},
		{
			"date with comments",
			"(?x)\n(?P<year>\\d{4})  # the year\n-\n(?P<month>\\d{2}) # the month\n-\n(?P<day>\\d{2})   # the day\n",
			`(?P<year>\d{4})-(?P<month>\d{2})-(?P<day>\d{2})`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node, err := Parse(tt.pattern)
			if err != nil {
				t.Fatalf("Parse(%q) failed: %v", tt.pattern, err)
			}
			if got := pattern.Render(node); got != tt.want {
				t.Errorf("Render(Parse(%q)) = %q, want %q", tt.pattern, got, tt.want)
			}
		})
	}
}

// Error offsets must point into the original pattern, not the stripped
// text.
func TestParseVerboseErrorPositions(t *testing.T) {
	_, err := Parse("(?x) a (")
	if err == nil {
		t.Fatal("expected error")
	}
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("error is %T, want *ParseError", err)
	}
	if perr.Pos != 7 {
		t.Errorf("error position = %d, want 7 (%v)", perr.Pos, perr)
	}
}

func TestStripVerbosePosMap(t *testing.T) {
	clean, posMap := stripVerbose(" a # note\n bc", 4)
	if clean != "abc" {
		t.Fatalf("stripVerbose clean = %q, want %q", clean, "abc")
	}
	wantMap := []int{5, 15, 16}
	if len(posMap) != len(wantMap) {
		t.Fatalf("posMap = %v, want %v", posMap, wantMap)
	}
	for i := range wantMap {
		if posMap[i] != wantMap[i] {
			t.Errorf("posMap[%d] = %d, want %d", i, posMap[i], wantMap[i])
		}
	}
}

func TestTraceOutput(t *testing.T) {
	var buf bytes.Buffer
	tr := NewTrace(true)
	tr.SetOutput(&buf)

	if _, err := ParseWithTrace(`(?P<y>\d{4})`, tr); err != nil {
		t.Fatalf("ParseWithTrace failed: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "[ezregexp]") {
		t.Errorf("trace output missing prefix: %q", out)
	}
	if !strings.Contains(out, `name="y"`) {
		t.Errorf("trace output missing group decision: %q", out)
	}
}

func TestNilTraceIsSilent(t *testing.T) {
	var tr *Trace
	tr.Logf("should not panic")
	tr.Section("should not panic")
}
