package parser

import (
	"errors"
	"strings"
	"testing"

	"github.com/ezregexp/ezregexp/internal/pattern"
)

// TestParseRender checks parsed trees through their canonical rendering,
// which pins down structure without depending on node layout.
func TestParseRender(t *testing.T) {
	tests := []struct {
		pattern string
		want    string
	}{
		{``, ``},
		{`abc`, `abc`},
		{`a|b`, `a|b`},
		{`a|`, `a|`},
		{`gray|grey`, `gray|grey`},
		{`gr(a|e)y`, `gr(a|e)y`},
		{`colou?r`, `colou?r`},
		{`\d{2,3}`, `\d{2,3}`},
		{`\d{2,}`, `\d{2,}`},
		{`\d{4}`, `\d{4}`},
		{`^\d{4}-\d{2}-\d{2}$`, `^\d{4}-\d{2}-\d{2}$`},
		{`\D\PL\W\S`, `\D\PL\W\S`},
		{`\pL+`, `\pL+`},
		{`\p{L}`, `\pL`},
		{`(?:ab)+`, `(?:ab)+`},
		{`(ab)+`, `(ab)+`},
		{`()`, `()`},
		{`(|a)`, `(|a)`},
		{`(?P<year>\d{4})`, `(?P<year>\d{4})`},
		{`(?<year>\d{4})`, `(?P<year>\d{4})`},
		{`a*?b+?`, `a*?b+?`},
		{`a{2,3}?`, `a{2,3}?`},
		{`a**`, `(?:a*)*`},
		{`.+`, `.+`},
		{`\.\(\)`, `\.\(\)`},
		{`\n\t`, "\n\t"},
		{`a{2`, `a\{2`},
		{`a{,3}`, `a\{,3\}`},
		{`[abc]`, `[abc]`},
		{`[a-z0-9_]`, `[a-z0-9_]`},
		{`[^a-z]`, `[^a-z]`},
		{`[\d.]`, `[\d.]`},
		{`[a\-z]`, `[a\-z]`},
		{`[a-]`, `[a\-]`},
		{`[-a]`, `[\-a]`},
		{`[\]]`, `[\]]`},
		{`\bgo\b`, `\bgo\b`},
		{`\Bx`, `\Bx`},
		{`(?i)abc`, `abc`},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
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

func TestParseErrors(t *testing.T) {
	tests := []struct {
		pattern string
		pos     int
		msg     string
	}{
		{`(`, 0, "missing closing ')'"},
		{`(?P<year>\d{4}`, 0, "missing closing ')'"},
		{`ab(cd`, 2, "missing closing ')'"},
		{`abc)`, 3, "unmatched ')'"},
		{`*a`, 0, "has no operand"},
		{`a|*`, 2, "has no operand"},
		{`{2}`, 0, "repetition has no operand"},
		{`a{2,1}`, 1, "upper bound 1 below lower bound 2"},
		{`[abc`, 0, "missing closing ']'"},
		{`[]`, 0, "empty character class"},
		{`[z-a]`, 2, "upper bound below lower bound"},
		{`\q`, 0, `unknown escape sequence '\q'`},
		{`[\q]`, 1, `unknown escape sequence '\q'`},
		{`a\`, 1, `trailing '\'`},
		{`(?P<1a>x)`, 4, "invalid capture group name"},
		{`(?P<x>`, 0, "missing closing ')'"},
		{`(?P<x`, 0, "missing '>'"},
		{`(?P<x>a)(?P<x>b)`, 12, "duplicate capture group name"},
		{`(?=a)`, 0, "lookaround groups are not supported"},
		{`(?<=a)`, 0, "lookaround groups are not supported"},
		{`a(?i)b`, 1, "only supported at the start"},
		{`(?z)abc`, 0, `unknown flag 'z' in inline flag group`},
		{`\p{Greek}`, 0, "unsupported unicode class"},
		{`\pN`, 0, "unsupported unicode class"},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			_, err := Parse(tt.pattern)
			if err == nil {
				t.Fatalf("Parse(%q) should have failed", tt.pattern)
			}
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("Parse(%q) error is %T, want *ParseError", tt.pattern, err)
			}
			if perr.Pos != tt.pos {
				t.Errorf("Parse(%q) error at %d, want %d (%v)", tt.pattern, perr.Pos, tt.pos, perr)
			}
			if !strings.Contains(perr.Msg, tt.msg) {
				t.Errorf("Parse(%q) error %q, want substring %q", tt.pattern, perr.Msg, tt.msg)
			}
		})
	}
}

func TestParseNoPartialTree(t *testing.T) {
	node, err := Parse(`ab(cd`)
	if err == nil {
		t.Fatal("expected error")
	}
	if node != nil {
		t.Errorf("failed parse returned a tree: %v", node)
	}
}

func TestParseMergesLiterals(t *testing.T) {
	node, err := Parse(`abc`)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if node.Op != pattern.OpLiteral || node.Text != "abc" {
		t.Errorf("adjacent characters should merge into one literal, got op=%d text=%q", node.Op, node.Text)
	}
}

func TestParseQuantifierBindsToLastChar(t *testing.T) {
	node, err := Parse(`ab+`)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if node.Op != pattern.OpConcat || len(node.Kids) != 2 {
		t.Fatalf("expected two-fragment sequence, got %v", node)
	}
	if node.Kids[0].Op != pattern.OpLiteral || node.Kids[0].Text != "a" {
		t.Errorf("first fragment should be literal 'a'")
	}
	if node.Kids[1].Op != pattern.OpRepeat {
		t.Errorf("second fragment should be quantified")
	}
}

func TestParseEmptyPattern(t *testing.T) {
	node, err := Parse("")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if node.Op != pattern.OpConcat || len(node.Kids) != 0 {
		t.Errorf("empty pattern should parse to an empty sequence, got %v", node)
	}
}
