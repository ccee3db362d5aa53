package ezregexp

import (
	"fmt"

	"github.com/ezregexp/ezregexp/internal/parser"
)

// Explain parses a regular-expression pattern string into a Pattern. The
// input may carry a leading inline flag group such as `(?x)`, which
// enables verbose mode: unescaped whitespace and `#`-to-end-of-line
// comments outside bracket expressions are ignored.
//
// The result can be rendered back to pattern syntax with ToString, or to
// equivalent builder-API source text with ToCode. Malformed input yields a
// *ParseError identifying the offending position; no partial result is
// returned.
func Explain(pat string) (*Pattern, error) {
	node, err := parser.Parse(pat)
	if err != nil {
		return nil, fmt.Errorf("failed to parse pattern: %w", err)
	}
	return wrap(node), nil
}
