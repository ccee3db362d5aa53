package pattern

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Render flattens a tree into regular-expression pattern syntax. It is
// total over trees built through this package's constructors: every valid
// tree has a pattern string.
func Render(n *Node) string {
	var b strings.Builder
	render(&b, n)
	return b.String()
}

func render(b *strings.Builder, n *Node) {
	switch n.Op {
	case OpConcat:
		for _, k := range n.Kids {
			// A bare alternation inside a longer sequence must be
			// scoped, or `|` would split the whole sequence.
			if k.Op == OpAlt && len(n.Kids) > 1 {
				b.WriteString("(?:")
				render(b, k)
				b.WriteByte(')')
			} else {
				render(b, k)
			}
		}
	case OpAlt:
		for i, k := range n.Kids {
			if i > 0 {
				b.WriteByte('|')
			}
			render(b, k)
		}
	case OpLiteral:
		writeEscaped(b, n.Text)
	case OpClass:
		b.WriteString(ClassToken(ClassKind(n.Text), n.Negated))
	case OpAnyChar:
		b.WriteByte('.')
	case OpAnchor:
		b.WriteString(n.Text)
	case OpCharSet:
		renderSet(b, n)
	case OpGroup:
		switch {
		case n.Name != "":
			fmt.Fprintf(b, "(?P<%s>", n.Name)
		case n.Capture:
			b.WriteByte('(')
		default:
			b.WriteString("(?:")
		}
		render(b, n.Kids[0])
		b.WriteByte(')')
	case OpRepeat:
		body := n.Kids[0]
		if quantNeedsGroup(body) {
			b.WriteString("(?:")
			render(b, body)
			b.WriteByte(')')
		} else {
			render(b, body)
		}
		b.WriteString(repeatSuffix(n.Min, n.Max))
		if !n.Greedy {
			b.WriteByte('?')
		}
	}
}

// quantNeedsGroup reports whether a quantifier applied directly after n's
// rendering would bind to less than all of n. Such bodies get a synthetic
// non-capturing group so precedence survives rendering.
func quantNeedsGroup(n *Node) bool {
	switch n.Op {
	case OpAlt, OpRepeat:
		return true
	case OpConcat:
		if len(n.Kids) == 1 {
			return quantNeedsGroup(n.Kids[0])
		}
		return true
	case OpLiteral:
		return utf8.RuneCountInString(n.Text) > 1
	default:
		// Classes, anchors, `.`, bracket expressions and groups all
		// render as a single quantifiable token.
		return false
	}
}

// repeatSuffix picks the shortest correct quantifier token.
func repeatSuffix(min, max int) string {
	switch {
	case min == 0 && max == 1:
		return "?"
	case min == 0 && max == Unbounded:
		return "*"
	case min == 1 && max == Unbounded:
		return "+"
	case max == Unbounded:
		return fmt.Sprintf("{%d,}", min)
	case min == max:
		return fmt.Sprintf("{%d}", min)
	default:
		return fmt.Sprintf("{%d,%d}", min, max)
	}
}

func writeEscaped(b *strings.Builder, text string) {
	for _, r := range text {
		if r < utf8.RuneSelf && IsMeta(byte(r)) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
}

func renderSet(b *strings.Builder, n *Node) {
	b.WriteByte('[')
	if n.Negated {
		b.WriteByte('^')
	}
	for _, m := range n.Kids {
		switch m.Op {
		case OpChar:
			writeSetChar(b, m.Text)
		case OpCharRange:
			writeSetChar(b, m.Kids[0].Text)
			b.WriteByte('-')
			writeSetChar(b, m.Kids[1].Text)
		case OpClass:
			b.WriteString(ClassToken(ClassKind(m.Text), m.Negated))
		}
	}
	b.WriteByte(']')
}

func writeSetChar(b *strings.Builder, s string) {
	r, _ := utf8.DecodeRuneInString(s)
	if r < utf8.RuneSelf && setMetachars[byte(r)] {
		b.WriteByte('\\')
	}
	b.WriteRune(r)
}
