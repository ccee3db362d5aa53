// Package pattern implements the expression tree shared by the fluent
// builder, the pattern renderer and the parser.
package pattern

import "fmt"

// Op discriminates the Node variants.
type Op byte

const (
	// OpConcat is an ordered sequence of sub-patterns. Zero kids is the
	// empty pattern.
	OpConcat Op = iota

	// OpAlt is a '|'-separated list of alternatives. Branch order is
	// preserved because it decides which branch a backtracking engine
	// prefers.
	OpAlt

	// OpLiteral is fixed text, metacharacter-escaped when rendered.
	// Text holds the literal.
	OpLiteral

	// OpClass is a predefined character class. Text holds a ClassKind
	// key and Negated flips it (`\d` vs `\D`).
	OpClass

	// OpAnyChar is `.`.
	OpAnyChar

	// OpCharSet is a bracket expression. Kids are OpChar, OpCharRange
	// and OpClass members; Negated means a leading `^`.
	OpCharSet

	// OpChar is a single bracket-expression member. Text holds the rune.
	OpChar

	// OpCharRange is a lo-hi bracket-expression range. Kids[0] and
	// Kids[1] are OpChar.
	OpCharRange

	// OpAnchor is a zero-width assertion. Text holds the anchor token.
	OpAnchor

	// OpGroup wraps Kids[0]. Capture marks a capturing group; Name is
	// set only on capturing groups.
	OpGroup

	// OpRepeat quantifies Kids[0] between Min and Max times. Max of
	// Unbounded means no upper limit. Greedy is the default matching
	// preference.
	OpRepeat
)

// Unbounded marks an OpRepeat with no upper limit.
const Unbounded = -1

// Node is one vertex of a pattern tree. Nodes are immutable after
// construction; combinators build new parents over existing children and
// never modify a Node in place.
type Node struct {
	Op      Op
	Kids    []*Node
	Text    string
	Name    string
	Min     int
	Max     int
	Greedy  bool
	Negated bool
	Capture bool
}

// ConstructionError reports a combinator precondition violation. It carries
// the offending value so callers can surface it verbatim.
type ConstructionError struct {
	Op    string // the operation that rejected its input
	Value string // the offending value
	Msg   string
}

func (e *ConstructionError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Msg)
	}
	return fmt.Sprintf("%s: %s: %q", e.Op, e.Msg, e.Value)
}

// Concat builds a sequence node. An empty kid list is legal and renders as
// the empty pattern.
func Concat(kids ...*Node) *Node {
	return &Node{Op: OpConcat, Kids: kids}
}

// Alt builds an alternation node preserving branch order.
func Alt(kids ...*Node) *Node {
	return &Node{Op: OpAlt, Kids: kids}
}

// Literal builds a fixed-text node.
func Literal(text string) *Node {
	return &Node{Op: OpLiteral, Text: text}
}

// Class builds a predefined class node.
func Class(kind ClassKind, negated bool) (*Node, *ConstructionError) {
	if _, ok := classSyntax[kind]; !ok {
		return nil, &ConstructionError{Op: "class", Msg: "unknown class kind", Value: string(kind)}
	}
	return &Node{Op: OpClass, Text: string(kind), Negated: negated}, nil
}

// AnyChar builds a `.` node.
func AnyChar() *Node {
	return &Node{Op: OpAnyChar}
}

// Anchor builds an assertion node from one of the Anchor* tokens.
func Anchor(token string) (*Node, *ConstructionError) {
	if !anchorTokens[token] {
		return nil, &ConstructionError{Op: "anchor", Msg: "unknown anchor token", Value: token}
	}
	return &Node{Op: OpAnchor, Text: token}, nil
}

// SetChar builds a single bracket-expression member.
func SetChar(r rune) *Node {
	return &Node{Op: OpChar, Text: string(r)}
}

// SetRange builds a lo-hi bracket-expression range.
func SetRange(lo, hi rune) (*Node, *ConstructionError) {
	if hi < lo {
		return nil, &ConstructionError{
			Op:    "range",
			Msg:   "range upper bound below lower bound",
			Value: fmt.Sprintf("%c-%c", lo, hi),
		}
	}
	return &Node{Op: OpCharRange, Kids: []*Node{SetChar(lo), SetChar(hi)}}, nil
}

// CharSet builds a bracket expression over the given members. Members must
// be OpChar, OpCharRange or OpClass nodes.
func CharSet(negated bool, members ...*Node) (*Node, *ConstructionError) {
	if len(members) == 0 {
		return nil, &ConstructionError{Op: "charset", Msg: "empty character set"}
	}
	for _, m := range members {
		switch m.Op {
		case OpChar, OpCharRange, OpClass:
		default:
			return nil, &ConstructionError{Op: "charset", Msg: "invalid character set member"}
		}
	}
	return &Node{Op: OpCharSet, Negated: negated, Kids: members}, nil
}

// Group wraps body in an anonymous group.
func Group(body *Node, capture bool) *Node {
	return &Node{Op: OpGroup, Capture: capture, Kids: []*Node{body}}
}

// NamedGroup wraps body in a capturing group exposed under name. The name
// must be a valid identifier because engines key captures by it.
func NamedGroup(body *Node, name string) (*Node, *ConstructionError) {
	if !ValidGroupName(name) {
		return nil, &ConstructionError{Op: "named", Msg: "invalid group name", Value: name}
	}
	return &Node{Op: OpGroup, Capture: true, Name: name, Kids: []*Node{body}}, nil
}

// Repeat quantifies body. Max of Unbounded means no upper limit; otherwise
// Max must be at least Min. The result is greedy.
func Repeat(body *Node, min, max int) (*Node, *ConstructionError) {
	if min < 0 {
		return nil, &ConstructionError{
			Op:    "repeat",
			Msg:   "negative repetition count",
			Value: fmt.Sprintf("%d", min),
		}
	}
	if max != Unbounded && max < min {
		return nil, &ConstructionError{
			Op:    "repeat",
			Msg:   "repetition upper bound below lower bound",
			Value: fmt.Sprintf("{%d,%d}", min, max),
		}
	}
	return &Node{Op: OpRepeat, Min: min, Max: max, Greedy: true, Kids: []*Node{body}}, nil
}

// NonGreedy returns a lazy copy of an OpRepeat node.
func NonGreedy(rep *Node) *Node {
	lazy := *rep
	lazy.Greedy = false
	return &lazy
}

// ValidGroupName reports whether s is usable as a capture group name:
// letters, digits and underscore, not starting with a digit.
func ValidGroupName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_':
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// Names appends every capture group name under n to dst, in tree order.
func Names(n *Node, dst []string) []string {
	if n == nil {
		return dst
	}
	if n.Op == OpGroup && n.Name != "" {
		dst = append(dst, n.Name)
	}
	for _, k := range n.Kids {
		dst = Names(k, dst)
	}
	return dst
}
