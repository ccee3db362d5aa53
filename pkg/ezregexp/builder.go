// Package ezregexp builds regular-expression pattern strings from
// composable named primitives, and explains existing patterns back into
// the builder calls that would reconstruct them. It only ever produces
// and parses pattern syntax; matching is left to an external engine such
// as the standard regexp package.
package ezregexp

import (
	"fmt"

	"github.com/ezregexp/ezregexp/internal/codegen"
	"github.com/ezregexp/ezregexp/internal/parser"
	"github.com/ezregexp/ezregexp/internal/pattern"
)

// ConstructionError reports a combinator precondition violation: an
// invalid group name, bad quantifier bounds, a duplicate capture name, or
// an unusable fragment value.
type ConstructionError = pattern.ConstructionError

// ParseError reports malformed pattern text handed to Explain, carrying
// the byte offset of the offending construct.
type ParseError = parser.ParseError

// Pattern is an immutable handle to a pattern under construction. Every
// combinator returns a new handle; existing handles stay valid and
// unchanged, so sub-expressions can be reused freely.
//
// A combinator that rejects its input records the first ConstructionError
// on the returned handle. Later combinators pass the error through, and
// ToString, ToCode and Err surface it.
type Pattern struct {
	node *pattern.Node
	err  error
}

func wrap(n *pattern.Node) *Pattern {
	return &Pattern{node: n}
}

func fail(err error) *Pattern {
	return &Pattern{err: err}
}

// asNode converts a fragment argument: a string becomes a literal, a
// *Pattern contributes its tree (or its recorded error).
func asNode(op string, frag any) (*pattern.Node, error) {
	switch v := frag.(type) {
	case string:
		return pattern.Literal(v), nil
	case *Pattern:
		if v.err != nil {
			return nil, v.err
		}
		return v.node, nil
	default:
		return nil, &ConstructionError{Op: op, Msg: fmt.Sprintf("unsupported fragment type %T", frag)}
	}
}

// dupName returns the first capture name appearing more than once across
// the given trees. Names must be unique within one top-level pattern, so
// joining trees is the moment to catch collisions.
func dupName(nodes ...*pattern.Node) string {
	seen := make(map[string]bool)
	for _, n := range nodes {
		for _, name := range pattern.Names(n, nil) {
			if seen[name] {
				return name
			}
			seen[name] = true
		}
	}
	return ""
}

// StartWith begins a new pattern from frag: a string literal or any
// previously built sub-expression.
func StartWith(frag any) *Pattern {
	n, err := asNode("StartWith", frag)
	if err != nil {
		return fail(err)
	}
	return wrap(n)
}

// Text matches the given text literally; metacharacters are escaped when
// the pattern is rendered.
func Text(s string) *Pattern {
	return wrap(pattern.Literal(s))
}

func class(kind pattern.ClassKind) *Pattern {
	n, cerr := pattern.Class(kind, false)
	if cerr != nil {
		return fail(cerr)
	}
	return wrap(n)
}

// Digit matches a digit character.
func Digit() *Pattern { return class(pattern.ClassDigit) }

// Word matches a word character: letters, digits and underscore.
func Word() *Pattern { return class(pattern.ClassWord) }

// Whitespace matches a whitespace character.
func Whitespace() *Pattern { return class(pattern.ClassSpace) }

// Letter matches a unicode letter.
func Letter() *Pattern { return class(pattern.ClassLetter) }

// Any matches any single character.
func Any() *Pattern { return wrap(pattern.AnyChar()) }

func anchor(token string) *Pattern {
	n, cerr := pattern.Anchor(token)
	if cerr != nil {
		return fail(cerr)
	}
	return wrap(n)
}

// AtStart anchors the pattern at the start of input.
func AtStart() *Pattern { return anchor(pattern.AnchorStart) }

// AtEnd anchors the pattern at the end of input.
func AtEnd() *Pattern { return anchor(pattern.AnchorEnd) }

// WordBoundary matches the zero-width boundary between word and non-word
// characters.
func WordBoundary() *Pattern { return anchor(pattern.AnchorWordBoundary) }

// NotWordBoundary matches where WordBoundary does not.
func NotWordBoundary() *Pattern { return anchor(pattern.AnchorNotWordBoundary) }

// Either matches any one of the given fragments, preferring earlier
// branches on backtracking engines.
func Either(frags ...any) *Pattern {
	kids, err := branchNodes(frags)
	if err != nil {
		return fail(err)
	}
	if name := dupName(kids...); name != "" {
		return fail(&ConstructionError{Op: "Either", Msg: "duplicate capture group name", Value: name})
	}
	return wrap(pattern.Alt(kids...))
}

func branchNodes(frags []any) ([]*pattern.Node, error) {
	kids := make([]*pattern.Node, len(frags))
	for i, f := range frags {
		n, err := asNode("Either", f)
		if err != nil {
			return nil, err
		}
		kids[i] = n
	}
	return kids, nil
}

// AnyExcept negates a predefined class or bracket expression: AnyExcept
// of Digit matches any non-digit.
func AnyExcept(frag any) *Pattern {
	n, err := asNode("AnyExcept", frag)
	if err != nil {
		return fail(err)
	}
	switch n.Op {
	case pattern.OpClass, pattern.OpCharSet:
		neg := *n
		neg.Negated = !n.Negated
		return wrap(&neg)
	default:
		return fail(&ConstructionError{Op: "AnyExcept", Msg: "fragment is not a character class"})
	}
}

// ClassItem is one member of a bracket expression built by OneOf or
// NoneOf.
type ClassItem struct {
	lo, hi rune
}

// Span builds a lo-hi character range member for OneOf and NoneOf.
func Span(lo, hi rune) ClassItem {
	return ClassItem{lo: lo, hi: hi}
}

// OneOf matches any single character from the given members: strings
// contribute each of their characters, Span values contribute ranges, and
// predefined classes may be mixed in.
func OneOf(items ...any) *Pattern {
	return charSet(false, items)
}

// NoneOf matches any single character not covered by the given members.
func NoneOf(items ...any) *Pattern {
	return charSet(true, items)
}

func charSet(negated bool, items []any) *Pattern {
	op := "OneOf"
	if negated {
		op = "NoneOf"
	}
	var members []*pattern.Node
	for _, item := range items {
		switch v := item.(type) {
		case string:
			for _, r := range v {
				members = append(members, pattern.SetChar(r))
			}
		case ClassItem:
			rng, cerr := pattern.SetRange(v.lo, v.hi)
			if cerr != nil {
				return fail(cerr)
			}
			members = append(members, rng)
		case *Pattern:
			if v.err != nil {
				return fail(v.err)
			}
			if v.node.Op != pattern.OpClass {
				return fail(&ConstructionError{Op: op, Msg: "only predefined classes may nest in a character set"})
			}
			members = append(members, v.node)
		default:
			return fail(&ConstructionError{Op: op, Msg: fmt.Sprintf("unsupported set member type %T", item)})
		}
	}
	set, cerr := pattern.CharSet(negated, members...)
	if cerr != nil {
		return fail(cerr)
	}
	return wrap(set)
}

// GroupOf wraps the whole fragment in a non-capturing group, scoping
// later quantifiers over all of it.
func GroupOf(frag any) *Pattern {
	n, err := asNode("GroupOf", frag)
	if err != nil {
		return fail(err)
	}
	return wrap(pattern.Group(n, false))
}

// CaptureOf wraps the whole fragment in an unnamed capturing group.
func CaptureOf(frag any) *Pattern {
	n, err := asNode("CaptureOf", frag)
	if err != nil {
		return fail(err)
	}
	return wrap(pattern.Group(n, true))
}

// NamedOf wraps the whole fragment in a capturing group exposed under
// name.
func NamedOf(name string, frag any) *Pattern {
	n, err := asNode("NamedOf", frag)
	if err != nil {
		return fail(err)
	}
	if dup := dupName(n); dup != "" || containsName(n, name) {
		if dup == "" {
			dup = name
		}
		return fail(&ConstructionError{Op: "NamedOf", Msg: "duplicate capture group name", Value: dup})
	}
	g, cerr := pattern.NamedGroup(n, name)
	if cerr != nil {
		return fail(cerr)
	}
	return wrap(g)
}

func containsName(n *pattern.Node, name string) bool {
	for _, have := range pattern.Names(n, nil) {
		if have == name {
			return true
		}
	}
	return false
}

// push appends kid to the pattern, converting the root into a sequence if
// it is not one yet.
func (p *Pattern) push(op string, kid *pattern.Node) *Pattern {
	if name := dupName(p.node, kid); name != "" {
		return fail(&ConstructionError{Op: op, Msg: "duplicate capture group name", Value: name})
	}
	if p.node.Op == pattern.OpConcat {
		kids := make([]*pattern.Node, 0, len(p.node.Kids)+1)
		kids = append(kids, p.node.Kids...)
		kids = append(kids, kid)
		return wrap(pattern.Concat(kids...))
	}
	return wrap(pattern.Concat(p.node, kid))
}

// AndThen appends frag to the sequence.
func (p *Pattern) AndThen(frag any) *Pattern {
	if p.err != nil {
		return p
	}
	n, err := asNode("AndThen", frag)
	if err != nil {
		return fail(err)
	}
	return p.push("AndThen", n)
}

// AndEither appends an alternation over the given fragments to the
// sequence.
func (p *Pattern) AndEither(frags ...any) *Pattern {
	if p.err != nil {
		return p
	}
	kids, err := branchNodes(frags)
	if err != nil {
		return fail(err)
	}
	return p.push("AndEither", pattern.Alt(kids...))
}

// Or wraps everything accumulated so far and frag into an alternation.
// Chained calls add further branches.
func (p *Pattern) Or(frag any) *Pattern {
	if p.err != nil {
		return p
	}
	n, err := asNode("Or", frag)
	if err != nil {
		return fail(err)
	}
	if name := dupName(p.node, n); name != "" {
		return fail(&ConstructionError{Op: "Or", Msg: "duplicate capture group name", Value: name})
	}
	if p.node.Op == pattern.OpAlt {
		kids := make([]*pattern.Node, 0, len(p.node.Kids)+1)
		kids = append(kids, p.node.Kids...)
		kids = append(kids, n)
		return wrap(pattern.Alt(kids...))
	}
	return wrap(pattern.Alt(p.node, n))
}

// wrapLast replaces the last fragment of the sequence with f(last). On a
// single-fragment pattern the whole tree is wrapped.
func (p *Pattern) wrapLast(f func(*pattern.Node) (*pattern.Node, *pattern.ConstructionError)) *Pattern {
	if p.node.Op == pattern.OpConcat && len(p.node.Kids) > 0 {
		last := p.node.Kids[len(p.node.Kids)-1]
		wrapped, cerr := f(last)
		if cerr != nil {
			return fail(cerr)
		}
		kids := make([]*pattern.Node, len(p.node.Kids))
		copy(kids, p.node.Kids)
		kids[len(kids)-1] = wrapped
		return wrap(pattern.Concat(kids...))
	}
	wrapped, cerr := f(p.node)
	if cerr != nil {
		return fail(cerr)
	}
	return wrap(wrapped)
}

func (p *Pattern) repeat(min, max int) *Pattern {
	if p.err != nil {
		return p
	}
	return p.wrapLast(func(last *pattern.Node) (*pattern.Node, *pattern.ConstructionError) {
		return pattern.Repeat(last, min, max)
	})
}

// Times repeats the preceding fragment exactly n times. Quantifiers
// compose: applying one to an already-quantified fragment nests another
// repetition instead of replacing the first.
func (p *Pattern) Times(n int) *Pattern {
	return p.repeat(n, n)
}

// AtLeast repeats the preceding fragment n or more times.
func (p *Pattern) AtLeast(n int) *Pattern {
	return p.repeat(n, pattern.Unbounded)
}

// Between repeats the preceding fragment between min and max times.
func (p *Pattern) Between(min, max int) *Pattern {
	return p.repeat(min, max)
}

// Optional matches the preceding fragment zero or one time.
func (p *Pattern) Optional() *Pattern {
	return p.repeat(0, 1)
}

// ZeroOrMore matches the preceding fragment any number of times.
func (p *Pattern) ZeroOrMore() *Pattern {
	return p.repeat(0, pattern.Unbounded)
}

// OneOrMore matches the preceding fragment one or more times.
func (p *Pattern) OneOrMore() *Pattern {
	return p.repeat(1, pattern.Unbounded)
}

// Lazy makes the preceding quantifier prefer the shortest match.
func (p *Pattern) Lazy() *Pattern {
	if p.err != nil {
		return p
	}
	return p.wrapLast(func(last *pattern.Node) (*pattern.Node, *pattern.ConstructionError) {
		if last.Op != pattern.OpRepeat {
			return nil, &ConstructionError{Op: "Lazy", Msg: "preceding fragment is not quantified"}
		}
		return pattern.NonGreedy(last), nil
	})
}

// Named wraps the preceding fragment in a capturing group exposed under
// name. Quantifying the result afterwards puts the quantifier outside the
// capture, so the group reports the final repetition.
func (p *Pattern) Named(name string) *Pattern {
	if p.err != nil {
		return p
	}
	if containsName(p.node, name) {
		return fail(&ConstructionError{Op: "Named", Msg: "duplicate capture group name", Value: name})
	}
	return p.wrapLast(func(last *pattern.Node) (*pattern.Node, *pattern.ConstructionError) {
		return pattern.NamedGroup(last, name)
	})
}

// Group wraps the preceding fragment in a non-capturing group.
func (p *Pattern) Group() *Pattern {
	if p.err != nil {
		return p
	}
	return p.wrapLast(func(last *pattern.Node) (*pattern.Node, *pattern.ConstructionError) {
		return pattern.Group(last, false), nil
	})
}

// Capture wraps the preceding fragment in an unnamed capturing group.
func (p *Pattern) Capture() *Pattern {
	if p.err != nil {
		return p
	}
	return p.wrapLast(func(last *pattern.Node) (*pattern.Node, *pattern.ConstructionError) {
		return pattern.Group(last, true), nil
	})
}

// MustEnd anchors the pattern at the end of input.
func (p *Pattern) MustEnd() *Pattern {
	if p.err != nil {
		return p
	}
	end, cerr := pattern.Anchor(pattern.AnchorEnd)
	if cerr != nil {
		return fail(cerr)
	}
	return p.push("MustEnd", end)
}

// ToString renders the pattern in regex syntax. It fails only when the
// handle carries a construction error; a well-formed tree always renders.
func (p *Pattern) ToString() (string, error) {
	if p.err != nil {
		return "", p.err
	}
	return pattern.Render(p.node), nil
}

// MustString is like ToString but panics on a construction error.
func (p *Pattern) MustString() string {
	s, err := p.ToString()
	if err != nil {
		panic(err)
	}
	return s
}

// String implements fmt.Stringer, rendering the pattern or an empty
// string for an errored handle.
func (p *Pattern) String() string {
	s, _ := p.ToString()
	return s
}

// ToCode renders the pattern as builder-API source text.
func (p *Pattern) ToCode() (string, error) {
	if p.err != nil {
		return "", p.err
	}
	return codegen.Render(p.node), nil
}

// Err returns the first construction error recorded on this handle, if
// any.
func (p *Pattern) Err() error {
	return p.err
}
