// Package parser turns regular-expression pattern text into the shared
// pattern tree. It is the structural inverse of the fluent builder: the
// class and anchor tables it consumes are the same ones the renderer
// emits from.
package parser

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ezregexp/ezregexp/internal/pattern"
)

// ParseError reports malformed pattern text. Pos is the byte offset into
// the original input (before verbose-mode stripping), Msg describes what
// was expected there. Parsing stops at the first error; no partial tree is
// ever returned.
type ParseError struct {
	Pos int
	Msg string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("position %d: %s", e.Pos, e.Msg)
}

// Parse consumes a pattern string, optionally prefixed with an inline flag
// group such as `(?x)`, and produces the equivalent tree.
func Parse(src string) (*pattern.Node, error) {
	return ParseWithTrace(src, nil)
}

// ParseWithTrace is Parse with verbose decision logging.
func ParseWithTrace(src string, tr *Trace) (root *pattern.Node, err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if perr, ok := r.(*ParseError); ok {
			root, err = nil, perr
			return
		}
		panic(r)
	}()

	verbose, consumed := leadingFlags(src)
	body := src[consumed:]
	p := &parser{base: consumed, end: len(src), names: make(map[string]bool), trace: tr}
	if verbose {
		p.src, p.posMap = stripVerbose(body, consumed)
		tr.Logf("verbose mode: stripped %d bytes of whitespace and comments", len(body)-len(p.src))
	} else {
		p.src = body
	}
	tr.Section("parse")
	tr.Logf("input: %q", p.src)

	node := p.parseAlternation()
	if p.pos < len(p.src) {
		// parseSequence only ever stops early on ')'.
		p.throwf(p.pos, "unmatched ')'")
	}
	tr.Logf("parsed %d capture name(s)", len(p.names))
	return node, nil
}

type parser struct {
	src    string
	posMap []int // cleaned offset -> original offset, verbose mode only
	base   int   // offset of src within the original input
	end    int   // length of the original input
	pos    int
	names  map[string]bool
	trace  *Trace
}

// orig maps a position in the working text back to the original input.
func (p *parser) orig(pos int) int {
	if p.posMap != nil {
		if pos < len(p.posMap) {
			return p.posMap[pos]
		}
		return p.end
	}
	return p.base + pos
}

func (p *parser) throwf(pos int, format string, args ...interface{}) {
	panic(&ParseError{Pos: p.orig(pos), Msg: fmt.Sprintf(format, args...)})
}

func (p *parser) peek() byte {
	if p.pos < len(p.src) {
		return p.src[p.pos]
	}
	return 0
}

func (p *parser) parseAlternation() *pattern.Node {
	branches := []*pattern.Node{p.parseSequence()}
	for p.pos < len(p.src) && p.src[p.pos] == '|' {
		p.pos++
		branches = append(branches, p.parseSequence())
	}
	if len(branches) == 1 {
		return branches[0]
	}
	p.trace.Logf("alternation with %d branches", len(branches))
	return pattern.Alt(branches...)
}

func (p *parser) parseSequence() *pattern.Node {
	var terms []*pattern.Node
	for p.pos < len(p.src) {
		ch := p.src[p.pos]
		if ch == '|' || ch == ')' {
			break
		}
		terms = append(terms, p.parseQuantified())
	}
	terms = mergeLiterals(terms)
	if len(terms) == 1 {
		return terms[0]
	}
	return pattern.Concat(terms...)
}

// mergeLiterals folds runs of adjacent single-character literals into one
// literal node, so `abc` parses as one fragment instead of three.
func mergeLiterals(terms []*pattern.Node) []*pattern.Node {
	var out []*pattern.Node
	for _, t := range terms {
		if t.Op == pattern.OpLiteral && len(out) > 0 && out[len(out)-1].Op == pattern.OpLiteral {
			out[len(out)-1] = pattern.Literal(out[len(out)-1].Text + t.Text)
			continue
		}
		out = append(out, t)
	}
	return out
}

func (p *parser) parseQuantified() *pattern.Node {
	node := p.parsePrimary()
	for p.pos < len(p.src) {
		var min, max, width int
		switch p.src[p.pos] {
		case '?':
			min, max, width = 0, 1, 1
		case '*':
			min, max, width = 0, pattern.Unbounded, 1
		case '+':
			min, max, width = 1, pattern.Unbounded, 1
		case '{':
			var ok bool
			min, max, width, ok = p.scanBraces(p.pos)
			if !ok {
				return node
			}
		default:
			return node
		}
		at := p.pos
		p.pos += width
		rep, cerr := pattern.Repeat(node, min, max)
		if cerr != nil {
			p.throwf(at, "%s", cerr.Msg)
		}
		if p.peek() == '?' {
			p.pos++
			rep = pattern.NonGreedy(rep)
		}
		p.trace.Logf("quantifier {%d,%d} at %d", min, max, p.orig(at))
		node = rep
	}
	return node
}

// scanBraces reads a `{m}`, `{m,}` or `{m,n}` repetition starting at
// start without advancing the parser. A brace sequence that does not have
// that shape is not a repetition at all and stays a literal `{`; a
// well-formed one with max below min is rejected outright.
func (p *parser) scanBraces(start int) (min, max, width int, ok bool) {
	i := start + 1
	digits := func() (int, bool) {
		v, n := 0, 0
		for i < len(p.src) && p.src[i] >= '0' && p.src[i] <= '9' {
			v = v*10 + int(p.src[i]-'0')
			i++
			n++
		}
		return v, n > 0
	}
	min, ok = digits()
	if !ok {
		return 0, 0, 0, false
	}
	max = min
	if i < len(p.src) && p.src[i] == ',' {
		i++
		var some bool
		max, some = digits()
		if !some {
			max = pattern.Unbounded
		}
	}
	if i >= len(p.src) || p.src[i] != '}' {
		return 0, 0, 0, false
	}
	i++
	if max != pattern.Unbounded && max < min {
		p.throwf(start, "invalid repetition: upper bound %d below lower bound %d", max, min)
	}
	return min, max, i - start, true
}

func (p *parser) parsePrimary() *pattern.Node {
	ch := p.src[p.pos]
	switch ch {
	case '(':
		return p.parseGroup()
	case '[':
		return p.parseCharSet()
	case '\\':
		return p.parseEscape()
	case '^':
		p.pos++
		return p.mustAnchor(pattern.AnchorStart)
	case '$':
		p.pos++
		return p.mustAnchor(pattern.AnchorEnd)
	case '.':
		p.pos++
		return pattern.AnyChar()
	case '*', '+', '?':
		p.throwf(p.pos, "quantifier '%c' has no operand", ch)
	case '{':
		if _, _, _, ok := p.scanBraces(p.pos); ok {
			p.throwf(p.pos, "repetition has no operand")
		}
	}
	r, size := utf8.DecodeRuneInString(p.src[p.pos:])
	p.pos += size
	return pattern.Literal(string(r))
}

func (p *parser) mustAnchor(token string) *pattern.Node {
	n, cerr := pattern.Anchor(token)
	if cerr != nil {
		panic(cerr) // unreachable: tokens come from the shared table
	}
	return n
}

func (p *parser) parseGroup() *pattern.Node {
	open := p.pos
	p.pos++ // '('
	rest := p.src[p.pos:]

	capture := true
	name := ""
	switch {
	case strings.HasPrefix(rest, "?:"):
		capture = false
		p.pos += 2
	case strings.HasPrefix(rest, "?P<"):
		name = p.scanGroupName(open, len("?P<"))
	case strings.HasPrefix(rest, "?<") && !strings.HasPrefix(rest, "?<=") && !strings.HasPrefix(rest, "?<!"):
		name = p.scanGroupName(open, len("?<"))
	case strings.HasPrefix(rest, "?=") || strings.HasPrefix(rest, "?!") ||
		strings.HasPrefix(rest, "?<=") || strings.HasPrefix(rest, "?<!"):
		p.throwf(open, "lookaround groups are not supported")
	case strings.HasPrefix(rest, "?"):
		if ch, bad := unknownFlag(rest); bad {
			p.throwf(open, "unknown flag '%c' in inline flag group", ch)
		}
		p.throwf(open, "inline flag groups are only supported at the start of the pattern")
	}
	p.trace.Logf("group open at %d (capture=%v name=%q)", p.orig(open), capture, name)

	body := p.parseAlternation()
	if p.pos >= len(p.src) || p.src[p.pos] != ')' {
		p.throwf(open, "missing closing ')'")
	}
	p.pos++

	if name != "" {
		g, cerr := pattern.NamedGroup(body, name)
		if cerr != nil {
			panic(cerr) // unreachable: name validated by scanGroupName
		}
		return g
	}
	return pattern.Group(body, capture)
}

// unknownFlag reports the first unsupported letter of a `(?flags)` group
// body. rest starts at the '?'. Higher-priority group forms have already
// been ruled out by the caller.
func unknownFlag(rest string) (byte, bool) {
	for i := 1; i < len(rest); i++ {
		switch rest[i] {
		case ')':
			return 0, false
		case 'x', 'i', 'm', 's', 'U':
		default:
			return rest[i], true
		}
	}
	return 0, false
}

// scanGroupName consumes `<skip>name>` after an already-matched group
// opener and registers the name, rejecting duplicates. open is the
// position of the group's '('.
func (p *parser) scanGroupName(open, skip int) string {
	p.pos += skip
	start := p.pos
	for p.pos < len(p.src) && p.src[p.pos] != '>' {
		p.pos++
	}
	if p.pos >= len(p.src) {
		p.throwf(open, "missing '>' after capture group name")
	}
	name := p.src[start:p.pos]
	p.pos++ // '>'
	if !pattern.ValidGroupName(name) {
		p.throwf(start, "invalid capture group name %q", name)
	}
	if p.names[name] {
		p.throwf(start, "duplicate capture group name %q", name)
	}
	p.names[name] = true
	return name
}

func (p *parser) parseEscape() *pattern.Node {
	start := p.pos
	p.pos++ // '\'
	if p.pos >= len(p.src) {
		p.throwf(start, "unexpected end of pattern: trailing '\\'")
	}
	ch := p.src[p.pos]
	switch ch {
	case 'd', 'D', 'w', 'W', 's', 'S':
		p.pos++
		kind, negated, _ := pattern.LookupClassToken(`\` + string(ch))
		cls, cerr := pattern.Class(kind, negated)
		if cerr != nil {
			panic(cerr) // unreachable
		}
		return cls
	case 'p', 'P':
		return p.parseUnicodeClass(start)
	case 'b':
		p.pos++
		return p.mustAnchor(pattern.AnchorWordBoundary)
	case 'B':
		p.pos++
		return p.mustAnchor(pattern.AnchorNotWordBoundary)
	}
	if lit, ok := p.controlEscape(ch); ok {
		p.pos++
		return lit
	}
	if isAlphanumeric(ch) {
		p.throwf(start, `unknown escape sequence '\%c'`, ch)
	}
	// Escaped metacharacter or punctuation: a plain literal.
	r, size := utf8.DecodeRuneInString(p.src[p.pos:])
	p.pos += size
	return pattern.Literal(string(r))
}

func (p *parser) controlEscape(ch byte) (*pattern.Node, bool) {
	switch ch {
	case 'n':
		return pattern.Literal("\n"), true
	case 't':
		return pattern.Literal("\t"), true
	case 'r':
		return pattern.Literal("\r"), true
	case 'f':
		return pattern.Literal("\f"), true
	case 'v':
		return pattern.Literal("\v"), true
	}
	return nil, false
}

// parseUnicodeClass handles `\pL`, `\PL` and the `\p{L}` spelling. Only
// the letter class is mapped; other unicode classes have no builder
// counterpart and are rejected.
func (p *parser) parseUnicodeClass(start int) *pattern.Node {
	negated := p.src[p.pos] == 'P'
	p.pos++
	if p.pos >= len(p.src) {
		p.throwf(start, `unexpected end of pattern: expected class letter after '\p'`)
	}
	name := ""
	if p.src[p.pos] == '{' {
		p.pos++
		end := strings.IndexByte(p.src[p.pos:], '}')
		if end < 0 {
			p.throwf(start, `missing '}' in '\p{...}' class`)
		}
		name = p.src[p.pos : p.pos+end]
		p.pos += end + 1
	} else {
		name = string(p.src[p.pos])
		p.pos++
	}
	if name != "L" {
		p.throwf(start, `unsupported unicode class '\p{%s}'`, name)
	}
	cls, cerr := pattern.Class(pattern.ClassLetter, negated)
	if cerr != nil {
		panic(cerr) // unreachable
	}
	return cls
}

func (p *parser) parseCharSet() *pattern.Node {
	open := p.pos
	p.pos++ // '['
	negated := false
	if p.peek() == '^' {
		negated = true
		p.pos++
	}
	var members []*pattern.Node
	for {
		if p.pos >= len(p.src) {
			p.throwf(open, "missing closing ']'")
		}
		if p.src[p.pos] == ']' {
			if len(members) == 0 {
				p.throwf(open, "empty character class")
			}
			p.pos++
			break
		}
		members = append(members, p.parseSetMember())
	}
	set, cerr := pattern.CharSet(negated, members...)
	if cerr != nil {
		p.throwf(open, "%s", cerr.Msg)
	}
	return set
}

func (p *parser) parseSetMember() *pattern.Node {
	lo := p.parseSetChar()
	if lo.Op != pattern.OpChar || p.peek() != '-' {
		return lo
	}
	if p.pos+1 >= len(p.src) || p.src[p.pos+1] == ']' {
		// Trailing '-' is a literal member, picked up next iteration.
		return lo
	}
	dash := p.pos
	p.pos++
	hi := p.parseSetChar()
	if hi.Op != pattern.OpChar {
		p.throwf(dash, "invalid range endpoint")
	}
	loRune, _ := utf8.DecodeRuneInString(lo.Text)
	hiRune, _ := utf8.DecodeRuneInString(hi.Text)
	rng, cerr := pattern.SetRange(loRune, hiRune)
	if cerr != nil {
		p.throwf(dash, "%s", cerr.Msg)
	}
	return rng
}

// parseSetChar parses one bracket-expression member: a plain character, an
// escaped character, or a class shorthand like `\d`.
func (p *parser) parseSetChar() *pattern.Node {
	if p.src[p.pos] != '\\' {
		r, size := utf8.DecodeRuneInString(p.src[p.pos:])
		p.pos += size
		return pattern.SetChar(r)
	}
	start := p.pos
	p.pos++
	if p.pos >= len(p.src) {
		p.throwf(start, "unexpected end of pattern: trailing '\\'")
	}
	ch := p.src[p.pos]
	switch ch {
	case 'd', 'D', 'w', 'W', 's', 'S':
		p.pos++
		kind, negated, _ := pattern.LookupClassToken(`\` + string(ch))
		cls, cerr := pattern.Class(kind, negated)
		if cerr != nil {
			panic(cerr) // unreachable
		}
		return cls
	case 'p', 'P':
		return p.parseUnicodeClass(start)
	}
	if lit, ok := p.controlEscape(ch); ok {
		p.pos++
		return pattern.SetChar([]rune(lit.Text)[0])
	}
	if isAlphanumeric(ch) {
		p.throwf(start, `unknown escape sequence '\%c' in character class`, ch)
	}
	r, size := utf8.DecodeRuneInString(p.src[p.pos:])
	p.pos += size
	return pattern.SetChar(r)
}

func isAlphanumeric(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') ||
		(ch >= 'A' && ch <= 'Z') ||
		(ch >= '0' && ch <= '9')
}
