package pattern

// ClassKind identifies a predefined character class.
type ClassKind string

const (
	ClassDigit  ClassKind = "digit"
	ClassWord   ClassKind = "word"
	ClassSpace  ClassKind = "space"
	ClassLetter ClassKind = "letter"
)

// classSyntax maps a class kind to its positive and negated escape tokens.
// LookupClassToken resolves in the other direction, so the renderer and the
// parser stay exact inverses.
var classSyntax = map[ClassKind][2]string{
	ClassDigit:  {`\d`, `\D`},
	ClassWord:   {`\w`, `\W`},
	ClassSpace:  {`\s`, `\S`},
	ClassLetter: {`\pL`, `\PL`},
}

// ClassToken returns the escape token for a class kind, honoring negation.
func ClassToken(kind ClassKind, negated bool) string {
	pair := classSyntax[kind]
	if negated {
		return pair[1]
	}
	return pair[0]
}

// LookupClassToken resolves an escape token back to its class kind.
func LookupClassToken(token string) (kind ClassKind, negated, ok bool) {
	for k, pair := range classSyntax {
		if token == pair[0] {
			return k, false, true
		}
		if token == pair[1] {
			return k, true, true
		}
	}
	return "", false, false
}

// Anchor tokens. Node.Text of an OpAnchor holds one of these.
const (
	AnchorStart           = "^"
	AnchorEnd             = "$"
	AnchorWordBoundary    = `\b`
	AnchorNotWordBoundary = `\B`
)

var anchorTokens = map[string]bool{
	AnchorStart:           true,
	AnchorEnd:             true,
	AnchorWordBoundary:    true,
	AnchorNotWordBoundary: true,
}

// metachars is the set of characters that must be escaped in literal text
// outside a bracket expression.
var metachars = [256]bool{
	'\\': true,
	'.':  true,
	'^':  true,
	'$':  true,
	'*':  true,
	'+':  true,
	'?':  true,
	'(':  true,
	')':  true,
	'[':  true,
	']':  true,
	'{':  true,
	'}':  true,
	'|':  true,
}

// IsMeta reports whether ch is a metacharacter outside a bracket expression.
func IsMeta(ch byte) bool {
	return metachars[ch]
}

// setMetachars is the set of characters escaped inside a bracket expression.
var setMetachars = [256]bool{
	'\\': true,
	']':  true,
	'^':  true,
	'-':  true,
}
