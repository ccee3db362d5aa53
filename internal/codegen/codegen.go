// Package codegen renders pattern trees as fluent builder source text.
// It is the code-mode counterpart of the pattern renderer: both walk the
// same tree, one emitting regex syntax, the other the builder calls that
// would reconstruct it.
package codegen

import (
	"fmt"

	"github.com/dave/jennifer/jen"

	"github.com/ezregexp/ezregexp/internal/pattern"
)

// Render flattens a tree into builder-API source text. The output is plain
// unqualified Go source, suitable for pasting into a program that
// dot-imports or aliases the builder package; it is never executed here.
func Render(n *pattern.Node) string {
	return fmt.Sprintf("%#v", fragExpr(n))
}

// classCtor maps predefined class kinds to builder constructor names.
var classCtor = map[pattern.ClassKind]string{
	pattern.ClassDigit:  "Digit",
	pattern.ClassWord:   "Word",
	pattern.ClassSpace:  "Whitespace",
	pattern.ClassLetter: "Letter",
}

// anchorCtor maps anchor tokens to standalone constructor names.
var anchorCtor = map[string]string{
	pattern.AnchorStart:           "AtStart",
	pattern.AnchorEnd:             "AtEnd",
	pattern.AnchorWordBoundary:    "WordBoundary",
	pattern.AnchorNotWordBoundary: "NotWordBoundary",
}

// fragExpr renders n as a self-contained builder expression.
func fragExpr(n *pattern.Node) *jen.Statement {
	switch n.Op {
	case pattern.OpConcat:
		return chainExpr(n.Kids)
	case pattern.OpLiteral:
		return jen.Id("Text").Call(jen.Lit(n.Text))
	case pattern.OpClass:
		return classExpr(n)
	case pattern.OpAnyChar:
		return jen.Id("Any").Call()
	case pattern.OpAnchor:
		return jen.Id(anchorCtor[n.Text]).Call()
	case pattern.OpAlt:
		return jen.Id("Either").Call(branchArgs(n.Kids)...)
	case pattern.OpCharSet:
		return setExpr(n)
	case pattern.OpGroup:
		return groupExpr(n)
	case pattern.OpRepeat:
		body := n.Kids[0]
		if multiConcat(body) {
			// Wrapping methods bind to the last fragment of a chain,
			// so a quantified sub-sequence must be handed over as one
			// fragment.
			return quantCall(jen.Id("GroupOf").Call(chainExpr(body.Kids)), n)
		}
		return quantCall(fragExpr(body), n)
	}
	return jen.Id("Text").Call(jen.Lit(""))
}

// argExpr renders n as a fragment argument, where plain literals may stay
// bare Go strings.
func argExpr(n *pattern.Node) jen.Code {
	if n.Op == pattern.OpLiteral {
		return jen.Lit(n.Text)
	}
	return fragExpr(n)
}

func multiConcat(n *pattern.Node) bool {
	return n.Op == pattern.OpConcat && len(n.Kids) > 1
}

// chainExpr renders a sequence as a builder chain: the first fragment
// decides the root call, every later fragment appends with a chain method.
func chainExpr(kids []*pattern.Node) *jen.Statement {
	if len(kids) == 0 {
		return jen.Id("Text").Call(jen.Lit(""))
	}

	var stmt *jen.Statement
	switch kids[0].Op {
	case pattern.OpClass, pattern.OpAnchor, pattern.OpAnyChar:
		stmt = fragExpr(kids[0])
	default:
		stmt = jen.Id("StartWith").Call(argExpr(kids[0]))
	}

	for _, k := range kids[1:] {
		switch k.Op {
		case pattern.OpAlt:
			stmt = stmt.Dot("AndEither").Call(branchArgs(k.Kids)...)
		case pattern.OpAnchor:
			if k.Text == pattern.AnchorEnd {
				stmt = stmt.Dot("MustEnd").Call()
			} else {
				stmt = stmt.Dot("AndThen").Call(fragExpr(k))
			}
		case pattern.OpRepeat:
			body := k.Kids[0]
			if multiConcat(body) {
				stmt = stmt.Dot("AndThen").Call(jen.Id("GroupOf").Call(chainExpr(body.Kids)))
			} else {
				stmt = stmt.Dot("AndThen").Call(argExpr(body))
			}
			stmt = quantCall(stmt, k)
		default:
			stmt = stmt.Dot("AndThen").Call(argExpr(k))
		}
	}
	return stmt
}

func branchArgs(kids []*pattern.Node) []jen.Code {
	args := make([]jen.Code, len(kids))
	for i, k := range kids {
		args[i] = argExpr(k)
	}
	return args
}

func classExpr(n *pattern.Node) *jen.Statement {
	ctor := jen.Id(classCtor[pattern.ClassKind(n.Text)]).Call()
	if n.Negated {
		return jen.Id("AnyExcept").Call(ctor)
	}
	return ctor
}

func setExpr(n *pattern.Node) *jen.Statement {
	ctor := "OneOf"
	if n.Negated {
		ctor = "NoneOf"
	}
	var args []jen.Code
	run := ""
	flush := func() {
		if run != "" {
			args = append(args, jen.Lit(run))
			run = ""
		}
	}
	for _, m := range n.Kids {
		switch m.Op {
		case pattern.OpChar:
			run += m.Text
		case pattern.OpCharRange:
			flush()
			lo := []rune(m.Kids[0].Text)[0]
			hi := []rune(m.Kids[1].Text)[0]
			args = append(args, jen.Id("Span").Call(jen.LitRune(lo), jen.LitRune(hi)))
		case pattern.OpClass:
			flush()
			args = append(args, classExpr(m))
		}
	}
	flush()
	return jen.Id(ctor).Call(args...)
}

func groupExpr(n *pattern.Node) *jen.Statement {
	body := n.Kids[0]
	if multiConcat(body) {
		switch {
		case n.Name != "":
			return jen.Id("NamedOf").Call(jen.Lit(n.Name), chainExpr(body.Kids))
		case n.Capture:
			return jen.Id("CaptureOf").Call(chainExpr(body.Kids))
		default:
			return jen.Id("GroupOf").Call(chainExpr(body.Kids))
		}
	}
	switch {
	case n.Name != "":
		return fragExpr(body).Dot("Named").Call(jen.Lit(n.Name))
	case n.Capture:
		return fragExpr(body).Dot("Capture").Call()
	default:
		return fragExpr(body).Dot("Group").Call()
	}
}

// quantCall appends the shortest quantifier method for an OpRepeat node.
func quantCall(stmt *jen.Statement, rep *pattern.Node) *jen.Statement {
	switch {
	case rep.Min == 0 && rep.Max == 1:
		stmt = stmt.Dot("Optional").Call()
	case rep.Min == 0 && rep.Max == pattern.Unbounded:
		stmt = stmt.Dot("ZeroOrMore").Call()
	case rep.Min == 1 && rep.Max == pattern.Unbounded:
		stmt = stmt.Dot("OneOrMore").Call()
	case rep.Max == pattern.Unbounded:
		stmt = stmt.Dot("AtLeast").Call(jen.Lit(rep.Min))
	case rep.Min == rep.Max:
		stmt = stmt.Dot("Times").Call(jen.Lit(rep.Min))
	default:
		stmt = stmt.Dot("Between").Call(jen.Lit(rep.Min), jen.Lit(rep.Max))
	}
	if !rep.Greedy {
		stmt = stmt.Dot("Lazy").Call()
	}
	return stmt
}
