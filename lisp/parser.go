//
// Copyright 2011-2012 Nathan Fiedler. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//

package lisp

import "fmt"

// ParseMacro transforms a parse-time macro invocation `(NAME arg...)`
// into a replacement datum, which is parsed again before the result is
// used (§4.2). args is the list-kind Value of the unparsed argument
// datums (the head NAME is not included).
type ParseMacro func(p *Parser, name string, args Value) (Value, *Error)

// Parser recognizes top-level declarations and expressions, expanding
// parse-time macros along the way (§4.2).
type Parser struct {
	macros     map[string]ParseMacro
	gensymNext int
}

// NewParser constructs a Parser with the built-in macros (`and`, `or`,
// `let`, `let*`, `loop`, `funrec`, `dict`) already registered.
func NewParser() *Parser {
	p := &Parser{macros: make(map[string]ParseMacro)}
	registerBuiltinMacros(p)
	return p
}

// RegisterMacro adds a parse-time macro under the given (canonicalized)
// name. Re-registering an existing name fails with DuplicateMacro.
func (p *Parser) RegisterMacro(name string, fn ParseMacro) *Error {
	name = Canonicalize(name)
	if _, exists := p.macros[name]; exists {
		return newErrorf(KindDuplicateMacro, "parse macro already registered: %s", name)
	}
	p.macros[name] = fn
	return nil
}

// Gensym returns a fresh identifier guaranteed not to collide with any
// identifier a user could write, by starting it with '#' (a character
// isSymbolChar excludes, so the reader never yields such a symbol),
// paired with a monotonically increasing counter.
func (p *Parser) Gensym() string {
	p.gensymNext++
	return fmt.Sprintf("#g%d", p.gensymNext)
}

// ParseTop recognizes one top-level declaration from a datum (§4.2).
func (p *Parser) ParseTop(datum Value) (Declaration, *Error) {
	if cons, ok := datum.(*Cons); ok {
		if sym, ok := cons.Head.(*Symbol); ok && sym.Name == "def" {
			return p.parseDef(cons)
		}
	}
	expanded, err := p.expand(datum)
	if err != nil {
		return nil, err
	}
	expr, err := p.parseExpr(expanded)
	if err != nil {
		return nil, err
	}
	return &TopExpression{Expr: expr}, nil
}

// parseDef recognizes `(def NAME EXPR)` and `(def (NAME PARAM*) BODY+)`.
func (p *Parser) parseDef(cons *Cons) (Declaration, *Error) {
	rest, err := SliceFromList(cons.Tail)
	if err != nil {
		return nil, newErrorf(KindParseError, "malformed def: %v", err)
	}
	if len(rest) < 2 {
		return nil, newError(KindParseError, "def requires a name/signature and at least one body form")
	}
	switch head := rest[0].(type) {
	case *Symbol:
		if len(rest) != 2 {
			return nil, newError(KindParseError, "def of a value takes exactly one expression")
		}
		expanded, err := p.expand(rest[1])
		if err != nil {
			return nil, err
		}
		expr, err := p.parseExpr(expanded)
		if err != nil {
			return nil, err
		}
		return &Define{Name: head.Name, Expr: expr}, nil
	case *Cons:
		sig, err := SliceFromList(head)
		if err != nil {
			return nil, newErrorf(KindParseError, "malformed def signature: %v", err)
		}
		if len(sig) == 0 {
			return nil, newError(KindParseError, "def signature requires a function name")
		}
		name, ok := sig[0].(*Symbol)
		if !ok {
			return nil, newError(KindParseError, "def signature name must be a symbol")
		}
		params, restParam, err := parseParamList(ListFromSlice(sig[1:]))
		if err != nil {
			return nil, err
		}
		body, err := p.parseBodySeq(rest[1:])
		if err != nil {
			return nil, err
		}
		return &Defun{Name: name.Name, Params: params, Rest: restParam, Body: body}, nil
	default:
		return nil, newError(KindParseError, "def requires a symbol or (symbol params...) signature")
	}
}

// parseBodySeq expands and parses a sequence of body datums into a
// single Do expression, per the teacher's "BODY+ => (begin ...)"
// collapsing (liswat's lambda handling) applied uniformly to def/fn/let.
func (p *Parser) parseBodySeq(datums []Value) (Expr, *Error) {
	exprs := make([]Expr, 0, len(datums))
	for _, d := range datums {
		expanded, err := p.expand(d)
		if err != nil {
			return nil, err
		}
		e, err := p.parseExpr(expanded)
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, e)
	}
	return &Do{Body: exprs}, nil
}

// parseExpr recognizes one already-macro-expanded expression datum
// (§4.2's expression-forms table).
func (p *Parser) parseExpr(datum Value) (Expr, *Error) {
	switch v := datum.(type) {
	case *Number, *String, *Boolean:
		return &Literal{Val: v}, nil
	case *Symbol:
		return &SymbolRef{Name: v.Name}, nil
	case *EmptyListVal:
		return nil, newError(KindParseError, "cannot evaluate empty combination ()")
	case *Cons:
		return p.parseForm(v)
	default:
		return nil, newErrorf(KindParseError, "cannot parse datum of kind %s", datum.Kind())
	}
}

func (p *Parser) parseForm(cons *Cons) (Expr, *Error) {
	if sym, ok := cons.Head.(*Symbol); ok {
		switch sym.Name {
		case "if":
			return p.parseIf(cons)
		case "fn":
			return p.parseFn(cons)
		case "do":
			return p.parseDo(cons)
		case "quote":
			return p.parseQuote(cons)
		case "letrec":
			return p.parseLetRec(cons)
		case "set!":
			return p.parseSetBang(cons)
		}
	}
	return p.parseApply(cons)
}

func (p *Parser) parseIf(cons *Cons) (Expr, *Error) {
	args, err := SliceFromList(cons.Tail)
	if err != nil || len(args) != 3 {
		return nil, newError(KindParseError, "if requires exactly 3 arguments: (if cond then else)")
	}
	c, err := p.expandParse(args[0])
	if err != nil {
		return nil, err
	}
	t, err := p.expandParse(args[1])
	if err != nil {
		return nil, err
	}
	e, err := p.expandParse(args[2])
	if err != nil {
		return nil, err
	}
	return &If{Cond: c, Then: t, Else: e}, nil
}

func (p *Parser) parseFn(cons *Cons) (Expr, *Error) {
	args, err := SliceFromList(cons.Tail)
	if err != nil || len(args) < 2 {
		return nil, newError(KindParseError, "fn requires a parameter list and at least one body form")
	}
	params, rest, perr := parseParamList(args[0])
	if perr != nil {
		return nil, perr
	}
	body, berr := p.parseBodySeq(args[1:])
	if berr != nil {
		return nil, berr
	}
	return &Lambda{Params: params, Rest: rest, Body: body}, nil
}

// parseParamList recognizes a fixed-arity parameter list `(a b c)`, a
// variadic one `(a b &rest more)` whose `&rest` marker must be followed
// by exactly one final name, or a lone symbol `args`, which collects
// every argument.
func parseParamList(datum Value) ([]string, string, *Error) {
	if sym, ok := datum.(*Symbol); ok {
		// (fn args body) — a single symbol collects every argument.
		return nil, sym.Name, nil
	}
	items, err := SliceFromList(datum)
	if err != nil {
		return nil, "", newError(KindParseError, "parameter list must be a list of symbols, or a single symbol")
	}
	params := make([]string, 0, len(items))
	rest := ""
	for i, item := range items {
		sym, ok := item.(*Symbol)
		if !ok {
			return nil, "", newError(KindParseError, "parameter names must be symbols")
		}
		if sym.Name == "&rest" {
			if i != len(items)-2 {
				return nil, "", newError(KindParseError, "&rest must be followed by exactly one parameter name")
			}
			restSym, ok := items[i+1].(*Symbol)
			if !ok {
				return nil, "", newError(KindParseError, "&rest parameter name must be a symbol")
			}
			rest = restSym.Name
			return params, rest, nil
		}
		params = append(params, sym.Name)
	}
	return params, rest, nil
}

func (p *Parser) parseDo(cons *Cons) (Expr, *Error) {
	args, err := SliceFromList(cons.Tail)
	if err != nil {
		return nil, newErrorf(KindParseError, "malformed do: %v", err)
	}
	return p.parseBodySeq(args)
}

func (p *Parser) parseQuote(cons *Cons) (Expr, *Error) {
	args, err := SliceFromList(cons.Tail)
	if err != nil || len(args) != 1 {
		return nil, newError(KindParseError, "quote requires exactly 1 argument")
	}
	return &Quote{Val: args[0]}, nil
}

func (p *Parser) parseSetBang(cons *Cons) (Expr, *Error) {
	args, err := SliceFromList(cons.Tail)
	if err != nil || len(args) != 2 {
		return nil, newError(KindParseError, "set! requires exactly 2 arguments: (set! name expr)")
	}
	sym, ok := args[0].(*Symbol)
	if !ok {
		return nil, newError(KindParseError, "set! target must be a symbol")
	}
	val, verr := p.expandParse(args[1])
	if verr != nil {
		return nil, verr
	}
	return &SetBang{Name: sym.Name, Val: val}, nil
}

func (p *Parser) parseLetRec(cons *Cons) (Expr, *Error) {
	args, err := SliceFromList(cons.Tail)
	if err != nil || len(args) < 2 {
		return nil, newError(KindParseError, "letrec requires a binding list and at least one body form")
	}
	bindingData, err := SliceFromList(args[0])
	if err != nil {
		return nil, newErrorf(KindParseError, "letrec bindings must be a list: %v", err)
	}
	bindings := make([]LetRecBinding, 0, len(bindingData))
	for _, b := range bindingData {
		pair, err := SliceFromList(b)
		if err != nil || len(pair) != 2 {
			return nil, newError(KindParseError, "each letrec binding must be (name expr)")
		}
		sym, ok := pair[0].(*Symbol)
		if !ok {
			return nil, newError(KindParseError, "letrec binding name must be a symbol")
		}
		e, err := p.expandParse(pair[1])
		if err != nil {
			return nil, err
		}
		bindings = append(bindings, LetRecBinding{Name: sym.Name, Expr: e})
	}
	body, berr := p.parseBodySeq(args[1:])
	if berr != nil {
		return nil, berr
	}
	return &LetRec{Bindings: bindings, Body: body}, nil
}

func (p *Parser) parseApply(cons *Cons) (Expr, *Error) {
	items, err := SliceFromList(cons)
	if err != nil {
		return nil, newErrorf(KindParseError, "malformed application: %v", err)
	}
	fn, ferr := p.expandParse(items[0])
	if ferr != nil {
		return nil, ferr
	}
	args := make([]Expr, 0, len(items)-1)
	for _, a := range items[1:] {
		ae, aerr := p.expandParse(a)
		if aerr != nil {
			return nil, aerr
		}
		args = append(args, ae)
	}
	return &Apply{Fn: fn, Args: args}, nil
}

// expandParse expands macros in datum (recursively, to a fixed point)
// then parses the resulting expression.
func (p *Parser) expandParse(datum Value) (Expr, *Error) {
	expanded, err := p.expand(datum)
	if err != nil {
		return nil, err
	}
	return p.parseExpr(expanded)
}

// expand repeatedly expands a registered macro invocation at the head of
// datum until the head is no longer a macro name, then returns the
// result for ordinary parsing. Non-Cons datums and Cons forms whose head
// is a special form keyword or an unregistered symbol pass through
// unchanged.
func (p *Parser) expand(datum Value) (Value, *Error) {
	for {
		cons, ok := datum.(*Cons)
		if !ok {
			return datum, nil
		}
		sym, ok := cons.Head.(*Symbol)
		if !ok {
			return datum, nil
		}
		macro, ok := p.macros[sym.Name]
		if !ok {
			return datum, nil
		}
		expanded, err := macro(p, sym.Name, cons.Tail)
		if err != nil {
			return nil, err
		}
		datum = expanded
	}
}
