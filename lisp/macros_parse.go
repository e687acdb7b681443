//
// Copyright 2011-2012 Nathan Fiedler. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//

package lisp

// registerBuiltinMacros installs the parse-time macros that §4.2
// requires (`and`, `or`, `let`, `let*`) plus the ones this module adds
// from original_source/mlisp.py's macro table (`loop`, `funrec`,
// `dict` — see SPEC_FULL.md §4). Registration of a built-in name can
// only fail if called twice on the same Parser, which NewParser never
// does, so a failure here indicates a programming error worth a panic
// rather than a buried error return.
func registerBuiltinMacros(p *Parser) {
	builtins := map[string]ParseMacro{
		"let":    macroLet,
		"let*":   macroLetStar,
		"and":    macroAnd,
		"or":     macroOr,
		"loop":   macroLoop,
		"funrec": macroFunrec,
		"dict":   macroDict,
	}
	for name, fn := range builtins {
		if err := p.RegisterMacro(name, fn); err != nil {
			panic(err)
		}
	}
}

func sym(name string) Value { return NewSymbol(name) }

func list(vs ...Value) Value { return ListFromSlice(vs) }

// macroLet implements `(let ((x e)…) body…) => ((fn (x…) body…) e…)`.
func macroLet(p *Parser, name string, args Value) (Value, *Error) {
	items, err := SliceFromList(args)
	if err != nil || len(items) < 1 {
		return nil, newError(KindParseError, "let requires a binding list and at least one body form")
	}
	bindings, berr := SliceFromList(items[0])
	if berr != nil {
		return nil, newError(KindParseError, "let bindings must be a list")
	}
	names := make([]Value, 0, len(bindings))
	inits := make([]Value, 0, len(bindings))
	for _, b := range bindings {
		pair, perr := SliceFromList(b)
		if perr != nil || len(pair) != 2 {
			return nil, newError(KindParseError, "each let binding must be (name expr)")
		}
		names = append(names, pair[0])
		inits = append(inits, pair[1])
	}
	lambda := append([]Value{sym("fn"), ListFromSlice(names)}, items[1:]...)
	result := append([]Value{ListFromSlice(lambda)}, inits...)
	return ListFromSlice(result), nil
}

// macroLetStar implements:
//
//	(let* () body…)            => body as (do body…)
//	(let* ((x e) rest…) body…) => (let ((x e)) (let* (rest…) body…))
func macroLetStar(p *Parser, name string, args Value) (Value, *Error) {
	items, err := SliceFromList(args)
	if err != nil || len(items) < 1 {
		return nil, newError(KindParseError, "let* requires a binding list and at least one body form")
	}
	bindings, berr := SliceFromList(items[0])
	if berr != nil {
		return nil, newError(KindParseError, "let* bindings must be a list")
	}
	body := items[1:]
	if len(bindings) == 0 {
		return ListFromSlice(append([]Value{sym("do")}, body...)), nil
	}
	first := bindings[0]
	innerLetStar := append([]Value{sym("let*"), ListFromSlice(bindings[1:])}, body...)
	return list(sym("let"), list(first), ListFromSlice(innerLetStar)), nil
}

// macroAnd implements the short-circuiting `and` from §4.2.
func macroAnd(p *Parser, name string, args Value) (Value, *Error) {
	items, err := SliceFromList(args)
	if err != nil {
		return nil, newError(KindParseError, "malformed and")
	}
	switch len(items) {
	case 0:
		return True, nil
	case 1:
		return items[0], nil
	default:
		g := sym(p.Gensym())
		rest := append([]Value{sym("and")}, items[1:]...)
		return list(sym("let"), list(list(g, items[0])),
			list(sym("if"), g, ListFromSlice(rest), g)), nil
	}
}

// macroOr implements the short-circuiting `or` from §4.2.
func macroOr(p *Parser, name string, args Value) (Value, *Error) {
	items, err := SliceFromList(args)
	if err != nil {
		return nil, newError(KindParseError, "malformed or")
	}
	switch len(items) {
	case 0:
		return False, nil
	case 1:
		return items[0], nil
	default:
		g := sym(p.Gensym())
		rest := append([]Value{sym("or")}, items[1:]...)
		return list(sym("let"), list(list(g, items[0])),
			list(sym("if"), g, g, ListFromSlice(rest))), nil
	}
}

// macroLoop implements the named-let extension:
//
//	(loop NAME ((p e)…) body…) => (letrec ((NAME (fn (p…) body…))) (NAME e…))
func macroLoop(p *Parser, name string, args Value) (Value, *Error) {
	items, err := SliceFromList(args)
	if err != nil || len(items) < 2 {
		return nil, newError(KindParseError, "loop requires a name, a binding list, and a body")
	}
	nameSym, ok := items[0].(*Symbol)
	if !ok {
		return nil, newError(KindParseError, "loop name must be a symbol")
	}
	bindings, berr := SliceFromList(items[1])
	if berr != nil {
		return nil, newError(KindParseError, "loop bindings must be a list")
	}
	params := make([]Value, 0, len(bindings))
	inits := make([]Value, 0, len(bindings))
	for _, b := range bindings {
		pair, perr := SliceFromList(b)
		if perr != nil || len(pair) != 2 {
			return nil, newError(KindParseError, "each loop binding must be (name expr)")
		}
		params = append(params, pair[0])
		inits = append(inits, pair[1])
	}
	lambda := append([]Value{sym("fn"), ListFromSlice(params)}, items[2:]...)
	binding := list(nameSym, ListFromSlice(lambda))
	call := append([]Value{nameSym}, inits...)
	return list(sym("letrec"), list(binding), ListFromSlice(call)), nil
}

// macroFunrec implements single self-recursive function sugar:
//
//	(funrec NAME (p…) body…) => (letrec ((NAME (fn (p…) body…))) NAME)
func macroFunrec(p *Parser, name string, args Value) (Value, *Error) {
	items, err := SliceFromList(args)
	if err != nil || len(items) < 2 {
		return nil, newError(KindParseError, "funrec requires a name, a parameter list, and a body")
	}
	nameSym, ok := items[0].(*Symbol)
	if !ok {
		return nil, newError(KindParseError, "funrec name must be a symbol")
	}
	lambda := append([]Value{sym("fn"), items[1]}, items[2:]...)
	binding := list(nameSym, ListFromSlice(lambda))
	return list(sym("letrec"), list(binding), nameSym), nil
}

// macroDict implements the association-list literal from SPEC_FULL.md §4:
//
//	(dict (k1 v1) (k2 v2)…) => (make-dict (list (list k1 v1) (list k2 v2)…))
func macroDict(p *Parser, name string, args Value) (Value, *Error) {
	items, err := SliceFromList(args)
	if err != nil {
		return nil, newError(KindParseError, "malformed dict")
	}
	entries := make([]Value, 0, len(items))
	for _, it := range items {
		pair, perr := SliceFromList(it)
		if perr != nil || len(pair) != 2 {
			return nil, newError(KindParseError, "each dict entry must be (key value)")
		}
		entries = append(entries, list(sym("list"), pair[0], pair[1]))
	}
	return list(sym("make-dict"), ListFromSlice(append([]Value{sym("list")}, entries...))), nil
}
