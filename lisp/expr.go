//
// Copyright 2011-2012 Nathan Fiedler. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//

package lisp

// Expr is the parser's output: an abstract expression, distinct from
// the runtime Value universe (§9 "Expressions vs Values"). Each node is
// immutable once constructed. The set of implementations is closed to
// the nine forms declared below.
type Expr interface {
	exprTag()
}

// Literal wraps a self-evaluating Boolean, Number, or String.
type Literal struct {
	Val Value
}

func (*Literal) exprTag() {}

// SymbolRef looks up a canonical name in the environment at eval time.
type SymbolRef struct {
	Name string
}

func (*SymbolRef) exprTag() {}

// If evaluates Cond; if truthy, tails into Then, else into Else.
type If struct {
	Cond, Then, Else Expr
}

func (*If) exprTag() {}

// Lambda constructs a Function capturing the environment live at
// evaluation time. Rest names a variadic tail parameter (SPEC_FULL.md §5,
// `&rest`); it is empty for a fixed-arity lambda.
type Lambda struct {
	Params []string
	Rest   string
	Body   Expr
}

func (*Lambda) exprTag() {}

// Apply evaluates Fn, then each of Args left-to-right, then invokes.
type Apply struct {
	Fn   Expr
	Args []Expr
}

func (*Apply) exprTag() {}

// Quote yields Val verbatim; it is a no-op at runtime because Val is
// already a Value, not a datum needing further parsing (§9).
type Quote struct {
	Val Value
}

func (*Quote) exprTag() {}

// Do evaluates each of Body in order; its value is the value of the
// last, or Nil if Body is empty.
type Do struct {
	Body []Expr
}

func (*Do) exprTag() {}

// LetRecBinding is one (name expr) pair of a LetRec form.
type LetRecBinding struct {
	Name string
	Expr Expr
}

// LetRec introduces a set of mutually recursive bindings, all visible
// to every right-hand side, then evaluates Body in that scope (§4.3).
type LetRec struct {
	Bindings []LetRecBinding
	Body     Expr
}

func (*LetRec) exprTag() {}

// SetBang mutates an existing binding (without introducing one) and
// evaluates to the previous value. Surface syntax for Environment.Update
// (SPEC_FULL.md §5: `set!`).
type SetBang struct {
	Name string
	Val  Expr
}

func (*SetBang) exprTag() {}

// Declaration is a top-level form: one of Define, Defun, or
// TopExpression (§3).
type Declaration interface {
	declTag()
}

// Define binds Name to the value of Expr in the environment it is
// evaluated in (the root environment by default).
type Define struct {
	Name string
	Expr Expr
}

func (*Define) declTag() {}

// Defun binds Name to a Function with the given parameters and body in
// the environment it is evaluated in (the root environment by default).
type Defun struct {
	Name   string
	Params []string
	Rest   string
	Body   Expr
}

func (*Defun) declTag() {}

// TopExpression is a top-level form evaluated purely for its value (or
// side effect), without binding anything.
type TopExpression struct {
	Expr Expr
}

func (*TopExpression) declTag() {}
