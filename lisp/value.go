//
// Copyright 2011-2012 Nathan Fiedler. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//

// Package lisp implements the reader, parser, evaluator, and environment
// of a small embeddable Lisp. Hosts wire it up through Engine (see
// engine.go) rather than using these pieces directly.
package lisp

import (
	"math/big"
	"strings"

	"github.com/google/uuid"
)

// Kind names the tagged variant of a Value, and doubles as the result of
// the `type` primitive (as a Symbol).
type Kind string

const (
	KindBoolean   Kind = "boolean"
	KindNumber    Kind = "number"
	KindString    Kind = "string"
	KindSymbol    Kind = "symbol"
	KindNil       Kind = "nil"
	KindEmpty     Kind = "empty"
	KindCons      Kind = "cons"
	KindPrimitive Kind = "primitive"
	KindFunction  Kind = "function"
)

// Value is the universe of runtime values: the Reader's output and the
// Evaluator's input/output. The user-visible set of implementations is
// the nine types declared in this file; the only other implementation is
// the internal letrecHole marker in env.go. newValueTag seals the
// interface so that no package outside lisp can add a variant.
type Value interface {
	Kind() Kind
	newValueTag()
}

// Boolean carries a single bit of truth. Truthy iff the bit is set.
type Boolean struct {
	Val bool
}

func (*Boolean) Kind() Kind   { return KindBoolean }
func (*Boolean) newValueTag() {}

// True and False are the two canonical Boolean instances; the reader and
// the `true`/`false` top-level bindings both resolve to these so that
// `eq?` on booleans behaves the same whether or not callers happen to
// share an instance (eq? between Booleans compares Val, not identity,
// per the equality table, but reusing singletons avoids needless churn).
var (
	True  = &Boolean{Val: true}
	False = &Boolean{Val: false}
)

// BoolValue returns True or False for the given Go bool.
func BoolValue(b bool) *Boolean {
	if b {
		return True
	}
	return False
}

// Number is an arbitrary-precision integer. The language has no numeric
// tower: every Number is an integer.
type Number struct {
	Val *big.Int
}

// NewNumber wraps an int64 as a Number.
func NewNumber(n int64) *Number {
	return &Number{Val: big.NewInt(n)}
}

// NewNumberFromString parses a decimal integer literal.
func NewNumberFromString(text string) (*Number, bool) {
	v, ok := new(big.Int).SetString(text, 10)
	if !ok {
		return nil, false
	}
	return &Number{Val: v}, true
}

func (*Number) Kind() Kind   { return KindNumber }
func (*Number) newValueTag() {}

// String is Unicode text. Distinct String instances with equal contents
// are eq?-distinct but eql?-equal (see Eq/Eql below), which is why
// String is a pointer type: its identity matters.
type String struct {
	Val string
}

func NewString(s string) *String {
	return &String{Val: s}
}

func (*String) Kind() Kind   { return KindString }
func (*String) newValueTag() {}

// Symbol holds a canonical (case-folded) identifier. Two symbols are the
// same identifier iff their canonical names are equal.
type Symbol struct {
	Name string
}

// Canonicalize maps a symbol's source text to its canonical form: simple
// Unicode lowercasing, per spec.
func Canonicalize(name string) string {
	return strings.ToLower(name)
}

// NewSymbol canonicalizes name and wraps it as a Symbol.
func NewSymbol(name string) *Symbol {
	return &Symbol{Name: Canonicalize(name)}
}

func (*Symbol) Kind() Kind   { return KindSymbol }
func (*Symbol) newValueTag() {}

// Nil is the single absent-value marker, distinct from EmptyList. It is
// what a primitive returns when it has "nothing" to say (§4.4) and what
// a Do/begin with no body yields.
type NilVal struct{}

var Nil = &NilVal{}

func (*NilVal) Kind() Kind   { return KindNil }
func (*NilVal) newValueTag() {}

// EmptyList is the canonical end-of-list marker '(). Together with Cons
// it forms the list-kind values.
type EmptyListVal struct{}

var EmptyList = &EmptyListVal{}

func (*EmptyListVal) Kind() Kind   { return KindEmpty }
func (*EmptyListVal) newValueTag() {}

// Cons is a pair whose Tail must itself be list-kind. The invariant is
// enforced in NewCons; the one direct struct literal construction in
// this package is ListFromSlice, whose tails are list-kind by
// construction.
type Cons struct {
	Head Value
	Tail Value
}

// IsListKind reports whether v is EmptyList or a Cons (i.e. may
// legally serve as the tail of another Cons).
func IsListKind(v Value) bool {
	switch v.(type) {
	case *EmptyListVal, *Cons:
		return true
	default:
		return false
	}
}

// NewCons builds a Cons, enforcing the list-kind tail invariant. The
// reader's quote sugar and the cons/ref primitives build through here;
// whole lists (including the reader's list literals) are built by
// ListFromSlice.
func NewCons(head, tail Value) (*Cons, *Error) {
	if !IsListKind(tail) {
		return nil, newErrorf(KindMalformedList, "cons: tail must be a list, got %s", tail.Kind())
	}
	return &Cons{Head: head, Tail: tail}, nil
}

func (*Cons) Kind() Kind   { return KindCons }
func (*Cons) newValueTag() {}

// ListFromSlice builds a proper list out of vs, in order.
func ListFromSlice(vs []Value) Value {
	var result Value = EmptyList
	for i := len(vs) - 1; i >= 0; i-- {
		result = &Cons{Head: vs[i], Tail: result}
	}
	return result
}

// SliceFromList flattens a list-kind Value into a Go slice. It fails
// with MalformedList if v is not list-kind all the way to EmptyList
// (e.g. a dotted/improper chain slipped in through a host extension).
func SliceFromList(v Value) ([]Value, *Error) {
	var out []Value
	for {
		switch t := v.(type) {
		case *EmptyListVal:
			return out, nil
		case *Cons:
			out = append(out, t.Head)
			v = t.Tail
		default:
			return nil, newErrorf(KindMalformedList, "expected a list, got %s", v.Kind())
		}
	}
}

// ListLen counts the cons cells in a list-kind value.
func ListLen(v Value) int {
	n := 0
	for {
		c, ok := v.(*Cons)
		if !ok {
			return n
		}
		n++
		v = c.Tail
	}
}

// PrimitiveFunc is the Go function backing a Primitive. It receives the
// canonical primitive name (for error messages) and the evaluated
// argument list.
type PrimitiveFunc func(name string, args []Value) (Value, *Error)

// Primitive is a callable implemented by the host (or the built-in
// library in primitives.go). Arity is (Min, Max); Max of -1 means
// unbounded.
type Primitive struct {
	Name string
	Fn   PrimitiveFunc
	Min  int
	Max  int
	id   string
}

// NewPrimitive constructs a Primitive and assigns it a printable HEXID.
func NewPrimitive(name string, fn PrimitiveFunc, min, max int) *Primitive {
	return &Primitive{Name: name, Fn: fn, Min: min, Max: max, id: shortHexID()}
}

// ID returns the HEXID used in this primitive's printed form (§6).
func (p *Primitive) ID() string { return p.id }

func (*Primitive) Kind() Kind   { return KindPrimitive }
func (*Primitive) newValueTag() {}

// Function is a user-defined closure: parameter names, body expression,
// and the environment captured at the point of the `fn` form.
type Function struct {
	Params []string
	Rest   string // non-empty for a variadic tail parameter; "" otherwise
	Body   Expr
	Env    *Environment
	id     string
}

// NewFunction constructs a Function and assigns it a printable HEXID.
func NewFunction(params []string, rest string, body Expr, env *Environment) *Function {
	return &Function{Params: params, Rest: rest, Body: body, Env: env, id: shortHexID()}
}

// ID returns the HEXID used in this function's printed form (§6).
func (f *Function) ID() string { return f.id }

func (*Function) Kind() Kind   { return KindFunction }
func (*Function) newValueTag() {}

// shortHexID produces the identity tag used in the printed form of
// Primitive and Function values (`#[prim HEXID]`, `#[func HEXID]`).
// A fresh random UUID is generated per callable and its hyphen-free hex
// digits are truncated to a readable 8-character tag; collisions are
// harmless since the tag is cosmetic, not a lookup key.
func shortHexID() string {
	id := uuid.New()
	hex := strings.ReplaceAll(id.String(), "-", "")
	return hex[:8]
}

// Truthy implements the truthiness table from §3/§8: everything is true
// except #false, 0, "", (), and #nil.
func Truthy(v Value) bool {
	switch t := v.(type) {
	case *Boolean:
		return t.Val
	case *Number:
		return t.Val.Sign() != 0
	case *String:
		return t.Val != ""
	case *EmptyListVal:
		return false
	case *NilVal:
		return false
	default:
		return true
	}
}

// Eq implements eq? per §3: identity for Cons/String/Primitive/Function,
// value equality for the atomic kinds.
func Eq(a, b Value) bool {
	switch va := a.(type) {
	case *Boolean:
		vb, ok := b.(*Boolean)
		return ok && va.Val == vb.Val
	case *Number:
		vb, ok := b.(*Number)
		return ok && va.Val.Cmp(vb.Val) == 0
	case *Symbol:
		vb, ok := b.(*Symbol)
		return ok && va.Name == vb.Name
	case *NilVal:
		_, ok := b.(*NilVal)
		return ok
	case *EmptyListVal:
		_, ok := b.(*EmptyListVal)
		return ok
	case *String:
		vb, ok := b.(*String)
		return ok && va == vb
	case *Cons:
		vb, ok := b.(*Cons)
		return ok && va == vb
	case *Primitive:
		vb, ok := b.(*Primitive)
		return ok && va == vb
	case *Function:
		vb, ok := b.(*Function)
		return ok && va == vb
	default:
		return false
	}
}

// Eql implements eql? per §3: like Eq, except String compares by
// content and Cons compares structurally (recursively).
func Eql(a, b Value) bool {
	switch va := a.(type) {
	case *String:
		vb, ok := b.(*String)
		return ok && va.Val == vb.Val
	case *Cons:
		vb, ok := b.(*Cons)
		return ok && Eql(va.Head, vb.Head) && Eql(va.Tail, vb.Tail)
	default:
		return Eq(a, b)
	}
}
