//
// Copyright 2011-2012 Nathan Fiedler. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//

package lisp

// Environment is an ordered mapping from canonical symbol name to Value,
// with an optional link to a parent frame. Lookup walks outward from the
// innermost frame; the first match wins. Environments are shared via
// ordinary Go pointers: a Function's captured Env, and any live lookup
// walk, keeps the whole parent chain alive for as long as Go's own
// garbage collector sees a reference to it — which is exactly the
// shared-ownership lifetime §3/§5 call for.
type Environment struct {
	vars   map[string]Value
	parent *Environment
}

// NewEnvironment creates a frame chained off of parent (nil for a root
// environment).
func NewEnvironment(parent *Environment) *Environment {
	return &Environment{vars: make(map[string]Value), parent: parent}
}

// Lookup walks the chain from this frame outward, returning the first
// bound value found. The second return value is false if name is bound
// nowhere in the chain.
func (e *Environment) Lookup(name string) (Value, bool) {
	for env := e; env != nil; env = env.parent {
		if v, ok := env.vars[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// Find is an alternative spelling of Lookup that returns nil instead of
// a (Value, bool) pair, matching the shape the teacher's test suite
// (liswat/interpreter_test.go's TestEnvironment) exercises against.
func (e *Environment) Find(name string) Value {
	v, ok := e.Lookup(name)
	if !ok {
		return nil
	}
	return v
}

// Define always writes to this frame, shadowing any binding of the same
// name in a parent frame.
func (e *Environment) Define(name string, v Value) {
	e.vars[name] = v
}

// Update rewrites the nearest existing binding of name in the chain. If
// no such binding exists anywhere in the chain, it falls back to Define
// on this frame, per §3.
func (e *Environment) Update(name string, v Value) {
	for env := e; env != nil; env = env.parent {
		if _, ok := env.vars[name]; ok {
			env.vars[name] = v
			return
		}
	}
	e.Define(name, v)
}

// Set is a variant of Update that reports whether an existing binding
// was found and never defines a new one, matching the teacher's
// Environment.Set signature
// (liswat/interpreter_test.go's TestEnvironment expects Set on an
// undefined name to fail rather than silently define it).
func (e *Environment) Set(name string, v Value) *Error {
	for env := e; env != nil; env = env.parent {
		if _, ok := env.vars[name]; ok {
			env.vars[name] = v
			return nil
		}
	}
	return newErrorf(KindUnboundSymbol, "cannot set! undefined variable %q", name)
}

// letrecHole is the explicit "uninitialized" marker bound into a new
// frame for each name in a letrec before any right-hand side has run
// (§4.3, §9). It is a Value so it can sit in the same vars map as any
// other binding, but it is never exposed to user code: SymbolRef
// evaluation recognizes it and raises UninitializedBinding instead of
// returning it.
type letrecHole struct{}

func (*letrecHole) Kind() Kind   { return "letrec-hole" }
func (*letrecHole) newValueTag() {}

var theLetrecHole Value = &letrecHole{}

// isLetrecHole reports whether v is the uninitialized-binding marker.
func isLetrecHole(v Value) bool {
	_, ok := v.(*letrecHole)
	return ok
}
