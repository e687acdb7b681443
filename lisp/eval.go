//
// Copyright 2011-2012 Nathan Fiedler. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//

package lisp

// Eval drives the trampoline described in §4.3: each iteration of the
// loop either returns a terminal Value or rewrites (expr, env) to a tail
// position and loops again. Sub-evaluations that are not in tail
// position (an If's condition, a Do's non-last elements, a LetRec's
// right-hand sides, an Apply's callee and arguments) recurse through
// Eval normally — only tail positions are looped rather than recursed,
// which is what keeps a chain of tail calls from growing the Go stack
// (testable property 6).
func Eval(expr Expr, env *Environment) (Value, *Error) {
	for {
		switch e := expr.(type) {
		case *Literal:
			return e.Val, nil

		case *Quote:
			return e.Val, nil

		case *SymbolRef:
			v, ok := env.Lookup(e.Name)
			if !ok {
				return nil, newErrorf(KindUnboundSymbol, "unbound symbol: %s", e.Name)
			}
			if isLetrecHole(v) {
				return nil, newErrorf(KindUninitializedBinding, "use of uninitialized binding: %s", e.Name)
			}
			return v, nil

		case *Lambda:
			return NewFunction(e.Params, e.Rest, e.Body, env), nil

		case *If:
			cond, err := Eval(e.Cond, env)
			if err != nil {
				return nil, err
			}
			if Truthy(cond) {
				expr = e.Then
			} else {
				expr = e.Else
			}
			continue

		case *Do:
			if len(e.Body) == 0 {
				return Nil, nil
			}
			for _, sub := range e.Body[:len(e.Body)-1] {
				if _, err := Eval(sub, env); err != nil {
					return nil, err
				}
			}
			expr = e.Body[len(e.Body)-1]
			continue

		case *LetRec:
			inner := NewEnvironment(env)
			for _, b := range e.Bindings {
				inner.Define(b.Name, theLetrecHole)
			}
			values := make([]Value, len(e.Bindings))
			for i, b := range e.Bindings {
				v, err := Eval(b.Expr, inner)
				if err != nil {
					return nil, err
				}
				values[i] = v
			}
			for i, b := range e.Bindings {
				inner.Define(b.Name, values[i])
			}
			env = inner
			expr = e.Body
			continue

		case *SetBang:
			v, err := Eval(e.Val, env)
			if err != nil {
				return nil, err
			}
			old, ok := env.Lookup(e.Name)
			if !ok {
				return nil, newErrorf(KindUnboundSymbol, "cannot set! undefined variable: %s", e.Name)
			}
			if isLetrecHole(old) {
				return nil, newErrorf(KindUninitializedBinding, "use of uninitialized binding: %s", e.Name)
			}
			env.Update(e.Name, v)
			return old, nil

		case *Apply:
			fnVal, err := Eval(e.Fn, env)
			if err != nil {
				return nil, err
			}
			args := make([]Value, len(e.Args))
			for i, a := range e.Args {
				v, err := Eval(a, env)
				if err != nil {
					return nil, err
				}
				args[i] = v
			}
			switch fn := fnVal.(type) {
			case *Primitive:
				if err := checkArity(fn.Name, len(args), fn.Min, fn.Max); err != nil {
					return nil, err
				}
				return fn.Fn(fn.Name, args)
			case *Function:
				callEnv, err := bindArgs(fn, args)
				if err != nil {
					return nil, err
				}
				env = callEnv
				expr = fn.Body
				continue
			default:
				return nil, newErrorf(KindNotCallable, "not callable: %s", fnVal.Kind())
			}

		default:
			return nil, newErrorf(KindParseError, "internal error: unknown expression node %T", expr)
		}
	}
}

// invoke calls fnVal with args outside of any tail position — used by
// primitives that take a callable as an argument (apply, map, filter,
// foldl, foldr). Unlike the Apply case inside Eval's loop, a call made
// through invoke does recurse through Go's call stack, which is correct
// here: a higher-order primitive's callback is never in tail position
// with respect to its caller.
func invoke(fnVal Value, args []Value) (Value, *Error) {
	switch fn := fnVal.(type) {
	case *Primitive:
		if err := checkArity(fn.Name, len(args), fn.Min, fn.Max); err != nil {
			return nil, err
		}
		return fn.Fn(fn.Name, args)
	case *Function:
		env, err := bindArgs(fn, args)
		if err != nil {
			return nil, err
		}
		return Eval(fn.Body, env)
	default:
		return nil, newErrorf(KindNotCallable, "not callable: %s", fnVal.Kind())
	}
}

// checkArity validates an argument count against (min, max); max of -1
// means unbounded (§4.4).
func checkArity(name string, n, min, max int) *Error {
	if n < min {
		return newErrorf(KindWrongArgCount, "%s: too few arguments (got %d, need at least %d)", name, n, min)
	}
	if max >= 0 && n > max {
		return newErrorf(KindWrongArgCount, "%s: too many arguments (got %d, max %d)", name, n, max)
	}
	return nil
}

// bindArgs binds args to fn's parameters in a new frame chained off of
// fn's captured environment (§4.3). A fixed-arity Function requires an
// exact count match; a variadic one (Rest != "") requires at least as
// many arguments as named parameters, collecting the surplus into Rest.
func bindArgs(fn *Function, args []Value) (*Environment, *Error) {
	inner := NewEnvironment(fn.Env)
	if fn.Rest == "" {
		if len(args) != len(fn.Params) {
			return nil, newErrorf(KindWrongArgCount,
				"function expects exactly %d argument(s), got %d", len(fn.Params), len(args))
		}
		for i, p := range fn.Params {
			inner.Define(p, args[i])
		}
		return inner, nil
	}
	if len(args) < len(fn.Params) {
		return nil, newErrorf(KindWrongArgCount,
			"function expects at least %d argument(s), got %d", len(fn.Params), len(args))
	}
	for i, p := range fn.Params {
		inner.Define(p, args[i])
	}
	inner.Define(fn.Rest, ListFromSlice(args[len(fn.Params):]))
	return inner, nil
}
