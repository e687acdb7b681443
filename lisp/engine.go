//
// Copyright 2011-2012 Nathan Fiedler. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//

package lisp

import (
	"fmt"
	"os"
	"strings"
)

// Engine is the host-facing façade (§4.5) that wires together a Reader,
// a Parser, and a root Environment pre-populated with the built-in
// primitives and the `true`/`false`/`empty`/`nil` bindings. Embedders
// drive the language entirely through Engine; Reader/Parser/Eval are
// exported mainly so tests (and unusually demanding hosts) can bypass
// the façade.
type Engine struct {
	reader *Reader
	parser *Parser
	root   *Environment
	emit   func(string)
}

// NewEngine constructs an Engine with its root environment already
// populated: the built-in primitive table, plus the teacher-style
// pre-bound singletons `true`, `false`, `empty`, and `nil` so user code
// never has to special-case the literal reader forms for them. `print`
// and `write` (§4.4) are bound here, against this Engine's emit sink,
// rather than in InstallBuiltins, since a host-agnostic primitive table
// has no writer of its own to reach.
func NewEngine() *Engine {
	root := NewEnvironment(nil)
	InstallBuiltins(root)
	root.Define("true", True)
	root.Define("false", False)
	root.Define("empty", EmptyList)
	root.Define("nil", Nil)

	e := &Engine{
		reader: NewReader(),
		parser: NewParser(),
		root:   root,
		emit:   func(s string) { fmt.Fprintln(os.Stdout, s) },
	}
	root.Define("print", NewPrimitive("print", e.primPrint, 0, -1))
	root.Define("write", NewPrimitive("write", e.primWrite, 1, 1))
	return e
}

// SetOutput redirects everything this Engine emits to a host — every
// `print` call, plus the result/error report line ProcessOneForm
// produces — from the default of writing to os.Stdout to fn instead.
// This is the emit(string) sink §4.4/§6 describe for embedding hosts
// that want to capture or redirect interpreter output rather than let
// it land on the process's own stdout.
func (e *Engine) SetOutput(fn func(string)) {
	e.emit = fn
}

// primPrint renders every argument in display form (§6, unescaped
// strings), joins them with a single space, and writes the result
// through the Engine's emit sink. Arity is unbounded downward to zero
// arguments, matching original_source/mlisp.py's prim_print.
func (e *Engine) primPrint(name string, args []Value) (Value, *Error) {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = DisplayForm(a)
	}
	e.emit(strings.Join(parts, " "))
	return Nil, nil
}

// primWrite renders its one argument in print form (quoted/escaped
// strings, round-trips through Read) and writes it through the
// Engine's emit sink.
func (e *Engine) primWrite(name string, args []Value) (Value, *Error) {
	e.emit(PrintForm(args[0]))
	return Nil, nil
}

// Read consumes one datum from text (§4.1), returning it along with the
// unconsumed remainder. A blank input yields (nil, "", nil).
func (e *Engine) Read(text string) (Value, string, *Error) {
	return e.reader.Read(text)
}

// Balance reports the running paren count of text, as described on
// Balance (§4.6); it is what a REPL front end calls to decide whether to
// keep reading more lines before attempting Eval.
func (e *Engine) Balance(text string) (int, *Error) {
	return Balance(text)
}

// RootEnvironment returns the Engine's root scope, for hosts that need
// to inspect or extend bindings directly rather than solely through
// DefineValue/DefinePrimitive.
func (e *Engine) RootEnvironment() *Environment {
	return e.root
}

// NewScope returns a fresh child Environment chained off of the root,
// for a host that wants an isolated evaluation scope (e.g. one per
// plugin or per request) without re-registering the builtins.
func (e *Engine) NewScope() *Environment {
	return NewEnvironment(e.root)
}

// DefineValue binds name to v in the root environment, letting a host
// seed the language with application-specific data.
func (e *Engine) DefineValue(name string, v Value) {
	e.root.Define(Canonicalize(name), v)
}

// DefinePrimitive binds name to a new host-provided Primitive in the
// root environment (§4.5), the main extension point for embedding.
func (e *Engine) DefinePrimitive(name string, fn PrimitiveFunc, min, max int) {
	e.root.Define(Canonicalize(name), NewPrimitive(Canonicalize(name), fn, min, max))
}

// RegisterParserMacro installs a parse-time macro (§4.2) under name.
func (e *Engine) RegisterParserMacro(name string, fn ParseMacro) *Error {
	return e.parser.RegisterMacro(name, fn)
}

// RegisterReadMacro installs a read-time `#(name ...)` macro (§4.1)
// under name.
func (e *Engine) RegisterReadMacro(name string, fn ReadMacro) *Error {
	return e.reader.RegisterMacro(name, fn)
}

// EvalDatum parses one already-read datum into a Declaration and
// evaluates it in env (the root environment if env is nil), applying
// the side effects a `def` declaration carries (§4.2/§4.3): a value def
// or function def binds its name in env before returning the bound
// value.
func (e *Engine) EvalDatum(datum Value, env *Environment) (Value, *Error) {
	if env == nil {
		env = e.root
	}
	decl, err := e.parser.ParseTop(datum)
	if err != nil {
		return nil, err
	}
	switch d := decl.(type) {
	case *Define:
		v, err := Eval(d.Expr, env)
		if err != nil {
			return nil, err
		}
		env.Define(Canonicalize(d.Name), v)
		return v, nil
	case *Defun:
		fn := NewFunction(d.Params, d.Rest, d.Body, env)
		env.Define(Canonicalize(d.Name), fn)
		return fn, nil
	case *TopExpression:
		return Eval(d.Expr, env)
	default:
		return nil, newErrorf(KindParseError, "internal error: unknown declaration %T", decl)
	}
}

// ProcessOneForm reads exactly one top-level form out of text, evaluates
// it against env (the root environment if env is nil), and renders the
// outcome as a REPL-style report line (§6/§7): a successful result is
// rendered via PrintForm, and a LispError is rendered as a ";; "-prefixed
// comment line rather than returned as a Go error, matching a REPL's
// habit of reporting a bad form and continuing. A *QuitSignal raised by
// a host-provided primitive is the one thing this method does not
// swallow — it propagates so a REPL can act on it.
//
// remainder is the text left unconsumed after the one form that was
// read; ok is false when text held no datum at all (blank input), in
// which case report is empty and the caller should not print anything.
func (e *Engine) ProcessOneForm(text string, env *Environment) (report string, remainder string, ok bool, quit *QuitSignal) {
	datum, rest, rerr := e.Read(text)
	if rerr != nil {
		report = FormatError(rerr)
		e.emit(report)
		return report, rest, true, nil
	}
	if datum == nil {
		return "", rest, false, nil
	}
	v, eerr := e.evalCatching(datum, env)
	if eerr != nil {
		if q, isQuit := eerr.(*QuitSignal); isQuit {
			return "", rest, true, q
		}
		report = FormatError(eerr.(*Error))
		e.emit(report)
		return report, rest, true, nil
	}
	report = PrintForm(v)
	e.emit(report)
	return report, rest, true, nil
}

// evalCatching adapts EvalDatum's *Error return into a plain error so
// ProcessOneForm can type-switch for *QuitSignal alongside *Error. The
// core evaluator itself never panics; only a host-defined primitive
// reaching back into Go code can, either by panicking with a
// *QuitSignal (§7's intentional-exit convention) or by panicking with
// anything else (a bug in that primitive). The latter is recovered and
// reported as a KindInternal Error instead of taking down the embedding
// process, since a host's own primitive misbehaving should not be able
// to crash an Engine any more than a malformed LispError can.
func (e *Engine) evalCatching(datum Value, env *Environment) (v Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			if q, ok := r.(*QuitSignal); ok {
				err = q
				return
			}
			if cause, ok := r.(error); ok {
				err = wrapError(KindInternal, cause, "panic during evaluation")
				return
			}
			err = wrapError(KindInternal, fmt.Errorf("%v", r), "panic during evaluation")
		}
	}()
	res, lerr := e.EvalDatum(datum, env)
	if lerr != nil {
		return nil, lerr
	}
	return res, nil
}

// FormatError renders a LispError as the ";; "-prefixed report line a
// REPL front end prints for a failed form (§6/§7).
func FormatError(err *Error) string {
	return fmt.Sprintf(";; %s", err.Error())
}
