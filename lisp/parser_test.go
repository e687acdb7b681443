//
// Copyright 2011-2012 Nathan Fiedler. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//

package lisp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// verifyExpandMap checks that each key, after one macro-expansion pass,
// prints back out as its corresponding value. Mirrors the teacher's
// liswat/parser_test.go verifyExpandMap helper, but drives this module's
// Reader + Parser.expand instead of liswat's own parseExpr.
func verifyExpandMap(t *testing.T, p *Parser, r *Reader, mapping map[string]string) {
	t.Helper()
	for input, want := range mapping {
		datum, _, rerr := r.Read(input)
		require.Nil(t, rerr, "read failed for %q", input)
		expanded, eerr := p.expand(datum)
		require.Nil(t, eerr, "expand failed for %q", input)
		assert.Equal(t, want, PrintForm(expanded), "input: %q", input)
	}
}

func TestExpandLet(t *testing.T) {
	p := NewParser()
	r := NewReader()
	verifyExpandMap(t, p, r, map[string]string{
		"(let ((x 1) (y 2)) (+ x y))": "((fn (x y) (+ x y)) 1 2)",
		"(let () 42)":                 "((fn () 42))",
	})
}

func TestExpandLetStar(t *testing.T) {
	p := NewParser()
	r := NewReader()
	verifyExpandMap(t, p, r, map[string]string{
		"(let* () 1)":      "(do 1)",
		"(let* ((x 1)) x)": "((fn (x) (let* () x)) 1)",
	})
}

func TestExpandFunrec(t *testing.T) {
	p := NewParser()
	r := NewReader()
	verifyExpandMap(t, p, r, map[string]string{
		"(funrec f (n) n)": "(letrec ((f (fn (n) n))) f)",
	})
}

func TestExpandLoop(t *testing.T) {
	p := NewParser()
	r := NewReader()
	verifyExpandMap(t, p, r, map[string]string{
		"(loop go ((i 0)) i)": "(letrec ((go (fn (i) i))) (go 0))",
	})
}

func TestParseTopDefValue(t *testing.T) {
	p := NewParser()
	r := NewReader()
	datum, _, rerr := r.Read("(def x (+ 1 2))")
	require.Nil(t, rerr)
	decl, derr := p.ParseTop(datum)
	require.Nil(t, derr)
	def, ok := decl.(*Define)
	require.True(t, ok, "expected *Define, got %T", decl)
	assert.Equal(t, "x", def.Name)
}

func TestParseTopDefFunction(t *testing.T) {
	p := NewParser()
	r := NewReader()
	datum, _, rerr := r.Read("(def (add a b) (+ a b))")
	require.Nil(t, rerr)
	decl, derr := p.ParseTop(datum)
	require.Nil(t, derr)
	defun, ok := decl.(*Defun)
	require.True(t, ok, "expected *Defun, got %T", decl)
	assert.Equal(t, "add", defun.Name)
	assert.Equal(t, []string{"a", "b"}, defun.Params)
}

func TestParseRestParameter(t *testing.T) {
	p := NewParser()
	r := NewReader()
	datum, _, rerr := r.Read("(fn (a &rest more) more)")
	require.Nil(t, rerr)
	expr, perr := p.expandParse(datum)
	require.Nil(t, perr)
	lambda, ok := expr.(*Lambda)
	require.True(t, ok, "expected *Lambda, got %T", expr)
	assert.Equal(t, []string{"a"}, lambda.Params)
	assert.Equal(t, "more", lambda.Rest)
}

func TestDuplicateMacroRegistration(t *testing.T) {
	p := NewParser()
	err := p.RegisterMacro("let", macroLet)
	require.NotNil(t, err)
	assert.Equal(t, KindDuplicateMacro, err.Kind)
}

func TestDuplicateReadMacroRegistration(t *testing.T) {
	r := NewReader()
	fn := func(r *Reader, name string, args Value) (Value, *Error) { return Nil, nil }
	require.Nil(t, r.RegisterMacro("hi", fn))
	err := r.RegisterMacro("hi", fn)
	require.NotNil(t, err)
	assert.Equal(t, KindDuplicateMacro, err.Kind)
}
