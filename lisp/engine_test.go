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

// evalText reads and evaluates every top-level form in text against a
// fresh Engine's root environment, returning the value of the last form.
func evalText(t *testing.T, text string) Value {
	t.Helper()
	e := NewEngine()
	var last Value
	for text != "" {
		datum, rest, rerr := e.Read(text)
		require.Nil(t, rerr, "read failed for %q: %v", text, rerr)
		if datum == nil {
			break
		}
		v, eerr := e.EvalDatum(datum, nil)
		require.Nil(t, eerr, "eval failed for %q: %v", text, eerr)
		last = v
		text = rest
	}
	return last
}

func verifyPrintedResults(t *testing.T, cases map[string]string) {
	t.Helper()
	for input, expected := range cases {
		v := evalText(t, input)
		require.NotNil(t, v, "no value produced for %q", input)
		assert.Equal(t, expected, PrintForm(v), "input: %q", input)
	}
}

func TestArithmetic(t *testing.T) {
	verifyPrintedResults(t, map[string]string{
		"(+ 1 2 3)":     "6",
		"(+ )":          "0",
		"(* 2 3 4)":     "24",
		"(* )":          "1",
		"(- 5)":         "-5",
		"(- 10 3 2)":    "5",
		"(= 1 1 1)":     "#true",
		"(= 1 2)":       "#false",
		"(< 1 2 3)":     "#true",
		"(< 1 3 2)":     "#false",
		"(<= 1 1 2)":    "#true",
		"(> 3 2 1)":     "#true",
		"(>= 3 3 1)":    "#true",
		"(not #false)":  "#true",
		"(not 0)":       "#true",
		"(not \"\")":    "#true",
		"(not \"abc\")": "#false",
	})
}

func TestStringPrimitives(t *testing.T) {
	verifyPrintedResults(t, map[string]string{
		`(string-append "foo" "bar")`:      `"foobar"`,
		`(string-append)`:                  `""`,
		`(string-length "hello")`:          "5",
		`(string-lower "ABC")`:             `"abc"`,
		`(string-upper "abc")`:             `"ABC"`,
		`(string-substring "hello" 1 3)`:   `"el"`,
	})
}

func TestListPrimitives(t *testing.T) {
	verifyPrintedResults(t, map[string]string{
		"(cons 1 (list 2 3))":        "(1 2 3)",
		"(append (list 1 2) (list 3 4))": "(1 2 3 4)",
		"(reverse (list 1 2 3))":     "(3 2 1)",
		"(first (list 1 2 3))":       "1",
		"(rest (list 1 2 3))":        "(2 3)",
		"(length (list 1 2 3))":      "3",
		"(nth (list 10 20 30) 1)":    "20",
		"(map (fn (x) (* x x)) (list 1 2 3))": "(1 4 9)",
		"(filter (fn (x) (> x 1)) (list 1 2 3))": "(2 3)",
		"(foldl (fn (acc x) (+ acc x)) 0 (list 1 2 3 4))": "10",
		"(foldr (fn (x acc) (cons x acc)) (list) (list 1 2 3))": "(1 2 3)",
		"(empty? (list))":            "#true",
		"(empty? (list 1))":          "#false",
		"(list? (list 1 2))":         "#true",
		"(cons? (cons 1 (list)))":    "#true",
	})
}

func TestEqAndEql(t *testing.T) {
	// Two quoted equal lists are eql?-equal but eq?-distinct, since the
	// reader builds a separate Cons chain for each quoted literal.
	e := NewEngine()
	text := `(eql? (quote (1 2)) (quote (1 2)))`
	datum, _, rerr := e.Read(text)
	require.Nil(t, rerr)
	v, eerr := e.EvalDatum(datum, nil)
	require.Nil(t, eerr)
	assert.Equal(t, True, v)

	text = `(eq? (quote (1 2)) (quote (1 2)))`
	datum, _, rerr = e.Read(text)
	require.Nil(t, rerr)
	v, eerr = e.EvalDatum(datum, nil)
	require.Nil(t, eerr)
	assert.Equal(t, False, v)
}

func TestDefAndDefun(t *testing.T) {
	verifyPrintedResults(t, map[string]string{
		"(def x 42) x":                                             "42",
		"(def (square x) (* x x)) (square 7)":                      "49",
		"(def (fact n) (if (= n 0) 1 (* n (fact (- n 1))))) (fact 5)": "120",
	})
}

func TestLetAndLetStar(t *testing.T) {
	verifyPrintedResults(t, map[string]string{
		"(let ((x 1) (y 2)) (+ x y))":               "3",
		"(let* ((x 1) (y (+ x 1))) (+ x y))":        "3",
	})
}

func TestAndOrShortCircuit(t *testing.T) {
	verifyPrintedResults(t, map[string]string{
		"(and 1 2 3)":       "3",
		"(and 1 #false 3)":  "#false",
		"(and)":             "#true",
		"(or #false #false 5)": "5",
		"(or #false #false)":   "#false",
		"(or)":              "#false",
	})
}

func TestLetrecMutualRecursion(t *testing.T) {
	src := `
(letrec ((even? (fn (n) (if (= n 0) #true (odd? (- n 1)))))
         (odd? (fn (n) (if (= n 0) #false (even? (- n 1))))))
  (even? 1000))
`
	v := evalText(t, src)
	assert.Equal(t, True, v)
}

func TestTailCallDoesNotOverflowStack(t *testing.T) {
	src := `
(letrec ((even? (fn (n) (if (= n 0) #true (odd? (- n 1)))))
         (odd? (fn (n) (if (= n 0) #false (even? (- n 1))))))
  (even? 200000))
`
	v := evalText(t, src)
	assert.Equal(t, True, v)
}

func TestLoopMacro(t *testing.T) {
	verifyPrintedResults(t, map[string]string{
		"(loop sum ((i 0) (acc 0)) (if (> i 5) acc (sum (+ i 1) (+ acc i))))": "15",
	})
}

func TestFunrecValue(t *testing.T) {
	v := evalText(t, `((funrec fact (n) (if (= n 0) 1 (* n (fact (- n 1))))) 6)`)
	assert.Equal(t, "720", PrintForm(v))
}

func TestMapMultipleLists(t *testing.T) {
	verifyPrintedResults(t, map[string]string{
		"(map + (list 1 2) (list 10 20))":        "(11 22)",
		"(map + (list 1 2 3) (list 10 20))":      "(11 22)",
		"(map (fn (x) (* x x)) (list 1 2 3))":    "(1 4 9)",
	})
}

func TestPrintUsesDisplayFormAndJoinsWithSpace(t *testing.T) {
	e := NewEngine()
	var got []string
	e.SetOutput(func(s string) { got = append(got, s) })

	datum, _, rerr := e.Read(`(print "a" 1 "b")`)
	require.Nil(t, rerr)
	_, eerr := e.EvalDatum(datum, nil)
	require.Nil(t, eerr)
	require.Len(t, got, 1)
	assert.Equal(t, "a 1 b", got[0])
}

func TestPrintAcceptsZeroArgs(t *testing.T) {
	e := NewEngine()
	var got []string
	e.SetOutput(func(s string) { got = append(got, s) })

	datum, _, rerr := e.Read(`(print)`)
	require.Nil(t, rerr)
	_, eerr := e.EvalDatum(datum, nil)
	require.Nil(t, eerr)
	require.Len(t, got, 1)
	assert.Equal(t, "", got[0])
}

func TestWriteUsesPrintForm(t *testing.T) {
	e := NewEngine()
	var got []string
	e.SetOutput(func(s string) { got = append(got, s) })

	datum, _, rerr := e.Read(`(write "a")`)
	require.Nil(t, rerr)
	_, eerr := e.EvalDatum(datum, nil)
	require.Nil(t, eerr)
	require.Len(t, got, 1)
	assert.Equal(t, `"a"`, got[0])
}

func TestProcessOneFormRoutesReportThroughEmit(t *testing.T) {
	e := NewEngine()
	var got []string
	e.SetOutput(func(s string) { got = append(got, s) })

	report, _, ok, quit := e.ProcessOneForm("(+ 1 2)", nil)
	require.True(t, ok)
	require.Nil(t, quit)
	require.Len(t, got, 1)
	assert.Equal(t, report, got[0])
}

func TestLetrecForwardSiblingReferenceIsUninitialized(t *testing.T) {
	// x's slot is still a hole while y's right-hand side evaluates,
	// since every binding's value is computed before any of them is
	// written into the frame.
	e := NewEngine()
	datum, _, rerr := e.Read("(letrec ((x 1) (y x)) y)")
	require.Nil(t, rerr)
	_, eerr := e.EvalDatum(datum, nil)
	require.NotNil(t, eerr)
	assert.Equal(t, KindUninitializedBinding, eerr.Kind)
}

func TestRefCell(t *testing.T) {
	verifyPrintedResults(t, map[string]string{
		"(def r (ref 10)) (ref-get r)":         "10",
		"(def r (ref 10)) (ref-set r 20) (ref-get r)": "20",
	})
}

func TestDict(t *testing.T) {
	verifyPrintedResults(t, map[string]string{
		`(get (dict ("a" 1) ("b" 2)) "a")`: "1",
		`(get (dict ("a" 1)) "missing")`:   "#nil",
	})
}

func TestBalance(t *testing.T) {
	cases := []struct {
		text string
		want int
	}{
		{"(+ 1 2)", 0},
		{"(+ 1 (2", 2},
		{"(+ 1 2))", -1},
		{`(display "(")`, 0},
	}
	for _, c := range cases {
		n, err := Balance(c.text)
		require.Nil(t, err, "text: %q", c.text)
		assert.Equal(t, c.want, n, "text: %q", c.text)
	}
}

func TestBalanceUnterminatedString(t *testing.T) {
	_, err := Balance("(display \"abc\nxyz\")")
	require.NotNil(t, err)
	assert.Equal(t, KindUnterminatedString, err.Kind)
}

func TestUnboundSymbol(t *testing.T) {
	e := NewEngine()
	datum, _, rerr := e.Read("no-such-name")
	require.Nil(t, rerr)
	_, eerr := e.EvalDatum(datum, nil)
	require.NotNil(t, eerr)
	assert.Equal(t, KindUnboundSymbol, eerr.Kind)
}

func TestUninitializedLetrecBinding(t *testing.T) {
	e := NewEngine()
	datum, _, rerr := e.Read("(letrec ((x x)) x)")
	require.Nil(t, rerr)
	_, eerr := e.EvalDatum(datum, nil)
	require.NotNil(t, eerr)
	assert.Equal(t, KindUninitializedBinding, eerr.Kind)
}

func TestReportFormatsErrorsAsCommentLines(t *testing.T) {
	e := NewEngine()
	report, _, ok, quit := e.ProcessOneForm("no-such-name", nil)
	require.True(t, ok)
	require.Nil(t, quit)
	assert.Contains(t, report, ";; ")
	assert.Contains(t, report, "UnboundSymbol")
}

func TestProcessOneFormReportsValue(t *testing.T) {
	e := NewEngine()
	report, rest, ok, quit := e.ProcessOneForm("(+ 1 2) (+ 3 4)", nil)
	require.True(t, ok)
	require.Nil(t, quit)
	assert.Equal(t, "3", report)
	report2, _, ok2, quit2 := e.ProcessOneForm(rest, nil)
	require.True(t, ok2)
	require.Nil(t, quit2)
	assert.Equal(t, "7", report2)
}

func TestReaderPrinterRoundTrip(t *testing.T) {
	e := NewEngine()
	inputs := []string{
		`42`,
		`"hello\nworld"`,
		`symbol`,
		`#true`,
		`#false`,
		`(1 2 3)`,
		`()`,
	}
	for _, in := range inputs {
		v, _, err := e.Read(in)
		require.Nil(t, err, "input: %q", in)
		printed := PrintForm(v)
		v2, _, err2 := e.Read(printed)
		require.Nil(t, err2, "re-read of %q", printed)
		assert.True(t, Eql(v, v2), "round-trip mismatch for %q -> %q", in, printed)
	}
}
