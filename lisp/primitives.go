//
// Copyright 2011-2012 Nathan Fiedler. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//

package lisp

import (
	"math/big"
	"strings"
)

// InstallBuiltins defines every built-in primitive (§4.4) plus the
// ref/dict extensions from SPEC_FULL.md §4 into env, which is typically
// the Engine's root frame. `print` and `write` are not registered here:
// they are bound per-Engine in NewEngine, since they need to reach the
// Engine's emit sink rather than writing to os.Stdout directly.
func InstallBuiltins(env *Environment) {
	for name, p := range builtinTable() {
		env.Define(name, p)
	}
}

func builtinTable() map[string]*Primitive {
	table := map[string]*Primitive{}
	def := func(name string, min, max int, fn PrimitiveFunc) {
		table[name] = NewPrimitive(name, fn, min, max)
	}

	def("type", 1, 1, primType)
	def("+", 0, -1, primAdd)
	def("*", 0, -1, primMul)
	def("-", 1, -1, primSub)
	def("=", 1, -1, numericChain(func(a, b *big.Int) bool { return a.Cmp(b) == 0 }))
	def("<", 1, -1, numericChain(func(a, b *big.Int) bool { return a.Cmp(b) < 0 }))
	def("<=", 1, -1, numericChain(func(a, b *big.Int) bool { return a.Cmp(b) <= 0 }))
	def(">", 1, -1, numericChain(func(a, b *big.Int) bool { return a.Cmp(b) > 0 }))
	def(">=", 1, -1, numericChain(func(a, b *big.Int) bool { return a.Cmp(b) >= 0 }))
	def("not", 1, 1, primNot)

	def("string-append", 0, -1, primStringAppend)
	def("string-length", 1, 1, primStringLength)
	def("string-lower", 1, 1, primStringLower)
	def("string-upper", 1, 1, primStringUpper)
	def("string-substring", 3, 3, primStringSubstring)

	def("apply", 2, -1, primApply)
	def("cons", 2, 2, primCons)
	def("append", 0, -1, primAppend)
	def("reverse", 1, 1, primReverse)
	def("first", 1, 1, primFirst)
	def("rest", 1, 1, primRest)
	def("list", 0, -1, primList)
	def("length", 1, 1, primLength)
	def("nth", 2, 2, primNth)
	def("map", 2, -1, primMap)
	def("filter", 2, 2, primFilter)
	def("foldl", 3, 3, primFoldl)
	def("foldr", 3, 3, primFoldr)

	def("eq?", 2, 2, primEqP)
	def("eql?", 2, 2, primEqlP)

	def("empty?", 1, 1, kindPredicate(KindEmpty))
	def("cons?", 1, 1, kindPredicate(KindCons))
	def("number?", 1, 1, kindPredicate(KindNumber))
	def("boolean?", 1, 1, kindPredicate(KindBoolean))
	def("string?", 1, 1, kindPredicate(KindString))
	def("symbol?", 1, 1, kindPredicate(KindSymbol))
	def("function?", 1, 1, primFunctionP)
	def("nil?", 1, 1, kindPredicate(KindNil))
	def("list?", 1, 1, primListP)

	def("ref", 1, 1, primRef)
	def("ref-get", 1, 1, primRefGet)
	def("ref-set", 2, 2, primRefSet)

	def("make-dict", 1, 1, primMakeDict)
	def("get", 2, 2, primDictGet)
	def("update", 3, 3, primDictUpdate)

	return table
}

func wrongType(name string, want string, got Value) *Error {
	return newErrorf(KindWrongArgType, "%s: expected %s, got %s", name, want, got.Kind())
}

func asNumber(name string, v Value) (*big.Int, *Error) {
	n, ok := v.(*Number)
	if !ok {
		return nil, wrongType(name, "number", v)
	}
	return n.Val, nil
}

func asString(name string, v Value) (string, *Error) {
	s, ok := v.(*String)
	if !ok {
		return "", wrongType(name, "string", v)
	}
	return s.Val, nil
}

func primType(name string, args []Value) (Value, *Error) {
	return NewSymbol(string(args[0].Kind())), nil
}

func primAdd(name string, args []Value) (Value, *Error) {
	sum := big.NewInt(0)
	for _, a := range args {
		n, err := asNumber(name, a)
		if err != nil {
			return nil, err
		}
		sum.Add(sum, n)
	}
	return &Number{Val: sum}, nil
}

func primMul(name string, args []Value) (Value, *Error) {
	prod := big.NewInt(1)
	for _, a := range args {
		n, err := asNumber(name, a)
		if err != nil {
			return nil, err
		}
		prod.Mul(prod, n)
	}
	return &Number{Val: prod}, nil
}

func primSub(name string, args []Value) (Value, *Error) {
	first, err := asNumber(name, args[0])
	if err != nil {
		return nil, err
	}
	if len(args) == 1 {
		return &Number{Val: new(big.Int).Neg(first)}, nil
	}
	acc := new(big.Int).Set(first)
	for _, a := range args[1:] {
		n, err := asNumber(name, a)
		if err != nil {
			return nil, err
		}
		acc.Sub(acc, n)
	}
	return &Number{Val: acc}, nil
}

// numericChain builds a primitive that tests cmp across every adjacent
// pair of its numeric arguments, short-circuiting on the first failure
// (so (< 1 2 3) is true, (< 1 3 2) is false).
func numericChain(cmp func(a, b *big.Int) bool) PrimitiveFunc {
	return func(name string, args []Value) (Value, *Error) {
		prev, err := asNumber(name, args[0])
		if err != nil {
			return nil, err
		}
		for _, a := range args[1:] {
			n, err := asNumber(name, a)
			if err != nil {
				return nil, err
			}
			if !cmp(prev, n) {
				return False, nil
			}
			prev = n
		}
		return True, nil
	}
}

func primNot(name string, args []Value) (Value, *Error) {
	return BoolValue(!Truthy(args[0])), nil
}

func primStringAppend(name string, args []Value) (Value, *Error) {
	var b strings.Builder
	for _, a := range args {
		s, err := asString(name, a)
		if err != nil {
			return nil, err
		}
		b.WriteString(s)
	}
	return NewString(b.String()), nil
}

func primStringLength(name string, args []Value) (Value, *Error) {
	s, err := asString(name, args[0])
	if err != nil {
		return nil, err
	}
	return NewNumber(int64(len([]rune(s)))), nil
}

func primStringLower(name string, args []Value) (Value, *Error) {
	s, err := asString(name, args[0])
	if err != nil {
		return nil, err
	}
	return NewString(strings.ToLower(s)), nil
}

func primStringUpper(name string, args []Value) (Value, *Error) {
	s, err := asString(name, args[0])
	if err != nil {
		return nil, err
	}
	return NewString(strings.ToUpper(s)), nil
}

func primStringSubstring(name string, args []Value) (Value, *Error) {
	s, err := asString(name, args[0])
	if err != nil {
		return nil, err
	}
	startN, err := asNumber(name, args[1])
	if err != nil {
		return nil, err
	}
	endN, err := asNumber(name, args[2])
	if err != nil {
		return nil, err
	}
	runes := []rune(s)
	start := int(startN.Int64())
	end := int(endN.Int64())
	if start < 0 || end > len(runes) || start > end {
		return nil, newErrorf(KindIndexOutOfRange, "string-substring: [%d:%d) out of range for length %d", start, end, len(runes))
	}
	return NewString(string(runes[start:end])), nil
}

func primApply(name string, args []Value) (Value, *Error) {
	fn := args[0]
	last := args[len(args)-1]
	tail, err := SliceFromList(last)
	if err != nil {
		return nil, newErrorf(KindWrongArgType, "apply: final argument must be a list: %v", err)
	}
	callArgs := append(append([]Value{}, args[1:len(args)-1]...), tail...)
	return invoke(fn, callArgs)
}

func primCons(name string, args []Value) (Value, *Error) {
	if !IsListKind(args[1]) {
		return nil, wrongType(name, "list", args[1])
	}
	return NewCons(args[0], args[1])
}

func primAppend(name string, args []Value) (Value, *Error) {
	var all []Value
	for _, a := range args {
		items, err := SliceFromList(a)
		if err != nil {
			return nil, wrongType(name, "list", a)
		}
		all = append(all, items...)
	}
	return ListFromSlice(all), nil
}

func primReverse(name string, args []Value) (Value, *Error) {
	items, err := SliceFromList(args[0])
	if err != nil {
		return nil, wrongType(name, "list", args[0])
	}
	rev := make([]Value, len(items))
	for i, v := range items {
		rev[len(items)-1-i] = v
	}
	return ListFromSlice(rev), nil
}

func primFirst(name string, args []Value) (Value, *Error) {
	c, ok := args[0].(*Cons)
	if !ok {
		return nil, wrongType(name, "non-empty list", args[0])
	}
	return c.Head, nil
}

func primRest(name string, args []Value) (Value, *Error) {
	c, ok := args[0].(*Cons)
	if !ok {
		return nil, wrongType(name, "non-empty list", args[0])
	}
	return c.Tail, nil
}

func primList(name string, args []Value) (Value, *Error) {
	return ListFromSlice(args), nil
}

func primLength(name string, args []Value) (Value, *Error) {
	items, err := SliceFromList(args[0])
	if err != nil {
		return nil, wrongType(name, "list", args[0])
	}
	return NewNumber(int64(len(items))), nil
}

func primNth(name string, args []Value) (Value, *Error) {
	items, err := SliceFromList(args[0])
	if err != nil {
		return nil, wrongType(name, "list", args[0])
	}
	idxN, err := asNumber(name, args[1])
	if err != nil {
		return nil, err
	}
	idx := int(idxN.Int64())
	if idx < 0 || idx >= len(items) {
		return nil, newErrorf(KindIndexOutOfRange, "nth: index %d out of range for length %d", idx, len(items))
	}
	return items[idx], nil
}

// primMap zips N lists pointwise, calling args[0] with one element from
// each list per step and stopping at the shortest (§4.4), mirroring
// original_source/mlisp.py's prim_map.
func primMap(name string, args []Value) (Value, *Error) {
	lists := make([][]Value, len(args)-1)
	shortest := -1
	for i, a := range args[1:] {
		items, err := SliceFromList(a)
		if err != nil {
			return nil, wrongType(name, "list", a)
		}
		lists[i] = items
		if shortest < 0 || len(items) < shortest {
			shortest = len(items)
		}
	}
	out := make([]Value, shortest)
	for i := 0; i < shortest; i++ {
		callArgs := make([]Value, len(lists))
		for j, items := range lists {
			callArgs[j] = items[i]
		}
		r, err := invoke(args[0], callArgs)
		if err != nil {
			return nil, err
		}
		out[i] = r
	}
	return ListFromSlice(out), nil
}

func primFilter(name string, args []Value) (Value, *Error) {
	items, err := SliceFromList(args[1])
	if err != nil {
		return nil, wrongType(name, "list", args[1])
	}
	var out []Value
	for _, v := range items {
		r, err := invoke(args[0], []Value{v})
		if err != nil {
			return nil, err
		}
		if Truthy(r) {
			out = append(out, v)
		}
	}
	return ListFromSlice(out), nil
}

func primFoldl(name string, args []Value) (Value, *Error) {
	items, err := SliceFromList(args[2])
	if err != nil {
		return nil, wrongType(name, "list", args[2])
	}
	acc := args[1]
	for _, v := range items {
		acc, err = invoke(args[0], []Value{acc, v})
		if err != nil {
			return nil, err
		}
	}
	return acc, nil
}

func primFoldr(name string, args []Value) (Value, *Error) {
	items, err := SliceFromList(args[2])
	if err != nil {
		return nil, wrongType(name, "list", args[2])
	}
	acc := args[1]
	for i := len(items) - 1; i >= 0; i-- {
		acc, err = invoke(args[0], []Value{items[i], acc})
		if err != nil {
			return nil, err
		}
	}
	return acc, nil
}

func primEqP(name string, args []Value) (Value, *Error) {
	return BoolValue(Eq(args[0], args[1])), nil
}

func primEqlP(name string, args []Value) (Value, *Error) {
	return BoolValue(Eql(args[0], args[1])), nil
}

func kindPredicate(k Kind) PrimitiveFunc {
	return func(name string, args []Value) (Value, *Error) {
		return BoolValue(args[0].Kind() == k), nil
	}
}

func primFunctionP(name string, args []Value) (Value, *Error) {
	switch args[0].Kind() {
	case KindFunction, KindPrimitive:
		return True, nil
	default:
		return False, nil
	}
}

func primListP(name string, args []Value) (Value, *Error) {
	return BoolValue(IsListKind(args[0])), nil
}

// primRef, primRefGet, and primRefSet implement the mutable-cell
// extension from SPEC_FULL.md §4 on top of the existing Cons variant
// rather than a new Value kind: a reference cell is a one-element Cons
// whose Head is mutated in place by ref-set.
func primRef(name string, args []Value) (Value, *Error) {
	return NewCons(args[0], EmptyList)
}

func primRefGet(name string, args []Value) (Value, *Error) {
	c, ok := args[0].(*Cons)
	if !ok {
		return nil, wrongType(name, "ref", args[0])
	}
	return c.Head, nil
}

func primRefSet(name string, args []Value) (Value, *Error) {
	c, ok := args[0].(*Cons)
	if !ok {
		return nil, wrongType(name, "ref", args[0])
	}
	c.Head = args[1]
	return Nil, nil
}

// primMakeDict, primDictGet, and primDictUpdate implement the
// association-list dict extension: a dict is a list of 2-element
// (key value) lists, so it needs no dedicated Value variant either.
func primMakeDict(name string, args []Value) (Value, *Error) {
	entries, err := SliceFromList(args[0])
	if err != nil {
		return nil, wrongType(name, "list of (key value) pairs", args[0])
	}
	for _, e := range entries {
		pair, perr := SliceFromList(e)
		if perr != nil || len(pair) != 2 {
			return nil, newError(KindWrongArgType, "make-dict: each entry must be a (key value) pair")
		}
	}
	return args[0], nil
}

func primDictGet(name string, args []Value) (Value, *Error) {
	entries, err := SliceFromList(args[0])
	if err != nil {
		return nil, wrongType(name, "dict", args[0])
	}
	for _, e := range entries {
		pair, perr := SliceFromList(e)
		if perr != nil || len(pair) != 2 {
			continue
		}
		if Eql(pair[0], args[1]) {
			return pair[1], nil
		}
	}
	return Nil, nil
}

func primDictUpdate(name string, args []Value) (Value, *Error) {
	entries, err := SliceFromList(args[0])
	if err != nil {
		return nil, wrongType(name, "dict", args[0])
	}
	out := make([]Value, 0, len(entries)+1)
	found := false
	for _, e := range entries {
		pair, perr := SliceFromList(e)
		if perr != nil || len(pair) != 2 {
			out = append(out, e)
			continue
		}
		if Eql(pair[0], args[1]) {
			out = append(out, ListFromSlice([]Value{pair[0], args[2]}))
			found = true
		} else {
			out = append(out, e)
		}
	}
	if !found {
		out = append(out, ListFromSlice([]Value{args[1], args[2]}))
	}
	return ListFromSlice(out), nil
}
