//
// Copyright 2011-2012 Nathan Fiedler. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//

package lisp

import (
	"strings"
)

// PrintForm renders v the way the reader would need to see it again to
// reconstruct an eql?-equal value (§6): strings are double-quoted with
// their contents escaped. This is the form the REPL's report() path and
// the `write` primitive use.
func PrintForm(v Value) string {
	var b strings.Builder
	printValue(&b, v, true)
	return b.String()
}

// DisplayForm renders v for human consumption: like PrintForm, except a
// String's raw contents are emitted without quoting or escaping. This is
// the form the `print` primitive uses.
func DisplayForm(v Value) string {
	var b strings.Builder
	printValue(&b, v, false)
	return b.String()
}

func printValue(b *strings.Builder, v Value, quoteStrings bool) {
	switch t := v.(type) {
	case *Boolean:
		if t.Val {
			b.WriteString("#true")
		} else {
			b.WriteString("#false")
		}
	case *Number:
		b.WriteString(t.Val.String())
	case *String:
		if quoteStrings {
			b.WriteString(escapeString(t.Val))
		} else {
			b.WriteString(t.Val)
		}
	case *Symbol:
		b.WriteString(t.Name)
	case *NilVal:
		b.WriteString("#nil")
	case *EmptyListVal:
		b.WriteString("()")
	case *Cons:
		b.WriteByte('(')
		first := true
		cur := Value(t)
		for {
			c, ok := cur.(*Cons)
			if !ok {
				break
			}
			if !first {
				b.WriteByte(' ')
			}
			first = false
			printValue(b, c.Head, quoteStrings)
			cur = c.Tail
		}
		b.WriteByte(')')
	case *Primitive:
		b.WriteString("#[prim ")
		b.WriteString(t.ID())
		b.WriteByte(']')
	case *Function:
		b.WriteString("#[func ")
		b.WriteString(t.ID())
		b.WriteByte(']')
	default:
		b.WriteString("#[unknown]")
	}
}

// escapeString quotes s and escapes the characters the reader's
// unescapeString recognizes, so PrintForm output round-trips through
// Read (testable property 9).
func escapeString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
