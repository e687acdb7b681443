//
// Copyright 2011-2012 Nathan Fiedler. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//

package lisp

import "strings"

// ReadMacro transforms a `#(name arg...)` form into a Value at read
// time. name is the macro's canonical name; args is the list-kind Value
// of the already-read argument datums. A transform's output may itself
// contain further `#(...)` forms or macro-expandable heads; expanding
// those is the parser's job (§4.1), not the reader's.
type ReadMacro func(r *Reader, name string, args Value) (Value, *Error)

// Reader turns source text into one S-expression (here, a Value) at a
// time, per §4.1. It owns the table of registered read-time macros; the
// Engine is the usual owner of a Reader, but the type is exported so a
// host can drive it directly.
type Reader struct {
	macros map[string]ReadMacro
}

// NewReader constructs a Reader with no macros registered.
func NewReader() *Reader {
	return &Reader{macros: make(map[string]ReadMacro)}
}

// RegisterMacro adds a read-time macro under the given (canonicalized)
// name. Re-registering an existing name fails with DuplicateMacro.
func (r *Reader) RegisterMacro(name string, fn ReadMacro) *Error {
	name = Canonicalize(name)
	if _, exists := r.macros[name]; exists {
		return newErrorf(KindDuplicateMacro, "read macro already registered: %s", name)
	}
	r.macros[name] = fn
	return nil
}

// Read consumes exactly one top-level datum from text and returns it
// along with the unconsumed remainder. If text is blank (only
// whitespace), it returns (nil, "", nil) — the "blank input" case the
// Engine's read() operation reports as "no datum" rather than an error.
func (r *Reader) Read(text string) (Value, string, *Error) {
	if strings.TrimSpace(text) == "" {
		return nil, "", nil
	}
	l := newLexer(text)
	tok, err := l.nextToken()
	if err != nil {
		return nil, "", err
	}
	if tok.typ == tokenEOF {
		return nil, "", nil
	}
	v, err := r.readDatum(tok, l)
	if err != nil {
		return nil, "", err
	}
	return v, text[l.offset():], nil
}

// readDatum reads one complete datum, given its first token already
// scanned.
func (r *Reader) readDatum(tok token, l *lexer) (Value, *Error) {
	switch tok.typ {
	case tokenError:
		return nil, newError(KindReadError, tok.val)
	case tokenEOF:
		return nil, newError(KindReadError, "unexpected end of input")
	case tokenNumber:
		n, ok := NewNumberFromString(tok.val)
		if !ok {
			return nil, newErrorf(KindReadError, "malformed number: %q", tok.val)
		}
		return n, nil
	case tokenString:
		return NewString(unescapeString(tok.val)), nil
	case tokenBoolean:
		switch strings.ToLower(tok.val) {
		case "#true":
			return True, nil
		case "#false":
			return False, nil
		default:
			return nil, newErrorf(KindReadError, "malformed boolean literal: %q", tok.val)
		}
	case tokenSymbol:
		return NewSymbol(tok.val), nil
	case tokenQuote:
		inner, err := r.readNext(l)
		if err != nil {
			return nil, err
		}
		list, cerr := NewCons(inner, EmptyList)
		if cerr != nil {
			return nil, cerr
		}
		return NewCons(NewSymbol("quote"), list)
	case tokenOpenParen:
		return r.readList(l)
	case tokenCloseParen:
		return nil, newError(KindReadError, "unexpected )")
	case tokenMacroOpen:
		return r.readMacroForm(l)
	}
	return nil, newErrorf(KindReadError, "unrecognized token: %q", tok.val)
}

// readNext scans the next token and reads the datum it begins.
func (r *Reader) readNext(l *lexer) (Value, *Error) {
	tok, err := l.nextToken()
	if err != nil {
		return nil, err
	}
	if tok.typ == tokenEOF {
		return nil, newError(KindReadError, "unexpected end of input")
	}
	return r.readDatum(tok, l)
}

// readList reads datums up to the matching close paren, chaining them
// into Cons cells ending in EmptyList.
func (r *Reader) readList(l *lexer) (Value, *Error) {
	var items []Value
	for {
		tok, err := l.nextToken()
		if err != nil {
			return nil, err
		}
		if tok.typ == tokenEOF {
			return nil, newError(KindReadError, "unexpected end of input inside list")
		}
		if tok.typ == tokenCloseParen {
			return ListFromSlice(items), nil
		}
		v, err := r.readDatum(tok, l)
		if err != nil {
			return nil, err
		}
		items = append(items, v)
	}
}

// readMacroForm reads `NAME datum* )` having already consumed the
// leading "#(", and invokes the registered transform.
func (r *Reader) readMacroForm(l *lexer) (Value, *Error) {
	tok, err := l.nextToken()
	if err != nil {
		return nil, err
	}
	if tok.typ != tokenSymbol {
		return nil, newErrorf(KindReadError, "expected macro name after #(, got %q", tok.val)
	}
	name := Canonicalize(tok.val)
	transform, ok := r.macros[name]
	if !ok {
		return nil, newErrorf(KindReadError, "unknown read macro: %s", name)
	}
	var args []Value
	for {
		tok, err := l.nextToken()
		if err != nil {
			return nil, err
		}
		if tok.typ == tokenEOF {
			return nil, newErrorf(KindReadError, "unterminated read macro form: #(%s", name)
		}
		if tok.typ == tokenCloseParen {
			break
		}
		v, err := r.readDatum(tok, l)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}
	return transform(r, name, ListFromSlice(args))
}

// unescapeString processes the backslash escapes recognized while
// reading a string literal (§4.1, §6): \" and \\ as documented, plus \n
// and \t so that the printer's escaped form (§6) round-trips; any other
// backslash sequence drops the backslash and keeps the literal
// character, which is the common fallback Lisp readers take for an
// escape they don't specifically recognize.
func unescapeString(tok string) string {
	// strip the surrounding quotes
	inner := tok[1 : len(tok)-1]
	var b strings.Builder
	for i := 0; i < len(inner); i++ {
		c := inner[i]
		if c != '\\' || i == len(inner)-1 {
			b.WriteByte(c)
			continue
		}
		i++
		switch inner[i] {
		case '"':
			b.WriteByte('"')
		case '\\':
			b.WriteByte('\\')
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		default:
			b.WriteByte(inner[i])
		}
	}
	return b.String()
}
