// Package typeexpr validates type expressions used in doc comments.
//
// Supported forms:
//
//	SomeType
//	Name.spaced.Type
//	Number[]
//	String/RegExp
//	Type...
package typeexpr

import (
	"fmt"
	"regexp"
	"strings"
)

// Kind tells why a type expression was rejected.
type Kind string

const (
	// KindSyntax means the expression does not follow the type grammar.
	KindSyntax Kind = "syntax"
	// KindName means a type name in the expression is unknown.
	KindName Kind = "name"
)

// Error is returned for an invalid type expression.
type Error struct {
	Kind   Kind
	Input  string
	Offset int
}

func (e *Error) Error() string {
	if e.Kind == KindName {
		return fmt.Sprintf("unknown type in %q", e.Input)
	}
	return fmt.Sprintf("invalid type syntax %q at offset %d", e.Input, e.Offset)
}

var baseTypeRe = regexp.MustCompile(`^[a-zA-Z_]+(\.[a-zA-Z_]+)*(\[\])?`)

var builtins = map[string]struct{}{
	// JavaScript
	"Object":    {},
	"String":    {},
	"Number":    {},
	"Boolean":   {},
	"RegExp":    {},
	"Function":  {},
	"Array":     {},
	"Arguments": {},
	"Date":      {},
	"Error":     {},
	"undefined": {},
	// DOM
	"HTMLElement":   {},
	"XMLElement":    {},
	"NodeList":      {},
	"TextNode":      {},
	"CSSStyleSheet": {},
	"CSSStyleRule":  {},
	"Event":         {},
}

// Validator checks type expressions against the builtin types plus a set of
// known class names. It holds no per-call state and may be shared between
// goroutines.
type Validator struct {
	known map[string]struct{}
}

// New creates a Validator that also accepts the given class names.
func New(known ...string) *Validator {
	v := &Validator{known: make(map[string]struct{}, len(known))}
	for _, k := range known {
		v.known[k] = struct{}{}
	}
	return v
}

// Validate returns nil when s is a valid type expression, or an *Error.
func (v *Validator) Validate(s string) error {
	ok, kind, offset := v.Scan(s)
	if ok {
		return nil
	}
	return &Error{Kind: kind, Input: s, Offset: offset}
}

// Scan consumes s left to right. On failure it returns the reason of the
// most recent failure and the offset where scanning stopped.
func (v *Validator) Scan(s string) (bool, Kind, int) {
	sc := scanner{input: s, v: v, err: KindSyntax}

	if !sc.baseType() {
		return false, sc.err, sc.pos
	}
	for sc.accept("/") {
		if !sc.baseType() {
			return false, sc.err, sc.pos
		}
	}
	sc.accept("...")

	if sc.pos != len(s) {
		return false, sc.err, sc.pos
	}
	return true, "", sc.pos
}

func (v *Validator) exists(name string) bool {
	stem := strings.TrimSuffix(name, "[]")
	if _, ok := builtins[stem]; ok {
		return true
	}
	_, ok := v.known[stem]
	return ok
}

type scanner struct {
	input string
	pos   int
	v     *Validator
	err   Kind
}

func (s *scanner) accept(lit string) bool {
	if strings.HasPrefix(s.input[s.pos:], lit) {
		s.pos += len(lit)
		return true
	}
	return false
}

// baseType matches <ident> ["." <ident>]* ["[]"] and checks the name.
func (s *scanner) baseType() bool {
	m := baseTypeRe.FindString(s.input[s.pos:])
	if m == "" {
		return false
	}
	start := s.pos
	s.pos += len(m)
	if !s.v.exists(m) {
		s.err = KindName
		s.pos = start
		return false
	}
	return true
}
