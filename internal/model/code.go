package model

import "strings"

// Code is the structural shape of the construct a doc comment is attached to.
// It is one of *Function, *Assignment, *Literal or *ExtExtend. A nil Code
// means nothing recognizable follows the comment.
type Code interface {
	isCode()
}

// Function is a function declaration or expression.
type Function struct {
	Name   string
	Params []Param
}

// Assignment is `left = right` where Left is a dotted name chain.
type Assignment struct {
	Left  []string
	Right Code
}

// Literal is a value whose class is known, e.g. "String" for a string literal.
type Literal struct {
	Class string
}

// ExtExtend is a call to Ext.extend; Extend is the parent class name chain.
type ExtExtend struct {
	Extend []string
}

func (*Function) isCode()   {}
func (*Assignment) isCode() {}
func (*Literal) isCode()    {}
func (*ExtExtend) isCode()  {}

// LeftName returns the last segment of the assignment target.
func (a *Assignment) LeftName() string {
	if len(a.Left) == 0 {
		return ""
	}
	return a.Left[len(a.Left)-1]
}

// FullName returns the dotted assignment target.
func (a *Assignment) FullName() string {
	return strings.Join(a.Left, ".")
}
