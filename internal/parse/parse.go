// Package parse extracts doc comments and the shape of the code that follows
// them from JavaScript source using tree-sitter.
package parse

import (
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/phobologic/apiguide/internal/comment"
	"github.com/phobologic/apiguide/internal/model"
)

// literalClasses maps literal node types to the class of their value.
var literalClasses = map[string]string{
	"string":          "String",
	"template_string": "String",
	"number":          "Number",
	"true":            "Boolean",
	"false":           "Boolean",
	"object":          "Object",
	"array":           "Array",
	"regex":           "RegExp",
}

// ExtractUnits parses a source file and returns one unit per doc comment,
// in source order. The parser must be created for JavaScript.
// filePath is used only for Unit.File and should be the repo-relative path.
func ExtractUnits(ctx context.Context, parser *sitter.Parser, query *sitter.Query, source []byte, filePath string) ([]model.Unit, error) {
	if len(source) == 0 {
		return nil, nil
	}

	tree, err := parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	qc := sitter.NewQueryCursor()
	defer qc.Close()
	qc.Exec(query, tree.RootNode())

	var units []model.Unit
	for {
		match, ok := qc.NextMatch()
		if !ok {
			break
		}
		for _, c := range match.Captures {
			if query.CaptureNameForId(c.Index) != "doc" {
				continue
			}
			text := c.Node.Content(source)
			if !comment.IsDoc(text) {
				continue
			}
			units = append(units, model.Unit{
				File:    filePath,
				Line:    int(c.Node.StartPoint().Row) + 1,
				Comment: text,
				Code:    codeAfter(c.Node, source),
			})
		}
	}
	return units, nil
}

// codeAfter describes the construct immediately following a comment node.
func codeAfter(commentNode *sitter.Node, source []byte) model.Code {
	next := commentNode.NextNamedSibling()
	if next == nil || next.Type() == "comment" {
		return nil
	}
	return statementCode(next, source)
}

func statementCode(node *sitter.Node, source []byte) model.Code {
	switch node.Type() {
	case "export_statement":
		if decl := node.ChildByFieldName("declaration"); decl != nil {
			return statementCode(decl, source)
		}
		if value := node.ChildByFieldName("value"); value != nil {
			return valueCode(value, source)
		}
	case "function_declaration", "generator_function_declaration", "method_definition":
		return functionCode(node, source)
	case "class_declaration":
		return classCode(node, source)
	case "expression_statement":
		if node.NamedChildCount() > 0 {
			return expressionCode(node.NamedChild(0), source)
		}
	case "lexical_declaration", "variable_declaration":
		for i := 0; i < int(node.NamedChildCount()); i++ {
			d := node.NamedChild(i)
			if d.Type() != "variable_declarator" {
				continue
			}
			return declaratorCode(d, source)
		}
	case "variable_declarator":
		return declaratorCode(node, source)
	case "pair":
		key := node.ChildByFieldName("key")
		if key == nil {
			return nil
		}
		return &model.Assignment{
			Left:  []string{unquote(key.Content(source))},
			Right: valueCode(node.ChildByFieldName("value"), source),
		}
	case "field_definition", "public_field_definition":
		prop := node.ChildByFieldName("property")
		if prop == nil {
			return nil
		}
		return &model.Assignment{
			Left:  []string{prop.Content(source)},
			Right: valueCode(node.ChildByFieldName("value"), source),
		}
	}
	return nil
}

func expressionCode(node *sitter.Node, source []byte) model.Code {
	switch node.Type() {
	case "assignment_expression":
		left := nameChain(node.ChildByFieldName("left"), source)
		if left == nil {
			return nil
		}
		return &model.Assignment{Left: left, Right: valueCode(node.ChildByFieldName("right"), source)}
	case "call_expression":
		if isExtendCall(node, source) {
			return &model.ExtExtend{Extend: extendArg(node, 1, source)}
		}
	}
	return nil
}

func declaratorCode(node *sitter.Node, source []byte) model.Code {
	name := node.ChildByFieldName("name")
	if name == nil || name.Type() != "identifier" {
		return nil
	}
	return &model.Assignment{
		Left:  []string{name.Content(source)},
		Right: valueCode(node.ChildByFieldName("value"), source),
	}
}

// valueCode describes the right-hand side of an assignment.
func valueCode(node *sitter.Node, source []byte) model.Code {
	if node == nil {
		return nil
	}
	switch node.Type() {
	case "function", "function_expression", "arrow_function", "generator_function":
		return functionCode(node, source)
	case "call_expression":
		if isExtendCall(node, source) {
			return &model.ExtExtend{Extend: extendArg(node, 0, source)}
		}
		return nil
	case "new_expression":
		if chain := nameChain(node.ChildByFieldName("constructor"), source); chain != nil {
			return &model.Literal{Class: strings.Join(chain, ".")}
		}
		return nil
	case "parenthesized_expression":
		if node.NamedChildCount() > 0 {
			return valueCode(node.NamedChild(0), source)
		}
		return nil
	}
	if class, ok := literalClasses[node.Type()]; ok {
		return &model.Literal{Class: class}
	}
	return nil
}

func functionCode(node *sitter.Node, source []byte) *model.Function {
	fn := &model.Function{}
	if name := node.ChildByFieldName("name"); name != nil {
		fn.Name = name.Content(source)
	}
	if params := node.ChildByFieldName("parameters"); params != nil {
		fn.Params = parameters(params, source)
	} else if param := node.ChildByFieldName("parameter"); param != nil {
		// Arrow function with a single unparenthesized parameter.
		fn.Params = []model.Param{{Name: model.Str(param.Content(source))}}
	}
	return fn
}

// classCode maps an ES class to the shapes used for constructor functions:
// a class with a superclass looks like Name = Ext.extend(Parent, ...).
func classCode(node *sitter.Node, source []byte) model.Code {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}
	name := nameNode.Content(source)
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child.Type() != "class_heritage" || child.NamedChildCount() == 0 {
			continue
		}
		parent := nameChain(child.NamedChild(0), source)
		if parent == nil {
			break
		}
		return &model.Assignment{Left: []string{name}, Right: &model.ExtExtend{Extend: parent}}
	}
	return &model.Function{Name: name}
}

func parameters(node *sitter.Node, source []byte) []model.Param {
	var params []model.Param
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		var name string
		switch child.Type() {
		case "identifier":
			name = child.Content(source)
		case "assignment_pattern":
			if left := child.ChildByFieldName("left"); left != nil {
				name = left.Content(source)
			}
		case "rest_pattern":
			if child.NamedChildCount() > 0 {
				name = child.NamedChild(0).Content(source)
			}
		case "comment":
			continue
		default:
			name = child.Content(source)
		}
		params = append(params, model.Param{Name: model.Str(name)})
	}
	return params
}

// isExtendCall reports whether node calls a function named extend on some
// object, e.g. Ext.extend(...).
func isExtendCall(node *sitter.Node, source []byte) bool {
	fn := node.ChildByFieldName("function")
	if fn == nil || fn.Type() != "member_expression" {
		return false
	}
	prop := fn.ChildByFieldName("property")
	return prop != nil && prop.Content(source) == "extend"
}

// extendArg returns the name chain of the index-th argument of an extend call.
func extendArg(call *sitter.Node, index int, source []byte) []string {
	args := call.ChildByFieldName("arguments")
	if args == nil {
		return nil
	}
	seen := 0
	for i := 0; i < int(args.NamedChildCount()); i++ {
		arg := args.NamedChild(i)
		if arg.Type() == "comment" {
			continue
		}
		if seen == index {
			return nameChain(arg, source)
		}
		seen++
	}
	return nil
}

// nameChain flattens identifiers and member expressions into their dotted
// segments. Returns nil for anything else.
func nameChain(node *sitter.Node, source []byte) []string {
	if node == nil {
		return nil
	}
	switch node.Type() {
	case "identifier", "property_identifier", "this", "shorthand_property_identifier":
		return []string{node.Content(source)}
	case "member_expression":
		obj := nameChain(node.ChildByFieldName("object"), source)
		prop := node.ChildByFieldName("property")
		if obj == nil || prop == nil {
			return nil
		}
		return append(obj, prop.Content(source))
	}
	return nil
}

func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}
