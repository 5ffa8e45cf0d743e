// Package toon implements TOON (Token-Oriented Object Notation) encoding.
package toon

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/phobologic/apiguide/internal/model"
)

var (
	needsQuoting = regexp.MustCompile(`[,:"\\{}\[\]]`)
	looksNumeric = regexp.MustCompile(`^-?(?:0|[1-9]\d*)(?:\.\d+)?$`)
	keywords     = map[string]struct{}{
		"true":  {},
		"false": {},
		"null":  {},
	}
)

// Encode converts an APIMap into TOON format.
func Encode(m *model.APIMap) string {
	var parts []string

	parts = append(parts, fmt.Sprintf("repo: %s", encodeValue(m.RepoName)))
	parts = append(parts, fmt.Sprintf("root: %s", encodeValue(m.Root)))

	var classRows [][]string
	for _, c := range m.Classes {
		classRows = append(classRows, []string{
			model.Deref(c.Name),
			model.Deref(c.Extends),
			c.File,
			fmt.Sprintf("%d", c.Line),
			fmt.Sprintf("%.4f", c.Rank),
			flags(c),
			summary(c.Doc),
		})
	}
	parts = append(parts, formatTabular("classes",
		[]string{"name", "extends", "file", "line", "rank", "flags", "doc"}, classRows))

	var memberRows [][]string
	for _, c := range m.Classes {
		class := model.Deref(c.Name)
		if ctor := c.Constructor; ctor != nil && (ctor.Doc != "" || len(ctor.Params) > 0) {
			memberRows = append(memberRows, memberRow(class, model.TagConstructor, ctor))
		}
		for _, list := range [][]*model.Entity{c.Cfg, c.Property, c.Method, c.Event} {
			for _, e := range list {
				memberRows = append(memberRows, memberRow(class, e.Kind, e))
			}
		}
	}
	for _, g := range m.Globals {
		memberRows = append(memberRows, memberRow(g.Owner, g.Kind, g))
	}
	parts = append(parts, formatTabular("members",
		[]string{"class", "kind", "name", "type", "signature", "flags", "doc"}, memberRows))

	var edgeRows [][]string
	for _, e := range m.Inheritance {
		edgeRows = append(edgeRows, []string{e.Child, e.Parent})
	}
	parts = append(parts, formatTabular("inheritance", []string{"child", "parent"}, edgeRows))

	if len(m.Warnings) > 0 {
		var warnRows [][]string
		for _, w := range m.Warnings {
			warnRows = append(warnRows, []string{
				w.File,
				fmt.Sprintf("%d", w.Line),
				w.Kind,
				w.Message,
			})
		}
		parts = append(parts, formatTabular("warnings", []string{"file", "line", "kind", "message"}, warnRows))
	}

	return strings.Join(parts, "\n")
}

func memberRow(class string, kind model.TagName, e *model.Entity) []string {
	name := model.Deref(e.Name)
	if kind == model.TagConstructor {
		name = "constructor"
	}

	typ := model.Deref(e.Type)
	var sig string
	switch kind {
	case model.TagMethod, model.TagEvent, model.TagConstructor:
		sig = signature(name, e.Params)
		if e.Return != nil {
			typ = model.Deref(e.Return.Type)
		}
	}

	return []string{class, string(kind), name, typ, sig, flags(e), summary(e.Doc)}
}

// signature renders name(Type a, b) from params, omitting absent types.
func signature(name string, params []model.Param) string {
	args := make([]string, len(params))
	for i, p := range params {
		arg := model.Deref(p.Name)
		if p.Type != nil {
			arg = *p.Type + " " + arg
		}
		args[i] = strings.TrimSpace(arg)
	}
	return name + "(" + strings.Join(args, ", ") + ")"
}

func flags(e *model.Entity) string {
	var f []string
	if e.Private {
		f = append(f, "private")
	}
	if e.Singleton {
		f = append(f, "singleton")
	}
	return strings.Join(f, " ")
}

// summary returns the first paragraph of a doc.
func summary(doc string) string {
	if i := strings.Index(doc, "\n\n"); i >= 0 {
		doc = doc[:i]
	}
	return strings.TrimSpace(doc)
}

func formatTabular(name string, columns []string, rows [][]string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s[%d]{%s}:", name, len(rows), strings.Join(columns, ","))
	for _, row := range rows {
		encoded := make([]string, len(row))
		for i, cell := range row {
			encoded[i] = encodeValue(cell)
		}
		fmt.Fprintf(&b, "\n  %s", strings.Join(encoded, ","))
	}
	return b.String()
}

func encodeValue(value string) string {
	if value == "" {
		return `""`
	}

	if value != strings.TrimSpace(value) {
		return quote(value)
	}

	if strings.ContainsAny(value, "\n\r\t") {
		return quote(value)
	}

	if _, ok := keywords[strings.ToLower(value)]; ok {
		return quote(value)
	}

	if looksNumeric.MatchString(value) {
		return value
	}

	if needsQuoting.MatchString(value) {
		return quote(value)
	}

	if strings.HasPrefix(value, "-") {
		return quote(value)
	}

	return value
}

func quote(value string) string {
	escaped := strings.ReplaceAll(value, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `"`, `\"`)
	escaped = strings.ReplaceAll(escaped, "\n", `\n`)
	escaped = strings.ReplaceAll(escaped, "\r", `\r`)
	escaped = strings.ReplaceAll(escaped, "\t", `\t`)
	return `"` + escaped + `"`
}
