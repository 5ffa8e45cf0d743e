// Package comment splits a /** ... */ doc comment into tags.
package comment

import (
	"regexp"
	"strings"

	"github.com/phobologic/apiguide/internal/model"
)

var (
	gutterRe    = regexp.MustCompile(`^\s*\*( ?)`)
	tagStartRe  = regexp.MustCompile(`(?m)^@([a-zA-Z]+)`)
	blankLineRe = regexp.MustCompile(`\n\s*\n`)
)

// IsDoc reports whether text is a doc comment (starts with "/**").
func IsDoc(text string) bool {
	return strings.HasPrefix(text, "/**") && !strings.HasPrefix(text, "/**/")
}

// Parse returns the tags of a doc comment in source order. Text before the
// first tag becomes a default tag. Parse never fails; unrecognized input
// leaves fields nil.
func Parse(text string) []model.Tag {
	body := stripDelimiters(text)

	var tags []model.Tag
	locs := tagStartRe.FindAllStringSubmatchIndex(body, -1)

	lead := body
	if len(locs) > 0 {
		lead = body[:locs[0][0]]
	}
	if doc := cleanDoc(lead); doc != nil {
		tags = append(tags, model.Tag{Kind: model.TagDefault, Doc: doc})
	}

	for i, loc := range locs {
		end := len(body)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		name := model.TagName(body[loc[2]:loc[3]])
		tags = append(tags, parseTag(name, body[loc[1]:end]))
	}
	return tags
}

// stripDelimiters removes the comment markers and the leading "*" of each line.
func stripDelimiters(text string) string {
	text = strings.TrimPrefix(text, "/**")
	text = strings.TrimSuffix(text, "*/")
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		line = gutterRe.ReplaceAllString(line, "")
		lines[i] = strings.TrimSpace(line)
	}
	return strings.Join(lines, "\n")
}

func parseTag(name model.TagName, rest string) model.Tag {
	t := model.Tag{Kind: name}
	s := &cursor{text: rest}

	switch name {
	case model.TagClass, model.TagMember, model.TagMethod, model.TagEvent:
		t.Name = s.ident()
	case model.TagExtends:
		t.Extends = s.ident()
	case model.TagCfg, model.TagProperty, model.TagParam:
		t.Type = s.braced()
		t.Name = s.optionalIdent()
	case model.TagReturn:
		t.Type = s.braced()
	case model.TagType:
		t.Type = s.braced()
		if t.Type == nil {
			t.Type = s.ident()
		}
	}

	t.Doc = cleanDoc(s.rest())
	return t
}

// cleanDoc collapses whitespace inside paragraphs and keeps paragraph breaks.
// Returns nil for blank text.
func cleanDoc(s string) *string {
	paras := blankLineRe.Split(strings.TrimSpace(s), -1)
	var out []string
	for _, p := range paras {
		p = strings.Join(strings.Fields(p), " ")
		if p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return model.Str(strings.Join(out, "\n\n"))
}

type cursor struct {
	text string
	pos  int
}

func (c *cursor) skipSpace() {
	for c.pos < len(c.text) && strings.ContainsRune(" \t\n", rune(c.text[c.pos])) {
		c.pos++
	}
}

// braced reads a {Type} block, allowing nested braces.
func (c *cursor) braced() *string {
	c.skipSpace()
	if c.pos >= len(c.text) || c.text[c.pos] != '{' {
		return nil
	}
	depth := 0
	for i := c.pos; i < len(c.text); i++ {
		switch c.text[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				typ := strings.TrimSpace(c.text[c.pos+1 : i])
				c.pos = i + 1
				if typ == "" {
					return nil
				}
				return model.Str(typ)
			}
		}
	}
	return nil
}

// ident reads a dotted identifier such as Ext.form.Field or $foo.
func (c *cursor) ident() *string {
	c.skipSpace()
	start := c.pos
	for c.pos < len(c.text) && isIdentByte(c.text[c.pos]) {
		c.pos++
	}
	if c.pos == start {
		return nil
	}
	return model.Str(c.text[start:c.pos])
}

// optionalIdent reads an identifier, also accepting the bracketed
// [name] and [name=default] forms of optional parameters.
func (c *cursor) optionalIdent() *string {
	c.skipSpace()
	if c.pos >= len(c.text) || c.text[c.pos] != '[' {
		return c.ident()
	}
	end := strings.IndexByte(c.text[c.pos:], ']')
	if end < 0 {
		return nil
	}
	inner := c.text[c.pos+1 : c.pos+end]
	if i := strings.IndexByte(inner, '='); i >= 0 {
		inner = inner[:i]
	}
	inner = strings.TrimSpace(inner)
	if inner == "" || strings.IndexFunc(inner, func(r rune) bool { return r > 0x7f || !isIdentByte(byte(r)) }) >= 0 {
		return nil
	}
	c.pos += end + 1
	return model.Str(inner)
}

func (c *cursor) rest() string {
	return c.text[c.pos:]
}

func isIdentByte(b byte) bool {
	return b == '_' || b == '$' || b == '.' ||
		('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z') || ('0' <= b && b <= '9')
}
