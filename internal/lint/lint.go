// Package lint checks documented types and names in an APIMap.
package lint

import (
	"errors"
	"fmt"

	"github.com/phobologic/apiguide/internal/model"
	"github.com/phobologic/apiguide/internal/typeexpr"
)

// Warning kinds.
const (
	KindTypeSyntax  = "type-syntax"
	KindTypeName    = "type-name"
	KindMissingName = "missing-name"
)

// Check validates every declared type against the builtin types, the
// documented class names and extra. It also reports entities that ended up
// without a name.
func Check(m *model.APIMap, extra []string) []model.Warning {
	known := append([]string{}, extra...)
	for _, c := range m.Classes {
		if c.Name != nil {
			known = append(known, *c.Name)
		}
	}

	c := checker{v: typeexpr.New(known...)}
	for _, cls := range m.Classes {
		c.entity(cls)
		if cls.Constructor != nil {
			c.params(cls.Constructor, cls.Constructor.Params)
		}
		for _, list := range [][]*model.Entity{cls.Cfg, cls.Property, cls.Method, cls.Event} {
			for _, e := range list {
				c.entity(e)
			}
		}
	}
	for _, g := range m.Globals {
		c.entity(g)
	}
	return c.warnings
}

type checker struct {
	v        *typeexpr.Validator
	warnings []model.Warning
}

func (c *checker) entity(e *model.Entity) {
	if e.Name == nil || *e.Name == "" {
		c.warn(e, KindMissingName, fmt.Sprintf("%s has no name", e.Kind))
	}

	switch e.Kind {
	case model.TagCfg, model.TagProperty:
		if e.Type != nil && *e.Type != model.FunctionType {
			c.typ(e, *e.Type, "type")
		}
	case model.TagMethod:
		c.params(e, e.Params)
		if e.Return != nil && e.Return.Type != nil {
			c.typ(e, *e.Return.Type, "return type")
		}
	case model.TagEvent:
		c.params(e, e.Params)
	}
}

func (c *checker) params(e *model.Entity, params []model.Param) {
	for _, p := range params {
		if p.Type == nil {
			continue
		}
		c.typ(e, *p.Type, fmt.Sprintf("parameter %s type", model.Deref(p.Name)))
	}
}

func (c *checker) typ(e *model.Entity, t, what string) {
	err := c.v.Validate(t)
	if err == nil {
		return
	}
	var te *typeexpr.Error
	if !errors.As(err, &te) {
		return
	}
	kind := KindTypeSyntax
	if te.Kind == typeexpr.KindName {
		kind = KindTypeName
	}
	c.warn(e, kind, fmt.Sprintf("%s: %s %s", qualified(e), what, err))
}

func (c *checker) warn(e *model.Entity, kind, msg string) {
	c.warnings = append(c.warnings, model.Warning{
		File:    e.File,
		Line:    e.Line,
		Kind:    kind,
		Message: msg,
	})
}

func qualified(e *model.Entity) string {
	name := model.Deref(e.Name)
	if e.Owner == "" {
		return name
	}
	return e.Owner + "." + name
}
