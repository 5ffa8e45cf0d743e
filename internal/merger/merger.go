// Package merger combines the tags of a doc comment with the shape of the
// code that follows it into one normalized API entity.
//
// Merging never fails. Anything that cannot be determined is left nil, since
// incomplete documentation must not stop the processing of a whole file.
package merger

import (
	"strings"

	"github.com/phobologic/apiguide/internal/model"
)

// Merge builds the entity described by tags and code.
func Merge(tags []model.Tag, code model.Code) *model.Entity {
	m := BuildDocMap(tags)
	switch DetectDocType(m, code) {
	case model.TagClass:
		return createClass(tags, code)
	case model.TagEvent:
		return createEvent(tags, code)
	case model.TagMethod:
		return createMethod(tags, code)
	case model.TagCfg:
		return createCfg(tags, code)
	default:
		return createProperty(tags, code)
	}
}

func createClass(tags []model.Tag, code model.Code) *model.Entity {
	groups := GroupClassDocs(tags)
	e := createBareClass(groups.Class, code)
	e.Cfg = make([]*model.Entity, 0, len(groups.Cfg))
	for _, cfg := range groups.Cfg {
		e.Cfg = append(e.Cfg, createCfg(cfg, nil))
	}
	e.Constructor = createMethod(groups.Constructor, nil)
	e.Property = []*model.Entity{}
	e.Method = []*model.Entity{}
	e.Event = []*model.Entity{}
	return e
}

func createBareClass(tags []model.Tag, code model.Code) *model.Entity {
	m := BuildDocMap(tags)
	return &model.Entity{
		Kind:      model.TagClass,
		Name:      detectName(model.TagClass, m, code, true),
		Doc:       detectDoc(tags),
		Extends:   detectExtends(m, code),
		Singleton: m.Has(model.TagSingleton),
		Private:   m.Has(model.TagPrivate),
		Member:    detectMember(m),
	}
}

func createMethod(tags []model.Tag, code model.Code) *model.Entity {
	m := BuildDocMap(tags)
	return &model.Entity{
		Kind:    model.TagMethod,
		Name:    detectName(model.TagMethod, m, code, false),
		Doc:     detectDoc(tags),
		Params:  detectParams(tags, code),
		Return:  m.First(model.TagReturn),
		Private: m.Has(model.TagPrivate),
		Member:  detectMember(m),
	}
}

func createEvent(tags []model.Tag, code model.Code) *model.Entity {
	m := BuildDocMap(tags)
	return &model.Entity{
		Kind:    model.TagEvent,
		Name:    detectName(model.TagEvent, m, code, false),
		Doc:     detectDoc(tags),
		Params:  detectParams(tags, code),
		Private: m.Has(model.TagPrivate),
		Member:  detectMember(m),
	}
}

func createCfg(tags []model.Tag, code model.Code) *model.Entity {
	m := BuildDocMap(tags)
	return &model.Entity{
		Kind:    model.TagCfg,
		Name:    detectName(model.TagCfg, m, code, false),
		Type:    detectType(model.TagCfg, m, code),
		Doc:     detectDoc(tags),
		Private: m.Has(model.TagPrivate),
		Member:  detectMember(m),
	}
}

func createProperty(tags []model.Tag, code model.Code) *model.Entity {
	m := BuildDocMap(tags)
	return &model.Entity{
		Kind:    model.TagProperty,
		Name:    detectName(model.TagProperty, m, code, false),
		Type:    detectType(model.TagProperty, m, code),
		Doc:     detectDoc(tags),
		Private: m.Has(model.TagPrivate),
		Member:  detectMember(m),
	}
}

// detectName prefers the name given by the entity's own tag, then falls back
// to the code. Classes keep the full dotted name to preserve namespaces.
func detectName(kind model.TagName, m DocMap, code model.Code, fullName bool) *string {
	if t := m.First(kind); t != nil && t.Name != nil {
		return t.Name
	}
	if m.Has(model.TagConstructor) {
		return model.Str("constructor")
	}
	switch c := code.(type) {
	case *model.Function:
		if c.Name == "" {
			return nil
		}
		return model.Str(c.Name)
	case *model.Assignment:
		if fullName {
			return model.Str(c.FullName())
		}
		return model.Str(c.LeftName())
	}
	return nil
}

func detectType(kind model.TagName, m DocMap, code model.Code) *string {
	if t := m.First(kind); t != nil && t.Type != nil {
		return t.Type
	}
	if t := m.First(model.TagType); t != nil && t.Type != nil {
		return t.Type
	}
	switch c := code.(type) {
	case *model.Function:
		return model.Str(model.FunctionType)
	case *model.Assignment:
		switch r := c.Right.(type) {
		case *model.Function:
			return model.Str(model.FunctionType)
		case *model.Literal:
			if r.Class != "" {
				return model.Str(r.Class)
			}
		}
	}
	return nil
}

func detectExtends(m DocMap, code model.Code) *string {
	if t := m.First(model.TagExtends); t != nil {
		return t.Extends
	}
	if a, ok := code.(*model.Assignment); ok {
		if ext, ok := a.Right.(*model.ExtExtend); ok {
			return model.Str(strings.Join(ext.Extend, "."))
		}
	}
	return nil
}

func detectMember(m DocMap) *string {
	if t := m.First(model.TagMember); t != nil {
		return t.Name
	}
	return nil
}

func detectParams(tags []model.Tag, code model.Code) []model.Param {
	return MergeParams(implicitParams(code), explicitParams(tags))
}

// detectDoc joins the doc text of all tags except @param and @return, which
// document their own parameter or return value.
func detectDoc(tags []model.Tag) string {
	var parts []string
	for _, t := range tags {
		if t.Kind == model.TagParam || t.Kind == model.TagReturn || t.Doc == nil {
			continue
		}
		parts = append(parts, *t.Doc)
	}
	return strings.Join(parts, " ")
}
