package merger

import (
	"unicode"
	"unicode/utf8"

	"github.com/phobologic/apiguide/internal/model"
)

type rule struct {
	kind  model.TagName
	match func(m DocMap, code model.Code) bool
}

func hasTag(kind model.TagName) func(DocMap, model.Code) bool {
	return func(m DocMap, _ model.Code) bool { return m.Has(kind) }
}

// cascade is evaluated top to bottom; the first matching rule decides.
// Explicit tags outrank anything inferred from code.
var cascade = []rule{
	{model.TagClass, hasTag(model.TagClass)},
	{model.TagEvent, hasTag(model.TagEvent)},
	{model.TagMethod, hasTag(model.TagMethod)},
	{model.TagProperty, hasTag(model.TagProperty)},
	{model.TagClass, func(_ DocMap, code model.Code) bool {
		_, ok := code.(*model.ExtExtend)
		return ok
	}},
	{model.TagClass, func(_ DocMap, code model.Code) bool {
		a, ok := code.(*model.Assignment)
		return ok && isClassName(a.LeftName())
	}},
	{model.TagClass, func(_ DocMap, code model.Code) bool {
		f, ok := code.(*model.Function)
		return ok && isClassName(f.Name)
	}},
	{model.TagCfg, hasTag(model.TagCfg)},
	{model.TagMethod, func(_ DocMap, code model.Code) bool {
		_, ok := code.(*model.Function)
		return ok
	}},
	{model.TagMethod, func(_ DocMap, code model.Code) bool {
		a, ok := code.(*model.Assignment)
		if !ok {
			return false
		}
		_, fn := a.Right.(*model.Function)
		return fn
	}},
}

// DetectDocType decides whether a doc comment describes a class, event,
// method, cfg or property.
func DetectDocType(m DocMap, code model.Code) model.TagName {
	for _, r := range cascade {
		if r.match(m, code) {
			return r.kind
		}
	}
	return model.TagProperty
}

// isClassName reports whether name begins with an uppercase letter.
func isClassName(name string) bool {
	r, size := utf8.DecodeRuneInString(name)
	if size == 0 {
		return false
	}
	return unicode.IsUpper(r)
}
