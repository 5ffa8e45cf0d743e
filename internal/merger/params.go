package merger

import "github.com/phobologic/apiguide/internal/model"

// MergeParams combines parameters inferred from code with @param tags.
// Parameters are aligned by position only. For each position, every field
// documented explicitly wins over the inferred one.
func MergeParams(implicit, explicit []model.Param) []model.Param {
	n := max(len(implicit), len(explicit))
	params := make([]model.Param, n)
	for i := 0; i < n; i++ {
		var im, ex model.Param
		if i < len(implicit) {
			im = implicit[i]
		}
		if i < len(explicit) {
			ex = explicit[i]
		}
		params[i] = model.Param{
			Type: firstSet(ex.Type, im.Type),
			Name: firstSet(ex.Name, im.Name),
			Doc:  firstSet(ex.Doc, im.Doc),
		}
	}
	return params
}

func implicitParams(code model.Code) []model.Param {
	switch c := code.(type) {
	case *model.Function:
		return c.Params
	case *model.Assignment:
		if f, ok := c.Right.(*model.Function); ok {
			return f.Params
		}
	}
	return nil
}

func explicitParams(tags []model.Tag) []model.Param {
	var params []model.Param
	for _, t := range tags {
		if t.Kind == model.TagParam {
			params = append(params, model.Param{Type: t.Type, Name: t.Name, Doc: t.Doc})
		}
	}
	return params
}

func firstSet(values ...*string) *string {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}
