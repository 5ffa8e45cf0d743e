package merger

import "github.com/phobologic/apiguide/internal/model"

// DocMap indexes the tags of one doc comment by tag kind. Each bucket keeps
// the original tag order.
type DocMap map[model.TagName][]model.Tag

// BuildDocMap groups tags by kind for quick lookup.
func BuildDocMap(tags []model.Tag) DocMap {
	m := make(DocMap)
	for _, t := range tags {
		m[t.Kind] = append(m[t.Kind], t)
	}
	return m
}

// Has reports whether at least one tag of the given kind exists.
func (m DocMap) Has(kind model.TagName) bool {
	return len(m[kind]) > 0
}

// First returns the first tag of the given kind, or nil.
func (m DocMap) First(kind model.TagName) *model.Tag {
	tags := m[kind]
	if len(tags) == 0 {
		return nil
	}
	return &tags[0]
}
