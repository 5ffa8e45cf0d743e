package merger

import "github.com/phobologic/apiguide/internal/model"

// ClassGroups is a class doc comment split into its parts.
type ClassGroups struct {
	Class       []model.Tag
	Cfg         [][]model.Tag
	Constructor []model.Tag
}

// GroupClassDocs splits the tags of a class doc comment.
//
// Tags before the first @cfg or @constructor describe the class itself. Each
// @cfg starts a new group that collects the tags following it, so a config
// can carry its own modifiers such as @private. Tags from @constructor on go
// to the constructor group. A @cfg after @constructor still opens a new cfg
// group; only the tags between them belong to the constructor.
func GroupClassDocs(tags []model.Tag) ClassGroups {
	var g ClassGroups
	current := model.TagClass
	for _, t := range tags {
		if t.Kind == model.TagCfg || t.Kind == model.TagConstructor {
			current = t.Kind
			if t.Kind == model.TagCfg {
				g.Cfg = append(g.Cfg, nil)
			}
		}

		switch current {
		case model.TagCfg:
			g.Cfg[len(g.Cfg)-1] = append(g.Cfg[len(g.Cfg)-1], t)
		case model.TagConstructor:
			g.Constructor = append(g.Constructor, t)
		default:
			g.Class = append(g.Class, t)
		}
	}
	return g
}
