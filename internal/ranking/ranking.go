// Package ranking implements top-N class selection and name filtering.
package ranking

import (
	"strings"

	"github.com/phobologic/apiguide/internal/model"
)

// SelectClasses returns a new APIMap with only the top-ranked classes.
// If maxClasses is <= 0 or >= len(classes), the map is returned unchanged.
func SelectClasses(m *model.APIMap, maxClasses int) *model.APIMap {
	if maxClasses <= 0 || maxClasses >= len(m.Classes) {
		return m
	}
	return subset(m, m.Classes[:maxClasses])
}

// FilterByName returns a new APIMap containing only classes whose name
// contains substr (case-insensitive), plus their direct parents and
// children, and the extends edges that touch a matched class.
func FilterByName(m *model.APIMap, substr string) *model.APIMap {
	lower := strings.ToLower(substr)

	matched := make(map[string]struct{})
	for _, c := range m.Classes {
		if strings.Contains(strings.ToLower(model.Deref(c.Name)), lower) {
			matched[model.Deref(c.Name)] = struct{}{}
		}
	}

	// Direct parents and children of matched classes.
	related := make(map[string]struct{})
	for _, e := range m.Inheritance {
		if _, ok := matched[e.Child]; ok {
			related[e.Parent] = struct{}{}
		}
		if _, ok := matched[e.Parent]; ok {
			related[e.Child] = struct{}{}
		}
	}

	var classes []*model.Entity
	for _, c := range m.Classes {
		name := model.Deref(c.Name)
		_, isMatched := matched[name]
		_, isRelated := related[name]
		if isMatched || isRelated {
			classes = append(classes, c)
		}
	}

	out := subset(m, classes)

	var edges []model.Inheritance
	for _, e := range m.Inheritance {
		_, childOK := matched[e.Child]
		_, parentOK := matched[e.Parent]
		if childOK || parentOK {
			edges = append(edges, e)
		}
	}
	out.Inheritance = edges
	out.Globals = nil
	return out
}

// subset keeps the given classes, the edges whose child is kept and whose
// parent is kept or undocumented, and the warnings of files that still
// contribute something to the map.
func subset(m *model.APIMap, classes []*model.Entity) *model.APIMap {
	kept := make(map[string]struct{}, len(classes))
	for _, c := range classes {
		kept[model.Deref(c.Name)] = struct{}{}
	}
	documented := make(map[string]struct{}, len(m.Classes))
	for _, c := range m.Classes {
		documented[model.Deref(c.Name)] = struct{}{}
	}

	var edges []model.Inheritance
	for _, e := range m.Inheritance {
		if _, ok := kept[e.Child]; !ok {
			continue
		}
		_, parentKept := kept[e.Parent]
		_, parentDocumented := documented[e.Parent]
		if parentKept || !parentDocumented {
			edges = append(edges, e)
		}
	}

	keptFiles := make(map[string]struct{})
	classFiles := make(map[string]struct{})
	for _, c := range m.Classes {
		_, isKept := kept[model.Deref(c.Name)]
		for _, f := range entityFiles(c) {
			classFiles[f] = struct{}{}
			if isKept {
				keptFiles[f] = struct{}{}
			}
		}
	}

	var warnings []model.Warning
	for _, w := range m.Warnings {
		_, inKept := keptFiles[w.File]
		_, inClass := classFiles[w.File]
		if inKept || !inClass {
			warnings = append(warnings, w)
		}
	}

	return &model.APIMap{
		RepoName:    m.RepoName,
		Root:        m.Root,
		Classes:     classes,
		Globals:     m.Globals,
		Inheritance: edges,
		Warnings:    warnings,
	}
}

func entityFiles(c *model.Entity) []string {
	files := []string{c.File}
	for _, list := range [][]*model.Entity{c.Cfg, c.Property, c.Method, c.Event} {
		for _, m := range list {
			files = append(files, m.File)
		}
	}
	return files
}
