// Package aggregate collects merged entities into classes.
package aggregate

import "github.com/phobologic/apiguide/internal/model"

// Aggregator places entities into their owning classes. Entities must be
// added in source order: a member without @member belongs to the class most
// recently added before it.
type Aggregator struct {
	classes []*model.Entity
	byName  map[string]*model.Entity
	current *model.Entity
	pending map[string][]*model.Entity
	order   []string // owners of pending members, first-seen order
	globals []*model.Entity
}

// New creates an empty Aggregator.
func New() *Aggregator {
	return &Aggregator{
		byName:  make(map[string]*model.Entity),
		pending: make(map[string][]*model.Entity),
	}
}

// Add places one entity.
func (a *Aggregator) Add(e *model.Entity) {
	if e.Kind == model.TagClass {
		a.addClass(e)
		return
	}

	owner := a.ownerOf(e)
	switch {
	case owner == "":
		a.globals = append(a.globals, e)
	case a.byName[owner] != nil:
		addMember(a.byName[owner], e)
	default:
		if _, seen := a.pending[owner]; !seen {
			a.order = append(a.order, owner)
		}
		a.pending[owner] = append(a.pending[owner], e)
	}
}

// StartFile must be called before the entities of each file. Members never
// inherit the current class across files.
func (a *Aggregator) StartFile() {
	a.current = nil
}

// Result returns the classes in first-seen order and the members that belong
// to no declared class. Members whose @member class was never declared stay
// top-level with Owner set to that class name.
func (a *Aggregator) Result() ([]*model.Entity, []*model.Entity) {
	for _, owner := range a.order {
		members, ok := a.pending[owner]
		if !ok {
			continue
		}
		for _, m := range members {
			m.Owner = owner
			a.globals = append(a.globals, m)
		}
		delete(a.pending, owner)
	}
	return a.classes, a.globals
}

func (a *Aggregator) ownerOf(e *model.Entity) string {
	if e.Member != nil && *e.Member != "" {
		return *e.Member
	}
	if a.current != nil {
		return model.Deref(a.current.Name)
	}
	return ""
}

func (a *Aggregator) addClass(e *model.Entity) {
	name := model.Deref(e.Name)
	cls := a.byName[name]
	if cls == nil || name == "" {
		cls = e
		cfgs := e.Cfg
		cls.Cfg = nil
		ensureLists(cls)
		a.register(cls)
		for _, c := range cfgs {
			addMember(cls, c)
		}
	} else {
		mergeClass(cls, e)
	}
	a.current = cls

	if members, ok := a.pending[name]; ok {
		for _, m := range members {
			addMember(cls, m)
		}
		delete(a.pending, name)
	}
}

func (a *Aggregator) register(cls *model.Entity) {
	a.classes = append(a.classes, cls)
	if name := model.Deref(cls.Name); name != "" {
		a.byName[name] = cls
	}
}

// mergeClass folds a repeated declaration of a class into the first one.
func mergeClass(dst, src *model.Entity) {
	if dst.Doc == "" {
		dst.Doc = src.Doc
	}
	if dst.Extends == nil {
		dst.Extends = src.Extends
	}
	dst.Singleton = dst.Singleton || src.Singleton
	dst.Private = dst.Private || src.Private
	if isEmptyConstructor(dst.Constructor) {
		dst.Constructor = src.Constructor
	}
	for _, c := range src.Cfg {
		addMember(dst, c)
	}
	for _, lists := range [][]*model.Entity{src.Property, src.Method, src.Event} {
		for _, m := range lists {
			addMember(dst, m)
		}
	}
}

func addMember(cls, m *model.Entity) {
	m.Owner = model.Deref(cls.Name)
	if m.File == "" {
		m.File, m.Line = cls.File, cls.Line
	}
	switch m.Kind {
	case model.TagCfg:
		cls.Cfg = append(cls.Cfg, m)
	case model.TagMethod:
		cls.Method = append(cls.Method, m)
	case model.TagEvent:
		cls.Event = append(cls.Event, m)
	default:
		cls.Property = append(cls.Property, m)
	}
}

func ensureLists(cls *model.Entity) {
	if cls.Cfg == nil {
		cls.Cfg = []*model.Entity{}
	}
	if cls.Property == nil {
		cls.Property = []*model.Entity{}
	}
	if cls.Method == nil {
		cls.Method = []*model.Entity{}
	}
	if cls.Event == nil {
		cls.Event = []*model.Entity{}
	}
}

func isEmptyConstructor(c *model.Entity) bool {
	return c == nil || (c.Name == nil && c.Doc == "" && len(c.Params) == 0)
}
