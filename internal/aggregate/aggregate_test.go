package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phobologic/apiguide/internal/model"
)

func class(name string) *model.Entity {
	return &model.Entity{Kind: model.TagClass, Name: model.Str(name), File: name + ".js", Line: 1}
}

func member(kind model.TagName, name string, owner string) *model.Entity {
	e := &model.Entity{Kind: kind, Name: model.Str(name)}
	if owner != "" {
		e.Member = model.Str(owner)
	}
	return e
}

func names(es []*model.Entity) []string {
	out := make([]string, len(es))
	for i, e := range es {
		out[i] = model.Deref(e.Name)
	}
	return out
}

func TestMembersGoToCurrentClass(t *testing.T) {
	t.Parallel()

	a := New()
	a.StartFile()
	a.Add(class("Foo"))
	a.Add(member(model.TagMethod, "run", ""))
	a.Add(member(model.TagCfg, "width", ""))
	a.Add(class("Bar"))
	a.Add(member(model.TagEvent, "click", ""))
	a.Add(member(model.TagProperty, "size", ""))

	classes, globals := a.Result()
	require.Len(t, classes, 2)
	assert.Empty(t, globals)

	foo, bar := classes[0], classes[1]
	assert.Equal(t, []string{"run"}, names(foo.Method))
	assert.Equal(t, []string{"width"}, names(foo.Cfg))
	assert.Equal(t, []string{"click"}, names(bar.Event))
	assert.Equal(t, []string{"size"}, names(bar.Property))
	assert.Equal(t, "Foo", foo.Method[0].Owner)
	assert.Equal(t, "Foo.js", foo.Method[0].File)
}

func TestMemberTagDefinesOwner(t *testing.T) {
	t.Parallel()

	a := New()
	a.StartFile()
	a.Add(member(model.TagCfg, "foo", "Bar"))

	classes, globals := a.Result()
	assert.Empty(t, classes, "an undeclared @member class must not become a class")
	require.Len(t, globals, 1)
	assert.Equal(t, "foo", model.Deref(globals[0].Name))
	assert.Equal(t, "Bar", globals[0].Owner)
}

func TestMemberTagForcesMove(t *testing.T) {
	t.Parallel()

	a := New()
	a.StartFile()
	a.Add(class("Bar"))
	a.Add(class("Baz"))
	a.Add(member(model.TagCfg, "foo", "Bar"))

	classes, _ := a.Result()
	require.Len(t, classes, 2)
	assert.Len(t, classes[0].Cfg, 1)
	assert.Len(t, classes[1].Cfg, 0)
}

func TestMemberBeforeClass(t *testing.T) {
	t.Parallel()

	a := New()
	a.StartFile()
	a.Add(member(model.TagCfg, "foo", "Bar"))
	a.Add(class("Bar"))

	classes, _ := a.Result()
	require.Len(t, classes, 1)
	assert.Len(t, classes[0].Cfg, 1)
	assert.Equal(t, "Bar.js", classes[0].Cfg[0].File)
}

func TestClassCfgsBecomeMembers(t *testing.T) {
	t.Parallel()

	cls := class("Foo")
	cls.Cfg = []*model.Entity{member(model.TagCfg, "a", ""), member(model.TagCfg, "b", "")}

	a := New()
	a.StartFile()
	a.Add(cls)
	a.Add(member(model.TagCfg, "c", ""))

	classes, _ := a.Result()
	require.Len(t, classes, 1)
	assert.Equal(t, []string{"a", "b", "c"}, names(classes[0].Cfg))
	assert.Equal(t, "Foo", classes[0].Cfg[0].Owner)
}

func TestClassesMergeAcrossFiles(t *testing.T) {
	t.Parallel()

	first := class("Foo")
	second := class("Foo")
	second.Doc = "Documented later."
	second.Extends = model.Str("Base")

	a := New()
	a.StartFile()
	a.Add(first)
	a.Add(member(model.TagMethod, "one", ""))
	a.StartFile()
	a.Add(second)
	a.Add(member(model.TagMethod, "two", ""))

	classes, _ := a.Result()
	require.Len(t, classes, 1)
	foo := classes[0]
	assert.Equal(t, "Documented later.", foo.Doc)
	assert.Equal(t, "Base", model.Deref(foo.Extends))
	assert.Equal(t, []string{"one", "two"}, names(foo.Method))
}

func TestGlobalsWithoutClass(t *testing.T) {
	t.Parallel()

	a := New()
	a.StartFile()
	a.Add(member(model.TagMethod, "helper", ""))
	a.Add(class("Foo"))
	a.StartFile()
	a.Add(member(model.TagProperty, "VERSION", ""))

	classes, globals := a.Result()
	require.Len(t, classes, 1)
	assert.Empty(t, classes[0].Method)
	assert.Equal(t, []string{"helper", "VERSION"}, names(globals))
}
