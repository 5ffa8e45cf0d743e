package merger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phobologic/apiguide/internal/model"
)

func tag(kind model.TagName) model.Tag {
	return model.Tag{Kind: kind}
}

func named(kind model.TagName, name string) model.Tag {
	return model.Tag{Kind: kind, Name: model.Str(name)}
}

func withDoc(t model.Tag, doc string) model.Tag {
	t.Doc = model.Str(doc)
	return t
}

func TestBuildDocMapKeepsOrder(t *testing.T) {
	t.Parallel()

	tags := []model.Tag{
		named(model.TagParam, "a"),
		tag(model.TagPrivate),
		named(model.TagParam, "b"),
	}
	m := BuildDocMap(tags)

	require.Len(t, m[model.TagParam], 2)
	assert.Equal(t, "a", *m[model.TagParam][0].Name)
	assert.Equal(t, "b", *m[model.TagParam][1].Name)
	assert.True(t, m.Has(model.TagPrivate))
	assert.False(t, m.Has(model.TagClass))
	assert.Nil(t, m.First(model.TagClass))
}

func TestDetectDocType(t *testing.T) {
	t.Parallel()

	fn := &model.Function{Name: "foo"}
	ctor := &model.Function{Name: "Foo"}
	assignFn := &model.Assignment{Left: []string{"a", "b"}, Right: &model.Function{}}
	assignClass := &model.Assignment{Left: []string{"Ext", "Panel"}, Right: &model.Literal{Class: "Object"}}
	assignLit := &model.Assignment{Left: []string{"x"}, Right: &model.Literal{Class: "String"}}

	tests := []struct {
		name string
		tags []model.Tag
		code model.Code
		want model.TagName
	}{
		{"class tag beats code", []model.Tag{tag(model.TagClass)}, fn, model.TagClass},
		{"class tag beats event", []model.Tag{tag(model.TagEvent), tag(model.TagClass)}, nil, model.TagClass},
		{"event", []model.Tag{tag(model.TagEvent)}, ctor, model.TagEvent},
		{"method beats property", []model.Tag{tag(model.TagProperty), tag(model.TagMethod)}, nil, model.TagMethod},
		{"property tag beats capitalized code", []model.Tag{tag(model.TagProperty)}, ctor, model.TagProperty},
		{"ext extend", nil, &model.ExtExtend{Extend: []string{"Base"}}, model.TagClass},
		{"capitalized assignment", nil, assignClass, model.TagClass},
		{"capitalized function", nil, ctor, model.TagClass},
		{"capitalized function beats cfg", []model.Tag{tag(model.TagCfg)}, ctor, model.TagClass},
		{"cfg beats function", []model.Tag{tag(model.TagCfg)}, fn, model.TagCfg},
		{"bare function", nil, fn, model.TagMethod},
		{"function assignment", nil, assignFn, model.TagMethod},
		{"literal assignment", nil, assignLit, model.TagProperty},
		{"no code", nil, nil, model.TagProperty},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, DetectDocType(BuildDocMap(tt.tags), tt.code))
		})
	}
}

func TestExplicitClassTagAlwaysWins(t *testing.T) {
	t.Parallel()

	codes := []model.Code{
		nil,
		&model.Function{Name: "foo"},
		&model.Assignment{Left: []string{"foo"}, Right: &model.Function{}},
		&model.Assignment{Left: []string{"x"}, Right: &model.Literal{Class: "Number"}},
		&model.ExtExtend{},
	}
	for _, code := range codes {
		m := BuildDocMap([]model.Tag{tag(model.TagCfg), tag(model.TagClass)})
		assert.Equal(t, model.TagClass, DetectDocType(m, code))
	}
}

func TestGroupClassDocs(t *testing.T) {
	t.Parallel()

	class := named(model.TagClass, "Foo")
	cfg1 := named(model.TagCfg, "a")
	private := tag(model.TagPrivate)
	cfg2 := named(model.TagCfg, "b")
	methodLike := withDoc(tag(model.TagDefault), "method-like")
	ctor := tag(model.TagConstructor)
	extra := withDoc(tag(model.TagDefault), "extra")

	g := GroupClassDocs([]model.Tag{class, cfg1, private, cfg2, methodLike, ctor, extra})

	assert.Equal(t, []model.Tag{class}, g.Class)
	assert.Equal(t, [][]model.Tag{{cfg1, private}, {cfg2, methodLike}}, g.Cfg)
	assert.Equal(t, []model.Tag{ctor, extra}, g.Constructor)
}

func TestGroupClassDocsEmptyGroups(t *testing.T) {
	t.Parallel()

	class := named(model.TagClass, "Foo")
	g := GroupClassDocs([]model.Tag{class})
	assert.Equal(t, []model.Tag{class}, g.Class)
	assert.Empty(t, g.Cfg)
	assert.Empty(t, g.Constructor)
}

func TestGroupClassDocsCfgAfterConstructor(t *testing.T) {
	t.Parallel()

	ctor := tag(model.TagConstructor)
	param := named(model.TagParam, "x")
	cfg := named(model.TagCfg, "late")

	g := GroupClassDocs([]model.Tag{ctor, param, cfg})
	assert.Empty(t, g.Class)
	assert.Equal(t, []model.Tag{ctor, param}, g.Constructor)
	assert.Equal(t, [][]model.Tag{{cfg}}, g.Cfg)
}

func TestMergeParams(t *testing.T) {
	t.Parallel()

	implicit := []model.Param{{Type: model.Str("String"), Name: model.Str("a")}}
	explicit := []model.Param{{Name: model.Str("a"), Doc: model.Str("the value")}}

	got := MergeParams(implicit, explicit)
	require.Len(t, got, 1)
	assert.Equal(t, "String", *got[0].Type)
	assert.Equal(t, "a", *got[0].Name)
	assert.Equal(t, "the value", *got[0].Doc)
}

func TestMergeParamsUnevenLengths(t *testing.T) {
	t.Parallel()

	implicit := []model.Param{{Name: model.Str("x")}, {Name: model.Str("y")}}
	explicit := []model.Param{{Type: model.Str("Number"), Name: model.Str("renamed")}}

	got := MergeParams(implicit, explicit)
	require.Len(t, got, 2)
	assert.Equal(t, "renamed", *got[0].Name)
	assert.Equal(t, "Number", *got[0].Type)
	assert.Equal(t, "y", *got[1].Name)
	assert.Nil(t, got[1].Type)
	assert.Nil(t, got[1].Doc)

	got = MergeParams(nil, explicit)
	require.Len(t, got, 1)
	assert.Equal(t, "renamed", *got[0].Name)

	assert.Empty(t, MergeParams(nil, nil))
}

func TestDetectDocSkipsParamAndReturn(t *testing.T) {
	t.Parallel()

	tags := []model.Tag{
		withDoc(tag(model.TagDefault), "Does things."),
		withDoc(named(model.TagParam, "a"), "param text"),
		tag(model.TagPrivate),
		withDoc(tag(model.TagReturn), "return text"),
		withDoc(tag(model.TagDefault), "More."),
	}
	assert.Equal(t, "Does things. More.", detectDoc(tags))
	assert.Equal(t, "", detectDoc(nil))
}

func TestMergeBareFunction(t *testing.T) {
	t.Parallel()

	code := &model.Function{Name: "foo", Params: []model.Param{{Name: model.Str("a")}, {Name: model.Str("b")}}}
	e := Merge(nil, code)

	assert.Equal(t, model.TagMethod, e.Kind)
	require.NotNil(t, e.Name)
	assert.Equal(t, "foo", *e.Name)
	assert.Equal(t, "", e.Doc)
	assert.Equal(t, code.Params, e.Params)
	assert.Nil(t, e.Return)
	assert.False(t, e.Private)
}

func TestMergeClassFromAssignment(t *testing.T) {
	t.Parallel()

	tags := []model.Tag{{Kind: model.TagExtends, Extends: model.Str("Base")}}
	code := &model.Assignment{Left: []string{"MyClass"}, Right: &model.Function{}}
	e := Merge(tags, code)

	assert.Equal(t, model.TagClass, e.Kind)
	assert.Equal(t, "MyClass", *e.Name)
	require.NotNil(t, e.Extends)
	assert.Equal(t, "Base", *e.Extends)
	assert.NotNil(t, e.Property)
	assert.NotNil(t, e.Method)
	assert.NotNil(t, e.Event)
	assert.Empty(t, e.Cfg)
}

func TestMergeClassFullNameAndExtExtend(t *testing.T) {
	t.Parallel()

	code := &model.Assignment{
		Left:  []string{"Ext", "form", "Field"},
		Right: &model.ExtExtend{Extend: []string{"Ext", "Component"}},
	}
	e := Merge(nil, code)

	assert.Equal(t, model.TagClass, e.Kind)
	assert.Equal(t, "Ext.form.Field", *e.Name)
	assert.Equal(t, "Ext.Component", *e.Extends)
}

func TestMergeClassWithCfgsAndConstructor(t *testing.T) {
	t.Parallel()

	tags := []model.Tag{
		withDoc(named(model.TagClass, "Foo"), "A foo."),
		tag(model.TagSingleton),
		withDoc(model.Tag{Kind: model.TagCfg, Name: model.Str("width"), Type: model.Str("Number")}, "The width."),
		tag(model.TagPrivate),
		model.Tag{Kind: model.TagCfg, Name: model.Str("title")},
		withDoc(tag(model.TagConstructor), "Creates a foo."),
		withDoc(model.Tag{Kind: model.TagParam, Name: model.Str("config"), Type: model.Str("Object")}, "options"),
	}
	e := Merge(tags, nil)

	assert.Equal(t, "Foo", *e.Name)
	assert.Equal(t, "A foo.", e.Doc)
	assert.True(t, e.Singleton)
	assert.False(t, e.Private)

	require.Len(t, e.Cfg, 2)
	assert.Equal(t, "width", *e.Cfg[0].Name)
	assert.Equal(t, "Number", *e.Cfg[0].Type)
	assert.Equal(t, "The width.", e.Cfg[0].Doc)
	assert.True(t, e.Cfg[0].Private)
	assert.Equal(t, "title", *e.Cfg[1].Name)
	assert.Nil(t, e.Cfg[1].Type)
	assert.False(t, e.Cfg[1].Private)

	require.NotNil(t, e.Constructor)
	assert.Equal(t, model.TagMethod, e.Constructor.Kind)
	assert.Equal(t, "constructor", *e.Constructor.Name)
	assert.Equal(t, "Creates a foo.", e.Constructor.Doc)
	require.Len(t, e.Constructor.Params, 1)
	assert.Equal(t, "config", *e.Constructor.Params[0].Name)
}

func TestMergeClassEmptyConstructor(t *testing.T) {
	t.Parallel()

	e := Merge([]model.Tag{named(model.TagClass, "Foo")}, nil)
	require.NotNil(t, e.Constructor)
	assert.Nil(t, e.Constructor.Name)
	assert.Equal(t, "", e.Constructor.Doc)
	assert.Empty(t, e.Constructor.Params)
}

func TestMergeCfgAndPropertyTypes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		tags []model.Tag
		code model.Code
		kind model.TagName
		want *string
	}{
		{
			name: "explicit cfg type",
			tags: []model.Tag{{Kind: model.TagCfg, Name: model.Str("a"), Type: model.Str("String")}},
			kind: model.TagCfg,
			want: model.Str("String"),
		},
		{
			name: "type tag fallback",
			tags: []model.Tag{named(model.TagCfg, "a"), {Kind: model.TagType, Type: model.Str("Boolean")}},
			kind: model.TagCfg,
			want: model.Str("Boolean"),
		},
		{
			name: "literal assignment",
			code: &model.Assignment{Left: []string{"x"}, Right: &model.Literal{Class: "Number"}},
			kind: model.TagProperty,
			want: model.Str("Number"),
		},
		{
			name: "function code",
			tags: []model.Tag{named(model.TagCfg, "handler")},
			code: &model.Function{Name: "handler"},
			kind: model.TagCfg,
			want: model.Str(model.FunctionType),
		},
		{
			name: "nothing known",
			kind: model.TagProperty,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			e := Merge(tt.tags, tt.code)
			assert.Equal(t, tt.kind, e.Kind)
			assert.Equal(t, tt.want, e.Type)
		})
	}
}

func TestMergePropertyNames(t *testing.T) {
	t.Parallel()

	e := Merge([]model.Tag{named(model.TagProperty, "size")}, nil)
	assert.Equal(t, "size", *e.Name)

	e = Merge(nil, &model.Assignment{Left: []string{"Foo", "prototype", "size"}, Right: &model.Literal{Class: "Number"}})
	assert.Equal(t, "size", *e.Name)

	e = Merge(nil, nil)
	assert.Nil(t, e.Name)
}

func TestMergeMethodAssignment(t *testing.T) {
	t.Parallel()

	code := &model.Assignment{
		Left:  []string{"Foo", "prototype", "bar"},
		Right: &model.Function{Params: []model.Param{{Name: model.Str("x")}}},
	}
	ret := model.Tag{Kind: model.TagReturn, Type: model.Str("Boolean"), Doc: model.Str("true on success")}
	tags := []model.Tag{
		withDoc(tag(model.TagDefault), "Does bar."),
		{Kind: model.TagParam, Type: model.Str("Number"), Doc: model.Str("amount")},
		ret,
		tag(model.TagPrivate),
		named(model.TagMember, "Other"),
	}
	e := Merge(tags, code)

	assert.Equal(t, model.TagMethod, e.Kind)
	assert.Equal(t, "bar", *e.Name)
	assert.Equal(t, "Does bar.", e.Doc)
	require.Len(t, e.Params, 1)
	assert.Equal(t, "x", *e.Params[0].Name)
	assert.Equal(t, "Number", *e.Params[0].Type)
	assert.Equal(t, "amount", *e.Params[0].Doc)
	require.NotNil(t, e.Return)
	assert.Equal(t, ret, *e.Return)
	assert.True(t, e.Private)
	assert.Equal(t, "Other", *e.Member)
}

func TestMergeEvent(t *testing.T) {
	t.Parallel()

	tags := []model.Tag{
		withDoc(named(model.TagEvent, "click"), "Fires on click."),
		named(model.TagParam, "button"),
	}
	e := Merge(tags, nil)

	assert.Equal(t, model.TagEvent, e.Kind)
	assert.Equal(t, "click", *e.Name)
	assert.Equal(t, "Fires on click.", e.Doc)
	require.Len(t, e.Params, 1)
	assert.Equal(t, "button", *e.Params[0].Name)
	assert.Nil(t, e.Return)
}
