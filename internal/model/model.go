// Package model defines core data structures for apiguide.
package model

// TagName identifies the kind of a doc-comment tag.
type TagName string

const (
	TagDefault     TagName = "default"
	TagClass       TagName = "class"
	TagCfg         TagName = "cfg"
	TagConstructor TagName = "constructor"
	TagMethod      TagName = "method"
	TagEvent       TagName = "event"
	TagProperty    TagName = "property"
	TagParam       TagName = "param"
	TagReturn      TagName = "return"
	TagExtends     TagName = "extends"
	TagType        TagName = "type"
	TagMember      TagName = "member"
	TagPrivate     TagName = "private"
	TagSingleton   TagName = "singleton"
)

// FunctionType is the type given to cfgs and properties whose code is a function.
const FunctionType = "function"

// Tag is one parsed @tag of a doc comment. Nil fields were not given.
type Tag struct {
	Kind    TagName
	Name    *string
	Type    *string
	Doc     *string
	Extends *string
}

// Param is one function parameter, either inferred from code or documented
// with @param.
type Param struct {
	Type *string
	Name *string
	Doc  *string
}

// Entity is the normalized record for one documented API element.
// Which fields are meaningful depends on Kind.
type Entity struct {
	Kind    TagName
	Name    *string
	Doc     string
	Private bool

	// class
	Extends     *string
	Singleton   bool
	Cfg         []*Entity
	Constructor *Entity
	Property    []*Entity
	Method      []*Entity
	Event       []*Entity

	// method, event
	Params []Param
	Return *Tag

	// cfg, property
	Type *string

	// Member is the class named by @member, if any.
	Member *string
	// Owner is the class a member was placed into by the aggregator.
	Owner string

	File string
	Line int
	Rank float64
}

// Unit is one doc comment together with the code that follows it.
type Unit struct {
	File    string
	Line    int
	Comment string
	Code    Code
}

// Inheritance is an extends edge: Child extends Parent.
type Inheritance struct {
	Child  string
	Parent string
}

// Warning is a problem found while building the API map.
type Warning struct {
	File    string
	Line    int
	Kind    string
	Message string
}

// APIMap is the complete documented API, ready for serialization.
type APIMap struct {
	RepoName    string
	Root        string
	Classes     []*Entity
	Globals     []*Entity
	Inheritance []Inheritance
	Warnings    []Warning
}

// Str returns a pointer to s.
func Str(s string) *string {
	return &s
}

// Deref returns *s, or "" when s is nil.
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
