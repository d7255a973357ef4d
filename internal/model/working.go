package model

import (
	"strconv"
	"strings"
)

type Attr struct {
	Name  string
	Value string
}

// Element is a node of the target block document. Attribute order is kept
// as set so that rendering is deterministic.
type Element struct {
	Tag      string
	Attrs    []Attr
	Children []*Element
	Text     string
}

// NewElement builds an element from alternating attribute name/value pairs.
func NewElement(tag string, attrs ...string) *Element {
	e := &Element{Tag: tag}
	for i := 0; i+1 < len(attrs); i += 2 {
		e.Set(attrs[i], attrs[i+1])
	}
	return e
}

// Block returns a <block> shell with id and type attributes.
func Block(id int, typ string) *Element {
	e := &Element{Tag: "block"}
	if id > 0 {
		e.Set("id", strconv.Itoa(id))
	}
	e.Set("type", typ)
	return e
}

// Field returns <field name="name">text</field>.
func Field(name, text string) *Element {
	return &Element{Tag: "field", Attrs: []Attr{{Name: "name", Value: name}}, Text: text}
}

// Named wraps child in <tag name="name">.
func Named(tag, name string, child *Element) *Element {
	e := &Element{Tag: tag, Attrs: []Attr{{Name: "name", Value: name}}}
	if child != nil {
		e.Children = append(e.Children, child)
	}
	return e
}

// Set replaces the value of an existing attribute or appends a new one.
func (e *Element) Set(name, value string) *Element {
	for i := range e.Attrs {
		if e.Attrs[i].Name == name {
			e.Attrs[i].Value = value
			return e
		}
	}
	e.Attrs = append(e.Attrs, Attr{Name: name, Value: value})
	return e
}

// Get returns the attribute value and whether it was present.
func (e *Element) Get(name string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// Append adds non-nil children in order.
func (e *Element) Append(children ...*Element) *Element {
	for _, c := range children {
		if c != nil {
			e.Children = append(e.Children, c)
		}
	}
	return e
}

// Child returns the first direct child with tag and, when name is not
// empty, a matching name attribute.
func (e *Element) Child(tag, name string) *Element {
	for _, c := range e.Children {
		if c.Tag != tag {
			continue
		}
		if name == "" {
			return c
		}
		if v, _ := c.Get("name"); v == name {
			return c
		}
	}
	return nil
}

// ChildrenByTag returns all direct children with tag.
func (e *Element) ChildrenByTag(tag string) []*Element {
	var out []*Element
	for _, c := range e.Children {
		if c.Tag == tag {
			out = append(out, c)
		}
	}
	return out
}

// InsertComment places comment after the leading mutation and field
// children, ahead of any value, statement or next child.
func (e *Element) InsertComment(comment *Element) {
	at := 0
	for at < len(e.Children) {
		tag := strings.ToLower(e.Children[at].Tag)
		if tag != "mutation" && tag != "field" {
			break
		}
		at++
	}
	e.Children = append(e.Children, nil)
	copy(e.Children[at+1:], e.Children[at:])
	e.Children[at] = comment
}
