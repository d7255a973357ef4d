package model

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestPretty(t *testing.T) {
	tests := []struct {
		name string
		in   *Element
		want string
	}{
		{
			name: "empty element stays on one line",
			in:   NewElement("xml", "xmlns", "http://www.w3.org/1999/xhtml"),
			want: `<xml xmlns="http://www.w3.org/1999/xhtml"></xml>`,
		},
		{
			name: "nested blocks are indented",
			in: NewElement("xml").Append(
				Block(670, "math_number").Append(Field("NUM", "17")),
				NewElement("yacodeblocks", "ya-version", "75", "language-version", "17"),
			),
			want: `<xml>
  <block id="670" type="math_number">
    <field name="NUM">17</field>
  </block>
  <yacodeblocks ya-version="75" language-version="17"></yacodeblocks>
</xml>`,
		},
		{
			name: "text and attributes are escaped",
			in:   Block(1, "text").Append(Field("TEXT", `a<b & "c"`)).Set("x", `"1"`),
			want: `<block id="1" type="text" x="&quot;1&quot;">
  <field name="TEXT">a&lt;b &amp; "c"</field>
</block>`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Pretty(tt.in)
			require.Equal(t, tt.want, got, cmp.Diff(tt.want, got))
		})
	}
}

func TestInsertComment(t *testing.T) {
	b := Block(5, "component_set_get").Append(
		NewElement("mutation"),
		Field("COMPONENT_SELECTOR", "Button1"),
		Named("value", "VALUE", Block(6, "math_number")),
	)
	b.InsertComment(NewElement("comment", "pinned", "false"))

	tags := make([]string, 0, len(b.Children))
	for _, c := range b.Children {
		tags = append(tags, c.Tag)
	}
	require.Equal(t, []string{"mutation", "field", "comment", "value"}, tags)

	empty := Block(7, "text")
	empty.InsertComment(NewElement("comment"))
	require.Len(t, empty.Children, 1)
	require.Equal(t, "comment", empty.Children[0].Tag)
}

func TestElementSetReplacesInPlace(t *testing.T) {
	e := NewElement("block", "id", "1", "type", "text")
	e.Set("id", "2")
	require.Equal(t, []Attr{{"id", "2"}, {"type", "text"}}, e.Attrs)

	v, ok := e.Get("type")
	require.True(t, ok)
	require.Equal(t, "text", v)
}
