package model

import (
	"strings"
)

const indentUnit = "  "

var (
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	attrEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
)

// Pretty renders e as indented text: one element per line, two spaces per
// level, and leaf elements (no element children) kept on a single line as
// <tag ...>text</tag>. The output has no trailing newline.
func Pretty(e *Element) string {
	var sb strings.Builder
	writePretty(&sb, e, "")
	return sb.String()
}

func writePretty(sb *strings.Builder, e *Element, indent string) {
	if sb.Len() > 0 {
		sb.WriteByte('\n')
	}
	sb.WriteString(indent)
	writeOpenTag(sb, e)
	sb.WriteString(textEscaper.Replace(e.Text))
	if len(e.Children) == 0 {
		writeCloseTag(sb, e)
		return
	}
	for _, c := range e.Children {
		writePretty(sb, c, indent+indentUnit)
	}
	sb.WriteByte('\n')
	sb.WriteString(indent)
	writeCloseTag(sb, e)
}

func writeOpenTag(sb *strings.Builder, e *Element) {
	sb.WriteByte('<')
	sb.WriteString(e.Tag)
	for _, a := range e.Attrs {
		sb.WriteByte(' ')
		sb.WriteString(a.Name)
		sb.WriteString(`="`)
		sb.WriteString(attrEscaper.Replace(a.Value))
		sb.WriteByte('"')
	}
	sb.WriteByte('>')
}

func writeCloseTag(sb *strings.Builder, e *Element) {
	sb.WriteString("</")
	sb.WriteString(e.Tag)
	sb.WriteByte('>')
}
