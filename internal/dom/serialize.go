/* internal/dom/serialize.go */

package dom

import "strings"

// Serialize renders a node forest back to HTML, byte-identical to the
// parsed source for any span the caller hasn't mutated.
func Serialize(nodes []Node) string {
	var b strings.Builder
	for _, n := range nodes {
		n.serializeInto(&b)
	}
	return b.String()
}

func (n Node) serializeInto(b *strings.Builder) {
	switch n.Kind {
	case KindText:
		b.WriteString(n.Data)
	case KindComment:
		b.WriteString("<!--")
		b.WriteString(n.Data)
		b.WriteString("-->")
	case KindRaw:
		b.WriteByte('<')
		b.WriteString(n.Tag)
		b.WriteString(n.Attrs)
		b.WriteByte('>')
		b.WriteString(n.Data)
		b.WriteString("</")
		b.WriteString(n.Tag)
		b.WriteByte('>')
	case KindElement:
		b.WriteByte('<')
		b.WriteString(n.Tag)
		b.WriteString(n.Attrs)
		if n.SelfClosing {
			if IsVoid(n.Tag) {
				b.WriteByte('>')
			} else {
				b.WriteString("/>")
			}
			return
		}
		b.WriteByte('>')
		for _, c := range n.Children {
			c.serializeInto(b)
		}
		b.WriteString("</")
		b.WriteString(n.Tag)
		b.WriteByte('>')
	}
}
