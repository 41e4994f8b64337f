/* internal/dom/node.go */

// Package dom implements a permissive HTML tokenizer, tree builder, and
// lossless serializer for the well-formed output of the variant renderer.
// It preserves attribute text verbatim so that serialization of any span
// outside a directive block is byte-identical to the source.
package dom

// Kind distinguishes the four node shapes produced by the parser.
type Kind int

const (
	KindText Kind = iota
	KindComment
	KindElement
	KindRaw // <script>/<style> body, carried opaquely
)

// Node is a single tree element. Text/Comment/Raw nodes use Data; Element
// nodes use Tag, Attrs and Children. The tree is strictly a forest: no
// parent backlinks, so every algorithm that needs ancestry walks down by
// recursion instead of up by pointer.
type Node struct {
	Kind        Kind
	Data        string // text/comment/raw content
	Tag         string
	Attrs       string // verbatim attribute text, leading space included when non-empty
	Children    []Node
	SelfClosing bool
}

// rawTextTags never have their contents tokenized as markup.
var rawTextTags = map[string]bool{
	"script":   true,
	"style":    true,
	"textarea": true,
	"title":    true,
}

// voidTags never have a closing tag and never own children.
var voidTags = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

func IsVoid(tag string) bool { return voidTags[tag] }

// Text builds a standalone text node.
func Text(s string) Node { return Node{Kind: KindText, Data: s} }

// Fingerprint produces a structural equality key: tag, verbatim attrs and
// the recursive fingerprint of children, joined so that two nodes compare
// structurally identical iff their fingerprints are equal. It is not meant
// to be collision-free against adversarial input, only fast and stable for
// the diff's LCS matching.
func (n Node) Fingerprint() string {
	var b []byte
	n.appendFingerprint(&b)
	return string(b)
}

func (n Node) appendFingerprint(b *[]byte) {
	switch n.Kind {
	case KindText:
		*b = append(*b, 'T', '(')
		*b = append(*b, n.Data...)
		*b = append(*b, ')')
	case KindComment:
		*b = append(*b, 'C', '(')
		*b = append(*b, n.Data...)
		*b = append(*b, ')')
	case KindRaw:
		*b = append(*b, 'R', '(', '<')
		*b = append(*b, n.Tag...)
		*b = append(*b, '>')
		*b = append(*b, n.Data...)
		*b = append(*b, ')')
	case KindElement:
		*b = append(*b, 'E', '<')
		*b = append(*b, n.Tag...)
		*b = append(*b, n.Attrs...)
		*b = append(*b, '>')
		for _, c := range n.Children {
			c.appendFingerprint(b)
		}
		*b = append(*b, '<', '/', '>')
	}
}

// SameTag reports whether both nodes are elements sharing a tag name —
// the heuristic the diff uses to distinguish "Modified" from "OnlyLeft/Right".
func SameTag(a, b Node) bool {
	return a.Kind == KindElement && b.Kind == KindElement && a.Tag == b.Tag
}
