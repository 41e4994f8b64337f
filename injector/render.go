/* injector/render.go */

package injector

import (
	"fmt"
	"strconv"
	"strings"
)

type attrEntry struct {
	name  string
	value any
}

type styleEntry struct {
	prop  string
	value any
}

// renderer carries render-time state: the each-scope stack (current `$`
// and its one level of shadow history, `$$`) and the deferred
// attribute/style splice tables.
type renderer struct {
	root   any
	scope  []any
	attrs  []attrEntry
	styles []styleEntry
}

// Render walks the AST against data, producing HTML with NUL-delimited
// placeholders for deferred attribute/style slots, then splices those
// placeholders into their owning start tags.
func Render(nodes []Node, data any) (string, error) {
	r := &renderer{root: data}
	var b strings.Builder
	r.renderNodes(nodes, &b)
	return spliceAttributes(b.String(), r.attrs, r.styles), nil
}

func (r *renderer) renderNodes(nodes []Node, b *strings.Builder) {
	for _, n := range nodes {
		r.renderNode(n, b)
	}
}

func (r *renderer) renderNode(n Node, b *strings.Builder) {
	switch n.Kind {
	case NText:
		b.WriteString(n.Text)
	case NSlot:
		v := r.resolvePath(n.Path)
		if n.Mode == SlotHTML {
			if v == (any)(missing{}) || v == nil {
				return
			}
			b.WriteString(stringify(v))
		} else {
			b.WriteString(escapeHTML(stringify(v)))
		}
	case NAttr:
		idx := len(r.attrs)
		r.attrs = append(r.attrs, attrEntry{name: n.AttrName, value: r.resolvePath(n.Path)})
		fmt.Fprintf(b, "\x00SEAM_ATTR_%d\x00", idx)
	case NStyleProp:
		idx := len(r.styles)
		r.styles = append(r.styles, styleEntry{prop: n.CSSProp, value: r.resolvePath(n.Path)})
		fmt.Fprintf(b, "\x00SEAM_STYLE_%d\x00", idx)
	case NIf:
		if isTruthy(r.resolvePath(n.Path)) {
			r.renderNodes(n.Then, b)
		} else {
			r.renderNodes(n.Else, b)
		}
	case NEach:
		v := r.resolvePath(n.Path)
		items, _ := v.([]any)
		for _, item := range items {
			r.scope = append(r.scope, item)
			r.renderNodes(n.Body, b)
			r.scope = r.scope[:len(r.scope)-1]
		}
	case NMatch:
		v := r.resolvePath(n.Path)
		want := stringify(v)
		for _, branch := range n.Branches {
			if branch.Value == want {
				r.renderNodes(branch.Body, b)
				return
			}
		}
	}
}

// resolvePath handles `$`/`$$` (each-scope) and `$.`/`$$.`-prefixed paths
// against the scope stack, and everything else as a dotted-key walk from
// the request's root data value.
func (r *renderer) resolvePath(path string) any {
	switch {
	case path == "$":
		return r.scopeTop(0)
	case path == "$$":
		return r.scopeTop(1)
	case strings.HasPrefix(path, "$$."):
		return resolve(r.scopeTop(1), path[len("$$."):])
	case strings.HasPrefix(path, "$."):
		return resolve(r.scopeTop(0), path[len("$."):])
	default:
		return resolve(r.root, path)
	}
}

func (r *renderer) scopeTop(back int) any {
	idx := len(r.scope) - 1 - back
	if idx < 0 {
		return missing{}
	}
	return r.scope[idx]
}

// spliceAttributes walks each NUL-delimited placeholder, locates the
// start of the next tag, and inserts the attribute there. Style entries
// targeting the same tag are merged into a single `style="a:b;c:d"`
// attribute; boolean HTML attributes are omitted when falsy.
func spliceAttributes(html string, attrs []attrEntry, styles []styleEntry) string {
	type placeholder struct {
		start, end int
		isStyle    bool
		idx        int
	}
	var placeholders []placeholder

	i := 0
	for i < len(html) {
		idx := strings.IndexByte(html[i:], 0)
		if idx == -1 {
			break
		}
		start := i + idx
		end := strings.IndexByte(html[start+1:], 0)
		if end == -1 {
			break
		}
		end = start + 1 + end + 1
		tag := html[start+1 : end-1]
		if n, ok := parseMarker(tag, "SEAM_ATTR_"); ok {
			placeholders = append(placeholders, placeholder{start: start, end: end, idx: n})
		} else if n, ok := parseMarker(tag, "SEAM_STYLE_"); ok {
			placeholders = append(placeholders, placeholder{start: start, end: end, isStyle: true, idx: n})
		}
		i = end
	}

	if len(placeholders) == 0 {
		return html
	}

	// Find each placeholder's target insertion point (end of the next
	// tag's name) and group style entries that land on the same tag.
	type group struct {
		insertPos int
		attrText  strings.Builder
		styleProp []string
	}
	groups := make(map[int]*group)
	var order []int

	for _, ph := range placeholders {
		insertPos := findTagNameEnd(html, ph.end)
		if insertPos == -1 {
			continue
		}
		g, ok := groups[insertPos]
		if !ok {
			g = &group{insertPos: insertPos}
			groups[insertPos] = g
			order = append(order, insertPos)
		}
		if ph.isStyle {
			e := styles[ph.idx]
			val := stringify(e.value)
			if _, isNum := e.value.(float64); isNum && val != "0" {
				switch e.prop {
				case "opacity", "z-index", "line-height", "flex", "flex-grow", "flex-shrink", "order", "font-weight", "zoom":
				default:
					val += "px"
				}
			}
			if val != "" {
				g.styleProp = append(g.styleProp, e.prop+":"+val)
			}
		} else {
			e := attrs[ph.idx]
			if IsHTMLBooleanAttr(e.name) {
				if isTruthy(e.value) {
					g.attrText.WriteString(" " + e.name + "=\"\"")
				}
			} else {
				g.attrText.WriteString(" " + e.name + "=\"" + escapeAttr(stringify(e.value)) + "\"")
			}
		}
	}

	var out strings.Builder
	pos := 0
	phIdx := 0
	for pos < len(html) {
		if phIdx < len(placeholders) && pos == placeholders[phIdx].start {
			pos = placeholders[phIdx].end
			phIdx++
			continue
		}
		if g, ok := groups[pos]; ok && len(g.styleProp) > 0 {
			out.WriteString(" style=\"" + strings.Join(g.styleProp, ";") + "\"")
		}
		if g, ok := groups[pos]; ok {
			out.WriteString(g.attrText.String())
		}
		out.WriteByte(html[pos])
		pos++
	}
	_ = order
	return out.String()
}

func parseMarker(s, prefix string) (int, bool) {
	if !strings.HasPrefix(s, prefix) {
		return 0, false
	}
	n, err := strconv.Atoi(s[len(prefix):])
	if err != nil {
		return 0, false
	}
	return n, true
}

// findTagNameEnd scans forward from `from` for the next `<`, then returns
// the offset just past the tag name (stopping at whitespace, `>`, `/`, or
// a newline/tab).
func findTagNameEnd(html string, from int) int {
	lt := strings.IndexByte(html[from:], '<')
	if lt == -1 {
		return -1
	}
	i := from + lt + 1
	for i < len(html) {
		c := html[i]
		if c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '>' || c == '/' {
			return i
		}
		i++
	}
	return -1
}
