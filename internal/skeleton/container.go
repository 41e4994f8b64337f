/* internal/skeleton/container.go */

package skeleton

import "github.com/loomctr/loomctr/internal/dom"

// listContainerTags identifies elements whose own children (not the
// element itself) are the repeating unit of an array axis.
var listContainerTags = map[string]bool{
	"ul": true, "ol": true, "dl": true, "table": true,
	"tbody": true, "thead": true, "tfoot": true,
	"select": true, "datalist": true,
}

// IsListContainer reports whether tag is a list-like container whose
// children (not itself) repeat.
func IsListContainer(tag string) bool {
	return listContainerTags[tag]
}

// UnwrapContainerTree reports whether body is exactly one list-container
// element, returning that element and its children (the repeating unit
// candidates) when so.
func UnwrapContainerTree(body []dom.Node) (container dom.Node, unit []dom.Node, ok bool) {
	if len(body) != 1 || body[0].Kind != dom.KindElement || !IsListContainer(body[0].Tag) {
		return dom.Node{}, nil, false
	}
	return body[0], body[0].Children, true
}
