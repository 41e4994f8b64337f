/* injector/helpers.go */

package injector

import (
	"encoding/json"
	"strconv"
	"strings"
)

// htmlBooleanAttrs lists the attributes HTML treats as present/absent
// rather than valued; the injector renders these as `name=""` when
// truthy and omits them entirely when falsy.
var htmlBooleanAttrs = map[string]bool{
	"checked": true, "disabled": true, "selected": true, "readonly": true,
	"required": true, "autofocus": true, "multiple": true, "hidden": true,
	"open": true, "autoplay": true, "controls": true, "loop": true,
	"muted": true, "default": true, "novalidate": true, "formnovalidate": true,
	"ismap": true, "itemscope": true, "reversed": true, "async": true,
	"defer": true, "nomodule": true,
}

// IsHTMLBooleanAttr reports whether name is one of the HTML5 boolean
// attributes.
func IsHTMLBooleanAttr(name string) bool {
	return htmlBooleanAttrs[strings.ToLower(name)]
}

// missing is the sentinel resolve returns for a path with no matching key
// anywhere along its traversal.
type missing struct{}

// resolve traverses dotted keys in a JSON-decoded value. `$` and `$$`
// are resolved against the each-scope stack rather than the dotted-key
// walk; callers supply the already-substituted root for those segments.
func resolve(data any, path string) any {
	if path == "" {
		return data
	}
	segments := strings.Split(path, ".")
	cur := data
	for _, seg := range segments {
		m, ok := cur.(map[string]any)
		if !ok {
			return missing{}
		}
		v, ok := m[seg]
		if !ok {
			return missing{}
		}
		cur = v
	}
	return cur
}

// isTruthy implements the conditional truthiness rule: empty string,
// empty array, null, false, and numeric zero are falsy; everything else
// (including non-empty objects) is truthy.
func isTruthy(v any) bool {
	switch t := v.(type) {
	case missing, nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case float64:
		return t != 0
	case []any:
		return len(t) > 0
	case map[string]any:
		return true
	default:
		return true
	}
}

// stringify renders a resolved value for a text/attr/style slot: strings
// pass through, null/missing render empty, everything else is JSON
// serialized.
func stringify(v any) string {
	switch t := v.(type) {
	case missing, nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		if t {
			return "true"
		}
		return "false"
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

// escapeHTML escapes the five reserved characters for text-slot content.
func escapeHTML(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case '&':
			b.WriteString("&amp;")
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		case '"':
			b.WriteString("&quot;")
		case '\'':
			b.WriteString("&#39;")
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// escapeAttr escapes a value for placement inside a double-quoted
// attribute value.
func escapeAttr(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case '&':
			b.WriteString("&amp;")
		case '"':
			b.WriteString("&quot;")
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
