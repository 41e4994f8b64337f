/* injector/inject.go */

package injector

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Inject parses template, renders it against dataJSON, and splices in the
// runtime data script at the document wrapper's reserved placeholder,
// ASCII-escaped and wrapped in `<script id="{dataID}" type="application/json">`.
// dataID defaults to "__SEAM_DATA__" when empty.
func Inject(template, dataJSON, dataID string) (string, error) {
	html, err := InjectNoScript(template, dataJSON)
	if err != nil {
		return "", err
	}
	return spliceDataScript(html, dataJSON, dataID), nil
}

// InjectNoScript runs the tokenize/parse/render/splice pipeline without
// attaching the runtime data script — callers that build their own script
// payload (e.g. layering in i18n or per-layout data) use this directly.
func InjectNoScript(template, dataJSON string) (string, error) {
	clean := stripNULBytes(template)
	data := parseDataJSON(dataJSON)

	tokens := Tokenize(clean)
	nodes, _ := Parse(tokens)
	return Render(nodes, data)
}

// parseDataJSON decodes dataJSON, falling back to nil (an absent value,
// same as any other missing slot) when the payload can't be parsed —
// render failures shouldn't cascade from a malformed upstream payload.
func parseDataJSON(dataJSON string) any {
	if dataJSON == "" {
		return map[string]any{}
	}
	var data any
	if err := json.Unmarshal([]byte(dataJSON), &data); err != nil {
		return nil
	}
	return data
}

// InjectWithDiagnostics is like InjectNoScript but also returns the parser
// diagnostics (unclosed opens, orphan closers) recorded along the way.
func InjectWithDiagnostics(template, dataJSON string) (string, []Diagnostic, error) {
	clean := stripNULBytes(template)
	data := parseDataJSON(dataJSON)

	tokens := Tokenize(clean)
	nodes, diags := Parse(tokens)
	html, err := Render(nodes, data)
	return html, diags, err
}

// stripNULBytes removes any NUL bytes present in the source template
// before tokenizing, since the splice phase reserves NUL-delimited
// markers and a stray NUL would collide with them.
func stripNULBytes(s string) string {
	if !strings.ContainsRune(s, 0) {
		return s
	}
	return strings.ReplaceAll(s, "\x00", "")
}

func spliceDataScript(html, dataJSON, dataID string) string {
	if dataID == "" {
		dataID = "__SEAM_DATA__"
	}
	escaped := AsciiEscapeJSON(dataJSON)
	script := fmt.Sprintf(`<script id="%s" type="application/json">%s</script>`, dataID, escaped)

	if idx := strings.LastIndex(html, "<!--seam:data-script-->"); idx != -1 {
		return html[:idx] + script + html[idx+len("<!--seam:data-script-->"):]
	}
	if idx := strings.LastIndex(html, "</body>"); idx != -1 {
		return html[:idx] + script + html[idx:]
	}
	return html + script
}
