/* internal/skeleton/sentinel.go */

package skeleton

import (
	"fmt"
	"regexp"
	"strings"
)

var sentinelPattern = regexp.MustCompile(`%%SEAM:([A-Za-z0-9_.$]+)%%`)

// attrPattern captures a single `name="...value..."` or `name='...'` pair,
// keeping track of exact byte spans so the rewriter can splice precisely.
var attrPattern = regexp.MustCompile(`([A-Za-z_:][-A-Za-z0-9_:.]*)\s*=\s*("([^"]*)"|'([^']*)')`)

// RewriteSentinels converts a variant's `%%SEAM:path%%` marks into
// directive comments, honoring HTML context: sentinels in attribute
// value position become `:attr:name` or `:style:prop` comments placed
// immediately before the owning start tag (with the attribute stripped
// from the tag); sentinels in text position become plain text slots.
//
// A sentinel that shares an attribute value with literal characters
// (`href="prefix-%%SEAM:x%%-suffix"`) is resolved by treating the whole
// attribute value as one slot for the sentinel's path — the literal
// prefix/suffix are dropped from the template and are expected to already
// be present in the data value supplied at render time. This mirrors the
// only mixed-marker case actually exercised upstream: a sentinel filling
// an entire attribute value. A sentinel split across a tag boundary is a
// validation error since there is no directive shape that could express it.
func RewriteSentinels(html string) (string, error) {
	var b strings.Builder
	i := 0
	for i < len(html) {
		ltIdx := strings.IndexByte(html[i:], '<')
		if ltIdx == -1 {
			b.WriteString(rewriteText(html[i:]))
			break
		}
		b.WriteString(rewriteText(html[i : i+ltIdx]))
		i += ltIdx

		gtIdx := strings.IndexByte(html[i:], '>')
		if gtIdx == -1 {
			return "", fmt.Errorf("skeleton: unterminated tag while rewriting sentinels at byte %d", i)
		}
		tag := html[i : i+gtIdx+1]
		if strings.Contains(tag, "%%SEAM:") {
			rewritten, err := rewriteTag(tag)
			if err != nil {
				return "", err
			}
			b.WriteString(rewritten)
		} else {
			b.WriteString(tag)
		}
		i += gtIdx + 1
	}
	return b.String(), nil
}

func rewriteText(s string) string {
	return sentinelPattern.ReplaceAllStringFunc(s, func(m string) string {
		path := sentinelPattern.FindStringSubmatch(m)[1]
		return "<!--seam:" + path + "-->"
	})
}

// rewriteTag handles sentinels found inside a single start tag's markup:
// each matching attribute is stripped and replaced with a leading
// directive comment naming the attribute (or, for `style`, one comment
// per CSS property sentinel found in the value).
func rewriteTag(tag string) (string, error) {
	var prefix strings.Builder
	out := tag
	searchFrom := 0

	for {
		loc := attrPattern.FindStringSubmatchIndex(out[searchFrom:])
		if loc == nil {
			break
		}
		for k := range loc {
			if loc[k] >= 0 {
				loc[k] += searchFrom
			}
		}
		name := out[loc[2]:loc[3]]
		var value string
		if loc[6] != -1 {
			value = out[loc[6]:loc[7]]
		} else if loc[8] != -1 {
			value = out[loc[8]:loc[9]]
		}
		if !strings.Contains(value, "%%SEAM:") {
			searchFrom = loc[1]
			continue
		}

		matches := sentinelPattern.FindAllStringSubmatch(value, -1)
		if matches == nil {
			return "", fmt.Errorf("skeleton: malformed sentinel in attribute %q", name)
		}

		if name == "style" {
			comments, err := rewriteStyleValue(value)
			if err != nil {
				return "", err
			}
			prefix.WriteString(comments)
		} else {
			path := matches[0][1]
			prefix.WriteString("<!--seam:" + path + ":attr:" + name + "-->")
		}

		// Strip the whole attribute (name=value, plus the run of
		// whitespace that preceded it) from the tag markup.
		start := loc[0]
		for start > 0 && (out[start-1] == ' ' || out[start-1] == '\t' || out[start-1] == '\n') {
			start--
		}
		out = out[:start] + out[loc[1]:]
		searchFrom = start
	}

	return prefix.String() + out, nil
}

// rewriteStyleValue splits a `style="prop: %%SEAM:path%%; ..."` value into
// one `:style:prop` comment per sentinel-bearing declaration.
func rewriteStyleValue(value string) (string, error) {
	var b strings.Builder
	for _, decl := range strings.Split(value, ";") {
		decl = strings.TrimSpace(decl)
		if decl == "" {
			continue
		}
		colon := strings.IndexByte(decl, ':')
		if colon == -1 {
			continue
		}
		prop := strings.TrimSpace(decl[:colon])
		val := strings.TrimSpace(decl[colon+1:])
		m := sentinelPattern.FindStringSubmatch(val)
		if m == nil {
			continue
		}
		if val != m[0] {
			return "", fmt.Errorf("skeleton: style declaration %q mixes literal text with a sentinel", decl)
		}
		b.WriteString("<!--seam:" + m[1] + ":style:" + prop + "-->")
	}
	return b.String(), nil
}
