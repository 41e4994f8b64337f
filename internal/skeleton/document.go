/* internal/skeleton/document.go */

package skeleton

import (
	"fmt"
	"strings"
)

// HeadMeta is a recognized metadata directive hoisted into <head> during
// sentinel rewriting (title, meta, link tags bound to page-level data).
type HeadMeta struct {
	Title string
	Tags  []string // verbatim <meta .../> / <link .../> markup
}

// Assets names the CSS/JS bundle entries a page pulls in.
type Assets struct {
	CSS []string
	JS  []string
}

// WrapDocumentOptions configures the document shell.
type WrapDocumentOptions struct {
	Lang    string // default "en"
	RootID  string // default "__seam"
	DataID  string // not read by WrapDocument; the injector names the data script
	Head    HeadMeta
	Assets  Assets
}

const defaultRootID = "__seam"

// WrapDocument assembles the full HTML document around an extracted
// template body: DOCTYPE, head with hoisted metadata and CSS links, and a
// body wrapping the root element plus JS bundle tags. A single comment
// placeholder for the runtime data script is left immediately before
// </body>, filled in by the injector at request time.
func WrapDocument(body string, opts WrapDocumentOptions) string {
	lang := opts.Lang
	if lang == "" {
		lang = "en"
	}
	rootID := opts.RootID
	if rootID == "" {
		rootID = defaultRootID
	}

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n")
	fmt.Fprintf(&b, "<html lang=%q>\n<head>\n", lang)
	b.WriteString("<meta charset=\"utf-8\">\n")
	if opts.Head.Title != "" {
		fmt.Fprintf(&b, "<title>%s</title>\n", opts.Head.Title)
	}
	for _, tag := range opts.Head.Tags {
		b.WriteString(tag)
		b.WriteByte('\n')
	}
	for _, css := range opts.Assets.CSS {
		fmt.Fprintf(&b, "<link rel=\"stylesheet\" href=%q>\n", css)
	}
	b.WriteString("</head>\n<body>\n")
	fmt.Fprintf(&b, "<div id=%q>", rootID)
	b.WriteString(body)
	b.WriteString("</div>\n")
	for _, js := range opts.Assets.JS {
		fmt.Fprintf(&b, "<script type=\"module\" src=%q></script>\n", js)
	}
	b.WriteString("<!--seam:data-script-->\n")
	b.WriteString("</body>\n</html>\n")
	return b.String()
}
