/* internal/dom/parse.go */

package dom

import "strings"

// Parse reads a well-formed HTML fragment and returns its root-level
// node sequence (a forest, not a single tree — the renderer output is a
// fragment, not a full document, wherever the document wrapper hasn't
// run yet).
func Parse(s string) ([]Node, error) {
	p := &parser{src: s}
	nodes, err := p.parseUntil(nil)
	if err != nil {
		return nil, err
	}
	return nodes, nil
}

type parser struct {
	src string
	pos int
}

// parseUntil parses siblings until EOF or a closing tag matching stopTag
// (consumed on match). stopTag == nil means parse to EOF.
func (p *parser) parseUntil(stopTag *string) ([]Node, error) {
	var nodes []Node
	for p.pos < len(p.src) {
		if p.peekIs("</") {
			tag, ok := p.peekCloseTag()
			if ok && stopTag != nil && tag == *stopTag {
				p.consumeCloseTag()
				return nodes, nil
			}
			if ok {
				// Unmatched close tag in permissive mode: stop this level,
				// let the caller (or EOF) absorb it.
				if stopTag == nil {
					p.consumeCloseTag()
					continue
				}
				return nodes, nil
			}
		}
		if p.peekIs("<!--") {
			n, err := p.parseComment()
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, n)
			continue
		}
		if p.peekIs("<!") {
			p.skipDoctypeOrBogus()
			continue
		}
		if p.peekIs("<") && p.hasTagNameAt(p.pos+1) {
			n, err := p.parseElement()
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, n)
			continue
		}
		n := p.parseText()
		nodes = append(nodes, n)
	}
	return nodes, nil
}

func (p *parser) peekIs(s string) bool {
	return strings.HasPrefix(p.src[p.pos:], s)
}

func (p *parser) hasTagNameAt(i int) bool {
	if i >= len(p.src) {
		return false
	}
	c := p.src[i]
	return isAlpha(c)
}

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func (p *parser) parseText() Node {
	start := p.pos
	for p.pos < len(p.src) {
		if p.src[p.pos] == '<' {
			if p.peekIs("<!--") || p.peekIs("</") || p.peekIs("<!") || p.hasTagNameAt(p.pos+1) {
				break
			}
		}
		p.pos++
	}
	return Text(p.src[start:p.pos])
}

func (p *parser) parseComment() (Node, error) {
	p.pos += len("<!--")
	end := strings.Index(p.src[p.pos:], "-->")
	if end == -1 {
		data := p.src[p.pos:]
		p.pos = len(p.src)
		return Node{Kind: KindComment, Data: data}, nil
	}
	data := p.src[p.pos : p.pos+end]
	p.pos += end + len("-->")
	return Node{Kind: KindComment, Data: data}, nil
}

func (p *parser) skipDoctypeOrBogus() {
	end := strings.IndexByte(p.src[p.pos:], '>')
	if end == -1 {
		p.pos = len(p.src)
		return
	}
	p.pos += end + 1
}

func (p *parser) peekCloseTag() (string, bool) {
	rest := p.src[p.pos+2:]
	end := strings.IndexByte(rest, '>')
	if end == -1 {
		return "", false
	}
	return strings.TrimSpace(rest[:end]), true
}

func (p *parser) consumeCloseTag() {
	end := strings.IndexByte(p.src[p.pos:], '>')
	if end == -1 {
		p.pos = len(p.src)
		return
	}
	p.pos += end + 1
}

func (p *parser) parseElement() (Node, error) {
	p.pos++ // consume '<'
	tagStart := p.pos
	for p.pos < len(p.src) && isTagNameChar(p.src[p.pos]) {
		p.pos++
	}
	tag := strings.ToLower(p.src[tagStart:p.pos])

	attrsStart := p.pos
	selfClosing := false
	for p.pos < len(p.src) && p.src[p.pos] != '>' {
		p.pos++
	}
	attrs := p.src[attrsStart:p.pos]
	if strings.HasSuffix(strings.TrimRight(attrs, " \t\n\r"), "/") {
		selfClosing = true
		trimmed := strings.TrimRight(attrs, " \t\n\r")
		attrs = trimmed[:len(trimmed)-1]
	}
	if p.pos < len(p.src) {
		p.pos++ // consume '>'
	}

	if selfClosing || IsVoid(tag) {
		return Node{Kind: KindElement, Tag: tag, Attrs: attrs, SelfClosing: true}, nil
	}

	if rawTextTags[tag] {
		closeSeq := "</" + tag
		idx := indexFold(p.src[p.pos:], closeSeq)
		var raw string
		if idx == -1 {
			raw = p.src[p.pos:]
			p.pos = len(p.src)
		} else {
			raw = p.src[p.pos : p.pos+idx]
			p.pos += idx
			p.consumeCloseTag()
		}
		return Node{Kind: KindRaw, Tag: tag, Attrs: attrs, Data: raw}, nil
	}

	children, err := p.parseUntil(&tag)
	if err != nil {
		return Node{}, err
	}
	return Node{Kind: KindElement, Tag: tag, Attrs: attrs, Children: children}, nil
}

func isTagNameChar(c byte) bool {
	return isAlpha(c) || (c >= '0' && c <= '9') || c == '-' || c == ':'
}

func indexFold(s, substr string) int {
	ls := strings.ToLower(s)
	lsub := strings.ToLower(substr)
	return strings.Index(ls, lsub)
}
