/* injector/parser.go */

package injector

import "strings"

// Parse builds an AST from a token stream, recovering from structural
// defects (unclosed open, orphan close) by recording a Diagnostic and
// closing the block at end-of-input rather than aborting.
func Parse(tokens []Token) ([]Node, []Diagnostic) {
	p := &astParser{tokens: tokens}
	nodes := p.parseUntil(stopEOF)
	return nodes, p.diags
}

type stopKind int

const (
	stopEOF stopKind = iota
	stopEndif
	stopEndeach
	stopEndmatch
	stopBranchBoundary // stop (without consuming) at "when" or "endmatch"
)

type astParser struct {
	tokens []Token
	pos    int
	diags  []Diagnostic
}

// parseUntil parses siblings until the directive matching stop is seen.
// For stopEndif/stopEndeach/stopEndmatch the matching closer is consumed;
// for stopBranchBoundary the boundary token is left for the caller; for
// stopEOF it runs to the end of input, logging orphan closers it meets.
func (p *astParser) parseUntil(stop stopKind) []Node {
	var nodes []Node
	for p.pos < len(p.tokens) {
		t := p.tokens[p.pos]
		if t.Kind == TokenText {
			nodes = append(nodes, Node{Kind: NText, Text: t.Text})
			p.pos++
			continue
		}

		kind, rest := splitDirective(t.Directive)

		if stop == stopBranchBoundary && (kind == "when" || kind == "endmatch") {
			return nodes
		}

		switch kind {
		case "endif":
			if stop == stopEndif {
				p.pos++
				return nodes
			}
		case "endeach":
			if stop == stopEndeach {
				p.pos++
				return nodes
			}
		case "endmatch":
			if stop == stopEndmatch {
				p.pos++
				return nodes
			}
		case "else", "when":
			if stop == stopEOF {
				p.diags = append(p.diags, Diagnostic{Kind: "orphan_close", Context: t.Directive})
				p.pos++
				continue
			}
			return nodes
		}

		switch kind {
		case "endif", "endeach", "endmatch":
			p.diags = append(p.diags, Diagnostic{Kind: "orphan_close", Context: t.Directive})
			p.pos++
		case "if":
			p.pos++
			nodes = append(nodes, p.parseIf(rest))
		case "each":
			p.pos++
			nodes = append(nodes, p.parseEach(rest))
		case "match":
			p.pos++
			nodes = append(nodes, p.parseMatch(rest))
		default:
			p.pos++
			nodes = append(nodes, p.parseSlotLike(t.Directive))
		}
	}
	if stop != stopEOF {
		p.diags = append(p.diags, Diagnostic{Kind: "unclosed_open", Context: directiveNameForStop(stop)})
	}
	return nodes
}

func directiveNameForStop(stop stopKind) string {
	switch stop {
	case stopEndif:
		return "if"
	case stopEndeach:
		return "each"
	case stopEndmatch, stopBranchBoundary:
		return "match"
	default:
		return ""
	}
}

func (p *astParser) parseIf(path string) Node {
	thenBody := p.parseUntil(stopEndif)
	var elseBody []Node
	// parseUntil(stopEndif) only returns early on an actual endif; an
	// "else" in between is handled by the "else"/"when" case returning
	// control here without consuming, so check for it explicitly.
	if p.pos < len(p.tokens) && p.tokens[p.pos].Kind == TokenMarker {
		kind, _ := splitDirective(p.tokens[p.pos].Directive)
		if kind == "else" {
			p.pos++
			elseBody = p.parseUntil(stopEndif)
		}
	}
	return Node{Kind: NIf, Path: path, Then: thenBody, Else: elseBody}
}

func (p *astParser) parseEach(path string) Node {
	body := p.parseUntil(stopEndeach)
	return Node{Kind: NEach, Path: path, Body: body}
}

func (p *astParser) parseMatch(path string) Node {
	var branches []MatchBranch
	for p.pos < len(p.tokens) && p.tokens[p.pos].Kind == TokenMarker {
		kind, rest := splitDirective(p.tokens[p.pos].Directive)
		if kind != "when" {
			break
		}
		p.pos++
		body := p.parseUntil(stopBranchBoundary)
		branches = append(branches, MatchBranch{Value: rest, Body: body})
	}
	if p.pos < len(p.tokens) && p.tokens[p.pos].Kind == TokenMarker {
		if kind, _ := splitDirective(p.tokens[p.pos].Directive); kind == "endmatch" {
			p.pos++
			return Node{Kind: NMatch, Path: path, Branches: branches}
		}
	}
	p.diags = append(p.diags, Diagnostic{Kind: "unclosed_open", Context: "match:" + path})
	return Node{Kind: NMatch, Path: path, Branches: branches}
}

func (p *astParser) parseSlotLike(directive string) Node {
	parts := strings.SplitN(directive, ":", 3)
	path := parts[0]
	if len(parts) == 1 {
		if path == "data-script" {
			return Node{Kind: NText, Text: "<!--seam:" + directive + "-->"}
		}
		return Node{Kind: NSlot, Path: path, Mode: SlotText}
	}
	switch parts[1] {
	case "html":
		return Node{Kind: NSlot, Path: path, Mode: SlotHTML}
	case "attr":
		if len(parts) == 3 {
			return Node{Kind: NAttr, Path: path, AttrName: parts[2]}
		}
	case "style":
		if len(parts) == 3 {
			return Node{Kind: NStyleProp, Path: path, CSSProp: parts[2]}
		}
	}
	// Unrecognized directive (e.g. the document wrapper's data-script
	// placeholder): pass it through verbatim so a later, non-injector
	// stage can still find and splice it.
	return Node{Kind: NText, Text: "<!--seam:" + directive + "-->"}
}

// splitDirective separates a directive's keyword from the remainder,
// e.g. "if:user.avatar" -> ("if", "user.avatar"), "endeach" -> ("endeach", "").
func splitDirective(directive string) (kind, rest string) {
	switch directive {
	case "endeach", "endmatch", "else", "endif":
		return directive, ""
	}
	idx := strings.IndexByte(directive, ':')
	if idx == -1 {
		return "", directive
	}
	prefix := directive[:idx]
	switch prefix {
	case "if", "endif", "each", "match", "when":
		return prefix, directive[idx+1:]
	}
	return "", directive
}
