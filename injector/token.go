/* injector/token.go */

// Package injector implements the request-time template injector: tokenize
// a directive-annotated template, parse it to an AST, and render it
// against a JSON data value, deferring attribute/style slots to a splice
// pass after the tree renders.
package injector

import "strings"

const (
	openMarker  = "<!--seam:"
	closeMarker = "-->"
)

// TokenKind distinguishes literal text runs from directive markers.
type TokenKind int

const (
	TokenText TokenKind = iota
	TokenMarker
)

// Token is either a literal text span or a parsed directive string (the
// content between `<!--seam:` and `-->`, e.g. "if:user.avatar").
type Token struct {
	Kind      TokenKind
	Text      string
	Directive string
}

// Tokenize scans template for seam directive comments. An opener with no
// matching closer degrades to literal text — the unclosed marker becomes
// part of the surrounding Text token rather than aborting the scan.
func Tokenize(template string) []Token {
	var tokens []Token
	i := 0
	for i < len(template) {
		idx := strings.Index(template[i:], openMarker)
		if idx == -1 {
			tokens = append(tokens, Token{Kind: TokenText, Text: template[i:]})
			break
		}
		if idx > 0 {
			tokens = append(tokens, Token{Kind: TokenText, Text: template[i : i+idx]})
		}
		start := i + idx + len(openMarker)
		end := strings.Index(template[start:], closeMarker)
		if end == -1 {
			// Unclosed marker: degrade the remainder to text, per spec.
			tokens = append(tokens, Token{Kind: TokenText, Text: template[i+idx:]})
			break
		}
		directive := template[start : start+end]
		tokens = append(tokens, Token{Kind: TokenMarker, Directive: directive})
		i = start + end + len(closeMarker)
	}
	return tokens
}
