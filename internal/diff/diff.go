/* internal/diff/diff.go */

// Package diff implements the tree diff primitives the extractors build on:
// fingerprint-based LCS matching of two ordered child sequences.
package diff

import "github.com/loomctr/loomctr/internal/dom"

// OpKind distinguishes the four pairing outcomes.
type OpKind int

const (
	Identical OpKind = iota
	Modified
	OnlyLeft
	OnlyRight
)

// Op references the left/right indices a single diff step covers. For
// OnlyLeft, J is -1; for OnlyRight, I is -1.
type Op struct {
	Kind OpKind
	I    int
	J    int
}

// Children diffs two ordered node sequences by fingerprint equality,
// using a longest-common-subsequence match to decide pairings and
// preferring the earliest alignment on ties.
func Children(a, b []dom.Node) []Op {
	n, m := len(a), len(b)
	fpA := make([]string, n)
	for i, node := range a {
		fpA[i] = node.Fingerprint()
	}
	fpB := make([]string, m)
	for j, node := range b {
		fpB[j] = node.Fingerprint()
	}

	// Standard LCS DP table over fingerprint equality.
	dp := make([][]int, n+1)
	for i := range dp {
		dp[i] = make([]int, m+1)
	}
	for i := n - 1; i >= 0; i-- {
		for j := m - 1; j >= 0; j-- {
			if fpA[i] == fpB[j] {
				dp[i][j] = dp[i+1][j+1] + 1
			} else if dp[i+1][j] >= dp[i][j+1] {
				dp[i][j] = dp[i+1][j]
			} else {
				dp[i][j] = dp[i][j+1]
			}
		}
	}

	var ops []Op
	i, j := 0, 0
	for i < n && j < m {
		switch {
		case fpA[i] == fpB[j]:
			ops = append(ops, Op{Kind: Identical, I: i, J: j})
			i++
			j++
		case dom.SameTag(a[i], b[j]) && dp[i+1][j] == dp[i][j+1]:
			// Both unmatched nodes are elements with the same tag and the
			// LCS has no preference either way: recognize "attributes
			// changed, same element" rather than dropping one side.
			ops = append(ops, Op{Kind: Modified, I: i, J: j})
			i++
			j++
		case dp[i+1][j] >= dp[i][j+1]:
			ops = append(ops, Op{Kind: OnlyLeft, I: i, J: -1})
			i++
		default:
			ops = append(ops, Op{Kind: OnlyRight, I: -1, J: j})
			j++
		}
	}
	for ; i < n; i++ {
		ops = append(ops, Op{Kind: OnlyLeft, I: i, J: -1})
	}
	for ; j < m; j++ {
		ops = append(ops, Op{Kind: OnlyRight, I: -1, J: j})
	}
	return ops
}
