package debate

import "strings"

// Similarity quantifies near-duplication between two strings on a [0,1] scale.
// Both inputs are trimmed and case-folded first; 1.0 means identical after
// folding, 0.0 means one side is empty and the other is not. The score is the
// Levenshtein distance normalized by the longer string's rune length, so it is
// symmetric and reproducible for the same inputs.
func Similarity(a, b string) float64 {
	s1 := []rune(strings.ToLower(strings.TrimSpace(a)))
	s2 := []rune(strings.ToLower(strings.TrimSpace(b)))

	if string(s1) == string(s2) {
		return 1
	}
	if len(s1) == 0 || len(s2) == 0 {
		return 0
	}

	dist := levenshtein(s1, s2)
	maxLen := len(s1)
	if len(s2) > maxLen {
		maxLen = len(s2)
	}
	return 1 - float64(dist)/float64(maxLen)
}

// levenshtein computes the classic edit distance over runes with the full
// dynamic-programming table.
func levenshtein(s1, s2 []rune) int {
	rows := len(s2) + 1
	cols := len(s1) + 1

	matrix := make([][]int, rows)
	for i := 0; i < rows; i++ {
		matrix[i] = make([]int, cols)
		matrix[i][0] = i
	}
	for j := 0; j < cols; j++ {
		matrix[0][j] = j
	}

	for i := 1; i < rows; i++ {
		for j := 1; j < cols; j++ {
			if s2[i-1] == s1[j-1] {
				matrix[i][j] = matrix[i-1][j-1]
			} else {
				matrix[i][j] = min3(
					matrix[i-1][j-1]+1,
					matrix[i][j-1]+1,
					matrix[i-1][j]+1,
				)
			}
		}
	}

	return matrix[rows-1][cols-1]
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}
