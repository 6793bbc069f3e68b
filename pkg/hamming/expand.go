// Package hamming implements the Hamming expander from spec.md §4.5: given
// a binary code and a radius r, enumerate every distinct code at Hamming
// distance 1..r from the input.
package hamming

import "github.com/liliang-cn/itqlsh/pkg/code"

// Expand returns every code within Hamming distance 1..r of c, among the
// low n bits, with no duplicates (spec.md §4.5, §8 P8: exactly
// sum_{i=1..r} C(n,i) results). The function is pure: it allocates and
// returns a fresh slice and keeps no state between calls, so it can be
// called again from scratch at any time.
func Expand(c code.Code, n, r int) []code.Code {
	if r <= 0 || n <= 0 {
		return nil
	}
	if r > n {
		r = n
	}

	total := 0
	for k := 1; k <= r; k++ {
		total += binomial(n, k)
	}
	out := make([]code.Code, 0, total)

	idx := make([]int, 0, r)
	var combine func(start, depth int)
	combine = func(start, depth int) {
		if depth == 0 {
			out = append(out, flip(c, idx))
			return
		}
		for i := start; i <= n-depth; i++ {
			idx = append(idx, i)
			combine(i+1, depth-1)
			idx = idx[:len(idx)-1]
		}
	}
	for k := 1; k <= r; k++ {
		idx = idx[:0]
		combine(0, k)
	}
	return out
}

// flip returns c with every bit position in positions toggled.
func flip(c code.Code, positions []int) code.Code {
	out := c
	for _, p := range positions {
		out = out.Flip(p)
	}
	return out
}

// binomial computes C(n,k) for the small n (<=256) and small k typical of
// a Hamming radius.
func binomial(n, k int) int {
	if k < 0 || k > n {
		return 0
	}
	if k > n-k {
		k = n - k
	}
	result := 1
	for i := 0; i < k; i++ {
		result = result * (n - i) / (i + 1)
	}
	return result
}
