package hamming

import (
	"testing"

	"github.com/liliang-cn/itqlsh/pkg/code"
)

func TestExpandCount(t *testing.T) {
	c, _ := code.Parse("00000000")
	for _, r := range []int{0, 1, 2, 3} {
		got := Expand(c, 8, r)
		want := 0
		for k := 1; k <= r; k++ {
			want += binomial(8, k)
		}
		if len(got) != want {
			t.Errorf("Expand(r=%d) len = %d, want %d", r, len(got), want)
		}
	}
}

func TestExpandDistanceAndDistinct(t *testing.T) {
	c, _ := code.Parse("1010")
	results := Expand(c, 4, 2)

	seen := make(map[code.Code]bool)
	for _, cp := range results {
		d := code.HammingDistance(c, cp, 4)
		if d == 0 || d > 2 {
			t.Errorf("result at distance %d, want in [1,2]", d)
		}
		if seen[cp] {
			t.Errorf("duplicate code %s in results", cp.String(4))
		}
		seen[cp] = true
	}
}

func TestExpandRadiusZero(t *testing.T) {
	c, _ := code.Parse("1111")
	if got := Expand(c, 4, 0); len(got) != 0 {
		t.Errorf("Expand(r=0) len = %d, want 0", len(got))
	}
}

func TestExpandRadiusClampedToWidth(t *testing.T) {
	c, _ := code.Parse("111")
	got := Expand(c, 3, 10)
	want := 0
	for k := 1; k <= 3; k++ {
		want += binomial(3, k)
	}
	if len(got) != want {
		t.Errorf("Expand with oversized radius len = %d, want %d", len(got), want)
	}
}
