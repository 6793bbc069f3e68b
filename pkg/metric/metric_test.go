package metric

import "testing"

func TestSquaredL2(t *testing.T) {
	a := []float32{1, 2, 3}
	b := []float32{4, 6, 3}
	if got := SquaredL2(a, b); got != 25 {
		t.Errorf("SquaredL2 = %v, want 25", got)
	}
	if got := SquaredL2(a, a); got != 0 {
		t.Errorf("SquaredL2(a,a) = %v, want 0", got)
	}
}

func TestL1(t *testing.T) {
	a := []float32{1, 2, 3}
	b := []float32{4, -1, 3}
	if got := L1(a, b); got != 6 {
		t.Errorf("L1 = %v, want 6", got)
	}
}

func TestParse(t *testing.T) {
	if _, err := Parse(TypeL1); err != nil {
		t.Errorf("Parse(TypeL1): %v", err)
	}
	if _, err := Parse(TypeSquaredL2); err != nil {
		t.Errorf("Parse(TypeSquaredL2): %v", err)
	}
	if _, err := Parse(Type(99)); err == nil {
		t.Error("expected error for unknown metric type")
	}
}
