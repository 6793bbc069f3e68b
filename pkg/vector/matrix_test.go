package vector

import "testing"

func TestMatrixSourceAt(t *testing.T) {
	data := []float32{1, 2, 0, 1, 5, 5}
	src, err := NewMatrixSource(2, data)
	if err != nil {
		t.Fatalf("NewMatrixSource: %v", err)
	}
	if src.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", src.Len())
	}
	v, err := src.At(1)
	if err != nil {
		t.Fatalf("At(1): %v", err)
	}
	if v[0] != 0 || v[1] != 1 {
		t.Errorf("At(1) = %v, want [0 1]", v)
	}
}

func TestMatrixSourceRejectsMisalignedData(t *testing.T) {
	if _, err := NewMatrixSource(3, []float32{1, 2}); err == nil {
		t.Fatal("expected error for data length not a multiple of dim")
	}
}

func TestMatrixSourceOutOfRange(t *testing.T) {
	src, _ := NewMatrixSource(1, []float32{1, 2, 3})
	if _, err := src.At(3); err == nil {
		t.Fatal("expected out-of-range error")
	}
}
