package topk

import (
	"testing"

	"github.com/liliang-cn/itqlsh/pkg/metric"
)

func accessorFor(vectors map[int][]float32) Accessor {
	return func(key int) ([]float32, error) { return vectors[key], nil }
}

func TestScannerTopKOrdering(t *testing.T) {
	vectors := map[int][]float32{
		0: {0, 0},
		1: {1, 0},
		2: {5, 0},
		3: {2, 0},
		4: {0.5, 0},
	}
	s := NewScanner(3, len(vectors), metric.SquaredL2)
	s.Reset(len(vectors), []float32{0, 0}, accessorFor(vectors))

	for key := range vectors {
		if err := s.Consider(key); err != nil {
			t.Fatalf("Consider(%d): %v", key, err)
		}
	}

	results := s.Finish()
	if len(results) != 3 {
		t.Fatalf("len(results) = %d, want 3", len(results))
	}
	wantOrder := []int{0, 4, 1}
	for i, r := range results {
		if r.Key != wantOrder[i] {
			t.Errorf("results[%d].Key = %d, want %d", i, r.Key, wantOrder[i])
		}
	}
	for i := 1; i < len(results); i++ {
		if results[i].Distance < results[i-1].Distance {
			t.Errorf("results not ascending by distance at index %d", i)
		}
	}
}

func TestScannerVisitedDedup(t *testing.T) {
	vectors := map[int][]float32{0: {1, 1}}
	s := NewScanner(5, 1, metric.SquaredL2)
	s.Reset(1, []float32{0, 0}, accessorFor(vectors))

	for i := 0; i < 10; i++ {
		if err := s.Consider(0); err != nil {
			t.Fatalf("Consider: %v", err)
		}
	}
	if s.Considered() != 1 {
		t.Errorf("Considered() = %d, want 1 (visited dedup)", s.Considered())
	}
}

func TestScannerTieBreakByKey(t *testing.T) {
	vectors := map[int][]float32{
		5: {1, 0},
		2: {1, 0},
		9: {1, 0},
	}
	s := NewScanner(2, 10, metric.SquaredL2)
	s.Reset(10, []float32{0, 0}, accessorFor(vectors))
	for _, k := range []int{5, 2, 9} {
		if err := s.Consider(k); err != nil {
			t.Fatalf("Consider(%d): %v", k, err)
		}
	}
	results := s.Finish()
	if len(results) != 2 {
		t.Fatalf("len(results) = %d, want 2", len(results))
	}
	if results[0].Key != 2 || results[1].Key != 5 {
		t.Errorf("tie-break order = %v, want keys [2 5]", results)
	}
}

func TestScannerConsiderVector(t *testing.T) {
	s := NewScanner(2, 10, metric.SquaredL2)
	s.Reset(10, []float32{0, 0}, nil)

	s.ConsiderVector(1, []float32{1, 0})
	s.ConsiderVector(2, []float32{2, 0})
	s.ConsiderVector(1, []float32{100, 100}) // revisit, must be ignored

	results := s.Finish()
	if len(results) != 2 {
		t.Fatalf("len(results) = %d, want 2", len(results))
	}
	if results[0].Key != 1 {
		t.Errorf("results[0].Key = %d, want 1", results[0].Key)
	}
}
