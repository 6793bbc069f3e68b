package shardstore

import "testing"

func TestFitSplitBitsClampedToAtLeastOne(t *testing.T) {
	got := fitSplitBits(8, 10, 4, 100)
	if got < 1 {
		t.Errorf("fitSplitBits = %d, want >= 1", got)
	}
}

func TestFitSplitBitsClampedToN(t *testing.T) {
	got := fitSplitBits(4, 1_000_000_000, 128, 1)
	if got > 4 {
		t.Errorf("fitSplitBits = %d, want <= N (4)", got)
	}
}

func TestFitSplitBitsGrowsWithDatasetSize(t *testing.T) {
	small := fitSplitBits(16, 1000, 32, 10)
	large := fitSplitBits(16, 10_000_000, 32, 10)
	if large < small {
		t.Errorf("fitSplitBits(large)=%d should be >= fitSplitBits(small)=%d", large, small)
	}
}

func TestShardPathLayout(t *testing.T) {
	got := shardPath("/root", 2, "0101")
	want := "/root/L_2/0101.hash"
	if got != want {
		t.Errorf("shardPath = %q, want %q", got, want)
	}
}
