package vector

import "testing"

func TestParseLine(t *testing.T) {
	cases := []struct {
		line      string
		wantKey   string
		wantValue string
		wantOK    bool
	}{
		{"DIMENSIONS = 128", "DIMENSIONS", "128", true},
		{"  BATCH_SIZE=64  ", "BATCH_SIZE", "64", true},
		{"# a full comment line", "", "", false},
		{"TOTAL_SIZE = 1000 # trailing comment", "TOTAL_SIZE", "1000", true},
		{"", "", "", false},
		{"no equals sign here", "", "", false},
		{" = 5", "", "", false},
	}
	for _, c := range cases {
		key, value, ok := parseLine(c.line)
		if ok != c.wantOK {
			t.Errorf("parseLine(%q) ok = %v, want %v", c.line, ok, c.wantOK)
			continue
		}
		if !ok {
			continue
		}
		if key != c.wantKey || value != c.wantValue {
			t.Errorf("parseLine(%q) = (%q,%q), want (%q,%q)", c.line, key, value, c.wantKey, c.wantValue)
		}
	}
}

func TestSidecarRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/data.meta"

	want := Sidecar{Dimensions: 32, TotalSize: 1000, BatchSize: 200}
	if err := WriteSidecarFile(path, want); err != nil {
		t.Fatalf("WriteSidecarFile: %v", err)
	}
	got, err := ReadSidecarFile(path)
	if err != nil {
		t.Fatalf("ReadSidecarFile: %v", err)
	}
	if got != want {
		t.Errorf("round trip = %+v, want %+v", got, want)
	}
}
