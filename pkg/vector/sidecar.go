package vector

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Sidecar holds the three keys the file-backed Source needs (spec.md
// §6): DIMENSIONS, TOTAL_SIZE, BATCH_SIZE.
type Sidecar struct {
	Dimensions int
	TotalSize  int
	BatchSize  int
}

// parseLine splits one "key = value" line, honoring "#" comments and
// trimming whitespace around both key and value. This replaces the
// off-by-one substring bug in original_source/config.h::analysis_line
// (spec.md §9 note 4): that parser computed new_line's length as
// start_pos+1-end_pos instead of end_pos-start_pos+1, truncating or
// corrupting any line where a comment followed the '=' sign.
func parseLine(line string) (key, value string, ok bool) {
	if idx := strings.IndexByte(line, '#'); idx == 0 {
		return "", "", false
	} else if idx > 0 {
		line = line[:idx]
	}

	eq := strings.IndexByte(line, '=')
	if eq < 0 {
		return "", "", false
	}

	key = strings.TrimSpace(line[:eq])
	value = strings.TrimSpace(line[eq+1:])
	if key == "" {
		return "", "", false
	}
	return key, value, true
}

// ParseSidecar reads "key = value" lines from r into a string map.
func ParseSidecar(r io.Reader) (map[string]string, error) {
	infos := make(map[string]string)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if key, value, ok := parseLine(scanner.Text()); ok {
			infos[key] = value
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return infos, nil
}

// ReadSidecarFile loads and validates the DIMENSIONS/TOTAL_SIZE/BATCH_SIZE
// sidecar at path.
func ReadSidecarFile(path string) (Sidecar, error) {
	f, err := os.Open(path)
	if err != nil {
		return Sidecar{}, err
	}
	defer f.Close()

	infos, err := ParseSidecar(f)
	if err != nil {
		return Sidecar{}, err
	}

	get := func(key string) (int, error) {
		raw, ok := infos[key]
		if !ok {
			return 0, fmt.Errorf("vector: sidecar %s missing key %q", path, key)
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return 0, fmt.Errorf("vector: sidecar %s key %q: %w", path, key, err)
		}
		return n, nil
	}

	dim, err := get("DIMENSIONS")
	if err != nil {
		return Sidecar{}, err
	}
	total, err := get("TOTAL_SIZE")
	if err != nil {
		return Sidecar{}, err
	}
	batch, err := get("BATCH_SIZE")
	if err != nil {
		return Sidecar{}, err
	}

	return Sidecar{Dimensions: dim, TotalSize: total, BatchSize: batch}, nil
}

// WriteSidecarFile writes a DIMENSIONS/TOTAL_SIZE/BATCH_SIZE sidecar,
// the counterpart CLI tooling (e.g. import-sqlite) uses to produce a
// file-backed Source.
func WriteSidecarFile(path string, s Sidecar) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = fmt.Fprintf(f, "DIMENSIONS = %d\nTOTAL_SIZE = %d\nBATCH_SIZE = %d\n",
		s.Dimensions, s.TotalSize, s.BatchSize)
	return err
}
