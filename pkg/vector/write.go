package vector

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/liliang-cn/itqlsh/internal/encoding"
)

// WriteFileSource materializes src as a file-backed Source at dir:
// ceil(Len()/batch) shards of data_<i>.bin plus a data.meta sidecar.
// Used by tooling (e.g. the import-sqlite CLI command) that ingests
// vectors from elsewhere into the on-disk layout §4.1 expects.
func WriteFileSource(dir string, src Source, batch int) error {
	if batch <= 0 {
		return fmt.Errorf("vector: batch size must be positive, got %d", batch)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	n, dim := src.Len(), src.Dim()
	numShards := (n + batch - 1) / batch
	for s := 0; s < numShards; s++ {
		if err := writeShard(dir, s, src, s*batch, min(n, (s+1)*batch)); err != nil {
			return err
		}
	}

	return WriteSidecarFile(filepath.Join(dir, "data.meta"), Sidecar{
		Dimensions: dim,
		TotalSize:  n,
		BatchSize:  batch,
	})
}

func writeShard(dir string, shardIdx int, src Source, start, end int) error {
	path := filepath.Join(dir, fmt.Sprintf("data_%d.bin", shardIdx))
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	for i := start; i < end; i++ {
		v, err := src.At(i)
		if err != nil {
			return err
		}
		if err := encoding.WriteF32Slice(f, v); err != nil {
			return err
		}
	}
	return nil
}
