package shardstore

import (
	"os"

	itqlsh "github.com/liliang-cn/itqlsh"
	"github.com/liliang-cn/itqlsh/internal/encoding"
	"github.com/liliang-cn/itqlsh/pkg/code"
	"github.com/liliang-cn/itqlsh/pkg/itq"
	"github.com/liliang-cn/itqlsh/pkg/vector"
)

// WriteShards implements tables_to_files (spec.md §4.8 steps 1-2):
// partitions every table's buckets into shard files under root grouped
// by code prefix, and returns the position map needed to find them
// again. Bucket iteration is by ascending code (Table.SortedCodes) so
// the layout is reproducible across runs.
func WriteShards(root string, idx *itq.Index, src vector.Source, singleMaxMiB int) (*Position, error) {
	n := idx.Params.N
	fsb := fitSplitBits(n, idx.HashedSize(), idx.Params.D, singleMaxMiB)

	pos := &Position{
		HashedSize:   idx.HashedSize(),
		SingleMaxMiB: singleMaxMiB,
		FitSplitBits: fsb,
		HashPos:      make([]map[code.Code]HashPos, idx.Params.L),
		FileSize:     make([]map[string]int, idx.Params.L),
	}

	for k := 0; k < idx.Params.L; k++ {
		if err := os.MkdirAll(shardDir(root, k), 0o755); err != nil {
			return nil, itqlsh.Wrap(itqlsh.KindIO, "write_shards", err)
		}

		hashPos := make(map[code.Code]HashPos)
		fileSize := make(map[string]int)
		openFiles := make(map[string]*os.File)

		for _, c := range idx.Tables[k].SortedCodes(n) {
			keys, _ := idx.Tables[k].Get(c)
			shardName := c.String(fsb)

			f, ok := openFiles[shardName]
			if !ok {
				var err error
				f, err = os.OpenFile(shardPath(root, k, shardName), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
				if err != nil {
					closeAll(openFiles)
					return nil, itqlsh.Wrap(itqlsh.KindIO, "write_shards", err)
				}
				openFiles[shardName] = f
			}

			hashPos[c] = HashPos{Shard: shardName, Offset: fileSize[shardName]}
			for _, key := range keys {
				v, err := src.At(key)
				if err != nil {
					closeAll(openFiles)
					return nil, itqlsh.Wrap(itqlsh.KindIO, "write_shards", err)
				}
				if err := encoding.WriteF32Slice(f, v); err != nil {
					closeAll(openFiles)
					return nil, itqlsh.Wrap(itqlsh.KindIO, "write_shards", err)
				}
			}
			fileSize[shardName] += len(keys)
		}

		closeAll(openFiles)
		pos.HashPos[k] = hashPos
		pos.FileSize[k] = fileSize
	}

	return pos, nil
}

func closeAll(files map[string]*os.File) {
	for _, f := range files {
		f.Close()
	}
}
