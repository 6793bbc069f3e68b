package shardstore

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	itqlsh "github.com/liliang-cn/itqlsh"
	"github.com/liliang-cn/itqlsh/internal/encoding"
	"github.com/liliang-cn/itqlsh/pkg/code"
	"github.com/liliang-cn/itqlsh/pkg/hamming"
	"github.com/liliang-cn/itqlsh/pkg/itq"
	"github.com/liliang-cn/itqlsh/pkg/metric"
	"github.com/liliang-cn/itqlsh/pkg/topk"
)

// Store composes a loaded Index, its shard Position map, and a bounded
// shard Cache into the file-mode query path from spec.md §4.8.
type Store struct {
	Root     string
	Index    *itq.Index
	Position *Position
	Cache    *Cache
}

// Open loads hash.param and hash.file.pos from root and prepares an
// empty shard cache sized from maxMemoryMiB.
func Open(root string, maxMemoryMiB int, logger itqlsh.Logger) (*Store, error) {
	pf, err := os.Open(filepath.Join(root, "hash.param"))
	if err != nil {
		return nil, itqlsh.Wrap(itqlsh.KindIO, "open", err)
	}
	defer pf.Close()
	idx, err := itq.ReadParam(pf)
	if err != nil {
		return nil, err
	}

	posFile, err := os.Open(filepath.Join(root, "hash.file.pos"))
	if err != nil {
		return nil, itqlsh.Wrap(itqlsh.KindIO, "open", err)
	}
	defer posFile.Close()
	pos, err := ReadPosition(posFile, idx.Params.N, idx.Params.L)
	if err != nil {
		return nil, err
	}

	capacity := CacheCapacity(maxMemoryMiB, pos.SingleMaxMiB)
	return &Store{Root: root, Index: idx, Position: pos, Cache: NewCache(capacity, logger)}, nil
}

// Save persists hash.param and the pos returned by WriteShards as
// hash.file.pos under root, the save-time counterpart to Open. It does
// not write the shard files itself; call WriteShards first.
func Save(root string, idx *itq.Index, pos *Position) error {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return itqlsh.Wrap(itqlsh.KindIO, "save", err)
	}

	pf, err := os.Create(filepath.Join(root, "hash.param"))
	if err != nil {
		return itqlsh.Wrap(itqlsh.KindIO, "save", err)
	}
	defer pf.Close()
	if err := itq.WriteParam(pf, idx); err != nil {
		return err
	}

	posFile, err := os.Create(filepath.Join(root, "hash.file.pos"))
	if err != nil {
		return itqlsh.Wrap(itqlsh.KindIO, "save", err)
	}
	defer posFile.Close()
	return WritePosition(posFile, idx.Params.N, pos)
}

// loadShard reads a shard file in one sequential pass through the cache.
func (s *Store) loadShard(table int, shardName string) ([]float32, error) {
	return s.Cache.Get(table, shardName, func() ([]float32, error) {
		path := shardPath(s.Root, table, shardName)
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, itqlsh.Wrap(itqlsh.KindIO, "load_shard", err)
		}
		if len(raw)%4 != 0 {
			return nil, itqlsh.Wrap(itqlsh.KindFormat, "load_shard", fmt.Errorf("shard %s: length %d not a multiple of 4", path, len(raw)))
		}
		return encoding.ReadF32Slice(bytes.NewReader(raw), len(raw)/4)
	})
}

// Query runs the file-mode probing algorithm from spec.md §4.8: for
// each table and each probe code (itself, then its Hamming-expanded
// neighbors), resolve the bucket's shard and offset, load the shard
// through the cache, and score each of its vectors directly out of the
// decoded buffer.
func (s *Store) Query(v []float32, k, r int, m metric.Func) ([]topk.Result, error) {
	if k <= 0 {
		return nil, itqlsh.Wrap(itqlsh.KindParam, "query", fmt.Errorf("%w: K must be positive", itqlsh.ErrInvalidParams))
	}
	n := s.Index.Params.N
	dim := s.Index.Params.D
	if r < 0 || r > n {
		return nil, itqlsh.Wrap(itqlsh.KindParam, "query", fmt.Errorf("%w: hamming radius must be in [0,N]", itqlsh.ErrInvalidParams))
	}

	scanner := topk.NewScanner(k, s.Index.HashedSize(), m)
	scanner.Reset(s.Index.HashedSize(), v, func(key int) ([]float32, error) {
		return nil, fmt.Errorf("shardstore: direct key access is unsupported in file mode")
	})

	for table := 0; table < s.Index.Params.L; table++ {
		c := s.Index.Hash(v, table)
		if err := s.considerBucket(scanner, table, c, dim); err != nil {
			return nil, err
		}
		if r > 0 {
			for _, cp := range hamming.Expand(c, n, r) {
				if err := s.considerBucket(scanner, table, cp, dim); err != nil {
					return nil, err
				}
			}
		}
	}
	return scanner.Finish(), nil
}

func (s *Store) considerBucket(scanner *topk.Scanner, table int, c code.Code, dim int) error {
	hp, ok := s.Position.HashPos[table][c]
	if !ok {
		return nil
	}
	keys, ok := s.Index.Tables[table].Get(c)
	if !ok {
		return nil
	}

	buf, err := s.loadShard(table, hp.Shard)
	if err != nil {
		return err
	}

	for i, key := range keys {
		start := (hp.Offset + i) * dim
		scanner.ConsiderVector(key, buf[start:start+dim])
	}
	return nil
}
