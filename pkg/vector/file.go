package vector

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/liliang-cn/itqlsh/internal/encoding"
)

// FileSource is the file-backed Vector Source realization (spec.md
// §4.1): N vectors partitioned into ceil(N/batch) shards of batch
// vectors each, named data_<i>.bin, plus a DIMENSIONS/TOTAL_SIZE/
// BATCH_SIZE sidecar. Unlike original_source/filedb.h's FileDB, which
// reopens a stream on every access, each shard's *os.File is opened
// lazily on first access and kept open for the Source's lifetime (spec.md
// §9 note 2) — closed explicitly via Close.
type FileSource struct {
	dir   string
	dim   int
	total int
	batch int
	mu    sync.Mutex // guards lazy opening of files
	files []*os.File
}

// OpenFileSource loads the sidecar at dir/data.meta and prepares lazy
// access to dir/data_<i>.bin shards.
func OpenFileSource(dir string) (*FileSource, error) {
	meta, err := ReadSidecarFile(filepath.Join(dir, "data.meta"))
	if err != nil {
		return nil, err
	}
	if meta.Dimensions <= 0 || meta.BatchSize <= 0 || meta.TotalSize < 0 {
		return nil, fmt.Errorf("vector: invalid sidecar metadata %+v", meta)
	}
	numShards := (meta.TotalSize + meta.BatchSize - 1) / meta.BatchSize
	return &FileSource{
		dir:   dir,
		dim:   meta.Dimensions,
		total: meta.TotalSize,
		batch: meta.BatchSize,
		files: make([]*os.File, numShards),
	}, nil
}

// Dim returns D.
func (f *FileSource) Dim() int { return f.dim }

// Len returns N.
func (f *FileSource) Len() int { return f.total }

// At seeks shard i/batch, offset (i mod batch)*D*sizeof(T), and reads D
// float32 scalars (spec.md §4.1).
func (f *FileSource) At(i int) ([]float32, error) {
	if i < 0 || i >= f.total {
		return nil, fmt.Errorf("vector: key %d out of range [0,%d)", i, f.total)
	}
	shardIdx := i / f.batch
	rowInShard := i % f.batch

	fh, err := f.shardFile(shardIdx)
	if err != nil {
		return nil, err
	}

	offset := int64(rowInShard) * int64(f.dim) * 4
	section := make([]byte, f.dim*4)
	if _, err := fh.ReadAt(section, offset); err != nil {
		return nil, fmt.Errorf("vector: reading key %d from shard %d: %w", i, shardIdx, err)
	}

	return encoding.ReadF32Slice(bytes.NewReader(section), f.dim)
}

func (f *FileSource) shardFile(idx int) (*os.File, error) {
	if idx < 0 || idx >= len(f.files) {
		return nil, fmt.Errorf("vector: shard index %d out of range", idx)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.files[idx] != nil {
		return f.files[idx], nil
	}
	path := filepath.Join(f.dir, fmt.Sprintf("data_%d.bin", idx))
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	f.files[idx] = fh
	return fh, nil
}

// Close releases every shard file handle opened so far.
func (f *FileSource) Close() error {
	var first error
	for i, fh := range f.files {
		if fh == nil {
			continue
		}
		if err := fh.Close(); err != nil && first == nil {
			first = err
		}
		f.files[i] = nil
	}
	return first
}
