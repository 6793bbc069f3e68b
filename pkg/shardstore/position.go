package shardstore

import (
	"io"
	"sort"

	itqlsh "github.com/liliang-cn/itqlsh"
	"github.com/liliang-cn/itqlsh/internal/encoding"
	"github.com/liliang-cn/itqlsh/pkg/code"
)

// HashPos locates a bucket's vectors within a shard file: the shard
// holding it and the vector offset at which its keys begin.
type HashPos struct {
	Shard  string
	Offset int
}

// Position is the hash.file.pos contents from spec.md §6: the global
// hashedSize/singleMax/fitSplitBits triple, plus a per-table hashPos
// map (code -> shard location) and fileSize map (shard -> vector count).
type Position struct {
	HashedSize   int
	SingleMaxMiB int
	FitSplitBits int

	HashPos  []map[code.Code]HashPos
	FileSize []map[string]int
}

// WritePosition serializes pos using n-bit codes for the hashPos keys.
func WritePosition(w io.Writer, n int, pos *Position) error {
	for _, v := range []uint32{uint32(pos.HashedSize), uint32(pos.SingleMaxMiB), uint32(pos.FitSplitBits)} {
		if err := encoding.WriteU32(w, v); err != nil {
			return itqlsh.Wrap(itqlsh.KindIO, "write_position", err)
		}
	}

	for k := range pos.HashPos {
		hp := pos.HashPos[k]
		if err := encoding.WriteU32(w, uint32(len(hp))); err != nil {
			return itqlsh.Wrap(itqlsh.KindIO, "write_position", err)
		}
		codes := sortedHashPosCodes(hp, n)
		for _, c := range codes {
			entry := hp[c]
			if err := encoding.WriteBytes(w, c.Bytes(n)); err != nil {
				return itqlsh.Wrap(itqlsh.KindIO, "write_position", err)
			}
			if err := encoding.WriteBytes(w, []byte(entry.Shard)); err != nil {
				return itqlsh.Wrap(itqlsh.KindIO, "write_position", err)
			}
			if err := encoding.WriteU32(w, uint32(entry.Offset)); err != nil {
				return itqlsh.Wrap(itqlsh.KindIO, "write_position", err)
			}
		}

		fs := pos.FileSize[k]
		if err := encoding.WriteU32(w, uint32(len(fs))); err != nil {
			return itqlsh.Wrap(itqlsh.KindIO, "write_position", err)
		}
		for _, name := range sortedShardNames(fs) {
			if err := encoding.WriteBytes(w, []byte(name)); err != nil {
				return itqlsh.Wrap(itqlsh.KindIO, "write_position", err)
			}
			if err := encoding.WriteU32(w, uint32(fs[name])); err != nil {
				return itqlsh.Wrap(itqlsh.KindIO, "write_position", err)
			}
		}
	}
	return nil
}

// ReadPosition deserializes a hash.file.pos stream for an index with l
// tables and n-bit codes (both known from the already-loaded hash.param).
func ReadPosition(r io.Reader, n, l int) (*Position, error) {
	hashedSize, err := encoding.ReadU32(r)
	if err != nil {
		return nil, itqlsh.Wrap(itqlsh.KindFormat, "read_position", err)
	}
	singleMax, err := encoding.ReadU32(r)
	if err != nil {
		return nil, itqlsh.Wrap(itqlsh.KindFormat, "read_position", err)
	}
	fsb, err := encoding.ReadU32(r)
	if err != nil {
		return nil, itqlsh.Wrap(itqlsh.KindFormat, "read_position", err)
	}

	pos := &Position{
		HashedSize:   int(hashedSize),
		SingleMaxMiB: int(singleMax),
		FitSplitBits: int(fsb),
		HashPos:      make([]map[code.Code]HashPos, l),
		FileSize:     make([]map[string]int, l),
	}

	for k := 0; k < l; k++ {
		hpCount, err := encoding.ReadU32(r)
		if err != nil {
			return nil, itqlsh.Wrap(itqlsh.KindFormat, "read_position", err)
		}
		hp := make(map[code.Code]HashPos, hpCount)
		for i := uint32(0); i < hpCount; i++ {
			raw, err := encoding.ReadBytes(r, n)
			if err != nil {
				return nil, itqlsh.Wrap(itqlsh.KindFormat, "read_position", err)
			}
			c, err := code.FromBytes(raw)
			if err != nil {
				return nil, itqlsh.Wrap(itqlsh.KindFormat, "read_position", err)
			}
			shardRaw, err := encoding.ReadBytes(r, pos.FitSplitBits)
			if err != nil {
				return nil, itqlsh.Wrap(itqlsh.KindFormat, "read_position", err)
			}
			offset, err := encoding.ReadU32(r)
			if err != nil {
				return nil, itqlsh.Wrap(itqlsh.KindFormat, "read_position", err)
			}
			hp[c] = HashPos{Shard: string(shardRaw), Offset: int(offset)}
		}
		pos.HashPos[k] = hp

		fsCount, err := encoding.ReadU32(r)
		if err != nil {
			return nil, itqlsh.Wrap(itqlsh.KindFormat, "read_position", err)
		}
		fs := make(map[string]int, fsCount)
		for i := uint32(0); i < fsCount; i++ {
			shardRaw, err := encoding.ReadBytes(r, pos.FitSplitBits)
			if err != nil {
				return nil, itqlsh.Wrap(itqlsh.KindFormat, "read_position", err)
			}
			total, err := encoding.ReadU32(r)
			if err != nil {
				return nil, itqlsh.Wrap(itqlsh.KindFormat, "read_position", err)
			}
			fs[string(shardRaw)] = int(total)
		}
		pos.FileSize[k] = fs
	}
	return pos, nil
}

func sortedHashPosCodes(hp map[code.Code]HashPos, n int) []code.Code {
	codes := make([]code.Code, 0, len(hp))
	for c := range hp {
		codes = append(codes, c)
	}
	sort.Slice(codes, func(i, j int) bool {
		return codes[i].String(n) < codes[j].String(n)
	})
	return codes
}

func sortedShardNames(fs map[string]int) []string {
	names := make([]string, 0, len(fs))
	for name := range fs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
