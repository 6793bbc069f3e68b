package itq

import (
	"io"

	itqlsh "github.com/liliang-cn/itqlsh"
	"github.com/liliang-cn/itqlsh/internal/encoding"
	"github.com/liliang-cn/itqlsh/pkg/code"
)

// WriteParam serializes idx to the hash.param layout from spec.md §6:
// header (L,D,N,S), per-table bucket lists keyed by ASCII code, then
// per-table projection/rotation columns.
func WriteParam(w io.Writer, idx *Index) error {
	p := idx.Params
	for _, v := range []uint32{uint32(p.L), uint32(p.D), uint32(p.N), uint32(p.S)} {
		if err := encoding.WriteU32(w, v); err != nil {
			return itqlsh.Wrap(itqlsh.KindIO, "write_param", err)
		}
	}

	for k := 0; k < p.L; k++ {
		codes := idx.Tables[k].SortedCodes(p.N)
		if err := encoding.WriteU32(w, uint32(len(codes))); err != nil {
			return itqlsh.Wrap(itqlsh.KindIO, "write_param", err)
		}
		for _, c := range codes {
			keys, _ := idx.Tables[k].Get(c)
			if err := encoding.WriteBytes(w, c.Bytes(p.N)); err != nil {
				return itqlsh.Wrap(itqlsh.KindIO, "write_param", err)
			}
			if err := encoding.WriteU32(w, uint32(len(keys))); err != nil {
				return itqlsh.Wrap(itqlsh.KindIO, "write_param", err)
			}
			for _, key := range keys {
				if err := encoding.WriteU32(w, uint32(key)); err != nil {
					return itqlsh.Wrap(itqlsh.KindIO, "write_param", err)
				}
			}
		}

		proj := idx.Projections[k]
		rot := idx.Rotations[k]
		for i := 0; i < p.N; i++ {
			if err := encoding.WriteF32Slice(w, proj.pcBlock(i)); err != nil {
				return itqlsh.Wrap(itqlsh.KindIO, "write_param", err)
			}
			if err := encoding.WriteF32Slice(w, rot.rotBlock(i)); err != nil {
				return itqlsh.Wrap(itqlsh.KindIO, "write_param", err)
			}
		}
	}
	return nil
}

// ReadParam deserializes a hash.param stream into a ready-to-query
// Index. The iteration count I is not part of the on-disk format (spec.md
// §6); the returned Params carries I=0 since it has no bearing on query.
func ReadParam(r io.Reader) (*Index, error) {
	lu, err := encoding.ReadU32(r)
	if err != nil {
		return nil, itqlsh.Wrap(itqlsh.KindFormat, "read_param", err)
	}
	du, err := encoding.ReadU32(r)
	if err != nil {
		return nil, itqlsh.Wrap(itqlsh.KindFormat, "read_param", err)
	}
	nu, err := encoding.ReadU32(r)
	if err != nil {
		return nil, itqlsh.Wrap(itqlsh.KindFormat, "read_param", err)
	}
	su, err := encoding.ReadU32(r)
	if err != nil {
		return nil, itqlsh.Wrap(itqlsh.KindFormat, "read_param", err)
	}
	p := Params{L: int(lu), D: int(du), N: int(nu), S: int(su)}

	tables := make([]*Table, p.L)
	projs := make([]Projection, p.L)
	rots := make([]Rotation, p.L)
	hashedSize := 0

	for k := 0; k < p.L; k++ {
		bucketCount, err := encoding.ReadU32(r)
		if err != nil {
			return nil, itqlsh.Wrap(itqlsh.KindFormat, "read_param", err)
		}
		table := NewTable()
		for b := uint32(0); b < bucketCount; b++ {
			raw, err := encoding.ReadBytes(r, p.N)
			if err != nil {
				return nil, itqlsh.Wrap(itqlsh.KindFormat, "read_param", err)
			}
			c, err := code.FromBytes(raw)
			if err != nil {
				return nil, itqlsh.Wrap(itqlsh.KindFormat, "read_param", err)
			}
			keyCount, err := encoding.ReadU32(r)
			if err != nil {
				return nil, itqlsh.Wrap(itqlsh.KindFormat, "read_param", err)
			}
			for i := uint32(0); i < keyCount; i++ {
				key, err := encoding.ReadU32(r)
				if err != nil {
					return nil, itqlsh.Wrap(itqlsh.KindFormat, "read_param", err)
				}
				table.Insert(c, int(key))
				hashedSize++
			}
		}
		tables[k] = table

		projData := make([]float32, p.N*p.D)
		rotData := make([]float32, p.N*p.N)
		for i := 0; i < p.N; i++ {
			col, err := encoding.ReadF32Slice(r, p.D)
			if err != nil {
				return nil, itqlsh.Wrap(itqlsh.KindFormat, "read_param", err)
			}
			copy(projData[i*p.D:(i+1)*p.D], col)
			rcol, err := encoding.ReadF32Slice(r, p.N)
			if err != nil {
				return nil, itqlsh.Wrap(itqlsh.KindFormat, "read_param", err)
			}
			copy(rotData[i*p.N:(i+1)*p.N], rcol)
		}
		projs[k] = Projection{D: p.D, N: p.N, Data: projData}
		rots[k] = Rotation{N: p.N, Data: rotData}
	}

	if p.L > 0 {
		hashedSize /= p.L
	}
	return &Index{Params: p, Projections: projs, Rotations: rots, Tables: tables, hashedSize: hashedSize}, nil
}
