package qwt

import (
	"bytes"
	"encoding/binary"

	"github.com/xflash-panda/qwt/pkg/qwt/quadvector"
	"github.com/xflash-panda/qwt/pkg/qwt/qselect"
	"github.com/xflash-panda/qwt/pkg/qwt/rank"
)

// magic identifies the byte layout below. Any change to the framing
// below must bump this.
const magic = uint32(0x51575432) // "QWT2"

// binWriter accumulates little-endian fixed-width fields, latching the
// first write error so callers can check once at the end.
type binWriter struct {
	buf bytes.Buffer
	err error
}

func (w *binWriter) u8(v uint8) {
	if w.err != nil {
		return
	}
	w.err = w.buf.WriteByte(v)
}

func (w *binWriter) u16(v uint16) {
	if w.err != nil {
		return
	}
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	_, w.err = w.buf.Write(b[:])
}

func (w *binWriter) u32(v uint32) {
	if w.err != nil {
		return
	}
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	_, w.err = w.buf.Write(b[:])
}

func (w *binWriter) u64(v uint64) {
	if w.err != nil {
		return
	}
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	_, w.err = w.buf.Write(b[:])
}

// binReader reads little-endian fixed-width fields from a fixed byte
// slice, latching ErrTruncatedData on the first short read.
type binReader struct {
	data []byte
	off  int
	err  error
}

func (r *binReader) need(n int) bool {
	if r.err != nil {
		return false
	}
	if r.off+n > len(r.data) {
		r.err = ErrTruncatedData
		return false
	}
	return true
}

func (r *binReader) u8() uint8 {
	if !r.need(1) {
		return 0
	}
	v := r.data[r.off]
	r.off++
	return v
}

func (r *binReader) u16() uint16 {
	if !r.need(2) {
		return 0
	}
	v := binary.LittleEndian.Uint16(r.data[r.off:])
	r.off += 2
	return v
}

func (r *binReader) u32() uint32 {
	if !r.need(4) {
		return 0
	}
	v := binary.LittleEndian.Uint32(r.data[r.off:])
	r.off += 4
	return v
}

func (r *binReader) u64() uint64 {
	if !r.need(8) {
		return 0
	}
	v := binary.LittleEndian.Uint64(r.data[r.off:])
	r.off += 8
	return v
}

// Serialize encodes idx into a self-contained byte slice. The layout
// records n, D, max_symbol, the BLOCK variant, and for each level: the
// QuadVector's words, rank counter tables, select sample tables per
// symbol, the per-symbol select totals, and the prefix table. Totals
// are persisted directly rather than re-derived from the rank tables
// on load, so a round trip never depends on rank.Support.Rank(s, n)
// agreeing with the totals qselect.Build counted directly. The exact
// framing is implementation-defined; only the round-trip-preserves-
// queries property is load-bearing.
func Serialize[S Symbol](idx *Index[S]) ([]byte, error) {
	w := &binWriter{}
	w.u32(magic)
	w.u64(idx.n)
	w.u32(uint32(idx.depth))
	w.u64(idx.maxSymbol)
	w.u32(uint32(idx.cfg.Block))
	w.u64(idx.cfg.SampleRate)
	w.u8(uint8(idx.cfg.Width))

	for _, lvl := range idx.levels {
		words := lvl.qv.BitVector().Words()
		w.u64(uint64(len(words)))
		for _, wd := range words {
			w.u64(wd)
		}

		sc := lvl.rank.SuperCounts()
		w.u64(uint64(len(sc)))
		for _, c := range sc {
			for _, v := range c {
				w.u64(v)
			}
		}

		bc := lvl.rank.BlockCounts()
		w.u64(uint64(len(bc)))
		for _, c := range bc {
			for _, v := range c {
				w.u16(v)
			}
		}

		for s := uint8(0); s < 4; s++ {
			samples := lvl.sel.Samples(s)
			w.u64(uint64(len(samples)))
			for _, p := range samples {
				w.u64(p)
			}
		}

		totals := lvl.sel.Totals()
		for _, t := range totals {
			w.u64(t)
		}

		for s := 0; s < 4; s++ {
			w.u64(lvl.prefix[s])
		}
	}

	if w.err != nil {
		return nil, w.err
	}
	return w.buf.Bytes(), nil
}

// Deserialize decodes an Index[S] from data written by Serialize. It
// returns ErrCorruptData for an unrecognized magic header or
// configuration, and ErrTruncatedData if data ends early. Every
// reconstructed slice is allocated at exactly its logical length — no
// overallocated capacity survives a round trip.
func Deserialize[S Symbol](data []byte) (*Index[S], error) {
	r := &binReader{data: data}
	m := r.u32()
	if r.err != nil {
		return nil, r.err
	}
	if m != magic {
		return nil, ErrCorruptData
	}

	n := r.u64()
	depth := r.u32()
	maxSym := r.u64()
	block := rank.BlockSize(r.u32())
	sampleRate := r.u64()
	width := Width(r.u8())
	if r.err != nil {
		return nil, r.err
	}

	cfg := Config{Block: block, SampleRate: sampleRate, Width: width}
	if err := cfg.validate(); err != nil {
		return nil, ErrCorruptData
	}

	idx := &Index[S]{n: n, depth: uint(depth), maxSymbol: maxSym, cfg: cfg}
	if n == 0 {
		return idx, nil
	}

	levels := make([]*level, depth)
	for l := uint32(0); l < depth; l++ {
		wc := r.u64()
		if r.err != nil {
			return nil, r.err
		}
		words := make([]uint64, wc)
		for i := range words {
			words[i] = r.u64()
		}
		if r.err != nil {
			return nil, r.err
		}
		qv := quadvector.FromWords(words, n)

		scLen := r.u64()
		if r.err != nil {
			return nil, r.err
		}
		sc := make([][4]uint64, scLen)
		for i := range sc {
			for s := 0; s < 4; s++ {
				sc[i][s] = r.u64()
			}
		}
		if r.err != nil {
			return nil, r.err
		}

		bcLen := r.u64()
		if r.err != nil {
			return nil, r.err
		}
		bc := make([][4]uint16, bcLen)
		for i := range bc {
			for s := 0; s < 4; s++ {
				bc[i][s] = r.u16()
			}
		}
		if r.err != nil {
			return nil, r.err
		}

		rs := rank.FromParts(qv, block, sc, bc)

		var samples [4][]uint64
		for s := 0; s < 4; s++ {
			sl := r.u64()
			if r.err != nil {
				return nil, r.err
			}
			arr := make([]uint64, sl)
			for i := range arr {
				arr[i] = r.u64()
			}
			samples[s] = arr
		}
		if r.err != nil {
			return nil, r.err
		}

		var totals [4]uint64
		for s := 0; s < 4; s++ {
			totals[s] = r.u64()
		}
		if r.err != nil {
			return nil, r.err
		}
		sel := qselect.FromParts(qv, sampleRate, samples, totals)

		var prefix [4]uint64
		for s := 0; s < 4; s++ {
			prefix[s] = r.u64()
		}
		if r.err != nil {
			return nil, r.err
		}

		levels[l] = &level{qv: qv, rank: rs, sel: sel, prefix: prefix}
	}
	idx.levels = levels
	return idx, nil
}
