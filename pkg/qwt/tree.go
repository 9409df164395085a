// Package qwt implements a Quad Wavelet Tree: a compact, static,
// in-memory index over an immutable sequence of unsigned integer
// symbols that answers Access, Rank, and Select in time logarithmic in
// the alphabet size. Depth D = ceil(log4(max_symbol+1)) levels, each a
// QuadVector with rank/select support, compose to route a query from
// the root alphabet down to (or up from) the original sequence.
package qwt

import (
	"github.com/xflash-panda/qwt/pkg/qwt/quadvector"
	"github.com/xflash-panda/qwt/pkg/qwt/qselect"
	"github.com/xflash-panda/qwt/pkg/qwt/rank"
)

// level holds one depth of the tree: the QuadVector recording the
// base-4 digit chosen at this level for every original position, its
// rank/select support, and the prefix table mapping a digit to the
// start of its child subrange.
type level struct {
	qv     *quadvector.QuadVector
	rank   *rank.Support
	sel    *qselect.Support
	prefix [4]uint64
}

// Index is a built, read-only Quad Wavelet Tree over symbols of type S.
// The zero value is not usable; construct with Build or Deserialize.
type Index[S Symbol] struct {
	n         uint64
	depth     uint
	maxSymbol uint64
	levels    []*level
	cfg       Config
}

// Build consumes seq as mutable scratch storage — it is stably
// partitioned in place, level by level, and its final order is
// unspecified after Build returns. Callers that need the original order
// preserved must clone seq first.
func Build[S Symbol](seq []S, cfg Config) (*Index[S], error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	n := uint64(len(seq))
	if n == 0 {
		return &Index[S]{cfg: cfg}, nil
	}

	var maxSym uint64
	for _, v := range seq {
		if u := uint64(v); u > maxSym {
			maxSym = u
		}
	}
	if err := cfg.Width.checkRange(maxSym); err != nil {
		return nil, err
	}

	depth := depthFor(maxSym)
	levels := make([]*level, depth)
	scratch := make([]S, n)
	digits := make([]uint8, n)

	for l := 0; l < depth; l++ {
		shift := uint(2 * (depth - 1 - l))
		qv := quadvector.New(n)
		var digitCounts [4]uint64
		for i, v := range seq {
			d := uint8((uint64(v) >> shift) & 0b11)
			digits[i] = d
			qv.Set(uint64(i), d)
			digitCounts[d]++
		}

		var prefix [4]uint64
		for s := 1; s < 4; s++ {
			prefix[s] = prefix[s-1] + digitCounts[s-1]
		}

		rs := rank.Build(qv, cfg.Block)
		sel := qselect.Build(qv, cfg.SampleRate)
		levels[l] = &level{qv: qv, rank: rs, sel: sel, prefix: prefix}

		if l+1 < depth {
			offsets := prefix
			for i, v := range seq {
				d := digits[i]
				scratch[offsets[d]] = v
				offsets[d]++
			}
			copy(seq, scratch)
		}
	}

	return &Index[S]{n: n, depth: uint(depth), maxSymbol: maxSym, levels: levels, cfg: cfg}, nil
}

// depthFor returns D = ceil(log4(maxSymbol+1)), at least 1.
func depthFor(maxSymbol uint64) int {
	d := 1
	capacity := uint64(4)
	for capacity < maxSymbol+1 {
		capacity *= 4
		d++
	}
	return d
}

// pow4 returns 4^d.
func pow4(d uint) uint64 {
	r := uint64(1)
	for i := uint(0); i < d; i++ {
		r *= 4
	}
	return r
}

// Len returns the number of symbols in the index.
func (idx *Index[S]) Len() uint64 { return idx.n }

// Access returns the symbol at position i, or false if i >= Len().
func (idx *Index[S]) Access(i uint64) (S, bool) {
	if i >= idx.n {
		return 0, false
	}
	pos := i
	var sym uint64
	for _, lvl := range idx.levels {
		d, ok := lvl.qv.Get(pos)
		if !ok {
			return 0, false
		}
		sym = (sym << 2) | uint64(d)
		r, _ := lvl.rank.Rank(d, pos)
		pos = lvl.prefix[d] + r
	}
	return S(sym), true
}

// Rank returns the number of occurrences of c in positions [0, i), for
// i in [0, Len()]. It returns false if i > Len() or c is not
// representable at the index's depth.
func (idx *Index[S]) Rank(c S, i uint64) (uint64, bool) {
	if i > idx.n {
		return 0, false
	}
	if idx.n == 0 {
		return 0, true // i == 0, since i > idx.n == 0 already excluded above
	}
	cVal := uint64(c)
	if cVal >= pow4(idx.depth) {
		return 0, false
	}
	if i == 0 {
		return 0, true
	}

	lo, hi := uint64(0), i
	for l := 0; l < int(idx.depth); l++ {
		shift := uint(2 * (int(idx.depth) - 1 - l))
		d := uint8((cVal >> shift) & 0b11)
		lvl := idx.levels[l]
		rLo, _ := lvl.rank.Rank(d, lo)
		rHi, _ := lvl.rank.Rank(d, hi)
		lo = lvl.prefix[d] + rLo
		hi = lvl.prefix[d] + rHi
	}
	return hi - lo, true
}

// Select returns the position of the j-th occurrence of c (1-indexed).
// It returns false when j == 0, j exceeds the total occurrences of c,
// or c is not representable at the index's depth.
func (idx *Index[S]) Select(c S, j uint64) (uint64, bool) {
	if idx.n == 0 || j == 0 {
		return 0, false
	}
	cVal := uint64(c)
	if cVal >= pow4(idx.depth) {
		return 0, false
	}

	digits := make([]uint8, idx.depth)
	for l := 0; l < int(idx.depth); l++ {
		shift := uint(2 * (int(idx.depth) - 1 - l))
		digits[l] = uint8((cVal >> shift) & 0b11)
	}

	lo, hi := uint64(0), idx.n
	for l, d := range digits {
		lvl := idx.levels[l]
		rLo, _ := lvl.rank.Rank(d, lo)
		rHi, _ := lvl.rank.Rank(d, hi)
		lo, hi = lvl.prefix[d]+rLo, lvl.prefix[d]+rHi
	}
	if j > hi-lo {
		return 0, false
	}
	pos := lo + j - 1
	for l := int(idx.depth) - 1; l >= 0; l-- {
		lvl := idx.levels[l]
		p, ok := lvl.sel.Select(digits[l], pos-lvl.prefix[digits[l]]+1)
		if !ok {
			return 0, false
		}
		pos = p
	}
	return pos, true
}
