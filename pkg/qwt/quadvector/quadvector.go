// Package quadvector implements QuadVector, a bit-packed sequence of
// 2-bit symbols (values in {0,1,2,3}) over a BitVector, plus the word-
// level popcount primitive that RankSupport and SelectSupport build on.
package quadvector

import (
	"math/bits"

	"github.com/xflash-panda/qwt/pkg/qwt/bitvector"
)

// QuadVector is an ordered sequence of n 2-bit symbols. The symbol at
// index i occupies bits [2i, 2i+2) of the underlying BitVector.
type QuadVector struct {
	bv *bitvector.BitVector
	n  uint64
}

// New returns a length-n QuadVector of zeros.
func New(n uint64) *QuadVector {
	return &QuadVector{bv: bitvector.New(n * 2), n: n}
}

// FromWords wraps existing bitvector words as a QuadVector of length n,
// used when reconstructing from serialized storage.
func FromWords(words []uint64, n uint64) *QuadVector {
	return &QuadVector{bv: bitvector.FromWords(words, n*2), n: n}
}

// Len returns the number of symbols.
func (q *QuadVector) Len() uint64 {
	return q.n
}

// BitVector returns the backing bit vector, for rank/select support and
// serialization.
func (q *QuadVector) BitVector() *bitvector.BitVector {
	return q.bv
}

// Get returns the symbol at i, or false if i is out of range.
func (q *QuadVector) Get(i uint64) (uint8, bool) {
	if i >= q.n {
		return 0, false
	}
	return uint8(q.bv.GetBits(i*2, 2)), true
}

// Set writes symbol s (low 2 bits used) at index i. Build-time only.
func (q *QuadVector) Set(i uint64, s uint8) {
	if i >= q.n {
		panic("quadvector: index out of range")
	}
	q.bv.SetBits(i*2, 2, uint64(s&0b11))
}

const (
	mask1 = uint64(0x5555555555555555) // low bit of every 2-bit lane
	mask2 = uint64(0xAAAAAAAAAAAAAAAA) // high bit of every 2-bit lane
)

// Popcount2Bit returns, for each symbol s in {0,1,2,3}, the count of
// lanes in word equal to s. word holds 32 2-bit lanes.
//
// For s=0 (both bits zero) and s=3 (both bits one) this is a direct AND
// of the complemented/uncomplemented low- and high-bit masks; s=1 and
// s=2 follow from masking by the complementary bit, as described by the
// combination of popcount(word & 0x5555...) and popcount(word & 0xAAAA...).
func Popcount2Bit(word uint64) [4]uint32 {
	return popcount2bitInLanes(word, 32)
}

// Popcount2BitPrefix is Popcount2Bit restricted to the first `lanes`
// 2-bit symbols of word (lanes in [0,32]); used to count a partial
// block/word without miscounting trailing lanes as symbol 0.
func Popcount2BitPrefix(word uint64, lanes int) [4]uint32 {
	return popcount2bitInLanes(word, lanes)
}

func popcount2bitInLanes(word uint64, lanes int) [4]uint32 {
	if lanes <= 0 {
		return [4]uint32{}
	}
	laneMask := mask1
	if lanes < 32 {
		laneMask = mask1 & ((uint64(1) << uint(2*lanes)) - 1)
	}
	a := (word & mask1) & laneMask
	b := ((word & mask2) >> 1) & laneMask
	notA := (^a) & laneMask
	notB := (^b) & laneMask
	return [4]uint32{
		uint32(bits.OnesCount64(notA & notB)),
		uint32(bits.OnesCount64(a & notB)),
		uint32(bits.OnesCount64(notA & b)),
		uint32(bits.OnesCount64(a & b)),
	}
}
