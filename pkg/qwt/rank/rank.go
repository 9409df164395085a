// Package rank implements RankSupport: hierarchical superblock/block
// counters layered over a QuadVector that answer rank_s(i), the number
// of occurrences of symbol s in the first i positions, in O(1) plus a
// bounded in-block popcount scan.
package rank

import "github.com/xflash-panda/qwt/pkg/qwt/quadvector"

// BlockSize is the number of symbols covered by one rank block.
type BlockSize uint32

const (
	// Block256 covers 256 symbols (512 bits) per block.
	Block256 BlockSize = 256
	// Block512 covers 512 symbols (1024 bits) per block.
	Block512 BlockSize = 512
)

// blocksPerSuper is K: the fixed number of blocks per superblock.
const blocksPerSuper = 44

// Support holds the per-symbol superblock and block counters for one
// QuadVector.
type Support struct {
	qv    *quadvector.QuadVector
	block BlockSize
	super uint64
	n     uint64

	// superCounts[sb][s] = count of s in [0, sb*SUPER). Length numSupers+1,
	// the final entry holding the grand total, mirroring the
	// one-past-the-end prefix-sum convention of a rank index.
	superCounts [][4]uint64
	// blockCounts[blk][s] = count of s since the start of blk's
	// superblock, up to the start of blk. Length numBlocks+1.
	blockCounts [][4]uint16
}

// Build walks qv once and constructs the two-level counter hierarchy.
func Build(qv *quadvector.QuadVector, block BlockSize) *Support {
	n := qv.Len()
	super := uint64(block) * blocksPerSuper
	numBlocks := ceilDiv(n, uint64(block))
	numSupers := ceilDiv(n, super)

	superCounts := make([][4]uint64, numSupers+1)
	blockCounts := make([][4]uint16, numBlocks+1)

	words := qv.BitVector().Words()
	wordsPerBlock := uint64(block) / 32

	var global, superLocal [4]uint64
	for blk := uint64(0); blk < numBlocks; blk++ {
		if blk%blocksPerSuper == 0 {
			superCounts[blk/blocksPerSuper] = global
			superLocal = [4]uint64{}
		}
		blockCounts[blk] = toU16(superLocal)

		startSym := blk * uint64(block)
		endSym := startSym + uint64(block)
		if endSym > n {
			endSym = n
		}
		startWord := startSym / 32
		for w := startWord; w < startWord+wordsPerBlock && w < uint64(len(words)); w++ {
			wordSymStart := w * 32
			lanes := 32
			if wordSymStart+32 > endSym {
				if endSym > wordSymStart {
					lanes = int(endSym - wordSymStart)
				} else {
					lanes = 0
				}
			}
			if lanes <= 0 {
				continue
			}
			cnts := quadvector.Popcount2BitPrefix(words[w], lanes)
			for s := 0; s < 4; s++ {
				global[s] += uint64(cnts[s])
				superLocal[s] += uint64(cnts[s])
			}
		}
	}
	superCounts[numSupers] = global
	if numBlocks%blocksPerSuper == 0 {
		blockCounts[numBlocks] = [4]uint16{}
	} else {
		blockCounts[numBlocks] = toU16(superLocal)
	}

	return &Support{
		qv: qv, block: block, super: super, n: n,
		superCounts: superCounts, blockCounts: blockCounts,
	}
}

// FromParts reconstructs a Support from deserialized counter tables.
func FromParts(qv *quadvector.QuadVector, block BlockSize, superCounts [][4]uint64, blockCounts [][4]uint16) *Support {
	return &Support{
		qv: qv, block: block, super: uint64(block) * blocksPerSuper, n: qv.Len(),
		superCounts: superCounts, blockCounts: blockCounts,
	}
}

// Rank returns rank_s(i), the number of occurrences of s in [0, i), for
// i in [0, n]. It returns false for s > 3 or i > n.
func (rs *Support) Rank(s uint8, i uint64) (uint64, bool) {
	if s > 3 || i > rs.n {
		return 0, false
	}
	if rs.n == 0 {
		return 0, true
	}
	sb := i / rs.super
	blk := i / uint64(rs.block)
	r := i % uint64(rs.block)

	base := rs.superCounts[sb][s] + uint64(rs.blockCounts[blk][s])
	if r == 0 {
		return base, true
	}

	words := rs.qv.BitVector().Words()
	wordsPerBlock := uint64(rs.block) / 32
	startWord := blk * uint64(rs.block) / 32

	remaining := r
	var extra uint64
	for w := startWord; w < startWord+wordsPerBlock && remaining > 0 && w < uint64(len(words)); w++ {
		lanes := 32
		if uint64(lanes) > remaining {
			lanes = int(remaining)
		}
		cnts := quadvector.Popcount2BitPrefix(words[w], lanes)
		extra += uint64(cnts[s])
		remaining -= uint64(lanes)
	}
	return base + extra, true
}

// Block returns the configured block size variant.
func (rs *Support) Block() BlockSize { return rs.block }

// SuperCounts returns the superblock counter table, for serialization.
func (rs *Support) SuperCounts() [][4]uint64 { return rs.superCounts }

// BlockCounts returns the block counter table, for serialization.
func (rs *Support) BlockCounts() [][4]uint16 { return rs.blockCounts }

func toU16(c [4]uint64) [4]uint16 {
	var r [4]uint16
	for i := range c {
		r[i] = uint16(c[i])
	}
	return r
}

func ceilDiv(a, b uint64) uint64 {
	if b == 0 {
		return 0
	}
	return (a + b - 1) / b
}
