// Package qselect implements SelectSupport: sampled pointers over a
// QuadVector that answer select_s(j), the position of the j-th
// occurrence of symbol s (1-indexed), via an O(1) sample lookup plus a
// scan bounded by SampleRate symbols.
package qselect

import "github.com/xflash-panda/qwt/pkg/qwt/quadvector"

// DefaultSampleRate is the default spacing between stored sample
// pointers, a power of two.
const DefaultSampleRate = 8192

// Support holds per-symbol sample pointers for one QuadVector.
type Support struct {
	qv         *quadvector.QuadVector
	sampleRate uint64
	// samples[s][k] is the position of the ((k+1)*sampleRate)-th
	// occurrence of s.
	samples [4][]uint64
	totals  [4]uint64
}

// Build walks qv once per symbol occurrence and records a sample
// pointer every sampleRate-th occurrence.
func Build(qv *quadvector.QuadVector, sampleRate uint64) *Support {
	n := qv.Len()
	var counts [4]uint64
	var samples [4][]uint64
	for i := uint64(0); i < n; i++ {
		s, _ := qv.Get(i)
		counts[s]++
		if counts[s]%sampleRate == 0 {
			samples[s] = append(samples[s], i)
		}
	}
	return &Support{qv: qv, sampleRate: sampleRate, samples: samples, totals: counts}
}

// FromParts reconstructs a Support from deserialized sample tables.
func FromParts(qv *quadvector.QuadVector, sampleRate uint64, samples [4][]uint64, totals [4]uint64) *Support {
	return &Support{qv: qv, sampleRate: sampleRate, samples: samples, totals: totals}
}

// Select returns the position of the j-th occurrence of s (1-indexed).
// It returns false when s > 3, j == 0, or j exceeds the total number of
// occurrences of s.
func (ss *Support) Select(s uint8, j uint64) (uint64, bool) {
	if s > 3 || j == 0 || j > ss.totals[s] {
		return 0, false
	}

	k := (j - 1) / ss.sampleRate
	var startPos, startRank uint64
	if k > 0 {
		startPos = ss.samples[s][k-1] + 1
		startRank = k * ss.sampleRate
	}
	need := j - startRank

	words := ss.qv.BitVector().Words()
	n := ss.qv.Len()

	wordIdx := startPos / 32
	lane := int(startPos % 32)
	var count uint64
	for wordIdx < uint64(len(words)) {
		word := words[wordIdx]
		full := quadvector.Popcount2Bit(word)[s]
		before := quadvector.Popcount2BitPrefix(word, lane)[s]
		avail := uint64(full - before)
		if count+avail >= need {
			for l := lane; l < 32; l++ {
				sym := uint8((word >> uint(2*l)) & 0b11)
				if sym == s {
					count++
					if count == need {
						pos := wordIdx*32 + uint64(l)
						if pos >= n {
							return 0, false
						}
						return pos, true
					}
				}
			}
			return 0, false
		}
		count += avail
		wordIdx++
		lane = 0
	}
	return 0, false
}

// SampleRate returns the configured sample spacing.
func (ss *Support) SampleRate() uint64 { return ss.sampleRate }

// Samples returns the sample pointer table for symbol s, for serialization.
func (ss *Support) Samples(s uint8) []uint64 { return ss.samples[s] }

// Totals returns the total occurrence count of every symbol.
func (ss *Support) Totals() [4]uint64 { return ss.totals }
