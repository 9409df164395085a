package qwt

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

// naiveIndex answers Access/Rank/Select by brute force over a snapshot
// of the original sequence, for comparison against the built Index.
type naiveIndex[S Symbol] struct {
	seq []S
}

func (n naiveIndex[S]) access(i uint64) (S, bool) {
	if i >= uint64(len(n.seq)) {
		return 0, false
	}
	return n.seq[i], true
}

func (n naiveIndex[S]) rank(c S, i uint64) (uint64, bool) {
	if i > uint64(len(n.seq)) {
		return 0, false
	}
	var r uint64
	for _, v := range n.seq[:i] {
		if v == c {
			r++
		}
	}
	return r, true
}

func (n naiveIndex[S]) selectAt(c S, j uint64) (uint64, bool) {
	if j == 0 {
		return 0, false
	}
	var r uint64
	for i, v := range n.seq {
		if v == c {
			r++
			if r == j {
				return uint64(i), true
			}
		}
	}
	return 0, false
}

func buildAndVerify[S Symbol](t *testing.T, seq []S, cfg Config) *Index[S] {
	t.Helper()
	orig := append([]S(nil), seq...)
	nv := naiveIndex[S]{seq: orig}

	idx, err := Build(seq, cfg)
	require.NoError(t, err)
	require.Equal(t, uint64(len(orig)), idx.Len())

	for i := uint64(0); i <= uint64(len(orig)); i++ {
		wantSym, wantOk := nv.access(i)
		gotSym, gotOk := idx.Access(i)
		require.Equal(t, wantOk, gotOk, "access ok at %d", i)
		if wantOk {
			require.Equal(t, wantSym, gotSym, "access value at %d", i)
		}
	}

	seen := map[S]bool{}
	for _, v := range orig {
		seen[v] = true
	}
	for c := range seen {
		for i := uint64(0); i <= uint64(len(orig)); i++ {
			wantR, _ := nv.rank(c, i)
			gotR, ok := idx.Rank(c, i)
			require.True(t, ok, "rank ok for c=%v i=%d", c, i)
			require.Equal(t, wantR, gotR, "rank c=%v i=%d", c, i)
		}
		total, _ := nv.rank(c, uint64(len(orig)))
		for j := uint64(1); j <= total+1; j++ {
			wantP, wantOk := nv.selectAt(c, j)
			gotP, gotOk := idx.Select(c, j)
			require.Equal(t, wantOk, gotOk, "select ok c=%v j=%d", c, j)
			if wantOk {
				require.Equal(t, wantP, gotP, "select pos c=%v j=%d", c, j)
			}
		}
	}
	return idx
}

func TestBuildAndQuery_NarrowLiteral(t *testing.T) {
	seq := []uint8{1, 0, 1, 0, 3, 4, 5, 3}
	cfg := DefaultConfig()
	buildAndVerify(t, seq, cfg)
}

func TestBuildAndQuery_WideLiteral(t *testing.T) {
	seq := []uint32{1, 0, 1, 0, 2, 1000000, 5, 3}
	cfg := DefaultConfig()
	cfg.Width = WidthWide
	buildAndVerify(t, seq, cfg)
}

func TestBuildAndQuery_Empty(t *testing.T) {
	seq := []uint8{}
	idx, err := Build(seq, DefaultConfig())
	require.NoError(t, err)
	require.Equal(t, uint64(0), idx.Len())

	_, ok := idx.Access(0)
	require.False(t, ok)

	r, ok := idx.Rank(0, 0)
	require.True(t, ok)
	require.Equal(t, uint64(0), r)

	_, ok = idx.Select(0, 1)
	require.False(t, ok)
}

func TestBuildAndQuery_ConstantSequence(t *testing.T) {
	seq := []uint8{7, 7, 7, 7}
	buildAndVerify(t, seq, DefaultConfig())
}

func TestBuildAndQuery_RandomBytes(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	const n = 1 << 20
	seq := make([]uint8, n)
	for i := range seq {
		seq[i] = uint8(rng.Intn(256))
	}
	orig := append([]uint8(nil), seq...)
	nv := naiveIndex[uint8]{seq: orig}

	idx, err := Build(seq, DefaultConfig())
	require.NoError(t, err)
	require.Equal(t, uint64(n), idx.Len())

	for q := 0; q < 10000; q++ {
		switch rng.Intn(3) {
		case 0:
			i := uint64(rng.Intn(n + 1))
			want, wantOk := nv.access(i)
			got, gotOk := idx.Access(i)
			require.Equal(t, wantOk, gotOk)
			if wantOk {
				require.Equal(t, want, got)
			}
		case 1:
			c := uint8(rng.Intn(256))
			i := uint64(rng.Intn(n + 1))
			want, _ := nv.rank(c, i)
			got, ok := idx.Rank(c, i)
			require.True(t, ok)
			require.Equal(t, want, got)
		case 2:
			c := uint8(rng.Intn(256))
			total, _ := nv.rank(c, uint64(n))
			if total == 0 {
				continue
			}
			j := uint64(rng.Intn(int(total))) + 1
			want, wantOk := nv.selectAt(c, j)
			got, gotOk := idx.Select(c, j)
			require.Equal(t, wantOk, gotOk)
			if wantOk {
				require.Equal(t, want, got)
			}
		}
	}
}

// TestRankSelectRoundTrip checks invariant 4: select_c(rank_c(i)+1) == i
// when position i holds symbol c.
func TestRankSelectRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	const n = 5000
	seq := make([]uint8, n)
	for i := range seq {
		seq[i] = uint8(rng.Intn(4))
	}
	orig := append([]uint8(nil), seq...)
	idx, err := Build(seq, DefaultConfig())
	require.NoError(t, err)

	for i := uint64(0); i < n; i++ {
		c := orig[i]
		r, ok := idx.Rank(c, i)
		require.True(t, ok)
		pos, ok := idx.Select(c, r+1)
		require.True(t, ok)
		require.Equal(t, i, pos)
	}
}

func TestBuild_InvalidConfig(t *testing.T) {
	seq := []uint8{1, 2, 3}
	cfg := Config{Block: 999, SampleRate: 8192, Width: WidthNarrow}
	_, err := Build(seq, cfg)
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestBuild_SymbolOverflow(t *testing.T) {
	seq := []uint32{300}
	cfg := DefaultConfig()
	cfg.Width = WidthNarrow
	_, err := Build(seq, cfg)
	require.ErrorIs(t, err, ErrSymbolOverflow)
}

func TestBlock256Variant(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	seq := make([]uint8, 10000)
	for i := range seq {
		seq[i] = uint8(rng.Intn(4))
	}
	cfg := DefaultConfig()
	cfg.Block = 256
	buildAndVerify(t, seq, cfg)
}

func TestSpaceUsage_NonZeroAndConsistent(t *testing.T) {
	seq := []uint8{1, 0, 1, 0, 3, 4, 5, 3}
	idx, err := Build(seq, DefaultConfig())
	require.NoError(t, err)
	rpt := idx.SpaceUsage()
	require.Greater(t, rpt.Total(), uint64(0))
	require.Equal(t, rpt.Total(), idx.SpaceUsageBytes())
}
