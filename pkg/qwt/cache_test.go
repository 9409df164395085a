package qwt

import (
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCachedIndex_MatchesUnderlying(t *testing.T) {
	rng := rand.New(rand.NewSource(21))
	seq := make([]uint8, 5000)
	for i := range seq {
		seq[i] = uint8(rng.Intn(256))
	}
	idx, err := Build(seq, DefaultConfig())
	require.NoError(t, err)

	cached, err := NewCachedIndex(idx)
	require.NoError(t, err)
	require.Equal(t, idx.Len(), cached.Len())

	for q := 0; q < 500; q++ {
		i := uint64(rng.Intn(5001))
		wantSym, wantOk := idx.Access(i)
		gotSym, gotOk := cached.Access(i)
		require.Equal(t, wantOk, gotOk)
		require.Equal(t, wantSym, gotSym)

		c := uint8(rng.Intn(256))
		wantR, wantOk := idx.Rank(c, i)
		gotR, gotOk := cached.Rank(c, i)
		require.Equal(t, wantOk, gotOk)
		require.Equal(t, wantR, gotR)
	}
}

func TestCachedIndex_RepeatedQueryHitsCache(t *testing.T) {
	seq := []uint8{1, 0, 1, 0, 3, 4, 5, 3}
	idx, err := Build(seq, DefaultConfig())
	require.NoError(t, err)

	cached, err := NewCachedIndexWithSize(idx, 16)
	require.NoError(t, err)

	before := cached.CacheLen()
	require.Equal(t, 0, before)

	for i := 0; i < 3; i++ {
		v, ok := cached.Access(2)
		require.True(t, ok)
		require.Equal(t, uint8(1), v)
	}
	require.Equal(t, 1, cached.CacheLen())

	cached.ClearCache()
	require.Equal(t, 0, cached.CacheLen())
}

func TestCachedIndex_ConcurrentAccessIsSafe(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	seq := make([]uint8, 2000)
	for i := range seq {
		seq[i] = uint8(rng.Intn(4))
	}
	idx, err := Build(seq, DefaultConfig())
	require.NoError(t, err)

	cached, err := NewCachedIndexWithSize(idx, 32)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for w := 0; w < 16; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for q := 0; q < 200; q++ {
				cached.Access(uint64(q % 2000))
				cached.Rank(uint8(q%4), uint64(q%2000))
				cached.Select(uint8(q%4), uint64(q%50)+1)
			}
		}()
	}
	wg.Wait()
}
