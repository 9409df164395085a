package quadvector

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetGet(t *testing.T) {
	qv := New(10)
	vals := []uint8{1, 0, 3, 2, 2, 1, 0, 3, 3, 1}
	for i, v := range vals {
		qv.Set(uint64(i), v)
	}
	for i, v := range vals {
		got, ok := qv.Get(uint64(i))
		assert.True(t, ok)
		assert.Equal(t, v, got)
	}
	_, ok := qv.Get(10)
	assert.False(t, ok)
}

func TestPopcount2BitFullWord(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 200; trial++ {
		var word uint64
		var want [4]uint32
		for lane := 0; lane < 32; lane++ {
			s := uint8(rng.Intn(4))
			word |= uint64(s) << uint(2*lane)
			want[s]++
		}
		got := Popcount2Bit(word)
		assert.Equal(t, want, got)
	}
}

func TestPopcount2BitPrefix(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 200; trial++ {
		var word uint64
		syms := make([]uint8, 32)
		for lane := 0; lane < 32; lane++ {
			s := uint8(rng.Intn(4))
			syms[lane] = s
			word |= uint64(s) << uint(2*lane)
		}
		lanes := rng.Intn(33)
		var want [4]uint32
		for lane := 0; lane < lanes; lane++ {
			want[syms[lane]]++
		}
		got := Popcount2BitPrefix(word, lanes)
		assert.Equal(t, want, got)
	}
}

func TestPopcount2BitZeroLanes(t *testing.T) {
	assert.Equal(t, [4]uint32{}, Popcount2BitPrefix(^uint64(0), 0))
}
