package qwt

import (
	"math"

	"golang.org/x/exp/constraints"

	"github.com/xflash-panda/qwt/pkg/qwt/rank"
	"github.com/xflash-panda/qwt/pkg/qwt/qselect"
)

// Symbol is the capability set an index needs from its alphabet type:
// unsigned comparison, shift, and mask. Index is generic over Symbol
// rather than dispatching dynamically on the query hot path, per the
// narrow/wide instantiation split.
type Symbol interface {
	constraints.Unsigned
}

// Width selects which of the two symbol-width regimes an Index
// instantiates: narrow fits a byte-wide alphabet (σ ≤ 256), wide fits a
// 32-bit alphabet.
type Width int

const (
	// WidthNarrow allows symbols up to 255.
	WidthNarrow Width = iota
	// WidthWide allows symbols up to math.MaxUint32.
	WidthWide
)

func (w Width) checkRange(maxSymbol uint64) error {
	switch w {
	case WidthNarrow:
		if maxSymbol > 255 {
			return ErrSymbolOverflow
		}
	case WidthWide:
		if maxSymbol > math.MaxUint32 {
			return ErrSymbolOverflow
		}
	default:
		return ErrInvalidConfig
	}
	return nil
}

// Config selects the block-size variant, select sample spacing, and
// symbol-width regime used by Build.
type Config struct {
	Block      rank.BlockSize
	SampleRate uint64
	Width      Width
}

// DefaultConfig returns the BLOCK=512, SampleRate=8192, narrow-alphabet
// configuration.
func DefaultConfig() Config {
	return Config{
		Block:      rank.Block512,
		SampleRate: qselect.DefaultSampleRate,
		Width:      WidthNarrow,
	}
}

func (c Config) validate() error {
	if c.Block != rank.Block256 && c.Block != rank.Block512 {
		return ErrInvalidConfig
	}
	if c.SampleRate == 0 || c.SampleRate&(c.SampleRate-1) != 0 {
		return ErrInvalidConfig
	}
	if c.Width != WidthNarrow && c.Width != WidthWide {
		return ErrInvalidConfig
	}
	return nil
}
