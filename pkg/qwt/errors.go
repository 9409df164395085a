package qwt

import "errors"

// Build and deserialize errors. Query methods (Access/Rank/Select) never
// return an error — contractually invalid arguments surface as an
// absent (ok == false) result instead, never exceptional control flow
// on the query hot path.
var (
	// ErrInvalidConfig is returned by Build when Config names an
	// unrecognized block size, a non power-of-two sample rate, or an
	// unrecognized width regime.
	ErrInvalidConfig = errors.New("qwt: invalid configuration")
	// ErrSymbolOverflow is returned by Build when a symbol in the input
	// sequence exceeds the configured width regime.
	ErrSymbolOverflow = errors.New("qwt: symbol exceeds configured width regime")
	// ErrTruncatedData is returned by Deserialize when the input ends
	// before a complete index has been read.
	ErrTruncatedData = errors.New("qwt: truncated serialized data")
	// ErrCorruptData is returned by Deserialize when the input's magic
	// header or configuration is not recognized.
	ErrCorruptData = errors.New("qwt: corrupt serialized data")
)
