// Package tickbitmap implements the sparse, word-indexed bitmap of
// initialized ticks described in spec.md §4.5: each 256-bit word packs the
// initialized flags for 256 consecutive compressed ticks, letting the swap
// loop bound a single step's search to one word. Unlike both
// bampan-uniswap-simulator and defistate-defistate-client-go, which
// simulate this search over a sorted slice of already-known touched ticks,
// this package keeps genuine per-word uint256 storage so a word can be
// read back directly (the tickBitmap(wordPos) accessor in spec.md §6) and
// the bitmap-faithfulness invariant (spec.md §8) is checkable bit-for-bit.
package tickbitmap

import (
	"fmt"
	"math/bits"

	"github.com/holiman/uint256"

	"github.com/clammcore/clamm-core/lib/clammerrors"
)

var one = uint256.NewInt(1)

// Bitmap is the set of initialized ticks for a pool at a fixed tick
// spacing, partitioned into 256-bit words.
type Bitmap struct {
	words       map[int16]*uint256.Int
	tickSpacing int32
}

// New returns an empty bitmap for the given tick spacing.
func New(tickSpacing int32) *Bitmap {
	return &Bitmap{words: make(map[int16]*uint256.Int), tickSpacing: tickSpacing}
}

// Word returns a copy of the 256-bit word at wordPos (the zero word if
// nothing has ever been flipped in it), per spec.md §6's tickBitmap(wordPos)
// read accessor.
func (b *Bitmap) Word(wordPos int16) *uint256.Int {
	w, ok := b.words[wordPos]
	if !ok {
		return new(uint256.Int)
	}
	return w.Clone()
}

// FlipTick toggles the initialized bit for tick, which must be aligned to
// the bitmap's tick spacing.
func (b *Bitmap) FlipTick(tick int32) error {
	if tick%b.tickSpacing != 0 {
		return fmt.Errorf("tick %d not aligned to spacing %d: %w", tick, b.tickSpacing, clammerrors.ErrInvalidTickRange)
	}
	compressed := tick / b.tickSpacing
	wordPos, bitPos := position(compressed)

	word := b.wordAt(wordPos)
	mask := new(uint256.Int).Lsh(one, uint(bitPos))
	word.Xor(word, mask)
	b.words[wordPos] = word
	return nil
}

// NextInitializedTickWithinOneWord scans the word containing compressed(tick)
// (when lte) or compressed(tick)+1 (otherwise) for the nearest initialized
// tick at-or-below (lte) or strictly above (!lte) tick, never crossing a
// word boundary. If no initialized tick exists in that word it returns the
// word's boundary tick with found=false.
func (b *Bitmap) NextInitializedTickWithinOneWord(tick int32, lte bool) (next int32, found bool) {
	compressed := floorDiv(tick, b.tickSpacing)

	if lte {
		wordPos, bitPos := position(compressed)
		word := b.wordAt(wordPos)

		mask := new(uint256.Int).Sub(new(uint256.Int).Lsh(one, uint(bitPos)+1), one)
		masked := new(uint256.Int).And(word, mask)

		if !masked.IsZero() {
			msb := mostSignificantBit(masked)
			return (compressed - int32(bitPos-msb)) * b.tickSpacing, true
		}
		return (compressed - int32(bitPos)) * b.tickSpacing, false
	}

	wordPos, bitPos := position(compressed + 1)
	word := b.wordAt(wordPos)

	belowMask := new(uint256.Int).Sub(new(uint256.Int).Lsh(one, uint(bitPos)), one)
	mask := new(uint256.Int).Not(belowMask)
	masked := new(uint256.Int).And(word, mask)

	if !masked.IsZero() {
		lsb := leastSignificantBit(masked)
		return (compressed + 1 + int32(lsb-bitPos)) * b.tickSpacing, true
	}
	return (compressed + 1 + int32(255-bitPos)) * b.tickSpacing, false
}

// Clone returns a deep copy of the bitmap, for a caller that needs to
// snapshot state before a mutation it may have to roll back.
func (b *Bitmap) Clone() *Bitmap {
	words := make(map[int16]*uint256.Int, len(b.words))
	for wordPos, word := range b.words {
		words[wordPos] = word.Clone()
	}
	return &Bitmap{words: words, tickSpacing: b.tickSpacing}
}

func (b *Bitmap) wordAt(wordPos int16) *uint256.Int {
	w, ok := b.words[wordPos]
	if !ok {
		return new(uint256.Int)
	}
	return w
}

// position splits a compressed tick into its word index and bit offset.
func position(compressed int32) (wordPos int16, bitPos uint8) {
	return int16(compressed >> 8), uint8(compressed & 0xff)
}

// floorDiv divides tick by spacing rounding toward negative infinity,
// matching the canonical TickBitmap.position's treatment of negative ticks
// (Go's / truncates toward zero like Solidity's, so an explicit correction
// is needed for negative, non-exact divisions).
func floorDiv(tick, spacing int32) int32 {
	q := tick / spacing
	if tick < 0 && tick%spacing != 0 {
		q--
	}
	return q
}

func mostSignificantBit(x *uint256.Int) uint8 {
	return uint8(x.BitLen() - 1)
}

func leastSignificantBit(x *uint256.Int) uint8 {
	for i := 0; i < 4; i++ {
		if x[i] != 0 {
			return uint8(i*64 + bits.TrailingZeros64(x[i]))
		}
	}
	return 0
}
