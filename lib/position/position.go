// Package position implements the owner+range-keyed liquidity position
// book described in spec.md §4.6. Each position is addressed by a
// collision-resistant 32-byte digest of its owner and tick range, computed
// with go-ethereum's Keccak256 rather than the teacher's
// `string(tickLower) + "-" + string(tickUpper)` concatenation — that
// conversion treats the tick as a Unicode code point, not a decimal
// string, and is not a key scheme worth reproducing.
package position

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"

	"github.com/clammcore/clamm-core/lib/liquiditymath"
)

// Info is a single position's bookkeeping record.
type Info struct {
	Liquidity *uint256.Int
}

// Book holds every position ever created for a pool, keyed by Key.
type Book struct {
	positions map[[32]byte]*Info
}

// NewBook returns an empty position book.
func NewBook() *Book {
	return &Book{positions: make(map[[32]byte]*Info)}
}

// Key returns the stable digest identifying the position owned by owner
// over [lowerTick, upperTick).
func Key(owner common.Address, lowerTick, upperTick int32) [32]byte {
	packed := make([]byte, 0, common.AddressLength+3+3)
	packed = append(packed, owner.Bytes()...)
	packed = append(packed, encodeTick(lowerTick)...)
	packed = append(packed, encodeTick(upperTick)...)

	var key [32]byte
	copy(key[:], crypto.Keccak256(packed))
	return key
}

// encodeTick packs a tick into 3 big-endian bytes (its two's complement
// i24 representation), matching spec.md's i24 tick width.
func encodeTick(tick int32) []byte {
	u := uint32(tick) & 0xFFFFFF
	return []byte{byte(u >> 16), byte(u >> 8), byte(u)}
}

// Clone returns a deep copy of the book, for a caller that needs to
// snapshot state before a mutation it may have to roll back.
func (b *Book) Clone() *Book {
	positions := make(map[[32]byte]*Info, len(b.positions))
	for key, info := range b.positions {
		positions[key] = &Info{Liquidity: info.Liquidity.Clone()}
	}
	return &Book{positions: positions}
}

// Get returns the position for (owner, lowerTick, upperTick), or a
// zero-liquidity Info if it has never been created. It never mutates
// the book — a pure read, matching spec.md §6's positions(key) accessor.
func (b *Book) Get(owner common.Address, lowerTick, upperTick int32) *Info {
	key := Key(owner, lowerTick, upperTick)
	info, ok := b.positions[key]
	if !ok {
		return &Info{Liquidity: new(uint256.Int)}
	}
	return info
}

// getOrCreate returns the position for (owner, lowerTick, upperTick),
// creating it with zero liquidity in the book if it does not already
// exist. Only Update, a mutator, uses this.
func (b *Book) getOrCreate(owner common.Address, lowerTick, upperTick int32) *Info {
	key := Key(owner, lowerTick, upperTick)
	info, ok := b.positions[key]
	if !ok {
		info = &Info{Liquidity: new(uint256.Int)}
		b.positions[key] = info
	}
	return info
}

// Update applies liquidityDelta to the position's liquidity, creating the
// position first if needed, and returns the resulting liquidity. Fails
// with liquiditymath's underflow error if the delta would drive liquidity
// negative.
func (b *Book) Update(owner common.Address, lowerTick, upperTick int32, liquidityDelta *big.Int) (*uint256.Int, error) {
	info := b.getOrCreate(owner, lowerTick, upperTick)
	next, err := liquiditymath.AddDelta(info.Liquidity, liquidityDelta)
	if err != nil {
		return nil, err
	}
	info.Liquidity = next
	return next.Clone(), nil
}
