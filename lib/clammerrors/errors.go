// Package clammerrors declares the exhaustive error taxonomy shared by the
// pool core packages. Every fallible operation wraps one of these sentinels
// with fmt.Errorf's %w so callers can still errors.Is against the kind.
package clammerrors

import "errors"

var (
	// ErrZeroLiquidity is returned by Mint when the requested amount is zero.
	ErrZeroLiquidity = errors.New("clamm: zero liquidity")

	// ErrInvalidTickRange is returned when lowerTick >= upperTick or either
	// tick falls outside [MinTick, MaxTick].
	ErrInvalidTickRange = errors.New("clamm: invalid tick range")

	// ErrTickOutOfRange is returned by tick/price conversions given a tick
	// outside [MinTick, MaxTick] or a sqrt price outside [MinSqrtRatio, MaxSqrtRatio).
	ErrTickOutOfRange = errors.New("clamm: tick out of range")

	// ErrLiquidityOverflow is returned when a tick's gross liquidity would
	// exceed the per-tick cap.
	ErrLiquidityOverflow = errors.New("clamm: liquidity overflow")

	// ErrLiquidityUnderflow is returned when a position or tick update would
	// drive liquidity negative.
	ErrLiquidityUnderflow = errors.New("clamm: liquidity underflow")

	// ErrNotEnoughLiquidity is returned by Swap when active liquidity is
	// exhausted before the requested amount is filled.
	ErrNotEnoughLiquidity = errors.New("clamm: not enough liquidity")

	// ErrInsufficientInputAmount is returned when the post-callback balance
	// check fails for mint or swap.
	ErrInsufficientInputAmount = errors.New("clamm: insufficient input amount")

	// ErrOverflow is returned by arithmetic primitives whose result does not
	// fit the target width, or that are asked to divide by zero.
	ErrOverflow = errors.New("clamm: arithmetic overflow")

	// ErrReentrant is returned when a callback re-enters Mint or Swap on the
	// same pool while an operation is already in flight.
	ErrReentrant = errors.New("clamm: reentrant call into pool")
)
