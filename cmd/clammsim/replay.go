package main

import (
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog/log"

	"github.com/clammcore/clamm-core/lib/pool"
)

// runReplay loads a simulation file and applies its transactions to a
// freshly constructed pool in order, logging the resulting state after
// each step. It stops at the first transaction the pool rejects.
func runReplay(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read simulation file: %w", err)
	}

	sim, err := parseSimulationFile(raw)
	if err != nil {
		return err
	}

	token0, err := parseAddress("token0", sim.Token0)
	if err != nil {
		return err
	}
	token1, err := parseAddress("token1", sim.Token1)
	if err != nil {
		return err
	}
	initialSqrtPriceX96, err := parseU256("initialSqrtPriceX96", sim.InitialSqrtPriceX96)
	if err != nil {
		return err
	}

	p := pool.NewPool(token0, token1, initialSqrtPriceX96, sim.InitialTick)
	ledger := newAutoFundingLedger(token0, token1)

	log.Info().
		Str("token0", token0.Hex()).
		Str("token1", token1.Hex()).
		Int32("initialTick", sim.InitialTick).
		Int("transactions", len(sim.Transactions)).
		Msg("pool initialized")

	for i, tx := range sim.Transactions {
		if err := applyTransaction(p, ledger, token0, token1, tx); err != nil {
			return fmt.Errorf("transaction %d (%s): %w", i, tx.Type, err)
		}

		slot0 := p.Slot0()
		log.Info().
			Int("index", i).
			Str("type", tx.Type).
			Str("sqrtPriceX96", slot0.SqrtPriceX96.String()).
			Int32("tick", slot0.Tick).
			Str("liquidity", p.Liquidity().String()).
			Msg("transaction applied")

		if tx.Type == "Mint" {
			logMintDetail(p, tx)
		}
	}

	return nil
}

// logMintDetail exercises the pool's remaining read accessors
// (Position, Tick, TickBitmapWord) against the range a mint just
// touched, at debug level since it's diagnostic detail rather than
// the step-by-step trace runReplay otherwise prints.
func logMintDetail(p *pool.Pool, tx transactionSpec) {
	owner, err := parseAddress("owner", tx.Owner)
	if err != nil {
		return
	}

	lowerLiquidity := p.Position(owner, tx.TickLower, tx.TickUpper)
	lowerInfo := p.Tick(tx.TickLower)
	upperInfo := p.Tick(tx.TickUpper)

	log.Debug().
		Str("positionLiquidity", lowerLiquidity.String()).
		Str("lowerTickLiquidityNet", lowerInfo.LiquidityNet.String()).
		Str("upperTickLiquidityNet", upperInfo.LiquidityNet.String()).
		Str("lowerWord", p.TickBitmapWord(int16(tx.TickLower>>8)).String()).
		Str("upperWord", p.TickBitmapWord(int16(tx.TickUpper>>8)).String()).
		Msg("mint range detail")
}

func applyTransaction(p *pool.Pool, ledger *autoFundingLedger, token0, token1 common.Address, tx transactionSpec) error {
	switch tx.Type {
	case "Mint":
		owner, err := parseAddress("owner", tx.Owner)
		if err != nil {
			return err
		}
		amount, err := parseU256("amount", tx.Amount)
		if err != nil {
			return err
		}
		_, _, err = p.Mint(owner, tx.TickLower, tx.TickUpper, amount, ledger, ledger.mintCallback(token0, token1), nil)
		return err

	case "Swap":
		recipient, err := parseAddress("recipient", tx.Recipient)
		if err != nil {
			return err
		}
		amountSpecified, err := parseU256("amountSpecified", tx.AmountSpecified)
		if err != nil {
			return err
		}
		_, _, err = p.Swap(recipient, tx.ZeroForOne, amountSpecified, ledger, ledger.swapCallback(token0, token1), nil)
		return err

	default:
		return fmt.Errorf("unknown transaction type %q", tx.Type)
	}
}
