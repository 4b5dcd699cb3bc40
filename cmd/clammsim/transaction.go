package main

import (
	"encoding/json"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// simulationFile is the on-disk shape of a replay input: the pool's
// genesis state plus the ordered list of mint/swap transactions to
// apply to it. It is a deliberately thinner sibling of the teacher's
// TransactionInput: no fee tier, no id/timestamp bookkeeping, no
// Burn/Flash variants, since spec.md's pool carries none of those.
type simulationFile struct {
	Token0              string            `json:"token0"`
	Token1              string            `json:"token1"`
	InitialSqrtPriceX96 string            `json:"initialSqrtPriceX96"`
	InitialTick         int32             `json:"initialTick"`
	Transactions        []transactionSpec `json:"transactions"`
}

// transactionSpec is one line of the replay log. Type selects which
// fields apply: "Mint" reads Owner/TickLower/TickUpper/Amount, "Swap"
// reads Recipient/ZeroForOne/AmountSpecified.
type transactionSpec struct {
	Type            string `json:"type"`
	Owner           string `json:"owner,omitempty"`
	TickLower       int32  `json:"tickLower,omitempty"`
	TickUpper       int32  `json:"tickUpper,omitempty"`
	Amount          string `json:"amount,omitempty"`
	Recipient       string `json:"recipient,omitempty"`
	ZeroForOne      bool   `json:"zeroForOne,omitempty"`
	AmountSpecified string `json:"amountSpecified,omitempty"`
}

func parseSimulationFile(raw []byte) (*simulationFile, error) {
	var sim simulationFile
	if err := json.Unmarshal(raw, &sim); err != nil {
		return nil, fmt.Errorf("decode simulation file: %w", err)
	}
	if len(sim.Transactions) == 0 {
		return nil, fmt.Errorf("simulation file has no transactions")
	}
	return &sim, nil
}

func parseU256(field, s string) (*uint256.Int, error) {
	v, err := uint256.FromDecimal(s)
	if err != nil {
		return nil, fmt.Errorf("parse %s %q: %w", field, s, err)
	}
	return v, nil
}

func parseAddress(field, s string) (common.Address, error) {
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("parse %s %q: not a hex address", field, s)
	}
	return common.HexToAddress(s), nil
}
