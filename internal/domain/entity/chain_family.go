package entity

import (
	"fmt"
	"strings"
)

// ChainFamily identifies a class of networks sharing a balance-query protocol.
type ChainFamily string

const (
	FamilyEVM        ChainFamily = "evm"
	FamilyZkSync     ChainFamily = "zksync"
	FamilyLoopring   ChainFamily = "loopring"
	FamilyStarknet   ChainFamily = "starknet"
	FamilyImmutableX ChainFamily = "immutablex"
	FamilyDydx       ChainFamily = "dydx"
)

// ParseChainFamily maps a configured family string to a ChainFamily.
// An empty string falls back to the generic EVM family.
func ParseChainFamily(s string) (ChainFamily, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(FamilyEVM):
		return FamilyEVM, nil
	case string(FamilyZkSync):
		return FamilyZkSync, nil
	case string(FamilyLoopring):
		return FamilyLoopring, nil
	case string(FamilyStarknet):
		return FamilyStarknet, nil
	case string(FamilyImmutableX):
		return FamilyImmutableX, nil
	case string(FamilyDydx):
		return FamilyDydx, nil
	default:
		return "", fmt.Errorf("unknown chain family %q", s)
	}
}

// nativeSymbolByChainName lists the chains whose base currency is not ETH.
var nativeSymbolByChainName = map[string]string{
	"metis": "METIS",
}

// NativeSymbolForChain returns the display symbol used when a native-asset
// slot has to be synthesized for a chain.
func NativeSymbolForChain(chainName string) string {
	if symbol, ok := nativeSymbolByChainName[strings.ToLower(chainName)]; ok {
		return symbol
	}
	return "ETH"
}
