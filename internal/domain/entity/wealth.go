package entity

// ZeroAddress represents the Ethereum zero address. Registry rows may use it
// interchangeably with an empty token address to mean the native asset.
const ZeroAddress = "0x0000000000000000000000000000000000000000"

// NativeDecimals is the precision assumed for synthesized native-asset slots.
const NativeDecimals = 18

// BalanceSlot is a single (token, value) unit to be resolved within a chain
// request. An empty TokenAddress denotes the chain's native asset. Value is
// nil until a fetch produced something; a fetched zero is the string "0",
// which stays distinguishable from "never resolved".
type BalanceSlot struct {
	TokenAddress string  `json:"tokenAddress" yaml:"tokenAddress"`
	TokenSymbol  string  `json:"tokenSymbol" yaml:"tokenSymbol"`
	Decimals     int32   `json:"decimals" yaml:"decimals"`
	Value        *string `json:"value,omitempty" yaml:"value,omitempty"`
}

// IsNative reports whether the slot refers to the chain's base currency.
func (s *BalanceSlot) IsNative() bool {
	return s.TokenAddress == ""
}

// WealthChain groups a maker address and one chain with the ordered set of
// balance slots to resolve there. Instances are built fresh per aggregation
// call, mutated once per slot, then handed to the persister and discarded.
type WealthChain struct {
	MakerAddress string         `json:"makerAddress" yaml:"makerAddress"`
	ChainID      int64          `json:"chainId" yaml:"chainId"`
	ChainName    string         `json:"chainName" yaml:"chainName"`
	Slots        []*BalanceSlot `json:"balances" yaml:"balances"`
}

// BalanceQuery carries everything a chain adapter needs to look up one slot.
type BalanceQuery struct {
	MakerAddress string
	ChainID      int64
	ChainName    string
	TokenAddress string
	TokenSymbol  string
}
