package entity

// MakerPairEntry is one row from the maker registry: a market-maker address
// and the two chain legs of a configured trading pair. Rows are immutable and
// sourced externally.
type MakerPairEntry struct {
	MakerAddress  string `json:"makerAddress" yaml:"makerAddress"`
	Chain1ID      int64  `json:"chain1Id" yaml:"chain1Id"`
	Chain1Name    string `json:"chain1Name" yaml:"chain1Name"`
	Token1Address string `json:"token1Address" yaml:"token1Address"`
	Chain2ID      int64  `json:"chain2Id" yaml:"chain2Id"`
	Chain2Name    string `json:"chain2Name" yaml:"chain2Name"`
	Token2Address string `json:"token2Address" yaml:"token2Address"`
	TokenSymbol   string `json:"tokenSymbol" yaml:"tokenSymbol"`
	Decimals      int32  `json:"decimals" yaml:"decimals"`
}
