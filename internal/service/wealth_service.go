package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"wealth_aggregator/internal/app/port"
	"wealth_aggregator/internal/config"
	"wealth_aggregator/internal/domain/entity"
	"wealth_aggregator/internal/pkg/utils"
	"wealth_aggregator/pkg/metrics"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrInvalidArgument is returned when a caller passes an empty maker address.
var ErrInvalidArgument = errors.New("invalid argument")

// wealthServiceImpl implements port.WealthService.
type wealthServiceImpl struct {
	registry             port.MakerRegistry
	adapters             port.AdapterProvider
	repo                 port.WealthRepository
	logger               *zap.Logger
	maxConcurrentFetches int
	slotTimeout          time.Duration
}

// NewWealthService creates a new instance of WealthService.
func NewWealthService(
	registry port.MakerRegistry,
	adapters port.AdapterProvider,
	repo port.WealthRepository,
	cfg *config.Config,
	logger *zap.Logger,
) port.WealthService {
	maxFetches := cfg.Aggregator.MaxConcurrentFetches
	if maxFetches <= 0 {
		maxFetches = 1
	}
	return &wealthServiceImpl{
		registry:             registry,
		adapters:             adapters,
		repo:                 repo,
		logger:               logger.Named("WealthService"),
		maxConcurrentFetches: maxFetches,
		slotTimeout:          time.Duration(cfg.Aggregator.SlotTimeoutMs) * time.Millisecond,
	}
}

// ShapeRequests builds one WealthChain per chain the registry associates with
// the maker, with at most one slot per token address and exactly one
// native-asset slot per chain. Output order is discovery order during the
// registry scan.
func (s *wealthServiceImpl) ShapeRequests(makerAddress string) ([]*entity.WealthChain, error) {
	if strings.TrimSpace(makerAddress) == "" {
		return nil, fmt.Errorf("%w: maker address must not be empty", ErrInvalidArgument)
	}

	entries, err := s.registry.Entries()
	if err != nil {
		return nil, fmt.Errorf("failed to load maker registry: %w", err)
	}

	chains := make([]*entity.WealthChain, 0)
	chainByID := make(map[int64]*entity.WealthChain)
	slotKeys := make(map[int64]map[string]bool)

	addLeg := func(chainID int64, chainName, tokenAddress, tokenSymbol string, decimals int32) {
		chain, ok := chainByID[chainID]
		if !ok {
			chain = &entity.WealthChain{
				MakerAddress: makerAddress,
				ChainID:      chainID,
				ChainName:    chainName,
			}
			chainByID[chainID] = chain
			slotKeys[chainID] = make(map[string]bool)
			chains = append(chains, chain)
		}
		key := strings.ToLower(tokenAddress)
		if slotKeys[chainID][key] {
			// First writer wins; duplicate token rows are silently ignored.
			return
		}
		slotKeys[chainID][key] = true
		chain.Slots = append(chain.Slots, &entity.BalanceSlot{
			TokenAddress: tokenAddress,
			TokenSymbol:  tokenSymbol,
			Decimals:     decimals,
		})
	}

	for _, e := range entries {
		if !strings.EqualFold(e.MakerAddress, makerAddress) {
			continue
		}
		addLeg(e.Chain1ID, e.Chain1Name, e.Token1Address, e.TokenSymbol, e.Decimals)
		addLeg(e.Chain2ID, e.Chain2Name, e.Token2Address, e.TokenSymbol, e.Decimals)
	}

	for _, chain := range chains {
		ensureNativeSlot(chain)
	}

	s.logger.Debug("Shaped wealth requests",
		zap.String("makerAddress", makerAddress),
		zap.Int("chainCount", len(chains)))
	return chains, nil
}

// ensureNativeSlot guarantees exactly one slot with an empty token address.
// An existing zero-address slot is canonicalized; extra native-looking slots
// are dropped; if none exists a native slot is synthesized at the front.
func ensureNativeSlot(chain *entity.WealthChain) {
	kept := chain.Slots[:0]
	found := false
	for _, slot := range chain.Slots {
		isNative := slot.TokenAddress == "" || strings.EqualFold(slot.TokenAddress, entity.ZeroAddress)
		if isNative {
			if found {
				continue
			}
			found = true
			slot.TokenAddress = ""
		}
		kept = append(kept, slot)
	}
	chain.Slots = kept

	if !found {
		native := &entity.BalanceSlot{
			TokenAddress: "",
			TokenSymbol:  entity.NativeSymbolForChain(chain.ChainName),
			Decimals:     entity.NativeDecimals,
		}
		chain.Slots = append([]*entity.BalanceSlot{native}, chain.Slots...)
	}
}

// FetchWealth shapes the requests for a maker and resolves every slot with a
// bounded parallel fan-out. The call returns once every slot has completed,
// successfully or not; a fault in one slot never aborts its siblings.
func (s *wealthServiceImpl) FetchWealth(ctx context.Context, makerAddress string) ([]*entity.WealthChain, error) {
	chains, err := s.ShapeRequests(makerAddress)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	eg, fetchCtx := errgroup.WithContext(ctx)
	eg.SetLimit(s.maxConcurrentFetches)

	slotCount := 0
	for _, chain := range chains {
		for _, slot := range chain.Slots {
			chain, slot := chain, slot
			slotCount++
			eg.Go(func() error {
				s.fetchSlot(fetchCtx, chain, slot)
				return nil
			})
		}
	}

	// Tasks never return errors, so Wait only reflects context cancellation.
	if err := eg.Wait(); err != nil {
		s.logger.Error("Wealth fan-out interrupted", zap.String("makerAddress", makerAddress), zap.Error(err))
	}
	if err := ctx.Err(); err != nil {
		return chains, fmt.Errorf("wealth aggregation aborted: %w", err)
	}

	s.logger.Info("Wealth fetched",
		zap.String("makerAddress", makerAddress),
		zap.Int("chainCount", len(chains)),
		zap.Int("slotCount", slotCount),
		zap.Duration("elapsed", time.Since(start)))
	return chains, nil
}

// fetchSlot resolves one slot. Any adapter fault is recovered here: it is
// logged with full maker/chain/token context and the slot stays unset.
func (s *wealthServiceImpl) fetchSlot(ctx context.Context, chain *entity.WealthChain, slot *entity.BalanceSlot) {
	adapter, ok := s.adapters.AdapterFor(chain.ChainID)
	if !ok {
		s.logger.Warn("No balance adapter for chain",
			zap.Int64("chainId", chain.ChainID),
			zap.String("chainName", chain.ChainName),
			zap.String("makerAddress", chain.MakerAddress))
		return
	}

	slotCtx, cancel := context.WithTimeout(ctx, s.slotTimeout)
	defer cancel()

	start := time.Now()
	raw, found, err := adapter.FetchRawBalance(slotCtx, entity.BalanceQuery{
		MakerAddress: chain.MakerAddress,
		ChainID:      chain.ChainID,
		ChainName:    chain.ChainName,
		TokenAddress: slot.TokenAddress,
		TokenSymbol:  slot.TokenSymbol,
	})
	metrics.ObserveBalanceFetch(string(adapter.Family()), time.Since(start), err)

	if err != nil {
		s.logger.Warn("Balance fetch failed, leaving slot unresolved",
			zap.String("makerAddress", chain.MakerAddress),
			zap.Int64("chainId", chain.ChainID),
			zap.String("chainName", chain.ChainName),
			zap.String("tokenAddress", slot.TokenAddress),
			zap.String("tokenSymbol", slot.TokenSymbol),
			zap.Error(err))
		return
	}
	if !found {
		s.logger.Debug("Balance not available for slot",
			zap.String("makerAddress", chain.MakerAddress),
			zap.Int64("chainId", chain.ChainID),
			zap.String("tokenSymbol", slot.TokenSymbol))
		return
	}
	if raw == "" {
		slot.Value = &raw
		return
	}

	normalized, err := utils.NormalizeRawBalance(raw, slot.Decimals)
	if err != nil {
		s.logger.Warn("Failed to normalize raw balance, leaving slot unresolved",
			zap.String("makerAddress", chain.MakerAddress),
			zap.Int64("chainId", chain.ChainID),
			zap.String("tokenSymbol", slot.TokenSymbol),
			zap.String("raw", raw),
			zap.Error(err))
		return
	}
	slot.Value = &normalized
}

// PersistWealth writes the resolved slots. Rows are inserted sequentially and
// the first failure propagates unmodified; prior rows stay committed.
func (s *wealthServiceImpl) PersistWealth(ctx context.Context, chains []*entity.WealthChain) error {
	if err := s.repo.SaveWealths(ctx, chains); err != nil {
		s.logger.Error("Failed to persist wealths", zap.Error(err))
		return err
	}
	return nil
}
