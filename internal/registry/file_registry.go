package registry

import (
	"fmt"
	"os"

	"wealth_aggregator/internal/app/port"
	"wealth_aggregator/internal/domain/entity"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// makerPairFile is the on-disk shape of the registry file.
type makerPairFile struct {
	Pairs []entity.MakerPairEntry `yaml:"pairs"`
}

// FileRegistry implements port.MakerRegistry by loading maker pair rows from
// a YAML file. The file is re-read on every Entries call so edits are picked
// up without a restart.
type FileRegistry struct {
	filePath string
	logger   *zap.Logger
}

// NewFileRegistry creates a registry backed by the given file path.
func NewFileRegistry(filePath string, logger *zap.Logger) port.MakerRegistry {
	return &FileRegistry{
		filePath: filePath,
		logger:   logger.Named("FileRegistry"),
	}
}

// Entries reads and validates the maker pair rows.
func (r *FileRegistry) Entries() ([]entity.MakerPairEntry, error) {
	data, err := os.ReadFile(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read maker registry file %s: %w", r.filePath, err)
	}

	var file makerPairFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to unmarshal maker registry file %s: %w", r.filePath, err)
	}

	entries := make([]entity.MakerPairEntry, 0, len(file.Pairs))
	for i, pair := range file.Pairs {
		if pair.MakerAddress == "" {
			r.logger.Warn("Skipping registry row without maker address", zap.Int("row", i))
			continue
		}
		if pair.Chain1ID <= 0 || pair.Chain2ID <= 0 {
			r.logger.Warn("Skipping registry row with invalid chain ids",
				zap.Int("row", i),
				zap.String("makerAddress", pair.MakerAddress),
				zap.Int64("chain1Id", pair.Chain1ID),
				zap.Int64("chain2Id", pair.Chain2ID))
			continue
		}
		if pair.Decimals <= 0 {
			r.logger.Warn("Registry row has no decimals, assuming native precision",
				zap.Int("row", i),
				zap.String("makerAddress", pair.MakerAddress),
				zap.String("tokenSymbol", pair.TokenSymbol))
			pair.Decimals = entity.NativeDecimals
		}
		entries = append(entries, pair)
	}

	r.logger.Debug("Maker registry loaded",
		zap.String("path", r.filePath),
		zap.Int("rows", len(file.Pairs)),
		zap.Int("accepted", len(entries)))
	return entries, nil
}
