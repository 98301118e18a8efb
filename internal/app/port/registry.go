package port

import "wealth_aggregator/internal/domain/entity"

// MakerRegistry supplies the configured maker/pair rows.
type MakerRegistry interface {
	Entries() ([]entity.MakerPairEntry, error)
}
