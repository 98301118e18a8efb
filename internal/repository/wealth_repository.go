package repository

import (
	"context"
	"database/sql"
	"fmt"

	"wealth_aggregator/internal/app/port"
	"wealth_aggregator/internal/domain/entity"
	"wealth_aggregator/pkg/metrics"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS maker_wealths (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	maker_address TEXT    NOT NULL,
	chain_id      INTEGER NOT NULL,
	chain_name    TEXT    NOT NULL,
	token_address TEXT    NOT NULL,
	token_symbol  TEXT    NOT NULL,
	decimals      INTEGER NOT NULL,
	value         TEXT    NOT NULL,
	created_at    TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_maker_wealths_maker ON maker_wealths (maker_address, chain_id);
`

const insertRow = `
INSERT INTO maker_wealths (maker_address, chain_id, chain_name, token_address, token_symbol, decimals, value)
VALUES (?, ?, ?, ?, ?, ?, ?)`

// sqliteWealthRepository implements port.WealthRepository on a local sqlite
// database, one row per resolved slot.
type sqliteWealthRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSQLiteWealthRepository opens (and bootstraps) the wealth database.
func NewSQLiteWealthRepository(path string, logger *zap.Logger) (port.WealthRepository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open wealth database %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to bootstrap wealth schema: %w", err)
	}
	return &sqliteWealthRepository{
		db:     db,
		logger: logger.Named("WealthRepository"),
	}, nil
}

// SaveWealths inserts one row per slot carrying a value. Inserts are
// sequential and independent: the first failure is returned as-is and rows
// written before it stay committed. Slots that never resolved (nil value)
// are skipped rather than recorded as fake zeros.
func (r *sqliteWealthRepository) SaveWealths(ctx context.Context, chains []*entity.WealthChain) error {
	stmt, err := r.db.PrepareContext(ctx, insertRow)
	if err != nil {
		return fmt.Errorf("failed to prepare wealth insert: %w", err)
	}
	defer stmt.Close()

	rows := 0
	skipped := 0
	for _, chain := range chains {
		for _, slot := range chain.Slots {
			if slot.Value == nil {
				skipped++
				continue
			}
			if _, err := stmt.ExecContext(ctx,
				chain.MakerAddress,
				chain.ChainID,
				chain.ChainName,
				slot.TokenAddress,
				slot.TokenSymbol,
				slot.Decimals,
				*slot.Value,
			); err != nil {
				return fmt.Errorf("failed to insert wealth row (maker %s, chain %d, token %q): %w",
					chain.MakerAddress, chain.ChainID, slot.TokenAddress, err)
			}
			rows++
			metrics.WealthRowsPersisted.Inc()
		}
	}

	r.logger.Info("Wealth rows persisted", zap.Int("rows", rows), zap.Int("skippedUnresolved", skipped))
	return nil
}

// Close releases the underlying database handle.
func (r *sqliteWealthRepository) Close() error {
	return r.db.Close()
}
