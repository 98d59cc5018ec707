package snapshotcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cloblabs/clob-go/internal/config"
	"github.com/cloblabs/clob-go/internal/model"
)

// Store holds the connection pool backing the snapshot cache.
type Store struct {
	pool *pgxpool.Pool
}

// Connect opens a pool against cfg and verifies it with a ping. Pool
// sizing rides in the DSN BuildConnString produced.
func Connect(ctx context.Context, cfg config.DBConfig) (*Store, error) {
	pool, err := pgxpool.New(ctx, BuildConnString(cfg))
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Store{pool: pool}, nil
}

// Close releases the pool.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Ping verifies the connection is healthy.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return fmt.Errorf("ping snapshot cache: %w", err)
	}
	return nil
}

// schema is applied once by EnsureSchema. One row per asset: the latest
// snapshot replaces the prior one, since this table exists only for lag
// reconciliation, not historical replay.
const schema = `
CREATE TABLE IF NOT EXISTS orderbook_snapshots (
	asset_id         TEXT PRIMARY KEY,
	market           TEXT NOT NULL,
	tick_size        TEXT NOT NULL,
	min_order_size   TEXT NOT NULL,
	neg_risk         BOOLEAN NOT NULL,
	last_trade_price TEXT NOT NULL DEFAULT '',
	bids             JSONB NOT NULL,
	asks             JSONB NOT NULL,
	ts               TEXT NOT NULL,
	updated_at       TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// EnsureSchema creates the snapshot table if it does not already exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure snapshot_cache schema: %w", err)
	}
	return nil
}

// snapshotRow is the flat shape a snapshot takes in the table: both book
// sides are folded to JSONB columns so the row stays one-per-asset with no
// child table to join.
type snapshotRow struct {
	AssetID        string
	Market         string
	TickSize       string
	MinOrderSize   string
	NegRisk        bool
	LastTradePrice string
	Bids           []byte
	Asks           []byte
	Timestamp      string
}

func rowFromSnapshot(snap model.OrderbookSnapshot) (snapshotRow, error) {
	bids, err := json.Marshal(snap.Bids)
	if err != nil {
		return snapshotRow{}, fmt.Errorf("marshal bids: %w", err)
	}
	asks, err := json.Marshal(snap.Asks)
	if err != nil {
		return snapshotRow{}, fmt.Errorf("marshal asks: %w", err)
	}
	return snapshotRow{
		AssetID:        snap.AssetID,
		Market:         snap.Market,
		TickSize:       snap.TickSize,
		MinOrderSize:   snap.MinOrderSize,
		NegRisk:        snap.NegRisk,
		LastTradePrice: snap.LastTradePrice,
		Bids:           bids,
		Asks:           asks,
		Timestamp:      snap.Timestamp,
	}, nil
}

func (r snapshotRow) toSnapshot() (model.OrderbookSnapshot, error) {
	snap := model.OrderbookSnapshot{
		AssetID:        r.AssetID,
		Market:         r.Market,
		TickSize:       r.TickSize,
		MinOrderSize:   r.MinOrderSize,
		NegRisk:        r.NegRisk,
		LastTradePrice: r.LastTradePrice,
		Timestamp:      r.Timestamp,
	}
	if err := json.Unmarshal(r.Bids, &snap.Bids); err != nil {
		return model.OrderbookSnapshot{}, fmt.Errorf("unmarshal cached bids: %w", err)
	}
	if err := json.Unmarshal(r.Asks, &snap.Asks); err != nil {
		return model.OrderbookSnapshot{}, fmt.Errorf("unmarshal cached asks: %w", err)
	}
	return snap, nil
}

// Put upserts the latest snapshot for snap.AssetID, overwriting whatever was
// cached before — a lagged consumer only ever needs the newest state.
func (s *Store) Put(ctx context.Context, snap model.OrderbookSnapshot) error {
	row, err := rowFromSnapshot(snap)
	if err != nil {
		return err
	}

	const upsert = `
INSERT INTO orderbook_snapshots (asset_id, market, tick_size, min_order_size, neg_risk, last_trade_price, bids, asks, ts, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now())
ON CONFLICT (asset_id) DO UPDATE SET
	market = EXCLUDED.market,
	tick_size = EXCLUDED.tick_size,
	min_order_size = EXCLUDED.min_order_size,
	neg_risk = EXCLUDED.neg_risk,
	last_trade_price = EXCLUDED.last_trade_price,
	bids = EXCLUDED.bids,
	asks = EXCLUDED.asks,
	ts = EXCLUDED.ts,
	updated_at = now()`

	_, err = s.pool.Exec(ctx, upsert,
		row.AssetID, row.Market, row.TickSize, row.MinOrderSize, row.NegRisk,
		row.LastTradePrice, row.Bids, row.Asks, row.Timestamp)
	if err != nil {
		return fmt.Errorf("upsert snapshot for asset %s: %w", snap.AssetID, err)
	}
	return nil
}

// Get returns the most recently cached snapshot for assetID. ok is false if
// nothing has been cached yet for that asset.
func (s *Store) Get(ctx context.Context, assetID string) (snap model.OrderbookSnapshot, ok bool, err error) {
	const query = `
SELECT asset_id, market, tick_size, min_order_size, neg_risk, last_trade_price, bids, asks, ts
FROM orderbook_snapshots WHERE asset_id = $1`

	var r snapshotRow
	err = s.pool.QueryRow(ctx, query, assetID).Scan(&r.AssetID, &r.Market, &r.TickSize,
		&r.MinOrderSize, &r.NegRisk, &r.LastTradePrice, &r.Bids, &r.Asks, &r.Timestamp)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.OrderbookSnapshot{}, false, nil
	}
	if err != nil {
		return model.OrderbookSnapshot{}, false, fmt.Errorf("get snapshot for asset %s: %w", assetID, err)
	}

	snap, err = r.toSnapshot()
	if err != nil {
		return model.OrderbookSnapshot{}, false, err
	}
	return snap, true, nil
}
