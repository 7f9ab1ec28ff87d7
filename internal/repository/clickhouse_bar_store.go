package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"StockPilot/internal/domain/models"
	drepo "StockPilot/internal/domain/repository"
	pkgch "StockPilot/pkg/clickhouse"
	applogger "StockPilot/pkg/logger"
)

const barsTable = "stockpilot.daily_bars"

// CHBarStore implements BarStore backed by ClickHouse.
type CHBarStore struct {
	db *sql.DB
	l  *applogger.Logger
}

func NewCHBarStore(ch *pkgch.Client) *CHBarStore {
	return &CHBarStore{db: ch.DB()}
}

// SetLogger injects a structured logger.
func (s *CHBarStore) SetLogger(l *applogger.Logger) { s.l = l }

var _ drepo.BarStore = (*CHBarStore)(nil)

// Schema returns the idempotent DDL the store needs.
func Schema() []string {
	return []string{
		"CREATE DATABASE IF NOT EXISTS stockpilot",
		`CREATE TABLE IF NOT EXISTS ` + barsTable + ` (
			symbol String,
			d Date,
			open Float64,
			high Float64,
			low Float64,
			close Float64,
			volume Int64
		) ENGINE=ReplacingMergeTree ORDER BY (symbol, d)`,
	}
}

func (s *CHBarStore) Load(ctx context.Context, symbol string) ([]models.PriceBar, error) {
	start := time.Now()
	const q = `
		SELECT d, open, high, low, close, volume
		FROM ` + barsTable + ` FINAL
		WHERE symbol = ?
		ORDER BY d ASC
	`
	rows, err := s.db.QueryContext(ctx, q, symbol)
	if err != nil {
		s.logErr("load query error", symbol, err)
		return nil, fmt.Errorf("load bars: %w", err)
	}
	defer rows.Close()

	out := make([]models.PriceBar, 0, 4096)
	for rows.Next() {
		var b models.PriceBar
		if err := rows.Scan(&b.Date, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume); err != nil {
			s.logErr("load scan error", symbol, err)
			return nil, fmt.Errorf("scan bar: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		s.logErr("load rows error", symbol, err)
		return nil, fmt.Errorf("rows: %w", err)
	}
	if s.l != nil {
		s.l.Debug("clickhouse load_bars ok",
			applogger.String("symbol", symbol),
			applogger.Int("rows", len(out)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return out, nil
}

func (s *CHBarStore) Save(ctx context.Context, symbol string, bars []models.PriceBar) error {
	if len(bars) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO "+barsTable+" (symbol, d, open, high, low, close, volume) VALUES (?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	for _, b := range bars {
		if _, err := stmt.ExecContext(ctx, symbol, b.Date, b.Open, b.High, b.Low, b.Close, b.Volume); err != nil {
			_ = tx.Rollback()
			s.logErr("save exec error", symbol, err)
			return fmt.Errorf("insert bar: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	if s.l != nil {
		s.l.Debug("clickhouse save_bars ok", applogger.String("symbol", symbol), applogger.Int("rows", len(bars)))
	}
	return nil
}

func (s *CHBarStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *CHBarStore) Close() error {
	return nil // lifetime of *sql.DB owned by pkg/clickhouse client
}

func (s *CHBarStore) logErr(msg, symbol string, err error) {
	if s.l != nil {
		s.l.Error("clickhouse "+msg, applogger.String("symbol", symbol), applogger.Error(err))
	}
}
