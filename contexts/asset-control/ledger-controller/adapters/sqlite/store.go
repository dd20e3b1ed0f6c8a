package sqliteadapter

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"tokengate/contexts/asset-control/ledger-controller/domain/entities"
	domainerrors "tokengate/contexts/asset-control/ledger-controller/domain/errors"
	"tokengate/contexts/asset-control/ledger-controller/domain/valueobjects"
	"tokengate/contexts/asset-control/ledger-controller/ports"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS control_states (
	mint       TEXT PRIMARY KEY,
	payload    BLOB NOT NULL,
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS outbox (
	seq           INTEGER PRIMARY KEY AUTOINCREMENT,
	outbox_id     TEXT NOT NULL UNIQUE,
	event_type    TEXT NOT NULL,
	partition_key TEXT NOT NULL,
	payload       BLOB NOT NULL,
	created_at    INTEGER NOT NULL,
	published_at  INTEGER
);
CREATE INDEX IF NOT EXISTS outbox_pending_idx ON outbox (published_at, seq);
`

// Store keeps control state in SQLite using the fixed 33-byte payload
// layout. The pool holds a single connection, so units of work are
// serialized.
type Store struct {
	sqlDB *sql.DB
}

// Open opens a SQLite store and creates its tables.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close releases the SQLite connection.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *Store) GetControlState(ctx context.Context, mint valueobjects.Identity) (entities.ControlState, error) {
	if err := ctx.Err(); err != nil {
		return entities.ControlState{}, err
	}
	return readControlState(ctx, s.sqlDB, mint)
}

func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context, tx ports.StateTx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	sqlTx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(ctx, storeTx{tx: sqlTx}); err != nil {
		_ = sqlTx.Rollback()
		return err
	}
	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (s *Store) ListPendingOutbox(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT outbox_id, event_type, partition_key, payload, created_at
FROM outbox
WHERE published_at IS NULL
ORDER BY seq ASC
LIMIT ?
`, limit)
	if err != nil {
		return nil, fmt.Errorf("list pending outbox: %w", err)
	}
	defer rows.Close()

	var items []ports.OutboxMessage
	for rows.Next() {
		var (
			item      ports.OutboxMessage
			createdAt int64
		)
		if err := rows.Scan(&item.OutboxID, &item.EventType, &item.PartitionKey, &item.Payload, &createdAt); err != nil {
			return nil, fmt.Errorf("scan outbox row: %w", err)
		}
		item.CreatedAt = time.UnixMilli(createdAt).UTC()
		items = append(items, item)
	}
	return items, rows.Err()
}

func (s *Store) MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error {
	result, err := s.sqlDB.ExecContext(ctx,
		`UPDATE outbox SET published_at = ? WHERE outbox_id = ?`,
		publishedAt.UTC().UnixMilli(),
		strings.TrimSpace(outboxID),
	)
	if err != nil {
		return fmt.Errorf("mark outbox published: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domainerrors.ErrInvalidInput
	}
	return nil
}

type storeTx struct {
	tx *sql.Tx
}

func (t storeTx) GetControlState(ctx context.Context, mint valueobjects.Identity) (entities.ControlState, error) {
	return readControlState(ctx, t.tx, mint)
}

func (t storeTx) CreateControlState(ctx context.Context, state entities.ControlState) error {
	if state.Mint.IsZero() || state.Admin.IsZero() {
		return domainerrors.ErrInvalidIdentity
	}
	payload, err := state.MarshalBinary()
	if err != nil {
		return err
	}
	var exists int
	err = t.tx.QueryRowContext(ctx, `SELECT 1 FROM control_states WHERE mint = ?`, state.Mint.String()).Scan(&exists)
	switch {
	case err == nil:
		return domainerrors.ErrAlreadyInitialized
	case !errors.Is(err, sql.ErrNoRows):
		return fmt.Errorf("check control state: %w", err)
	}
	now := time.Now().UTC().UnixMilli()
	if _, err := t.tx.ExecContext(ctx,
		`INSERT INTO control_states (mint, payload, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		state.Mint.String(), payload, now, now,
	); err != nil {
		return fmt.Errorf("insert control state: %w", err)
	}
	return nil
}

func (t storeTx) SaveControlState(ctx context.Context, state entities.ControlState) error {
	current, err := readControlState(ctx, t.tx, state.Mint)
	if err != nil {
		return err
	}
	if err := current.CheckUpdate(state); err != nil {
		return err
	}
	payload, err := state.MarshalBinary()
	if err != nil {
		return err
	}
	if _, err := t.tx.ExecContext(ctx,
		`UPDATE control_states SET payload = ?, updated_at = ? WHERE mint = ?`,
		payload, time.Now().UTC().UnixMilli(), state.Mint.String(),
	); err != nil {
		return fmt.Errorf("update control state: %w", err)
	}
	return nil
}

func (t storeTx) AppendOutbox(ctx context.Context, envelope ports.EventEnvelope) error {
	if strings.TrimSpace(envelope.EventID) == "" {
		return domainerrors.ErrInvalidInput
	}
	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	if _, err := t.tx.ExecContext(ctx, `
INSERT INTO outbox (outbox_id, event_type, partition_key, payload, created_at)
VALUES (?, ?, ?, ?, ?)
`,
		strings.TrimSpace(envelope.EventID),
		envelope.EventType,
		envelope.PartitionKey,
		payload,
		envelope.OccurredAt.UTC().UnixMilli(),
	); err != nil {
		return fmt.Errorf("append outbox: %w", err)
	}
	return nil
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func readControlState(ctx context.Context, q queryer, mint valueobjects.Identity) (entities.ControlState, error) {
	var payload []byte
	err := q.QueryRowContext(ctx, `SELECT payload FROM control_states WHERE mint = ?`, mint.String()).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entities.ControlState{}, domainerrors.ErrNotInitialized
		}
		return entities.ControlState{}, fmt.Errorf("read control state: %w", err)
	}
	state := entities.ControlState{Mint: mint}
	if err := state.UnmarshalBinary(payload); err != nil {
		return entities.ControlState{}, err
	}
	return state, nil
}

var _ ports.Repository = (*Store)(nil)
var _ ports.OutboxRepository = (*Store)(nil)
