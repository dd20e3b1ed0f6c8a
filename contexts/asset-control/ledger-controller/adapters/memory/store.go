package memory

import (
	"bytes"
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"tokengate/contexts/asset-control/ledger-controller/domain/entities"
	domainerrors "tokengate/contexts/asset-control/ledger-controller/domain/errors"
	"tokengate/contexts/asset-control/ledger-controller/domain/valueobjects"
	"tokengate/contexts/asset-control/ledger-controller/ports"

	"github.com/google/uuid"
)

// Store is an in-memory adapter implementing repository/outbox/clock/id ports.
// Units of work hold the store lock for their whole duration, which gives the
// single-writer semantics the gate relies on. It is intended for tests and
// local development wiring.
type Store struct {
	mu sync.RWMutex

	states map[valueobjects.Identity]entities.ControlState
	outbox map[string]outboxRecord
	seq    int64
}

type outboxRecord struct {
	Message     ports.OutboxMessage
	Status      string
	Seq         int64
	PublishedAt *time.Time
}

const (
	outboxStatusPending   = "pending"
	outboxStatusPublished = "published"
)

func NewStore() *Store {
	return &Store{
		states: make(map[valueobjects.Identity]entities.ControlState),
		outbox: make(map[string]outboxRecord),
	}
}

func (s *Store) GetControlState(_ context.Context, mint valueobjects.Identity) (entities.ControlState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, ok := s.states[mint]
	if !ok {
		return entities.ControlState{}, domainerrors.ErrNotInitialized
	}
	return state, nil
}

func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context, tx ports.StateTx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &storeTx{
		store:  s,
		states: make(map[valueobjects.Identity]entities.ControlState),
	}
	if err := fn(ctx, tx); err != nil {
		return err
	}

	for mint, state := range tx.states {
		s.states[mint] = state
	}
	for _, record := range tx.outbox {
		s.seq++
		record.Seq = s.seq
		s.outbox[record.Message.OutboxID] = record
	}
	return nil
}

// storeTx stages writes until the enclosing unit of work returns nil.
type storeTx struct {
	store  *Store
	states map[valueobjects.Identity]entities.ControlState
	outbox []outboxRecord
}

func (t *storeTx) GetControlState(_ context.Context, mint valueobjects.Identity) (entities.ControlState, error) {
	if state, ok := t.states[mint]; ok {
		return state, nil
	}
	state, ok := t.store.states[mint]
	if !ok {
		return entities.ControlState{}, domainerrors.ErrNotInitialized
	}
	return state, nil
}

func (t *storeTx) CreateControlState(_ context.Context, state entities.ControlState) error {
	if state.Mint.IsZero() || state.Admin.IsZero() {
		return domainerrors.ErrInvalidIdentity
	}
	if _, ok := t.states[state.Mint]; ok {
		return domainerrors.ErrAlreadyInitialized
	}
	if _, ok := t.store.states[state.Mint]; ok {
		return domainerrors.ErrAlreadyInitialized
	}
	t.states[state.Mint] = state
	return nil
}

func (t *storeTx) SaveControlState(_ context.Context, state entities.ControlState) error {
	existing, ok := t.states[state.Mint]
	if !ok {
		existing, ok = t.store.states[state.Mint]
	}
	if !ok {
		return domainerrors.ErrNotInitialized
	}
	if err := existing.CheckUpdate(state); err != nil {
		return err
	}
	t.states[state.Mint] = state
	return nil
}

func (t *storeTx) AppendOutbox(_ context.Context, envelope ports.EventEnvelope) error {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	outboxID := strings.TrimSpace(envelope.EventID)
	if outboxID == "" {
		return domainerrors.ErrInvalidInput
	}
	if existing, ok := t.store.outbox[outboxID]; ok {
		if !bytes.Equal(existing.Message.Payload, payload) {
			return domainerrors.ErrInvalidInput
		}
		return nil
	}
	t.outbox = append(t.outbox, outboxRecord{
		Message: ports.OutboxMessage{
			OutboxID:     outboxID,
			EventType:    envelope.EventType,
			PartitionKey: envelope.PartitionKey,
			Payload:      payload,
			CreatedAt:    envelope.OccurredAt.UTC(),
		},
		Status: outboxStatusPending,
	})
	return nil
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 100
	}
	rows := make([]outboxRecord, 0)
	for _, row := range s.outbox {
		if row.Status == outboxStatusPending {
			rows = append(rows, row)
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Seq < rows[j].Seq
	})
	if len(rows) > limit {
		rows = rows[:limit]
	}
	items := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.Message)
	}
	return items, nil
}

func (s *Store) MarkOutboxPublished(_ context.Context, outboxID string, publishedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.outbox[strings.TrimSpace(outboxID)]
	if !ok {
		return domainerrors.ErrInvalidInput
	}
	ts := publishedAt.UTC()
	row.Status = outboxStatusPublished
	row.PublishedAt = &ts
	s.outbox[strings.TrimSpace(outboxID)] = row
	return nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

var _ ports.Repository = (*Store)(nil)
var _ ports.OutboxRepository = (*Store)(nil)
var _ ports.Clock = (*Store)(nil)
var _ ports.IDGenerator = (*Store)(nil)
