package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	application "tokengate/contexts/asset-control/ledger-controller/application"
	"tokengate/contexts/asset-control/ledger-controller/domain/entities"
	domainerrors "tokengate/contexts/asset-control/ledger-controller/domain/errors"
	"tokengate/contexts/asset-control/ledger-controller/domain/valueobjects"
	"tokengate/contexts/asset-control/ledger-controller/ports"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	outboxStatusPending   = "pending"
	outboxStatusPublished = "published"
)

// Repository stores control state and outbox rows in PostgreSQL. Units of
// work run in one database transaction and lock the control state row they
// read, so operations on the same asset are serialized.
type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Migrate creates or updates the tables this adapter owns.
func (r *Repository) Migrate(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&controlStateModel{}, &outboxModel{})
}

func (r *Repository) GetControlState(ctx context.Context, mint valueobjects.Identity) (entities.ControlState, error) {
	return getControlState(r.db.WithContext(ctx), mint, false)
}

func (r *Repository) WithinTransaction(ctx context.Context, fn func(ctx context.Context, tx ports.StateTx) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, repositoryTx{db: tx, logger: r.logger})
	})
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []outboxModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", outboxStatusPending).
		Order("created_at ASC").
		Order("seq ASC").
		Limit(limit).
		Find(&rows).
		Error; err != nil {
		return nil, err
	}
	items := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.OutboxMessage{
			OutboxID:     row.OutboxID,
			EventType:    row.EventType,
			PartitionKey: row.PartitionKey,
			Payload:      row.Payload,
			CreatedAt:    row.CreatedAt.UTC(),
		})
	}
	return items, nil
}

func (r *Repository) MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error {
	ts := publishedAt.UTC()
	result := r.db.WithContext(ctx).
		Model(&outboxModel{}).
		Where("outbox_id = ?", strings.TrimSpace(outboxID)).
		Updates(map[string]any{
			"status":       outboxStatusPublished,
			"published_at": &ts,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrInvalidInput
	}
	return nil
}

type repositoryTx struct {
	db     *gorm.DB
	logger *slog.Logger
}

func (t repositoryTx) GetControlState(_ context.Context, mint valueobjects.Identity) (entities.ControlState, error) {
	return getControlState(t.db, mint, true)
}

func (t repositoryTx) CreateControlState(_ context.Context, state entities.ControlState) error {
	if state.Mint.IsZero() || state.Admin.IsZero() {
		return domainerrors.ErrInvalidIdentity
	}
	now := time.Now().UTC()
	row := controlStateModel{
		Mint:      state.Mint.String(),
		IsPaused:  state.IsPaused,
		Admin:     state.Admin.String(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := t.db.Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrAlreadyInitialized
		}
		t.logger.Error("control state insert failed",
			"event", "ledger_controller_state_insert_failed",
			"module", application.ModuleName,
			"layer", "adapter",
			"mint", row.Mint,
			"error", err.Error(),
		)
		return err
	}
	return nil
}

func (t repositoryTx) SaveControlState(_ context.Context, state entities.ControlState) error {
	current, err := getControlState(t.db, state.Mint, true)
	if err != nil {
		return err
	}
	if err := current.CheckUpdate(state); err != nil {
		return err
	}
	result := t.db.Model(&controlStateModel{}).
		Where("mint = ?", state.Mint.String()).
		Updates(map[string]any{
			"is_paused":  state.IsPaused,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotInitialized
	}
	return nil
}

func (t repositoryTx) AppendOutbox(_ context.Context, envelope ports.EventEnvelope) error {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	row := outboxModel{
		OutboxID:     strings.TrimSpace(envelope.EventID),
		EventType:    envelope.EventType,
		PartitionKey: envelope.PartitionKey,
		Payload:      payload,
		Status:       outboxStatusPending,
		CreatedAt:    envelope.OccurredAt.UTC(),
	}
	if row.OutboxID == "" {
		return domainerrors.ErrInvalidInput
	}
	if err := t.db.Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrInvalidInput
		}
		return err
	}
	return nil
}

func getControlState(db *gorm.DB, mint valueobjects.Identity, forUpdate bool) (entities.ControlState, error) {
	query := db
	if forUpdate {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var row controlStateModel
	err := query.Where("mint = ?", mint.String()).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.ControlState{}, domainerrors.ErrNotInitialized
		}
		return entities.ControlState{}, err
	}
	return row.toEntity()
}

type controlStateModel struct {
	Mint      string    `gorm:"column:mint;primaryKey"`
	IsPaused  bool      `gorm:"column:is_paused;not null;default:false"`
	Admin     string    `gorm:"column:admin;not null"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (controlStateModel) TableName() string {
	return "ledger_control_states"
}

func (m controlStateModel) toEntity() (entities.ControlState, error) {
	mint, err := valueobjects.ParseIdentity(m.Mint)
	if err != nil {
		return entities.ControlState{}, err
	}
	admin, err := valueobjects.ParseIdentity(m.Admin)
	if err != nil {
		return entities.ControlState{}, err
	}
	return entities.ControlState{
		Mint:     mint,
		IsPaused: m.IsPaused,
		Admin:    admin,
	}, nil
}

type outboxModel struct {
	Seq          int64      `gorm:"column:seq;autoIncrement;uniqueIndex"`
	OutboxID     string     `gorm:"column:outbox_id;primaryKey"`
	EventType    string     `gorm:"column:event_type"`
	PartitionKey string     `gorm:"column:partition_key"`
	Payload      []byte     `gorm:"column:payload"`
	Status       string     `gorm:"column:status;index"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	PublishedAt  *time.Time `gorm:"column:published_at"`
}

func (outboxModel) TableName() string {
	return "ledger_controller_outbox"
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var _ ports.Repository = (*Repository)(nil)
var _ ports.OutboxRepository = (*Repository)(nil)
var _ ports.StateTx = repositoryTx{}
