// Package sqlstore persists quotations and counters through GORM, for
// deployments on PostgreSQL (or SQLite for local runs and tests).
package sqlstore

import (
	"context"
	"errors"
	"time"

	"cotizaciones/internal/domain/entities"
	"cotizaciones/internal/usecase/interfaces"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// quotationRow keeps the full document as JSON next to the columns list
// views filter and sort on.
type quotationRow struct {
	ID          string             `gorm:"primaryKey;size:36"`
	Numero      string             `gorm:"uniqueIndex;not null"`
	Estado      string             `gorm:"index;not null"`
	Workflow    string             `gorm:"not null;default:''"`
	VendedorUID string             `gorm:"index"`
	Document    entities.Quotation `gorm:"serializer:json;type:text;not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (quotationRow) TableName() string { return "cotizaciones" }

type counterRow struct {
	ID        string `gorm:"primaryKey;size:64"`
	Seq       int64  `gorm:"not null"`
	UpdatedAt time.Time
}

func (counterRow) TableName() string { return "counters" }

// Migrate creates or updates the tables used by the store.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&quotationRow{}, &counterRow{})
}

type QuotationStore struct {
	db *gorm.DB
}

var _ interfaces.IQuotationRepository = (*QuotationStore)(nil)

func NewQuotationStore(db *gorm.DB) *QuotationStore {
	return &QuotationStore{db: db}
}

func (s *QuotationStore) Create(ctx context.Context, q entities.Quotation) (entities.Quotation, error) {
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	row := toRow(q)
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return entities.Quotation{}, err
	}
	return q, nil
}

func (s *QuotationStore) GetByID(ctx context.Context, id string) (entities.Quotation, error) {
	var row quotationRow
	found := s.db.WithContext(ctx).Where("id = ?", id).Limit(1).Find(&row)
	if found.Error != nil {
		return entities.Quotation{}, found.Error
	}
	if found.RowsAffected == 0 {
		return entities.Quotation{}, nil
	}
	return row.Document, nil
}

func (s *QuotationStore) List(ctx context.Context) ([]entities.Quotation, error) {
	var rows []quotationRow
	if err := s.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]entities.Quotation, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Document)
	}
	return out, nil
}

func (s *QuotationStore) UpdateLifecycle(ctx context.Context, id string, change entities.LifecycleChange) (entities.Quotation, error) {
	var updated entities.Quotation
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row quotationRow
		found := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id).Limit(1).Find(&row)
		if found.Error != nil {
			return found.Error
		}
		if found.RowsAffected == 0 {
			return nil
		}
		if change.MovesState() && row.Document.Estado.IsTerminal() {
			return interfaces.ErrQuotationClosed
		}

		row = toRow(change.Apply(row.Document))
		if err := tx.Save(&row).Error; err != nil {
			return err
		}
		updated = row.Document
		return nil
	})
	if err != nil {
		return entities.Quotation{}, err
	}
	return updated, nil
}

func toRow(q entities.Quotation) quotationRow {
	if q.ComentariosPrivados == nil {
		q.ComentariosPrivados = []entities.ComentarioPrivado{}
	}
	return quotationRow{
		ID:          q.ID,
		Numero:      q.Numero,
		Estado:      string(q.Estado),
		Workflow:    string(q.Workflow),
		VendedorUID: q.Vendedor.UID,
		Document:    q,
		CreatedAt:   q.FechaCreacion,
		UpdatedAt:   q.UpdatedAt,
	}
}

// CounterStore issues sequences inside a database transaction. The read
// takes a row lock where the dialect supports one; the write is still
// conditioned on the value read.
type CounterStore struct {
	db *gorm.DB
}

var _ interfaces.ISequenceCounterRepository = (*CounterStore)(nil)

func NewCounterStore(db *gorm.DB) *CounterStore {
	return &CounterStore{db: db}
}

func (s *CounterStore) Next(ctx context.Context, counterID string, now time.Time) (int64, error) {
	var seq int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row counterRow
		found := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", counterID).Limit(1).Find(&row)
		switch {
		case found.Error != nil:
			return found.Error
		case found.RowsAffected == 0:
			row = counterRow{ID: counterID, Seq: 1, UpdatedAt: now}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		default:
			res := tx.Model(&counterRow{}).
				Where("id = ? AND seq = ?", counterID, row.Seq).
				Updates(map[string]any{"seq": row.Seq + 1, "updated_at": now})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return interfaces.ErrCounterConflict
			}
			row.Seq++
		}
		seq = row.Seq
		return nil
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return 0, interfaces.ErrCounterConflict
	}
	if err != nil {
		return 0, err
	}
	return seq, nil
}
