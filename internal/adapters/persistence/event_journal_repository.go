package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/andrescamacho/headquartz-go/internal/domain/events"
	"github.com/andrescamacho/headquartz-go/internal/domain/shared"
)

// GormEventJournalRepository stores published world events for later inspection
type GormEventJournalRepository struct {
	db    *gorm.DB
	clock shared.Clock
}

var _ events.Journal = (*GormEventJournalRepository)(nil)

// NewGormEventJournalRepository creates a new event journal
// If clock is nil, uses RealClock (production behavior)
func NewGormEventJournalRepository(db *gorm.DB, clock shared.Clock) *GormEventJournalRepository {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &GormEventJournalRepository{db: db, clock: clock}
}

// Append writes a batch of events in a single insert
func (r *GormEventJournalRepository) Append(ctx context.Context, batch []events.Record) error {
	if len(batch) == 0 {
		return nil
	}

	now := r.clock.Now()
	models := make([]GameEventModel, len(batch))
	for i, rec := range batch {
		models[i] = GameEventModel{
			Kind:       rec.Kind,
			Title:      rec.Title,
			Message:    rec.Message,
			Severity:   rec.Severity,
			Day:        rec.Day,
			Timestamp:  rec.Timestamp,
			RecordedAt: now,
		}
	}

	if err := r.db.WithContext(ctx).CreateInBatches(&models, 200).Error; err != nil {
		return fmt.Errorf("failed to append events: %w", err)
	}
	return nil
}

// Recent returns the newest matching events, oldest first
func (r *GormEventJournalRepository) Recent(ctx context.Context, filter events.Filter) ([]events.Record, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}

	query := r.db.WithContext(ctx).Model(&GameEventModel{})
	if filter.Kind != "" {
		query = query.Where("kind = ?", filter.Kind)
	}
	if filter.Severity != "" {
		query = query.Where("severity = ?", filter.Severity)
	}
	if filter.SinceDay > 0 {
		query = query.Where("day >= ?", filter.SinceDay)
	}

	var models []GameEventModel
	if err := query.Order("id DESC").Limit(limit).Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}

	out := make([]events.Record, len(models))
	for i, m := range models {
		out[len(models)-1-i] = events.Record{
			Kind:      m.Kind,
			Title:     m.Title,
			Color:     events.Kind(m.Kind).Descriptor().Color,
			Message:   m.Message,
			Severity:  m.Severity,
			Timestamp: m.Timestamp.UTC(),
			Day:       m.Day,
		}
	}
	return out, nil
}

// Count returns the number of journaled events
func (r *GormEventJournalRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&GameEventModel{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count events: %w", err)
	}
	return n, nil
}
