package repository

import (
	"context"
	"errors"

	gamedomain "connect4-backend/internal/game/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// HistoryRepository stores ended matches.
type HistoryRepository interface {
	Persist(ctx context.Context, result gamedomain.Result) error
	FindByID(ctx context.Context, id string) (*gamedomain.MatchRecord, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]gamedomain.MatchRecord, error)
}

type historyRepository struct {
	db *gorm.DB
}

func NewHistoryRepository(db *gorm.DB) HistoryRepository {
	return &historyRepository{db: db}
}

// Persist writes the result once. Writing the same match again is a no-op.
func (r *historyRepository) Persist(ctx context.Context, result gamedomain.Result) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(gamedomain.NewMatchRecord(result)).Error
}

func (r *historyRepository) FindByID(ctx context.Context, id string) (*gamedomain.MatchRecord, error) {
	var record gamedomain.MatchRecord
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

func (r *historyRepository) ListByUser(ctx context.Context, userID string, limit int) ([]gamedomain.MatchRecord, error) {
	var records []gamedomain.MatchRecord
	q := r.db.WithContext(ctx).
		Where("player_one_id = ? OR player_two_id = ?", userID, userID).
		Order("ended_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&records).Error
	return records, err
}
