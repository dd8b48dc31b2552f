package gormstore

import (
	"context"

	"gorm.io/gorm"

	"courierquest/internal/app/ports"
)

const listLimit = 10

type ScoreStore struct {
	db *gorm.DB
}

func NewScoreStore(db *gorm.DB) ScoreStore {
	return ScoreStore{db: db}
}

func (s ScoreStore) Add(ctx context.Context, rec ports.ScoreRecord) error {
	row := ScoreEntry{
		Score:           rec.Score,
		Money:           rec.Money,
		Reputation:      rec.Reputation,
		CompletedOrders: rec.CompletedOrders,
		GameTime:        rec.GameTime,
		Date:            rec.Date,
		Victory:         rec.Victory,
		StreakRecord:    rec.StreakRecord,
		CitySize:        rec.CitySize,
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return err
	}
	return s.trim(ctx)
}

// trim drops rows below the top ten, keeping the table itself at the
// ledger cap like the file store does on write.
func (s ScoreStore) trim(ctx context.Context) error {
	var keep []uint
	err := s.db.WithContext(ctx).
		Model(&ScoreEntry{}).
		Order("score DESC").
		Limit(listLimit).
		Pluck("id", &keep).Error
	if err != nil || len(keep) < listLimit {
		return err
	}
	return s.db.WithContext(ctx).
		Where("id NOT IN ?", keep).
		Delete(&ScoreEntry{}).Error
}

// List returns the top scores descending. Read failures surface as an
// empty board, matching the file store.
func (s ScoreStore) List(ctx context.Context) []ports.ScoreRecord {
	var rows []ScoreEntry
	err := s.db.WithContext(ctx).
		Order("score DESC").
		Limit(listLimit).
		Find(&rows).Error
	if err != nil {
		return nil
	}

	out := make([]ports.ScoreRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, ports.ScoreRecord{
			Score:           row.Score,
			Money:           row.Money,
			Reputation:      row.Reputation,
			CompletedOrders: row.CompletedOrders,
			GameTime:        row.GameTime,
			Date:            row.Date,
			Victory:         row.Victory,
			StreakRecord:    row.StreakRecord,
			CitySize:        row.CitySize,
		})
	}
	return out
}
