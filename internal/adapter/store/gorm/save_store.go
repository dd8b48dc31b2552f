package gormstore

import (
	"context"
	"encoding/json"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"courierquest/internal/app/ports"
	"courierquest/internal/domain/game"
)

type SaveStore struct {
	db *gorm.DB
}

func NewSaveStore(db *gorm.DB) SaveStore {
	return SaveStore{db: db}
}

func (s SaveStore) Save(ctx context.Context, slot int, rec ports.SaveRecord) error {
	blob, err := json.Marshal(rec.State)
	if err != nil {
		return err
	}
	row := SaveSlot{
		Slot:              slot,
		SchemaVersion:     rec.SchemaVersion,
		Timestamp:         rec.Timestamp,
		State:             blob,
		SavedAt:           rec.Metadata.SavedAt,
		GameTime:          rec.Metadata.GameTime,
		CompletionPercent: rec.Metadata.CompletionPercent,
		City:              rec.Metadata.City,
	}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "slot"}},
			UpdateAll: true,
		}).
		Create(&row).Error
}

func (s SaveStore) Load(ctx context.Context, slot int) (ports.SaveRecord, bool) {
	var row SaveSlot
	if err := s.db.WithContext(ctx).First(&row, "slot = ?", slot).Error; err != nil {
		return ports.SaveRecord{}, false
	}
	if row.SchemaVersion != ports.SaveSchemaVersion {
		return ports.SaveRecord{}, false
	}
	var st game.State
	if err := json.Unmarshal(row.State, &st); err != nil {
		return ports.SaveRecord{}, false
	}
	if st.Map.Validate() != nil {
		return ports.SaveRecord{}, false
	}
	return ports.SaveRecord{
		SchemaVersion: row.SchemaVersion,
		Timestamp:     row.Timestamp,
		State:         st,
		Metadata:      rowMetadata(row),
	}, true
}

// Metadata reads the flattened columns only.
func (s SaveStore) Metadata(ctx context.Context, slot int) (ports.SaveMetadata, bool) {
	var row SaveSlot
	err := s.db.WithContext(ctx).
		Select("slot", "schema_version", "saved_at", "game_time", "completion_percent", "city").
		First(&row, "slot = ?", slot).Error
	if err != nil {
		return ports.SaveMetadata{}, false
	}
	return rowMetadata(row), true
}

func rowMetadata(row SaveSlot) ports.SaveMetadata {
	return ports.SaveMetadata{
		SavedAt:           row.SavedAt,
		GameTime:          row.GameTime,
		CompletionPercent: row.CompletionPercent,
		City:              row.City,
	}
}
