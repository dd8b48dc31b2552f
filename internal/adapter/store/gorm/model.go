package gormstore

import "time"

// SaveSlot is one persisted session. The full game state travels as a
// JSON document; the metadata columns exist so slot listings never
// deserialize the state blob.
type SaveSlot struct {
	Slot          int       `gorm:"primaryKey"`
	SchemaVersion int       `gorm:"not null"`
	Timestamp     time.Time `gorm:"not null"`
	State         []byte    `gorm:"type:jsonb;not null"`

	SavedAt           time.Time
	GameTime          float64
	CompletionPercent float64
	City              string

	UpdatedAt time.Time
}

type ScoreEntry struct {
	ID              uint `gorm:"primaryKey;autoIncrement"`
	Score           int  `gorm:"index:idx_score_entries_score,sort:desc"`
	Money           int
	Reputation      int
	CompletedOrders int
	GameTime        float64
	Date            time.Time
	Victory         bool
	StreakRecord    int
	CitySize        string

	CreatedAt time.Time
}
