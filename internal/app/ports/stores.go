package ports

import (
	"context"
	"time"

	"courierquest/internal/domain/game"
)

const SaveSchemaVersion = 3

type SaveMetadata struct {
	SavedAt           time.Time `json:"saved_at"`
	GameTime          float64   `json:"game_time"`
	CompletionPercent float64   `json:"completion_percentage"`
	City              string    `json:"city_info"`
}

type SaveRecord struct {
	SchemaVersion int          `json:"schema_version"`
	Timestamp     time.Time    `json:"timestamp"`
	State         game.State   `json:"game_state"`
	Metadata      SaveMetadata `json:"metadata"`
}

// SaveStore persists slot-indexed save records. Load and Metadata
// report absence (missing, unreadable or incomplete data) through the
// boolean; they never surface storage errors to the engine.
type SaveStore interface {
	Save(ctx context.Context, slot int, rec SaveRecord) error
	Load(ctx context.Context, slot int) (SaveRecord, bool)
	Metadata(ctx context.Context, slot int) (SaveMetadata, bool)
}

type ScoreRecord struct {
	Score           int       `json:"score"`
	Money           int       `json:"money"`
	Reputation      int       `json:"reputation"`
	CompletedOrders int       `json:"completed_orders"`
	GameTime        float64   `json:"game_time"`
	Date            time.Time `json:"date"`
	Victory         bool      `json:"victory"`
	StreakRecord    int       `json:"streak_record"`
	CitySize        string    `json:"city_size"`
}

// ScoreStore keeps the session score ledger, descending by score and
// capped at the top ten on write. A corrupt ledger is replaced with an
// empty one rather than reported.
type ScoreStore interface {
	List(ctx context.Context) []ScoreRecord
	Add(ctx context.Context, rec ScoreRecord) error
}
