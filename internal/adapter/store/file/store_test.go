package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"courierquest/internal/app/ports"
	"courierquest/internal/domain/city"
	"courierquest/internal/domain/courier"
	"courierquest/internal/domain/game"
)

func sampleRecord() ports.SaveRecord {
	return ports.SaveRecord{
		SchemaVersion: ports.SaveSchemaVersion,
		Timestamp:     time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC),
		State: game.State{
			Map: city.Map{
				Width:  12,
				Height: 12,
				Name:   "TestCity",
				Legend: map[string]city.TileInfo{
					"C": {Name: "street", SurfaceWeight: 1.0},
				},
			},
			Player: courier.PlayerState{
				Position:   courier.Position{X: 4, Y: 7},
				Stamina:    62.5,
				Reputation: 83,
				Money:      1200,
				MaxWeight:  10,
			},
			Goal: 3000,
			Inventory: []courier.Order{{
				ID: "ord-1", Status: courier.StatusPickedUp, Payout: 150, Duration: 120,
			}},
		},
		Metadata: ports.SaveMetadata{
			SavedAt:           time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC),
			GameTime:          125.5,
			CompletionPercent: 40.0,
			City:              "TestCity (12x12)",
		},
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store, err := NewSaveStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, 1, sampleRecord()))

	rec, ok := store.Load(ctx, 1)
	require.True(t, ok)
	require.Equal(t, sampleRecord().State.Player, rec.State.Player)
	require.Len(t, rec.State.Inventory, 1)
	require.Equal(t, "ord-1", rec.State.Inventory[0].ID)
	require.Equal(t, 125.5, rec.Metadata.GameTime)
}

func TestLoadMissingSlot(t *testing.T) {
	store, err := NewSaveStore(t.TempDir())
	require.NoError(t, err)
	_, ok := store.Load(context.Background(), 9)
	require.False(t, ok)
}

func TestLoadCorruptSlot(t *testing.T) {
	dir := t.TempDir()
	store, err := NewSaveStore(dir)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "slot_1.sav"), []byte("garbage"), 0o644))

	_, ok := store.Load(context.Background(), 1)
	require.False(t, ok)
}

func TestLoadRejectsSchemaMismatch(t *testing.T) {
	store, err := NewSaveStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	rec := sampleRecord()
	rec.SchemaVersion = ports.SaveSchemaVersion - 1
	require.NoError(t, store.Save(ctx, 1, rec))

	_, ok := store.Load(ctx, 1)
	require.False(t, ok)
}

func TestLoadRejectsRecordWithoutMapDimensions(t *testing.T) {
	store, err := NewSaveStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	rec := sampleRecord()
	rec.State.Map = city.Map{}
	require.NoError(t, store.Save(ctx, 1, rec))

	_, ok := store.Load(ctx, 1)
	require.False(t, ok)
}

func TestMetadataWithoutFullLoad(t *testing.T) {
	store, err := NewSaveStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, 2, sampleRecord()))

	meta, ok := store.Metadata(ctx, 2)
	require.True(t, ok)
	require.Equal(t, "TestCity (12x12)", meta.City)
	require.Equal(t, 40.0, meta.CompletionPercent)
}

func TestScoreLedgerTopTenDescending(t *testing.T) {
	store, err := NewScoreStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	for i := 1; i <= 12; i++ {
		require.NoError(t, store.Add(ctx, ports.ScoreRecord{Score: i * 100, Money: i}))
	}

	records := store.List(ctx)
	require.Len(t, records, 10)
	require.Equal(t, 1200, records[0].Score)
	require.Equal(t, 300, records[9].Score)
	for i := 1; i < len(records); i++ {
		require.GreaterOrEqual(t, records[i-1].Score, records[i].Score)
	}
}

func TestScoreLedgerSurvivesCorruption(t *testing.T) {
	dir := t.TempDir()
	store, err := NewScoreStore(dir)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "scores.json"), []byte("{not json"), 0o644))
	require.Empty(t, store.List(ctx))

	require.NoError(t, store.Add(ctx, ports.ScoreRecord{Score: 500}))
	records := store.List(ctx)
	require.Len(t, records, 1)
	require.Equal(t, 500, records[0].Score)
}
