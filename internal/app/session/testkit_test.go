package session

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"courierquest/internal/app/ports"
	"courierquest/internal/domain/city"
	"courierquest/internal/domain/courier"
)

// fakeProvider serves a fixed 12x12 city with one building block and
// whatever jobs the test installs.
type fakeProvider struct {
	mapErr  error
	jobsErr error
	jobs    []ports.JobDescriptor
	source  ports.DataSource
}

func (f *fakeProvider) FetchMap(ctx context.Context) (ports.MapResult, error) {
	if f.mapErr != nil {
		return ports.MapResult{}, f.mapErr
	}
	tiles := make([][]string, 12)
	for y := range tiles {
		tiles[y] = make([]string, 12)
		for x := range tiles[y] {
			tiles[y][x] = "C"
		}
	}
	tiles[2][5] = "B"
	src := f.source
	if src == "" {
		src = ports.SourceRemote
	}
	return ports.MapResult{
		Map: city.Map{
			Width:  12,
			Height: 12,
			Tiles:  tiles,
			Legend: map[string]city.TileInfo{
				"C": {Name: "street", SurfaceWeight: 1.0},
				"B": {Name: "building", Blocked: true},
				"P": {Name: "park", SurfaceWeight: 0.95},
			},
			Name:    "TestCity",
			MaxTime: 600,
		},
		Source: src,
	}, nil
}

func (f *fakeProvider) FetchJobs(ctx context.Context) (ports.JobsResult, error) {
	if f.jobsErr != nil {
		return ports.JobsResult{}, f.jobsErr
	}
	src := f.source
	if src == "" {
		src = ports.SourceRemote
	}
	return ports.JobsResult{Jobs: f.jobs, Source: src}, nil
}

type fakeSaveStore struct {
	slots   map[int]ports.SaveRecord
	saveErr error
}

func newFakeSaveStore() *fakeSaveStore {
	return &fakeSaveStore{slots: map[int]ports.SaveRecord{}}
}

func (f *fakeSaveStore) Save(ctx context.Context, slot int, rec ports.SaveRecord) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.slots[slot] = rec
	return nil
}

func (f *fakeSaveStore) Load(ctx context.Context, slot int) (ports.SaveRecord, bool) {
	rec, ok := f.slots[slot]
	return rec, ok
}

func (f *fakeSaveStore) Metadata(ctx context.Context, slot int) (ports.SaveMetadata, bool) {
	rec, ok := f.slots[slot]
	return rec.Metadata, ok
}

type fakeScoreStore struct {
	records []ports.ScoreRecord
}

func (f *fakeScoreStore) List(ctx context.Context) []ports.ScoreRecord {
	return f.records
}

func (f *fakeScoreStore) Add(ctx context.Context, rec ports.ScoreRecord) error {
	f.records = append(f.records, rec)
	return nil
}

type fakeMetrics struct {
	applied  map[string]int
	rejected map[string]int
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{applied: map[string]int{}, rejected: map[string]int{}}
}

func (f *fakeMetrics) RecordApplied(kind string)  { f.applied[kind]++ }
func (f *fakeMetrics) RecordRejected(kind string) { f.rejected[kind]++ }

var errProviderDown = errors.New("provider down")

type testSession struct {
	sim     *Simulation
	saves   *fakeSaveStore
	scores  *fakeScoreStore
	metrics *fakeMetrics
}

func newTestSession(t *testing.T) *testSession {
	t.Helper()
	saves := newFakeSaveStore()
	scores := &fakeScoreStore{}
	metrics := newFakeMetrics()
	sim := New(&fakeProvider{}, saves, scores, metrics, rand.New(rand.NewSource(1)))
	sim.Now = func() time.Time { return time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC) }
	if err := sim.Initialize(context.Background()); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	return &testSession{sim: sim, saves: saves, scores: scores, metrics: metrics}
}

// giveOrder drops a ready-to-claim order at the player's feet.
func (ts *testSession) giveOrder(t *testing.T, id string, weight int) courier.Order {
	t.Helper()
	pos := ts.sim.player.Position
	o := courier.Order{
		ID:       id,
		Pickup:   pos,
		Dropoff:  courier.Position{X: pos.X + 3, Y: pos.Y},
		Payout:   100,
		Duration: 120,
		Weight:   weight,
		Priority: 1,
		Status:   courier.StatusAvailable,
		CreatedAt: ts.sim.clock.GameTime,
	}
	ts.sim.sched.Active().Enqueue(o)
	return o
}

func (ts *testSession) apply(t *testing.T, cmd Command) Result {
	t.Helper()
	res, err := ts.sim.Apply(context.Background(), cmd)
	if err != nil {
		t.Fatalf("apply %s: %v", cmd.Type, err)
	}
	return res
}
