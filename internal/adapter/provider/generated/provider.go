// Package generated builds a deterministic offline city when no remote
// feed and no cache are reachable. The layout is a fixed street grid
// with building blocks and a central park, so every offline session
// plays the same map.
package generated

import (
	"context"

	"courierquest/internal/app/ports"
	"courierquest/internal/domain/city"
)

const (
	gridSize = 20
	cityName = "Ciudad Generada"
	maxTime  = 600
)

type Provider struct{}

func (Provider) FetchMap(_ context.Context) (ports.MapResult, error) {
	return ports.MapResult{Map: buildMap(), Source: ports.SourceGenerated}, nil
}

// FetchJobs returns no jobs on purpose: ingestion pads the backlog with
// synthetic orders sized to the map.
func (Provider) FetchJobs(_ context.Context) (ports.JobsResult, error) {
	return ports.JobsResult{Source: ports.SourceGenerated}, nil
}

func buildMap() city.Map {
	tiles := make([][]string, gridSize)
	for y := range tiles {
		tiles[y] = make([]string, gridSize)
		for x := range tiles[y] {
			tiles[y][x] = symbolAt(x, y)
		}
	}
	return city.Map{
		Width:  gridSize,
		Height: gridSize,
		Tiles:  tiles,
		Legend: map[string]city.TileInfo{
			"C": {Name: "street", SurfaceWeight: 1.0},
			"B": {Name: "building", Blocked: true},
			"P": {Name: "park", SurfaceWeight: 0.95, RestBonus: 20.0},
		},
		Name:    cityName,
		MaxTime: maxTime,
	}
}

// symbolAt lays out streets every third row and column, a 2x2 park at
// the center and buildings in the remaining block interiors.
func symbolAt(x, y int) string {
	if x%3 == 0 || y%3 == 0 {
		return "C"
	}
	half := gridSize / 2
	if (x == half || x == half+1) && (y == half || y == half+1) {
		return "P"
	}
	return "B"
}
