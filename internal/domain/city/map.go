package city

import (
	"errors"
	"strings"

	"courierquest/internal/domain/courier"
)

// TileInfo is one legend entry: the meaning of a map symbol.
type TileInfo struct {
	Name          string  `json:"name"`
	SurfaceWeight float64 `json:"surface_weight"`
	Blocked       bool    `json:"blocked,omitempty"`
	RestBonus     float64 `json:"rest_bonus,omitempty"`
}

// Map is the playable city grid: symbol rows plus the legend that
// assigns behavior to each symbol.
type Map struct {
	Width   int                 `json:"width"`
	Height  int                 `json:"height"`
	Tiles   [][]string          `json:"tiles"`
	Legend  map[string]TileInfo `json:"legend"`
	Goal    int                 `json:"goal"`
	Name    string              `json:"city_name"`
	MaxTime float64             `json:"max_time"`
}

var ErrInvalidMap = errors.New("invalid map data")

func (m Map) Validate() error {
	if m.Width <= 0 || m.Height <= 0 {
		return ErrInvalidMap
	}
	return nil
}

func (m Map) InBounds(p courier.Position) bool {
	return p.X >= 0 && p.X < m.Width && p.Y >= 0 && p.Y < m.Height
}

func (m Map) tileInfo(p courier.Position) (TileInfo, bool) {
	if p.Y < 0 || p.Y >= len(m.Tiles) {
		return TileInfo{}, false
	}
	row := m.Tiles[p.Y]
	if p.X < 0 || p.X >= len(row) {
		return TileInfo{}, false
	}
	info, ok := m.Legend[row[p.X]]
	return info, ok
}

// Walkable reports whether the player may stand on the tile. Positions
// inside the grid but missing from the tile rows or legend default to
// walkable, matching the provider's sparse-legend behavior.
func (m Map) Walkable(p courier.Position) bool {
	if !m.InBounds(p) {
		return false
	}
	info, ok := m.tileInfo(p)
	if !ok {
		return true
	}
	return !info.Blocked
}

func (m Map) SurfaceWeight(p courier.Position) float64 {
	info, ok := m.tileInfo(p)
	if !ok || info.SurfaceWeight == 0 {
		return 1.0
	}
	return info.SurfaceWeight
}

func (m Map) RestBonus(p courier.Position) bool {
	info, ok := m.tileInfo(p)
	return ok && info.RestBonus > 0
}

// NormalizeLegend fills provider gaps: missing surface weights default
// to 1.0 and park tiles gain a rest bonus.
func NormalizeLegend(legend map[string]TileInfo) map[string]TileInfo {
	out := make(map[string]TileInfo, len(legend))
	for sym, info := range legend {
		if info.SurfaceWeight == 0 && !info.Blocked {
			info.SurfaceWeight = 1.0
		}
		if info.RestBonus == 0 && strings.EqualFold(info.Name, "park") {
			info.RestBonus = 20.0
		}
		out[sym] = info
	}
	return out
}
