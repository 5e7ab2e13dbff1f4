package recommend

import "math"

// DefaultCellPrecision is the grid size used to bucket nearby searches into
// cache cells, roughly 111m of latitude.
const DefaultCellPrecision = 0.001

// QuantizeCoord snaps a raw coordinate onto a fixed grid so queries from
// nearby points share a cache entry. Rounding is half-away-from-zero
// (math.Round); latitude and longitude are quantized identically.
func QuantizeCoord(coord, precision float64) float64 {
	return math.Round(coord/precision) * precision
}
