package domain

// GeoPoint represents a geographic coordinate (WGS 84).
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Bounds represents a closed geographic bounding box. Both edges are
// inclusive on both axes. Callers are trusted to supply MinLat <= MaxLat and
// MinLon <= MaxLon; an inverted box is never an error, it just contains
// nothing.
type Bounds struct {
	MinLat float64 `json:"min_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLat float64 `json:"max_lat"`
	MaxLon float64 `json:"max_lon"`
}

// Contains reports whether p lies inside the box, edges included.
func (b Bounds) Contains(p GeoPoint) bool {
	return p.Lat >= b.MinLat && p.Lat <= b.MaxLat &&
		p.Lon >= b.MinLon && p.Lon <= b.MaxLon
}

// Expanded returns a copy of the box grown symmetrically by latDelta and
// lonDelta on each side. Grid-reported entities (weather cells) need this:
// the cell's reporting point may sit outside the visible viewport while the
// cell's rendered area still overlaps it.
func (b Bounds) Expanded(latDelta, lonDelta float64) Bounds {
	return Bounds{
		MinLat: b.MinLat - latDelta,
		MinLon: b.MinLon - lonDelta,
		MaxLat: b.MaxLat + latDelta,
		MaxLon: b.MaxLon + lonDelta,
	}
}
