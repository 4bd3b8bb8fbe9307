package iso

// LODBand is a level-of-detail band selected by camera zoom.
type LODBand int

const (
	// LODNear draws every sprite.
	LODNear LODBand = iota
	// LODMid draws sprites with at least the mid priority.
	LODMid
	// LODFar draws sprites with at least the far priority.
	LODFar
)

func (b LODBand) String() string {
	switch b {
	case LODNear:
		return "near"
	case LODMid:
		return "mid"
	case LODFar:
		return "far"
	}
	return "unknown"
}

// Band returns the band for a zoom level. Zooming in moves toward LODNear.
func (c LODConfig) Band(zoom float64) LODBand {
	switch {
	case zoom >= c.NearZoom:
		return LODNear
	case zoom >= c.FarZoom:
		return LODMid
	}
	return LODFar
}

// Allows reports whether a sprite with the given sort priority is drawn at
// zoom.
func (c LODConfig) Allows(zoom float64, priority int) bool {
	switch c.Band(zoom) {
	case LODMid:
		return priority >= c.MidPriority
	case LODFar:
		return priority >= c.FarPriority
	}
	return true
}

// applyLOD sets each visible sprite's draw flag for the current zoom. With
// level of detail disabled every sprite is drawn.
func (s *Scene) applyLOD() {
	zoom := s.camera.Zoom()
	lod := s.cfg.LOD
	for _, obj := range s.visible {
		for _, sp := range obj.sprites {
			sp.Visible = !s.cfg.LODEnabled || lod.Allows(zoom, sp.SortPriority)
		}
	}
}
