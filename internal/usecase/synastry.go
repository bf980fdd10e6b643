package usecase

import (
	"math"

	"AstroChart/internal/domain/models"
	"AstroChart/internal/services/astro"
)

// SynastryEngine detects aspects between the planets of two charts. The scan
// is the full directed cross product (A's planet always first): the two
// charts play distinct roles, so the pair set is not symmetry-reduced.
type SynastryEngine struct {
	tables astro.Tables
}

func NewSynastryEngine(tables astro.Tables) SynastryEngine {
	return SynastryEngine{tables: tables}
}

// Aspects returns every inter-chart aspect. Orbs stay at full precision for
// downstream scoring.
func (e SynastryEngine) Aspects(chartA, chartB models.NatalChart) []models.SynastryAspect {
	out := []models.SynastryAspect{}
	for _, ba := range e.tables.Bodies {
		pa, ok := chartA.Planets[ba.Name]
		if !ok {
			continue
		}
		for _, bb := range e.tables.Bodies {
			pb, ok := chartB.Planets[bb.Name]
			if !ok {
				continue
			}
			diff := astro.AngularDistance(pa.Longitude, pb.Longitude)
			for _, at := range e.tables.Aspects {
				orb := math.Abs(diff - at.Angle)
				if orb <= at.MaxOrb {
					out = append(out, models.SynastryAspect{
						PlanetA:    pa.Name,
						PlanetB:    pb.Name,
						AspectType: at.Name,
						Orb:        orb,
						MaxOrb:     at.MaxOrb,
					})
				}
			}
		}
	}
	return out
}
