package usecase

import (
	"context"
	"fmt"
	"math"

	"AstroChart/internal/domain/models"
	"AstroChart/internal/domain/service"
	"AstroChart/internal/services/astro"
)

// ChartBuilder assembles a complete natal chart from a birth moment and
// location: planet positions, houses, angles and intra-chart aspects. It is
// stateless; every build recomputes from the oracle.
type ChartBuilder struct {
	oracle service.Oracle
	tables astro.Tables
	tc     TimeConverter
}

func NewChartBuilder(oracle service.Oracle, tables astro.Tables) *ChartBuilder {
	return &ChartBuilder{oracle: oracle, tables: tables, tc: NewTimeConverter(oracle)}
}

// Build computes the chart for a birth moment. Oracle failures propagate
// wrapped in service.ErrEphemeris; there are no retries here.
func (b *ChartBuilder) Build(ctx context.Context, dateTime string, latitude, longitude, tzOffsetHours float64) (models.NatalChart, error) {
	jd, err := b.tc.Resolve(ctx, dateTime, tzOffsetHours)
	if err != nil {
		return models.NatalChart{}, err
	}

	planets := make(map[string]models.PlanetPosition, len(b.tables.Bodies))
	for _, body := range b.tables.Bodies {
		pos, err := b.oracle.Position(ctx, jd, body.ID)
		if err != nil {
			return models.NatalChart{}, fmt.Errorf("%w: position %s: %v", service.ErrEphemeris, body.Name, err)
		}
		lon := astro.Normalize(pos.Longitude)
		sign, degree := b.tables.SignOf(lon)
		planets[body.Name] = models.PlanetPosition{
			Name:         body.Name,
			Longitude:    lon,
			Sign:         sign,
			DegreeInSign: degree,
			IsRetrograde: pos.Speed < 0,
		}
	}

	frame, err := b.oracle.Houses(ctx, jd, latitude, longitude, b.tables.HouseSystem)
	if err != nil {
		return models.NatalChart{}, fmt.Errorf("%w: houses: %v", service.ErrEphemeris, err)
	}
	cusps := make([]float64, len(frame.Cusps))
	for i, c := range frame.Cusps {
		cusps[i] = astro.Normalize(c)
	}

	for name, p := range planets {
		if h, ok := astro.HouseOf(p.Longitude, cusps); ok {
			house := h
			p.House = &house
			planets[name] = p
		}
	}

	return models.NatalChart{
		Ascendant: astro.Normalize(frame.Ascendant),
		Midheaven: astro.Normalize(frame.Midheaven),
		Planets:   planets,
		Houses:    cusps,
		Aspects:   b.intraAspects(planets),
	}, nil
}

// intraAspects scans every unordered pair of bodies. The five type checks per
// pair are independent: every type whose orb fits is recorded, not only the
// tightest match.
func (b *ChartBuilder) intraAspects(planets map[string]models.PlanetPosition) []models.Aspect {
	aspects := []models.Aspect{}
	bodies := b.tables.Bodies
	for i := 0; i < len(bodies); i++ {
		p1, ok := planets[bodies[i].Name]
		if !ok {
			continue
		}
		for j := i + 1; j < len(bodies); j++ {
			p2, ok := planets[bodies[j].Name]
			if !ok {
				continue
			}
			diff := astro.AngularDistance(p1.Longitude, p2.Longitude)
			for _, at := range b.tables.Aspects {
				orb := math.Abs(diff - at.Angle)
				if orb <= at.MaxOrb {
					aspects = append(aspects, models.Aspect{
						Planet1:    p1.Name,
						Planet2:    p2.Name,
						AspectType: at.Name,
						Orb:        math.Round(orb*100) / 100,
					})
				}
			}
		}
	}
	return aspects
}
