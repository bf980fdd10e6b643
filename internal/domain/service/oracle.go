package service

import (
	"context"
	"errors"

	"AstroChart/internal/domain/models"
	"AstroChart/internal/services/astro"
)

// Oracle is the ephemeris boundary the engine computes against. An oracle is
// fully configured at construction (backend, data path); no call mutates
// shared state, so one instance serves concurrent builds.
type Oracle interface {
	// JulianDay converts a UT calendar moment to a Julian Day number.
	// The hour is fractional (hour + minute/60 + second/3600).
	JulianDay(ctx context.Context, year, month, day int, hourUT float64) (float64, error)
	// Position returns the ecliptic position and daily speed of a body.
	Position(ctx context.Context, jd float64, body astro.Body) (models.BodyPosition, error)
	// Houses returns the 12 cusps plus ascendant and midheaven for a location,
	// using a single-letter house system code.
	Houses(ctx context.Context, jd, lat, lon float64, system byte) (models.HouseFrame, error)
	// Backend names the implementation for health checks and logging.
	Backend() string
}

// Domain error taxonomy. Neither is retried inside the engine; retry policy,
// if any, belongs to the caller.
var (
	// ErrInvalidInput marks a birth moment that cannot be resolved to a
	// timezone-qualified instant.
	ErrInvalidInput = errors.New("invalid input")
	// ErrEphemeris wraps any oracle failure (out-of-range dates, unsupported
	// body or house-system codes, transport errors on the remote backend).
	ErrEphemeris = errors.New("ephemeris failure")
)
