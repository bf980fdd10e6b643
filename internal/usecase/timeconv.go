package usecase

import (
	"context"
	"fmt"
	"math"
	"time"

	"AstroChart/internal/domain/service"
)

// naiveLayout is the accepted zone-less timestamp form. A bare value is
// resolved against the request's UTC offset; an RFC3339 value keeps its
// absolute instant and is only re-expressed in that offset.
const naiveLayout = "2006-01-02T15:04:05"

// TimeConverter resolves a birth moment to a Julian Day (UT) through the
// oracle's day-count function.
type TimeConverter struct {
	oracle service.Oracle
}

func NewTimeConverter(oracle service.Oracle) TimeConverter {
	return TimeConverter{oracle: oracle}
}

// Resolve parses dateTime, qualifies it with the offset zone and converts the
// UTC instant to a Julian Day. Input that cannot be resolved to a
// timezone-qualified instant fails with service.ErrInvalidInput.
func (tc TimeConverter) Resolve(ctx context.Context, dateTime string, tzOffsetHours float64) (float64, error) {
	loc := time.FixedZone(offsetName(tzOffsetHours), int(math.Round(tzOffsetHours*3600)))

	var t time.Time
	if parsed, err := time.Parse(time.RFC3339, dateTime); err == nil {
		// Already zone-qualified: re-express in the given offset. The absolute
		// instant is unchanged, and the conversion to UTC below makes the
		// representation irrelevant.
		t = parsed.In(loc)
	} else if parsed, err := time.ParseInLocation(naiveLayout, dateTime, loc); err == nil {
		t = parsed
	} else {
		return 0, fmt.Errorf("%w: %q is not a resolvable date-time", service.ErrInvalidInput, dateTime)
	}

	u := t.UTC()
	hour := float64(u.Hour()) + float64(u.Minute())/60 + float64(u.Second())/3600
	jd, err := tc.oracle.JulianDay(ctx, u.Year(), int(u.Month()), u.Day(), hour)
	if err != nil {
		return 0, fmt.Errorf("%w: julian day: %v", service.ErrEphemeris, err)
	}
	return jd, nil
}

func offsetName(hours float64) string {
	return fmt.Sprintf("UTC%+g", hours)
}
