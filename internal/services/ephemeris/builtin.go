package ephemeris

import (
	"context"
	"fmt"
	"math"
	"os"

	"AstroChart/internal/domain/models"
	"AstroChart/internal/services/astro"
	xlogger "AstroChart/pkg/logger"
)

const (
	j2000 = 2451545.0
	// step for the central-difference daily speed, in days each side
	speedStep = 0.5
	// general precession in ecliptic longitude, degrees per Julian century
	precessionRate = 1.39697
)

// Builtin is the analytic ephemeris backend: Keplerian mean elements for the
// Sun and planets, a truncated lunar series for the Moon, and semi-arc
// iteration for Placidus houses. It reads no files and holds no mutable
// state, so a single instance serves concurrent builds.
type Builtin struct {
	dataPath string
}

// BuiltinOption configures Builtin at construction.
type BuiltinOption func(*Builtin)

// WithDataPath records the precision-data folder requested by configuration.
// The analytic model has no file reader, so a configured path only produces a
// startup notice before the model is used as the fallback.
func WithDataPath(path string) BuiltinOption {
	return func(b *Builtin) { b.dataPath = path }
}

// NewBuiltin creates the analytic backend. The optional logger is used only
// for the one-time data-path notice.
func NewBuiltin(l *xlogger.Logger, opts ...BuiltinOption) *Builtin {
	b := &Builtin{}
	for _, opt := range opts {
		opt(b)
	}
	if b.dataPath != "" && l != nil {
		if st, err := os.Stat(b.dataPath); err != nil || !st.IsDir() {
			l.Warn("ephemeris data path not found, using analytic model",
				xlogger.String("path", b.dataPath))
		} else {
			l.Warn("builtin backend cannot read precision data, using analytic model",
				xlogger.String("path", b.dataPath))
		}
	}
	return b
}

func (b *Builtin) Backend() string { return "builtin" }

// JulianDay implements the standard Gregorian-calendar conversion.
func (b *Builtin) JulianDay(_ context.Context, year, month, day int, hourUT float64) (float64, error) {
	y, m := year, month
	if m <= 2 {
		y--
		m += 12
	}
	a := y / 100
	corr := 2 - a + a/4
	jd := math.Floor(365.25*float64(y+4716)) +
		math.Floor(30.6001*float64(m+1)) +
		float64(day) + float64(corr) - 1524.5 + hourUT/24
	return jd, nil
}

// Position returns the geocentric ecliptic position of a body. The daily
// speed comes from a central difference, so apparent retrograde motion shows
// up as a negative value with no special casing.
func (b *Builtin) Position(_ context.Context, jd float64, body astro.Body) (models.BodyPosition, error) {
	if body < astro.Sun || body > astro.Pluto {
		return models.BodyPosition{}, fmt.Errorf("unsupported body code %d", body)
	}
	lon, lat, dist := geocentric(jd, body)
	lonAfter, _, _ := geocentric(jd+speedStep, body)
	lonBefore, _, _ := geocentric(jd-speedStep, body)
	speed := wrap180(lonAfter-lonBefore) / (2 * speedStep)
	return models.BodyPosition{
		Longitude: lon,
		Latitude:  lat,
		Distance:  dist,
		Speed:     speed,
	}, nil
}

// Houses computes cusps, ascendant and midheaven. Placidus is undefined when
// the iteration hits a circumpolar arc (beyond the polar circles); the cusps
// then fall back to Porphyry, which is the conventional degradation.
func (b *Builtin) Houses(_ context.Context, jd, lat, lon float64, system byte) (models.HouseFrame, error) {
	if math.Abs(lat) > 90 {
		return models.HouseFrame{}, fmt.Errorf("latitude %v out of range", lat)
	}
	if system != astro.SystemPlacidus && system != astro.SystemPorphyry {
		return models.HouseFrame{}, fmt.Errorf("unsupported house system %q", string(system))
	}

	t := (jd - j2000) / 36525
	eps := obliquity(t)
	ramc := astro.Normalize(gmst(jd) + lon)

	mc := astro.Normalize(atan2d(sind(ramc), cosd(ramc)*cosd(eps)))
	asc := astro.Normalize(atan2d(cosd(ramc), -(sind(ramc)*cosd(eps) + tand(lat)*sind(eps))))

	cusps, ok := placidusCusps(ramc, eps, lat, asc, mc)
	if !ok || system == astro.SystemPorphyry {
		cusps = porphyryCusps(asc, mc)
	}
	return models.HouseFrame{Cusps: cusps, Ascendant: asc, Midheaven: mc}, nil
}

// --- planetary model ---

// Mean orbital elements and rates per Julian century, J2000 ecliptic
// (E.M. Standish, approximate positions 1800-2050).
type elements struct {
	a, aDot float64 // semi-major axis, au
	e, eDot float64 // eccentricity
	i, iDot float64 // inclination, deg
	l, lDot float64 // mean longitude, deg
	p, pDot float64 // longitude of perihelion, deg
	n, nDot float64 // longitude of ascending node, deg
}

var earthElements = elements{
	1.00000261, 0.00000562, 0.01671123, -0.00004392, -0.00001531, -0.01294668,
	100.46457166, 35999.37244981, 102.93768193, 0.32327364, 0, 0,
}

var planetElements = map[astro.Body]elements{
	astro.Mercury: {0.38709927, 0.00000037, 0.20563593, 0.00001906, 7.00497902, -0.00594749,
		252.25032350, 149472.67411175, 77.45779628, 0.16047689, 48.33076593, -0.12534081},
	astro.Venus: {0.72333566, 0.00000390, 0.00677672, -0.00004107, 3.39467605, -0.00078890,
		181.97909950, 58517.81538729, 131.60246718, 0.00268329, 76.67984255, -0.27769418},
	astro.Mars: {1.52371034, 0.00001847, 0.09339410, 0.00007882, 1.84969142, -0.00813131,
		-4.55343205, 19140.30268499, -23.94362959, 0.44441088, 49.55953891, -0.29257343},
	astro.Jupiter: {5.20288700, -0.00011607, 0.04838624, -0.00013253, 1.30439695, -0.00183714,
		34.39644051, 3034.74612775, 14.72847983, 0.21252668, 100.47390909, 0.20469106},
	astro.Saturn: {9.53667594, -0.00125060, 0.05386179, -0.00050991, 2.48599187, 0.00193609,
		49.95424423, 1222.49362201, 92.59887831, -0.41897216, 113.66242448, -0.28867794},
	astro.Uranus: {19.18916464, -0.00196176, 0.04725744, -0.00004397, 0.77263783, -0.00242939,
		313.23810451, 428.48202785, 170.95427630, 0.40805281, 74.01692503, 0.04240589},
	astro.Neptune: {30.06992276, 0.00026291, 0.00859048, 0.00005105, 1.77004347, 0.00035372,
		-55.12002969, 218.45945325, 44.96476227, -0.32241464, 131.78422574, -0.00508664},
	astro.Pluto: {39.48211675, -0.00031596, 0.24882730, 0.00005170, 17.14001206, 0.00004818,
		238.92903833, 145.20780515, 224.06891629, -0.04062942, 110.30393684, -0.01183482},
}

// geocentric returns ecliptic-of-date longitude and latitude in degrees and
// distance in au (the Moon's distance is returned in au as well).
func geocentric(jd float64, body astro.Body) (lon, lat, dist float64) {
	t := (jd - j2000) / 36525
	if body == astro.Moon {
		return moonPosition(t)
	}

	ex, ey, ez := heliocentric(t, earthElements)
	var x, y, z float64
	if body == astro.Sun {
		x, y, z = -ex, -ey, -ez
	} else {
		px, py, pz := heliocentric(t, planetElements[body])
		x, y, z = px-ex, py-ey, pz-ez
	}

	dist = math.Sqrt(x*x + y*y + z*z)
	lon = astro.Normalize(atan2d(y, x) + precessionRate*t)
	lat = asind(z / dist)
	return lon, lat, dist
}

// heliocentric solves the Kepler problem for one body and rotates the orbital
// plane coordinates into the J2000 ecliptic frame.
func heliocentric(t float64, el elements) (x, y, z float64) {
	a := el.a + el.aDot*t
	e := el.e + el.eDot*t
	inc := el.i + el.iDot*t
	l := el.l + el.lDot*t
	peri := el.p + el.pDot*t
	node := el.n + el.nDot*t

	m := wrap180(l-peri) * math.Pi / 180
	ea := keplerE(m, e)

	xp := a * (math.Cos(ea) - e)
	yp := a * math.Sqrt(1-e*e) * math.Sin(ea)

	w := (peri - node) * math.Pi / 180
	o := node * math.Pi / 180
	i := inc * math.Pi / 180
	cw, sw := math.Cos(w), math.Sin(w)
	co, so := math.Cos(o), math.Sin(o)
	ci, si := math.Cos(i), math.Sin(i)

	x = (cw*co-sw*so*ci)*xp + (-sw*co-cw*so*ci)*yp
	y = (cw*so+sw*co*ci)*xp + (-sw*so+cw*co*ci)*yp
	z = (sw*si)*xp + (cw*si)*yp
	return x, y, z
}

// keplerE solves E - e*sinE = M by Newton iteration. M in radians.
func keplerE(m, e float64) float64 {
	ea := m + e*math.Sin(m)
	for i := 0; i < 12; i++ {
		d := (ea - e*math.Sin(ea) - m) / (1 - e*math.Cos(ea))
		ea -= d
		if math.Abs(d) < 1e-9 {
			break
		}
	}
	return ea
}

// moonPosition is the Astronomical Almanac low-precision lunar series
// (about 0.3 degree in longitude). t in Julian centuries since J2000.
func moonPosition(t float64) (lon, lat, dist float64) {
	lon = astro.Normalize(218.32 + 481267.881*t +
		6.29*sind(135.0+477198.87*t) -
		1.27*sind(259.3-413335.36*t) +
		0.66*sind(235.7+890534.22*t) +
		0.21*sind(269.9+954397.74*t) -
		0.19*sind(357.5+35999.05*t) -
		0.11*sind(186.5+966404.03*t))
	lat = 5.13*sind(93.3+483202.02*t) +
		0.28*sind(228.2+960400.89*t) -
		0.28*sind(318.3+6003.15*t) -
		0.17*sind(217.6-407332.21*t)
	dist = 0.00257 // mean Earth-Moon distance, au
	return lon, lat, dist
}

// --- houses ---

// gmst returns Greenwich mean sidereal time in degrees.
func gmst(jd float64) float64 {
	t := (jd - j2000) / 36525
	return astro.Normalize(280.46061837 + 360.98564736629*(jd-j2000) +
		0.000387933*t*t - t*t*t/38710000)
}

// obliquity returns the mean obliquity of the ecliptic in degrees.
func obliquity(t float64) float64 {
	return 23.439291111 - 0.0130042*t - 1.64e-7*t*t + 5.04e-7*t*t*t
}

// placidusCusps runs the semi-arc iteration for the intermediate cusps.
// Returns ok=false when any arc is circumpolar.
func placidusCusps(ramc, eps, lat, asc, mc float64) ([]float64, bool) {
	type spec struct {
		offset   float64 // starting hour-angle offset from the MC, degrees
		fraction float64 // fraction of the semi-arc
		diurnal  bool
	}
	specs := [4]spec{
		{30, 1.0 / 3.0, true},   // cusp 11
		{60, 2.0 / 3.0, true},   // cusp 12
		{120, 2.0 / 3.0, false}, // cusp 2
		{150, 1.0 / 3.0, false}, // cusp 3
	}

	inter := [4]float64{}
	for k, s := range specs {
		ra := ramc + s.offset
		converged := false
		for i := 0; i < 30; i++ {
			dec := atand(tand(eps) * sind(ra))
			x := tand(lat) * tand(dec)
			if x < -1 || x > 1 {
				return nil, false
			}
			ad := asind(x)
			var next float64
			if s.diurnal {
				next = ramc + s.fraction*(90+ad)
			} else {
				next = ramc + 180 - s.fraction*(90-ad)
			}
			if math.Abs(wrap180(next-ra)) < 1e-7 {
				ra = next
				converged = true
				break
			}
			ra = next
		}
		if !converged {
			return nil, false
		}
		inter[k] = astro.Normalize(atan2d(sind(ra), cosd(ra)*cosd(eps)))
	}

	c := make([]float64, 12)
	c[0] = asc
	c[1] = inter[2]
	c[2] = inter[3]
	c[9] = mc
	c[10] = inter[0]
	c[11] = inter[1]
	for i := 3; i < 9; i++ {
		c[i] = astro.Normalize(c[(i+6)%12] + 180)
	}
	return c, true
}

// porphyryCusps trisects the ecliptic arcs between the angles.
func porphyryCusps(asc, mc float64) []float64 {
	c := make([]float64, 12)
	c[0] = asc
	c[9] = mc
	q := astro.Normalize(asc - mc)
	c[10] = astro.Normalize(mc + q/3)
	c[11] = astro.Normalize(mc + 2*q/3)
	ic := astro.Normalize(mc + 180)
	r := astro.Normalize(ic - asc)
	c[1] = astro.Normalize(asc + r/3)
	c[2] = astro.Normalize(asc + 2*r/3)
	for i := 3; i < 9; i++ {
		c[i] = astro.Normalize(c[(i+6)%12] + 180)
	}
	return c
}

// --- degree trig helpers ---

func sind(x float64) float64  { return math.Sin(x * math.Pi / 180) }
func cosd(x float64) float64  { return math.Cos(x * math.Pi / 180) }
func tand(x float64) float64  { return math.Tan(x * math.Pi / 180) }
func asind(x float64) float64 { return math.Asin(x) * 180 / math.Pi }
func atand(x float64) float64 { return math.Atan(x) * 180 / math.Pi }

func atan2d(y, x float64) float64 { return math.Atan2(y, x) * 180 / math.Pi }

// wrap180 maps an angle difference into (-180, 180].
func wrap180(x float64) float64 {
	a := math.Mod(x+180, 360)
	if a < 0 {
		a += 360
	}
	return a - 180
}
