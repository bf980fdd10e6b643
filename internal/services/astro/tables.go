package astro

// Body identifies a chart body. Codes follow the Swiss Ephemeris convention
// so the remote backend can pass them through untranslated.
type Body int

const (
	Sun Body = iota
	Moon
	Mercury
	Venus
	Mars
	Jupiter
	Saturn
	Uranus
	Neptune
	Pluto
)

// House system codes, single-letter Swiss Ephemeris convention.
const (
	SystemPlacidus byte = 'P'
	SystemPorphyry byte = 'O'
)

// BodyEntry pins a body name to its code. The slice order in Tables fixes the
// detection order of aspect pairs.
type BodyEntry struct {
	Name string
	ID   Body
}

// AspectEntry defines one aspect type: its exact angle and the maximum
// allowed orb.
type AspectEntry struct {
	Name   string
	Angle  float64
	MaxOrb float64
}

// Tables carries every constant the engine consumes: the body set, zodiac
// names, aspect angles and orb limits, aspect nature sets, block weights and
// the house system. Built once at startup and injected, so tests can run
// alternate policies without touching globals.
type Tables struct {
	Bodies       []BodyEntry
	ZodiacSigns  []string
	Aspects      []AspectEntry
	Harmonious   map[string]bool
	Challenging  map[string]bool
	Neutral      map[string]bool
	BlockWeights map[string]float64
	HouseSystem  byte
}

// DefaultTables returns the production constant set.
func DefaultTables() Tables {
	return Tables{
		Bodies: []BodyEntry{
			{"Sun", Sun},
			{"Moon", Moon},
			{"Mercury", Mercury},
			{"Venus", Venus},
			{"Mars", Mars},
			{"Jupiter", Jupiter},
			{"Saturn", Saturn},
			{"Uranus", Uranus},
			{"Neptune", Neptune},
			{"Pluto", Pluto},
		},
		ZodiacSigns: []string{
			"Aries", "Taurus", "Gemini", "Cancer", "Leo", "Virgo",
			"Libra", "Scorpio", "Sagittarius", "Capricorn", "Aquarius", "Pisces",
		},
		Aspects: []AspectEntry{
			{"conjunction", 0, 8},
			{"sextile", 60, 5},
			{"square", 90, 6},
			{"trine", 120, 7},
			{"opposition", 180, 8},
		},
		Harmonious:  map[string]bool{"trine": true, "sextile": true},
		Challenging: map[string]bool{"square": true, "opposition": true},
		Neutral:     map[string]bool{"conjunction": true},
		BlockWeights: map[string]float64{
			"romantic":  0.30,
			"emotional": 0.25,
			"mental":    0.15,
			"sexual":    0.15,
			"stability": 0.15,
		},
		HouseSystem: SystemPlacidus,
	}
}

// SignOf resolves the zodiac sign and in-sign degree for a longitude already
// normalized to [0, 360).
func (t Tables) SignOf(longitude float64) (string, float64) {
	idx := int(longitude / 30)
	return t.ZodiacSigns[idx], longitude - float64(idx)*30
}
