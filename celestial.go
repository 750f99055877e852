package orbital

import (
	"fmt"
	"strings"
	"time"

	"github.com/soniakeys/meeus/julian"
)

const (
	// AU is one astronomical unit in kilometers.
	AU = 1.49597870700e8
	// J2000 is the julian date of the J2000.0 epoch, the epoch of the catalog.
	J2000 = 2451545.0
	// maxRenderEcc bounds the exaggerated eccentricity fed to the solver by the
	// rendering layer. The fixed-budget Kepler iteration stays accurate there.
	maxRenderEcc = 0.9
)

// Planet is a catalog entry: a body on an independent two-body Keplerian orbit
// around the Sun. Radius is display metadata in kilometers.
type Planet struct {
	Name     string
	Elements Elements
	Radius   float64
}

// Planets is the built-in eight-planet catalog with J2000 mean elements
// (semi-major axes in AU). Derived from the JPL approximate elements, with
// ω = ϖ - Ω and M0 = L - ϖ.
var Planets = []Planet{
	{"Mercury", NewElementsFromDegrees(0.38709927, 0.20563593, 7.00497902, 48.33076593, 29.12703035, 174.79252722), 2439.7},
	{"Venus", NewElementsFromDegrees(0.72333566, 0.00677672, 3.39467605, 76.67984255, 54.92262463, 50.37663232), 6051.8},
	{"Earth", NewElementsFromDegrees(1.00000261, 0.01671123, 0.00001531, 0, 102.93768193, 357.51688973), 6378.1363},
	{"Mars", NewElementsFromDegrees(1.52371034, 0.09339410, 1.84969142, 49.55953891, 286.49683150, 19.39019754), 3396.19},
	{"Jupiter", NewElementsFromDegrees(5.20288700, 0.04838624, 1.30439695, 100.47390909, 274.25457074, 19.66796068), 71492.0},
	{"Saturn", NewElementsFromDegrees(9.53667594, 0.05386179, 2.48599187, 113.66242448, 338.93645383, 317.35536592), 60268.0},
	{"Uranus", NewElementsFromDegrees(19.18916464, 0.04725744, 0.77263783, 74.01692503, 96.93735127, 142.28382821), 25559.0},
	{"Neptune", NewElementsFromDegrees(30.06992276, 0.00859048, 1.77004347, 131.78422574, 273.18053653, 259.91520804), 24764.0},
}

// PlanetByName returns the catalog planet with that name (case insensitive).
func PlanetByName(name string) (Planet, error) {
	for _, p := range Planets {
		if strings.EqualFold(p.Name, name) {
			return p, nil
		}
	}
	return Planet{}, fmt.Errorf("unknown planet `%s`", name)
}

// String implements the Stringer interface.
func (p Planet) String() string {
	return p.Name + " body"
}

// PositionAt returns the heliocentric position of the planet at the given time
// in AU, by advancing the catalog mean anomaly to the julian day of dt.
func (p Planet) PositionAt(dt time.Time) []float64 {
	days := julian.TimeToJD(dt) - J2000
	return p.Elements.AtTime(days, MuSun).Cartesian()
}

// RenderElements returns the elements with the eccentricity scaled by the
// caller's exaggeration factor and clamped to the render bound. This is a
// rendering concern layered on top of the solver, never inside it.
func (p Planet) RenderElements(eccScale float64) Elements {
	e := p.Elements.e * eccScale
	if e > maxRenderEcc {
		e = maxRenderEcc
	}
	return p.Elements.WithEcc(e)
}

// PathAt samples the planet's static ellipse for drawing, with the render
// eccentricity exaggeration applied.
func (p Planet) PathAt(eccScale float64, nPoints int) [][]float64 {
	return p.RenderElements(eccScale).SamplePath(nPoints)
}
