package orbital

import (
	"fmt"
	"math"
)

const (
	// keplerIterations is the fixed Newton-Raphson budget for Kepler's equation.
	// For e < 0.95 the iteration converges to double precision well before the
	// eighth step, so there is no residual check.
	keplerIterations = 8
)

// Elements defines a Keplerian orbit via its mean classical elements.
// All angles are stored in radians; a is in the caller's length unit (AU for
// the planet catalog).
type Elements struct {
	a, e, i, Ω, ω, M0 float64
}

// NewElements returns the orbital elements with all angles in radians.
func NewElements(a, e, i, Ω, ω, M0 float64) Elements {
	return Elements{a, e, i, Ω, ω, M0}
}

// NewElementsFromDegrees returns the orbital elements converting all angles
// from degrees, as catalog files store them.
func NewElementsFromDegrees(a, e, i, Ω, ω, M0 float64) Elements {
	return Elements{a, e, Deg2rad(i), Deg2rad(Ω), Deg2rad(ω), Deg2rad(M0)}
}

// A returns the semi-major axis.
func (el Elements) A() float64 { return el.a }

// Ecc returns the eccentricity.
func (el Elements) Ecc() float64 { return el.e }

// MeanAnomaly returns the epoch mean anomaly M0.
func (el Elements) MeanAnomaly() float64 { return el.M0 }

// WithEcc returns a copy of these elements with the eccentricity replaced.
// Used by the rendering layer for eccentricity exaggeration; the solver itself
// never clamps.
func (el Elements) WithEcc(e float64) Elements {
	el.e = e
	return el
}

// String implements the Stringer interface.
func (el Elements) String() string {
	return fmt.Sprintf("a=%.4f e=%.4f i=%.3f Ω=%.3f ω=%.3f M0=%.3f", el.a, el.e, Rad2deg(el.i), Rad2deg(el.Ω), Rad2deg(el.ω), Rad2deg(el.M0))
}

// KeplerE solves Kepler's equation M = E - e·sin(E) for the eccentric anomaly
// via Newton-Raphson seeded at E0 = M, with a fixed iteration budget.
func KeplerE(M, e float64) float64 {
	E := M
	for iter := 0; iter < keplerIterations; iter++ {
		sinE, cosE := math.Sincos(E)
		E -= (E - e*sinE - M) / (1 - e*cosE)
	}
	return E
}

// cartesianAtM returns the position for these elements at the given mean anomaly.
func (el Elements) cartesianAtM(M float64) []float64 {
	E := KeplerE(M, el.e)
	sinE, cosE := math.Sincos(E)
	ν := math.Atan2(math.Sqrt(1-el.e*el.e)*sinE, cosE-el.e)
	r := el.a * (1 - el.e*cosE)
	sinν, cosν := math.Sincos(ν)
	return PQW2ECI(el.i, el.ω, el.Ω, []float64{r * cosν, r * sinν, 0})
}

// Cartesian returns the position of these elements at their epoch mean anomaly,
// in the reference frame and in the same length unit as a.
func (el Elements) Cartesian() []float64 {
	return el.cartesianAtM(el.M0)
}

// SamplePath returns nPoints positions at evenly spaced mean anomalies over
// [0, 2π), ignoring the stored M0. Use it to draw the static ellipse.
func (el Elements) SamplePath(nPoints int) [][]float64 {
	path := make([][]float64, nPoints)
	for k := 0; k < nPoints; k++ {
		M := 2 * math.Pi * float64(k) / float64(nPoints)
		path[k] = el.cartesianAtM(M)
	}
	return path
}

// MeanAnomalyAt returns the mean anomaly at time t for the gravitational
// parameter μ, wrapped into [0, 2π). The unit of t must be consistent with μ
// (days for the AU³/day² planetary μ).
func (el Elements) MeanAnomalyAt(t, μ float64) float64 {
	n := math.Sqrt(μ / math.Pow(el.a, 3))
	M := math.Mod(el.M0+n*t, 2*math.Pi)
	if M < 0 {
		M += 2 * math.Pi
	}
	return M
}

// AtTime returns a copy of these elements with M0 advanced to time t.
func (el Elements) AtTime(t, μ float64) Elements {
	el.M0 = el.MeanAnomalyAt(t, μ)
	return el
}
