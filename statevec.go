package orbital

import (
	"math"
)

const (
	// radiusε guards divisions by the radial distance near the origin.
	radiusε = 1e-9
	// energyε bounds the specific energies treated as parabolic.
	energyε = 1e-12
)

// DerivedElements holds the scalar diagnostics computed from a raw state vector.
// Components may be NaN or Inf for degenerate states (see ElementsFromRV).
type DerivedElements struct {
	A      float64 // semi-major axis
	Ecc    float64 // eccentricity
	HNorm  float64 // specific angular momentum magnitude
	Energy float64 // specific mechanical energy ξ
}

// IsFinite returns whether every component is finite. Non-finite elements come
// from degenerate states (near-zero radius or near-parabolic energy) and must
// not be displayed.
func (d DerivedElements) IsFinite() bool {
	for _, v := range []float64{d.A, d.Ecc, d.HNorm, d.Energy} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// ElementsFromRV derives the orbital diagnostics from the R and V vectors.
// From Vallado's RV2COE, page 113. A zero-length radius or a non-negative
// energy (the state is not bound) produces non-finite components rather than
// an error.
func ElementsFromRV(R, V []float64, μ float64) DerivedElements {
	hVec := cross(R, V)
	v := norm(V)
	r := norm(R)
	ξ := (v*v)/2 - μ/r
	a := -μ / (2 * ξ)
	if ξ > -energyε {
		// Parabolic and hyperbolic states have no bound semi-major axis.
		a = math.Inf(1)
	}
	eVec := make([]float64, 3)
	vxh := cross(V, hVec)
	for i := 0; i < 3; i++ {
		eVec[i] = vxh[i]/μ - R[i]/r
	}
	return DerivedElements{A: a, Ecc: norm(eVec), HNorm: norm(hVec), Energy: ξ}
}

// StationKeepingError holds the per-frame station-keeping diagnostics against
// a target circular orbit.
type StationKeepingError struct {
	RadialDistance          float64
	PositionError           float64 // radial distance minus target radius
	RadialVelocity          float64
	TangentialVelocity      float64
	TangentialVelocityError float64 // tangential speed minus circular speed
	CircularVelocity        float64
}

// StationKeeping computes the station-keeping error of a state against the
// target radius. Pure: shared by the live display and the analytics pass.
func StationKeeping(R, V []float64, targetRadius, μ float64) StationKeepingError {
	r := norm(R)
	// unit returns the zero vector at the origin, so vRad degrades to 0 there.
	vRad := dot(V, unit(R))
	v := norm(V)
	// Cancellation can push v²-vRad² slightly negative.
	vTan := math.Sqrt(math.Max(0, v*v-vRad*vRad))
	vCirc := math.Sqrt(μ / math.Max(radiusε, targetRadius))
	return StationKeepingError{
		RadialDistance:          r,
		PositionError:           r - targetRadius,
		RadialVelocity:          vRad,
		TangentialVelocity:      vTan,
		TangentialVelocityError: vTan - vCirc,
		CircularVelocity:        vCirc,
	}
}
