package orbital

import (
	"math"
	"testing"
	"time"

	"github.com/gonum/floats"
)

func TestPlanetByName(t *testing.T) {
	p, err := PlanetByName("earth")
	if err != nil {
		t.Fatalf("lookup should be case insensitive: %s", err)
	}
	if p.Name != "Earth" {
		t.Fatalf("got %s", p.Name)
	}
	if _, err := PlanetByName("Vulcan"); err == nil {
		t.Fatal("expected an error for an unknown planet")
	}
}

func TestEarthPositionAtJ2000(t *testing.T) {
	earth, _ := PlanetByName("Earth")
	// Early January: Earth is near perihelion, about 0.983 AU out, essentially
	// in the ecliptic plane.
	pos := earth.PositionAt(time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC))
	r := norm(pos)
	if !floats.EqualWithinAbs(r, 0.9833, 1e-3) {
		t.Fatalf("Earth at J2000 at %f AU", r)
	}
	if math.Abs(pos[2]) > 1e-4 {
		t.Fatalf("Earth out of the ecliptic plane: z=%e", pos[2])
	}
}

func TestEarthPeriod(t *testing.T) {
	earth, _ := PlanetByName("Earth")
	// One sidereal year later the mean anomaly must come back around.
	M0 := earth.Elements.MeanAnomalyAt(0, MuSun)
	M1 := earth.Elements.MeanAnomalyAt(365.256, MuSun)
	if ok, err := anglesEqual(M0, M1); !ok {
		t.Fatalf("Earth year broken: %s", err)
	}
}

func TestPlanetOrbitBounds(t *testing.T) {
	// Every catalog orbit must stay between its periapsis and apoapsis.
	for _, p := range Planets {
		a, e := p.Elements.A(), p.Elements.Ecc()
		if e < 0 || e >= 1 {
			t.Fatalf("%s: catalog eccentricity %f out of [0,1)", p.Name, e)
		}
		for _, pos := range p.Elements.SamplePath(64) {
			r := norm(pos)
			if r < a*(1-e)-1e-9 || r > a*(1+e)+1e-9 {
				t.Fatalf("%s: radius %f out of [%f, %f]", p.Name, r, a*(1-e), a*(1+e))
			}
		}
	}
}

func TestRenderElementsClamp(t *testing.T) {
	mercury, _ := PlanetByName("Mercury")
	el := mercury.RenderElements(10)
	if !floats.EqualWithinAbs(el.Ecc(), maxRenderEcc, 1e-12) {
		t.Fatalf("render eccentricity not clamped: %f", el.Ecc())
	}
	// The catalog itself is untouched.
	if !floats.EqualWithinAbs(mercury.Elements.Ecc(), 0.20563593, 1e-9) {
		t.Fatal("clamping must not modify the catalog")
	}
	// No exaggeration, no change.
	if el := mercury.RenderElements(1); !floats.EqualWithinAbs(el.Ecc(), 0.20563593, 1e-9) {
		t.Fatalf("unexpected scale at 1x: %f", el.Ecc())
	}
}

func TestPathAt(t *testing.T) {
	venus, _ := PlanetByName("Venus")
	path := venus.PathAt(1, 128)
	if len(path) != 128 {
		t.Fatalf("expected 128 points, got %d", len(path))
	}
}
