package orbital

import (
	"math"
	"testing"

	"github.com/gonum/floats"
)

func fp(v float64) *float64 {
	return &v
}

// tolFrame returns a frame pinned in or out of the tolerance band through the
// precomputed error fields, at a safe radial distance.
func tolFrame(inTol bool) Frame {
	if inTol {
		return Frame{R: []float64{1, 0, 0}, V: []float64{0, 1, 0}, PosErr: fp(0), VTanErr: fp(0)}
	}
	return Frame{R: []float64{1.2, 0, 0}, V: []float64{0, 1, 0}, PosErr: fp(0.2), VTanErr: fp(0)}
}

func TestAnalyzeEpisodeDebounce(t *testing.T) {
	// Out of tolerance for frames 0-49, in tolerance for 50-99, K=30: the
	// streak reaches K at frame 79, so the capture is stamped at the start of
	// the qualifying window, frame 50.
	ep := make(Episode, 100)
	for i := range ep {
		ep[i] = tolFrame(i >= 50)
	}
	m := AnalyzeEpisode(ep, DefaultAnalysisConfig())
	if m.CapturedAt == nil {
		t.Fatal("expected a capture")
	}
	if *m.CapturedAt != 50 {
		t.Fatalf("capturedAt = %d, expected 50", *m.CapturedAt)
	}
	var entered []Event
	for _, evt := range m.Events {
		if evt.Kind == EventEnteredTolerance {
			entered = append(entered, evt)
		}
	}
	if len(entered) != 1 || entered[0].Frame != 50 {
		t.Fatalf("expected one entered_tolerance event at frame 50, got %+v", entered)
	}
	if m.PctInTolerance != 0.5 {
		t.Fatalf("pct in tolerance = %f, expected 0.5", m.PctInTolerance)
	}
	if m.FrameCount != 100 {
		t.Fatalf("frame count = %d", m.FrameCount)
	}
}

func TestAnalyzeEpisodeNeverLeft(t *testing.T) {
	// A trajectory that starts inside the band and never leaves is not a
	// capture, regardless of length.
	for _, count := range []int{1, 31, 500} {
		ep := make(Episode, count)
		for i := range ep {
			ep[i] = tolFrame(true)
		}
		m := AnalyzeEpisode(ep, DefaultAnalysisConfig())
		if m.CapturedAt != nil {
			t.Fatalf("unexpected capture at %d for %d frames", *m.CapturedAt, count)
		}
		if m.PctInTolerance != 1 {
			t.Fatalf("pct in tolerance = %f", m.PctInTolerance)
		}
	}
}

func TestAnalyzeEpisodeCapturePermanent(t *testing.T) {
	// Once set, capturedAt never moves, even after later excursions and
	// re-entries.
	cfg := DefaultAnalysisConfig()
	cfg.DebounceWindow = 5
	ep := make(Episode, 60)
	for i := range ep {
		inTol := (i >= 10 && i < 20) || i >= 40
		ep[i] = tolFrame(inTol)
	}
	m := AnalyzeEpisode(ep, cfg)
	if m.CapturedAt == nil || *m.CapturedAt != 10 {
		t.Fatalf("capturedAt = %v, expected 10", m.CapturedAt)
	}
	entered := 0
	for _, evt := range m.Events {
		if evt.Kind == EventEnteredTolerance {
			entered++
		}
	}
	if entered != 1 {
		t.Fatalf("expected exactly one entered_tolerance event, got %d", entered)
	}
}

func TestAnalyzeEpisodePctExact(t *testing.T) {
	// 40 in-tolerance frames out of 100 is exactly 0.4.
	ep := make(Episode, 100)
	for i := range ep {
		ep[i] = tolFrame(i < 40)
	}
	m := AnalyzeEpisode(ep, DefaultAnalysisConfig())
	if m.PctInTolerance != 0.4 {
		t.Fatalf("pct in tolerance = %v, expected exactly 0.4", m.PctInTolerance)
	}
}

func TestAnalyzeEpisodeThrust(t *testing.T) {
	ep := Episode{
		tolFrame(false),
		func() Frame {
			f := tolFrame(false)
			f.Thrust = []float64{0.03, 0, 0}
			return f
		}(),
		func() Frame {
			f := tolFrame(false)
			f.Thrust = []float64{0.01, 0, 0}
			return f
		}(),
	}
	m := AnalyzeEpisode(ep, DefaultAnalysisConfig())
	var thrusts []Event
	for _, evt := range m.Events {
		if evt.Kind == EventThrust {
			thrusts = append(thrusts, evt)
		}
	}
	if len(thrusts) != 1 || thrusts[0].Frame != 1 {
		t.Fatalf("expected one thrust event at frame 1, got %+v", thrusts)
	}
	if !floats.EqualWithinAbs(m.FuelSum, 0.04, 1e-12) {
		t.Fatalf("fuel sum = %f", m.FuelSum)
	}
}

func TestAnalyzeEpisodeRewards(t *testing.T) {
	f1 := tolFrame(true)
	f1.Reward = 1.5
	f2 := tolFrame(true)
	f2.Reward = -0.25
	m := AnalyzeEpisode(Episode{f1, f2, tolFrame(true)}, DefaultAnalysisConfig())
	if !floats.EqualWithinAbs(m.RewardSum, 1.25, 1e-12) {
		t.Fatalf("reward sum = %f", m.RewardSum)
	}
}

func TestAnalyzeEpisodeEmpty(t *testing.T) {
	m := AnalyzeEpisode(Episode{}, DefaultAnalysisConfig())
	if m.FrameCount != 0 || m.PctInTolerance != 0 || m.CapturedAt != nil || len(m.Events) != 0 || m.RewardSum != 0 || m.FuelSum != 0 {
		t.Fatalf("empty episode must yield degenerate metrics, got %+v", m)
	}
}

func TestAnalyzeEpisodeEdgeEvents(t *testing.T) {
	// too_close and escape fire on entry into their regions, not on every
	// frame inside them.
	mk := func(r float64) Frame {
		return Frame{R: []float64{r, 0, 0}, V: []float64{0, 1, 0}, PosErr: fp(0.5), VTanErr: fp(0)}
	}
	ep := Episode{mk(1), mk(0.1), mk(0.15), mk(1), mk(0.1), mk(6), mk(7), mk(1)}
	m := AnalyzeEpisode(ep, DefaultAnalysisConfig())
	var tooClose, escape []int
	for _, evt := range m.Events {
		switch evt.Kind {
		case EventTooClose:
			tooClose = append(tooClose, evt.Frame)
		case EventEscape:
			escape = append(escape, evt.Frame)
		}
	}
	if len(tooClose) != 2 || tooClose[0] != 1 || tooClose[1] != 4 {
		t.Fatalf("too_close events: %+v", tooClose)
	}
	if len(escape) != 1 || escape[0] != 5 {
		t.Fatalf("escape events: %+v", escape)
	}
}

func TestAnalyzeEpisodeEventOrdering(t *testing.T) {
	// The entered_tolerance event is stamped before the frame it is detected
	// on; the final timeline is still ascending by frame index.
	cfg := DefaultAnalysisConfig()
	cfg.DebounceWindow = 10
	ep := make(Episode, 40)
	for i := range ep {
		ep[i] = tolFrame(i >= 10)
	}
	ep[15].Thrust = []float64{0.05, 0, 0}
	m := AnalyzeEpisode(ep, cfg)
	for i := 1; i < len(m.Events); i++ {
		if m.Events[i].Frame < m.Events[i-1].Frame {
			t.Fatalf("events not ascending: %+v", m.Events)
		}
	}
	if len(m.Events) != 2 || m.Events[0] != (Event{10, EventEnteredTolerance}) || m.Events[1] != (Event{15, EventThrust}) {
		t.Fatalf("unexpected timeline: %+v", m.Events)
	}
}

func TestAnalyzeEpisodeRecompute(t *testing.T) {
	// Without precomputed errors the engine falls back to the station-keeping
	// analyzer: a perfect circular trajectory is always in tolerance.
	ep := make(Episode, 50)
	for i := range ep {
		θ := float64(i) * 0.05
		sinθ, cosθ := math.Sincos(θ)
		ep[i] = Frame{R: []float64{cosθ, sinθ, 0}, V: []float64{-sinθ, cosθ, 0}}
	}
	m := AnalyzeEpisode(ep, DefaultAnalysisConfig())
	if m.PctInTolerance != 1 {
		t.Fatalf("pct in tolerance = %f, expected 1", m.PctInTolerance)
	}
	if m.CapturedAt != nil {
		t.Fatal("no capture without a prior excursion")
	}
}

func TestAnalyzeEpisodePrecomputedPriority(t *testing.T) {
	// When the instrumentation recorded its own errors they override the
	// station-keeping recomputation, even when the state vector disagrees.
	out := Frame{R: []float64{1, 0, 0}, V: []float64{0, 1, 0}, PosErr: fp(0.5), VTanErr: fp(0)}
	m := AnalyzeEpisode(Episode{out, out}, DefaultAnalysisConfig())
	if m.PctInTolerance != 0 {
		t.Fatalf("recorded errors ignored on a circular state: pct = %f", m.PctInTolerance)
	}
	// The reverse: a far-off state pinned in tolerance by the recorded errors.
	in := Frame{R: []float64{3, 0, 0}, V: []float64{0, 0, 0}, PosErr: fp(0), VTanErr: fp(0)}
	m = AnalyzeEpisode(Episode{in, in}, DefaultAnalysisConfig())
	if m.PctInTolerance != 1 {
		t.Fatalf("recorded errors ignored on a far-off state: pct = %f", m.PctInTolerance)
	}
}

func TestAnalyzeEpisodePrecomputedPartial(t *testing.T) {
	// A single recorded field overrides just its recomputed counterpart.
	f := Frame{R: []float64{1, 0, 0}, V: []float64{0, 1, 0}, PosErr: fp(0.5)}
	m := AnalyzeEpisode(Episode{f}, DefaultAnalysisConfig())
	if m.PctInTolerance != 0 {
		t.Fatalf("recorded position error ignored: pct = %f", m.PctInTolerance)
	}
	f = Frame{R: []float64{1, 0, 0}, V: []float64{0, 1, 0}, VTanErr: fp(0.5)}
	m = AnalyzeEpisode(Episode{f}, DefaultAnalysisConfig())
	if m.PctInTolerance != 0 {
		t.Fatalf("recorded velocity error ignored: pct = %f", m.PctInTolerance)
	}
	// The recomputed half still applies alongside an in-band recorded field.
	f = Frame{R: []float64{1, 0, 0}, V: []float64{0, 1, 0}, PosErr: fp(0.01)}
	m = AnalyzeEpisode(Episode{f}, DefaultAnalysisConfig())
	if m.PctInTolerance != 1 {
		t.Fatalf("in-band recorded error misclassified: pct = %f", m.PctInTolerance)
	}
}

func TestAnalyzeRollout(t *testing.T) {
	epCaptured := make(Episode, 100)
	for i := range epCaptured {
		epCaptured[i] = tolFrame(i >= 50)
	}
	epNever := make(Episode, 100)
	for i := range epNever {
		epNever[i] = tolFrame(false)
	}
	metrics := AnalyzeRollout([]Episode{epNever, epCaptured, {}}, DefaultAnalysisConfig(), nil)
	if len(metrics) != 3 {
		t.Fatalf("expected 3 metrics, got %d", len(metrics))
	}
	if metrics[0].CapturedAt != nil {
		t.Fatal("episode 0 must not capture")
	}
	if metrics[1].CapturedAt == nil || *metrics[1].CapturedAt != 50 {
		t.Fatalf("episode 1 capture misplaced: %+v", metrics[1].CapturedAt)
	}
	if metrics[2].FrameCount != 0 {
		t.Fatal("episode 2 must be degenerate")
	}
}

func TestCompareRollouts(t *testing.T) {
	ten := 10
	twenty := 20
	a := []EpisodeMetrics{
		{RewardSum: 1, FuelSum: 2, PctInTolerance: 0.2, CapturedAt: &twenty},
		{RewardSum: 0, FuelSum: 1, PctInTolerance: 0.1},
		{RewardSum: 5, FuelSum: 5, PctInTolerance: 0.5},
	}
	b := []EpisodeMetrics{
		{RewardSum: 3, FuelSum: 1, PctInTolerance: 0.7, CapturedAt: &ten},
		{RewardSum: 2, FuelSum: 1, PctInTolerance: 0.4, CapturedAt: &ten},
	}
	cmps := CompareRollouts(a, b)
	if len(cmps) != 2 {
		t.Fatalf("expected 2 comparisons for mismatched lengths, got %d", len(cmps))
	}
	c := cmps[0]
	if !c.BothCaptured || c.CaptureAdvantage != 10 {
		t.Fatalf("comparison 0: %+v", c)
	}
	if !floats.EqualWithinAbs(c.RewardDelta, 2, 1e-12) || !floats.EqualWithinAbs(c.FuelDelta, -1, 1e-12) {
		t.Fatalf("comparison 0 deltas: %+v", c)
	}
	if !cmps[1].OnlyBCaptured {
		t.Fatalf("comparison 1: %+v", cmps[1])
	}
}

func TestEventKindString(t *testing.T) {
	for kind, name := range map[EventKind]string{
		EventThrust:           "thrust",
		EventEnteredTolerance: "entered_tolerance",
		EventTooClose:         "too_close",
		EventEscape:           "escape",
	} {
		if kind.String() != name {
			t.Fatalf("%d stringer broken", kind)
		}
	}
	assertPanic(t, func() {
		_ = EventKind(99).String()
	})
}
