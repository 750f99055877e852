package orbital

import (
	"fmt"
	"math"
	"sort"
	"sync"

	kitlog "github.com/go-kit/kit/log"
)

// EventKind identifies a discrete event on the episode timeline.
type EventKind uint8

const (
	// EventThrust marks a thrust spike above the configured threshold.
	EventThrust EventKind = iota + 1
	// EventEnteredTolerance marks the start of the first debounced in-tolerance run.
	EventEnteredTolerance
	// EventTooClose marks entry below the minimum radial distance.
	EventTooClose
	// EventEscape marks entry beyond the escape radial distance.
	EventEscape
)

// String implements the Stringer interface.
func (k EventKind) String() string {
	switch k {
	case EventThrust:
		return "thrust"
	case EventEnteredTolerance:
		return "entered_tolerance"
	case EventTooClose:
		return "too_close"
	case EventEscape:
		return "escape"
	default:
		panic(fmt.Errorf("unknown event kind %d", k))
	}
}

// Event is one entry of an episode's discrete timeline.
type Event struct {
	Frame int
	Kind  EventKind
}

// Frame is one recorded simulation step of a rollout. Thrust may be nil (no
// thrust recorded) and PosErr/VTanErr carry upstream-precomputed errors which,
// when present, take priority over recomputation.
type Frame struct {
	R, V    []float64
	Thrust  []float64
	Reward  float64
	PosErr  *float64
	VTanErr *float64
}

// Episode is an ordered sequence of frames; the slice index is the discrete
// time step.
type Episode []Frame

// EpisodeMetrics aggregates one episode. CapturedAt is nil until the first
// debounced capture and permanent afterward.
type EpisodeMetrics struct {
	RewardSum      float64
	FuelSum        float64
	CapturedAt     *int
	Events         []Event
	FrameCount     int
	PctInTolerance float64
}

// captureState drives the debounced capture detection.
type captureState uint8

const (
	// neverLeftTolerance: no out-of-tolerance frame seen yet, captures are not
	// recognized (a trajectory starting inside the band is not a capture).
	neverLeftTolerance captureState = iota
	// excursionSeen: at least one out-of-tolerance frame seen, armed.
	excursionSeen
	// capturedState: capture recorded, permanent for the episode.
	capturedState
)

// AnalyzeEpisode runs the single forward pass over one episode and aggregates
// its metrics and event timeline. An empty episode yields zero sums, no events
// and a nil CapturedAt.
func AnalyzeEpisode(ep Episode, cfg AnalysisConfig) EpisodeMetrics {
	m := EpisodeMetrics{FrameCount: len(ep)}
	state := neverLeftTolerance
	streak := 0
	inTolCount := 0
	wasTooClose := false
	wasEscaped := false
	for idx, frame := range ep {
		m.RewardSum += frame.Reward
		thrustMag := 0.0
		if frame.Thrust != nil {
			thrustMag = norm(frame.Thrust)
		}
		m.FuelSum += thrustMag
		if thrustMag > cfg.ThrustSpikeThreshold {
			m.Events = append(m.Events, Event{idx, EventThrust})
		}

		posErr, vTanErr := frameErrors(frame, cfg)
		inTol := posErr <= cfg.PositionTolerance && math.Abs(vTanErr) <= cfg.VelocityTolerance
		if inTol {
			inTolCount++
			streak++
			if state == excursionSeen && streak == cfg.DebounceWindow {
				at := idx - cfg.DebounceWindow + 1
				m.CapturedAt = &at
				m.Events = append(m.Events, Event{at, EventEnteredTolerance})
				state = capturedState
			}
		} else {
			streak = 0
			if state == neverLeftTolerance {
				state = excursionSeen
			}
		}

		r := norm(frame.R)
		if r < cfg.MinRadius {
			if !wasTooClose {
				m.Events = append(m.Events, Event{idx, EventTooClose})
			}
			wasTooClose = true
		} else {
			wasTooClose = false
		}
		if r > cfg.EscapeRadius {
			if !wasEscaped {
				m.Events = append(m.Events, Event{idx, EventEscape})
			}
			wasEscaped = true
		} else {
			wasEscaped = false
		}
	}
	if m.FrameCount > 0 {
		m.PctInTolerance = float64(inTolCount) / float64(m.FrameCount)
	}
	// The entered_tolerance event is stamped with the start of its qualifying
	// window, which lies before the frame it was detected on. Restore ascending
	// frame order, keeping detection order for ties.
	sort.SliceStable(m.Events, func(i, j int) bool {
		return m.Events[i].Frame < m.Events[j].Frame
	})
	return m
}

// frameErrors returns the position and tangential velocity errors of a frame,
// preferring the precomputed fields when the upstream instrumentation set them.
func frameErrors(frame Frame, cfg AnalysisConfig) (posErr, vTanErr float64) {
	if frame.PosErr != nil && frame.VTanErr != nil {
		return *frame.PosErr, *frame.VTanErr
	}
	sk := StationKeeping(frame.R, frame.V, cfg.TargetRadius, cfg.Mu)
	posErr = sk.PositionError
	vTanErr = sk.TangentialVelocityError
	if frame.PosErr != nil {
		posErr = *frame.PosErr
	}
	if frame.VTanErr != nil {
		vTanErr = *frame.VTanErr
	}
	return posErr, vTanErr
}

// AnalyzeRollout applies AnalyzeEpisode to each episode independently and
// returns the index-aligned metrics. Episodes share no state, so they are
// fanned out to one goroutine each. The logger may be nil.
func AnalyzeRollout(eps []Episode, cfg AnalysisConfig, logger kitlog.Logger) []EpisodeMetrics {
	metrics := make([]EpisodeMetrics, len(eps))
	var wg sync.WaitGroup
	for i := range eps {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			metrics[i] = AnalyzeEpisode(eps[i], cfg)
		}(i)
	}
	wg.Wait()
	if logger != nil {
		for i, m := range metrics {
			capturedAt := "never"
			if m.CapturedAt != nil {
				capturedAt = fmt.Sprintf("%d", *m.CapturedAt)
			}
			logger.Log("episode", i, "frames", m.FrameCount, "reward", m.RewardSum, "fuel", m.FuelSum, "inTol", m.PctInTolerance, "captured", capturedAt, "events", len(m.Events))
		}
	}
	return metrics
}

// EpisodeComparison is the index-aligned A/B delta of two metrics (B minus A).
type EpisodeComparison struct {
	Index               int
	A, B                EpisodeMetrics
	RewardDelta         float64
	FuelDelta           float64
	PctInToleranceDelta float64
	CaptureAdvantage    int // frames earlier B captured than A (negative: later)
	BothCaptured        bool
	OnlyACaptured       bool
	OnlyBCaptured       bool
	NeitherCaptured     bool
}

// CompareRollouts pairs two metrics sequences index-by-index. The analytics
// engine itself is unaware of the pairing; this is the presentation-side
// aggregation used for baseline-vs-trained reports. Extra episodes on either
// side are ignored.
func CompareRollouts(a, b []EpisodeMetrics) []EpisodeComparison {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	cmps := make([]EpisodeComparison, n)
	for i := 0; i < n; i++ {
		c := EpisodeComparison{
			Index:               i,
			A:                   a[i],
			B:                   b[i],
			RewardDelta:         b[i].RewardSum - a[i].RewardSum,
			FuelDelta:           b[i].FuelSum - a[i].FuelSum,
			PctInToleranceDelta: b[i].PctInTolerance - a[i].PctInTolerance,
		}
		switch {
		case a[i].CapturedAt != nil && b[i].CapturedAt != nil:
			c.BothCaptured = true
			c.CaptureAdvantage = *a[i].CapturedAt - *b[i].CapturedAt
		case a[i].CapturedAt != nil:
			c.OnlyACaptured = true
		case b[i].CapturedAt != nil:
			c.OnlyBCaptured = true
		default:
			c.NeitherCaptured = true
		}
		cmps[i] = c
	}
	return cmps
}
