package orbital

import (
	"math"
	"math/rand"

	"github.com/gonum/matrix/mat64"
	"github.com/gonum/stat/distmv"
)

// SynthConfig configures the synthetic station-keeping fixture generator.
// Every frame is sampled analytically on a circular orbit plus Gaussian noise;
// nothing is numerically propagated.
type SynthConfig struct {
	Frames       int
	TargetRadius float64
	Mu           float64
	NoiseSigma   float64 // standard deviation of the position/velocity noise
	ThrustEvery  int     // a thrust blip every that many frames (0: no thrust)
	ThrustMag    float64
	Seed         int64
}

// DefaultSynthConfig returns the generator defaults, matched to the default
// analysis tunables.
func DefaultSynthConfig() SynthConfig {
	return SynthConfig{
		Frames:       500,
		TargetRadius: 1.0,
		Mu:           1.0,
		NoiseSigma:   0.01,
		ThrustEvery:  50,
		ThrustMag:    0.03,
		Seed:         42,
	}
}

// SynthEpisode generates one synthetic episode: a craft on the target circular
// orbit with noisy state and periodic thrust spikes. Useful as test and demo
// data for the analytics engine.
func SynthEpisode(cfg SynthConfig) Episode {
	seed := rand.New(rand.NewSource(cfg.Seed))
	σ2 := cfg.NoiseSigma * cfg.NoiseSigma
	noise, ok := distmv.NewNormal(make([]float64, 6), mat64.NewSymDense(6, []float64{
		σ2, 0, 0, 0, 0, 0,
		0, σ2, 0, 0, 0, 0,
		0, 0, σ2, 0, 0, 0,
		0, 0, 0, σ2, 0, 0,
		0, 0, 0, 0, σ2, 0,
		0, 0, 0, 0, 0, σ2}), seed)
	if !ok {
		panic("NOK in Gaussian")
	}
	vCirc := math.Sqrt(cfg.Mu / cfg.TargetRadius)
	n := vCirc / cfg.TargetRadius // angular rate of the reference circle
	ep := make(Episode, cfg.Frames)
	for idx := 0; idx < cfg.Frames; idx++ {
		θ := n * float64(idx)
		sinθ, cosθ := math.Sincos(θ)
		w := noise.Rand(nil)
		frame := Frame{
			R: []float64{cfg.TargetRadius*cosθ + w[0], cfg.TargetRadius*sinθ + w[1], w[2]},
			V: []float64{-vCirc*sinθ + w[3], vCirc*cosθ + w[4], w[5]},
		}
		if cfg.ThrustEvery > 0 && idx > 0 && idx%cfg.ThrustEvery == 0 {
			frame.Thrust = []float64{cfg.ThrustMag * cosθ, cfg.ThrustMag * sinθ, 0}
		}
		sk := StationKeeping(frame.R, frame.V, cfg.TargetRadius, cfg.Mu)
		frame.Reward = -math.Abs(sk.PositionError) - math.Abs(sk.TangentialVelocityError)
		ep[idx] = frame
	}
	return ep
}

// SynthRollout generates count episodes with per-episode derived seeds.
func SynthRollout(cfg SynthConfig, count int) []Episode {
	eps := make([]Episode, count)
	for i := range eps {
		epCfg := cfg
		epCfg.Seed = cfg.Seed + int64(i)
		eps[i] = SynthEpisode(epCfg)
	}
	return eps
}

// ToRecords converts core episodes back into the JSON file shape, so synthetic
// fixtures round-trip through the same loader as real rollouts.
func ToRecords(name string, eps []Episode) RolloutFile {
	rf := RolloutFile{Name: name, Episodes: make([]EpisodeRecord, len(eps))}
	for i, ep := range eps {
		frames := make([]FrameRecord, len(ep))
		for j, f := range ep {
			reward := f.Reward
			frames[j] = FrameRecord{R: f.R, V: f.V, Thrust: f.Thrust, Reward: &reward, PosErr: f.PosErr, VTanErr: f.VTanErr}
		}
		rf.Episodes[i] = EpisodeRecord{Frames: frames}
	}
	return rf
}
