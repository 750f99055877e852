package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"

	orbital "github.com/MartinEnke/orbital-replay"
)

// This tool generates synthetic station-keeping rollout fixtures for testing
// and demos: analytic circular orbits plus Gaussian noise, no propagation.

var (
	episodes int
	frames   int
	noise    float64
	seed     int64
	output   string
)

func init() {
	flag.IntVar(&episodes, "episodes", 4, "number of episodes to generate")
	flag.IntVar(&frames, "frames", 500, "frames per episode")
	flag.Float64Var(&noise, "noise", 0.01, "state noise standard deviation")
	flag.Int64Var(&seed, "seed", 42, "random seed")
	flag.StringVar(&output, "out", "synthetic-rollout.json", "output rollout JSON file")
}

func main() {
	flag.Parse()
	cfg := orbital.DefaultSynthConfig()
	cfg.Frames = frames
	cfg.NoiseSigma = noise
	cfg.Seed = seed
	rf := orbital.ToRecords("synthetic", orbital.SynthRollout(cfg, episodes))
	marsh, err := json.Marshal(rf)
	if err != nil {
		log.Fatalf("could not marshal rollout: %s", err)
	}
	if err := os.WriteFile(output, marsh, 0644); err != nil {
		log.Fatalf("could not write %s: %s", output, err)
	}
	log.Printf("wrote %d episodes x %d frames to %s", episodes, frames, output)
}
