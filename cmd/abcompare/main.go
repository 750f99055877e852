package main

import (
	"flag"
	"fmt"
	"log"
	"strings"

	orbital "github.com/MartinEnke/orbital-replay"
)

// This tool loads a baseline and a trained rollout, analyzes both and prints
// the index-aligned A/B comparison. The pairing lives here, not in the engine.

const defaultScenario = "~~unset~~"

var (
	baselinePath string
	trainedPath  string
	scenario     string
)

func init() {
	flag.StringVar(&baselinePath, "baseline", "", "baseline rollout JSON file")
	flag.StringVar(&trainedPath, "trained", "", "trained rollout JSON file")
	flag.StringVar(&scenario, "scenario", defaultScenario, "analysis scenario TOML file")
}

func main() {
	flag.Parse()
	if baselinePath == "" || trainedPath == "" {
		log.Fatal("both -baseline and -trained are needed")
	}
	cfg := orbital.DefaultAnalysisConfig()
	if scenario != defaultScenario {
		scenario = strings.Replace(scenario, ".toml", "", 1)
		var err error
		cfg, err = orbital.LoadAnalysisConfig(".", scenario)
		if err != nil {
			log.Fatalf("could not load scenario: %s", err)
		}
	}

	baseRF, err := orbital.LoadRollout(baselinePath)
	if err != nil {
		log.Fatalf("%s", err)
	}
	trainedRF, err := orbital.LoadRollout(trainedPath)
	if err != nil {
		log.Fatalf("%s", err)
	}

	baseM := orbital.AnalyzeRollout(baseRF.ToEpisodes(), cfg, nil)
	trainedM := orbital.AnalyzeRollout(trainedRF.ToEpisodes(), cfg, nil)
	cmps := orbital.CompareRollouts(baseM, trainedM)

	fmt.Printf("%-4s %12s %12s %10s %10s %s\n", "ep", "Δreward", "Δfuel", "ΔinTol", "Δcapture", "capture")
	for _, c := range cmps {
		capture := "neither"
		advantage := ""
		switch {
		case c.BothCaptured:
			capture = "both"
			advantage = fmt.Sprintf("%+d", c.CaptureAdvantage)
		case c.OnlyACaptured:
			capture = "baseline only"
		case c.OnlyBCaptured:
			capture = "trained only"
		}
		fmt.Printf("%-4d %12.4f %12.4f %10.4f %10s %s\n", c.Index, c.RewardDelta, c.FuelDelta, c.PctInToleranceDelta, advantage, capture)
	}
}
