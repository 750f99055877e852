package main

import (
	"flag"
	"log"
	"os"
	"strings"
	"sync"

	orbital "github.com/MartinEnke/orbital-replay"
	kitlog "github.com/go-kit/kit/log"
)

// This tool loads one recorded rollout, runs the analytics engine over it and
// logs a per-episode summary, optionally streaming the metrics to CSV.

const defaultScenario = "~~unset~~"

var (
	rolloutPath string
	scenario    string
	output      string
	asCSV       bool
	timestamp   bool
)

func init() {
	flag.StringVar(&rolloutPath, "rollout", "", "rollout JSON file to analyze")
	flag.StringVar(&scenario, "scenario", defaultScenario, "analysis scenario TOML file")
	flag.StringVar(&output, "output", "replay", "output file prefix")
	flag.BoolVar(&asCSV, "csv", false, "export metrics and events as CSV")
	flag.BoolVar(&timestamp, "timestamp", false, "add a timestamp to the output files")
}

func main() {
	flag.Parse()
	if rolloutPath == "" {
		log.Fatal("no rollout provided")
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

	klog := kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stdout))
	klog = kitlog.With(klog, "subsys", "replay", "rollout", rolloutPath)

	rf, err := orbital.LoadRollout(rolloutPath)
	if err != nil {
		log.Fatalf("%s", err)
	}
	metrics := orbital.AnalyzeRollout(rf.ToEpisodes(), cfg, klog)

	conf := orbital.ExportConfig{Filename: output, AsCSV: asCSV, Timestamp: timestamp}
	if !conf.IsUseless() {
		metricsChan := make(chan orbital.EpisodeMetrics, 100)
		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			orbital.StreamMetrics(conf, metricsChan)
		}()
		for _, m := range metrics {
			metricsChan <- m
		}
		close(metricsChan)
		wg.Wait()
	}
}
