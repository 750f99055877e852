package main

import (
	"flag"
	"log"
	"time"

	orbital "github.com/MartinEnke/orbital-replay"
)

// This tool evaluates the planet catalog at a civil date and writes the scene
// JSON (positions and sampled orbit paths) a renderer consumes.

const dateFormat = "2006-01-02 15:04:05"

var (
	catalogPath string
	dateStr     string
	output      string
	eccScale    float64
	points      int
)

func init() {
	flag.StringVar(&catalogPath, "catalog", "", "catalog JSON file (default: built-in eight planets)")
	flag.StringVar(&dateStr, "date", "", "UTC date to evaluate, e.g. \"2017-03-01 00:00:00\" (default: now)")
	flag.StringVar(&output, "output", "planets", "output file prefix")
	flag.Float64Var(&eccScale, "eccscale", 1.0, "eccentricity exaggeration for the drawn ellipses")
	flag.IntVar(&points, "points", 256, "points per sampled orbit path")
}

func main() {
	flag.Parse()
	dt := time.Now().UTC()
	if dateStr != "" {
		var err error
		dt, err = time.Parse(dateFormat, dateStr)
		if err != nil {
			log.Fatalf("could not parse date `%s`: %s", dateStr, err)
		}
	}
	planets := orbital.Planets
	if catalogPath != "" {
		var err error
		planets, err = orbital.LoadCatalog(catalogPath)
		if err != nil {
			log.Fatalf("%s", err)
		}
	}
	conf := orbital.ExportConfig{Filename: output}
	if err := orbital.WritePlanetScene(conf, planets, dt, eccScale, points); err != nil {
		log.Fatalf("could not write scene: %s", err)
	}
	log.Printf("wrote %d planets at %s", len(planets), dt.Format(dateFormat))
}
