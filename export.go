package orbital

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"
)

// ExportConfig configures where and how analysis results are written.
type ExportConfig struct {
	Filename  string
	OutputDir string
	AsCSV     bool
	Timestamp bool
}

// IsUseless returns whether this config doesn't actually do anything.
func (c ExportConfig) IsUseless() bool {
	return !c.AsCSV
}

func (c ExportConfig) path(suffix, ext string) string {
	name := c.Filename
	if c.Timestamp {
		name = fmt.Sprintf("%s-%s", name, time.Now().Format("2006-01-02-15.04.05"))
	}
	dir := c.OutputDir
	if dir == "" {
		dir = "."
	}
	return fmt.Sprintf("%s/%s-%s.%s", dir, name, suffix, ext)
}

// StreamMetrics consumes per-episode metrics from the channel and writes the
// metrics and events CSV files. Run it in its own goroutine and close the
// channel to terminate, as the analysis drivers do.
func StreamMetrics(conf ExportConfig, metricsChan <-chan EpisodeMetrics) {
	if conf.IsUseless() {
		for range metricsChan {
		}
		return
	}
	fMetrics, err := os.Create(conf.path("metrics", "csv"))
	if err != nil {
		panic(err)
	}
	defer fMetrics.Close()
	fEvents, err := os.Create(conf.path("events", "csv"))
	if err != nil {
		panic(err)
	}
	defer fEvents.Close()

	metricsW := csv.NewWriter(fMetrics)
	eventsW := csv.NewWriter(fEvents)
	defer metricsW.Flush()
	defer eventsW.Flush()
	metricsW.Write([]string{"episode", "frames", "reward_sum", "fuel_sum", "captured_at", "pct_in_tolerance", "events"})
	eventsW.Write([]string{"episode", "frame", "kind"})

	epIdx := 0
	for m := range metricsChan {
		capturedAt := ""
		if m.CapturedAt != nil {
			capturedAt = strconv.Itoa(*m.CapturedAt)
		}
		metricsW.Write([]string{
			strconv.Itoa(epIdx),
			strconv.Itoa(m.FrameCount),
			strconv.FormatFloat(m.RewardSum, 'f', -1, 64),
			strconv.FormatFloat(m.FuelSum, 'f', -1, 64),
			capturedAt,
			strconv.FormatFloat(m.PctInTolerance, 'f', -1, 64),
			strconv.Itoa(len(m.Events)),
		})
		for _, evt := range m.Events {
			eventsW.Write([]string{strconv.Itoa(epIdx), strconv.Itoa(evt.Frame), evt.Kind.String()})
		}
		epIdx++
	}
}

// RenderedPlanet is the JSON shape the rendering layer consumes: the current
// position and the sampled static ellipse, both in AU.
type RenderedPlanet struct {
	Name     string      `json:"name"`
	Radius   float64     `json:"radius"`
	Position []float64   `json:"position"`
	Path     [][]float64 `json:"path"`
}

// WritePlanetScene evaluates the catalog at dt and writes the renderer JSON.
func WritePlanetScene(conf ExportConfig, planets []Planet, dt time.Time, eccScale float64, nPoints int) error {
	scene := make([]RenderedPlanet, len(planets))
	for i, p := range planets {
		scene[i] = RenderedPlanet{
			Name:     p.Name,
			Radius:   p.Radius,
			Position: p.PositionAt(dt),
			Path:     p.PathAt(eccScale, nPoints),
		}
	}
	f, err := os.Create(conf.path("scene", "json"))
	if err != nil {
		return fmt.Errorf("could not create scene file: %w", err)
	}
	defer f.Close()
	marsh, err := json.Marshal(scene)
	if err != nil {
		return fmt.Errorf("could not marshal scene: %w", err)
	}
	_, err = f.Write(marsh)
	return err
}
