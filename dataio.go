package orbital

import (
	"encoding/json"
	"fmt"
	"os"
)

// FrameRecord mirrors one frame of the upstream rollout JSON. The thrust,
// reward and precomputed error fields are optional.
type FrameRecord struct {
	R       []float64 `json:"r"`
	V       []float64 `json:"v"`
	Thrust  []float64 `json:"thrust,omitempty"`
	Reward  *float64  `json:"reward,omitempty"`
	PosErr  *float64  `json:"pos_err,omitempty"`
	VTanErr *float64  `json:"v_tan_err,omitempty"`
}

// EpisodeRecord mirrors one recorded episode.
type EpisodeRecord struct {
	Frames []FrameRecord `json:"frames"`
}

// RolloutFile mirrors a full rollout file: the episodes of one policy.
type RolloutFile struct {
	Name     string          `json:"name,omitempty"`
	Episodes []EpisodeRecord `json:"episodes"`
}

// CatalogRecord mirrors one planet of the orbital catalog JSON. All angles are
// stored in degrees; the conversion to radians happens here, not in the core.
type CatalogRecord struct {
	Name   string  `json:"name"`
	A      float64 `json:"a"`
	E      float64 `json:"e"`
	I      float64 `json:"i"`
	Omega  float64 `json:"Omega"`
	ArgPer float64 `json:"omega"`
	M0     float64 `json:"M0"`
	Radius float64 `json:"radius,omitempty"`
}

// ToEpisode converts the deserialized record into a core episode. A missing
// reward is a zero reward and a missing thrust stays nil (zero vector).
func (rec EpisodeRecord) ToEpisode() Episode {
	ep := make(Episode, len(rec.Frames))
	for i, f := range rec.Frames {
		frame := Frame{R: f.R, V: f.V, Thrust: f.Thrust, PosErr: f.PosErr, VTanErr: f.VTanErr}
		if f.Reward != nil {
			frame.Reward = *f.Reward
		}
		ep[i] = frame
	}
	return ep
}

// ToEpisodes converts every episode record of the rollout.
func (rf RolloutFile) ToEpisodes() []Episode {
	eps := make([]Episode, len(rf.Episodes))
	for i, rec := range rf.Episodes {
		eps[i] = rec.ToEpisode()
	}
	return eps
}

// ToPlanet converts a catalog record, degrees to radians included.
func (rec CatalogRecord) ToPlanet() Planet {
	return Planet{
		Name:     rec.Name,
		Elements: NewElementsFromDegrees(rec.A, rec.E, rec.I, rec.Omega, rec.ArgPer, rec.M0),
		Radius:   rec.Radius,
	}
}

// LoadRollout reads and deserializes a rollout JSON file.
func LoadRollout(path string) (RolloutFile, error) {
	var rf RolloutFile
	data, err := os.ReadFile(path)
	if err != nil {
		return rf, fmt.Errorf("could not read rollout %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &rf); err != nil {
		return rf, fmt.Errorf("could not parse rollout %s: %w", path, err)
	}
	return rf, nil
}

// LoadCatalog reads and deserializes an orbital catalog JSON file.
func LoadCatalog(path string) ([]Planet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read catalog %s: %w", path, err)
	}
	var recs []CatalogRecord
	if err := json.Unmarshal(data, &recs); err != nil {
		return nil, fmt.Errorf("could not parse catalog %s: %w", path, err)
	}
	planets := make([]Planet, len(recs))
	for i, rec := range recs {
		planets[i] = rec.ToPlanet()
	}
	return planets, nil
}
