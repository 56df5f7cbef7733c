// Package storage keeps the history of evolution runs: one summary per
// generation and the best network seen so far.
package storage

import (
	"context"
	"encoding/json"

	"github.com/baldhumanity/neuroevo/evo"
	"github.com/baldhumanity/neuroevo/evo/nn"
)

// Store defines the persistence operations for run history.
type Store interface {
	Init(ctx context.Context) error
	SaveSummary(ctx context.Context, summary evo.Summary) error
	ListSummaries(ctx context.Context, runID string) ([]evo.Summary, error)
	ListRuns(ctx context.Context) ([]string, error)
	SaveChampion(ctx context.Context, champion Champion) error
	GetChampion(ctx context.Context, runID string) (Champion, bool, error)
}

// VersionedRecord is embedded in every persisted record.
type VersionedRecord struct {
	SchemaVersion int `json:"schema_version"`
	CodecVersion  int `json:"codec_version"`
}

// CurrentVersion returns the version stamp for records written by this build.
func CurrentVersion() VersionedRecord {
	return VersionedRecord{SchemaVersion: CurrentSchemaVersion, CodecVersion: CurrentCodecVersion}
}

// Champion is the best network of a run together with where it came from.
type Champion struct {
	VersionedRecord
	RunID      string        `json:"run_id"`
	Generation int           `json:"generation"`
	Fitness    float64       `json:"fitness"`
	Objective  evo.Objective `json:"objective"`
	Network    nn.Snapshot   `json:"network"`
}

type championAlias Champion

type championJSON struct {
	championAlias
	Fitness evo.JSONFloat `json:"fitness"`
}

// MarshalJSON implements json.Marshaler; a non-finite Fitness is kept.
func (c Champion) MarshalJSON() ([]byte, error) {
	return json.Marshal(championJSON{championAlias: championAlias(c), Fitness: evo.JSONFloat(c.Fitness)})
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *Champion) UnmarshalJSON(b []byte) error {
	var in championJSON
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}
	*c = Champion(in.championAlias)
	c.Fitness = float64(in.Fitness)
	return nil
}

type generationRecord struct {
	VersionedRecord
	Summary evo.Summary `json:"summary"`
}
