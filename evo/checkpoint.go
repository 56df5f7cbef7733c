package evo

import (
	"compress/gzip"
	"encoding/gob"
	"fmt"
	"os"
	"slices"

	"github.com/baldhumanity/neuroevo/evo/nn"
)

// PopulationSaveData is the part of a Population written to a checkpoint.
// The Config is not saved; it is reloaded from its ini file.
type PopulationSaveData struct {
	RunID      string
	Generation int
	Objective  Objective
	Networks   []nn.Snapshot // in agent order
	Fitness    []float64
}

// SaveCheckpoint saves the current state of the Population to a file.
// Uses gzip compression for smaller file size.
func (p *Population) SaveCheckpoint(filePath string) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create checkpoint file '%s': %w", filePath, err)
	}
	defer file.Close()

	gzWriter := gzip.NewWriter(file)
	defer gzWriter.Close()

	saveData := PopulationSaveData{
		RunID:      p.RunID,
		Generation: p.Generation,
		Objective:  p.objective,
		Networks:   make([]nn.Snapshot, len(p.agents)),
		Fitness:    make([]float64, len(p.agents)),
	}
	for i, a := range p.agents {
		saveData.Networks[i] = a.Network.Snapshot()
		saveData.Fitness[i] = a.Fitness
	}

	if err := gob.NewEncoder(gzWriter).Encode(saveData); err != nil {
		return fmt.Errorf("failed to encode population data: %w", err)
	}
	if err := gzWriter.Close(); err != nil {
		return fmt.Errorf("failed to flush checkpoint '%s': %w", filePath, err)
	}
	return file.Close()
}

// LoadCheckpoint loads a Population state from a checkpoint file.
// It requires the configuration file the run was started with to reconstruct the Config.
func LoadCheckpoint(checkpointPath string, configPath string, opts ...Option) (*Population, error) {
	config, err := LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config '%s' for checkpoint: %w", configPath, err)
	}
	return loadCheckpoint(checkpointPath, config, opts...)
}

// LoadCheckpointWithConfig is LoadCheckpoint for an already loaded Config.
func LoadCheckpointWithConfig(checkpointPath string, config *Config, opts ...Option) (*Population, error) {
	return loadCheckpoint(checkpointPath, config, opts...)
}

func loadCheckpoint(checkpointPath string, config *Config, opts ...Option) (*Population, error) {
	file, err := os.Open(checkpointPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open checkpoint file '%s': %w", checkpointPath, err)
	}
	defer file.Close()

	gzReader, err := gzip.NewReader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader for checkpoint: %w", err)
	}
	defer gzReader.Close()

	saveData := PopulationSaveData{}
	if err := gob.NewDecoder(gzReader).Decode(&saveData); err != nil {
		return nil, fmt.Errorf("failed to decode population data from checkpoint: %w", err)
	}

	if len(saveData.Networks) != config.Evolution.PopSize {
		return nil, fmt.Errorf("%w: checkpoint holds %d agents but pop_size is %d", ErrConfiguration, len(saveData.Networks), config.Evolution.PopSize)
	}

	// The saved run id wins unless the caller overrides it.
	p, err := newPopulation(config, append([]Option{WithRunID(saveData.RunID)}, opts...)...)
	if err != nil {
		return nil, err
	}
	p.Generation = saveData.Generation
	p.objective = saveData.Objective
	p.agents = make([]*Agent, len(saveData.Networks))
	for i, s := range saveData.Networks {
		net, err := nn.FromSnapshot(s)
		if err != nil {
			return nil, fmt.Errorf("checkpoint agent %d: %w", i, err)
		}
		if !slices.Equal(net.Shape(), config.Network.Shape) {
			return nil, fmt.Errorf("%w: checkpoint agent %d has shape %v, config wants %v", ErrShapeMismatch, i, net.Shape(), config.Network.Shape)
		}
		p.agents[i] = &Agent{Network: net}
		if i < len(saveData.Fitness) {
			p.agents[i].Fitness = saveData.Fitness[i]
		}
	}
	return p, nil
}
