package storage

import (
	"context"
	"fmt"

	"github.com/baldhumanity/neuroevo/evo"
)

// Recorder is an evo.Observer that writes every generation summary to a
// Store and replaces the run's champion whenever a generation beats it.
type Recorder struct {
	ctx   context.Context
	store Store

	hasBest bool
	best    float64
}

// NewRecorder returns a Recorder writing to an initialised store. ctx bounds
// every write.
func NewRecorder(ctx context.Context, store Store) *Recorder {
	return &Recorder{ctx: ctx, store: store}
}

// Resume primes the recorder with the champion already stored for runID, so
// a resumed run only replaces it with something better.
func (r *Recorder) Resume(runID string) error {
	champion, ok, err := r.store.GetChampion(r.ctx, runID)
	if err != nil {
		return err
	}
	if ok {
		r.hasBest = true
		r.best = champion.Fitness
	}
	return nil
}

// OnGeneration implements evo.Observer.
func (r *Recorder) OnGeneration(s evo.Summary) error {
	if err := r.store.SaveSummary(r.ctx, s); err != nil {
		return fmt.Errorf("save summary of generation %d: %w", s.Generation, err)
	}
	if r.hasBest && !s.Objective.Better(s.Best, r.best) {
		return nil
	}
	champion := Champion{
		RunID:      s.RunID,
		Generation: s.Generation,
		Fitness:    s.Best,
		Objective:  s.Objective,
		Network:    s.Champion,
	}
	if err := r.store.SaveChampion(r.ctx, champion); err != nil {
		return fmt.Errorf("save champion of generation %d: %w", s.Generation, err)
	}
	r.hasBest = true
	r.best = s.Best
	return nil
}
