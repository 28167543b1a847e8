package receipt

import (
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/singleflight"
)

// Service handles receipt operations
type Service struct {
	store   Store
	scorer  *Scorer
	metrics *Metrics
	group   singleflight.Group
}

// NewService creates a new Service with the default rules and no metrics
func NewService(store Store) *Service {
	return NewServiceWithDeps(store, NewScorer(), nil)
}

// NewServiceWithDeps creates a new Service with custom dependencies
func NewServiceWithDeps(store Store, scorer *Scorer, metrics *Metrics) *Service {
	return &Service{
		store:   store,
		scorer:  scorer,
		metrics: metrics,
	}
}

// Process normalizes a receipt, derives its ID and scores it. A receipt whose
// ID is already stored is not scored again.
func (s *Service) Process(req ProcessRequest) (string, error) {
	r, err := Normalize(req)
	if err != nil {
		s.metrics.IncrementProcessed(outcomeInvalid)
		return "", err
	}

	id := DeriveID(r)

	if _, err := s.store.Get(id); err == nil {
		slog.Debug("Receipt already scored", "id", id)
		s.metrics.IncrementProcessed(outcomeDuplicate)
		return id, nil
	} else if !errors.Is(err, ErrNotFound) {
		return "", fmt.Errorf("looking up receipt: %w", err)
	}

	// Concurrent submissions of the same content share one scoring run.
	// Only the goroutine that runs the function sets scored. The function
	// never fails, so the result and error are ignored.
	scored := false
	_, _, _ = s.group.Do(id, func() (interface{}, error) {
		// An earlier flight may have stored the receipt after the check above.
		if _, err := s.store.Get(id); err == nil {
			return nil, nil
		}
		results := s.scorer.Explain(r.Trimmed())
		points := Total(results)
		if !s.store.Put(id, points) {
			return nil, nil
		}
		scored = true
		slog.Debug("Receipt scored",
			"id", id,
			"retailer", r.Retailer,
			"points", points,
			"rules", results,
		)
		s.metrics.ObservePoints(points)
		return nil, nil
	})

	if scored {
		s.metrics.IncrementProcessed(outcomeScored)
	} else {
		s.metrics.IncrementProcessed(outcomeDuplicate)
	}
	return id, nil
}

// GetPoints returns the points stored for a receipt ID
func (s *Service) GetPoints(id string) (int, error) {
	points, err := s.store.Get(id)
	if err != nil {
		s.metrics.IncrementLookup(outcomeNotFound)
		return 0, fmt.Errorf("getting points: %w", err)
	}
	s.metrics.IncrementLookup(outcomeFound)
	return points, nil
}
