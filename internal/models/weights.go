package models

import (
	"fmt"
	"math"
)

// Weights is the dimension weight vector used by the aggregation engine.
// A single versioned default replaces the two divergent literals the
// legacy system carried at creation time and scoring time.
type Weights struct {
	Version      string  `json:"version" bson:"version"`
	Language     float64 `json:"language" bson:"language"`
	Skills       float64 `json:"skills" bson:"skills"`
	Industry     float64 `json:"industry" bson:"industry"`
	Activity     float64 `json:"activity" bson:"activity"`
	Experience   float64 `json:"experience" bson:"experience"`
	Timezone     float64 `json:"timezone" bson:"timezone"`
	Region       float64 `json:"region" bson:"region"`
	Availability float64 `json:"availability" bson:"availability"`
}

const weightSumTolerance = 1e-6

// DefaultWeights returns the canonical weight vector.
func DefaultWeights() Weights {
	return Weights{
		Version:      "2024-03",
		Language:     0.15,
		Skills:       0.20,
		Industry:     0.20,
		Activity:     0.05,
		Experience:   0.20,
		Timezone:     0.10,
		Region:       0.05,
		Availability: 0.05,
	}
}

// Validate rejects malformed weight vectors: negative components or a sum
// away from 1.0.
func (w Weights) Validate() error {
	components := w.components()
	sum := 0.0
	for name, v := range components {
		if v < 0 {
			return fmt.Errorf("%w: weight %q is negative", ErrValidation, name)
		}
		sum += v
	}
	if math.Abs(sum-1.0) > weightSumTolerance {
		return fmt.Errorf("%w: weights sum to %.6f, want 1.0", ErrValidation, sum)
	}
	return nil
}

func (w Weights) components() map[string]float64 {
	return map[string]float64{
		"language":     w.Language,
		"skills":       w.Skills,
		"industry":     w.Industry,
		"activity":     w.Activity,
		"experience":   w.Experience,
		"timezone":     w.Timezone,
		"region":       w.Region,
		"availability": w.Availability,
	}
}

// IsZero reports whether no component is set, i.e. the caller did not
// supply a vector and the default should be used.
func (w Weights) IsZero() bool {
	for _, v := range w.components() {
		if v != 0 {
			return false
		}
	}
	return true
}
