// Package predictor holds the three regression models behind the price
// forecast ensemble. Each model is constructed fresh per request, trained on
// that request's series and discarded afterwards; none of them share state.
package predictor

import "errors"

// ErrNotTrained is returned when PredictDays is called on a model that has
// not been fitted. Hitting it is an internal invariant violation, not an
// expected runtime condition.
var ErrNotTrained = errors.New("predictor: model not trained, call Train first")

// fitState is the explicit trained/untrained tag every model carries.
type fitState int

const (
	stateUntrained fitState = iota
	stateTrained
)

// Per-step clamps that contain compounding error in the autoregressive
// loops. A stability policy, not a correctness guarantee.
const (
	maxStepReturn   = 0.05 // trend/forest: predicted return per step
	patternClampPct = 0.20 // pattern: scaled value vs last observed
)

// randSeed pins subsampling so a retrain on identical input yields an
// identical model, which keeps cached and recomputed results comparable.
const randSeed = 42
