package calculation

import (
	"time"

	"github.com/google/uuid"
)

// nowFunc returns the current time (override in tests for determinism).
var nowFunc = time.Now

// SetNowFunc overrides the time provider (use only in tests).
func SetNowFunc(f func() time.Time) { nowFunc = f }

func defaultID() string { return uuid.NewString() }

// idFunc returns a new run identifier (override for deterministic report tests).
var idFunc = defaultID

// SetIDFunc overrides the run ID provider (use only in tests).
func SetIDFunc(f func() string) { idFunc = f }
