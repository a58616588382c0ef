package vectormem

import (
	"math"
	"time"
)

// recencyBoost is the scalar function registered into SQLite as
// recency_boost(date_added, decay_rate, max_boost). It returns a
// monotonically decreasing-with-age ranking multiplier:
//
//	boost = 1 + (max_boost - 1) * e^(-decay_rate * days_old)
//
// days_old is clamped at zero, so future-dated or clock-skewed records get
// the maximum boost rather than an error. Any parse failure of date_added
// yields the neutral boost 1.0.
func recencyBoost(dateAdded string, decayRate, maxBoost float64) float64 {
	added, ok := parseDateAdded(dateAdded)
	if !ok {
		return 1.0
	}

	days := time.Since(added).Hours() / 24
	if days < 0 {
		days = 0
	}

	return 1 + (maxBoost-1)*math.Exp(-decayRate*days)
}

// RecencyScore computes the recency boost for a date_added value using the
// store's configured decay rate and max boost. Exposed so callers re-ranking
// in application code produce the same values as the in-query function.
func (s *Store) RecencyScore(dateAdded string) float64 {
	return recencyBoost(dateAdded, s.config.DecayRate, s.config.MaxBoost)
}

func parseDateAdded(dateAdded string) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, dateAdded); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}
