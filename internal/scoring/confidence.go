// Package scoring turns equipment age and caller history into the integer
// scores the voice agent acts on.
package scoring

import (
	"math"
	"time"

	"github.com/greenline365/pregreet/internal/model"
)

// Default decay thresholds, in years, used when a tenant has none.
const (
	DefaultStaleYears      = 5.0
	DefaultUnreliableYears = 10.0
)

const (
	daysPerYear = 365.25
	hoursPerDay = 24.0
)

// Confidence scores how likely the stored record for asset still matches
// what is installed. Records without an install date are trusted fully.
//
// The score falls in three linear tiers (fresh, stale, unreliable) each
// with its own floor, then gets a boost when a technician verified the
// record recently. The result is always in [0,100].
func Confidence(asset *model.Asset, decay model.DecayConfig, now time.Time) int {
	if asset == nil || asset.InstallDate == nil {
		return model.DefaultConfidenceScore
	}
	decay = withDefaults(decay)

	age := now.Sub(*asset.InstallDate).Hours() / hoursPerDay / daysPerYear

	var base float64
	switch {
	case age <= decay.StaleYears:
		base = math.Max(50, 100-math.Floor(age*5))
	case age <= decay.UnreliableYears:
		base = math.Max(30, 75-math.Floor((age-decay.StaleYears)*10))
	default:
		base = math.Max(10, 30-math.Floor((age-decay.UnreliableYears)*3))
	}

	score := math.Min(100, base+verificationBoost(asset.LastVerified, now))
	return clamp(int(score))
}

// verificationBoost rewards a recent on-site verification.
func verificationBoost(lastVerified *time.Time, now time.Time) float64 {
	if lastVerified == nil {
		return 0
	}
	days := now.Sub(*lastVerified).Hours() / hoursPerDay
	switch {
	case days <= 30:
		return 20
	case days <= 90:
		return 10
	case days <= 365:
		return 5
	default:
		return 0
	}
}

func withDefaults(d model.DecayConfig) model.DecayConfig {
	if d.StaleYears <= 0 {
		d.StaleYears = DefaultStaleYears
	}
	if d.UnreliableYears <= 0 {
		d.UnreliableYears = DefaultUnreliableYears
	}
	return d
}

func clamp(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
