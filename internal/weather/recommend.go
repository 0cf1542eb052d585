package weather

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/greenline365/pregreet/internal/model"
	"github.com/greenline365/pregreet/pkg/openweather"
)

// Temperature thresholds (°F) for booking advice.
const (
	hotAboveF  = 95.0
	coldBelowF = 35.0
)

// Period is a forecast step reduced to what the recommendation needs.
type Period struct {
	At          time.Time
	Description string
}

// Recommend returns booking advice for the conditions, or nil when there is
// nothing worth mentioning. Alerts outrank forecast storms, which outrank
// temperature extremes.
func Recommend(tempF float64, forecast []Period, alerts []model.Alert) *string {
	for _, a := range alerts {
		if a.Severity == model.SeverityExtreme || a.Severity == model.SeveritySevere {
			return ptr(fmt.Sprintf(
				"I see there's a %s warning for your area. For safety, I'd recommend we look at times after the weather clears.",
				a.Event))
		}
	}

	for _, p := range forecast {
		desc := strings.ToLower(p.Description)
		if strings.Contains(desc, "thunder") || strings.Contains(desc, "storm") {
			return ptr(fmt.Sprintf(
				"I see thunderstorms in the forecast around %s. Would you prefer a morning slot before the storms, or tomorrow when it's clearer?",
				HourLabel(p.At)))
		}
	}

	switch {
	case tempF > hotAboveF:
		return ptr(fmt.Sprintf(
			"It's quite hot today at %d°F. Would you prefer an early morning slot to beat the heat?",
			round(tempF)))
	case tempF < coldBelowF:
		return ptr(fmt.Sprintf(
			"It's pretty cold at %d°F. Our techs are prepared, but would you prefer to wait for warmer weather?",
			round(tempF)))
	}
	return nil
}

// HourLabel renders the hour of t on a 12-hour clock, e.g. "2 PM".
func HourLabel(t time.Time) string {
	h := t.Hour()
	switch {
	case h == 0:
		return "12 AM"
	case h < 12:
		return fmt.Sprintf("%d AM", h)
	case h == 12:
		return "12 PM"
	default:
		return fmt.Sprintf("%d PM", h-12)
	}
}

// Periods converts forecast steps to local-time periods. offsetSecs is the
// location's UTC offset as reported with the forecast.
func Periods(list []openweather.ForecastPeriod, offsetSecs int) []Period {
	zone := time.FixedZone("", offsetSecs)
	out := make([]Period, 0, len(list))
	for _, p := range list {
		desc := ""
		if len(p.Weather) > 0 {
			desc = p.Weather[0].Description
		}
		out = append(out, Period{At: p.Time().In(zone), Description: desc})
	}
	return out
}

func round(f float64) int {
	return int(math.Round(f))
}

func ptr(s string) *string {
	return &s
}
