package monitoring

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

// AlertType identifies the kind of alert.
type AlertType string

const (
	AlertStoreUnreachable AlertType = "store_unreachable"
	AlertCircuitOpen      AlertType = "circuit_open"
)

// Alert is one unhealthy condition.
type Alert struct {
	Type      AlertType      `json:"type"`
	Severity  string         `json:"severity"`
	Subject   string         `json:"subject"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// Key identifies an alert across checks.
func (a Alert) Key() string {
	return string(a.Type) + ":" + a.Subject
}

// Alerter turns snapshots into alerts and logs transitions. It is not safe
// for concurrent use; one Checker owns it.
type Alerter struct {
	active map[string]Alert
}

// NewAlerter creates an Alerter with nothing active.
func NewAlerter() *Alerter {
	return &Alerter{active: make(map[string]Alert)}
}

// Evaluate returns the alerts the snapshot warrants.
func (a *Alerter) Evaluate(snap *Snapshot) []Alert {
	var alerts []Alert

	if !snap.StoreUp {
		alerts = append(alerts, Alert{
			Type:      AlertStoreUnreachable,
			Severity:  "high",
			Subject:   "store",
			Message:   "Store ping failed; callers will be treated as new",
			Details:   map[string]any{"error": snap.StoreError},
			Timestamp: snap.CollectedAt,
		})
	}

	for _, name := range snap.OpenBreakers {
		alerts = append(alerts, Alert{
			Type:      AlertCircuitOpen,
			Severity:  "medium",
			Subject:   name,
			Message:   fmt.Sprintf("Circuit for %s is open; its enrichment is skipped", name),
			Timestamp: snap.CollectedAt,
		})
	}

	return alerts
}

// Report logs alerts that became active and ones that cleared since the
// previous call. It returns how many are newly raised.
func (a *Alerter) Report(alerts []Alert) int {
	log := zap.L().With(zap.String("component", "monitoring.alerter"))

	current := make(map[string]Alert, len(alerts))
	raised := 0
	for _, al := range alerts {
		current[al.Key()] = al
		if _, seen := a.active[al.Key()]; seen {
			continue
		}
		raised++
		log.Warn("monitoring: alert raised",
			zap.String("type", string(al.Type)),
			zap.String("subject", al.Subject),
			zap.String("severity", al.Severity),
			zap.String("message", al.Message),
			zap.Any("details", al.Details),
		)
	}

	for key, al := range a.active {
		if _, still := current[key]; !still {
			log.Info("monitoring: alert resolved",
				zap.String("type", string(al.Type)),
				zap.String("subject", al.Subject),
			)
		}
	}

	a.active = current
	return raised
}

// Active returns the number of alerts currently raised.
func (a *Alerter) Active() int {
	return len(a.active)
}
