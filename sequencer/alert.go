package sequencer

import "time"

type (
	// AlertsModel collects the transient messages shown to the user: load
	// failures, rejected edits and similar. Alerts expire after their
	// duration; named alerts replace an earlier alert with the same name
	// instead of stacking.
	AlertsModel Model

	Alert struct {
		Name     string
		Message  string
		Priority AlertPriority
		Duration time.Duration
	}

	AlertPriority int
)

const (
	None AlertPriority = iota
	Info
	Warning
	Error
)

const defaultAlertDuration = 3 * time.Second

func (m *Model) Alerts() *AlertsModel { return (*AlertsModel)(m) }

func (a *AlertsModel) Add(message string, priority AlertPriority) {
	(*Model)(a).addAlert(Alert{Message: message, Priority: priority, Duration: defaultAlertDuration})
}

func (a *AlertsModel) AddNamed(name, message string, priority AlertPriority) {
	(*Model)(a).addAlert(Alert{Name: name, Message: message, Priority: priority, Duration: defaultAlertDuration})
}

func (a *AlertsModel) Count() int { return len(a.alerts) }

func (a *AlertsModel) Iterate(yield func(index int, alert Alert) bool) {
	for i, alert := range a.alerts {
		if !yield(i, alert) {
			break
		}
	}
}

// Update drops the alerts whose duration has elapsed since the previous
// Update; the owner calls it once per frame or event loop round.
func (a *AlertsModel) Update(elapsed time.Duration) {
	n := 0
	for _, alert := range a.alerts {
		alert.Duration -= elapsed
		if alert.Duration > 0 {
			a.alerts[n] = alert
			n++
		}
	}
	a.alerts = a.alerts[:n]
}

func (m *Model) addAlert(alert Alert) {
	if alert.Duration == 0 {
		alert.Duration = defaultAlertDuration
	}
	if alert.Name != "" {
		for i := range m.alerts {
			if m.alerts[i].Name == alert.Name {
				m.alerts[i] = alert
				TrySend(m.broker.ToGUI, any(alert))
				return
			}
		}
	}
	m.alerts = append(m.alerts, alert)
	TrySend(m.broker.ToGUI, any(alert))
}
