package models

import "time"

// RawCandidate ist die standardisierte Form eines Roh-Items, wie es von einer
// externen Quelle geliefert wird. Wird niemals persistiert: entweder wird es zu
// einem Tool kanonisiert oder nach der Klassifizierung verworfen.
type RawCandidate struct {
	SourceName      string             `json:"source_name"`
	Name            string             `json:"name"`
	Description     string             `json:"description"`
	LongDescription string             `json:"long_description,omitempty"`
	Website         string             `json:"website"`
	Metrics         map[string]float64 `json:"metrics"`
	Topics          []string           `json:"topics,omitempty"`
	CreatedAt       time.Time          `json:"created_at"`
	Extra           map[string]any     `json:"extra,omitempty"`
}

// Metric liefert eine Engagement-Metrik oder 0, falls die Quelle sie nicht kennt.
func (c *RawCandidate) Metric(key string) float64 {
	if c.Metrics == nil {
		return 0
	}
	return c.Metrics[key]
}
