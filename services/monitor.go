package services

import (
	"time"

	"go.uber.org/zap"

	"tool-radar/models"
)

// MonitorSnapshot ist die schreibgeschützte Sicht für den Operator: aggregierte
// Zähler, Quellen-Status, Trending- und Recent-Listen zu einem Zeitpunkt.
type MonitorSnapshot struct {
	GeneratedAt  time.Time                      `json:"generated_at"`
	TotalTools   int64                          `json:"total_tools"`
	AddedLast24h int64                          `json:"added_last_24h"`
	Sources      []models.DiscoverySourceStatus `json:"sources"`
	Trending     []models.Tool                  `json:"trending"`
	Recent       []models.Tool                  `json:"recent"`
}

// MonitorService stellt Snapshots für Dashboard und Operator-Konsole zusammen.
// Liest ausschließlich; der Quellen-Status gehört dem DiscoveryService.
type MonitorService struct {
	Store  ToolStore
	Logger *zap.Logger
}

// NewMonitorService erstellt eine neue Instanz des MonitorService.
func NewMonitorService(store ToolStore, logger *zap.Logger) *MonitorService {
	return &MonitorService{Store: store, Logger: logger}
}

// Snapshot baut eine aktuelle Momentaufnahme aus dem Store. Teilfehler werden
// geloggt und lassen die übrigen Felder intakt, damit die Ansicht auch bei
// Störungen den letzten bekannten Stand zeigt.
func (m *MonitorService) Snapshot() (*MonitorSnapshot, error) {
	snapshot := &MonitorSnapshot{GeneratedAt: time.Now().UTC()}

	total, err := m.Store.CountAll()
	if err != nil {
		return nil, err
	}
	snapshot.TotalTools = total

	if added, err := m.Store.CountSince(time.Now().Add(-24 * time.Hour)); err != nil {
		m.Logger.Warn("Zählung der letzten 24h fehlgeschlagen", zap.Error(err))
	} else {
		snapshot.AddedLast24h = added
	}

	if sources, err := m.Store.ListSourceStatuses(); err != nil {
		m.Logger.Warn("Quellen-Status nicht abrufbar", zap.Error(err))
	} else {
		snapshot.Sources = sources
	}

	if trending, err := m.Store.ListTrending(10); err != nil {
		m.Logger.Warn("Trending-Liste nicht abrufbar", zap.Error(err))
	} else {
		snapshot.Trending = trending
	}

	if recent, err := m.Store.ListRecent(10, 7); err != nil {
		m.Logger.Warn("Recent-Liste nicht abrufbar", zap.Error(err))
	} else {
		snapshot.Recent = recent
	}

	return snapshot, nil
}
