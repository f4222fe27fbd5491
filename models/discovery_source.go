package models

import "time"

// Status-Werte einer Discovery-Quelle.
const (
	SourceStatusIdle     = "idle"
	SourceStatusFetching = "fetching"
	SourceStatusSuccess  = "success"
	SourceStatusError    = "error"
)

// DiscoverySourceStatus hält den Beobachtungszustand einer Quelle: eine Zeile
// pro bekannter Quelle, vor und nach jedem Fetch-Versuch per Upsert
// aktualisiert. Reine Observability, keine Pipeline-Logik hängt daran.
type DiscoverySourceStatus struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	SourceName string     `json:"source_name" gorm:"uniqueIndex;not null"`
	LastFetch  *time.Time `json:"last_fetch,omitempty"`
	ToolsFound int        `json:"tools_found" gorm:"default:0"`
	ToolsAdded int        `json:"tools_added" gorm:"default:0"`
	Status     string     `json:"status" gorm:"default:'idle'"`
}

// TableName gibt den expliziten Tabellennamen für GORM an.
func (DiscoverySourceStatus) TableName() string {
	return "discovery_source_statuses"
}
