package models

import "time"

// DiscoveryEvent ist das Append-Only-Provenienzlog: welcher Quelle ein Tool
// wann entdeckt wurde und mit welchen Startwerten. Nach dem Anlegen unveränderlich;
// verschwindet nur per Cascade, wenn das zugehörige Tool gelöscht wird.
type DiscoveryEvent struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`

	ToolID             uint      `json:"tool_id" gorm:"index;not null"`
	Tool               *Tool     `json:"-" gorm:"foreignKey:ToolID;constraint:OnDelete:CASCADE"`
	SourceName         string    `json:"source_name" gorm:"index"`
	DiscoveredAt       time.Time `json:"discovered_at"`
	InitialRating      float64   `json:"initial_rating"`
	InitialReviewCount int       `json:"initial_review_count"`
}

// TableName gibt den expliziten Tabellennamen für GORM an.
func (DiscoveryEvent) TableName() string {
	return "discovery_events"
}
