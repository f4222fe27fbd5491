package models

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Pricing-Stufen für entdeckte Tools.
const (
	PricingFree       = "Free"
	PricingFreemium   = "Freemium"
	PricingPaid       = "Paid"
	PricingEnterprise = "Enterprise"
)

// Tool ist der kanonische, persistierte Datensatz eines entdeckten AI-Tools.
// Der Name ist der einzige Deduplizierungs-Schlüssel über alle Quellen hinweg.
type Tool struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name            string `json:"name" gorm:"uniqueIndex;not null"`
	Logo            string `json:"logo,omitempty"`
	Description     string `json:"description" gorm:"type:text"`
	LongDescription string `json:"long_description,omitempty" gorm:"type:text"`
	Category        string `json:"category" gorm:"index"`

	// Abgeleitete Signale. Rating und TrendingScore werden nie von Hand
	// gesetzt, sondern bei jedem Schreibvorgang neu berechnet.
	Rating        float64 `json:"rating"`
	ReviewCount   int     `json:"review_count" gorm:"default:0"`
	WeeklyUsers   int     `json:"weekly_users" gorm:"default:0"`
	Growth        string  `json:"growth,omitempty"` // z.B. "+23%"
	TrendingScore float64 `json:"trending_score" gorm:"index"`

	Website string `json:"website"`
	Pricing string `json:"pricing" gorm:"index"`

	Features     datatypes.JSON `json:"features,omitempty" gorm:"type:jsonb"`
	Pros         datatypes.JSON `json:"pros,omitempty" gorm:"type:jsonb"`
	Cons         datatypes.JSON `json:"cons,omitempty" gorm:"type:jsonb"`
	Alternatives datatypes.JSON `json:"alternatives,omitempty" gorm:"type:jsonb"`
	Tags         datatypes.JSON `json:"tags,omitempty" gorm:"type:jsonb"`

	SourceName string `json:"source_name" gorm:"index"`
}

// TableName gibt explizit den Tabellennamen an.
func (Tool) TableName() string {
	return "tools"
}

// BeforeSave berechnet den TrendingScore neu, sobald sich die zugrunde
// liegenden Felder ändern. Das ist Aufgabe der Store-Schicht, nicht der
// Pipeline.
func (t *Tool) BeforeSave(tx *gorm.DB) error {
	t.TrendingScore = t.ComputeTrendingScore()
	return nil
}

// AfterCreate schreibt genau einen Provenienz-Eintrag pro erfolgreichem Insert,
// in derselben Transaktion.
func (t *Tool) AfterCreate(tx *gorm.DB) error {
	event := DiscoveryEvent{
		ToolID:             t.ID,
		SourceName:         t.SourceName,
		DiscoveredAt:       time.Now().UTC(),
		InitialRating:      t.Rating,
		InitialReviewCount: t.ReviewCount,
	}
	return tx.Create(&event).Error
}

// ComputeTrendingScore gewichtet Rating, Review-Volumen, Nutzer-Volumen und
// Wachstum zu einem Score. Jeder Term ist nach oben gedeckelt, der Score damit
// monoton in jedem Einzelfeld.
func (t *Tool) ComputeTrendingScore() float64 {
	score := 0.4*t.Rating +
		0.2*capRatio(float64(t.ReviewCount), 1000) +
		0.2*capRatio(float64(t.WeeklyUsers), 10000) +
		0.2*capRatio(t.GrowthPercent(), 100)
	return math.Round(score*100) / 100
}

// GrowthPercent parst den Prozentwert aus dem Growth-String ("+23%" -> 23).
func (t *Tool) GrowthPercent() float64 {
	s := strings.TrimSpace(t.Growth)
	s = strings.TrimSuffix(s, "%")
	s = strings.TrimPrefix(s, "+")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

func capRatio(value, denominator float64) float64 {
	return math.Min(value/denominator, 1.0)
}

// JSONList serialisiert eine String-Liste für eine jsonb-Spalte.
func JSONList(items []string) datatypes.JSON {
	if len(items) == 0 {
		return nil
	}
	b, err := json.Marshal(items)
	if err != nil {
		return nil
	}
	return datatypes.JSON(b)
}
