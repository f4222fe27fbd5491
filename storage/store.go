package storage

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tool-radar/models"
)

// Store ist das Persistenz-Gateway der Pipeline. Trending-Score-Neuberechnung
// und das Provenienzlog hängen als GORM-Hooks am Tool-Modell und laufen damit
// auf Store-Seite, nicht in der Pipeline.
type Store struct {
	DB *gorm.DB
}

// NewStore erstellt ein Persistenz-Gateway über der gegebenen Datenbank.
func NewStore(db *gorm.DB) *Store {
	return &Store{DB: db}
}

// FindByName sucht ein Tool über den exakten Namen. Gibt (nil, nil) zurück,
// wenn kein Datensatz existiert.
func (s *Store) FindByName(name string) (*models.Tool, error) {
	var tool models.Tool
	err := s.DB.Where("name = ?", name).First(&tool).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find tool by name: %w", err)
	}
	return &tool, nil
}

// Insert legt ein neues Tool an. Der AfterCreate-Hook schreibt in derselben
// Transaktion den Provenienz-Eintrag.
func (s *Store) Insert(tool *models.Tool) error {
	if err := s.DB.Create(tool).Error; err != nil {
		return fmt.Errorf("insert tool: %w", err)
	}
	return nil
}

// UpsertSourceStatus aktualisiert die Status-Zeile einer Quelle oder legt sie an.
func (s *Store) UpsertSourceStatus(status *models.DiscoverySourceStatus) error {
	err := s.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "source_name"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"last_fetch", "tools_found", "tools_added", "status", "updated_at",
		}),
	}).Create(status).Error
	if err != nil {
		return fmt.Errorf("upsert source status: %w", err)
	}
	return nil
}

// ListSourceStatuses liefert die Status-Zeilen aller bekannten Quellen.
func (s *Store) ListSourceStatuses() ([]models.DiscoverySourceStatus, error) {
	var statuses []models.DiscoverySourceStatus
	if err := s.DB.Order("source_name asc").Find(&statuses).Error; err != nil {
		return nil, fmt.Errorf("list source statuses: %w", err)
	}
	return statuses, nil
}

// CountAll zählt alle persistierten Tools.
func (s *Store) CountAll() (int64, error) {
	var count int64
	if err := s.DB.Model(&models.Tool{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count tools: %w", err)
	}
	return count, nil
}

// CountSince zählt die seit dem Zeitpunkt angelegten Tools.
func (s *Store) CountSince(since time.Time) (int64, error) {
	var count int64
	err := s.DB.Model(&models.Tool{}).Where("created_at >= ?", since).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count tools since: %w", err)
	}
	return count, nil
}

// ListTrending liefert die Tools mit den höchsten Trending-Scores.
func (s *Store) ListTrending(limit int) ([]models.Tool, error) {
	var tools []models.Tool
	err := s.DB.Order("trending_score desc, rating desc").Limit(limit).Find(&tools).Error
	if err != nil {
		return nil, fmt.Errorf("list trending: %w", err)
	}
	return tools, nil
}

// ListRecent liefert die jüngsten Entdeckungen innerhalb des Zeitfensters.
func (s *Store) ListRecent(limit, windowDays int) ([]models.Tool, error) {
	cutoff := time.Now().AddDate(0, 0, -windowDays)
	var tools []models.Tool
	err := s.DB.Where("created_at >= ?", cutoff).
		Order("created_at desc").Limit(limit).Find(&tools).Error
	if err != nil {
		return nil, fmt.Errorf("list recent: %w", err)
	}
	return tools, nil
}

// ListAll liefert alle Tools, sortiert nach Anlagezeitpunkt. Wird vom
// Snapshot-Export und vom Backup-Binary genutzt.
func (s *Store) ListAll() ([]models.Tool, error) {
	var tools []models.Tool
	if err := s.DB.Order("created_at asc").Find(&tools).Error; err != nil {
		return nil, fmt.Errorf("list all tools: %w", err)
	}
	return tools, nil
}
