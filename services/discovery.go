package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"tool-radar/config"
	"tool-radar/models"
	"tool-radar/providers"
	"tool-radar/storage"
)

// ErrRunInProgress wird zurückgegeben, wenn bereits ein Discovery-Lauf läuft.
// Läufe werden serialisiert statt überlappend gestartet.
var ErrRunInProgress = errors.New("discovery run already in progress")

// ErrContinuousActive wird zurückgegeben, wenn der Dauerbetrieb schon läuft.
var ErrContinuousActive = errors.New("continuous mode already active")

// ToolStore ist der Vertrag, den die Pipeline vom Persistenz-Gateway braucht.
type ToolStore interface {
	FindByName(name string) (*models.Tool, error)
	Insert(tool *models.Tool) error
	UpsertSourceStatus(status *models.DiscoverySourceStatus) error
	ListSourceStatuses() ([]models.DiscoverySourceStatus, error)
	CountAll() (int64, error)
	CountSince(since time.Time) (int64, error)
	ListTrending(limit int) ([]models.Tool, error)
	ListRecent(limit, windowDays int) ([]models.Tool, error)
	ListAll() ([]models.Tool, error)
}

// SourceResult hält das Ergebnis einer einzelnen Quelle innerhalb eines Laufs.
type SourceResult struct {
	Found int    `json:"found"`
	Added int    `json:"added"`
	Error string `json:"error,omitempty"`
}

// RunResult fasst einen kompletten Discovery-Lauf zusammen.
type RunResult struct {
	StartedAt  time.Time                `json:"started_at"`
	FinishedAt time.Time                `json:"finished_at"`
	Found      int                      `json:"found"`
	Accepted   int                      `json:"accepted"`
	Added      int                      `json:"added"`
	Duplicates int                      `json:"duplicates"`
	Failed     int                      `json:"failed"`
	Sources    map[string]*SourceResult `json:"sources"`
}

// runSnapshot ist das Backup-Artefakt, das nach jedem Lauf ins S3 geschrieben wird.
type runSnapshot struct {
	Timestamp     time.Time     `json:"timestamp"`
	TotalTools    int64         `json:"total_tools"`
	NewToolsAdded int           `json:"new_tools_added"`
	Tools         []models.Tool `json:"tools"`
}

// DiscoveryService orchestriert einen Pipeline-Lauf: Fan-Out über alle Quellen,
// Fan-In, Klassifizierung, Kanonisierung und der sequenzielle
// Dedup-und-Insert-Schritt. Der Service besitzt den Quellen-Status exklusiv;
// der Monitor liest nur Snapshots aus dem Store.
type DiscoveryService struct {
	Config    *config.Config
	Store     ToolStore
	S3Client  *s3.Client
	Logger    *zap.Logger
	Providers []providers.Provider
	Enricher  Enricher

	runMu        sync.Mutex
	continuousOn atomic.Bool
}

// NewDiscoveryService erstellt eine neue Instanz des DiscoveryService.
func NewDiscoveryService(cfg *config.Config, store ToolStore, s3Client *s3.Client, logger *zap.Logger, provs []providers.Provider, enricher Enricher) *DiscoveryService {
	return &DiscoveryService{
		Config:    cfg,
		Store:     store,
		S3Client:  s3Client,
		Logger:    logger,
		Providers: provs,
		Enricher:  enricher,
	}
}

// Run führt genau einen Discovery-Lauf aus. Läuft bereits einer, wird mit
// ErrRunInProgress abgebrochen statt zu überlappen.
func (d *DiscoveryService) Run(ctx context.Context) (*RunResult, error) {
	if !d.runMu.TryLock() {
		return nil, ErrRunInProgress
	}
	defer d.runMu.Unlock()

	log := d.Logger
	log.Info("Starte Discovery-Lauf", zap.Int("sources", len(d.Providers)))

	result := &RunResult{
		StartedAt: time.Now().UTC(),
		Sources:   make(map[string]*SourceResult, len(d.Providers)),
	}

	merged := d.fetchAll(ctx, result)
	result.Found = len(merged)
	toolsDiscoveredCounter.Add(float64(len(merged)))

	// Klassifizierung, Kategorie, Normalisierung und Kanonisierung sind pure
	// Schritte ohne geteilten Zustand und laufen sequenziell über die Liste.
	var accepted []*models.Tool
	for i := range merged {
		candidate := &merged[i]
		if !IsAITool(candidate.Name, candidate.Description, candidate.Topics, candidate.Website, candidate.SourceName) {
			continue
		}
		accepted = append(accepted, d.canonicalize(candidate))
	}
	result.Accepted = len(accepted)

	d.persist(accepted, result)

	for name, src := range result.Sources {
		if src.Error != "" {
			continue
		}
		now := time.Now().UTC()
		status := &models.DiscoverySourceStatus{
			SourceName: name,
			LastFetch:  &now,
			ToolsFound: src.Found,
			ToolsAdded: src.Added,
			Status:     models.SourceStatusSuccess,
		}
		if err := d.Store.UpsertSourceStatus(status); err != nil {
			log.Warn("Status-Update nach Persistenz fehlgeschlagen", zap.String("source", name), zap.Error(err))
		}
	}

	result.FinishedAt = time.Now().UTC()
	log.Info("Discovery-Lauf abgeschlossen",
		zap.Int("found", result.Found),
		zap.Int("accepted", result.Accepted),
		zap.Int("added", result.Added),
		zap.Int("duplicates", result.Duplicates),
		zap.Duration("duration", result.FinishedAt.Sub(result.StartedAt)))

	d.uploadSnapshot(result)
	return result, nil
}

// fetchAll führt den Fan-Out über alle Quellen aus und wartet als Barriere,
// bis jede Quelle abgeschlossen ist. Jede Quelle isoliert ihren eigenen
// Fehler; eine langsame oder kaputte Quelle bricht die anderen nicht ab.
func (d *DiscoveryService) fetchAll(ctx context.Context, result *RunResult) []models.RawCandidate {
	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		merged []models.RawCandidate
	)

	// Erst alle Quellen registrieren, dann starten: die Goroutines lesen die
	// Sources-Map, deshalb darf sie danach nicht mehr wachsen.
	for _, p := range d.Providers {
		result.Sources[p.Name()] = &SourceResult{}

		now := time.Now().UTC()
		if err := d.Store.UpsertSourceStatus(&models.DiscoverySourceStatus{
			SourceName: p.Name(),
			LastFetch:  &now,
			Status:     models.SourceStatusFetching,
		}); err != nil {
			d.Logger.Warn("Status-Update vor Fetch fehlgeschlagen", zap.String("source", p.Name()), zap.Error(err))
		}
	}

	for _, p := range d.Providers {
		wg.Add(1)
		go func(p providers.Provider) {
			defer wg.Done()

			candidates, err := p.Fetch(ctx)
			finished := time.Now().UTC()

			mu.Lock()
			defer mu.Unlock()

			src := result.Sources[p.Name()]
			if err != nil {
				src.Error = err.Error()
				d.Logger.Warn("Quelle nicht verfügbar", zap.String("source", p.Name()), zap.Error(err))
				if upsertErr := d.Store.UpsertSourceStatus(&models.DiscoverySourceStatus{
					SourceName: p.Name(),
					LastFetch:  &finished,
					Status:     models.SourceStatusError,
				}); upsertErr != nil {
					d.Logger.Warn("Status-Update nach Fehler fehlgeschlagen", zap.String("source", p.Name()), zap.Error(upsertErr))
				}
				return
			}

			src.Found = len(candidates)
			merged = append(merged, candidates...)
		}(p)
	}

	wg.Wait()
	return merged
}

// canonicalize baut aus einem akzeptierten Kandidaten den vollständigen
// kanonischen Datensatz. Pflichtfelder kommen direkt aus dem Kandidaten mit
// textuellen Fallbacks, offene optionale Felder füllt der Enricher.
func (d *DiscoveryService) canonicalize(candidate *models.RawCandidate) *models.Tool {
	name := strings.TrimSpace(candidate.Name)

	description := strings.TrimSpace(candidate.Description)
	if description == "" {
		description = name
	}
	longDescription := strings.TrimSpace(candidate.LongDescription)
	if longDescription == "" {
		longDescription = description
	}

	category := DetectCategory(name+" "+description, candidate.Topics)

	tool := &models.Tool{
		Name:            name,
		Description:     description,
		LongDescription: longDescription,
		Category:        category,
		Rating:          Rating(candidate),
		ReviewCount:     int(candidate.Metric("comments")),
		Website:         candidate.Website,
		SourceName:      candidate.SourceName,
		Tags:            models.JSONList([]string{"AI", category, candidate.SourceName}),
	}
	d.Enricher.Enrich(tool, category)
	return tool
}

// persist führt den sequenziellen Dedup-und-Insert-Schritt aus: ein blockierender
// Roundtrip pro Kandidat, Fehler pro Kandidat isoliert.
func (d *DiscoveryService) persist(tools []*models.Tool, result *RunResult) {
	for _, tool := range tools {
		existing, err := d.Store.FindByName(tool.Name)
		if err != nil {
			d.Logger.Error("Dedup-Abfrage fehlgeschlagen", zap.String("tool", tool.Name), zap.Error(err))
			result.Failed++
			continue
		}
		if existing != nil {
			result.Duplicates++
			toolsDuplicateCounter.Inc()
			continue
		}

		if err := d.Store.Insert(tool); err != nil {
			d.Logger.Error("Insert fehlgeschlagen", zap.String("tool", tool.Name), zap.Error(err))
			result.Failed++
			continue
		}

		result.Added++
		toolsInsertedCounter.Inc()
		if src, ok := result.Sources[tool.SourceName]; ok {
			src.Added++
		}
		d.Logger.Info("Neues Tool entdeckt",
			zap.String("tool", tool.Name),
			zap.String("category", tool.Category),
			zap.String("source", tool.SourceName))
	}
}

// uploadSnapshot schreibt das Backup-Artefakt des Laufs ins S3. Best effort:
// ein Fehler hier bricht nichts ab.
func (d *DiscoveryService) uploadSnapshot(result *RunResult) {
	if d.S3Client == nil {
		return
	}

	tools, err := d.Store.ListAll()
	if err != nil {
		d.Logger.Warn("Snapshot-Export fehlgeschlagen", zap.Error(err))
		return
	}

	snapshot := runSnapshot{
		Timestamp:     result.FinishedAt,
		TotalTools:    int64(len(tools)),
		NewToolsAdded: result.Added,
		Tools:         tools,
	}
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		d.Logger.Warn("Snapshot-Serialisierung fehlgeschlagen", zap.Error(err))
		return
	}

	key := fmt.Sprintf("snapshots/discovery-%s.json", result.FinishedAt.Format("2006-01-02T15-04-05Z"))
	link, err := storage.UploadFile(d.S3Client, d.Config.SnapshotS3Bucket, key, data, d.Config)
	if err != nil {
		d.Logger.Warn("Snapshot-Upload fehlgeschlagen", zap.Error(err))
		return
	}
	d.Logger.Info("Snapshot hochgeladen", zap.String("link", link))
}

// StartContinuous startet den Dauerbetrieb: sofort ein Lauf, danach einer pro
// Intervall, bis der Kontext beendet wird. Ein zweiter Start ist ein Fehler.
func (d *DiscoveryService) StartContinuous(ctx context.Context, interval time.Duration) error {
	if !d.continuousOn.CompareAndSwap(false, true) {
		return ErrContinuousActive
	}

	d.Logger.Info("Dauerbetrieb gestartet", zap.Duration("interval", interval))
	go func() {
		defer d.continuousOn.Store(false)

		d.runLogged(ctx)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				d.Logger.Info("Dauerbetrieb beendet")
				return
			case <-ticker.C:
				d.runLogged(ctx)
			}
		}
	}()
	return nil
}

// runLogged führt einen Lauf aus und behandelt das Überspringen bei
// bereits laufendem Lauf als normalen Fall.
func (d *DiscoveryService) runLogged(ctx context.Context) {
	if _, err := d.Run(ctx); err != nil {
		if errors.Is(err, ErrRunInProgress) {
			d.Logger.Warn("Lauf übersprungen: vorheriger Lauf ist noch aktiv")
			return
		}
		d.Logger.Error("Discovery-Lauf fehlgeschlagen", zap.Error(err))
	}
}
