package hackernews

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"tool-radar/config"
	"tool-radar/models"
	"tool-radar/providers"
)

var defaultClient = &http.Client{Timeout: 30 * time.Second}

// Fetcher implementiert das Provider-Interface für Hacker News. Der Fetch ist
// zweiphasig: erst die gerankte ID-Liste, dann ein begrenzter Präfix einzeln.
type Fetcher struct {
	Config *config.Config
	Logger *zap.Logger
	client *http.Client
}

// NewFetcher erstellt einen neuen Hacker News Fetcher.
func NewFetcher(cfg *config.Config, logger *zap.Logger) *Fetcher {
	return &Fetcher{Config: cfg, Logger: logger, client: defaultClient}
}

// Name gibt den Namen der Quelle zurück.
func (f *Fetcher) Name() string {
	return providers.SourceHackerNews
}

// Fetch holt die Top-Stories. Ein fehlschlagender Einzelabruf wird still
// übersprungen; Fallback bei Totalausfall ist die leere Liste.
func (f *Fetcher) Fetch(ctx context.Context) ([]models.RawCandidate, error) {
	log := f.Logger.With(zap.String("source", f.Name()))
	log.Info("Starte Hacker News Fetch.")

	ids, err := f.fetchTopIDs(ctx)
	if err != nil {
		log.Warn("Top-Stories nicht erreichbar, liefere leere Liste", zap.Error(err))
		return nil, nil
	}
	if len(ids) > f.Config.HackerNewsTopLimit {
		ids = ids[:f.Config.HackerNewsTopLimit]
	}

	var (
		mu         sync.Mutex
		wg         sync.WaitGroup
		candidates []models.RawCandidate
	)
	semaphore := make(chan struct{}, 5) // Parallele Einzelabrufe limitieren

	for _, id := range ids {
		wg.Add(1)
		semaphore <- struct{}{}

		go func(id int) {
			defer wg.Done()
			defer func() { <-semaphore }()

			item, err := f.fetchItem(ctx, id)
			if err != nil {
				log.Debug("Einzelabruf fehlgeschlagen, überspringe Item", zap.Int("id", id), zap.Error(err))
				return
			}
			if item.Type != "story" || item.Title == "" {
				return
			}
			mu.Lock()
			candidates = append(candidates, mapItemToCandidate(item))
			mu.Unlock()
		}(id)
	}
	wg.Wait()

	// Reihenfolge nach Punkten stabil halten; die Goroutines liefern unsortiert.
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].Metric("points") > candidates[j].Metric("points")
	})

	log.Info("Hacker News Fetch abgeschlossen", zap.Int("candidates", len(candidates)))
	return candidates, nil
}

// fetchTopIDs holt die gerankte Liste der Top-Story-IDs.
func (f *Fetcher) fetchTopIDs(ctx context.Context) ([]int, error) {
	topURL := f.Config.HackerNewsBaseURL + "/topstories.json"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, topURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("topstories failed: status %d", resp.StatusCode)
	}

	var ids []int
	if err := json.NewDecoder(resp.Body).Decode(&ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// fetchItem holt eine einzelne Story.
func (f *Fetcher) fetchItem(ctx context.Context, id int) (*Item, error) {
	itemURL := fmt.Sprintf("%s/item/%d.json", f.Config.HackerNewsBaseURL, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, itemURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("item %d failed: status %d", id, resp.StatusCode)
	}

	var item Item
	if err := json.NewDecoder(resp.Body).Decode(&item); err != nil {
		return nil, err
	}
	return &item, nil
}

// mapItemToCandidate konvertiert eine Story in unser RawCandidate-Modell.
func mapItemToCandidate(item *Item) models.RawCandidate {
	description := item.Text
	if description == "" {
		description = item.Title
	}

	return models.RawCandidate{
		SourceName:  providers.SourceHackerNews,
		Name:        item.Title,
		Description: description,
		Website:     item.URL,
		Metrics: map[string]float64{
			"points":   float64(item.Score),
			"comments": float64(item.Descendants),
		},
		CreatedAt: time.Unix(item.Time, 0).UTC(),
		Extra:     map[string]any{"hn_id": item.ID},
	}
}
