package reddit

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"tool-radar/config"
	"tool-radar/models"
	"tool-radar/providers"
)

var defaultClient = &http.Client{Timeout: 30 * time.Second}

// Fetcher implementiert das Provider-Interface für Reddit. Die konfigurierte
// Board-Liste wird sequenziell abgearbeitet; ein fehlschlagendes Board wird
// übersprungen, ohne die übrigen abzubrechen.
type Fetcher struct {
	Config *config.Config
	Logger *zap.Logger
	client *http.Client
}

// NewFetcher erstellt einen neuen Reddit Fetcher.
func NewFetcher(cfg *config.Config, logger *zap.Logger) *Fetcher {
	return &Fetcher{Config: cfg, Logger: logger, client: defaultClient}
}

// Name gibt den Namen der Quelle zurück.
func (f *Fetcher) Name() string {
	return providers.SourceReddit
}

// Fetch holt die Hot-Listings aller konfigurierten Boards. Fallback bei
// Totalausfall ist die leere Liste.
func (f *Fetcher) Fetch(ctx context.Context) ([]models.RawCandidate, error) {
	log := f.Logger.With(zap.String("source", f.Name()))
	log.Info("Starte Reddit Fetch über alle Boards.")

	var candidates []models.RawCandidate
	for _, board := range strings.Split(f.Config.RedditBoards, ",") {
		board = strings.TrimSpace(board)
		if board == "" {
			continue
		}
		posts, err := f.fetchBoard(ctx, board)
		if err != nil {
			log.Warn("Board-Fetch fehlgeschlagen, überspringe Board",
				zap.String("board", board), zap.Error(err))
			continue
		}
		for i := range posts {
			candidates = append(candidates, mapPostToCandidate(&posts[i]))
		}
		log.Debug("Board abgeschlossen", zap.String("board", board), zap.Int("posts", len(posts)))
	}

	log.Info("Reddit Fetch abgeschlossen", zap.Int("candidates", len(candidates)))
	return candidates, nil
}

// fetchBoard holt das Hot-Listing eines einzelnen Boards.
func (f *Fetcher) fetchBoard(ctx context.Context, board string) ([]Post, error) {
	listingURL := fmt.Sprintf("%s/r/%s/hot.json?limit=%d", f.Config.RedditBaseURL, board, f.Config.RedditLimit)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, listingURL, nil)
	if err != nil {
		return nil, err
	}
	// Reddit blockt Default-Go-User-Agents.
	req.Header.Set("User-Agent", "tool-radar/1.0 (discovery pipeline)")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("reddit listing failed: status %d", resp.StatusCode)
	}

	var listing ListingResponse
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		return nil, err
	}

	posts := make([]Post, 0, len(listing.Data.Children))
	for _, child := range listing.Data.Children {
		posts = append(posts, child.Data)
	}
	return posts, nil
}

// mapPostToCandidate konvertiert einen Beitrag in unser RawCandidate-Modell.
func mapPostToCandidate(post *Post) models.RawCandidate {
	description := post.SelfText
	if description == "" {
		description = post.Title
	}
	if len(description) > 500 {
		cut := 500
		// Nicht mitten in einer Multi-Byte-Rune schneiden.
		for cut > 0 && !utf8.RuneStart(description[cut]) {
			cut--
		}
		description = description[:cut]
	}

	return models.RawCandidate{
		SourceName:  providers.SourceReddit,
		Name:        post.Title,
		Description: description,
		Website:     post.URL,
		Metrics: map[string]float64{
			"upvotes":  float64(post.Ups),
			"comments": float64(post.NumComments),
		},
		Topics:    []string{post.Subreddit},
		CreatedAt: time.Unix(int64(post.CreatedUTC), 0).UTC(),
		Extra:     map[string]any{"permalink": post.Permalink},
	}
}
