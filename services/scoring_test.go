package services

import (
	"testing"

	"tool-radar/models"
	"tool-radar/providers"
)

func TestRating(t *testing.T) {
	tests := []struct {
		name       string
		sourceName string
		metrics    map[string]float64
		want       float64
	}{
		{
			name:       "no engagement stays at floor",
			sourceName: providers.SourceProductHunt,
			metrics:    map[string]float64{},
			want:       4.0,
		},
		{
			name:       "nil metrics stay at floor",
			sourceName: providers.SourceGitHub,
			metrics:    nil,
			want:       4.0,
		},
		{
			name:       "producthunt half engagement",
			sourceName: providers.SourceProductHunt,
			metrics:    map[string]float64{"votes": 50, "comments": 25},
			want:       4.5,
		},
		{
			name:       "producthunt capped at ceiling",
			sourceName: providers.SourceProductHunt,
			metrics:    map[string]float64{"votes": 100, "comments": 50},
			want:       5.0,
		},
		{
			name:       "excess engagement does not exceed ceiling",
			sourceName: providers.SourceProductHunt,
			metrics:    map[string]float64{"votes": 100000, "comments": 100000},
			want:       5.0,
		},
		{
			name:       "github uses stars and forks",
			sourceName: providers.SourceGitHub,
			metrics:    map[string]float64{"stars": 500, "forks": 50},
			want:       4.5,
		},
		{
			name:       "reddit uses upvotes and comments",
			sourceName: providers.SourceReddit,
			metrics:    map[string]float64{"upvotes": 100, "comments": 0},
			want:       4.5,
		},
		{
			name:       "hackernews uses points and comments",
			sourceName: providers.SourceHackerNews,
			metrics:    map[string]float64{"points": 50, "comments": 25},
			want:       4.5,
		},
		{
			name:       "unknown source falls back to default profile",
			sourceName: "rss",
			metrics:    map[string]float64{"votes": 100, "comments": 100},
			want:       5.0,
		},
		{
			name:       "rounded to one decimal",
			sourceName: providers.SourceProductHunt,
			metrics:    map[string]float64{"votes": 13, "comments": 0},
			want:       4.1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			candidate := &models.RawCandidate{SourceName: tt.sourceName, Metrics: tt.metrics}
			got := Rating(candidate)
			if got != tt.want {
				t.Errorf("Rating() = %v, want %v", got, tt.want)
			}
		})
	}
}

// Ein Rating liegt für beliebige Metriken immer in [4.0, 5.0].
func TestRatingBounds(t *testing.T) {
	metrics := []map[string]float64{
		nil,
		{"votes": -10},
		{"votes": 1e12, "comments": 1e12},
		{"stars": 3, "forks": 9999999},
	}
	for _, m := range metrics {
		for _, source := range []string{providers.SourceProductHunt, providers.SourceGitHub, providers.SourceReddit, providers.SourceHackerNews, "rss"} {
			got := Rating(&models.RawCandidate{SourceName: source, Metrics: m})
			if got < 4.0 || got > 5.0 {
				t.Errorf("Rating(%s, %v) = %v, outside [4.0, 5.0]", source, m, got)
			}
		}
	}
}
