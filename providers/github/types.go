// Package github enthält die Logik für die GitHub Repository-Suche.
package github

import "time"

// SearchResponse ist die Top-Level-Struktur der GitHub Search API.
type SearchResponse struct {
	TotalCount int          `json:"total_count"`
	Items      []Repository `json:"items"`
}

// Repository repräsentiert ein einzelnes Repository im Suchergebnis.
type Repository struct {
	Name            string    `json:"name"`
	FullName        string    `json:"full_name"`
	Description     string    `json:"description"`
	HTMLURL         string    `json:"html_url"`
	Homepage        string    `json:"homepage"`
	StargazersCount int       `json:"stargazers_count"`
	ForksCount      int       `json:"forks_count"`
	Topics          []string  `json:"topics"`
	CreatedAt       time.Time `json:"created_at"`
}
